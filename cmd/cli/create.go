package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ouchiface/catalog/cmd"
	"github.com/ouchiface/catalog/internal/config"
	"github.com/ouchiface/catalog/internal/repository"
	"github.com/ouchiface/catalog/internal/services"
)

var (
	createNameFlag        string
	createTypeFlag        string
	createDescriptionFlag string
	createLinkURLFlag     string
	createLocationFlag    string
	createIconURLFlag     string
	createRepoURLFlag     string
)

// CreateCmd représente la commande 'create'
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Enregistre une nouvelle ressource dans le catalogue.",
	Long: `Cette commande enregistre une ressource (app, dataset ou repository)
dans le catalogue sans passer par l'interface web.

Exemple:
  catalog create --name="Stable Diffusion WebUI" --type=app --description="Image generation UI" --repo-url="https://github.com/AUTOMATIC1111/stable-diffusion-webui"`,
	Run: func(cmd *cobra.Command, args []string) {
		// Charger la configuration
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		if dir := filepath.Dir(cfg.Database.Name); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatalf("Failed to create database directory: %v", err)
			}
		}

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: Échec de l'obtention de la base de données SQL sous-jacente: %v", err)
		}
		defer sqlDB.Close()

		// Initialiser le repository et le service nécessaires
		resourceRepo := repository.NewResourceRepository(db)
		resourceService := services.NewResourceService(resourceRepo)

		// The service applies the same validation and normalization the
		// web form goes through (enum membership, required fields,
		// empty-to-absent coercion)
		resource, err := resourceService.Create(services.ResourceInput{
			Name:         createNameFlag,
			ResourceType: createTypeFlag,
			Description:  createDescriptionFlag,
			LinkURL:      createLinkURLFlag,
			Location:     createLocationFlag,
			IconURL:      createIconURLFlag,
			RepoURL:      createRepoURLFlag,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Ressource créée avec succès:\n")
		fmt.Printf("ID: %d\n", resource.ID)
		fmt.Printf("Nom: %s\n", resource.Name)
		fmt.Printf("Type: %s\n", resource.ResourceType.Label())
		fmt.Printf("Page: %s/resources/%d\n", cfg.Server.BaseURL, resource.ID)
	},
}

func init() {
	CreateCmd.Flags().StringVar(&createNameFlag, "name", "", "Name of the resource")
	CreateCmd.Flags().StringVar(&createTypeFlag, "type", "", "Resource type: app, dataset or repository")
	CreateCmd.Flags().StringVar(&createDescriptionFlag, "description", "", "Description of the resource")
	CreateCmd.Flags().StringVar(&createLinkURLFlag, "link-url", "", "URL where the resource is reachable")
	CreateCmd.Flags().StringVar(&createLocationFlag, "location", "", "Where the resource is hosted (e.g. a machine name)")
	CreateCmd.Flags().StringVar(&createIconURLFlag, "icon-url", "", "URL of an icon image")
	CreateCmd.Flags().StringVar(&createRepoURLFlag, "repo-url", "", "URL of the source repository")

	CreateCmd.MarkFlagRequired("name")
	CreateCmd.MarkFlagRequired("type")
	CreateCmd.MarkFlagRequired("description")

	cmd.RootCmd.AddCommand(CreateCmd)
}
