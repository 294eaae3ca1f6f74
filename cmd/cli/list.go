package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ouchiface/catalog/cmd"
	"github.com/ouchiface/catalog/internal/config"
	apperrors "github.com/ouchiface/catalog/internal/errors"
	"github.com/ouchiface/catalog/internal/repository"
	"github.com/ouchiface/catalog/internal/services"
)

var (
	listSearchFlag string
	listTypeFlag   string
)

// ListCmd représente la commande 'list'
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged resources",
	Long: `List the resources stored in the catalog, most recently updated
first. Supports the same filters as the web interface: a case-insensitive
name search and an exact type filter.`,
	Run: runList,
}

func init() {
	ListCmd.Flags().StringVar(&listSearchFlag, "search", "", "Case-insensitive substring match on the resource name")
	ListCmd.Flags().StringVar(&listTypeFlag, "type", "", "Filter by resource type: app, dataset or repository")

	cmd.RootCmd.AddCommand(ListCmd)
}

// runList exécute la logique pour la commande list
func runList(cmd *cobra.Command, args []string) {
	// Charger la configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Échec du chargement de la configuration : %v", err)
	}

	if dir := filepath.Dir(cfg.Database.Name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create database directory: %v", err)
		}
	}

	// Initialiser la base de données
	db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
	if err != nil {
		log.Fatalf("Échec de la connexion à la base de données : %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Échec de l'obtention de la base de données SQL sous-jacente: %v", err)
	}
	defer sqlDB.Close()

	// Initialiser le repository et le service nécessaires
	resourceRepo := repository.NewResourceRepository(db)
	resourceService := services.NewResourceService(resourceRepo)

	// The CLI is strict about the type filter, like the JSON API
	resources, err := resourceService.List(listSearchFlag, listTypeFlag, true)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidResourceType) {
			fmt.Printf("Error: unknown resource type '%s' (expected app, dataset or repository)\n", listTypeFlag)
		} else {
			fmt.Printf("Error listing resources: %v\n", err)
		}
		os.Exit(1)
	}

	if len(resources) == 0 {
		fmt.Println("No resources found.")
		return
	}

	// Afficher les résultats
	fmt.Printf("%d resource(s):\n", len(resources))
	for _, resource := range resources {
		fmt.Printf("  [%d] %s (%s) - updated %s\n",
			resource.ID, resource.Name, resource.ResourceType.Label(),
			resource.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}
