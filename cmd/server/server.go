package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ouchiface/catalog/cmd"
	"github.com/ouchiface/catalog/internal/api"
	"github.com/ouchiface/catalog/internal/config"
	"github.com/ouchiface/catalog/internal/models"
	"github.com/ouchiface/catalog/internal/readme"
	"github.com/ouchiface/catalog/internal/repository"
	"github.com/ouchiface/catalog/internal/services"
)

// RunServerCmd représente la commande 'run-server' de Cobra.
// C'est le point d'entrée pour lancer le serveur de l'application.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Lance le serveur web du catalogue de ressources.",
	Long: `Cette commande initialise la base de données, configure les pages web
et l'API JSON, puis lance le serveur HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Charger la configuration
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Échec du chargement de la configuration : %v", err)
		}

		// Initialiser la base de données
		db, err := openDatabase(cfg)
		if err != nil {
			log.Fatalf("Échec de la connexion à la base de données : %v", err)
		}

		// Migration automatique du modèle
		if err := db.AutoMigrate(&models.Resource{}); err != nil {
			log.Fatalf("Échec de la migration de la base de données : %v", err)
		}

		// Initialiser le repository et le service métier
		resourceRepo := repository.NewResourceRepository(db)
		resourceService := services.NewResourceService(resourceRepo)
		log.Println("Repository et service initialisés.")

		// Initialiser le fetcher de README avec son timeout configuré
		fetcher := readme.NewFetcher(time.Duration(cfg.Readme.TimeoutSeconds) * time.Second)

		// Configurer le routeur Gin, les templates HTML et les handlers.
		router := gin.Default()
		router.LoadHTMLGlob("templates/*.html")
		api.SetupRoutes(router, resourceService, fetcher)
		log.Println("Routes configurées.")

		// Créer le serveur HTTP Gin
		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		// Démarrer le serveur Gin dans une goroutine anonyme pour ne pas bloquer.
		go func() {
			log.Printf("Démarrage du serveur sur %s", serverAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Échec du démarrage du serveur : %v", err)
			}
		}()

		// Gérer l'arrêt propre du serveur (graceful shutdown).
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		// Bloquer jusqu'à ce qu'un signal d'arrêt soit reçu.
		<-quit
		log.Println("Signal d'arrêt reçu. Arrêt du serveur...")

		// Arrêt propre du serveur HTTP avec un timeout.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Erreur lors de l'arrêt du serveur : %v", err)
		}

		log.Println("Serveur arrêté proprement.")
	},
}

// openDatabase opens the configured SQLite database, creating the parent
// directory of the database file when it does not exist yet.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.Database.Name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	return gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
