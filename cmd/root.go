package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/ouchiface/catalog/internal/config"
	"github.com/spf13/cobra"
)

// Cfg is the global variable that will contain the loaded configuration
// It will be accessible to all Cobra commands throughout the application
var Cfg *config.Config

// RootCmd is the base command for the CLI application
// All other commands (run-server, create, list, migrate) are added as subcommands
var RootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "A personal catalog of self-hosted and home-lab resources",
	Long: `A personal catalog of self-hosted and home-lab resources (apps, datasets,
repositories) with a web interface, a JSON API and README enrichment for
linked repositories.`,
}

// Execute is the main entry point for the Cobra application
// It is called from 'main.go' and handles command execution and error handling
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Set up configuration initialization to run before any command executes
	cobra.OnInitialize(initConfig)

	// Subcommands register themselves via their own init() functions,
	// which keeps the command packages decoupled from this one.
}

// initConfig loads the application configuration
// This function is called at the beginning of every Cobra command execution
// thanks to `cobra.OnInitialize(initConfig)` set up above
func initConfig() {
	var err error

	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Problem loading configuration: %v. Using default values.", err)
	}
}
