package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for importing and managing job applications.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// Persistence is optional; without DATABASE_URL the server still
	// imports and prefills, it just cannot store applications
	databaseURL := os.Getenv("DATABASE_URL")

	cfg := server.Config{
		Port:        servePort,
		DatabaseURL: databaseURL,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
