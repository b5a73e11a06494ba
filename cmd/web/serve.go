package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jobnest_backend/internal/app"
	"jobnest_backend/internal/database"
	"jobnest_backend/internal/logger"

	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Run migrations and seed the question bank before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveMigrate {
		if err := database.AutoMigrate(application.DB()); err != nil {
			return err
		}
		if _, err := database.SeedQuestions(ctx, application.DB()); err != nil {
			return err
		}
		logger.Info("Database migrated and seeded")
	}

	return application.Run(ctx)
}

// contextOrBackground is used by commands that may run without cobra's context.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
