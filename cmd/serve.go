package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/shopsim/internal/config"
	"github.com/Lumos-Labs-HQ/shopsim/internal/webserve"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the repo root with / redirecting to /frontend/",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		app := webserve.New(cfg.ServeRoot)

		color.Cyan("🔌 Server running at http://localhost:%d/frontend/", servePort)
		color.White("   Press Ctrl+C to stop.")
		return webserve.Listen(app, servePort)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to listen on")
}
