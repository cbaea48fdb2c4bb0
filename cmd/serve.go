package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/iesm-tools/intake/internal/db"
	"github.com/iesm-tools/intake/internal/intake"
	"github.com/iesm-tools/intake/internal/server"
)

var (
	servePort     int
	serveAllowAll bool
	serveOpen     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intake HTTP server",
	Long:  `Starts the intake session server with the REST API and the websocket answer channel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if cmd.Flags().Changed("allow-all") {
			cfg.Server.AllowAll = serveAllowAll
		}

		dbPath := filepath.Join(cfg.Server.DataDir, "intake.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		svc := intake.NewService(intake.NewStore(database), directoryClient(cfg), cfg.UserSheet, cfg.ConfigSheet)
		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAll,
		}, svc)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		url, _ := cfg.Endpoint()
		fmt.Fprintf(os.Stderr, "intake server v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Sheet gateway: %s\n", url)

		if serveOpen {
			go func() {
				addr := fmt.Sprintf("http://localhost:%d/healthz", cfg.Server.Port)
				if err := browser.OpenURL(addr); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: could not open browser: %v\n", err)
				}
			}()
		}

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8710, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all", false, "Allow all CORS origins")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "Open the server URL in a browser")
	rootCmd.AddCommand(serveCmd)
}
