/*
main.go - Application entry point

PURPOSE:
  Loads the policy exports, builds the dashboard once, and either serves it
  over HTTP or writes its charts to disk.

STARTUP SEQUENCE:
  1. Load dashboard.toml (missing file means defaults), apply flags
  2. Read the home, auto and optional claims files
  3. Build views, charts and summary
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMANDS:
  serve    Serve the dashboard (default)
  export   Write each available chart as PNG and Plotly JSON

FLAGS:
  --config   Config file path (default: dashboard.toml)
  --home     Home policy export, overrides [data] home
  --auto     Auto policy export, overrides [data] auto
  --claims   Auto claims export, overrides [data] claims
  --port     HTTP server port (serve only, default: 8050)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Exit

EXAMPLES:
  # Serve the JSON exports from ./data
  ./insurance-dashboard

  # Spreadsheet exports with a separate claims file
  ./insurance-dashboard serve --home data/home.xlsx --auto data/auto.xlsx \
      --claims data/auto_claims.xlsx

  # Render charts to ./out
  ./insurance-dashboard export --out out

SEE ALSO:
  - api/server.go: Router configuration
  - insurance/dashboard.go: Dashboard build
  - config/config.go: Configuration file
*/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/insurance-dashboard/api"
	"github.com/warp/insurance-dashboard/chart"
	"github.com/warp/insurance-dashboard/config"
	"github.com/warp/insurance-dashboard/insurance"
	"github.com/warp/insurance-dashboard/loader"
)

// inputFlags are shared by every command.
type inputFlags struct {
	config string
	home   string
	auto   string
	claims string
}

func main() {
	var in inputFlags

	serve := serveCmd(&in)
	rootCmd := &cobra.Command{
		Use:   "insurance-dashboard",
		Short: "Chart home and auto insurance premiums, coverages and claims",
		Long:  "insurance-dashboard reads home and auto policy exports (JSON, spreadsheet, CSV or SQLite) and serves them as an interactive two-tab dashboard.",
		RunE:  serve.RunE,
	}
	rootCmd.Flags().AddFlagSet(serve.Flags())

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&in.config, "config", "dashboard.toml", "Config file path")
	pf.StringVar(&in.home, "home", "", "Home policy export (overrides config)")
	pf.StringVar(&in.auto, "auto", "", "Auto policy export (overrides config)")
	pf.StringVar(&in.claims, "claims", "", "Auto claims export (overrides config)")

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(exportCmd(&in))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the input flags over it.
func loadConfig(in *inputFlags) (*config.Config, error) {
	cfg, err := config.Load(in.config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if in.home != "" {
		cfg.Data.Home = in.home
	}
	if in.auto != "" {
		cfg.Data.Auto = in.auto
	}
	if in.claims != "" {
		cfg.Data.Claims = in.claims
	}
	return cfg, nil
}

// buildDashboard reads every configured input and builds the dashboard.
// Unreadable inputs only make their tab unavailable.
func buildDashboard(ctx context.Context, cfg *config.Config) *insurance.Dashboard {
	var src insurance.Sources
	if cfg.Data.Home != "" {
		src.Home = loader.Read(ctx, cfg.Data.Home)
	}
	if cfg.Data.Auto != "" {
		src.Auto = loader.Read(ctx, cfg.Data.Auto)
	}
	if cfg.Data.Claims != "" {
		src.Claims = loader.Read(ctx, cfg.Data.Claims)
	}
	return insurance.Build(src, cfg.Options())
}

// =============================================================================
// SERVE
// =============================================================================

func serveCmd(in *inputFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(in)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			dashboard := buildDashboard(ctx, cfg)
			return serveDashboard(ctx, dashboard, cfg.Port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8050, "HTTP server port")

	return cmd
}

func serveDashboard(ctx context.Context, d *insurance.Dashboard, port int) error {
	router := api.NewRouter(api.NewHandler(d))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("[Server] Dashboard available at http://localhost:%d", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[Server] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("[Server] Stopped")
	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

func exportCmd(in *inputFlags) *cobra.Command {
	var (
		out   string
		width int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write each available chart as PNG and Plotly JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(in)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}

			dashboard := buildDashboard(cmd.Context(), cfg)
			written := 0
			for _, tab := range dashboard.Tabs {
				if !tab.Available() {
					log.Printf("[Export] Skipping %s: %v", tab.ID, tab.Err)
					continue
				}
				if err := exportChart(tab.Chart, out, width); err != nil {
					return fmt.Errorf("export %s: %w", tab.ID, err)
				}
				fmt.Printf("wrote %s\n", filepath.Join(out, tab.ID+".png"))
				written++
			}
			if written == 0 {
				return errors.New("no chart could be built from the configured inputs")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "out", "Output directory")
	cmd.Flags().IntVar(&width, "width", chart.DefaultWidth, "PNG width in pixels")

	return cmd
}

func exportChart(c *chart.Chart, dir string, width int) error {
	f, err := os.Create(filepath.Join(dir, c.ID+".png"))
	if err != nil {
		return err
	}
	if err := chart.RenderPNG(c, f, width); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fig, err := json.MarshalIndent(c.Plotly(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, c.ID+".json"), fig, 0o644)
}
