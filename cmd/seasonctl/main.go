// Command seasonctl fetches one asset's December-March analysis and prints
// the dashboard once, as text or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"CryptoSeason/internal/domain/models"
	"CryptoSeason/internal/presenter"
	"CryptoSeason/internal/services/analytics"
	"CryptoSeason/internal/usecase"
	"CryptoSeason/pkg/config"
	applogger "CryptoSeason/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("seasonctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file path (defaults are used when empty)")
	asset := fs.String("asset", "", "asset symbol, e.g. BTC or ETH (default: analysis.default_asset)")
	format := fs.String("format", "text", "output format: text or json")
	baseURL := fs.String("base-url", "", "analysis API base URL override")
	timeout := fs.Duration("timeout", 0, "request timeout override")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintf(stderr, "unknown format %q\n", *format)
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}
	if *baseURL != "" {
		cfg.Analysis.BaseURL = strings.TrimRight(*baseURL, "/")
	}
	if *timeout > 0 {
		cfg.Analysis.Timeout = *timeout
	}

	log := applogger.NewWriter(stderr, "warn")

	assets, err := models.NewAssetSet(cfg.Analysis.Assets)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}
	selected := cfg.Analysis.DefaultAsset
	if *asset != "" {
		selected = *asset
	}
	a, err := assets.Resolve(selected)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	client := analytics.NewSeasonClient(cfg.Analysis.BaseURL, cfg.Analysis.Timeout, analytics.WithLogger(log))
	dash, err := usecase.NewDashboard(client,
		usecase.WithAssets(assets),
		usecase.WithDefaultAsset(a),
		usecase.WithDashboardLogger(log),
	)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}
	defer dash.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := dash.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	dash.Wait()
	if ctx.Err() != nil {
		return 130
	}
	view := dash.View()

	if err := write(stdout, *format, view); err != nil {
		fmt.Fprintf(stderr, "write: %v\n", err)
		return 1
	}
	if view.Error != "" {
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.LoadWithEnv(path)
}

func write(w io.Writer, format string, v models.DashboardView) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return presenter.RenderText(w, v)
}
