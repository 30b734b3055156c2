//go:build wireinject
// +build wireinject

package di

import (
	"CryptoSeason/pkg/config"
	"CryptoSeason/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCache,
		ProvideSnapshotSink,

		// Analysis
		ProvideSeasonClient,
		ProvideSeasonFetcher,
		ProvideAssetSet,

		// Use cases
		ProvideDashboard,

		// HTTP
		ProvideRateLimiter,
		ProvideDashboardHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}
