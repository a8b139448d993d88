//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/vishal13230/BellCurve-Securities/pkg/config"
	"github.com/vishal13230/BellCurve-Securities/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvidePriceStore,
		ProvideAuditPublisher,
		ProvideCache,

		// Services
		ProvideCommentator,
		ProvideOptimizer,
		ProvideSimulator,

		// Use cases and HTTP surface
		ProvideAnalyzer,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
