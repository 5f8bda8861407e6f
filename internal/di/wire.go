//go:build wireinject
// +build wireinject

package di

import (
	"StockCast/pkg/config"
	"StockCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideResponseCache,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideBarStore,
		ProvidePublisher,
		ProvideYahooClient,
		ProvideBarSource,
		ProvideDirectory,

		// Prediction services
		ProvideModelCache,
		ProvideTrainer,
		ProvideForecaster,

		// Use cases
		ProvidePredictor,
		ProvideAdvisor,
		ProvideHistory,
		ProvideDiscovery,
		ProvideQuoteCollector,

		// HTTP surface and application server
		ProvideHandlers,
		ProvideApp,
	)
	return &server.App{}, nil
}
