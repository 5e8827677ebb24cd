//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/fslick/fundamentals-yf/pkg/config"
	"github.com/fslick/fundamentals-yf/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application with
// its cleanup function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Provider and cache
		ProvideHTTPClient,
		ProvideYahooClient,
		ProvideCache,
		ProvideDataProvider,

		// Sinks
		ProvideClickHouseClient,
		ProvideReportStore,
		ProvideKafkaProducer,
		ProvideReportPublisher,
		ProvideReportWriter,
		ProvideSinks,

		// Use cases
		ProvideReportBuilder,
		ProvideBatchRunner,

		// Transports
		ProvideKafkaConsumer,
		ProvideReportRequestHandler,
		ProvideReportsHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return nil, nil, nil
}
