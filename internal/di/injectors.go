//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"cvdd/internal"
	"cvdd/internal/client"
	"cvdd/internal/controllers"
	"cvdd/internal/events"
	"cvdd/internal/providers"
	"cvdd/internal/services"
	"cvdd/internal/storage"
	"cvdd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewKeyValueStore,
		storage.NewZstdCompressor,
		storage.NewFileManager,
		storage.NewScheduler,

		services.NewDataStoreService,
		services.NewFilterService,
		client.NewApiClient,
		events.NewEventProducer,

		controllers.NewStoreController,
		controllers.NewTestController,
		controllers.NewFilterController,
		controllers.NewHealthController,

		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
