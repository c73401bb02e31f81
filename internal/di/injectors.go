//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"presetd/internal"
	"presetd/internal/controllers"
	"presetd/internal/kvstore"
	"presetd/internal/providers"
	"presetd/internal/scheduler"
	"presetd/internal/selector"
	"presetd/internal/services"
	"presetd/internal/structures"
)

var coreSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,
	providers.NewInstrumentedKVStoreProvider,

	kvstore.NewZstdCompressor,
	wire.Bind(new(kvstore.Compressor), new(*kvstore.ZstdCompressor)),
	services.NewPresetStore,
	wire.Bind(new(services.PresetStoreInterface), new(*services.PresetStore)),
	selector.NewService,
	wire.Bind(new(selector.ServiceInterface), new(*selector.Service)),
	scheduler.NewBackupManager,
	scheduler.NewScheduler,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		coreSet,
		providers.NewInstrumentedCacheProvider,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitTools(cfg *structures.CliFlags) (*internal.Tools, error) {

	wire.Build(
		coreSet,
		internal.NewTools,
	)

	return nil, nil
}
