//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"github.com/juju/clock"

	"guildcloner/internal"
	"guildcloner/internal/controllers"
	"guildcloner/internal/discord"
	"guildcloner/internal/providers"
	"guildcloner/internal/services"
	"guildcloner/internal/storage"
	"guildcloner/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewImageCacheProvider,

		wire.InterfaceValue(new(clock.Clock), clock.WallClock),
		discord.NewSession,
		storage.NewZstdCompressor,
		storage.NewSnapshotStore,
		storage.NewScheduler,
		services.NewTracker,
		wire.Bind(new(services.ProgressReporterInterface), new(*services.Tracker)),
		services.NewEngine,
		controllers.NewHealthController,
		controllers.NewProgressController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
