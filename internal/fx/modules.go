package fx

import (
	"fightcade-tracker/internal/api"
	"fightcade-tracker/internal/config"
	"fightcade-tracker/internal/database"
	"fightcade-tracker/internal/logger"
	"fightcade-tracker/internal/ranking"
	"fightcade-tracker/internal/repository"
	"fightcade-tracker/internal/server"
	"fightcade-tracker/internal/service"

	"go.uber.org/fx"
)

func ProvidePolicy(cfg *config.Config) (ranking.Policy, error) {
	return ranking.ForName(cfg.RankingPolicy)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewRatingRepository),
	fx.Provide(repository.NewRatingHistoryRepository),
	fx.Provide(repository.NewRosterRepository),
	fx.Provide(repository.NewBlocklistRepository),
	// api client
	fx.Provide(api.NewFightcadeClient),
	// svc
	fx.Provide(ProvidePolicy),
	fx.Provide(service.NewRatingService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewRankingService),
	fx.Provide(service.NewRosterService),
	fx.Provide(service.NewExportService),
	// server
	fx.Provide(server.NewTrackerServer),
)
