package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/cache"
	"github.com/appdotbuilder/next-watch-recommender/internal/config"
	"github.com/appdotbuilder/next-watch-recommender/internal/db"
	"github.com/appdotbuilder/next-watch-recommender/internal/logger"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"
	"github.com/appdotbuilder/next-watch-recommender/internal/repository"
	"github.com/appdotbuilder/next-watch-recommender/internal/service"
	"github.com/appdotbuilder/next-watch-recommender/internal/tmdb"

	"github.com/rs/zerolog/log"
)

// catalogsync keeps the local catalog warm by pulling TMDB's popular
// movies and shows on an interval.
func main() {
	once := flag.Bool("once", false, "run a single sync and exit")
	flag.Parse()

	logger.Init()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, database, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	// genre lists are shared with the API through redis when it is up
	rdb, err := cache.New(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, genres fetched every run")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	mediaSvc := service.NewMediaService(
		repository.NewMediaRepository(database),
		tmdb.New(cfg),
		rdb,
		cfg.SearchCacheTTL,
		cfg.GenreCacheTTL,
	)

	log.Info().
		Dur("interval", cfg.SyncInterval).
		Int("pages", cfg.SyncPages).
		Bool("once", *once).
		Msg("catalog sync started")

	runSync(ctx, mediaSvc, cfg.SyncPages)
	if *once {
		return
	}

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("catalog sync stopped")
			return
		case <-ticker.C:
			runSync(ctx, mediaSvc, cfg.SyncPages)
		}
	}
}

func runSync(ctx context.Context, svc *service.MediaService, pages int) {
	for _, kind := range []models.MediaKind{models.KindMovie, models.KindShow} {
		start := time.Now()
		n, err := svc.SyncPopular(ctx, kind, pages)
		ev := log.Info()
		if err != nil {
			ev = log.Error().Err(err)
		}
		ev.
			Str("kind", string(kind)).
			Int("upserted", n).
			Dur("elapsed", time.Since(start)).
			Msg("catalog sync")
	}
}
