package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/appdotbuilder/next-watch-recommender/docs" // swagger docs

	"github.com/appdotbuilder/next-watch-recommender/internal/cache"
	"github.com/appdotbuilder/next-watch-recommender/internal/config"
	"github.com/appdotbuilder/next-watch-recommender/internal/db"
	"github.com/appdotbuilder/next-watch-recommender/internal/handler"
	"github.com/appdotbuilder/next-watch-recommender/internal/logger"
	"github.com/appdotbuilder/next-watch-recommender/internal/metrics"
	"github.com/appdotbuilder/next-watch-recommender/internal/repository"
	"github.com/appdotbuilder/next-watch-recommender/internal/service"
	"github.com/appdotbuilder/next-watch-recommender/internal/tmdb"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Next Watch Recommender API
// @version 1.0
// @description Movie and show discovery with swipe-style recommendations for users and guests.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mongo
	mongoClient, database, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	// Redis is optional: without it searches go straight to TMDB
	healthChecks := map[string]handler.Pinger{
		"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}
	rdb, err := cache.New(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, caching disabled")
		rdb = nil
	} else {
		healthChecks["redis"] = rdb.Ping
		defer rdb.Close()
	}

	catalog := tmdb.New(cfg)

	// repos
	userRepo := repository.NewUserRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	mediaRepo := repository.NewMediaRepository(database)
	interactionRepo := repository.NewInteractionRepository(database)
	recRepo := repository.NewRecommendationRepository(database)
	watchlistRepo := repository.NewWatchlistRepository(database)

	// services
	profileSvc := service.NewProfileService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	sessionSvc := service.NewSessionService(sessionRepo)
	mediaSvc := service.NewMediaService(mediaRepo, catalog, rdb, cfg.SearchCacheTTL, cfg.GenreCacheTTL)
	interactionSvc := service.NewInteractionService(interactionRepo, mediaRepo, userRepo)
	watchlistSvc := service.NewWatchlistService(watchlistRepo, interactionRepo, mediaRepo, userRepo)
	recSvc := service.NewRecommendService(interactionRepo, mediaRepo, recRepo, cfg.RecommendDefaultLimit)

	// handlers
	healthH := handler.NewHealthHandler(healthChecks)
	profileH := handler.NewProfileHandler(profileSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	mediaH := handler.NewMediaHandler(mediaSvc)
	interactionH := handler.NewInteractionHandler(interactionSvc)
	watchlistH := handler.NewWatchlistHandler(watchlistSvc)
	recH := handler.NewRecommendHandler(recSvc, interactionSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handler.AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	writeLimit := httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute)

	// =============
	// Public routes
	// =============
	r.Get("/health", healthH.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.With(writeLimit).Post("/profiles", profileH.Create)
	r.With(writeLimit).Post("/auth/login", profileH.Login)
	r.Get("/profiles/{id}", profileH.Get)
	r.With(handler.JWTAuth(cfg.JWTSecret)).Patch("/profiles/{id}", profileH.Update)

	r.With(writeLimit).Post("/sessions", sessionH.Create)
	r.Get("/sessions/{token}", sessionH.Get)

	r.Route("/media", func(r chi.Router) {
		r.Get("/popular", mediaH.Popular)
		r.Get("/search", mediaH.Search)
		r.Get("/genres", mediaH.Genres)
		r.Get("/{id}", mediaH.Get)
	})

	// ==========================================
	// Actor routes: a token is optional, a guest
	// session id is enough
	// ==========================================
	r.Group(func(r chi.Router) {
		r.Use(handler.OptionalJWT(cfg.JWTSecret))

		r.Route("/interactions", func(r chi.Router) {
			r.With(writeLimit).Post("/", interactionH.Record)
			r.Get("/", interactionH.List)
		})

		r.Route("/watchlist", func(r chi.Router) {
			r.With(writeLimit).Post("/", watchlistH.Add)
			r.With(writeLimit).Delete("/", watchlistH.Remove)
			r.Get("/", watchlistH.List)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/", recH.History)
			r.With(writeLimit).Post("/generate", recH.Generate)
			r.Post("/next", recH.Next)
			r.Get("/ws", recH.Stream)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}
