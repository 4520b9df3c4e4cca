package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"triphub/internal/cache"
	intconfig "triphub/internal/config"
	router "triphub/internal/http"
	"triphub/internal/http/handlers"
	"triphub/internal/query"
	"triphub/internal/repositories"
	"triphub/internal/services"
	"triphub/internal/utils"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		boot := utils.NewLogger("info", false, os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	log := utils.NewLogger(env.LogLevel, env.LogPretty, os.Stderr)

	db, err := intconfig.OpenDB(context.Background(), env.DB)
	if err != nil {
		log.Fatal().Err(err).Str("addr", env.DB.Addr).Msg("database unavailable")
	}
	defer db.Close()
	log.Info().Str("addr", env.DB.Addr).Str("db", env.DB.Name).Msg("database connected")

	store := cache.New(
		cache.WithMaxItems(env.Cache.MaxItems),
		cache.WithMaxBytes(env.Cache.MaxBytes),
		cache.WithTTL(env.Cache.TTL),
		cache.WithLogger(log),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		cache.NewPrometheusCollector("triphub", store),
	)

	repos := []repositories.TripsRepository{
		{DB: db, Fields: query.TwelveGo, Timeout: env.DB.QueryTimeout},
		{DB: db, Fields: query.Bookaway, Timeout: env.DB.QueryTimeout},
	}
	sources := make([]services.Source, 0, len(repos))
	distinct := make([]services.DistinctSource, 0, len(repos))
	ready := make([]handlers.ReadyChecker, 0, len(repos))
	for _, r := range repos {
		sources = append(sources, r)
		distinct = append(distinct, r)
		ready = append(ready, r)
	}

	builder := query.Builder{
		DefaultLimit:    env.Query.DefaultLimit,
		MaxLimit:        env.Query.MaxLimit,
		MaxResultWindow: env.Query.MaxResultWindow,
		Strict:          env.Query.Strict,
		Location:        env.Query.Location(),
	}
	trips := services.NewTripService(store, sources, builder, log)

	hd := &handlers.Handler{
		Trips:   trips,
		Filters: services.FilterService{Cache: store, Sources: distinct, Log: log},
		Export:  services.ExportService{Trips: trips, Location: env.Query.Location()},
		DB:      db,
		Ready:   ready,
		Strict:  env.Query.Strict,
		Log:     log,
	}

	r := router.NewRouter(hd, router.Options{
		CORSOrigins: env.CORSOrigins,
		Log:         log,
		Registry:    reg,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", env.AppAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	waitForShutdown(srv, log)
}

func waitForShutdown(srv *http.Server, log zerolog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		return
	}
	log.Info().Msg("server stopped")
}
