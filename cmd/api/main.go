package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"monitor-insights-go/internal/api"
	"monitor-insights-go/internal/config"
	"monitor-insights-go/internal/dataset"
	"monitor-insights-go/internal/logger"
	"monitor-insights-go/internal/pipeline"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Environment, cfg.LogLevel)
	log.WithField("service", "monitor-insights-go").Info("starting service")

	cache := dataset.NewCache(pipeline.New(log).Run, log)

	// optional preload, so the dashboard is usable before the first upload
	if cfg.DatasetPath != "" {
		log.WithField("dataset_path", cfg.DatasetPath).Info("preloading dataset")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ReadRetry+5*time.Second)
		data, err := dataset.ReadFile(ctx, cfg.DatasetPath, cfg.ReadRetry)
		cancel()
		if err != nil {
			log.WithError(err).Warn("dataset preload skipped")
		} else if ds, err := cache.Load(data); err != nil {
			log.WithError(err).Warn("dataset preload rejected")
		} else {
			log.WithField("records", len(ds.Records)).Info("dataset preloaded")
		}
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.New(cfg, log, cache).Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server terminated")
	}
}
