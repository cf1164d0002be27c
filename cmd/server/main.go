package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/youruser/mockupapp/internal/api"
	"github.com/youruser/mockupapp/internal/catalog"
	"github.com/youruser/mockupapp/internal/cli"
	"github.com/youruser/mockupapp/internal/logger"
)

func main() {
	log := logger.New(logger.Config{Debug: os.Getenv("DEBUG") != ""})

	backend := os.Getenv("MOCKUP_BACKEND")
	var cat *catalog.Catalog
	if path := os.Getenv("MOCKUP_CATALOG"); path != "" {
		c, err := catalog.Load(path)
		if err != nil {
			log.WithError(err).Warn("failed to load catalog, serving uploads only")
		} else {
			cat = c
			if backend == "" {
				backend = c.Backend
			}
		}
	}

	p, err := cli.NewPipeline(backend, os.Getenv("MOCKUP_TMP"), log)
	if err != nil {
		log.WithError(err).Fatal("invalid backend")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	srv := &api.Server{Pipeline: p, Catalog: cat, WorkDir: os.Getenv("MOCKUP_TMP"), Log: log}
	if err := cli.Serve(ctx, ":"+port, srv, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
