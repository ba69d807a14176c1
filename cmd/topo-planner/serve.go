package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jazzy96/topo-planner/config"
	"github.com/Jazzy96/topo-planner/handlers"
	"github.com/Jazzy96/topo-planner/log"
	"github.com/Jazzy96/topo-planner/routing"
	"github.com/Jazzy96/topo-planner/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Args:  cobra.NoArgs,
	Short: "Run the planner's HTTP API and dashboard",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logLevel := cfg.Logging.Level
	if verbose {
		logLevel = log.LevelDebug
	}
	log.Configure(log.Options{Level: logLevel, Format: cfg.Logging.Format})

	log.Info("topo-planner starting", "version", version, "address", cfg.Server.Address)

	resultStore := store.New(cfg.Server.ResultsDirectory, nil)
	h := handlers.New(resultStore, cfg)
	router := routing.NewRouter(cfg, h)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	log.Info("topo-planner stopped")
	return nil
}
