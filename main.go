package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"climate-router/internal/auth"
	"climate-router/internal/common/logging"
	"climate-router/internal/config"
	"climate-router/internal/handlers"
	"climate-router/internal/jobs"
	"climate-router/internal/middleware"
	"climate-router/internal/routing"
	"climate-router/internal/schedule"
	"climate-router/internal/server"
	"climate-router/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logging.InitGlobalLogger()
	defer logging.MustSync()
	logger := logging.GetGlobalLogger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to open storage", err)
		os.Exit(1)
	}
	defer store.Close()

	loc := cfg.Location()
	engine := schedule.NewEngine(loc)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	registry := routing.NewRegistry(routing.WithBeforeCompile(declareRoutes))

	dispatcher := handlers.NewDispatcher(registry, verifier, cfg.BasePath)
	handlers.NewControllers(store, engine, loc).RegisterAll(dispatcher)

	api := handlers.NewAPI(store, engine, registry)

	refresh := jobs.NewRefreshJob(store, engine, loc)
	if err := refresh.Start(cfg.RefreshCron); err != nil {
		logger.Error("Failed to start refresh job", err)
		os.Exit(1)
	}
	defer refresh.Stop()

	port, _ := strconv.Atoi(cfg.Port)
	srv := server.New(port, middleware.Logging(api.Router(dispatcher)))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("Shutting down", logging.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown failed", err)
			os.Exit(1)
		}
	}
}

// declareRoutes registers the controller-facing route table right before
// the registry compiles. Everything under /api and /health is handled by
// the management router and never reaches these patterns.
func declareRoutes(b routing.Binder) error {
	// whole or half degrees between 0 and 99
	b.BindMatchType("temp", `[0-9]{1,2}(?:\.[05])?`)

	declarations := []routing.Declaration{
		{
			Name:       "device.state",
			Pattern:    "/device/[i:id]",
			Methods:    []string{"GET"},
			Controller: "DeviceController",
			Action:     "state",
			Tags:       []string{"device"},
		},
		{
			Name:       "device.set",
			Pattern:    "/device/[i:id]/set/[temp:target]",
			Methods:    []string{"POST"},
			Controller: "DeviceController",
			Action:     "set",
			AuthType:   string(routing.AuthToken),
			IsGranted:  []string{"device:write"},
			Tags:       []string{"device"},
		},
		{
			Name:       "timeline.day",
			Pattern:    "/timeline/[i:year]-[i:month]-[i:day]",
			Methods:    []string{"GET"},
			Controller: "TimelineController",
			Action:     "day",
			Tags:       []string{"schedule"},
		},
	}
	for _, d := range declarations {
		if err := b.Bind(routing.RouteFromDeclaration(d)); err != nil {
			return err
		}
	}
	return nil
}
