package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dkeye/Livecast/internal/adapters/events"
	router "github.com/dkeye/Livecast/internal/adapters/http"
	"github.com/dkeye/Livecast/internal/adapters/rtc"
	"github.com/dkeye/Livecast/internal/adapters/storage"
	"github.com/dkeye/Livecast/internal/app"
	"github.com/dkeye/Livecast/internal/app/orch"
	"github.com/dkeye/Livecast/internal/config"
	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(cfg.Log)

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	policy, err := app.PolicyByName(cfg.Backpressure.Policy)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	var observers []core.StreamObserver
	if cfg.Events.Enabled {
		pub, err := events.NewRedisPublisher(ctx, cfg.Events.Redis)
		if err != nil {
			return fmt.Errorf("events: %w", err)
		}
		defer pub.Close()
		notifier := events.NewNotifier(pub, cfg.Events.Channel, cfg.Events.QueueSize)
		observers = append(observers, notifier)
		g.Go(func() error { return notifier.Run(gctx) })
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	ice, err := rtc.ICEServers(cfg.ICE)
	if err != nil {
		return fmt.Errorf("ice: %w", err)
	}

	directory := app.NewPublicDirectory(observers...)
	rooms := app.NewRoomManager(directory)
	lifecycle := app.NewLifecycle(rooms,
		app.WithTickPeriod(cfg.Stream.TickPeriod),
		app.WithMaxDuration(cfg.Stream.MaxDuration),
		app.WithPolicy(policy),
	)
	defer lifecycle.Close()

	o := &orch.Orchestrator{
		Registry:  app.NewRegistry(),
		Rooms:     rooms,
		Directory: directory,
		Lifecycle: lifecycle,
		Policy:    policy,
	}

	r := router.SetupRouter(gctx, cfg, router.Deps{Orch: o, Storage: store, ICEServers: ice})
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("Livecast server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.Rooms.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := rooms.Sweep(); n > 0 {
					log.Debug().Str("module", "main").Int("rooms", n).Msg("swept empty rooms")
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		// Hijacked websockets are not tracked by Shutdown.
		o.Registry.CloseAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		return nil
	})

	return g.Wait()
}
