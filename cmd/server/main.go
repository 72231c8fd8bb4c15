package main

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whatsapp-dashboard/internal/api"
	"whatsapp-dashboard/internal/automation"
	"whatsapp-dashboard/internal/config"
	"whatsapp-dashboard/internal/persist"
	"whatsapp-dashboard/internal/seed"
	"whatsapp-dashboard/internal/service"
	"whatsapp-dashboard/internal/store"
	"whatsapp-dashboard/internal/whatsapp"
	"whatsapp-dashboard/internal/ws"
)

func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persister, closeStore, err := persist.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer closeStore()

	initial, err := seed.Default()
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}
	st := store.New(
		store.WithPersister(persister),
		store.WithSeed(initial, cfg.SeedOnEmpty),
	)
	if err := st.Init(ctx); err != nil {
		log.Fatalf("Failed to rehydrate store: %v", err)
	}

	sim := whatsapp.NewSimulator(
		whatsapp.WithDelays(whatsapp.DefaultDelays().Scale(cfg.SimulatedDelayScale)),
		whatsapp.WithRand(rand.New(rand.NewPCG(cfg.RandomSeed, 1))),
	)
	svc := service.New(st, sim)

	hub := ws.NewHub()
	go hub.Run(ctx)
	detach := hub.Attach(st)
	defer detach()

	if cfg.WarmerInterval > 0 {
		engine := automation.NewEngine(st, rand.New(rand.NewPCG(cfg.RandomSeed, 2)), hub.NotifyWarmerMessage)
		go engine.Run(ctx, cfg.WarmerInterval)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(st, svc, hub),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server starting on port %s (store backend: %s)", cfg.Port, cfg.StoreBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to run server: %v", err)
	}
	log.Println("Server stopped")
}
