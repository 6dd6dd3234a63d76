package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/man-in-deep/sonic/internal/api"
	"github.com/man-in-deep/sonic/internal/config"
	"github.com/man-in-deep/sonic/internal/service"
	"github.com/man-in-deep/sonic/internal/storage"
	"github.com/man-in-deep/sonic/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := storage.NewStore(cfg.DSN())
	if err != nil {
		log.Fatalf("init store: %v", err)
	}
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.EnsureSchema(ctx); err != nil {
			// Generation still works without the database; saves are skipped.
			log.Printf("ensure schema (continuing without persistence): %v", err)
		}
		cancel()
	}

	files, err := service.NewFileService(cfg)
	if err != nil {
		log.Fatalf("init file service: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	artSvc := service.NewArtService(cfg, store, files, hub)

	router := api.NewRouter(cfg, store, hub, artSvc, files)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
