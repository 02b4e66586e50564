package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rioporto/v5-rioporto-sub007/internal/config"
	"github.com/rioporto/v5-rioporto-sub007/internal/server"
	"github.com/rioporto/v5-rioporto-sub007/internal/session"
	"github.com/rioporto/v5-rioporto-sub007/internal/storage"
	"github.com/rioporto/v5-rioporto-sub007/internal/storage/memory"
	"github.com/rioporto/v5-rioporto-sub007/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, closeUsers, err := buildUserStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init user directory: %v", err)
	}
	defer closeUsers()

	store, closeSessions, err := buildSessionStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init session store: %v", err)
	}
	defer closeSessions()

	sessions := session.NewManager(store, cfg.SessionTTL)
	go runSessionCleanup(ctx, sessions, cfg.CleanupInterval)

	srv := server.New(cfg, users, sessions)

	go func() {
		log.Printf("rioporto backend listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func buildUserStore(ctx context.Context, cfg config.Config) (storage.UserStore, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set; using the seeded demo user directory")
		return memory.NewSeededStore(), func() {}, nil
	}
	store, err := postgres.NewUserStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func buildSessionStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set; sessions are held in process")
		return session.NewMemoryStore(), func() {}, nil
	}
	store, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func runSessionCleanup(ctx context.Context, sessions *session.Manager, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.CleanupExpired(ctx); removed > 0 {
				log.Printf("session cleanup: removed %d expired records", removed)
			}
		}
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
