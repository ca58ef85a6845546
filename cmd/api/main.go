package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"authgate.org/internal/auth"
	"authgate.org/internal/bootstrap"
	"authgate.org/internal/config"
	"authgate.org/internal/httpapi"
	"authgate.org/internal/migrate"
	"authgate.org/internal/obs"
	"authgate.org/internal/users"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Missing signing key is fatal: the service must never start in a
	// state where it could issue or accept unsigned sessions.
	tokens, err := auth.NewTokens(cfg.SigningKey, cfg.Issuer, cfg.Audience)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	var (
		db        *sql.DB
		credStore auth.Store
		dirStore  users.Store
		bootStore bootstrap.Store
		migrator  bootstrap.Migrator
	)
	if cfg.DatabaseDSN != "" {
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)

		pg := auth.NewPGStore(db)
		credStore = pg
		bootStore = pg
		dirStore = users.NewPGStore(db)
		migrator = migrate.NewManager(db, cfg.MigrationsDir)
	} else {
		log.Printf("no AUTHGATE_PG_DSN configured, using in-memory stores")
		mem := auth.NewMemoryStore()
		credStore = mem
		bootStore = mem
		dirStore = users.NewMemoryStore()
	}

	seq := bootstrap.New(bootStore, migrator,
		bootstrap.WithAttempts(cfg.BootAttempts),
		bootstrap.WithDelay(cfg.BootDelay),
	)
	if err := seq.Run(context.Background()); err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	api := httpapi.New(
		httpapi.ReadyProbe{DB: db},
		version,
		tokens,
		auth.NewService(credStore, tokens),
		users.NewService(dirStore),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting authgate-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
