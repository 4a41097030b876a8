package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/EmpoweredVote/lego-catalog/internal/auth"
	"github.com/EmpoweredVote/lego-catalog/internal/catalog"
	"github.com/EmpoweredVote/lego-catalog/internal/config"
	"github.com/EmpoweredVote/lego-catalog/internal/db"
	"github.com/EmpoweredVote/lego-catalog/internal/session"
	"github.com/EmpoweredVote/lego-catalog/internal/web"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("unable to start server: %v", err)
	}
	sets := catalog.New(gdb)
	if err := sets.Init(ctx); err != nil {
		log.Fatalf("unable to start server: %v", err)
	}

	users, err := auth.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("unable to start server: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := users.Close(closeCtx); err != nil {
			log.Printf("mongo close: %v", err)
		}
	}()

	srv, err := web.NewServer(
		sets,
		auth.NewService(users),
		session.NewManager(cfg.SessionSecret, cfg.SessionDuration),
		web.Options{
			StaticDir:  "public",
			LoginRate:  rate.Limit(cfg.LoginRate),
			LoginBurst: cfg.LoginBurst,
			TrustProxy: cfg.TrustProxy,
		},
	)
	if err != nil {
		log.Fatalf("unable to start server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("server listening on: %s", cfg.Addr())
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
