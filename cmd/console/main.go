package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"libraryconsole/internal/config"
	"libraryconsole/internal/console/client"
	"libraryconsole/internal/console/session"
	"libraryconsole/internal/console/web"
	"libraryconsole/internal/logging"
)

func main() {
	// 1️⃣ Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2️⃣ Backend client and per-session consoles
	api := client.New(cfg.RequestTimeout,
		client.WithRateLimit(cfg.BackendRateLimit, 1),
		client.WithLogger(logger),
	)
	endpoints := session.Endpoints{
		Users: cfg.UsersAPIURL,
		Books: cfg.BooksAPIURL,
		Loans: cfg.LoansAPIURL,
	}
	store := session.NewStore(cfg.SessionTTL, cfg.SessionLimit, func() *session.Console {
		return session.NewConsole(api, endpoints, logger)
	})

	// 3️⃣ Setup Gin
	router := web.NewRouter(web.NewHandler(store, logger))
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("console listening", "addr", srv.Addr,
			"users", endpoints.Users, "books", endpoints.Books, "loans", endpoints.Loans)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("console stopped")
}
