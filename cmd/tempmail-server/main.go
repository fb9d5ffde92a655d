// Command tempmail-server exposes the temporary mailbox client over a
// small HTTP API, so frontends can provision mailboxes, read inboxes,
// and fetch generated test data without holding the upstream API key
// themselves.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	tempmailbox "github.com/tempmailbox/client-go"
	"github.com/tempmailbox/client-go/internal/logger"
)

func main() {
	_ = godotenv.Load()

	development := os.Getenv("APP_ENV") != "production"
	if !development {
		gin.SetMode(gin.ReleaseMode)
	}

	var log *zap.Logger
	if development {
		log = logger.NewDevelopment()
	} else {
		log = logger.NewProduction(os.Getenv("LOG_FILE"))
	}
	defer log.Sync()

	if os.Getenv(tempmailbox.EnvAPIKey) == "" {
		log.Fatal("missing API key", zap.String("env", tempmailbox.EnvAPIKey))
	}

	client := tempmailbox.FromEnv(tempmailbox.WithLogger(log))

	router := newRouter(routerConfig{
		Client:         client,
		Logger:         log,
		AllowedOrigins: splitOrigins(os.Getenv("CORS_ORIGINS")),
	})

	addr := fmt.Sprintf("%s:%s", os.Getenv("HOST"), port())

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("tempmail server listening", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server stopped cleanly")
	}
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
