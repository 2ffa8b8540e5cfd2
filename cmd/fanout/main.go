package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fridaygt/fridaygt/common/bootstrap"
	commonserver "github.com/fridaygt/fridaygt/common/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Setup(ctx, "fanout", bootstrap.WithoutDB(), bootstrap.WithoutCache())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap fanout: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(context.Background())

	log := components.Logger
	if components.Redis == nil {
		log.Error("fanout requires redis")
		os.Exit(1)
	}

	// Create Hub (connection manager)
	hub := NewHub(log)
	go hub.Run(ctx)

	subscriber := NewSubscriber(components.Redis, hub, log)
	go func() {
		if err := subscriber.Start(ctx); err != nil {
			log.Error("redis subscriber failed", "error", err)
			stop()
		}
	}()

	server := NewServer(hub, components.Config.Fanout.AllowedOrigins, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", server.HandleWebSocket)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", commonserver.HealthHandler("fanout", components.Health))

	srv := commonserver.New("fanout", components.Config.Fanout.Port, mux, log,
		commonserver.WithoutTimeouts(),
		commonserver.WithShutdownTimeout(10*time.Second),
	)
	if err := srv.Run(ctx); err != nil {
		log.Error("http server error", "error", err)
		os.Exit(1)
	}
}
