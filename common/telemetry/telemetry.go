package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Telemetry serves pprof and the Prometheus scrape endpoint on side ports
type Telemetry struct {
	log     *logger.Logger
	servers []*http.Server
}

// New creates telemetry endpoints. A port of 0 disables that endpoint.
func New(pprofPort, metricsPort int, log *logger.Logger) *Telemetry {
	t := &Telemetry{log: log}

	if pprofPort > 0 {
		mux := http.NewServeMux()
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		t.servers = append(t.servers, &http.Server{
			Addr:              fmt.Sprintf("localhost:%d", pprofPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	if metricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		t.servers = append(t.servers, &http.Server{
			Addr:              fmt.Sprintf(":%d", metricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	return t
}

// Start starts telemetry endpoints in the background
func (t *Telemetry) Start(ctx context.Context) error {
	for _, srv := range t.servers {
		srv := srv
		go func() {
			t.log.Info("telemetry server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				t.log.Error("telemetry server error", "addr", srv.Addr, "error", err)
			}
		}()
	}
	return nil
}

// Stop shuts the endpoints down
func (t *Telemetry) Stop(ctx context.Context) error {
	var errs []error
	for _, srv := range t.servers {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
