package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// httpServer wraps the healthcheck + metrics HTTP server (Component N's
// /metrics mounted alongside Component M's /health, per SPEC_FULL.md §4.N:
// "no new server/listener concept is introduced — only a new handler on the
// existing one").
type httpServer struct {
	srv *http.Server
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("health check hit", "remote_addr", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// startHealthcheckServer starts the combined /health + /metrics server in
// the background. a.httpServer stays nil when the server is not started.
func (a *App) startHealthcheckServer(port int) {
	if port <= 0 {
		a.logger.Debug("healthcheck server disabled")
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", a.metrics.Handler())

	addr := fmt.Sprintf(":%d", port)
	a.httpServer = &httpServer{srv: &http.Server{Addr: addr, Handler: mux}}

	go func() {
		a.logger.Info("healthcheck server starting", "address", fmt.Sprintf("http://localhost%s", addr))
		if err := a.httpServer.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("healthcheck server failed", "error", err)
		}
	}()
}

func (a *App) closeHealthcheckServer() error {
	if a.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.httpServer.srv.Shutdown(ctx)
}
