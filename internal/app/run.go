package app

import (
	"context"
	"fmt"
)

// Run loads the configured definitions into live blocks, starts the
// healthcheck/metrics server, then blocks until ctx is cancelled
// (SIGINT/SIGTERM, wired by the caller), tearing every block down via
// delete (spec §3 Lifecycle) before returning.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("app run started")

	if err := a.LoadDefinitions(ctx); err != nil {
		return err
	}

	a.startHealthcheckServer(a.config.HealthcheckPort)

	<-ctx.Done()
	a.logger.Info("shutdown signal received")

	return a.shutdown()
}

func (a *App) shutdown() error {
	var firstErr error

	for _, name := range a.registry.Names() {
		if _, err := a.registry.DeleteBlock(name); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete block %q: %w", name, err)
		}
	}

	if err := a.registry.Shutdown(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("registry shutdown: %w", err)
	}

	if err := a.closeHealthcheckServer(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("healthcheck server shutdown: %w", err)
	}

	if err := a.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close app: %w", err)
	}

	a.logger.Debug("app shutdown complete")
	return firstErr
}
