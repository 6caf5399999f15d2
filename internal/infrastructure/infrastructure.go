// Package infrastructure provides core service initialization for
// application startup. It assembles the common dependencies (lifecycle
// coordination, logging, run history) that the engine's systems require;
// composition code layers the ERP client, mailer, and drafter on top.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/apachepressure/chaser/internal/config"
	"github.com/apachepressure/chaser/internal/ledger"
	"github.com/apachepressure/chaser/pkg/lifecycle"
)

// Infrastructure holds the core systems every run needs.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Ledger    *ledger.Ledger
}

// New creates an Infrastructure from the application configuration. The
// lifecycle coordinator is signal-aware: SIGINT or SIGTERM cancels the
// run context. The ledger handle is registered for cleanup.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.NewSignalAware()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	led, err := ledger.Open(cfg.Ledger.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("ledger init failed: %w", err)
	}
	lc.OnCleanup(func() { led.Close() })

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Ledger:    led,
	}, nil
}
