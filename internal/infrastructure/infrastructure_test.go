package infrastructure_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/apachepressure/chaser/internal/config"
	"github.com/apachepressure/chaser/internal/infrastructure"
)

func TestNew(t *testing.T) {
	cfg := &config.Config{}
	cfg.Ledger.Path = filepath.Join(t.TempDir(), "chaser.db")

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if infra.Logger == nil {
		t.Error("logger not initialized")
	}
	if infra.Ledger == nil {
		t.Error("ledger not initialized")
	}

	select {
	case <-infra.Lifecycle.Context().Done():
		t.Fatal("run context cancelled before Close")
	default:
	}

	if err := infra.Lifecycle.Close(time.Second); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	select {
	case <-infra.Lifecycle.Context().Done():
	default:
		t.Error("run context not cancelled after Close")
	}
}
