// SPDX-License-Identifier: MIT
package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestHolderReloadSwapsConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "graspgen.yaml")
	writeConfig(t, configPath, "train:\n  batch_size: 8\n")

	loader := NewLoader(configPath, "test")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	holder := NewConfigHolder(cfg, loader, configPath)
	defer holder.Stop()

	writeConfig(t, configPath, "train:\n  batch_size: 16\n")

	summary, err := holder.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if holder.Get().Train.BatchSize != 16 {
		t.Errorf("expected batch size 16 after reload, got %d", holder.Get().Train.BatchSize)
	}
	if summary.Empty() {
		t.Error("expected the reload summary to report the change")
	}
	if !summary.RestartRequired {
		t.Error("batch size change must require a restart")
	}
}

func TestHolderReloadKeepsOldConfigOnError(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "graspgen.yaml")
	writeConfig(t, configPath, "train:\n  batch_size: 8\n")

	loader := NewLoader(configPath, "test")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	holder := NewConfigHolder(cfg, loader, configPath)
	defer holder.Stop()

	// A file with an invalid value must not replace the running config.
	writeConfig(t, configPath, "train:\n  batch_size: -1\n")

	if _, err := holder.Reload(context.Background()); err == nil {
		t.Fatal("expected reload of invalid config to fail")
	}
	if holder.Get().Train.BatchSize != 8 {
		t.Errorf("old config must survive a failed reload, got batch size %d", holder.Get().Train.BatchSize)
	}
}

func TestHolderNotifiesListeners(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "graspgen.yaml")
	writeConfig(t, configPath, "train:\n  batch_size: 8\n")

	loader := NewLoader(configPath, "test")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	holder := NewConfigHolder(cfg, loader, configPath)
	defer holder.Stop()

	ch := make(chan AppConfig, 1)
	holder.RegisterListener(ch)

	writeConfig(t, configPath, "train:\n  batch_size: 16\n")
	if _, err := holder.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}

	select {
	case got := <-ch:
		if got.Train.BatchSize != 16 {
			t.Errorf("listener received batch size %d, want 16", got.Train.BatchSize)
		}
	case <-time.After(time.Second):
		t.Fatal("listener was not notified")
	}
}

func TestStartWatcherNoPath(t *testing.T) {
	loader := NewLoader("", "test")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	holder := NewConfigHolder(cfg, loader, "")
	defer holder.Stop()

	if err := holder.StartWatcher(context.Background()); err != nil {
		t.Errorf("watcher with empty path must be a no-op, got %v", err)
	}
}

func TestWatcherReloadsOnFileChange(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "graspgen.yaml")
	writeConfig(t, configPath, "eval:\n  num_runs: 1\n")

	loader := NewLoader(configPath, "test")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	holder := NewConfigHolder(cfg, loader, configPath)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer holder.Stop()

	if err := holder.StartWatcher(ctx); err != nil {
		t.Fatalf("StartWatcher() failed: %v", err)
	}

	writeConfig(t, configPath, "eval:\n  num_runs: 5\n")

	// Watcher debounce is 500ms; allow generous slack.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if holder.Get().Eval.NumRuns == 5 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("watcher did not apply file change, num_runs=%d", holder.Get().Eval.NumRuns)
}
