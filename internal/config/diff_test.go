// SPDX-License-Identifier: MIT
package config

import (
	"testing"
)

func TestDiffNoChanges(t *testing.T) {
	cfg := validConfig(t)
	summary, err := Diff(cfg, cfg)
	if err != nil {
		t.Fatalf("Diff() failed: %v", err)
	}
	if !summary.Empty() {
		t.Errorf("identical configs must produce an empty diff, got %v", summary.Changes)
	}
	if summary.RestartRequired {
		t.Error("empty diff must not require a restart")
	}
}

func TestDiffHotReloadableOnly(t *testing.T) {
	oldCfg := validConfig(t)
	newCfg := oldCfg
	newCfg.Eval.MaskThresh = 0.6
	newCfg.Meshcat.Visualize = true

	summary, err := Diff(oldCfg, newCfg)
	if err != nil {
		t.Fatalf("Diff() failed: %v", err)
	}
	if len(summary.Changes) != 2 {
		t.Fatalf("expected 2 changes, got %v", summary.Changes)
	}
	if summary.RestartRequired {
		t.Error("changing only hot-reloadable settings must not require a restart")
	}
}

func TestDiffRestartRequired(t *testing.T) {
	oldCfg := validConfig(t)
	newCfg := oldCfg
	newCfg.Train.BatchSize = 16

	summary, err := Diff(oldCfg, newCfg)
	if err != nil {
		t.Fatalf("Diff() failed: %v", err)
	}
	if summary.Empty() {
		t.Fatal("expected a change")
	}
	if !summary.RestartRequired {
		t.Error("changing train.batch_size must require a restart")
	}
	if summary.Changes[0].Path != "train.batch_size" {
		t.Errorf("expected path train.batch_size, got %s", summary.Changes[0].Path)
	}
	if summary.Changes[0].Old != 8 || summary.Changes[0].New != 16 {
		t.Errorf("expected 8 -> 16, got %v -> %v", summary.Changes[0].Old, summary.Changes[0].New)
	}
}

func TestDiffSliceChange(t *testing.T) {
	oldCfg := validConfig(t)
	newCfg := oldCfg
	newCfg.Gripper.OffsetBins = []float64{0, 0.02, 0.04}

	summary, err := Diff(oldCfg, newCfg)
	if err != nil {
		t.Fatalf("Diff() failed: %v", err)
	}
	if summary.Empty() {
		t.Fatal("expected offset bin change to be detected")
	}
	if !summary.RestartRequired {
		t.Error("changing gripper.offset_bins must require a restart")
	}
}

func TestDiffChangesAreSorted(t *testing.T) {
	oldCfg := validConfig(t)
	newCfg := oldCfg
	newCfg.Train.BatchSize = 16
	newCfg.Data.NumPoints = 8192
	newCfg.Eval.NumRuns = 3

	summary, err := Diff(oldCfg, newCfg)
	if err != nil {
		t.Fatalf("Diff() failed: %v", err)
	}
	for i := 1; i < len(summary.Changes); i++ {
		if summary.Changes[i-1].Path >= summary.Changes[i].Path {
			t.Errorf("changes not sorted: %s before %s", summary.Changes[i-1].Path, summary.Changes[i].Path)
		}
	}
}
