// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadYAML(t *testing.T, content string) (AppConfig, error) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "graspgen.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return NewLoader(configPath, "test").Load()
}

func TestGripperSharedBlock(t *testing.T) {
	cfg, err := loadYAML(t, `
gripper:
  name: robotiq_2f_140
  offset_bins: [0, 0.02, 0.04]
`)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Gripper.Name != "robotiq_2f_140" {
		t.Errorf("expected robotiq_2f_140, got %s", cfg.Gripper.Name)
	}
	if diff := cmp.Diff([]float64{0, 0.02, 0.04}, cfg.Gripper.OffsetBins); diff != "" {
		t.Errorf("offset bins mismatch (-want +got):\n%s", diff)
	}
}

func TestGripperLegacySpellingsCollapse(t *testing.T) {
	// A legacy file that repeats the same gripper everywhere loads cleanly.
	cfg, err := loadYAML(t, `
data:
  gripper_name: suction_cup
  offset_bins: [0, 0.01, 0.02]
m2t2:
  action_decoder:
    gripper_name: suction_cup
    offset_bins: [0, 0.01, 0.02]
  grasp_loss:
    gripper_name: suction_cup
diffusion:
  gripper_name: suction_cup
discriminator:
  gripper_name: suction_cup
`)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Gripper.Name != "suction_cup" {
		t.Errorf("expected legacy spellings to collapse into gripper.name, got %s", cfg.Gripper.Name)
	}
	if diff := cmp.Diff([]float64{0, 0.01, 0.02}, cfg.Gripper.OffsetBins); diff != "" {
		t.Errorf("offset bins mismatch (-want +got):\n%s", diff)
	}
}

func TestGripperNameMismatchIsFatal(t *testing.T) {
	_, err := loadYAML(t, `
data:
  gripper_name: franka_panda
diffusion:
  gripper_name: robotiq_2f_140
`)
	if err == nil {
		t.Fatal("expected error for conflicting gripper names, got nil")
	}
	if !errors.Is(err, ErrGripperMismatch) {
		t.Errorf("expected ErrGripperMismatch, got %v", err)
	}
}

func TestGripperSharedBlockVsLegacyMismatch(t *testing.T) {
	_, err := loadYAML(t, `
gripper:
  name: franka_panda
m2t2:
  grasp_loss:
    gripper_name: robotiq_2f_140
`)
	if err == nil {
		t.Fatal("expected error for shared block vs legacy mismatch, got nil")
	}
	if !errors.Is(err, ErrGripperMismatch) {
		t.Errorf("expected ErrGripperMismatch, got %v", err)
	}
}

func TestOffsetBinsMismatchIsFatal(t *testing.T) {
	_, err := loadYAML(t, `
data:
  offset_bins: [0, 0.01, 0.02]
m2t2:
  action_decoder:
    offset_bins: [0, 0.02, 0.04]
`)
	if err == nil {
		t.Fatal("expected error for conflicting offset bins, got nil")
	}
	if !errors.Is(err, ErrOffsetBinsMismatch) {
		t.Errorf("expected ErrOffsetBinsMismatch, got %v", err)
	}
}

func TestGripperDefaultsWhenUnset(t *testing.T) {
	cfg, err := loadYAML(t, `
train:
  batch_size: 8
`)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Gripper.Name != DefaultGripperName {
		t.Errorf("expected default gripper %s, got %s", DefaultGripperName, cfg.Gripper.Name)
	}
	if diff := cmp.Diff(defaultOffsetBins, cfg.Gripper.OffsetBins); diff != "" {
		t.Errorf("expected default offset bins (-want +got):\n%s", diff)
	}
}
