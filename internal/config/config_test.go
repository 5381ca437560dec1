// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	loader := NewLoader("", "test-version")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Gripper.Name != "franka_panda" {
		t.Errorf("expected Gripper.Name=franka_panda, got %s", cfg.Gripper.Name)
	}
	if diff := cmp.Diff(defaultOffsetBins, cfg.Gripper.OffsetBins); diff != "" {
		t.Errorf("Gripper.OffsetBins mismatch (-want +got):\n%s", diff)
	}
	if cfg.Data.NumPoints != 16384 {
		t.Errorf("expected Data.NumPoints=16384, got %d", cfg.Data.NumPoints)
	}
	if cfg.Train.BatchSize != 8 {
		t.Errorf("expected Train.BatchSize=8, got %d", cfg.Train.BatchSize)
	}
	if cfg.Train.ModelName != ModelM2T2 {
		t.Errorf("expected Train.ModelName=m2t2, got %s", cfg.Train.ModelName)
	}
	if cfg.Eval.ModelName != ModelM2T2 {
		t.Errorf("expected Eval.ModelName=m2t2, got %s", cfg.Eval.ModelName)
	}
	if cfg.Eval.MaskThresh != 0.4 {
		t.Errorf("expected Eval.MaskThresh=0.4, got %g", cfg.Eval.MaskThresh)
	}
	if cfg.Diffusion.NumDiffusionIters != 100 {
		t.Errorf("expected Diffusion.NumDiffusionIters=100, got %d", cfg.Diffusion.NumDiffusionIters)
	}
	if cfg.Optimizer.Type != OptimizerAdamW {
		t.Errorf("expected Optimizer.Type=ADAMW, got %s", cfg.Optimizer.Type)
	}
	if cfg.M2T2.ContactDecoder.EmbedDim != 256 {
		t.Errorf("expected ContactDecoder.EmbedDim=256, got %d", cfg.M2T2.ContactDecoder.EmbedDim)
	}
	if cfg.Meshcat.Port != 7000 {
		t.Errorf("expected Meshcat.Port=7000, got %d", cfg.Meshcat.Port)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
}

func TestLoadFromYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "graspgen.yaml")

	yamlContent := `
config_version: v2
gripper:
  name: robotiq_2f_140
  offset_bins: [0, 0.01, 0.02, 0.03]
data:
  root_dir: data/custom
  num_points: 8192
train:
  model_name: diffusion
  batch_size: 4
eval:
  mask_thresh: 0.6
meshcat:
  visualize: true
  port: 7001
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	loader := NewLoader(configPath, "1.0.0")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Gripper.Name != "robotiq_2f_140" {
		t.Errorf("expected Gripper.Name=robotiq_2f_140, got %s", cfg.Gripper.Name)
	}
	if diff := cmp.Diff([]float64{0, 0.01, 0.02, 0.03}, cfg.Gripper.OffsetBins); diff != "" {
		t.Errorf("Gripper.OffsetBins mismatch (-want +got):\n%s", diff)
	}
	if cfg.Data.NumPoints != 8192 {
		t.Errorf("expected Data.NumPoints=8192, got %d", cfg.Data.NumPoints)
	}
	if cfg.Train.ModelName != ModelDiffusion {
		t.Errorf("expected Train.ModelName=diffusion, got %s", cfg.Train.ModelName)
	}
	if cfg.Train.BatchSize != 4 {
		t.Errorf("expected Train.BatchSize=4, got %d", cfg.Train.BatchSize)
	}
	if cfg.Eval.MaskThresh != 0.6 {
		t.Errorf("expected Eval.MaskThresh=0.6, got %g", cfg.Eval.MaskThresh)
	}
	if !cfg.Meshcat.Visualize || cfg.Meshcat.Port != 7001 {
		t.Errorf("expected Meshcat visualize on port 7001, got %+v", cfg.Meshcat)
	}

	// File leaves the rest at defaults.
	if cfg.Data.NumObjectPoints != 1024 {
		t.Errorf("expected default Data.NumObjectPoints=1024, got %d", cfg.Data.NumObjectPoints)
	}
	if cfg.Eval.ObjectThresh != 0.4 {
		t.Errorf("expected default Eval.ObjectThresh=0.4, got %g", cfg.Eval.ObjectThresh)
	}
}

func TestENVOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "graspgen.yaml")

	yamlContent := `
gripper:
  name: file_gripper
train:
  batch_size: 4
  model_name: m2t2
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("GRASPGEN_GRIPPER", "env_gripper")
	t.Setenv("GRASPGEN_BATCH_SIZE", "32")
	t.Setenv("GRASPGEN_TRAIN_MODEL", "discriminator")

	loader := NewLoader(configPath, "1.0.0")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Gripper.Name != "env_gripper" {
		t.Errorf("expected ENV to override file: Gripper.Name=env_gripper, got %s", cfg.Gripper.Name)
	}
	if cfg.Train.BatchSize != 32 {
		t.Errorf("expected ENV to override file: Train.BatchSize=32, got %d", cfg.Train.BatchSize)
	}
	if cfg.Train.ModelName != ModelDiscriminator {
		t.Errorf("expected ENV to override file: Train.ModelName=discriminator, got %s", cfg.Train.ModelName)
	}

	consumed := loader.ConsumedEnvKeys()
	for _, key := range []string{"GRASPGEN_GRIPPER", "GRASPGEN_BATCH_SIZE", "GRASPGEN_TRAIN_MODEL"} {
		if _, ok := consumed[key]; !ok {
			t.Errorf("expected %s to be tracked as consumed", key)
		}
	}
}

func TestENVOverridesListFields(t *testing.T) {
	t.Setenv("GRASPGEN_OFFSET_BINS", "0, 0.02, 0.04")
	t.Setenv("GRASPGEN_TASKS", "pick")

	cfg, err := NewLoader("", "test").Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if want := []float64{0, 0.02, 0.04}; !reflect.DeepEqual(cfg.Gripper.OffsetBins, want) {
		t.Errorf("expected offset bins %v from ENV, got %v", want, cfg.Gripper.OffsetBins)
	}
	if want := []string{"pick"}; !reflect.DeepEqual(cfg.Data.Tasks, want) {
		t.Errorf("expected tasks %v from ENV, got %v", want, cfg.Data.Tasks)
	}
}

func TestENVListFallsBackOnInvalidValue(t *testing.T) {
	t.Setenv("GRASPGEN_OFFSET_BINS", "0,not-a-number")

	cfg, err := NewLoader("", "test").Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if !reflect.DeepEqual(cfg.Gripper.OffsetBins, defaultOffsetBins) {
		t.Errorf("expected default offset bins on invalid ENV list, got %v", cfg.Gripper.OffsetBins)
	}
}

// Loads can run concurrently from the file watcher and the reload endpoint.
func TestLoadConcurrent(t *testing.T) {
	loader := NewLoader("", "test")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := loader.Load(); err != nil {
				t.Errorf("Load() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if _, ok := loader.ConsumedEnvKeys()["GRASPGEN_GRIPPER"]; !ok {
		t.Error("expected GRASPGEN_GRIPPER to be tracked as consumed")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "graspgen.yaml")

	yamlContent := `
train:
  model_name: transformer_xl
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := NewLoader(configPath, "1.0.0").Load(); err == nil {
		t.Fatal("expected error for unknown model name, got nil")
	}
}

func TestLoadCacheDirBecomesAbsolute(t *testing.T) {
	t.Setenv("GRASPGEN_CACHE_DIR", "cache")

	cfg, err := NewLoader("", "1.0.0").Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !filepath.IsAbs(cfg.Data.CacheDir) {
		t.Errorf("expected absolute cache dir, got %s", cfg.Data.CacheDir)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "graspgen.json")
	if err := os.WriteFile(configPath, []byte("{}"), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := NewLoader(configPath, "1.0.0").Load(); err == nil {
		t.Fatal("expected error for non-YAML extension, got nil")
	}
}
