// SPDX-License-Identifier: MIT
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDumpYAMLRoundTrip(t *testing.T) {
	cfg := validConfig(t)

	out, err := DumpYAML(cfg)
	if err != nil {
		t.Fatalf("DumpYAML() failed: %v", err)
	}

	// A dumped config must parse strictly and load to the same effective config.
	configPath := filepath.Join(t.TempDir(), "dumped.yaml")
	if err := os.WriteFile(configPath, out, 0o600); err != nil {
		t.Fatalf("failed to write dumped config: %v", err)
	}

	reloaded, err := NewLoader(configPath, cfg.Version).Load()
	if err != nil {
		t.Fatalf("reloading dumped config failed: %v", err)
	}

	summary, err := Diff(cfg, reloaded)
	if err != nil {
		t.Fatalf("Diff() failed: %v", err)
	}
	if !summary.Empty() {
		t.Errorf("dump/load round trip changed the config: %s", summary)
	}
}

func TestDumpYAMLIsStable(t *testing.T) {
	cfg := validConfig(t)

	first, err := DumpYAML(cfg)
	if err != nil {
		t.Fatalf("DumpYAML() failed: %v", err)
	}
	second, err := DumpYAML(cfg)
	if err != nil {
		t.Fatalf("DumpYAML() failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("dumping the same config twice must produce identical output")
	}
}

func TestDumpYAMLOmitsDeprecatedSpellings(t *testing.T) {
	cfg, err := loadYAML(t, `
data:
  gripper_name: franka_panda
  offset_bins: [0, 0.02, 0.04]
`)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	out, err := DumpYAML(cfg)
	if err != nil {
		t.Fatalf("DumpYAML() failed: %v", err)
	}

	text := string(out)
	if strings.Contains(text, "gripper_name") {
		t.Error("canonical dump must not contain gripper_name")
	}
	if !strings.Contains(text, "gripper:") {
		t.Error("canonical dump must contain the shared gripper block")
	}
	if !strings.Contains(text, "config_version: v2") {
		t.Error("canonical dump must stamp config_version")
	}
}

func TestDumpJSON(t *testing.T) {
	cfg := validConfig(t)

	out, err := DumpJSON(cfg)
	if err != nil {
		t.Fatalf("DumpJSON() failed: %v", err)
	}

	var decoded AppConfig
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("DumpJSON output must be valid JSON: %v", err)
	}
	if decoded.Train.BatchSize != cfg.Train.BatchSize {
		t.Errorf("expected batch size %d, got %d", cfg.Train.BatchSize, decoded.Train.BatchSize)
	}
}

func TestCanonicalFileConfigDetachesSlices(t *testing.T) {
	cfg := validConfig(t)
	file := CanonicalFileConfig(cfg)

	file.Gripper.OffsetBins[0] = 99
	if cfg.Gripper.OffsetBins[0] == 99 {
		t.Error("canonical file must not alias the source config's slices")
	}
}
