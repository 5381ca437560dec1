// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"testing"
)

func TestParseFileConfigStrict(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name: "unknown top-level key",
			yaml: `
trainer:
  batch_size: 8
`,
			wantErr: ErrUnknownConfigField,
		},
		{
			name: "unknown nested key",
			yaml: `
train:
  batch_size: 8
  warmup_epochs: 5
`,
			wantErr: ErrUnknownConfigField,
		},
		{
			name: "typo in known key",
			yaml: `
data:
  num_pionts: 8192
`,
			wantErr: ErrUnknownConfigField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFileConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseFileConfigEmpty(t *testing.T) {
	file, err := parseFileConfig(nil)
	if err != nil {
		t.Fatalf("parseFileConfig(nil) failed: %v", err)
	}
	if file == nil {
		t.Fatal("expected empty FileConfig, got nil")
	}
}

func TestParseFileConfigMultiDocument(t *testing.T) {
	yaml := `
train:
  batch_size: 8
---
train:
  batch_size: 16
`
	if _, err := parseFileConfig([]byte(yaml)); err == nil {
		t.Fatal("expected error for multi-document file, got nil")
	}
}

func TestParseFileConfigValid(t *testing.T) {
	yaml := `
gripper:
  name: franka_panda
train:
  batch_size: 8
`
	file, err := parseFileConfig([]byte(yaml))
	if err != nil {
		t.Fatalf("parseFileConfig failed: %v", err)
	}
	if file.Gripper == nil || file.Gripper.Name != "franka_panda" {
		t.Errorf("expected gripper.name=franka_panda, got %+v", file.Gripper)
	}
	if file.Train.BatchSize == nil || *file.Train.BatchSize != 8 {
		t.Errorf("expected train.batch_size=8, got %+v", file.Train.BatchSize)
	}
	if file.Train.NumEpochs != nil {
		t.Errorf("expected unset train.num_epochs to stay nil, got %v", *file.Train.NumEpochs)
	}
}
