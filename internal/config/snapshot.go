// SPDX-License-Identifier: MIT

package config

import (
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NVlabs/GraspGen/internal/log"
)

// RuntimeInfo captures process-level facts alongside a configuration snapshot.
type RuntimeInfo struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
	NumCPU    int       `json:"num_cpu" yaml:"num_cpu"`
	LogLevel  string    `json:"log_level" yaml:"log_level"`
}

// Snapshot is a point-in-time copy of the effective configuration together
// with runtime metadata. It is what the admin API and diagnostic dumps serve.
type Snapshot struct {
	Config  AppConfig   `json:"config" yaml:"config"`
	Runtime RuntimeInfo `json:"runtime" yaml:"runtime"`
}

var processRunID = uuid.NewString()

// NewSnapshot builds a snapshot of the given configuration. Slices are
// copied so the snapshot stays stable if the source config is mutated.
func NewSnapshot(cfg AppConfig) Snapshot {
	cp := cfg
	cp.Gripper.OffsetBins = copyFloats(cfg.Gripper.OffsetBins)
	cp.Data.Tasks = copyStrings(cfg.Data.Tasks)
	cp.Data.DiscriminatorRatio = copyFloats(cfg.Data.DiscriminatorRatio)
	cp.M2T2.ContactDecoder.InFeatures = copyStrings(cfg.M2T2.ContactDecoder.InFeatures)
	cp.M2T2.ContactDecoder.ObjectInFeatures = copyStrings(cfg.M2T2.ContactDecoder.ObjectInFeatures)

	return Snapshot{
		Config: cp,
		Runtime: RuntimeInfo{
			RunID:     processRunID,
			StartedAt: time.Now().UTC(),
			GoVersion: runtime.Version(),
			NumCPU:    runtime.NumCPU(),
			LogLevel:  zerolog.GlobalLevel().String(),
		},
	}
}

// Log writes a one-line summary of the snapshot at info level.
func (s Snapshot) Log() {
	logger := log.WithComponent("config")
	logger.Info().
		Str("run_id", s.Runtime.RunID).
		Str("gripper", s.Config.Gripper.Name).
		Str("train_model", s.Config.Train.ModelName).
		Str("eval_model", s.Config.Eval.ModelName).
		Int("batch_size", s.Config.Train.BatchSize).
		Msg("configuration snapshot")
}

func copyFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
