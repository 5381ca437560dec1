// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strings"
)

// gripperNameSources lists every legacy spelling of the gripper name along
// with an accessor into the parsed file. Older configuration files repeated
// the gripper name per namespace; the shared gripper block is canonical now.
var gripperNameSources = []struct {
	path string
	get  func(*FileConfig) string
}{
	{"data.gripper_name", func(f *FileConfig) string { return f.Data.GripperName }},
	{"m2t2.action_decoder.gripper_name", func(f *FileConfig) string { return f.M2T2.ActionDecoder.GripperName }},
	{"m2t2.grasp_loss.gripper_name", func(f *FileConfig) string { return f.M2T2.GraspLoss.GripperName }},
	{"diffusion.gripper_name", func(f *FileConfig) string { return f.Diffusion.GripperName }},
	{"discriminator.gripper_name", func(f *FileConfig) string { return f.Discriminator.GripperName }},
}

var offsetBinSources = []struct {
	path string
	get  func(*FileConfig) []float64
}{
	{"data.offset_bins", func(f *FileConfig) []float64 { return f.Data.OffsetBins }},
	{"m2t2.action_decoder.offset_bins", func(f *FileConfig) []float64 { return f.M2T2.ActionDecoder.OffsetBins }},
}

// resolveGripper collapses the shared gripper block and all legacy
// per-namespace spellings into cfg.Gripper. Conflicting values are a hard
// error: a file that configures two different grippers is ambiguous, and
// silently picking one would train against the wrong kinematics.
func (l *Loader) resolveGripper(cfg *AppConfig, file *FileConfig) error {
	name := ""
	namePath := ""
	if file.Gripper != nil && strings.TrimSpace(file.Gripper.Name) != "" {
		name = file.Gripper.Name
		namePath = "gripper.name"
	}
	for _, src := range gripperNameSources {
		v := strings.TrimSpace(src.get(file))
		if v == "" {
			continue
		}
		if name == "" {
			name = v
			namePath = src.path
			continue
		}
		if v != name {
			return fmt.Errorf("%w: %s=%q vs %s=%q", ErrGripperMismatch, namePath, name, src.path, v)
		}
	}
	if name != "" {
		cfg.Gripper.Name = name
	}

	var bins []float64
	binsPath := ""
	if file.Gripper != nil && file.Gripper.OffsetBins != nil {
		bins = file.Gripper.OffsetBins
		binsPath = "gripper.offset_bins"
	}
	for _, src := range offsetBinSources {
		v := src.get(file)
		if v == nil {
			continue
		}
		if bins == nil {
			bins = v
			binsPath = src.path
			continue
		}
		if !floatsEqual(bins, v) {
			return fmt.Errorf("%w: %s vs %s", ErrOffsetBinsMismatch, binsPath, src.path)
		}
	}
	if bins != nil {
		out := make([]float64, len(bins))
		copy(out, bins)
		cfg.Gripper.OffsetBins = out
	}

	return nil
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
