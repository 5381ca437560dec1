// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NVlabs/GraspGen/internal/log"
	"github.com/NVlabs/GraspGen/internal/metrics"
)

// Deprecation represents a deprecated configuration field.
type Deprecation struct {
	OldPath         string // The deprecated path (e.g. "data.gripper_name")
	NewPath         string // The replacement path (e.g. "gripper.name")
	DeprecatedSince string // Config version that deprecated it
	RemovalVersion  string // Config version that will remove it
}

// deprecationRegistry contains all known deprecated configuration fields.
// Deprecated fields remain readable for backward compatibility: they are
// warned about, counted, and mapped onto their replacements during load.
var deprecationRegistry = map[string]Deprecation{
	"data.gripper_name": {
		OldPath: "data.gripper_name", NewPath: "gripper.name",
		DeprecatedSince: "v2", RemovalVersion: "v3",
	},
	"data.offset_bins": {
		OldPath: "data.offset_bins", NewPath: "gripper.offset_bins",
		DeprecatedSince: "v2", RemovalVersion: "v3",
	},
	"data.num_rotations": {
		OldPath: "data.num_rotations", NewPath: "",
		DeprecatedSince: "v2", RemovalVersion: "v3",
	},
	"m2t2.action_decoder.gripper_name": {
		OldPath: "m2t2.action_decoder.gripper_name", NewPath: "gripper.name",
		DeprecatedSince: "v2", RemovalVersion: "v3",
	},
	"m2t2.action_decoder.offset_bins": {
		OldPath: "m2t2.action_decoder.offset_bins", NewPath: "gripper.offset_bins",
		DeprecatedSince: "v2", RemovalVersion: "v3",
	},
	"m2t2.action_decoder.use_embed": {
		OldPath: "m2t2.action_decoder.use_embed", NewPath: "",
		DeprecatedSince: "v2", RemovalVersion: "v3",
	},
	"m2t2.grasp_loss.gripper_name": {
		OldPath: "m2t2.grasp_loss.gripper_name", NewPath: "gripper.name",
		DeprecatedSince: "v2", RemovalVersion: "v3",
	},
	"diffusion.gripper_name": {
		OldPath: "diffusion.gripper_name", NewPath: "gripper.name",
		DeprecatedSince: "v2", RemovalVersion: "v3",
	},
	"discriminator.gripper_name": {
		OldPath: "discriminator.gripper_name", NewPath: "gripper.name",
		DeprecatedSince: "v2", RemovalVersion: "v3",
	},
}

// deprecatedPathsInFile returns the deprecated paths actually present in file,
// in sorted order.
func deprecatedPathsInFile(file *FileConfig) []string {
	if file == nil {
		return nil
	}

	var found []string
	add := func(path string, present bool) {
		if present {
			found = append(found, path)
		}
	}

	add("data.gripper_name", strings.TrimSpace(file.Data.GripperName) != "")
	add("data.offset_bins", file.Data.OffsetBins != nil)
	add("data.num_rotations", file.Data.NumRotations != nil)
	add("m2t2.action_decoder.gripper_name", strings.TrimSpace(file.M2T2.ActionDecoder.GripperName) != "")
	add("m2t2.action_decoder.offset_bins", file.M2T2.ActionDecoder.OffsetBins != nil)
	add("m2t2.action_decoder.use_embed", file.M2T2.ActionDecoder.UseEmbed != nil)
	add("m2t2.grasp_loss.gripper_name", strings.TrimSpace(file.M2T2.GraspLoss.GripperName) != "")
	add("diffusion.gripper_name", strings.TrimSpace(file.Diffusion.GripperName) != "")
	add("discriminator.gripper_name", strings.TrimSpace(file.Discriminator.GripperName) != "")

	sort.Strings(found)
	return found
}

// CheckDeprecations scans the parsed file for deprecated fields. Each finding
// is logged and counted. When strict is true, any finding is a fatal error.
func (l *Loader) CheckDeprecations(file *FileConfig, strict bool) error {
	found := deprecatedPathsInFile(file)
	if len(found) == 0 {
		return nil
	}

	logger := log.WithComponent("config")
	for _, path := range found {
		dep := deprecationRegistry[path]
		metrics.RecordDeprecatedKey(path)
		ev := logger.Warn().
			Str("old_path", dep.OldPath).
			Str("deprecated_since", dep.DeprecatedSince).
			Str("removal_version", dep.RemovalVersion)
		if dep.NewPath != "" {
			ev = ev.Str("new_path", dep.NewPath)
		}
		ev.Msg("deprecated configuration field detected")
	}

	if strict {
		return fmt.Errorf("strict mode: deprecated configuration fields present: %s (run 'graspgen config migrate')",
			strings.Join(found, ", "))
	}
	return nil
}

// GetDeprecation looks up a deprecation by old path.
func GetDeprecation(oldPath string) (Deprecation, bool) {
	dep, found := deprecationRegistry[oldPath]
	return dep, found
}

// DeprecationSummary returns a human-readable summary of all registered deprecations.
func DeprecationSummary() string {
	if len(deprecationRegistry) == 0 {
		return "No deprecated configuration fields"
	}

	paths := make([]string, 0, len(deprecationRegistry))
	for p := range deprecationRegistry {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("Deprecated configuration fields:\n")
	for _, p := range paths {
		dep := deprecationRegistry[p]
		if dep.NewPath != "" {
			fmt.Fprintf(&b, "  - %s -> %s (since %s, removed in %s)\n",
				dep.OldPath, dep.NewPath, dep.DeprecatedSince, dep.RemovalVersion)
		} else {
			fmt.Fprintf(&b, "  - %s (since %s, removed in %s, no replacement)\n",
				dep.OldPath, dep.DeprecatedSince, dep.RemovalVersion)
		}
	}
	return b.String()
}
