// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/NVlabs/GraspGen/internal/log"
)

// MigrateFileConfig rewrites a parsed file into the current schema: legacy
// per-namespace gripper spellings collapse into the shared gripper block and
// are removed, and config_version is stamped. Returns the migrated file and
// the list of rewritten paths. Conflicting legacy values are a hard error.
func MigrateFileConfig(file *FileConfig) (*FileConfig, []string, error) {
	out := *file
	var migrated []string

	name := ""
	if file.Gripper != nil {
		name = strings.TrimSpace(file.Gripper.Name)
	}
	for _, src := range gripperNameSources {
		v := strings.TrimSpace(src.get(file))
		if v == "" {
			continue
		}
		if name == "" {
			name = v
		} else if v != name {
			return nil, nil, fmt.Errorf("%w: gripper.name=%q vs %s=%q", ErrGripperMismatch, name, src.path, v)
		}
		migrated = append(migrated, src.path)
	}

	var bins []float64
	if file.Gripper != nil {
		bins = file.Gripper.OffsetBins
	}
	for _, src := range offsetBinSources {
		v := src.get(file)
		if v == nil {
			continue
		}
		if bins == nil {
			bins = v
		} else if !floatsEqual(bins, v) {
			return nil, nil, fmt.Errorf("%w: gripper.offset_bins vs %s", ErrOffsetBinsMismatch, src.path)
		}
		migrated = append(migrated, src.path)
	}

	if name != "" || bins != nil {
		out.Gripper = &GripperFileConfig{Name: name, OffsetBins: copyFloats(bins)}
	}

	// Remove the legacy spellings.
	out.Data.GripperName = ""
	out.Data.OffsetBins = nil
	out.M2T2.ActionDecoder.GripperName = ""
	out.M2T2.ActionDecoder.OffsetBins = nil
	out.M2T2.GraspLoss.GripperName = ""
	out.Diffusion.GripperName = ""
	out.Discriminator.GripperName = ""

	// Drop fields with no replacement.
	if out.Data.NumRotations != nil {
		out.Data.NumRotations = nil
		migrated = append(migrated, "data.num_rotations")
	}
	if out.M2T2.ActionDecoder.UseEmbed != nil {
		out.M2T2.ActionDecoder.UseEmbed = nil
		migrated = append(migrated, "m2t2.action_decoder.use_embed")
	}

	out.ConfigVersion = CurrentConfigVersion

	return &out, migrated, nil
}

// MigrateFile migrates the YAML file at path. With write false it only
// reports the paths a migration would rewrite; with write true the file is
// rewritten atomically, so a crash mid-write leaves the original untouched.
// The returned list is empty when the file is already current.
func MigrateFile(path string, write bool) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	file, err := parseFileConfig(data)
	if err != nil {
		return nil, err
	}

	migrated, changed, err := MigrateFileConfig(file)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 && file.ConfigVersion == CurrentConfigVersion {
		return nil, nil
	}
	if !write {
		return changed, nil
	}

	out, err := yaml.Marshal(migrated)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal migrated config: %w", err)
	}

	if err := renameio.WriteFile(path, out, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write migrated config: %w", err)
	}

	logger := log.WithComponent("config")
	logger.Info().
		Str("path", path).
		Strs("migrated", changed).
		Msg("config file migrated")

	return changed, nil
}
