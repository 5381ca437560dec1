// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// FieldChange describes a single configuration value that differs between
// two configurations.
type FieldChange struct {
	Path string `json:"path"`
	Old  any    `json:"old"`
	New  any    `json:"new"`
}

// ChangeSummary is the result of comparing two configurations.
type ChangeSummary struct {
	Changes         []FieldChange `json:"changes"`
	RestartRequired bool          `json:"restart_required"`
}

// Empty reports whether the two configurations were identical.
func (s ChangeSummary) Empty() bool {
	return len(s.Changes) == 0
}

func (s ChangeSummary) String() string {
	if s.Empty() {
		return "no changes"
	}
	parts := make([]string, len(s.Changes))
	for i, c := range s.Changes {
		parts[i] = fmt.Sprintf("%s: %v -> %v", c.Path, c.Old, c.New)
	}
	return strings.Join(parts, ", ")
}

// Diff compares two configurations field by field using the registry.
// Changes to fields that are not hot-reloadable set RestartRequired,
// meaning a running training or evaluation process must be restarted
// for the new values to take effect.
func Diff(oldCfg, newCfg AppConfig) (ChangeSummary, error) {
	reg, err := GetRegistry()
	if err != nil {
		return ChangeSummary{}, fmt.Errorf("config registry unavailable: %w", err)
	}

	oldVal := reflect.ValueOf(oldCfg)
	newVal := reflect.ValueOf(newCfg)

	var summary ChangeSummary
	for _, path := range reg.Paths() {
		entry := reg.ByPath[path]

		ov, err := fieldValue(oldVal, entry.FieldPath)
		if err != nil {
			return ChangeSummary{}, err
		}
		nv, err := fieldValue(newVal, entry.FieldPath)
		if err != nil {
			return ChangeSummary{}, err
		}

		if reflect.DeepEqual(ov, nv) {
			continue
		}

		summary.Changes = append(summary.Changes, FieldChange{
			Path: entry.Path,
			Old:  ov,
			New:  nv,
		})
		if !entry.HotReloadable {
			summary.RestartRequired = true
		}
	}

	sort.Slice(summary.Changes, func(i, j int) bool {
		return summary.Changes[i].Path < summary.Changes[j].Path
	})

	return summary, nil
}

func fieldValue(v reflect.Value, fieldPath string) (any, error) {
	curr := v
	for _, p := range strings.Split(fieldPath, ".") {
		curr = curr.FieldByName(p)
		if !curr.IsValid() {
			return nil, fmt.Errorf("field %s not found in %s", p, fieldPath)
		}
	}
	return curr.Interface(), nil
}
