// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/NVlabs/GraspGen/internal/config"
	"github.com/NVlabs/GraspGen/internal/log"
)

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleConfigGet serves the effective configuration as a snapshot.
// ?format=yaml returns the canonical YAML document instead of JSON.
func (s *Server) handleConfigGet(w http.ResponseWriter, r *http.Request) {
	cfg := s.source.Get()

	if r.URL.Query().Get("format") == "yaml" {
		out, err := config.DumpYAML(cfg)
		if err != nil {
			s.serverError(w, r, err, "failed to render config")
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(out)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(config.NewSnapshot(cfg))
}

// schemaEntry is the wire form of a registry entry.
type schemaEntry struct {
	Path          string `json:"path"`
	Env           string `json:"env,omitempty"`
	Status        string `json:"status"`
	HotReloadable bool   `json:"hot_reloadable"`
	Default       any    `json:"default,omitempty"`
}

func (s *Server) handleConfigSchema(w http.ResponseWriter, r *http.Request) {
	reg, err := config.GetRegistry()
	if err != nil {
		s.serverError(w, r, err, "config registry unavailable")
		return
	}

	entries := make([]schemaEntry, 0, len(reg.ByPath))
	for _, path := range reg.Paths() {
		e := reg.ByPath[path]
		entries = append(entries, schemaEntry{
			Path:          e.Path,
			Env:           e.Env,
			Status:        string(e.Status),
			HotReloadable: e.HotReloadable,
			Default:       e.Default,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}

func (s *Server) handleConfigReload(w http.ResponseWriter, r *http.Request) {
	summary, err := s.source.Reload(r.Context())
	if err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Warn().
			Err(err).
			Str("event", "config.reload_failed").
			Msg("config reload failed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "config reload failed", "detail": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Error().Err(err).Msg(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}
