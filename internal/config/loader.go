// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/NVlabs/GraspGen/internal/metrics"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
	version    string

	// Load may run concurrently from the file watcher and the reload
	// endpoint, so the tracking map is guarded.
	mu       sync.Mutex
	consumed map[string]struct{}
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath: configPath,
		version:    version,
		consumed:   make(map[string]struct{}),
	}
}

// ConsumedEnvKeys returns a copy of the environment keys read so far.
func (l *Loader) ConsumedEnvKeys() map[string]struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]struct{}, len(l.consumed))
	for k := range l.consumed {
		out[k] = struct{}{}
	}
	return out
}

func (l *Loader) markConsumed(key string) {
	l.mu.Lock()
	l.consumed[key] = struct{}{}
	l.mu.Unlock()
}

// Wrapper methods for mechanical connection tracking

func (l *Loader) envString(key, defaultVal string) string {
	l.markConsumed(key)
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.markConsumed(key)
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.markConsumed(key)
	return ParseInt(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.markConsumed(key)
	return ParseFloat(key, defaultVal)
}

func (l *Loader) envFloats(key string, defaultVal []float64) []float64 {
	l.markConsumed(key)
	return ParseFloatList(key, defaultVal)
}

func (l *Loader) envStrings(key string, defaultVal []string) []string {
	l.markConsumed(key)
	return ParseStringList(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults
// It enforces Strict Validated Order: Parse File (Strict) -> Apply Env -> Validate
func (l *Loader) Load() (AppConfig, error) {
	cfg := AppConfig{}

	reg, err := GetRegistry()
	if err != nil {
		return cfg, fmt.Errorf("config registry: %w", err)
	}

	// 1. Set defaults
	if err := reg.ApplyDefaults(&cfg); err != nil {
		return cfg, fmt.Errorf("set defaults: %w", err)
	}

	// 2. Load from file (if provided)
	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			metrics.RecordLoad(false)
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := l.mergeFileConfig(&cfg, fileCfg); err != nil {
			metrics.RecordLoad(false)
			return cfg, fmt.Errorf("merge file config: %w", err)
		}

		strict := l.envBool("GRASPGEN_CONFIG_STRICT", false)
		if err := l.CheckDeprecations(fileCfg, strict); err != nil {
			metrics.RecordLoad(false)
			return cfg, err
		}
	}

	// 3. Override with environment variables (highest priority)
	l.mergeEnvConfig(&cfg)

	// Resolve the cache directory to an absolute path so downstream workers
	// agree on it regardless of their working directory.
	if cfg.Data.CacheDir != "" {
		if abs, err := filepath.Abs(cfg.Data.CacheDir); err == nil {
			cfg.Data.CacheDir = abs
		}
	}

	// 4. Version from binary
	cfg.Version = l.version

	// 5. Validate final configuration
	if err := Validate(cfg); err != nil {
		metrics.RecordValidationError()
		metrics.RecordLoad(false)
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	metrics.RecordLoad(true)
	metrics.SetConfigInfo(cfg.Train.ModelName, cfg.Eval.ModelName, cfg.Gripper.Name)
	return cfg, nil
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return parseFileConfig(data)
}

// parseFileConfig decodes a YAML document in strict mode. Empty input yields
// an empty FileConfig; trailing documents are rejected.
func parseFileConfig(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields

	if err := dec.Decode(&fileCfg); err != nil {
		if err == io.EOF {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}
