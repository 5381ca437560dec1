// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for the configuration service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	configLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graspgen_config_loads_total",
		Help: "Configuration load attempts by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	configReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graspgen_config_reloads_total",
		Help: "Configuration reload attempts by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	configValidationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graspgen_config_validation_errors_total",
		Help: "Total number of configuration validation failures",
	})

	deprecatedKeysSeen = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graspgen_config_deprecated_keys_total",
		Help: "Deprecated configuration keys encountered during load",
	}, []string{"path"})

	configInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "graspgen_config_info",
		Help: "Currently loaded configuration identity (always 1)",
	}, []string{"train_model", "eval_model", "gripper"})
)

// RecordLoad records the outcome of a configuration load.
func RecordLoad(success bool) {
	configLoadsTotal.WithLabelValues(outcome(success)).Inc()
}

// RecordReload records the outcome of a configuration reload.
func RecordReload(success bool) {
	configReloadsTotal.WithLabelValues(outcome(success)).Inc()
}

// RecordValidationError counts a configuration validation failure.
func RecordValidationError() {
	configValidationErrors.Inc()
}

// RecordDeprecatedKey counts a deprecated configuration key sighting.
func RecordDeprecatedKey(path string) {
	deprecatedKeysSeen.WithLabelValues(path).Inc()
}

// SetConfigInfo publishes the identity of the currently loaded configuration.
func SetConfigInfo(trainModel, evalModel, gripper string) {
	configInfo.Reset()
	configInfo.WithLabelValues(trainModel, evalModel, gripper).Set(1)
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
