// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrUnknownConfigField classifies strict YAML parse failures caused by unknown keys.
	// Use errors.Is(err, ErrUnknownConfigField) instead of string matching.
	ErrUnknownConfigField = errors.New("unknown config field")

	// ErrGripperMismatch reports conflicting gripper names across namespaces.
	ErrGripperMismatch = errors.New("conflicting gripper names")

	// ErrOffsetBinsMismatch reports conflicting offset bin sequences across namespaces.
	ErrOffsetBinsMismatch = errors.New("conflicting offset bins")
)
