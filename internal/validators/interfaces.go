// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

// Package validators provides input validation for the domain models,
// decoupled from transport and storage so services and handlers can share
// the same rules.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
