// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package recommend

import (
	"errors"
	"fmt"
)

// Error classes. Compare with errors.Is; an *Error matches its Kind.
var (
	// ErrValidation marks missing or malformed identifiers.
	ErrValidation = errors.New("validation error")

	// ErrDataUnavailable marks a failed store query.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrColdStart marks an actor with no usable history. Rankers report it
	// through ResultEmpty rather than as a failure.
	ErrColdStart = errors.New("cold start")

	// ErrUnexpected marks anything else: store contract violations and bugs.
	ErrUnexpected = errors.New("unexpected error")

	// ErrTrainingInProgress is returned by TryTrain when a train is running.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// Error is a classified engine error.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the class and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// DataUnavailable wraps a store failure.
func DataUnavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) && errors.Is(classified.Kind, ErrDataUnavailable) {
		return err
	}
	return &Error{Kind: ErrDataUnavailable, Op: op, Err: err}
}

// Classify returns the class of err, defaulting to ErrUnexpected.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation):
		return ErrValidation
	case errors.Is(err, ErrDataUnavailable):
		return ErrDataUnavailable
	case errors.Is(err, ErrColdStart):
		return ErrColdStart
	default:
		return ErrUnexpected
	}
}
