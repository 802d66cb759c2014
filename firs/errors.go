package firs

import (
	"github.com/pkg/errors"

	"github.com/linesmerrill/police-fir-api/databases"
)

var (
	// ErrNotFound is returned when a FIR id or number does not resolve
	ErrNotFound = databases.ErrNotFound
	// ErrInvalidRequest is returned for commands that cannot be interpreted,
	// such as an unknown status or priority or a create without an owner
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidTransition is returned when the transition policy rejects a
	// status change
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrNumberingExhausted is returned when every attempt to assign a FIR
	// number collided with an existing one
	ErrNumberingExhausted = errors.New("fir numbering retries exhausted")
)
