package domain

import "github.com/cockroachdb/errors"

var (
	ErrSerializationFailure = errors.New("serialization failure")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidEnum          = errors.New("invalid enum value")
	ErrSlotUnavailable      = errors.New("slot unavailable")
	ErrInvalidTransition    = errors.New("invalid status transition")
)
