package model

import "errors"

// Errors returned by model operations.
var (
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrRangeInvalid       = errors.New("invalid range")
	ErrOffsetOutOfRange   = errors.New("offset out of range")
	ErrEditInProgress     = errors.New("edit already in progress")
	ErrNotEditing         = errors.New("no edit in progress")
	ErrSelectionInvalid   = errors.New("invalid selection")
	ErrRunNotFound        = errors.New("run not found in document")
)
