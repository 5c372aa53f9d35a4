package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrNoFields      = errors.New("no fields to write")
	ErrUnknownColumn = errors.New("unknown column")
)
