package config

import "errors"

var (
	// ErrInvalid is returned when a field fails its validation tag.
	ErrInvalid = errors.New("invalid configuration")
	// ErrMissing is returned when a command lacks a required option.
	ErrMissing = errors.New("missing option")
	// ErrUnknownCommand is returned for a Config without a known command.
	ErrUnknownCommand = errors.New("unknown command")
)
