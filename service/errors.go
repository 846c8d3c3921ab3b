package service

import "errors"

var (
	ErrBirdNotFound     = errors.New("bird not found")
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)
