package apperror

import "errors"

var (
	ErrMoveServiceUnavailable = errors.New("move service unavailable")
	ErrSessionNotFound        = errors.New("session not found")
)
