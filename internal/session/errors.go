package session

import "errors"

var (
	ErrNotStarted    = errors.New("tracking session not started")
	ErrInvalidAnchor = errors.New("invalid anchor")
)
