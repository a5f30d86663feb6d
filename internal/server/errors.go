package server

import "errors"

var (
	ErrServerClosed   = errors.New("server is closed")
	ErrTargetNotFound = errors.New("target not found")
	ErrForbidden      = errors.New("actor may not interact with this target")
	ErrUnknownAction  = errors.New("unknown control action")
	ErrInvalidConfig  = errors.New("invalid server configuration")
)
