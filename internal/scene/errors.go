package scene

import "errors"

var (
	ErrUnknownPrefab  = errors.New("unknown prefab")
	ErrNotInScene     = errors.New("object does not belong to this scene")
	ErrDestroyed      = errors.New("object has been destroyed")
	ErrAlreadyRunning = errors.New("scene loop is already running")
	ErrStopped        = errors.New("scene loop stopped")
	ErrInvalidPrefab  = errors.New("invalid prefab")
)
