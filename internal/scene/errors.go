package scene

import "errors"

// Domain errors for the scene package.
var (
	// ErrSceneNotFound reports a catalog lookup miss. Triggers do not use it:
	// an id outside the catalog runs as entry.
	ErrSceneNotFound = errors.New("scene: not found")

	// ErrInvalidSceneID is returned when a trigger names no scene.
	ErrInvalidSceneID = errors.New("scene: invalid id")

	// ErrInvalidScene is returned when a catalog entry is malformed.
	ErrInvalidScene = errors.New("scene: invalid")

	// ErrMissingDependency is returned by New when a required collaborator is nil.
	ErrMissingDependency = errors.New("scene: missing dependency")

	// ErrSuperseded is returned by TriggerSync when a newer trigger replaced
	// this one before the backend answered.
	ErrSuperseded = errors.New("scene: superseded by newer trigger")
)
