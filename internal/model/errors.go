package model

import "errors"

// ErrNotLoaded is reported for an Availability that never received a handle.
var ErrNotLoaded = errors.New("model not loaded")

// modelNotFoundError signals that the model artifact does not exist on disk.
type modelNotFoundError struct{ path string }

func (e modelNotFoundError) Error() string { return "model file not found: " + e.path }

// ErrModelNotFound returns an error for a missing model artifact.
func ErrModelNotFound(path string) error { return modelNotFoundError{path: path} }

// IsModelNotFound reports whether err indicates a missing model artifact.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals a missing runtime dependency (e.g., llama.cpp
// support not compiled in).
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}

// Load failure kinds reported by Reason.
const (
	ReasonNotFound           = "not_found"
	ReasonRuntimeUnavailable = "runtime_unavailable"
	ReasonLoadFailed         = "load_failed"
)

// Reason classifies a load failure for status reporting. It returns "" for nil.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case IsModelNotFound(err):
		return ReasonNotFound
	case IsDependencyUnavailable(err):
		return ReasonRuntimeUnavailable
	default:
		return ReasonLoadFailed
	}
}
