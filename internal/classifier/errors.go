package classifier

import (
	"errors"
	"fmt"

	"github.com/abhisek/formcheck/internal/descriptor"
)

// ErrNotLoaded is returned by Predict when the classifier has not finished
// loading. Predictions are never defaulted or queued.
var ErrNotLoaded = errors.New("classifier not loaded")

// ErrMissingPose is returned when there is no pose to classify this frame.
// It is an expected condition; the pipeline reports it as "awaiting pose".
var ErrMissingPose = errors.New("no pose detected")

// ConfigError reports a descriptor or engine configuration that cannot be
// used: unsupported kernel or decision shape, malformed model data, or
// mismatched vector lengths. It is fatal and never retried.
type ConfigError struct {
	Kind  descriptor.Kind
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s configuration: %s: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s configuration: %v", e.Kind, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErrorf(kind descriptor.Kind, field, format string, args ...any) error {
	return &ConfigError{Kind: kind, Field: field, Err: fmt.Errorf(format, args...)}
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
