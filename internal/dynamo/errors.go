package dynamo

import "errors"

// Domain errors for simulation setup. The tick itself never fails.
var (
	// ErrParameterBounds indicates a configuration value outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownComponent indicates a camera or flow algorithm name with no registration.
	ErrUnknownComponent = errors.New("dynamo: unknown component")

	// ErrNoFrames indicates a frame source with nothing to replay.
	ErrNoFrames = errors.New("dynamo: no frames available")

	// ErrDimensionMismatch indicates grayscale frames of different sizes handed to a flow algorithm.
	ErrDimensionMismatch = errors.New("dynamo: frame dimension mismatch")
)

// ParamError wraps ErrParameterBounds with the offending field.
type ParamError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return "config: " + e.Field + ": " + e.Reason
}

func (e *ParamError) Unwrap() error {
	return ErrParameterBounds
}
