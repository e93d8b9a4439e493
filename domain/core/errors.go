package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptySequence   = fmt.Errorf("%w: empty sequence", ErrInvalidInput)
	ErrInvalidSign     = fmt.Errorf("%w: sign must be +1 or -1", ErrInvalidInput)
	ErrZeroResidual    = fmt.Errorf("%w: zero residual has no sign", ErrInvalidInput)
	ErrNonFinite       = fmt.Errorf("%w: residual is not finite", ErrInvalidInput)
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownTest     = fmt.Errorf("%w: unknown test", ErrInvalidArgument)

	// Numerical domain errors
	ErrDomain           = errors.New("value outside the domain of the statistic")
	ErrDensityUndefined = fmt.Errorf("%w: density is zero or undefined", ErrDomain)

	// Calibration errors
	ErrCalibration        = errors.New("calibration error")
	ErrCalibrationMissing = fmt.Errorf("%w: resource not found", ErrCalibration)
	ErrCalibrationData    = fmt.Errorf("%w: malformed resource", ErrCalibration)
)
