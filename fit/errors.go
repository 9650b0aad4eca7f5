package fit

import "errors"

// Errors returned by spectrum validation and model fitting.
var (
	ErrInvalidFrequencyAxis = errors.New("fit: frequency axis must be strictly increasing")
	ErrNonPositivePower     = errors.New("fit: power values must be strictly positive")
	ErrLengthMismatch       = errors.New("fit: frequency and power lengths differ")
	ErrEmptyRange           = errors.New("fit: frequency range selects fewer than two samples")
	ErrAperiodicFit         = errors.New("fit: aperiodic fit did not converge")
	ErrJointFit             = errors.New("fit: joint model fit did not converge")
)
