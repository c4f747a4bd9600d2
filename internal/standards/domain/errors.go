package standards

import "errors"

var (
	// ErrFrequencyOutOfRange is returned for manual points outside [1, 10000] Hz.
	ErrFrequencyOutOfRange = errors.New("standards: frequency out of range")
	// ErrModulationOutOfRange is returned for manual points outside [0.01, 100] percent.
	ErrModulationOutOfRange = errors.New("standards: modulation out of range")
)
