package waveform

import "errors"

var (
	// ErrMalformedWaveform is returned when imported samples cannot form a waveform.
	ErrMalformedWaveform = errors.New("waveform: malformed data")
	// ErrNoPeriodDetected is returned when no rising-edge crossing of the
	// midpoint level exists (flat or non-periodic signal).
	ErrNoPeriodDetected = errors.New("waveform: no period detected")
	// ErrInsufficientData is returned when the requested number of whole
	// periods exceeds the sampled data.
	ErrInsufficientData = errors.New("waveform: insufficient data")
)
