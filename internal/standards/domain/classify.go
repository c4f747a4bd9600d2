package standards

import "fmt"

// Compliance holds the verdicts of all supported standards for one
// (frequency, percent flicker) pair.
type Compliance struct {
	IEEE17892015      RiskCategory
	CaliforniaJA82019 bool
	WELLStandardV2    bool
}

// Classify evaluates every standard. Each test is a pure function of the
// inputs; no state is shared.
func Classify(frequencyHz, percentFlicker float64) Compliance {
	return Compliance{
		IEEE17892015:      IEEE17892015(frequencyHz, percentFlicker),
		CaliforniaJA82019: CaliforniaJA82019(frequencyHz, percentFlicker),
		WELLStandardV2:    WELLBuildingStandardV2(frequencyHz, percentFlicker),
	}
}

// Point is a manually entered (frequency, modulation) pair for IEEE
// classification without a waveform.
type Point struct {
	FrequencyHz       float64
	ModulationPercent float64
	Label             string
}

const (
	minManualModulationPercent = 0.01
	maxManualModulationPercent = 100.0
)

// Validate checks the manual-entry ranges.
func (p Point) Validate() error {
	if p.FrequencyHz < MinFrequencyHz || p.FrequencyHz > MaxFrequencyHz {
		return fmt.Errorf("%w: %g Hz not in [%g, %g]", ErrFrequencyOutOfRange, p.FrequencyHz, MinFrequencyHz, MaxFrequencyHz)
	}
	if p.ModulationPercent < minManualModulationPercent || p.ModulationPercent > maxManualModulationPercent {
		return fmt.Errorf("%w: %g%% not in [%g, %g]", ErrModulationOutOfRange, p.ModulationPercent, minManualModulationPercent, maxManualModulationPercent)
	}
	return nil
}

// ClassifyPoint validates a manual point and returns its IEEE verdict.
func ClassifyPoint(p Point) (RiskCategory, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	return IEEE17892015(p.FrequencyHz, p.ModulationPercent), nil
}
