package ingest

import (
	"math"
	"math/rand"

	waveform "flicker-cloud/internal/waveform/domain"
)

// SyntheticSpec describes a generated test waveform: a DC level with a
// sinusoidal flicker component and optional Gaussian noise.
type SyntheticSpec struct {
	FrequencyHz    float64
	Duration       float64 // seconds
	SampleRate     int     // samples per second
	PercentFlicker float64
	NoiseStdDev    float64
}

// Synthetic generates the described waveform. The amplitude is chosen so the
// ideal (noise-free) waveform has exactly the requested percent flicker:
// for a sine around level L with amplitude a, percent flicker is a/L*100.
func Synthetic(spec SyntheticSpec) []waveform.Sample {
	n := int(spec.Duration * float64(spec.SampleRate))
	if n < 2 {
		n = 2
	}
	level := 1.0
	amplitude := level * spec.PercentFlicker / 100

	samples := make([]waveform.Sample, n)
	dt := 1 / float64(spec.SampleRate)
	for i := range samples {
		t := float64(i) * dt
		v := level + amplitude*math.Sin(2*math.Pi*spec.FrequencyHz*t)
		if spec.NoiseStdDev > 0 {
			v += rand.NormFloat64() * spec.NoiseStdDev
		}
		if v < 0 {
			v = 0
		}
		samples[i] = waveform.Sample{T: t, V: v}
	}
	return samples
}
