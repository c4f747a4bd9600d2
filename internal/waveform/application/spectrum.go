package application

import (
	"context"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// maxSpectrumFrequencyHz bounds the reported spectrum to the range relevant
// for flicker perception.
const maxSpectrumFrequencyHz = 3000.0

// Spectrum is a normalized single-sided FFT magnitude spectrum.
type Spectrum struct {
	FrequenciesHz []float64
	Magnitudes    []float64
	DominantHz    float64
}

// ComprehensiveResult extends the base analysis with frequency-domain and
// statistical supplements.
type ComprehensiveResult struct {
	AnalysisResult
	Spectrum     Spectrum
	RMSVariation float64
}

// Comprehensive runs the extended analysis for a stored session.
func (s *AnalysisService) Comprehensive(ctx context.Context, id string) (*ComprehensiveResult, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(session.Samples))
	for i, sample := range session.Samples {
		values[i] = sample.V
	}

	return &ComprehensiveResult{
		AnalysisResult: session.Result,
		Spectrum:       computeSpectrum(values, session.Result.FrameRate),
		RMSVariation:   rmsVariation(values),
	}, nil
}

// computeSpectrum removes the DC component, transforms, and keeps the
// positive frequencies up to the flicker-relevant range, normalized to the
// strongest bin. The dominant frequency is picked before truncation.
func computeSpectrum(values []float64, frameRate int) Spectrum {
	n := len(values)
	if n < 2 || frameRate <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range values {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)

	half := n / 2
	freqs := make([]float64, 0, half)
	mags := make([]float64, 0, half)
	maxMag := 0.0
	dominant := 0.0
	for i := 1; i <= half; i++ {
		f := float64(i) * float64(frameRate) / float64(n)
		m := cmplx.Abs(bins[i])
		freqs = append(freqs, f)
		mags = append(mags, m)
		if m > maxMag {
			maxMag = m
			dominant = f
		}
	}
	if maxMag > 0 {
		for i := range mags {
			mags[i] /= maxMag
		}
	}

	cut := len(freqs)
	for i, f := range freqs {
		if f > maxSpectrumFrequencyHz {
			cut = i
			break
		}
	}

	return Spectrum{
		FrequenciesHz: freqs[:cut],
		Magnitudes:    mags[:cut],
		DominantHz:    dominant,
	}
}

// rmsVariation returns the RMS deviation from the mean as a percentage of
// the mean level.
func rmsVariation(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)
	if mean == 0 {
		return 0
	}

	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	rms := math.Sqrt(sq / float64(n))
	return rms / mean * 100
}
