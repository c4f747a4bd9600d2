package waveform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
)

// Sample is one point of a light-intensity waveform.
type Sample struct {
	T float64 // seconds
	V float64 // volts or normalized light level
}

// Waveform is an immutable flicker waveform. All derived quantities are
// computed once at construction, in dependency order: sample rate, extrema
// and midpoint, period and frequency, then percent flicker and flicker index.
type Waveform struct {
	name    string
	samples []Sample

	// smoothed carries the denoised value column used only for period
	// detection. Amplitude metrics always use the original samples.
	smoothed []float64
	denoised bool

	frameRate int
	vMin      float64
	vMax      float64
	vAvg      float64

	// rising holds the crossing indices the period was detected from:
	// rising-edge crossings of vAvg in the smoothed series, or sign-change
	// crossings in both directions when fewer than two rising edges are
	// visible. periodSamples is derived from their mean spacing.
	rising        []int
	periodSamples float64
	period        float64
	frequency     float64

	percentFlicker float64
	flickerIndex   float64
}

// Option configures waveform construction.
type Option func(*options)

type options struct {
	skipDenoise  bool
	savgolWindow int
}

// WithoutDenoise disables the Savitzky-Golay smoothing pass before period
// detection. Use for data that is already clean.
func WithoutDenoise() Option {
	return func(o *options) { o.skipDenoise = true }
}

// WithSmoothingWindow overrides the default denoise window length.
func WithSmoothingWindow(window int) Option {
	return func(o *options) { o.savgolWindow = window }
}

// New validates samples and computes all flicker quantities.
func New(name string, samples []Sample, opts ...Option) (*Waveform, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := validate(samples); err != nil {
		return nil, err
	}

	w := &Waveform{
		name:    name,
		samples: append([]Sample(nil), samples...),
	}

	values := make([]float64, len(w.samples))
	for i, s := range w.samples {
		values[i] = s.V
	}

	if o.skipDenoise {
		w.smoothed = values
	} else {
		window := o.savgolWindow
		if window == 0 {
			window = DefaultSmoothingWindow(len(values))
		}
		smoothed, err := SavitzkyGolay(values, window, savgolDegree)
		if err != nil {
			return nil, err
		}
		w.smoothed = smoothed
		w.denoised = true
	}

	w.frameRate = SampleRate(w.samples)
	if w.frameRate <= 0 {
		return nil, fmt.Errorf("%w: sample interval %g s rounds to a zero rate", ErrMalformedWaveform, w.samples[1].T-w.samples[0].T)
	}

	w.vMin, w.vMax = extrema(values)
	w.vAvg = (w.vMax + w.vMin) / 2

	rising := risingCrossings(w.smoothed, w.vAvg)
	if len(rising) >= 2 {
		w.rising = rising
		w.periodSamples = meanSpacing(rising)
	} else {
		// A short capture can hold a single rising crossing: a signal that
		// starts right at the midpoint puts one on sample 0, where no
		// below-to-above transition is observable. Count sign-change
		// crossings in both directions instead; consecutive ones are half a
		// cycle apart.
		crossings := levelCrossings(w.smoothed, w.vAvg)
		if len(crossings) < 2 {
			return nil, ErrNoPeriodDetected
		}
		w.rising = crossings
		w.periodSamples = 2 * meanSpacing(crossings)
	}
	w.period = w.periodSamples / float64(w.frameRate)
	w.frequency = 1 / w.period

	if sum := w.vMax + w.vMin; sum != 0 {
		w.percentFlicker = (w.vMax - w.vMin) / sum * 100
	}

	index, err := w.computeFlickerIndex()
	if err != nil {
		return nil, err
	}
	w.flickerIndex = index

	return w, nil
}

func validate(samples []Sample) error {
	if len(samples) < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrMalformedWaveform, len(samples))
	}
	for i, s := range samples {
		if math.IsNaN(s.T) || math.IsInf(s.T, 0) || math.IsNaN(s.V) || math.IsInf(s.V, 0) {
			return fmt.Errorf("%w: non-finite value at index %d", ErrMalformedWaveform, i)
		}
		if i > 0 && s.T <= samples[i-1].T {
			return fmt.Errorf("%w: time not strictly increasing at index %d", ErrMalformedWaveform, i)
		}
	}
	return nil
}

// SampleRate derives the sample rate from the first sample interval,
// assuming uniform sampling. Non-uniform input mis-estimates the rate; a
// future resampling step replaces this function without touching the rest
// of the analyzer.
func SampleRate(samples []Sample) int {
	return int(math.Round(1 / (samples[1].T - samples[0].T)))
}

func extrema(values []float64) (min, max float64) {
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Name returns the display label.
func (w *Waveform) Name() string { return w.name }

// Samples returns a copy of the imported samples.
func (w *Waveform) Samples() []Sample {
	return append([]Sample(nil), w.samples...)
}

// Len returns the number of samples.
func (w *Waveform) Len() int { return len(w.samples) }

// Denoised reports whether the period-detection series was smoothed.
func (w *Waveform) Denoised() bool { return w.denoised }

// FrameRate returns the sample rate in samples per second.
func (w *Waveform) FrameRate() int { return w.frameRate }

// VMin returns the minimum value of the original samples.
func (w *Waveform) VMin() float64 { return w.vMin }

// VMax returns the maximum value of the original samples.
func (w *Waveform) VMax() float64 { return w.vMax }

// VPP returns the peak-to-peak swing.
func (w *Waveform) VPP() float64 { return w.vMax - w.vMin }

// VAvg returns the midpoint between the amplitude extrema. This is the
// crossing level for period detection, not the arithmetic sample mean.
func (w *Waveform) VAvg() float64 { return w.vAvg }

// Period returns the detected period in seconds.
func (w *Waveform) Period() float64 { return w.period }

// Frequency returns the detected fundamental frequency in Hertz.
func (w *Waveform) Frequency() float64 { return w.frequency }

// PercentFlicker returns the modulation depth as a percentage, computed on
// the original (non-denoised) extrema.
func (w *Waveform) PercentFlicker() float64 { return w.percentFlicker }

// FlickerIndex returns the IES flicker index over one detected period.
func (w *Waveform) FlickerIndex() float64 { return w.flickerIndex }

// OnePeriod returns the samples spanning the first detected period.
func (w *Waveform) OnePeriod() ([]Sample, error) { return w.NPeriods(1) }

// NPeriods returns the samples spanning n whole periods, starting from the
// first detected crossing of the midpoint level.
func (w *Waveform) NPeriods(n int) ([]Sample, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: requested %d periods", ErrInsufficientData, n)
	}
	start := w.rising[0]
	span := int(math.Round(w.periodSamples * float64(n)))
	if span < 2 || start+span >= len(w.samples) {
		return nil, fmt.Errorf("%w: %d periods exceed %d samples", ErrInsufficientData, n, len(w.samples))
	}
	return append([]Sample(nil), w.samples[start:start+span+1]...), nil
}

// computeFlickerIndex integrates the original values over one detected
// period with Simpson's rule: area above the midpoint level divided by the
// total area under the curve.
func (w *Waveform) computeFlickerIndex() (float64, error) {
	window, err := w.OnePeriod()
	if err != nil {
		// The first crossing can sit too late in a short capture to leave a
		// whole period after it. A full period integrates the same wherever
		// it starts, so take one from the front of the capture.
		span := int(math.Round(w.periodSamples))
		if span < 2 || span >= len(w.samples) {
			return 0, err
		}
		window = w.samples[:span+1]
	}
	if len(window) < 3 {
		return 0, fmt.Errorf("%w: period too short to integrate", ErrInsufficientData)
	}

	times := make([]float64, len(window))
	values := make([]float64, len(window))
	top := make([]float64, len(window))
	for i, s := range window {
		times[i] = s.T
		values[i] = s.V
		if s.V > w.vAvg {
			top[i] = s.V - w.vAvg
		}
	}

	total := integrate.Simpsons(times, values)
	if total == 0 {
		return 0, nil
	}
	return integrate.Simpsons(times, top) / total, nil
}
