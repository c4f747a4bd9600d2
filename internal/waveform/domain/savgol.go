package waveform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// savgolDegree is the fitting polynomial degree for the denoise pass.
const savgolDegree = 3

// DefaultSmoothingWindow sizes the Savitzky-Golay window proportionally to
// the sample count: one tenth of the series, forced odd, clamped to [5, 101].
func DefaultSmoothingWindow(n int) int {
	window := n / 10
	if window%2 == 0 {
		window++
	}
	if window < 5 {
		window = 5
	}
	if window > 101 {
		window = 101
	}
	return window
}

// SavitzkyGolay smooths values with a least-squares polynomial filter of the
// given window length and degree. The window must be odd; it is shrunk when
// longer than the series. Series too short to fit the polynomial are
// returned unchanged.
func SavitzkyGolay(values []float64, window, degree int) ([]float64, error) {
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("%w: smoothing window must be positive and odd, got %d", ErrMalformedWaveform, window)
	}
	if degree < 1 {
		return nil, fmt.Errorf("%w: smoothing degree must be positive, got %d", ErrMalformedWaveform, degree)
	}

	n := len(values)
	if window > n {
		window = n
		if window%2 == 0 {
			window--
		}
	}
	if window <= degree {
		// Not enough points to fit; smoothing would be the identity anyway.
		return append([]float64(nil), values...), nil
	}

	weights := savgolWeights(window, degree)
	half := window / 2

	smoothed := make([]float64, n)
	for i := range values {
		var acc float64
		for k := -half; k <= half; k++ {
			acc += weights[k+half] * values[reflectIndex(i+k, n)]
		}
		smoothed[i] = acc
	}
	return smoothed, nil
}

// savgolWeights computes the convolution weights that evaluate the fitted
// polynomial at the window center: the first row of (A^T A)^-1 A^T for the
// Vandermonde design matrix A over offsets [-half, half].
func savgolWeights(window, degree int) []float64 {
	half := window / 2

	a := mat.NewDense(window, degree+1, nil)
	for i := 0; i < window; i++ {
		x := float64(i - half)
		for j := 0; j <= degree; j++ {
			a.Set(i, j, math.Pow(x, float64(j)))
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)
	var inv mat.Dense
	if err := inv.Inverse(&ata); err != nil {
		// The Vandermonde normal matrix is nonsingular for window > degree.
		panic(fmt.Sprintf("savgol: singular normal matrix for window=%d degree=%d", window, degree))
	}

	var pinv mat.Dense
	pinv.Mul(&inv, a.T())
	return mat.Row(nil, 0, &pinv)
}

// reflectIndex mirrors out-of-range indices back into [0, n).
func reflectIndex(i, n int) int {
	if i < 0 {
		i = -i
	}
	if i >= n {
		i = 2*(n-1) - i
	}
	return i
}
