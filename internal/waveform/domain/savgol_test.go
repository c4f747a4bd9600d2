package waveform

import (
	"math"
	"math/rand"
	"testing"
)

func TestDefaultSmoothingWindow(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{10, 5},
		{49, 5},
		{100, 11},
		{1000, 101},
		{100000, 101},
	}
	for _, tc := range cases {
		if got := DefaultSmoothingWindow(tc.n); got != tc.want {
			t.Errorf("DefaultSmoothingWindow(%d) = %d, want %d", tc.n, got, tc.want)
		}
		if got := DefaultSmoothingWindow(tc.n); got%2 == 0 {
			t.Errorf("DefaultSmoothingWindow(%d) = %d is even", tc.n, got)
		}
	}
}

func TestSavitzkyGolayRejectsBadWindow(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	if _, err := SavitzkyGolay(values, 4, 3); err == nil {
		t.Fatal("expected error for even window")
	}
	if _, err := SavitzkyGolay(values, 0, 3); err == nil {
		t.Fatal("expected error for zero window")
	}
	if _, err := SavitzkyGolay(values, 5, 0); err == nil {
		t.Fatal("expected error for zero degree")
	}
}

func TestSavitzkyGolayShortSeriesIdentity(t *testing.T) {
	values := []float64{3, 1, 4}
	smoothed, err := SavitzkyGolay(values, 7, 3)
	if err != nil {
		t.Fatalf("smooth: %v", err)
	}
	for i := range values {
		if smoothed[i] != values[i] {
			t.Fatalf("expected identity on short series, got %v", smoothed)
		}
	}
}

func TestSavitzkyGolayPreservesCubic(t *testing.T) {
	// A degree-3 filter reproduces a cubic exactly away from the reflected
	// edges.
	n := 200
	window := 21
	values := make([]float64, n)
	for i := range values {
		x := float64(i) * 0.05
		values[i] = x*x*x - 2*x*x + x - 5
	}

	smoothed, err := SavitzkyGolay(values, window, savgolDegree)
	if err != nil {
		t.Fatalf("smooth: %v", err)
	}
	half := window / 2
	for i := half; i < n-half; i++ {
		if math.Abs(smoothed[i]-values[i]) > 1e-6 {
			t.Fatalf("cubic not preserved at %d: got %v want %v", i, smoothed[i], values[i])
		}
	}
}

func TestSavitzkyGolayReducesNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := 1000
	clean := make([]float64, n)
	noisy := make([]float64, n)
	for i := range clean {
		clean[i] = math.Sin(2 * math.Pi * float64(i) / 200)
		noisy[i] = clean[i] + rng.NormFloat64()*0.05
	}

	smoothed, err := SavitzkyGolay(noisy, 21, savgolDegree)
	if err != nil {
		t.Fatalf("smooth: %v", err)
	}

	var before, after float64
	for i := range clean {
		before += (noisy[i] - clean[i]) * (noisy[i] - clean[i])
		after += (smoothed[i] - clean[i]) * (smoothed[i] - clean[i])
	}
	if after >= before {
		t.Fatalf("smoothing did not reduce noise: before=%v after=%v", before, after)
	}
}

func TestReflectIndex(t *testing.T) {
	cases := []struct {
		i, n, want int
	}{
		{0, 10, 0},
		{-1, 10, 1},
		{-3, 10, 3},
		{9, 10, 9},
		{10, 10, 8},
		{12, 10, 6},
	}
	for _, tc := range cases {
		if got := reflectIndex(tc.i, tc.n); got != tc.want {
			t.Errorf("reflectIndex(%d, %d) = %d, want %d", tc.i, tc.n, got, tc.want)
		}
	}
}
