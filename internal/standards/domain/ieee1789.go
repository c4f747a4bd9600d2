package standards

import "math"

// RiskCategory is an IEEE 1789-2015 verdict.
type RiskCategory string

const (
	RiskNone RiskCategory = "No Risk"
	RiskLow  RiskCategory = "Low Risk"
	RiskHigh RiskCategory = "High Risk"
)

// Classifier domain bounds. Modulation is expressed as a fraction of full
// modulation inside the polygons; callers pass percent.
const (
	MinFrequencyHz = 1.0
	MaxFrequencyHz = 10000.0
	minModulation  = 0.0001 // 0.01 percent
	maxModulation  = 1.0    // 100 percent
)

// The IEEE 1789-2015 recommended-practice regions as polygons in
// (frequency Hz, modulation fraction) space. Containment is evaluated in
// log-log coordinates, where the published region boundaries are straight
// lines.
var (
	noRiskRegion = polygon{
		{1, minModulation}, {1, 0.001}, {10, 0.001}, {100, 0.01}, {100, 0.03},
		{3000, 1}, {MaxFrequencyHz, 1}, {MaxFrequencyHz, minModulation},
	}
	lowRiskRegion = polygon{
		{1, 0.001}, {1, 0.002}, {8, 0.002}, {90, 0.025}, {90, 0.075},
		{1200, 1}, {3000, 1}, {100, 0.03}, {100, 0.025}, {100, 0.01}, {10, 0.001},
	}
	highRiskRegion = polygon{
		{1, 0.002}, {8, 0.002}, {90, 0.025}, {90, 0.075}, {1200, 1}, {1, 1},
	}
)

// IEEE17892015 classifies a (frequency, percent flicker) pair against the
// IEEE 1789-2015 risk regions. Regions are tested in order No Risk, Low
// Risk, High Risk; points exactly on a shared boundary take the first
// matching region. Inputs are clamped to the classifier domain, so
// frequencies above 10 kHz classify like 10 kHz.
func IEEE17892015(frequencyHz, percentFlicker float64) RiskCategory {
	f := clamp(frequencyHz, MinFrequencyHz, MaxFrequencyHz)
	m := clamp(percentFlicker/100, minModulation, maxModulation)
	p := point{math.Log10(f), math.Log10(m)}

	switch {
	case noRiskRegion.contains(p):
		return RiskNone
	case lowRiskRegion.contains(p):
		return RiskLow
	case highRiskRegion.contains(p):
		return RiskHigh
	default:
		// The regions tile the whole domain; only float noise on the outer
		// boundary lands here. Fail safe.
		return RiskHigh
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type point struct{ x, y float64 }

type polygon [][2]float64

// contains runs an even-odd ray cast in log-log coordinates. Points on an
// edge or vertex count as inside, which is what makes the region priority
// order a deterministic tie-break.
func (pg polygon) contains(p point) bool {
	n := len(pg)
	inside := false
	for i := 0; i < n; i++ {
		a := point{math.Log10(pg[i][0]), math.Log10(pg[i][1])}
		b := point{math.Log10(pg[(i+1)%n][0]), math.Log10(pg[(i+1)%n][1])}

		if onSegment(p, a, b) {
			return true
		}
		if (a.y > p.y) != (b.y > p.y) {
			xCross := a.x + (p.y-a.y)/(b.y-a.y)*(b.x-a.x)
			if p.x < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

const segmentEps = 1e-9

func onSegment(p, a, b point) bool {
	cross := (b.x-a.x)*(p.y-a.y) - (b.y-a.y)*(p.x-a.x)
	if math.Abs(cross) > segmentEps {
		return false
	}
	dot := (p.x-a.x)*(b.x-a.x) + (p.y-a.y)*(b.y-a.y)
	if dot < -segmentEps {
		return false
	}
	lenSq := (b.x-a.x)*(b.x-a.x) + (b.y-a.y)*(b.y-a.y)
	return dot <= lenSq+segmentEps
}
