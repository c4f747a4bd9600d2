package standards

// California JA8 2019 thresholds, JA 8.4.6 / table JA-8.
const (
	ja8MaxPercentFlicker = 30.0
	ja8MinFrequencyHz    = 200.0
)

// CaliforniaJA82019 reports whether a light source passes the California
// JA8 2019 flicker requirement: percent flicker at most 30% at a flicker
// frequency of at least 200 Hz.
func CaliforniaJA82019(frequencyHz, percentFlicker float64) bool {
	return percentFlicker <= ja8MaxPercentFlicker && frequencyHz >= ja8MinFrequencyHz
}

// WELL v2 L07 part 2 thresholds.
const (
	wellMinFrequencyHz    = 90.0
	wellMaxPercentFlicker = 5.0
)

// WELLBuildingStandardV2 reports whether a light source passes the WELL v2
// L07 flicker requirement. Either branch satisfies the feature: operation
// above 90 Hz, or low-risk modulation under 5% below that.
func WELLBuildingStandardV2(frequencyHz, percentFlicker float64) bool {
	return frequencyHz > wellMinFrequencyHz || percentFlicker < wellMaxPercentFlicker
}
