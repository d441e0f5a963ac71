package sequencer

// Grid resolutions: the length of one step in beats.
var resolutionValues = []float64{1.0, 2.0 / 3.0, 0.5, 1.0 / 3.0, 0.25, 1.0 / 6.0, 0.125}

// ResolutionNames lists the selectable grid resolutions in order.
var ResolutionNames = []string{"1/4", "1/4t", "1/8", "1/8t", "1/16", "1/16t", "1/32"}

// ResolutionValue returns the step length in beats for a resolution
// index, clamped to the valid range.
func ResolutionValue(index int) float64 {
	if index < 0 {
		index = 0
	}
	if index >= len(resolutionValues) {
		index = len(resolutionValues) - 1
	}
	return resolutionValues[index]
}

// NumResolutions returns how many grid resolutions are selectable.
func NumResolutions() int { return len(resolutionValues) }
