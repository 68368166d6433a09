// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// unit is the interval [0, 1]
var unit = r1.Interval{Min: 0, Max: 1}

// Scale maps value linearly from interval onto [0, 1], clipping values
// outside the interval. An empty interval maps everything to 0.5.
func Scale(value float64, interval r1.Interval) float64 {
	width := interval.Max - interval.Min
	if width <= 0 {
		return 0.5
	}
	return ClipInterval((value-interval.Min)/width, unit)
}

// Min calculates and returns the minimum float64 in a list
func Min(floats ...float64) float64 {
	min := floats[0]
	for _, val := range floats {
		if val < min {
			min = val
		}
	}
	return min
}

// Max calculates and returns the maximum float64 in a list
func Max(floats ...float64) float64 {
	max := floats[0]
	for _, val := range floats {
		if val > max {
			max = val
		}
	}
	return max
}

// Range returns the smallest interval containing every value in a list
func Range(floats ...float64) r1.Interval {
	return r1.Interval{Min: Min(floats...), Max: Max(floats...)}
}
