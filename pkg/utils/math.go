package utils

// SafeDiv divides numerator by denominator, returning zero on a zero
// denominator instead of Inf/NaN. Cost-per-ton and yield averages rely on
// this when production or raw tonnage is zero.
func SafeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// PercentChange returns the relative change from base to value in percent,
// zero when base is zero.
func PercentChange(base, value float64) float64 {
	if base == 0 {
		return 0
	}
	return (value - base) / base * 100
}
