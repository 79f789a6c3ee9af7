package indicators

// SMA returns the simple moving average of the trailing window of values.
//
// The window is min(period, len(values)), so a short series averages
// everything it has instead of failing. An empty series or a non-positive
// period yields 0.
func SMA(values []float64, period int) float64 {
	if len(values) == 0 || period <= 0 {
		return 0
	}

	n := min(period, len(values))

	sum := 0.0
	for i := len(values) - n; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(n)
}

// Change returns the difference between the last two values of the series.
// It is 0 until the series has at least two samples.
func Change(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return values[len(values)-1] - values[len(values)-2]
}

// ChangePercent returns Change as a percentage of the prior sample.
// A prior sample of exactly 0 yields 0 rather than dividing by zero.
func ChangePercent(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	prev := values[len(values)-2]
	if prev == 0 {
		return 0
	}
	return Change(values) / prev * 100.0
}

// Deviation returns how far price sits from mean, as a fraction of mean.
// A zero mean yields 0.
func Deviation(price, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	return (price - mean) / mean
}
