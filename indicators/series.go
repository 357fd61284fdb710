package indicators

import "math"

// SMA returns the simple moving average of the trailing period values ending
// at each index. The first period-1 positions are undefined.
func SMA(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

// EMA returns the exponential moving average with multiplier 2/(period+1).
// The seed at the position where the window first fills is the SMA of the
// first period defined values; every later defined value is folded in with
// ema = (v-ema)*mult + ema.
//
// Undefined inputs are excluded from window completion: the seed window only
// starts counting once values become defined, so EMA can be applied to a
// series that itself has a warm-up region (the MACD signal line relies on
// this). Undefined inputs after the seed leave the accumulator untouched and
// produce an undefined output at that position.
func EMA(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 {
		return out
	}

	mult := 2.0 / float64(period+1)
	sum := 0.0
	count := 0
	ema := 0.0
	seeded := false

	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !seeded {
			sum += v
			count++
			if count == period {
				ema = sum / float64(period)
				seeded = true
				out[i] = ema
			}
			continue
		}
		ema = (v-ema)*mult + ema
		out[i] = ema
	}
	return out
}

// RSI returns the Wilder relative strength index over close-to-close changes.
// The first defined value is at index period (period changes are needed);
// it uses a simple average of the first period gains and losses, after which
// Wilder smoothing applies. A window with zero average loss yields exactly
// 100 — never a division by zero.
func RSI(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 {
		return out
	}
	r := NewRSI(period)
	for i, v := range values {
		r.Push(v)
		if r.Ready() {
			out[i] = r.Value()
		}
	}
	return out
}

// MACD returns the MACD line, signal line and histogram as three aligned
// series. The MACD line is EMA(fast) - EMA(slow), undefined wherever either
// operand is; the signal line is an EMA of the MACD line (seeded from its
// first signalPeriod defined values); the histogram is macd - signal wherever
// both are defined.
func MACD(values []float64, fast, slow, signalPeriod int) (macd, signal, histogram []float64) {
	n := len(values)
	macd = undefinedSeries(n)
	histogram = undefinedSeries(n)

	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)
	for i := 0; i < n; i++ {
		if math.IsNaN(fastEMA[i]) || math.IsNaN(slowEMA[i]) {
			continue
		}
		macd[i] = fastEMA[i] - slowEMA[i]
	}

	signal = EMA(macd, signalPeriod)
	for i := 0; i < n; i++ {
		if math.IsNaN(macd[i]) || math.IsNaN(signal[i]) {
			continue
		}
		histogram[i] = macd[i] - signal[i]
	}
	return macd, signal, histogram
}

// BollingerBands returns the upper, middle and lower bands. The middle band
// is SMA(period); the half-width is mult times the population standard
// deviation of the trailing window, so the bands are symmetric around the
// middle by construction.
func BollingerBands(values []float64, period int, mult float64) (upper, middle, lower []float64) {
	n := len(values)
	upper = undefinedSeries(n)
	lower = undefinedSeries(n)
	middle = SMA(values, period)
	std := RollingStd(values, period)

	for i := 0; i < n; i++ {
		if math.IsNaN(middle[i]) || math.IsNaN(std[i]) {
			continue
		}
		half := mult * std[i]
		upper[i] = middle[i] + half
		lower[i] = middle[i] - half
	}
	return upper, middle, lower
}

// RollingStd returns the population standard deviation (divide by period,
// not period-1) of the trailing window. Negative variance from float error
// is clamped to zero before the square root.
func RollingStd(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		mean := 0.0
		for j := i - period + 1; j <= i; j++ {
			mean += values[j]
		}
		mean /= float64(period)

		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		variance /= float64(period)
		if variance < 0 {
			variance = 0
		}
		out[i] = math.Sqrt(variance)
	}
	return out
}

// Returns computes the simple percentage return (p[i]-p[i-1])/p[i-1].
// The first element is undefined; a zero prior price yields 0, not Inf.
func Returns(values []float64) []float64 {
	out := undefinedSeries(len(values))
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			out[i] = 0
			continue
		}
		out[i] = (values[i] - prev) / prev
	}
	return out
}

// LogReturns computes ln(p[i]/p[i-1]). The first element is undefined; a
// non-positive price on either side yields 0 rather than NaN or -Inf.
func LogReturns(values []float64) []float64 {
	out := undefinedSeries(len(values))
	for i := 1; i < len(values); i++ {
		if values[i] <= 0 || values[i-1] <= 0 {
			out[i] = 0
			continue
		}
		out[i] = math.Log(values[i] / values[i-1])
	}
	return out
}

// Lag shifts the series right by k positions; the first k entries are
// undefined. k=0 returns a copy of the input, negative k is treated as 0.
func Lag(values []float64, k int) []float64 {
	if k <= 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := undefinedSeries(len(values))
	for i := k; i < len(values); i++ {
		out[i] = values[i-k]
	}
	return out
}

// Momentum computes p[i]/p[i-period] - 1, undefined for i < period. A zero
// denominator yields 0 rather than Inf.
func Momentum(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period; i < len(values); i++ {
		base := values[i-period]
		if base == 0 {
			out[i] = 0
			continue
		}
		out[i] = values[i]/base - 1
	}
	return out
}

// RollingSkew computes the third standardized moment of the trailing window
// using the population standard deviation. A constant window (zero standard
// deviation) yields exactly 0 rather than NaN from a 0/0 division.
func RollingSkew(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		mean := 0.0
		for j := i - period + 1; j <= i; j++ {
			mean += values[j]
		}
		mean /= float64(period)

		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		variance /= float64(period)
		if variance < 0 {
			variance = 0
		}
		std := math.Sqrt(variance)
		if std == 0 {
			out[i] = 0
			continue
		}

		skew := 0.0
		for j := i - period + 1; j <= i; j++ {
			z := (values[j] - mean) / std
			skew += z * z * z
		}
		out[i] = skew / float64(period)
	}
	return out
}
