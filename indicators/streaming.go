package indicators

import (
	"fmt"

	"github.com/rustyeddy/quant/market"
)

// SimpleMA is a streaming Simple Moving Average indicator.
type SimpleMA struct {
	period int
	window []float64
}

// NewMA creates a new Simple Moving Average indicator with the given period.
func NewMA(period int) *SimpleMA {
	return &SimpleMA{
		period: period,
		window: make([]float64, 0, period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("MA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int {
	return m.period
}

func (m *SimpleMA) Reset() {
	m.window = m.window[:0]
}

func (m *SimpleMA) Update(b market.Bar) {
	m.Push(b.Close)
}

// Push feeds a raw value, bypassing the bar wrapper.
func (m *SimpleMA) Push(v float64) {
	m.window = append(m.window, v)
	// Keep only the last 'period' values
	if len(m.window) > m.period {
		m.window = m.window[1:]
	}
}

func (m *SimpleMA) Ready() bool {
	return m.period > 0 && len(m.window) >= m.period
}

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	sum := 0.0
	for _, v := range m.window {
		sum += v
	}
	return sum / float64(len(m.window))
}

// ExponentialMA is a streaming Exponential Moving Average indicator.
// The first value after warmup is the SMA of the warmup window; this seeding
// rule changes every downstream value and must not be swapped for
// first-value seeding.
type ExponentialMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

// NewEMA creates a new Exponential Moving Average indicator with the given period.
func NewEMA(period int) *ExponentialMA {
	return &ExponentialMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *ExponentialMA) Warmup() int {
	return e.period
}

func (e *ExponentialMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *ExponentialMA) Update(b market.Bar) {
	e.Push(b.Close)
}

// Push feeds a raw value, bypassing the bar wrapper.
func (e *ExponentialMA) Push(v float64) {
	if e.count < e.period {
		// During warmup, accumulate sum for initial SMA
		e.warmupSum += v
		e.count++
		if e.count == e.period {
			// Initialize EMA with SMA
			e.ema = e.warmupSum / float64(e.period)
		}
	} else {
		// Apply EMA formula
		e.ema = (v-e.ema)*e.multiplier + e.ema
	}
}

func (e *ExponentialMA) Ready() bool {
	return e.period > 0 && e.count >= e.period
}

func (e *ExponentialMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}

// WilderRSI is a streaming Relative Strength Index indicator.
//
// It carries avgGain/avgLoss as explicit accumulator state rather than
// back-deriving them from the previous RSI value; back-derivation divides by
// a near-zero avgLoss as RSI approaches 100. The first value uses a simple
// average of the first period gains and losses, then Wilder smoothing:
// avg = (avg*(period-1) + current) / period.
type WilderRSI struct {
	period int

	prev    float64
	hasPrev bool
	count   int

	gainSum float64
	lossSum float64
	avgGain float64
	avgLoss float64
}

// NewRSI creates a new Wilder RSI indicator with the given period.
func NewRSI(period int) *WilderRSI {
	return &WilderRSI{period: period}
}

func (r *WilderRSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

func (r *WilderRSI) Warmup() int {
	// Need period+1 bars because changes require a previous close
	return r.period + 1
}

func (r *WilderRSI) Reset() {
	r.prev = 0
	r.hasPrev = false
	r.count = 0
	r.gainSum = 0
	r.lossSum = 0
	r.avgGain = 0
	r.avgLoss = 0
}

func (r *WilderRSI) Update(b market.Bar) {
	r.Push(b.Close)
}

// Push feeds a raw value, bypassing the bar wrapper.
func (r *WilderRSI) Push(v float64) {
	if !r.hasPrev {
		r.prev = v
		r.hasPrev = true
		return
	}

	change := v - r.prev
	r.prev = v

	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	if r.count < r.period {
		// During warmup, accumulate for the initial simple averages
		r.gainSum += gain
		r.lossSum += loss
		r.count++
		if r.count == r.period {
			r.avgGain = r.gainSum / float64(r.period)
			r.avgLoss = r.lossSum / float64(r.period)
		}
		return
	}

	// Wilder smoothing
	r.avgGain = (r.avgGain*float64(r.period-1) + gain) / float64(r.period)
	r.avgLoss = (r.avgLoss*float64(r.period-1) + loss) / float64(r.period)
	r.count++
}

func (r *WilderRSI) Ready() bool {
	return r.period > 0 && r.count >= r.period
}

func (r *WilderRSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
