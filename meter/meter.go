package meter

import "fmt"

// Meter is an expendable resource of kind M, e.g. health or mana.
// Max and Current are plain fields; nothing keeps Current within [0, Max].
type Meter[M Marker[F], F Numeric] struct {
	// Max is the amount the meter holds when full.
	Max F
	// Current is the amount the meter holds now.
	Current F

	_ [0]M
}

// NewFromMax returns a full meter: Current is initialized to max. max is not validated.
func NewFromMax[M Marker[F], F Numeric](max F) Meter[M, F] {
	return Meter[M, F]{
		Max:     max,
		Current: max,
	}
}

// Ratio returns Current/Max, or 0 when Max is 0.
func (m *Meter[M, F]) Ratio() float64 {
	if m.Max == 0 {
		return 0
	}
	return float64(m.Current) / float64(m.Max)
}

// Depleted reports whether Current has reached zero or below.
func (m *Meter[M, F]) Depleted() bool {
	return m.Current <= 0
}

// Full reports whether Current is at or above Max.
func (m *Meter[M, F]) Full() bool {
	return m.Current >= m.Max
}

// Refill sets Current back to Max.
func (m *Meter[M, F]) Refill() {
	m.Current = m.Max
}

// Clamp bounds Current to [0, Max]. A negative Max clamps Current to 0.
func (m *Meter[M, F]) Clamp() {
	if m.Current > m.Max {
		m.Current = m.Max
	}
	if m.Current < 0 {
		m.Current = 0
	}
}

func (m *Meter[M, F]) String() string {
	return fmt.Sprintf("%v/%v", m.Current, m.Max)
}
