package meter

// MeterEffect is a pending change to the Current value of every meter of kind M it is
// paired with. E names the effect kind and must target M.
type MeterEffect[E EffectMarker[M], M Marker[F], F Numeric] struct {
	// Amount is added to the meter on every application and may be negative.
	Amount F

	_ [0]E
}

// NewEffect returns an effect that changes its meter by amount.
func NewEffect[E EffectMarker[M], M Marker[F], F Numeric](amount F) MeterEffect[E, M, F] {
	return MeterEffect[E, M, F]{Amount: amount}
}

// ApplyTo adds the effect's amount into m. The effect itself is left unchanged.
func (e *MeterEffect[E, M, F]) ApplyTo(m *Meter[M, F]) {
	m.Current += e.Amount
}
