package meter

// Numeric is the set of types a meter can track.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Marker is satisfied by meter kind tags. A tag satisfies Marker[F] by embedding Field[F].
type Marker[F Numeric] interface {
	meterField(F)
}

// Field declares the numeric type tracked by a meter kind.
type Field[F Numeric] struct{}

func (Field[F]) meterField(F) {}

// EffectMarker is satisfied by effect kind tags. A tag satisfies EffectMarker[M] by
// embedding Targets[M].
type EffectMarker[M any] interface {
	effectTarget(M)
}

// Targets declares the meter kind an effect changes.
type Targets[M any] struct{}

func (Targets[M]) effectTarget(M) {}
