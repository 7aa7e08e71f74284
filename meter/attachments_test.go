package meter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/meters/meter"
)

func TestAttachments(t *testing.T) {
	healths := meter.NewAttachments[Health](8)

	require.Nil(t, healths.Get(1))
	assert.False(t, healths.Has(1))

	h := healths.Attach(1, newHealth(100))
	h.Current = 80
	assert.Equal(t, int64(80), healths.Get(1).Current)

	healths.Attach(1, newHealth(50))
	assert.Equal(t, int64(50), healths.Get(1).Current)
	assert.Equal(t, 1, healths.Len())

	healths.Attach(0, newHealth(10))
	assert.True(t, healths.Has(0))
	assert.Equal(t, 2, healths.Len())

	seen := make(map[meter.Entity]int64)
	for e, v := range healths.All() {
		seen[e] = v.Current
	}
	assert.Equal(t, map[meter.Entity]int64{0: 10, 1: 50}, seen)

	assert.True(t, healths.Detach(1))
	assert.False(t, healths.Detach(1))
	assert.Nil(t, healths.Get(1))
	assert.Equal(t, 1, healths.Len())
}

func TestMatched(t *testing.T) {
	healths := meter.NewAttachments[Health](8)
	burns := meter.NewAttachments[Burning](8)

	healths.Attach(1, newHealth(100))
	healths.Attach(2, newHealth(40))
	healths.Attach(3, newHealth(70))
	burns.Attach(1, newBurning(-5))
	burns.Attach(2, newBurning(-15))
	burns.Attach(4, newBurning(-99))

	applied := meter.Apply(meter.Matched(healths, burns))

	assert.Equal(t, 2, applied)
	assert.Equal(t, int64(95), healths.Get(1).Current)
	assert.Equal(t, int64(25), healths.Get(2).Current)
	assert.Equal(t, int64(70), healths.Get(3).Current)
	assert.False(t, healths.Has(4))
}

func TestMatchedScenario(t *testing.T) {
	healths := meter.NewAttachments[Health](4)
	burns := meter.NewAttachments[Burning](4)

	const player meter.Entity = 7
	healths.Attach(player, newHealth(100))
	burns.Attach(player, newBurning(-5))

	meter.Apply(meter.Matched(healths, burns))
	assert.Equal(t, int64(95), healths.Get(player).Current)

	meter.Apply(meter.Matched(healths, burns))
	assert.Equal(t, int64(90), healths.Get(player).Current)

	burns.Detach(player)
	assert.Equal(t, 0, meter.Apply(meter.Matched(healths, burns)))
	assert.Equal(t, int64(90), healths.Get(player).Current)
}
