package distance_test

import (
	"sync"
	"testing"

	"github.com/hupe1980/vecdist/distance"
	"github.com/stretchr/testify/assert"
)

func TestSetQuantizer(t *testing.T) {
	t.Cleanup(func() { distance.SetDefault(nil) })

	q := gateQuantizer(t)
	x := []byte{1, 2}
	y := []byte{3, 0}

	assert.Nil(t, distance.InstalledQuantizer())
	assert.Equal(t, float32(8), distance.Distance(distance.MetricL2, distance.Uint8, x, y, 2))

	before := distance.Default()
	distance.SetQuantizer(q)

	assert.Same(t, q, distance.InstalledQuantizer())
	assert.Equal(t, before.Tier(), distance.Default().Tier())
	assert.Equal(t, float32(404), distance.Distance(distance.MetricL2, distance.Uint8, x, y, 2))

	// The engine loaded before installation is unchanged.
	assert.Nil(t, before.Quantizer())
	assert.Equal(t, float32(8), before.SquaredL2Uint8(x, y))

	distance.SetQuantizer(nil)
	assert.Nil(t, distance.InstalledQuantizer())
	assert.Equal(t, float32(8), distance.Distance(distance.MetricL2, distance.Uint8, x, y, 2))
}

func TestSetQuantizerConcurrent(t *testing.T) {
	t.Cleanup(func() { distance.SetDefault(nil) })

	q := gateQuantizer(t)
	x := []byte{1, 2}
	y := []byte{3, 0}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 500 {
				// Every load sees either the raw or the quantized engine.
				d := distance.Distance(distance.MetricL2, distance.Uint8, x, y, 2)
				if d != 8 && d != 404 {
					t.Errorf("torn read: %v", d)
					return
				}
			}
		}()
	}
	for range 50 {
		distance.SetQuantizer(q)
		distance.SetQuantizer(nil)
	}
	wg.Wait()

	distance.SetQuantizer(q)
	assert.Equal(t, float32(404), distance.Distance(distance.MetricL2, distance.Uint8, x, y, 2))
}

func TestSetDefaultTier(t *testing.T) {
	t.Cleanup(func() { distance.SetDefault(nil) })

	distance.SetDefault(distance.New(distance.WithTier(distance.TierScalar)))
	assert.Equal(t, distance.TierScalar, distance.Default().Tier())

	distance.SetQuantizer(gateQuantizer(t))
	assert.Equal(t, distance.TierScalar, distance.Default().Tier())
}
