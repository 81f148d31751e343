package distance

import (
	"fmt"
	"sync/atomic"
)

// defaultEngine is the process-wide engine. It is replaced, never mutated,
// so a caller that loaded it keeps a consistent view for the whole call.
var defaultEngine atomic.Pointer[Engine]

func init() {
	defaultEngine.Store(New())
}

// Default returns the process-wide engine.
func Default() *Engine {
	return defaultEngine.Load()
}

// SetDefault replaces the process-wide engine. A nil e restores an engine
// on the detected tier without a quantizer.
func SetDefault(e *Engine) {
	if e == nil {
		e = New()
	}
	defaultEngine.Store(e)
}

// SetQuantizer publishes a new process-wide engine bound to q, keeping the
// current tier. A nil q unbinds. Calls that already loaded
// the previous engine finish with it.
func SetQuantizer(q Quantizer) {
	for {
		old := defaultEngine.Load()
		if defaultEngine.CompareAndSwap(old, old.WithQuantizer(q)) {
			return
		}
	}
}

// InstalledQuantizer returns the quantizer of the process-wide engine.
func InstalledQuantizer() Quantizer {
	return defaultEngine.Load().q
}

// Distance computes a distance with the process-wide engine.
// See Engine.Distance.
func Distance(m Metric, t ElementType, a, b []byte, dim int) float32 {
	return defaultEngine.Load().Distance(m, t, a, b, dim)
}

// Func is a distance function on float32 vectors.
type Func func(a, b []float32) float32

// Provider returns the float32 distance function of the process-wide engine
// for metric m.
func Provider(m Metric) (Func, error) {
	e := defaultEngine.Load()
	switch m {
	case MetricL2:
		return e.SquaredL2Float32, nil
	case MetricCosine:
		return e.CosineFloat32, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMetric, m)
	}
}
