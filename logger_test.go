package vecdist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecdist/distance"
)

func jsonLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	l.WithMetric(distance.MetricCosine, distance.Int8).LogLoad(ctx, "a.bin", 3, 4, "zstd", nil)
	l.LogLoad(ctx, "b.bin", 0, 0, "none", errors.New("boom"))
	l.LogQuantizerInstalled(ctx, 2, 256, 8)
	l.WithDimension(4).LogPairwise(ctx, 3, nil)

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 4)

	assert.Equal(t, "vector set loaded", lines[0]["msg"])
	assert.Equal(t, "a.bin", lines[0]["name"])
	assert.Equal(t, "Cosine", lines[0]["metric"])
	assert.Equal(t, "int8", lines[0]["element_type"])
	assert.Equal(t, float64(3), lines[0]["rows"])
	assert.Equal(t, "zstd", lines[0]["compression"])

	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error"])

	assert.Equal(t, "quantizer installed", lines[2]["msg"])
	assert.Equal(t, float64(256), lines[2]["centroids"])

	assert.Equal(t, "DEBUG", lines[3]["level"])
	assert.Equal(t, float64(6), lines[3]["pairs"])
	assert.Equal(t, float64(4), lines[3]["dimension"])
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	l.LogPairwise(context.Background(), 1, errors.New("ignored"))
}

func TestOptionsDefaults(t *testing.T) {
	o := applyOptions([]Option{WithLogger(nil), WithMetricsCollector(nil), WithConcurrency(0)})
	assert.NotNil(t, o.logger)
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
	assert.GreaterOrEqual(t, o.concurrency, 1)
	assert.Equal(t, distance.MetricL2, o.metric)
}

func TestBasicMetricsCollector(t *testing.T) {
	b := &BasicMetricsCollector{}
	b.RecordLoad(100, 2*time.Millisecond, nil)
	b.RecordLoad(50, 4*time.Millisecond, errors.New("short"))
	b.RecordPairwise(10, time.Millisecond, nil)

	s := b.GetStats()
	assert.Equal(t, int64(2), s.LoadCount)
	assert.Equal(t, int64(1), s.LoadErrors)
	assert.Equal(t, int64(100), s.LoadBytes)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), s.LoadAvgNanos)
	assert.Equal(t, int64(10), s.PairwisePairs)
	assert.Zero(t, s.PairwiseErrors)

	var noop MetricsCollector = NoopMetricsCollector{}
	noop.RecordLoad(1, 0, nil)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	other := errors.New("other")
	assert.Same(t, other, translateError(other))

	err := translateError(distance.ErrUnknownTier)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, distance.ErrUnknownTier)
}
