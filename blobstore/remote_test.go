package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeBlob(t *testing.T) {
	ctx := context.Background()
	data := []byte("0123456789")

	var ranges [][2]int64
	blob := NewRangeBlob(int64(len(data)), func(_ context.Context, off, end int64) (io.ReadCloser, error) {
		ranges = append(ranges, [2]int64{off, end})
		return io.NopCloser(bytes.NewReader(data[off : end+1])), nil
	})
	assert.Equal(t, int64(10), blob.Size())

	buf := make([]byte, 4)
	n, err := blob.ReadAt(ctx, buf, 2)
	require.NoError(t, err)
	assert.Equal(t, "2345", string(buf[:n]))

	n, err = blob.ReadAt(ctx, buf, 8)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "89", string(buf[:n]))

	_, err = blob.ReadAt(ctx, buf, 10)
	assert.ErrorIs(t, err, io.EOF)

	r, err := NewReader(ctx, blob)
	require.NoError(t, err)
	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, all)

	assert.Equal(t, [][2]int64{{2, 5}, {8, 9}, {0, 9}}, ranges)

	ctx2, cancel := context.WithCancel(ctx)
	cancel()
	_, err = blob.ReadRange(ctx2, 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, blob.Close())
}

func TestRangeBlobFetchError(t *testing.T) {
	boom := errors.New("boom")
	blob := NewRangeBlob(3, func(context.Context, int64, int64) (io.ReadCloser, error) {
		return nil, boom
	})
	_, err := blob.ReadAt(context.Background(), make([]byte, 2), 0)
	assert.ErrorIs(t, err, boom)
}

func TestPrefix(t *testing.T) {
	p := Prefix("root/")
	assert.Equal(t, "root/x/y.bin", p.Key("x/y.bin"))
	assert.Equal(t, "x/y.bin", p.Name("root/x/y.bin"))
	assert.Equal(t, "root", p.Key(""))

	assert.Equal(t, "a.bin", Prefix("").Key("a.bin"))
	assert.Equal(t, "a.bin", Prefix("").Name("a.bin"))
}

func TestPrefixScope(t *testing.T) {
	p := Prefix("vectors")
	assert.Equal(t, "vectors/", p.Scope(""))
	assert.Equal(t, "vectors/sets/", p.Scope("sets/"))
	assert.Equal(t, "vectors/", Prefix("vectors/").Scope(""))
	assert.Equal(t, "sets/", Prefix("").Scope("sets/"))

	assert.Equal(t, "x", p.Name("vectors/x"))
	assert.Equal(t, "", p.Name("vectors2/x"))
	assert.Equal(t, "", p.Name("vectors"))
	assert.Equal(t, "", p.Name("vectors/"))
}
