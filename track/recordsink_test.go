package track

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewRecordWriter(&buf)
	require.NoError(t, w.AddChromList([]string{"chr1", "chr2"}, []uint32{100, 50}))
	require.NoError(t, w.AddIntervals("chr1", []uint32{0, 10}, []uint32{10, 20}, []float32{0, 3}))
	require.NoError(t, w.AppendIntervals([]uint32{20, 30}, []uint32{30, 100}, []float32{0, 1}))
	require.NoError(t, w.AddIntervals("chr2", []uint32{0}, []uint32{50}, []float32{2}))
	require.NoError(t, w.Close())

	r, err := NewRecordReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"chr1", "chr2"}, r.RefNames())

	var got []struct {
		ref string
		iv  Interval
	}
	for {
		ref, iv, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, struct {
			ref string
			iv  Interval
		}{ref, iv})
	}

	require.Len(t, got, 5)
	assert.Equal(t, "chr1", got[0].ref)
	assert.Equal(t, Interval{0, 10, 0}, got[0].iv)
	assert.Equal(t, Interval{10, 20, 3}, got[1].iv)
	assert.Equal(t, Interval{20, 30, 0}, got[2].iv)
	assert.Equal(t, Interval{30, 100, 1}, got[3].iv)
	assert.Equal(t, "chr2", got[4].ref)
	assert.Equal(t, Interval{0, 50, 2}, got[4].iv)
}
