package snapshot

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_LengthMismatch(t *testing.T) {
	_, err := Capture("setup", []float64{1, 2}, []float64{1})
	assert.Error(t, err)
}

func TestCapture_CopiesArrays(t *testing.T) {
	slacks := []float64{1.0, 2.0}
	crits := []float64{0.5, 0.25}

	s, err := Capture("setup", slacks, crits)
	require.NoError(t, err)

	slacks[0] = 99.0
	assert.Equal(t, 1.0, s.Slacks[0], "snapshot must not alias the caller's array")
}

func TestRoundTrip(t *testing.T) {
	slacks := []float64{-2.5, 0.0, math.Inf(1), math.NaN(), 1e-12}
	crits := []float64{1.0, 0.0, 0.0, math.NaN(), 0.75}

	s, err := Capture("hold", slacks, crits)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	got, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "hold", got.Objective)
	assert.Equal(t, s.CapturedAt.UnixNano(), got.CapturedAt.UnixNano())
	require.Equal(t, s.PinCount(), got.PinCount())

	for i := range slacks {
		assert.Equal(t, math.Float64bits(s.Slacks[i]), math.Float64bits(got.Slacks[i]),
			"slack %d must round-trip bit-exactly", i)
		assert.Equal(t, math.Float64bits(s.Criticalities[i]), math.Float64bits(got.Criticalities[i]),
			"criticality %d must round-trip bit-exactly", i)
	}
}

func TestRoundTrip_Empty(t *testing.T) {
	s, err := Capture("setup", nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PinCount())
}

func TestRead_BadMagic(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("NOPE....................")))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestRead_CorruptPayload(t *testing.T) {
	s, err := Capture("setup", []float64{1, 2, 3}, []float64{0.1, 0.2, 0.3})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	// Flip a payload byte, leaving header and trailer intact.
	data := buf.Bytes()
	data[len(data)-8] ^= 0xFF

	_, err = Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestRead_Truncated(t *testing.T) {
	s, err := Capture("setup", []float64{1, 2, 3}, []float64{0.1, 0.2, 0.3})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	_, err = Read(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	assert.Error(t, err)
}

func TestWriteReadFile(t *testing.T) {
	s, err := Capture("setup", []float64{4.5}, []float64{0.9})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pass-001.snap")
	require.NoError(t, s.WriteFile(path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, s.Slacks, got.Slacks)
	assert.Equal(t, s.Criticalities, got.Criticalities)
}
