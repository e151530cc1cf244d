package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSketchTooShort(t *testing.T) {
	err := ValidateSketch(nil)
	require.Error(t, err)
}

func TestValidateSketchUnknownMarker(t *testing.T) {
	err := ValidateSketch([]byte{0x09, 12, 0x00})
	require.Error(t, err)
}

func TestValidateSketchImplausiblePrecision(t *testing.T) {
	err := ValidateSketch([]byte{hllSparseMarker, 30, 0x00})
	require.Error(t, err)
}

func TestValidateSketchSparseOK(t *testing.T) {
	err := ValidateSketch([]byte{hllSparseMarker, 12, 0x02, 0x00, 0xC0})
	assert.NoError(t, err)
}

func TestValidateSketchDenseTooShort(t *testing.T) {
	err := ValidateSketch([]byte{hllDenseMarker, 4, 0x00})
	require.Error(t, err)
}

func TestValidateSketchDenseOK(t *testing.T) {
	precision := 4
	registers := 1 << uint(precision)
	body := make([]byte, (registers*6+7)/8)
	err := ValidateSketch(append([]byte{hllDenseMarker, byte(precision)}, body...))
	assert.NoError(t, err)
}

func TestValidateSketchDenseTrailingBytesRejected(t *testing.T) {
	precision := 4
	registers := 1 << uint(precision)
	body := make([]byte, (registers*6+7)/8+1) // one byte past the exact size
	err := ValidateSketch(append([]byte{hllDenseMarker, byte(precision)}, body...))
	require.Error(t, err)
}

func TestValidateSketchSparseTrailingBytesRejected(t *testing.T) {
	// A valid single 3-byte entry plus one extra trailing byte.
	err := ValidateSketch([]byte{hllSparseMarker, 12, 0x02, 0x00, 0xC0, 0xFF})
	require.Error(t, err)
}

func TestValidateSketchMemoizesIdenticalInput(t *testing.T) {
	sketch := []byte{hllSparseMarker, 12, 0x02, 0x00, 0xC0}
	require.NoError(t, ValidateSketch(sketch))
	// Second call must hit the checksum-keyed cache and return the same
	// (nil) result without touching validateSketch's branches again.
	require.NoError(t, ValidateSketch(sketch))
}
