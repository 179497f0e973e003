package badge

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	for _, m := range []int64{0, 1, 42, 1234567, math.MaxInt64} {
		r, err := Format(m, "Total Lines of Code")
		require.NoError(t, err)

		assert.Equal(t, 1, r.SchemaVersion)
		assert.Equal(t, "black", r.Color)
		assert.Equal(t, strconv.FormatInt(m, 10), r.Message)

		back, err := r.Metric()
		require.NoError(t, err)
		assert.Equal(t, m, back)
	}
}

func TestFormatRejectsNegative(t *testing.T) {
	_, err := Format(-1, "x")
	assert.Error(t, err)
}

func TestMarshalIsCompactAndOrdered(t *testing.T) {
	r, err := Format(0, "Crates.io Total Downloads")
	require.NoError(t, err)

	data, err := r.Marshal()
	require.NoError(t, err)
	assert.Equal(t,
		`{"schemaVersion":1,"label":"Crates.io Total Downloads","message":"0","color":"black"}`,
		string(data))
}

func TestParseRecord(t *testing.T) {
	r, err := ParseRecord([]byte(`{"schemaVersion": 1, "label": "Total Lines of Code", "message": "9001", "color": "black"}`))
	require.NoError(t, err)
	assert.Equal(t, "Total Lines of Code", r.Label)

	n, err := r.Metric()
	require.NoError(t, err)
	assert.Equal(t, int64(9001), n)

	_, err = ParseRecord([]byte("not json"))
	assert.Error(t, err)

	_, err = Record{Message: "lots"}.Metric()
	assert.Error(t, err)
}
