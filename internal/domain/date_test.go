package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 28, d.Day())
	assert.Equal(t, "2025-02-28", d.String())

	_, err = ParseDate("28.02.2025")
	assert.Error(t, err)
}

func TestDateOrdering(t *testing.T) {
	a := MustParseDate("2025-02-28")
	b := a.AddDays(1)

	assert.Equal(t, "2025-03-01", b.String())
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 0, a.Compare(MustParseDate("2025-02-28")))
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Start Date  `json:"start"`
		Exit  *Date `json:"exit"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2025-03-01","exit":null}`), &payload))
	assert.Equal(t, "2025-03-01", payload.Start.String())
	assert.Nil(t, payload.Exit)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2025-03-01","exit":null}`, string(out))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-02-15", d.String())

	require.NoError(t, d.Scan("2025-01-31T00:00:00Z"))
	assert.Equal(t, "2025-01-31", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}
