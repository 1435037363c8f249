package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"R$ 1.234,56": 1234.56,
		"1,234.56":    1234.56,
		"1.234":       1234,
		"1,234":       1234,
		"12,5":        12.5,
		"3.5":         3.5,
		"R$1.500":     1500,
		"2.5%":        2.5,
		"":            0,
		"abc":         0,
		"-":           0,
	}
	for in, want := range cases {
		assert.InDelta(t, want, ParseNumber(in), 1e-9, in)
	}
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 12345, ParseInt("12.345"))
	assert.Equal(t, 3, ParseInt("2,6"))
	assert.Equal(t, 0, ParseInt("n/a"))
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("05/03/2024", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	got, ok = ParseDate("05/03/2024 14:30", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, 14, got.Hour())

	got, ok = ParseDate("2024-03-05", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.March, got.Month())

	_, ok = ParseDate("2024-03-05T10:00:00Z", time.UTC)
	assert.True(t, ok)

	_, ok = ParseDate("ontem", time.UTC)
	assert.False(t, ok)
	_, ok = ParseDate("", time.UTC)
	assert.False(t, ok)
}
