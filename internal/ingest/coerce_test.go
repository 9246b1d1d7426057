package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanString(t *testing.T) {
	assert.Equal(t, "", CleanString(""))
	assert.Equal(t, "", CleanString("   "))
	assert.Equal(t, "AA-11-BB", CleanString("  aa-11-bb "))
	assert.Equal(t, "JOÃO", CleanString("joão"))
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"12.50", 12.5},
		{"12,50", 12.5},
		{"  45 EUR ", 45},
		{"€ 7,5", 7.5},
		{"abc", 0},
		{"--", 0},
		{"1.234,56", 1.23456}, // thousands separator is not understood
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseNumber(c.in), "input %q", c.in)
	}
}

func TestParseDateISO(t *testing.T) {
	got := ParseDate("2025-06-02")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), *got)

	got = ParseDate("2025-06-02T15:30:00")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC), *got)
}

func TestParseDateDayFirst(t *testing.T) {
	got := ParseDate("02/06/2025")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), *got)

	// Unpadded components are accepted too.
	got = ParseDate("2/6/2025")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), *got)
}

func TestParseDateInvalid(t *testing.T) {
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("not a date"))
	assert.Nil(t, ParseDate("31/31/2025"))
}
