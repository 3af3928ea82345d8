package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 0.3, RoundWithTwoDecimalPlace(0.1+0.2))
	assert.Equal(t, 2.68, RoundWithTwoDecimalPlace(2.675))
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"5.0", 5, true},
		{" 12 ", 12, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"abc", 0, false},
		{"-3.25", -3.25, true},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "2001", FormatNumber(2001.0))
	assert.Equal(t, "16.8661", FormatNumber(16.8661))
}

func TestParseFlexibleDate(t *testing.T) {
	want := time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2019-01-05", "1/5/2019", "01/05/2019"} {
		got, ok := ParseFlexibleDate(in)
		assert.True(t, ok, in)
		assert.True(t, want.Equal(got), in)
	}

	_, ok := ParseFlexibleDate("not a date")
	assert.False(t, ok)
}

func TestGenerateUploadID(t *testing.T) {
	id, err := GenerateUploadID()
	assert.NoError(t, err)
	assert.Len(t, id, 12)
}
