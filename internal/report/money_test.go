package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{0, "0.00"},
		{5, "5.00"},
		{999.999, "1,000.00"},
		{1234.5, "1,234.50"},
		{1234567.891, "1,234,567.89"},
		{-1234.5, "-1,234.50"},
		{-0.001, "0.00"},
		{2.345, "2.35"},
		{-2.345, "-2.35"},
		{100000, "100,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Currency(tt.in))
		})
	}
}

func TestSignedCurrency(t *testing.T) {
	assert.Equal(t, "+60.00", SignedCurrency(60))
	assert.Equal(t, "-16.67", SignedCurrency(-16.6748))
	assert.Equal(t, "0.00", SignedCurrency(0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "33.3%", Percent(1.0/3))
	assert.Equal(t, "100.0%", Percent(1))
	assert.Equal(t, "0.0%", Percent(0))
}
