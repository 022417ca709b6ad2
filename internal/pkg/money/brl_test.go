package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{350, "R$ 3,50"},
		{8900, "R$ 89,00"},
		{129900, "R$ 1.299,00"},
		{12345678, "R$ 123.456,78"},
		{100000000, "R$ 1.000.000,00"},
		{-1500, "-R$ 15,00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBRL(tt.cents))
		})
	}
}

func TestToDecimal(t *testing.T) {
	assert.Equal(t, "89.9", ToDecimal(8990).String())
}
