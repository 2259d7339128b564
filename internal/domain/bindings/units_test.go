package bindings

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	tests := []struct {
		in       string
		decimals uint8
		want     string
		wantErr  bool
	}{
		{"1000000", 18, "1000000000000000000000000", false},
		{"1.5", 6, "1500000", false},
		{".25", 2, "25", false},
		{"0.0000001", 6, "", true},
		{"abc", 18, "", true},
		{"-1", 18, "", true},
		{"", 18, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUnits(tt.in, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormatUnits(t *testing.T) {
	v, _ := new(big.Int).SetString("1500000000000000000", 10)
	assert.Equal(t, "1.5", FormatUnits(v, 18))
	assert.Equal(t, "0.000001", FormatUnits(big.NewInt(1), 6))
	assert.Equal(t, "42", FormatUnits(big.NewInt(42), 0))
	assert.Equal(t, "1", FormatUnits(big.NewInt(1000000), 6))
	assert.Equal(t, "-0.5", FormatUnits(big.NewInt(-50), 2))
	assert.Equal(t, "0", FormatUnits(nil, 18))
}
