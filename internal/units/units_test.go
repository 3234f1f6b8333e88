package units

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/multisend/pkg/common/types"
)

func TestToBase(t *testing.T) {
	tests := []struct {
		display  string
		exponent int32
		want     string
	}{
		{"1", 6, "1000000"},
		{"1.5", 6, "1500000"},
		{"0.000001", 6, "1"},
		{"0", 18, "0"},
		{"12.345678", 6, "12345678"},
		{"1", 0, "1"},
		{"0.000000000000000001", 18, "1"},
	}

	for _, tt := range tests {
		got, err := ToBase(tt.display, tt.exponent)
		require.NoError(t, err, "ToBase(%q, %d)", tt.display, tt.exponent)
		assert.Equal(t, tt.want, got)
	}
}

func TestToBase_InvalidInput(t *testing.T) {
	for _, display := range []string{"abc", "-5", "1.2.3", "", "  ", "1,5"} {
		_, err := ToBase(display, 6)
		require.Error(t, err, "ToBase(%q)", display)
		assert.ErrorIs(t, err, types.ErrInvalidAmount, "ToBase(%q)", display)
	}
}

func TestToBase_TooManyDecimalPlaces(t *testing.T) {
	_, err := ToBase("0.0000001", 6)
	assert.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestToBase_NegativeExponent(t *testing.T) {
	_, err := ToBase("1", -1)
	assert.Error(t, err)
}

func TestFromBase(t *testing.T) {
	tests := []struct {
		base     string
		exponent int32
		want     string
	}{
		{"1000000", 6, "1"},
		{"1500000", 6, "1.5"},
		{"1", 6, "0.000001"},
		{"1", 18, "0.000000000000000001"},
		{"0", 6, "0"},
	}

	for _, tt := range tests {
		got, err := FromBase(tt.base, tt.exponent)
		require.NoError(t, err, "FromBase(%q, %d)", tt.base, tt.exponent)
		assert.Equal(t, tt.want, got)
	}
}

func TestFromBase_RejectsFractionalBase(t *testing.T) {
	_, err := FromBase("1.5", 6)
	assert.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestRoundTrip(t *testing.T) {
	values := []string{"0", "1", "1.5", "0.25", "123456789.123456789", "42"}

	for exponent := int32(0); exponent <= 18; exponent++ {
		for _, v := range values {
			base, err := ToBase(v, exponent)
			if errors.Is(err, types.ErrInvalidAmount) {
				// More decimal places than the exponent allows; not a
				// round-trippable pair.
				continue
			}
			require.NoError(t, err)

			back, err := FromBase(base, exponent)
			require.NoError(t, err)

			name := fmt.Sprintf("%s@%d", v, exponent)
			assert.Equal(t, trimZeros(v), back, name)
		}
	}
}

func trimZeros(s string) string {
	d, _ := ParseAmount(s)
	return d.String()
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 1.25 ")
	require.NoError(t, err)
	assert.Equal(t, "1.25", d.String())

	_, err = ParseAmount("-0.01")
	assert.ErrorIs(t, err, types.ErrInvalidAmount)
}
