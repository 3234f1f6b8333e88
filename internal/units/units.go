// Package units converts token amounts between human-readable display
// units and on-chain base units. All scaling in the repository routes
// through this package; nothing else multiplies or divides amounts.
package units

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fystack/multisend/pkg/common/types"
)

// ParseAmount parses a non-negative decimal amount string. Negative
// values and anything outside the decimal grammar fail with
// types.ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty string", types.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", types.ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is negative", types.ErrInvalidAmount, s)
	}
	return d, nil
}

// ToBase scales a display amount up by 10^exponent and returns the
// exact base amount as an integer string. Input that would leave a
// fractional base amount is rejected rather than rounded.
func ToBase(display string, exponent int32) (string, error) {
	if exponent < 0 {
		return "", fmt.Errorf("exponent must be non-negative, got %d", exponent)
	}

	d, err := ParseAmount(display)
	if err != nil {
		return "", err
	}

	shifted := d.Shift(exponent)
	if !shifted.IsInteger() {
		return "", fmt.Errorf(
			"%w: %q has more than %d decimal places",
			types.ErrInvalidAmount, display, exponent,
		)
	}
	return shifted.String(), nil
}

// FromBase scales a base integer amount down by 10^exponent and
// returns the exact display string. Exact for any exponent; trailing
// zeros are trimmed.
func FromBase(base string, exponent int32) (string, error) {
	if exponent < 0 {
		return "", fmt.Errorf("exponent must be non-negative, got %d", exponent)
	}

	d, err := ParseAmount(base)
	if err != nil {
		return "", err
	}
	if !d.IsInteger() {
		return "", fmt.Errorf("%w: base amount %q is not an integer", types.ErrInvalidAmount, base)
	}
	return d.Shift(-exponent).String(), nil
}
