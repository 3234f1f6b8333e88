// Package validate holds the advisory, row-level checks. Both
// functions are total over all inputs and never block editing; the
// hard submission gate lives in the engine.
package validate

import (
	"strings"

	"github.com/btcsuite/btcutil/bech32"

	"github.com/fystack/multisend/internal/units"
)

// Address reports whether addr decodes as bech32 and its
// human-readable prefix matches expectedPrefix exactly. Malformed
// encodings are false, never an error.
func Address(addr, expectedPrefix string) bool {
	hrp, _, err := bech32.Decode(addr)
	if err != nil {
		return false
	}
	return hrp == expectedPrefix
}

// Amount reports whether s is empty (not yet entered) or a well-formed
// non-negative decimal.
func Amount(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	_, err := units.ParseAmount(s)
	return err == nil
}
