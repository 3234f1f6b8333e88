package types

import "errors"

var (
	// ErrInvalidAmount rejects input that is not a well-formed
	// non-negative decimal, or that cannot be represented as a whole
	// number of base units.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrIncompleteAsset marks an asset whose decimal exponent could
	// not be resolved. Conversions fail instead of guessing.
	ErrIncompleteAsset = errors.New("asset exponent unresolved")

	// ErrEmptyBatch means no recipient row has both fields populated.
	ErrEmptyBatch = errors.New("no complete recipient rows")

	// ErrNoFeeToken means the chain lists no fee token candidates.
	// A zero fee is never assumed.
	ErrNoFeeToken = errors.New("chain has no fee tokens")

	// ErrInsufficientBalance blocks submission when the recipient
	// total exceeds the displayed balance.
	ErrInsufficientBalance = errors.New("total exceeds balance")

	ErrSigningFailed = errors.New("sign and broadcast failed")
	ErrQueryFailed   = errors.New("balance query failed")
	ErrNoSigner      = errors.New("no signer available")
	ErrNotReady      = errors.New("engine not ready to submit")
)
