// Package fees computes the flat fee envelope for a transfer batch.
package fees

import (
	"fmt"

	"github.com/fystack/multisend/internal/units"
	"github.com/fystack/multisend/pkg/common/types"
)

// Gas price candidates in chain catalogs are quoted in display units
// with at most six decimal places.
const gasPriceExponent = 6

// Defaults come from observed mainnet usage; contract transfers cost
// materially more gas than bank sends. Both are overridable via Config.
const (
	DefaultNativeGasPerRecipient   uint64 = 30_000
	DefaultContractGasPerRecipient uint64 = 160_000
)

type Config struct {
	NativeGasPerRecipient   uint64 `yaml:"native_gas_per_recipient"`
	ContractGasPerRecipient uint64 `yaml:"contract_gas_per_recipient"`
}

func (c Config) withDefaults() Config {
	if c.NativeGasPerRecipient == 0 {
		c.NativeGasPerRecipient = DefaultNativeGasPerRecipient
	}
	if c.ContractGasPerRecipient == 0 {
		c.ContractGasPerRecipient = DefaultContractGasPerRecipient
	}
	return c
}

type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg.withDefaults()}
}

// Compute returns one flat fee for a batch of recipientCount transfers
// of the given kind. The gas limit scales linearly with recipient
// count; the fee amount is the chain's first fee token candidate's
// average gas price converted to base units.
func (c *Calculator) Compute(
	recipientCount int,
	kind types.BatchKind,
	chain types.Chain,
) (types.FeeEnvelope, error) {
	if recipientCount <= 0 {
		return types.FeeEnvelope{}, fmt.Errorf("%w: recipient count %d", types.ErrEmptyBatch, recipientCount)
	}
	if len(chain.FeeTokens) == 0 {
		return types.FeeEnvelope{}, fmt.Errorf("%w: chain %s", types.ErrNoFeeToken, chain.Name)
	}

	var perRecipient uint64
	switch kind {
	case types.BatchKindNative:
		perRecipient = c.cfg.NativeGasPerRecipient
	case types.BatchKindContract:
		perRecipient = c.cfg.ContractGasPerRecipient
	default:
		return types.FeeEnvelope{}, fmt.Errorf("unknown batch kind %v", kind)
	}

	token := chain.FeeTokens[0]
	amount, err := units.ToBase(token.AverageGasPrice, gasPriceExponent)
	if err != nil {
		return types.FeeEnvelope{}, fmt.Errorf("gas price %q on chain %s: %w", token.AverageGasPrice, chain.Name, err)
	}

	return types.FeeEnvelope{
		GasLimit: perRecipient * uint64(recipientCount),
		Amount:   amount,
		Denom:    token.Denom,
	}, nil
}
