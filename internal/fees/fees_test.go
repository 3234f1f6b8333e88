package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/multisend/pkg/common/types"
)

func testChain() types.Chain {
	return types.Chain{
		Name:         "juno",
		ID:           "juno-1",
		Bech32Prefix: "juno",
		FeeTokens: []types.FeeToken{
			{Denom: "ujuno", AverageGasPrice: "0.075"},
			{Denom: "uatom", AverageGasPrice: "0.025"},
		},
	}
}

func TestCompute_GasScalesWithRecipients(t *testing.T) {
	calc := NewCalculator(Config{})

	native, err := calc.Compute(3, types.BatchKindNative, testChain())
	require.NoError(t, err)
	assert.Equal(t, 3*DefaultNativeGasPerRecipient, native.GasLimit)

	contract, err := calc.Compute(3, types.BatchKindContract, testChain())
	require.NoError(t, err)
	assert.Equal(t, 3*DefaultContractGasPerRecipient, contract.GasLimit)
}

func TestCompute_UsesFirstFeeToken(t *testing.T) {
	calc := NewCalculator(Config{})

	fee, err := calc.Compute(1, types.BatchKindNative, testChain())
	require.NoError(t, err)
	assert.Equal(t, "ujuno", fee.Denom)
	assert.Equal(t, "75000", fee.Amount) // 0.075 shifted by 10^6
}

func TestCompute_ConfiguredGasOverridesDefaults(t *testing.T) {
	calc := NewCalculator(Config{
		NativeGasPerRecipient:   50_000,
		ContractGasPerRecipient: 200_000,
	})

	fee, err := calc.Compute(2, types.BatchKindContract, testChain())
	require.NoError(t, err)
	assert.Equal(t, uint64(400_000), fee.GasLimit)
}

func TestCompute_NoFeeToken(t *testing.T) {
	calc := NewCalculator(Config{})
	chain := testChain()
	chain.FeeTokens = nil

	_, err := calc.Compute(1, types.BatchKindNative, chain)
	assert.ErrorIs(t, err, types.ErrNoFeeToken)
}

func TestCompute_NonPositiveCount(t *testing.T) {
	calc := NewCalculator(Config{})

	_, err := calc.Compute(0, types.BatchKindNative, testChain())
	assert.ErrorIs(t, err, types.ErrEmptyBatch)
}

func TestCompute_BadGasPrice(t *testing.T) {
	calc := NewCalculator(Config{})
	chain := testChain()
	chain.FeeTokens = []types.FeeToken{{Denom: "ujuno", AverageGasPrice: "n/a"}}

	_, err := calc.Compute(1, types.BatchKindNative, chain)
	assert.ErrorIs(t, err, types.ErrInvalidAmount)
}
