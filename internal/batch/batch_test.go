package batch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/multisend/internal/fees"
	"github.com/fystack/multisend/internal/recipients"
	"github.com/fystack/multisend/pkg/common/types"
)

func exponent(e int32) *int32 { return &e }

func testChain() types.Chain {
	return types.Chain{
		Name:         "juno",
		ID:           "juno-1",
		Bech32Prefix: "juno",
		FeeTokens:    []types.FeeToken{{Denom: "ujuno", AverageGasPrice: "0.075"}},
	}
}

func nativeAsset() types.Asset {
	return types.Asset{
		Symbol:    "JUNO",
		BaseDenom: "ujuno",
		Exponent:  exponent(6),
		ChainName: "juno",
	}
}

func contractAsset() types.Asset {
	return types.Asset{
		Symbol:    "NETA",
		BaseDenom: "cw20:juno1neta",
		Contract:  "juno1neta",
		Exponent:  exponent(6),
		ChainName: "juno",
	}
}

func newBuilder() *Builder {
	return NewBuilder(fees.NewCalculator(fees.Config{}))
}

func TestBuild_Native(t *testing.T) {
	set := recipients.FromRows([]recipients.Row{
		{Address: "juno1aaa", Amount: "1.5"},
		{Address: "juno1bbb", Amount: "2"},
	})

	b, err := newBuilder().Build(set, nativeAsset(), testChain(), "juno1signer")
	require.NoError(t, err)

	native, ok := b.(*types.NativeBatch)
	require.True(t, ok)
	assert.Equal(t, types.BatchKindNative, b.Kind())
	assert.Equal(t, "juno1signer", b.Signer())
	require.Len(t, native.Messages, 2)

	// Row order is message order, and amounts are base units.
	assert.Equal(t, types.BankSend{
		FromAddress: "juno1signer",
		ToAddress:   "juno1aaa",
		Amount:      []types.Coin{{Denom: "ujuno", Amount: "1500000"}},
	}, native.Messages[0])
	assert.Equal(t, "juno1bbb", native.Messages[1].ToAddress)
	assert.Equal(t, "2000000", native.Messages[1].Amount[0].Amount)

	assert.Equal(t, 2*fees.DefaultNativeGasPerRecipient, b.Fee().GasLimit)
}

func TestBuild_Contract(t *testing.T) {
	set := recipients.FromRows([]recipients.Row{
		{Address: "juno1aaa", Amount: "1"},
		{Address: "juno1bbb", Amount: "0.5"},
		{Address: "juno1ccc", Amount: "3"},
	})

	b, err := newBuilder().Build(set, contractAsset(), testChain(), "juno1signer")
	require.NoError(t, err)

	contract, ok := b.(*types.ContractBatch)
	require.True(t, ok)
	assert.Equal(t, types.BatchKindContract, b.Kind())
	assert.Equal(t, "juno1neta", contract.ContractAddress)
	require.Len(t, contract.Executes, 3)

	var payload struct {
		Transfer struct {
			Recipient string `json:"recipient"`
			Amount    string `json:"amount"`
		} `json:"transfer"`
	}
	require.NoError(t, json.Unmarshal(contract.Executes[1].Msg, &payload))
	assert.Equal(t, "juno1bbb", payload.Transfer.Recipient)
	assert.Equal(t, "500000", payload.Transfer.Amount)

	assert.Equal(t, 3*fees.DefaultContractGasPerRecipient, b.Fee().GasLimit)
}

func TestBuild_SkipsIncompleteRows(t *testing.T) {
	set := recipients.FromRows([]recipients.Row{
		{Address: "juno1aaa", Amount: "1"},
		{Address: "partial"},
		{},
	})

	b, err := newBuilder().Build(set, nativeAsset(), testChain(), "juno1signer")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Size())
}

func TestBuild_EmptyBatch(t *testing.T) {
	set := recipients.NewSet()

	_, err := newBuilder().Build(set, nativeAsset(), testChain(), "juno1signer")
	assert.ErrorIs(t, err, types.ErrEmptyBatch)
}

func TestBuild_UnresolvedExponent(t *testing.T) {
	asset := nativeAsset()
	asset.Exponent = nil
	set := recipients.FromRows([]recipients.Row{{Address: "juno1aaa", Amount: "1"}})

	_, err := newBuilder().Build(set, asset, testChain(), "juno1signer")
	assert.ErrorIs(t, err, types.ErrIncompleteAsset)
}

func TestBuild_InvalidRowAmount(t *testing.T) {
	set := recipients.FromRows([]recipients.Row{{Address: "juno1aaa", Amount: "1.2.3"}})

	_, err := newBuilder().Build(set, nativeAsset(), testChain(), "juno1signer")
	assert.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestBuild_NoFeeToken(t *testing.T) {
	chain := testChain()
	chain.FeeTokens = nil
	set := recipients.FromRows([]recipients.Row{{Address: "juno1aaa", Amount: "1"}})

	_, err := newBuilder().Build(set, nativeAsset(), chain, "juno1signer")
	assert.ErrorIs(t, err, types.ErrNoFeeToken)
}
