// Package batch turns a recipient set plus a resolved asset into one
// transfer batch: a list of bank sends for native assets, or a list of
// CW20 execute payloads for contract-backed ones. Building performs no
// network I/O.
package batch

import (
	"encoding/json"
	"fmt"

	"github.com/fystack/multisend/internal/fees"
	"github.com/fystack/multisend/internal/recipients"
	"github.com/fystack/multisend/internal/units"
	"github.com/fystack/multisend/pkg/common/types"
)

// cw20Transfer is the CW20 transfer entry point invoked once per
// recipient. Amounts are base units, never display units.
type cw20Transfer struct {
	Transfer cw20TransferBody `json:"transfer"`
}

type cw20TransferBody struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type Builder struct {
	fees *fees.Calculator
}

func NewBuilder(calc *fees.Calculator) *Builder {
	return &Builder{fees: calc}
}

// Build constructs the batch for every complete row of set, in row
// order, paired with the computed fee envelope. Fails with
// ErrIncompleteAsset when the asset's exponent is unresolved and
// ErrEmptyBatch when no row has both fields populated.
func (b *Builder) Build(
	set *recipients.Set,
	asset types.Asset,
	chain types.Chain,
	signer string,
) (types.TransferBatch, error) {
	if asset.Exponent == nil {
		return nil, fmt.Errorf("%w: %s on %s", types.ErrIncompleteAsset, asset.Symbol, asset.ChainName)
	}

	rows := set.Complete()
	if len(rows) == 0 {
		return nil, types.ErrEmptyBatch
	}

	kind := types.BatchKindNative
	if asset.IsContract() {
		kind = types.BatchKindContract
	}

	fee, err := b.fees.Compute(len(rows), kind, chain)
	if err != nil {
		return nil, err
	}

	switch kind {
	case types.BatchKindNative:
		return buildNative(rows, asset, signer, fee)
	case types.BatchKindContract:
		return buildContract(rows, asset, signer, fee)
	default:
		return nil, fmt.Errorf("unknown batch kind %v", kind)
	}
}

func buildNative(
	rows []recipients.Row,
	asset types.Asset,
	signer string,
	fee types.FeeEnvelope,
) (types.TransferBatch, error) {
	messages := make([]types.BankSend, 0, len(rows))
	for _, row := range rows {
		baseAmount, err := units.ToBase(row.Amount, *asset.Exponent)
		if err != nil {
			return nil, fmt.Errorf("recipient %s: %w", row.Address, err)
		}
		messages = append(messages, types.BankSend{
			FromAddress: signer,
			ToAddress:   row.Address,
			Amount:      []types.Coin{{Denom: asset.BaseDenom, Amount: baseAmount}},
		})
	}

	return &types.NativeBatch{
		SignerAddress: signer,
		Messages:      messages,
		FeeEnvelope:   fee,
	}, nil
}

func buildContract(
	rows []recipients.Row,
	asset types.Asset,
	signer string,
	fee types.FeeEnvelope,
) (types.TransferBatch, error) {
	executes := make([]types.ContractExecute, 0, len(rows))
	for _, row := range rows {
		baseAmount, err := units.ToBase(row.Amount, *asset.Exponent)
		if err != nil {
			return nil, fmt.Errorf("recipient %s: %w", row.Address, err)
		}

		msg, err := json.Marshal(cw20Transfer{
			Transfer: cw20TransferBody{Recipient: row.Address, Amount: baseAmount},
		})
		if err != nil {
			return nil, fmt.Errorf("marshal transfer for %s: %w", row.Address, err)
		}
		executes = append(executes, types.ContractExecute{
			Contract: asset.Contract,
			Msg:      msg,
		})
	}

	return &types.ContractBatch{
		SignerAddress:   signer,
		ContractAddress: asset.Contract,
		Executes:        executes,
		FeeEnvelope:     fee,
	}, nil
}
