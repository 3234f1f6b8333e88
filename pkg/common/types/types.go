package types

import (
	"encoding/json"
	"fmt"
)

// Asset describes one disbursable token as it exists on a chain. A
// non-empty Contract means the token is tracked by a CW20 contract;
// otherwise it is a native bank denom.
type Asset struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	BaseDenom string `json:"base"`
	Contract  string `json:"contract,omitempty"`
	Exponent  *int32 `json:"exponent,omitempty"`
	ChainName string `json:"chain"`
}

func (a Asset) IsContract() bool { return a.Contract != "" }

// Key identifies the asset across the catalog: chain name plus the
// contract address for CW20 tokens, or the base denom for native ones.
func (a Asset) Key() string {
	if a.Contract != "" {
		return a.ChainName + "-" + a.Contract
	}
	return a.ChainName + "-" + a.BaseDenom
}

type FeeToken struct {
	Denom           string `json:"denom"`
	AverageGasPrice string `json:"average_gas_price"`
}

type Explorer struct {
	Kind   string `json:"kind"`
	TxPage string `json:"tx_page"`
}

type Chain struct {
	Name         string     `json:"name"`
	ID           string     `json:"id"`
	Bech32Prefix string     `json:"bech32_prefix"`
	LCD          string     `json:"lcd,omitempty"`
	FeeTokens    []FeeToken `json:"fee_tokens"`
	Explorers    []Explorer `json:"explorers"`
}

type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

func (c Coin) String() string { return c.Amount + c.Denom }

// FeeEnvelope is the flat fee for a whole batch. Amount is expressed
// in base units of Denom. Recomputed on every build, never persisted.
type FeeEnvelope struct {
	GasLimit uint64 `json:"gas_limit"`
	Amount   string `json:"amount"`
	Denom    string `json:"denom"`
}

func (f FeeEnvelope) String() string {
	return fmt.Sprintf("{Gas: %d, Fee: %s%s}", f.GasLimit, f.Amount, f.Denom)
}

type BatchKind int

const (
	BatchKindNative BatchKind = iota
	BatchKindContract
)

func (k BatchKind) String() string {
	switch k {
	case BatchKindNative:
		return "native"
	case BatchKindContract:
		return "contract"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// BankSend is a single bank-module transfer inside a native batch.
type BankSend struct {
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	Amount      []Coin `json:"amount"`
}

// ContractExecute invokes the token contract's transfer entry point
// for one recipient.
type ContractExecute struct {
	Contract string          `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
}

// TransferBatch is one signed operation's worth of per-recipient
// transfers. Exactly two implementations exist, one per asset variant;
// consumers switch on Kind exhaustively.
type TransferBatch interface {
	Kind() BatchKind
	Signer() string
	Fee() FeeEnvelope
	// Size reports the number of per-recipient operations.
	Size() int
}

type NativeBatch struct {
	SignerAddress string      `json:"signer"`
	Messages      []BankSend  `json:"messages"`
	FeeEnvelope   FeeEnvelope `json:"fee"`
}

func (b *NativeBatch) Kind() BatchKind  { return BatchKindNative }
func (b *NativeBatch) Signer() string   { return b.SignerAddress }
func (b *NativeBatch) Fee() FeeEnvelope { return b.FeeEnvelope }
func (b *NativeBatch) Size() int        { return len(b.Messages) }

type ContractBatch struct {
	SignerAddress   string            `json:"signer"`
	ContractAddress string            `json:"contract"`
	Executes        []ContractExecute `json:"executes"`
	FeeEnvelope     FeeEnvelope       `json:"fee"`
}

func (b *ContractBatch) Kind() BatchKind  { return BatchKindContract }
func (b *ContractBatch) Signer() string   { return b.SignerAddress }
func (b *ContractBatch) Fee() FeeEnvelope { return b.FeeEnvelope }
func (b *ContractBatch) Size() int        { return len(b.Executes) }

// TxResult is what the external signing capability reports back after
// a broadcast is accepted.
type TxResult struct {
	TxHash string `json:"tx_hash"`
	Height uint64 `json:"height,omitempty"`
}
