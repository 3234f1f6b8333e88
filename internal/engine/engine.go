// Package engine drives one disbursement end to end: resolve an asset,
// load the signer's balance, gate the submission, build the batch, and
// hand it to the external signing capability.
//
// The engine is owned by a single logical flow. All state lives behind
// transition methods; nothing mutates it concurrently.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fystack/multisend/internal/batch"
	"github.com/fystack/multisend/internal/fees"
	"github.com/fystack/multisend/internal/history"
	"github.com/fystack/multisend/internal/recipients"
	"github.com/fystack/multisend/internal/units"
	"github.com/fystack/multisend/pkg/common/types"
	"github.com/fystack/multisend/pkg/events"
)

type State int

const (
	StateIdle State = iota
	StateAssetSelected
	StateBalanceLoading
	StateReady
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAssetSelected:
		return "asset_selected"
	case StateBalanceLoading:
		return "balance_loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Catalog is the read-only chain/asset registry.
type Catalog interface {
	FindAsset(chainName, key string) (types.Asset, bool)
	FindChain(name string) (types.Chain, bool)
}

// Querier resolves on-chain reads to primitive values.
type Querier interface {
	BankBalance(ctx context.Context, address, denom string) (string, error)
	SmartContractState(ctx context.Context, contract string, query any) (json.RawMessage, error)
}

// Signer is the external signing-and-broadcasting capability. Address
// reports (addr, false) while no wallet is connected.
type Signer interface {
	Address() (string, bool)
	SignAndBroadcast(ctx context.Context, batch types.TransferBatch) (types.TxResult, error)
}

// Result describes the terminal outcome of one submission attempt.
type Result struct {
	AttemptID   string `json:"attempt_id"`
	TxHash      string `json:"tx_hash,omitempty"`
	ExplorerURL string `json:"explorer_url,omitempty"`
	Err         string `json:"error,omitempty"`
}

type Config struct {
	Catalog Catalog
	Querier Querier
	Signer  Signer
	Fees    fees.Config
	History *history.Store // optional
	Emitter events.Emitter // optional
	Logger  *slog.Logger   // optional
}

type Engine struct {
	catalog Catalog
	querier Querier
	signer  Signer
	builder *batch.Builder
	history *history.Store
	emitter events.Emitter
	log     *slog.Logger

	set      *recipients.Set
	state    State
	asset    types.Asset
	chain    types.Chain
	hasAsset bool
	balance  string
	last     *Result
}

func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg.Querier == nil {
		return nil, fmt.Errorf("querier is required")
	}

	emitter := cfg.Emitter
	if emitter == nil {
		emitter = events.NewNopEmitter()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		catalog: cfg.Catalog,
		querier: cfg.Querier,
		signer:  cfg.Signer,
		builder: batch.NewBuilder(fees.NewCalculator(cfg.Fees)),
		history: cfg.History,
		emitter: emitter,
		log:     log,
		set:     recipients.NewSet(),
		state:   StateIdle,
		balance: "0",
	}, nil
}

func (e *Engine) State() State { return e.state }

// Set exposes the engine's recipient set for editing and imports.
func (e *Engine) Set() *recipients.Set { return e.set }

// Asset returns the currently selected asset, if any.
func (e *Engine) Asset() (types.Asset, bool) { return e.asset, e.hasAsset }

func (e *Engine) Chain() types.Chain { return e.chain }

// Balance is the displayed balance in display units. It is advisory
// until ResolveBalance has run for the current asset.
func (e *Engine) Balance() string { return e.balance }

// LastResult returns the outcome of the most recent submission
// attempt, or nil if none has finished.
func (e *Engine) LastResult() *Result {
	if e.last == nil {
		return nil
	}
	out := *e.last
	return &out
}

// SelectAsset resolves the chosen asset from the catalog. Selecting a
// new asset withdraws interest in any outstanding balance query: a
// late result for the previous asset is discarded by key.
func (e *Engine) SelectAsset(chainName, assetKey string) error {
	asset, ok := e.catalog.FindAsset(chainName, assetKey)
	if !ok {
		return fmt.Errorf("asset %q not found on chain %q", assetKey, chainName)
	}
	chain, ok := e.catalog.FindChain(chainName)
	if !ok {
		return fmt.Errorf("chain %q not found", chainName)
	}

	e.asset = asset
	e.chain = chain
	e.hasAsset = true
	e.balance = "0"
	e.state = StateAssetSelected
	e.log.Debug("asset selected", "chain", chainName, "asset", asset.Symbol)
	return nil
}

type cw20BalanceQuery struct {
	Balance cw20BalanceBody `json:"balance"`
}

type cw20BalanceBody struct {
	Address string `json:"address"`
}

type cw20BalanceResult struct {
	Balance string `json:"balance"`
}

// ResolveBalance queries the signer's balance for the selected asset
// and applies it. A query failure degrades to a displayed "0" with a
// warning; it never blocks the flow. Returns the displayed balance.
func (e *Engine) ResolveBalance(ctx context.Context) string {
	if !e.hasAsset {
		return e.balance
	}

	key := e.asset.Key()
	e.state = StateBalanceLoading

	display, err := e.fetchBalance(ctx)
	return e.applyBalance(key, display, err)
}

func (e *Engine) fetchBalance(ctx context.Context) (string, error) {
	if e.signer == nil {
		return "", types.ErrNoSigner
	}
	address, ok := e.signer.Address()
	if !ok {
		return "", types.ErrNoSigner
	}
	if e.asset.Exponent == nil {
		return "", fmt.Errorf("%w: %s", types.ErrIncompleteAsset, e.asset.Symbol)
	}

	var base string
	if e.asset.IsContract() {
		raw, err := e.querier.SmartContractState(ctx, e.asset.Contract, cw20BalanceQuery{
			Balance: cw20BalanceBody{Address: address},
		})
		if err != nil {
			return "", fmt.Errorf("%w: %v", types.ErrQueryFailed, err)
		}
		var result cw20BalanceResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return "", fmt.Errorf("%w: decode contract balance: %v", types.ErrQueryFailed, err)
		}
		base = result.Balance
	} else {
		amount, err := e.querier.BankBalance(ctx, address, e.asset.BaseDenom)
		if err != nil {
			return "", fmt.Errorf("%w: %v", types.ErrQueryFailed, err)
		}
		base = amount
	}

	display, err := units.FromBase(base, *e.asset.Exponent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrQueryFailed, err)
	}
	return display, nil
}

// applyBalance applies a query result keyed on the asset it was issued
// for. Results for an asset that is no longer selected are discarded.
func (e *Engine) applyBalance(key, display string, err error) string {
	if !e.hasAsset || e.asset.Key() != key {
		e.log.Debug("stale balance result discarded", "key", key)
		return e.balance
	}

	if err != nil {
		// Deliberate degrade: show zero and let the gate fail closed.
		e.log.Warn("balance query failed, displaying zero",
			"asset", e.asset.Symbol, "chain", e.chain.Name, "err", err)
		e.balance = "0"
	} else {
		e.balance = display
	}
	e.state = StateReady
	return e.balance
}

// Submit runs the one hard pre-submission gate, builds the batch, and
// hands it to the signer. On any failure the engine lands in
// StateFailed with no partial state; a retry starts fresh from Ready.
func (e *Engine) Submit(ctx context.Context) (Result, error) {
	if e.state != StateReady {
		return Result{}, fmt.Errorf("%w: state is %s", types.ErrNotReady, e.state)
	}
	if e.signer == nil {
		return Result{}, types.ErrNoSigner
	}
	address, ok := e.signer.Address()
	if !ok {
		return Result{}, types.ErrNoSigner
	}

	total := e.set.Total()
	balance, err := units.ParseAmount(e.balance)
	if err != nil {
		balance = decimal.Zero
	}
	if total.GreaterThan(balance) {
		return Result{}, fmt.Errorf(
			"%w: total %s exceeds balance %s %s",
			types.ErrInsufficientBalance, total, e.balance, e.asset.Symbol,
		)
	}

	attemptID := uuid.NewString()
	e.state = StateSubmitting
	e.log.Info("submitting disbursement",
		"attempt", attemptID,
		"chain", e.chain.Name,
		"asset", e.asset.Symbol,
		"recipients", len(e.set.Complete()),
		"total", total.String(),
	)

	built, err := e.builder.Build(e.set, e.asset, e.chain, address)
	if err != nil {
		return e.fail(attemptID, total.String(), err)
	}

	txResult, err := e.signer.SignAndBroadcast(ctx, built)
	if err != nil {
		return e.fail(attemptID, total.String(), fmt.Errorf("%w: %v", types.ErrSigningFailed, err))
	}

	link := ExplorerLink(e.chain, txResult.TxHash)
	e.recordSuccess(attemptID, txResult.TxHash, link, built.Size(), total.String())

	e.last = &Result{AttemptID: attemptID, TxHash: txResult.TxHash, ExplorerURL: link}
	e.state = StateSucceeded
	e.log.Info("disbursement succeeded",
		"attempt", attemptID, "tx_hash", txResult.TxHash, "explorer", link)
	return *e.last, nil
}

func (e *Engine) fail(attemptID, total string, err error) (Result, error) {
	e.last = &Result{AttemptID: attemptID, Err: err.Error()}
	e.state = StateFailed
	e.log.Error("disbursement failed", "attempt", attemptID, "err", err)

	if emitErr := e.emitter.EmitResult(events.DisbursementEvent{
		AttemptID:  attemptID,
		ChainID:    e.chain.ID,
		Asset:      e.asset.Symbol,
		Total:      total,
		Recipients: len(e.set.Complete()),
		Succeeded:  false,
		Error:      err.Error(),
	}); emitErr != nil {
		e.log.Warn("emit failure event", "err", emitErr)
	}
	return *e.last, err
}

func (e *Engine) recordSuccess(attemptID, txHash, link string, size int, total string) {
	if e.history != nil {
		if err := e.history.Record(history.Record{
			ID:          attemptID,
			ChainID:     e.chain.ID,
			Asset:       e.asset.Symbol,
			TxHash:      txHash,
			Recipients:  size,
			Total:       total,
			ExplorerURL: link,
			Timestamp:   time.Now().UTC(),
		}); err != nil {
			e.log.Warn("record disbursement history", "err", err)
		}
	}

	if err := e.emitter.EmitResult(events.DisbursementEvent{
		AttemptID:   attemptID,
		ChainID:     e.chain.ID,
		Asset:       e.asset.Symbol,
		TxHash:      txHash,
		ExplorerURL: link,
		Total:       total,
		Recipients:  size,
		Succeeded:   true,
	}); err != nil {
		e.log.Warn("emit success event", "err", err)
	}
}

// Acknowledge moves a terminal Succeeded/Failed state back to Ready so
// the user can adjust rows and resubmit against the same asset.
func (e *Engine) Acknowledge() {
	if e.state == StateSucceeded || e.state == StateFailed {
		e.state = StateReady
	}
}

// Reset returns the engine to Idle, dropping the asset selection. The
// recipient set is user data and survives.
func (e *Engine) Reset() {
	e.state = StateIdle
	e.hasAsset = false
	e.asset = types.Asset{}
	e.chain = types.Chain{}
	e.balance = "0"
}

// ExplorerLink builds a transaction link from the chain's explorers:
// a mintscan-kind template wins, then the first of any kind, then none.
func ExplorerLink(chain types.Chain, txHash string) string {
	explorer, found := lo.Find(chain.Explorers, func(ex types.Explorer) bool {
		return ex.Kind == "mintscan"
	})
	if !found {
		if len(chain.Explorers) == 0 {
			return ""
		}
		explorer = chain.Explorers[0]
	}
	return strings.ReplaceAll(explorer.TxPage, "${txHash}", txHash)
}
