package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/fystack/multisend/internal/batch"
	"github.com/fystack/multisend/internal/engine"
	"github.com/fystack/multisend/internal/fees"
	"github.com/fystack/multisend/internal/history"
	"github.com/fystack/multisend/internal/importer"
	"github.com/fystack/multisend/internal/lcd"
	"github.com/fystack/multisend/internal/recipients"
	"github.com/fystack/multisend/internal/registry"
	"github.com/fystack/multisend/internal/units"
	"github.com/fystack/multisend/internal/validate"
	"github.com/fystack/multisend/pkg/common/logger"
	"github.com/fystack/multisend/pkg/common/types"
	"github.com/fystack/multisend/pkg/events"
)

type CLI struct {
	Catalog string `help:"Path to chain/asset catalog."  default:"configs/chains.yaml" name:"catalog"`
	Debug   bool   `help:"Enable debug logs."            name:"debug"`

	Chains  ChainsCmd  `cmd:"" help:"List the chains in the catalog."`
	Assets  AssetsCmd  `cmd:"" help:"List the disbursable assets on a chain."`
	Balance BalanceCmd `cmd:"" help:"Query an address's balance for an asset."`
	Plan    PlanCmd    `cmd:"" help:"Build a transfer batch from a recipient CSV and print it."`
	Record  RecordCmd  `cmd:"" help:"Record an externally broadcast disbursement and publish the result."`
	History HistoryCmd `cmd:"" help:"List recorded disbursements."`
}

type ChainsCmd struct{}

type AssetsCmd struct {
	Chain string `help:"Chain name." required:""`
}

type BalanceCmd struct {
	Chain   string `help:"Chain name."                    required:""`
	Asset   string `help:"Asset symbol, denom, or contract." required:""`
	Address string `help:"Account address to query."      required:""`
}

type PlanCmd struct {
	Chain  string `help:"Chain name."                       required:""`
	Asset  string `help:"Asset symbol, denom, or contract." required:""`
	Signer string `help:"Sender address."                   required:""`
	CSV    string `help:"Recipient CSV file (address,amount per line)." required:"" type:"existingfile"`
}

type RecordCmd struct {
	Chain      string `help:"Chain name."                       required:""`
	Asset      string `help:"Asset symbol, denom, or contract." required:""`
	TxHash     string `help:"Broadcast transaction hash."       required:"" name:"tx-hash"`
	Total      string `help:"Total disbursed, display units."   required:""`
	Recipients int    `help:"Number of recipients."             required:""`
	Dir        string `help:"History database directory."       default:"data/history"`
	NATSURL    string `help:"Publish the result event to this NATS server." name:"nats-url"`
}

type HistoryCmd struct {
	Dir   string `help:"History database directory." default:"data/history"`
	Chain string `help:"Filter by chain ID."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("multisend"),
		kong.Description("Bulk token disbursement for Cosmos chains."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

func loadCatalog(cli *CLI) (*registry.Registry, error) {
	reg, err := registry.Load(cli.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog %q: %w", cli.Catalog, err)
	}
	return reg, nil
}

func (c *ChainsCmd) Run(cli *CLI) error {
	reg, err := loadCatalog(cli)
	if err != nil {
		return err
	}

	for _, chain := range reg.ListChains() {
		fee := "-"
		if len(chain.FeeTokens) > 0 {
			fee = chain.FeeTokens[0].Denom
		}
		fmt.Printf("%-16s %-16s prefix=%-8s fee=%s\n", chain.Name, chain.ID, chain.Bech32Prefix, fee)
	}
	return nil
}

func (c *AssetsCmd) Run(cli *CLI) error {
	reg, err := loadCatalog(cli)
	if err != nil {
		return err
	}
	if _, ok := reg.FindChain(c.Chain); !ok {
		return fmt.Errorf("chain %q not in catalog", c.Chain)
	}

	for _, asset := range reg.Assets(c.Chain) {
		kind := "native"
		if asset.IsContract() {
			kind = "cw20"
		}
		fmt.Printf("%-10s %-8s %s\n", asset.Symbol, kind, asset.BaseDenom)
	}
	return nil
}

func (c *BalanceCmd) Run(cli *CLI) error {
	reg, err := loadCatalog(cli)
	if err != nil {
		return err
	}
	chain, ok := reg.FindChain(c.Chain)
	if !ok {
		return fmt.Errorf("chain %q not in catalog", c.Chain)
	}
	if chain.LCD == "" {
		return fmt.Errorf("chain %q has no lcd endpoint configured", c.Chain)
	}
	asset, ok := reg.FindAsset(c.Chain, c.Asset)
	if !ok {
		return fmt.Errorf("asset %q not found on chain %q", c.Asset, c.Chain)
	}
	if asset.Exponent == nil {
		return fmt.Errorf("%w: %s", types.ErrIncompleteAsset, asset.Symbol)
	}
	if !validate.Address(c.Address, chain.Bech32Prefix) {
		logger.Warn("Address does not match chain prefix", "address", c.Address, "prefix", chain.Bech32Prefix)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := lcd.NewClient(chain.LCD)
	var base string
	if asset.IsContract() {
		raw, err := client.SmartContractState(ctx, asset.Contract, map[string]any{
			"balance": map[string]string{"address": c.Address},
		})
		if err != nil {
			return err
		}
		var result struct {
			Balance string `json:"balance"`
		}
		if err := json.Unmarshal(raw, &result); err != nil {
			return fmt.Errorf("decode contract balance: %w", err)
		}
		base = result.Balance
	} else {
		base, err = client.BankBalance(ctx, c.Address, asset.BaseDenom)
		if err != nil {
			return err
		}
	}

	display, err := units.FromBase(base, *asset.Exponent)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s (%s %s)\n", display, asset.Symbol, base, asset.BaseDenom)
	return nil
}

func (c *PlanCmd) Run(cli *CLI) error {
	reg, err := loadCatalog(cli)
	if err != nil {
		return err
	}
	chain, ok := reg.FindChain(c.Chain)
	if !ok {
		return fmt.Errorf("chain %q not in catalog", c.Chain)
	}
	asset, ok := reg.FindAsset(c.Chain, c.Asset)
	if !ok {
		return fmt.Errorf("asset %q not found on chain %q", c.Asset, c.Chain)
	}

	file, err := os.Open(c.CSV)
	if err != nil {
		return err
	}
	defer file.Close()

	set := recipients.NewSet()
	imported := set.MergeImported(importer.NewCSVSource(file))
	logger.Info("Imported recipients", "rows", imported, "file", c.CSV)

	// Advisory only: flag suspicious rows, then build regardless.
	for i, row := range set.Rows() {
		if row.Empty() {
			continue
		}
		if row.Address != "" && !validate.Address(row.Address, chain.Bech32Prefix) {
			logger.Warn("Address does not match chain prefix", "row", i+1, "address", row.Address)
		}
		if !validate.Amount(row.Amount) {
			logger.Warn("Amount is not a valid decimal", "row", i+1, "amount", row.Amount)
		}
	}

	builder := batch.NewBuilder(fees.NewCalculator(reg.FeeConfig()))
	built, err := builder.Build(set, asset, chain, c.Signer)
	if err != nil {
		return err
	}

	out := struct {
		Kind  string              `json:"kind"`
		Total string              `json:"total"`
		Batch types.TransferBatch `json:"batch"`
	}{
		Kind:  built.Kind().String(),
		Total: set.Total().String(),
		Batch: built,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func (c *RecordCmd) Run(cli *CLI) error {
	reg, err := loadCatalog(cli)
	if err != nil {
		return err
	}
	chain, ok := reg.FindChain(c.Chain)
	if !ok {
		return fmt.Errorf("chain %q not in catalog", c.Chain)
	}
	asset, ok := reg.FindAsset(c.Chain, c.Asset)
	if !ok {
		return fmt.Errorf("asset %q not found on chain %q", c.Asset, c.Chain)
	}

	emitter, err := events.NewEmitter(c.NATSURL, "")
	if err != nil {
		return fmt.Errorf("connect emitter: %w", err)
	}
	defer emitter.Close()

	store, err := history.Open(c.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	link := engine.ExplorerLink(chain, c.TxHash)
	rec := history.Record{
		ID:          uuid.NewString(),
		ChainID:     chain.ID,
		Asset:       asset.Symbol,
		TxHash:      c.TxHash,
		Recipients:  c.Recipients,
		Total:       c.Total,
		ExplorerURL: link,
	}
	if err := store.Record(rec); err != nil {
		return err
	}

	if err := emitter.EmitResult(events.DisbursementEvent{
		AttemptID:   rec.ID,
		ChainID:     chain.ID,
		Asset:       asset.Symbol,
		TxHash:      c.TxHash,
		ExplorerURL: link,
		Total:       c.Total,
		Recipients:  c.Recipients,
		Succeeded:   true,
	}); err != nil {
		logger.Warn("Publish result event failed", "err", err)
	}

	fmt.Printf("recorded %s", rec.ID)
	if link != "" {
		fmt.Printf("  %s", link)
	}
	fmt.Println()
	return nil
}

func (c *HistoryCmd) Run(cli *CLI) error {
	store, err := history.Open(c.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(c.Chain)
	if err != nil {
		return err
	}

	for _, rec := range records {
		fmt.Printf("%s  %-12s %-8s %3d recipients  total=%-12s %s\n",
			rec.Timestamp.Format(time.RFC3339), rec.ChainID, rec.Asset,
			rec.Recipients, rec.Total, rec.TxHash)
	}
	return nil
}
