// Package registry is the read-only asset/chain catalog. Operators
// ship it as a YAML file; chain-level defaults are merged into each
// entry before validation.
package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/imdario/mergo"
	"github.com/samber/lo"

	"github.com/fystack/multisend/internal/fees"
	"github.com/fystack/multisend/pkg/common/types"
)

var validate = validator.New()

type FeeTokenEntry struct {
	Denom           string `yaml:"denom"             validate:"required"`
	AverageGasPrice string `yaml:"average_gas_price" validate:"required"`
}

type ExplorerEntry struct {
	Kind   string `yaml:"kind"`
	TxPage string `yaml:"tx_page" validate:"required"`
}

type ChainEntry struct {
	ID           string          `yaml:"id"            validate:"required"`
	Bech32Prefix string          `yaml:"bech32_prefix" validate:"required"`
	LCD          string          `yaml:"lcd"`
	FeeTokens    []FeeTokenEntry `yaml:"fee_tokens"`
	Explorers    []ExplorerEntry `yaml:"explorers"`
}

type AssetEntry struct {
	Chain    string `yaml:"chain"  validate:"required"`
	Symbol   string `yaml:"symbol" validate:"required"`
	Name     string `yaml:"name"`
	Base     string `yaml:"base"   validate:"required"`
	Contract string `yaml:"contract"`
	Exponent *int32 `yaml:"exponent"`
}

type Config struct {
	// The defaults block is a partial entry merged into every chain
	// before validation; it is never validated on its own.
	Defaults ChainEntry            `yaml:"defaults" validate:"-"`
	Chains   map[string]ChainEntry `yaml:"chains" validate:"required,dive"`
	Assets   []AssetEntry          `yaml:"assets" validate:"dive"`
	Fees     fees.Config           `yaml:"fees"`
}

type Registry struct {
	chains map[string]types.Chain
	assets []types.Asset
	fees   fees.Config
}

func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	// merge defaults
	for name, chain := range cfg.Chains {
		if err := mergo.Merge(&chain, cfg.Defaults); err != nil {
			return nil, err
		}
		cfg.Chains[name] = chain
	}

	// validate
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}
	for _, asset := range cfg.Assets {
		if _, ok := cfg.Chains[asset.Chain]; !ok {
			return nil, fmt.Errorf("asset %s references unknown chain %q", asset.Symbol, asset.Chain)
		}
	}

	return New(&cfg), nil
}

func New(cfg *Config) *Registry {
	chains := make(map[string]types.Chain, len(cfg.Chains))
	for name, entry := range cfg.Chains {
		chains[name] = types.Chain{
			Name:         name,
			ID:           entry.ID,
			Bech32Prefix: entry.Bech32Prefix,
			LCD:          entry.LCD,
			FeeTokens: lo.Map(entry.FeeTokens, func(t FeeTokenEntry, _ int) types.FeeToken {
				return types.FeeToken{Denom: t.Denom, AverageGasPrice: t.AverageGasPrice}
			}),
			Explorers: lo.Map(entry.Explorers, func(e ExplorerEntry, _ int) types.Explorer {
				return types.Explorer{Kind: e.Kind, TxPage: e.TxPage}
			}),
		}
	}

	assets := lo.Map(cfg.Assets, func(a AssetEntry, _ int) types.Asset {
		return types.Asset{
			Symbol:    a.Symbol,
			Name:      a.Name,
			BaseDenom: a.Base,
			Contract:  a.Contract,
			Exponent:  a.Exponent,
			ChainName: a.Chain,
		}
	})

	return &Registry{chains: chains, assets: assets, fees: cfg.Fees}
}

func (r *Registry) FindChain(name string) (types.Chain, bool) {
	chain, ok := r.chains[name]
	return chain, ok
}

// ListChains returns all chains sorted by name.
func (r *Registry) ListChains() []types.Chain {
	names := lo.Keys(r.chains)
	sort.Strings(names)

	out := make([]types.Chain, 0, len(names))
	for _, name := range names {
		out = append(out, r.chains[name])
	}
	return out
}

// Assets returns the catalog entries for one chain, in file order.
func (r *Registry) Assets(chainName string) []types.Asset {
	return lo.Filter(r.assets, func(a types.Asset, _ int) bool {
		return a.ChainName == chainName
	})
}

// FindAsset resolves an asset on a chain by symbol (case-insensitive),
// base denom, contract address, or full catalog key.
func (r *Registry) FindAsset(chainName, key string) (types.Asset, bool) {
	for _, a := range r.assets {
		if a.ChainName != chainName {
			continue
		}
		if strings.EqualFold(a.Symbol, key) ||
			a.BaseDenom == key ||
			(a.Contract != "" && a.Contract == key) ||
			a.Key() == key {
			return a, true
		}
	}
	return types.Asset{}, false
}

func (r *Registry) FeeConfig() fees.Config {
	return r.fees
}
