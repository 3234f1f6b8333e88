// Package lcd is a read-only client for the Cosmos LCD API. It covers
// exactly the two queries the engine needs: bank balances and CW20
// smart-contract state.
package lcd

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type bankBalanceResponse struct {
	Balance struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	} `json:"balance"`
}

type smartQueryResponse struct {
	Data json.RawMessage `json:"data"`
}

// BankBalance returns the base-unit balance of denom held by address.
func (c *Client) BankBalance(ctx context.Context, address, denom string) (string, error) {
	endpoint := fmt.Sprintf(
		"%s/cosmos/bank/v1beta1/balances/%s/by_denom?denom=%s",
		c.baseURL, url.PathEscape(address), url.QueryEscape(denom),
	)

	var resp bankBalanceResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return "", err
	}
	if resp.Balance.Amount == "" {
		return "0", nil
	}
	return resp.Balance.Amount, nil
}

// SmartContractState runs a smart query against a CW20 contract and
// returns the raw JSON result.
func (c *Client) SmartContractState(ctx context.Context, contract string, query any) (json.RawMessage, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("lcd: marshal smart query: %w", err)
	}

	endpoint := fmt.Sprintf(
		"%s/cosmwasm/wasm/v1/contract/%s/smart/%s",
		c.baseURL,
		url.PathEscape(contract),
		url.PathEscape(base64.StdEncoding.EncodeToString(payload)),
	)

	var resp smartQueryResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("lcd: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lcd: failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("lcd: unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("lcd: failed to decode response: %w", err)
	}
	return nil
}
