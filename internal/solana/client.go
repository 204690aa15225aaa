// Package solana is a minimal JSON-RPC client for token ownership lookups.
package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	apperrors "cryptovibe/internal/errors"
)

const DefaultRPCURL = "https://api.mainnet-beta.solana.com"

// TokenAccount is one SPL token account owned by a wallet.
type TokenAccount struct {
	Pubkey   string          `json:"pubkey"`
	Amount   decimal.Decimal `json:"amount"`
	Decimals int             `json:"decimals"`
}

// Client calls a Solana JSON-RPC endpoint.
type Client struct {
	url    string
	http   *http.Client
	nextID atomic.Int64
}

// NewClient returns a client for rpcURL (DefaultRPCURL when empty).
func NewClient(rpcURL string, timeout time.Duration) *Client {
	if rpcURL == "" {
		rpcURL = DefaultRPCURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{url: rpcURL, http: &http.Client{Timeout: timeout}}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type tokenAccountsResult struct {
	Value []struct {
		Pubkey  string `json:"pubkey"`
		Account struct {
			Data struct {
				Parsed struct {
					Info struct {
						TokenAmount struct {
							Amount   string `json:"amount"`
							Decimals int    `json:"decimals"`
						} `json:"tokenAmount"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"account"`
	} `json:"value"`
}

// TokenAccountsByOwner lists owner's token accounts for mint.
func (c *Client) TokenAccountsByOwner(ctx context.Context, owner, mint string) ([]TokenAccount, error) {
	params := []interface{}{
		owner,
		map[string]string{"mint": mint},
		map[string]string{"encoding": "jsonParsed"},
	}

	var res tokenAccountsResult
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &res); err != nil {
		return nil, err
	}

	accounts := make([]TokenAccount, 0, len(res.Value))
	for _, v := range res.Value {
		info := v.Account.Data.Parsed.Info.TokenAmount
		amount, err := decimal.NewFromString(info.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid token amount %q for %s", apperrors.ErrProviderUnavailable, info.Amount, v.Pubkey)
		}
		accounts = append(accounts, TokenAccount{Pubkey: v.Pubkey, Amount: amount, Decimals: info.Decimals})
	}
	return accounts, nil
}

// HoldsToken reports whether any of owner's accounts for mint has a
// positive balance.
func (c *Client) HoldsToken(ctx context.Context, owner, mint string) (bool, error) {
	accounts, err := c.TokenAccountsByOwner(ctx, owner, mint)
	if err != nil {
		return false, err
	}
	for _, a := range accounts {
		if a.Amount.IsPositive() {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("%w: rpc %s: network error: %v", apperrors.ErrProviderUnavailable, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: rpc %s: status %d %s", apperrors.ErrProviderUnavailable, method, resp.StatusCode, msg)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: rpc %s: decode error: %v", apperrors.ErrProviderUnavailable, method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%w: rpc %s: %d %s", apperrors.ErrProviderUnavailable, method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("%w: rpc %s: decode result: %v", apperrors.ErrProviderUnavailable, method, err)
	}
	return nil
}
