package solscan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/SanderBuruma/solana-research/internal/domain"
)

// Balance devuelve el balance de la cuenta en SOL.
func (c *Client) Balance(ctx context.Context, address string) (float64, error) {
	env, err := c.get(ctx, "account?address="+url.QueryEscape(address))
	if err != nil {
		return 0, fmt.Errorf("solscan.Balance: %w", err)
	}
	if !env.Success {
		return 0, fmt.Errorf("solscan.Balance: indexer reported failure for %s", shortAddr(address))
	}

	var data struct {
		Lamports json.Number `json:"lamports"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return 0, fmt.Errorf("solscan.Balance: decode: %w", err)
	}
	return numFloat(data.Lamports) / 1e9, nil
}

// Transfers devuelve una página del historial de transferencias de la cuenta,
// sin spam y sin movimientos de cantidad cero.
func (c *Client) Transfers(ctx context.Context, address string, page, pageSize int) ([]domain.Transfer, error) {
	endpoint := fmt.Sprintf(
		"account/transfer?address=%s&page=%d&page_size=%d&remove_spam=true&exclude_amount_zero=true",
		url.QueryEscape(address), page, pageSize,
	)
	env, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("solscan.Transfers: page %d: %w", page, err)
	}
	if !env.Success || len(env.Data) == 0 {
		return nil, nil
	}

	var raw []rawTransfer
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return nil, fmt.Errorf("solscan.Transfers: decode page %d: %w", page, err)
	}

	transfers := make([]domain.Transfer, 0, len(raw))
	for _, r := range raw {
		transfers = append(transfers, r.toDomain())
	}
	return transfers, nil
}

// TokenPrice cotiza un token por su mint. Devuelve nil sin error cuando el
// indexador no conoce el token — ausencia de precio es un resultado normal.
func (c *Client) TokenPrice(ctx context.Context, mint string) (*domain.TokenPrice, error) {
	env, err := c.get(ctx, "account?address="+url.QueryEscape(mint))
	if err != nil {
		return nil, fmt.Errorf("solscan.TokenPrice: %s: %w", shortAddr(mint), err)
	}
	if !env.Success {
		return nil, nil
	}

	var data struct {
		TokenInfo struct {
			Decimals int `json:"decimals"`
		} `json:"tokenInfo"`
	}
	_ = json.Unmarshal(env.Data, &data)

	var meta struct {
		Data struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"data"`
		Tokens map[string]struct {
			PriceUSDT json.Number `json:"price_usdt"`
		} `json:"tokens"`
	}
	_ = json.Unmarshal(env.Metadata, &meta)

	price := &domain.TokenPrice{
		Decimals: data.TokenInfo.Decimals,
		Name:     meta.Data.Name,
		Symbol:   meta.Data.Symbol,
	}
	if tok, ok := meta.Tokens[mint]; ok {
		price.PriceUSDT = numFloat(tok.PriceUSDT)
	}
	return price, nil
}
