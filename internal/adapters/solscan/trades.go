package solscan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/SanderBuruma/solana-research/internal/domain"
)

// El indexador deja de devolver datos útiles pasadas ~101 páginas; además
// capa el total reportado.
const totalTradesCap = 10100

// TotalTrades devuelve cuántos swaps tiene la dirección según el indexador.
func (c *Client) TotalTrades(ctx context.Context, address string) (int, error) {
	endpoint := fmt.Sprintf("account/activity/dextrading/total?address=%s", url.QueryEscape(address))
	env, err := c.get(ctx, endpoint)
	if err != nil {
		return 0, fmt.Errorf("solscan.TotalTrades: %w", err)
	}
	if !env.Success {
		return 0, nil
	}

	// data puede venir como número o como lista, según la versión del API
	var n int
	if err := json.Unmarshal(env.Data, &n); err != nil {
		var list []json.RawMessage
		if err := json.Unmarshal(env.Data, &list); err != nil {
			return 0, nil
		}
		n = len(list)
	}
	if n > totalTradesCap {
		n = totalTradesCap
	}
	return n, nil
}

// TradesPage devuelve una página de swaps, del más reciente al más antiguo.
func (c *Client) TradesPage(ctx context.Context, address string, page, pageSize int, fromTime, toTime int64) ([]domain.Trade, error) {
	endpoint := fmt.Sprintf(
		"account/activity/dextrading?address=%s&page=%d&page_size=%d&activity_type[]=ACTIVITY_TOKEN_SWAP&activity_type[]=ACTIVITY_AGG_TOKEN_SWAP",
		url.QueryEscape(address), page, pageSize,
	)
	if fromTime > 0 {
		endpoint += fmt.Sprintf("&from_time=%d", fromTime)
	}
	if toTime > 0 {
		endpoint += fmt.Sprintf("&to_time=%d", toTime)
	}

	env, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("solscan.TradesPage: page %d: %w", page, err)
	}
	if !env.Success || len(env.Data) == 0 {
		return nil, nil
	}

	var raw []rawActivity
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return nil, fmt.Errorf("solscan.TradesPage: decode page %d: %w", page, err)
	}

	trades := make([]domain.Trade, 0, len(raw))
	for _, r := range raw {
		if r.TransID == "" {
			continue
		}
		trades = append(trades, r.toDomain())
	}

	slog.Debug("fetched trades page", "address", shortAddr(address), "page", page, "count", len(trades))
	return trades, nil
}

func shortAddr(a string) string {
	if len(a) <= 8 {
		return a
	}
	return a[:8] + "..."
}
