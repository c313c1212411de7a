package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SanderBuruma/solana-research/internal/domain"
	"github.com/SanderBuruma/solana-research/internal/ports"
)

const (
	fetchPageSize = 100
	maxFetchPages = 100

	// Más allá de esta edad el indexador devuelve datos incompletos.
	defaultMaxAgeDays = 60

	// Ventana por defecto alrededor del timestamp de referencia.
	defaultRefWindow = 30.0
)

// ReferenceFilter restringe el fetch relativo a un timestamp concreto:
// Direction "before" corta en cuanto aparece un trade posterior a Time,
// "after" descarta todo lo anterior a Time-Window.
type ReferenceFilter struct {
	Time      float64
	Direction string // "before" | "after"
	Window    float64 // segundos; 0 usa defaultRefWindow
}

// FetchOptions controla una pasada del fetcher.
type FetchOptions struct {
	// MaxAgeDays limita la edad de los trades; 0 usa defaultMaxAgeDays.
	MaxAgeDays int

	// RecentDays, si es >0, recorta el resultado a los últimos N días.
	RecentDays int

	// FromTime/ToTime (unix) activan el modo de ventana absoluta: el cache
	// se ignora por completo y no se escribe nada nuevo en él.
	FromTime int64
	ToTime   int64

	Reference *ReferenceFilter

	// CacheOnly evita cualquier llamada de red y sirve solo lo cacheado.
	CacheOnly bool
}

// Fetcher reconcilia el cache local con el historial remoto de una wallet.
type Fetcher struct {
	source ports.TradeSource
	cache  ports.TradeCache
	now    func() time.Time
}

func NewFetcher(source ports.TradeSource, cache ports.TradeCache) *Fetcher {
	return &Fetcher{source: source, cache: cache, now: time.Now}
}

// History devuelve el historial de swaps de la wallet, del más reciente al
// más antiguo, combinando cache y páginas remotas. Errores de credencial
// abortan de inmediato; cualquier otro fallo de página deja un warning y
// devuelve lo acumulado hasta ese punto.
func (f *Fetcher) History(ctx context.Context, address string, opts FetchOptions) ([]domain.Trade, error) {
	maxAge := opts.MaxAgeDays
	if maxAge <= 0 {
		maxAge = defaultMaxAgeDays
	}
	nowUnix := float64(f.now().Unix())
	ageCutoff := nowUnix - float64(maxAge)*86400

	var recentCutoff float64
	if opts.RecentDays > 0 {
		recentCutoff = nowUnix - float64(opts.RecentDays)*86400
	}

	// Una ventana absoluta siempre va directa a la red: el cache solo
	// guarda el historial "completo" y mezclar ventanas lo corrompería.
	bypass := opts.FromTime > 0 || opts.ToTime > 0

	seen := make(map[string]bool)
	var all []domain.Trade
	var latestCached float64

	if !bypass {
		cached, err := f.cache.Load(address)
		if err != nil {
			slog.Warn("trade cache unreadable, refetching from scratch", "wallet", address, "err", err)
		}
		for _, t := range cached {
			if seen[t.TransactionID] {
				continue
			}
			seen[t.TransactionID] = true
			all = append(all, t)
			if t.BlockTime > latestCached {
				latestCached = t.BlockTime
			}
		}
	}

	if opts.CacheOnly {
		return finalize(all, recentCutoff, opts.FromTime, opts.ToTime), nil
	}

	total, err := f.source.TotalTrades(ctx, address)
	if err != nil {
		if errors.Is(err, ports.ErrAccessDenied) {
			return nil, fmt.Errorf("fetcher.History: %w", err)
		}
		slog.Warn("could not read trade total, serving cache only", "wallet", address, "err", err)
		return finalize(all, recentCutoff, opts.FromTime, opts.ToTime), nil
	}
	if total == 0 {
		return finalize(all, recentCutoff, opts.FromTime, opts.ToTime), nil
	}

	var fresh []domain.Trade
	foundCached := false

pages:
	for page := 1; page <= maxFetchPages && !foundCached; page++ {
		trades, err := f.source.TradesPage(ctx, address, page, fetchPageSize, opts.FromTime, opts.ToTime)
		if err != nil {
			if errors.Is(err, ports.ErrAccessDenied) {
				return nil, fmt.Errorf("fetcher.History: page %d: %w", page, err)
			}
			slog.Warn("trade page failed, keeping partial history", "wallet", address, "page", page, "err", err)
			break
		}
		if len(trades) == 0 {
			break
		}

		for _, t := range trades {
			if opts.FromTime > 0 && t.BlockTime < float64(opts.FromTime) {
				continue
			}
			if opts.ToTime > 0 && t.BlockTime > float64(opts.ToTime) {
				continue
			}

			if ref := opts.Reference; ref != nil {
				window := ref.Window
				if window <= 0 {
					window = defaultRefWindow
				}
				diff := t.BlockTime - ref.Time
				// Las páginas llegan del más nuevo al más viejo: para
				// "before" todo lo posterior a la referencia ya pasó.
				if ref.Direction == "before" && diff > 0 {
					break pages
				}
				if ref.Direction == "after" && diff < -window {
					continue
				}
			}

			if seen[t.TransactionID] {
				if !bypass {
					foundCached = true
				}
				continue
			}
			if !bypass && opts.Reference == nil && t.BlockTime <= latestCached && latestCached > 0 {
				foundCached = true
				continue
			}
			if t.BlockTime < ageCutoff {
				foundCached = true
				break
			}
			if recentCutoff > 0 && t.BlockTime < recentCutoff {
				continue
			}

			seen[t.TransactionID] = true
			all = append(all, t)
			fresh = append(fresh, t)
		}

		slog.Debug("trade page processed",
			"wallet", address, "page", page, "new", len(fresh), "total", total)

		if len(trades) < fetchPageSize {
			break
		}
	}

	if len(fresh) > 0 && !bypass {
		if n, err := f.cache.Merge(address, fresh); err != nil {
			slog.Warn("could not persist fetched trades", "wallet", address, "err", err)
		} else {
			slog.Debug("trade cache updated", "wallet", address, "written", n)
		}
	}

	return finalize(all, recentCutoff, opts.FromTime, opts.ToTime), nil
}

// finalize aplica los recortes temporales finales y ordena del más reciente
// al más antiguo.
func finalize(trades []domain.Trade, recentCutoff float64, fromTime, toTime int64) []domain.Trade {
	out := trades[:0:0]
	for _, t := range trades {
		if recentCutoff > 0 && t.BlockTime < recentCutoff {
			continue
		}
		if fromTime > 0 && t.BlockTime < float64(fromTime) {
			continue
		}
		if toTime > 0 && t.BlockTime > float64(toTime) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BlockTime > out[j].BlockTime })
	return out
}
