// Package vanity busca keypairs de Solana cuya public key en base58 matchee
// una expresión regular, por fuerza bruta en paralelo.
package vanity

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
)

// Result es un keypair encontrado. PrivateKey es el keypair completo en
// base58, importable directamente en Phantom.
type Result struct {
	PublicKey  string
	PrivateKey string
	MatchStart int
	MatchEnd   int
	Attempts   uint64
	Elapsed    time.Duration
}

// Progress es el estado periódico de la búsqueda para display.
type Progress struct {
	Attempts uint64
	Elapsed  time.Duration
	Workers  int
}

// Search genera keypairs hasta que alguno matchee el patrón o el contexto se
// cancele. workers <= 0 usa todos los cores menos uno; onProgress (opcional)
// se invoca cada ~250ms desde una sola goroutine.
func Search(ctx context.Context, pattern string, workers int, onProgress func(Progress)) (*Result, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("vanity.Search: invalid pattern %q: %w", pattern, err)
	}
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var attempts atomic.Uint64
	found := make(chan *Result, 1)
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				key, err := solana.NewRandomPrivateKey()
				if err != nil {
					continue
				}
				attempts.Add(1)

				pub := key.PublicKey().String()
				loc := re.FindStringIndex(pub)
				if loc == nil {
					continue
				}

				select {
				case found <- &Result{
					PublicKey:  pub,
					PrivateKey: key.String(),
					MatchStart: loc[0],
					MatchEnd:   loc[1],
				}:
					cancel() // parar al resto de workers
				default:
					// otro worker ganó la carrera
				}
				return
			}
		}()
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-found:
			cancel()
			wg.Wait()
			res.Attempts = attempts.Load()
			res.Elapsed = time.Since(start)
			return res, nil
		case <-ctx.Done():
			wg.Wait()
			// Puede haber un resultado en vuelo que llegó junto a la cancelación
			select {
			case res := <-found:
				res.Attempts = attempts.Load()
				res.Elapsed = time.Since(start)
				return res, nil
			default:
			}
			return nil, ctx.Err()
		case <-ticker.C:
			if onProgress != nil {
				onProgress(Progress{
					Attempts: attempts.Load(),
					Elapsed:  time.Since(start),
					Workers:  workers,
				})
			}
		}
	}
}

// Rate devuelve la velocidad combinada en direcciones por segundo.
func (p Progress) Rate() float64 {
	if p.Elapsed <= 0 {
		return 0
	}
	return float64(p.Attempts) / p.Elapsed.Seconds()
}
