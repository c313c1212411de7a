package ports

import (
	"context"

	"github.com/SanderBuruma/solana-research/internal/domain"
)

// PriceSource cotiza un token por su mint. Devolver nil sin error es el
// resultado normal para tokens ilíquidos o sin tracking — no es un fallo.
type PriceSource interface {
	TokenPrice(ctx context.Context, mint string) (*domain.TokenPrice, error)
}
