package vanity_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanderBuruma/solana-research/internal/vanity"
)

func TestSearch_TrivialPattern(t *testing.T) {
	// "." matchea cualquier dirección: debe resolver en el primer intento.
	res, err := vanity.Search(context.Background(), ".", 1, nil)
	require.NoError(t, err)

	// 32 bytes en base58 ocupan 43-44 caracteres
	assert.InDelta(t, 44, len(res.PublicKey), 1)
	assert.NotEmpty(t, res.PrivateKey)
	assert.GreaterOrEqual(t, res.Attempts, uint64(1))
	assert.True(t, regexp.MustCompile(".").MatchString(res.PublicKey))
}

func TestSearch_CaseSensitiveMatch(t *testing.T) {
	// Un patrón de un carácter base58 se encuentra en segundos.
	res, err := vanity.Search(context.Background(), "a", 2, nil)
	require.NoError(t, err)

	assert.Contains(t, res.PublicKey, "a")
	assert.GreaterOrEqual(t, res.MatchEnd, res.MatchStart)
}

func TestSearch_InvalidPattern(t *testing.T) {
	_, err := vanity.Search(context.Background(), "([", 1, nil)
	assert.Error(t, err)
}

func TestSearch_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// Patrón imposible: 50 'z' seguidas no aparecen en una key de 44 chars.
	_, err := vanity.Search(ctx, "z{50}", 1, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
