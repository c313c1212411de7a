package ports

import (
	"context"

	"github.com/SanderBuruma/solana-research/internal/domain"
)

// RunStore persiste el resumen de cada ejecución del análisis, para poder
// comparar una wallet a lo largo del tiempo.
type RunStore interface {
	// SaveRun persiste el resumen de una ejecución.
	SaveRun(ctx context.Context, run domain.AnalysisRun) error

	// History devuelve las últimas ejecuciones de una wallet, la más
	// reciente primero.
	History(ctx context.Context, wallet string, limit int) ([]domain.AnalysisRun, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
