package storage

// sqlite.go — histórico ligero de análisis.
//
// Estrategia:
//   - `runs`: UNA fila por ejecución del análisis, con las métricas de
//     cabecera (profit, win rate, mediana de ROI). Permite comparar cómo
//     evoluciona una wallet entre ejecuciones sin releer el cache CSV.
//   - Prune automático al arrancar: runs > 90d no aportan señal y se borran.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SanderBuruma/solana-research/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por ejecución del análisis
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    wallet          TEXT     NOT NULL,
    ran_at          DATETIME NOT NULL,
    tokens          INTEGER  NOT NULL DEFAULT 0,
    invested        REAL     NOT NULL DEFAULT 0,
    received        REAL     NOT NULL DEFAULT 0,
    realized_profit REAL     NOT NULL DEFAULT 0,
    total_profit    REAL     NOT NULL DEFAULT 0,
    win_rate        REAL     NOT NULL DEFAULT 0,
    median_roi      REAL     NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_wallet ON runs(wallet, ran_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_at     ON runs(ran_at DESC);
`

// Ejecuciones de hace más de 90 días ya no dicen nada útil de la wallet.
const retentionRuns = 90 * 24 * time.Hour

// SQLiteRunStore implementa ports.RunStore usando SQLite (pure Go, sin CGo).
type SQLiteRunStore struct {
	db *sql.DB
}

// NewSQLiteRunStore abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia ejecuciones antiguas.
func NewSQLiteRunStore(path string) (*SQLiteRunStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteRunStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteRunStore: apply schema: %w", err)
	}

	s := &SQLiteRunStore{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveRun persiste el resumen de una ejecución.
func (s *SQLiteRunStore) SaveRun(ctx context.Context, run domain.AnalysisRun) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
			(id, wallet, ran_at, tokens, invested, received,
			 realized_profit, total_profit, win_rate, median_roi)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Wallet,
		run.RanAt.UTC(),
		run.Tokens,
		run.Invested,
		run.Received,
		run.RealizedProfit,
		run.TotalProfit,
		run.WinRate,
		run.MedianROI,
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert %s: %w", run.ID, err)
	}
	return nil
}

// History devuelve las últimas ejecuciones de la wallet, de la más reciente
// a la más antigua. limit <= 0 devuelve todas.
func (s *SQLiteRunStore) History(ctx context.Context, wallet string, limit int) ([]domain.AnalysisRun, error) {
	query := `
		SELECT id, wallet, ran_at, tokens, invested, received,
		       realized_profit, total_profit, win_rate, median_roi
		FROM runs
		WHERE wallet = ?
		ORDER BY ran_at DESC`
	args := []any{wallet}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage.History: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.AnalysisRun
	for rows.Next() {
		var run domain.AnalysisRun
		var ranAt string
		if err := rows.Scan(
			&run.ID,
			&run.Wallet,
			&ranAt,
			&run.Tokens,
			&run.Invested,
			&run.Received,
			&run.RealizedProfit,
			&run.TotalProfit,
			&run.WinRate,
			&run.MedianROI,
		); err != nil {
			return nil, fmt.Errorf("storage.History: scan row: %w", err)
		}
		run.RanAt, _ = time.Parse(time.RFC3339, ranAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteRunStore) Close() error {
	return s.db.Close()
}

// pruneOld elimina ejecuciones antiguas para mantener la DB ligera.
func (s *SQLiteRunStore) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE ran_at < ?`, cutoff)
}
