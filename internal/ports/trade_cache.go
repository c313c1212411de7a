package ports

import "github.com/SanderBuruma/solana-research/internal/domain"

// TradeCache es el almacén durable por wallet de trades ya vistos, clavado
// por transaction id. Merge es idempotente y append-only: nunca reordena ni
// muta registros ya guardados.
type TradeCache interface {
	// Load lee todos los registros cacheados de la wallet. Filas malformadas
	// se saltan; cache inexistente devuelve lista vacía, no error.
	Load(wallet string) ([]domain.Trade, error)

	// Merge añade solo los registros cuyo id no esté ya presente y devuelve
	// cuántos se escribieron de verdad.
	Merge(wallet string, records []domain.Trade) (int, error)

	// LatestTimestamp devuelve el block_time máximo cacheado, o 0 si no hay
	// nada — el fetcher lo usa para saber dónde empieza lo fresco.
	LatestTimestamp(wallet string) float64
}
