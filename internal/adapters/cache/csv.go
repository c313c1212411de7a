package cache

// csv.go — cache durable de actividad DEX, un CSV por wallet.
//
// El formato de fila es un contrato externo (otras herramientas leen estos
// archivos): cabecera obligatoria, columnas en orden fijo, y tolerancia a
// columnas finales ausentes en archivos de versiones antiguas. El merge es
// append-only respecto a ids nuevos: nunca reordena ni reescribe registros
// ya guardados.

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/SanderBuruma/solana-research/internal/domain"
)

// header define el orden de columnas del archivo. Las nuevas columnas se
// añaden siempre al final para no romper lectores antiguos.
var header = []string{
	"trans_id", "block_time", "block_id", "token1", "token2",
	"token1_decimals", "token2_decimals", "amount1", "amount2",
	"price_usdt", "decimals", "name", "symbol", "flow", "value",
	"from_address",
}

// CSVCache implementa ports.TradeCache sobre archivos CSV por wallet.
type CSVCache struct {
	dir string
}

// NewCSVCache crea el cache bajo el directorio dado (se crea al escribir).
func NewCSVCache(dir string) *CSVCache {
	return &CSVCache{dir: dir}
}

func (c *CSVCache) path(wallet string) string {
	return filepath.Join(c.dir, wallet, "transactions.csv")
}

// Load lee todos los registros cacheados de la wallet, en el orden del
// archivo. Filas malformadas se saltan una a una; un cache inexistente
// devuelve lista vacía.
func (c *CSVCache) Load(wallet string) ([]domain.Trade, error) {
	f, err := os.Open(c.path(wallet))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache.Load: open %s: %w", wallet, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // archivos antiguos tienen menos columnas

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cache.Load: read %s: %w", wallet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	col := indexColumns(rows[0])
	var trades []domain.Trade
	skipped := 0
	for _, row := range rows[1:] {
		t, ok := rowToTrade(row, col)
		if !ok {
			skipped++
			continue
		}
		trades = append(trades, t)
	}
	if skipped > 0 {
		slog.Debug("skipped malformed cache rows", "wallet", wallet, "rows", skipped)
	}
	return trades, nil
}

// Merge añade solo los registros cuyo trans_id no esté ya en el archivo y
// devuelve cuántos se escribieron. Llamarlo dos veces con la misma entrada
// deja una sola copia de cada registro.
func (c *CSVCache) Merge(wallet string, records []domain.Trade) (int, error) {
	existing, err := c.Load(wallet)
	if err != nil {
		return 0, fmt.Errorf("cache.Merge: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.TransactionID] = true
	}

	var fresh []domain.Trade
	for _, t := range records {
		if t.TransactionID == "" || seen[t.TransactionID] {
			continue
		}
		seen[t.TransactionID] = true
		fresh = append(fresh, t)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := c.writeAll(wallet, append(existing, fresh...)); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

// LatestTimestamp devuelve el block_time máximo cacheado, o 0 sin datos.
func (c *CSVCache) LatestTimestamp(wallet string) float64 {
	trades, err := c.Load(wallet)
	if err != nil {
		return 0
	}
	var latest float64
	for _, t := range trades {
		if t.BlockTime > latest {
			latest = t.BlockTime
		}
	}
	return latest
}

// writeAll reescribe el archivo completo vía temp + rename, para que una
// cancelación a mitad de escritura nunca deje un cache truncado.
func (c *CSVCache) writeAll(wallet string, trades []domain.Trade) error {
	dir := filepath.Join(c.dir, wallet)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cache.writeAll: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "transactions-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("cache.writeAll: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("cache.writeAll: header: %w", err)
	}
	for _, t := range trades {
		if err := w.Write(tradeToRow(t)); err != nil {
			tmp.Close()
			return fmt.Errorf("cache.writeAll: row %s: %w", t.TransactionID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("cache.writeAll: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache.writeAll: close: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path(wallet)); err != nil {
		return fmt.Errorf("cache.writeAll: rename: %w", err)
	}
	return nil
}

// --- conversión fila <-> Trade ---

func indexColumns(headerRow []string) map[string]int {
	col := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		col[name] = i
	}
	return col
}

// rowToTrade parsea una fila tolerando columnas finales ausentes. Devuelve
// ok=false si falta algún campo requerido o block_time no es numérico.
func rowToTrade(row []string, col map[string]int) (domain.Trade, bool) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	id := get("trans_id")
	bt := get("block_time")
	token1 := get("token1")
	token2 := get("token2")
	if id == "" || bt == "" || token1 == "" || token2 == "" {
		return domain.Trade{}, false
	}
	blockTime, err := strconv.ParseFloat(bt, 64)
	if err != nil {
		return domain.Trade{}, false
	}

	atof := func(name string) float64 {
		f, _ := strconv.ParseFloat(get(name), 64)
		return f
	}
	atoi := func(name string) int {
		n, _ := strconv.Atoi(get(name))
		return n
	}
	blockID, _ := strconv.ParseInt(get("block_id"), 10, 64)

	return domain.Trade{
		TransactionID: id,
		BlockTime:     blockTime,
		BlockID:       blockID,
		TokenA:        token1,
		TokenB:        token2,
		TokenADec:     atoi("token1_decimals"),
		TokenBDec:     atoi("token2_decimals"),
		AmountARaw:    atof("amount1"),
		AmountBRaw:    atof("amount2"),
		PriceUSDT:     atof("price_usdt"),
		Decimals:      atoi("decimals"),
		Name:          get("name"),
		Symbol:        get("symbol"),
		Flow:          get("flow"),
		Value:         atof("value"),
		FromAddress:   get("from_address"),
	}, true
}

func tradeToRow(t domain.Trade) []string {
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	return []string{
		t.TransactionID,
		ftoa(t.BlockTime),
		strconv.FormatInt(t.BlockID, 10),
		t.TokenA,
		t.TokenB,
		strconv.Itoa(t.TokenADec),
		strconv.Itoa(t.TokenBDec),
		ftoa(t.AmountARaw),
		ftoa(t.AmountBRaw),
		ftoa(t.PriceUSDT),
		strconv.Itoa(t.Decimals),
		t.Name,
		t.Symbol,
		t.Flow,
		ftoa(t.Value),
		t.FromAddress,
	}
}
