package solscan

import (
	"encoding/json"

	"github.com/SanderBuruma/solana-research/internal/domain"
)

// rawActivity es la forma cruda de un swap tal y como la devuelve el
// endpoint de actividad DEX.
type rawActivity struct {
	TransID    string        `json:"trans_id"`
	BlockTime  json.Number   `json:"block_time"`
	Slot       int64         `json:"slot"`
	AmountInfo rawAmountInfo `json:"amount_info"`
	From       string        `json:"from_address"`
	PriceUSDT  json.Number   `json:"price_usdt"`
	Decimals   int           `json:"decimals"`
	Name       string        `json:"name"`
	Symbol     string        `json:"symbol"`
	Flow       string        `json:"flow"`
	Value      json.Number   `json:"value"`
}

// rawAmountInfo es la estructura anidada con las dos piernas del swap.
type rawAmountInfo struct {
	Token1         string      `json:"token1"`
	Token2         string      `json:"token2"`
	Token1Decimals int         `json:"token1_decimals"`
	Token2Decimals int         `json:"token2_decimals"`
	Amount1        json.Number `json:"amount1"`
	Amount2        json.Number `json:"amount2"`
}

// toDomain convierte la forma cruda al Trade normalizado del dominio.
func (r rawActivity) toDomain() domain.Trade {
	return domain.Trade{
		TransactionID: r.TransID,
		BlockTime:     numFloat(r.BlockTime),
		BlockID:       r.Slot,
		TokenA:        r.AmountInfo.Token1,
		TokenB:        r.AmountInfo.Token2,
		TokenADec:     r.AmountInfo.Token1Decimals,
		TokenBDec:     r.AmountInfo.Token2Decimals,
		AmountARaw:    numFloat(r.AmountInfo.Amount1),
		AmountBRaw:    numFloat(r.AmountInfo.Amount2),
		FromAddress:   r.From,
		PriceUSDT:     numFloat(r.PriceUSDT),
		Decimals:      r.Decimals,
		Name:          r.Name,
		Symbol:        r.Symbol,
		Flow:          r.Flow,
		Value:         numFloat(r.Value),
	}
}

// rawTransfer es un movimiento del endpoint account/transfer.
type rawTransfer struct {
	BlockTime     json.Number `json:"block_time"`
	ActivityType  string      `json:"activity_type"`
	Amount        json.Number `json:"amount"`
	TokenDecimals int         `json:"token_decimals"`
	Flow          string      `json:"flow"`
	From          string      `json:"from_address"`
	To            string      `json:"to_address"`
	Value         json.Number `json:"value"`
}

func (r rawTransfer) toDomain() domain.Transfer {
	return domain.Transfer{
		BlockTime:     numFloat(r.BlockTime),
		ActivityType:  r.ActivityType,
		Amount:        numFloat(r.Amount),
		TokenDecimals: r.TokenDecimals,
		Flow:          r.Flow,
		FromAddress:   r.From,
		ToAddress:     r.To,
		Value:         numFloat(r.Value),
	}
}

// numFloat convierte un json.Number tolerando vacío y basura — cantidades
// no numéricas se tratan como 0, no como error fatal.
func numFloat(n json.Number) float64 {
	if n == "" {
		return 0
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}
