package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/SanderBuruma/solana-research/internal/domain"
)

// Filter es una conjunción de predicados sobre posiciones: un token pasa solo
// si cumple todas las condiciones.
type Filter struct {
	conditions []condition
}

type condition struct {
	key       string
	op        string
	threshold float64
}

// Claves aceptadas y el valor de la posición que comparan.
var filterKeys = map[string]func(domain.TokenPosition) float64{
	"t":   func(p domain.TokenPosition) float64 { return float64(p.TradeCount) },
	"mht": func(p domain.TokenPosition) float64 { return p.HoldTime().Seconds() },
	"fmc": func(p domain.TokenPosition) float64 { return p.EntryMarketCap },
	"mcp": func(p domain.TokenPosition) float64 { return p.MCEntryPercent },
	"inv": func(p domain.TokenPosition) float64 { return p.SOLInvested },
	"prof": func(p domain.TokenPosition) float64 {
		return p.TotalProfit()
	},
	"roi": func(p domain.TokenPosition) float64 {
		roi, _ := p.ROIPercent()
		return roi
	},
	"tps": func(p domain.TokenPosition) float64 {
		if p.SOLInvested <= 0 {
			return 0
		}
		return p.TokensBought / p.SOLInvested
	},
}

// FilterUsage describe la sintaxis de filtros para mensajes de ayuda.
const FilterUsage = `filter format: "key:op value" joined with ';', e.g. "t:>500;roi:>=100"
keys: t (trade count), mht (hold time seconds), fmc (entry market cap),
      mcp (%% of market cap at entry), inv (SOL invested), prof (total profit),
      roi (ROI %%), tps (tokens per SOL at entry)
ops:  > < >= <= =`

var conditionRe = regexp.MustCompile(`^([><]=?|=)\s*(-?\d+\.?\d*)$`)

// ParseFilter compila una expresión "key:opvalue;key:opvalue". Cualquier
// segmento malformado o clave desconocida es un error con la guía de uso.
func ParseFilter(expr string) (*Filter, error) {
	f := &Filter{}
	for _, part := range strings.Split(expr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, rest, found := strings.Cut(part, ":")
		if !found {
			return nil, fmt.Errorf("ParseFilter: %q lacks ':'\n%s", part, FilterUsage)
		}
		key = strings.TrimSpace(key)
		if _, ok := filterKeys[key]; !ok {
			return nil, fmt.Errorf("ParseFilter: unknown key %q\n%s", key, FilterUsage)
		}
		m := conditionRe.FindStringSubmatch(strings.TrimSpace(rest))
		if m == nil {
			return nil, fmt.Errorf("ParseFilter: bad condition %q\n%s", part, FilterUsage)
		}
		threshold, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("ParseFilter: bad number in %q\n%s", part, FilterUsage)
		}
		f.conditions = append(f.conditions, condition{key: key, op: m[1], threshold: threshold})
	}
	if len(f.conditions) == 0 {
		return nil, fmt.Errorf("ParseFilter: empty filter\n%s", FilterUsage)
	}
	return f, nil
}

// Apply devuelve solo las posiciones que cumplen todas las condiciones.
func (f *Filter) Apply(positions []domain.TokenPosition) []domain.TokenPosition {
	out := positions[:0:0]
	for _, p := range positions {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f *Filter) matches(p domain.TokenPosition) bool {
	for _, c := range f.conditions {
		v := filterKeys[c.key](p)
		var ok bool
		switch c.op {
		case ">":
			ok = v > c.threshold
		case "<":
			ok = v < c.threshold
		case ">=":
			ok = v >= c.threshold
		case "<=":
			ok = v <= c.threshold
		case "=":
			ok = v == c.threshold
		}
		if !ok {
			return false
		}
	}
	return true
}
