package analysis

import (
	"math"
	"sort"

	"github.com/darshanpatil2511/BullFin-AI/internal/domain/portfolio"
)

// DefaultTopN is the ranking size the UI shows.
const DefaultTopN = 3

// RankedReturn is one ranking entry. PercentReturn is nil when the symbol has
// no value at the ranked horizon; the missing-value sort sentinel never leaks
// out of this package.
type RankedReturn struct {
	Symbol        string   `json:"symbol"`
	PercentReturn *float64 `json:"percentReturn"`
}

// CompareView is a two-way comparison between user-chosen symbols.
type CompareView struct {
	A portfolio.DerivedHoldingView `json:"a"`
	B portfolio.DerivedHoldingView `json:"b"`
}

// TopN ranks the shareProfits symbols by percent return at the horizon,
// descending, and returns at most n entries.
//
// Symbols without a value at the horizon sort as -Inf, so they land last and
// only make the cut when fewer than n symbols have real values. Ties keep
// their relative position in order (stable sort), which is why callers pass
// the engine's symbol ordering alongside the map.
func TopN(profits portfolio.ShareProfits, order []string, horizon portfolio.Horizon, n int) ([]RankedReturn, error) {
	if _, err := portfolio.ParseHorizon(string(horizon)); err != nil {
		return nil, err
	}
	if n <= 0 {
		return []RankedReturn{}, nil
	}

	symbols := symbolOrder(profits, order)
	entries := make([]RankedReturn, 0, len(symbols))
	keys := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		pct := profits[symbol].At(horizon)
		key := math.Inf(-1)
		if pct != nil {
			v := *pct
			key = v
			entries = append(entries, RankedReturn{Symbol: symbol, PercentReturn: &v})
		} else {
			entries = append(entries, RankedReturn{Symbol: symbol})
		}
		keys[symbol] = key
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return keys[entries[i].Symbol] > keys[entries[j].Symbol]
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Compare derives the views for two user-chosen symbols at one horizon.
//
// A symbol absent from shareProfits (or the portfolio) yields a fully-N/A
// view rather than an error: the comparison must always render something.
// symbolA == symbolB is fine and returns the same view twice. Derivation goes
// through the same path as Derive, never a second arithmetic.
func Compare(profits portfolio.ShareProfits, p portfolio.Portfolio, horizon portfolio.Horizon, symbolA, symbolB string) (CompareView, error) {
	if _, err := portfolio.ParseHorizon(string(horizon)); err != nil {
		return CompareView{}, err
	}
	return CompareView{
		A: compareSide(profits, p, horizon, symbolA),
		B: compareSide(profits, p, horizon, symbolB),
	}, nil
}

func compareSide(profits portfolio.ShareProfits, p portfolio.Portfolio, horizon portfolio.Horizon, symbol string) portfolio.DerivedHoldingView {
	if _, ok := profits[symbol]; !ok {
		// Unknown selection: render N/A, including for holdings data, so the
		// view never mixes a real purchase price with an unknown return.
		return portfolio.DerivedHoldingView{Symbol: symbol}
	}
	return deriveSymbol(profits, p, horizon, symbol)
}
