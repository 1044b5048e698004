// Package analysis derives per-holding returns and builds rankings and
// two-way comparisons from an analytics engine payload. Every function is a
// pure function of its inputs; selection state (horizon, compared symbols)
// is caller-held.
package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/darshanpatil2511/BullFin-AI/internal/domain/portfolio"
)

// Derive computes the per-symbol view for one horizon.
//
// The output is total over the union of the portfolio's symbols and the
// shareProfits symbols: a symbol with no percent return at the horizon (or no
// matching holding) still gets an entry, with the underivable fields nil.
// currentPrice = purchasePrice * (1 + pct/100) and
// profitAmount = (currentPrice - purchasePrice) * shares, both at full
// precision; rounding is the presentation boundary's job.
//
// When a symbol has multiple lots, the last listed lot wins. This mirrors the
// per-symbol lookup the UI always had; lot aggregation is tracked as an open
// product question (see DESIGN.md).
func Derive(profits portfolio.ShareProfits, p portfolio.Portfolio, horizon portfolio.Horizon) (map[string]portfolio.DerivedHoldingView, error) {
	if _, err := portfolio.ParseHorizon(string(horizon)); err != nil {
		return nil, err
	}

	views := make(map[string]portfolio.DerivedHoldingView, len(profits)+len(p))
	for symbol := range profits {
		views[symbol] = deriveSymbol(profits, p, horizon, symbol)
	}
	for _, symbol := range p.Symbols() {
		if _, ok := views[symbol]; !ok {
			views[symbol] = deriveSymbol(profits, p, horizon, symbol)
		}
	}
	return views, nil
}

// deriveSymbol builds the view for one symbol. It is the single arithmetic
// path shared by Derive and Compare.
func deriveSymbol(profits portfolio.ShareProfits, p portfolio.Portfolio, horizon portfolio.Horizon, symbol string) portfolio.DerivedHoldingView {
	view := portfolio.DerivedHoldingView{Symbol: symbol}

	// Last matching lot wins.
	var lot *portfolio.Holding
	for i := range p {
		if p[i].Symbol == symbol {
			lot = &p[i]
		}
	}
	if lot != nil {
		shares := lot.Shares
		price := lot.PurchasePrice
		view.Shares = &shares
		view.PurchasePrice = &price
	}

	pct := profits[symbol].At(horizon)
	if pct == nil {
		return view
	}
	v := *pct
	view.PercentReturn = &v

	if lot == nil {
		return view
	}

	// currentPrice = purchasePrice * (1 + pct/100)
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(v).Div(decimal.NewFromInt(100)))
	current := lot.PurchasePrice.Mul(factor)
	profit := current.Sub(lot.PurchasePrice).Mul(decimal.NewFromFloat(lot.Shares))
	view.CurrentPrice = &current
	view.ProfitAmount = &profit
	return view
}

// symbolOrder resolves the ranking order for the shareProfits symbols.
// JSON objects lose key order in transit, so callers pass the engine's
// ordering explicitly; symbols it omits are appended sorted so the result
// stays deterministic. Symbols absent from profits are dropped.
func symbolOrder(profits portfolio.ShareProfits, order []string) []string {
	out := make([]string, 0, len(profits))
	seen := make(map[string]bool, len(profits))
	for _, s := range order {
		if _, ok := profits[s]; ok && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	var rest []string
	for s := range profits {
		if !seen[s] {
			rest = append(rest, s)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
