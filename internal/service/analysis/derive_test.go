package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/darshanpatil2511/BullFin-AI/internal/domain/portfolio"
)

func pct(v float64) *float64 {
	return &v
}

func holding(symbol string, shares float64, price string) portfolio.Holding {
	return portfolio.Holding{
		Symbol:        symbol,
		Shares:        shares,
		PurchasePrice: decimal.RequireFromString(price),
		Date:          portfolio.NewDate(2024, time.January, 1),
	}
}

// TestDeriveAcmeScenario pins a known scenario: 10 ACME shares bought at
// 100, +5% over one week, no one-month value, +20% over one year.
func TestDeriveAcmeScenario(t *testing.T) {
	p := portfolio.Portfolio{holding("ACME", 10, "100")}
	profits := portfolio.ShareProfits{
		"ACME": {
			portfolio.HorizonWeek:   pct(5),
			portfolio.HorizonMonth:  nil,
			portfolio.Horizon6Month: pct(-3),
			portfolio.HorizonYear:   pct(20),
		},
	}

	t.Run("1 Week", func(t *testing.T) {
		views, err := Derive(profits, p, portfolio.HorizonWeek)
		if err != nil {
			t.Fatalf("Derive failed: %v", err)
		}

		view := views["ACME"]
		if view.CurrentPrice == nil || !view.CurrentPrice.Equal(decimal.RequireFromString("105")) {
			t.Errorf("Expected currentPrice 105, got %v", view.CurrentPrice)
		}
		if view.ProfitAmount == nil || !view.ProfitAmount.Equal(decimal.RequireFromString("50")) {
			t.Errorf("Expected profitAmount 50, got %v", view.ProfitAmount)
		}
		if view.PercentReturn == nil || *view.PercentReturn != 5 {
			t.Errorf("Expected percentReturn 5, got %v", view.PercentReturn)
		}
	})

	t.Run("1 Month is N/A", func(t *testing.T) {
		views, err := Derive(profits, p, portfolio.HorizonMonth)
		if err != nil {
			t.Fatalf("Derive failed: %v", err)
		}

		view := views["ACME"]
		if view.CurrentPrice != nil {
			t.Errorf("Expected nil currentPrice, got %v", view.CurrentPrice)
		}
		if view.ProfitAmount != nil {
			t.Errorf("Expected nil profitAmount, got %v", view.ProfitAmount)
		}
		if view.PercentReturn != nil {
			t.Errorf("Expected nil percentReturn, got %v", view.PercentReturn)
		}
		// Holding data stays available even when the return is not.
		if view.Shares == nil || *view.Shares != 10 {
			t.Errorf("Expected shares 10, got %v", view.Shares)
		}
	})

	t.Run("negative return", func(t *testing.T) {
		views, err := Derive(profits, p, portfolio.Horizon6Month)
		if err != nil {
			t.Fatalf("Derive failed: %v", err)
		}

		view := views["ACME"]
		if view.CurrentPrice == nil || !view.CurrentPrice.Equal(decimal.RequireFromString("97")) {
			t.Errorf("Expected currentPrice 97, got %v", view.CurrentPrice)
		}
		if view.ProfitAmount == nil || !view.ProfitAmount.Equal(decimal.RequireFromString("-30")) {
			t.Errorf("Expected profitAmount -30, got %v", view.ProfitAmount)
		}
	})
}

// TestDeriveFormula checks exact formula reproduction across symbols and
// horizons: currentPrice = purchasePrice * (1 + pct/100).
func TestDeriveFormula(t *testing.T) {
	p := portfolio.Portfolio{
		holding("AAPL", 2.5, "150.25"),
		holding("MSFT", 7, "310.10"),
	}
	profits := portfolio.ShareProfits{
		"AAPL": {portfolio.HorizonWeek: pct(1.5), portfolio.HorizonYear: pct(33.333)},
		"MSFT": {portfolio.HorizonWeek: pct(-0.25), portfolio.HorizonYear: pct(12)},
	}

	for _, h := range []portfolio.Horizon{portfolio.HorizonWeek, portfolio.HorizonYear} {
		views, err := Derive(profits, p, h)
		if err != nil {
			t.Fatalf("Derive(%s) failed: %v", h, err)
		}
		for _, lot := range p {
			view := views[lot.Symbol]
			want := lot.PurchasePrice.Mul(
				decimal.NewFromInt(1).Add(decimal.NewFromFloat(*profits[lot.Symbol][h]).Div(decimal.NewFromInt(100))),
			)
			if view.CurrentPrice == nil || !view.CurrentPrice.Equal(want) {
				t.Errorf("%s at %s: expected currentPrice %s, got %v", lot.Symbol, h, want, view.CurrentPrice)
			}
			wantProfit := want.Sub(lot.PurchasePrice).Mul(decimal.NewFromFloat(lot.Shares))
			if view.ProfitAmount == nil || !view.ProfitAmount.Equal(wantProfit) {
				t.Errorf("%s at %s: expected profitAmount %s, got %v", lot.Symbol, h, wantProfit, view.ProfitAmount)
			}
		}
	}
}

// TestDeriveTotality: every portfolio symbol gets an entry, even with no
// engine data at all.
func TestDeriveTotality(t *testing.T) {
	p := portfolio.Portfolio{
		holding("AAPL", 1, "100"),
		holding("NODATA", 4, "50"),
	}
	profits := portfolio.ShareProfits{
		"AAPL":  {portfolio.HorizonWeek: pct(2)},
		"EXTRA": {portfolio.HorizonWeek: pct(9)},
	}

	views, err := Derive(profits, p, portfolio.HorizonWeek)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	for _, symbol := range []string{"AAPL", "NODATA", "EXTRA"} {
		if _, ok := views[symbol]; !ok {
			t.Errorf("Expected entry for %s", symbol)
		}
	}

	nodata := views["NODATA"]
	if nodata.PercentReturn != nil || nodata.CurrentPrice != nil || nodata.ProfitAmount != nil {
		t.Errorf("Expected all-N/A derived fields for NODATA, got %+v", nodata)
	}

	// EXTRA has a return but no holding, so money fields stay undefined.
	extra := views["EXTRA"]
	if extra.PercentReturn == nil || *extra.PercentReturn != 9 {
		t.Errorf("Expected percentReturn 9 for EXTRA, got %v", extra.PercentReturn)
	}
	if extra.CurrentPrice != nil || extra.ProfitAmount != nil {
		t.Errorf("Expected nil money fields for EXTRA, got %+v", extra)
	}
}

// TestDeriveLastLotWins: with duplicate lots the most recently listed entry
// for the symbol is used.
func TestDeriveLastLotWins(t *testing.T) {
	p := portfolio.Portfolio{
		holding("AAPL", 10, "100"),
		holding("AAPL", 3, "200"),
	}
	profits := portfolio.ShareProfits{
		"AAPL": {portfolio.HorizonWeek: pct(10)},
	}

	views, err := Derive(profits, p, portfolio.HorizonWeek)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	view := views["AAPL"]
	if view.PurchasePrice == nil || !view.PurchasePrice.Equal(decimal.RequireFromString("200")) {
		t.Errorf("Expected last lot's purchase price 200, got %v", view.PurchasePrice)
	}
	if view.CurrentPrice == nil || !view.CurrentPrice.Equal(decimal.RequireFromString("220")) {
		t.Errorf("Expected currentPrice 220, got %v", view.CurrentPrice)
	}
	if view.ProfitAmount == nil || !view.ProfitAmount.Equal(decimal.RequireFromString("60")) {
		t.Errorf("Expected profitAmount 60 (3 shares), got %v", view.ProfitAmount)
	}
}

func TestDeriveUnknownHorizon(t *testing.T) {
	_, err := Derive(portfolio.ShareProfits{}, nil, "2 Weeks")
	if err != portfolio.ErrUnknownHorizon {
		t.Errorf("Expected ErrUnknownHorizon, got %v", err)
	}
}

// TestRoundedIsPresentationOnly: rounding the view does not feed back into
// derivation, and rounds half away from zero to 2 decimal places.
func TestRoundedIsPresentationOnly(t *testing.T) {
	p := portfolio.Portfolio{holding("AAPL", 3, "99.99")}
	profits := portfolio.ShareProfits{
		"AAPL": {portfolio.HorizonWeek: pct(1.234)},
	}

	views, err := Derive(profits, p, portfolio.HorizonWeek)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	full := views["AAPL"]
	rounded := full.Rounded()

	if rounded.CurrentPrice.Exponent() < -2 {
		t.Errorf("Expected at most 2 decimal places, got %s", rounded.CurrentPrice)
	}
	// Full precision view is untouched.
	if full.CurrentPrice.Equal(*rounded.CurrentPrice) {
		t.Logf("rounding was a no-op for this input: %s", full.CurrentPrice)
	}
	if !full.CurrentPrice.Equal(decimal.RequireFromString("99.99").Mul(decimal.RequireFromString("1.01234"))) {
		t.Errorf("Full-precision value changed: %s", full.CurrentPrice)
	}
}
