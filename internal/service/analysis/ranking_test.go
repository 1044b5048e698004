package analysis

import (
	"reflect"
	"testing"

	"github.com/darshanpatil2511/BullFin-AI/internal/domain/portfolio"
)

func rankedSymbols(entries []RankedReturn) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Symbol
	}
	return out
}

func TestTopNOrdering(t *testing.T) {
	profits := portfolio.ShareProfits{
		"AAPL": {portfolio.HorizonYear: pct(12)},
		"MSFT": {portfolio.HorizonYear: pct(30)},
		"GOOG": {portfolio.HorizonYear: pct(-4)},
		"AMZN": {portfolio.HorizonYear: pct(18)},
	}
	order := []string{"AAPL", "MSFT", "GOOG", "AMZN"}

	ranked, err := TopN(profits, order, portfolio.HorizonYear, 3)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}

	want := []string{"MSFT", "AMZN", "AAPL"}
	if got := rankedSymbols(ranked); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if len(ranked) != 3 {
		t.Errorf("Expected at most 3 entries, got %d", len(ranked))
	}
}

// TestTopNMissingValueSortsLast pins the two-symbol scenario: "A" has 10% at
// one year, "B" has no value there. B still ranks (last) and never errors,
// and the missing value surfaces as nil, not a sentinel.
func TestTopNMissingValueSortsLast(t *testing.T) {
	profits := portfolio.ShareProfits{
		"A": {portfolio.HorizonYear: pct(10)},
		"B": {portfolio.HorizonWeek: pct(99)},
	}

	ranked, err := TopN(profits, []string{"A", "B"}, portfolio.HorizonYear, 3)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}

	if got := rankedSymbols(ranked); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Expected [A B], got %v", got)
	}
	if ranked[0].PercentReturn == nil || *ranked[0].PercentReturn != 10 {
		t.Errorf("Expected A at 10, got %v", ranked[0].PercentReturn)
	}
	if ranked[1].PercentReturn != nil {
		t.Errorf("Expected nil percentReturn for B, got %v", *ranked[1].PercentReturn)
	}
}

// TestTopNStableTies: equal returns keep their insertion order.
func TestTopNStableTies(t *testing.T) {
	profits := portfolio.ShareProfits{
		"X": {portfolio.HorizonWeek: pct(5)},
		"Y": {portfolio.HorizonWeek: pct(5)},
		"Z": {portfolio.HorizonWeek: pct(5)},
	}

	t.Run("order X Y Z", func(t *testing.T) {
		ranked, err := TopN(profits, []string{"X", "Y", "Z"}, portfolio.HorizonWeek, 3)
		if err != nil {
			t.Fatalf("TopN failed: %v", err)
		}
		if got := rankedSymbols(ranked); !reflect.DeepEqual(got, []string{"X", "Y", "Z"}) {
			t.Errorf("Expected [X Y Z], got %v", got)
		}
	})

	t.Run("order Z X Y", func(t *testing.T) {
		ranked, err := TopN(profits, []string{"Z", "X", "Y"}, portfolio.HorizonWeek, 3)
		if err != nil {
			t.Fatalf("TopN failed: %v", err)
		}
		if got := rankedSymbols(ranked); !reflect.DeepEqual(got, []string{"Z", "X", "Y"}) {
			t.Errorf("Expected [Z X Y], got %v", got)
		}
	})
}

func TestTopNBounds(t *testing.T) {
	profits := portfolio.ShareProfits{
		"A": {portfolio.HorizonWeek: pct(1)},
		"B": {portfolio.HorizonWeek: pct(2)},
	}
	order := []string{"A", "B"}

	t.Run("fewer symbols than n", func(t *testing.T) {
		ranked, err := TopN(profits, order, portfolio.HorizonWeek, 5)
		if err != nil {
			t.Fatalf("TopN failed: %v", err)
		}
		if len(ranked) != 2 {
			t.Errorf("Expected 2 entries, got %d", len(ranked))
		}
	})

	t.Run("n zero", func(t *testing.T) {
		ranked, err := TopN(profits, order, portfolio.HorizonWeek, 0)
		if err != nil {
			t.Fatalf("TopN failed: %v", err)
		}
		if len(ranked) != 0 {
			t.Errorf("Expected no entries, got %d", len(ranked))
		}
	})

	t.Run("never invents symbols", func(t *testing.T) {
		ranked, err := TopN(profits, []string{"A", "B", "GHOST"}, portfolio.HorizonWeek, 5)
		if err != nil {
			t.Fatalf("TopN failed: %v", err)
		}
		for _, e := range ranked {
			if _, ok := profits[e.Symbol]; !ok {
				t.Errorf("Ranked symbol %s is not in shareProfits", e.Symbol)
			}
		}
	})

	t.Run("unknown horizon", func(t *testing.T) {
		if _, err := TopN(profits, order, "Decade", 3); err != portfolio.ErrUnknownHorizon {
			t.Errorf("Expected ErrUnknownHorizon, got %v", err)
		}
	})
}

// TestCompareAgreesWithDerive: compare must share derive's arithmetic path
// exactly.
func TestCompareAgreesWithDerive(t *testing.T) {
	p := portfolio.Portfolio{
		holding("AAPL", 10, "100"),
		holding("MSFT", 2, "330.50"),
	}
	profits := portfolio.ShareProfits{
		"AAPL": {portfolio.HorizonWeek: pct(5)},
		"MSFT": {portfolio.HorizonWeek: pct(-1.5)},
	}

	views, err := Derive(profits, p, portfolio.HorizonWeek)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	cmp, err := Compare(profits, p, portfolio.HorizonWeek, "AAPL", "MSFT")
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if !reflect.DeepEqual(cmp.A, views["AAPL"]) {
		t.Errorf("Compare A diverged from Derive: %+v vs %+v", cmp.A, views["AAPL"])
	}
	if !reflect.DeepEqual(cmp.B, views["MSFT"]) {
		t.Errorf("Compare B diverged from Derive: %+v vs %+v", cmp.B, views["MSFT"])
	}
}

func TestCompareSameSymbol(t *testing.T) {
	p := portfolio.Portfolio{holding("AAPL", 10, "100")}
	profits := portfolio.ShareProfits{
		"AAPL": {portfolio.HorizonWeek: pct(5)},
	}

	cmp, err := Compare(profits, p, portfolio.HorizonWeek, "AAPL", "AAPL")
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !reflect.DeepEqual(cmp.A, cmp.B) {
		t.Errorf("Expected identical views, got %+v and %+v", cmp.A, cmp.B)
	}
}

func TestCompareAbsentSymbol(t *testing.T) {
	p := portfolio.Portfolio{holding("AAPL", 10, "100")}
	profits := portfolio.ShareProfits{
		"AAPL": {portfolio.HorizonWeek: pct(5)},
	}

	cmp, err := Compare(profits, p, portfolio.HorizonWeek, "AAPL", "GHOST")
	if err != nil {
		t.Fatalf("Compare must not fail for absent symbols: %v", err)
	}

	ghost := cmp.B
	if ghost.Symbol != "GHOST" {
		t.Errorf("Expected symbol GHOST, got %s", ghost.Symbol)
	}
	if ghost.Shares != nil || ghost.PurchasePrice != nil || ghost.PercentReturn != nil ||
		ghost.CurrentPrice != nil || ghost.ProfitAmount != nil {
		t.Errorf("Expected fully-N/A view, got %+v", ghost)
	}
}
