package portfolio

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Wire contract uses plain JSON numbers for money fields.
	decimal.MarshalJSONWithoutQuotes = true
}

// Date is a calendar date (day precision). The wire format is "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate creates a Date at day precision in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date, accepting the canonical layout plus the
// slash variant and RFC3339 timestamps (truncated to the day).
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, "2006/01/02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Holding represents one purchased position (lot). ID is assigned by the
// store on persist and is zero for holdings that have not been persisted.
type Holding struct {
	ID            uuid.UUID       `json:"id,omitzero"`
	Symbol        string          `json:"symbol"`
	Shares        float64         `json:"shares"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	Date          Date            `json:"date"`
}

// Portfolio is an ordered sequence of holdings. Order is input order and
// duplicate symbols are permitted (distinct lots).
type Portfolio []Holding

// Symbols returns the portfolio symbols in input order, first occurrence only.
func (p Portfolio) Symbols() []string {
	seen := make(map[string]bool, len(p))
	var out []string
	for _, h := range p {
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			out = append(out, h.Symbol)
		}
	}
	return out
}

// ReturnSeries maps a horizon to a percent return. A nil entry (or a missing
// key) means the return is not available for that horizon.
type ReturnSeries map[Horizon]*float64

// At returns the percent return at h, or nil when not available.
func (rs ReturnSeries) At(h Horizon) *float64 {
	if rs == nil {
		return nil
	}
	return rs[h]
}

// ShareProfits maps symbols to their per-horizon percent returns.
type ShareProfits map[string]ReturnSeries

// MetricsResult is the analytics engine payload enriched with the submitted
// portfolio. It is created fresh per analysis request and never mutated.
type MetricsResult struct {
	CAGR         float64      `json:"CAGR"`
	Volatility   float64      `json:"Volatility"`
	Sharpe       float64      `json:"Sharpe"`
	Beta         *float64     `json:"Beta"`
	ShareProfits ShareProfits `json:"shareProfits"`
	// Symbols preserves the engine's shareProfits ordering, which JSON maps
	// cannot. Ranking uses it as the stable tie-break order.
	Symbols   []string  `json:"symbols,omitempty"`
	Portfolio Portfolio `json:"portfolio,omitempty"`
}

// DerivedHoldingView is the computed view of one symbol at one horizon.
// Nil fields mean "not available" and must never be rendered as zero.
type DerivedHoldingView struct {
	Symbol        string           `json:"symbol"`
	Shares        *float64         `json:"shares"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	PercentReturn *float64         `json:"percentReturn"`
	CurrentPrice  *decimal.Decimal `json:"currentPrice"`
	ProfitAmount  *decimal.Decimal `json:"profitAmount"`
}

// Rounded returns a copy with money fields rounded to 2 decimal places.
// Rounding happens only at the presentation boundary; ranking and comparison
// run on full-precision values.
func (v DerivedHoldingView) Rounded() DerivedHoldingView {
	round := func(d *decimal.Decimal) *decimal.Decimal {
		if d == nil {
			return nil
		}
		r := d.Round(2)
		return &r
	}
	v.CurrentPrice = round(v.CurrentPrice)
	v.ProfitAmount = round(v.ProfitAmount)
	v.PurchasePrice = round(v.PurchasePrice)
	return v
}
