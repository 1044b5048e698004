// Package ingest converts raw portfolio input (CSV rows or manually entered
// form rows) into validated holdings.
package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/darshanpatil2511/BullFin-AI/internal/domain/portfolio"
)

// Raw row field names.
const (
	FieldSymbol        = "symbol"
	FieldShares        = "shares"
	FieldPurchasePrice = "purchasePrice"
	FieldDate          = "date"
)

// RawRow is one unvalidated input row, field name to raw textual value.
type RawRow map[string]string

// RowError reports one failed field of one input row. Row is 1-based.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
}

// RowErrors aggregates every failed field of a batch.
type RowErrors []RowError

func (es RowErrors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d invalid fields: %s", len(es), strings.Join(msgs, "; "))
}

// NormalizeRows validates raw rows into an ordered holding sequence.
//
// The batch fails closed: if any field of any row is invalid, no holdings are
// returned and the RowErrors result reports every failure. An invalid value is
// never coerced to a sentinel and never reaches persistence or computation.
func NormalizeRows(rows []RawRow) (portfolio.Portfolio, error) {
	holdings := make(portfolio.Portfolio, 0, len(rows))
	var errs RowErrors

	for i, row := range rows {
		rowNum := i + 1

		symbol := strings.TrimSpace(row[FieldSymbol])
		if symbol == "" {
			errs = append(errs, RowError{rowNum, FieldSymbol, "must not be blank"})
		}

		shares, err := parsePositiveNumber(row[FieldShares])
		if err != nil {
			errs = append(errs, RowError{rowNum, FieldShares, err.Error()})
		}

		price, err := parsePositiveNumber(row[FieldPurchasePrice])
		if err != nil {
			errs = append(errs, RowError{rowNum, FieldPurchasePrice, err.Error()})
		}

		date, err := portfolio.ParseDate(row[FieldDate])
		if err != nil {
			errs = append(errs, RowError{rowNum, FieldDate, err.Error()})
		}

		if len(errs) > 0 {
			continue
		}

		holdings = append(holdings, portfolio.Holding{
			Symbol:        symbol,
			Shares:        shares,
			PurchasePrice: decimal.NewFromFloat(price),
			Date:          date,
		})
	}

	if len(errs) > 0 {
		log.Warn().
			Int("rows", len(rows)).
			Int("invalid_fields", len(errs)).
			Msg("Rejected portfolio batch")
		return nil, errs
	}

	return holdings, nil
}

// parsePositiveNumber parses a finite, strictly positive number.
func parsePositiveNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("must not be blank")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return v, nil
}
