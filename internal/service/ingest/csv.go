package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

var requiredColumns = []string{FieldSymbol, FieldShares, FieldPurchasePrice, FieldDate}

// ReadCSV reads delimited-text rows into raw rows keyed by header name.
//
// The first record is the header and must contain the symbol, shares,
// purchasePrice and date columns (extra columns are ignored). Records shorter
// than the header fail the read; value validation is left to NormalizeRows.
func ReadCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file, expected a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var rows []RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(rows)+1, err)
		}

		row := make(RawRow, len(requiredColumns))
		for _, col := range requiredColumns {
			i := index[col]
			if i >= len(record) {
				return nil, fmt.Errorf("record %d: missing value for %q", len(rows)+1, col)
			}
			row[col] = record[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}
