// Package ledger extracts invoice records from accounting-system
// spreadsheet exports. The exports have no fixed schema: column order and
// header wording differ between accounting systems, so columns are located
// heuristically through internal/columns and only structural failures
// (no key column at all) abort the extraction.
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shakinm/xlsReader/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fiscalware/nfeconcile/internal/chave"
	"github.com/fiscalware/nfeconcile/internal/columns"
)

// ErrMissingKeyColumn is returned when no header in row zero matches the
// access-key heuristic. Without a key column the rows cannot be joined to
// anything, so the document is rejected as a whole.
var ErrMissingKeyColumn = errors.New("ledger: missing key column")

// Record is one invoice as the accounting system knows it. Immutable after
// extraction; Source keeps the original row cells for audit display.
type Record struct {
	Key    string
	Number string
	Value  decimal.Decimal
	Date   string
	Source []string
}

// Extract parses a workbook (xlsx, with legacy xls fallback) into ledger
// records. Row zero of the first sheet must carry the headers; rows without
// a usable access key are skipped silently, since exports routinely contain
// blank and decorative rows.
func Extract(data []byte) ([]Record, error) {
	grid, err := loadGrid(data)
	if err != nil {
		return nil, fmt.Errorf("ledger: read workbook: %w", err)
	}
	if len(grid) == 0 {
		return nil, ErrMissingKeyColumn
	}

	roles := columns.ResolveByRole(grid[0], columns.LedgerRules)
	keyCol, ok := roles[columns.RoleKey]
	if !ok {
		return nil, ErrMissingKeyColumn
	}

	records := make([]Record, 0, len(grid)-1)
	for _, row := range grid[1:] {
		if len(row) == 0 || keyCol >= len(row) {
			continue
		}
		key := chave.Normalize(row[keyCol])
		if key == "" {
			continue
		}

		rec := Record{Key: key, Source: row}
		if col, ok := roles[columns.RoleNumber]; ok && col < len(row) {
			rec.Number = strings.TrimSpace(row[col])
		}
		if col, ok := roles[columns.RoleValue]; ok && col < len(row) {
			rec.Value = parseMoney(row[col])
		}
		if col, ok := roles[columns.RoleDate]; ok && col < len(row) && strings.TrimSpace(row[col]) != "" {
			rec.Date = strings.TrimSpace(row[col])
		} else {
			rec.Date = chave.DateFromKey(key)
		}
		records = append(records, rec)
	}
	log.Debug().Int("rows", len(grid)-1).Int("records", len(records)).Msg("ledger extracted")
	return records, nil
}

// parseMoney reads a Brazilian currency-formatted cell ("R$ 1.234,56").
// Unparseable or absent values degrade to zero rather than failing the row.
func parseMoney(cell string) decimal.Decimal {
	s := strings.TrimSpace(cell)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// loadGrid reads the first sheet of the workbook as displayed text, trying
// xlsx first and falling back to the legacy xls container.
func loadGrid(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err == nil {
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		return f.GetRows(sheets[0])
	}

	workbook, xlsErr := xls.OpenReader(bytes.NewReader(data))
	if xlsErr != nil {
		return nil, err
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("xls first sheet: %w", err)
	}
	var grid [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		grid = append(grid, cells)
	}
	return grid, nil
}
