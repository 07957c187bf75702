// Package authority extracts invoice records from tax-authority portal
// exports. The exports are full HTML pages whose layout varies across
// portal versions: banner rows precede the real header, header wording
// shifts, and unrelated tables surround the invoice table. Discovery is
// therefore heuristic, anchored on a row carrying both a "chave" and a
// "situacao" header, which rarely co-occur outside the invoice table.
package authority

import (
	"bytes"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/fiscalware/nfeconcile/internal/chave"
	"github.com/fiscalware/nfeconcile/internal/columns"
)

// ErrTableNotFound is returned when no table in the document carries a
// header row matching the invoice-table heuristic.
var ErrTableNotFound = errors.New("authority: target table not found")

// headerSearchRows bounds the header scan per table; portals put at most a
// few banner rows above the real header.
const headerSearchRows = 5

// minKeyLen is the coarse validity gate on the canonical key. It rejects
// non-invoice rows that slipped past the column heuristics without
// demanding the full 44 digits.
const minKeyLen = 20

// Record is one invoice as the authority knows it. Immutable after
// extraction; Source keeps the original row cells for audit display.
type Record struct {
	Key    string
	Number string
	Series string
	Status string
	Issuer string
	Date   string
	Source []string
}

// Extract parses an authority export page into records. It scans every
// table in document order, picks the first whose leading rows contain both
// anchor headers, and reads the remaining rows through the resolved column
// roles. Rows that fail the per-row gates are dropped silently.
func Extract(data []byte) ([]Record, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil || root == nil {
		return nil, ErrTableNotFound
	}

	var target [][]string
	var roles map[columns.Role]int
	for _, table := range collectTables(root) {
		rows := tableRows(table)
		if header, ok := findHeaderRow(rows); ok {
			target = rows
			roles = columns.ResolveByColumn(header, columns.AuthorityRules)
			break
		}
	}
	if target == nil {
		return nil, ErrTableNotFound
	}

	keyCol, hasKey := roles[columns.RoleKey]
	if !hasKey {
		// findHeaderRow guarantees a chave header, so the key role resolves;
		// guard anyway so a heuristic change cannot panic here.
		return nil, ErrTableNotFound
	}

	records := make([]Record, 0, len(target))
	for _, row := range target {
		if len(row) < 3 {
			continue
		}
		// The header row was located by content, not index, so it is still
		// in the row set; its key cell names the column instead of holding
		// a key.
		if keyCol < len(row) && strings.Contains(strings.ToLower(row[keyCol]), "chave") {
			continue
		}
		rec := Record{
			Key:    chave.Normalize(cellAt(row, roles, columns.RoleKey)),
			Number: cellAt(row, roles, columns.RoleNumber),
			Series: cellAt(row, roles, columns.RoleSeries),
			Status: cellAt(row, roles, columns.RoleStatus),
			Issuer: cellAt(row, roles, columns.RoleIssuer),
			Date:   cellAt(row, roles, columns.RoleDate),
			Source: row,
		}
		if rec.Date == "" {
			rec.Date = chave.DateFromKey(rec.Key)
		}
		if rec.Key == "" || len(rec.Key) <= minKeyLen {
			continue
		}
		records = append(records, rec)
	}
	log.Debug().Int("rows", len(target)).Int("records", len(records)).Msg("authority table extracted")
	return records, nil
}

// findHeaderRow scans the leading rows for one whose normalized cells
// include both anchor tokens.
func findHeaderRow(rows [][]string) ([]string, bool) {
	limit := len(rows)
	if limit > headerSearchRows {
		limit = headerSearchRows
	}
	for _, row := range rows[:limit] {
		hasKey, hasStatus := false, false
		for _, cell := range row {
			n := columns.Normalize(cell)
			if strings.Contains(n, "chave") {
				hasKey = true
			}
			if strings.Contains(n, "situacao") {
				hasStatus = true
			}
		}
		if hasKey && hasStatus {
			return row, true
		}
	}
	return nil, false
}

func cellAt(row []string, roles map[columns.Role]int, role columns.Role) string {
	col, ok := roles[role]
	if !ok || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// collectTables returns every <table> element in document order, nested
// tables included.
func collectTables(root *html.Node) []*html.Node {
	var tables []*html.Node
	var dfs func(*html.Node)
	dfs = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "table") {
			tables = append(tables, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(root)
	return tables
}

// tableRows reads the table's <tr> descendants as trimmed cell text,
// skipping rows belonging to nested tables.
func tableRows(table *html.Node) [][]string {
	var rows [][]string
	var dfs func(*html.Node)
	dfs = func(n *html.Node) {
		if n.Type == html.ElementNode {
			name := strings.ToLower(n.Data)
			if name == "table" && n != table {
				return
			}
			if name == "tr" {
				rows = append(rows, rowCells(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(table)
	return rows
}

func rowCells(tr *html.Node) []string {
	var cells []string
	var dfs func(*html.Node)
	dfs = func(n *html.Node) {
		if n.Type == html.ElementNode {
			name := strings.ToLower(n.Data)
			if name == "td" || name == "th" {
				cells = append(cells, nodeText(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		dfs(c)
	}
	return cells
}

// nodeText flattens a cell's text content, collapsing internal whitespace.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
			b.WriteByte(' ')
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
