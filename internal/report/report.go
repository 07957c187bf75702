// Package report renders a reconciliation result set as a tabular PDF for
// auditors and as CSV for machine use.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/fiscalware/nfeconcile/internal/reconcile"
)

// statusColor maps a classification to its row text color: affirmative
// green for matched, alert red for not booked, warning orange for
// cancelled, gray for ledger-only entries.
func statusColor(s reconcile.Status) (r, g, b int) {
	switch s {
	case reconcile.StatusMatched:
		return 0, 128, 0
	case reconcile.StatusNotBooked:
		return 200, 0, 0
	case reconcile.StatusCancelled:
		return 230, 130, 0
	case reconcile.StatusNotFoundAtAuthority:
		return 110, 110, 110
	}
	return 0, 0, 0
}

var pdfHeader = []string{"Chave", "Número", "Série", "Data", "Valor", "Situação", "Resultado"}

// column widths in mm for an A4 landscape page; the 44-digit key dominates.
var pdfWidths = []float64{92, 22, 14, 24, 28, 50, 40}

// WritePDF renders the results as a landscape table, one colored row per
// result, and writes the document to outPath.
func WritePDF(results []reconcile.Result, title string, outPath string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	// Core fonts are cp1252; translate the UTF-8 cell text.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 8)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range pdfHeader {
		pdf.CellFormat(pdfWidths[i], 6, tr(h), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, res := range results {
		r, g, b := statusColor(res.Status)
		pdf.SetTextColor(r, g, b)
		cells := []string{
			res.Key,
			res.Number,
			res.Series,
			res.Date,
			res.Value.StringFixed(2),
			res.StateText,
			res.Status.String(),
		}
		for i, c := range cells {
			pdf.CellFormat(pdfWidths[i], 5, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetTextColor(0, 0, 0)

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("report: write pdf: %w", err)
	}
	return nil
}

var csvHeader = []string{"chave", "numero", "serie", "data", "valor", "situacao", "resultado"}

// WriteCSV writes the results with a fixed header row.
func WriteCSV(results []reconcile.Result, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("report: write csv header: %w", err)
	}
	for _, res := range results {
		row := []string{
			res.Key,
			res.Number,
			res.Series,
			res.Date,
			res.Value.StringFixed(2),
			res.StateText,
			res.Status.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
