package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fiscalware/nfeconcile/internal/reconcile"
)

func fixture() []reconcile.Result {
	key := "35240312345678000199550010000001231000001234"
	return []reconcile.Result{
		{Key: key, Number: "123", Series: "1", Date: "05/03/2024",
			Value: decimal.RequireFromString("1234.56"), StateText: "Autorizada",
			Status: reconcile.StatusMatched},
		{Key: strings.Repeat("9", 44), Number: "124", Date: "03/2024",
			Value: decimal.Zero, StateText: "Cancelada",
			Status: reconcile.StatusCancelled},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(fixture(), &buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "chave,numero") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "1234.56") || !strings.Contains(lines[1], "Matched") {
		t.Fatalf("row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "Cancelled") {
		t.Fatalf("row = %q", lines[2])
	}
}

func TestWritePDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "conciliacao.pdf")
	if err := WritePDF(fixture(), "Conciliação NFe", out); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", data[:8])
	}
	if len(data) < 500 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(data))
	}
}
