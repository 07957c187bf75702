// Package input reads the two source documents from disk. Authority portal
// pages are served in a Latin-1 family encoding; ledger workbooks are
// consumed as raw bytes by the extractor.
package input

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadLedger reads the ledger workbook bytes.
func ReadLedger(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("input: read ledger: %w", err)
	}
	return data, nil
}

// ReadAuthority reads an authority export page, decoding ISO-8859-1 to
// UTF-8 unless the payload already is valid UTF-8. Portal downloads saved
// by older browsers come through as Latin-1; re-saved ones as UTF-8.
func ReadAuthority(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("input: read authority export: %w", err)
	}
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("input: decode authority export: %w", err)
	}
	return decoded, nil
}
