package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func write(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadAuthority_DecodesLatin1(t *testing.T) {
	// "Situação" with Latin-1 single-byte accents.
	latin1 := []byte("<td>Situa\xe7\xe3o</td>")
	path := write(t, "export.html", latin1)

	data, err := ReadAuthority(path)
	if err != nil {
		t.Fatalf("ReadAuthority: %v", err)
	}
	if !utf8.Valid(data) {
		t.Fatal("decoded payload is not valid UTF-8")
	}
	if !strings.Contains(string(data), "Situação") {
		t.Fatalf("accents not decoded: %q", data)
	}
}

func TestReadAuthority_KeepsUTF8(t *testing.T) {
	payload := "<td>Situação</td>"
	path := write(t, "export.html", []byte(payload))

	data, err := ReadAuthority(path)
	if err != nil {
		t.Fatalf("ReadAuthority: %v", err)
	}
	if string(data) != payload {
		t.Fatalf("UTF-8 payload was altered: %q", data)
	}
}

func TestReadLedger_MissingFile(t *testing.T) {
	if _, err := ReadLedger(filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
