// Package chave normalizes NFe access keys. The access key is a 44-digit
// identifier that encodes, among other fields, the two-digit emission year
// and month at fixed offsets; portals and spreadsheets routinely decorate it
// with spaces, dots and dashes.
package chave

import (
	"fmt"
	"strings"
)

// keyLen is the digit count of a full access key.
const keyLen = 44

// Normalize strips every non-digit character from raw. It performs no length
// validation; callers decide what counts as a usable key.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DateFromKey derives the emission month/year encoded in a full access key,
// formatted as "MM/YYYY". The key encodes only a two-digit year (assumed
// century 2000) and a month, so the result is a partial date. Returns the
// empty string when the normalized key is not exactly 44 digits, since the
// field offsets cannot be located reliably.
func DateFromKey(raw string) string {
	key := Normalize(raw)
	if len(key) != keyLen {
		return ""
	}
	year := key[2:4]
	month := key[4:6]
	return fmt.Sprintf("%s/20%s", month, year)
}
