// Package columns matches loosely worded spreadsheet and portal table
// headers to the column roles the extractors need. Header wording varies
// across accounting systems and portal versions, so matching is heuristic:
// headers are normalized to ascii tokens and tested against an ordered list
// of (role, predicate) rules.
package columns

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Role identifies what a column holds. Closed set; extractors own their
// rule tables below.
type Role int

const (
	RoleKey Role = iota
	RoleNumber
	RoleValue
	RoleDate
	RoleStatus
	RoleSeries
	RoleIssuer
)

func (r Role) String() string {
	switch r {
	case RoleKey:
		return "key"
	case RoleNumber:
		return "number"
	case RoleValue:
		return "value"
	case RoleDate:
		return "date"
	case RoleStatus:
		return "status"
	case RoleSeries:
		return "series"
	case RoleIssuer:
		return "issuer"
	}
	return "unknown"
}

// Normalize canonicalizes a header label for heuristic matching: lowercase,
// trimmed, accents stripped, every run of characters outside [a-z0-9]
// collapsed to a single underscore. Never used for display.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}
	stripped = strings.ToLower(strings.TrimSpace(stripped))

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSep := false
	for _, r := range stripped {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			pendingSep = true
		}
	}
	return b.String()
}

// Rule binds a role to a predicate over a normalized header token.
type Rule struct {
	Role  Role
	Match func(header string) bool
}

// contains reports whether the normalized header contains any of the tokens.
func contains(tokens ...string) func(string) bool {
	return func(h string) bool {
		for _, tok := range tokens {
			if strings.Contains(h, tok) {
				return true
			}
		}
		return false
	}
}

// equalsOrContains matches an exact token from eq, or a substring from sub.
func equalsOrContains(eq []string, sub []string) func(string) bool {
	return func(h string) bool {
		for _, tok := range eq {
			if h == tok {
				return true
			}
		}
		for _, tok := range sub {
			if strings.Contains(h, tok) {
				return true
			}
		}
		return false
	}
}

// LedgerRules is the rule table for accounting-ledger exports, in binding
// order. A header matching several roles binds to the earliest rule here.
var LedgerRules = []Rule{
	{Role: RoleKey, Match: contains("chave", "chavenfe")},
	{Role: RoleNumber, Match: equalsOrContains([]string{"numero", "numero_nota"}, []string{"nota"})},
	{Role: RoleValue, Match: contains("valor", "contabil")},
	{Role: RoleDate, Match: contains("emissao", "data")},
}

// AuthorityRules is the rule table for authority portal tables, in per-cell
// priority order.
var AuthorityRules = []Rule{
	{Role: RoleKey, Match: contains("chave")},
	{Role: RoleStatus, Match: contains("situacao")},
	{Role: RoleNumber, Match: equalsOrContains([]string{"nota"}, []string{"numero"})},
	{Role: RoleSeries, Match: contains("serie")},
	{Role: RoleIssuer, Match: func(h string) bool {
		return strings.Contains(h, "emitente") && !strings.Contains(h, "cnpj")
	}},
	{Role: RoleDate, Match: contains("data", "emissao")},
}

// ResolveByRole walks the rules in order and assigns each role the first
// still-unbound column whose normalized header matches. Used by the ledger
// extractor, where rule order decides which role claims an ambiguous header.
func ResolveByRole(headers []string, rules []Rule) map[Role]int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = Normalize(h)
	}
	bound := make(map[int]bool, len(rules))
	out := make(map[Role]int, len(rules))
	for _, rule := range rules {
		if _, done := out[rule.Role]; done {
			continue
		}
		for i, h := range normalized {
			if bound[i] || h == "" {
				continue
			}
			if rule.Match(h) {
				out[rule.Role] = i
				bound[i] = true
				break
			}
		}
	}
	return out
}

// ResolveByColumn walks the header cells left to right and assigns each cell
// the first rule that matches it; a role keeps its leftmost column. Used by
// the authority extractor, where per-cell priority decides ambiguity.
func ResolveByColumn(headers []string, rules []Rule) map[Role]int {
	out := make(map[Role]int, len(rules))
	for i, h := range headers {
		n := Normalize(h)
		if n == "" {
			continue
		}
		for _, rule := range rules {
			if !rule.Match(n) {
				continue
			}
			if _, taken := out[rule.Role]; !taken {
				out[rule.Role] = i
			}
			break
		}
	}
	return out
}
