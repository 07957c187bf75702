package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/fiscalware/nfeconcile/internal/aggregate"
	"github.com/fiscalware/nfeconcile/internal/reconcile"
	"github.com/fiscalware/nfeconcile/internal/results"
)

// Config holds runtime configuration for one reconciliation run.
type Config struct {
	LedgerPath     string
	AuthorityPaths []string

	OutputCSVPath string
	OutputPDFPath string
	ReportTitle   string

	// AuthorityOnly drops the NotFoundAtAuthority tail, auditing only what
	// the authority knows about.
	AuthorityOnly bool
	// Dedup picks the survivor when several exports carry the same key:
	// "first" or "last".
	Dedup string

	// Result-view shaping.
	Filter       string
	StatusFilter string
	SortBy       string
	SortDesc     bool

	Verbose bool
}

// ReconcileOptions derives the engine options from the config.
func (c Config) ReconcileOptions() reconcile.Options {
	return reconcile.Options{IncludeLedgerOnly: !c.AuthorityOnly}
}

// DedupPolicy parses the configured dedup name. Empty means first-wins.
func (c Config) DedupPolicy() (aggregate.DedupPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(c.Dedup)) {
	case "", "first":
		return aggregate.FirstWins, nil
	case "last":
		return aggregate.LastWins, nil
	}
	return aggregate.FirstWins, fmt.Errorf("unknown dedup policy %q (want first or last)", c.Dedup)
}

// SortField parses the configured sort column. Empty means key order.
// Portuguese and English column names are both accepted.
func (c Config) SortField() (results.SortField, error) {
	switch strings.ToLower(strings.TrimSpace(c.SortBy)) {
	case "", "chave", "key":
		return results.ByKey, nil
	case "numero", "number":
		return results.ByNumber, nil
	case "serie", "series":
		return results.BySeries, nil
	case "data", "date":
		return results.ByDate, nil
	case "valor", "value":
		return results.ByValue, nil
	case "situacao", "state":
		return results.ByStateText, nil
	case "resultado", "status":
		return results.ByStatus, nil
	}
	return results.ByKey, fmt.Errorf("unknown sort field %q", c.SortBy)
}

// Status parses the configured status filter; ok is false when unset.
func (c Config) Status() (st reconcile.Status, ok bool, err error) {
	s := strings.ToLower(strings.TrimSpace(c.StatusFilter))
	if s == "" {
		return 0, false, nil
	}
	for _, candidate := range []reconcile.Status{
		reconcile.StatusMatched,
		reconcile.StatusNotBooked,
		reconcile.StatusNotFoundAtAuthority,
		reconcile.StatusCancelled,
	} {
		if strings.ToLower(candidate.String()) == s {
			return candidate, true, nil
		}
	}
	return 0, false, fmt.Errorf("unknown status %q", c.StatusFilter)
}

// ApplyEnvToConfig fills unset fields from the environment, so wrapper
// scripts can run the tool without repeating flags.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.LedgerPath == "" {
		cfg.LedgerPath = os.Getenv("NFECONCILE_LEDGER")
	}
	if len(cfg.AuthorityPaths) == 0 {
		if v := os.Getenv("NFECONCILE_AUTHORITY"); v != "" {
			for _, p := range strings.Split(v, string(os.PathListSeparator)) {
				if p = strings.TrimSpace(p); p != "" {
					cfg.AuthorityPaths = append(cfg.AuthorityPaths, p)
				}
			}
		}
	}
	if cfg.OutputCSVPath == "" {
		cfg.OutputCSVPath = os.Getenv("NFECONCILE_OUT")
	}
	if cfg.OutputPDFPath == "" {
		cfg.OutputPDFPath = os.Getenv("NFECONCILE_PDF")
	}
	if cfg.Dedup == "" {
		cfg.Dedup = os.Getenv("NFECONCILE_DEDUP")
	}
}
