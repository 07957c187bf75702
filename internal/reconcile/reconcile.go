// Package reconcile classifies authority-known invoices against the
// accounting ledger. The authority dataset is treated as ground truth:
// every authority record yields exactly one result, in authority order,
// and a cancelled status at the authority overrides presence in the ledger.
package reconcile

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fiscalware/nfeconcile/internal/authority"
	"github.com/fiscalware/nfeconcile/internal/ledger"
)

// Status classifies one invoice after reconciliation. Closed set.
type Status int

const (
	// StatusMatched: known to the authority and booked in the ledger.
	StatusMatched Status = iota
	// StatusNotBooked: known to the authority, absent from the ledger.
	StatusNotBooked
	// StatusNotFoundAtAuthority: booked in the ledger, unknown to the
	// authority.
	StatusNotFoundAtAuthority
	// StatusCancelled: cancelled at the authority, booked or not.
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusMatched:
		return "Matched"
	case StatusNotBooked:
		return "NotBookedInLedger"
	case StatusNotFoundAtAuthority:
		return "NotFoundAtAuthority"
	case StatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// notAtAuthorityText marks ledger-only results, which have no authority
// status text of their own.
const notAtAuthorityText = "Não localizada na SEFAZ"

// Result is one reconciled invoice. Ledger and Authority point back to the
// source records; either may be nil, never both.
type Result struct {
	Key       string
	Number    string
	Series    string
	Date      string
	Value     decimal.Decimal
	StateText string
	Status    Status

	Authority *authority.Record
	Ledger    *ledger.Record
}

// Options selects between the two engine behaviors observed in the field:
// authority-driven auditing only, or the richer both-directions report that
// also surfaces ledger entries the authority has no record of.
type Options struct {
	// IncludeLedgerOnly appends a NotFoundAtAuthority result for every
	// ledger record no authority record consumed.
	IncludeLedgerOnly bool
}

// DefaultOptions enables the both-directions report.
func DefaultOptions() Options {
	return Options{IncludeLedgerOnly: true}
}

// Run reconciles the two datasets. Pure function of its inputs: identical
// input lists produce identical result lists. When several ledger records
// share a canonical key the last one in input order wins the join; earlier
// ones are shadowed by design, mirroring how re-exported ledger rows
// supersede older ones.
func Run(ledgerRecs []ledger.Record, authorityRecs []authority.Record, opts Options) []Result {
	byKey := make(map[string]*ledger.Record, len(ledgerRecs))
	for i := range ledgerRecs {
		byKey[ledgerRecs[i].Key] = &ledgerRecs[i]
	}

	results := make([]Result, 0, len(authorityRecs)+len(ledgerRecs))
	consumed := make(map[string]bool, len(authorityRecs))
	for i := range authorityRecs {
		auth := &authorityRecs[i]
		booked, ok := byKey[auth.Key]
		if ok {
			consumed[auth.Key] = true
		}

		res := Result{
			Key:       auth.Key,
			Number:    auth.Number,
			Series:    auth.Series,
			Date:      auth.Date,
			StateText: auth.Status,
			Authority: auth,
		}
		switch {
		case strings.Contains(strings.ToLower(auth.Status), "cancelada"):
			res.Status = StatusCancelled
		case ok:
			res.Status = StatusMatched
		default:
			res.Status = StatusNotBooked
		}
		if ok {
			res.Value = booked.Value
			res.Ledger = booked
		}
		results = append(results, res)
	}

	if opts.IncludeLedgerOnly {
		for i := range ledgerRecs {
			rec := &ledgerRecs[i]
			if consumed[rec.Key] {
				continue
			}
			results = append(results, Result{
				Key:       rec.Key,
				Number:    rec.Number,
				Date:      rec.Date,
				Value:     rec.Value,
				StateText: notAtAuthorityText,
				Status:    StatusNotFoundAtAuthority,
				Ledger:    rec,
			})
		}
	}

	log.Debug().
		Int("ledger", len(ledgerRecs)).
		Int("authority", len(authorityRecs)).
		Int("results", len(results)).
		Msg("reconciliation complete")
	return results
}
