package app

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/fiscalware/nfeconcile/internal/aggregate"
	"github.com/fiscalware/nfeconcile/internal/authority"
	"github.com/fiscalware/nfeconcile/internal/input"
	"github.com/fiscalware/nfeconcile/internal/ledger"
	"github.com/fiscalware/nfeconcile/internal/reconcile"
	"github.com/fiscalware/nfeconcile/internal/report"
	"github.com/fiscalware/nfeconcile/internal/results"
)

// App wires extraction, aggregation, reconciliation and output for one run.
type App struct {
	cfg Config
}

func New(cfg Config) *App {
	return &App{cfg: cfg}
}

// Run executes the full reconciliation: load and extract both datasets,
// merge the authority exports, reconcile, shape the view, and write the
// outputs. Extraction failures abort the run; the caller asks the user for
// a corrected document rather than recovering partially.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.LedgerPath == "" {
		return fmt.Errorf("no ledger document given")
	}
	if len(a.cfg.AuthorityPaths) == 0 {
		return fmt.Errorf("no authority export given")
	}

	ledgerBytes, err := input.ReadLedger(a.cfg.LedgerPath)
	if err != nil {
		return err
	}
	ledgerRecs, err := ledger.Extract(ledgerBytes)
	if err != nil {
		return err
	}
	log.Info().Str("file", a.cfg.LedgerPath).Int("records", len(ledgerRecs)).Msg("ledger loaded")

	groups := make([][]authority.Record, 0, len(a.cfg.AuthorityPaths))
	for _, path := range a.cfg.AuthorityPaths {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := input.ReadAuthority(path)
		if err != nil {
			return err
		}
		recs, err := authority.Extract(page)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Info().Str("file", path).Int("records", len(recs)).Msg("authority export loaded")
		groups = append(groups, recs)
	}

	policy, err := a.cfg.DedupPolicy()
	if err != nil {
		return err
	}
	authorityRecs := aggregate.Merge(groups, policy)

	resultSet := reconcile.Run(ledgerRecs, authorityRecs, a.cfg.ReconcileOptions())
	logSummary(resultSet)

	view, err := a.shapeView(resultSet)
	if err != nil {
		return err
	}

	if err := a.writeCSV(view); err != nil {
		return err
	}
	if a.cfg.OutputPDFPath != "" {
		title := a.cfg.ReportTitle
		if title == "" {
			title = "Conciliação de NFe"
		}
		if err := report.WritePDF(view, title, a.cfg.OutputPDFPath); err != nil {
			return err
		}
		log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote PDF report")
	}
	return nil
}

// shapeView applies the configured filters and sort order.
func (a *App) shapeView(in []reconcile.Result) ([]reconcile.Result, error) {
	out := results.Filter(in, a.cfg.Filter)
	if status, ok, err := a.cfg.Status(); err != nil {
		return nil, err
	} else if ok {
		out = results.FilterStatus(out, status)
	}
	field, err := a.cfg.SortField()
	if err != nil {
		return nil, err
	}
	if a.cfg.SortBy != "" {
		out = results.Sort(out, field, a.cfg.SortDesc)
	}
	return out, nil
}

func (a *App) writeCSV(view []reconcile.Result) error {
	if a.cfg.OutputCSVPath == "" || a.cfg.OutputCSVPath == "-" {
		return report.WriteCSV(view, os.Stdout)
	}
	f, err := os.Create(a.cfg.OutputCSVPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := report.WriteCSV(view, f); err != nil {
		f.Close()
		return err
	}
	log.Info().Str("out", a.cfg.OutputCSVPath).Int("rows", len(view)).Msg("wrote CSV output")
	return f.Close()
}

func logSummary(resultSet []reconcile.Result) {
	counts := map[reconcile.Status]int{}
	for _, r := range resultSet {
		counts[r.Status]++
	}
	log.Info().
		Int("matched", counts[reconcile.StatusMatched]).
		Int("notBooked", counts[reconcile.StatusNotBooked]).
		Int("cancelled", counts[reconcile.StatusCancelled]).
		Int("notAtAuthority", counts[reconcile.StatusNotFoundAtAuthority]).
		Msg("reconciliation summary")
}
