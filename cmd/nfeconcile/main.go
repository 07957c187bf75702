package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fiscalware/nfeconcile/internal/app"
)

// stringSlice lets a flag repeat: -authority jan.html -authority fev.html.
type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ",") }

func (s *stringSlice) Set(v string) error {
	if v = strings.TrimSpace(v); v != "" {
		*s = append(*s, v)
	}
	return nil
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		ledgerPath    string
		authority     stringSlice
		outPath       string
		pdfPath       string
		title         string
		configPath    string
		envFile       string
		authorityOnly bool
		dedup         string
		filter        string
		status        string
		sortBy        string
		sortDesc      bool
		verbose       bool
	)

	flag.StringVar(&ledgerPath, "ledger", "", "Path to the accounting-ledger spreadsheet export (.xlsx or .xls)")
	flag.Var(&authority, "authority", "Path to a SEFAZ portal HTML export; repeat for multiple exports")
	flag.StringVar(&outPath, "out", "", "Path for the CSV result (default stdout)")
	flag.StringVar(&pdfPath, "pdf", "", "Optional path for a PDF report")
	flag.StringVar(&title, "title", "", "Report title")
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&envFile, "env", ".env", "Path to a dotenv file")
	flag.BoolVar(&authorityOnly, "authority-only", false, "Audit only authority-known invoices; skip the ledger-only tail")
	flag.StringVar(&dedup, "dedup", "", "Duplicate-key policy across authority exports: first (default) or last")
	flag.StringVar(&filter, "filter", "", "Free-text filter over number, key and status text")
	flag.StringVar(&status, "status", "", "Keep only results with this classification (e.g. Matched, Cancelled)")
	flag.StringVar(&sortBy, "sort", "", "Sort results by field (chave, numero, serie, data, valor, situacao, resultado)")
	flag.BoolVar(&sortDesc, "desc", false, "Sort descending")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Warn().Err(err).Str("file", envFile).Msg("dotenv load failed; continuing")
	}

	cfg := app.Config{
		LedgerPath:     ledgerPath,
		AuthorityPaths: authority,
		OutputCSVPath:  outPath,
		OutputPDFPath:  pdfPath,
		ReportTitle:    title,
		AuthorityOnly:  authorityOnly,
		Dedup:          dedup,
		Filter:         filter,
		StatusFilter:   status,
		SortBy:         sortBy,
		SortDesc:       sortDesc,
		Verbose:        verbose,
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config error:", err)
			os.Exit(2)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg).Run(ctx); err != nil {
		log.Error().Err(err).Msg("reconciliation failed")
		os.Exit(1)
	}
}
