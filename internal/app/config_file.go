package app

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally to the flags.
type FileConfig struct {
	Ledger    string   `yaml:"ledger"`
	Authority []string `yaml:"authority"`

	Out struct {
		CSV   string `yaml:"csv"`
		PDF   string `yaml:"pdf"`
		Title string `yaml:"title"`
	} `yaml:"out"`

	AuthorityOnly bool   `yaml:"authorityOnly"`
	Dedup         string `yaml:"dedup"`

	View struct {
		Filter string `yaml:"filter"`
		Status string `yaml:"status"`
		Sort   string `yaml:"sort"`
		Desc   bool   `yaml:"desc"`
	} `yaml:"view"`

	Verbose bool `yaml:"verbose"`
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config: %w", err)
	}
	return fc, nil
}

// ApplyFileConfig overlays file values into cfg for fields the flags left
// unset, so explicit flags always win over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.LedgerPath == "" && fc.Ledger != "" {
		cfg.LedgerPath = fc.Ledger
	}
	if len(cfg.AuthorityPaths) == 0 && len(fc.Authority) > 0 {
		cfg.AuthorityPaths = append([]string{}, fc.Authority...)
	}
	if cfg.OutputCSVPath == "" && fc.Out.CSV != "" {
		cfg.OutputCSVPath = fc.Out.CSV
	}
	if cfg.OutputPDFPath == "" && fc.Out.PDF != "" {
		cfg.OutputPDFPath = fc.Out.PDF
	}
	if cfg.ReportTitle == "" && fc.Out.Title != "" {
		cfg.ReportTitle = fc.Out.Title
	}
	if !cfg.AuthorityOnly && fc.AuthorityOnly {
		cfg.AuthorityOnly = true
	}
	if cfg.Dedup == "" && fc.Dedup != "" {
		cfg.Dedup = fc.Dedup
	}
	if cfg.Filter == "" && fc.View.Filter != "" {
		cfg.Filter = fc.View.Filter
	}
	if cfg.StatusFilter == "" && fc.View.Status != "" {
		cfg.StatusFilter = fc.View.Status
	}
	if cfg.SortBy == "" && fc.View.Sort != "" {
		cfg.SortBy = fc.View.Sort
	}
	if !cfg.SortDesc && fc.View.Desc {
		cfg.SortDesc = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
