// Package render turns a generated population into the account list, the
// reconciliation ledger and the MT940-like statements. Every renderer is a
// pure function of the population; the Renderer type only adds file handling.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
)

// Settings are the fixed literals stamped into every output format.
type Settings struct {
	BookingSystem      string // e.g. MUREX
	LegalEntity        string // counterparty legal name in the ledger
	StatementReference string // MT940 :20: field
}

// DefaultSettings mirror the files the reconciliation platform expects.
func DefaultSettings() Settings {
	return Settings{
		BookingSystem:      "MUREX",
		LegalEntity:        "BARCLAYS BANK PLC",
		StatementReference: "9400120142730122",
	}
}

// AccountsFileName is shared by every day of a run and overwritten each day.
const AccountsFileName = "cash_accounts.csv"

// LedgerSchemaFileName holds the BigQuery schema of the ledger rows.
const LedgerSchemaFileName = "cash_rec_schema.json"

// LedgerFileName is cash_rec_<DDMMYY>.csv.
func LedgerFileName(date civil.Date) string {
	return "cash_rec_" + formatDate(date, "020106") + ".csv"
}

// LedgerXLSXFileName is cash_rec_<DDMMYY>.xlsx.
func LedgerXLSXFileName(date civil.Date) string {
	return "cash_rec_" + formatDate(date, "020106") + ".xlsx"
}

// StatementFileName is MT940-<counterparty>-<YYMMDD>.txt.
func StatementFileName(counterparty string, date civil.Date) string {
	return "MT940-" + counterparty + "-" + formatDate(date, "060102") + ".txt"
}

func formatDate(date civil.Date, layout string) string {
	return date.In(time.UTC).Format(layout)
}

// Renderer writes the outputs of a population into a directory.
type Renderer struct {
	dir      string
	settings Settings
}

// NewRenderer returns a renderer writing into dir.
func NewRenderer(dir string, settings Settings) *Renderer {
	return &Renderer{dir: dir, settings: settings}
}

// writeFile creates or truncates name inside the output directory, streams
// the rendered content and closes the file. Close errors are reported.
func (r *Renderer) writeFile(name string, render func(io.Writer) error) (path string, err error) {
	path = filepath.Join(r.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("writeFile: create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("writeFile: close %q: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := render(w); err != nil {
		return "", fmt.Errorf("writeFile: render %q: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("writeFile: flush %q: %w", path, err)
	}
	return path, nil
}
