package render

import (
	"fmt"
	"io"

	"github.com/dvloznov/recgen/internal/domain"
	"github.com/xuri/excelize/v2"
)

// LedgerSheet is the worksheet holding the ledger in the XLSX export.
const LedgerSheet = "cash_rec"

// WriteLedgerXLSX writes the ledger as a workbook: bold header row, then the
// same rows as the CSV ledger with numeric columns kept numeric.
func WriteLedgerXLSX(w io.Writer, pop *domain.Population, s Settings) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LedgerSheet); err != nil {
		return fmt.Errorf("WriteLedgerXLSX: rename sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("WriteLedgerXLSX: header style: %w", err)
	}

	sw, err := f.NewStreamWriter(LedgerSheet)
	if err != nil {
		return fmt.Errorf("WriteLedgerXLSX: stream writer: %w", err)
	}

	header := make([]interface{}, len(LedgerHeader))
	for i, h := range LedgerHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: style}); err != nil {
		return fmt.Errorf("WriteLedgerXLSX: header: %w", err)
	}

	for i, row := range LedgerRows(pop, s) {
		record := row.Record()
		cells := make([]interface{}, len(record))
		for j, v := range record {
			cells[j] = v
		}
		cells[0] = row.FlowID
		cells[6] = row.Amount
		cells[14] = row.LinkedFlowID

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("WriteLedgerXLSX: row %d: %w", i+2, err)
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("WriteLedgerXLSX: flow %d: %w", row.FlowID, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("WriteLedgerXLSX: flush: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("WriteLedgerXLSX: write: %w", err)
	}
	return nil
}

// WriteLedgerXLSXFile writes cash_rec_<DDMMYY>.xlsx.
func (r *Renderer) WriteLedgerXLSXFile(pop *domain.Population) (string, error) {
	return r.writeFile(LedgerXLSXFileName(pop.Date), func(w io.Writer) error {
		return WriteLedgerXLSX(w, pop, r.settings)
	})
}
