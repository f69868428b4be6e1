package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/recgen/internal/logger"
	"github.com/dvloznov/recgen/internal/metrics"
	"github.com/dvloznov/recgen/internal/population"
	"github.com/dvloznov/recgen/internal/render"
	"github.com/dvloznov/recgen/internal/validate"
)

// File kinds reported to metrics.
const (
	FileKindAccounts   = "accounts"
	FileKindLedger     = "ledger"
	FileKindStatement  = "statement"
	FileKindLedgerXLSX = "ledger_xlsx"
	FileKindSchema     = "schema"
)

// GenerateStep draws the population of the day.
type GenerateStep struct {
	Currency string
}

func (s *GenerateStep) Name() string { return metrics.PhaseGenerate }

func (s *GenerateStep) Execute(ctx context.Context, state *State) error {
	pop, err := population.NewGenerator(state.Plan, state.Rng, s.Currency).Generate(state.Date)
	if err != nil {
		return err
	}
	state.Population = pop

	log := logger.FromContext(ctx)
	log.Debug().
		Int("counterparties", len(pop.Counterparties)).
		Int64("transactions", pop.TransactionCount()).
		Msg("population generated")
	return nil
}

// WriteCSVStep writes the account list and the ledger.
type WriteCSVStep struct {
	Renderer *render.Renderer
	Metrics  metrics.Metrics
}

func (s *WriteCSVStep) Name() string { return metrics.PhaseCSV }

func (s *WriteCSVStep) Execute(ctx context.Context, state *State) error {
	accounts, err := s.Renderer.WriteAccountsFile(state.Population)
	if err != nil {
		return err
	}
	state.Files = append(state.Files, accounts)
	s.Metrics.RecordFiles(FileKindAccounts, 1)

	ledger, err := s.Renderer.WriteLedgerFile(state.Population)
	if err != nil {
		return err
	}
	state.Files = append(state.Files, ledger)
	s.Metrics.RecordFiles(FileKindLedger, 1)
	return nil
}

// WriteStatementsStep writes one statement per counterparty.
type WriteStatementsStep struct {
	Renderer *render.Renderer
	Metrics  metrics.Metrics
}

func (s *WriteStatementsStep) Name() string { return metrics.PhaseStatements }

func (s *WriteStatementsStep) Execute(ctx context.Context, state *State) error {
	paths, err := s.Renderer.WriteStatementFiles(state.Population)
	state.Files = append(state.Files, paths...)
	s.Metrics.RecordFiles(FileKindStatement, len(paths))
	return err
}

// WriteLedgerXLSXStep writes the ledger as a workbook.
type WriteLedgerXLSXStep struct {
	Renderer *render.Renderer
	Metrics  metrics.Metrics
}

func (s *WriteLedgerXLSXStep) Name() string { return metrics.PhaseXLSX }

func (s *WriteLedgerXLSXStep) Execute(ctx context.Context, state *State) error {
	path, err := s.Renderer.WriteLedgerXLSXFile(state.Population)
	if err != nil {
		return err
	}
	state.Files = append(state.Files, path)
	s.Metrics.RecordFiles(FileKindLedgerXLSX, 1)
	return nil
}

// WriteLedgerSchemaStep exports the BigQuery schema of the ledger.
type WriteLedgerSchemaStep struct {
	Renderer *render.Renderer
	Metrics  metrics.Metrics
}

func (s *WriteLedgerSchemaStep) Name() string { return metrics.PhaseSchema }

func (s *WriteLedgerSchemaStep) Execute(ctx context.Context, state *State) error {
	path, err := s.Renderer.WriteLedgerSchemaFile()
	if err != nil {
		return err
	}
	state.Files = append(state.Files, path)
	s.Metrics.RecordFiles(FileKindSchema, 1)
	return nil
}

// ValidateStep checks the population against the plan. A mismatch is
// reported, never returned as an error.
type ValidateStep struct {
	Metrics metrics.Metrics
}

func (s *ValidateStep) Name() string { return metrics.PhaseValidate }

func (s *ValidateStep) Execute(ctx context.Context, state *State) error {
	if state.Population == nil {
		return fmt.Errorf("ValidateStep: no population to validate")
	}

	report := validate.Check(state.Plan, state.Population)
	state.Report = report
	state.Validated = true

	s.Metrics.RecordPopulation(len(state.Population.Counterparties), report.PredictedVolume, report.ActualVolume)
	s.Metrics.RecordOutcome(string(report.Outcome))

	log := logger.FromContext(ctx)
	if report.Valid() {
		log.Info().Int64("transactions", report.ActualVolume).Msg(report.String())
		return nil
	}
	log.Warn().
		Str("outcome", string(report.Outcome)).
		Ints("percentages", report.Percentages).
		Ints("expected", report.Expected).
		Int64("predicted_volume", report.PredictedVolume).
		Int64("actual_volume", report.ActualVolume).
		Int("unmatched", report.Unmatched).
		Msg(report.String())
	return nil
}
