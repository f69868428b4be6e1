package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/recgen/internal/domain"
)

// Ledger literals.
const (
	StatusSentToRec   = "SentToRec"
	TypeOutright      = "Outright"
	DownstreamRelease = "Released"
	PayReceiveReceive = "R"
	PayReceivePay     = "P"
)

// LedgerHeader names the fifteen reconciliation columns in file order.
var LedgerHeader = []string{
	"flowId", "status", "account", "currency", "vdate", "rdate", "amount", "PR",
	"type", "legEntity", "counterparty", "dfStatus", "cntOrigin", "dfRev", "recFlowId",
}

// LedgerRow is one (counterparty, transaction) line of the reconciliation
// ledger. The bigquery tags describe the table the ledger loads into.
type LedgerRow struct {
	FlowID           int64      `bigquery:"flow_id"`
	Status           string     `bigquery:"status"`
	Account          string     `bigquery:"account"`
	Currency         string     `bigquery:"currency"`
	ValueDate        civil.Date `bigquery:"value_date"`
	RecordDate       civil.Date `bigquery:"record_date"`
	Amount           int64      `bigquery:"amount"` // absolute value
	PayReceive       string     `bigquery:"pay_receive"`
	Type             string     `bigquery:"type"`
	BookingEntity    string     `bigquery:"booking_entity"`
	Counterparty     string     `bigquery:"counterparty"` // legal name
	DownstreamStatus string     `bigquery:"downstream_status"`
	Origin           string     `bigquery:"counterparty_origin"`
	Reversal         string     `bigquery:"reversal"`
	LinkedFlowID     int64      `bigquery:"linked_flow_id"`
}

// NewLedgerRow builds the ledger line of tx owned by account.
func NewLedgerRow(account, currency string, date civil.Date, tx domain.Transaction, s Settings) LedgerRow {
	pr := PayReceivePay
	if tx.Receivable() {
		pr = PayReceiveReceive
	}
	return LedgerRow{
		FlowID:           tx.FlowID,
		Status:           StatusSentToRec,
		Account:          account,
		Currency:         currency,
		ValueDate:        date,
		RecordDate:       date,
		Amount:           tx.Magnitude(),
		PayReceive:       pr,
		Type:             TypeOutright,
		BookingEntity:    s.BookingSystem,
		Counterparty:     s.LegalEntity,
		DownstreamStatus: DownstreamRelease,
		Origin:           account,
		Reversal:         "",
		LinkedFlowID:     tx.FlowID,
	}
}

// Record renders the row in LedgerHeader order. Dates are DD/MM/YY.
func (r LedgerRow) Record() []string {
	return []string{
		strconv.FormatInt(r.FlowID, 10),
		r.Status,
		r.Account,
		r.Currency,
		formatDate(r.ValueDate, "02/01/06"),
		formatDate(r.RecordDate, "02/01/06"),
		strconv.FormatInt(r.Amount, 10),
		r.PayReceive,
		r.Type,
		r.BookingEntity,
		r.Counterparty,
		r.DownstreamStatus,
		r.Origin,
		r.Reversal,
		strconv.FormatInt(r.LinkedFlowID, 10),
	}
}

// LedgerRows flattens the population into ledger rows, counterparty by
// counterparty, in generation order.
func LedgerRows(pop *domain.Population, s Settings) []LedgerRow {
	rows := make([]LedgerRow, 0, pop.TransactionCount())
	for _, c := range pop.Counterparties {
		for _, tx := range c.Transactions {
			rows = append(rows, NewLedgerRow(c.Name, pop.Currency, pop.Date, tx, s))
		}
	}
	return rows
}

// WriteLedger writes the header and one line per transaction.
func WriteLedger(w io.Writer, pop *domain.Population, s Settings) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LedgerHeader); err != nil {
		return fmt.Errorf("WriteLedger: header: %w", err)
	}
	for _, row := range LedgerRows(pop, s) {
		record := row.Record()
		if len(record) != len(LedgerHeader) {
			return fmt.Errorf("WriteLedger: flow %d has %d columns, want %d", row.FlowID, len(record), len(LedgerHeader))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("WriteLedger: flow %d: %w", row.FlowID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLedgerFile writes cash_rec_<DDMMYY>.csv.
func (r *Renderer) WriteLedgerFile(pop *domain.Population) (string, error) {
	return r.writeFile(LedgerFileName(pop.Date), func(w io.Writer) error {
		return WriteLedger(w, pop, r.settings)
	})
}
