package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dvloznov/recgen/internal/domain"
)

const accountColumns = 7

// accountRecord is one row of the account list:
// name,name,<currency>,Bank,Cash,name,<bookingSystem>
func accountRecord(name, currency string, s Settings) []string {
	return []string{name, name, currency, "Bank", "Cash", name, s.BookingSystem}
}

// WriteAccounts writes one account line per counterparty, without a header.
func WriteAccounts(w io.Writer, pop *domain.Population, s Settings) error {
	cw := csv.NewWriter(w)
	for _, c := range pop.Counterparties {
		record := accountRecord(c.Name, pop.Currency, s)
		if len(record) != accountColumns {
			return fmt.Errorf("WriteAccounts: %d columns, want %d", len(record), accountColumns)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("WriteAccounts: %s: %w", c.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAccountsFile writes cash_accounts.csv.
func (r *Renderer) WriteAccountsFile(pop *domain.Population) (string, error) {
	return r.writeFile(AccountsFileName, func(w io.Writer) error {
		return WriteAccounts(w, pop, r.settings)
	})
}
