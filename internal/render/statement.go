package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dvloznov/recgen/internal/domain"
	"github.com/shopspring/decimal"
)

// MT940 tags emitted inside block 4, in order.
const (
	TagReference        = "20"
	TagRelatedReference = "21"
	TagAccount          = "25"
	TagStatementNumber  = "28C"
	TagOpeningBalance   = "60F"
	TagStatementLine    = "61"
	TagClosingBalance   = "62F"
)

// Narrative follows every :61: line.
const Narrative = "Spot and Fees"

var statementTags = map[string]bool{
	TagReference:        true,
	TagRelatedReference: true,
	TagAccount:          true,
	TagStatementNumber:  true,
	TagOpeningBalance:   true,
	TagStatementLine:    true,
	TagClosingBalance:   true,
}

var errUnknownTag = errors.New("unknown statement tag")

// statementBuilder assembles a statement field by field and remembers the
// first error.
type statementBuilder struct {
	sb  strings.Builder
	err error
}

func (b *statementBuilder) raw(s string) {
	if b.err == nil {
		b.sb.WriteString(s)
	}
}

func (b *statementBuilder) field(tag string, parts ...string) {
	if b.err != nil {
		return
	}
	if !statementTags[tag] {
		b.err = fmt.Errorf("field %q: %w", tag, errUnknownTag)
		return
	}
	b.sb.WriteString(":" + tag + ":")
	for _, p := range parts {
		b.sb.WriteString(p)
	}
	b.sb.WriteByte('\n')
}

// amount renders an integer amount with two decimals and a comma separator.
func amount(v int64) string {
	return strings.Replace(decimal.NewFromInt(v).StringFixed(2), ".", ",", 1)
}

func debitCredit(tx domain.Transaction) string {
	if tx.Receivable() {
		return "C"
	}
	return "D"
}

// Statement renders the MT940-like message of one counterparty. The closing
// balance is the signed sum of its transactions.
func Statement(pop *domain.Population, c domain.Counterparty, s Settings) (string, error) {
	yymmdd := formatDate(pop.Date, "060102")
	mmdd := formatDate(pop.Date, "0102")

	b := &statementBuilder{}
	b.raw("{1:F01            0000000000}")
	b.raw("{2:O9400000" + yymmdd + "            0000000000" + yymmdd + "0545N}")
	b.raw("{4:\n")

	b.field(TagReference, s.StatementReference)
	b.field(TagRelatedReference, "20", yymmdd, "000000")
	b.field(TagAccount, c.Name)
	b.field(TagStatementNumber, "1/1")
	b.field(TagOpeningBalance, "C", yymmdd, pop.Currency, amount(0))

	for _, tx := range c.Transactions {
		// value date, entry date, mark, funds code, amount, type, reference
		b.field(TagStatementLine, yymmdd, mmdd, debitCredit(tx), "D", amount(tx.Magnitude()), "NTRF", strconv.FormatInt(tx.FlowID, 10))
		b.raw(Narrative + "\n")
	}

	b.field(TagClosingBalance, "C", yymmdd, pop.Currency, amount(c.Balance()))
	b.raw("-}")

	if b.err != nil {
		return "", fmt.Errorf("Statement: %s: %w", c.Name, b.err)
	}
	return b.sb.String(), nil
}

// WriteStatement writes the statement of c to w.
func WriteStatement(w io.Writer, pop *domain.Population, c domain.Counterparty, s Settings) error {
	msg, err := Statement(pop, c, s)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, msg); err != nil {
		return fmt.Errorf("WriteStatement: %s: %w", c.Name, err)
	}
	return nil
}

// WriteStatementFiles writes one MT940-<name>-<YYMMDD>.txt per counterparty
// and returns the paths in generation order.
func (r *Renderer) WriteStatementFiles(pop *domain.Population) ([]string, error) {
	paths := make([]string, 0, len(pop.Counterparties))
	for _, c := range pop.Counterparties {
		path, err := r.writeFile(StatementFileName(c.Name, pop.Date), func(w io.Writer) error {
			return WriteStatement(w, pop, c, r.settings)
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
