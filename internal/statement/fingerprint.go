package statement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

// Candidate is a normalized statement row ready for deduplication and commit.
type Candidate struct {
	Row         Row
	Date        string // YYYY-MM-DD
	Type        domain.TransactionType
	Amount      decimal.Decimal // absolute magnitude, original currency
	Fingerprint string
}

// Fingerprint builds the deterministic dedup key for a statement row:
// source, canonical date, absolute amount at two decimals, and the
// lower-cased underscore-joined description. Two exports of the same row
// always produce the same key.
func Fingerprint(source, date string, amount decimal.Decimal, description string) string {
	desc := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(description))), "_")
	return fmt.Sprintf("%s_%s_%s_%s", source, date, amount.Abs().StringFixed(2), desc)
}

// Normalize turns raw rows into candidates: the transaction type comes from
// the amount's sign (negative spends, non-negative earns), the magnitude is
// taken absolute, and the date collapses to a calendar day. Rows whose date
// cannot be parsed are dropped.
func Normalize(source string, rows []Row) []Candidate {
	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		date, err := NormalizeDate(row.CompletedDate)
		if err != nil {
			continue
		}

		txnType := domain.TypeIncome
		if row.Amount.IsNegative() {
			txnType = domain.TypeExpense
		}

		dateStr := date.Format("2006-01-02")
		candidates = append(candidates, Candidate{
			Row:         row,
			Date:        dateStr,
			Type:        txnType,
			Amount:      row.Amount.Abs(),
			Fingerprint: Fingerprint(source, dateStr, row.Amount, row.Description),
		})
	}

	return candidates
}
