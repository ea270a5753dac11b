package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StateCompleted is the only row state that represents a finalized
// transaction. Pending and reverted rows are discarded during parsing.
const StateCompleted = "COMPLETED"

// Row is one raw line of an external statement export.
type Row struct {
	CompletedDate string
	Description   string
	Amount        decimal.Decimal
	Currency      string
	State         string
}

// columns the parser requires, matched case-insensitively against the header.
var requiredColumns = []string{"Completed Date", "Description", "Amount", "Currency", "State"}

// Parse reads a delimited statement export and returns only the rows whose
// state marks them as completed. Malformed lines are skipped, not fatal; a
// statement with a broken line is still worth importing.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading statement header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(record) <= index.max() {
			continue
		}

		state := strings.ToUpper(strings.TrimSpace(record[index.state]))
		if state != StateCompleted {
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(record[index.amount]))
		if err != nil {
			continue
		}

		rows = append(rows, Row{
			CompletedDate: strings.TrimSpace(record[index.date]),
			Description:   strings.TrimSpace(record[index.description]),
			Amount:        amount,
			Currency:      strings.ToUpper(strings.TrimSpace(record[index.currency])),
			State:         state,
		})
	}

	return rows, nil
}

type columns struct {
	date        int
	description int
	amount      int
	currency    int
	state       int
}

func (c columns) max() int {
	m := c.date
	for _, i := range []int{c.description, c.amount, c.currency, c.state} {
		if i > m {
			m = i
		}
	}
	return m
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := pos[strings.ToLower(name)]; !ok {
			return columns{}, fmt.Errorf("statement is missing column %q", name)
		}
	}

	return columns{
		date:        pos["completed date"],
		description: pos["description"],
		amount:      pos["amount"],
		currency:    pos["currency"],
		state:       pos["state"],
	}, nil
}

// dateLayouts accepted for the completed-date column.
var dateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// NormalizeDate canonicalizes a statement date to YYYY-MM-DD. Time-of-day,
// when present, is dropped; only calendar ordering matters to the ledger.
func NormalizeDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized statement date %q", raw)
}
