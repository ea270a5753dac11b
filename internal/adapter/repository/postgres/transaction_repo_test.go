package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
)

func TestTextOrNull(t *testing.T) {
	if v := textOrNull(""); v.Valid {
		t.Fatalf("empty string must map to NULL, got %+v", v)
	}
	if v := textOrNull("revolut_2024-03-01_3.50_coffee"); !v.Valid || v.String != "revolut_2024-03-01_3.50_coffee" {
		t.Fatalf("non-empty string must stay valid, got %+v", v)
	}
}

// Manual transactions carry no import fingerprint. Their import_id must be
// stored as NULL, not '', or the partial unique index on
// (budget_id, import_id) would collide on the second manual row of a budget.
func TestInsertArgs_ManualTransactionImportIDIsNull(t *testing.T) {
	txn := &domain.Transaction{
		ID:             "txn-1",
		BudgetID:       "budget-1",
		Date:           time.Now().UTC(),
		Type:           domain.TypeExpense,
		Amount:         decimal.NewFromInt(10),
		OriginalAmount: decimal.NewFromInt(10),
		Version:        1,
	}

	args := insertArgs(txn)

	importID, ok := args[13].(pgtype.Text)
	if !ok {
		t.Fatalf("import_id arg must be pgtype.Text, got %T", args[13])
	}
	if importID.Valid {
		t.Fatalf("manual transaction must insert NULL import_id, got %+v", importID)
	}
}

func TestInsertArgs_ImportedTransactionKeepsFingerprint(t *testing.T) {
	txn := &domain.Transaction{
		ID:             "txn-1",
		BudgetID:       "budget-1",
		Date:           time.Now().UTC(),
		Type:           domain.TypeExpense,
		Amount:         decimal.NewFromInt(10),
		OriginalAmount: decimal.NewFromInt(10),
		ImportID:       "revolut_2024-03-01_3.50_coffee",
		ImportSource:   "revolut",
		Version:        1,
	}

	args := insertArgs(txn)

	importID, ok := args[13].(pgtype.Text)
	if !ok {
		t.Fatalf("import_id arg must be pgtype.Text, got %T", args[13])
	}
	if !importID.Valid || importID.String != txn.ImportID {
		t.Fatalf("imported transaction must keep its fingerprint, got %+v", importID)
	}
}
