package domain

import "time"

// Event types
const (
	EventTypeTransactionAdded   = "transaction.added"
	EventTypeTransactionUpdated = "transaction.updated"
	EventTypeTransactionDeleted = "transaction.deleted"
	EventTypeHistoryCleared     = "budget.history_cleared"
	EventTypeStatementImported  = "budget.statement_imported"
)

// ChangeEvent notifies subscribers that a budget's ledger changed. The ledger
// publishes fire-and-forget; it does not know who is listening.
type ChangeEvent struct {
	EventType     string    `json:"event_type"`
	BudgetID      string    `json:"budget_id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
