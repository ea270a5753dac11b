package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the unit of sharing. CurrentBalance is the ledger aggregate,
// always expressed in Currency (the storage currency) and mutated only by
// signed deltas inside ledger write units.
type Budget struct {
	ID             string
	Name           string
	Currency       string
	CurrentBalance decimal.Decimal
	OwnerID        string
	Collaborators  []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanWrite reports whether userID is the owner or an authorized collaborator.
// All writers have equal access to the ledger.
func (b *Budget) CanWrite(userID string) bool {
	if userID == b.OwnerID {
		return true
	}
	for _, c := range b.Collaborators {
		if c == userID {
			return true
		}
	}
	return false
}
