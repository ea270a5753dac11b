package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
)

// LedgerUseCase owns the balance aggregate. Every mutation writes the
// transaction record and adjusts the budget balance inside one storage
// transaction; no caller may touch the aggregate outside these units.
type LedgerUseCase struct {
	txManager     TransactionManager
	budgetRepo    BudgetRepository
	txnRepo       TransactionRepository
	resolver      RateResolver
	idGen         IDGenerator
	retrier       Retrier
	confirmations ConfirmationStore
	events        EventBus
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewLedgerUseCase creates a new LedgerUseCase. metrics may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	budgetRepo BudgetRepository,
	txnRepo TransactionRepository,
	resolver RateResolver,
	idGen IDGenerator,
	retrier Retrier,
	confirmations ConfirmationStore,
	events EventBus,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:     txManager,
		budgetRepo:    budgetRepo,
		txnRepo:       txnRepo,
		resolver:      resolver,
		idGen:         idGen,
		retrier:       retrier,
		confirmations: confirmations,
		events:        events,
		metrics:       m,
		logger:        logger,
	}
}

// AddTransactionInput represents input for adding a transaction.
type AddTransactionInput struct {
	BudgetID         string
	UserID           string
	UserName         string
	Date             time.Time
	Type             domain.TransactionType
	OriginalAmount   decimal.Decimal
	OriginalCurrency string
	CategoryID       string
	Description      string
	IsHidden         bool
	IsRecurring      bool
}

// AddTransaction prices the entered amount into the budget's storage currency
// and atomically writes the record together with the balance delta. A rate
// failure aborts the whole operation; no partial write can happen.
func (uc *LedgerUseCase) AddTransaction(ctx context.Context, input AddTransactionInput) (*domain.Transaction, error) {
	if input.BudgetID == "" || input.UserID == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if err := domain.ValidateAmount(input.OriginalAmount.Abs()); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	budget, err := uc.authorize(ctx, input.BudgetID, input.UserID)
	if err != nil {
		return nil, err
	}

	rate, err := uc.resolver.Resolve(ctx, input.OriginalCurrency, budget.Currency, false)
	if err != nil {
		return nil, fmt.Errorf("pricing transaction: %w", err)
	}

	now := time.Now().UTC()
	original := input.OriginalAmount.Abs()

	date := input.Date
	if date.IsZero() {
		date = now
	}

	txn := &domain.Transaction{
		ID:               uc.idGen.Generate(),
		BudgetID:         input.BudgetID,
		Date:             date,
		Type:             input.Type,
		Amount:           original.Mul(rate),
		OriginalAmount:   original,
		OriginalCurrency: domain.NormalizeCurrency(input.OriginalCurrency),
		CategoryID:       input.CategoryID,
		Description:      input.Description,
		UserID:           input.UserID,
		UserName:         input.UserName,
		IsHidden:         input.IsHidden,
		IsRecurring:      input.IsRecurring,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if txn.CategoryID == "" {
		txn.CategoryID = domain.DefaultCategoryID
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
			return err
		}
		if err := uc.budgetRepo.ApplyBalanceDelta(ctx, tx, budget.ID, txn.SignedImpact(), now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.LedgerErrors.WithLabelValues("add").Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsAdded.Inc()
	}
	uc.publish(ctx, domain.EventTypeTransactionAdded, budget.ID, txn.ID, input.UserID)

	return txn, nil
}

// UpdateTransactionInput represents input for editing a transaction.
type UpdateTransactionInput struct {
	BudgetID         string
	TransactionID    string
	UserID           string
	Date             time.Time
	Type             domain.TransactionType
	OriginalAmount   decimal.Decimal
	OriginalCurrency string
	CategoryID       string
	Description      string
	IsHidden         bool
	IsRecurring      bool
}

// UpdateTransaction re-prices the record with a fresh rate and moves the
// aggregate by exactly newImpact minus oldImpact. The read, the row update
// and the delta land in one storage transaction; a conflicting concurrent
// editor causes the whole read-compute-write cycle to be retried.
func (uc *LedgerUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	if input.BudgetID == "" || input.TransactionID == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if err := domain.ValidateAmount(input.OriginalAmount.Abs()); err != nil {
		return nil, err
	}

	budget, err := uc.authorize(ctx, input.BudgetID, input.UserID)
	if err != nil {
		return nil, err
	}

	epsilon, _ := decimal.NewFromString(BalanceEpsilon)

	var updated *domain.Transaction
	for attempt := 0; attempt < MaxConflictRetries; attempt++ {
		updated, err = uc.updateOnce(ctx, budget, input, epsilon)
		if err == nil {
			if uc.metrics != nil {
				uc.metrics.TransactionsUpdated.Inc()
			}
			uc.publish(ctx, domain.EventTypeTransactionUpdated, budget.ID, input.TransactionID, input.UserID)
			return updated, nil
		}
		if !errors.Is(err, errVersionConflict) {
			return nil, err
		}
		if uc.metrics != nil {
			uc.metrics.LedgerConflicts.Inc()
		}
		uc.logger.Warn().
			Str("budget_id", input.BudgetID).
			Str("transaction_id", input.TransactionID).
			Int("attempt", attempt+1).
			Msg("conflicting edit, retrying")
	}

	return nil, domain.ErrConcurrentModification
}

// errVersionConflict signals a lost optimistic write inside updateOnce.
var errVersionConflict = errors.New("transaction version conflict")

func (uc *LedgerUseCase) updateOnce(
	ctx context.Context,
	budget *domain.Budget,
	input UpdateTransactionInput,
	epsilon decimal.Decimal,
) (*domain.Transaction, error) {
	var result *domain.Transaction

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		current, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, input.BudgetID, input.TransactionID)
		if err != nil {
			return err
		}

		oldImpact := current.SignedImpact()

		rate, err := uc.resolver.Resolve(ctx, input.OriginalCurrency, budget.Currency, false)
		if err != nil {
			return fmt.Errorf("re-pricing transaction: %w", err)
		}

		now := time.Now().UTC()
		original := input.OriginalAmount.Abs()

		next := *current
		if !input.Date.IsZero() {
			next.Date = input.Date
		}
		next.Type = input.Type
		next.Amount = original.Mul(rate)
		next.OriginalAmount = original
		next.OriginalCurrency = domain.NormalizeCurrency(input.OriginalCurrency)
		next.CategoryID = input.CategoryID
		next.Description = input.Description
		next.IsHidden = input.IsHidden
		next.IsRecurring = input.IsRecurring
		next.Version = current.Version + 1
		next.UpdatedAt = now
		if next.CategoryID == "" {
			next.CategoryID = domain.DefaultCategoryID
		}
		if err := next.Validate(); err != nil {
			return err
		}

		rows, err := uc.txnRepo.Update(ctx, tx, &next)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errVersionConflict
		}

		diff := next.SignedImpact().Sub(oldImpact)
		if diff.Abs().GreaterThanOrEqual(epsilon) {
			if err := uc.budgetRepo.ApplyBalanceDelta(ctx, tx, budget.ID, diff, now); err != nil {
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteTransaction removes the record and reverses its balance impact in
// one storage transaction. A vanished target surfaces ErrTransactionNotFound.
func (uc *LedgerUseCase) DeleteTransaction(ctx context.Context, budgetID, id, userID string) error {
	if budgetID == "" || id == "" {
		return domain.ErrMissingIdentifier
	}

	budget, err := uc.authorize(ctx, budgetID, userID)
	if err != nil {
		return err
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		current, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, budgetID, id)
		if err != nil {
			return err
		}

		if err := uc.txnRepo.Delete(ctx, tx, budgetID, id); err != nil {
			return err
		}
		if err := uc.budgetRepo.ApplyBalanceDelta(ctx, tx, budget.ID, current.SignedImpact().Neg(), time.Now().UTC()); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		if uc.metrics != nil && !errors.Is(err, domain.ErrTransactionNotFound) {
			uc.metrics.LedgerErrors.WithLabelValues("delete").Inc()
		}
		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsDeleted.Inc()
	}
	uc.publish(ctx, domain.EventTypeTransactionDeleted, budgetID, id, userID)

	return nil
}

// pendingDelete is the payload behind a delete confirmation token.
type pendingDelete struct {
	BudgetID      string `json:"budget_id"`
	TransactionID string `json:"transaction_id"`
	UserID        string `json:"user_id"`
}

// RequestDelete verifies the target exists and returns an opaque token the
// caller must present to ConfirmDelete. The token expires after
// DeleteConfirmationTTL; nothing is deleted until confirmation.
func (uc *LedgerUseCase) RequestDelete(ctx context.Context, budgetID, id, userID string) (string, error) {
	if budgetID == "" || id == "" {
		return "", domain.ErrMissingIdentifier
	}

	if _, err := uc.authorize(ctx, budgetID, userID); err != nil {
		return "", err
	}
	if _, err := uc.txnRepo.GetByID(ctx, budgetID, id); err != nil {
		return "", err
	}

	payload, err := json.Marshal(pendingDelete{
		BudgetID:      budgetID,
		TransactionID: id,
		UserID:        userID,
	})
	if err != nil {
		return "", err
	}

	token := uc.idGen.Generate()
	if err := uc.confirmations.Put(ctx, token, payload, DeleteConfirmationTTL); err != nil {
		return "", err
	}

	return token, nil
}

// ConfirmDelete consumes a confirmation token and performs the delete.
func (uc *LedgerUseCase) ConfirmDelete(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrMissingIdentifier
	}

	payload, err := uc.confirmations.Take(ctx, token)
	if err != nil {
		return err
	}
	if payload == nil {
		return domain.ErrConfirmationExpired
	}

	var pending pendingDelete
	if err := json.Unmarshal(payload, &pending); err != nil {
		return err
	}

	return uc.DeleteTransaction(ctx, pending.BudgetID, pending.TransactionID, pending.UserID)
}

// RecalculateBalance recomputes the aggregate from the live records and
// overwrites it. This is the explicit repair path for suspected drift; it is
// never scheduled.
func (uc *LedgerUseCase) RecalculateBalance(ctx context.Context, budgetID string) (decimal.Decimal, error) {
	if budgetID == "" {
		return decimal.Zero, domain.ErrMissingIdentifier
	}

	if _, err := uc.budgetRepo.GetByID(ctx, budgetID); err != nil {
		return decimal.Zero, err
	}

	sum, err := uc.txnRepo.SumSignedAmounts(ctx, budgetID)
	if err != nil {
		return decimal.Zero, err
	}

	if err := uc.budgetRepo.SetBalance(ctx, budgetID, sum, time.Now().UTC()); err != nil {
		return decimal.Zero, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceRecalcs.Inc()
	}

	return sum, nil
}

// ClearHistory deletes every transaction of a budget in size-bounded batches
// and resets the aggregate once all batches are gone. Best effort: an
// interruption can leave the aggregate stale, which RecalculateBalance
// repairs.
func (uc *LedgerUseCase) ClearHistory(ctx context.Context, budgetID, userID string) error {
	if budgetID == "" {
		return domain.ErrMissingIdentifier
	}

	if _, err := uc.authorize(ctx, budgetID, userID); err != nil {
		return err
	}

	for {
		deleted, err := uc.txnRepo.DeleteBatchByBudget(ctx, budgetID, ClearHistoryBatchSize)
		if err != nil {
			return fmt.Errorf("clearing history, run RecalculateBalance to repair: %w", err)
		}
		if deleted == 0 {
			break
		}
	}

	if err := uc.budgetRepo.SetBalance(ctx, budgetID, decimal.Zero, time.Now().UTC()); err != nil {
		return fmt.Errorf("resetting balance, run RecalculateBalance to repair: %w", err)
	}

	uc.publish(ctx, domain.EventTypeHistoryCleared, budgetID, "", userID)

	return nil
}

// GetTransaction retrieves a single ledger record.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, budgetID, id string) (*domain.Transaction, error) {
	if budgetID == "" || id == "" {
		return nil, domain.ErrMissingIdentifier
	}
	return uc.txnRepo.GetByID(ctx, budgetID, id)
}

func (uc *LedgerUseCase) authorize(ctx context.Context, budgetID, userID string) (*domain.Budget, error) {
	budget, err := uc.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if userID != "" && !budget.CanWrite(userID) {
		return nil, domain.ErrNotAuthorized
	}
	return budget, nil
}

// publish is fire-and-forget; a dead bus never fails a ledger write.
func (uc *LedgerUseCase) publish(ctx context.Context, eventType, budgetID, txnID, userID string) {
	if uc.events == nil {
		return
	}
	event := domain.ChangeEvent{
		EventType:     eventType,
		BudgetID:      budgetID,
		TransactionID: txnID,
		UserID:        userID,
		OccurredAt:    time.Now().UTC(),
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		uc.logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish change event")
	}
}
