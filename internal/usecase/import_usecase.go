package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
	"github.com/finbook/finbook/internal/statement"
)

// ImportUseCase ingests external statements: parse, normalize, deduplicate
// by fingerprint, commit in bounded batches, then move the aggregate once.
type ImportUseCase struct {
	txManager  TransactionManager
	budgetRepo BudgetRepository
	txnRepo    TransactionRepository
	resolver   RateResolver
	idGen      IDGenerator
	retrier    Retrier
	rules      *statement.RuleSet
	events     EventBus
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewImportUseCase creates a new ImportUseCase. rules may be nil, in which
// case every uncategorized row falls back to "other".
func NewImportUseCase(
	txManager TransactionManager,
	budgetRepo BudgetRepository,
	txnRepo TransactionRepository,
	resolver RateResolver,
	idGen IDGenerator,
	retrier Retrier,
	rules *statement.RuleSet,
	events EventBus,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		txManager:  txManager,
		budgetRepo: budgetRepo,
		txnRepo:    txnRepo,
		resolver:   resolver,
		idGen:      idGen,
		retrier:    retrier,
		rules:      rules,
		events:     events,
		metrics:    m,
		logger:     logger,
	}
}

// ImportInput represents input for a statement import.
type ImportInput struct {
	BudgetID string
	UserID   string
	UserName string
	Source   string
	Reader   io.Reader
}

// ImportResult summarizes what the pipeline did. Skipped rows are duplicates
// of already-imported records, a normal outcome rather than an error.
type ImportResult struct {
	RunID    string `json:"run_id"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// ImportStatement runs the whole pipeline. Per-row rate failures degrade to
// a 1:1 rate with a logged warning rather than aborting the batch; a partial
// import the user can review beats discarding the file.
func (uc *ImportUseCase) ImportStatement(ctx context.Context, input ImportInput) (*ImportResult, error) {
	if input.BudgetID == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if input.Source == "" {
		input.Source = "statement"
	}
	started := time.Now()

	budget, err := uc.budgetRepo.GetByID(ctx, input.BudgetID)
	if err != nil {
		return nil, err
	}
	if input.UserID != "" && !budget.CanWrite(input.UserID) {
		return nil, domain.ErrNotAuthorized
	}

	rows, err := statement.Parse(input.Reader)
	if err != nil {
		return nil, err
	}

	candidates := statement.Normalize(input.Source, rows)

	runID := uuid.NewString()
	result := &ImportResult{RunID: runID}

	fresh, skipped, err := uc.dedupe(ctx, input.BudgetID, candidates)
	if err != nil {
		return nil, err
	}
	result.Skipped = skipped

	txns, totalDelta := uc.buildTransactions(ctx, budget, input, fresh)

	for start := 0; start < len(txns); start += ImportBatchSize {
		end := start + ImportBatchSize
		if end > len(txns) {
			end = len(txns)
		}
		if err := uc.commitBatch(ctx, txns[start:end]); err != nil {
			return nil, fmt.Errorf("committing import batch: %w", err)
		}
		result.Imported += end - start
	}

	// One aggregate move for the whole run, after every batch has landed.
	if result.Imported > 0 && !totalDelta.IsZero() {
		err = uc.retrier.Retry(ctx, func() error {
			tx, err := uc.txManager.Begin(ctx)
			if err != nil {
				return err
			}
			defer tx.Rollback(ctx)

			if err := uc.budgetRepo.ApplyBalanceDelta(ctx, tx, budget.ID, totalDelta, time.Now().UTC()); err != nil {
				return err
			}

			return tx.Commit(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("applying import delta: %w", err)
		}
	}

	if uc.metrics != nil {
		uc.metrics.ImportsRun.Inc()
		uc.metrics.RowsImported.Add(float64(result.Imported))
		uc.metrics.RowsSkipped.Add(float64(result.Skipped))
		uc.metrics.ImportSeconds.Observe(time.Since(started).Seconds())
	}

	uc.logger.Info().
		Str("run_id", runID).
		Str("budget_id", input.BudgetID).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Str("delta", totalDelta.String()).
		Msg("statement import finished")

	if uc.events != nil && result.Imported > 0 {
		event := domain.ChangeEvent{
			EventType:  domain.EventTypeStatementImported,
			BudgetID:   input.BudgetID,
			UserID:     input.UserID,
			OccurredAt: time.Now().UTC(),
		}
		if err := uc.events.Publish(ctx, event); err != nil {
			uc.logger.Warn().Err(err).Msg("failed to publish import event")
		}
	}

	return result, nil
}

// dedupe drops candidates whose fingerprint already exists in the ledger.
// Lookups are chunked to respect the store's per-query key limit.
func (uc *ImportUseCase) dedupe(ctx context.Context, budgetID string, candidates []statement.Candidate) ([]statement.Candidate, int, error) {
	// Duplicates inside the file itself are skipped on first sight too.
	seen := make(map[string]bool, len(candidates))

	fingerprints := make([]string, 0, len(candidates))
	for _, c := range candidates {
		fingerprints = append(fingerprints, c.Fingerprint)
	}

	existing := make(map[string]bool, len(fingerprints))
	for start := 0; start < len(fingerprints); start += FingerprintQueryChunk {
		end := start + FingerprintQueryChunk
		if end > len(fingerprints) {
			end = len(fingerprints)
		}
		chunk, err := uc.txnRepo.ExistingImportIDs(ctx, budgetID, fingerprints[start:end])
		if err != nil {
			return nil, 0, fmt.Errorf("querying existing fingerprints: %w", err)
		}
		for k := range chunk {
			existing[k] = true
		}
	}

	fresh := make([]statement.Candidate, 0, len(candidates))
	skipped := 0
	for _, c := range candidates {
		if existing[c.Fingerprint] || seen[c.Fingerprint] {
			skipped++
			continue
		}
		seen[c.Fingerprint] = true
		fresh = append(fresh, c)
	}

	return fresh, skipped, nil
}

// buildTransactions prices candidates into storage currency and accumulates
// the total signed delta across the run.
func (uc *ImportUseCase) buildTransactions(
	ctx context.Context,
	budget *domain.Budget,
	input ImportInput,
	candidates []statement.Candidate,
) ([]*domain.Transaction, decimal.Decimal) {
	now := time.Now().UTC()
	totalDelta := decimal.Zero

	txns := make([]*domain.Transaction, 0, len(candidates))
	for _, c := range candidates {
		rate, err := uc.resolver.Resolve(ctx, c.Row.Currency, budget.Currency, false)
		if err != nil {
			// Documented exception to the fatal write-path policy: a bulk
			// import keeps the row at 1:1 instead of losing the whole file.
			uc.logger.Warn().
				Str("currency", c.Row.Currency).
				Str("fingerprint", c.Fingerprint).
				Err(err).
				Msg("rate unavailable for import row, falling back to 1:1")
			rate = decimal.NewFromInt(1)
		}

		date, _ := time.Parse("2006-01-02", c.Date)

		txns = append(txns, &domain.Transaction{
			ID:               uc.idGen.Generate(),
			BudgetID:         budget.ID,
			Date:             date,
			Type:             c.Type,
			Amount:           c.Amount.Mul(rate),
			OriginalAmount:   c.Amount,
			OriginalCurrency: c.Row.Currency,
			CategoryID:       uc.rules.Categorize(c.Row.Description),
			Description:      c.Row.Description,
			UserID:           input.UserID,
			UserName:         input.UserName,
			ImportID:         c.Fingerprint,
			ImportSource:     input.Source,
			Version:          1,
			CreatedAt:        now,
			UpdatedAt:        now,
		})

		last := txns[len(txns)-1]
		totalDelta = totalDelta.Add(last.SignedImpact())
	}

	return txns, totalDelta
}

func (uc *ImportUseCase) commitBatch(ctx context.Context, txns []*domain.Transaction) error {
	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.txnRepo.CreateBatch(ctx, tx, txns); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}
