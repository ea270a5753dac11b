package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// MockBudgetRepository is a mock implementation of BudgetRepository.
type MockBudgetRepository struct {
	mu      sync.RWMutex
	budgets map[string]*domain.Budget

	CreateFunc            func(ctx context.Context, budget *domain.Budget) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Budget, error)
	ApplyBalanceDeltaFunc func(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error
	SetBalanceFunc        func(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, userID string, limit, offset int) ([]*domain.Budget, error)
}

func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		budgets: make(map[string]*domain.Budget),
	}
}

func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, budget)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[budget.ID] = budget
	return nil
}

func (m *MockBudgetRepository) GetByID(ctx context.Context, id string) (*domain.Budget, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.budgets[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBudgetNotFound
}

func (m *MockBudgetRepository) ApplyBalanceDelta(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	if m.ApplyBalanceDeltaFunc != nil {
		return m.ApplyBalanceDeltaFunc(ctx, tx, id, delta, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	if !ok {
		return domain.ErrBudgetNotFound
	}
	b.CurrentBalance = b.CurrentBalance.Add(delta)
	b.UpdatedAt = updatedAt
	return nil
}

func (m *MockBudgetRepository) SetBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.SetBalanceFunc != nil {
		return m.SetBalanceFunc(ctx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	if !ok {
		return domain.ErrBudgetNotFound
	}
	b.CurrentBalance = balance
	b.UpdatedAt = updatedAt
	return nil
}

func (m *MockBudgetRepository) List(ctx context.Context, userID string, limit, offset int) ([]*domain.Budget, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var budgets []*domain.Budget
	for _, b := range m.budgets {
		if b.CanWrite(userID) {
			budgets = append(budgets, b)
		}
	}
	return budgets, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	CreateBatchFunc         func(ctx context.Context, tx usecase.Transaction, txns []*domain.Transaction) error
	GetByIDFunc             func(ctx context.Context, budgetID, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, budgetID, id string) (*domain.Transaction, error)
	UpdateFunc              func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) (int64, error)
	DeleteFunc              func(ctx context.Context, tx usecase.Transaction, budgetID, id string) error
	ListByBudgetFunc        func(ctx context.Context, budgetID string, limit int) ([]*domain.Transaction, error)
	SumSignedAmountsFunc    func(ctx context.Context, budgetID string) (decimal.Decimal, error)
	ExistingImportIDsFunc   func(ctx context.Context, budgetID string, importIDs []string) (map[string]bool, error)
	DeleteBatchByBudgetFunc func(ctx context.Context, budgetID string, limit int) (int64, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFingerprint(txn); err != nil {
		return err
	}
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, txns []*domain.Transaction) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, txns)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, txn := range txns {
		if err := m.checkFingerprint(txn); err != nil {
			return err
		}
		m.transactions[txn.ID] = txn
	}
	return nil
}

// checkFingerprint mirrors the store's partial unique index on
// (budget_id, import_id): only imported rows carry a fingerprint, manual
// rows never collide. Callers must hold the lock.
func (m *MockTransactionRepository) checkFingerprint(txn *domain.Transaction) error {
	if txn.ImportID == "" {
		return nil
	}
	for _, existing := range m.transactions {
		if existing.BudgetID == txn.BudgetID && existing.ImportID == txn.ImportID && existing.ID != txn.ID {
			return fmt.Errorf("duplicate import fingerprint %s", txn.ImportID)
		}
	}
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, budgetID, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, budgetID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok && t.BudgetID == budgetID {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, budgetID, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, budgetID, id)
	}
	return m.GetByID(ctx, budgetID, id)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) (int64, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.transactions[txn.ID]
	if !ok || existing.BudgetID != txn.BudgetID {
		return 0, nil
	}
	if existing.Version != txn.Version-1 {
		return 0, nil
	}
	m.transactions[txn.ID] = txn
	return 1, nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, budgetID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, budgetID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.transactions[id]; !ok || t.BudgetID != budgetID {
		return domain.ErrTransactionNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *MockTransactionRepository) ListByBudget(ctx context.Context, budgetID string, limit int) ([]*domain.Transaction, error) {
	if m.ListByBudgetFunc != nil {
		return m.ListByBudgetFunc(ctx, budgetID, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, t := range m.transactions {
		if t.BudgetID == budgetID {
			txns = append(txns, t)
		}
	}
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

func (m *MockTransactionRepository) SumSignedAmounts(ctx context.Context, budgetID string) (decimal.Decimal, error) {
	if m.SumSignedAmountsFunc != nil {
		return m.SumSignedAmountsFunc(ctx, budgetID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, t := range m.transactions {
		if t.BudgetID == budgetID {
			sum = sum.Add(t.SignedImpact())
		}
	}
	return sum, nil
}

func (m *MockTransactionRepository) ExistingImportIDs(ctx context.Context, budgetID string, importIDs []string) (map[string]bool, error) {
	if m.ExistingImportIDsFunc != nil {
		return m.ExistingImportIDsFunc(ctx, budgetID, importIDs)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	known := make(map[string]bool)
	for _, t := range m.transactions {
		if t.BudgetID == budgetID && t.ImportID != "" {
			known[t.ImportID] = true
		}
	}
	existing := make(map[string]bool)
	for _, id := range importIDs {
		if known[id] {
			existing[id] = true
		}
	}
	return existing, nil
}

func (m *MockTransactionRepository) DeleteBatchByBudget(ctx context.Context, budgetID string, limit int) (int64, error) {
	if m.DeleteBatchByBudgetFunc != nil {
		return m.DeleteBatchByBudgetFunc(ctx, budgetID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, t := range m.transactions {
		if t.BudgetID != budgetID {
			continue
		}
		delete(m.transactions, id)
		deleted++
		if limit > 0 && deleted >= int64(limit) {
			break
		}
	}
	return deleted, nil
}

// Count returns how many transactions the mock holds for a budget.
func (m *MockTransactionRepository) Count(budgetID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, t := range m.transactions {
		if t.BudgetID == budgetID {
			n++
		}
	}
	return n
}

// MockLoanRepository is a mock implementation of LoanRepository.
type MockLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*domain.Loan

	CreateFunc func(ctx context.Context, loan *domain.Loan) error
	UpdateFunc func(ctx context.Context, loan *domain.Loan) error
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		loans: make(map[string]*domain.Loan),
	}
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) GetByID(ctx context.Context, budgetID, id string) (*domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.loans[id]; ok && l.BudgetID == budgetID {
		return l, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loans[loan.ID]; !ok {
		return domain.ErrLoanNotFound
	}
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) Delete(ctx context.Context, budgetID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.loans[id]; !ok || l.BudgetID != budgetID {
		return domain.ErrLoanNotFound
	}
	delete(m.loans, id)
	return nil
}

func (m *MockLoanRepository) ListByBudget(ctx context.Context, budgetID string) ([]*domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, l := range m.loans {
		if l.BudgetID == budgetID {
			loans = append(loans, l)
		}
	}
	return loans, nil
}

// MockAssetRepository is a mock implementation of AssetRepository.
type MockAssetRepository struct {
	mu     sync.RWMutex
	assets map[string]*domain.Asset

	CreateFunc func(ctx context.Context, asset *domain.Asset) error
	UpdateFunc func(ctx context.Context, asset *domain.Asset) error
}

func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{
		assets: make(map[string]*domain.Asset),
	}
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, asset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.ID] = asset
	return nil
}

func (m *MockAssetRepository) GetByID(ctx context.Context, budgetID, id string) (*domain.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.assets[id]; ok && a.BudgetID == budgetID {
		return a, nil
	}
	return nil, domain.ErrAssetNotFound
}

func (m *MockAssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, asset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[asset.ID]; !ok {
		return domain.ErrAssetNotFound
	}
	m.assets[asset.ID] = asset
	return nil
}

func (m *MockAssetRepository) Delete(ctx context.Context, budgetID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.assets[id]; !ok || a.BudgetID != budgetID {
		return domain.ErrAssetNotFound
	}
	delete(m.assets, id)
	return nil
}

func (m *MockAssetRepository) ListByBudget(ctx context.Context, budgetID string) ([]*domain.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var assets []*domain.Asset
	for _, a := range m.assets {
		if a.BudgetID == budgetID {
			assets = append(assets, a)
		}
	}
	return assets, nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category

	UpsertFunc func(ctx context.Context, category *domain.Category) error
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[string]*domain.Category),
	}
}

func (m *MockCategoryRepository) Upsert(ctx context.Context, category *domain.Category) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.categories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var categories []*domain.Category
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

// MockRateResolver is a mock implementation of RateResolver. Rates are keyed
// by "BASE/TARGET"; unknown pairs resolve to 1.
type MockRateResolver struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal

	ResolveFunc           func(ctx context.Context, base, target string, isAsset bool) (decimal.Decimal, error)
	ResolveForDisplayFunc func(ctx context.Context, base, target string) decimal.Decimal
}

func NewMockRateResolver() *MockRateResolver {
	return &MockRateResolver{
		rates: make(map[string]decimal.Decimal),
	}
}

// SetRate registers a rate for a base/target pair.
func (m *MockRateResolver) SetRate(base, target string, rate decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[base+"/"+target] = rate
}

func (m *MockRateResolver) Resolve(ctx context.Context, base, target string, isAsset bool) (decimal.Decimal, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, base, target, isAsset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rate, ok := m.rates[base+"/"+target]; ok {
		return rate, nil
	}
	return decimal.NewFromInt(1), nil
}

func (m *MockRateResolver) ResolveForDisplay(ctx context.Context, base, target string) decimal.Decimal {
	if m.ResolveForDisplayFunc != nil {
		return m.ResolveForDisplayFunc(ctx, base, target)
	}
	rate, err := m.Resolve(ctx, base, target, false)
	if err != nil {
		return decimal.NewFromInt(1)
	}
	return rate
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier is a pass-through Retrier.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string]string

	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key, value string, ttl time.Duration) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockEventBus records published events.
type MockEventBus struct {
	mu     sync.RWMutex
	events []domain.ChangeEvent

	PublishFunc   func(ctx context.Context, event domain.ChangeEvent) error
	SubscribeFunc func(ctx context.Context, budgetID string) (<-chan domain.ChangeEvent, error)
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{}
}

func (m *MockEventBus) Publish(ctx context.Context, event domain.ChangeEvent) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, budgetID string) (<-chan domain.ChangeEvent, error) {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, budgetID)
	}
	ch := make(chan domain.ChangeEvent)
	close(ch)
	return ch, nil
}

// Published returns the events recorded so far.
func (m *MockEventBus) Published() []domain.ChangeEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ChangeEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockConfirmationStore is an in-memory ConfirmationStore. TTLs are ignored;
// expiry is simulated by deleting entries.
type MockConfirmationStore struct {
	mu   sync.Mutex
	data map[string][]byte

	PutFunc  func(ctx context.Context, token string, payload []byte, ttl time.Duration) error
	TakeFunc func(ctx context.Context, token string) ([]byte, error)
}

func NewMockConfirmationStore() *MockConfirmationStore {
	return &MockConfirmationStore{
		data: make(map[string][]byte),
	}
}

func (m *MockConfirmationStore) Put(ctx context.Context, token string, payload []byte, ttl time.Duration) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, token, payload, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[token] = payload
	return nil
}

func (m *MockConfirmationStore) Take(ctx context.Context, token string) ([]byte, error) {
	if m.TakeFunc != nil {
		return m.TakeFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.data[token]
	if !ok {
		return nil, nil
	}
	delete(m.data, token)
	return payload, nil
}
