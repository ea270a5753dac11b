package usecase

import (
	"context"
	"fmt"

	"github.com/finbook/finbook/internal/domain"
)

// CategoryUseCase exposes the shared category catalog. Categories are global
// rather than per budget; every budget sees the same set.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(categoryRepo CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

// defaultCategories is the catalog seeded on startup. "other" is the
// fallback every uncategorized transaction lands in and must always exist.
var defaultCategories = []*domain.Category{
	{ID: domain.DefaultCategoryID, Name: "Other", Kind: domain.TypeExpense},
	{ID: "groceries", Name: "Groceries", Kind: domain.TypeExpense},
	{ID: "restaurants", Name: "Restaurants", Kind: domain.TypeExpense},
	{ID: "transport", Name: "Transport", Kind: domain.TypeExpense},
	{ID: "housing", Name: "Housing", Kind: domain.TypeExpense},
	{ID: "utilities", Name: "Utilities", Kind: domain.TypeExpense},
	{ID: "health", Name: "Health", Kind: domain.TypeExpense},
	{ID: "entertainment", Name: "Entertainment", Kind: domain.TypeExpense},
	{ID: "shopping", Name: "Shopping", Kind: domain.TypeExpense},
	{ID: "travel", Name: "Travel", Kind: domain.TypeExpense},
	{ID: "salary", Name: "Salary", Kind: domain.TypeIncome},
	{ID: "refund", Name: "Refund", Kind: domain.TypeIncome},
}

// SeedDefaults upserts the default catalog. Safe to run on every startup.
func (uc *CategoryUseCase) SeedDefaults(ctx context.Context) error {
	for _, c := range defaultCategories {
		if err := uc.categoryRepo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("seeding category %s: %w", c.ID, err)
		}
	}
	return nil
}

// ListCategories returns the full catalog.
func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return uc.categoryRepo.List(ctx)
}
