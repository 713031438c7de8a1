package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"expense-tracker/internal/model"
	"expense-tracker/internal/repository"
)

// PageSize is the fixed number of expenses per list page.
const PageSize = 5

const maxDescriptionLen = 200

type ExpenseService struct {
	repo repository.ExpenseRepo
}

func NewExpenseService(repo repository.ExpenseRepo) *ExpenseService {
	return &ExpenseService{repo: repo}
}

// CreateExpenseInput carries the create payload. Pointer fields distinguish
// "absent" from a zero value.
type CreateExpenseInput struct {
	Description  string
	BaseAmount   *float64
	Category     *string
	TaxAmount    *float64
	Reimbursable *bool
}

// CreateExpense validates the input, fills defaults and persists a new
// expense owned by userID.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, in CreateExpenseInput) (*model.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" || in.BaseAmount == nil {
		return nil, ErrMissingFields
	}
	if len(description) > maxDescriptionLen {
		return nil, ErrInvalidData
	}

	category := model.CategoryOther
	if in.Category != nil {
		parsed, err := model.ParseCategory(*in.Category)
		if err != nil {
			return nil, ErrInvalidData
		}
		category = parsed
	}

	expense := &model.Expense{
		Description: description,
		Category:    category,
		BaseAmount:  *in.BaseAmount,
		UserID:      userID,
	}
	if in.TaxAmount != nil {
		expense.TaxAmount = *in.TaxAmount
	}
	if in.Reimbursable != nil {
		expense.Reimbursable = *in.Reimbursable
	}

	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	slog.Info("expense created", "id", expense.ID, "user", userID)
	return expense, nil
}

// ListResult is one page of expenses plus pagination metadata.
type ListResult struct {
	Expenses    []model.ExpenseRepresentation
	TotalPages  int
	CurrentPage int
	HasNext     bool
	HasPrev     bool
}

// ListExpenses pages through the caller's expenses, newest first. The
// category string filters case-insensitively; "ALL" (or empty) disables
// the filter; anything unrecognized is ErrInvalidCategory.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string, page int, category string) (*ListResult, error) {
	filter := repository.ExpenseFilter{
		UserID:   userID,
		Page:     page,
		PageSize: PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	if trimmed := strings.TrimSpace(category); trimmed != "" &&
		!strings.EqualFold(trimmed, model.CategoryFilterAll) {
		parsed, err := model.ParseCategory(trimmed)
		if err != nil {
			return nil, ErrInvalidCategory
		}
		filter.Category = parsed
	}

	expenses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	result := &ListResult{
		Expenses:    make([]model.ExpenseRepresentation, 0, len(expenses)),
		TotalPages:  totalPages,
		CurrentPage: filter.Page,
		HasNext:     filter.Page < totalPages,
		HasPrev:     filter.Page > 1,
	}
	for i := range expenses {
		result.Expenses = append(result.Expenses, expenses[i].Representation())
	}
	return result, nil
}

// UpdateExpenseInput carries the partial update payload; nil fields are
// left unchanged.
type UpdateExpenseInput struct {
	Description  *string
	Category     *string
	BaseAmount   *float64
	TaxAmount    *float64
	Reimbursable *bool
}

// UpdateExpense replaces only the supplied fields of an expense the caller
// owns.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID string, expenseID uint, in UpdateExpenseInput) (*model.Expense, error) {
	expense, err := s.loadOwned(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" || len(description) > maxDescriptionLen {
			return nil, ErrInvalidData
		}
		expense.Description = description
	}
	if in.Category != nil {
		parsed, err := model.ParseCategory(*in.Category)
		if err != nil {
			return nil, ErrInvalidData
		}
		expense.Category = parsed
	}
	if in.BaseAmount != nil {
		expense.BaseAmount = *in.BaseAmount
	}
	if in.TaxAmount != nil {
		expense.TaxAmount = *in.TaxAmount
	}
	if in.Reimbursable != nil {
		expense.Reimbursable = *in.Reimbursable
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	slog.Info("expense updated", "id", expense.ID, "user", userID)
	return expense, nil
}

// DeleteExpense permanently removes an expense the caller owns.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID string, expenseID uint) error {
	if _, err := s.loadOwned(ctx, userID, expenseID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, expenseID); err != nil {
		return err
	}
	slog.Info("expense deleted", "id", expenseID, "user", userID)
	return nil
}

// loadOwned fetches an expense and enforces the ownership invariant:
// existence is checked before ownership, so an unknown id is ErrNotFound
// and someone else's id is ErrNotOwner.
func (s *ExpenseService) loadOwned(ctx context.Context, userID string, expenseID uint) (*model.Expense, error) {
	expense, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if expense.UserID != userID {
		return nil, ErrNotOwner
	}
	return expense, nil
}
