package repository

import (
	"context"

	"gorm.io/gorm"

	"expense-tracker/internal/model"
)

// ExpenseFilter narrows and pages a list query. Category empty means no
// category filter; Page is 1-based.
type ExpenseFilter struct {
	UserID   string
	Category model.Category
	Page     int
	PageSize int
}

// ExpenseRepo is an interface so the service layer can be tested against
// a mock.
type ExpenseRepo interface {
	Create(ctx context.Context, expense *model.Expense) error
	GetByID(ctx context.Context, id uint) (*model.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uint) error
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepo {
	return &expenseRepo{db: db}
}

func (r *expenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// GetByID returns gorm.ErrRecordNotFound for an unknown id.
func (r *expenseRepo) GetByID(ctx context.Context, id uint) (*model.Expense, error) {
	var expense model.Expense
	if err := r.db.WithContext(ctx).First(&expense, id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// List returns one page of the caller's expenses, newest first, plus the
// total row count for the same filter.
func (r *expenseRepo) List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Expense{}).
		Where("user_id = ?", filter.UserID)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []model.Expense
	offset := (filter.Page - 1) * filter.PageSize
	// id breaks ties between rows created in the same instant
	err := query.Order("created_at DESC, id DESC").
		Offset(offset).Limit(filter.PageSize).
		Find(&expenses).Error
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Expense{}, id).Error
}
