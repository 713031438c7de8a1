package model

import (
	"time"
)

// Expense is the row mapped onto the expenses table.
type Expense struct {
	ID           uint      `gorm:"primaryKey"`
	Description  string    `gorm:"type:varchar(200);not null"`
	Category     Category  `gorm:"type:varchar(20);not null;default:OTHER"`
	BaseAmount   float64   `gorm:"not null"`
	TaxAmount    float64   `gorm:"not null;default:0"`
	Reimbursable bool      `gorm:"column:is_reimbursable;not null;default:false"`
	CreatedAt    time.Time
	UserID       string `gorm:"type:varchar(36);index;not null"`
}

// TableName forces the table name.
func (Expense) TableName() string {
	return "expenses"
}

// TotalAmount is derived, never stored.
func (e *Expense) TotalAmount() float64 {
	return e.BaseAmount + e.TaxAmount
}

// ExpenseRepresentation is the JSON shape every API response uses for an
// expense.
type ExpenseRepresentation struct {
	ID           uint    `json:"id"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Reimbursable bool    `json:"is_reimbursable"`
	BaseAmount   float64 `json:"base_amount"`
	TaxAmount    float64 `json:"tax_amount"`
	TotalAmount  float64 `json:"total_amount"`
	CreatedAt    string  `json:"created_at"`
}

// Representation converts the entity for an API response. The category is
// rendered as its display name and the total is recomputed on every read.
func (e *Expense) Representation() ExpenseRepresentation {
	return ExpenseRepresentation{
		ID:           e.ID,
		Description:  e.Description,
		Category:     e.Category.DisplayName(),
		Reimbursable: e.Reimbursable,
		BaseAmount:   e.BaseAmount,
		TaxAmount:    e.TaxAmount,
		TotalAmount:  e.TotalAmount(),
		CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
