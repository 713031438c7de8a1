package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"expense-tracker/internal/api/middleware"
	"expense-tracker/internal/api/response"
	"expense-tracker/internal/model"
	"expense-tracker/internal/service"
)

// ExpenseController serves the JSON expense API. Every route is behind the
// session gate, so a user id is always present in the context.
type ExpenseController struct {
	service *service.ExpenseService
}

func NewExpenseController(s *service.ExpenseService) *ExpenseController {
	return &ExpenseController{service: s}
}

// ==========================================
// DTOs
// ==========================================

// CreateExpenseRequest uses pointers so absent optional fields fall back
// to their documented defaults instead of zero values.
type CreateExpenseRequest struct {
	Description    string   `json:"description"`
	BaseAmount     *float64 `json:"base_amount"`
	Category       *string  `json:"category"`
	TaxAmount      *float64 `json:"tax_amount"`
	IsReimbursable *bool    `json:"is_reimbursable"`
}

// UpdateExpenseRequest is a partial update: only the fields present in the
// JSON are replaced.
type UpdateExpenseRequest struct {
	Description    *string  `json:"description"`
	Category       *string  `json:"category"`
	BaseAmount     *float64 `json:"base_amount"`
	TaxAmount      *float64 `json:"tax_amount"`
	IsReimbursable *bool    `json:"is_reimbursable"`
}

type ListExpensesRequest struct {
	Page     int    `form:"page,default=1"`
	Category string `form:"category,default=ALL"`
}

type ExpenseEnvelope struct {
	Message string                      `json:"message"`
	Expense model.ExpenseRepresentation `json:"expense"`
}

type ListExpensesResponse struct {
	Expenses    []model.ExpenseRepresentation `json:"expenses"`
	TotalPages  int                           `json:"total_pages"`
	CurrentPage int                           `json:"current_page"`
	HasNext     bool                          `json:"has_next"`
	HasPrev     bool                          `json:"has_prev"`
}

// ==========================================
// Handlers
// ==========================================

// Create records a new expense
// @Summary Create an expense
// @Description Records an expense owned by the logged-in user. description and base_amount are required; category defaults to Other, tax_amount to 0, is_reimbursable to false.
// @Tags Expense
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "expense fields"
// @Success 201 {object} ExpenseEnvelope
// @Failure 400 {object} response.ErrorBody
// @Router /api/expenses [post]
func (ctrl *ExpenseController) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create expense: bad payload", "err", err)
		response.Error(c, http.StatusBadRequest, "invalid data")
		return
	}

	expense, err := ctrl.service.CreateExpense(c.Request.Context(), middleware.CurrentUserID(c), service.CreateExpenseInput{
		Description:  req.Description,
		BaseAmount:   req.BaseAmount,
		Category:     req.Category,
		TaxAmount:    req.TaxAmount,
		Reimbursable: req.IsReimbursable,
	})
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ExpenseEnvelope{
		Message: "created",
		Expense: expense.Representation(),
	})
}

// List pages through the caller's expenses
// @Summary List expenses
// @Description Returns one page (5 rows) of the caller's expenses, newest first. category filters case-insensitively; ALL disables the filter.
// @Tags Expense
// @Produce json
// @Param page query int false "1-based page" default(1)
// @Param category query string false "category filter or ALL"
// @Success 200 {object} ListExpensesResponse
// @Failure 400 {object} response.ErrorBody
// @Router /api/expenses [get]
func (ctrl *ExpenseController) List(c *gin.Context) {
	var req ListExpensesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	result, err := ctrl.service.ListExpenses(c.Request.Context(), middleware.CurrentUserID(c), req.Page, req.Category)
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListExpensesResponse{
		Expenses:    result.Expenses,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
		HasNext:     result.HasNext,
		HasPrev:     result.HasPrev,
	})
}

// Update partially replaces an expense
// @Summary Update an expense
// @Description Replaces only the fields present in the JSON. Only the owner may update an expense.
// @Tags Expense
// @Accept json
// @Produce json
// @Param id path int true "expense id"
// @Param request body UpdateExpenseRequest true "fields to replace"
// @Success 200 {object} ExpenseEnvelope
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/expenses/{id} [put]
func (ctrl *ExpenseController) Update(c *gin.Context) {
	id, ok := ctrl.expenseID(c)
	if !ok {
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update expense: bad payload", "id", id, "err", err)
		response.Error(c, http.StatusBadRequest, "invalid data")
		return
	}

	expense, err := ctrl.service.UpdateExpense(c.Request.Context(), middleware.CurrentUserID(c), id, service.UpdateExpenseInput{
		Description:  req.Description,
		Category:     req.Category,
		BaseAmount:   req.BaseAmount,
		TaxAmount:    req.TaxAmount,
		Reimbursable: req.IsReimbursable,
	})
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExpenseEnvelope{
		Message: "updated",
		Expense: expense.Representation(),
	})
}

// Delete permanently removes an expense
// @Summary Delete an expense
// @Description Hard-deletes an expense. Only the owner may delete it; there is no recovery.
// @Tags Expense
// @Produce json
// @Param id path int true "expense id"
// @Success 200 {object} response.MessageBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/expenses/{id} [delete]
func (ctrl *ExpenseController) Delete(c *gin.Context) {
	id, ok := ctrl.expenseID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteExpense(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		ctrl.writeError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "deleted")
}

// expenseID parses the path id. A non-numeric id can never name an
// expense, so it is a 404 rather than a 400.
func (ctrl *ExpenseController) expenseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusNotFound, "expense not found")
		return 0, false
	}
	return uint(id), true
}

// writeError maps service errors onto the API's status codes.
func (ctrl *ExpenseController) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		response.Error(c, http.StatusBadRequest, "missing required fields")
	case errors.Is(err, service.ErrInvalidData):
		response.Error(c, http.StatusBadRequest, "invalid data")
	case errors.Is(err, service.ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, "invalid category")
	case errors.Is(err, service.ErrNotFound):
		response.Error(c, http.StatusNotFound, "expense not found")
	case errors.Is(err, service.ErrNotOwner):
		response.Error(c, http.StatusForbidden, "forbidden")
	default:
		slog.Error("expense operation failed", "err", err)
		response.Error(c, http.StatusInternalServerError, "internal error")
	}
}
