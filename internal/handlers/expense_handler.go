package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/pagination"
	"kaihelper/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRequest represents the request payload for creating or updating an
// expense. ID is required for updates only. ExpenseDate is a date-only
// string ("YYYY-MM-DD"); Currency is an optional ISO 4217 code.
type ExpenseRequest struct {
	ID          uint    `json:"id"`
	UserID      uint    `json:"user_id" binding:"required"`
	CategoryID  *uint   `json:"category_id"`
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description" binding:"max=255"`
	ExpenseDate string  `json:"expense_date" binding:"required,dateonly"`
	Notes       string  `json:"notes" binding:"max=500"`
	Currency    string  `json:"currency" binding:"omitempty,iso4217"`
}

func (r *ExpenseRequest) toInput() services.ExpenseInput {
	date, _ := time.Parse("2006-01-02", r.ExpenseDate)
	return services.ExpenseInput{
		ID:          r.ID,
		UserID:      r.UserID,
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Description: r.Description,
		ExpenseDate: date,
		Notes:       r.Notes,
		Currency:    r.Currency,
	}
}

// AddExpense handles the creation of a new expense.
// @Summary     Add an expense
// @Description Record an expense and debit the active budget when its range covers the expense date
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       request body ExpenseRequest true "Expense details"
// @Success     201 {object} Response "Expense recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient budget"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) AddExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, note, err := h.expenseService.AddExpense(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, note, expense)
}

// ListExpenses handles listing a user's expenses.
// @Summary     List expenses
// @Description Get a paginated list of a user's expenses, most recent first
// @Tags        expenses
// @Produce     json
// @Param       id        path  int true  "User ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} Response "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/user/{id} [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.expenseService.ListExpenses(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Expenses retrieved.", result)
}

// GetExpense handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Description Get a single expense
// @Tags        expenses
// @Produce     json
// @Param       id path int true "Expense ID"
// @Success     200 {object} Response "Expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Expense retrieved.", expense)
}

// UpdateExpense handles updating an existing expense.
// @Summary     Update an expense
// @Description Update an expense and shift the active budget by the amount difference
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       request body ExpenseRequest true "Expense details (id required)"
// @Success     200 {object} Response "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/update [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Expense updated successfully.", expense)
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete an expense
// @Description Delete an expense and credit its amount back to the active budget
// @Tags        expenses
// @Produce     json
// @Param       id path int true "Expense ID"
// @Success     200 {object} Response "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/delete/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Expense deleted successfully.", nil)
}
