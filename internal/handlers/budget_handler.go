package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
// Dates are date-only strings ("YYYY-MM-DD").
type CreateBudgetRequest struct {
	UserID      uint    `json:"user_id" binding:"required"`
	TotalBudget float64 `json:"total_budget" binding:"required,gt=0"`
	StartDate   string  `json:"start_date" binding:"required,dateonly"`
	EndDate     string  `json:"end_date" binding:"required,dateonly"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a new budget window with a total amount
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} Response "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	budget, err := h.budgetService.CreateBudget(req.UserID, req.TotalBudget, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Budget created successfully.", budget)
}

// ListBudgets handles listing a user's budgets.
// @Summary     List budgets
// @Description List all budgets for a user, oldest first
// @Tags        budgets
// @Produce     json
// @Param       id path int true "User ID"
// @Success     200 {object} Response "Budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/user/{id} [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.ListBudgets(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Budgets retrieved.", budgets)
}
