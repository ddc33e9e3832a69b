package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/pagination"
	"kaihelper/internal/services"
)

// GroceryHandler handles grocery-related requests.
type GroceryHandler struct {
	groceryService services.GroceryServicer
}

// NewGroceryHandler creates a new GroceryHandler.
func NewGroceryHandler(groceryService services.GroceryServicer) *GroceryHandler {
	return &GroceryHandler{groceryService: groceryService}
}

// GroceryRequest represents the request payload for creating or updating a
// grocery item. ID is required for updates only. PurchaseDate is an optional
// date-only string ("YYYY-MM-DD") defaulting to today.
type GroceryRequest struct {
	ID           uint    `json:"id"`
	UserID       uint    `json:"user_id" binding:"required"`
	CategoryID   *uint   `json:"category_id"`
	ExpenseID    *uint   `json:"expense_id"`
	ItemName     string  `json:"item_name" binding:"required,min=1,max=100"`
	UnitPrice    float64 `json:"unit_price" binding:"required,gt=0"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	TotalCost    float64 `json:"total_cost" binding:"gte=0"`
	PurchaseDate string  `json:"purchase_date" binding:"omitempty,dateonly"`
	Notes        string  `json:"notes" binding:"max=500"`
}

func (r *GroceryRequest) toInput() services.GroceryInput {
	var purchaseDate time.Time
	if r.PurchaseDate != "" {
		purchaseDate, _ = time.Parse("2006-01-02", r.PurchaseDate)
	}
	return services.GroceryInput{
		ID:           r.ID,
		UserID:       r.UserID,
		CategoryID:   r.CategoryID,
		ExpenseID:    r.ExpenseID,
		ItemName:     r.ItemName,
		UnitPrice:    r.UnitPrice,
		Quantity:     r.Quantity,
		TotalCost:    r.TotalCost,
		PurchaseDate: purchaseDate,
		Notes:        r.Notes,
	}
}

// AddGrocery handles the creation of a new grocery item.
// @Summary     Add a grocery item
// @Description Record a grocery item; total cost is derived from price and quantity when omitted
// @Tags        groceries
// @Accept      json
// @Produce     json
// @Param       request body GroceryRequest true "Grocery details"
// @Success     201 {object} Response "Grocery recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groceries [post]
func (h *GroceryHandler) AddGrocery(c *gin.Context) {
	var req GroceryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	grocery, err := h.groceryService.AddGrocery(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Grocery added successfully.", grocery)
}

// ListGroceries handles listing a user's grocery items.
// @Summary     List groceries
// @Description Get a paginated list of a user's grocery items
// @Tags        groceries
// @Produce     json
// @Param       id        path  int true  "User ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} Response "Paginated groceries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groceries/user/{id} [get]
func (h *GroceryHandler) ListGroceries(c *gin.Context) {
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

	result, err := h.groceryService.ListGroceries(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Groceries retrieved.", result)
}

// ListByExpense handles listing grocery items linked to an expense.
// @Summary     List groceries by expense
// @Description Get all grocery items linked to an expense
// @Tags        groceries
// @Produce     json
// @Param       id path int true "Expense ID"
// @Success     200 {object} Response "Groceries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groceries/expense/{id} [get]
func (h *GroceryHandler) ListByExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	groceries, err := h.groceryService.ListByExpense(expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Groceries retrieved.", groceries)
}

// GetGrocery handles retrieving a specific grocery item.
// @Summary     Get grocery by ID
// @Description Get a single grocery item
// @Tags        groceries
// @Produce     json
// @Param       id path int true "Grocery ID"
// @Success     200 {object} Response "Grocery"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Grocery not found"
// @Router      /groceries/{id} [get]
func (h *GroceryHandler) GetGrocery(c *gin.Context) {
	groceryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	grocery, err := h.groceryService.GetGroceryByID(groceryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Grocery retrieved.", grocery)
}

// UpdateGrocery handles updating an existing grocery item.
// @Summary     Update a grocery item
// @Description Update a grocery item in place
// @Tags        groceries
// @Accept      json
// @Produce     json
// @Param       request body GroceryRequest true "Grocery details (id required)"
// @Success     200 {object} Response "Grocery updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Grocery not found"
// @Router      /groceries/update [put]
func (h *GroceryHandler) UpdateGrocery(c *gin.Context) {
	var req GroceryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	grocery, err := h.groceryService.UpdateGrocery(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Grocery updated successfully.", grocery)
}

// DeleteGrocery handles deleting a grocery item.
// @Summary     Delete a grocery item
// @Description Delete a grocery item by ID
// @Tags        groceries
// @Produce     json
// @Param       id path int true "Grocery ID"
// @Success     200 {object} Response "Grocery deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Grocery not found"
// @Router      /groceries/delete/{id} [delete]
func (h *GroceryHandler) DeleteGrocery(c *gin.Context) {
	groceryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.groceryService.DeleteGrocery(groceryID); err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Grocery deleted successfully.", nil)
}
