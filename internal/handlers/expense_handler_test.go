package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/models"
	"kaihelper/internal/pagination"
	"kaihelper/internal/services"
)

// --- mock expense service ---

type mockExpenseService struct {
	addExpenseFn     func(in services.ExpenseInput) (*models.Expense, string, error)
	updateExpenseFn  func(in services.ExpenseInput) (*models.Expense, error)
	deleteExpenseFn  func(expenseID uint) error
	listExpensesFn   func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	getExpenseByIDFn func(expenseID uint) (*models.Expense, error)
}

func (m *mockExpenseService) AddExpense(in services.ExpenseInput) (*models.Expense, string, error) {
	if m.addExpenseFn != nil {
		return m.addExpenseFn(in)
	}
	return &models.Expense{}, "", nil
}

func (m *mockExpenseService) UpdateExpense(in services.ExpenseInput) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(in)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(expenseID uint) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(expenseID)
	}
	return nil
}

func (m *mockExpenseService) ListExpenses(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.listExpensesFn != nil {
		return m.listExpensesFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) GetExpenseByID(expenseID uint) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(expenseID)
	}
	return &models.Expense{}, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	r.POST("/expenses", handler.AddExpense)
	r.GET("/expenses/user/:id", handler.ListExpenses)
	r.GET("/expenses/:id", handler.GetExpense)
	r.PUT("/expenses/update", handler.UpdateExpense)
	r.DELETE("/expenses/delete/:id", handler.DeleteExpense)
	return r
}

func expenseBody(amount float64) string {
	return fmt.Sprintf(`{"user_id":1,"amount":%v,"description":"Weekly shop","expense_date":%q}`,
		amount, time.Now().Format("2006-01-02"))
}

func TestExpenseHandler_AddExpense(t *testing.T) {
	t.Run("returns 201 with ledger note", func(t *testing.T) {
		svc := &mockExpenseService{
			addExpenseFn: func(in services.ExpenseInput) (*models.Expense, string, error) {
				return &models.Expense{
					Base:   models.Base{ID: 5},
					UserID: in.UserID,
					Amount: in.Amount,
				}, "Expense added and budget updated.", nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(r, "POST", "/expenses", expenseBody(45.50))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		assertEnvelope(t, result, true)
		if result["message"] != "Expense added and budget updated." {
			t.Errorf("expected ledger note in message, got %v", result["message"])
		}
		data := result["data"].(map[string]interface{})
		if data["amount"] != 45.50 {
			t.Errorf("expected amount 45.50, got %v", data["amount"])
		}
	})

	t.Run("returns 400 on insufficient budget", func(t *testing.T) {
		svc := &mockExpenseService{
			addExpenseFn: func(_ services.ExpenseInput) (*models.Expense, string, error) {
				return nil, "", apperrors.ErrInsufficientBudget
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(r, "POST", "/expenses", expenseBody(80))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertEnvelope(t, parseJSON(t, rec), false)
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

		rec := doRequest(r, "POST", "/expenses",
			`{"user_id":1,"amount":10,"expense_date":"17/10/2025"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

		rec := doRequest(r, "POST", "/expenses",
			fmt.Sprintf(`{"user_id":1,"expense_date":%q}`, time.Now().Format("2006-01-02")))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unknown currency code", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

		rec := doRequest(r, "POST", "/expenses",
			fmt.Sprintf(`{"user_id":1,"amount":10,"expense_date":%q,"currency":"DOLLARS"}`, time.Now().Format("2006-01-02")))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("accepts ISO 4217 currency", func(t *testing.T) {
		var gotCurrency string
		svc := &mockExpenseService{
			addExpenseFn: func(in services.ExpenseInput) (*models.Expense, string, error) {
				gotCurrency = in.Currency
				return &models.Expense{Base: models.Base{ID: 1}, UserID: in.UserID, Amount: in.Amount, Currency: in.Currency}, "Expense added and budget updated.", nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(r, "POST", "/expenses",
			fmt.Sprintf(`{"user_id":1,"amount":10,"expense_date":%q,"currency":"SGD"}`, time.Now().Format("2006-01-02")))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotCurrency != "SGD" {
			t.Errorf("expected currency SGD passed through, got %q", gotCurrency)
		}
	})
}

func TestExpenseHandler_ListExpenses(t *testing.T) {
	t.Run("returns 200 with page", func(t *testing.T) {
		svc := &mockExpenseService{
			listExpensesFn: func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
				resp := pagination.NewPageResponse([]models.Expense{
					{Base: models.Base{ID: 1}, UserID: userID, Amount: 10},
				}, page.Page, page.PageSize, 1)
				return &resp, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(r, "GET", "/expenses/user/1?page=1&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		data := result["data"].(map[string]interface{})
		if data["total_items"] != 1.0 {
			t.Errorf("expected 1 total item, got %v", data["total_items"])
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

		rec := doRequest(r, "GET", "/expenses/user/1?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetExpense(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(_ uint) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(r, "GET", "/expenses/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_UpdateExpense(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(in services.ExpenseInput) (*models.Expense, error) {
				return &models.Expense{Base: models.Base{ID: in.ID}, Amount: in.Amount}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		body := fmt.Sprintf(`{"id":5,"user_id":1,"amount":60,"expense_date":%q}`,
			time.Now().Format("2006-01-02"))
		rec := doRequest(r, "PUT", "/expenses/update", body)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

		rec := doRequest(r, "DELETE", "/expenses/delete/5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockExpenseService{
			deleteExpenseFn: func(_ uint) error { return apperrors.ErrExpenseNotFound },
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(r, "DELETE", "/expenses/delete/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
