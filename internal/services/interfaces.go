package services

import (
	"context"
	"time"

	"kaihelper/internal/extraction"
	"kaihelper/internal/models"
	"kaihelper/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, fullName, password, confirmPassword string) (*models.User, error)
	Login(usernameOrEmail, password string) (*models.User, error)
	GetProfile(userID uint) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name, description string) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
	DeleteCategory(categoryID uint) error

	// EnsureCategory resolves a category id for a (possibly unnormalized)
	// name, creating the category when absent. It never fails the caller:
	// lookup/create errors are logged and reported as a nil id.
	EnsureCategory(name string) *uint
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID uint, totalBudget float64, startDate, endDate time.Time) (*models.Budget, error)
	ListBudgets(userID uint) ([]models.Budget, error)
}

// ExpenseInput carries the fields for creating or updating an expense.
type ExpenseInput struct {
	ID          uint
	UserID      uint
	CategoryID  *uint
	Amount      float64
	Description string
	ExpenseDate time.Time
	Notes       string

	StoreName      string
	StoreAddress   string
	ReceiptNumber  string
	PaymentMethod  string
	Currency       string
	SubtotalAmount *float64
	TaxAmount      *float64
	DiscountAmount *float64
	DueDate        *time.Time
	Suggestion     string
}

// ExpenseServicer defines the contract for expense-related business logic,
// including the budget ledger adjustments tied to the expense lifecycle.
type ExpenseServicer interface {
	// AddExpense records an expense and debits the active budget when the
	// expense date falls inside its range. The returned note distinguishes
	// "budget updated" from "no active budget found".
	AddExpense(in ExpenseInput) (*models.Expense, string, error)
	UpdateExpense(in ExpenseInput) (*models.Expense, error)
	DeleteExpense(expenseID uint) error
	ListExpenses(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(expenseID uint) (*models.Expense, error)
}

// GroceryInput carries the fields for creating or updating a grocery item.
type GroceryInput struct {
	ID           uint
	UserID       uint
	CategoryID   *uint
	ExpenseID    *uint
	ItemName     string
	UnitPrice    float64
	Quantity     float64
	TotalCost    float64
	PurchaseDate time.Time
	Notes        string
}

// GroceryServicer defines the contract for grocery-related business logic.
type GroceryServicer interface {
	AddGrocery(in GroceryInput) (*models.Grocery, error)
	ListGroceries(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Grocery], error)
	ListByExpense(expenseID uint) ([]models.Grocery, error)
	GetGroceryByID(groceryID uint) (*models.Grocery, error)
	UpdateGrocery(in GroceryInput) (*models.Grocery, error)
	DeleteGrocery(groceryID uint) error
	FindByName(userID uint, itemName string) (*models.Grocery, error)

	// SaveGrocery upserts on (user_id, item_name): an existing row is
	// overwritten with the incoming values (last-write-wins), otherwise a
	// new row is created.
	SaveGrocery(userID uint, in GroceryInput) (*models.Grocery, error)
}

// ReceiptExtractor turns normalized JPEG bytes into structured receipt data.
type ReceiptExtractor interface {
	Extract(ctx context.Context, jpegBytes []byte) (*extraction.Receipt, error)
}

// ReceiptSummary is the payload returned to the caller after a receipt has
// been processed. Items are reported as extracted, not as persisted, so a
// line item that failed to save still appears here.
type ReceiptSummary struct {
	Category    string            `json:"category"`
	TotalAmount float64           `json:"total_amount"`
	Suggestion  string            `json:"suggestion"`
	Items       []extraction.Item `json:"items"`
}

// ReceiptServicer defines the contract for the receipt processing pipeline.
type ReceiptServicer interface {
	ProcessReceipt(ctx context.Context, userID uint, imageBytes []byte) (*ReceiptSummary, error)
}
