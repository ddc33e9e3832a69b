package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"kaihelper/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique
// username/email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	n := nextID()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@test.com", n),
		FullName: fmt.Sprintf("Test User %d", n),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:        fmt.Sprintf("Test Category %d", nextID()),
		Description: "fixture category",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBudget creates a budget spanning the current month with the
// given total, remaining balance equal to the total.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, total float64) *models.Budget {
	t.Helper()

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	budget := &models.Budget{
		UserID:           userID,
		TotalBudget:      total,
		StartDate:        start,
		EndDate:          start.AddDate(0, 1, -1),
		RemainingBalance: total,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestExpense creates an expense dated today for the given amount.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint, amount float64) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Amount:      amount,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		ExpenseDate: time.Now().Truncate(24 * time.Hour),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestGrocery creates a grocery item with a unique name.
func CreateTestGrocery(t *testing.T, db *gorm.DB, userID uint) *models.Grocery {
	t.Helper()

	grocery := &models.Grocery{
		UserID:       userID,
		ItemName:     fmt.Sprintf("Test Item %d", nextID()),
		UnitPrice:    2.50,
		Quantity:     2,
		TotalCost:    5.00,
		PurchaseDate: time.Now().Truncate(24 * time.Hour),
	}
	if err := db.Create(grocery).Error; err != nil {
		t.Fatalf("failed to create test grocery: %v", err)
	}
	return grocery
}
