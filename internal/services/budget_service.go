package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget validates and creates a new budget. The remaining balance
// starts equal to the total and is only ever mutated by expense lifecycle
// events.
func (s *budgetService) CreateBudget(userID uint, totalBudget float64, startDate, endDate time.Time) (*models.Budget, error) {
	if userID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}
	if totalBudget <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total budget must be greater than zero")
	}

	startDate = dateOnly(startDate)
	endDate = dateOnly(endDate)
	if !startDate.Before(endDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must be after start date")
	}
	if startDate.Before(dateOnly(time.Now())) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start date cannot be in the past")
	}

	budget := &models.Budget{
		UserID:           userID,
		TotalBudget:      totalBudget,
		StartDate:        startDate,
		EndDate:          endDate,
		RemainingBalance: totalBudget,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// ListBudgets retrieves all budgets for a user, oldest first.
func (s *budgetService) ListBudgets(userID uint) ([]models.Budget, error) {
	if userID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}

	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).Order("created_at, id").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// activeBudget resolves "the active budget" for a user: the most recently
// created one, by explicit created_at (then id) ordering. When a user has
// overlapping budgets, ledger adjustments apply only to this one. Returns
// nil without error when the user has no budgets.
func activeBudget(tx *gorm.DB, userID uint) (*models.Budget, error) {
	var budget models.Budget
	err := tx.Where("user_id = ?", userID).Order("created_at DESC, id DESC").First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}
