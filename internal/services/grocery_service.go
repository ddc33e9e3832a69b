package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/models"
	"kaihelper/internal/pagination"
)

// groceryService handles grocery item business logic.
type groceryService struct {
	db *gorm.DB
}

// NewGroceryService creates a new GroceryServicer.
func NewGroceryService(db *gorm.DB) GroceryServicer {
	return &groceryService{db: db}
}

// AddGrocery records a new grocery item. TotalCost is derived from unit
// price and quantity when not supplied, and the purchase date defaults to
// today.
func (s *groceryService) AddGrocery(in GroceryInput) (*models.Grocery, error) {
	if err := validateGroceryInput(in); err != nil {
		return nil, err
	}

	grocery := buildGrocery(in)
	if err := s.db.Create(grocery).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return grocery, nil
}

// ListGroceries retrieves a paginated list of grocery items for a user.
func (s *groceryService) ListGroceries(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Grocery], error) {
	if userID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}

	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Grocery{}).Where("user_id = ?", userID).
		Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var groceries []models.Grocery
	if err := s.db.Where("user_id = ?", userID).
		Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("purchase_date DESC, id DESC").
		Find(&groceries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(groceries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListByExpense retrieves all grocery items linked to a given expense.
func (s *groceryService) ListByExpense(expenseID uint) ([]models.Grocery, error) {
	if expenseID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense ID is required")
	}

	var groceries []models.Grocery
	if err := s.db.Where("expense_id = ?", expenseID).
		Order("id").
		Find(&groceries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return groceries, nil
}

// GetGroceryByID retrieves a grocery item by ID.
func (s *groceryService) GetGroceryByID(groceryID uint) (*models.Grocery, error) {
	var grocery models.Grocery
	if err := s.db.First(&grocery, groceryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroceryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &grocery, nil
}

// UpdateGrocery updates an existing grocery item in place.
func (s *groceryService) UpdateGrocery(in GroceryInput) (*models.Grocery, error) {
	if in.ID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "grocery ID is required for update")
	}
	if err := validateGroceryInput(in); err != nil {
		return nil, err
	}

	existing, err := s.GetGroceryByID(in.ID)
	if err != nil {
		return nil, err
	}

	if in.UserID == 0 {
		in.UserID = existing.UserID
	}

	updated := buildGrocery(in)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := s.db.Save(updated).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return updated, nil
}

// DeleteGrocery removes a grocery item.
func (s *groceryService) DeleteGrocery(groceryID uint) error {
	existing, err := s.GetGroceryByID(groceryID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(existing).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// FindByName looks up a user's grocery item by its exact name.
func (s *groceryService) FindByName(userID uint, itemName string) (*models.Grocery, error) {
	var grocery models.Grocery
	err := s.db.Where("user_id = ? AND item_name = ?", userID, itemName).
		First(&grocery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroceryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &grocery, nil
}

// SaveGrocery upserts on (user_id, item_name): when a row with the same
// name already exists for the user it is overwritten with the incoming
// values, otherwise a new row is created.
func (s *groceryService) SaveGrocery(userID uint, in GroceryInput) (*models.Grocery, error) {
	if userID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}
	in.UserID = userID
	if err := validateGroceryInput(in); err != nil {
		return nil, err
	}

	existing, err := s.FindByName(userID, in.ItemName)
	if err != nil && !errors.Is(err, apperrors.ErrGroceryNotFound) {
		return nil, err
	}

	grocery := buildGrocery(in)
	if existing != nil {
		grocery.ID = existing.ID
		grocery.CreatedAt = existing.CreatedAt
	}

	if err := s.db.Save(grocery).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return grocery, nil
}

func validateGroceryInput(in GroceryInput) error {
	if in.UserID == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}
	if strings.TrimSpace(in.ItemName) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "item name is required")
	}
	if in.UnitPrice <= 0 || in.Quantity <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unit price and quantity must be greater than zero")
	}
	if in.TotalCost < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "total cost must not be negative")
	}
	return nil
}

func buildGrocery(in GroceryInput) *models.Grocery {
	totalCost := in.TotalCost
	if totalCost == 0 && in.UnitPrice > 0 && in.Quantity > 0 {
		totalCost = in.UnitPrice * in.Quantity
	}
	purchaseDate := in.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = dateOnly(time.Now())
	}
	return &models.Grocery{
		UserID:       in.UserID,
		CategoryID:   in.CategoryID,
		ExpenseID:    in.ExpenseID,
		ItemName:     strings.TrimSpace(in.ItemName),
		UnitPrice:    in.UnitPrice,
		Quantity:     in.Quantity,
		TotalCost:    totalCost,
		PurchaseDate: dateOnly(purchaseDate),
		Notes:        in.Notes,
	}
}
