package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/extraction"
	"kaihelper/internal/logger"
	"kaihelper/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category.
func (s *categoryService) CreateCategory(name, description string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category := &models.Category{
		Name:        name,
		Description: description,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// ListCategories retrieves all categories.
func (s *categoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByName retrieves a category by exact name.
func (s *categoryService) GetCategoryByName(name string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// DeleteCategory deletes a category by ID.
func (s *categoryService) DeleteCategory(categoryID uint) error {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// EnsureCategory finds or creates a category for the normalized name.
// Receipt import treats category association as best effort: any failure
// here is logged and reported as a nil id rather than aborting the caller.
func (s *categoryService) EnsureCategory(name string) *uint {
	name = extraction.Capitalize(name)
	if name == "" {
		return nil
	}

	existing, err := s.GetCategoryByName(name)
	if err == nil {
		logger.Get().Debugw("using existing category", "name", name, "category_id", existing.ID)
		return &existing.ID
	}
	if !errors.Is(err, apperrors.ErrCategoryNotFound) {
		logger.Get().Warnw("category lookup failed", "name", name, "error", err)
		return nil
	}

	created, err := s.CreateCategory(name, fmt.Sprintf("Auto-added category from receipt import: %s", name))
	if err != nil {
		logger.Get().Warnw("failed to create category", "name", name, "error", err)
		return nil
	}

	logger.Get().Infow("created category from receipt import", "name", name, "category_id", created.ID)
	return &created.ID
}
