package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/models"
	"kaihelper/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn    func(name, description string) (*models.Category, error)
	listCategoriesFn    func() ([]models.Category, error)
	getCategoryByNameFn func(name string) (*models.Category, error)
	deleteCategoryFn    func(categoryID uint) error
	ensureCategoryFn    func(name string) *uint
}

func (m *mockCategoryService) CreateCategory(name, description string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(name, description)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) ListCategories() ([]models.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn()
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByName(name string) (*models.Category, error) {
	if m.getCategoryByNameFn != nil {
		return m.getCategoryByNameFn(name)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(categoryID uint) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(categoryID)
	}
	return nil
}

func (m *mockCategoryService) EnsureCategory(name string) *uint {
	if m.ensureCategoryFn != nil {
		return m.ensureCategoryFn(name)
	}
	id := uint(1)
	return &id
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	r.POST("/categories", handler.CreateCategory)
	r.GET("/categories", handler.ListCategories)
	r.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(name, description string) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: 3}, Name: name, Description: description}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "POST", "/categories", `{"name":"Groceries","description":"food"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		assertEnvelope(t, result, true)
		data := result["data"].(map[string]interface{})
		if data["name"] != "Groceries" {
			t.Errorf("expected name Groceries, got %v", data["name"])
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "POST", "/categories", `{"description":"no name"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_ListCategories(t *testing.T) {
	t.Run("returns 200 with categories", func(t *testing.T) {
		svc := &mockCategoryService{
			listCategoriesFn: func() ([]models.Category, error) {
				return []models.Category{
					{Base: models.Base{ID: 1}, Name: "Groceries"},
					{Base: models.Base{ID: 2}, Name: "Utilities"},
				}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 categories, got %d", len(data))
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "DELETE", "/categories/3", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_ uint) error { return apperrors.ErrCategoryNotFound },
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "DELETE", "/categories/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
