package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kaihelper/internal/extraction"
	"kaihelper/internal/handlers"
	"kaihelper/internal/logger"
	"kaihelper/internal/middleware"
	"kaihelper/internal/models"
	"kaihelper/internal/services"
	"kaihelper/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// stubExtractor backs tests that never reach the extraction step.
type stubExtractor struct{}

func (stubExtractor) Extract(context.Context, []byte) (*extraction.Receipt, error) {
	return nil, fmt.Errorf("extractor not configured for this test")
}

// newExtractionClient points the receipt extraction client at a test backend.
func newExtractionClient(backend *httptest.Server) *extraction.Client {
	return extraction.NewClient(backend.Client(), backend.URL, "test-key", "gpt-4o-mini")
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.EmailVerificationCode{},
		&models.Category{},
		&models.Budget{},
		&models.Expense{},
		&models.Grocery{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite. Tests that exercise receipt uploads should use setupAppWithExtractor.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppWithExtractor(t, stubExtractor{})
}

// setupAppWithExtractor wires the whole stack around the given receipt extractor.
func setupAppWithExtractor(t *testing.T, extractor services.ReceiptExtractor) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	budgetService := services.NewBudgetService(db)
	expenseService := services.NewExpenseService(db)
	groceryService := services.NewGroceryService(db)
	receiptService := services.NewReceiptService(extractor, categoryService, expenseService, groceryService)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	groceryHandler := handlers.NewGroceryHandler(groceryService)
	receiptHandler := handlers.NewReceiptHandler(receiptService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")

	users := api.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("/profile/:id", userHandler.GetProfile)

	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	budgets := api.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/user/:id", budgetHandler.ListBudgets)

	expenses := api.Group("/expenses")
	expenses.POST("", expenseHandler.AddExpense)
	expenses.GET("/user/:id", expenseHandler.ListExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/update", expenseHandler.UpdateExpense)
	expenses.DELETE("/delete/:id", expenseHandler.DeleteExpense)

	groceries := api.Group("/groceries")
	groceries.POST("", groceryHandler.AddGrocery)
	groceries.GET("/user/:id", groceryHandler.ListGroceries)
	groceries.GET("/expense/:id", groceryHandler.ListByExpense)
	groceries.GET("/:id", groceryHandler.GetGrocery)
	groceries.PUT("/update", groceryHandler.UpdateGrocery)
	groceries.DELETE("/delete/:id", groceryHandler.DeleteGrocery)

	receipts := api.Group("/receipts")
	receipts.POST("/upload", receiptHandler.UploadReceipt)

	return &testApp{DB: db, Router: router}
}

// request makes a JSON HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// multipart makes a multipart/form-data request carrying one file plus form fields.
func (app *testApp) multipart(t *testing.T, path string, fields map[string]string, fileField, fileName string, fileContent []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field %s: %v", key, err)
		}
	}
	part, err := w.CreateFormFile(fileField, fileName)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(fileContent); err != nil {
		t.Fatalf("failed to write file content: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// data extracts the envelope data object from a parsed response.
func data(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected object in data field, got %T", result["data"])
	}
	return d
}

// registerUser registers a new user through the API and returns the user ID.
func (app *testApp) registerUser(t *testing.T, username string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"full_name":"Test User","password":"password123","confirm_password":"password123"}`,
		username, username+"@test.com")
	rec := app.request("POST", "/api/users/register", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	return data(t, parseJSON(t, rec))["id"].(float64)
}
