package main

import (
	"fmt"
	"net/http"
	"os"

	"kaihelper/internal/config"
	"kaihelper/internal/database"
	"kaihelper/internal/extraction"
	"kaihelper/internal/handlers"
	"kaihelper/internal/logger"
	"kaihelper/internal/middleware"
	"kaihelper/internal/services"
	"kaihelper/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "kaihelper/internal/docs" // Import swagger docs
)

// @title           KaiHelper API
// @version         1.0
// @description     KaiHelper is a grocery budgeting backend that turns receipt photos into categorized expenses, grocery records, and budget balance updates.

// @host      localhost:8080
// @BasePath  /api

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	budgetService := services.NewBudgetService(db)
	expenseService := services.NewExpenseService(db)
	groceryService := services.NewGroceryService(db)

	extractor := extraction.NewClient(
		&http.Client{Timeout: appConfig.ExtractionTimeout},
		appConfig.OpenAIBaseURL,
		appConfig.OpenAIAPIKey,
		appConfig.OpenAIModel,
	)
	receiptService := services.NewReceiptService(extractor, categoryService, expenseService, groceryService)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	groceryHandler := handlers.NewGroceryHandler(groceryService)
	receiptHandler := handlers.NewReceiptHandler(receiptService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API group
	api := router.Group("/api")

	// User routes
	users := api.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("/profile/:id", userHandler.GetProfile)

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/user/:id", budgetHandler.ListBudgets)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.POST("", expenseHandler.AddExpense)
	expenses.GET("/user/:id", expenseHandler.ListExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/update", expenseHandler.UpdateExpense)
	expenses.DELETE("/delete/:id", expenseHandler.DeleteExpense)

	// Grocery routes
	groceries := api.Group("/groceries")
	groceries.POST("", groceryHandler.AddGrocery)
	groceries.GET("/user/:id", groceryHandler.ListGroceries)
	groceries.GET("/expense/:id", groceryHandler.ListByExpense)
	groceries.GET("/:id", groceryHandler.GetGrocery)
	groceries.PUT("/update", groceryHandler.UpdateGrocery)
	groceries.DELETE("/delete/:id", groceryHandler.DeleteGrocery)

	// Receipt routes
	receipts := api.Group("/receipts")
	receipts.POST("/upload", receiptHandler.UploadReceipt)

	log.Infof("Starting KaiHelper backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
