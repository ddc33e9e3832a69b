package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/models"
	"kaihelper/internal/pagination"
)

// Notes returned alongside a successful expense creation.
const (
	noteBudgetUpdated = "Expense added and budget updated."
	noteNoBudget      = "Expense recorded, but no active budget found."
)

// expenseService handles expense business logic and the budget ledger
// adjustments tied to the expense lifecycle.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// AddExpense records a new expense. Inside one database transaction the
// expense row is inserted and, when the active budget's range contains the
// expense date, the budget balance is debited with a guarded atomic
// decrement: if the decrement would drive the balance negative, zero rows
// match and the whole transaction rolls back, so an overspending expense is
// never persisted. Concurrent creates contend on the same guarded UPDATE.
func (s *expenseService) AddExpense(in ExpenseInput) (*models.Expense, string, error) {
	if in.Amount <= 0 {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "expense amount must be greater than zero")
	}
	if in.UserID == 0 {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}
	if in.ExpenseDate.IsZero() || dateOnly(in.ExpenseDate).After(dateOnly(time.Now())) {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid expense date")
	}

	expense := buildExpense(in)
	note := noteBudgetUpdated

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		budget, err := activeBudget(tx, in.UserID)
		if err != nil {
			return err
		}
		if budget == nil {
			note = noteNoBudget
			return nil
		}
		if !dateInRange(in.ExpenseDate, budget.StartDate, budget.EndDate) {
			return nil
		}

		res := tx.Model(&models.Budget{}).
			Where("id = ? AND remaining_balance >= ?", budget.ID, in.Amount).
			Update("remaining_balance", gorm.Expr("remaining_balance - ?", in.Amount))
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrInsufficientBudget
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return expense, note, nil
}

// UpdateExpense updates an existing expense and shifts the active budget's
// balance by the amount difference when the budget's range still contains
// the (possibly new) expense date. Unlike creation there is no overspend
// guard on the difference.
func (s *expenseService) UpdateExpense(in ExpenseInput) (*models.Expense, error) {
	if in.ID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense ID is required for update")
	}

	existing, err := s.GetExpenseByID(in.ID)
	if err != nil {
		return nil, err
	}

	difference := in.Amount - existing.Amount
	if in.UserID == 0 {
		in.UserID = existing.UserID
	}

	updated := buildExpense(in)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(updated).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		budget, err := activeBudget(tx, in.UserID)
		if err != nil {
			return err
		}
		if budget == nil || !dateInRange(in.ExpenseDate, budget.StartDate, budget.EndDate) {
			return nil
		}

		res := tx.Model(&models.Budget{}).
			Where("id = ?", budget.ID).
			Update("remaining_balance", gorm.Expr("remaining_balance - ?", difference))
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteExpense removes an expense, first crediting its amount back to the
// active budget when that budget's range contains the expense date. The
// deletion proceeds whether or not a budget was found.
func (s *expenseService) DeleteExpense(expenseID uint) error {
	existing, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := activeBudget(tx, existing.UserID)
		if err != nil {
			return err
		}
		if budget != nil && dateInRange(existing.ExpenseDate, budget.StartDate, budget.EndDate) {
			res := tx.Model(&models.Budget{}).
				Where("id = ?", budget.ID).
				Update("remaining_balance", gorm.Expr("remaining_balance + ?", existing.Amount))
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
			}
		}

		if err := tx.Delete(existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ListExpenses retrieves a paginated list of expenses for a user, most
// recent first.
func (s *expenseService) ListExpenses(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if userID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}

	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Expense{}).Where("user_id = ?", userID).
		Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := s.db.Where("user_id = ?", userID).
		Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("expense_date DESC, id DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense by ID.
func (s *expenseService) GetExpenseByID(expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.First(&expense, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

func buildExpense(in ExpenseInput) *models.Expense {
	return &models.Expense{
		UserID:         in.UserID,
		CategoryID:     in.CategoryID,
		Amount:         in.Amount,
		Description:    in.Description,
		ExpenseDate:    dateOnly(in.ExpenseDate),
		Notes:          in.Notes,
		StoreName:      in.StoreName,
		StoreAddress:   in.StoreAddress,
		ReceiptNumber:  in.ReceiptNumber,
		PaymentMethod:  in.PaymentMethod,
		Currency:       in.Currency,
		SubtotalAmount: in.SubtotalAmount,
		TaxAmount:      in.TaxAmount,
		DiscountAmount: in.DiscountAmount,
		DueDate:        in.DueDate,
		Suggestion:     in.Suggestion,
	}
}
