package services

import (
	"context"
	"errors"
	"time"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/extraction"
	"kaihelper/internal/logger"
)

const (
	receiptExpenseNote = "Auto-added from receipt scan"
	receiptGroceryNote = "Auto-added from receipt"
)

// receiptService orchestrates the receipt import pipeline: image
// normalization, structured extraction, category reconciliation, expense
// recording, and grocery upserts.
type receiptService struct {
	extractor  ReceiptExtractor
	categories CategoryServicer
	expenses   ExpenseServicer
	groceries  GroceryServicer
}

// NewReceiptService creates a new ReceiptServicer.
func NewReceiptService(extractor ReceiptExtractor, categories CategoryServicer, expenses ExpenseServicer, groceries GroceryServicer) ReceiptServicer {
	return &receiptService{
		extractor:  extractor,
		categories: categories,
		expenses:   expenses,
		groceries:  groceries,
	}
}

// ProcessReceipt runs the full receipt import for one uploaded image. The
// image is validated and re-encoded before any model call, so malformed
// uploads never reach the extractor. A failed expense insert aborts the
// import before any grocery is written; a failed grocery upsert is logged
// and skipped so one bad line item cannot lose the rest of the receipt.
func (s *receiptService) ProcessReceipt(ctx context.Context, userID uint, imageBytes []byte) (*ReceiptSummary, error) {
	if userID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}

	jpegBytes, err := extraction.NormalizeImage(imageBytes)
	if err != nil {
		return nil, err
	}

	receipt, err := s.extractor.Extract(ctx, jpegBytes)
	if err != nil {
		return nil, err
	}

	categoryID := s.categories.EnsureCategory(receipt.Category)

	today := dateOnly(time.Now())
	expense, note, err := s.expenses.AddExpense(ExpenseInput{
		UserID:         userID,
		CategoryID:     categoryID,
		Amount:         receipt.TotalAmount,
		Description:    expenseDescription(receipt),
		ExpenseDate:    today,
		Notes:          receiptExpenseNote,
		StoreName:      receipt.StoreName,
		StoreAddress:   receipt.StoreAddress,
		ReceiptNumber:  receipt.ReceiptNumber,
		PaymentMethod:  receipt.PaymentMethod,
		Currency:       receipt.Currency,
		SubtotalAmount: receipt.SubtotalAmount,
		TaxAmount:      receipt.TaxAmount,
		DiscountAmount: receipt.DiscountAmount,
		DueDate:        parseReceiptDate(receipt.DueDate),
		Suggestion:     receipt.Suggestion,
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, apperrors.WithMessage(appErr, "Failed to record receipt expense: "+appErr.Message)
		}
		return nil, apperrors.WithMessage(apperrors.ErrInternalServer, "Failed to record receipt expense")
	}

	for _, item := range receipt.Items {
		_, gerr := s.groceries.SaveGrocery(userID, GroceryInput{
			CategoryID:   categoryID,
			ExpenseID:    &expense.ID,
			ItemName:     item.ItemName,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			TotalCost:    itemTotal(item),
			PurchaseDate: today,
			Notes:        receiptGroceryNote,
		})
		if gerr != nil {
			logger.Get().Warnw("skipping grocery item from receipt",
				"item_name", item.ItemName, "error", gerr)
		}
	}

	logger.Get().Infow("receipt processed",
		"user_id", userID,
		"item_count", len(receipt.Items),
		"total_amount", receipt.TotalAmount,
		"note", note)

	return &ReceiptSummary{
		Category:    receipt.Category,
		TotalAmount: receipt.TotalAmount,
		Suggestion:  receipt.Suggestion,
		Items:       receipt.Items,
	}, nil
}

// expenseDescription labels the receipt-level expense with the model's
// suggestion text, falling back to the generic scan note.
func expenseDescription(r *extraction.Receipt) string {
	if r.Suggestion != "" {
		return r.Suggestion
	}
	return receiptExpenseNote
}

func itemTotal(item extraction.Item) float64 {
	if item.TotalPrice != nil {
		return *item.TotalPrice
	}
	return item.UnitPrice * item.Quantity
}

// parseReceiptDate turns an ISO date string from the model into a time,
// ignoring anything unparseable.
func parseReceiptDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
