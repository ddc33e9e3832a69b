package models

import "time"

// Expense is one expense entry, optionally carrying receipt metadata when
// it was created from an uploaded receipt. A receipt produces exactly one
// expense for its total; the line items live in the groceries table and
// reference this record.
type Expense struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint     `json:"category_id,omitempty"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `gorm:"size:255" json:"description"`
	ExpenseDate time.Time `gorm:"not null" json:"expense_date"`
	Notes       string    `gorm:"size:500" json:"notes"`

	// Receipt metadata, populated by the receipt import pipeline.
	StoreName      string     `gorm:"size:150" json:"store_name,omitempty"`
	StoreAddress   string     `gorm:"size:255" json:"store_address,omitempty"`
	ReceiptNumber  string     `gorm:"size:100" json:"receipt_number,omitempty"`
	PaymentMethod  string     `gorm:"size:50" json:"payment_method,omitempty"`
	Currency       string     `gorm:"size:10" json:"currency,omitempty"`
	SubtotalAmount *float64   `json:"subtotal_amount,omitempty"`
	TaxAmount      *float64   `json:"tax_amount,omitempty"`
	DiscountAmount *float64   `json:"discount_amount,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Suggestion     string     `gorm:"size:255" json:"suggestion,omitempty"`

	Category  *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Groceries []Grocery `gorm:"foreignKey:ExpenseID" json:"groceries,omitempty"`
}
