package models

import "time"

// Grocery is a single purchased line item. The reconciliation key is
// (user_id, item_name): importing the same item name again updates the
// existing row instead of creating a duplicate.
type Grocery struct {
	Base
	UserID       uint      `gorm:"not null;index:idx_groceries_user_item" json:"user_id"`
	CategoryID   *uint     `json:"category_id,omitempty"`
	ExpenseID    *uint     `gorm:"index" json:"expense_id,omitempty"`
	ItemName     string    `gorm:"size:100;not null;index:idx_groceries_user_item" json:"item_name"`
	UnitPrice    float64   `gorm:"not null" json:"unit_price"`
	Quantity     float64   `gorm:"not null" json:"quantity"`
	TotalCost    float64   `gorm:"not null" json:"total_cost"`
	PurchaseDate time.Time `gorm:"not null" json:"purchase_date"`
	Notes        string    `gorm:"size:255" json:"notes"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Expense  *Expense  `gorm:"foreignKey:ExpenseID" json:"expense,omitempty"`
}
