package models

// Category groups expenses and groceries under a shared label.
// Categories are global rather than per-user; receipt imports create
// them on demand when no category with the normalized name exists.
type Category struct {
	Base
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	Expenses  []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
	Groceries []Grocery `gorm:"foreignKey:CategoryID" json:"groceries,omitempty"`
}
