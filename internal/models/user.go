package models

// User represents a registered user.
type User struct {
	Base
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FullName string `gorm:"size:100" json:"full_name"`
	Password string `gorm:"size:255;not null" json:"-"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Budgets   []Budget  `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
	Expenses  []Expense `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
	Groceries []Grocery `gorm:"foreignKey:UserID" json:"groceries,omitempty"`
}
