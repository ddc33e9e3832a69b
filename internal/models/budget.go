package models

import "time"

// Budget is a time-boxed allocation for one user. RemainingBalance is
// initialized to TotalBudget at creation and is mutated only by expense
// lifecycle events whose date falls inside [StartDate, EndDate].
type Budget struct {
	Base
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	TotalBudget      float64   `gorm:"not null" json:"total_budget"`
	StartDate        time.Time `gorm:"not null" json:"start_date"`
	EndDate          time.Time `gorm:"not null" json:"end_date"`
	RemainingBalance float64   `gorm:"not null" json:"remaining_balance"`
}
