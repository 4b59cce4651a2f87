// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AlertType represents the kind of budget alert.
type AlertType string

const (
	AlertTypeApproachingLimit AlertType = "approaching_limit"
	AlertTypeBudgetExceeded   AlertType = "budget_exceeded"
	AlertTypeOverspend        AlertType = "overspend"
)

// AlertSeverity represents how urgent a budget alert is.
type AlertSeverity string

const (
	AlertSeverityLow    AlertSeverity = "low"
	AlertSeverityMedium AlertSeverity = "medium"
	AlertSeverityHigh   AlertSeverity = "high"
)

// BudgetAlert is raised when a category's spending crosses a threshold.
// Alerts are generated once and never mutated, except for the Acknowledged
// flag which an external actor flips.
type BudgetAlert struct {
	ID           string
	Type         AlertType
	BudgetID     string
	CategoryID   string
	Message      string
	Severity     AlertSeverity
	Timestamp    time.Time
	Acknowledged bool
}

// NewBudgetAlert creates a new BudgetAlert entity.
func NewBudgetAlert(alertType AlertType, budgetID, categoryID, message string, severity AlertSeverity) *BudgetAlert {
	return &BudgetAlert{
		ID:         uuid.NewString(),
		Type:       alertType,
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Message:    message,
		Severity:   severity,
		Timestamp:  time.Now().UTC(),
	}
}
