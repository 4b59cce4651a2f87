// Package adapters provides service implementations for application interfaces.
package adapters

import (
	"context"
	"log/slog"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/domain/entity"
)

// logNotifier implements adapter.AlertNotifier by logging the alert. The real
// notification channel (push, email) is a separate collaborator outside this
// core; this adapter stands in wherever none is configured.
type logNotifier struct{}

// NewLogNotifier creates a notifier that logs alerts instead of dispatching them.
func NewLogNotifier() adapter.AlertNotifier {
	return &logNotifier{}
}

// Notify logs the alert.
func (n *logNotifier) Notify(_ context.Context, alert *entity.BudgetAlert) error {
	slog.Info("Budget alert notification",
		"alertType", alert.Type,
		"severity", alert.Severity,
		"budgetID", alert.BudgetID,
		"categoryID", alert.CategoryID,
		"message", alert.Message,
	)
	return nil
}
