// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/finance-tracker/consistency/internal/domain/entity"
)

// AlertSink persists budget alerts. Persistence failures are caught per
// alert by the caller so one bad alert does not suppress others.
type AlertSink interface {
	// Save persists one budget alert.
	Save(ctx context.Context, alert *entity.BudgetAlert) error
}

// AlertNotifier dispatches an alert to a notification channel. Dispatch is
// informed best-effort; its success is not required for correctness.
type AlertNotifier interface {
	// Notify dispatches one budget alert.
	Notify(ctx context.Context, alert *entity.BudgetAlert) error
}
