// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"time"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/domain/entity"
	"github.com/finance-tracker/consistency/internal/domain/rules"
)

// budgetAlertDocument is the wire shape of a budget alert. Acknowledged is
// stored so an external actor can flip it later; the engine only ever writes
// it as false.
type budgetAlertDocument struct {
	Type         string    `json:"type"`
	BudgetID     string    `json:"budgetId"`
	CategoryID   string    `json:"categoryId"`
	Message      string    `json:"message"`
	Severity     string    `json:"severity"`
	Timestamp    time.Time `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
}

// alertRepository implements adapter.AlertSink over the document store.
type alertRepository struct {
	store adapter.DocumentStore
}

// NewAlertRepository creates a new alert sink backed by the document store.
func NewAlertRepository(store adapter.DocumentStore) adapter.AlertSink {
	return &alertRepository{
		store: store,
	}
}

// Save persists one budget alert.
func (r *alertRepository) Save(ctx context.Context, alert *entity.BudgetAlert) error {
	fields, err := structToFields(budgetAlertDocument{
		Type:         string(alert.Type),
		BudgetID:     alert.BudgetID,
		CategoryID:   alert.CategoryID,
		Message:      alert.Message,
		Severity:     string(alert.Severity),
		Timestamp:    alert.Timestamp,
		Acknowledged: alert.Acknowledged,
	})
	if err != nil {
		return err
	}

	return r.store.ApplyBatch(ctx, []adapter.BatchOp{{
		Kind:       adapter.BatchOpSet,
		Collection: rules.CollectionBudgetAlerts,
		ID:         alert.ID,
		Fields:     fields,
	}})
}
