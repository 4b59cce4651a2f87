// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/domain/entity"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
	"github.com/finance-tracker/consistency/internal/domain/rules"
)

// budgetDocument is the wire shape of a budget inside the document store.
type budgetDocument struct {
	UserID     string                   `json:"userId"`
	Categories []budgetCategoryDocument `json:"categories"`
	Period     string                   `json:"period"`
	IsActive   bool                     `json:"isActive"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

type budgetCategoryDocument struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Allocated             decimal.Decimal `json:"allocated"`
	Spent                 decimal.Decimal `json:"spent"`
	TransactionCategories []string        `json:"transactionCategories"`
	LastUpdated           time.Time       `json:"lastUpdated"`
}

// budgetRepository implements adapter.BudgetRepository over the document store.
type budgetRepository struct {
	store adapter.DocumentStore
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(store adapter.DocumentStore) adapter.BudgetRepository {
	return &budgetRepository{
		store: store,
	}
}

// FindByID retrieves a budget by its id.
func (r *budgetRepository) FindByID(ctx context.Context, id string) (*entity.Budget, error) {
	doc, err := r.store.Get(ctx, rules.CollectionBudgets, id)
	if err != nil {
		if err == domainerror.ErrDocumentNotFound {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, err
	}
	return budgetFromDocument(doc)
}

// FindActiveByUser retrieves the user's active budget.
func (r *budgetRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Budget, error) {
	docs, err := r.store.Scan(ctx, rules.CollectionBudgets, adapter.FieldFilter{
		"userId":   userID.String(),
		"isActive": true,
	}, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domainerror.ErrBudgetNotFound
	}
	return budgetFromDocument(docs[0])
}

// Save writes the budget back conditional on its version.
func (r *budgetRepository) Save(ctx context.Context, budget *entity.Budget) error {
	fields, err := budgetToFields(budget)
	if err != nil {
		return err
	}

	doc := &adapter.Document{
		Collection: rules.CollectionBudgets,
		ID:         budget.ID,
		Fields:     fields,
		Version:    budget.Version,
	}
	if err := r.store.Replace(ctx, doc); err != nil {
		return err
	}

	budget.Version = doc.Version
	return nil
}

func budgetFromDocument(doc *adapter.Document) (*entity.Budget, error) {
	var budgetDoc budgetDocument
	if err := fieldsToStruct(doc.Fields, &budgetDoc); err != nil {
		return nil, fmt.Errorf("failed to decode budget %s: %w", doc.ID, err)
	}

	userID, err := uuid.Parse(budgetDoc.UserID)
	if err != nil {
		return nil, fmt.Errorf("budget %s has invalid userId: %w", doc.ID, err)
	}

	categories := make([]entity.BudgetCategory, len(budgetDoc.Categories))
	for i, c := range budgetDoc.Categories {
		categories[i] = entity.BudgetCategory{
			ID:                    c.ID,
			Name:                  c.Name,
			Allocated:             c.Allocated,
			Spent:                 c.Spent,
			TransactionCategories: c.TransactionCategories,
			LastUpdated:           c.LastUpdated,
		}
	}

	return &entity.Budget{
		ID:         doc.ID,
		UserID:     userID,
		Categories: categories,
		Period:     entity.BudgetPeriod(budgetDoc.Period),
		IsActive:   budgetDoc.IsActive,
		Version:    doc.Version,
		CreatedAt:  budgetDoc.CreatedAt,
		UpdatedAt:  budgetDoc.UpdatedAt,
	}, nil
}

func budgetToFields(budget *entity.Budget) (map[string]any, error) {
	categories := make([]budgetCategoryDocument, len(budget.Categories))
	for i, c := range budget.Categories {
		categories[i] = budgetCategoryDocument{
			ID:                    c.ID,
			Name:                  c.Name,
			Allocated:             c.Allocated,
			Spent:                 c.Spent,
			TransactionCategories: c.TransactionCategories,
			LastUpdated:           c.LastUpdated,
		}
	}

	return structToFields(budgetDocument{
		UserID:     budget.UserID.String(),
		Categories: categories,
		Period:     string(budget.Period),
		IsActive:   budget.IsActive,
		CreatedAt:  budget.CreatedAt,
		UpdatedAt:  budget.UpdatedAt,
	})
}

// fieldsToStruct decodes a raw field map into a typed document shape.
func fieldsToStruct(fields map[string]any, out any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// structToFields encodes a typed document shape into a raw field map.
func structToFields(in any) (map[string]any, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
