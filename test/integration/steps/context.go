// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/application/usecase/budget"
	"github.com/finance-tracker/consistency/internal/application/usecase/integrity"
	"github.com/finance-tracker/consistency/internal/domain/entity"
	"github.com/finance-tracker/consistency/internal/domain/rules"
	"github.com/finance-tracker/consistency/internal/domain/valueobject"
	"github.com/finance-tracker/consistency/internal/integration/lock"
	"github.com/finance-tracker/consistency/internal/integration/persistence"
	"github.com/finance-tracker/consistency/internal/integration/persistence/model"
)

// TestContext holds the test state for each scenario. Every scenario gets a
// fresh in-memory database wired through the real persistence layer.
type TestContext struct {
	store      adapter.DocumentStore
	budgetRepo adapter.BudgetRepository

	validateDocument   *integrity.ValidateDocumentUseCase
	validateCollection *integrity.ValidateCollectionUseCase
	checkDelete        *integrity.CheckDeleteUseCase
	cascadingDelete    *integrity.CascadingDeleteUseCase
	repairOrphans      *integrity.RepairOrphansUseCase

	tracker     *budget.SpendingTracker
	preview     *budget.PreviewImpactUseCase
	recalculate *budget.RecalculateBudgetUseCase

	userID   uuid.UUID
	budgetID string

	lastValidation *valueobject.ValidationResult
	lastCheck      *valueobject.DeleteCheck
	lastPlan       *valueobject.CascadePlan
	lastRepair     *valueobject.RepairResult
	lastEntry      *entity.LedgerEntry
	lastImpact     *entity.BudgetImpact
	lastPreview    *budget.PreviewImpactOutput
	lastRecalc     *budget.RecalculateBudgetOutput
}

func newTestContext() (*TestContext, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}
	if err := db.AutoMigrate(&model.DocumentModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	registry := rules.NewRegistry(rules.DefaultRules())
	store := persistence.NewDocumentStore(db)
	budgetRepo := persistence.NewBudgetRepository(store)
	ledgerRepo := persistence.NewLedgerRepository(store)
	auditSink := persistence.NewAuditRepository(store)
	alertSink := persistence.NewAlertRepository(store)

	return &TestContext{
		store:              store,
		budgetRepo:         budgetRepo,
		validateDocument:   integrity.NewValidateDocumentUseCase(registry, store),
		validateCollection: integrity.NewValidateCollectionUseCase(registry, store),
		checkDelete:        integrity.NewCheckDeleteUseCase(registry, store),
		cascadingDelete:    integrity.NewCascadingDeleteUseCase(registry, store),
		repairOrphans:      integrity.NewRepairOrphansUseCase(store),
		tracker:            budget.NewSpendingTracker(budgetRepo, auditSink, alertSink, nil),
		preview:            budget.NewPreviewImpactUseCase(budgetRepo),
		recalculate: budget.NewRecalculateBudgetUseCase(
			budgetRepo, ledgerRepo, lock.NewNoopLocker(), auditSink),
		userID: uuid.New(),
	}, nil
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

func getTestContext(ctx context.Context) *TestContext {
	tc, _ := ctx.Value(contextKey{}).(*TestContext)
	return tc
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc, err := newTestContext()
		if err != nil {
			return ctx, err
		}
		return context.WithValue(ctx, contextKey{}, tc), nil
	})

	registerIntegritySteps(ctx)
	registerBudgetSteps(ctx)
}
