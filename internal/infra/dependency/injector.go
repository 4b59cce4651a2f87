// Package dependency provides dependency injection for the application.
package dependency

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/consistency/config"
	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/application/usecase/budget"
	"github.com/finance-tracker/consistency/internal/application/usecase/integrity"
	"github.com/finance-tracker/consistency/internal/domain/rules"
	"github.com/finance-tracker/consistency/internal/integration/adapters"
	"github.com/finance-tracker/consistency/internal/integration/cache"
	"github.com/finance-tracker/consistency/internal/integration/lock"
	"github.com/finance-tracker/consistency/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config   *config.Config
	DB       *gorm.DB
	Registry *rules.Registry

	Store adapter.DocumentStore

	ValidateDocument   *integrity.ValidateDocumentUseCase
	ValidateCollection *integrity.ValidateCollectionUseCase
	CheckDelete        *integrity.CheckDeleteUseCase
	CascadingDelete    *integrity.CascadingDeleteUseCase
	RepairOrphans      *integrity.RepairOrphansUseCase
	ReferenceChecker   *integrity.ReferenceChecker

	SpendingTracker *budget.SpendingTracker
	PreviewImpact   *budget.PreviewImpactUseCase
	Recalculate     *budget.RecalculateBudgetUseCase
}

// NewInjector creates a new dependency injector with all dependencies wired.
// A nil redisClient wires the in-process cache and noop locking instead of
// the shared Redis-backed variants.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	registry := rules.NewRegistry(rules.DefaultRules())

	// Create store and repositories
	store := persistence.NewDocumentStore(db)
	budgetRepo := persistence.NewBudgetRepository(store)
	ledgerRepo := persistence.NewLedgerRepository(store)
	auditSink := persistence.NewAuditRepository(store)
	alertSink := persistence.NewAlertRepository(store)

	// Create cache and locker
	var existenceCache adapter.ExistenceCache
	var budgetLocker adapter.BudgetLocker
	if redisClient != nil {
		existenceCache = cache.NewRedisCache(redisClient)
		budgetLocker = lock.NewRedisLocker(redisClient, cfg.Maintenance.BudgetLockTTL)
	} else {
		existenceCache = cache.NewMemoryCache()
		budgetLocker = lock.NewNoopLocker()
	}

	notifier := adapters.NewLogNotifier()

	// Create integrity use cases
	validateDocumentUseCase := integrity.NewValidateDocumentUseCase(registry, store)
	validateCollectionUseCase := integrity.NewValidateCollectionUseCase(registry, store)
	checkDeleteUseCase := integrity.NewCheckDeleteUseCase(registry, store)
	cascadingDeleteUseCase := integrity.NewCascadingDeleteUseCase(registry, store)
	repairOrphansUseCase := integrity.NewRepairOrphansUseCase(store)
	referenceChecker := integrity.NewReferenceChecker(store, existenceCache, cfg.Cache.ReferenceTTL)

	// Create budget use cases
	spendingTracker := budget.NewSpendingTracker(budgetRepo, auditSink, alertSink, notifier)
	previewImpactUseCase := budget.NewPreviewImpactUseCase(budgetRepo)
	recalculateUseCase := budget.NewRecalculateBudgetUseCase(budgetRepo, ledgerRepo, budgetLocker, auditSink)

	return &Injector{
		Config:             cfg,
		DB:                 db,
		Registry:           registry,
		Store:              store,
		ValidateDocument:   validateDocumentUseCase,
		ValidateCollection: validateCollectionUseCase,
		CheckDelete:        checkDeleteUseCase,
		CascadingDelete:    cascadingDeleteUseCase,
		RepairOrphans:      repairOrphansUseCase,
		ReferenceChecker:   referenceChecker,
		SpendingTracker:    spendingTracker,
		PreviewImpact:      previewImpactUseCase,
		Recalculate:        recalculateUseCase,
	}
}
