// Package main is the entry point for the consistency maintenance job.
//
// Usage:
//
//	maintenance validate [-collection transactions] [-repair]
//	maintenance recalculate -user <uuid> [-budget <id>]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/consistency/config"
	"github.com/finance-tracker/consistency/internal/application/usecase/budget"
	"github.com/finance-tracker/consistency/internal/application/usecase/integrity"
	"github.com/finance-tracker/consistency/internal/domain/valueobject"
	"github.com/finance-tracker/consistency/internal/infra/db"
	"github.com/finance-tracker/consistency/internal/infra/dependency"
	"github.com/finance-tracker/consistency/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()

	// Initialize database connection
	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := database.AutoMigrate(&model.DocumentModel{}); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// Redis is optional; without it the job runs with in-process caching and
	// no cross-process budget locking.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.Error("Invalid Redis URL", "error", err)
			os.Exit(1)
		}
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	injector := dependency.NewInjector(cfg, database.DB(), redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Maintenance.OperationLimit)
	defer cancel()

	switch os.Args[1] {
	case "validate":
		err = runValidate(ctx, injector, os.Args[2:])
	case "recalculate":
		err = runRecalculate(ctx, injector, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		slog.Error("Maintenance job failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: maintenance <validate|recalculate> [flags]")
}

// runValidate scans one or all collections for dangling references and
// optionally repairs the orphans it finds.
func runValidate(ctx context.Context, injector *dependency.Injector, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	collection := fs.String("collection", "", "collection to validate (default: every collection with outgoing references)")
	repair := fs.Bool("repair", false, "null out dangling optional references after reporting them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	collections := injector.Registry.SourceCollections()
	if *collection != "" {
		collections = []string{*collection}
	}

	limit := injector.Config.Maintenance.ScanLimit
	var orphans []valueobject.OrphanedReference
	for _, name := range collections {
		result := injector.ValidateCollection.Execute(ctx, integrity.ValidateCollectionInput{
			Collection: name,
			Limit:      limit,
		})
		slog.Info("Collection validated",
			"collection", name,
			"valid", result.IsValid,
			"errors", len(result.Errors),
			"warnings", len(result.Warnings),
			"orphans", len(result.Orphans),
		)
		orphans = append(orphans, result.Orphans...)
	}

	if !*repair || len(orphans) == 0 {
		return nil
	}

	repairResult := injector.RepairOrphans.Execute(ctx, integrity.RepairOrphansInput{
		Orphans: orphans,
	})
	slog.Info("Orphans repaired",
		"fixed", repairResult.Fixed,
		"failed", len(repairResult.Failed),
	)
	return nil
}

// runRecalculate re-derives a user's budget aggregates from the ledger.
func runRecalculate(ctx context.Context, injector *dependency.Injector, args []string) error {
	fs := flag.NewFlagSet("recalculate", flag.ExitOnError)
	userFlag := fs.String("user", "", "user ID (required)")
	budgetFlag := fs.String("budget", "", "budget ID (default: the user's active budget)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		return fmt.Errorf("invalid -user flag: %w", err)
	}

	output, err := injector.Recalculate.Execute(ctx, budget.RecalculateBudgetInput{
		UserID:   userID,
		BudgetID: *budgetFlag,
	})
	if err != nil {
		return err
	}

	slog.Info("Budget recalculated",
		"budgetID", output.BudgetID,
		"entriesApplied", output.EntriesApplied,
		"categories", len(output.CategoryTotals),
	)
	return nil
}
