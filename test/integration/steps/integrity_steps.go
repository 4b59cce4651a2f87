// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/application/usecase/integrity"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
)

func registerIntegritySteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^a "([^"]*)" document "([^"]*)" exists$`, aDocumentExists)
	ctx.Step(`^a "([^"]*)" document "([^"]*)" exists with:$`, aDocumentExistsWith)
	ctx.Step(`^I validate a "([^"]*)" document "([^"]*)" with:$`, iValidateADocumentWith)
	ctx.Step(`^the document is valid$`, theDocumentIsValid)
	ctx.Step(`^the document is invalid$`, theDocumentIsInvalid)
	ctx.Step(`^an orphaned reference to "([^"]*)" is reported$`, anOrphanedReferenceIsReported)
	ctx.Step(`^I check whether the "([^"]*)" document "([^"]*)" can be deleted$`, iCheckDelete)
	ctx.Step(`^the delete is allowed$`, theDeleteIsAllowed)
	ctx.Step(`^the delete is blocked by (\d+) references? from "([^"]*)"$`, theDeleteIsBlocked)
	ctx.Step(`^I plan a cascading delete of the "([^"]*)" document "([^"]*)"$`, iPlanACascadingDelete)
	ctx.Step(`^I cascade delete the "([^"]*)" document "([^"]*)"$`, iCascadeDelete)
	ctx.Step(`^the cascade plan lists (\d+) affected documents?$`, theCascadePlanLists)
	ctx.Step(`^the cascade was committed$`, theCascadeWasCommitted)
	ctx.Step(`^the cascade was not committed$`, theCascadeWasNotCommitted)
	ctx.Step(`^the "([^"]*)" document "([^"]*)" no longer exists$`, theDocumentNoLongerExists)
	ctx.Step(`^the "([^"]*)" document "([^"]*)" still exists$`, theDocumentStillExists)
	ctx.Step(`^the "([^"]*)" field of the "([^"]*)" document "([^"]*)" is null$`, theFieldIsNull)
	ctx.Step(`^I repair the reported orphans$`, iRepairTheReportedOrphans)
	ctx.Step(`^the repair fixes (\d+) documents?$`, theRepairFixes)
}

// fieldsFromTable converts a two-column field/value table into a document
// field map.
func fieldsFromTable(table *godog.Table) (map[string]any, error) {
	fields := map[string]any{}
	for i, row := range table.Rows {
		if len(row.Cells) != 2 {
			return nil, fmt.Errorf("row %d: expected two cells, got %d", i, len(row.Cells))
		}
		if i == 0 && row.Cells[0].Value == "field" {
			continue
		}
		fields[row.Cells[0].Value] = row.Cells[1].Value
	}
	return fields, nil
}

func aDocumentExists(ctx context.Context, collection, id string) error {
	tc := getTestContext(ctx)
	return tc.store.ApplyBatch(ctx, []adapter.BatchOp{{
		Kind:       adapter.BatchOpSet,
		Collection: collection,
		ID:         id,
		Fields:     map[string]any{"name": id},
	}})
}

func aDocumentExistsWith(ctx context.Context, collection, id string, table *godog.Table) error {
	tc := getTestContext(ctx)
	fields, err := fieldsFromTable(table)
	if err != nil {
		return err
	}
	return tc.store.ApplyBatch(ctx, []adapter.BatchOp{{
		Kind:       adapter.BatchOpSet,
		Collection: collection,
		ID:         id,
		Fields:     fields,
	}})
}

func iValidateADocumentWith(ctx context.Context, collection, id string, table *godog.Table) error {
	tc := getTestContext(ctx)
	fields, err := fieldsFromTable(table)
	if err != nil {
		return err
	}
	tc.lastValidation = tc.validateDocument.Execute(ctx, integrity.ValidateDocumentInput{
		Collection: collection,
		DocumentID: id,
		Fields:     fields,
	})
	return nil
}

func theDocumentIsValid(ctx context.Context) error {
	tc := getTestContext(ctx)
	if tc.lastValidation == nil {
		return errors.New("no validation was performed")
	}
	if !tc.lastValidation.IsValid {
		return fmt.Errorf("expected valid, got errors: %+v", tc.lastValidation.Errors)
	}
	return nil
}

func theDocumentIsInvalid(ctx context.Context) error {
	tc := getTestContext(ctx)
	if tc.lastValidation == nil {
		return errors.New("no validation was performed")
	}
	if tc.lastValidation.IsValid {
		return errors.New("expected invalid, got valid")
	}
	return nil
}

func anOrphanedReferenceIsReported(ctx context.Context, targetCollection string) error {
	tc := getTestContext(ctx)
	for _, orphan := range tc.lastValidation.Orphans {
		if orphan.TargetCollection == targetCollection {
			return nil
		}
	}
	return fmt.Errorf("no orphan targeting %s in %+v", targetCollection, tc.lastValidation.Orphans)
}

func iCheckDelete(ctx context.Context, collection, id string) error {
	tc := getTestContext(ctx)
	check, err := tc.checkDelete.Execute(ctx, integrity.CheckDeleteInput{
		Collection: collection,
		DocumentID: id,
	})
	if err != nil {
		return err
	}
	tc.lastCheck = check
	return nil
}

func theDeleteIsAllowed(ctx context.Context) error {
	tc := getTestContext(ctx)
	if !tc.lastCheck.CanDelete {
		return fmt.Errorf("expected delete allowed, blocked by %+v", tc.lastCheck.BlockingReferences)
	}
	return nil
}

func theDeleteIsBlocked(ctx context.Context, count int, collection string) error {
	tc := getTestContext(ctx)
	if tc.lastCheck.CanDelete {
		return errors.New("expected delete blocked")
	}
	for _, blocking := range tc.lastCheck.BlockingReferences {
		if blocking.Collection == collection && blocking.Count == count {
			return nil
		}
	}
	return fmt.Errorf("no blocking reference of count %d from %s in %+v",
		count, collection, tc.lastCheck.BlockingReferences)
}

func iPlanACascadingDelete(ctx context.Context, collection, id string) error {
	return runCascade(ctx, collection, id, true)
}

func iCascadeDelete(ctx context.Context, collection, id string) error {
	return runCascade(ctx, collection, id, false)
}

func runCascade(ctx context.Context, collection, id string, dryRun bool) error {
	tc := getTestContext(ctx)
	plan, err := tc.cascadingDelete.Execute(ctx, integrity.CascadingDeleteInput{
		Collection: collection,
		DocumentID: id,
		DryRun:     dryRun,
	})
	if err != nil {
		return err
	}
	tc.lastPlan = plan
	return nil
}

func theCascadePlanLists(ctx context.Context, count int) error {
	tc := getTestContext(ctx)
	if len(tc.lastPlan.AffectedDocuments) != count {
		return fmt.Errorf("expected %d affected documents, got %d: %+v",
			count, len(tc.lastPlan.AffectedDocuments), tc.lastPlan.AffectedDocuments)
	}
	return nil
}

func theCascadeWasCommitted(ctx context.Context) error {
	tc := getTestContext(ctx)
	if !tc.lastPlan.Committed {
		return fmt.Errorf("expected committed cascade, errors: %v", tc.lastPlan.Errors)
	}
	return nil
}

func theCascadeWasNotCommitted(ctx context.Context) error {
	tc := getTestContext(ctx)
	if tc.lastPlan.Committed {
		return errors.New("expected cascade not committed")
	}
	return nil
}

func theDocumentNoLongerExists(ctx context.Context, collection, id string) error {
	tc := getTestContext(ctx)
	_, err := tc.store.Get(ctx, collection, id)
	if !errors.Is(err, domainerror.ErrDocumentNotFound) {
		return fmt.Errorf("expected %s/%s gone, got %v", collection, id, err)
	}
	return nil
}

func theDocumentStillExists(ctx context.Context, collection, id string) error {
	tc := getTestContext(ctx)
	if _, err := tc.store.Get(ctx, collection, id); err != nil {
		return fmt.Errorf("expected %s/%s to exist: %w", collection, id, err)
	}
	return nil
}

func theFieldIsNull(ctx context.Context, field, collection, id string) error {
	tc := getTestContext(ctx)
	doc, err := tc.store.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	if value := doc.Fields[field]; value != nil {
		return fmt.Errorf("expected %s null, got %v", field, value)
	}
	return nil
}

func iRepairTheReportedOrphans(ctx context.Context) error {
	tc := getTestContext(ctx)
	if tc.lastValidation == nil {
		return errors.New("no validation to repair from")
	}
	tc.lastRepair = tc.repairOrphans.Execute(ctx, integrity.RepairOrphansInput{
		Orphans: tc.lastValidation.Orphans,
	})
	return nil
}

func theRepairFixes(ctx context.Context, count int) error {
	tc := getTestContext(ctx)
	if tc.lastRepair.Fixed != count {
		return fmt.Errorf("expected %d fixed, got %d (errors: %v)",
			count, tc.lastRepair.Fixed, tc.lastRepair.Errors)
	}
	return nil
}
