// Package rules declares the referential-integrity rules between document
// collections and provides indexed lookup over them.
package rules

import "testing"

func testRules() []ReferenceRule {
	return []ReferenceRule{
		{SourceCollection: "transactions", SourceField: "categoryId", TargetCollection: "categories", OnDelete: DeleteRestrict, Required: true},
		{SourceCollection: "transactions", SourceField: "userId", TargetCollection: "users", OnDelete: DeleteCascade, Required: true},
		{SourceCollection: "goals", SourceField: "categoryId", TargetCollection: "categories", OnDelete: DeleteSetNull, Required: false},
		{SourceCollection: "goals", SourceField: "userId", TargetCollection: "users", OnDelete: DeleteCascade, Required: true},
	}
}

func TestRegistry_Lookups(t *testing.T) {
	registry := NewRegistry(testRules())

	t.Run("All preserves declaration order", func(t *testing.T) {
		all := registry.All()
		if len(all) != 4 {
			t.Fatalf("expected 4 rules, got %d", len(all))
		}
		if all[0].SourceField != "categoryId" || all[0].SourceCollection != "transactions" {
			t.Errorf("expected transactions.categoryId first, got %s.%s", all[0].SourceCollection, all[0].SourceField)
		}
		if all[3].SourceCollection != "goals" || all[3].SourceField != "userId" {
			t.Errorf("expected goals.userId last, got %s.%s", all[3].SourceCollection, all[3].SourceField)
		}
	})

	t.Run("BySource returns only matching rules in order", func(t *testing.T) {
		rules := registry.BySource("transactions")
		if len(rules) != 2 {
			t.Fatalf("expected 2 rules for transactions, got %d", len(rules))
		}
		if rules[0].SourceField != "categoryId" || rules[1].SourceField != "userId" {
			t.Errorf("unexpected rule order: %s, %s", rules[0].SourceField, rules[1].SourceField)
		}
	})

	t.Run("BySource returns nil for unknown collection", func(t *testing.T) {
		if rules := registry.BySource("nonexistent"); rules != nil {
			t.Errorf("expected nil, got %d rules", len(rules))
		}
	})

	t.Run("ByTarget finds incoming references", func(t *testing.T) {
		rules := registry.ByTarget("categories")
		if len(rules) != 2 {
			t.Fatalf("expected 2 rules targeting categories, got %d", len(rules))
		}
		if rules[0].SourceCollection != "transactions" || rules[1].SourceCollection != "goals" {
			t.Errorf("unexpected sources: %s, %s", rules[0].SourceCollection, rules[1].SourceCollection)
		}
	})

	t.Run("ByTargetPolicy filters on delete policy", func(t *testing.T) {
		restricts := registry.ByTargetPolicy("categories", DeleteRestrict)
		if len(restricts) != 1 {
			t.Fatalf("expected 1 restrict rule, got %d", len(restricts))
		}
		if restricts[0].SourceCollection != "transactions" {
			t.Errorf("expected transactions, got %s", restricts[0].SourceCollection)
		}

		setNulls := registry.ByTargetPolicy("categories", DeleteSetNull)
		if len(setNulls) != 1 || setNulls[0].SourceCollection != "goals" {
			t.Errorf("expected single goals set_null rule, got %d rules", len(setNulls))
		}

		if cascades := registry.ByTargetPolicy("categories", DeleteCascade); len(cascades) != 0 {
			t.Errorf("expected no cascade rules targeting categories, got %d", len(cascades))
		}
	})

	t.Run("SourceCollections deduplicates in first-declaration order", func(t *testing.T) {
		collections := registry.SourceCollections()
		if len(collections) != 2 {
			t.Fatalf("expected 2 source collections, got %d", len(collections))
		}
		if collections[0] != "transactions" || collections[1] != "goals" {
			t.Errorf("unexpected order: %v", collections)
		}
	})
}

func TestRegistry_IsolatedFromCallerMutation(t *testing.T) {
	input := testRules()
	registry := NewRegistry(input)

	// Mutating the caller's slice must not affect the registry.
	input[0].SourceField = "mutated"

	if registry.All()[0].SourceField != "categoryId" {
		t.Error("registry rules were affected by caller mutation")
	}

	// Mutating a returned slice must not affect later lookups.
	registry.All()[0].SourceField = "mutated"
	if registry.All()[0].SourceField != "categoryId" {
		t.Error("registry rules were affected by mutation of returned slice")
	}
}

func TestDefaultRules(t *testing.T) {
	registry := NewRegistry(DefaultRules())

	t.Run("category deletes are restricted by transactions", func(t *testing.T) {
		restricts := registry.ByTargetPolicy(CollectionCategories, DeleteRestrict)
		if len(restricts) != 1 {
			t.Fatalf("expected 1 restrict rule targeting categories, got %d", len(restricts))
		}
		if restricts[0].SourceCollection != CollectionTransactions || restricts[0].SourceField != "categoryId" {
			t.Errorf("unexpected restrict rule: %+v", restricts[0])
		}
	})

	t.Run("user deletes cascade to owned collections", func(t *testing.T) {
		cascades := registry.ByTargetPolicy(CollectionUsers, DeleteCascade)
		if len(cascades) != 4 {
			t.Fatalf("expected 4 cascade rules targeting users, got %d", len(cascades))
		}
	})

	t.Run("goal category links are optional set_null", func(t *testing.T) {
		rules := registry.ByTargetPolicy(CollectionCategories, DeleteSetNull)
		if len(rules) != 1 {
			t.Fatalf("expected 1 set_null rule targeting categories, got %d", len(rules))
		}
		if rules[0].Required {
			t.Error("goal category reference should be optional")
		}
	})
}
