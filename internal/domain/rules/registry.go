// Package rules declares the referential-integrity rules between document
// collections and provides indexed lookup over them.
package rules

// Registry is a static, read-only lookup structure over a declared rule set,
// indexed by collection name in both directions. It has no state beyond the
// rules themselves and no failure modes.
type Registry struct {
	ordered  []ReferenceRule
	bySource map[string][]ReferenceRule
	byTarget map[string][]ReferenceRule
}

// NewRegistry builds a registry from the given rules. Declaration order is
// preserved in every lookup; validation results mirror it and tests may rely
// on this.
func NewRegistry(ruleSet []ReferenceRule) *Registry {
	r := &Registry{
		ordered:  make([]ReferenceRule, len(ruleSet)),
		bySource: make(map[string][]ReferenceRule),
		byTarget: make(map[string][]ReferenceRule),
	}
	copy(r.ordered, ruleSet)

	for _, rule := range r.ordered {
		r.bySource[rule.SourceCollection] = append(r.bySource[rule.SourceCollection], rule)
		r.byTarget[rule.TargetCollection] = append(r.byTarget[rule.TargetCollection], rule)
	}

	return r
}

// All returns every rule in declaration order.
func (r *Registry) All() []ReferenceRule {
	out := make([]ReferenceRule, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// BySource returns all rules whose source is the given collection.
func (r *Registry) BySource(collection string) []ReferenceRule {
	return r.bySource[collection]
}

// ByTarget returns all rules whose target is the given collection.
func (r *Registry) ByTarget(collection string) []ReferenceRule {
	return r.byTarget[collection]
}

// SourceCollections returns every collection with outgoing references, in
// first-declaration order.
func (r *Registry) SourceCollections() []string {
	seen := make(map[string]bool)
	var out []string
	for _, rule := range r.ordered {
		if seen[rule.SourceCollection] {
			continue
		}
		seen[rule.SourceCollection] = true
		out = append(out, rule.SourceCollection)
	}
	return out
}

// ByTargetPolicy returns all rules whose target is the given collection and
// whose delete policy matches.
func (r *Registry) ByTargetPolicy(collection string, policy DeletePolicy) []ReferenceRule {
	var out []ReferenceRule
	for _, rule := range r.byTarget[collection] {
		if rule.OnDelete == policy {
			out = append(out, rule)
		}
	}
	return out
}
