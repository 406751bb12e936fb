// Package categorizer assigns a category to assembled client log entries.
//
// Categorization walks an ordered table of rules and returns the name of the
// first rule whose Patterns match the entry text. Rules are sorted by
// priority once, at construction; rules sharing a priority keep their
// declaration order. The table, its fallback and the dialogue heuristics'
// deny-lists are loaded from YAML (see RuleSet); a default table is
// embedded in the binary.
package categorizer

import (
	"slices"

	"github.com/poelog/poelog-go/pkg/poelog/event"
)

// Categorizer classifies entry text. It is immutable after New and safe for
// concurrent use.
type Categorizer struct {
	rules    []Rule
	fallback event.Category
}

// New returns a Categorizer over a copy of rules, stably sorted by priority.
// fallback is returned by Classify when no rule matches.
func New(rules []Rule, fallback event.Category) *Categorizer {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b Rule) int {
		return a.Priority - b.Priority
	})
	return &Categorizer{rules: sorted, fallback: fallback}
}

// Classify returns the category of text. It always returns a category.
func (c *Categorizer) Classify(text string) event.Category {
	for _, r := range c.rules {
		if r.Patterns.Matches(text) {
			return event.Category(r.Name)
		}
	}
	return c.fallback
}

// Rules returns the rules in evaluation order.
func (c *Categorizer) Rules() []Rule {
	return slices.Clone(c.rules)
}

// Fallback returns the category used when no rule matches.
func (c *Categorizer) Fallback() event.Category {
	return c.fallback
}
