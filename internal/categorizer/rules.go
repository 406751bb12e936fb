package categorizer

import "strings"

// Validator is a custom predicate evaluated after all substring checks of
// a rule have passed.
type Validator func(text string) bool

// Patterns is the predicate of a Rule. The stages are evaluated in order and
// short-circuit: any Excluded substring rejects, every Required substring
// must be present, at least one AnyOf substring must be present (when AnyOf
// is non-empty), and finally Validator must accept (when set).
type Patterns struct {
	Required  []string
	AnyOf     []string
	Excluded  []string
	Validator Validator
}

// Matches reports whether text satisfies every stage of p.
func (p Patterns) Matches(text string) bool {
	for _, s := range p.Excluded {
		if strings.Contains(text, s) {
			return false
		}
	}

	for _, s := range p.Required {
		if !strings.Contains(text, s) {
			return false
		}
	}

	if len(p.AnyOf) > 0 && !containsAny(text, p.AnyOf) {
		return false
	}

	if p.Validator != nil && !p.Validator(text) {
		return false
	}

	return true
}

// Rule assigns Name to entries matching Patterns. Lower Priority values are
// evaluated first.
type Rule struct {
	Name     string
	Priority int
	Patterns Patterns
}

func containsAny(text string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}
