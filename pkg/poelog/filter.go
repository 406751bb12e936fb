package poelog

// compiledFilter holds pre-compiled category filter configuration.
// It is created from options during session/parser initialization.
type compiledFilter struct {
	include map[Category]struct{}
	exclude map[Category]struct{}
}

// newCompiledFilter creates a new compiledFilter from include and exclude slices.
// Returns nil if both slices are empty (no filtering needed).
func newCompiledFilter(include, exclude []Category) *compiledFilter {
	if len(include) == 0 && len(exclude) == 0 {
		return nil
	}

	f := &compiledFilter{}
	f.setInclude(include)
	f.setExclude(exclude)
	return f
}

func (f *compiledFilter) setInclude(cats []Category) {
	f.include = categorySet(cats)
}

func (f *compiledFilter) setExclude(cats []Category) {
	f.exclude = categorySet(cats)
}

func categorySet(cats []Category) map[Category]struct{} {
	if len(cats) == 0 {
		return nil
	}
	m := make(map[Category]struct{}, len(cats))
	for _, c := range cats {
		m[c] = struct{}{}
	}
	return m
}

// Allows returns true if the given category passes the filter.
// If include is non-empty, only categories in include are allowed.
// Categories in exclude are always rejected (exclude takes precedence).
func (f *compiledFilter) Allows(c Category) bool {
	if f == nil {
		return true
	}

	if len(f.include) > 0 {
		if _, ok := f.include[c]; !ok {
			return false
		}
	}

	if _, ok := f.exclude[c]; ok {
		return false
	}

	return true
}
