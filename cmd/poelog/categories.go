package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/poelog/poelog-go/pkg/poelog"
)

// ValidCategoryNames returns the sorted slugs of every category cl can
// assign. A rule file loaded with --rules brings its own names.
func ValidCategoryNames(cl *poelog.Classifier) []string {
	cats := cl.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Slug()
	}
	slices.Sort(names)
	return names
}

// NormalizeCategories converts CLI string values to categories known to cl.
// It accepts slugs or display names ("level_up", "Level Up"), ignores
// case and surrounding whitespace, and drops duplicates.
func NormalizeCategories(cl *poelog.Classifier, values []string) ([]poelog.Category, error) {
	if len(values) == 0 {
		return nil, nil
	}

	result := make([]poelog.Category, 0, len(values))
	for _, raw := range values {
		if strings.TrimSpace(raw) == "" {
			return nil, fmt.Errorf("empty category provided (input: %q); valid categories: %s", raw, strings.Join(ValidCategoryNames(cl), ", "))
		}

		c, ok := cl.ParseCategory(raw)
		if !ok {
			return nil, fmt.Errorf("unknown category %q (valid: %s)", raw, strings.Join(ValidCategoryNames(cl), ", "))
		}
		if !slices.Contains(result, c) {
			result = append(result, c)
		}
	}
	return result, nil
}

// RejectOverlap returns an error if any category is in both includes and excludes.
func RejectOverlap(includes, excludes []poelog.Category) error {
	for _, c := range includes {
		if slices.Contains(excludes, c) {
			return fmt.Errorf("category %q cannot be both included and excluded", c.Slug())
		}
	}
	return nil
}

// categoryFilters validates include/exclude flag values against cl.
func categoryFilters(cl *poelog.Classifier, include, exclude []string) (includes, excludes []poelog.Category, err error) {
	includes, err = NormalizeCategories(cl, include)
	if err != nil {
		return nil, nil, err
	}
	excludes, err = NormalizeCategories(cl, exclude)
	if err != nil {
		return nil, nil, err
	}
	if err := RejectOverlap(includes, excludes); err != nil {
		return nil, nil, err
	}
	return includes, excludes, nil
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories of the active rule table",
	Long: `List the categories accepted by --include-categories and
--exclude-categories, in classification priority order. The fallback
category comes last unless a rule already assigns it.

With --rules or POELOG_RULES the listed categories come from that file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := loadClassifier()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, c := range cl.Categories() {
			fmt.Fprintf(out, "%-12s %s\n", c.Slug(), c)
		}
		return nil
	},
}
