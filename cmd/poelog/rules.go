package main

import (
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rule table as YAML",
	Long: `Print the rule table used for categorization: the built-in table, or
the file given by --rules / POELOG_RULES.

The output is a valid rule file. Save it, edit the tag lists, and pass it
back with --rules when the client's log format changes.

Examples:
  poelog rules > my-rules.yaml
  poelog --rules my-rules.yaml tail`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier, err := loadClassifier()
		if err != nil {
			return err
		}
		return classifier.WriteRules(cmd.OutOrStdout())
	},
}
