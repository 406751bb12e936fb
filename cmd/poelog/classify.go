package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/poelog/poelog-go/internal/assembler"
)

var classifyFormat string

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Categorize log text given as arguments or on stdin",
	Long: `Categorize log text without a watch session.

With arguments, they are joined with spaces and treated as one entry.
Otherwise stdin is read as a client log: lines are grouped into entries
the same way 'tail' groups them, and every entry is output (duplicates
included). Useful for testing a rule file.

Examples:
  poelog classify '2024/12/06 20:11:58 123 abc [INFO Client 1] : Frank has been slain.'
  tail -n 100 Client.txt | poelog classify --format pretty
  poelog classify --rules my-rules.yaml < Client.txt`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyFormat, "format", "f", "jsonl",
		"Output format: "+formatNames)
}

func runClassify(cmd *cobra.Command, args []string) error {
	if !ValidFormats[classifyFormat] {
		return fmt.Errorf("invalid format %q: must be one of: %s", classifyFormat, formatNames)
	}

	classifier, err := loadClassifier()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) > 0 {
		return OutputEvent(classifyFormat, classifier.Event(strings.Join(args, " ")), out)
	}

	for entry, err := range assembler.Scan(cmd.InOrStdin()) {
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		if err := OutputEvent(classifyFormat, classifier.Event(entry.Text()), out); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
	return nil
}
