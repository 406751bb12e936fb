package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/poelog/poelog-go/pkg/poelog"
)

// envRulesFile names the environment variable consulted when --rules is unset.
const envRulesFile = "POELOG_RULES"

var (
	// Version information (set by ldflags)
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	verbose   bool
	rulesFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "poelog",
	Short: "Path of Exile 2 client log categorizer and monitor",
	Long: `poelog follows the Path of Exile 2 client log (Client.txt) and turns it
into categorized events: trade and chat messages, deaths, level ups, NPC
dialogue, warnings and more. Events are output as JSON Lines for easy
processing with other tools.

This is an unofficial tool and is not affiliated with Grinding Gear Games.`,
	SilenceUsage: true, // Don't show usage on error
}

func init() {
	// Global flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "",
		"YAML rule file replacing the built-in categories (env "+envRulesFile+")")

	// Add subcommands
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "poelog %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// newLogger returns a debug logger writing to w when --verbose is set,
// and nil otherwise.
func newLogger(w io.Writer) *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// loadClassifier returns the classifier named by --rules or POELOG_RULES,
// falling back to the built-in rule table.
func loadClassifier() (*poelog.Classifier, error) {
	path := rulesFile
	if path == "" {
		path = os.Getenv(envRulesFile)
	}
	if path == "" {
		return poelog.DefaultClassifier(), nil
	}
	return poelog.LoadClassifier(path)
}
