package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/poelog/poelog-go/internal/logfinder"
	"github.com/poelog/poelog-go/pkg/poelog"
)

var (
	// parse flags
	parseIncludeCats []string
	parseExcludeCats []string
	parseSince       string
	parseUntil       string
	parseFormat      string
	parseKeepDups    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Categorize client log files (batch mode)",
	Long: `Categorize one or more client logs and output events.

Unlike 'tail', this command processes the files once without following
them. With no arguments the log is found the same way 'tail' finds it.
Each distinct entry is output once per file unless --keep-duplicates is set.

Timestamps for --since/--until are RFC3339 or the log's own
"YYYY/MM/DD HH:MM:SS" format (local time).

Examples:
  # Parse the auto-detected log
  poelog parse

  # One evening of deaths and level ups
  poelog parse --since "2024/12/06 18:00:00" --until "2024/12/07 02:00:00" \
    --include-categories death,level_up

  # Parse specific files
  poelog parse Client.txt Client-old.txt

  # Count entries per category
  poelog parse | jq -r .category | sort | uniq -c`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringSliceVar(&parseIncludeCats, "include-categories", nil,
		"Categories to include (comma-separated: trade,death,level_up)")
	parseCmd.Flags().StringSliceVar(&parseExcludeCats, "exclude-categories", nil,
		"Categories to exclude (comma-separated)")
	parseCmd.Flags().StringVar(&parseSince, "since", "",
		"Only events at/after timestamp (RFC3339 or YYYY/MM/DD HH:MM:SS)")
	parseCmd.Flags().StringVar(&parseUntil, "until", "",
		"Only events before timestamp (RFC3339 or YYYY/MM/DD HH:MM:SS)")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "jsonl",
		"Output format: "+formatNames)
	parseCmd.Flags().BoolVar(&parseKeepDups, "keep-duplicates", false,
		"Output repeated entries every time they occur")

	registerCategoryCompletion(parseCmd, "include-categories")
	registerCategoryCompletion(parseCmd, "exclude-categories")
}

func runParse(cmd *cobra.Command, args []string) error {
	if !ValidFormats[parseFormat] {
		return fmt.Errorf("invalid format %q: must be one of: %s", parseFormat, formatNames)
	}

	classifier, err := loadClassifier()
	if err != nil {
		return err
	}

	includes, excludes, err := categoryFilters(classifier, parseIncludeCats, parseExcludeCats)
	if err != nil {
		return err
	}

	sinceTime, untilTime, err := parseTimeRange(parseSince, parseUntil)
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		file, err := logfinder.FindLogFile("")
		if err != nil {
			return err
		}
		files = []string{file}
	}

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []poelog.ParseOption{
		poelog.WithParseClassifier(classifier),
		poelog.WithParseFilter(includes, excludes),
		poelog.WithParseKeepDuplicates(parseKeepDups),
	}
	if !sinceTime.IsZero() || !untilTime.IsZero() {
		opts = append(opts, poelog.WithParseTimeRange(sinceTime, untilTime))
	}

	out := cmd.OutOrStdout()
	for _, file := range files {
		for ev, err := range poelog.ParseFile(ctx, file, opts...) {
			if err != nil {
				// Ctrl+C: exit silently
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("parse error: %w", err)
			}

			if err := OutputEvent(parseFormat, ev, out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}
	}

	return nil
}

// parseTimeRange parses since and until strings into time.Time values.
func parseTimeRange(since, until string) (time.Time, time.Time, error) {
	sinceTime, err := parseTimestamp("--since", since)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	untilTime, err := parseTimestamp("--until", until)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	// Validate that since is before until
	if !sinceTime.IsZero() && !untilTime.IsZero() && sinceTime.After(untilTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("--since must be before --until")
	}

	return sinceTime, untilTime, nil
}

// parseTimestamp accepts RFC3339 or the client log layout in local time.
// An empty value yields the zero time.
func parseTimestamp(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(poelog.TimestampLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format %q (expected RFC3339, e.g., 2024-01-15T12:00:00Z, or 2024/01/15 12:00:00)", flag, value)
	}
	return t, nil
}
