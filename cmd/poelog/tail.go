package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/poelog/poelog-go/pkg/poelog"
)

var (
	// tail flags
	format           string
	tailIncludeCats  []string
	tailExcludeCats  []string
	tailPollInterval time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail [Client.txt]",
	Short: "Categorize a client log and follow it for new entries",
	Long: `Read the whole client log, output every distinct entry as a categorized
event, then keep following the file for new entries until interrupted.

The log is found from the argument, the POELOG_FILE environment variable,
or the default install locations, in that order.

Events are output as JSON Lines by default (one JSON object per line),
which makes it easy to process with tools like jq.

Examples:
  # Follow the auto-detected log
  poelog tail

  # Follow a specific file
  poelog tail "D:\Games\Path of Exile 2\logs\Client.txt"

  # Only trade chat and deaths
  poelog tail --include-categories trade,death

  # Everything except engine noise
  poelog tail --exclude-categories engine,graphics

  # Human-readable output
  poelog tail --format pretty

  # Pipe to jq for filtering
  poelog tail | jq 'select(.chat_channel == "whisper")'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringVarP(&format, "format", "f", "jsonl",
		"Output format: "+formatNames)
	tailCmd.Flags().StringSliceVar(&tailIncludeCats, "include-categories", nil,
		"Categories to include (comma-separated: trade,death,level_up)")
	tailCmd.Flags().StringSliceVar(&tailExcludeCats, "exclude-categories", nil,
		"Categories to exclude (comma-separated)")
	tailCmd.Flags().DurationVar(&tailPollInterval, "poll-interval", poelog.DefaultPollInterval,
		"How often to check for new lines")

	// Register completion for category flags
	registerCategoryCompletion(tailCmd, "include-categories")
	registerCategoryCompletion(tailCmd, "exclude-categories")
}

func runTail(cmd *cobra.Command, args []string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format %q: must be one of: %s", format, formatNames)
	}

	classifier, err := loadClassifier()
	if err != nil {
		return err
	}

	includes, excludes, err := categoryFilters(classifier, tailIncludeCats, tailExcludeCats)
	if err != nil {
		return err
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	}

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A read error ends the watch; surface it as the command's error.
	tailErr := make(chan error, 1)

	opts := []poelog.SessionOption{
		poelog.WithClassifier(classifier),
		poelog.WithPollInterval(tailPollInterval),
		poelog.WithLogger(newLogger(os.Stderr)),
		poelog.WithErrorHandler(func(err error) {
			select {
			case tailErr <- err:
			default:
			}
		}),
	}
	if len(includes) > 0 {
		opts = append(opts, poelog.WithIncludeCategories(includes...))
	}
	if len(excludes) > 0 {
		opts = append(opts, poelog.WithExcludeCategories(excludes...))
	}

	out := cmd.OutOrStdout()
	sink := poelog.SinkFunc(func(_ context.Context, ev poelog.Event) error {
		return OutputEvent(format, ev, out)
	})

	session, err := poelog.NewSession(sink, opts...)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Start(ctx, path); err != nil {
		if ctx.Err() != nil {
			return nil // Ctrl+C during the backlog
		}
		return err
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-tailErr:
		return fmt.Errorf("tail: %w", err)
	}
}
