package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name      string
		since     string
		until     string
		wantSince time.Time
		wantUntil time.Time
		wantErr   bool
	}{
		{
			name: "empty strings",
		},
		{
			name:      "RFC3339 since only",
			since:     "2024-01-15T12:00:00Z",
			wantSince: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "log layout until only",
			until:     "2024/01/16 00:00:00",
			wantUntil: time.Date(2024, 1, 16, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "mixed range",
			since:     "2024/01/15 12:00:00",
			until:     "2024-01-17T00:00:00Z",
			wantSince: time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local),
			wantUntil: time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "invalid since format",
			since:   "2024-01-15",
			wantErr: true,
		},
		{
			name:    "invalid until format",
			until:   "not-a-date",
			wantErr: true,
		},
		{
			name:    "since after until",
			since:   "2024-01-16T00:00:00Z",
			until:   "2024-01-15T00:00:00Z",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSince, gotUntil, err := parseTimeRange(tt.since, tt.until)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseTimeRange() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if !gotSince.Equal(tt.wantSince) {
					t.Errorf("parseTimeRange() since = %v, want %v", gotSince, tt.wantSince)
				}
				if !gotUntil.Equal(tt.wantUntil) {
					t.Errorf("parseTimeRange() until = %v, want %v", gotUntil, tt.wantUntil)
				}
			}
		})
	}
}

// saveParseFlags resets the parse flag variables and restores them when
// the test ends.
func saveParseFlags(t *testing.T) {
	t.Helper()
	inc, exc, since, until, f, keep := parseIncludeCats, parseExcludeCats, parseSince, parseUntil, parseFormat, parseKeepDups
	t.Cleanup(func() {
		parseIncludeCats, parseExcludeCats, parseSince, parseUntil, parseFormat, parseKeepDups = inc, exc, since, until, f, keep
	})
	parseIncludeCats, parseExcludeCats = nil, nil
	parseSince, parseUntil = "", ""
	parseFormat = "jsonl"
	parseKeepDups = false
	useRules(t, "")
}

func writeClientLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Client.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunParseInvalidCategory(t *testing.T) {
	saveParseFlags(t)
	parseIncludeCats = []string{"invalid_category"}

	err := runParse(parseCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown category") {
		t.Errorf("expected 'unknown category' error, got: %v", err)
	}
}

func TestRunParseOverlapCategories(t *testing.T) {
	saveParseFlags(t)
	parseIncludeCats = []string{"death"}
	parseExcludeCats = []string{"death"}

	err := runParse(parseCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "cannot be both included and excluded") {
		t.Errorf("expected overlap error, got: %v", err)
	}
}

func TestRunParse(t *testing.T) {
	saveParseFlags(t)
	path := writeClientLog(t,
		deathLine,
		"2024/12/06 20:11:59 1 a [INFO Client 1] [ENGINE] Init",
		deathLine,
		whisperLine,
	)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	parseExcludeCats = []string{"engine"}
	if err := runParse(cmd, []string{path}); err != nil {
		t.Fatalf("runParse() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"category":"Death"`) || !strings.Contains(lines[1], `"chat_channel":"whisper"`) {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunParseKeepDuplicates(t *testing.T) {
	saveParseFlags(t)
	path := writeClientLog(t, deathLine, deathLine)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	parseKeepDups = true
	if err := runParse(cmd, []string{path}); err != nil {
		t.Fatalf("runParse() error = %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("got %d events, want 2", n)
	}
}

func TestRunParseMissingFile(t *testing.T) {
	saveParseFlags(t)
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	if err := runParse(cmd, []string{filepath.Join(t.TempDir(), "missing.txt")}); err == nil {
		t.Error("runParse() expected error for missing file")
	}
}
