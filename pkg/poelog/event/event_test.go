package event

import (
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Category
		wantOK bool
	}{
		// Exact slugs
		{"warnings slug", "warnings", Warnings, true},
		{"level_up slug", "level_up", LevelUp, true},
		{"item_filter slug", "item_filter", ItemFilter, true},

		// Display names and separators
		{"display name", "Level Up", LevelUp, true},
		{"hyphen", "item-filter", ItemFilter, true},
		{"uppercase", "DIALOGUE", Dialogue, true},

		// Whitespace handling
		{"leading space", " trade", Trade, true},
		{"tab", "\tnetwork\t", Network, true},

		// Invalid
		{"unknown", "chat", "", false},
		{"empty string", "", "", false},
		{"only spaces", "   ", "", false},
		{"typo", "levle_up", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			if ok != tt.wantOK {
				t.Errorf("ParseCategory(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCategoryNames_RoundTrip(t *testing.T) {
	for _, name := range CategoryNames() {
		t.Run(name, func(t *testing.T) {
			got, ok := ParseCategory(name)
			if !ok {
				t.Fatalf("ParseCategory(%q) returned false", name)
			}
			if got.Slug() != name {
				t.Errorf("ParseCategory(%q).Slug() = %q", name, got.Slug())
			}
		})
	}
}

func TestCategoryNames_SortedNoDuplicates(t *testing.T) {
	names := CategoryNames()
	if len(names) != len(Categories()) {
		t.Fatalf("CategoryNames() has %d entries, want %d", len(names), len(Categories()))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("CategoryNames() not strictly sorted: %q >= %q", names[i-1], names[i])
		}
	}
}

func TestEventTime(t *testing.T) {
	ev := Event{Timestamp: "2024/01/15 12:30:45"}
	got, ok := ev.Time()
	if !ok {
		t.Fatal("Time() ok = false, want true")
	}
	want := time.Date(2024, 1, 15, 12, 30, 45, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Time() = %v, want %v", got, want)
	}

	for _, ts := range []string{"", "2024/13/45 99:99:99", "not a timestamp at all"} {
		if _, ok := (Event{Timestamp: ts}).Time(); ok {
			t.Errorf("Time() for %q ok = true, want false", ts)
		}
	}
}
