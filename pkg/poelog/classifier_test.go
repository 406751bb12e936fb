package poelog_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poelog/poelog-go/pkg/poelog"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     poelog.Category
		wantTime string
	}{
		{"death", logLine(7, ": Frank has been slain."), poelog.CategoryDeath, "2024/12/06 20:11:07"},
		{"warning", "2024/12/06 20:11:58 1 a [WARN Client 1] something odd", poelog.CategoryWarnings, "2024/12/06 20:11:58"},
		{"no timestamp", "[SHADER] Compiling", poelog.CategoryGraphics, ""},
		{"empty", "", poelog.CategoryEngine, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := poelog.ParseEntry(tt.text)
			assert.Equal(t, tt.want, ev.Category)
			assert.Equal(t, tt.wantTime, ev.Timestamp)
			assert.Equal(t, tt.text, ev.Message)
		})
	}
}

func TestParseEntry_MultiLine(t *testing.T) {
	text := logLine(1, "$Alice: WTS") + "\nsecond line"
	ev := poelog.ParseEntry(text)
	assert.Equal(t, poelog.CategoryTrade, ev.Category)
	assert.Equal(t, "Alice", ev.ChatSender)
	assert.Equal(t, text, ev.Message)
}

func TestLoadClassifier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := "fallback: Misc\nrules:\n  - name: Loot\n    priority: 1\n    required: [\"Dropped\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cl, err := poelog.LoadClassifier(path)
	require.NoError(t, err)
	assert.Equal(t, poelog.Category("Loot"), cl.Classify(logLine(1, "Dropped Divine Orb")))
	assert.Equal(t, poelog.Category("Misc"), cl.Classify(logLine(1, ": Frank has been slain.")))
}

func TestLoadClassifier_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := poelog.LoadClassifier(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("fallback: X\nrules:\n  - name: A\n    validator: nope\n"), 0o644))
	_, err = poelog.LoadClassifier(bad)
	assert.ErrorIs(t, err, poelog.ErrInvalidRules)
}

func TestClassifier_WriteRulesIsReloadable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, poelog.DefaultClassifier().WriteRules(&buf))
	assert.True(t, strings.Contains(buf.String(), "fallback: Engine"))

	cl, err := poelog.NewClassifier(&buf)
	require.NoError(t, err)

	for _, text := range []string{
		logLine(1, "$Alice: hello"),
		logLine(1, "Wounded Man: Spare some coin?"),
		logLine(1, "Driver Version: 555.85"),
		logLine(1, ": Joined guild named Exiles."),
	} {
		assert.Equal(t, poelog.DefaultClassifier().Classify(text), cl.Classify(text), text)
	}
}

func TestClassifier_Categories(t *testing.T) {
	def := poelog.DefaultClassifier().Categories()
	require.Len(t, def, 13)
	assert.Equal(t, poelog.CategoryWarnings, def[0])
	assert.Equal(t, poelog.CategoryDialogue, def[len(def)-1])

	cl, err := poelog.NewClassifier(stringsReader("fallback: Misc\nrules:\n  - name: Boss Fight\n    priority: 2\n    any_of: [\"Xesht\"]\n  - name: Warnings\n    priority: 1\n    any_of: [\"[WARN\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, []poelog.Category{"Warnings", "Boss Fight", "Misc"}, cl.Categories())

	for _, name := range []string{"boss_fight", "Boss Fight", " BOSS-FIGHT "} {
		got, ok := cl.ParseCategory(name)
		assert.True(t, ok, name)
		assert.Equal(t, poelog.Category("Boss Fight"), got, name)
	}
	_, ok := cl.ParseCategory("death")
	assert.False(t, ok, "category absent from the rule file")
}
