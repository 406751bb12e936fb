package categorizer

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/poelog/poelog-go/pkg/poelog/event"
)

// prefix is a realistic Client.txt line head.
const prefix = "2024/12/06 20:11:58 123456789 cff945b9 [INFO Client 1234] "

func TestClassify_DefaultRules(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		text string
		want event.Category
	}{
		{"warning", "2024/12/06 20:11:58 1 a [WARN Client 1] something odd", event.Warnings},
		{"warning beats network", "2024/12/06 20:11:58 1 a [WARN Client 1] [HTTP2] stream reset", event.Warnings},
		{"error beats graphics", "2024/12/06 20:11:58 1 a [ERROR Client 1] [SHADER] compile failed: x", event.Warnings},
		{"critical", "2024/12/06 20:11:58 1 a [CRIT Client 1] out of memory", event.Warnings},

		{"global chat", prefix + "$Alice: hello", event.Trade},
		{"local chat", prefix + "#Bob: anyone for the boss?", event.Trade},
		{"guild chat", prefix + "&Carol: gg", event.Trade},
		{"guild announcement", prefix + "&: GUILD UPDATE: Dave joined", event.Trade},
		{"whisper", prefix + "@From Eve: Hi, I would like to buy your Staff", event.Trade},
		{"trade accepted", prefix + ": Trade accepted.", event.Trade},
		{"trade cancelled", prefix + ": Trade cancelled.", event.Trade},

		{"death", prefix + ": Frank has been slain.", event.Death},
		{"level up", prefix + ": CharName (Witch) is now level 5", event.LevelUp},
		{"skill gem", prefix + ": You have received a Spirit Gem.", event.Skill},
		{"passive", prefix + "Successfully allocated passive skill id: life1", event.Skill},

		{"not enough", prefix + ": Not enough Mana", event.Gameplay},
		{"cannot", prefix + ": You cannot use this item", event.Gameplay},
		{"failed to apply", prefix + "Failed to apply item: no target", event.Gameplay},

		{"joined guild", prefix + ": Joined guild named Exiles.", event.Guild},

		{"item filter", prefix + "[Item Filter] Loaded filter NeverSink", event.ItemFilter},
		{"shader", prefix + "[SHADER] Compiling: Metadata/Effects/foo", event.Graphics},
		{"vulkan", prefix + "[VULKAN] Device lost", event.Graphics},
		{"engine tag", prefix + "[ENGINE] Init", event.Engine},
		{"generating level", prefix + "Generating level 12 area \"G1_1\"", event.Engine},
		{"audio", prefix + "[SOUND] Output device changed", event.Audio},
		{"network", prefix + "Connecting to instance server at 10.0.0.1:6112", event.Network},
		{"network host", prefix + "Web root: https://patch-poe2.poecdn.com/", event.Network},

		{"npc dialogue", prefix + "Wounded Man: Spare some coin?", event.Dialogue},
		{"npc with comma", prefix + "Siora, Blade of the Mists: Together we stand.", event.Dialogue},
		{"npc with apostrophe", prefix + "O'Brien: Well met, exile.", event.Dialogue},

		{"system key value", prefix + "Driver Version: 555.85", event.Engine},
		{"lowercase speaker", prefix + "something: looks like speech", event.Engine},
		{"boolean speech", prefix + "Vsync: true", event.Engine},
		{"hash line", prefix + "Hash: 0x1234", event.Engine},
		{"unrecognized", prefix + "Nothing to see", event.Engine},
		{"empty", "", event.Engine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text), "text: %q", tt.text)
		})
	}
}

func TestClassify_ShaderWithColonIsNotDialogue(t *testing.T) {
	c := Default()
	text := prefix + "[SHADER] Pipeline: Rebuilding cache"

	d := DefaultRuleSet().Dialogue
	dialogue := Dialogue{
		SpeakerMaxLen:              d.SpeakerMaxLen,
		ForbiddenSpeakerPrefixes:   d.ForbiddenSpeakerPrefixes,
		ForbiddenSpeakerSubstrings: d.ForbiddenSpeakerSubstrings,
		SpeechMinLen:               d.SpeechMinLen,
		ForbiddenSpeechSubstrings:  d.ForbiddenSpeechSubstrings,
	}
	// The body alone has dialogue shape; only the exclusion list keeps it out.
	assert.True(t, dialogue.Matches("Pipeline: Rebuilding cache"))
	assert.Equal(t, event.Graphics, c.Classify(text))
}

func TestClassify_MultiLineEntry(t *testing.T) {
	c := Default()
	text := prefix + "Something failed\nstack frame one\n[ERROR] inner"
	assert.Equal(t, event.Warnings, c.Classify(text))
}

func TestNew_PriorityOrder(t *testing.T) {
	rules := []Rule{
		{Name: "late", Priority: 5, Patterns: Patterns{AnyOf: []string{"x"}}},
		{Name: "first-declared", Priority: 2, Patterns: Patterns{AnyOf: []string{"x"}}},
		{Name: "second-declared", Priority: 2, Patterns: Patterns{AnyOf: []string{"x"}}},
	}
	c := New(rules, "fallback")

	assert.Equal(t, event.Category("first-declared"), c.Classify("x"))
	assert.Equal(t, event.Category("fallback"), c.Classify("y"))

	got := c.Rules()
	names := make([]string, len(got))
	for i, r := range got {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"first-declared", "second-declared", "late"}, names)

	// New must not reorder the caller's slice.
	assert.Equal(t, "late", rules[0].Name)
}

func TestNew_EmptyRulesReturnsFallback(t *testing.T) {
	c := New(nil, event.Engine)
	assert.Equal(t, event.Engine, c.Classify("anything"))
	assert.Equal(t, event.Engine, c.Fallback())
}

func TestPatterns_Matches(t *testing.T) {
	calls := 0
	counting := func(string) bool {
		calls++
		return true
	}

	tests := []struct {
		name      string
		patterns  Patterns
		text      string
		want      bool
		wantCalls int
	}{
		{"no constraints", Patterns{}, "anything", true, 0},
		{"excluded rejects", Patterns{Excluded: []string{"bad"}, Validator: counting}, "a bad line", false, 0},
		{"required all present", Patterns{Required: []string{"a", "b"}}, "a b", true, 0},
		{"required one missing", Patterns{Required: []string{"a", "z"}, Validator: counting}, "a b", false, 0},
		{"any of one present", Patterns{AnyOf: []string{"q", "b"}}, "a b", true, 0},
		{"any of none present", Patterns{AnyOf: []string{"q", "r"}, Validator: counting}, "a b", false, 0},
		{"validator runs last", Patterns{Required: []string{"a"}, Validator: counting}, "a", true, 1},
		{"validator rejects", Patterns{Validator: func(string) bool { return false }}, "a", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = 0
			assert.Equal(t, tt.want, tt.patterns.Matches(tt.text))
			assert.Equal(t, tt.wantCalls, calls, "validator calls")
		})
	}
}

func TestProperty_ClassifyTotalAndDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	c1 := Default()
	c2 := Default()

	body := gen.OneGenOf(
		gen.AnyString(),
		gen.AlphaString(),
		gen.Const("$Alice: hello"),
		gen.Const("Wounded Man: Spare some coin?"),
		gen.Const("[SHADER] Pipeline: x"),
	)

	properties.Property("classify always returns a non-empty category", prop.ForAll(
		func(s string) bool {
			return c1.Classify(s) != "" && c1.Classify(prefix+s) != ""
		},
		body,
	))

	properties.Property("classify is deterministic", prop.ForAll(
		func(s string) bool {
			text := prefix + s
			first := c1.Classify(text)
			return first == c1.Classify(text) && first == c2.Classify(text)
		},
		body,
	))

	properties.Property("warning tag always wins", prop.ForAll(
		func(s string) bool {
			return c1.Classify("2024/01/01 00:00:00 1 a [WARN Client 1] [HTTP2] "+s) == event.Warnings
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
