package categorizer

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/poelog/poelog-go/pkg/poelog/event"
)

//go:embed rules.yaml
var defaultRules []byte

// Validator names accepted in rule files.
const (
	ValidatorChat        = "chat"
	ValidatorNPCDialogue = "npc_dialogue"
)

// ErrInvalidRuleSet is returned when a rule file is structurally valid YAML
// but cannot be turned into a Categorizer.
var ErrInvalidRuleSet = errors.New("invalid rule set")

// RuleSet is the YAML form of a categorizer configuration.
type RuleSet struct {
	Fallback string       `yaml:"fallback"`
	Dialogue DialogueSpec `yaml:"dialogue"`
	Rules    []RuleSpec   `yaml:"rules"`
}

// DialogueSpec is the YAML form of Dialogue.
type DialogueSpec struct {
	SpeakerMaxLen              int      `yaml:"speaker_max_len,omitempty"`
	ForbiddenSpeakerPrefixes   []string `yaml:"forbidden_speaker_prefixes,omitempty"`
	ForbiddenSpeakerSubstrings []string `yaml:"forbidden_speaker_substrings,omitempty"`
	SpeechMinLen               int      `yaml:"speech_min_len,omitempty"`
	ForbiddenSpeechSubstrings  []string `yaml:"forbidden_speech_substrings,omitempty"`
}

// RuleSpec is the YAML form of a Rule.
type RuleSpec struct {
	Name      string   `yaml:"name"`
	Priority  int      `yaml:"priority"`
	Required  []string `yaml:"required,omitempty"`
	AnyOf     []string `yaml:"any_of,omitempty"`
	Exclude   []string `yaml:"exclude,omitempty"`
	Validator string   `yaml:"validator,omitempty"`
}

// ParseRuleSet decodes and validates a rule set. Unknown keys are rejected.
func ParseRuleSet(r io.Reader) (*RuleSet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var rs RuleSet
	if err := dec.Decode(&rs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidRuleSet)
		}
		return nil, fmt.Errorf("decoding rule set: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// LoadRuleSet reads a rule set from a YAML file.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}
	rs, err := ParseRuleSet(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	return rs, nil
}

// DefaultRuleSet returns the rule set embedded in the binary.
func DefaultRuleSet() *RuleSet {
	rs, err := ParseRuleSet(bytes.NewReader(defaultRules))
	if err != nil {
		panic("categorizer: embedded rules.yaml: " + err.Error())
	}
	return rs
}

// Validate checks that every rule is named and references a known validator.
func (rs *RuleSet) Validate() error {
	if rs.Fallback == "" {
		return fmt.Errorf("%w: fallback category is required", ErrInvalidRuleSet)
	}
	for i, r := range rs.Rules {
		if r.Name == "" {
			return fmt.Errorf("%w: rule %d has no name", ErrInvalidRuleSet, i)
		}
		switch r.Validator {
		case "", ValidatorChat, ValidatorNPCDialogue:
		default:
			return fmt.Errorf("%w: rule %q: unknown validator %q", ErrInvalidRuleSet, r.Name, r.Validator)
		}
	}
	return nil
}

// Build compiles rs into a Categorizer.
func (rs *RuleSet) Build() (*Categorizer, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}

	dialogue := Dialogue{
		SpeakerMaxLen:              rs.Dialogue.SpeakerMaxLen,
		ForbiddenSpeakerPrefixes:   rs.Dialogue.ForbiddenSpeakerPrefixes,
		ForbiddenSpeakerSubstrings: rs.Dialogue.ForbiddenSpeakerSubstrings,
		SpeechMinLen:               rs.Dialogue.SpeechMinLen,
		ForbiddenSpeechSubstrings:  rs.Dialogue.ForbiddenSpeechSubstrings,
	}

	rules := make([]Rule, len(rs.Rules))
	for i, spec := range rs.Rules {
		rules[i] = Rule{
			Name:     spec.Name,
			Priority: spec.Priority,
			Patterns: Patterns{
				Required: spec.Required,
				AnyOf:    spec.AnyOf,
				Excluded: spec.Exclude,
			},
		}
		switch spec.Validator {
		case ValidatorChat:
			rules[i].Patterns.Validator = IsChat
		case ValidatorNPCDialogue:
			rules[i].Patterns.Validator = dialogue.Matches
		}
	}
	return New(rules, event.Category(rs.Fallback)), nil
}

// Encode writes rs as YAML.
func (rs *RuleSet) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rs); err != nil {
		return fmt.Errorf("encoding rule set: %w", err)
	}
	return enc.Close()
}

// Default returns a Categorizer built from the embedded rule set.
func Default() *Categorizer {
	c, err := DefaultRuleSet().Build()
	if err != nil {
		panic("categorizer: embedded rules.yaml: " + err.Error())
	}
	return c
}

// Load returns a Categorizer built from the YAML rule file at path.
func Load(path string) (*Categorizer, error) {
	rs, err := LoadRuleSet(path)
	if err != nil {
		return nil, err
	}
	return rs.Build()
}
