package poelog

import (
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/poelog/poelog-go/internal/assembler"
	"github.com/poelog/poelog-go/internal/categorizer"
)

// Classifier assigns categories to log entries using an ordered rule table.
// A Classifier is immutable and safe for concurrent use.
type Classifier struct {
	rules *categorizer.RuleSet
	c     *categorizer.Categorizer
}

var defaultClassifier = sync.OnceValue(func() *Classifier {
	c, err := newClassifier(categorizer.DefaultRuleSet())
	if err != nil {
		panic("poelog: embedded rules: " + err.Error())
	}
	return c
})

// DefaultClassifier returns the Classifier built from the embedded rule table.
func DefaultClassifier() *Classifier {
	return defaultClassifier()
}

// LoadClassifier builds a Classifier from the YAML rule file at path.
// Errors wrap ErrInvalidRules when the file parses but is not a usable
// rule table.
func LoadClassifier(path string) (*Classifier, error) {
	rs, err := categorizer.LoadRuleSet(path)
	if err != nil {
		return nil, err
	}
	return newClassifier(rs)
}

// NewClassifier builds a Classifier from YAML rules read from r.
func NewClassifier(r io.Reader) (*Classifier, error) {
	rs, err := categorizer.ParseRuleSet(r)
	if err != nil {
		return nil, err
	}
	return newClassifier(rs)
}

func newClassifier(rs *categorizer.RuleSet) (*Classifier, error) {
	c, err := rs.Build()
	if err != nil {
		return nil, err
	}
	return &Classifier{rules: rs, c: c}, nil
}

// Classify returns the category of the full text of one logical entry.
// Every input receives exactly one category.
func (c *Classifier) Classify(text string) Category {
	return c.c.Classify(text)
}

// Event builds a categorized event from the text of one logical entry,
// lines separated by "\n". The timestamp is taken from the first line
// when it has the client's "YYYY/MM/DD HH:MM:SS" shape.
func (c *Classifier) Event(text string) Event {
	return c.event(assembler.Entry{Lines: strings.Split(text, "\n")})
}

// Categories returns every category the classifier can assign: rule names
// in evaluation order, then the fallback if no rule carries its name.
func (c *Classifier) Categories() []Category {
	rules := c.c.Rules()
	out := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		cat := Category(r.Name)
		if !slices.Contains(out, cat) {
			out = append(out, cat)
		}
	}
	if fb := c.c.Fallback(); !slices.Contains(out, fb) {
		out = append(out, fb)
	}
	return out
}

// ParseCategory finds the category of c matching name. Matching ignores
// case and surrounding whitespace and treats spaces, hyphens and
// underscores alike, so "level_up" and "Level Up" are the same category.
func (c *Classifier) ParseCategory(name string) (Category, bool) {
	slug := Category(strings.NewReplacer("-", "_").Replace(strings.TrimSpace(name))).Slug()
	for _, cat := range c.Categories() {
		if cat.Slug() == slug {
			return cat, true
		}
	}
	return "", false
}

// WriteRules writes the rule table as YAML. The output can be edited and
// loaded back with LoadClassifier.
func (c *Classifier) WriteRules(w io.Writer) error {
	return c.rules.Encode(w)
}

func (c *Classifier) event(entry assembler.Entry) Event {
	text := entry.Text()
	ev := Event{
		Category: c.c.Classify(text),
		Message:  text,
	}
	if len(entry.Lines) > 0 && assembler.IsPrimaryLine(entry.Lines[0]) {
		ev.Timestamp = entry.Timestamp()
	}
	categorizer.Annotate(&ev)
	return ev
}

// ParseEntry categorizes the text of one logical entry with the default
// rule table.
//
// Example:
//
//	ev := poelog.ParseEntry("2024/12/06 20:11:58 123 abc [INFO Client 1] : Alice has been slain.")
//	fmt.Println(ev.Category, ev.PlayerName) // Death Alice
func ParseEntry(text string) Event {
	return DefaultClassifier().Event(text)
}
