package poelog

import (
	"fmt"
	"log/slog"
	"time"
)

// DefaultPollInterval is how often an idle tail task re-checks whether it
// should keep running.
const DefaultPollInterval = 200 * time.Millisecond

// SessionOption configures a Session or Watcher using the functional
// options pattern.
type SessionOption func(*sessionConfig)

// sessionConfig holds internal configuration for a session.
type sessionConfig struct {
	pollInterval time.Duration
	logger       *slog.Logger
	classifier   *Classifier
	filter       *compiledFilter
	onError      func(error)
}

// defaultSessionConfig returns a sessionConfig with sensible defaults.
func defaultSessionConfig() *sessionConfig {
	return &sessionConfig{
		pollInterval: DefaultPollInterval,
	}
}

// applySessionOptions applies functional options to a sessionConfig and
// fills in what was left unset.
func applySessionOptions(opts []SessionOption) *sessionConfig {
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.classifier == nil {
		cfg.classifier = DefaultClassifier()
	}
	return cfg
}

func (c *sessionConfig) validate() error {
	if c.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.pollInterval)
	}
	return nil
}

// WithPollInterval sets how often the tail task wakes up when no new lines
// arrive. Default: 200ms.
func WithPollInterval(interval time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.pollInterval = interval
	}
}

// WithLogger sets the slog logger for debug output.
// If nil (default), logging is disabled.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(c *sessionConfig) {
		c.logger = logger
	}
}

// WithClassifier sets the rule table used to categorize entries.
// Default: DefaultClassifier().
func WithClassifier(cl *Classifier) SessionOption {
	return func(c *sessionConfig) {
		c.classifier = cl
	}
}

// WithErrorHandler registers a function that receives errors which end a
// tail task, such as a read failure. It is called from the tail goroutine
// and may call Stop, Close or Start on the session.
func WithErrorHandler(fn func(error)) SessionOption {
	return func(c *sessionConfig) {
		c.onError = fn
	}
}

// WithIncludeCategories delivers only events of the given categories.
// If called multiple times, only the last call takes effect.
func WithIncludeCategories(cats ...Category) SessionOption {
	return func(c *sessionConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.setInclude(cats)
	}
}

// WithExcludeCategories drops events of the given categories.
// Exclude takes precedence over include.
// If called multiple times, only the last call takes effect.
func WithExcludeCategories(cats ...Category) SessionOption {
	return func(c *sessionConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.setExclude(cats)
	}
}

// WithFilter sets both include and exclude category filters.
// Exclude takes precedence over include.
func WithFilter(include, exclude []Category) SessionOption {
	return func(c *sessionConfig) {
		c.filter = newCompiledFilter(include, exclude)
	}
}

// ParseOption configures ParseFile behavior.
type ParseOption func(*parseConfig)

// parseConfig holds internal configuration for parsing.
type parseConfig struct {
	filter     *compiledFilter
	classifier *Classifier
	since      time.Time
	until      time.Time
	keepDups   bool
}

// applyParseOptions applies functional options to a parseConfig.
func applyParseOptions(opts []ParseOption) *parseConfig {
	cfg := &parseConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.classifier == nil {
		cfg.classifier = DefaultClassifier()
	}
	return cfg
}

// WithParseIncludeCategories yields only events of the given categories.
func WithParseIncludeCategories(cats ...Category) ParseOption {
	return func(c *parseConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.setInclude(cats)
	}
}

// WithParseExcludeCategories drops events of the given categories.
func WithParseExcludeCategories(cats ...Category) ParseOption {
	return func(c *parseConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.setExclude(cats)
	}
}

// WithParseFilter sets both include and exclude category filters for parsing.
func WithParseFilter(include, exclude []Category) ParseOption {
	return func(c *parseConfig) {
		c.filter = newCompiledFilter(include, exclude)
	}
}

// WithParseClassifier sets the rule table used to categorize entries.
func WithParseClassifier(cl *Classifier) ParseOption {
	return func(c *parseConfig) {
		c.classifier = cl
	}
}

// WithParseTimeRange filters events to only include those within the time range.
// since is inclusive, until is exclusive.
// Zero values are ignored (no filtering for that boundary).
// Entries without a parseable timestamp are dropped while a bound is set.
func WithParseTimeRange(since, until time.Time) ParseOption {
	return func(c *parseConfig) {
		c.since = since
		c.until = until
	}
}

// WithParseSince filters events to only include those at or after the given time.
func WithParseSince(since time.Time) ParseOption {
	return func(c *parseConfig) {
		c.since = since
	}
}

// WithParseUntil filters events to only include those before the given time.
func WithParseUntil(until time.Time) ParseOption {
	return func(c *parseConfig) {
		c.until = until
	}
}

// WithParseKeepDuplicates yields entries whose text was already seen in
// the same file. Default: false (each distinct entry is yielded once, as a
// watch session would).
func WithParseKeepDuplicates(keep bool) ParseOption {
	return func(c *parseConfig) {
		c.keepDups = keep
	}
}
