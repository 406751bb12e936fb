package poelog

import (
	"errors"

	"github.com/poelog/poelog-go/internal/categorizer"
	"github.com/poelog/poelog-go/internal/logfinder"
)

// Sentinel errors returned by this package.
var (
	// ErrLogFileNotFound is returned when the client log cannot be found
	// or is not a regular file.
	ErrLogFileNotFound = logfinder.ErrLogFileNotFound

	// ErrInvalidRules is returned when a rule file cannot be turned into
	// a Classifier.
	ErrInvalidRules = categorizer.ErrInvalidRuleSet

	// ErrSessionClosed is returned by Start after Close.
	ErrSessionClosed = errors.New("poelog: session closed")
)
