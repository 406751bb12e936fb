// Package dedup suppresses log entries that were already emitted during a
// watch session.
package dedup

import "github.com/spaolacci/murmur3"

// Fingerprint returns the 64-bit murmur3 digest of an entry's text.
// Two different texts sharing a fingerprint are treated as the same entry.
func Fingerprint(text string) uint64 {
	return murmur3.Sum64([]byte(text))
}

// SeenSet records the fingerprints of entries emitted in the current
// session. It is unbounded and is only cleared by Reset.
// A SeenSet is not safe for concurrent use; the owning session guards it.
type SeenSet struct {
	seen map[uint64]struct{}
}

// New returns an empty SeenSet.
func New() *SeenSet {
	return &SeenSet{seen: make(map[uint64]struct{})}
}

// Admit returns true and records text the first time it is seen, and false
// on every later call with the same text.
func (s *SeenSet) Admit(text string) bool {
	fp := Fingerprint(text)
	if _, ok := s.seen[fp]; ok {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[uint64]struct{})
	}
	s.seen[fp] = struct{}{}
	return true
}

// Seen reports whether text has already been admitted, without recording it.
func (s *SeenSet) Seen(text string) bool {
	_, ok := s.seen[Fingerprint(text)]
	return ok
}

// Reset forgets every recorded fingerprint.
func (s *SeenSet) Reset() {
	clear(s.seen)
}

// Len returns the number of recorded fingerprints.
func (s *SeenSet) Len() int {
	return len(s.seen)
}
