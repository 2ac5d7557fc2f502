// Package title normalizes page and anchor titles before they are compared
// for semantic similarity.
package title

import "strings"

// DefaultSuffix is the suffix Wikipedia appends to every page title.
const DefaultSuffix = " - Wikipedia"

// Normalizer strips a fixed site suffix from titles.
// The suffix would otherwise skew similarity scores, since every Wikipedia
// title would share it.
type Normalizer struct {
	suffix string
}

// NewNormalizer returns a Normalizer for the given suffix.
// An empty suffix yields a Normalizer that returns its input unchanged.
func NewNormalizer(suffix string) Normalizer {
	return Normalizer{suffix: suffix}
}

// Default returns a Normalizer for Wikipedia titles.
func Default() Normalizer {
	return NewNormalizer(DefaultSuffix)
}

// Suffix returns the suffix this Normalizer removes.
func (n Normalizer) Suffix() string {
	return n.suffix
}

// Normalize removes the suffix when raw ends with it, and returns raw
// unchanged otherwise. A repeated suffix is removed until none remains, so
// Normalize(Normalize(x)) == Normalize(x).
func (n Normalizer) Normalize(raw string) string {
	if n.suffix == "" {
		return raw
	}
	for strings.HasSuffix(raw, n.suffix) {
		raw = strings.TrimSuffix(raw, n.suffix)
	}
	return raw
}
