package title

import "testing"

// TestNormalize tests suffix stripping.
func TestNormalize(t *testing.T) {
	t.Parallel()

	n := Default()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"strips suffix", "Go (programming language) - Wikipedia", "Go (programming language)"},
		{"no suffix unchanged", "Go (programming language)", "Go (programming language)"},
		{"suffix in the middle unchanged", "A - Wikipedia article", "A - Wikipedia article"},
		{"suffix without leading space unchanged", "A- Wikipedia", "A- Wikipedia"},
		{"repeated suffix stripped", "A - Wikipedia - Wikipedia", "A"},
		{"only suffix becomes empty", " - Wikipedia", ""},
		{"empty input", "", ""},
		{"trailing space prevents match", "A - Wikipedia ", "A - Wikipedia "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := n.Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// TestNormalizeIdempotent tests that normalizing twice equals normalizing once.
func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	n := Default()
	inputs := []string{
		"",
		"Plain",
		"Plain - Wikipedia",
		"Plain - Wikipedia - Wikipedia - Wikipedia",
		" - Wikipedia - Wikipedia",
		"Wikipedia",
		"Café - Wikipedia",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

// TestNormalizerCustomSuffix tests non-default suffixes.
func TestNormalizerCustomSuffix(t *testing.T) {
	t.Parallel()

	t.Run("custom suffix", func(t *testing.T) {
		t.Parallel()
		n := NewNormalizer(" — Wikipédia")
		if got := n.Normalize("Paris — Wikipédia"); got != "Paris" {
			t.Errorf("expected 'Paris', got %q", got)
		}
		if n.Suffix() != " — Wikipédia" {
			t.Errorf("unexpected suffix %q", n.Suffix())
		}
	})

	t.Run("empty suffix is identity", func(t *testing.T) {
		t.Parallel()
		n := NewNormalizer("")
		if got := n.Normalize("A - Wikipedia"); got != "A - Wikipedia" {
			t.Errorf("expected input unchanged, got %q", got)
		}
	})
}
