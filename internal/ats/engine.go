package ats

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"atscore/internal/errors"
)

// Engine is the keyword-matching and ATS scoring engine. It holds only
// read-only state (taxonomy tables and scoring policy), so a single
// instance is safe for concurrent use; every analysis call re-derives its
// result from the raw input text.
type Engine struct {
	taxonomy   *Taxonomy
	thresholds Thresholds
}

// quantifierPattern counts number-like tokens in a resume ("120", "35%", "5+")
var quantifierPattern = regexp.MustCompile(`\d+[%+]?`)

// NewEngine creates an engine from the given taxonomy and scoring policy.
// The taxonomy is validated once here; a malformed taxonomy is a fatal
// configuration error, not a per-call failure.
func NewEngine(taxonomy *Taxonomy, thresholds Thresholds) (*Engine, error) {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	if err := taxonomy.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		taxonomy:   taxonomy,
		thresholds: thresholds.applyDefaults(),
	}, nil
}

// NewDefaultEngine creates an engine with the built-in taxonomy and policy.
func NewDefaultEngine() (*Engine, error) {
	return NewEngine(DefaultTaxonomy(), DefaultThresholds())
}

// sortedKeys gives a stable iteration order over taxonomy tables and match
// maps so results are deterministic.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// validateText rejects empty or whitespace-only analysis input.
func validateText(text, field string) error {
	if strings.TrimSpace(text) == "" {
		return errors.NewValidationError(errors.ErrCodeEmptyInput,
			field+" must not be empty", nil)
	}
	return nil
}
