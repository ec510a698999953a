package ats

import (
	"maps"
	"slices"
	"strings"

	"atscore/internal/types"
)

// AnalyzeJobDescription scans a job posting and produces a weighted keyword
// profile. The text is lowercased once and every table lookup runs against
// that copy; matching is plain substring containment throughout.
func (e *Engine) AnalyzeJobDescription(jobText string) (types.JobProfile, error) {
	if err := validateText(jobText, "job description"); err != nil {
		return types.JobProfile{}, err
	}

	jobLower := strings.ToLower(jobText)

	technical := e.matchCategory(jobLower, e.taxonomy.Technical, TechnicalImportanceCap, true)
	softSkills := e.matchCategory(jobLower, e.taxonomy.SoftSkills, SoftSkillImportanceCap, false)
	industry := e.matchCategory(jobLower, e.taxonomy.Industry, IndustryImportanceCap, false)

	total := 0
	for _, kw := range technical {
		total += kw.Importance
	}
	for _, kw := range softSkills {
		total += kw.Importance
	}
	for _, kw := range industry {
		total += kw.Importance
	}

	return types.JobProfile{
		Technical:            technical,
		SoftSkills:           softSkills,
		Industry:             industry,
		ActionVerbs:          e.extractActionVerbs(jobLower),
		MetricsExpectations:  e.extractMetricsExpectations(jobLower),
		TotalImportanceScore: total,
	}, nil
}

// matchCategory counts variant occurrences for every canonical term of one
// taxonomy table. Occurrences are summed across variants without
// deduplication; a variant appearing three times counts three. Terms with
// zero mentions are left out of the profile.
//
// Technical importance rewards variant diversity on top of raw mentions
// (min(cap, mentions*2 + distinct variants found)); the other categories
// use min(cap, mentions*2).
func (e *Engine) matchCategory(lowerText string, table map[string][]string, importanceCap int, countVariants bool) map[string]types.KeywordMatch {
	matches := make(map[string]types.KeywordMatch)

	for term, variants := range table {
		mentions := 0
		var found []string

		for _, variant := range variants {
			if n := strings.Count(lowerText, variant); n > 0 {
				mentions += n
				found = append(found, variant)
			}
		}

		if mentions == 0 {
			continue
		}

		importance := mentions * 2
		if countVariants {
			importance += len(found)
		}
		if importance > importanceCap {
			importance = importanceCap
		}

		matches[term] = types.KeywordMatch{
			CanonicalTerm:     term,
			Mentions:          mentions,
			MatchedVariations: found,
			Importance:        importance,
		}
	}

	return matches
}

// extractActionVerbs returns the strong action verbs present in the text,
// in taxonomy order. Presence only; counts do not matter here.
func (e *Engine) extractActionVerbs(lowerText string) []string {
	var found []string
	for _, verb := range e.taxonomy.ActionVerbs {
		if strings.Contains(lowerText, verb) {
			found = append(found, verb)
		}
	}
	return found
}

// extractMetricsExpectations collects quantification signals: concrete
// numeric patterns ("5+ years", "99%") plus context words suggesting
// measurable outcomes. Set semantics with deterministic ordering.
func (e *Engine) extractMetricsExpectations(lowerText string) []string {
	seen := make(map[string]struct{})

	for _, pattern := range e.taxonomy.MetricPatterns {
		for _, match := range pattern.FindAllString(lowerText, -1) {
			seen[match] = struct{}{}
		}
	}
	for _, word := range e.taxonomy.MetricContext {
		if strings.Contains(lowerText, word) {
			seen[word] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(seen))
}
