package ats

import (
	"slices"
	"strings"

	"atscore/internal/types"
)

// categoryTally carries the importance bookkeeping one category contributes
// to the composite score.
type categoryTally struct {
	total   int
	matched int
}

// ScoreMatch scores a resume against a previously analyzed job profile. The
// resume side re-scans raw text for the variants the posting itself used so
// the result can report exactly which surface forms appeared. Each category is
// folded into its own immutable outcome and the final result is composed
// from those pieces; nothing is mutated in place.
func (e *Engine) ScoreMatch(jobProfile types.JobProfile, resumeText, jobText string) (types.MatchResult, error) {
	if err := validateText(resumeText, "resume"); err != nil {
		return types.MatchResult{}, err
	}
	if err := validateText(jobText, "job description"); err != nil {
		return types.MatchResult{}, err
	}

	resumeLower := strings.ToLower(resumeText)
	jobLower := strings.ToLower(jobText)

	technical, missingHigh, missingMedium, techTally := e.matchTechnical(resumeLower, jobProfile.Technical)
	softSkills, missingSoft, softTally := e.matchSoftSkills(resumeLower, jobProfile.SoftSkills)
	industry, industryTally := e.matchIndustry(resumeLower, jobProfile.Industry)

	actionVerbScore := scoreActionVerbs(resumeLower, jobProfile.ActionVerbs)
	quantificationScore := scoreQuantification(resumeText)
	irrelevant := e.identifyIrrelevantContent(resumeLower, jobLower, jobProfile.Technical)

	totalImportance := techTally.total + softTally.total + industryTally.total
	matchedImportance := techTally.matched + softTally.matched + industryTally.matched
	basePercentage := float64(matchedImportance) / float64(max(1, totalImportance)) * 100

	actionVerbBonus := min(ActionVerbBonusCap, actionVerbScore*ActionVerbBonusRate)
	quantificationBonus := min(QuantificationBonusCap, quantificationScore*QuantificationRate)
	relevancePenalty := min(IrrelevancePenaltyCap, float64(len(irrelevant))*IrrelevancePenaltyPer)

	atsScore := clampScore(basePercentage + actionVerbBonus + quantificationBonus - relevancePenalty)

	result := types.MatchResult{
		TechnicalMatches:      technical,
		SoftSkillMatches:      softSkills,
		IndustryMatches:       industry,
		MissingHighPriority:   append(missingHigh, missingSoft...),
		MissingMediumPriority: missingMedium,
		ActionVerbScore:       actionVerbScore,
		QuantificationScore:   quantificationScore,
		MatchPercentage:       basePercentage,
		ATSOptimizationScore:  atsScore,
		IrrelevantContent:     irrelevant,
	}
	result.ATSOptimizationTips = e.optimizationTips(result)

	return result, nil
}

// matchTechnical re-scans the resume for each job technical keyword. Only
// the variants the posting itself used count; a resume mentioning "django"
// does not cover a posting that only says "python". A matched keyword keeps
// its job-side importance; an unmatched one lands in the missing list for
// its importance tier.
func (e *Engine) matchTechnical(resumeLower string, jobTechnical map[string]types.KeywordMatch) (map[string]types.KeywordMatch, []string, []string, categoryTally) {
	matches := make(map[string]types.KeywordMatch, len(jobTechnical))
	var missingHigh, missingMedium []string
	var tally categoryTally

	for _, term := range sortedKeys(jobTechnical) {
		jobMatch := jobTechnical[term]
		tally.total += jobMatch.Importance

		variants := jobMatch.MatchedVariations
		if len(variants) == 0 {
			variants = []string{term}
		}

		mentions := 0
		var found []string
		for _, variant := range variants {
			if n := strings.Count(resumeLower, variant); n > 0 {
				mentions += n
				found = append(found, variant)
			}
		}

		switch {
		case mentions > 0:
			tally.matched += jobMatch.Importance
			matches[term] = types.KeywordMatch{
				CanonicalTerm:     term,
				Mentions:          mentions,
				MatchedVariations: found,
				Importance:        jobMatch.Importance,
			}
		case jobMatch.Importance >= e.thresholds.HighPriority:
			missingHigh = append(missingHigh, term)
		case jobMatch.Importance >= e.thresholds.MediumPriority:
			missingMedium = append(missingMedium, term)
		}
	}

	return matches, missingHigh, missingMedium, tally
}

// matchSoftSkills checks each job soft skill against the resume, using only
// the patterns that appeared in the posting. Missing soft skills above the
// priority threshold join the high-priority list with a marker suffix so
// they read distinctly next to technical terms.
func (e *Engine) matchSoftSkills(resumeLower string, jobSoft map[string]types.KeywordMatch) (map[string]int, []string, categoryTally) {
	matches := make(map[string]int, len(jobSoft))
	var missing []string
	var tally categoryTally

	for _, skill := range sortedKeys(jobSoft) {
		jobMatch := jobSoft[skill]
		tally.total += jobMatch.Importance

		patterns := jobMatch.MatchedVariations
		if len(patterns) == 0 {
			patterns = []string{skill}
		}

		if containsAny(resumeLower, patterns) {
			tally.matched += jobMatch.Importance
			matches[skill] = jobMatch.Importance
		} else if jobMatch.Importance >= e.thresholds.SoftSkillPriority {
			missing = append(missing, skill+" (soft skill)")
		}
	}

	return matches, missing, tally
}

// matchIndustry scans each job industry category's trigger terms in the
// resume. The remote, startup and enterprise categories use the narrower
// resume-context phrasing instead of the posting-side triggers, since a
// resume signals those differently than a job ad does. Unmatched industry
// categories never feed the missing lists.
func (e *Engine) matchIndustry(resumeLower string, jobIndustry map[string]types.KeywordMatch) (map[string]int, categoryTally) {
	matches := make(map[string]int, len(jobIndustry))
	var tally categoryTally

	for _, category := range sortedKeys(jobIndustry) {
		jobMatch := jobIndustry[category]
		tally.total += jobMatch.Importance

		triggers := e.taxonomy.ResumeContext[category]
		if len(triggers) == 0 {
			triggers = e.taxonomy.Industry[category]
		}
		if len(triggers) == 0 {
			triggers = []string{category}
		}

		if containsAny(resumeLower, triggers) {
			tally.matched += jobMatch.Importance
			matches[category] = jobMatch.Importance
		}
	}

	return matches, tally
}

// scoreActionVerbs measures how many of the posting's action verbs the
// resume reuses. The denominator is guarded so a posting with no action
// verbs scores zero instead of dividing by zero.
func scoreActionVerbs(resumeLower string, jobVerbs []string) float64 {
	found := 0
	for _, verb := range jobVerbs {
		if strings.Contains(resumeLower, verb) {
			found++
		}
	}
	return float64(found) / float64(max(1, len(jobVerbs))) * 100
}

// scoreQuantification rewards number-like tokens in the resume, ten points
// each, capped at 100.
func scoreQuantification(resumeText string) float64 {
	count := len(quantifierPattern.FindAllString(resumeText, -1))
	return min(100, float64(count)*QuantificationPerToken)
}

// identifyIrrelevantContent flags resume content unlikely to help this
// application: hobbies on a technical posting, junior-level phrasing when
// the posting wants senior candidates, and obsolete technologies the
// posting does not itself ask for. Professionally relevant interests such
// as volunteering or mentoring are never flagged.
func (e *Engine) identifyIrrelevantContent(resumeLower, jobLower string, jobTechnical map[string]types.KeywordMatch) []string {
	var flagged []string

	techJob := false
	for _, kw := range []string{"python", "javascript", "react"} {
		if _, ok := jobTechnical[kw]; ok {
			techJob = true
			break
		}
	}

	if techJob {
		for _, interest := range e.taxonomy.PersonalInterests {
			if slices.Contains(e.taxonomy.ProfessionalInterests, interest) {
				continue
			}
			if strings.Contains(resumeLower, interest) {
				flagged = append(flagged, "Personal interest: "+interest)
			}
		}
	}

	if containsAny(jobLower, e.taxonomy.SeniorSignals) {
		for _, term := range e.taxonomy.JuniorTerms {
			if strings.Contains(resumeLower, term) {
				flagged = append(flagged, "Junior-level reference: "+term)
			}
		}
	}

	for _, tech := range e.taxonomy.ObsoleteTech {
		if _, askedFor := jobTechnical[tech]; askedFor {
			continue
		}
		if strings.Contains(resumeLower, tech) {
			flagged = append(flagged, "Potentially outdated technology: "+tech)
		}
	}

	return flagged
}
