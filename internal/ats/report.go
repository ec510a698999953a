package ats

import (
	"strings"

	"atscore/internal/types"
)

// optimizationTips derives actionable resume advice from a match result.
// Rules fire in a fixed priority order, one tip per rule, never more than
// MaxTips total.
func (e *Engine) optimizationTips(result types.MatchResult) []string {
	var tips []string

	if len(result.MissingHighPriority) > 0 {
		top := result.MissingHighPriority
		if len(top) > MaxMissingKeywordsPerTip {
			top = top[:MaxMissingKeywordsPerTip]
		}
		tips = append(tips, "HIGH PRIORITY: Include these critical keywords: "+strings.Join(top, ", "))
	}

	if result.ActionVerbScore < e.thresholds.ActionVerbTip {
		tips = append(tips, "IMPROVE: Use stronger action verbs from the job description in your bullet points")
	}

	if result.QuantificationScore < e.thresholds.QuantificationTip {
		tips = append(tips, "QUANTIFY: Add more numbers, percentages, and measurable achievements")
	}

	if len(result.IrrelevantContent) > e.thresholds.IrrelevantTip {
		tips = append(tips, "REMOVE: Consider removing irrelevant content to make room for job-relevant details")
	}

	if len(tips) > MaxTips {
		tips = tips[:MaxTips]
	}
	return tips
}

// Match runs the full local pipeline: analyze the posting, then score the
// resume against it.
func (e *Engine) Match(resumeText, jobText string) (types.MatchResult, error) {
	jobProfile, err := e.AnalyzeJobDescription(jobText)
	if err != nil {
		return types.MatchResult{}, err
	}
	return e.ScoreMatch(jobProfile, resumeText, jobText)
}

// Report runs the full pipeline and folds the outcome into a structured
// optimization report.
func (e *Engine) Report(resumeText, jobText string) (types.ATSReport, error) {
	jobProfile, err := e.AnalyzeJobDescription(jobText)
	if err != nil {
		return types.ATSReport{}, err
	}
	result, err := e.ScoreMatch(jobProfile, resumeText, jobText)
	if err != nil {
		return types.ATSReport{}, err
	}
	return e.BuildReport(jobProfile, result), nil
}

// BuildReport assembles the four report blocks from an already computed job
// profile and match result. Pure reshaping, no re-analysis.
func (e *Engine) BuildReport(jobProfile types.JobProfile, result types.MatchResult) types.ATSReport {
	criticalTech := 0
	for _, kw := range jobProfile.Technical {
		if kw.Importance >= e.thresholds.HighPriority {
			criticalTech++
		}
	}

	densityStatus := "Needs Improvement"
	if result.MatchPercentage > 75 {
		densityStatus = "Optimal"
	}

	matchedTech := sortedKeys(result.TechnicalMatches)
	if len(matchedTech) > 5 {
		matchedTech = matchedTech[:5]
	}

	leadershipIndicators := 0
	for skill := range result.SoftSkillMatches {
		if strings.Contains(strings.ToLower(skill), "leadership") {
			leadershipIndicators++
		}
	}

	scaleHighlighted := false
	for _, kw := range result.TechnicalMatches {
		for _, variant := range kw.MatchedVariations {
			if strings.Contains(variant, "scale") {
				scaleHighlighted = true
				break
			}
		}
	}

	highAdditions := result.MissingHighPriority
	if len(highAdditions) > 5 {
		highAdditions = highAdditions[:5]
	}
	removals := result.IrrelevantContent
	if len(removals) > 3 {
		removals = removals[:3]
	}

	return types.ATSReport{
		JobAnalysis: types.JobAnalysisSummary{
			TotalKeywordsIdentified: jobProfile.TotalImportanceScore,
			CriticalTechnicalSkills: criticalTech,
			ActionVerbsInJob:        len(jobProfile.ActionVerbs),
			MetricsExpectations:     jobProfile.MetricsExpectations,
		},
		ResumePerformance: types.ResumePerformance{
			ATSScore:                 result.ATSOptimizationScore,
			KeywordMatchPercentage:   result.MatchPercentage,
			TechnicalKeywordsMatched: len(result.TechnicalMatches),
			MissingCriticalKeywords:  len(result.MissingHighPriority),
			ActionVerbAlignment:      result.ActionVerbScore,
			QuantificationStrength:   result.QuantificationScore,
		},
		ImprovementOpportunities: types.ImprovementOpportunities{
			HighPriorityAdditions:    highAdditions,
			ContentToConsiderRemoval: removals,
			OptimizationTips:         result.ATSOptimizationTips,
			KeywordDensityStatus:     densityStatus,
		},
		CompetitiveAdvantages: types.CompetitiveAdvantages{
			UniqueTechnicalCombinations: matchedTech,
			LeadershipIndicators:        leadershipIndicators,
			ScaleExperienceHighlighted:  scaleHighlighted,
		},
	}
}

// EnhanceBulletPoints rewrites weak resume phrasing with stronger action
// verbs, preferring verbs the posting itself uses when one already appears
// somewhere in the text.
func (e *Engine) EnhanceBulletPoints(resumeText string, jobVerbs []string) string {
	enhanced := resumeText

	for _, weak := range sortedKeys(e.taxonomy.VerbUpgrades) {
		replacement := e.taxonomy.VerbUpgrades[weak]
		if verb, ok := firstPresentVerb(strings.ToLower(enhanced), jobVerbs); ok {
			replacement = verb
		}
		enhanced = strings.ReplaceAll(enhanced, weak, replacement)
	}

	return enhanced
}

func firstPresentVerb(lowerText string, verbs []string) (string, bool) {
	for _, verb := range verbs {
		if strings.Contains(lowerText, verb) {
			return verb, true
		}
	}
	return "", false
}
