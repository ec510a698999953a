package ats

import (
	"strings"

	"atscore/internal/types"
)

// AnalyzeResume extracts a lightweight profile from resume text: technical
// skill presence, leadership signals, a rough years-of-experience figure,
// education level, and company-type background.
//
// Years of experience only recognizes a handful of literal phrases; this is
// a known limitation carried over deliberately, since general numeric
// parsing would change behavior downstream consumers rely on.
func (e *Engine) AnalyzeResume(resumeText string) (types.ResumeProfile, error) {
	if err := validateText(resumeText, "resume"); err != nil {
		return types.ResumeProfile{}, err
	}

	resumeLower := strings.ToLower(resumeText)

	profile := types.ResumeProfile{
		TechnicalSkills:      e.presentTechnicalTerms(resumeLower),
		LeadershipExperience: e.leadershipSignals(resumeLower),
		YearsExperience:      extractYearsExperience(resumeLower),
		EducationLevel:       extractEducationLevel(resumeLower),
		CompanyTypes:         extractCompanyTypes(resumeLower),
	}

	return profile, nil
}

// presentTechnicalTerms reports which canonical technical terms appear in
// the text via any of their variants. Presence only, no counting.
func (e *Engine) presentTechnicalTerms(lowerText string) []string {
	var found []string
	for _, term := range sortedKeys(e.taxonomy.Technical) {
		for _, variant := range e.taxonomy.Technical[term] {
			if strings.Contains(lowerText, variant) {
				found = append(found, term)
				break
			}
		}
	}
	return found
}

// leadershipSignals returns the leadership keywords present in the text,
// in taxonomy order.
func (e *Engine) leadershipSignals(lowerText string) []string {
	var found []string
	for _, keyword := range e.taxonomy.LeadershipSignals {
		if strings.Contains(lowerText, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}

// extractYearsExperience maps a small set of literal phrases to a years
// figure. Not general numeric parsing.
func extractYearsExperience(lowerText string) int {
	if strings.Contains(lowerText, "5+ years") || strings.Contains(lowerText, "5 years") {
		return 5
	}
	if strings.Contains(lowerText, "3+ years") || strings.Contains(lowerText, "4+ years") {
		return 3
	}
	return 0
}

// extractEducationLevel classifies the highest education level mentioned.
// Later checks win when multiple trigger words are present; the priority
// between master and phd triggers is inherited behavior, not a ranking.
func extractEducationLevel(lowerText string) types.EducationLevel {
	level := types.EducationBachelor
	if strings.Contains(lowerText, "master") || strings.Contains(lowerText, "mba") {
		level = types.EducationMaster
	}
	if strings.Contains(lowerText, "phd") || strings.Contains(lowerText, "doctorate") {
		level = types.EducationPhD
	}
	return level
}

// extractCompanyTypes detects startup and enterprise backgrounds. Both may
// be present.
func extractCompanyTypes(lowerText string) []string {
	var companyTypes []string
	if strings.Contains(lowerText, "startup") || strings.Contains(lowerText, "founding") {
		companyTypes = append(companyTypes, "startup")
	}
	for _, term := range []string{"enterprise", "corporation", "fortune"} {
		if strings.Contains(lowerText, term) {
			companyTypes = append(companyTypes, "enterprise")
			break
		}
	}
	return companyTypes
}

// AnalyzeJobRequirements summarizes a posting's expectations beyond raw
// keyword weights: seniority tier, leadership requirement, and industry.
func (e *Engine) AnalyzeJobRequirements(jobText string) (types.JobRequirements, error) {
	if err := validateText(jobText, "job description"); err != nil {
		return types.JobRequirements{}, err
	}

	jobLower := strings.ToLower(jobText)

	reqs := types.JobRequirements{
		TechnicalSkills: e.presentTechnicalTerms(jobLower),
		ExperienceLevel: types.ExperienceMid,
		Industry:        "general",
	}

	for _, skill := range sortedKeys(e.taxonomy.SoftSkills) {
		if strings.Contains(jobLower, skill) {
			reqs.SoftSkills = append(reqs.SoftSkills, skill)
		}
	}

	if containsAny(jobLower, []string{"senior", "lead", "principal", "5+ years", "7+ years"}) {
		reqs.ExperienceLevel = types.ExperienceSenior
	} else if containsAny(jobLower, []string{"junior", "entry", "1-2 years", "new grad"}) {
		reqs.ExperienceLevel = types.ExperienceJunior
	}

	reqs.LeadershipRequired = containsAny(jobLower, []string{
		"lead", "manage", "mentor", "team lead", "technical lead", "supervise",
	})

	for _, industry := range sortedKeys(e.taxonomy.Industry) {
		if industry == "remote" || industry == "performance" || industry == "security" ||
			industry == "analytics" || industry == "startup" || industry == "enterprise" {
			// Situational categories, not industries
			continue
		}
		if containsAny(jobLower, e.taxonomy.Industry[industry]) {
			reqs.Industry = industry
			break
		}
	}

	return reqs, nil
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
