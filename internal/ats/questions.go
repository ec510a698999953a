package ats

import (
	"strings"

	"atscore/internal/types"
)

var baseInterviewQuestions = []string{
	"Why should we choose you for this position?",
	"What interests you most about this role?",
	"How do you handle challenging situations or tight deadlines?",
	"What's your greatest professional achievement?",
	"Where do you see yourself in 5 years?",
	"Why are you looking to leave your current position?",
	"What questions do you have for us?",
}

// SuggestQuestions builds a tailored interview preparation list from the
// posting and, when available, the candidate's resume. Gap questions probe
// where the resume falls short of the posting; strength questions invite
// the candidate to showcase what already aligns. The resume is optional;
// without it only posting-driven questions are produced.
func (e *Engine) SuggestQuestions(jobText, resumeText string) ([]string, error) {
	requirements, err := e.AnalyzeJobRequirements(jobText)
	if err != nil {
		return nil, err
	}

	var profile types.ResumeProfile
	if strings.TrimSpace(resumeText) != "" {
		profile, err = e.AnalyzeResume(resumeText)
		if err != nil {
			return nil, err
		}
	}

	jobLower := strings.ToLower(jobText)

	var questions []string
	questions = append(questions, baseInterviewQuestions[:4]...)
	questions = append(questions, capList(gapQuestions(requirements, profile), 3)...)
	questions = append(questions, capList(strengthQuestions(requirements, profile, jobLower), 2)...)
	questions = append(questions, capList(roleSpecificQuestions(jobLower), 3)...)

	return capList(dedupeQuestions(questions), 12), nil
}

// gapQuestions covers the distance between what the posting asks for and
// what the resume shows.
func gapQuestions(requirements types.JobRequirements, profile types.ResumeProfile) []string {
	var questions []string

	resumeSkills := make(map[string]struct{}, len(profile.TechnicalSkills))
	for _, skill := range profile.TechnicalSkills {
		resumeSkills[skill] = struct{}{}
	}

	var missing []string
	for _, skill := range requirements.TechnicalSkills {
		if _, ok := resumeSkills[skill]; !ok {
			missing = append(missing, skill)
		}
	}
	if len(missing) > 0 {
		questions = append(questions,
			"How would you approach learning "+strings.Join(capList(missing, 2), ", ")+" for this role?")
	}

	if requirements.LeadershipRequired && len(profile.LeadershipExperience) == 0 {
		questions = append(questions, "How do you see yourself transitioning into a leadership role?")
	}

	if requirements.ExperienceLevel == types.ExperienceSenior && profile.YearsExperience < 5 {
		questions = append(questions, "How do you feel your experience prepares you for a senior-level position?")
	}

	if requirements.Industry != "general" {
		questions = append(questions,
			"What interests you about working in the "+requirements.Industry+" industry?")
	}

	return questions
}

// strengthQuestions invite the candidate to elaborate on what already
// matches the posting.
func strengthQuestions(requirements types.JobRequirements, profile types.ResumeProfile, jobLower string) []string {
	var questions []string

	if len(profile.LeadershipExperience) > 0 && requirements.LeadershipRequired {
		questions = append(questions, "Can you describe your leadership style and how you motivate teams?")
	}

	jobSkills := make(map[string]struct{}, len(requirements.TechnicalSkills))
	for _, skill := range requirements.TechnicalSkills {
		jobSkills[skill] = struct{}{}
	}
	for _, skill := range profile.TechnicalSkills {
		if _, ok := jobSkills[skill]; ok {
			questions = append(questions,
				"Walk me through a challenging project where you used "+skill+" extensively.")
			break
		}
	}

	for _, companyType := range profile.CompanyTypes {
		if companyType == "startup" && strings.Contains(jobLower, "startup") {
			questions = append(questions, "What do you enjoy most about working in a startup environment?")
			break
		}
	}

	return questions
}

// roleSpecificQuestions keys off phrases in the posting itself.
func roleSpecificQuestions(jobLower string) []string {
	var questions []string

	if containsAny(jobLower, []string{"engineer", "developer", "technical", "software"}) {
		questions = append(questions,
			"Walk me through your approach to debugging a complex issue.",
			"How do you stay current with new technologies and best practices?",
			"Describe a time when you had to make a technical decision with limited information.",
			"How do you approach code reviews and collaboration with other developers?",
		)
	}

	if containsAny(jobLower, []string{"senior", "lead", "manager", "director"}) {
		questions = append(questions,
			"How do you mentor junior team members?",
			"Describe a time when you had to make a difficult decision as a leader.",
			"How do you handle conflicts within your team?",
			"What's your approach to setting and achieving team goals?",
		)
	}

	if containsAny(jobLower, []string{"startup", "fast-paced", "growth", "scale"}) {
		questions = append(questions,
			"How do you thrive in a fast-paced, changing environment?",
			"Describe a time when you had to wear multiple hats or take on responsibilities outside your role.",
			"How do you prioritize tasks when everything seems urgent?",
		)
	}

	if containsAny(jobLower, []string{"remote", "distributed", "work from home"}) {
		questions = append(questions,
			"How do you stay productive and motivated while working remotely?",
			"Describe your experience collaborating with distributed teams.",
		)
	}

	return questions
}

// dedupeQuestions removes case-insensitive duplicates, keeping first
// occurrence order.
func dedupeQuestions(questions []string) []string {
	seen := make(map[string]struct{}, len(questions))
	var unique []string
	for _, question := range questions {
		key := strings.ToLower(question)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, question)
	}
	return unique
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
