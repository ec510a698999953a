package types

// EducationLevel is the highest education level detected in a resume
type EducationLevel string

const (
	EducationBachelor EducationLevel = "bachelor"
	EducationMaster   EducationLevel = "master"
	EducationPhD      EducationLevel = "phd"
)

// ExperienceLevel is the seniority tier a job posting asks for
type ExperienceLevel string

const (
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

// KeywordMatch records how a single canonical keyword showed up in a text
type KeywordMatch struct {
	CanonicalTerm     string   `json:"canonicalTerm"`
	Mentions          int      `json:"mentions"`
	MatchedVariations []string `json:"matchedVariations"`
	Importance        int      `json:"importance"`
}

// JobProfile is the weighted keyword profile derived from a job description
type JobProfile struct {
	Technical            map[string]KeywordMatch `json:"technical"`
	SoftSkills           map[string]KeywordMatch `json:"softSkills"`
	Industry             map[string]KeywordMatch `json:"industry"`
	ActionVerbs          []string                `json:"actionVerbs"`
	MetricsExpectations  []string                `json:"metricsExpectations"`
	TotalImportanceScore int                     `json:"totalImportanceScore"`
}

// ResumeProfile is the lighter-weight profile derived from a resume.
// Technical skills are presence-only; no counting or weighting.
type ResumeProfile struct {
	TechnicalSkills      []string       `json:"technicalSkills"`
	LeadershipExperience []string       `json:"leadershipExperience"`
	YearsExperience      int            `json:"yearsExperience"`
	EducationLevel       EducationLevel `json:"educationLevel"`
	CompanyTypes         []string       `json:"companyTypes"`
}

// JobRequirements summarizes what a posting asks for beyond raw keywords
type JobRequirements struct {
	TechnicalSkills    []string        `json:"technicalSkills"`
	SoftSkills         []string        `json:"softSkills"`
	ExperienceLevel    ExperienceLevel `json:"experienceLevel"`
	LeadershipRequired bool            `json:"leadershipRequired"`
	Industry           string          `json:"industry"`
}

// MatchResult is the full outcome of scoring a resume against a job profile
type MatchResult struct {
	TechnicalMatches      map[string]KeywordMatch `json:"technicalMatches"`
	SoftSkillMatches      map[string]int          `json:"softSkillMatches"`
	IndustryMatches       map[string]int          `json:"industryMatches"`
	MissingHighPriority   []string                `json:"missingHighPriority"`
	MissingMediumPriority []string                `json:"missingMediumPriority"`
	ActionVerbScore       float64                 `json:"actionVerbScore"`
	QuantificationScore   float64                 `json:"quantificationScore"`
	MatchPercentage       float64                 `json:"matchPercentage"`
	ATSOptimizationScore  float64                 `json:"atsOptimizationScore"`
	IrrelevantContent     []string                `json:"irrelevantContent"`
	ATSOptimizationTips   []string                `json:"atsOptimizationTips"`
}

// JobAnalysisSummary is the job-side block of an ATS report
type JobAnalysisSummary struct {
	TotalKeywordsIdentified int      `json:"totalKeywordsIdentified"`
	CriticalTechnicalSkills int      `json:"criticalTechnicalSkills"`
	ActionVerbsInJob        int      `json:"actionVerbsInJob"`
	MetricsExpectations     []string `json:"metricsExpectations"`
}

// ResumePerformance is the resume-side block of an ATS report
type ResumePerformance struct {
	ATSScore                 float64 `json:"atsScore"`
	KeywordMatchPercentage   float64 `json:"keywordMatchPercentage"`
	TechnicalKeywordsMatched int     `json:"technicalKeywordsMatched"`
	MissingCriticalKeywords  int     `json:"missingCriticalKeywords"`
	ActionVerbAlignment      float64 `json:"actionVerbAlignment"`
	QuantificationStrength   float64 `json:"quantificationStrength"`
}

// ImprovementOpportunities lists the highest-leverage resume edits
type ImprovementOpportunities struct {
	HighPriorityAdditions    []string `json:"highPriorityAdditions"`
	ContentToConsiderRemoval []string `json:"contentToConsiderRemoving"`
	OptimizationTips         []string `json:"optimizationTips"`
	KeywordDensityStatus     string   `json:"keywordDensityStatus"`
}

// CompetitiveAdvantages highlights what already works in the resume
type CompetitiveAdvantages struct {
	UniqueTechnicalCombinations []string `json:"uniqueTechnicalCombinations"`
	LeadershipIndicators        int      `json:"leadershipIndicators"`
	ScaleExperienceHighlighted  bool     `json:"scaleExperienceHighlighted"`
}

// ATSReport is the structured report built from a full match analysis
type ATSReport struct {
	JobAnalysis              JobAnalysisSummary       `json:"jobAnalysis"`
	ResumePerformance        ResumePerformance        `json:"resumePerformance"`
	ImprovementOpportunities ImprovementOpportunities `json:"improvementOpportunities"`
	CompetitiveAdvantages    CompetitiveAdvantages    `json:"competitiveAdvantages"`
}

// MatchInput represents the input for a local match analysis
type MatchInput struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

// TailorResumeInput represents the input for tailoring a resume
type TailorResumeInput struct {
	BaseResume     string `json:"baseResume"`
	JobDescription string `json:"jobDescription"`
}

// TailorResumeOutput represents the output from tailoring a resume
type TailorResumeOutput struct {
	TailoredResume string   `json:"tailoredResume"`
	KeyChanges     []string `json:"keyChanges"`
}

// CoverLetterInput represents the input for generating a cover letter
type CoverLetterInput struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
	UserName       string `json:"userName,omitempty"`
}

// CoverLetterOutput represents the output from generating a cover letter
type CoverLetterOutput struct {
	CoverLetter string `json:"coverLetter"`
}

// AnswerQuestionInput represents the input for answering an application question
type AnswerQuestionInput struct {
	Question       string `json:"question"`
	JobDescription string `json:"jobDescription"`
	Resume         string `json:"resume"`
}

// AnswerQuestionOutput represents the output from answering an application question
type AnswerQuestionOutput struct {
	Answer string `json:"answer"`
}
