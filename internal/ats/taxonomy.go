package ats

import (
	"fmt"
	"regexp"

	"atscore/internal/errors"
)

// Taxonomy holds the static keyword tables the engine matches against.
// All matching is case-insensitive substring containment, so every entry
// is stored lowercase. The tables are built once at process init and
// never mutated afterwards.
type Taxonomy struct {
	// Technical maps a canonical skill to its surface variants
	Technical map[string][]string

	// SoftSkills maps a soft skill to its trigger word patterns
	SoftSkills map[string][]string

	// Industry maps an industry/context category to its trigger patterns
	Industry map[string][]string

	// ActionVerbs are strong verbs commonly used in job descriptions
	ActionVerbs []string

	// MetricPatterns match quantification expectations ("5+ years", "99%")
	MetricPatterns []*regexp.Regexp

	// MetricContext are words that suggest quantifiable achievements
	MetricContext []string

	// LeadershipSignals indicate leadership experience in a resume
	LeadershipSignals []string

	// PersonalInterests are hobby keywords that may be irrelevant to a job
	PersonalInterests []string

	// ProfessionalInterests are interests never flagged as irrelevant
	ProfessionalInterests []string

	// JuniorTerms indicate junior-level content, flagged for senior roles
	JuniorTerms []string

	// SeniorSignals indicate a posting targets senior candidates
	SeniorSignals []string

	// ObsoleteTech are outdated technologies worth removing from a resume
	ObsoleteTech []string

	// ResumeContext maps context categories to the resume-side terms that
	// satisfy them when the category itself is situational
	ResumeContext map[string][]string

	// VerbUpgrades maps weak resume phrasing to a stronger action verb
	VerbUpgrades map[string]string
}

// DefaultTaxonomy returns the hand-authored keyword tables.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		Technical: map[string][]string{
			"python":           {"python", "py", "django", "flask", "fastapi", "python3"},
			"javascript":       {"javascript", "js", "ecmascript", "vanilla js", "node"},
			"typescript":       {"typescript", "ts", "type script"},
			"react":            {"react", "reactjs", "react.js", "react native", "jsx"},
			"node.js":          {"node.js", "nodejs", "node js", "express", "express.js"},
			"aws":              {"aws", "amazon web services", "ec2", "lambda", "s3", "cloudformation"},
			"gcp":              {"gcp", "google cloud", "google cloud platform"},
			"docker":           {"docker", "containerization", "containers", "dockerfile"},
			"kubernetes":       {"kubernetes", "k8s", "kubectl", "helm", "container orchestration"},
			"postgresql":       {"postgresql", "postgres", "psql", "pg"},
			"mongodb":          {"mongodb", "mongo", "nosql", "document database"},
			"machine learning": {"machine learning", "ml", "artificial intelligence", "ai"},
			"api":              {"api", "restful", "rest", "graphql", "microservices"},
			"ci/cd":            {"ci/cd", "continuous integration", "continuous deployment", "devops"},
			"git":              {"git", "github", "gitlab", "version control", "source control"},
			"agile":            {"agile", "scrum", "kanban", "sprint", "jira"},
			"redis":            {"redis", "caching", "in-memory database"},
			"elasticsearch":    {"elasticsearch", "elk", "search engine", "full-text search"},
			"terraform":        {"terraform", "infrastructure as code", "iac"},
			"nextjs":           {"next.js", "nextjs", "next js"},
			"fastapi":          {"fastapi", "fast api"},
			"langchain":        {"langchain", "lang chain", "llm framework"},
			"openai":           {"openai", "gpt", "llm integration"},
			"supabase":         {"supabase", "firebase", "backend as a service"},
			"zustand":          {"zustand", "state management"},
		},
		SoftSkills: map[string][]string{
			"leadership":      {"lead", "leadership", "manage", "mentor", "guide", "supervise"},
			"collaboration":   {"collaborate", "teamwork", "cross-functional", "work with"},
			"communication":   {"communicate", "present", "explain", "articulate", "documentation"},
			"problem-solving": {"problem-solving", "troubleshoot", "debug", "resolve", "solve"},
			"innovation":      {"innovative", "creative", "improve", "optimize", "enhance"},
			"analytical":      {"analytical", "analyze", "data-driven", "metrics", "insights"},
			"strategic":       {"strategic", "planning", "roadmap", "vision", "long-term"},
			"adaptability":    {"adaptable", "flexible", "learn", "growth mindset", "evolve"},
		},
		Industry: map[string][]string{
			"startup":     {"startup", "early-stage", "founding", "scale-up"},
			"enterprise":  {"enterprise", "large-scale", "fortune", "corporate"},
			"saas":        {"saas", "software as a service", "b2b", "platform"},
			"fintech":     {"fintech", "financial", "banking", "payments"},
			"healthcare":  {"healthcare", "medical", "health", "patient"},
			"e-commerce":  {"e-commerce", "retail", "marketplace", "shopping"},
			"remote":      {"remote", "distributed", "work from home", "virtual"},
			"performance": {"performance", "optimization", "scaling", "efficiency"},
			"security":    {"security", "authentication", "authorization", "encryption"},
			"analytics":   {"analytics", "data", "metrics", "insights", "reporting"},
		},
		ActionVerbs: []string{
			"architect", "build", "create", "develop", "design", "implement", "engineer",
			"deliver", "execute", "manage", "lead", "drive", "optimize", "improve",
			"enhance", "streamline", "automate", "integrate", "collaborate", "coordinate",
			"spearhead", "establish", "maintain", "deploy", "scale", "monitor",
			"troubleshoot", "resolve", "analyze", "evaluate", "research", "innovate",
			"transform", "modernize", "accelerate", "achieve", "exceed", "increase",
			"reduce", "minimize", "maximize", "ensure", "guarantee", "facilitate",
			"contribute", "participate", "support", "mentor", "guide", "train",
		},
		MetricPatterns: compileMetricPatterns(),
		MetricContext: []string{
			"performance", "efficiency", "throughput", "latency", "uptime",
			"availability", "scalability", "growth", "increase", "improve",
			"reduce", "optimize", "accelerate", "users", "traffic", "load",
			"volume", "capacity", "speed", "time", "cost", "revenue",
		},
		LeadershipSignals: []string{
			"led", "managed", "mentored", "founded", "architected", "designed",
			"team lead", "senior", "principal", "director",
		},
		PersonalInterests: []string{
			"basketball", "football", "soccer", "tennis", "golf", "swimming",
			"hiking", "cooking", "baking", "reading", "traveling", "photography",
			"music", "guitar", "piano", "singing", "dancing", "painting",
			"knitting", "gardening", "yoga", "meditation", "volunteering",
		},
		ProfessionalInterests: []string{"volunteering", "teaching", "mentoring"},
		JuniorTerms:           []string{"intern", "entry-level", "junior", "assistant"},
		SeniorSignals:         []string{"senior", "lead", "5+ years"},
		ObsoleteTech:          []string{"flash", "silverlight", "internet explorer", "jquery", "php4"},
		ResumeContext: map[string][]string{
			"remote":     {"remote", "distributed", "virtual team"},
			"startup":    {"startup", "early-stage", "founding"},
			"enterprise": {"enterprise", "large-scale", "corporate"},
		},
		VerbUpgrades: map[string]string{
			"responsible for": "led",
			"worked on":       "developed",
			"helped":          "collaborated",
			"did":             "executed",
			"made":            "created",
			"used":            "leveraged",
			"was involved":    "contributed",
			"participated in": "drove",
			"assisted":        "supported",
			"handled":         "managed",
		},
	}
}

// compileMetricPatterns compiles the quantification expectation patterns.
// Panics on a bad pattern, which can only happen from a source edit.
func compileMetricPatterns() []*regexp.Regexp {
	raw := []string{
		`\d+\+?\s*years?`,
		`\d+\+?\s*million`,
		`\d+\+?\s*billion`,
		`\d+\+?\s*%`,
		`\d+\+?\s*users?`,
		`\d+\+?\s*requests?`,
		`\d+\+?\s*transactions?`,
		`\d+\+?\s*customers?`,
		`scale\s+to\s+\d+`,
		`handle\s+\d+`,
		`support\s+\d+`,
	}

	patterns := make([]*regexp.Regexp, len(raw))
	for i, p := range raw {
		patterns[i] = regexp.MustCompile(p)
	}
	return patterns
}

// Validate checks that every taxonomy table is populated. An empty table
// would silently degrade scoring, so this runs once at engine creation.
func (t *Taxonomy) Validate() error {
	checks := []struct {
		name  string
		empty bool
	}{
		{"technical", len(t.Technical) == 0},
		{"softSkills", len(t.SoftSkills) == 0},
		{"industry", len(t.Industry) == 0},
		{"actionVerbs", len(t.ActionVerbs) == 0},
		{"metricPatterns", len(t.MetricPatterns) == 0},
		{"metricContext", len(t.MetricContext) == 0},
		{"leadershipSignals", len(t.LeadershipSignals) == 0},
		{"personalInterests", len(t.PersonalInterests) == 0},
		{"juniorTerms", len(t.JuniorTerms) == 0},
		{"obsoleteTech", len(t.ObsoleteTech) == 0},
		{"verbUpgrades", len(t.VerbUpgrades) == 0},
	}

	for _, check := range checks {
		if check.empty {
			return errors.NewConfigError(errors.ErrCodeEmptyTaxonomy,
				fmt.Sprintf("keyword taxonomy table %q is empty", check.name), nil)
		}
	}

	for term, variants := range t.Technical {
		if len(variants) == 0 {
			return errors.NewConfigError(errors.ErrCodeEmptyTaxonomy,
				fmt.Sprintf("technical term %q has no variants", term), nil)
		}
	}
	for term, patterns := range t.SoftSkills {
		if len(patterns) == 0 {
			return errors.NewConfigError(errors.ErrCodeEmptyTaxonomy,
				fmt.Sprintf("soft skill %q has no trigger patterns", term), nil)
		}
	}
	for term, patterns := range t.Industry {
		if len(patterns) == 0 {
			return errors.NewConfigError(errors.ErrCodeEmptyTaxonomy,
				fmt.Sprintf("industry category %q has no trigger patterns", term), nil)
		}
	}

	return nil
}
