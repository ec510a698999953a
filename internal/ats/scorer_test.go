package ats

import (
	"slices"
	"strings"
	"testing"
)

func TestScoreMatchFullCoverageLeavesNoMissingHighPriority(t *testing.T) {
	engine := mustEngine(t)

	jobText := "python and aws and docker for our senior role"
	resumeText := "Seasoned engineer: python, aws, docker in production at scale"

	result, err := engine.Match(resumeText, jobText)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	if len(result.MissingHighPriority) != 0 {
		t.Errorf("expected no missing high-priority keywords, got %v", result.MissingHighPriority)
	}
	for _, term := range []string{"python", "aws", "docker"} {
		if _, ok := result.TechnicalMatches[term]; !ok {
			t.Errorf("expected %q in technical matches", term)
		}
	}
}

func TestScoreMatchSeniorPythonScenario(t *testing.T) {
	engine := mustEngine(t)

	jobText := "Senior Python Engineer. Requires python, aws, leadership, 5+ years experience. You will develop services and lead projects."
	resumeText := "Python developer, led team, AWS certified, developed APIs for 6 years."

	result, err := engine.Match(resumeText, jobText)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	for _, term := range []string{"python", "aws"} {
		if _, ok := result.TechnicalMatches[term]; !ok {
			t.Errorf("expected %q in technical matches", term)
		}
	}
	if len(result.MissingHighPriority) > 1 {
		t.Errorf("expected at most one missing high-priority entry, got %v", result.MissingHighPriority)
	}
	if result.ActionVerbScore <= 0 {
		t.Errorf("expected positive action verb score, got %f", result.ActionVerbScore)
	}
	if result.ATSOptimizationScore < 0 || result.ATSOptimizationScore > 100 {
		t.Errorf("score out of range: %f", result.ATSOptimizationScore)
	}
}

func TestScoreMatchMatchedVariationsReportSurfaceForms(t *testing.T) {
	engine := mustEngine(t)

	jobText := "kubernetes k8s kubectl experience required"
	resumeText := "managed k8s clusters with kubectl"

	result, err := engine.Match(resumeText, jobText)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	match, ok := result.TechnicalMatches["kubernetes"]
	if !ok {
		t.Fatal("expected kubernetes match")
	}
	for _, variant := range []string{"k8s", "kubectl"} {
		if !slices.Contains(match.MatchedVariations, variant) {
			t.Errorf("expected variant %q in %v", variant, match.MatchedVariations)
		}
	}
	if slices.Contains(match.MatchedVariations, "kubernetes") {
		t.Errorf("variant %q reported but not present in resume", "kubernetes")
	}
}

func TestScoreMatchIgnoresVariantsAbsentFromPosting(t *testing.T) {
	engine := mustEngine(t)

	// The posting never says "django", so a django-only resume does not
	// cover its python requirement.
	jobText := "We need python python python python developers"
	resumeText := "Built web apps with Django."

	result, err := engine.Match(resumeText, jobText)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	if _, ok := result.TechnicalMatches["python"]; ok {
		t.Errorf("django-only resume should not match python, got %+v", result.TechnicalMatches["python"])
	}
	if !slices.Contains(result.MissingHighPriority, "python") {
		t.Errorf("expected python in missing high priority, got %v", result.MissingHighPriority)
	}
}

func TestScoreMatchSoftSkillUsesPostingPatternsOnly(t *testing.T) {
	engine := mustEngine(t)

	// Leadership registers in the posting via "mentor" alone; a resume
	// that only says "manage" does not cover it.
	jobText := "You will mentor juniors, mentor peers and mentor new hires."
	resumeText := "I manage release schedules."

	result, err := engine.Match(resumeText, jobText)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	if _, ok := result.SoftSkillMatches["leadership"]; ok {
		t.Error("manage-only resume should not cover a mentor-phrased posting")
	}
	if !slices.Contains(result.MissingHighPriority, "leadership (soft skill)") {
		t.Errorf("expected leadership in missing list, got %v", result.MissingHighPriority)
	}
}

func TestScoreMatchMissingKeywordPartition(t *testing.T) {
	engine := mustEngine(t)

	// kubernetes mentioned 5 times reaches the high tier; docker twice
	// lands in the medium tier.
	jobText := "kubernetes kubernetes kubernetes kubernetes kubernetes docker docker"
	resumeText := "general purpose resume with no relevant technology"

	jobProfile, err := engine.AnalyzeJobDescription(jobText)
	if err != nil {
		t.Fatalf("AnalyzeJobDescription: %v", err)
	}

	result, err := engine.ScoreMatch(jobProfile, resumeText, jobText)
	if err != nil {
		t.Fatalf("ScoreMatch: %v", err)
	}

	if !slices.Contains(result.MissingHighPriority, "kubernetes") {
		t.Errorf("expected kubernetes in missing high priority, got %v", result.MissingHighPriority)
	}
	if !slices.Contains(result.MissingMediumPriority, "docker") {
		t.Errorf("expected docker in missing medium priority, got %v", result.MissingMediumPriority)
	}
}

func TestScoreMatchActionVerbScore(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name          string
		jobText       string
		resumeText    string
		expectedScore float64
	}{
		{
			name:          "no job action verbs guards denominator",
			jobText:       "python required.",
			resumeText:    "python expert",
			expectedScore: 0,
		},
		{
			name:          "resume reuses every job verb",
			jobText:       "you will build and deploy our python stack",
			resumeText:    "I build and deploy python systems",
			expectedScore: 100,
		},
		{
			name:          "resume reuses no job verbs",
			jobText:       "you will build and deploy our python stack",
			resumeText:    "python experience only",
			expectedScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Match(tt.resumeText, tt.jobText)
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			if result.ActionVerbScore != tt.expectedScore {
				t.Errorf("ActionVerbScore = %f, want %f", result.ActionVerbScore, tt.expectedScore)
			}
		})
	}
}

func TestScoreMatchQuantificationScore(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name          string
		resumeText    string
		expectedScore float64
	}{
		{
			name:          "no numeric tokens",
			resumeText:    "python engineer with plenty of experience",
			expectedScore: 0,
		},
		{
			name:          "twelve numeric tokens capped at one hundred",
			resumeText:    "python: 1 2 3 4 5 6 7 8 9 11 22 33",
			expectedScore: 100,
		},
		{
			name:          "three tokens including percent and plus",
			resumeText:    "python: cut latency 40%, handled 10+ services, saved 7 hours",
			expectedScore: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Match(tt.resumeText, "python required.")
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			if result.QuantificationScore != tt.expectedScore {
				t.Errorf("QuantificationScore = %f, want %f", result.QuantificationScore, tt.expectedScore)
			}
		})
	}
}

func TestScoreMatchCompositeScoreClamped(t *testing.T) {
	engine := mustEngine(t)

	// Full keyword coverage plus maxed bonuses pushes the raw sum past
	// 100; the composite must stay clamped.
	jobText := "python developer needed. build and create."
	resumeText := "python py expert. I build and create and develop. 1 2 3 4 5 6 7 8 9 11 22 33"

	result, err := engine.Match(resumeText, jobText)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	if result.ATSOptimizationScore != 100 {
		t.Errorf("expected clamped score 100, got %f", result.ATSOptimizationScore)
	}
	if result.MatchPercentage != 100 {
		t.Errorf("expected full base match, got %f", result.MatchPercentage)
	}
}

func TestScoreMatchIrrelevantContent(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name       string
		jobText    string
		resumeText string
		expected   []string
		absent     []string
	}{
		{
			name:       "hobby flagged on technical posting",
			jobText:    "python and react developer wanted",
			resumeText: "python developer. Interests: basketball, mentoring",
			expected:   []string{"Personal interest: basketball"},
			absent:     []string{"Personal interest: mentoring", "Personal interest: volunteering"},
		},
		{
			name:       "hobby ignored on non-technical posting",
			jobText:    "office coordinator needed",
			resumeText: "candidate who enjoys basketball",
			absent:     []string{"Personal interest: basketball"},
		},
		{
			name:       "junior phrasing flagged for senior posting",
			jobText:    "senior python engineer required",
			resumeText: "python intern at a large company",
			expected:   []string{"Junior-level reference: intern"},
		},
		{
			name:       "junior phrasing ignored without senior signals",
			jobText:    "python engineer required",
			resumeText: "python intern at a large company",
			absent:     []string{"Junior-level reference: intern"},
		},
		{
			name:       "obsolete technology flagged",
			jobText:    "python engineer required",
			resumeText: "python plus legacy flash and jquery work",
			expected: []string{
				"Potentially outdated technology: flash",
				"Potentially outdated technology: jquery",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Match(tt.resumeText, tt.jobText)
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			for _, want := range tt.expected {
				if !slices.Contains(result.IrrelevantContent, want) {
					t.Errorf("expected %q in irrelevant content %v", want, result.IrrelevantContent)
				}
			}
			for _, notWant := range tt.absent {
				if slices.Contains(result.IrrelevantContent, notWant) {
					t.Errorf("did not expect %q in irrelevant content", notWant)
				}
			}
		})
	}
}

func TestScoreMatchTipOrdering(t *testing.T) {
	engine := mustEngine(t)

	// Missing high-priority keywords, no reused verbs, no numbers: the
	// first three tip rules all fire, in their fixed order.
	jobText := "kubernetes kubernetes kubernetes kubernetes required. build create develop implement design."
	resumeText := "seasoned professional."

	result, err := engine.Match(resumeText, jobText)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	prefixes := []string{"HIGH PRIORITY:", "IMPROVE:", "QUANTIFY:"}
	if len(result.ATSOptimizationTips) < len(prefixes) {
		t.Fatalf("expected at least %d tips, got %v", len(prefixes), result.ATSOptimizationTips)
	}
	for i, prefix := range prefixes {
		if !strings.HasPrefix(result.ATSOptimizationTips[i], prefix) {
			t.Errorf("tip %d = %q, want prefix %q", i, result.ATSOptimizationTips[i], prefix)
		}
	}
	if len(result.ATSOptimizationTips) > MaxTips {
		t.Errorf("tip count %d exceeds maximum %d", len(result.ATSOptimizationTips), MaxTips)
	}
	if !strings.Contains(result.ATSOptimizationTips[0], "kubernetes") {
		t.Errorf("high-priority tip should name the missing keyword: %q", result.ATSOptimizationTips[0])
	}
}

func TestScoreMatchRejectsEmptyInput(t *testing.T) {
	engine := mustEngine(t)

	jobProfile, err := engine.AnalyzeJobDescription("python required")
	if err != nil {
		t.Fatalf("AnalyzeJobDescription: %v", err)
	}

	if _, err := engine.ScoreMatch(jobProfile, "  ", "python required"); err == nil {
		t.Error("expected error for empty resume")
	}
	if _, err := engine.ScoreMatch(jobProfile, "resume text", "  "); err == nil {
		t.Error("expected error for empty job text")
	}
}

func BenchmarkScoreMatch(b *testing.B) {
	engine := mustEngine(b)

	jobText := "Senior Python Engineer. Requires python, aws, kubernetes, leadership, 5+ years. You will develop, deploy and lead."
	resumeText := "Python developer, led team of 6, AWS certified, deployed k8s workloads, cut latency 40%."

	jobProfile, err := engine.AnalyzeJobDescription(jobText)
	if err != nil {
		b.Fatalf("AnalyzeJobDescription: %v", err)
	}

	for b.Loop() {
		if _, err := engine.ScoreMatch(jobProfile, resumeText, jobText); err != nil {
			b.Fatalf("ScoreMatch: %v", err)
		}
	}
}
