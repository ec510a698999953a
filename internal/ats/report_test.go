package ats

import (
	"slices"
	"strings"
	"testing"
)

func TestReportAssemblesAllBlocks(t *testing.T) {
	engine := mustEngine(t)

	jobText := "Senior Python Engineer. Requires python, aws, leadership, 5+ years. You will develop and lead at scale."
	resumeText := "Python developer, led team of 6, AWS certified, developed APIs, cut latency 40%."

	report, err := engine.Report(resumeText, jobText)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	jobProfile, err := engine.AnalyzeJobDescription(jobText)
	if err != nil {
		t.Fatalf("AnalyzeJobDescription: %v", err)
	}

	if report.JobAnalysis.TotalKeywordsIdentified != jobProfile.TotalImportanceScore {
		t.Errorf("TotalKeywordsIdentified = %d, want %d",
			report.JobAnalysis.TotalKeywordsIdentified, jobProfile.TotalImportanceScore)
	}
	if report.JobAnalysis.ActionVerbsInJob != len(jobProfile.ActionVerbs) {
		t.Errorf("ActionVerbsInJob = %d, want %d",
			report.JobAnalysis.ActionVerbsInJob, len(jobProfile.ActionVerbs))
	}
	if report.ResumePerformance.TechnicalKeywordsMatched == 0 {
		t.Error("expected technical keyword matches in performance block")
	}
	if report.ResumePerformance.ATSScore < 0 || report.ResumePerformance.ATSScore > 100 {
		t.Errorf("ATSScore out of range: %f", report.ResumePerformance.ATSScore)
	}
	if !slices.Contains(report.CompetitiveAdvantages.UniqueTechnicalCombinations, "python") {
		t.Errorf("expected python among advantages, got %v",
			report.CompetitiveAdvantages.UniqueTechnicalCombinations)
	}
}

func TestReportKeywordDensityStatus(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name       string
		resumeText string
		jobText    string
		expected   string
	}{
		{
			name:       "full coverage is optimal",
			resumeText: "python py django expert",
			jobText:    "python developer wanted",
			expected:   "Optimal",
		},
		{
			name:       "no coverage needs improvement",
			resumeText: "completely unrelated background",
			jobText:    "python developer wanted",
			expected:   "Needs Improvement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := engine.Report(tt.resumeText, tt.jobText)
			if err != nil {
				t.Fatalf("Report: %v", err)
			}
			if report.ImprovementOpportunities.KeywordDensityStatus != tt.expected {
				t.Errorf("KeywordDensityStatus = %q, want %q",
					report.ImprovementOpportunities.KeywordDensityStatus, tt.expected)
			}
		})
	}
}

func TestBuildReportCriticalSkillCount(t *testing.T) {
	engine := mustEngine(t)

	// kubernetes reaches the high-importance tier, docker stays below it
	jobProfile, err := engine.AnalyzeJobDescription(
		"kubernetes kubernetes kubernetes kubernetes kubernetes docker docker")
	if err != nil {
		t.Fatalf("AnalyzeJobDescription: %v", err)
	}
	result, err := engine.ScoreMatch(jobProfile, "kubernetes and docker daily", "kubernetes docker")
	if err != nil {
		t.Fatalf("ScoreMatch: %v", err)
	}

	report := engine.BuildReport(jobProfile, result)
	if report.JobAnalysis.CriticalTechnicalSkills != 1 {
		t.Errorf("CriticalTechnicalSkills = %d, want 1", report.JobAnalysis.CriticalTechnicalSkills)
	}
}

func TestEnhanceBulletPoints(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name       string
		resumeText string
		jobVerbs   []string
		expected   string
	}{
		{
			name:       "weak phrases upgraded to defaults",
			resumeText: "responsible for testing. worked on features.",
			jobVerbs:   nil,
			expected:   "led testing. developed features.",
		},
		{
			name:       "job verb preferred when already present",
			resumeText: "responsible for the api. we build things.",
			jobVerbs:   []string{"build"},
			expected:   "build the api. we build things.",
		},
		{
			name:       "absent job verbs fall back to defaults",
			resumeText: "helped with releases",
			jobVerbs:   []string{"architect"},
			expected:   "collaborated with releases",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enhanced := engine.EnhanceBulletPoints(tt.resumeText, tt.jobVerbs)
			if enhanced != tt.expected {
				t.Errorf("EnhanceBulletPoints = %q, want %q", enhanced, tt.expected)
			}
		})
	}
}

func TestOptimizationTipsIrrelevantContentRule(t *testing.T) {
	engine := mustEngine(t)

	// Three flagged hobbies cross the removal-tip threshold.
	jobText := "python and react developer wanted. build create develop."
	resumeText := "python react developer. I build, create and develop. 1 2 3 4 5. Hobbies: basketball, golf, knitting."

	result, err := engine.Match(resumeText, jobText)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	if len(result.IrrelevantContent) <= IrrelevantTipThreshold {
		t.Fatalf("fixture should flag more than %d items, got %v",
			IrrelevantTipThreshold, result.IrrelevantContent)
	}

	var removeTip bool
	for _, tip := range result.ATSOptimizationTips {
		if strings.HasPrefix(tip, "REMOVE:") {
			removeTip = true
		}
	}
	if !removeTip {
		t.Errorf("expected a REMOVE tip in %v", result.ATSOptimizationTips)
	}
}
