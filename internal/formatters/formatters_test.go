package formatters

import (
	"strings"
	"testing"

	"atscore/internal/types"
)

func TestFormatMatchResultText(t *testing.T) {
	result := types.MatchResult{
		TechnicalMatches: map[string]types.KeywordMatch{
			"kubernetes": {CanonicalTerm: "kubernetes", Mentions: 2, Importance: 10},
			"go":         {CanonicalTerm: "go", Mentions: 3, Importance: 8},
		},
		MissingHighPriority:  []string{"terraform"},
		ATSOptimizationScore: 72.5,
		MatchPercentage:      64.0,
		ATSOptimizationTips:  []string{"Add terraform to your skills section"},
	}

	output, err := GlobalRegistry.Format(result, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"ATS Optimization Score: 72.5/100",
		"Missing High-Priority Keywords:",
		"- terraform",
		"1. Add terraform to your skills section",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q:\n%s", want, output)
		}
	}

	// Map iteration must not leak into the output order.
	goIdx := strings.Index(output, "- go")
	kubeIdx := strings.Index(output, "- kubernetes")
	if goIdx == -1 || kubeIdx == -1 || goIdx > kubeIdx {
		t.Errorf("Expected matched keywords in sorted order, got:\n%s", output)
	}
}

func TestFormatReportMarkdown(t *testing.T) {
	report := types.ATSReport{
		ResumePerformance: types.ResumePerformance{ATSScore: 81.0, KeywordMatchPercentage: 70.0},
		ImprovementOpportunities: types.ImprovementOpportunities{
			KeywordDensityStatus:  "Good",
			HighPriorityAdditions: []string{"python"},
		},
	}

	output, err := GlobalRegistry.Format(report, "markdown")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(output, "# ATS Report") {
		t.Errorf("Expected markdown heading, got:\n%s", output)
	}
	if !strings.Contains(output, "**ATS Score:** 81.0/100") {
		t.Errorf("Expected ATS score line, got:\n%s", output)
	}
}

func TestFormatQuestionList(t *testing.T) {
	questions := []string{"Why do you want this role?", "Describe a production incident you handled."}

	output, err := GlobalRegistry.Format(questions, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(output, "1. Why do you want this role?") {
		t.Errorf("Expected numbered question, got:\n%s", output)
	}
	if !strings.Contains(output, "2. Describe a production incident you handled.") {
		t.Errorf("Expected second question, got:\n%s", output)
	}
}

func TestFormatJSONFallback(t *testing.T) {
	output, err := GlobalRegistry.Format(types.CoverLetterOutput{CoverLetter: "Dear Hiring Manager,"}, "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(output, `"coverLetter": "Dear Hiring Manager,"`) {
		t.Errorf("Expected JSON field, got:\n%s", output)
	}
}

func TestFormatUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(types.MatchResult{}, "yaml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
