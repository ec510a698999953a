package ats

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	apperrors "atscore/internal/errors"
)

func mustEngine(t testing.TB) *Engine {
	t.Helper()
	engine, err := NewDefaultEngine()
	if err != nil {
		t.Fatalf("NewDefaultEngine: %v", err)
	}
	return engine
}

func TestAnalyzeJobDescriptionRejectsEmptyInput(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name    string
		jobText string
	}{
		{name: "empty string", jobText: ""},
		{name: "whitespace only", jobText: "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.AnalyzeJobDescription(tt.jobText)
			if err == nil {
				t.Fatal("Expected error but got none")
			}

			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("Expected AppError, got %T", err)
			}
			if appErr.Type != apperrors.ErrorTypeValidation {
				t.Errorf("Expected validation error, got %s", appErr.Type)
			}
			if appErr.Code != apperrors.ErrCodeEmptyInput {
				t.Errorf("Expected code %s, got %s", apperrors.ErrCodeEmptyInput, appErr.Code)
			}
		})
	}
}

func TestAnalyzeJobDescriptionTotalImportanceConsistency(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name    string
		jobText string
	}{
		{
			name:    "technical heavy posting",
			jobText: "Senior engineer for python, aws, docker, kubernetes platform work",
		},
		{
			name:    "soft skill heavy posting",
			jobText: "We value leadership, collaboration and communication above all",
		},
		{
			name:    "no recognized keywords",
			jobText: "completely unrelated prose about nothing at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := engine.AnalyzeJobDescription(tt.jobText)
			if err != nil {
				t.Fatalf("AnalyzeJobDescription: %v", err)
			}

			sum := 0
			for _, kw := range profile.Technical {
				sum += kw.Importance
			}
			for _, kw := range profile.SoftSkills {
				sum += kw.Importance
			}
			for _, kw := range profile.Industry {
				sum += kw.Importance
			}

			if profile.TotalImportanceScore != sum {
				t.Errorf("TotalImportanceScore = %d, want sum of categories %d",
					profile.TotalImportanceScore, sum)
			}
		})
	}
}

func TestAnalyzeJobDescriptionIdempotent(t *testing.T) {
	engine := mustEngine(t)
	jobText := "Senior Python engineer, 5+ years, AWS and Kubernetes. You will lead and develop."

	first, err := engine.AnalyzeJobDescription(jobText)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := engine.AnalyzeJobDescription(jobText)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated analysis diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAnalyzeJobDescriptionImportanceWeighting(t *testing.T) {
	engine := mustEngine(t)

	tests := []struct {
		name               string
		jobText            string
		term               string
		category           string
		expectedImportance int
	}{
		{
			// one mention, one variant found
			name:               "single technical mention",
			jobText:            "we use kubernetes here",
			term:               "kubernetes",
			category:           "technical",
			expectedImportance: 3,
		},
		{
			// 5 mentions * 2 + 1 variant = 11, capped at 10
			name:               "technical importance capped",
			jobText:            "kubernetes kubernetes kubernetes kubernetes kubernetes",
			term:               "kubernetes",
			category:           "technical",
			expectedImportance: TechnicalImportanceCap,
		},
		{
			// "lead" appears 5 times, min(8, 10)
			name:               "soft skill importance capped",
			jobText:            "lead lead lead lead lead",
			term:               "leadership",
			category:           "soft",
			expectedImportance: SoftSkillImportanceCap,
		},
		{
			// 4 mentions * 2 = 8, capped at 6
			name:               "industry importance capped",
			jobText:            "fintech fintech fintech fintech",
			term:               "fintech",
			category:           "industry",
			expectedImportance: IndustryImportanceCap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := engine.AnalyzeJobDescription(tt.jobText)
			if err != nil {
				t.Fatalf("AnalyzeJobDescription: %v", err)
			}

			var table = profile.Technical
			switch tt.category {
			case "soft":
				table = profile.SoftSkills
			case "industry":
				table = profile.Industry
			}

			match, found := table[tt.term]
			if !found {
				t.Fatalf("term %q not found in %s matches", tt.term, tt.category)
			}
			if match.Importance != tt.expectedImportance {
				t.Errorf("importance = %d, want %d", match.Importance, tt.expectedImportance)
			}
		})
	}
}

func TestAnalyzeJobDescriptionVariantDiversityNeverDecreasesImportance(t *testing.T) {
	engine := mustEngine(t)

	base, err := engine.AnalyzeJobDescription("we use docker")
	if err != nil {
		t.Fatalf("base analysis: %v", err)
	}
	richer, err := engine.AnalyzeJobDescription("we use docker and require a dockerfile")
	if err != nil {
		t.Fatalf("richer analysis: %v", err)
	}

	baseImportance := base.Technical["docker"].Importance
	richerImportance := richer.Technical["docker"].Importance

	if richerImportance < baseImportance {
		t.Errorf("importance decreased with more variants: %d -> %d", baseImportance, richerImportance)
	}
	if richerImportance > TechnicalImportanceCap {
		t.Errorf("importance %d exceeds cap %d", richerImportance, TechnicalImportanceCap)
	}
}

func TestAnalyzeJobDescriptionUnmentionedTermsExcluded(t *testing.T) {
	engine := mustEngine(t)

	profile, err := engine.AnalyzeJobDescription("we use kubernetes here")
	if err != nil {
		t.Fatalf("AnalyzeJobDescription: %v", err)
	}

	if _, ok := profile.Technical["python"]; ok {
		t.Error("python should not appear in profile for text that never mentions it")
	}
	for term, kw := range profile.Technical {
		if kw.Mentions == 0 {
			t.Errorf("term %q recorded with zero mentions", term)
		}
	}
}

func TestAnalyzeJobDescriptionActionVerbsAndMetrics(t *testing.T) {
	engine := mustEngine(t)

	profile, err := engine.AnalyzeJobDescription(
		"Develop and deploy services. Requires 5+ years experience and 99% uptime.")
	if err != nil {
		t.Fatalf("AnalyzeJobDescription: %v", err)
	}

	for _, verb := range []string{"develop", "deploy"} {
		if !slices.Contains(profile.ActionVerbs, verb) {
			t.Errorf("expected action verb %q in %v", verb, profile.ActionVerbs)
		}
	}

	for _, metric := range []string{"5+ years", "99%", "uptime"} {
		if !slices.Contains(profile.MetricsExpectations, metric) {
			t.Errorf("expected metric %q in %v", metric, profile.MetricsExpectations)
		}
	}

	if !slices.IsSorted(profile.MetricsExpectations) {
		t.Errorf("metrics expectations not in deterministic order: %v", profile.MetricsExpectations)
	}
}
