package ats

import (
	"slices"
	"strings"
	"testing"
)

func TestSuggestQuestionsRejectsEmptyJob(t *testing.T) {
	engine := mustEngine(t)

	if _, err := engine.SuggestQuestions("  ", "resume"); err == nil {
		t.Error("expected error for blank job description")
	}
}

func TestSuggestQuestionsWithoutResume(t *testing.T) {
	engine := mustEngine(t)

	questions, err := engine.SuggestQuestions("senior python engineer for our banking platform", "")
	if err != nil {
		t.Fatalf("SuggestQuestions: %v", err)
	}

	if len(questions) == 0 {
		t.Fatal("expected questions without a resume")
	}
	if questions[0] != baseInterviewQuestions[0] {
		t.Errorf("expected base question first, got %q", questions[0])
	}
	if !slices.Contains(questions, "What interests you about working in the fintech industry?") {
		t.Errorf("expected fintech industry question in %v", questions)
	}
	if !slices.Contains(questions, "How do you feel your experience prepares you for a senior-level position?") {
		t.Errorf("expected experience gap question in %v", questions)
	}
}

func TestSuggestQuestionsGapAndStrength(t *testing.T) {
	engine := mustEngine(t)

	jobText := "senior python and aws engineer at our startup, you will lead and mentor"
	resumeText := "python expert, led teams at a startup for 5+ years"

	questions, err := engine.SuggestQuestions(jobText, resumeText)
	if err != nil {
		t.Fatalf("SuggestQuestions: %v", err)
	}

	var learningQuestion, leadershipStrength, projectStrength bool
	for _, question := range questions {
		if strings.HasPrefix(question, "How would you approach learning ") &&
			strings.Contains(question, "aws") {
			learningQuestion = true
		}
		if question == "Can you describe your leadership style and how you motivate teams?" {
			leadershipStrength = true
		}
		if question == "Walk me through a challenging project where you used python extensively." {
			projectStrength = true
		}
	}

	if !learningQuestion {
		t.Errorf("expected aws learning question in %v", questions)
	}
	if !leadershipStrength {
		t.Errorf("expected leadership strength question in %v", questions)
	}
	if !projectStrength {
		t.Errorf("expected python project question in %v", questions)
	}
}

func TestSuggestQuestionsDedupedAndCapped(t *testing.T) {
	engine := mustEngine(t)

	// A posting that trips every role-specific rule at once.
	jobText := "senior software engineer at a fast-paced remote startup, lead distributed teams, python aws kubernetes fintech"

	questions, err := engine.SuggestQuestions(jobText, "")
	if err != nil {
		t.Fatalf("SuggestQuestions: %v", err)
	}

	if len(questions) > 12 {
		t.Errorf("question count %d exceeds cap of 12", len(questions))
	}

	seen := make(map[string]struct{}, len(questions))
	for _, question := range questions {
		key := strings.ToLower(question)
		if _, dup := seen[key]; dup {
			t.Errorf("duplicate question: %q", question)
		}
		seen[key] = struct{}{}
	}
}
