package ai

import (
	"strings"
	"testing"
	"time"
)

func TestCleanResumeOutput(t *testing.T) {
	raw := "\n\n**John Doe**\n  *Senior Engineer*  \n\nExperience\n- Built _things_\n\n\n"

	cleaned := cleanResumeOutput(raw)

	if strings.Contains(cleaned, "*") || strings.Contains(cleaned, "_") {
		t.Errorf("markdown markers left in output: %q", cleaned)
	}
	if strings.HasPrefix(cleaned, "\n") || strings.HasSuffix(cleaned, "\n") {
		t.Errorf("blank edge lines left in output: %q", cleaned)
	}
	if !strings.HasPrefix(cleaned, "John Doe") {
		t.Errorf("expected output to start with name, got %q", cleaned)
	}
}

func TestValidateResumeOutput(t *testing.T) {
	longEnough := strings.Repeat("relevant accomplishment detail ", 20)

	tests := []struct {
		name    string
		resume  string
		wantErr bool
	}{
		{
			name:    "EmptyOutput",
			resume:  "   \n  ",
			wantErr: true,
		},
		{
			name:    "TooShort",
			resume:  "Experience\nSkills\nEducation",
			wantErr: true,
		},
		{
			name:    "AllSectionsPresent",
			resume:  "Experience\n" + longEnough + "\nSkills\nGo, SQL\nEducation\nBSc",
			wantErr: false,
		},
		{
			name:    "OneMissingSectionTolerated",
			resume:  "Experience\n" + longEnough + "\nSkills\nGo, SQL",
			wantErr: false,
		},
		{
			name:    "TwoMissingSections",
			resume:  "Summary\n" + longEnough,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResumeOutput(tt.resume)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidateResumePreservation(t *testing.T) {
	base := strings.Repeat("original resume content ", 50)

	if err := validateResumePreservation(base, base); err != nil {
		t.Errorf("identical content should pass: %v", err)
	}

	shrunk := base[:len(base)/4]
	if err := validateResumePreservation(shrunk, base); err == nil {
		t.Error("expected error when tailored output drops most of the base resume")
	}

	if err := validateResumePreservation("anything", ""); err != nil {
		t.Errorf("empty base resume should not fail preservation: %v", err)
	}
}

func TestCleanCoverLetterOutputAddsClosingAndDate(t *testing.T) {
	raw := "Dear Hiring Manager,\n\nI am excited to apply for this role.\n\nMy experience fits well."

	cleaned := cleanCoverLetterOutput(raw, "Jane Smith")

	lines := strings.Split(cleaned, "\n")
	currentYear := time.Now().Format("2006")
	if !strings.Contains(lines[0], currentYear) {
		t.Errorf("expected date line first, got %q", lines[0])
	}
	if lines[len(lines)-1] != "Jane Smith" {
		t.Errorf("expected signature name last, got %q", lines[len(lines)-1])
	}
	if !strings.Contains(cleaned, "Sincerely,") {
		t.Error("expected a closing to be added")
	}
}

func TestCleanCoverLetterOutputKeepsExistingClosing(t *testing.T) {
	raw := "January 5, 2026\n\nDear Team,\n\nBody paragraph here.\n\nBest regards,\nJane Smith"

	cleaned := cleanCoverLetterOutput(raw, "Someone Else")

	if strings.Contains(cleaned, "Someone Else") {
		t.Errorf("should not append a second signature: %q", cleaned)
	}
	if !strings.HasPrefix(cleaned, "January 5, 2026") {
		t.Errorf("existing date line should stay first, got %q", cleaned)
	}
}

func TestCleanCoverLetterOutputClosingSeparatedFromSignature(t *testing.T) {
	raw := "January 5, 2026\n\nDear Team,\n\nBody paragraph here.\n\nBest regards,\n\nJane Smith"

	cleaned := cleanCoverLetterOutput(raw, "Someone Else")

	if strings.Contains(cleaned, "Sincerely,") {
		t.Errorf("closing two lines above the end should be recognized: %q", cleaned)
	}
}

func TestValidateCoverLetterOutput(t *testing.T) {
	body := strings.Repeat("compelling sentence about fit ", 15)
	valid := "Dear Hiring Manager,\n\n" + body + "\n\nSincerely,\nJane"

	tests := []struct {
		name    string
		letter  string
		wantErr bool
	}{
		{"Empty", "", true},
		{"TooShort", "Dear Team,\n\nHi.\n\nSincerely,\nJane", true},
		{"TooLong", "Dear Team,\n\n" + strings.Repeat("x", 2100) + "\n\nSincerely,\nJane", true},
		{"NoGreetingOrClosing", body + "\n\n" + body, true},
		{"SingleParagraph", "Dear Team, " + body + " Sincerely, Jane", true},
		{"Valid", valid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCoverLetterOutput(tt.letter)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
