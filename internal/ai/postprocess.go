package ai

import (
	"strings"
	"time"

	apperrors "atscore/internal/errors"
)

// Raw model output tends to carry stray markdown emphasis and ragged
// whitespace even with a structured-output schema. These helpers normalize
// the text fields before they reach the caller.

// stripMarkdown removes emphasis markers the model sometimes emits despite
// being asked for plain text.
func stripMarkdown(text string) string {
	replacer := strings.NewReplacer("**", "", "*", "", "_", "")
	return replacer.Replace(text)
}

// normalizeLines trims each line and drops blank lines at both ends.
func normalizeLines(text string) []string {
	rawLines := strings.Split(text, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		lines = append(lines, strings.TrimSpace(line))
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// cleanResumeOutput strips markdown and surrounding blank lines from a
// tailored resume.
func cleanResumeOutput(resumeText string) string {
	return strings.Join(normalizeLines(stripMarkdown(resumeText)), "\n")
}

const minResumeLength = 500

var resumeSections = []string{"experience", "skills", "education"}

// validateResumeOutput checks that a tailored resume still looks like a
// resume: non-empty, long enough, and carrying the standard sections.
// A single missing section is tolerated since some resumes legitimately
// merge or rename one.
func validateResumeOutput(resumeText string) error {
	trimmed := strings.TrimSpace(resumeText)
	if trimmed == "" {
		return apperrors.NewAIError(apperrors.ErrCodeAIOutputInvalid,
			"Tailored resume output is empty", nil)
	}

	if len(trimmed) < minResumeLength {
		return apperrors.NewAIError(apperrors.ErrCodeAIOutputInvalid,
			"Tailored resume output is too short", nil)
	}

	lower := strings.ToLower(resumeText)
	var missing []string
	for _, section := range resumeSections {
		if !strings.Contains(lower, section) {
			missing = append(missing, section)
		}
	}
	if len(missing) > 1 {
		return apperrors.NewAIError(apperrors.ErrCodeAIOutputInvalid,
			"Tailored resume missing sections: "+strings.Join(missing, ", "), nil)
	}

	return nil
}

// validateResumePreservation verifies the tailoring did not discard content
// wholesale. Tailoring rephrases and reorders but must not shrink the resume
// to a fraction of the original.
func validateResumePreservation(tailored, base string) error {
	baseLen := len(strings.TrimSpace(base))
	if baseLen == 0 {
		return nil
	}

	tailoredLen := len(strings.TrimSpace(tailored))
	if tailoredLen*2 < baseLen {
		return apperrors.NewAIError(apperrors.ErrCodeAIOutputInvalid,
			"Tailored resume dropped too much of the original content", nil)
	}

	return nil
}

var closingWords = []string{"sincerely", "regards", "best"}

// cleanCoverLetterOutput normalizes a generated cover letter into business
// letter shape: plain text, a date line, and a signed closing.
func cleanCoverLetterOutput(coverLetterText, userName string) string {
	lines := normalizeLines(stripMarkdown(coverLetterText))
	if len(lines) == 0 {
		return ""
	}

	var cleaned []string

	// The date goes first when the model left it out.
	if !hasDateLine(lines) {
		cleaned = append(cleaned, time.Now().Format("January 2, 2006"), "")
	}

	cleaned = append(cleaned, lines...)

	if !hasClosing(lines) {
		cleaned = append(cleaned, "", "Sincerely,", userName)
	}

	return strings.Join(cleaned, "\n")
}

// hasClosing reports whether any of the last three lines reads like a
// closing. A signed letter ends with the name under the closing phrase, so
// checking only the final line would miss it.
func hasClosing(lines []string) bool {
	start := max(0, len(lines)-3)
	for _, line := range lines[start:] {
		if containsAny(strings.ToLower(line), closingWords) {
			return true
		}
	}
	return false
}

// hasDateLine reports whether any of the first three lines carries a year,
// which is how a date line is detected.
func hasDateLine(lines []string) bool {
	limit := min(len(lines), 3)
	for _, line := range lines[:limit] {
		if strings.Contains(line, "202") {
			return true
		}
	}
	return false
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

const (
	minCoverLetterLength = 300
	maxCoverLetterLength = 2000
)

var greetingWords = []string{"dear", "hello", "greetings"}

// validateCoverLetterOutput checks length bounds and basic business letter
// structure of a generated cover letter.
func validateCoverLetterOutput(coverLetterText string) error {
	trimmed := strings.TrimSpace(coverLetterText)
	if trimmed == "" {
		return apperrors.NewAIError(apperrors.ErrCodeAIOutputInvalid,
			"Cover letter output is empty", nil)
	}

	if len(trimmed) < minCoverLetterLength {
		return apperrors.NewAIError(apperrors.ErrCodeAIOutputInvalid,
			"Cover letter output is too short", nil)
	}
	if len(trimmed) > maxCoverLetterLength {
		return apperrors.NewAIError(apperrors.ErrCodeAIOutputInvalid,
			"Cover letter output is too long", nil)
	}

	lower := strings.ToLower(coverLetterText)
	if !containsAny(lower, greetingWords) && !containsAny(lower, closingWords) {
		return apperrors.NewAIError(apperrors.ErrCodeAIOutputInvalid,
			"Cover letter missing a greeting or closing", nil)
	}

	paragraphs := 0
	for _, block := range strings.Split(coverLetterText, "\n\n") {
		if strings.TrimSpace(block) != "" {
			paragraphs++
		}
	}
	if paragraphs < 2 {
		return apperrors.NewAIError(apperrors.ErrCodeAIOutputInvalid,
			"Cover letter should have multiple paragraphs", nil)
	}

	return nil
}
