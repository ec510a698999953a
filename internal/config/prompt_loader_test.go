package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writePromptFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	systemPromptContent := "You rewrite resumes to emphasize keywords the hiring system scans for."
	userPromptContent := "Tailor this resume:\n%s\n\nFor this job:\n%s"

	systemPromptFile := writePromptFile(t, tempDir, "system.tailor.md", systemPromptContent)
	userPromptFile := writePromptFile(t, tempDir, "user.tailor.md", userPromptContent)

	config := &Config{}
	config.AI.Tailor.CustomPrompts.SystemPrompts.TailorResumeFile = systemPromptFile
	config.AI.Tailor.CustomPrompts.UserPrompts.TailorResumeFile = userPromptFile

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("loadPromptsFromFiles: %v", err)
	}

	loadedOps := GetPromptsForOperation("tailor")

	if got := loadedOps.SystemPrompts.TailorResume; got != systemPromptContent {
		t.Errorf("loaded system prompt = %q, want %q", got, systemPromptContent)
	}
	if got := loadedOps.UserPrompts.TailorResume; got != userPromptContent {
		t.Errorf("loaded user prompt = %q, want %q", got, userPromptContent)
	}

	// File paths stay on the config, content lives in the loaded store.
	if config.AI.Tailor.CustomPrompts.SystemPrompts.TailorResumeFile != systemPromptFile {
		t.Error("system prompt file path should survive loading")
	}
	if config.AI.Tailor.CustomPrompts.UserPrompts.TailorResumeFile != userPromptFile {
		t.Error("user prompt file path should survive loading")
	}
}

func TestLoadPromptsFromFilesPerOperation(t *testing.T) {
	tempDir := t.TempDir()

	coverLetterPrompt := "Write a concise cover letter grounded in the resume."
	answerPrompt := "Answer interview questions using only the resume as evidence."

	coverLetterFile := writePromptFile(t, tempDir, "system.coverletter.md", coverLetterPrompt)
	answerFile := writePromptFile(t, tempDir, "system.answer.md", answerPrompt)

	config := &Config{}
	config.AI.CoverLetter.CustomPrompts.SystemPrompts.CoverLetterFile = coverLetterFile
	config.AI.Answer.CustomPrompts.SystemPrompts.AnswerQuestionFile = answerFile

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("loadPromptsFromFiles: %v", err)
	}

	if got := GetPromptsForOperation("coverletter").SystemPrompts.CoverLetter; got != coverLetterPrompt {
		t.Errorf("cover letter prompt = %q, want %q", got, coverLetterPrompt)
	}
	if got := GetPromptsForOperation("answer").SystemPrompts.AnswerQuestion; got != answerPrompt {
		t.Errorf("answer prompt = %q, want %q", got, answerPrompt)
	}
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()

	validFile := writePromptFile(t, tempDir, "valid.md", "Valid content")

	config := &Config{}
	config.AI.Tailor.CustomPrompts.SystemPrompts.TailorResumeFile = validFile

	if err := config.validatePromptFiles(); err != nil {
		t.Errorf("validation should pass for a readable file, got: %v", err)
	}

	config.AI.Tailor.CustomPrompts.SystemPrompts.TailorResumeFile = filepath.Join(tempDir, "nonexistent.md")
	if err := config.validatePromptFiles(); err == nil {
		t.Error("validation should fail for a missing file")
	}
}

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()
	config := &Config{}

	content := "Keep the candidate's real experience intact."
	testFile := writePromptFile(t, tempDir, "test.md", content)

	loaded, err := config.loadPromptFromFile(testFile, "system", "tailorResume")
	if err != nil {
		t.Fatalf("loadPromptFromFile: %v", err)
	}
	if loaded != content {
		t.Errorf("loaded content = %q, want %q", loaded, content)
	}

	// Whitespace-only files count as empty.
	emptyFile := writePromptFile(t, tempDir, "empty.md", "  \n\t\n")
	if _, err := config.loadPromptFromFile(emptyFile, "system", "tailorResume"); err == nil {
		t.Error("want error for whitespace-only file")
	}

	if _, err := config.loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), "system", "tailorResume"); err == nil {
		t.Error("want error for missing file")
	}
}

func TestGetPromptsForOperationUnknownFallsBackToGlobal(t *testing.T) {
	got := GetPromptsForOperation("unknown")

	if got.SystemPrompts != loadedPrompts.Global.SystemPrompts {
		t.Error("unknown operation should fall back to global system prompts")
	}
	if got.UserPrompts != loadedPrompts.Global.UserPrompts {
		t.Error("unknown operation should fall back to global user prompts")
	}
}
