package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// GetLoadedPrompts exposes the package-level prompt state.
func GetLoadedPrompts() *AllLoadedPrompts {
	return &loadedPrompts
}

// promptSource binds one configured prompt file path to the in-memory
// string it loads into.
type promptSource struct {
	file      string
	kind      string
	operation string
	target    *string
}

// expandSystemSources lists the file-backed entries of one system
// prompt block.
func expandSystemSources(kind string, prompts *SystemPrompts, target *LoadedSystemPrompts) []promptSource {
	return []promptSource{
		{prompts.TailorResumeFile, kind, "tailorResume", &target.TailorResume},
		{prompts.CoverLetterFile, kind, "coverLetter", &target.CoverLetter},
		{prompts.AnswerQuestionFile, kind, "answerQuestion", &target.AnswerQuestion},
	}
}

func expandUserSources(kind string, prompts *UserPrompts, target *LoadedUserPrompts) []promptSource {
	return []promptSource{
		{prompts.TailorResumeFile, kind, "tailorResume", &target.TailorResume},
		{prompts.CoverLetterFile, kind, "coverLetter", &target.CoverLetter},
		{prompts.AnswerQuestionFile, kind, "answerQuestion", &target.AnswerQuestion},
	}
}

// promptSources enumerates every configured prompt file: the global
// block plus the per-operation overrides.
func (c *Config) promptSources() []promptSource {
	var sources []promptSource

	sources = append(sources, expandSystemSources("system", &c.AI.CustomPrompts.SystemPrompts, &loadedPrompts.Global.SystemPrompts)...)
	sources = append(sources, expandUserSources("user", &c.AI.CustomPrompts.UserPrompts, &loadedPrompts.Global.UserPrompts)...)

	sources = append(sources, expandSystemSources("tailor system", &c.AI.Tailor.CustomPrompts.SystemPrompts, &loadedPrompts.Tailor.SystemPrompts)...)
	sources = append(sources, expandUserSources("tailor user", &c.AI.Tailor.CustomPrompts.UserPrompts, &loadedPrompts.Tailor.UserPrompts)...)

	sources = append(sources, expandSystemSources("coverletter system", &c.AI.CoverLetter.CustomPrompts.SystemPrompts, &loadedPrompts.CoverLetter.SystemPrompts)...)
	sources = append(sources, expandUserSources("coverletter user", &c.AI.CoverLetter.CustomPrompts.UserPrompts, &loadedPrompts.CoverLetter.UserPrompts)...)

	sources = append(sources, expandSystemSources("answer system", &c.AI.Answer.CustomPrompts.SystemPrompts, &loadedPrompts.Answer.SystemPrompts)...)
	sources = append(sources, expandUserSources("answer user", &c.AI.Answer.CustomPrompts.UserPrompts, &loadedPrompts.Answer.UserPrompts)...)

	return sources
}

// loadPromptsFromFiles reads every configured prompt file into the
// package-level prompt state. Entries without a file path keep their
// built-in defaults.
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	loadedPromptsOnce.Do(func() {
		loadedPrompts = AllLoadedPrompts{}
	})

	loaded := 0
	for _, src := range c.promptSources() {
		if src.file == "" {
			continue
		}
		content, err := c.loadPromptFromFile(src.file, src.kind, src.operation)
		if err != nil {
			return fmt.Errorf("failed to load %s %s prompt: %w", src.kind, src.operation, err)
		}
		*src.target = content
		loaded++
	}

	if loaded == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", loaded)
	}
	return nil
}

// loadPromptFromFile reads and validates a single prompt file.
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
		}
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmed))
	return trimmed, nil
}

// validatePromptFiles checks that every configured prompt file exists
// before any loading starts, collecting all problems into one error.
func (c *Config) validatePromptFiles() error {
	var problems []string

	for _, src := range c.promptSources() {
		if src.file == "" {
			continue
		}
		absPath, err := filepath.Abs(src.file)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid path for %s %s prompt: %s", src.kind, src.operation, src.file))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("%s %s prompt file not found: %s", src.kind, src.operation, absPath))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}
