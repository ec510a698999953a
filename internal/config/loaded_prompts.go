package config

import (
	"sync"
)

var (
	loadedPrompts     AllLoadedPrompts
	loadedPromptsOnce sync.Once
)

// LoadedSystemPrompts holds system-level instruction text read from files.
type LoadedSystemPrompts struct {
	TailorResume   string
	CoverLetter    string
	AnswerQuestion string
}

// LoadedUserPrompts holds user-level prompt templates read from files.
type LoadedUserPrompts struct {
	TailorResume   string
	CoverLetter    string
	AnswerQuestion string
}

// LoadedPrompts pairs the system and user prompt sets.
type LoadedPrompts struct {
	SystemPrompts LoadedSystemPrompts
	UserPrompts   LoadedUserPrompts
}

// OperationLoadedPrompts is the prompt set scoped to one operation.
type OperationLoadedPrompts struct {
	SystemPrompts LoadedSystemPrompts
	UserPrompts   LoadedUserPrompts
}

// AllLoadedPrompts is the full prompt state: global defaults plus
// per-operation overrides.
type AllLoadedPrompts struct {
	Global      LoadedPrompts
	Tailor      OperationLoadedPrompts
	CoverLetter OperationLoadedPrompts
	Answer      OperationLoadedPrompts
}

// GetPromptsForOperation returns the prompt set for an operation type.
// Unknown operation types fall back to the global prompts.
func GetPromptsForOperation(operationType string) OperationLoadedPrompts {
	switch operationType {
	case "tailor":
		return loadedPrompts.Tailor
	case "coverletter":
		return loadedPrompts.CoverLetter
	case "answer":
		return loadedPrompts.Answer
	}
	return OperationLoadedPrompts{
		SystemPrompts: loadedPrompts.Global.SystemPrompts,
		UserPrompts:   loadedPrompts.Global.UserPrompts,
	}
}
