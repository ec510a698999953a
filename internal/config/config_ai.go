package config

// fillIfEmpty copies src into dst for every pair whose dst is empty.
func fillIfEmpty(pairs ...[2]*string) {
	for _, p := range pairs {
		if *p[0] == "" {
			*p[0] = *p[1]
		}
	}
}

// applyOperationDefaults fills unset operation fields from the global AI
// config. Pointer fields stay untouched when explicitly set, even to a
// zero value.
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	fillIfEmpty(
		[2]*string{&opCfg.Provider, &c.AI.Provider},
		[2]*string{&opCfg.Model, &c.AI.Model},
		[2]*string{&opCfg.APIKey, &c.AI.APIKey},
	)
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetTailorConfig resolves the effective tailor settings, including
// prompt text and prompt file fallbacks from the global config.
func (c *Config) GetTailorConfig() OperationAIConfig {
	cfg := c.AI.Tailor
	c.applyOperationDefaults(&cfg)

	global := &c.AI.CustomPrompts
	fillIfEmpty(
		[2]*string{&cfg.CustomPrompts.SystemPrompts.TailorResume, &global.SystemPrompts.TailorResume},
		[2]*string{&cfg.CustomPrompts.UserPrompts.TailorResume, &global.UserPrompts.TailorResume},
		[2]*string{&cfg.CustomPrompts.SystemPrompts.TailorResumeFile, &global.SystemPrompts.TailorResumeFile},
		[2]*string{&cfg.CustomPrompts.UserPrompts.TailorResumeFile, &global.UserPrompts.TailorResumeFile},
	)
	return cfg
}

// GetCoverLetterConfig resolves the effective cover letter settings.
func (c *Config) GetCoverLetterConfig() OperationAIConfig {
	cfg := c.AI.CoverLetter
	c.applyOperationDefaults(&cfg)

	global := &c.AI.CustomPrompts
	fillIfEmpty(
		[2]*string{&cfg.CustomPrompts.SystemPrompts.CoverLetter, &global.SystemPrompts.CoverLetter},
		[2]*string{&cfg.CustomPrompts.UserPrompts.CoverLetter, &global.UserPrompts.CoverLetter},
		[2]*string{&cfg.CustomPrompts.SystemPrompts.CoverLetterFile, &global.SystemPrompts.CoverLetterFile},
		[2]*string{&cfg.CustomPrompts.UserPrompts.CoverLetterFile, &global.UserPrompts.CoverLetterFile},
	)
	return cfg
}

// GetAnswerConfig resolves the effective answer settings.
func (c *Config) GetAnswerConfig() OperationAIConfig {
	cfg := c.AI.Answer
	c.applyOperationDefaults(&cfg)

	global := &c.AI.CustomPrompts
	fillIfEmpty(
		[2]*string{&cfg.CustomPrompts.SystemPrompts.AnswerQuestion, &global.SystemPrompts.AnswerQuestion},
		[2]*string{&cfg.CustomPrompts.UserPrompts.AnswerQuestion, &global.UserPrompts.AnswerQuestion},
		[2]*string{&cfg.CustomPrompts.SystemPrompts.AnswerQuestionFile, &global.SystemPrompts.AnswerQuestionFile},
		[2]*string{&cfg.CustomPrompts.UserPrompts.AnswerQuestionFile, &global.UserPrompts.AnswerQuestionFile},
	)
	return cfg
}
