package config

type LLMConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxTokens       int
	MaxContentBytes int
}

func loadLLMConfig() LLMConfig {
	return LLMConfig{
		APIKey:          getEnv("LLM_API_KEY", ""),
		BaseURL:         getEnv("LLM_BASE_URL", ""),
		Model:           getEnv("LLM_MODEL", "gpt-4o-mini"),
		MaxTokens:       getEnvInt("LLM_MAX_TOKENS", 1000),
		MaxContentBytes: getEnvInt("LLM_MAX_CONTENT_BYTES", 8000),
	}
}
