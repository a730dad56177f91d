package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Question is for per-turn question generation (needs to be fast)
	Question string `json:"question"`

	// Eval is for per-answer evaluation (needs to be fast)
	Eval string `json:"eval"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			Question: getEnvOrDefault("GEMINI_MODEL_QUESTION", "gemini-2.0-flash"),
			Eval:     getEnvOrDefault("GEMINI_MODEL_EVAL", "gemini-2.0-flash"),
		},
		TimeoutMS: 15000, // generation and scoring are long-latency network calls
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
