package config

import (
	"os"
	"strconv"
	"time"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// StoreConfig selects and tunes the session store
type StoreConfig struct {
	// RedisURI enables the Redis-backed store when set; empty means in-memory
	RedisURI string

	// SessionTTL is how long an idle session survives before eviction
	SessionTTL time.Duration

	// SweepInterval is how often the in-memory store scans for expired sessions
	SweepInterval time.Duration
}

// SpeechConfig holds the external speech collaborator endpoints
type SpeechConfig struct {
	TTSBaseURL  string
	TTSLanguage string
	STTBaseURL  string
	STTAPIKey   string
	STTLanguage string
}

// InterviewConfig tunes the session state machine
type InterviewConfig struct {
	// TotalQuestions is the fixed session length
	TotalQuestions int

	// PacingDelay separates an evaluation from the next question's generation
	PacingDelay time.Duration
}

// Config is the full application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Speech    SpeechConfig
	Interview InterviewConfig
	AI        *AIConfig

	// MongoURI enables the completed-interview archive when set
	MongoURI string
}

// Load builds the configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Store: StoreConfig{
			RedisURI:      os.Getenv("REDIS_URI"),
			SessionTTL:    getEnvDuration("SESSION_TTL", 2*time.Hour),
			SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
		Speech: SpeechConfig{
			TTSBaseURL:  getEnvOrDefault("TTS_BASE_URL", "https://translate.google.com/translate_tts"),
			TTSLanguage: getEnvOrDefault("TTS_LANGUAGE", "en"),
			STTBaseURL:  getEnvOrDefault("STT_BASE_URL", "https://www.google.com/speech-api/v2/recognize"),
			STTAPIKey:   os.Getenv("STT_API_KEY"),
			STTLanguage: getEnvOrDefault("STT_LANGUAGE", "en-US"),
		},
		Interview: InterviewConfig{
			TotalQuestions: getEnvInt("INTERVIEW_TOTAL_QUESTIONS", 10),
			PacingDelay:    getEnvDuration("INTERVIEW_PACING_DELAY", 3*time.Second),
		},
		AI:       DefaultAIConfig(),
		MongoURI: os.Getenv("MONGO_URI"),
	}
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
