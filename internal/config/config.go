package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/marbleduel/backend/internal/game"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Simulation
	VideoWidth  int
	VideoHeight int
	VideoFPS    int
	Rounds      int
	StepBudget  int

	// Pipeline
	WorkDir       string
	ThemesPath    string
	SplitMode     string
	WorkerCount   int
	JobPollSecs   int
	TextureCache  string
	SubtitlesBurn bool

	// Optional extras. TextureURLTemplate turns a rival's search query into
	// an image URL (%s is the escaped query). StoryClipPath is a background
	// clip for the split-screen top pane; empty means race-only output.
	TextureURLTemplate string
	StoryClipPath      string

	// Story model
	StoryBaseURL string
	StoryAPIKey  string
	StoryModel   string

	// Narration
	TTSCommand string
	TTSVoice   string

	// Security
	JWTSecret         string
	SessionTimeoutMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/marbleduel?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation
		VideoWidth:  getEnvInt("VIDEO_WIDTH", 720),
		VideoHeight: getEnvInt("VIDEO_HEIGHT", 1280),
		VideoFPS:    getEnvInt("VIDEO_FPS", 60),
		Rounds:      getEnvInt("MATCH_ROUNDS", 5),
		StepBudget:  getEnvInt("ROUND_STEP_BUDGET", 3600),

		// Pipeline
		WorkDir:       getEnv("WORK_DIR", "./runs"),
		ThemesPath:    getEnv("THEMES_PATH", ""),
		SplitMode:     getEnv("SPLIT_MODE", "vertical"),
		WorkerCount:   getEnvInt("WORKER_COUNT", 1),
		JobPollSecs:   getEnvInt("JOB_POLL_SECONDS", 5),
		TextureCache:  getEnv("TEXTURE_CACHE_DIR", "./runs/textures"),
		SubtitlesBurn: getEnvBool("BURN_SUBTITLES", true),

		TextureURLTemplate: getEnv("TEXTURE_URL_TEMPLATE", ""),
		StoryClipPath:      getEnv("STORY_CLIP_PATH", ""),

		// Story model
		StoryBaseURL: getEnv("STORY_BASE_URL", "http://localhost:11434/v1"),
		StoryAPIKey:  getEnv("STORY_API_KEY", ""),
		StoryModel:   getEnv("STORY_MODEL", "llama3"),

		// Narration
		TTSCommand: getEnv("TTS_COMMAND", "edge-tts"),
		TTSVoice:   getEnv("TTS_VOICE", "en-US-GuyNeural"),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 30),
	}
}

// Validate catches configuration that would only fail deep inside a render
// run. Called once at startup; errors are fatal.
func (c *Config) Validate() error {
	if c.VideoWidth < 64 || c.VideoHeight < 64 {
		return fmt.Errorf("config: video size %dx%d too small", c.VideoWidth, c.VideoHeight)
	}
	if c.VideoFPS < 1 {
		return fmt.Errorf("config: fps must be positive, got %d", c.VideoFPS)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("config: rounds must be positive, got %d", c.Rounds)
	}
	if c.StepBudget < 1 {
		return fmt.Errorf("config: step budget must be positive, got %d", c.StepBudget)
	}
	if c.SplitMode != "vertical" && c.SplitMode != "horizontal" {
		return fmt.Errorf("config: split mode %q (want vertical or horizontal)", c.SplitMode)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("config: worker count must be positive, got %d", c.WorkerCount)
	}
	return nil
}

// GameTuning applies the environment overrides to the default simulation
// tuning. Callers still run Validate through NewMatch.
func (c *Config) GameTuning() game.Tuning {
	t := game.DefaultTuning()
	t.Width = c.VideoWidth
	t.Height = c.VideoHeight
	t.FPS = c.VideoFPS
	t.Rounds = c.Rounds
	t.StepBudget = c.StepBudget
	return t
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
