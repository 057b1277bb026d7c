package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
	Improver ImproverConfig
	Prompts  PromptsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LLMConfig holds completion-provider configuration for the analysis and
// adaptation collaborator.
type LLMConfig struct {
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenRouterAPIKey string
	OpenRouterModel  string
	DefaultProvider  string // "openai" or "openrouter"
	Timeout          time.Duration
}

// PipelineConfig holds generation-pipeline invocation settings.
type PipelineConfig struct {
	CrewCommand string
	WorkDir     string
	TestTimeout time.Duration
}

// ImproverConfig holds improvement-cycle settings.
type ImproverConfig struct {
	MaxIterations  int
	TargetPassRate float64
	NumProspects   int
	LogDir         string
	ReportPath     string
	BackupDir      string
	BackupPrompts  bool
}

// PromptsConfig holds the prompt configuration store locations.
type PromptsConfig struct {
	AgentsPath string
	TasksPath  string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("SERVER_PORT", getEnvAsInt("PORT", 8080)),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o"),
			OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
			OpenRouterModel:  getEnv("OPENROUTER_MODEL", "openai/gpt-4-turbo"),
			DefaultProvider:  getEnv("LLM_DEFAULT_PROVIDER", "openai"),
			Timeout:          getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
		Pipeline: PipelineConfig{
			CrewCommand: getEnv("CREW_COMMAND", "crewai run"),
			WorkDir:     getEnv("CREW_WORKDIR", "."),
			TestTimeout: getEnvAsDuration("TEST_TIMEOUT", 3*time.Minute),
		},
		Improver: ImproverConfig{
			MaxIterations:  getEnvAsInt("MAX_ITERATIONS", 10),
			TargetPassRate: getEnvAsFloat("TARGET_PASS_RATE", 0.95),
			NumProspects:   getEnvAsInt("NUM_PROSPECTS", 20),
			LogDir:         getEnv("IMPROVEMENT_LOG_DIR", "improvement_logs"),
			ReportPath:     getEnv("IMPROVEMENT_REPORT", "auto_improvement_report.json"),
			BackupDir:      getEnv("PROMPT_BACKUP_DIR", "prompt_backups"),
			BackupPrompts:  getEnvAsBool("BACKUP_PROMPTS", true),
		},
		Prompts: PromptsConfig{
			AgentsPath: getEnv("AGENTS_YAML_PATH", "config/agents.yaml"),
			TasksPath:  getEnv("TASKS_YAML_PATH", "config/tasks.yaml"),
		},
	}

	return cfg, nil
}

// Addr returns the server address.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
