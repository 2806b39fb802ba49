package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	Env          string `mapstructure:"env"`
	AllowOrigins string `mapstructure:"allow_origins"`
}

type LLMConfig struct {
	Provider        string        `mapstructure:"provider"`
	Model           string        `mapstructure:"model"`
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	MaxOutputTokens int32         `mapstructure:"max_output_tokens"`

	AgentTemperature     float32 `mapstructure:"agent_temperature"`
	ChainTemperature     float32 `mapstructure:"chain_temperature"`
	InterviewTemperature float32 `mapstructure:"interview_temperature"`
}

type StorageConfig struct {
	UploadPath  string `mapstructure:"upload_path"`
	MaxFileSize int64  `mapstructure:"max_file_size"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads .env (if present) and the process environment. Keys map to
// environment variables by replacing dots with underscores, so llm.api_key
// is read from LLM_API_KEY.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("⚠️  Failed to decode configuration, using defaults: %v", err)
		return Default()
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerAPIKey(v, cfg.LLM.Provider)
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModel(cfg.LLM.Provider)
	}

	return &cfg
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.LLM.Model = defaultModel(cfg.LLM.Provider)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.allow_origins", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.agent_temperature", 0.0)
	v.SetDefault("llm.chain_temperature", 0.8)
	v.SetDefault("llm.interview_temperature", 0.0)
	v.SetDefault("llm.max_output_tokens", 4096)

	v.SetDefault("storage.upload_path", "./temp_uploads")
	v.SetDefault("storage.max_file_size", 10485760)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// providerAPIKey falls back to the provider's conventional variable name.
func providerAPIKey(v *viper.Viper, provider string) string {
	switch provider {
	case "groq":
		return v.GetString("GROQ_API_KEY")
	case "openai":
		return v.GetString("OPENAI_API_KEY")
	default:
		return v.GetString("GEMINI_API_KEY")
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "groq":
		return "moonshotai/kimi-k2-instruct-0905"
	case "openai":
		return "gpt-4o-mini"
	default:
		return "gemini-2.5-flash"
	}
}
