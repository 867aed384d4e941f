package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultConfigFile = "./config/config.yaml"

const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type LLM struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"apiKey"`
	Endpoint    string        `mapstructure:"endpoint"`
	Deployment  string        `mapstructure:"deployment"`
	APIVersion  string        `mapstructure:"apiVersion"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float64       `mapstructure:"temperature"`
	TopP        float64       `mapstructure:"topP"`
	MaxTokens   int           `mapstructure:"maxTokens"`
}

// Configured reports whether enough credentials are present to build a client
// for the selected provider.
func (l LLM) Configured() bool {
	switch l.Provider {
	case ProviderAzure:
		return l.APIKey != "" && l.Endpoint != "" && l.Deployment != ""
	case ProviderOpenAI:
		return l.APIKey != ""
	case ProviderOllama:
		return l.Endpoint != "" && l.Model != ""
	default:
		return false
	}
}

type Nats struct {
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	Stream  string `mapstructure:"stream"`
	Subject string `mapstructure:"subject"`
}

func (n Nats) ConnStr() string {
	return fmt.Sprintf("nats://%s:%s", n.Host, n.Port)
}

func (n Nats) Enabled() bool {
	return n.Host != ""
}

type Server struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Pool struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queueSize"`
}

type Conversation struct {
	MaxTurns  int    `mapstructure:"maxTurns"`
	KeepTurns int    `mapstructure:"keepTurns"`
	SqliteDSN string `mapstructure:"sqliteDSN"`
	Session   string `mapstructure:"session"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type Config struct {
	Server       Server       `mapstructure:"server"`
	LLM          LLM          `mapstructure:"llm"`
	Pool         Pool         `mapstructure:"pool"`
	Conversation Conversation `mapstructure:"conversation"`
	Nats         Nats         `mapstructure:"nats"`
	Cors         Cors         `mapstructure:"cors"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)

	v.SetDefault("llm.provider", ProviderAzure)
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.deployment", "")
	v.SetDefault("llm.apiVersion", "2024-02-01")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.topP", 0.9)
	v.SetDefault("llm.maxTokens", 500)

	v.SetDefault("pool.workers", 10)
	v.SetDefault("pool.queueSize", 100)

	v.SetDefault("conversation.maxTurns", 20)
	v.SetDefault("conversation.keepTurns", 15)
	v.SetDefault("conversation.sqliteDSN", "")
	v.SetDefault("conversation.session", "restaurants-recommender")

	v.SetDefault("nats.host", "")
	v.SetDefault("nats.port", "4222")
	v.SetDefault("nats.stream", "RECOMMENDATIONS")
	v.SetDefault("nats.subject", "recommendations.served")

	v.SetDefault("cors.allowedOrigins", []string{"*"})
}

// Load reads the yaml file at path (a missing file is not an error) and
// overlays environment variables, e.g. LLM_APIKEY for llm.apiKey.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		slog.Warn("config file not loaded, using defaults and environment", "path", path, "error", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func LoadConfig() *Config {
	// credentials usually live in .env next to the binary
	_ = godotenv.Load()

	config, err := Load(DefaultConfigFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}
