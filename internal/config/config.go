package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	Development = "development"
	Staging     = "staging"
	Production  = "production"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Config struct {
	AppEnv       string
	Port         string
	JWTSecret    string
	SessionTTL   time.Duration
	SessionSweep time.Duration
	DatabaseURL  string
	CORSOrigins  []string

	Log    LogConfig
	LLM    LLMConfig
	Search SearchConfig
	Admin  AdminConfig
	R2     R2Config
	Kafka  KafkaConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

type SearchConfig struct {
	StrictSchema bool
}

// AdminConfig holds the demo admin login. It is a placeholder credential,
// not an account system.
type AdminConfig struct {
	Username string
	Password string
}

type R2Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// Enabled reports whether enough of the R2 settings are present to build a client.
func (c R2Config) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

type KafkaConfig struct {
	Brokers     []string
	SearchTopic string
	GroupID     string
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", Development)
	v.SetDefault("port", "8000")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("session_sweep_interval", "10m")
	v.SetDefault("cors_origins", "http://localhost:3000,http://localhost:5173,http://localhost:8080")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "")

	v.SetDefault("llm_provider", ProviderOpenRouter)
	v.SetDefault("llm_timeout", "60s")
	v.SetDefault("openrouter_model", "openai/gpt-3.5-turbo")
	v.SetDefault("gemini_model", "gemini-1.5-flash")

	v.SetDefault("search_strict_schema", false)

	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password", "pass")

	v.SetDefault("kafka_search_topic", "food-search.events")
	v.SetDefault("kafka_group_id", "zomaksho-events-worker")
}

// Load reads configuration from defaults, an optional config/<APP_ENV>.yaml
// file and the process environment, in increasing order of precedence.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWorker is Load for the events worker, which needs a database and a
// broker but no API secrets.
func LoadWorker() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateWorker(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	env := strings.ToLower(v.GetString("app_env"))

	v.SetConfigName(env)
	v.SetConfigType("yaml")
	v.AddConfigPath("config/")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v, env)
}

func fromViper(v *viper.Viper, env string) (*Config, error) {
	cfg := &Config{
		AppEnv:       env,
		Port:         v.GetString("port"),
		JWTSecret:    v.GetString("jwt_secret"),
		SessionTTL:   v.GetDuration("session_ttl"),
		SessionSweep: v.GetDuration("session_sweep_interval"),
		DatabaseURL:  v.GetString("database_url"),
		CORSOrigins:  splitList(v.GetString("cors_origins")),
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(v.GetString("llm_provider")),
			BaseURL:  v.GetString("llm_base_url"),
			Timeout:  v.GetDuration("llm_timeout"),
		},
		Search: SearchConfig{
			StrictSchema: v.GetBool("search_strict_schema"),
		},
		Admin: AdminConfig{
			Username: v.GetString("admin_username"),
			Password: v.GetString("admin_password"),
		},
		R2: R2Config{
			Endpoint:      v.GetString("r2_endpoint"),
			AccessKey:     v.GetString("r2_access_key"),
			SecretKey:     v.GetString("r2_secret_key"),
			Bucket:        v.GetString("r2_bucket_name"),
			PublicBaseURL: strings.TrimSuffix(v.GetString("r2_public_base_url"), "/"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(v.GetString("kafka_brokers")),
			SearchTopic: v.GetString("kafka_search_topic"),
			GroupID:     v.GetString("kafka_group_id"),
		},
	}

	switch cfg.LLM.Provider {
	case ProviderOpenRouter:
		cfg.LLM.APIKey = v.GetString("openrouter_api_key")
		cfg.LLM.Model = v.GetString("openrouter_model")
	case ProviderGemini:
		cfg.LLM.APIKey = v.GetString("gemini_api_key")
		cfg.LLM.Model = v.GetString("gemini_model")
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLM.Provider)
	}

	return cfg, nil
}

// Validate checks the settings the API cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case ProviderGemini:
			missing = append(missing, "GEMINI_API_KEY")
		default:
			missing = append(missing, "OPENROUTER_API_KEY")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) ValidateWorker() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if !c.Kafka.Enabled() {
		missing = append(missing, "KAFKA_BROKERS")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Warnings lists settings that start fine but leave part of the API
// without data.
func (c *Config) Warnings() []string {
	var out []string
	if c.Kafka.Enabled() && c.DatabaseURL == "" {
		out = append(out, "KAFKA_BROKERS set without DATABASE_URL: search events go to kafka and admin search stats stay empty")
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == Production
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
