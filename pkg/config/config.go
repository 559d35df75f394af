package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/ToxiGuard/pkg/common"
	"github.com/spf13/viper"
)

const (
	BackendRemote = "remote"
	BackendLocal  = "local"
	BackendOpenAI = "openai"

	SinkWebhook = "webhook"
	SinkKafka   = "kafka"
	SinkRedis   = "redis"

	// DefaultLogWebhookURL is the spreadsheet script that receives every prediction.
	DefaultLogWebhookURL = "https://script.google.com/macros/s/AKfycbxQqz_osnBNgWpWb8whnrwo9OuIxc2bh1ZlQX3VUaD8hCAdCHiI7UYzDQ0O22aPv2d9Dw/exec"

	hfInferenceBaseURL = "https://api-inference.huggingface.co/models/"
)

type Config struct {
	Server    ServerConfig           `mapstructure:"server"`
	Metrics   MetricsConfig          `mapstructure:"metrics"`
	Logging   LoggingConfig          `mapstructure:"logging"`
	CORS      CORSConfig             `mapstructure:"cors"`
	Inference InferenceConfig        `mapstructure:"inference"`
	Models    map[string]ModelConfig `mapstructure:"models"`
	ResultLog ResultLogConfig        `mapstructure:"result_log"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	BodyLimit   int    `mapstructure:"body_limit"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableLatency bool `mapstructure:"enable_latency"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	MaxAge           string   `mapstructure:"max_age"`
}

type InferenceConfig struct {
	DefaultLanguage string        `mapstructure:"default_language"`
	Token           string        `mapstructure:"token"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Breaker         BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxFailures uint32        `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ModelConfig selects the classifier backend for one language. Settings are decoded by the
// backend itself.
type ModelConfig struct {
	Backend  string                 `mapstructure:"backend"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

type ResultLogConfig struct {
	Enabled   bool         `mapstructure:"enabled"`
	Async     bool         `mapstructure:"async"`
	Workers   int          `mapstructure:"workers"`
	QueueSize int          `mapstructure:"queue_size"`
	Sinks     []SinkConfig `mapstructure:"sinks"`
}

type SinkConfig struct {
	Name     string                 `mapstructure:"name"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

// Load reads config.yaml from configPath (or ./config, .) and applies environment overrides.
// A missing file is not an error: defaults and environment variables are enough to run.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file config.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaultValues(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"server.port":     "PORT",
		"inference.token": common.InferenceTokenEnv,
		"logging.level":   "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", env, key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", common.DefaultPort)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.body_limit", 64*1024)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.enable_latency", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("inference.default_language", common.DefaultLanguage)
	v.SetDefault("inference.timeout", common.DefaultInferenceTimeout)
	v.SetDefault("inference.breaker.enabled", false)
	v.SetDefault("inference.breaker.max_failures", 5)
	v.SetDefault("inference.breaker.timeout", 30*time.Second)
	v.SetDefault("result_log.enabled", true)
	v.SetDefault("result_log.async", false)
	v.SetDefault("result_log.workers", 2)
	v.SetDefault("result_log.queue_size", 1000)
}

// DefaultModels mirrors the models the service was first deployed with.
func DefaultModels() map[string]ModelConfig {
	return map[string]ModelConfig{
		"hi": {
			Backend:  BackendRemote,
			Settings: map[string]interface{}{"url": hfInferenceBaseURL + "LingoIITGN/mBERT_toxic_hindi"},
		},
		"te": {
			Backend:  BackendRemote,
			Settings: map[string]interface{}{"url": hfInferenceBaseURL + "LingoIITGN/mBERT_toxic_telugu"},
		},
	}
}

func setDefaultValues(cfg *Config) {
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels()
	}
	for lang, m := range cfg.Models {
		if m.Backend == "" {
			m.Backend = BackendRemote
			cfg.Models[lang] = m
		}
	}
	if len(cfg.ResultLog.Sinks) == 0 {
		cfg.ResultLog.Sinks = []SinkConfig{
			{Name: SinkWebhook, Settings: map[string]interface{}{"url": DefaultLogWebhookURL}},
		}
	}
	if cfg.ResultLog.Workers <= 0 {
		cfg.ResultLog.Workers = 1
	}
	if cfg.ResultLog.QueueSize <= 0 {
		cfg.ResultLog.QueueSize = 1
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if _, ok := c.Models[c.Inference.DefaultLanguage]; !ok {
		return fmt.Errorf("default language %q has no configured model", c.Inference.DefaultLanguage)
	}
	for lang, m := range c.Models {
		switch m.Backend {
		case BackendRemote, BackendLocal, BackendOpenAI:
		default:
			return fmt.Errorf("model for language %q: unknown backend %q", lang, m.Backend)
		}
	}
	for i, s := range c.ResultLog.Sinks {
		if s.Name == "" {
			return fmt.Errorf("result_log.sinks[%d]: name is required", i)
		}
	}
	return nil
}
