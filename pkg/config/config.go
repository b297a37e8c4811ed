package config

import (
	"fmt"
	"os"
	"time"

	"taskdeck/pkg/validation"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Realtime struct {
		PingInterval  time.Duration `yaml:"ping_interval"`
		PongTimeout   time.Duration `yaml:"pong_timeout"`
		WriteTimeout  time.Duration `yaml:"write_timeout"`
		AuthTimeout   time.Duration `yaml:"auth_timeout"`
		SendBuffer    int           `yaml:"send_buffer"`
		MaxMessageLen int64         `yaml:"max_message_len"`
	} `yaml:"realtime"`

	Auth struct {
		JWTSecret       string        `yaml:"jwt_secret"`
		AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
		RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
	} `yaml:"auth"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`

	Cache struct {
		Enabled    bool          `yaml:"enabled"`
		ProjectTTL time.Duration `yaml:"project_ttl"`
	} `yaml:"cache"`

	Email struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		FromName string `yaml:"from_name"`
	} `yaml:"email"`

	Slack struct {
		WebhookURL string        `yaml:"webhook_url"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"slack"`

	Uploads struct {
		Dir         string `yaml:"dir"`
		MaxSizeMB   int64  `yaml:"max_size_mb"`
		ServePrefix string `yaml:"serve_prefix"`
	} `yaml:"uploads"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
	} `yaml:"monitoring"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled"`
		ServiceName string  `yaml:"service_name"`
		JaegerURL   string  `yaml:"jaeger_url"`
		Environment string  `yaml:"environment"`
		SampleRate  float64 `yaml:"sample_rate"`
	} `yaml:"tracing"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	RateLimiting struct {
		Enabled           bool    `yaml:"enabled"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
		MaxConcurrent     int     `yaml:"max_concurrent"`
	} `yaml:"rate_limiting"`
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be > 0")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}

	if c.Realtime.PingInterval <= 0 {
		return fmt.Errorf("realtime.ping_interval must be > 0")
	}
	if c.Realtime.PongTimeout <= 0 {
		return fmt.Errorf("realtime.pong_timeout must be > 0")
	}
	if c.Realtime.AuthTimeout <= 0 {
		return fmt.Errorf("realtime.auth_timeout must be > 0")
	}
	if c.Realtime.SendBuffer <= 0 {
		return fmt.Errorf("realtime.send_buffer must be > 0")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0")
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("auth.refresh_token_ttl must be > 0")
	}

	if c.Redis.Enabled {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address must not be empty when redis.enabled=true")
		}
		if c.Redis.PoolSize <= 0 {
			return fmt.Errorf("redis.pool_size must be > 0 when redis.enabled=true")
		}
	}

	if c.Cache.Enabled && c.Cache.ProjectTTL <= 0 {
		return fmt.Errorf("cache.project_ttl must be > 0 when cache.enabled=true")
	}

	if c.Email.Enabled {
		if c.Email.Host == "" || c.Email.Port == "" {
			return fmt.Errorf("email.host and email.port must be set when email.enabled=true")
		}
		if c.Email.From == "" {
			return fmt.Errorf("email.from must be set when email.enabled=true")
		}
	}

	if c.Slack.WebhookURL != "" {
		if err := validation.ValidateURL(c.Slack.WebhookURL); err != nil {
			return fmt.Errorf("slack.webhook_url: %w", err)
		}
	}

	if c.Uploads.Dir == "" {
		return fmt.Errorf("uploads.dir must not be empty")
	}
	if c.Uploads.MaxSizeMB <= 0 {
		return fmt.Errorf("uploads.max_size_mb must be > 0")
	}

	if c.Logging.Level == "" {
		return fmt.Errorf("logging.level must not be empty")
	}

	if c.RateLimiting.Enabled {
		if c.RateLimiting.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limiting.requests_per_second must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.Burst <= 0 {
			return fmt.Errorf("rate_limiting.burst must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.MaxConcurrent < 0 {
			return fmt.Errorf("rate_limiting.max_concurrent must be >= 0 when rate limiting is enabled")
		}
	}

	return nil
}

// Load reads configuration from YAML file, applies defaults and env overrides.
func Load(configPath string) (*Config, error) {
	// If file does not exist, fall back to defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns configuration with sane defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Address = ":5000"
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.ShutdownTimeout = 30 * time.Second

	cfg.Realtime.PingInterval = 30 * time.Second
	cfg.Realtime.PongTimeout = 60 * time.Second
	cfg.Realtime.WriteTimeout = 10 * time.Second
	cfg.Realtime.AuthTimeout = 10 * time.Second
	cfg.Realtime.SendBuffer = 32
	cfg.Realtime.MaxMessageLen = 64 * 1024

	cfg.Auth.JWTSecret = "change-me-in-production"
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	cfg.Auth.RefreshTokenTTL = 7 * 24 * time.Hour // 7 days
	cfg.Auth.AllowedOrigins = []string{"*"}

	cfg.Redis.Enabled = false
	cfg.Redis.Address = "localhost:6379"
	cfg.Redis.DB = 0
	cfg.Redis.PoolSize = 10

	cfg.Cache.Enabled = true
	cfg.Cache.ProjectTTL = 2 * time.Second

	cfg.Email.Enabled = false
	cfg.Email.Port = "587"
	cfg.Email.FromName = "Taskdeck"

	cfg.Slack.Timeout = 10 * time.Second

	cfg.Uploads.Dir = "uploads"
	cfg.Uploads.MaxSizeMB = 25
	cfg.Uploads.ServePrefix = "/uploads"

	cfg.Monitoring.PrometheusEnabled = true

	cfg.Tracing.Enabled = false
	cfg.Tracing.ServiceName = "taskdeck"
	cfg.Tracing.JaegerURL = "http://localhost:14268/api/traces"
	cfg.Tracing.Environment = "development"
	cfg.Tracing.SampleRate = 1.0

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	cfg.RateLimiting.Enabled = false
	cfg.RateLimiting.RequestsPerSecond = 50
	cfg.RateLimiting.Burst = 100
	cfg.RateLimiting.MaxConcurrent = 0

	return cfg
}

func (c *Config) applyEnvOverrides() {
	// Apply environment variable overrides
	if addr := os.Getenv("TASKDECK_SERVER_ADDRESS"); addr != "" {
		c.Server.Address = addr
	}
	if level := os.Getenv("TASKDECK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if secret := os.Getenv("TASKDECK_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if addr := os.Getenv("TASKDECK_REDIS_ADDRESS"); addr != "" {
		c.Redis.Enabled = true
		c.Redis.Address = addr
	}
	if url := os.Getenv("TASKDECK_SLACK_WEBHOOK_URL"); url != "" {
		c.Slack.WebhookURL = url
	}
	if user := os.Getenv("TASKDECK_EMAIL_USER"); user != "" {
		c.Email.Username = user
		if c.Email.From == "" {
			c.Email.From = user
		}
	}
	if pass := os.Getenv("TASKDECK_EMAIL_PASS"); pass != "" {
		c.Email.Password = pass
	}
}
