package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host  string `yaml:"host"`
		Port  int    `yaml:"port"`
		Env   string `yaml:"env"`
		Debug bool   `yaml:"debug"`

		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Email struct {
		Mock         bool   `yaml:"mock"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	// JWT verifies bearer tokens issued by the external identity provider.
	JWT struct {
		Secret string `yaml:"secret"`
		Issuer string `yaml:"issuer"`
	} `yaml:"jwt"`

	Storage struct {
		Type     string `yaml:"type"`
		BasePath string `yaml:"base_path"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"storage"`

	OTP OTPConfig `yaml:"otp"`

	Timeouts struct {
		Persistence time.Duration `yaml:"persistence"`
		Email       time.Duration `yaml:"email"`
		Report      time.Duration `yaml:"report"`
	} `yaml:"timeouts"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"rps"`
		Burst             int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Jobs struct {
		// ExpirySweep is the period of the expired job cleanup; negative disables it.
		ExpirySweep time.Duration `yaml:"expiry_sweep"`
	} `yaml:"jobs"`

	Report struct {
		JobSampleSize int                    `yaml:"job_sample_size"`
		RoleProfiles  map[string]RoleProfile `yaml:"role_profiles"`
	} `yaml:"report"`
}

type OTPConfig struct {
	TTL         time.Duration `yaml:"ttl"`
	Cooldown    time.Duration `yaml:"cooldown"`
	MaxAttempts int           `yaml:"max_attempts"`
	MaxResends  int           `yaml:"max_resends"`
	HashCost    int           `yaml:"hash_cost"`
}

// RoleProfile overrides the correlator tables for one personality category.
type RoleProfile struct {
	IdealRoles []string `yaml:"ideal_roles"`
	Keywords   []string `yaml:"keywords"`
}

// Load reads the YAML file at path (optional when DATABASE_URL is set) and
// applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.yaml"
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case os.IsNotExist(err) && os.Getenv("DATABASE_URL") != "":
		// env-only mode
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str("DATABASE_URL", &cfg.Database.DSN)
	str("SERVER_ENV", &cfg.Server.Env)
	num("SERVER_PORT", &cfg.Server.Port)
	str("JWT_SECRET", &cfg.JWT.Secret)
	str("SMTP_HOST", &cfg.Email.SMTPHost)
	num("SMTP_PORT", &cfg.Email.SMTPPort)
	str("SMTP_USER", &cfg.Email.SMTPUsername)
	str("SMTP_PASSWORD", &cfg.Email.SMTPPassword)
	str("STORAGE_PATH", &cfg.Storage.BasePath)

	if v := strings.TrimSpace(os.Getenv("REDIS_ADDR")); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	str("REDIS_PASSWORD", &cfg.Redis.Password)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 20
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "JobNest"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	if cfg.Storage.BaseURL == "" {
		cfg.Storage.BaseURL = "/api/v1/reports"
	}

	cfg.OTP = cfg.OTP.WithDefaults()

	if cfg.Timeouts.Persistence == 0 {
		cfg.Timeouts.Persistence = 5 * time.Second
	}
	if cfg.Timeouts.Email == 0 {
		cfg.Timeouts.Email = 10 * time.Second
	}
	if cfg.Timeouts.Report == 0 {
		cfg.Timeouts.Report = 15 * time.Second
	}
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 1
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 5
	}
	if cfg.Jobs.ExpirySweep == 0 {
		cfg.Jobs.ExpirySweep = time.Hour
	}
	if cfg.Report.JobSampleSize == 0 {
		cfg.Report.JobSampleSize = 10
	}
}

// WithDefaults fills unset OTP limits with the product defaults.
func (c OTPConfig) WithDefaults() OTPConfig {
	if c.TTL == 0 {
		c.TTL = 10 * time.Minute
	}
	if c.Cooldown == 0 {
		c.Cooldown = 60 * time.Second
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 5
	}
	if c.MaxResends == 0 {
		c.MaxResends = 3
	}
	if c.HashCost == 0 {
		c.HashCost = 10
	}
	return c
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database url is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if !c.Email.Mock && c.Email.SMTPHost == "" {
		return fmt.Errorf("smtp host is required unless email.mock is set")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
