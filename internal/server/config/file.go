package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/bloodbay/internal/flagx"
	"github.com/dmitrijs2005/bloodbay/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
// Only non-zero values override what is already in Config.
type FileConfig struct {
	Environment           string         `json:"environment" yaml:"environment"`
	Port                  string         `json:"port" yaml:"port"`
	DatabaseDSN           string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey             string         `json:"jwt_secret" yaml:"jwt_secret"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	PublicURL             string         `json:"public_url" yaml:"public_url"`

	S3AccessKey    string `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Bucket       string `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`

	SMTPHost     string `json:"smtp_host" yaml:"smtp_host"`
	SMTPPort     int    `json:"smtp_port" yaml:"smtp_port"`
	SMTPUser     string `json:"smtp_user" yaml:"smtp_user"`
	SMTPPassword string `json:"smtp_password" yaml:"smtp_password"`
	MailFrom     string `json:"mail_from" yaml:"mail_from"`

	RateLimitRequests int            `json:"rate_limit_requests" yaml:"rate_limit_requests"`
	RateLimitWindow   timex.Duration `json:"rate_limit_window" yaml:"rate_limit_window"`
	RedisAddr         string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword     string         `json:"redis_password" yaml:"redis_password"`

	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
	LogFormat      string   `json:"log_format" yaml:"log_format"`
}

// parseFile overlays Config with the file named by -c/-config. Files with a
// .yaml or .yml extension are decoded as YAML, anything else as JSON.
// Nothing happens when no file is given; read or decode errors panic.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.Environment, fc.Environment)
	setString(&c.Port, fc.Port)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SecretKey, fc.SecretKey)
	if fc.TokenValidityDuration.Duration > 0 {
		c.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
	setString(&c.PublicURL, fc.PublicURL)

	setString(&c.S3AccessKey, fc.S3AccessKey)
	setString(&c.S3SecretKey, fc.S3SecretKey)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)

	setString(&c.SMTPHost, fc.SMTPHost)
	if fc.SMTPPort > 0 {
		c.SMTPPort = fc.SMTPPort
	}
	setString(&c.SMTPUser, fc.SMTPUser)
	setString(&c.SMTPPassword, fc.SMTPPassword)
	setString(&c.MailFrom, fc.MailFrom)

	if fc.RateLimitRequests > 0 {
		c.RateLimitRequests = fc.RateLimitRequests
	}
	if fc.RateLimitWindow.Duration > 0 {
		c.RateLimitWindow = fc.RateLimitWindow.Duration
	}
	setString(&c.RedisAddr, fc.RedisAddr)
	setString(&c.RedisPassword, fc.RedisPassword)

	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}
	setString(&c.LogFormat, fc.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
