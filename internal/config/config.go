// Package config loads the blog server configuration from a YAML file,
// optional .env files and environment variables, in that order of
// precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mdblog/internal/logger"
)

const (
	defaultPort          = 37371
	defaultContentDir    = "content"
	defaultPageSize      = 10
	defaultDatabasePath  = "blog.db"
	defaultFlushInterval = 60 * time.Second
	defaultSiteTitle     = "mdblog"
	defaultSessionSecret = "secret-key-should-be-changed"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Content  ContentConfig  `yaml:"content"`
	Database DatabaseConfig `yaml:"database"`
	Views    ViewsConfig    `yaml:"views"`
	Site     SiteConfig     `yaml:"site"`
	Logging  logger.Config  `yaml:"logging"`
}

type ServerConfig struct {
	Port          int    `env:"BLOG_PORT"           yaml:"port"`
	Debug         bool   `env:"BLOG_DEBUG"          yaml:"debug"`
	SecureCookies bool   `env:"BLOG_SECURE_COOKIES" yaml:"secure_cookies"`
	SessionSecret string `env:"BLOG_SESSION_SECRET" yaml:"session_secret"`
}

// Address is the listen address for net/http.
func (s ServerConfig) Address() string {
	return ":" + strconv.Itoa(s.Port)
}

type ContentConfig struct {
	Dir        string `env:"BLOG_CONTENT_DIR" yaml:"dir"`
	MinifyHTML bool   `env:"BLOG_MINIFY_HTML" yaml:"minify_html"`
	PageSize   int    `yaml:"page_size"`
}

type DatabaseConfig struct {
	Path string `env:"BLOG_DB_PATH" yaml:"path"`
}

// ViewsConfig controls the pageview counter persistence. FlushInterval is
// read once at startup.
type ViewsConfig struct {
	FlushInterval time.Duration `env:"BLOG_FLUSH_INTERVAL" yaml:"flush_interval"`
}

type SiteConfig struct {
	Title       string `env:"BLOG_SITE_TITLE" yaml:"title"`
	Description string `yaml:"description"`
	WelcomeText string `yaml:"welcome_text"`
	BaseURL     string `env:"BLOG_BASE_URL"   yaml:"base_url"`
	Author      string `yaml:"author"`
}

// ValidationError reports a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads path (a missing file is not an error), applies defaults and
// then environment overrides.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	setDefaults(cfg)
	applyEnvToStruct(reflect.ValueOf(cfg).Elem())
	return cfg, nil
}

// loadEnvFiles loads ENV_FILE if set, otherwise .env.local and .env.
// Missing files are ignored.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.SessionSecret == "" {
		cfg.Server.SessionSecret = defaultSessionSecret
	}
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = defaultContentDir
	}
	if cfg.Content.PageSize == 0 {
		cfg.Content.PageSize = defaultPageSize
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDatabasePath
	}
	if cfg.Views.FlushInterval == 0 {
		cfg.Views.FlushInterval = defaultFlushInterval
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = defaultSiteTitle
	}
	cfg.Logging.SetDefaults()
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ValidationError{Field: "server.port", Message: "must be between 1 and 65535"}
	}
	if c.Content.PageSize < 1 {
		return &ValidationError{Field: "content.page_size", Message: "must be positive"}
	}
	if c.Views.FlushInterval < time.Second {
		return &ValidationError{Field: "views.flush_interval", Message: "must be at least 1s"}
	}
	if c.Site.BaseURL != "" && !strings.HasPrefix(c.Site.BaseURL, "http") {
		return &ValidationError{Field: "site.base_url", Message: "must be an absolute http(s) URL"}
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return &ValidationError{Field: "logging.format", Message: "must be one of: json, console"}
	}
	return nil
}

func applyEnvToStruct(v reflect.Value) {
	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			applyEnvToStruct(field)
			continue
		}
		envTag := t.Field(i).Tag.Get("env")
		if envTag == "" {
			continue
		}
		if val := os.Getenv(envTag); val != "" {
			setFieldFromString(field, val)
		}
	}
}

func setFieldFromString(field reflect.Value, val string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			if d, err := time.ParseDuration(val); err == nil {
				field.SetInt(int64(d))
			}
			return
		}
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			field.SetInt(i)
		}
	case reflect.Bool:
		s := strings.ToLower(strings.TrimSpace(val))
		field.SetBool(s == "true" || s == "1" || s == "yes")
	}
}
