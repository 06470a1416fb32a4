// Package config loads studydesk settings from studydesk.yaml, STUDYDESK_*
// environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	AppName   = "studydesk"
	EnvPrefix = "STUDYDESK"
)

const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMongo  = "mongo"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Debug   bool          `mapstructure:"debug"`
	JSON    bool          `mapstructure:"json"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Email   EmailConfig   `mapstructure:"email"`
	Skills  SkillsConfig  `mapstructure:"skills"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	File          string `mapstructure:"file"`
	SQLitePath    string `mapstructure:"sqlite-path"`
	MongoURI      string `mapstructure:"mongo-uri"`
	MongoDatabase string `mapstructure:"mongo-database"`
}

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	TLSCert   string `mapstructure:"tls-cert"`
	TLSKey    string `mapstructure:"tls-key"`
	StaticDir string `mapstructure:"static-dir"`
}

type MonitorConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	// TierWindow is the firing band width in percentage points; 0 fires on crossing.
	TierWindow float64 `mapstructure:"tier-window"`
}

type EmailConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	PasswordFile string        `mapstructure:"password-file"`
}

type SkillsConfig struct {
	VocabularyFile string `mapstructure:"vocabulary-file"`
}

// SetDefaults registers a default for every key so that environment
// variables are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("json", false)

	v.SetDefault("storage.type", StorageFile)
	v.SetDefault("storage.file", "studydesk.json")
	v.SetDefault("storage.sqlite-path", "studydesk.db")
	v.SetDefault("storage.mongo-uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongo-database", AppName)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.tls-cert", "")
	v.SetDefault("server.tls-key", "")
	v.SetDefault("server.static-dir", "")

	v.SetDefault("monitor.interval", time.Minute)
	v.SetDefault("monitor.tier-window", 0.0)

	v.SetDefault("email.timeout", 30*time.Second)
	v.SetDefault("email.password-file", "")

	v.SetDefault("skills.vocabulary-file", "")
}

// Load reads the config file, if any, and decodes the merged settings. An
// explicitly named file must exist; the default studydesk.yaml is optional.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageMemory, StorageFile, StorageSQLite, StorageMongo:
	default:
		return fmt.Errorf("%w: storage.type %q, valid options are memory, file, sqlite, mongo", ErrInvalidConfig, c.Storage.Type)
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("%w: monitor.interval must be positive", ErrInvalidConfig)
	}
	if c.Monitor.TierWindow < 0 {
		return fmt.Errorf("%w: monitor.tier-window must not be negative", ErrInvalidConfig)
	}
	if c.Email.Timeout <= 0 {
		return fmt.Errorf("%w: email.timeout must be positive", ErrInvalidConfig)
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return fmt.Errorf("%w: server.tls-cert and server.tls-key must be set together", ErrInvalidConfig)
	}
	return nil
}
