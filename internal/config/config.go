package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "FOCUSDECK"

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type RuntimeConfig struct {
	DataDir        string        `mapstructure:"data_dir" validate:"required"`
	StorageBackend string        `mapstructure:"storage_backend" validate:"oneof=file sqlite memory"`
	CheckInterval  time.Duration `mapstructure:"check_interval" validate:"gte=1s"`
	Timezone       string        `mapstructure:"timezone"`
	LogLevel       string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string        `mapstructure:"log_format" validate:"oneof=console json"`
	LogFile        string        `mapstructure:"log_file"`
	TimerBuffer    int           `mapstructure:"timer_buffer" validate:"gt=0"`
	// DesktopNotify forwards timer and badge notifications to the desktop.
	DesktopNotify  bool          `mapstructure:"desktop_notify"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DataDir:        defaultDataDir(),
		StorageBackend: BackendFile,
		CheckInterval:  60 * time.Second,
		LogLevel:       "info",
		LogFormat:      "console",
		TimerBuffer:    16,
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "focusdeck")
	}
	return ".focusdeck"
}

// Load layers an optional config file, an optional .env in the working
// directory and FOCUSDECK_* environment variables over base, then validates
// the result.
func Load(base RuntimeConfig, configFile string) (RuntimeConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", base.DataDir)
	v.SetDefault("storage_backend", base.StorageBackend)
	v.SetDefault("check_interval", base.CheckInterval)
	v.SetDefault("timezone", base.Timezone)
	v.SetDefault("log_level", base.LogLevel)
	v.SetDefault("log_format", base.LogFormat)
	v.SetDefault("log_file", base.LogFile)
	v.SetDefault("timer_buffer", base.TimerBuffer)
	v.SetDefault("desktop_notify", base.DesktopNotify)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return base, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return base, fmt.Errorf("decode config: %w", err)
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

func (c RuntimeConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Location resolves Timezone; an empty value means the system zone.
func (c RuntimeConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// LogPath is the log destination. Logs go to a file by default since the
// terminal UI owns stdout.
func (c RuntimeConfig) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "focusdeck.log")
}

func (c RuntimeConfig) SQLitePath() string {
	return filepath.Join(c.DataDir, "focusdeck.db")
}
