// Package config loads HushType settings from a YAML file, environment
// variables and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"hushtype/vocab"
)

type Config struct {
	WakePhrase  string  `mapstructure:"wake_phrase"`
	Language    string  `mapstructure:"language"`
	Sensitivity float64 `mapstructure:"sensitivity"`
	Beeps       bool    `mapstructure:"beeps"`
	Notify      bool    `mapstructure:"notify"`

	Hotkeys    HotkeyConfig     `mapstructure:"hotkeys"`
	Audio      AudioConfig      `mapstructure:"audio"`
	Whisper    WhisperConfig    `mapstructure:"whisper"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Injection  InjectionConfig  `mapstructure:"injection"`
	History    HistoryConfig    `mapstructure:"history"`
	Commands   CommandConfig    `mapstructure:"commands"`

	Vocabulary []vocab.Entry `mapstructure:"vocabulary"`
}

type HotkeyConfig struct {
	// Bindings like "ctrl+shift+space" or "fn"; at most four.
	PushToTalk string `mapstructure:"push_to_talk"`
	Toggle     string `mapstructure:"toggle"`
}

type AudioConfig struct {
	Device        string `mapstructure:"device"`
	BufferSeconds int    `mapstructure:"buffer_seconds"`
}

type WhisperConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	Format string `mapstructure:"format"`
}

type ProcessingConfig struct {
	Mode     string `mapstructure:"mode"`
	Template string `mapstructure:"template"`
	URL      string `mapstructure:"url"`
	Model    string `mapstructure:"model"`
}

type InjectionConfig struct {
	Method string `mapstructure:"method"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

type CommandConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	AutomationGranted bool     `mapstructure:"automation_granted"`
	Disabled          []string `mapstructure:"disabled"`

	// Custom maps a spoken phrase to a built-in intent name, resolved
	// before the regular command patterns.
	Custom map[string]string `mapstructure:"custom"`
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	if env := os.Getenv("HUSHTYPE_CONFIG_DIR"); env != "" {
		return env, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "hushtype"), nil
}

// Load reads config.yaml from dir, applying HUSHTYPE_* environment
// overrides and defaults. A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("wake_phrase", "Hey Type")
	v.SetDefault("language", "auto")
	v.SetDefault("sensitivity", 0.5)
	v.SetDefault("beeps", true)
	v.SetDefault("notify", true)

	v.SetDefault("hotkeys.push_to_talk", defaultPushToTalk)
	v.SetDefault("hotkeys.toggle", "")

	v.SetDefault("audio.buffer_seconds", 300)

	v.SetDefault("whisper.url", "")
	v.SetDefault("whisper.format", "flac")

	v.SetDefault("processing.mode", "none")
	v.SetDefault("processing.url", "http://127.0.0.1:11434")
	v.SetDefault("processing.model", "llama3.2")

	v.SetDefault("injection.method", "auto")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.dir", filepath.Join(dir, "history"))

	v.SetDefault("commands.enabled", true)
	v.SetDefault("commands.automation_granted", false)

	v.SetEnvPrefix("HUSHTYPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Sensitivity < 0 || c.Sensitivity > 1 {
		return fmt.Errorf("sensitivity must be between 0 and 1, got %g", c.Sensitivity)
	}
	if c.Audio.BufferSeconds <= 0 {
		return fmt.Errorf("audio.buffer_seconds must be positive, got %d", c.Audio.BufferSeconds)
	}
	switch c.Processing.Mode {
	case "none", "cleanup", "formal", "custom":
	default:
		return fmt.Errorf("unknown processing mode %q", c.Processing.Mode)
	}
	return nil
}
