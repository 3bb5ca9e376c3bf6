package vaani

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/viper"
	"github.com/vaanihq/vaani/pkg/configutil"
)

type Config struct {
	Environment    string          `mapstructure:"environment"`
	LogLevel       string          `mapstructure:"log_level"`
	Transport      TransportConfig `mapstructure:"transport"`
	Backend        BackendConfig   `mapstructure:"backend"`
	STT            STTConfig       `mapstructure:"stt"`
	Languages      LanguageConfig  `mapstructure:"languages"`
	DrainTimeoutMS int             `mapstructure:"drain_timeout_ms"`
}

// TransportConfig selects the caller transport and carries its free-form
// settings, decoded by the transport itself.
type TransportConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type BackendConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Voice       string  `mapstructure:"voice"`
	Temperature float64 `mapstructure:"temperature"`
	URL         string  `mapstructure:"url"`
}

type STTConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Interim bool   `mapstructure:"interim"`
}

type LanguageConfig struct {
	Default string `mapstructure:"default"`
	// Prompts overrides the built-in persona instructions per language tag.
	Prompts map[string]string `mapstructure:"prompts"`
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("transport.provider", "twilio")
	v.SetDefault("backend.voice", "alloy")
	v.SetDefault("backend.temperature", 0.7)
	v.SetDefault("stt.enabled", false)
	v.SetDefault("languages.default", "english")
	v.SetDefault("drain_timeout_ms", 10000)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	expandEnvStrings(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Transport.Provider) == "" {
		return fmt.Errorf("transport.provider is required")
	}
	if err := configutil.RequireString(c.Backend.APIKey, "backend.api_key"); err != nil {
		return err
	}
	if c.STT.Enabled {
		if err := configutil.RequireString(c.STT.APIKey, "stt.api_key"); err != nil {
			return err
		}
	}
	return nil
}

func expandEnvStrings(cfg *Config) {
	expandValue(reflect.ValueOf(cfg))
	cfg.Transport.Settings = expandSettings(cfg.Transport.Settings)
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		for k, v := range val {
			val[k] = expandAny(v)
		}
		return val
	default:
		return v
	}
}

func expandValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		expandValue(v.Elem())
		return
	}
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			expandValue(v.Field(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.ExpandEnv(v.String()))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			expandValue(v.Index(i))
		}
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String && v.Type().Elem().Kind() == reflect.String {
			for _, key := range v.MapKeys() {
				val := v.MapIndex(key)
				v.SetMapIndex(key, reflect.ValueOf(os.ExpandEnv(val.String())))
			}
		}
	}
}
