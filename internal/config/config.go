package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dshills/lumen/internal/apperr"
	"github.com/dshills/lumen/internal/providers"
)

// Config represents the lumen configuration.
type Config struct {
	Provider      string `toml:"provider"`
	APIKey        string `toml:"api_key,omitempty"`
	Model         string `toml:"model,omitempty"`
	RedactSecrets bool   `toml:"redact_secrets"`
}

// Keys lists the settable keys in display order.
var Keys = []string{"provider", "api_key", "model", "redact_secrets"}

// Environment variable names.
const (
	EnvProvider      = "LUMEN_AI_PROVIDER"
	EnvAPIKey        = "LUMEN_API_KEY"
	EnvModel         = "LUMEN_AI_MODEL"
	EnvRedactSecrets = "LUMEN_REDACT_SECRETS"
)

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{Provider: providers.Phind.String()}
}

// MaskedKey returns the API key with all but the last four characters
// hidden, or "(not set)".
func (c Config) MaskedKey() string {
	switch n := len(c.APIKey); {
	case n == 0:
		return "(not set)"
	case n <= 8:
		return strings.Repeat("*", n)
	default:
		return strings.Repeat("*", 8) + c.APIKey[n-4:]
	}
}

// ConfigDir returns the platform-appropriate config directory for lumen.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lumen"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "lumen"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "lumen"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "lumen"), nil
	default:
		return filepath.Join(home, ".config", "lumen"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// fileConfig is the on-disk shape. A nil pointer means the key is absent.
type fileConfig struct {
	Provider      string `toml:"provider"`
	APIKey        string `toml:"api_key"`
	Model         string `toml:"model"`
	RedactSecrets *bool  `toml:"redact_secrets"`
}

func readFile() (fileConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return fileConfig{}, err
	}
	return loadFile(path)
}

// loadFile decodes path. A missing file yields a zero value and no error.
func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fileConfig{}, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return fc, nil
}

// Save writes cfg to the config file with owner-only permissions.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return save(path, cfg)
}

func save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	return f.Close()
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := readFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Stored returns the file contents over defaults, without env or flags.
// It is the base that "config set" edits.
func Stored() (Config, error) {
	cfg := Default()
	fileCfg, err := readFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	return cfg, nil
}

func mergeFile(dst *Config, src fileConfig) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.RedactSecrets != nil {
		dst.RedactSecrets = *src.RedactSecrets
	}
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv(EnvProvider); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv(EnvRedactSecrets); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return apperr.Wrap(apperr.KindInvalidArguments, err, "invalid %s value %q", EnvRedactSecrets, v)
		}
		cfg.RedactSecrets = b
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for _, key := range Keys {
		if v, ok := overrides[key]; ok && v != "" {
			if err := SetField(cfg, key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is
// unknown or the value is invalid for it.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		v, err := providers.ParseVariant(value)
		if err != nil {
			return err
		}
		cfg.Provider = v.String()
	case "api_key":
		cfg.APIKey = strings.TrimSpace(value)
	case "model":
		cfg.Model = strings.TrimSpace(value)
	case "redact_secrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return apperr.InvalidArguments("redact_secrets must be true or false, got %q", value)
		}
		cfg.RedactSecrets = b
	default:
		return apperr.InvalidArguments("unknown config key: %s (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Field returns the display value of key. The API key is masked.
func Field(cfg Config, key string) (string, bool) {
	if !slices.Contains(Keys, key) {
		return "", false
	}
	switch key {
	case "provider":
		return cfg.Provider, true
	case "api_key":
		return cfg.MaskedKey(), true
	case "model":
		if cfg.Model == "" {
			return "(provider default)", true
		}
		return cfg.Model, true
	default:
		return strconv.FormatBool(cfg.RedactSecrets), true
	}
}
