package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/jsonms/pkg/adapters/file"
	"github.com/aretw0/jsonms/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "jsonms.yaml"

// EnvEncryptionKey overrides Persistence.EncryptionKey, so keys stay out of config files.
const EnvEncryptionKey = "JSONMS_ENCRYPTION_KEY"

// Persistence drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the process configuration of the jsonms server.
type Config struct {
	Port         int      `yaml:"port" json:"port"`
	TargetOrigin string   `yaml:"target_origin" json:"target_origin"`
	Debounce     Duration `yaml:"debounce" json:"debounce"`
	WatchLocale  bool     `yaml:"watch_locale" json:"watch_locale"`
	WatchRoute   bool     `yaml:"watch_route" json:"watch_route"`
	Debug        bool     `yaml:"debug" json:"debug"`

	DefaultLocale  string `yaml:"default_locale" json:"default_locale"`
	DefaultSection string `yaml:"default_section" json:"default_section"`

	// TemplatesDir is the root of the loam template library. Empty disables it.
	TemplatesDir string `yaml:"templates_dir" json:"templates_dir"`

	Persistence Persistence `yaml:"persistence" json:"persistence"`
}

// Persistence selects and configures the snapshot store.
type Persistence struct {
	Driver string      `yaml:"driver" json:"driver"`
	Redis  RedisConfig `yaml:"redis" json:"redis"`
	SQLite string      `yaml:"sqlite_path" json:"sqlite_path"`
	// Dir holds one JSON file per session for the file driver.
	Dir string `yaml:"dir" json:"dir"`

	// EncryptionKey is a base64 encoded 32 byte key. Empty disables encryption.
	EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
	// FallbackKeys are previous keys still accepted for reading.
	FallbackKeys []string `yaml:"fallback_keys" json:"fallback_keys"`

	// MaskKeys lists regular expressions of content keys masked before saving.
	MaskKeys []string `yaml:"mask_keys" json:"mask_keys"`
}

// RedisConfig configures the redis store and the distributed session lock.
type RedisConfig struct {
	Addr     string   `yaml:"addr" json:"addr"`
	Password string   `yaml:"password" json:"password"`
	DB       int      `yaml:"db" json:"db"`
	Prefix   string   `yaml:"prefix" json:"prefix"`
	TTL      Duration `yaml:"ttl" json:"ttl"`
}

// Duration is a time.Duration written as "250ms" or "1h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Port:           8080,
		TargetOrigin:   "*",
		WatchLocale:    true,
		WatchRoute:     true,
		DefaultLocale:  domain.DefaultLocale,
		DefaultSection: domain.HomeSectionKey,
		Persistence: Persistence{
			Driver: DriverMemory,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
			SQLite: "jsonms.db",
			Dir:    file.DefaultDir,
		},
	}
}

// Load reads a YAML or JSON config file on top of Default. A missing file at
// DefaultPath is not an error; a missing file given explicitly is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, cfg.finish()
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return cfg, cfg.finish()
}

func (c *Config) finish() error {
	if key := os.Getenv(EnvEncryptionKey); key != "" {
		c.Persistence.EncryptionKey = key
	}
	return c.Validate()
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Debounce < 0 {
		errs = append(errs, errors.New("debounce must not be negative"))
	}
	switch c.Persistence.Driver {
	case DriverMemory, DriverSQLite:
	case DriverFile:
		if c.Persistence.Dir == "" {
			errs = append(errs, errors.New("file driver requires persistence.dir"))
		}
	case DriverRedis:
		if c.Persistence.Redis.Addr == "" {
			errs = append(errs, errors.New("redis driver requires persistence.redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown persistence driver %q", c.Persistence.Driver))
	}
	if _, _, err := c.Persistence.Keys(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Keys decodes the encryption keys. active is nil when encryption is disabled.
func (p Persistence) Keys() (active []byte, fallback [][]byte, err error) {
	if p.EncryptionKey == "" {
		return nil, nil, nil
	}
	active, err = decodeKey(p.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("encryption_key: %w", err)
	}
	for i, k := range p.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("got %d bytes, want 32", len(key))
	}
	return key, nil
}

// Seed applies the default locale and section to a new session.
func (c Config) Seed(snap *domain.Snapshot) {
	if c.DefaultLocale != "" {
		snap.Locale = c.DefaultLocale
	}
	if c.DefaultSection != "" {
		snap.Section.Key = c.DefaultSection
	}
}
