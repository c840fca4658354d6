// Package config loads dirgraph settings from TOML.
//
// A config file is optional. [Discover] looks for dirgraph.toml in the
// working directory, then for config.toml under the user config directory
// ($XDG_CONFIG_HOME/dirgraph on Linux). Missing keys keep their [Default]
// values. Secrets may instead come from the environment:
//
//	DIRGRAPH_REDIS_ADDR   cache.redis.addr
//	DIRGRAPH_MONGO_URI    store.mongo.uri
//	GITHUB_TOKEN          token for the GitHub loader
//
// Example:
//
//	[resolve]
//	alias = "~/"
//	alias_root = "app/"
//
//	[limits]
//	max_files = 500
//
//	[cache]
//	backend = "redis"
//	redis.addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dirgraph/pkg/cache"
	errs "github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/fileset"
	"github.com/matzehuels/dirgraph/pkg/imports"
)

// FileName is the config file looked up in the working directory.
const FileName = "dirgraph.toml"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the complete dirgraph configuration.
type Config struct {
	Resolve imports.Config `toml:"resolve"`
	Limits  fileset.Limits `toml:"limits"`
	Server  ServerConfig   `toml:"server"`
	Cache   CacheConfig    `toml:"cache"`
	Store   StoreConfig    `toml:"store"`

	// GitHubToken is only read from the environment.
	GitHubToken string `toml:"-"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr              string   `toml:"addr"`
	MaxBodyBytes      int64    `toml:"max_body_bytes"`
	ReadHeaderTimeout Duration `toml:"read_header_timeout"`
	ShutdownTimeout   Duration `toml:"shutdown_timeout"`
}

// CacheConfig selects and configures the pipeline cache.
type CacheConfig struct {
	Backend string            `toml:"backend"` // none, file or redis
	Dir     string            `toml:"dir"`     // file backend; empty uses the user cache dir
	Redis   cache.RedisConfig `toml:"redis"`
}

// StoreConfig selects and configures analysis storage for the server.
type StoreConfig struct {
	Backend string      `toml:"backend"` // memory or mongo
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig is the [store] mongo section.
type MongoConfig struct {
	URI      string   `toml:"uri"`
	Database string   `toml:"database"`
	Timeout  Duration `toml:"timeout"`
}

// Duration is a time.Duration written as a string ("30s", "5m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Resolve: imports.DefaultConfig(),
		Limits:  fileset.DefaultLimits(),
		Server: ServerConfig{
			Addr:              ":8080",
			MaxBodyBytes:      25 << 20,
			ReadHeaderTimeout: Duration{10 * time.Second},
			ShutdownTimeout:   Duration{5 * time.Second},
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Redis:   cache.RedisConfig{Prefix: cache.DefaultRedisPrefix},
		},
		Store: StoreConfig{
			Backend: StoreMemory,
			Mongo:   MongoConfig{Database: "dirgraph", Timeout: Duration{10 * time.Second}},
		},
	}
}

// Load reads the TOML file at path over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Discover loads the first config file found in the standard locations.
// It returns the path it loaded, or "" with the defaults (plus environment
// overrides) when no file exists.
func Discover() (Config, string, error) {
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		cfg, err := Load(p)
		return cfg, p, err
	}
	cfg := Default()
	cfg.ApplyEnv()
	return cfg, "", cfg.Validate()
}

// SearchPaths lists the locations Discover checks, in order.
func SearchPaths() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "dirgraph", "config.toml"))
	}
	return paths
}

// ApplyEnv overrides secrets from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DIRGRAPH_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("DIRGRAPH_MONGO_URI"); v != "" {
		c.Store.Mongo.URI = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHubToken = v
	}
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if err := validateResolve(c.Resolve); err != nil {
		return err
	}
	if c.Limits.MaxFiles <= 0 {
		return invalid("limits.max_files must be positive")
	}
	if c.Limits.MaxFileBytes <= 0 {
		return invalid("limits.max_file_bytes must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return invalid("server.max_body_bytes must be positive")
	}

	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return invalid("cache.redis.addr is required for the redis backend")
		}
	default:
		return invalid("cache.backend must be one of: none, file, redis (got %q)", c.Cache.Backend)
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if c.Store.Mongo.URI == "" {
			return invalid("store.mongo.uri is required for the mongo backend")
		}
	default:
		return invalid("store.backend must be one of: memory, mongo (got %q)", c.Store.Backend)
	}
	return nil
}

func validateResolve(r imports.Config) error {
	if r.Alias != "" && !strings.HasSuffix(r.Alias, "/") {
		return invalid("resolve.alias must end with /: %q", r.Alias)
	}
	if r.AliasRoot != "" {
		if !strings.HasSuffix(r.AliasRoot, "/") {
			return invalid("resolve.alias_root must end with /: %q", r.AliasRoot)
		}
		if err := errs.ValidatePath(strings.TrimSuffix(r.AliasRoot, "/")); err != nil {
			return invalid("resolve.alias_root: %s", errs.UserMessage(err))
		}
	}
	for _, s := range r.Suffixes {
		if s != "" && !strings.HasPrefix(s, ".") {
			return invalid("resolve.suffixes entries must be empty or start with a dot: %q", s)
		}
		if strings.Contains(s, "/") {
			return invalid("resolve.suffixes entries cannot contain /: %q", s)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errs.New(errs.ErrCodeInvalidConfig, format, args...)
}

// String renders c as TOML, for "dirgraph config" style output and tests.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("# encode config: %v\n", err)
	}
	return b.String()
}
