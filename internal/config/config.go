// Package config loads publicstore settings from a YAML file and
// PUBLICSTORE_* environment variables. Values are read once at startup and
// passed explicitly to the components that need them.
package config

import (
	"errors"
	"io"
	"os"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/koustreak/publicstore/internal/errs"
	"github.com/koustreak/publicstore/internal/filestore"
	"github.com/koustreak/publicstore/internal/filestore/callingformat"
	"github.com/koustreak/publicstore/internal/filestore/region"
	"github.com/koustreak/publicstore/internal/logger"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PUBLICSTORE_"

type Config struct {
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
	Server  Server  `yaml:"server"`
}

type Storage struct {
	Provider      string `yaml:"provider"`
	Region        string `yaml:"region"`
	CallingFormat string `yaml:"calling_format"`
	Bucket        string `yaml:"bucket"`
	Location      string `yaml:"location"`
	CustomDomain  string `yaml:"custom_domain"`
	URLProtocol   string `yaml:"url_protocol"`
	Endpoint      string `yaml:"endpoint"`
	UseSSL        bool   `yaml:"use_ssl"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

// Default returns the settings used when neither file nor env set a value.
func Default() *Config {
	return &Config{
		Storage: Storage{
			Provider:      string(filestore.ProviderS3),
			Region:        region.DefaultRegion,
			CallingFormat: callingformat.Ordinary{}.Name(),
			URLProtocol:   "https:",
			UseSSL:        true,
		},
		Log:    Log{Level: "info", Format: "json"},
		Server: Server{Addr: ":8080"},
	}
}

// Parse decodes YAML from r on top of the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.Wrap(errs.ErrKindMisconfigured, "failed to parse config", err)
	}
	return cfg, nil
}

// Load reads path (optional), applies environment overrides and validates
// the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindMisconfigured, "failed to open config", err)
		}
		defer f.Close()

		if cfg, err = Parse(f); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PUBLICSTORE_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"PROVIDER":       &c.Storage.Provider,
		"REGION":         &c.Storage.Region,
		"CALLING_FORMAT": &c.Storage.CallingFormat,
		"BUCKET":         &c.Storage.Bucket,
		"LOCATION":       &c.Storage.Location,
		"CUSTOM_DOMAIN":  &c.Storage.CustomDomain,
		"URL_PROTOCOL":   &c.Storage.URLProtocol,
		"ENDPOINT":       &c.Storage.Endpoint,
		"ACCESS_KEY":     &c.Storage.AccessKey,
		"SECRET_KEY":     &c.Storage.SecretKey,
		"LOG_LEVEL":      &c.Log.Level,
		"LOG_FORMAT":     &c.Log.Format,
		"ADDR":           &c.Server.Addr,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "USE_SSL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errs.Wrap(errs.ErrKindMisconfigured, EnvPrefix+"USE_SSL must be a boolean", err)
		}
		c.Storage.UseSSL = b
	}
	return nil
}

// Validate rejects settings that would fail later at construction.
func (c *Config) Validate() error {
	if c.Storage.Bucket == "" {
		return errs.Misconfigured("storage.bucket is required")
	}
	if _, err := region.Resolve(c.Storage.Region); err != nil {
		return err
	}
	if _, err := callingformat.Parse(c.Storage.CallingFormat); err != nil {
		return err
	}
	switch filestore.Provider(c.Storage.Provider) {
	case filestore.ProviderS3, filestore.ProviderMinIO:
	default:
		return errs.Misconfigured("unknown storage provider %q", c.Storage.Provider)
	}
	return nil
}

// FileStore converts the storage section into a driver config.
func (c *Config) FileStore() *filestore.Config {
	fc := filestore.DefaultConfig(c.Storage.Bucket)
	fc.Provider = filestore.Provider(c.Storage.Provider)
	fc.Region = c.Storage.Region
	fc.CallingFormat = c.Storage.CallingFormat
	fc.Location = c.Storage.Location
	fc.CustomDomain = c.Storage.CustomDomain
	fc.URLProtocol = c.Storage.URLProtocol
	fc.Endpoint = c.Storage.Endpoint
	fc.UseSSL = c.Storage.UseSSL
	fc.AccessKey = c.Storage.AccessKey
	fc.SecretKey = c.Storage.SecretKey
	return fc
}

// Logger converts the log section into a logger config writing to stderr.
func (c *Config) Logger() *logger.Config {
	return &logger.Config{Level: c.Log.Level, Format: c.Log.Format, Output: os.Stderr}
}
