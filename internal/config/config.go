package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultRequestTimeout bounds every outbound request when request-timeout is unset.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultMaxRedirects caps the redirect chase of the login flow.
	DefaultMaxRedirects = 10

	// DefaultMembersBaseURL is the members web application the API client talks to.
	DefaultMembersBaseURL = "https://members.wework.com"

	defaultConfigDir  = ".wework"
	defaultConfigFile = "config.yaml"
)

// Config is the top-level CLI configuration loaded from YAML.
type Config struct {
	SDKConfig `yaml:",inline"`

	// Debug enables debug level logging.
	Debug bool `yaml:"debug" json:"debug"`

	// LoggingToFile writes logs to a rotating file under LogDir instead of stderr.
	LoggingToFile bool `yaml:"logging-to-file" json:"logging-to-file"`

	// LogDir is the directory for rotating log files. Defaults to ~/.wework/logs.
	LogDir string `yaml:"log-dir,omitempty" json:"log-dir,omitempty"`

	// LogsMaxTotalSizeMB caps the total size of *.log files in LogDir. <= 0 disables pruning.
	LogsMaxTotalSizeMB int `yaml:"logs-max-total-size-mb,omitempty" json:"logs-max-total-size-mb,omitempty"`

	// MembersBaseURL overrides the members web application origin.
	MembersBaseURL string `yaml:"members-base-url,omitempty" json:"members-base-url,omitempty"`

	// MaxRedirects caps the number of redirects followed after the login form relay.
	MaxRedirects int `yaml:"max-redirects,omitempty" json:"max-redirects,omitempty"`

	// MaxRetries is how many times a login attempt is retried after a transient network failure.
	MaxRetries int `yaml:"max-retries,omitempty" json:"max-retries,omitempty"`

	// NoSpinner disables the progress spinner.
	NoSpinner bool `yaml:"no-spinner" json:"no-spinner"`

	// CalendarStore configures publishing the generated calendar to an S3 compatible bucket.
	CalendarStore CalendarStoreConfig `yaml:"calendar-store" json:"calendar-store"`
}

// CalendarStoreConfig describes the object storage target for calendar publishing.
type CalendarStoreConfig struct {
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	Bucket    string `yaml:"bucket" json:"bucket"`
	AccessKey string `yaml:"access-key" json:"access-key"`
	SecretKey string `yaml:"secret-key" json:"-"`
	Region    string `yaml:"region,omitempty" json:"region,omitempty"`
	Prefix    string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	ObjectKey string `yaml:"object-key,omitempty" json:"object-key,omitempty"`
	UseSSL    *bool  `yaml:"use-ssl,omitempty" json:"use-ssl,omitempty"`
}

// Enabled reports whether enough settings are present to publish.
func (c CalendarStoreConfig) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != "" && strings.TrimSpace(c.Bucket) != ""
}

// SecureTransport reports whether the store endpoint should be reached over TLS.
func (c CalendarStoreConfig) SecureTransport() bool {
	if c.UseSSL == nil {
		return true
	}
	return *c.UseSSL
}

// DefaultConfigPath returns ~/.wework/config.yaml, or an empty string when the
// home directory cannot be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, defaultConfigDir, defaultConfigFile)
}

// LoadConfig reads and parses the configuration file at configFile.
func LoadConfig(configFile string) (*Config, error) {
	return LoadConfigOptional(configFile, false)
}

// LoadConfigOptional reads the configuration file at configFile. When optional is
// true a missing file yields a default configuration instead of an error.
func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	cfg := &Config{}
	if strings.TrimSpace(configFile) == "" {
		if !optional {
			return nil, fmt.Errorf("config: no configuration file specified")
		}
		cfg.ApplyDefaults()
		return cfg, nil
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
	}

	if len(strings.TrimSpace(string(data))) > 0 {
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", configFile, err)
		}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = int(DefaultRequestTimeout / time.Second)
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	c.MembersBaseURL = strings.TrimRight(strings.TrimSpace(c.MembersBaseURL), "/")
	if c.MembersBaseURL == "" {
		c.MembersBaseURL = DefaultMembersBaseURL
	}
	c.TLSFingerprint = strings.ToLower(strings.TrimSpace(c.TLSFingerprint))
}

// ApplyEnv overrides configuration values from environment variables.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	if v, ok := lookup("WEWORK_PROXY_URL"); ok && strings.TrimSpace(v) != "" {
		c.ProxyURL = strings.TrimSpace(v)
	}
	if v, ok := lookup("WEWORK_NO_SPINNER"); ok && v != "" {
		c.NoSpinner = true
	}
	if v, ok := lookup("WEWORK_DEBUG"); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Debug = parsed
		}
	}
	if v, ok := lookup("WEWORK_TLS_FINGERPRINT"); ok {
		c.TLSFingerprint = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup("WEWORK_MEMBERS_BASE_URL"); ok && strings.TrimSpace(v) != "" {
		c.MembersBaseURL = strings.TrimRight(strings.TrimSpace(v), "/")
	}
}
