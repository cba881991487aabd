package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"hostsmod/internal/edit"
)

const (
	// DefaultFile is read when no other configuration file is named
	DefaultFile = "/etc/hostsmod.yaml"
	// DefaultHostsFile is the hosts file edited by default
	DefaultHostsFile = "/etc/hosts"

	// SampleHost is the whitelist entry of the sample configuration
	SampleHost = "somerandomhost.with.tld"
)

// ErrUnsupportedFormat indicates a configuration file extension that is
// neither YAML nor INI
var ErrUnsupportedFormat = errors.New("config: unsupported configuration format")

// Config holds all application configuration
type Config struct {
	// HostsFile is only set from the environment or the command line
	HostsFile string `yaml:"-"`

	// Whitelist names the hostnames that may be modified
	Whitelist []string `yaml:"whitelist"`

	// EnableDangerousOperations disables protection of system mappings
	EnableDangerousOperations bool `yaml:"enable_dangerous_operations"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		HostsFile: DefaultHostsFile,
	}
}

// LoadFromFile loads configuration from a YAML or INI file, chosen by the
// file extension
func (c *Config) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return c.loadYAML(filename, data)
	case ".ini", ".conf":
		return c.loadINI(filename, data)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

func (c *Config) loadYAML(filename string, data []byte) error {
	var fc Config
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("unmarshal %s: %w", filename, err)
	}
	c.Whitelist = fc.Whitelist
	c.EnableDangerousOperations = fc.EnableDangerousOperations
	return nil
}

func (c *Config) loadINI(filename string, data []byte) error {
	cfg, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, data)
	if err != nil {
		return fmt.Errorf("load %s: %w", filename, err)
	}

	section := cfg.Section("")
	if section.HasKey("whitelist") {
		c.Whitelist = splitList(section.Key("whitelist").String())
	}
	c.EnableDangerousOperations = section.Key("enable_dangerous_operations").MustBool(c.EnableDangerousOperations)
	return nil
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("HOSTSMOD_HOSTS_FILE"); v != "" {
		c.HostsFile = v
	}
	if v := os.Getenv("HOSTSMOD_WHITELIST"); v != "" {
		c.Whitelist = splitList(v)
	}
}

// New creates a new configuration instance. A missing file leaves the
// defaults in place, an empty whitelist allows no changes at all.
// Environment overrides are only applied with allowEnv set.
func New(configFile string, allowEnv bool) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Printf("Skipping config file %s: %s", configFile, err)
	}

	if allowEnv {
		cfg.LoadFromEnv()
	}

	return cfg, nil
}

// WhitelistSet returns the whitelist as a set
func (c *Config) WhitelistSet() edit.Whitelist {
	return edit.NewWhitelist(c.Whitelist...)
}

// Sample returns a YAML configuration whitelisting SampleHost. It never
// contains the dangerous-operations switch.
func Sample() ([]byte, error) {
	sample := struct {
		Whitelist []string `yaml:"whitelist"`
	}{
		Whitelist: []string{SampleHost},
	}
	return yaml.Marshal(&sample)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
