package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/apoelstra/taskwarrior-hooks/pkg/uda"
)

const (
	xdgAppName = "taskwarrior-hooks"
	configFile = "relative-uda.toml"

	EnvConfigPath = "RELATIVE_UDA_CONFIG"
	EnvUntilAttr  = "RELATIVE_UDA_UNTIL_ATTRIBUTE"
	EnvWaitAttr   = "RELATIVE_UDA_WAIT_ATTRIBUTE"
	EnvWarnings   = "RELATIVE_UDA_WARNINGS"
)

// Config names the attributes the hook reads and whether it warns.
type Config struct {
	UntilAttribute string `toml:"until_attribute"`
	WaitAttribute  string `toml:"wait_attribute"`
	Warnings       bool   `toml:"warnings"`
}

// reserved are fields the hook writes or reads itself.
var reserved = map[string]bool{"due": true, "until": true, "wait": true, "status": true, "recur": true, "uuid": true}

func Default() *Config {
	return &Config{
		UntilAttribute: uda.DefaultUntilAttr,
		WaitAttribute:  uda.DefaultWaitAttr,
		Warnings:       true,
	}
}

// GetConfigPath returns $RELATIVE_UDA_CONFIG, or the file under ~/.config.
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

// Load reads the config from the standard location.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads path on top of the defaults, then applies environment
// overrides. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvUntilAttr)); v != "" {
		c.UntilAttribute = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvWaitAttr)); v != "" {
		c.WaitAttribute = v
	}
	if v := os.Getenv(EnvWarnings); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWarnings, err)
		}
		c.Warnings = b
	}
	return nil
}

// Validate checks the attribute names are usable.
func (c *Config) Validate() error {
	if c.UntilAttribute == "" || c.WaitAttribute == "" {
		return errors.New("until_attribute and wait_attribute must be set")
	}
	if c.UntilAttribute == c.WaitAttribute {
		return fmt.Errorf("until_attribute and wait_attribute are both %q", c.UntilAttribute)
	}
	for _, name := range []string{c.UntilAttribute, c.WaitAttribute} {
		if reserved[name] {
			return fmt.Errorf("%q is a core task field, not a user defined attribute", name)
		}
	}
	return nil
}

// Write renders c as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
