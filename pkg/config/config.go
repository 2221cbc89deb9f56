package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	yaml "gopkg.in/yaml.v3"
)

// Profile holds the settings for one way of running the server.
type Profile struct {
	Name              string        `yaml:"name"`
	Listen            string        `yaml:"listen"`
	ReadHeaderTimeout time.Duration `yaml:"read-header-timeout,omitempty"`
	IdleTimeout       time.Duration `yaml:"idle-timeout,omitempty"`
	ShutdownTimeout   time.Duration `yaml:"shutdown-timeout,omitempty"`
	// MaxHeaderBytes bounds the request line and headers, and with them
	// the size of any value handed to the codec.
	MaxHeaderBytes int `yaml:"max-header-bytes,omitempty"`
}

// DefaultProfile is used when the config file names no active profile.
func DefaultProfile() Profile {
	return Profile{
		Listen:            ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// WithDefaults returns a copy of p with every zero field taken from
// DefaultProfile.
func (p Profile) WithDefaults() Profile {
	d := DefaultProfile()
	if p.Listen == "" {
		p.Listen = d.Listen
	}
	if p.ReadHeaderTimeout == 0 {
		p.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if p.IdleTimeout == 0 {
		p.IdleTimeout = d.IdleTimeout
	}
	if p.ShutdownTimeout == 0 {
		p.ShutdownTimeout = d.ShutdownTimeout
	}
	if p.MaxHeaderBytes == 0 {
		p.MaxHeaderBytes = d.MaxHeaderBytes
	}
	return p
}

type Config struct {
	CurrentProfile  string     `yaml:"current-profile"`
	ProfileOverride string     `yaml:"-"`
	Profiles        []*Profile `yaml:"profiles"`
	// configPath is the file path used for reading and writing this config.
	configPath string `yaml:"-"`
}

func (c *Config) HasProfile(name string) bool {
	for _, profile := range c.Profiles {
		if profile.Name == name {
			return true
		}
	}
	return false
}

func (c *Config) SetCurrentProfile(name string) error {
	oldProfile := c.CurrentProfile
	for _, profile := range c.Profiles {
		if profile.Name == name {
			c.CurrentProfile = name

			if err := c.Write(); err != nil {
				// Either everything is successful or nothing.
				c.CurrentProfile = oldProfile
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("could not find profile with name %v", name)
}

// RemoveProfile deletes the named profile. It does not write the file.
func (c *Config) RemoveProfile(name string) error {
	for i, profile := range c.Profiles {
		if profile.Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			if c.CurrentProfile == name {
				c.CurrentProfile = ""
			}
			return nil
		}
	}
	return fmt.Errorf("could not find profile with name %v", name)
}

// ActiveProfile returns a copy of the override profile, or of the current
// one if no override is set. It returns nil if neither names a profile.
func (c *Config) ActiveProfile() *Profile {
	if c == nil {
		return nil
	}

	toSearch := c.ProfileOverride
	if c.ProfileOverride == "" {
		toSearch = c.CurrentProfile
	}

	if toSearch == "" {
		return nil
	}

	for _, profile := range c.Profiles {
		if profile.Name == toSearch {
			// Copy, so callers cannot write back into the config.
			p := *profile
			return &p
		}
	}
	return nil
}

// Path returns the file this config is read from and written to.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) Write() error {
	configPath := c.configPath
	if configPath == "" {
		var err error
		configPath, err = getDefaultConfigPath()
		if err != nil {
			return err
		}
	}
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(configDir, "config.*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()

	encoder := yaml.NewEncoder(tmpFile)
	if err := encoder.Encode(c); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}
	c.configPath = configPath
	return nil
}

func ReadConfig(cfgPath string) (c Config, err error) {
	resolvedPath, err := resolveConfigPath(cfgPath)
	if err != nil {
		return Config{}, err
	}

	file, err := os.OpenFile(resolvedPath, os.O_RDONLY, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{configPath: resolvedPath}, nil
		}
		return Config{}, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.configPath = resolvedPath
	return c, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func resolveConfigPath(cfgPath string) (string, error) {
	if cfgPath == "" {
		return getDefaultConfigPath()
	}
	if !fileExists(cfgPath) {
		return "", fmt.Errorf("config file %q does not exist", cfgPath)
	}
	return cfgPath, nil
}

func getDefaultConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	return filepath.Join(home, ".rabbitary", "config"), nil
}
