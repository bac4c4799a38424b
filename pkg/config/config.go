package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nikogura/ats-cv/pkg/cv"
	"github.com/nikogura/ats-cv/pkg/locale"
	"github.com/nikogura/ats-cv/pkg/profile"
	"github.com/pkg/errors"
)

// Built-in defaults.
const (
	DefaultInput  = "cv_data.json"
	DefaultOutput = "CV_Optimized_ATS.docx"
	DefaultLang   = "en"

	// MaxMargin is the widest accepted page margin in inches.
	MaxMargin = 2.0
)

// Config represents the application configuration.
type Config struct {
	Defaults DefaultConfig `toml:"defaults"`
	Page     PageConfig    `toml:"page"`
}

// DefaultConfig holds default values for command flags.
type DefaultConfig struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
	Lang   string `toml:"lang"`
	Photo  string `toml:"photo"`
}

// PageConfig holds page margins in inches.
type PageConfig struct {
	Top    float64 `toml:"top"`
	Bottom float64 `toml:"bottom"`
	Left   float64 `toml:"left"`
	Right  float64 `toml:"right"`
}

// Default returns the built-in configuration.
func Default() (cfg Config) {
	page := cv.DefaultPage()
	cfg = Config{
		Defaults: DefaultConfig{
			Input:  DefaultInput,
			Output: DefaultOutput,
			Lang:   DefaultLang,
		},
		Page: PageConfig{
			Top:    page.MarginTop,
			Bottom: page.MarginBottom,
			Left:   page.MarginLeft,
			Right:  page.MarginRight,
		},
	}
	return cfg
}

// DefaultPath returns $HOME/.ats-cv/config.toml.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".ats-cv", "config.toml")
	return path, err
}

// Load reads configuration from file. Keys absent from the file keep their
// built-in defaults. An explicit configPath must exist; when configPath is
// empty the default location is tried and a missing file yields Default().
func Load(configPath string) (cfg Config, err error) {
	cfg = Default()

	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && configPath == "" {
			err = nil
			return cfg, err
		}
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'ats-cv init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	// Parse TOML
	var meta toml.MetaData
	meta, err = toml.Decode(string(data), &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		err = errors.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
		return cfg, err
	}

	// Validate values
	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// Validate checks the language and margins, filling empty paths with
// their defaults. Bad values are reported as *locale.ConfigError.
func (c *Config) Validate() (err error) {
	_, err = locale.Parse(c.Defaults.Lang)
	if err != nil {
		return err
	}

	margins := []struct {
		key   string
		value float64
	}{
		{"page.top", c.Page.Top},
		{"page.bottom", c.Page.Bottom},
		{"page.left", c.Page.Left},
		{"page.right", c.Page.Right},
	}
	for _, m := range margins {
		if m.value <= 0 || m.value > MaxMargin {
			err = &locale.ConfigError{Key: m.key, Value: fmt.Sprintf("%g", m.value)}
			return err
		}
	}

	if c.Defaults.Input == "" {
		c.Defaults.Input = DefaultInput
	}

	if c.Defaults.Output == "" {
		c.Defaults.Output = DefaultOutput
	}

	return err
}

// RenderConfig converts the file settings into a render configuration.
func (c *Config) RenderConfig() (rc cv.Config, err error) {
	rc.Language, err = locale.Parse(c.Defaults.Lang)
	if err != nil {
		return rc, err
	}

	if photo := strings.TrimSpace(c.Defaults.Photo); photo != "" {
		rc.PhotoPath = profile.Some(photo)
	}

	rc.Page.MarginTop = c.Page.Top
	rc.Page.MarginBottom = c.Page.Bottom
	rc.Page.MarginLeft = c.Page.Left
	rc.Page.MarginRight = c.Page.Right

	return rc, err
}

// InitConfig creates a default configuration file at configPath, or at the
// default location when configPath is empty. It never overwrites.
func InitConfig(configPath string) (path string, err error) {
	// Determine config file location
	path = configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return path, err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return path, err
	}

	var buf bytes.Buffer
	err = toml.NewEncoder(&buf).Encode(Default())
	if err != nil {
		err = errors.Wrap(err, "failed to encode default config")
		return path, err
	}

	var f *os.File
	f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			err = errors.Errorf("config file already exists: %s", path)
			return path, err
		}
		err = errors.Wrapf(err, "failed to create config file: %s", path)
		return path, err
	}

	_, err = f.Write(buf.Bytes())
	if err != nil {
		_ = f.Close()
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return path, err
	}

	err = f.Close()
	if err != nil {
		err = errors.Wrapf(err, "failed to close config file: %s", path)
		return path, err
	}

	return path, err
}
