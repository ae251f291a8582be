// Package config loads javatree settings from defaults, a YAML file, a
// .env file and JAVATREE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile = ".javatree.yaml"
	EnvFile     = ".env"
	EnvPrefix   = "JAVATREE_"
)

// Output formats. The first four are tree charsets.
const (
	FormatGraphics = "graphics"
	FormatText     = "text"
	FormatSpaces   = "spaces"
	FormatHTML     = "html"
	FormatDTree    = "dtree"
	FormatDot      = "dot"
	FormatJSON     = "json"
)

var Formats = []string{FormatGraphics, FormatText, FormatSpaces, FormatHTML, FormatDTree, FormatDot, FormatJSON}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	AllClasses   bool     `yaml:"all_classes"`
	Imports      bool     `yaml:"imports"`
	ImportPrefix string   `yaml:"import_prefix"`
	Ignore       []string `yaml:"ignore"`
	Format       string   `yaml:"format"`
	Names        bool     `yaml:"names"`
	NoTree       bool     `yaml:"no_tree"`
	Color        string   `yaml:"color"`
	OutDir       string   `yaml:"out_dir"`
	Split        bool     `yaml:"split"`
	NodesPerFile int      `yaml:"nodes_per_file"`
	Sort         bool     `yaml:"sort"`
	Verbosity    int      `yaml:"verbosity"`
}

func Default() Config {
	return Config{
		Format: FormatGraphics,
		Color:  ColorAuto,
		OutDir: ".",
	}
}

// Load reads the configuration file at path, or DefaultFile when path is
// empty and it exists, then applies .env and environment overrides.
func Load(path string) (Config, error) {
	return load(path, EnvFile, os.LookupEnv)
}

func load(path, envFile string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dotenv := map[string]string{}
	if envFile != "" {
		dotenv, err = godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[EnvPrefix+key]
		return v, ok
	}

	if err := cfg.applyEnv(env); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(env func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := env(key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := env(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}
	integer := func(key string, dst *int) error {
		v, ok := env(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("IMPORT_PREFIX", &c.ImportPrefix)
	str("FORMAT", &c.Format)
	str("COLOR", &c.Color)
	str("OUT_DIR", &c.OutDir)
	if v, ok := env("IGNORE"); ok {
		c.Ignore = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Ignore = append(c.Ignore, p)
			}
		}
	}

	for key, dst := range map[string]*bool{
		"ALL":     &c.AllClasses,
		"IMPORTS": &c.Imports,
		"NAMES":   &c.Names,
		"NO_TREE": &c.NoTree,
		"SPLIT":   &c.Split,
		"SORT":    &c.Sort,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	if err := integer("NODES_PER_FILE", &c.NodesPerFile); err != nil {
		return err
	}
	return integer("VERBOSITY", &c.Verbosity)
}

func (c Config) Validate() error {
	if !contains(Formats, c.Format) {
		return fmt.Errorf("unknown format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q (want auto, always or never)", c.Color)
	}
	if c.NodesPerFile < 0 {
		return fmt.Errorf("nodes per file must not be negative, got %d", c.NodesPerFile)
	}
	if (c.Split || c.NodesPerFile > 0) && c.Format != FormatDot {
		return fmt.Errorf("splitting output requires the %s format", FormatDot)
	}
	return nil
}

// IsTree reports whether the format is one of the indented tree charsets.
func (c Config) IsTree() bool {
	switch c.Format {
	case FormatGraphics, FormatText, FormatSpaces, FormatHTML:
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
