// Package config loads the akinator command configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/guardstack"
	"github.com/reoring/guardstack/i18n"
	"github.com/reoring/guardstack/internal/logging"
)

// Config is the file layout:
//
//	tree: animals.txt
//	language: ru
//	logging:
//	  level: debug
//	  format: json
//	stack:
//	  guards: true
//	  checksums: false
//	  poison: true
//	  max_capacity: 4096
type Config struct {
	Tree     string  `yaml:"tree"`
	Language string  `yaml:"language"`
	Logging  Logging `yaml:"logging"`
	Stack    Stack   `yaml:"stack"`
}

// Logging selects the log level and output format.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Stack configures the path stacks. Nil switches keep the compiled-in
// defaults.
type Stack struct {
	Guards      *bool `yaml:"guards,omitempty"`
	Checksums   *bool `yaml:"checksums,omitempty"`
	Poison      *bool `yaml:"poison,omitempty"`
	MaxCapacity int   `yaml:"max_capacity"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Tree:     "akinator.txt",
		Language: "en",
		Logging:  Logging{Level: "info", Format: logging.FormatText},
	}
}

// Load reads path over Default. A missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("yaml unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Tree == "" {
		errs = append(errs, errors.New("tree: must not be empty"))
	}
	if !knownLanguage(c.Language) {
		errs = append(errs, fmt.Errorf("language: unsupported %q", c.Language))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch c.Logging.Format {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("logging.format: unsupported %q", c.Logging.Format))
	}
	if c.Stack.MaxCapacity != 0 && c.Stack.MaxCapacity < guardstack.InitCapacity {
		errs = append(errs, fmt.Errorf("stack.max_capacity: %d is below the initial capacity %d",
			c.Stack.MaxCapacity, guardstack.InitCapacity))
	}
	return errors.Join(errs...)
}

func knownLanguage(lang string) bool {
	for _, l := range i18n.Languages() {
		if l == lang {
			return true
		}
	}
	return false
}

// Features resolves the guard and checksum switches against the defaults.
func (s Stack) Features() guardstack.Features {
	f := guardstack.DefaultFeatures()
	if s.Guards != nil {
		f = toggle(f, guardstack.Guards, *s.Guards)
	}
	if s.Checksums != nil {
		f = toggle(f, guardstack.Checksums, *s.Checksums)
	}
	return f
}

func toggle(f, bit guardstack.Features, on bool) guardstack.Features {
	if on {
		return f | bit
	}
	return f &^ bit
}

// Options converts the stack section into guardstack options.
func (s Stack) Options() []guardstack.Option {
	opts := []guardstack.Option{guardstack.WithFeatures(s.Features())}
	if s.Poison != nil {
		opts = append(opts, guardstack.WithPoison(*s.Poison))
	}
	if s.MaxCapacity > 0 {
		opts = append(opts, guardstack.WithMaxCapacity(s.MaxCapacity))
	}
	return opts
}
