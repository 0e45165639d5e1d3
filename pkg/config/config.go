// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/potx/pkg/pattern"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🧩 PatternRule is one raw extraction rule. A rule without a replace
// template matches translatable forms; a rule with one rewrites the
// matched region toward a bare quoted literal. Declared order is
// priority order.
type PatternRule struct {
	Match      string  `json:"match" yaml:"match"`
	Replace    *string `json:"replace,omitempty" yaml:"replace,omitempty"`
	IgnoreCase bool    `json:"ignore_case,omitempty" yaml:"ignore_case,omitempty"`
}

// 📚 Config is the complete, immutable run configuration. Build it
// once at startup (file plus flag overrides), call Validate, then pass
// it into the scan and merge stages.
type Config struct {
	Patterns     []PatternRule `json:"patterns" yaml:"patterns"`
	Extensions   []string      `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Exclude      []string      `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Recursive    bool          `json:"recursive,omitempty" yaml:"recursive,omitempty"`
	Encoding     string        `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Workers      int           `json:"workers,omitempty" yaml:"workers,omitempty"`
	FuzzyPercent int           `json:"fuzzy_percent,omitempty" yaml:"fuzzy_percent,omitempty"`
	FailOnError  bool          `json:"fail_on_error,omitempty" yaml:"fail_on_error,omitempty"`
	Verbose      bool          `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Output       string        `json:"output,omitempty" yaml:"output,omitempty"`
}

// 🎯 Default returns the built-in configuration: gettext-style call
// forms, common source extensions, recursion on, fuzzy at 10%. Config
// files and flag overrides layer on top of it.
func Default() *Config {
	strip := `$1`
	return &Config{
		Patterns: []PatternRule{
			// _("...") and N_("...") call forms, literal captured with
			// surrounding whitespace
			{Match: `\b_\((\s*"(?:[^"\\]|\\.)*"\s*)[,)]`},
			{Match: `\bN_\((\s*"(?:[^"\\]|\\.)*"\s*)[,)]`},
			// GetString("...") method calls
			{Match: `\bGetString\((\s*"(?:[^"\\]|\\.)*"\s*)[,)]`},
			// trim whitespace left around the captured literal
			{Match: `^\s*("(?:[^"\\]|\\.)*")\s*$`, Replace: &strip},
		},
		Extensions:   []string{".c", ".cc", ".cpp", ".cs", ".go", ".js", ".py", ".ts", ".vala"},
		Recursive:    true,
		Encoding:     "utf-8",
		FuzzyPercent: 10,
		Output:       "messages.pot",
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults. Any
// failure here is fatal at startup.
func (cfg *Config) Validate() error {
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = Default().Patterns
	}
	for i, r := range cfg.Patterns {
		if strings.TrimSpace(r.Match) == "" {
			return errors.Errorf("pattern %d: match expression is required", i)
		}
	}

	if cfg.FuzzyPercent < 0 || cfg.FuzzyPercent > 100 {
		return errors.Errorf("fuzzy_percent must be in [0,100], got %d", cfg.FuzzyPercent)
	}
	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}

	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}
	if cfg.Output == "" {
		cfg.Output = "messages.pot"
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			cfg.Extensions[i] = "." + ext
		}
	}

	return nil
}

// 👷 EffectiveWorkers resolves the worker count: explicit value wins,
// otherwise twice the logical core count. Verbose output forces a
// single worker so log lines stay in file order.
func (cfg *Config) EffectiveWorkers() int {
	if cfg.Verbose {
		return 1
	}
	if cfg.Workers > 0 {
		return cfg.Workers
	}
	return 2 * runtime.NumCPU()
}

// 🧩 CompilePatterns compiles the raw rules into a pattern set
func (cfg *Config) CompilePatterns() (*pattern.Set, error) {
	specs := make([]pattern.Spec, len(cfg.Patterns))
	for i, r := range cfg.Patterns {
		specs[i] = pattern.Spec{
			Expression:  r.Match,
			IgnoreCase:  r.IgnoreCase,
			Replacement: r.Replace,
		}
	}
	set, err := pattern.Compile(specs)
	if err != nil {
		return nil, errors.Errorf("compiling configured patterns: %w", err)
	}
	return set, nil
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	// decode over the defaults so a file only overrides what it names
	cfg := Default()
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return cfg, nil
}
