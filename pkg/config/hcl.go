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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// hclConfig mirrors Config with gohcl tags; patterns are blocks:
//
//	pattern {
//	  match   = "..."
//	  replace = "$1"
//	}
type hclConfig struct {
	Patterns     []hclPattern `hcl:"pattern,block"`
	Extensions   *[]string    `hcl:"extensions,optional"`
	Exclude      *[]string    `hcl:"exclude,optional"`
	Recursive    *bool        `hcl:"recursive,optional"`
	Encoding     *string      `hcl:"encoding,optional"`
	Workers      *int         `hcl:"workers,optional"`
	FuzzyPercent *int         `hcl:"fuzzy_percent,optional"`
	FailOnError  *bool        `hcl:"fail_on_error,optional"`
	Verbose      *bool        `hcl:"verbose,optional"`
	Output       *string      `hcl:"output,optional"`
}

type hclPattern struct {
	Match      string  `hcl:"match"`
	Replace    *string `hcl:"replace,optional"`
	IgnoreCase *bool   `hcl:"ignore_case,optional"`
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// apply over the defaults so a file only overrides what it names
	cfg := Default()
	if len(raw.Patterns) > 0 {
		cfg.Patterns = nil
		for _, hp := range raw.Patterns {
			rule := PatternRule{Match: hp.Match, Replace: hp.Replace}
			if hp.IgnoreCase != nil {
				rule.IgnoreCase = *hp.IgnoreCase
			}
			cfg.Patterns = append(cfg.Patterns, rule)
		}
	}
	if raw.Extensions != nil {
		cfg.Extensions = *raw.Extensions
	}
	if raw.Exclude != nil {
		cfg.Exclude = *raw.Exclude
	}
	if raw.Recursive != nil {
		cfg.Recursive = *raw.Recursive
	}
	if raw.Encoding != nil {
		cfg.Encoding = *raw.Encoding
	}
	if raw.Workers != nil {
		cfg.Workers = *raw.Workers
	}
	if raw.FuzzyPercent != nil {
		cfg.FuzzyPercent = *raw.FuzzyPercent
	}
	if raw.FailOnError != nil {
		cfg.FailOnError = *raw.FailOnError
	}
	if raw.Verbose != nil {
		cfg.Verbose = *raw.Verbose
	}
	if raw.Output != nil {
		cfg.Output = *raw.Output
	}

	return cfg, nil
}
