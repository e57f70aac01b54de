// seehuhn.de/go/maprender - top-down map images from place files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config reads the description of what to draw on a map.
//
// A configuration either draws every part in the Workspace in its own
// colour ([Everything]), or draws the parts selected by a list of [Rule]s
// in the colour given by each rule ([Rules]).  Configuration files can be
// written in JSON, TOML or YAML.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is a parsed configuration file.
type Config struct {
	Mode Mode

	// OnMalformed decides what happens when a selected node lacks a
	// required property, or a rule path cannot be resolved.
	OnMalformed Policy

	// Background is the colour of the canvas before anything is drawn.
	// The zero value is fully transparent.
	Background color.NRGBA
}

// Mode selects the nodes to draw.  It is either [Everything] or [Rules].
type Mode interface {
	isMode()
}

// Everything draws every node of class "Part" below the Workspace, using
// the colour and transparency of the part.
type Everything struct{}

// Rules draws the nodes selected by each rule, in order.
type Rules []Rule

func (Everything) isMode() {}
func (Rules) isMode()      {}

// Rule selects all nodes called PartName in the subtree found by following
// Path from the root.  The nodes are drawn opaque in the given colour.
type Rule struct {
	Color    color.NRGBA
	Path     []string
	PartName string
}

// Policy is the reaction to malformed scene data.
type Policy int

const (
	// Skip logs a warning, ignores the offending node or rule and
	// continues.
	Skip Policy = iota

	// Abort stops at the first problem.
	Abort
)

func (p Policy) String() string {
	switch p {
	case Skip:
		return "skip"
	case Abort:
		return "abort"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts "skip" or "abort" into a Policy.  The empty string
// gives [Skip].
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "skip":
		return Skip, nil
	case "abort":
		return Abort, nil
	}
	return 0, fmt.Errorf("invalid policy %q (want skip or abort)", s)
}

// Format is a configuration file syntax.
type Format int

// These are the supported configuration file syntaxes.
const (
	JSON Format = iota + 1
	TOML
	YAML
)

var (
	// ErrUnknownFormat is returned for configuration files with an
	// unsupported name extension.
	ErrUnknownFormat = errors.New("unknown configuration file format")

	// ErrNoMode is returned when a configuration selects neither mode.
	ErrNoMode = errors.New("configuration needs either draw_everything or a list of rules")

	// ErrModeConflict is returned when a configuration selects both modes.
	ErrModeConflict = errors.New("draw_everything cannot be combined with rules")

	// ErrInvalidColor is returned for malformed colour values.
	ErrInvalidColor = errors.New("invalid colour")
)

// FormatFromExt returns the configuration syntax for a file name extension.
func FormatFromExt(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		return JSON, nil
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// Load reads a configuration file.  The syntax is chosen by the file name
// extension.
func Load(fname string) (*Config, error) {
	format, err := FormatFromExt(filepath.Ext(fname))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return cfg, nil
}

type rawConfig struct {
	DrawEverything *bool     `json:"draw_everything" toml:"draw_everything" yaml:"draw_everything"`
	Rules          []rawRule `json:"rules" toml:"rules" yaml:"rules"`
	WorldFiles     []rawRule `json:"world_files" toml:"world_files" yaml:"world_files"`
	OnMalformed    string    `json:"on_malformed" toml:"on_malformed" yaml:"on_malformed"`
	Background     any       `json:"background" toml:"background" yaml:"background"`
}

type rawRule struct {
	Color    any      `json:"color" toml:"color" yaml:"color"`
	Path     []string `json:"path" toml:"path" yaml:"path"`
	Dir      []string `json:"dir" toml:"dir" yaml:"dir"`
	PartName string   `json:"part_name" toml:"part_name" yaml:"part_name"`
}

// Parse decodes and validates a configuration.
func Parse(data []byte, format Format) (*Config, error) {
	var raw rawConfig
	var err error
	switch format {
	case JSON:
		err = json.Unmarshal(data, &raw)
	case TOML:
		err = toml.Unmarshal(data, &raw)
	case YAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}
	return raw.convert()
}

func (raw *rawConfig) convert() (*Config, error) {
	cfg := &Config{}

	var err error
	cfg.OnMalformed, err = ParsePolicy(raw.OnMalformed)
	if err != nil {
		return nil, err
	}
	if raw.Background != nil {
		cfg.Background, err = parseColor(raw.Background, true)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
	}

	if raw.Rules != nil && raw.WorldFiles != nil {
		return nil, errors.New("rules and world_files cannot both be given")
	}
	rawRules := raw.Rules
	if rawRules == nil {
		rawRules = raw.WorldFiles
	}

	everything := raw.DrawEverything != nil && *raw.DrawEverything
	switch {
	case everything && len(rawRules) > 0:
		return nil, ErrModeConflict
	case everything:
		cfg.Mode = Everything{}
		return cfg, nil
	case raw.DrawEverything == nil && rawRules == nil:
		return nil, ErrNoMode
	}

	rules := make(Rules, 0, len(rawRules))
	for i, r := range rawRules {
		rule, err := r.convert()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	cfg.Mode = rules
	return cfg, nil
}

func (r *rawRule) convert() (Rule, error) {
	if r.PartName == "" {
		return Rule{}, errors.New("part_name is missing")
	}
	if r.Path != nil && r.Dir != nil {
		return Rule{}, errors.New("path and dir cannot both be given")
	}
	if r.Color == nil {
		return Rule{}, fmt.Errorf("%w: color is missing", ErrInvalidColor)
	}
	col, err := parseColor(r.Color, false)
	if err != nil {
		return Rule{}, err
	}
	path := r.Path
	if path == nil {
		path = r.Dir
	}
	return Rule{Color: col, Path: path, PartName: r.PartName}, nil
}

// parseColor accepts "#rrggbb" strings and lists of three byte values.
// If withAlpha is set, a fourth list element gives the alpha value.
// Colours without alpha are opaque.
func parseColor(v any, withAlpha bool) (color.NRGBA, error) {
	switch v := v.(type) {
	case string:
		c, err := colorful.Hex(v)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	case []any:
		if len(v) != 3 && !(withAlpha && len(v) == 4) {
			return color.NRGBA{}, fmt.Errorf("%w: %d components", ErrInvalidColor, len(v))
		}
		c := [4]uint8{3: 255}
		for i, x := range v {
			b, ok := toByte(x)
			if !ok {
				return color.NRGBA{}, fmt.Errorf("%w: component %v", ErrInvalidColor, x)
			}
			c[i] = b
		}
		return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %v", ErrInvalidColor, v)
}

// toByte converts the integer types produced by the different decoders.
func toByte(x any) (uint8, bool) {
	var f float64
	switch x := x.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return 0, false
	}
	if f < 0 || f > 255 || f != math.Trunc(f) {
		return 0, false
	}
	return uint8(f), true
}
