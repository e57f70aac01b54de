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

package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEverything(t *testing.T) {
	cfg, err := Parse([]byte(`{"draw_everything": true, "world_files": []}`), JSON)
	require.NoError(t, err)
	assert.Equal(t, Everything{}, cfg.Mode)
	assert.Equal(t, Skip, cfg.OnMalformed)
	assert.Equal(t, color.NRGBA{}, cfg.Background)
}

func TestParseRules(t *testing.T) {
	want := Rules{
		{
			Color:    color.NRGBA{R: 10, G: 20, B: 30, A: 255},
			Path:     []string{"Workspace", "Map", "Roads"},
			PartName: "Base",
		},
		{
			Color:    color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 255},
			Path:     []string{"Workspace", "Water"},
			PartName: "Surface",
		},
	}

	docs := []struct {
		name   string
		format Format
		data   string
	}{
		{"json", JSON, `{
			"draw_everything": false,
			"on_malformed": "abort",
			"background": [255, 255, 255],
			"rules": [
				{"color": [10, 20, 30], "path": ["Workspace", "Map", "Roads"], "part_name": "Base"},
				{"color": "#336699", "path": ["Workspace", "Water"], "part_name": "Surface"}
			]
		}`},
		{"json_legacy", JSON, `{
			"draw_everything": false,
			"on_malformed": "abort",
			"background": "#ffffff",
			"world_files": [
				{"color": [10, 20, 30], "dir": ["Workspace", "Map", "Roads"], "part_name": "Base"},
				{"color": [51, 102, 153], "dir": ["Workspace", "Water"], "part_name": "Surface"}
			]
		}`},
		{"toml", TOML, `
draw_everything = false
on_malformed = "abort"
background = [255, 255, 255, 255]

[[rules]]
color = [10, 20, 30]
path = ["Workspace", "Map", "Roads"]
part_name = "Base"

[[rules]]
color = "#336699"
path = ["Workspace", "Water"]
part_name = "Surface"
`},
		{"yaml", YAML, `
on_malformed: abort
background: [255, 255, 255]
rules:
  - color: [10, 20, 30]
    path: [Workspace, Map, Roads]
    part_name: Base
  - color: "#336699"
    path: [Workspace, Water]
    part_name: Surface
`},
	}
	for _, doc := range docs {
		t.Run(doc.name, func(t *testing.T) {
			cfg, err := Parse([]byte(doc.data), doc.format)
			require.NoError(t, err)
			assert.Equal(t, want, cfg.Mode)
			assert.Equal(t, Abort, cfg.OnMalformed)
			assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, cfg.Background)
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{"no_mode", `{}`, ErrNoMode},
		{"conflict", `{"draw_everything": true, "rules": [{"color": [1,2,3], "part_name": "x"}]}`, ErrModeConflict},
		{"short_color", `{"rules": [{"color": [1,2], "part_name": "x"}]}`, ErrInvalidColor},
		{"large_component", `{"rules": [{"color": [1,2,300], "part_name": "x"}]}`, ErrInvalidColor},
		{"fraction", `{"rules": [{"color": [1,2,0.5], "part_name": "x"}]}`, ErrInvalidColor},
		{"alpha_in_rule", `{"rules": [{"color": [1,2,3,4], "part_name": "x"}]}`, ErrInvalidColor},
		{"bad_hex", `{"rules": [{"color": "#gg0000", "part_name": "x"}]}`, ErrInvalidColor},
		{"missing_color", `{"rules": [{"part_name": "x"}]}`, ErrInvalidColor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), JSON)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := Parse([]byte(`{"rules": [{"color": [1,2,3]}]}`), JSON)
	assert.ErrorContains(t, err, "part_name")

	_, err = Parse([]byte(`{"draw_everything": true, "on_malformed": "ignore"}`), JSON)
	assert.Error(t, err)
}

func TestEmptyRuleList(t *testing.T) {
	cfg, err := Parse([]byte(`{"draw_everything": false}`), JSON)
	require.NoError(t, err)
	assert.Equal(t, Rules{}, cfg.Mode)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "map.yml")
	require.NoError(t, os.WriteFile(fname, []byte("draw_everything: true\n"), 0o644))

	cfg, err := Load(fname)
	require.NoError(t, err)
	assert.Equal(t, Everything{}, cfg.Mode)

	_, err = Load(filepath.Join(dir, "map.ini"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
