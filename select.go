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

package maprender

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"go.uber.org/multierr"

	"seehuhn.de/go/maprender/config"
	"seehuhn.de/go/maprender/scene"
)

// Names used when selecting nodes.
const (
	WorkspaceName = "Workspace"
	PartClass     = "Part"
)

// shapeBall is the value of the Shape property for spheres.
const shapeBall = 0

// ErrNoWorkspace is returned when the root of a place has no child
// called "Workspace".
var ErrNoWorkspace = errors.New("could not find Workspace")

// NodeError reports a selected node which lacks a required property.
type NodeError struct {
	Node scene.NodeID
	Name string // dot-separated path of the node
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.Name, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// RuleError reports a rule which could not be applied.
type RuleError struct {
	Rule int // index into config.Rules
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d: %v", e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// DrawCommand is a single footprint to paint.
type DrawCommand struct {
	Node      scene.NodeID
	Footprint Footprint
	Color     color.NRGBA
}

// Selection is the result of [Select].
type Selection struct {
	// Commands lists the footprints to paint, in painting order.
	Commands []DrawCommand

	// Skipped combines the problems which were ignored because of the
	// [config.Skip] policy.  Use [multierr.Errors] to list them.
	Skipped error
}

// Select walks the scene tree and returns the draw commands described by
// cfg.  Commands are emitted in depth-first pre-order of the scene tree
// and, for rule lists, in rule order.
//
// With the [config.Abort] policy, the first malformed node or rule stops
// the selection and the error is returned.  A missing Workspace is always
// fatal.
func Select(t *scene.Tree, cfg *config.Config, proj Projector) (*Selection, error) {
	s := &selector{tree: t, proj: proj, policy: cfg.OnMalformed}

	var err error
	switch mode := cfg.Mode.(type) {
	case config.Everything:
		err = s.everything()
	case config.Rules:
		err = s.rules(mode)
	default:
		err = fmt.Errorf("unsupported render mode %T", mode)
	}
	if err != nil {
		return nil, err
	}
	return &Selection{Commands: s.cmds, Skipped: s.skipped}, nil
}

type selector struct {
	tree   *scene.Tree
	proj   Projector
	policy config.Policy

	cmds    []DrawCommand
	skipped error
}

// problem applies the malformed-data policy.  The result is non-nil if
// the selection must stop.
func (s *selector) problem(err error) error {
	if s.policy == config.Abort {
		return err
	}
	Logger().Warn("skipping malformed data", slog.String("error", err.Error()))
	s.skipped = multierr.Append(s.skipped, err)
	return nil
}

func (s *selector) emit(id scene.NodeID, fp Footprint, col color.NRGBA) {
	s.cmds = append(s.cmds, DrawCommand{Node: id, Footprint: fp, Color: col})
	Logger().Debug("selected",
		slog.String("node", s.tree.FullName(id)),
		slog.Float64("x", fp.Center.X),
		slog.Float64("y", fp.Center.Y),
		slog.Float64("yaw", fp.Yaw))
}

func (s *selector) everything() error {
	ws, ok := s.tree.FindChild(scene.Root, WorkspaceName)
	if !ok {
		return ErrNoWorkspace
	}

	for id := range s.tree.Descendants(ws) {
		if s.tree.Node(id).Class != PartClass {
			continue
		}
		fp, col, err := s.part(id)
		if err != nil {
			if err := s.problem(&NodeError{Node: id, Name: s.tree.FullName(id), Err: err}); err != nil {
				return err
			}
			continue
		}
		s.emit(id, fp, col)
	}
	return nil
}

// part reads the footprint and colour of a part.
func (s *selector) part(id scene.NodeID) (Footprint, color.NRGBA, error) {
	fp, err := s.footprint(id)
	if err != nil {
		return Footprint{}, color.NRGBA{}, err
	}
	col, err := scene.GetColor(s.tree, id, "Color")
	if err != nil {
		return Footprint{}, color.NRGBA{}, err
	}
	tr, err := scene.GetFloat(s.tree, id, "Transparency")
	if err != nil {
		return Footprint{}, color.NRGBA{}, err
	}
	if math.IsNaN(tr) {
		return Footprint{}, color.NRGBA{}, errors.New("transparency is NaN")
	}
	col.A = Opacity(tr)
	return fp, col, nil
}

// Opacity converts a transparency between 0 and 1 into an alpha value.
// Values outside the range are clamped.
func Opacity(transparency float64) uint8 {
	a := math.Round((1 - transparency) * 255)
	return uint8(min(max(a, 0), 255))
}

func (s *selector) footprint(id scene.NodeID) (Footprint, error) {
	cf, err := scene.Get[scene.CFrame](s.tree, id, "CFrame")
	if err != nil {
		return Footprint{}, err
	}
	size, err := scene.Get[scene.Vector3](s.tree, id, "Size")
	if err != nil {
		return Footprint{}, err
	}
	fp := s.proj.Project(cf, size)
	if shape, err := scene.Get[scene.Enum](s.tree, id, "Shape"); err == nil && shape == shapeBall {
		fp.Round = true
	}
	return fp, nil
}

func (s *selector) rules(rules config.Rules) error {
	for i, rule := range rules {
		start, err := s.resolve(rule.Path)
		if err != nil {
			if err := s.problem(&RuleError{Rule: i, Err: err}); err != nil {
				return err
			}
			continue
		}

		col := rule.Color
		col.A = 255
		for id := range s.tree.Descendants(start) {
			if s.tree.Node(id).Name != rule.PartName {
				continue
			}
			fp, err := s.footprint(id)
			if err != nil {
				nodeErr := &NodeError{Node: id, Name: s.tree.FullName(id), Err: err}
				if err := s.problem(&RuleError{Rule: i, Err: nodeErr}); err != nil {
					return err
				}
				continue
			}
			s.emit(id, fp, col)
		}
	}
	return nil
}

// resolve finds the start node of a rule.  Paths are followed from the
// root of the place.  If the first segment is not a child of the root,
// the path is followed from the Workspace instead.
func (s *selector) resolve(path []string) (scene.NodeID, error) {
	id, err := s.tree.Resolve(scene.Root, path)
	if err == nil {
		return id, nil
	}
	var pathErr *scene.PathError
	if errors.As(err, &pathErr) && pathErr.Missing == 0 {
		if ws, ok := s.tree.FindChild(scene.Root, WorkspaceName); ok {
			if id, wsErr := s.tree.Resolve(ws, path); wsErr == nil {
				return id, nil
			}
		}
	}
	return 0, err
}
