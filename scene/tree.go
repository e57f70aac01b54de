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

// Package scene holds the node tree of a place file.
//
// Nodes are stored in an arena owned by a [Tree] and referred to by
// [NodeID].  Every node has a name, a class and a bag of typed
// properties.  Node [Root] is the document itself; the containers of a
// place, like "Workspace", are its children.
package scene

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// NodeID identifies a node within a [Tree].
type NodeID int32

const (
	// Root is the ID of the document node.
	Root NodeID = 0

	// NoParent is the parent of [Root].
	NoParent NodeID = -1
)

// RootClass is the class of the document node.
const RootClass = "DataModel"

// Node is a single object in the scene.
type Node struct {
	Name     string
	Class    string
	Parent   NodeID
	Children []NodeID
	Props    map[string]Value
}

// Tree is an arena of scene nodes.
type Tree struct {
	nodes []Node
}

// NewTree returns a tree which contains only the document node.
func NewTree() *Tree {
	return &Tree{
		nodes: []Node{{Name: "game", Class: RootClass, Parent: NoParent}},
	}
}

// Len returns the number of nodes in the tree, including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given ID.  The returned pointer is only
// valid until the next call to [Tree.Add].
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Valid reports whether id refers to a node of t.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Add appends a new node as the last child of parent.
func (t *Tree) Add(parent NodeID, class, name string) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Name: name, Class: class, Parent: parent})
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id
}

// SetProp sets a property of the given node, replacing any previous value.
func (t *Tree) SetProp(id NodeID, name string, v Value) {
	n := &t.nodes[id]
	if n.Props == nil {
		n.Props = make(map[string]Value)
	}
	n.Props[name] = v
}

// Prop returns the value of a property.
func (t *Tree) Prop(id NodeID, name string) (Value, bool) {
	v, ok := t.nodes[id].Props[name]
	return v, ok
}

// FindChild returns the first child of id with the given name.
func (t *Tree) FindChild(id NodeID, name string) (NodeID, bool) {
	for _, c := range t.nodes[id].Children {
		if t.nodes[c].Name == name {
			return c, true
		}
	}
	return 0, false
}

// ErrNoChild indicates that a path segment did not match any child.
var ErrNoChild = errors.New("no child with this name")

// PathError describes a path which could not be resolved.
type PathError struct {
	Path []string

	// Missing is the index of the first segment without a match.
	Missing int
}

func (e *PathError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "path %q: ", strings.Join(e.Path, "/"))
	if e.Missing > 0 {
		fmt.Fprintf(&b, "%q has no child %q", strings.Join(e.Path[:e.Missing], "/"), e.Path[e.Missing])
	} else {
		fmt.Fprintf(&b, "root has no child %q", e.Path[0])
	}
	return b.String()
}

func (e *PathError) Unwrap() error {
	return ErrNoChild
}

// Resolve follows a sequence of child names, starting at from.  Each
// segment selects the first child with that exact name.
func (t *Tree) Resolve(from NodeID, path []string) (NodeID, error) {
	id := from
	for i, name := range path {
		c, ok := t.FindChild(id, name)
		if !ok {
			return 0, &PathError{Path: path, Missing: i}
		}
		id = c
	}
	return id, nil
}

// Descendants iterates over all nodes below id, in depth-first pre-order.
// Children are visited in their original order.  The node id itself is
// not included.
func (t *Tree) Descendants(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		children := t.nodes[id].Children
		stack := make([]NodeID, 0, len(children))
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			children := t.nodes[n].Children
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
}

// FullName returns the dot-separated names from the child of the root
// down to id, for use in messages.
func (t *Tree) FullName(id NodeID) string {
	var parts []string
	for id != Root && id != NoParent {
		parts = append(parts, t.nodes[id].Name)
		id = t.nodes[id].Parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}
