// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package depnav

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// The on-disk form of a DependencyGraph flattens the reference forest into
// node records and index-pair edges, so shared subtrees are written once
// and sharing survives a round trip. Identifiers serialize as coordinate
// strings, enums as their names.

// dependencyGraphWire is the serialized shape of a DependencyGraph.
type dependencyGraphWire struct {
	Packages []Identifier                     `json:"packages" yaml:"packages"`
	Nodes    []dependencyNodeWire             `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Edges    []dependencyEdgeWire             `json:"edges,omitempty" yaml:"edges,omitempty"`
	Roots    []int                            `json:"roots,omitempty" yaml:"roots,omitempty"`
	Scopes   map[string][]RootDependencyIndex `json:"scopes" yaml:"scopes"`
}

// dependencyNodeWire is one serialized reference node.
type dependencyNodeWire struct {
	Package  int     `json:"pkg" yaml:"pkg"`
	Fragment int     `json:"fragment,omitempty" yaml:"fragment,omitempty"`
	Linkage  Linkage `json:"linkage" yaml:"linkage"`
	Issues   []Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// dependencyEdgeWire is one serialized parent-to-child link between node
// records. Edge list order preserves each parent's child order.
type dependencyEdgeWire struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// toWire flattens the reference forest. Nodes are numbered in first-visit
// pre-order from the forest roots; a shared node keeps its first number.
func (g *DependencyGraph) toWire() dependencyGraphWire {
	w := dependencyGraphWire{
		Packages: g.Packages,
		Scopes:   g.Scopes,
	}

	indexOf := make(map[*DependencyReference]int)
	var assign func(ref *DependencyReference) int
	assign = func(ref *DependencyReference) int {
		if i, ok := indexOf[ref]; ok {
			return i
		}
		i := len(w.Nodes)
		indexOf[ref] = i
		w.Nodes = append(w.Nodes, dependencyNodeWire{
			Package:  ref.Package,
			Fragment: ref.Fragment,
			Linkage:  ref.Linkage,
			Issues:   ref.Issues,
		})
		for _, dep := range ref.Dependencies {
			w.Edges = append(w.Edges, dependencyEdgeWire{From: i, To: assign(dep)})
		}
		return i
	}

	for _, root := range g.Roots {
		w.Roots = append(w.Roots, assign(root))
	}
	return w
}

// fromWire rebuilds the reference forest, re-establishing subtree sharing,
// and validates the result.
func fromWire(w dependencyGraphWire) (*DependencyGraph, error) {
	refs := make([]*DependencyReference, len(w.Nodes))
	for i, nw := range w.Nodes {
		refs[i] = &DependencyReference{
			Package:  nw.Package,
			Fragment: nw.Fragment,
			Linkage:  nw.Linkage,
			Issues:   nw.Issues,
		}
	}

	for _, e := range w.Edges {
		if e.From < 0 || e.From >= len(refs) || e.To < 0 || e.To >= len(refs) {
			return nil, fmt.Errorf("edge (%d, %d) outside %d serialized nodes: %w",
				e.From, e.To, len(refs), ErrInvalidGraph)
		}
		refs[e.From].Dependencies = append(refs[e.From].Dependencies, refs[e.To])
	}

	roots := make([]*DependencyReference, len(w.Roots))
	for i, nodeIndex := range w.Roots {
		if nodeIndex < 0 || nodeIndex >= len(refs) {
			return nil, fmt.Errorf("root node index %d outside %d serialized nodes: %w",
				nodeIndex, len(refs), ErrInvalidGraph)
		}
		roots[i] = refs[nodeIndex]
	}

	return NewDependencyGraph(w.Packages, roots, w.Scopes)
}

// MarshalJSON implements json.Marshaler.
func (g *DependencyGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.toWire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *DependencyGraph) UnmarshalJSON(data []byte) error {
	var w dependencyGraphWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := fromWire(w)
	if err != nil {
		return err
	}
	*g = *decoded
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (g *DependencyGraph) MarshalYAML() (any, error) {
	return g.toWire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (g *DependencyGraph) UnmarshalYAML(value *yaml.Node) error {
	var w dependencyGraphWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	decoded, err := fromWire(w)
	if err != nil {
		return err
	}
	*g = *decoded
	return nil
}
