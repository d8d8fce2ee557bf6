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
	"fmt"

	"gopkg.in/yaml.v3"
)

// Linkage classifies how a dependency occurrence is attached to its parent.
type Linkage int

const (
	// LinkageDynamic indicates an external package linked at run time.
	LinkageDynamic Linkage = iota

	// LinkageStatic indicates an external package linked at build time.
	LinkageStatic

	// LinkageProjectDynamic indicates a sub-project of the analyzed source
	// tree, dynamically linked.
	LinkageProjectDynamic

	// LinkageProjectStatic indicates a sub-project of the analyzed source
	// tree, statically linked.
	LinkageProjectStatic
)

// linkageNames maps Linkage values to their string representations.
var linkageNames = map[Linkage]string{
	LinkageDynamic:        "dynamic",
	LinkageStatic:         "static",
	LinkageProjectDynamic: "project_dynamic",
	LinkageProjectStatic:  "project_static",
}

// String returns the string representation of the Linkage.
func (l Linkage) String() string {
	if name, ok := linkageNames[l]; ok {
		return name
	}
	return "unknown"
}

// IsProject reports whether the linkage marks an internal sub-project
// rather than an external package.
func (l Linkage) IsProject() bool {
	return l == LinkageProjectDynamic || l == LinkageProjectStatic
}

// MarshalText implements encoding.TextMarshaler.
func (l Linkage) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Linkage) UnmarshalText(text []byte) error {
	for value, name := range linkageNames {
		if name == string(text) {
			*l = value
			return nil
		}
	}
	return fmt.Errorf("unknown linkage %q", text)
}

// MarshalYAML serializes the linkage as its string name.
func (l Linkage) MarshalYAML() (any, error) {
	return l.String(), nil
}

// UnmarshalYAML deserializes the linkage from its string name.
func (l *Linkage) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return fmt.Errorf("linkage must be a string: %w", err)
	}
	return l.UnmarshalText([]byte(name))
}

// Severity classifies the impact of a resolution issue.
type Severity int

const (
	// SeverityHint marks an informational finding.
	SeverityHint Severity = iota

	// SeverityWarning marks a finding that did not stop resolution.
	SeverityWarning

	// SeverityError marks a finding that left the occurrence unresolved.
	SeverityError
)

// severityNames maps Severity values to their string representations.
var severityNames = map[Severity]string{
	SeverityHint:    "hint",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

// String returns the string representation of the Severity.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	for value, name := range severityNames {
		if name == string(text) {
			*s = value
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", text)
}

// MarshalYAML serializes the severity as its string name.
func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML deserializes the severity from its string name.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return fmt.Errorf("severity must be a string: %w", err)
	}
	return s.UnmarshalText([]byte(name))
}

// Issue records a problem encountered while resolving one dependency
// occurrence.
type Issue struct {
	// Source names the analyzer component that reported the issue.
	Source string `json:"source" yaml:"source"`

	// Severity is the impact classification.
	Severity Severity `json:"severity" yaml:"severity"`

	// Message is the human-readable description.
	Message string `json:"message" yaml:"message"`
}

// Project identifies one analyzed project and the dependency scopes it
// declares. Several projects handled by the same package manager share one
// DependencyGraph.
type Project struct {
	// ID is the project's own package identifier. Its Type coordinate names
	// the package manager that produced the project's graph.
	ID Identifier

	// ScopeNames lists the logical scope names the project declares, e.g.
	// "compile" and "test".
	ScopeNames []string
}

// ManagerName returns the package-manager identity owning this project's
// dependency graph.
func (p Project) ManagerName() string {
	return p.ID.Type
}

// QualifiedScopeName returns the scope key used in DependencyGraph.Scopes.
// Scope names are qualified by the owning project's identity so that
// identical scope names from different projects sharing one graph do not
// collide.
func (p Project) QualifiedScopeName(scopeName string) string {
	return p.ID.String() + ":" + scopeName
}

// DependencyReference is one package occurrence in the shared reference
// forest. The same (Package, Fragment) pair is represented by exactly one
// node, which may be reachable from multiple parents and scopes; two
// fragments of the same package are distinct nodes because their transitive
// dependency sets differ.
type DependencyReference struct {
	// Package is the index of this occurrence's identifier in the owning
	// graph's catalog.
	Package int

	// Fragment distinguishes multiple resolutions of the same package with
	// different transitive dependency sets. Fragment numbers are assigned by
	// the graph builder and are opaque here.
	Fragment int

	// Linkage classifies how this occurrence is attached.
	Linkage Linkage

	// Issues lists problems encountered resolving this occurrence.
	Issues []Issue

	// Dependencies is the ordered list of direct dependencies of this
	// occurrence. Shared subtrees point at the same nodes.
	Dependencies []*DependencyReference
}

// RootDependencyIndex addresses one root occurrence in the reference forest
// as a (catalog index, fragment) pair. It exists only to keep the scope map
// cheap to store and serialize.
type RootDependencyIndex struct {
	// Root is the catalog index of the root occurrence's identifier.
	Root int `json:"root" yaml:"root"`

	// Fragment is the root occurrence's fragment number.
	Fragment int `json:"fragment,omitempty" yaml:"fragment,omitempty"`
}

// DependencyGraph is the compact, per-package-manager encoding of resolved
// dependency information. It is immutable after construction; see the
// package documentation for the ownership and thread-safety contract.
type DependencyGraph struct {
	// Packages is the ordered, index-addressable catalog of identifiers.
	// Duplicate identifiers are permitted only when their occurrences differ
	// by fragment.
	Packages []Identifier

	// Roots holds the reference forest: every scope root occurrence, in a
	// stable order. All other reference nodes are reachable from these.
	Roots []*DependencyReference

	// Scopes maps a qualified scope name to the ordered root occurrences
	// belonging to that scope.
	Scopes map[string][]RootDependencyIndex
}

// NewDependencyGraph constructs a graph and validates that every reference
// and scope root points inside the package catalog. The returned graph must
// not be mutated afterwards.
func NewDependencyGraph(packages []Identifier, roots []*DependencyReference, scopes map[string][]RootDependencyIndex) (*DependencyGraph, error) {
	g := &DependencyGraph{Packages: packages, Roots: roots, Scopes: scopes}

	seen := make(map[*DependencyReference]bool)
	var check func(ref *DependencyReference) error
	check = func(ref *DependencyReference) error {
		if ref == nil {
			return fmt.Errorf("nil dependency reference: %w", ErrInvalidGraph)
		}
		if seen[ref] {
			return nil
		}
		seen[ref] = true
		if ref.Package < 0 || ref.Package >= len(packages) {
			return fmt.Errorf("reference package index %d outside catalog of %d packages: %w",
				ref.Package, len(packages), ErrInvalidGraph)
		}
		for _, dep := range ref.Dependencies {
			if err := check(dep); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := check(root); err != nil {
			return nil, err
		}
	}
	for scope, rootIndexes := range scopes {
		for _, ri := range rootIndexes {
			if ri.Root < 0 || ri.Root >= len(packages) {
				return nil, fmt.Errorf("scope %q root index %d outside catalog of %d packages: %w",
					scope, ri.Root, len(packages), ErrInvalidGraph)
			}
		}
	}

	return g, nil
}
