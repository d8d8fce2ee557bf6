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
	"context"
	"fmt"
	"sort"
)

// PackageReference is a node of the legacy, already-tree-shaped dependency
// model. Unlike DependencyReference it stores identifiers inline and shares
// no subtrees.
type PackageReference struct {
	// ID is the referenced package's identifier.
	ID Identifier

	// Linkage classifies how the dependency is attached.
	Linkage Linkage

	// Issues lists problems encountered resolving the dependency.
	Issues []Issue

	// Dependencies is the ordered list of direct dependencies.
	Dependencies []*PackageReference
}

// Scope is a named grouping of direct dependencies in the legacy model.
type Scope struct {
	// Name is the logical scope name, e.g. "compile".
	Name string

	// Dependencies is the ordered list of the scope's root dependencies.
	Dependencies []*PackageReference
}

// treeCursor presents PackageReference trees as DependencyNode views, with
// the same aliasing contract as the graph-backed cursor.
type treeCursor struct {
	current *PackageReference
}

// ID implements DependencyNode.
func (c *treeCursor) ID() Identifier {
	return c.current.ID
}

// Linkage implements DependencyNode.
func (c *treeCursor) Linkage() Linkage {
	return c.current.Linkage
}

// Issues implements DependencyNode.
func (c *treeCursor) Issues() []Issue {
	return c.current.Issues
}

// VisitDependencies implements DependencyNode.
func (c *treeCursor) VisitDependencies(visit func(DependencyNode) bool) {
	visitPackageReferences(c.current.Dependencies, visit)
}

// StableReference implements DependencyNode.
func (c *treeCursor) StableReference() DependencyNode {
	return &treeCursor{current: c.current}
}

// visitPackageReferences walks a sibling list of tree references, yielding
// each through a single repositioned cursor until visit returns false.
func visitPackageReferences(refs []*PackageReference, visit func(DependencyNode) bool) {
	cursor := &treeCursor{}
	for _, ref := range refs {
		cursor.current = ref
		if !visit(cursor) {
			return
		}
	}
}

// TreeNavigator implements DependencyNavigator over the legacy tree model.
// It exists to keep the navigator abstraction honest: callers written
// against DependencyNavigator work unchanged over either backing
// representation.
type TreeNavigator struct {
	// scopes maps a project's identifier to its dependency scopes.
	scopes map[Identifier][]Scope
}

// NewTreeNavigator creates a navigator over legacy per-project scope trees.
// The trees are borrowed, not copied, and must not be mutated while the
// navigator is in use.
func NewTreeNavigator(scopes map[Identifier][]Scope) *TreeNavigator {
	return &TreeNavigator{scopes: scopes}
}

// projectScopes returns the stored scopes for a project. A project without
// dependency information is the same fatal condition as a missing graph.
func (n *TreeNavigator) projectScopes(project Project) ([]Scope, error) {
	scopes, ok := n.scopes[project.ID]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", project.ID, ErrNoGraph)
	}
	return scopes, nil
}

// ScopeNames implements DependencyNavigator. Names come from the stored
// trees, not from the project's declaration.
func (n *TreeNavigator) ScopeNames(project Project) []string {
	scopes, err := n.projectScopes(project)
	if err != nil {
		return nil
	}
	names := make([]string, len(scopes))
	for i, scope := range scopes {
		names[i] = scope.Name
	}
	sort.Strings(names)
	return names
}

// DirectDependencies implements DependencyNavigator.
func (n *TreeNavigator) DirectDependencies(ctx context.Context, project Project, scopeName string, visit func(DependencyNode) bool) error {
	scopes, err := n.projectScopes(project)
	if err != nil {
		return err
	}
	for _, scope := range scopes {
		if scope.Name == scopeName {
			visitPackageReferences(scope.Dependencies, visit)
			return nil
		}
	}
	return nil
}

// ScopeDependencies implements DependencyNavigator.
func (n *TreeNavigator) ScopeDependencies(ctx context.Context, project Project, maxDepth int, matcher Matcher) (map[string]IdentifierSet, error) {
	if _, err := n.projectScopes(project); err != nil {
		return nil, err
	}
	return scopeDependencies(ctx, n, project, maxDepth, matcher)
}

// DependenciesForScope implements DependencyNavigator.
func (n *TreeNavigator) DependenciesForScope(ctx context.Context, project Project, scopeName string, maxDepth int, matcher Matcher) (IdentifierSet, error) {
	return dependenciesForScope(ctx, n, project, scopeName, maxDepth, matcher)
}

// ProjectDependencies implements DependencyNavigator.
func (n *TreeNavigator) ProjectDependencies(ctx context.Context, project Project, maxDepth int, matcher Matcher) (IdentifierSet, error) {
	return projectDependencies(ctx, n, project, maxDepth, matcher)
}

// PackageDependencies implements DependencyNavigator.
func (n *TreeNavigator) PackageDependencies(ctx context.Context, project Project, packageID Identifier, maxDepth int, matcher Matcher) (IdentifierSet, error) {
	return packageDependencies(ctx, n, project, packageID, maxDepth, matcher)
}

// ShortestPaths implements DependencyNavigator.
func (n *TreeNavigator) ShortestPaths(ctx context.Context, project Project) (map[string]map[Identifier][]Identifier, error) {
	return shortestPaths(ctx, n, project)
}

// CollectSubProjects implements DependencyNavigator.
func (n *TreeNavigator) CollectSubProjects(ctx context.Context, project Project) (IdentifierSet, error) {
	return collectSubProjects(ctx, n, project)
}

// DependencyTreeDepth implements DependencyNavigator.
func (n *TreeNavigator) DependencyTreeDepth(ctx context.Context, project Project, scopeName string) (int, error) {
	return dependencyTreeDepth(ctx, n, project, scopeName)
}

// Compile-time interface check.
var _ DependencyNavigator = (*TreeNavigator)(nil)
