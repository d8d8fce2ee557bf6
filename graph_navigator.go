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
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// lazyIndex guards the one-time construction of a graph's resolution index.
// All racing first callers observe the same completed index.
type lazyIndex struct {
	once  sync.Once
	index *ReferenceIndex
}

// GraphNavigator implements DependencyNavigator over the compact
// DependencyGraph encoding. It borrows one graph per package-manager
// identity and owns only the derived resolution indexes, which are built
// lazily on first use and cached for the navigator's lifetime.
//
// A GraphNavigator is safe for concurrent use; see the package
// documentation.
type GraphNavigator struct {
	// graphs maps package-manager name to its dependency graph.
	graphs map[string]*DependencyGraph

	// indexes holds one lazily built resolution index per graph.
	indexes map[string]*lazyIndex

	logger *slog.Logger
}

// GraphNavigatorOption is a functional option for configuring GraphNavigator.
type GraphNavigatorOption func(*GraphNavigator)

// WithLogger sets the logger used by the navigator. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) GraphNavigatorOption {
	return func(n *GraphNavigator) {
		n.logger = logger
	}
}

// NewGraphNavigator creates a navigator over the given graphs, keyed by
// package-manager name. The graphs are borrowed, not copied, and must not
// be mutated while the navigator is in use.
func NewGraphNavigator(graphs map[string]*DependencyGraph, opts ...GraphNavigatorOption) *GraphNavigator {
	n := &GraphNavigator{
		graphs:  graphs,
		indexes: make(map[string]*lazyIndex, len(graphs)),
		logger:  slog.Default(),
	}
	for manager := range graphs {
		n.indexes[manager] = &lazyIndex{}
	}
	for _, opt := range opts {
		opt(n)
	}

	n.logger.Debug("created dependency graph navigator",
		slog.Int("managers", len(graphs)),
	)
	return n
}

// graphFor returns the graph owning the given package manager's dependency
// information. A missing graph and a graph with an empty catalog are the
// same fatal condition: neither can resolve any root.
func (n *GraphNavigator) graphFor(manager string) (*DependencyGraph, error) {
	g, ok := n.graphs[manager]
	if !ok || len(g.Packages) == 0 {
		return nil, fmt.Errorf("manager %q: %w", manager, ErrNoGraph)
	}
	return g, nil
}

// indexFor returns the manager's resolution index, building it on first use.
func (n *GraphNavigator) indexFor(ctx context.Context, manager string) (*ReferenceIndex, error) {
	g, err := n.graphFor(manager)
	if err != nil {
		return nil, err
	}

	lazy := n.indexes[manager]
	lazy.once.Do(func() {
		start := time.Now()
		lazy.index = NewReferenceIndex(g)
		recordIndexMetrics(ctx, manager, time.Since(start), lazy.index.Size())
	})
	return lazy.index, nil
}

// WarmUp builds the resolution indexes of all registered graphs
// concurrently. Calling it is optional; indexes are otherwise built on
// first query.
func (n *GraphNavigator) WarmUp(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	for manager := range n.graphs {
		manager := manager
		group.Go(func() error {
			_, err := n.indexFor(ctx, manager)
			return err
		})
	}
	return group.Wait()
}

// ScopeNames implements DependencyNavigator.
func (n *GraphNavigator) ScopeNames(project Project) []string {
	names := make([]string, len(project.ScopeNames))
	copy(names, project.ScopeNames)
	sort.Strings(names)
	return names
}

// DirectDependencies implements DependencyNavigator. Roots are visited in
// the scope's declared order.
func (n *GraphNavigator) DirectDependencies(ctx context.Context, project Project, scopeName string, visit func(DependencyNode) bool) error {
	ctx, span := startQuerySpan(ctx, "DirectDependencies", project)
	defer span.End()
	start := time.Now()
	defer func() { recordQueryMetrics(ctx, "DirectDependencies", time.Since(start)) }()

	manager := project.ManagerName()
	g, err := n.graphFor(manager)
	if err != nil {
		return err
	}
	ix, err := n.indexFor(ctx, manager)
	if err != nil {
		return err
	}

	roots, ok := g.Scopes[project.QualifiedScopeName(scopeName)]
	if !ok {
		// Graphs built from a single project may carry unqualified keys.
		roots = g.Scopes[scopeName]
	}

	refs := make([]*DependencyReference, len(roots))
	for i, root := range roots {
		ref, err := ix.Resolve(root.Root, root.Fragment)
		if err != nil {
			return fmt.Errorf("scope %q of project %s: %w", scopeName, project.ID, err)
		}
		refs[i] = ref
	}

	visitReferences(g, refs, visit)
	return nil
}

// ScopeDependencies implements DependencyNavigator.
func (n *GraphNavigator) ScopeDependencies(ctx context.Context, project Project, maxDepth int, matcher Matcher) (map[string]IdentifierSet, error) {
	ctx, span := startQuerySpan(ctx, "ScopeDependencies", project)
	defer span.End()
	start := time.Now()
	defer func() { recordQueryMetrics(ctx, "ScopeDependencies", time.Since(start)) }()

	return scopeDependencies(ctx, n, project, maxDepth, matcher)
}

// DependenciesForScope implements DependencyNavigator.
func (n *GraphNavigator) DependenciesForScope(ctx context.Context, project Project, scopeName string, maxDepth int, matcher Matcher) (IdentifierSet, error) {
	return dependenciesForScope(ctx, n, project, scopeName, maxDepth, matcher)
}

// ProjectDependencies implements DependencyNavigator.
func (n *GraphNavigator) ProjectDependencies(ctx context.Context, project Project, maxDepth int, matcher Matcher) (IdentifierSet, error) {
	return projectDependencies(ctx, n, project, maxDepth, matcher)
}

// PackageDependencies implements DependencyNavigator.
func (n *GraphNavigator) PackageDependencies(ctx context.Context, project Project, packageID Identifier, maxDepth int, matcher Matcher) (IdentifierSet, error) {
	ctx, span := startQuerySpan(ctx, "PackageDependencies", project)
	defer span.End()
	start := time.Now()
	defer func() { recordQueryMetrics(ctx, "PackageDependencies", time.Since(start)) }()

	return packageDependencies(ctx, n, project, packageID, maxDepth, matcher)
}

// ShortestPaths implements DependencyNavigator.
func (n *GraphNavigator) ShortestPaths(ctx context.Context, project Project) (map[string]map[Identifier][]Identifier, error) {
	ctx, span := startQuerySpan(ctx, "ShortestPaths", project)
	defer span.End()
	start := time.Now()
	defer func() { recordQueryMetrics(ctx, "ShortestPaths", time.Since(start)) }()

	return shortestPaths(ctx, n, project)
}

// CollectSubProjects implements DependencyNavigator.
func (n *GraphNavigator) CollectSubProjects(ctx context.Context, project Project) (IdentifierSet, error) {
	return collectSubProjects(ctx, n, project)
}

// DependencyTreeDepth implements DependencyNavigator.
func (n *GraphNavigator) DependencyTreeDepth(ctx context.Context, project Project, scopeName string) (int, error) {
	return dependencyTreeDepth(ctx, n, project, scopeName)
}

// Compile-time interface check.
var _ DependencyNavigator = (*GraphNavigator)(nil)
