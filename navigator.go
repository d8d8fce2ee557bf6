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

import "context"

// Matcher is a predicate over a traversal node deciding inclusion in a
// result set. Matching never affects descent into children; only the depth
// bound does.
type Matcher func(node DependencyNode) bool

// MatchAll selects every visited node.
func MatchAll(DependencyNode) bool { return true }

// MatchSubProjects selects nodes whose linkage marks an internal
// sub-project.
func MatchSubProjects(node DependencyNode) bool { return node.Linkage().IsProject() }

// MatchLinkage returns a matcher selecting nodes with one of the given
// linkage values.
func MatchLinkage(linkages ...Linkage) Matcher {
	return func(node DependencyNode) bool {
		for _, l := range linkages {
			if node.Linkage() == l {
				return true
			}
		}
		return false
	}
}

// DependencyNavigator is the storage-agnostic view over a project's
// resolved dependency information. GraphNavigator implements it over the
// compact DependencyGraph encoding; TreeNavigator implements it over the
// legacy tree-shaped model. Consumers only ever receive plain identifier
// sets and maps, never internal reference types.
//
// Depth semantics are shared by all bounded operations: depth counts from
// the direct dependencies (level 1), maxDepth 0 selects nothing, and any
// negative value means unlimited depth. The context is used for telemetry
// spans; traversal cost is bounded by maxDepth and the matcher, not by
// cancellation.
//
// All failure modes indicate a malformed or inconsistent upstream graph
// and are fatal; see the sentinel errors in this package. A project with
// no scopes or a scope with no dependencies is a valid, empty result.
type DependencyNavigator interface {
	// ScopeNames returns the scope names declared by the project, sorted.
	ScopeNames(project Project) []string

	// DirectDependencies visits the root dependency nodes of the named
	// scope in declared order until visit returns false. The visited nodes
	// are subject to the aliasing contract on DependencyNode. An unknown
	// scope visits nothing.
	DirectDependencies(ctx context.Context, project Project, scopeName string, visit func(DependencyNode) bool) error

	// ScopeDependencies returns, per scope, the identifiers selected by
	// matcher within maxDepth levels below the scope roots.
	ScopeDependencies(ctx context.Context, project Project, maxDepth int, matcher Matcher) (map[string]IdentifierSet, error)

	// DependenciesForScope returns the matched, bounded identifiers of a
	// single scope.
	DependenciesForScope(ctx context.Context, project Project, scopeName string, maxDepth int, matcher Matcher) (IdentifierSet, error)

	// ProjectDependencies returns the union of the matched, bounded
	// identifiers over all the project's scopes.
	ProjectDependencies(ctx context.Context, project Project, maxDepth int, matcher Matcher) (IdentifierSet, error)

	// PackageDependencies returns the union, over every occurrence of
	// packageID anywhere in any scope tree, of the matched, bounded
	// dependencies below that occurrence. Every scope tree is traversed in
	// full, since different occurrences may carry different subtrees.
	PackageDependencies(ctx context.Context, project Project, packageID Identifier, maxDepth int, matcher Matcher) (IdentifierSet, error)

	// ShortestPaths returns, per scope, the shortest chain of intermediate
	// identifiers from the scope root to each reachable identifier. Roots
	// map to an empty chain.
	ShortestPaths(ctx context.Context, project Project) (map[string]map[Identifier][]Identifier, error)

	// CollectSubProjects returns the identifiers of nodes representing
	// internal sub-projects, across all scopes.
	CollectSubProjects(ctx context.Context, project Project) (IdentifierSet, error)

	// DependencyTreeDepth returns the number of levels in the named scope's
	// dependency tree: 0 for an empty scope, 1 for direct dependencies only.
	DependencyTreeDepth(ctx context.Context, project Project, scopeName string) (int, error)
}

// collectDependencies adds node's identifier to out if it matches and
// remaining permits it, then descends into children. remaining counts the
// levels still allowed including node's own; negative means unlimited.
// Matching never prunes descent.
func collectDependencies(node DependencyNode, remaining int, matcher Matcher, out IdentifierSet) {
	if remaining == 0 {
		return
	}
	if matcher(node) {
		out.Add(node.ID())
	}
	node.VisitDependencies(func(child DependencyNode) bool {
		collectDependencies(child, remaining-1, matcher, out)
		return true
	})
}

// scopeDependencies implements ScopeDependencies over any navigator.
func scopeDependencies(ctx context.Context, nav DependencyNavigator, project Project, maxDepth int, matcher Matcher) (map[string]IdentifierSet, error) {
	result := make(map[string]IdentifierSet)
	for _, scopeName := range nav.ScopeNames(project) {
		deps, err := dependenciesForScope(ctx, nav, project, scopeName, maxDepth, matcher)
		if err != nil {
			return nil, err
		}
		result[scopeName] = deps
	}
	return result, nil
}

// dependenciesForScope implements DependenciesForScope over any navigator.
func dependenciesForScope(ctx context.Context, nav DependencyNavigator, project Project, scopeName string, maxDepth int, matcher Matcher) (IdentifierSet, error) {
	deps := make(IdentifierSet)
	err := nav.DirectDependencies(ctx, project, scopeName, func(node DependencyNode) bool {
		collectDependencies(node, maxDepth, matcher, deps)
		return true
	})
	if err != nil {
		return nil, err
	}
	return deps, nil
}

// projectDependencies implements ProjectDependencies over any navigator.
func projectDependencies(ctx context.Context, nav DependencyNavigator, project Project, maxDepth int, matcher Matcher) (IdentifierSet, error) {
	perScope, err := nav.ScopeDependencies(ctx, project, maxDepth, matcher)
	if err != nil {
		return nil, err
	}
	union := make(IdentifierSet)
	for _, deps := range perScope {
		union.Union(deps)
	}
	return union, nil
}

// packageDependencies implements PackageDependencies over any navigator.
// It traverses every scope tree in full, collecting the bounded, matched
// dependencies below each occurrence of packageID.
func packageDependencies(ctx context.Context, nav DependencyNavigator, project Project, packageID Identifier, maxDepth int, matcher Matcher) (IdentifierSet, error) {
	deps := make(IdentifierSet)

	var traverse func(node DependencyNode) bool
	traverse = func(node DependencyNode) bool {
		if node.ID() == packageID {
			node.VisitDependencies(func(child DependencyNode) bool {
				collectDependencies(child, maxDepth, matcher, deps)
				return true
			})
		}
		node.VisitDependencies(traverse)
		return true
	}

	for _, scopeName := range nav.ScopeNames(project) {
		if err := nav.DirectDependencies(ctx, project, scopeName, traverse); err != nil {
			return nil, err
		}
	}
	return deps, nil
}

// collectSubProjects implements CollectSubProjects over any navigator.
func collectSubProjects(ctx context.Context, nav DependencyNavigator, project Project) (IdentifierSet, error) {
	return nav.ProjectDependencies(ctx, project, -1, MatchSubProjects)
}

// dependencyTreeDepth implements DependencyTreeDepth over any navigator.
func dependencyTreeDepth(ctx context.Context, nav DependencyNavigator, project Project, scopeName string) (int, error) {
	deepest := 0
	err := nav.DirectDependencies(ctx, project, scopeName, func(node DependencyNode) bool {
		if d := nodeDepth(node); d > deepest {
			deepest = d
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	return deepest, nil
}

// nodeDepth returns the length of the longest chain from node to a leaf,
// counting node itself.
func nodeDepth(node DependencyNode) int {
	deepest := 0
	node.VisitDependencies(func(child DependencyNode) bool {
		if d := nodeDepth(child); d > deepest {
			deepest = d
		}
		return true
	})
	return deepest + 1
}
