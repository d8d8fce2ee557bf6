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
)

// shortestPaths implements ShortestPaths over any navigator.
//
// For every scope it first computes the unrestricted dependency set, then
// runs a breadth-first exploration from the scope's direct dependencies.
// BFS order guarantees the first dequeue of an identifier carries a
// minimal-hop parent chain.
func shortestPaths(ctx context.Context, nav DependencyNavigator, project Project) (map[string]map[Identifier][]Identifier, error) {
	expected, err := nav.ScopeDependencies(ctx, project, -1, MatchAll)
	if err != nil {
		return nil, err
	}

	result := make(map[string]map[Identifier][]Identifier, len(expected))
	for scopeName, ids := range expected {
		paths, err := shortestPathsForScope(ctx, nav, project, scopeName, ids)
		if err != nil {
			return nil, err
		}
		result[scopeName] = paths
	}
	return result, nil
}

// pathQueueItem is one BFS frontier entry: a retained node plus the chain
// of parent identifiers leading to it from the scope root.
type pathQueueItem struct {
	node  DependencyNode
	chain []Identifier
}

// shortestPathsForScope runs the per-scope BFS. Every identifier in
// expected must be reached; anything left pending is a fatal consistency
// failure (the dependency set and the traversal disagree).
func shortestPathsForScope(ctx context.Context, nav DependencyNavigator, project Project, scopeName string, expected IdentifierSet) (map[Identifier][]Identifier, error) {
	paths := make(map[Identifier][]Identifier, len(expected))
	pending := expected.Clone()

	var queue []pathQueueItem
	err := nav.DirectDependencies(ctx, project, scopeName, func(node DependencyNode) bool {
		// Queue entries outlive the visit callback, so pin the node.
		queue = append(queue, pathQueueItem{node: node.StableReference()})
		return true
	})
	if err != nil {
		return nil, err
	}

	for len(queue) > 0 && len(pending) > 0 {
		item := queue[0]
		queue = queue[1:]

		id := item.node.ID()
		if pending.Contains(id) {
			delete(pending, id)
			paths[id] = item.chain
		}

		childChain := make([]Identifier, len(item.chain)+1)
		copy(childChain, item.chain)
		childChain[len(item.chain)] = id

		item.node.VisitDependencies(func(child DependencyNode) bool {
			queue = append(queue, pathQueueItem{node: child.StableReference(), chain: childChain})
			return true
		})
	}

	if len(pending) > 0 {
		return nil, fmt.Errorf("scope %q of project %s: %d identifiers never reached by traversal, first %s: %w",
			scopeName, project.ID, len(pending), pending.Sorted()[0], ErrPathInvariant)
	}
	return paths, nil
}
