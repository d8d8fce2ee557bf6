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

// DependencyNode is an ephemeral view over one dependency occurrence during
// traversal. It does not own graph data.
//
// # Aliasing Contract
//
// Nodes passed to visit callbacks are ALIASED: the traversal reuses a single
// cursor object and only repositions it between siblings, so that walking a
// fan-out of thousands of nodes allocates no per-node wrappers. A node is
// therefore only valid for the duration of the callback invocation that
// received it. A caller that stores a node and reads its fields after the
// traversal has advanced will observe a different, wrong occurrence.
//
// Callers that must retain a node call StableReference, which returns a
// view pinned to exactly one occurrence. Stable references are safe to
// retain indefinitely.
type DependencyNode interface {
	// ID returns the identifier of the package this occurrence resolves to.
	ID() Identifier

	// Linkage returns the occurrence's linkage classification.
	Linkage() Linkage

	// Issues returns the problems encountered resolving this occurrence.
	// The returned slice is owned by the graph and must not be modified.
	Issues() []Issue

	// VisitDependencies invokes visit for each direct dependency of this
	// occurrence, in declared order, until visit returns false. The visited
	// nodes are subject to the aliasing contract above.
	VisitDependencies(visit func(DependencyNode) bool)

	// StableReference returns a view of the current occurrence that is not
	// repositioned by further traversal.
	StableReference() DependencyNode
}

// refCursor presents reference nodes of one graph as DependencyNode views.
// A single cursor walks a whole sibling list; see the aliasing contract on
// DependencyNode. A cursor created by StableReference has no sibling list
// and never moves.
type refCursor struct {
	graph   *DependencyGraph
	current *DependencyReference
}

// ID implements DependencyNode.
func (c *refCursor) ID() Identifier {
	return c.graph.Packages[c.current.Package]
}

// Linkage implements DependencyNode.
func (c *refCursor) Linkage() Linkage {
	return c.current.Linkage
}

// Issues implements DependencyNode.
func (c *refCursor) Issues() []Issue {
	return c.current.Issues
}

// VisitDependencies implements DependencyNode. The child sequence reuses
// one cursor scoped to this call.
func (c *refCursor) VisitDependencies(visit func(DependencyNode) bool) {
	visitReferences(c.graph, c.current.Dependencies, visit)
}

// StableReference implements DependencyNode.
func (c *refCursor) StableReference() DependencyNode {
	return &refCursor{graph: c.graph, current: c.current}
}

// visitReferences walks a sibling list of reference nodes, yielding each
// through a single repositioned cursor until visit returns false.
func visitReferences(g *DependencyGraph, refs []*DependencyReference, visit func(DependencyNode) bool) {
	cursor := &refCursor{graph: g}
	for _, ref := range refs {
		cursor.current = ref
		if !visit(cursor) {
			return
		}
	}
}
