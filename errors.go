// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package depnav provides the shared dependency graph model and its
// navigation layer for software composition analysis results.
//
// A package-manager analyzer resolves a project's dependencies and encodes
// them as a DependencyGraph: an ordered package catalog, a forest of
// reference nodes with structural sharing across scopes, and a scope map
// addressing root occurrences by (catalog index, fragment) pairs. The
// navigation layer (DependencyNavigator and its implementations) exposes
// these compact graphs to consumers as ordinary tree traversals, bounded
// dependency queries, shortest-path lookups, and sub-project detection.
//
// # Ownership Model
//
// The navigator borrows graphs but does NOT own them:
//   - Graphs MUST NOT be mutated after being handed to a navigator
//   - Reference nodes are never copied during traversal; only lightweight
//     cursor views over them are created
//   - Derived resolution indexes are owned by the navigator
//
// # Thread Safety
//
// DependencyGraph is immutable after construction and safe for concurrent
// reads. GraphNavigator builds its per-graph resolution index lazily behind
// a once guard, so concurrent first use is safe; all racing callers observe
// the same completed index. Beyond that single initialization point every
// operation is a pure read.
//
// # Error Model
//
// All failures in this package indicate an inconsistent or malformed
// upstream graph (a missing graph for a manager, an unresolvable root, a
// shortest-path invariant violation). None of them are transient and none
// should be retried; they propagate immediately with the offending manager,
// index, fragment, or identifier in the message. Empty results are valid
// outcomes, never errors.
package depnav

import "errors"

// Sentinel errors for graph navigation operations.
var (
	// ErrInvalidGraph is returned when a dependency graph fails structural
	// validation at construction: a reference or scope root pointing outside
	// the package catalog.
	ErrInvalidGraph = errors.New("invalid dependency graph")

	// ErrNoGraph is returned when a project's package manager has no
	// dependency graph registered with the navigator. A graph with an empty
	// package catalog is reported the same way, since it cannot resolve any
	// root.
	ErrNoGraph = errors.New("no dependency graph for package manager")

	// ErrUnresolvedReference is returned when a (catalog index, fragment)
	// pair has no matching reference node in the resolution index. This
	// signals graph corruption: a root or edge pointing at a fragment that
	// was never materialized.
	ErrUnresolvedReference = errors.New("unresolved dependency reference")

	// ErrPathInvariant is returned when shortest-path traversal terminates
	// with identifiers still pending. The scope dependency set and the
	// traversal disagree, which is structurally impossible for a well-formed
	// graph.
	ErrPathInvariant = errors.New("shortest path invariant violated")
)
