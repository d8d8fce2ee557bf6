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
	"log/slog"
	"time"
)

// ReferenceIndex maps a catalog index to the reference nodes occurring
// under that index across all fragments reachable from any scope root.
//
// The index is derived from an immutable graph and is read-only after
// construction. Buckets may contain the same node more than once when it is
// reached via multiple parents; resolution selects by fragment, never by
// position.
type ReferenceIndex struct {
	// buckets is indexed by catalog index.
	buckets [][]*DependencyReference

	// size is the total number of bucket entries.
	size int
}

// NewReferenceIndex builds the resolution index for g by walking every
// child link from every forest root.
//
// The walk visits a node once per reaching path. This is intentional: it
// guarantees the bucket for a package contains an entry for every fragment
// value that actually appears, at the cost of duplicates for nodes shared
// between parents with the same fragment.
func NewReferenceIndex(g *DependencyGraph) *ReferenceIndex {
	start := time.Now()

	ix := &ReferenceIndex{
		buckets: make([][]*DependencyReference, len(g.Packages)),
	}

	var collect func(ref *DependencyReference)
	collect = func(ref *DependencyReference) {
		ix.buckets[ref.Package] = append(ix.buckets[ref.Package], ref)
		ix.size++
		for _, dep := range ref.Dependencies {
			collect(dep)
		}
	}
	for _, root := range g.Roots {
		collect(root)
	}

	slog.Debug("built dependency reference resolution index",
		slog.Int("packages", len(g.Packages)),
		slog.Int("references", ix.size),
		slog.Duration("duration", time.Since(start)),
	)

	return ix
}

// Size returns the total number of reference entries collected, duplicates
// included.
func (ix *ReferenceIndex) Size() int {
	return ix.size
}

// Resolve returns the reference node owning the given (catalog index,
// fragment) pair.
//
// A pair with no matching node signals graph corruption upstream of this
// package and is reported as an ErrUnresolvedReference error naming the
// pair; it must not be retried.
func (ix *ReferenceIndex) Resolve(pkg, fragment int) (*DependencyReference, error) {
	if pkg < 0 || pkg >= len(ix.buckets) {
		return nil, fmt.Errorf("package index %d outside catalog of %d packages: %w",
			pkg, len(ix.buckets), ErrUnresolvedReference)
	}

	for _, ref := range ix.buckets[pkg] {
		if ref.Fragment == fragment {
			return ref, nil
		}
	}

	return nil, fmt.Errorf("no reference for package index %d fragment %d: %w",
		pkg, fragment, ErrUnresolvedReference)
}

// References returns the bucket for a catalog index. The returned slice is
// owned by the index and must not be modified. Callers must tolerate
// duplicate entries.
func (ix *ReferenceIndex) References(pkg int) []*DependencyReference {
	if pkg < 0 || pkg >= len(ix.buckets) {
		return nil
	}
	return ix.buckets[pkg]
}
