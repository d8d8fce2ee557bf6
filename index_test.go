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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReferenceIndex_Resolve verifies every (index, fragment) pair in a
// simple chain resolves to the owning reference.
func TestReferenceIndex_Resolve(t *testing.T) {
	g, _ := makeLinearGraph(t)
	ix := NewReferenceIndex(g)

	for pkg := 0; pkg < 3; pkg++ {
		ref, err := ix.Resolve(pkg, 0)
		require.NoError(t, err)
		assert.Equal(t, pkg, ref.Package)
	}
}

// TestReferenceIndex_ResolveByFragment verifies resolution selects by
// fragment, not by bucket position.
func TestReferenceIndex_ResolveByFragment(t *testing.T) {
	g, _, _ := makeFragmentGraph(t)
	ix := NewReferenceIndex(g)

	x0, err := ix.Resolve(2, 0)
	require.NoError(t, err)
	x1, err := ix.Resolve(2, 1)
	require.NoError(t, err)

	assert.NotSame(t, x0, x1, "fragments are distinct physical nodes")
	assert.Equal(t, 0, x0.Fragment)
	assert.Equal(t, 1, x1.Fragment)
	assert.NotEqual(t, x0.Dependencies[0].Package, x1.Dependencies[0].Package,
		"the fragments carry different subtrees")
}

// TestReferenceIndex_MissingFragment verifies resolving a fragment that was
// never materialized fails fatally, naming the pair.
func TestReferenceIndex_MissingFragment(t *testing.T) {
	g, _ := makeLinearGraph(t)
	ix := NewReferenceIndex(g)

	_, err := ix.Resolve(1, 7)
	require.ErrorIs(t, err, ErrUnresolvedReference)
	assert.Contains(t, err.Error(), "index 1")
	assert.Contains(t, err.Error(), "fragment 7")
}

// TestReferenceIndex_IndexOutOfRange verifies catalog bounds are enforced.
func TestReferenceIndex_IndexOutOfRange(t *testing.T) {
	g, _ := makeLinearGraph(t)
	ix := NewReferenceIndex(g)

	_, err := ix.Resolve(99, 0)
	require.ErrorIs(t, err, ErrUnresolvedReference)

	_, err = ix.Resolve(-1, 0)
	require.ErrorIs(t, err, ErrUnresolvedReference)
}

// TestReferenceIndex_SharedNodeDuplicates verifies a node reachable via two
// parents appears once per reaching path and that callers select by
// fragment rather than position.
func TestReferenceIndex_SharedNodeDuplicates(t *testing.T) {
	g, _ := makeDiamondGraph(t)
	ix := NewReferenceIndex(g)

	bucket := ix.References(3)
	require.Len(t, bucket, 2, "d is reached via a and via c")
	assert.Same(t, bucket[0], bucket[1], "both entries are the same physical node")

	ref, err := ix.Resolve(3, 0)
	require.NoError(t, err)
	assert.Same(t, bucket[0], ref)
}

// TestReferenceIndex_Size verifies the entry count includes duplicates.
func TestReferenceIndex_Size(t *testing.T) {
	linear, _ := makeLinearGraph(t)
	assert.Equal(t, 3, NewReferenceIndex(linear).Size())

	diamond, _ := makeDiamondGraph(t)
	assert.Equal(t, 5, NewReferenceIndex(diamond).Size(), "the shared node is counted per path")
}

// TestReferenceIndex_ReferencesOutOfRange verifies bucket access outside
// the catalog returns nothing.
func TestReferenceIndex_ReferencesOutOfRange(t *testing.T) {
	g, _ := makeLinearGraph(t)
	ix := NewReferenceIndex(g)

	assert.Nil(t, ix.References(-1))
	assert.Nil(t, ix.References(42))
}
