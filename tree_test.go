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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeLinearTree builds the legacy-model counterpart of makeLinearGraph.
func makeLinearTree(t *testing.T) (*TreeNavigator, Project) {
	t.Helper()
	project := testProject("compile")

	tree := []Scope{{
		Name: "compile",
		Dependencies: []*PackageReference{{
			ID: idA,
			Dependencies: []*PackageReference{{
				ID:           idB,
				Dependencies: []*PackageReference{{ID: idC}},
			}},
		}},
	}}
	return NewTreeNavigator(map[Identifier][]Scope{project.ID: tree}), project
}

// TestTreeNavigator_ScopeNames verifies names come from the stored trees.
func TestTreeNavigator_ScopeNames(t *testing.T) {
	nav, project := makeLinearTree(t)
	assert.Equal(t, []string{"compile"}, nav.ScopeNames(project))
}

// TestTreeNavigator_MatchesGraphNavigator verifies callers written against
// DependencyNavigator observe the same results over either backing
// representation.
func TestTreeNavigator_MatchesGraphNavigator(t *testing.T) {
	treeNav, project := makeLinearTree(t)
	g, _ := makeLinearGraph(t)
	graphNav := navigatorOver(g)
	ctx := context.Background()

	for _, maxDepth := range []int{-1, 0, 1, 2, 3} {
		fromTree, err := treeNav.ScopeDependencies(ctx, project, maxDepth, MatchAll)
		require.NoError(t, err)
		fromGraph, err := graphNav.ScopeDependencies(ctx, project, maxDepth, MatchAll)
		require.NoError(t, err)
		assert.Equal(t, fromGraph, fromTree, "maxDepth %d", maxDepth)
	}

	treePaths, err := treeNav.ShortestPaths(ctx, project)
	require.NoError(t, err)
	graphPaths, err := graphNav.ShortestPaths(ctx, project)
	require.NoError(t, err)
	assert.Equal(t, graphPaths, treePaths)

	treeDepth, err := treeNav.DependencyTreeDepth(ctx, project, "compile")
	require.NoError(t, err)
	assert.Equal(t, 3, treeDepth)
}

// TestTreeNavigator_CollectSubProjects verifies sub-project detection over
// the legacy model.
func TestTreeNavigator_CollectSubProjects(t *testing.T) {
	project := testProject("compile")
	tree := []Scope{{
		Name: "compile",
		Dependencies: []*PackageReference{
			{ID: idA, Linkage: LinkageDynamic},
			{ID: idB, Linkage: LinkageProjectStatic},
			{ID: idC, Linkage: LinkageStatic},
		},
	}}
	nav := NewTreeNavigator(map[Identifier][]Scope{project.ID: tree})

	subProjects, err := nav.CollectSubProjects(context.Background(), project)
	require.NoError(t, err)
	assert.Equal(t, []Identifier{idB}, subProjects.Sorted())
}

// TestTreeNavigator_UnknownProject verifies a project without stored trees
// fails the same way as a missing graph.
func TestTreeNavigator_UnknownProject(t *testing.T) {
	nav, _ := makeLinearTree(t)

	unknown := Project{ID: NewIdentifier("Maven", "org.example", "ghost", "1.0.0")}
	_, err := nav.ScopeDependencies(context.Background(), unknown, -1, MatchAll)
	require.ErrorIs(t, err, ErrNoGraph)
	assert.Nil(t, nav.ScopeNames(unknown))
}

// TestTreeNavigator_Aliasing verifies the tree cursor honors the same
// aliasing contract as the graph cursor.
func TestTreeNavigator_Aliasing(t *testing.T) {
	project := testProject("compile")
	tree := []Scope{{
		Name: "compile",
		Dependencies: []*PackageReference{
			{ID: idA},
			{ID: idB},
		},
	}}
	nav := NewTreeNavigator(map[Identifier][]Scope{project.ID: tree})

	var retained []DependencyNode
	var pinned []DependencyNode
	err := nav.DirectDependencies(context.Background(), project, "compile", func(node DependencyNode) bool {
		retained = append(retained, node)
		pinned = append(pinned, node.StableReference())
		return true
	})
	require.NoError(t, err)

	assert.Same(t, retained[0], retained[1])
	assert.Equal(t, idB, retained[0].ID(), "aliased node reports the last sibling")
	assert.Equal(t, idA, pinned[0].ID(), "stable reference stays pinned")
	assert.Equal(t, idB, pinned[1].ID())
}
