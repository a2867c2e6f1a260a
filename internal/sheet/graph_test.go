package sheet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const graphTestCols = 10

func childSet(g *Graph, parent CellKey) map[CellKey]struct{} {
	out := make(map[CellKey]struct{})
	for c := range g.ChildrenOf(parent) {
		out[c] = struct{}{}
	}
	return out
}

func TestGraphSingleEdge(t *testing.T) {
	g := NewGraph(graphTestCols)
	a := Key(0, 0, graphTestCols)
	b := Key(1, 1, graphTestCols)

	g.AddSingleEdge(a, b)
	require.Contains(t, childSet(g, a), b)

	g.RemoveAllParentsOf(b)
	require.NotContains(t, childSet(g, a), b)
}

func TestGraphRangeEdgeContainment(t *testing.T) {
	g := NewGraph(graphTestCols)
	sum := Key(5, 5, graphTestCols)

	// range A1:C3 feeds sum
	g.AddRangeEdge(0, 0, 2, 2, sum)

	inside := Key(1, 1, graphTestCols)
	outside := Key(3, 3, graphTestCols)

	require.Contains(t, childSet(g, inside), sum)
	require.NotContains(t, childSet(g, outside), sum)
}

func TestGraphRemoveAllParentsOfClearsRangeEdges(t *testing.T) {
	g := NewGraph(graphTestCols)
	sum := Key(5, 5, graphTestCols)
	inside := Key(1, 1, graphTestCols)

	g.AddRangeEdge(0, 0, 2, 2, sum)
	require.Contains(t, childSet(g, inside), sum)

	g.RemoveAllParentsOf(sum)
	require.NotContains(t, childSet(g, inside), sum)
	require.Empty(t, g.ranges)
	require.Empty(t, g.rangesByChild)
}

func TestGraphAffectedSetTransitive(t *testing.T) {
	g := NewGraph(graphTestCols)
	a := Key(0, 0, graphTestCols)
	b := Key(0, 1, graphTestCols)
	c := Key(0, 2, graphTestCols)

	g.AddSingleEdge(a, b)
	g.AddSingleEdge(b, c)

	affected := g.AffectedSet(a)
	require.Contains(t, affected, b)
	require.Contains(t, affected, c)
	require.NotContains(t, affected, a)
}

func TestGraphAffectedSetEmptyWhenNoChildren(t *testing.T) {
	g := NewGraph(graphTestCols)
	a := Key(0, 0, graphTestCols)
	require.Empty(t, g.AffectedSet(a))
}
