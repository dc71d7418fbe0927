// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package eqs implements the numbering of equations and the graph of DOF groups
package eqs

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Graph holds the connectivity of DOF groups (vertices). Two vertices are adjacent if they
// appear together in at least one element
type Graph struct {
	g *simple.UndirectedGraph
	n int
}

// NewGraph returns a graph with nverts vertices and no edges
func NewGraph(nverts int) (o *Graph) {
	o = &Graph{g: simple.NewUndirectedGraph(), n: nverts}
	for i := 0; i < nverts; i++ {
		o.g.AddNode(simple.Node(i))
	}
	return
}

// Nverts returns the number of vertices
func (o *Graph) Nverts() int { return o.n }

// Connect connects all pairs of vertices in verts. Repeated vertices are ignored
func (o *Graph) Connect(verts []int) {
	for i, a := range verts {
		for _, b := range verts[i+1:] {
			if a == b || o.g.HasEdgeBetween(int64(a), int64(b)) {
				continue
			}
			o.g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
		}
	}
}

// Degree returns the number of vertices adjacent to v
func (o *Graph) Degree(v int) int {
	return o.g.From(int64(v)).Len()
}

// Adjacent returns the vertices adjacent to v in increasing order
func (o *Graph) Adjacent(v int) (res []int) {
	for _, n := range graph.NodesOf(o.g.From(int64(v))) {
		res = append(res, int(n.ID()))
	}
	sort.Ints(res)
	return
}

// Components returns the connected components, each one sorted and the list sorted by the
// smallest vertex of each component
func (o *Graph) Components() (res [][]int) {
	for _, c := range topo.ConnectedComponents(o.g) {
		comp := make([]int, len(c))
		for i, n := range c {
			comp[i] = int(n.ID())
		}
		sort.Ints(comp)
		res = append(res, comp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i][0] < res[j][0] })
	return
}
