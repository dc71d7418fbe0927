// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqs

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Numberer computes the order in which the vertices of a graph receive equations
type Numberer interface {
	Order(g *Graph) (order []int, err error) // order[k] is the k-th vertex to be numbered
}

// numberers holds all available numberers
var numberers = make(map[string]func() Numberer)

// set factory
func init() {
	numberers["plain"] = func() Numberer { return new(Plain) }
	numberers["rcm"] = func() Numberer { return new(RCM) }
}

// New returns a numberer by name; e.g. "plain" or "rcm"
func New(name string) (Numberer, error) {
	if alloc, ok := numberers[name]; ok {
		return alloc(), nil
	}
	return nil, chk.Err("cannot find numberer named %q. options are {plain, rcm}", name)
}

// Plain numbers vertices in the order they were created
type Plain struct{}

// Order returns 0, 1, ..., nverts-1
func (o *Plain) Order(g *Graph) ([]int, error) {
	return utl.IntRange(g.Nverts()), nil
}

// RCM implements the reverse Cuthill-McKee ordering. Each connected component starts at a
// pseudo-peripheral vertex; neighbours are visited by increasing degree (ties by id)
type RCM struct{}

// Order computes the ordering
func (o *RCM) Order(g *Graph) (order []int, err error) {
	visited := make([]bool, g.Nverts())
	for _, comp := range g.Components() {
		start := o.peripheral(g, comp)
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			order = append(order, v)
			next := make([]int, 0)
			for _, w := range g.Adjacent(v) {
				if !visited[w] {
					visited[w] = true
					next = append(next, w)
				}
			}
			sort.SliceStable(next, func(i, j int) bool {
				di, dj := g.Degree(next[i]), g.Degree(next[j])
				if di == dj {
					return next[i] < next[j]
				}
				return di < dj
			})
			queue = append(queue, next...)
		}
	}
	if len(order) != g.Nverts() {
		return nil, chk.Err("rcm: ordering has %d vertices but graph has %d", len(order), g.Nverts())
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return
}

// peripheral finds a pseudo-peripheral vertex of comp by repeated level structures
func (o *RCM) peripheral(g *Graph, comp []int) int {
	start := comp[0]
	for _, v := range comp {
		if g.Degree(v) < g.Degree(start) {
			start = v
		}
	}
	ecc, last := levels(g, start)
	for {
		cand := last[0]
		for _, v := range last {
			if g.Degree(v) < g.Degree(cand) {
				cand = v
			}
		}
		e, l := levels(g, cand)
		if e <= ecc {
			return start
		}
		start, ecc, last = cand, e, l
	}
}

// levels returns the eccentricity of v and the vertices in its last level
func levels(g *Graph, v int) (ecc int, last []int) {
	var bf traverse.BreadthFirst
	bf.Walk(g.g, simple.Node(v), func(n graph.Node, d int) bool {
		if d > ecc {
			ecc = d
			last = last[:0]
		}
		last = append(last, int(n.ID()))
		return false
	})
	sort.Ints(last)
	return
}
