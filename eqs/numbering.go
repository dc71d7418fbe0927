// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqs

import (
	"github.com/cpmech/gosl/chk"
)

// Constrained is the equation number of a constrained (fixed) DOF
const Constrained = -1

// Numbering maps DOFs to equation numbers
type Numbering struct {
	Neq    int   // number of equations
	Dof2eq []int // [ndof] equation number or Constrained
	Order  []int // order of vertices used to assign equations
	Ncomps int   // number of connected components of the graph
}

// Number assigns dense equation numbers to free DOFs
//  Input:
//   nb     -- numberer
//   g      -- graph of DOF groups
//   groups -- [nverts] DOFs of each vertex
//   fixed  -- [ndof] constrained DOFs
//  Note: a disconnected graph is not an error; Ncomps > 1 is reported to the caller
func Number(nb Numberer, g *Graph, groups [][]int, fixed []bool) (o *Numbering, err error) {

	// check input
	if nb == nil || g == nil {
		return nil, chk.Err("numberer and graph must be given")
	}
	if len(groups) != g.Nverts() {
		return nil, chk.Err("number of DOF groups (%d) must be equal to the number of vertices (%d)", len(groups), g.Nverts())
	}

	// order of vertices
	order, err := nb.Order(g)
	if err != nil {
		return nil, chk.Err("cannot compute order of vertices:\n%v", err)
	}
	seen := make([]bool, g.Nverts())
	for _, v := range order {
		if v < 0 || v >= g.Nverts() || seen[v] {
			return nil, chk.Err("numberer returned an invalid permutation")
		}
		seen[v] = true
	}
	if len(order) != g.Nverts() {
		return nil, chk.Err("numberer returned %d vertices instead of %d", len(order), g.Nverts())
	}

	// equations
	o = &Numbering{Dof2eq: make([]int, len(fixed)), Order: order}
	for i := range o.Dof2eq {
		o.Dof2eq[i] = Constrained
	}
	for _, v := range order {
		for _, dof := range groups[v] {
			if dof < 0 || dof >= len(fixed) {
				return nil, chk.Err("vertex %d has invalid DOF %d", v, dof)
			}
			if fixed[dof] || o.Dof2eq[dof] != Constrained {
				continue
			}
			o.Dof2eq[dof] = o.Neq
			o.Neq++
		}
	}
	if o.Neq == 0 {
		return nil, chk.Err("there are no free degrees of freedom")
	}
	o.Ncomps = len(g.Components())
	return
}

// Scatter returns the equation numbers of a list of DOFs
func (o *Numbering) Scatter(dofs []int) (idx []int) {
	idx = make([]int, len(dofs))
	for i, dof := range dofs {
		idx[i] = o.Dof2eq[dof]
	}
	return
}

// Heights returns the skyline height of each column; i.e. the distance from the diagonal to
// the first non-zero entry above it. conn holds the equations of each entity
func Heights(neq int, conn [][]int) (h []int) {
	h = make([]int, neq)
	for _, eqs := range conn {
		lo := -1
		for _, i := range eqs {
			if i >= 0 && (lo < 0 || i < lo) {
				lo = i
			}
		}
		for _, j := range eqs {
			if j >= 0 && j-lo > h[j] {
				h[j] = j - lo
			}
		}
	}
	return
}

// Bandwidth returns the half bandwidth; i.e. the largest |i-j| over all couplings
func Bandwidth(conn [][]int) (hb int) {
	for _, eqs := range conn {
		lo, hi := -1, -1
		for _, i := range eqs {
			if i < 0 {
				continue
			}
			if lo < 0 || i < lo {
				lo = i
			}
			if i > hi {
				hi = i
			}
		}
		if hi-lo > hb {
			hb = hi - lo
		}
	}
	return
}

// Profile returns the sum of skyline heights
func Profile(neq int, conn [][]int) (p int) {
	for _, h := range Heights(neq, conn) {
		p += h
	}
	return
}
