// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"github.com/cpmech/gosl/chk"
	"github.com/xcfem/xc-sub035/eqs"
)

// Domain holds nodes, elements, constraints, loads and the state of all DOFs.
// Trial is modified during iterations; Committed holds the last converged state
type Domain struct {

	// model
	Nodes    []*Node        // all nodes
	Elems    []Element      // all elements
	Patterns []*LoadPattern // load patterns
	Fixed    []bool         // [ndof] constrained DOFs

	// Rayleigh damping: C = αM⋅M + βK⋅K
	AlphaM float64
	BetaK  float64

	// state
	Trial     *State // current state
	Committed *State // last converged state

	// equations
	Num     *eqs.Numbering // numbering of equations; nil until Number is called
	elemEqs [][]int        // [nelems] equations of each element
	changed bool           // topology changed since the last numbering
}

// New returns an empty domain
func New() *Domain {
	return &Domain{Trial: new(State), Committed: new(State), changed: true}
}

// Ndof returns the number of DOFs
func (o *Domain) Ndof() int { return len(o.Fixed) }

// Changed tells whether equations must be numbered again
func (o *Domain) Changed() bool { return o.changed }

// AddNode adds a node with ndof new DOFs
func (o *Domain) AddNode(ndof int) (n *Node) {
	n = &Node{Id: len(o.Nodes)}
	for i := 0; i < ndof; i++ {
		n.Dofs = append(n.Dofs, len(o.Fixed))
		o.Fixed = append(o.Fixed, false)
	}
	o.Trial.grow(ndof)
	o.Committed.grow(ndof)
	o.Nodes = append(o.Nodes, n)
	o.changed = true
	return
}

// Fix constrains DOFs
func (o *Domain) Fix(dofs ...int) error {
	for _, dof := range dofs {
		if dof < 0 || dof >= len(o.Fixed) {
			return chk.Err("cannot fix DOF %d: there are %d DOFs", dof, len(o.Fixed))
		}
		o.Fixed[dof] = true
	}
	o.changed = true
	return nil
}

// AddElement adds an element after checking its nodes and DOFs
func (o *Domain) AddElement(e Element) error {
	for _, n := range e.Nodes() {
		if n < 0 || n >= len(o.Nodes) {
			return chk.Err("element %d: node %d does not exist", e.Id(), n)
		}
	}
	for _, dof := range e.Dofs() {
		if dof < 0 || dof >= len(o.Fixed) {
			return chk.Err("element %d: DOF %d does not exist", e.Id(), dof)
		}
	}
	o.Elems = append(o.Elems, e)
	o.changed = true
	return nil
}

// AddPattern adds a load pattern
func (o *Domain) AddPattern(p *LoadPattern) error {
	if len(p.Dofs) != len(p.Vals) {
		return chk.Err("load pattern %q: number of DOFs (%d) and values (%d) differ", p.Name, len(p.Dofs), len(p.Vals))
	}
	for _, dof := range p.Dofs {
		if dof < 0 || dof >= len(o.Fixed) {
			return chk.Err("load pattern %q: DOF %d does not exist", p.Name, dof)
		}
	}
	o.Patterns = append(o.Patterns, p)
	return nil
}

// Graph returns the graph of nodes connected by elements
func (o *Domain) Graph() (g *eqs.Graph) {
	g = eqs.NewGraph(len(o.Nodes))
	for _, e := range o.Elems {
		g.Connect(e.Nodes())
	}
	return
}

// Number numbers the equations and computes the equations of each element
func (o *Domain) Number(nb eqs.Numberer) (num *eqs.Numbering, err error) {
	if len(o.Nodes) == 0 {
		return nil, chk.Err("domain has no nodes")
	}
	groups := make([][]int, len(o.Nodes))
	for i, n := range o.Nodes {
		groups[i] = n.Dofs
	}
	num, err = eqs.Number(nb, o.Graph(), groups, o.Fixed)
	if err != nil {
		return
	}
	o.Num = num
	o.elemEqs = make([][]int, len(o.Elems))
	for k, e := range o.Elems {
		o.elemEqs[k] = num.Scatter(e.Dofs())
	}
	o.changed = false
	return
}

// Conn returns the equations of all elements
func (o *Domain) Conn() [][]int { return o.elemEqs }

// ElemEqs returns the equations of element k
func (o *Domain) ElemEqs(k int) []int { return o.elemEqs[k] }

// Neq returns the number of equations (0 if not numbered)
func (o *Domain) Neq() int {
	if o.Num == nil {
		return 0
	}
	return o.Num.Neq
}

// ExternalLoad sets P with the external forces at t
//  P -- [neq] equation-indexed vector
func (o *Domain) ExternalLoad(P []float64, t float64) {
	o.loads(P, t, false)
}

// ReferenceLoad sets q with the derivative of the external forces w.r.t t
//  q -- [neq] equation-indexed vector
func (o *Domain) ReferenceLoad(q []float64, t float64) {
	o.loads(q, t, true)
}

func (o *Domain) loads(P []float64, t float64, rate bool) {
	for i := range P {
		P[i] = 0
	}
	for _, p := range o.Patterns {
		c := p.Factor(t)
		if rate {
			c = p.Rate(t)
		}
		for k, dof := range p.Dofs {
			if I := o.Num.Dof2eq[dof]; I >= 0 {
				P[I] += c * p.Vals[k]
			}
		}
	}
}

// IncrTrialU adds fact⋅ΔU to the trial displacements; ΔU is equation-indexed
func (o *Domain) IncrTrialU(ΔU []float64, fact float64) {
	for dof, I := range o.Num.Dof2eq {
		if I >= 0 {
			o.Trial.U[dof] += fact * ΔU[I]
		}
	}
}

// Gather copies equation-indexed values from dof-indexed values
func (o *Domain) Gather(dst, src []float64) {
	for dof, I := range o.Num.Dof2eq {
		if I >= 0 {
			dst[I] = src[dof]
		}
	}
}

// Update updates the internal variables of all elements with the trial state
func (o *Domain) Update() (err error) {
	for _, e := range o.Elems {
		err = e.Update(o.Trial)
		if err != nil {
			return chk.Err("cannot update element %d:\n%v", e.Id(), err)
		}
	}
	return
}

// Commit accepts the trial state
func (o *Domain) Commit() (err error) {
	for _, e := range o.Elems {
		err = e.Commit()
		if err != nil {
			return chk.Err("cannot commit element %d:\n%v", e.Id(), err)
		}
	}
	o.Committed.CopyFrom(o.Trial)
	return
}

// Revert restores the last committed state
func (o *Domain) Revert() (err error) {
	for _, e := range o.Elems {
		err = e.Revert()
		if err != nil {
			return chk.Err("cannot revert element %d:\n%v", e.Id(), err)
		}
	}
	o.Trial.CopyFrom(o.Committed)
	return
}
