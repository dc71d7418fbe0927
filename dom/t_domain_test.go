// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/eqs"
)

// bar is a linear bar with one internal variable that records the last updated elongation
type bar struct {
	id          int
	nodes, dofs []int
	δ, δc       float64
}

func (o *bar) Id() int       { return o.id }
func (o *bar) Nodes() []int  { return o.nodes }
func (o *bar) Dofs() []int   { return o.dofs }
func (o *bar) Commit() error { o.δc = o.δ; return nil }
func (o *bar) Revert() error { o.δ = o.δc; return nil }

func (o *bar) Update(st *State) error {
	o.δ = st.U[o.dofs[1]] - st.U[o.dofs[0]]
	return nil
}

func (o *bar) Tangent(K *la.Matrix, st *State) error {
	K.Set(0, 0, 1)
	K.Set(0, 1, -1)
	K.Set(1, 0, -1)
	K.Set(1, 1, 1)
	return nil
}

func (o *bar) Residual(f []float64, st *State) error {
	δ := st.U[o.dofs[1]] - st.U[o.dofs[0]]
	f[0], f[1] = -δ, δ
	return nil
}

// threeNodes returns 0 --- 1 --- 2 with 2 DOFs per node and node 0 fixed
func threeNodes(tst *testing.T) (d *Domain) {
	d = New()
	for i := 0; i < 3; i++ {
		d.AddNode(2)
	}
	d.AddElement(&bar{id: 0, nodes: []int{0, 1}, dofs: []int{0, 2}})
	d.AddElement(&bar{id: 1, nodes: []int{1, 2}, dofs: []int{2, 4}})
	d.Fix(0, 1)
	nb, _ := eqs.New("plain")
	if _, err := d.Number(nb); err != nil {
		tst.Errorf("Number failed:\n%v", err)
		return nil
	}
	return
}

func Test_domain01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain01. numbering and element equations")

	d := threeNodes(tst)
	if d == nil {
		return
	}
	chk.Int(tst, "ndof", d.Ndof(), 6)
	chk.Int(tst, "neq", d.Neq(), 4)
	chk.Ints(tst, "eqs of elem 0", d.ElemEqs(0), []int{-1, 0})
	chk.Ints(tst, "eqs of elem 1", d.ElemEqs(1), []int{0, 2})
	if d.Changed() {
		tst.Errorf("domain must not be flagged as changed after numbering")
	}

	// topology changes
	d.AddNode(1)
	if !d.Changed() {
		tst.Errorf("domain must be flagged as changed after AddNode")
	}

	// invalid input
	if err := d.Fix(100); err == nil {
		tst.Errorf("fixing an invalid DOF must fail")
	}
	if err := d.AddElement(&bar{nodes: []int{0, 9}, dofs: []int{0, 1}}); err == nil {
		tst.Errorf("element with invalid node must fail")
	}
	if err := d.AddPattern(&LoadPattern{Dofs: []int{1}, Vals: nil}); err == nil {
		tst.Errorf("inconsistent pattern must fail")
	}
}

func Test_domain02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain02. loads, commit and revert")

	d := threeNodes(tst)
	if d == nil {
		return
	}

	// loads: linear pattern and constant pattern
	cte := dbf.New("cte", dbf.Params{&dbf.P{N: "c", V: 2}})
	d.AddPattern(&LoadPattern{Name: "lin", Dofs: []int{4}, Vals: []float64{10}})
	d.AddPattern(&LoadPattern{Name: "cte", Func: cte, Dofs: []int{4, 1}, Vals: []float64{1, 5}})
	P := make([]float64, d.Neq())
	d.ExternalLoad(P, 0.5)
	chk.Array(tst, "P", 1e-15, P, []float64{0, 0, 7, 0})
	q := make([]float64, d.Neq())
	d.ReferenceLoad(q, 0.5)
	chk.Array(tst, "q", 1e-15, q, []float64{0, 0, 10, 0})

	// trial state
	d.IncrTrialU([]float64{1, 2, 3, 4}, 0.5)
	chk.Array(tst, "U", 1e-15, d.Trial.U, []float64{0, 0, 0.5, 1, 1.5, 2})
	if err := d.Update(); err != nil {
		tst.Errorf("%v", err)
		return
	}
	b := d.Elems[1].(*bar)
	chk.Float64(tst, "δ", 1e-15, b.δ, 1)

	// revert
	d.Revert()
	chk.Array(tst, "U after revert", 1e-15, d.Trial.U, make([]float64, 6))
	chk.Float64(tst, "δ after revert", 1e-15, b.δ, 0)

	// commit
	d.IncrTrialU([]float64{1, 2, 3, 4}, 1)
	d.Update()
	d.Commit()
	d.IncrTrialU([]float64{1, 1, 1, 1}, 1)
	d.Revert()
	chk.Array(tst, "U after commit", 1e-15, d.Committed.U, []float64{0, 0, 1, 2, 3, 4})
	chk.Array(tst, "U reverted", 1e-15, d.Trial.U, []float64{0, 0, 1, 2, 3, 4})
	chk.Float64(tst, "δ committed", 1e-15, b.δ, 2)

	// gather
	dst := make([]float64, 4)
	d.Gather(dst, d.Trial.U)
	chk.Array(tst, "gather", 1e-15, dst, []float64{1, 2, 3, 4})
}
