// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/dom"
)

// VonMises implements the shallow two-bar truss (von Mises truss). Both bars go from fixed
// supports at (±a, 0) to the apex at (0, h). The only DOF is the downward displacement w
// of the apex. Under a downward load P the truss snaps through when w passes the limit point
//
//           P ↓
//             o        ---
//           /   \       | h
//   support o     o    ---
//           |-a-|-a-|
//
type VonMises struct {
	id   int
	node int
	dofs []int
	EA   float64 // axial stiffness of bars
	A    float64 // half span
	H    float64 // rise
	L0   float64 // initial length of bars
}

// NewVonMises returns a new truss
//  prms -- "EA", "a" and "h"
func NewVonMises(id, node, dof int, prms dbf.Params) (o *VonMises, err error) {
	o = &VonMises{id: id, node: node, dofs: []int{dof}}
	err = o.Init(prms)
	if err != nil {
		return nil, err
	}
	return
}

// Init initialises the truss
func (o *VonMises) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "ea":
			o.EA = p.V
		case "a":
			o.A = p.V
		case "h":
			o.H = p.V
		default:
			return chk.Err("vonmises: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.EA <= 0 || o.A <= 0 || o.H <= 0 {
		return chk.Err("vonmises: EA, a and h must be positive. EA=%g a=%g h=%g are invalid", o.EA, o.A, o.H)
	}
	o.L0 = math.Sqrt(o.A*o.A + o.H*o.H)
	return
}

// GetPrms gets (an example) of parameters
func (o VonMises) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "EA", V: 1000},
		&dbf.P{N: "a", V: 1},
		&dbf.P{N: "h", V: 0.5},
	}
}

func (o *VonMises) Id() int                    { return o.id }
func (o *VonMises) Nodes() []int               { return []int{o.node} }
func (o *VonMises) Dofs() []int                { return o.dofs }
func (o *VonMises) Update(st *dom.State) error { return nil }
func (o *VonMises) Commit() error              { return nil }
func (o *VonMises) Revert() error              { return nil }

// Load returns the load P in equilibrium with the displacement w
//  P(w) = -2⋅EA⋅(L - L0)/L0 ⋅ (h - w)/L   with   L = √(a² + (h-w)²)
func (o *VonMises) Load(w float64) float64 {
	s := o.H - w
	L := math.Sqrt(o.A*o.A + s*s)
	return -2 * o.EA * (L - o.L0) / o.L0 * s / L
}

// Stiffness returns dP/dw = 2⋅EA/L0 ⋅ (1 - L0⋅a²/L³)
func (o *VonMises) Stiffness(w float64) float64 {
	s := o.H - w
	L := math.Sqrt(o.A*o.A + s*s)
	return 2 * o.EA / o.L0 * (1 - o.L0*o.A*o.A/(L*L*L))
}

// LimitPoint returns the displacement and load at the first limit point (dP/dw = 0)
func (o *VonMises) LimitPoint() (w, P float64) {
	L := math.Cbrt(o.L0 * o.A * o.A)
	w = o.H - math.Sqrt(L*L-o.A*o.A)
	return w, o.Load(w)
}

func (o *VonMises) Tangent(K *la.Matrix, st *dom.State) error {
	K.Set(0, 0, o.Stiffness(st.U[o.dofs[0]]))
	return nil
}

func (o *VonMises) Residual(f []float64, st *dom.State) error {
	f[0] = o.Load(st.U[o.dofs[0]])
	return nil
}
