// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements benchmark models with closed-form equilibrium solutions
package ana

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/dom"
)

// Spring connects two DOFs with force N = k⋅δ + k3⋅δ³ where δ = u[1] - u[0].
// With k3 = 0 the spring is linear
type Spring struct {
	id    int
	nodes []int
	dofs  []int
	k     float64 // linear stiffness
	k3    float64 // cubic stiffness
}

// NewSpring returns a new spring
//  prms -- "k" and (optional) "k3"
func NewSpring(id int, nodes, dofs []int, prms dbf.Params) (o *Spring, err error) {
	if len(dofs) != 2 {
		return nil, chk.Err("spring %d needs 2 DOFs. %d is invalid", id, len(dofs))
	}
	o = &Spring{id: id, nodes: nodes, dofs: dofs}
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "k":
			o.k = p.V
		case "k3":
			o.k3 = p.V
		default:
			return nil, chk.Err("spring: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.k <= 0 {
		return nil, chk.Err("spring %d: stiffness must be positive. k=%g is invalid", id, o.k)
	}
	return
}

func (o *Spring) Id() int       { return o.id }
func (o *Spring) Nodes() []int  { return o.nodes }
func (o *Spring) Dofs() []int   { return o.dofs }
func (o *Spring) Commit() error { return nil }
func (o *Spring) Revert() error { return nil }

// Update does nothing: springs have no internal variables
func (o *Spring) Update(st *dom.State) error { return nil }

// Elongation returns δ
func (o *Spring) Elongation(st *dom.State) float64 {
	return st.U[o.dofs[1]] - st.U[o.dofs[0]]
}

// Force returns N(δ)
func (o *Spring) Force(δ float64) float64 {
	return o.k*δ + o.k3*δ*δ*δ
}

func (o *Spring) Tangent(K *la.Matrix, st *dom.State) error {
	δ := o.Elongation(st)
	kt := o.k + 3*o.k3*δ*δ
	K.Set(0, 0, kt)
	K.Set(0, 1, -kt)
	K.Set(1, 0, -kt)
	K.Set(1, 1, kt)
	return nil
}

func (o *Spring) Residual(f []float64, st *dom.State) error {
	N := o.Force(o.Elongation(st))
	f[0] = -N
	f[1] = N
	return nil
}

// CubicRoot returns the (unique) real u satisfying k⋅u + k3⋅u³ = P with k > 0 and k3 ≥ 0
func CubicRoot(k, k3, P float64) float64 {
	if k3 == 0 {
		return P / k
	}
	p := k / k3
	q := -P / k3
	d := math.Sqrt(q*q/4 + p*p*p/27)
	return math.Cbrt(-q/2+d) + math.Cbrt(-q/2-d)
}

// PointMass holds a lumped mass and a viscous damper attached to one DOF
type PointMass struct {
	id   int
	node int
	dofs []int
	m    float64 // mass
	c    float64 // damping coefficient
}

// NewPointMass returns a new point mass
//  prms -- "m" and (optional) "c"
func NewPointMass(id, node, dof int, prms dbf.Params) (o *PointMass, err error) {
	o = &PointMass{id: id, node: node, dofs: []int{dof}}
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "m":
			o.m = p.V
		case "c":
			o.c = p.V
		default:
			return nil, chk.Err("pointmass: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.m <= 0 {
		return nil, chk.Err("pointmass %d: mass must be positive. m=%g is invalid", id, o.m)
	}
	return
}

func (o *PointMass) Id() int                    { return o.id }
func (o *PointMass) Nodes() []int               { return []int{o.node} }
func (o *PointMass) Dofs() []int                { return o.dofs }
func (o *PointMass) Update(st *dom.State) error { return nil }
func (o *PointMass) Commit() error              { return nil }
func (o *PointMass) Revert() error              { return nil }

// Tangent is zero: the mass has no stiffness
func (o *PointMass) Tangent(K *la.Matrix, st *dom.State) error {
	K.Set(0, 0, 0)
	return nil
}

// Residual is zero: inertia and damping forces are added by the integrator
func (o *PointMass) Residual(f []float64, st *dom.State) error {
	f[0] = 0
	return nil
}

func (o *PointMass) Mass(M *la.Matrix) error {
	M.Set(0, 0, o.m)
	return nil
}

func (o *PointMass) Damping(C *la.Matrix, st *dom.State) error {
	C.Set(0, 0, o.c)
	return nil
}
