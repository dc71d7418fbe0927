// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/xcfem/xc-sub035/dom"
)

// SpringChain returns a chain of linear springs fixed at node 0 and loaded at the tip.
// The reference load is P (applied with load factor λ)
func SpringChain(ks []float64, P float64) (d *dom.Domain, err error) {
	d = dom.New()
	d.AddNode(1)
	for i, k := range ks {
		d.AddNode(1)
		s, err := NewSpring(i, []int{i, i + 1}, []int{i, i + 1}, dbf.Params{&dbf.P{N: "k", V: k}})
		if err != nil {
			return nil, err
		}
		if err = d.AddElement(s); err != nil {
			return nil, err
		}
	}
	if err = d.Fix(0); err != nil {
		return
	}
	err = d.AddPattern(&dom.LoadPattern{Name: "tip", Dofs: []int{len(ks)}, Vals: []float64{P}})
	return
}

// SpringChainSolution returns the displacements of the chain under λ⋅P
func SpringChainSolution(ks []float64, P, λ float64) (u []float64) {
	u = make([]float64, len(ks)+1)
	for i, k := range ks {
		u[i+1] = u[i] + λ*P/k
	}
	return
}

// CubicBar returns a single hardening spring fixed at one end and loaded with P at the other
func CubicBar(k, k3, P float64) (d *dom.Domain, err error) {
	d = dom.New()
	d.AddNode(1)
	d.AddNode(1)
	s, err := NewSpring(0, []int{0, 1}, []int{0, 1}, dbf.Params{
		&dbf.P{N: "k", V: k},
		&dbf.P{N: "k3", V: k3},
	})
	if err != nil {
		return
	}
	if err = d.AddElement(s); err != nil {
		return
	}
	if err = d.Fix(0); err != nil {
		return
	}
	err = d.AddPattern(&dom.LoadPattern{Name: "tip", Dofs: []int{1}, Vals: []float64{P}})
	return
}

// VonMisesTruss returns a domain with a von Mises truss loaded with a unit reference load
func VonMisesTruss(prms dbf.Params) (d *dom.Domain, truss *VonMises, err error) {
	d = dom.New()
	n := d.AddNode(1)
	truss, err = NewVonMises(0, n.Id, n.Dofs[0], prms)
	if err != nil {
		return
	}
	if err = d.AddElement(truss); err != nil {
		return
	}
	err = d.AddPattern(&dom.LoadPattern{Name: "apex", Dofs: []int{n.Dofs[0]}, Vals: []float64{1}})
	return
}

// Oscillator returns a single DOF oscillator (mass m, damper c, spring k) under the load
// P⋅f(t). The support is node 0; the mass is at node 1
func Oscillator(m, c, k, P float64, f dbf.T) (d *dom.Domain, err error) {
	d = dom.New()
	d.AddNode(1)
	d.AddNode(1)
	s, err := NewSpring(0, []int{0, 1}, []int{0, 1}, dbf.Params{&dbf.P{N: "k", V: k}})
	if err != nil {
		return
	}
	pm, err := NewPointMass(1, 1, 1, dbf.Params{&dbf.P{N: "m", V: m}, &dbf.P{N: "c", V: c}})
	if err != nil {
		return
	}
	if err = d.AddElement(s); err != nil {
		return
	}
	if err = d.AddElement(pm); err != nil {
		return
	}
	if err = d.Fix(0); err != nil {
		return
	}
	err = d.AddPattern(&dom.LoadPattern{Name: "force", Func: f, Dofs: []int{1}, Vals: []float64{P}})
	return
}

// StepResponse returns the displacement of an undamped oscillator at rest under a suddenly
// applied constant load P: u(t) = P/k⋅(1 - cos ωt)
func StepResponse(m, k, P, t float64) float64 {
	ω := math.Sqrt(k / m)
	return P / k * (1 - math.Cos(ω*t))
}

// FreeVibration returns u(t) of a damped oscillator released from u0 at rest (ξ < 1)
func FreeVibration(m, c, k, u0, t float64) float64 {
	ω := math.Sqrt(k / m)
	ξ := c / (2 * m * ω)
	if ξ >= 1 {
		chk.Panic("FreeVibration works with underdamped systems only. ξ=%g is invalid", ξ)
	}
	ωd := ω * math.Sqrt(1-ξ*ξ)
	return u0 * math.Exp(-ξ*ω*t) * (math.Cos(ωd*t) + ξ*ω/ωd*math.Sin(ωd*t))
}
