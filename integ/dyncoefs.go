// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integ

import (
	"github.com/cpmech/gosl/chk"
)

// DynCoefs calculates the coefficients of Newmark's method with θ1 = γ and θ2 = 2β:
//
//  a_{n+1} = α1⋅u_{n+1} - ζ*   with   ζ* = α1⋅u_n + α2⋅v_n + α3⋅a_n
//  v_{n+1} = α4⋅u_{n+1} - χ*   with   χ* = α4⋅u_n + α5⋅v_n + α6⋅a_n
//
type DynCoefs struct {

	// input
	θ1, θ2 float64 // Newmark's parameters
	hht    bool    // Hilber-Hughes-Taylor method
	α      float64 // HHT α

	// derived
	α1, α2, α3, α4, α5, α6 float64
}

// Init initialises the coefficients
//  hhtα -- HHT parameter in [2/3, 1]; 0 => use γ and β (plain Newmark)
func (o *DynCoefs) Init(γ, β, hhtα float64) (err error) {
	if hhtα != 0 {
		if hhtα < 2.0/3.0 || hhtα > 1 {
			return chk.Err("HHT α must be in [2/3, 1]. %g is invalid", hhtα)
		}
		o.hht = true
		o.α = hhtα
		γ = 1.5 - hhtα
		β = (2 - hhtα) * (2 - hhtα) / 4
	} else {
		o.α = 1
	}
	if γ < 0 || γ > 1 {
		return chk.Err("Newmark γ must be in [0, 1]. %g is invalid", γ)
	}
	if β <= 0 || β > 0.5 {
		return chk.Err("Newmark β must be in (0, 0.5]. %g is invalid", β)
	}
	o.θ1 = γ
	o.θ2 = 2 * β
	return
}

// Calc computes the coefficients for a time step Δt
func (o *DynCoefs) Calc(Δt float64) (err error) {
	if Δt < 1e-14 {
		return chk.Err("Δt is too small: %g", Δt)
	}
	θ1, θ2 := o.θ1, o.θ2
	o.α1 = 2.0 / (θ2 * Δt * Δt)
	o.α2 = 2.0 / (θ2 * Δt)
	o.α3 = 1.0/θ2 - 1.0
	o.α4 = 2.0 * θ1 / (θ2 * Δt)
	o.α5 = 2.0*θ1/θ2 - 1.0
	o.α6 = (θ1/θ2 - 1.0) * Δt
	return
}

// Gamma returns γ
func (o *DynCoefs) Gamma() float64 { return o.θ1 }

// Beta returns β
func (o *DynCoefs) Beta() float64 { return o.θ2 / 2 }
