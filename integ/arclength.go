// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integ

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/diag"
	"github.com/xcfem/xc-sub035/dom"
	"github.com/xcfem/xc-sub035/lsys"
)

// ArcLength enforces ‖ΔU‖² + α²⋅Δλ² = s² at every iteration (spherical constraint).
// The increment is the arc length s
type ArcLength struct {
	static
	α      float64   // scaling of load factor
	sign   float64   // sign of the last predictor
	linear bool      // use the linearised (normal plane) constraint
	Δû     la.Vector // solution with reference load
	Δū     la.Vector // solution with unbalance
}

// set factory
func init() {
	alloc := func(linear bool) func(cfg *Config, sink diag.Sink) (Integrator, error) {
		return func(cfg *Config, sink diag.Sink) (Integrator, error) {
			a, err := newAdaptive(cfg)
			if err != nil {
				return nil, err
			}
			if a.incr < 0 {
				return nil, chk.Err("arc length must be positive. %g is invalid", a.incr)
			}
			if cfg.Alpha < 0 {
				return nil, chk.Err("arc-length α must not be negative. %g is invalid", cfg.Alpha)
			}
			return &ArcLength{static: static{adaptive: a, sink: sink}, α: cfg.Alpha, sign: 1, linear: linear}, nil
		}
	}
	allocators["arclength"] = alloc(false)
	allocators["arclength1"] = alloc(true)
}

func (o *ArcLength) Name() string {
	if o.linear {
		return "arclength1"
	}
	return "arclength"
}

func (o *ArcLength) Init(d *dom.Domain, sys *lsys.System) (err error) {
	if err = o.init(d, sys); err != nil {
		return
	}
	o.Δû = la.NewVector(d.Neq())
	o.Δū = la.NewVector(d.Neq())
	return
}

// NewStep computes the predictor Δλ = ±s / √(Δû⋅Δû + α²). The sign gives a positive
// projection of the predictor onto the last committed step
func (o *ArcLength) NewStep() (err error) {
	o.start()
	if err = o.FormTangent(); err != nil {
		return
	}
	if err = o.refSolution(o.Δû); err != nil {
		return
	}
	den := la.VecDot(o.Δû, o.Δû) + o.α*o.α
	if den == 0 {
		return fmt.Errorf("%w: arc-length predictor with α=0 and zero reference load", ErrZeroDenominator)
	}
	if proj := la.VecDot(o.Δû, o.ΔUprev) + o.α*o.α*o.Δλprev; proj != 0 {
		o.sign = math.Copysign(1, proj)
	}
	Δλ := o.sign * o.incr / math.Sqrt(den)
	la.VecAdd(o.w, 0, o.w, Δλ, o.Δû)
	return o.apply(o.w, Δλ)
}

// Update computes dλ from the constraint and applies ΔU = Δū + dλ⋅Δû
func (o *ArcLength) Update(ΔU []float64) (err error) {
	if err = o.ready("Update"); err != nil {
		return
	}
	copy(o.Δū, ΔU)
	if err = o.refSolution(o.Δû); err != nil {
		return
	}
	var dλ float64
	if o.linear {
		den := la.VecDot(o.ΔUstep, o.Δû) + o.α*o.α*o.Δλstep
		if den == 0 {
			return fmt.Errorf("%w: linearised arc-length", ErrZeroDenominator)
		}
		dλ = -la.VecDot(o.ΔUstep, o.Δū) / den
	} else {
		var code int
		dλ, code = o.DLambdaUpdate(o.Δū, o.Δû)
		switch code {
		case ArcImaginaryRoots:
			o.sink.Warnf("arc-length: imaginary roots at λ=%g with s=%g", o.λ, o.incr)
			return fmt.Errorf("%w (s=%g)", ErrImaginaryRoots, o.incr)
		case ArcZeroDenominator:
			return fmt.Errorf("%w: arc-length with α=0 and zero reference load", ErrZeroDenominator)
		}
	}
	la.VecAdd(o.w, 1, o.Δū, dλ, o.Δû)
	o.sys.SetX(o.w)
	return o.apply(o.w, dλ)
}

// DLambdaUpdate solves a⋅dλ² + b⋅dλ + c = 0 obtained from the constraint with
// ΔU = ΔUstep + Δū + dλ⋅Δû and Δλ = Δλstep + dλ. Among the two roots, the one giving the
// largest projection onto the current step increment is selected
//  Output:
//   code -- ArcOk, ArcImaginaryRoots or ArcZeroDenominator
func (o *ArcLength) DLambdaUpdate(Δū, Δû []float64) (dλ float64, code int) {
	α2 := o.α * o.α
	a := la.VecDot(Δû, Δû) + α2
	if a == 0 {
		return 0, ArcZeroDenominator
	}
	var b, c, uu, uhu, ubu float64
	for i := range Δû {
		r := o.ΔUstep[i] + Δū[i]
		b += Δû[i] * r
		c += r * r
		uu += o.ΔUstep[i] * o.ΔUstep[i]
		uhu += Δû[i] * o.ΔUstep[i]
		ubu += Δū[i] * o.ΔUstep[i]
	}
	b = 2 * (b + α2*o.Δλstep)
	c += α2*o.Δλstep*o.Δλstep - o.incr*o.incr
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, ArcImaginaryRoots
	}
	sq := math.Sqrt(disc)
	dλ1 := (-b + sq) / (2 * a)
	dλ2 := (-b - sq) / (2 * a)
	θ1 := uu + ubu + dλ1*uhu + α2*(o.Δλstep+dλ1)*o.Δλstep
	θ2 := uu + ubu + dλ2*uhu + α2*(o.Δλstep+dλ2)*o.Δλstep
	if θ1 >= θ2 {
		return dλ1, ArcOk
	}
	return dλ2, ArcOk
}
