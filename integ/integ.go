// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package integ implements integrators that advance the load factor (static analyses) or the
// time (transient analyses) and form the tangent and unbalance of the linear system
package integ

import (
	"errors"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/xcfem/xc-sub035/diag"
	"github.com/xcfem/xc-sub035/dom"
	"github.com/xcfem/xc-sub035/lsys"
)

// numerical failures of step control
var (
	ErrImaginaryRoots  = errors.New("arc-length: imaginary roots; increment is too large")
	ErrZeroDenominator = errors.New("zero denominator in step control")
)

// codes returned by ArcLength.DLambdaUpdate
const (
	ArcOk              = 0
	ArcImaginaryRoots  = -1
	ArcZeroDenominator = -2
)

// Phase is the state of the integrator within a step
type Phase int

const (
	NoStep          Phase = iota // NewStep was not called after the last Commit or Revert
	Stepped                      // NewStep was called
	TangentFormed                // the tangent is in the linear system
	UnbalanceFormed              // the unbalance is in the linear system
)

// Context holds the increment context
type Context struct {
	Lambda     float64 // load factor (static) or time (transient) of the trial state
	LambdaPrev float64 // committed load factor or time
	Dt         float64 // time step (transient)
	DtPrev     float64 // previous time step (transient)
	Phase      Phase   // current phase
}

// Integrator advances the model and forms the tangent and unbalance. Usage:
//  NewStep(); { FormTangent(); FormUnbalance(); Solve; Update(ΔU) }...; Commit() or Revert()
type Integrator interface {
	Name() string
	Init(d *dom.Domain, sys *lsys.System) error // allocates vectors; called after (re)numbering
	NewStep() error                             // starts a new increment
	FormTangent() error                         // assembles A
	FormUnbalance() error                       // assembles b
	Update(ΔU []float64) error                  // applies the solution of the linear system
	Commit() error                              // accepts the step
	Revert() error                              // goes back to the last committed state
	Increment() float64                         // size of next increment (Δλ, Δu, s or Δt)
	SetIncrement(v float64)                     // sets the size of next increment
	Adapt(numIters int)                         // scales the increment after a converged step
	Context() Context                           // increment context
}

// Corrects tells whether the integrator corrects the load factor at every Update (path
// following). The trial state of these integrators is not U + η⋅ΔU after a scaled Update
func Corrects(it Integrator) bool {
	switch it.(type) {
	case *DispControl, *ArcLength:
		return true
	}
	return false
}

// Config holds the parameters of integrators
type Config struct {
	Incr      float64 // initial increment
	IncMin    float64 // minimum increment for adaptive scaling
	IncMax    float64 // maximum increment for adaptive scaling
	Jd        int     // desired number of iterations; 0 => no adaptive scaling
	Alpha     float64 // arc-length: scaling of load factor in the constraint
	CtrlDof   int     // displacement control: controlled DOF
	Gamma     float64 // Newmark γ
	Beta      float64 // Newmark β
	HHTalp    float64 // HHT α in [2/3, 1]
	InitAccel bool    // transient: compute initial accelerations from equilibrium
}

// allocators holds all available integrators
var allocators = make(map[string]func(cfg *Config, sink diag.Sink) (Integrator, error))

// New returns an integrator by name
func New(name string, cfg *Config, sink diag.Sink) (Integrator, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("cannot find integrator named %q. options are %v", name, Names())
	}
	return alloc(cfg, diag.Or(sink))
}

// Names returns the names of all integrators
func Names() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// adaptive holds the increment and its adaptive scaling: incr ← incr⋅Jd/numIters
type adaptive struct {
	incr, min, max float64
	jd             int
}

func newAdaptive(cfg *Config) (o adaptive, err error) {
	o = adaptive{incr: cfg.Incr, min: cfg.IncMin, max: cfg.IncMax, jd: cfg.Jd}
	if o.incr == 0 {
		return o, chk.Err("increment must be non-zero")
	}
	if o.jd < 0 {
		return o, chk.Err("desired number of iterations must not be negative. %d is invalid", o.jd)
	}
	if o.jd > 0 && (o.min <= 0 || o.max < o.min) {
		return o, chk.Err("adaptive increments need 0 < IncMin ≤ IncMax. IncMin=%g IncMax=%g are invalid", o.min, o.max)
	}
	return
}

func (o *adaptive) Increment() float64     { return o.incr }
func (o *adaptive) SetIncrement(v float64) { o.incr = v }

// Adapt scales the magnitude of the increment, keeping its sign
func (o *adaptive) Adapt(numIters int) {
	if o.jd < 1 || numIters < 1 {
		return
	}
	sign := 1.0
	if o.incr < 0 {
		sign = -1
	}
	v := sign * o.incr * float64(o.jd) / float64(numIters)
	if v < o.min {
		v = o.min
	}
	if v > o.max {
		v = o.max
	}
	o.incr = sign * v
}
