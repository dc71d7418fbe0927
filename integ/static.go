// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integ

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/diag"
	"github.com/xcfem/xc-sub035/dom"
	"github.com/xcfem/xc-sub035/lsys"
)

// static holds data shared by static integrators. The external load is P(λ) = Σ F_p(λ)⋅P_p and
// the reference (tangent) load is q(λ) = Σ G_p(λ)⋅P_p
type static struct {
	adaptive

	// model and system
	d    *dom.Domain
	sys  *lsys.System
	sink diag.Sink

	// state
	λ, λc  float64   // trial and committed load factors
	Δλstep float64   // accumulated increment of λ in current step
	Δλprev float64   // Δλ of last committed step
	ΔUstep la.Vector // accumulated increment of U in current step
	ΔUprev la.Vector // ΔU of last committed step
	phase  Phase     // current phase

	// workspace
	P la.Vector // external forces
	q la.Vector // reference load
	w la.Vector // auxiliary
}

func (o *static) init(d *dom.Domain, sys *lsys.System) error {
	if d == nil || sys == nil {
		return chk.Err("integrator needs a domain and a linear system")
	}
	if d.Num == nil || d.Neq() != sys.Neq() {
		return chk.Err("domain must be numbered and the linear system sized before initialising the integrator")
	}
	o.d, o.sys = d, sys
	neq := d.Neq()
	o.ΔUstep = la.NewVector(neq)
	o.ΔUprev = la.NewVector(neq)
	o.P = la.NewVector(neq)
	o.q = la.NewVector(neq)
	o.w = la.NewVector(neq)
	o.λ = d.Committed.T
	o.λc = o.λ
	o.phase = NoStep
	return nil
}

func (o *static) Context() Context {
	return Context{Lambda: o.λ, LambdaPrev: o.λc, Phase: o.phase}
}

func (o *static) ready(op string) error {
	if o.phase == NoStep {
		return chk.Err("%s called before NewStep", op)
	}
	return nil
}

// FormTangent assembles the tangent stiffness
func (o *static) FormTangent() (err error) {
	if err = o.ready("FormTangent"); err != nil {
		return
	}
	o.sys.ZeroA()
	for k, e := range o.d.Elems {
		n := len(e.Dofs())
		K := o.sys.Arena().Matrix(n, 0)
		if err = e.Tangent(K, o.d.Trial); err != nil {
			return chk.Err("cannot compute tangent of element %d:\n%v", e.Id(), err)
		}
		o.sys.AddA(K, o.d.ElemEqs(k), 1)
	}
	o.phase = TangentFormed
	return
}

// FormUnbalance assembles b = P(λ) - F_int
func (o *static) FormUnbalance() (err error) {
	if err = o.ready("FormUnbalance"); err != nil {
		return
	}
	o.d.ExternalLoad(o.P, o.λ)
	o.sys.SetB(o.P)
	for k, e := range o.d.Elems {
		f := o.sys.Arena().Vector(len(e.Dofs()), 0)
		if err = e.Residual(f, o.d.Trial); err != nil {
			return chk.Err("cannot compute internal forces of element %d:\n%v", e.Id(), err)
		}
		o.sys.AddB(f, o.d.ElemEqs(k), -1)
	}
	o.phase = UnbalanceFormed
	return
}

// start begins a new step
func (o *static) start() {
	o.ΔUstep.Fill(0)
	o.Δλstep = 0
	o.phase = Stepped
}

// apply adds ΔU and Δλ to the trial state and updates the elements
func (o *static) apply(ΔU []float64, Δλ float64) (err error) {
	for i, v := range ΔU {
		o.ΔUstep[i] += v
	}
	o.Δλstep += Δλ
	o.λ += Δλ
	o.d.Trial.T = o.λ
	if ΔU != nil {
		o.d.IncrTrialU(ΔU, 1)
	}
	return o.d.Update()
}

// refSolution solves K⋅Δû = q using the current tangent
func (o *static) refSolution(Δû la.Vector) (err error) {
	o.d.ReferenceLoad(o.q, o.λ)
	o.sys.SetB(o.q)
	if err = o.sys.Solve(); err != nil {
		return
	}
	copy(Δû, o.sys.X())
	return
}

func (o *static) Commit() (err error) {
	o.d.Trial.T = o.λ
	if err = o.d.Commit(); err != nil {
		return
	}
	o.λc = o.λ
	o.Δλprev = o.Δλstep
	copy(o.ΔUprev, o.ΔUstep)
	o.phase = NoStep
	return
}

func (o *static) Revert() (err error) {
	if err = o.d.Revert(); err != nil {
		return
	}
	o.λ = o.λc
	o.ΔUstep.Fill(0)
	o.Δλstep = 0
	o.phase = NoStep
	return
}

// LoadControl increments the load factor by a prescribed amount
type LoadControl struct {
	static
}

// DispControl prescribes the increment of one displacement and finds the load factor
type DispControl struct {
	static
	dof int       // controlled DOF
	eq  int       // equation of controlled DOF
	Δû  la.Vector // solution with reference load
	Δū  la.Vector // solution with unbalance
}

// set factory
func init() {
	allocators["loadcontrol"] = func(cfg *Config, sink diag.Sink) (Integrator, error) {
		a, err := newAdaptive(cfg)
		if err != nil {
			return nil, err
		}
		return &LoadControl{static{adaptive: a, sink: sink}}, nil
	}
	allocators["dispcontrol"] = func(cfg *Config, sink diag.Sink) (Integrator, error) {
		a, err := newAdaptive(cfg)
		if err != nil {
			return nil, err
		}
		return &DispControl{static: static{adaptive: a, sink: sink}, dof: cfg.CtrlDof}, nil
	}
}

func (o *LoadControl) Name() string { return "loadcontrol" }

func (o *LoadControl) Init(d *dom.Domain, sys *lsys.System) error {
	return o.init(d, sys)
}

// NewStep sets λ = λc + Δλ
func (o *LoadControl) NewStep() error {
	o.start()
	return o.apply(nil, o.incr)
}

// Update adds ΔU to the trial displacements
func (o *LoadControl) Update(ΔU []float64) (err error) {
	if err = o.ready("Update"); err != nil {
		return
	}
	return o.apply(ΔU, 0)
}

func (o *DispControl) Name() string { return "dispcontrol" }

func (o *DispControl) Init(d *dom.Domain, sys *lsys.System) (err error) {
	if err = o.init(d, sys); err != nil {
		return
	}
	if o.dof < 0 || o.dof >= d.Ndof() {
		return chk.Err("controlled DOF %d does not exist", o.dof)
	}
	o.eq = d.Num.Dof2eq[o.dof]
	if o.eq < 0 {
		return chk.Err("controlled DOF %d is constrained", o.dof)
	}
	o.Δû = la.NewVector(d.Neq())
	o.Δū = la.NewVector(d.Neq())
	return
}

// NewStep computes the predictor Δλ = Δu_c / Δû_c and ΔU = Δλ⋅Δû
func (o *DispControl) NewStep() (err error) {
	o.start()
	if err = o.FormTangent(); err != nil {
		return
	}
	if err = o.refSolution(o.Δû); err != nil {
		return
	}
	if o.Δû[o.eq] == 0 {
		return fmt.Errorf("%w: reference displacement of controlled DOF is zero", ErrZeroDenominator)
	}
	Δλ := o.incr / o.Δû[o.eq]
	la.VecAdd(o.w, 0, o.w, Δλ, o.Δû)
	return o.apply(o.w, Δλ)
}

// Update corrects the load factor to keep the controlled displacement: dλ = -Δū_c / Δû_c
func (o *DispControl) Update(ΔU []float64) (err error) {
	if err = o.ready("Update"); err != nil {
		return
	}
	copy(o.Δū, ΔU)
	if err = o.refSolution(o.Δû); err != nil {
		return
	}
	if o.Δû[o.eq] == 0 {
		return fmt.Errorf("%w: reference displacement of controlled DOF is zero", ErrZeroDenominator)
	}
	dλ := -o.Δū[o.eq] / o.Δû[o.eq]
	la.VecAdd(o.w, 1, o.Δū, dλ, o.Δû)
	o.sys.SetX(o.w)
	return o.apply(o.w, dλ)
}
