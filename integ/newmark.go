// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integ

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/diag"
	"github.com/xcfem/xc-sub035/dom"
	"github.com/xcfem/xc-sub035/lsys"
)

// Newmark implements Newmark's method and the Hilber-Hughes-Taylor (HHT) variant. Elements
// are evaluated at u_{n+α}, v_{n+α} and a_{n+1} and loads at t_{n+α}; Newmark's method has α = 1.
// The increment is the time step Δt
//  A = c1⋅K + c2⋅C + c3⋅M   with   c1 = α, c2 = α⋅γ/(β⋅Δt), c3 = 1/(β⋅Δt²)
//  b = P(t_{n+α}) - F_int - M⋅a - C⋅v
type Newmark struct {
	adaptive

	// model and system
	d    *dom.Domain
	sys  *lsys.System
	sink diag.Sink

	// coefficients
	dc        DynCoefs // Newmark coefficients
	initAccel bool     // compute initial accelerations from equilibrium
	started   bool     // first step was taken

	// state
	t, tc     float64   // trial and committed times
	Δt, Δtc   float64   // current and previous time steps
	U, V, A   la.Vector // [ndof] values at t_{n+1}
	ζ, χ      la.Vector // [ndof] starred variables
	phase     Phase     // current phase
	P         la.Vector // [neq] external forces
	nameAlloc string
}

// set factory
func init() {
	alloc := func(name string) func(cfg *Config, sink diag.Sink) (Integrator, error) {
		return func(cfg *Config, sink diag.Sink) (Integrator, error) {
			a, err := newAdaptive(cfg)
			if err != nil {
				return nil, err
			}
			if a.incr <= 0 {
				return nil, chk.Err("time step must be positive. %g is invalid", a.incr)
			}
			o := &Newmark{adaptive: a, sink: sink, initAccel: cfg.InitAccel, nameAlloc: name}
			γ, β, α := cfg.Gamma, cfg.Beta, 0.0
			if name == "hht" {
				α = cfg.HHTalp
				if α == 0 {
					α = 1
				}
			}
			if γ == 0 && β == 0 {
				γ, β = 0.5, 0.25
			}
			if err = o.dc.Init(γ, β, α); err != nil {
				return nil, err
			}
			return o, nil
		}
	}
	allocators["newmark"] = alloc("newmark")
	allocators["hht"] = alloc("hht")
}

func (o *Newmark) Name() string { return o.nameAlloc }

// Coefs returns the dynamic coefficients
func (o *Newmark) Coefs() *DynCoefs { return &o.dc }

func (o *Newmark) Init(d *dom.Domain, sys *lsys.System) error {
	if d == nil || sys == nil {
		return chk.Err("integrator needs a domain and a linear system")
	}
	if d.Num == nil || d.Neq() != sys.Neq() {
		return chk.Err("domain must be numbered and the linear system sized before initialising the integrator")
	}
	o.d, o.sys = d, sys
	ndof := d.Ndof()
	o.U = la.NewVector(ndof)
	o.V = la.NewVector(ndof)
	o.A = la.NewVector(ndof)
	o.ζ = la.NewVector(ndof)
	o.χ = la.NewVector(ndof)
	o.P = la.NewVector(d.Neq())
	copy(o.U, d.Committed.U)
	copy(o.V, d.Committed.V)
	copy(o.A, d.Committed.A)
	o.t = d.Committed.T
	o.tc = o.t
	o.phase = NoStep
	return nil
}

func (o *Newmark) Context() Context {
	return Context{Lambda: o.t, LambdaPrev: o.tc, Dt: o.Δt, DtPrev: o.Δtc, Phase: o.phase}
}

// NewStep computes the predictor u_{n+1} = u_n with consistent v_{n+1} and a_{n+1}
func (o *Newmark) NewStep() (err error) {
	if !o.started && o.initAccel {
		if err = o.initialAccelerations(); err != nil {
			return
		}
	}
	o.started = true
	o.Δt = o.incr
	if err = o.dc.Calc(o.Δt); err != nil {
		return
	}
	c := o.d.Committed
	for i := range o.U {
		o.ζ[i] = o.dc.α1*c.U[i] + o.dc.α2*c.V[i] + o.dc.α3*c.A[i]
		o.χ[i] = o.dc.α4*c.U[i] + o.dc.α5*c.V[i] + o.dc.α6*c.A[i]
		o.U[i] = c.U[i]
		o.A[i] = o.dc.α1*o.U[i] - o.ζ[i]
		o.V[i] = o.dc.α4*o.U[i] - o.χ[i]
	}
	o.t = o.tc + o.Δt
	o.phase = Stepped
	return o.push()
}

// push sets the trial state of the domain to the α-weighted values and updates elements
func (o *Newmark) push() error {
	α := o.dc.α
	c, tr := o.d.Committed, o.d.Trial
	for i := range o.U {
		tr.U[i] = (1-α)*c.U[i] + α*o.U[i]
		tr.V[i] = (1-α)*c.V[i] + α*o.V[i]
		tr.A[i] = o.A[i]
	}
	tr.T = o.tc + α*o.Δt
	return o.d.Update()
}

func (o *Newmark) ready(op string) error {
	if o.phase == NoStep {
		return chk.Err("%s called before NewStep", op)
	}
	return nil
}

// FormTangent assembles c1⋅K + c2⋅C + c3⋅M with C = C_e + αM⋅M + βK⋅K
func (o *Newmark) FormTangent() (err error) {
	if err = o.ready("FormTangent"); err != nil {
		return
	}
	c1 := o.dc.α
	c2 := o.dc.α * o.dc.α4
	c3 := o.dc.α1
	o.sys.ZeroA()
	for k, e := range o.d.Elems {
		n := len(e.Dofs())
		idx := o.d.ElemEqs(k)
		K := o.sys.Arena().Matrix(n, 0)
		if err = e.Tangent(K, o.d.Trial); err != nil {
			return chk.Err("cannot compute tangent of element %d:\n%v", e.Id(), err)
		}
		o.sys.AddA(K, idx, c1+c2*o.d.BetaK)
		if m, ok := e.(dom.Massive); ok {
			M := o.sys.Arena().Matrix(n, 1)
			if err = m.Mass(M); err != nil {
				return chk.Err("cannot compute mass of element %d:\n%v", e.Id(), err)
			}
			o.sys.AddA(M, idx, c3+c2*o.d.AlphaM)
		}
		if dmp, ok := e.(dom.Damped); ok {
			C := o.sys.Arena().Matrix(n, 2)
			if err = dmp.Damping(C, o.d.Trial); err != nil {
				return chk.Err("cannot compute damping of element %d:\n%v", e.Id(), err)
			}
			o.sys.AddA(C, idx, c2)
		}
	}
	o.phase = TangentFormed
	return
}

// FormUnbalance assembles b = P(t_{n+α}) - F_int - M⋅a - C⋅v
func (o *Newmark) FormUnbalance() (err error) {
	if err = o.ready("FormUnbalance"); err != nil {
		return
	}
	return o.unbalance(o.d.Trial, true)
}

// unbalance assembles b for the state st; inertia forces are included if withInertia
func (o *Newmark) unbalance(st *dom.State, withInertia bool) (err error) {
	o.d.ExternalLoad(o.P, st.T)
	o.sys.SetB(o.P)
	for k, e := range o.d.Elems {
		dofs := e.Dofs()
		n := len(dofs)
		idx := o.d.ElemEqs(k)
		f := o.sys.Arena().Vector(n, 0)
		if err = e.Residual(f, st); err != nil {
			return chk.Err("cannot compute internal forces of element %d:\n%v", e.Id(), err)
		}
		v := o.sys.Arena().Vector(n, 1)
		a := o.sys.Arena().Vector(n, 2)
		for i, dof := range dofs {
			v[i] = st.V[dof]
			a[i] = st.A[dof]
		}
		if o.d.BetaK != 0 {
			K := o.sys.Arena().Matrix(n, 0)
			if err = e.Tangent(K, st); err != nil {
				return chk.Err("cannot compute tangent of element %d:\n%v", e.Id(), err)
			}
			addMatVec(f, o.d.BetaK, K, v)
		}
		if m, ok := e.(dom.Massive); ok {
			M := o.sys.Arena().Matrix(n, 1)
			if err = m.Mass(M); err != nil {
				return chk.Err("cannot compute mass of element %d:\n%v", e.Id(), err)
			}
			if withInertia {
				addMatVec(f, 1, M, a)
			}
			addMatVec(f, o.d.AlphaM, M, v)
		}
		if dmp, ok := e.(dom.Damped); ok {
			C := o.sys.Arena().Matrix(n, 2)
			if err = dmp.Damping(C, st); err != nil {
				return chk.Err("cannot compute damping of element %d:\n%v", e.Id(), err)
			}
			addMatVec(f, 1, C, v)
		}
		o.sys.AddB(f, idx, -1)
	}
	o.phase = UnbalanceFormed
	return
}

// Update applies the increment of displacements and corrects velocities and accelerations
func (o *Newmark) Update(ΔU []float64) (err error) {
	if err = o.ready("Update"); err != nil {
		return
	}
	for dof, I := range o.d.Num.Dof2eq {
		if I < 0 {
			continue
		}
		o.U[dof] += ΔU[I]
		o.A[dof] = o.dc.α1*o.U[dof] - o.ζ[dof]
		o.V[dof] = o.dc.α4*o.U[dof] - o.χ[dof]
	}
	return o.push()
}

// Commit accepts the values at t_{n+1}
func (o *Newmark) Commit() (err error) {
	tr := o.d.Trial
	copy(tr.U, o.U)
	copy(tr.V, o.V)
	copy(tr.A, o.A)
	tr.T = o.t
	if err = o.d.Update(); err != nil {
		return
	}
	if err = o.d.Commit(); err != nil {
		return
	}
	o.tc = o.t
	o.Δtc = o.Δt
	o.phase = NoStep
	return
}

func (o *Newmark) Revert() (err error) {
	if err = o.d.Revert(); err != nil {
		return
	}
	c := o.d.Committed
	copy(o.U, c.U)
	copy(o.V, c.V)
	copy(o.A, c.A)
	o.t = o.tc
	o.phase = NoStep
	return
}

// initialAccelerations solves M⋅a0 = P(t0) - F_int - C⋅v0. The accelerations are left
// unchanged if M is singular; e.g. when some DOFs have no mass
func (o *Newmark) initialAccelerations() (err error) {
	c := o.d.Committed
	o.sys.ZeroA()
	for k, e := range o.d.Elems {
		if m, ok := e.(dom.Massive); ok {
			M := o.sys.Arena().Matrix(len(e.Dofs()), 1)
			if err = m.Mass(M); err != nil {
				return chk.Err("cannot compute mass of element %d:\n%v", e.Id(), err)
			}
			o.sys.AddA(M, o.d.ElemEqs(k), 1)
		}
	}
	if err = o.unbalance(c, false); err != nil {
		return
	}
	if err = o.sys.Solve(); err != nil {
		o.sink.Warnf("newmark: initial accelerations were not computed: %v", err)
		o.sys.MarkStale()
		return nil
	}
	for dof, I := range o.d.Num.Dof2eq {
		if I >= 0 {
			c.A[dof] = o.sys.X()[I]
			o.d.Trial.A[dof] = c.A[dof]
		}
	}
	o.sys.MarkStale()
	return
}

// addMatVec computes f += α⋅K⋅v
func addMatVec(f []float64, α float64, K *la.Matrix, v []float64) {
	if α == 0 {
		return
	}
	for i := range f {
		s := 0.0
		for j := range v {
			s += K.Get(i, j) * v[j]
		}
		f[i] += α * s
	}
}
