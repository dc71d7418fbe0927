// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package algo

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/ana"
	"github.com/xcfem/xc-sub035/conv"
	"github.com/xcfem/xc-sub035/diag"
	"github.com/xcfem/xc-sub035/dom"
	"github.com/xcfem/xc-sub035/eqs"
	"github.com/xcfem/xc-sub035/integ"
	"github.com/xcfem/xc-sub035/lsys"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// model holds the collaborators of an algorithm
type model struct {
	d    *dom.Domain
	it   integ.Integrator
	sys  *lsys.System
	test conv.Test
}

// newModel numbers the domain and allocates a load control integrator with Δλ = 1
func newModel(tst *testing.T, d *dom.Domain, testName string, tol float64, maxIt int) (o *model) {
	o = &model{d: d}
	nb, err := eqs.New("plain")
	if err != nil {
		tst.Fatalf("%v", err)
	}
	if _, err = d.Number(nb); err != nil {
		tst.Fatalf("%v", err)
	}
	if o.sys, err = lsys.NewSystem("profile", nil); err != nil {
		tst.Fatalf("%v", err)
	}
	if err = o.sys.SetSize(&lsys.Structure{Neq: d.Neq(), Conn: d.Conn()}); err != nil {
		tst.Fatalf("%v", err)
	}
	if o.it, err = integ.New("loadcontrol", &integ.Config{Incr: 1}, nil); err != nil {
		tst.Fatalf("%v", err)
	}
	if err = o.it.Init(d, o.sys); err != nil {
		tst.Fatalf("%v", err)
	}
	if o.test, err = conv.New(testName, tol, maxIt, conv.Options{}, nil); err != nil {
		tst.Fatalf("%v", err)
	}
	return
}

// run runs one step with the algorithm named name
func (o *model) run(tst *testing.T, name string, cfg *Config, it integ.Integrator) (a Algorithm, status int) {
	if it == nil {
		it = o.it
	}
	a, err := New(name, cfg, it, o.sys, o.test, nil)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	if err = it.NewStep(); err != nil {
		tst.Fatalf("%v", err)
	}
	status = a.SolveStep()
	if status == Success {
		if err = it.Commit(); err != nil {
			tst.Fatalf("%v", err)
		}
	} else {
		it.Revert()
	}
	return
}

// fakeStepper follows s(η) = s0⋅(1 - η/η*) along ΔU = {1}
type fakeStepper struct {
	s0, ηstar float64
	η         float64
	nupdate   int
	nunbal    int
	b         la.Vector
}

func (o *fakeStepper) Update(ΔU []float64) error {
	o.η += ΔU[0]
	o.nupdate++
	return nil
}

func (o *fakeStepper) FormUnbalance() error {
	o.nunbal++
	o.b = la.Vector{o.s0 * (1 - o.η/o.ηstar)}
	return nil
}

func (o *fakeStepper) B() la.Vector { return o.b }

func Test_linesearch01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linesearch01. no search required")

	for _, name := range []string{"interpolated", "bisection", "secant", "regulafalsi"} {
		ls, err := NewLineSearch(name, 0, 0, 0, 0, nil)
		if err != nil {
			tst.Errorf("%v", err)
			return
		}
		chk.Float64(tst, "tol", 1e-15, ls.Tol, 0.8)
		st := &fakeStepper{s0: 1, ηstar: 1.05}
		η, err := ls.Search(1.0, 0.05, []float64{1}, st, st)
		if err != nil {
			tst.Errorf("%s: %v", name, err)
			return
		}
		chk.Float64(tst, name+": η", 1e-15, η, 1)
		chk.Int(tst, name+": trials", ls.NumIters(), 0)
		chk.Int(tst, name+": calls to Update", st.nupdate, 0)
		chk.Int(tst, name+": calls to FormUnbalance", st.nunbal, 0)
	}

	// wrong configuration
	if _, err := NewLineSearch("golden", 0, 0, 0, 0, nil); err == nil {
		tst.Errorf("unknown line search must fail")
	}
	if _, err := NewLineSearch("secant", 1.5, 0, 0, 0, nil); err == nil {
		tst.Errorf("tolerance ≥ 1 must fail")
	}
}

func Test_linesearch02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linesearch02. searches along a linear merit function")

	for _, name := range []string{"interpolated", "bisection", "secant", "regulafalsi"} {
		ls, err := NewLineSearch(name, 0, 0, 0, 0, nil)
		if err != nil {
			tst.Errorf("%v", err)
			return
		}
		st := &fakeStepper{s0: 1, ηstar: 0.4, η: 1}
		st.FormUnbalance()
		st.nunbal = 0
		s1 := st.b[0]
		η, err := ls.Search(1, s1, []float64{1}, st, st)
		if err != nil {
			tst.Errorf("%s: %v", name, err)
			return
		}
		io.Pforan("%-12s η=%g trials=%d\n", name, η, ls.NumIters())
		chk.Float64(tst, name+": η of stepper", 1e-15, st.η, η)
		if r := math.Abs(st.b[0]); r > 0.8 {
			tst.Errorf("%s: ratio %g exceeds tolerance", name, r)
		}
		if ls.NumIters() < 1 || ls.NumIters() > ls.MaxIt {
			tst.Errorf("%s: number of trials %d is incorrect", name, ls.NumIters())
		}
		switch name {
		case "interpolated", "secant", "regulafalsi":
			chk.Float64(tst, name+": η", 1e-14, η, 0.4)
		case "bisection":
			chk.Float64(tst, name+": η", 1e-15, η, 0.5)
		}
	}
}

func Test_linesearch03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linesearch03. repeated trial ends the search")

	ls, err := NewLineSearch("interpolated", 0, 0, 0, 0, nil)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}

	// s(η) = 1 + η grows along ΔU: the trials are clamped to ηmin twice
	st := &fakeStepper{s0: 1, ηstar: -1, η: 1}
	η, err := ls.Search(1, 2, []float64{1}, st, st)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "η", 1e-15, η, 0.1)
	chk.Int(tst, "trials", ls.NumIters(), 1)
}

func Test_algo01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("algo01. linear algorithm converges in one iteration")

	ks := []float64{3, 1, 2, 8}
	d, err := ana.SpringChain(ks, 5)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	m := newModel(tst, d, "normunbalance", 1e-10, 10)
	a, status := m.run(tst, "linear", nil, nil)
	chk.Int(tst, "status", status, Success)
	chk.Int(tst, "iterations", a.NumIters(), 1)
	if a.ResidualNorm() > 1e-12 {
		tst.Errorf("residual after update is too large: %g", a.ResidualNorm())
	}
	chk.Array(tst, "U", 1e-13, d.Committed.U, ana.SpringChainSolution(ks, 5, 1))
}

func Test_algo02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("algo02. Newton methods reproduce the equilibrium of a cubic spring")

	k, k3, P := 10.0, 10.0, 5.0
	ucorrect := ana.CubicRoot(k, k3, P)
	for _, name := range []string{"newton", "modnewton", "initialnewton", "newtonls"} {
		prev := 0
		for i, tol := range []float64{1e-12, 1e-10, 1e-8, 1e-6, 1e-4, 1e-2} {
			d, err := ana.CubicBar(k, k3, P)
			if err != nil {
				tst.Errorf("%v", err)
				return
			}
			m := newModel(tst, d, "normunbalance", tol, 500)
			a, status := m.run(tst, name, &Config{}, nil)
			if status != Success {
				tst.Errorf("%s: tol=%g: status = %d (%s)", name, tol, status, StatusString(status))
				return
			}
			u := d.Committed.U[1]
			io.Pforan("%-14s tol=%g nit=%3d u=%.15f\n", name, tol, a.NumIters(), u)
			chk.Float64(tst, io.Sf("%s: u (tol=%g)", name, tol), tol/k, u, ucorrect)
			if i > 0 && a.NumIters() > prev {
				tst.Errorf("%s: number of iterations must not increase as the tolerance is relaxed: %d > %d", name, a.NumIters(), prev)
			}
			prev = a.NumIters()

			// line search
			ls := a.(*Newton).LineSearch()
			if (name == "newtonls") != (ls != nil) {
				tst.Errorf("%s: line search must be allocated only by newtonls", name)
				return
			}
			if ls != nil {
				chk.String(tst, ls.Name(), "interpolated")
				if ls.NumIters() > ls.MaxIt {
					tst.Errorf("line search exceeded its maximum number of trials: %d > %d", ls.NumIters(), ls.MaxIt)
				}
			}
		}
	}
}

// failingIntegrator fails to form the unbalance after nok successful calls
type failingIntegrator struct {
	integ.Integrator
	nok, ncalls int
}

func (o *failingIntegrator) FormUnbalance() error {
	o.ncalls++
	if o.ncalls > o.nok {
		return integ.ErrImaginaryRoots
	}
	return o.Integrator.FormUnbalance()
}

func Test_algo03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("algo03. status codes")

	// iteration budget
	d, err := ana.CubicBar(10, 10, 5)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	m := newModel(tst, d, "normunbalance", 1e-12, 2)
	a, status := m.run(tst, "newton", nil, nil)
	chk.Int(tst, "budget: status", status, NotConverged)
	chk.Int(tst, "budget: iterations", a.NumIters(), 2)
	if a.Err() == nil {
		tst.Errorf("failure must have a cause")
	}

	// divergence: the initial tangent is too soft for a stiff hardening spring
	d, _ = ana.CubicBar(10, 40, 50)
	m = newModel(tst, d, "normunbalance", 1e-12, 50)
	m.test, _ = conv.New("normunbalance", 1e-12, 50, conv.Options{MaxIncr: 1}, nil)
	a, status = m.run(tst, "modnewton", nil, nil)
	chk.Int(tst, "divergence: status", status, Diverged)
	chk.Int(tst, "divergence: iterations", a.NumIters(), 2)

	// singular tangent
	d, _ = ana.SpringChain([]float64{1, 2}, 1)
	d.Fixed[0] = false
	m = newModel(tst, d, "normunbalance", 1e-12, 10)
	a, status = m.run(tst, "newton", nil, nil)
	chk.Int(tst, "singular: status", status, LinSysFailed)
	if !errors.Is(a.Err(), lsys.ErrSingular) {
		tst.Errorf("cause must be lsys.ErrSingular. got %v", a.Err())
	}

	// integrator failure
	d, _ = ana.CubicBar(10, 10, 5)
	m = newModel(tst, d, "normunbalance", 1e-12, 10)
	fi := &failingIntegrator{Integrator: m.it, nok: 2}
	a, status = m.run(tst, "newton", nil, fi)
	chk.Int(tst, "integrator: status", status, IntegratorFailed)
	if !errors.Is(a.Err(), integ.ErrImaginaryRoots) {
		tst.Errorf("cause must be integ.ErrImaginaryRoots. got %v", a.Err())
	}

	// configuration
	sys, _ := lsys.NewSystem("dense", nil)
	var buf diag.Buffer
	a, err = New("linear", nil, m.it, sys, nil, &buf)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Int(tst, "unsized: status", a.SolveStep(), BadConfig)
	chk.Int(tst, "unsized: warnings", buf.Nwarn, 1)
	if _, err = New("newton", nil, m.it, sys, nil, nil); err == nil {
		tst.Errorf("newton without test must fail")
	}
	if _, err = New("bfgs", nil, m.it, sys, m.test, nil); err == nil {
		tst.Errorf("unknown algorithm must fail")
	}

	// line search with integrators that correct the load factor
	for _, name := range []string{"dispcontrol", "arclength", "arclength1"} {
		pf, err := integ.New(name, &integ.Config{Incr: 0.1, CtrlDof: 1}, nil)
		if err != nil {
			tst.Errorf("%v", err)
			return
		}
		if !integ.Corrects(pf) {
			tst.Errorf("%s must correct the load factor", name)
		}
		if _, err = New("newtonls", nil, pf, m.sys, m.test, nil); err == nil {
			tst.Errorf("newtonls with %s must fail", name)
		}
		if _, err = New("newton", nil, pf, m.sys, m.test, nil); err != nil {
			tst.Errorf("newton with %s must be allowed:\n%v", name, err)
		}
	}
	if integ.Corrects(m.it) {
		tst.Errorf("loadcontrol does not correct the load factor")
	}
}
