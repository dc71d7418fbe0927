// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the analysis driver that advances a model increment by increment
package fem

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/xcfem/xc-sub035/algo"
	"github.com/xcfem/xc-sub035/conv"
	"github.com/xcfem/xc-sub035/diag"
	"github.com/xcfem/xc-sub035/dom"
	"github.com/xcfem/xc-sub035/eqs"
	"github.com/xcfem/xc-sub035/inp"
	"github.com/xcfem/xc-sub035/integ"
	"github.com/xcfem/xc-sub035/lsys"
)

// Analysis holds all data for advancing a model with an incremental-iterative procedure
type Analysis struct {

	// input
	Sim *inp.Simulation // simulation data
	Dom *dom.Domain     // model

	// strategies
	Numberer eqs.Numberer     // equation numberer
	Sys      *lsys.System     // linear system
	Test     conv.Test        // convergence test
	Integ    integ.Integrator // integrator
	Algo     algo.Algorithm   // algorithm
	Fallback algo.Algorithm   // algorithm used after failures with action Switch; may be nil

	// output
	Summary *Summary // summary of steps
	Metrics *Metrics // prometheus metrics; may be nil

	// internal
	sink    diag.Sink   // diagnostics
	stop    atomic.Bool // stop requested
	current algo.Algorithm
	nsteps  int     // number of committed steps
	nominal float64 // increment before retries of the current step
}

// NewAnalysis allocates all strategies by name. Configuration errors are reported immediately
func NewAnalysis(sim *inp.Simulation, d *dom.Domain, sink diag.Sink) (o *Analysis, err error) {

	// input
	if sim == nil || d == nil {
		return nil, chk.Err("analysis needs simulation data and a model")
	}
	o = &Analysis{Sim: sim, Dom: d, sink: diag.Or(sink)}
	s := &sim.Solver

	// numberer and linear system
	o.Numberer, err = eqs.New(sim.LinSol.Numberer)
	if err != nil {
		return nil, err
	}
	o.Sys, err = lsys.NewSystem(sim.LinSol.Name, o.sink)
	if err != nil {
		return nil, err
	}

	// convergence test
	o.Test, err = conv.New(s.Test, s.Tol, s.NmaxIt, conv.Options{NormType: s.NormType, MaxIncr: s.MaxIncr, NearMiss: s.NearMiss}, o.sink)
	if err != nil {
		return nil, err
	}

	// integrator
	o.Integ, err = integ.New(s.Integ, &integ.Config{
		Incr:      s.Incr,
		IncMin:    s.IncMin,
		IncMax:    s.IncMax,
		Jd:        s.Jd,
		Alpha:     s.ArcAlpha,
		CtrlDof:   s.CtrlDof,
		Gamma:     s.Gamma,
		Beta:      s.Beta,
		HHTalp:    s.HHTalp,
		InitAccel: s.InitAccel,
	}, o.sink)
	if err != nil {
		return nil, err
	}
	transient := o.Integ.Name() == "newmark" || o.Integ.Name() == "hht"
	if transient != (s.Type == "transient") {
		return nil, chk.Err("integrator %q cannot be used in %s analyses", s.Integ, s.Type)
	}
	d.AlphaM, d.BetaK = s.RayleighM, s.RayleighK

	// equations
	if err = o.Renumber(); err != nil {
		return nil, err
	}

	// algorithms
	cfg := &algo.Config{
		LineSearch: s.LineSearch,
		LsTol:      s.LsTol,
		LsMaxIt:    s.LsMaxIt,
		LsEtaMin:   s.LsEtaMin,
		LsEtaMax:   s.LsEtaMax,
		ShowR:      s.ShowR,
	}
	o.Algo, err = algo.New(s.Algo, cfg, o.Integ, o.Sys, o.Test, o.sink)
	if err != nil {
		return nil, err
	}
	if s.Fallback != "" {
		o.Fallback, err = algo.New(s.Fallback, cfg, o.Integ, o.Sys, o.Test, o.sink)
		if err != nil {
			return nil, chk.Err("cannot allocate fallback algorithm:\n%v", err)
		}
	}
	o.current = o.Algo

	// summary
	o.Summary = &Summary{Dirout: sim.DirOut, Fnkey: sim.Key}
	return
}

// Renumber numbers the equations, allocates the linear system and initialises the integrator
func (o *Analysis) Renumber() (err error) {
	num, err := o.Dom.Number(o.Numberer)
	if err != nil {
		return chk.Err("cannot number equations:\n%v", err)
	}
	err = o.Sys.SetSize(&lsys.Structure{Neq: num.Neq, Conn: o.Dom.Conn()})
	if err != nil {
		return
	}
	if err = o.Integ.Init(o.Dom, o.Sys); err != nil {
		return chk.Err("cannot initialise integrator:\n%v", err)
	}
	o.sink.Infof("equations numbered: neq=%d components=%d", num.Neq, num.Ncomps)
	return
}

// NewStep starts a new increment. incr ≠ 0 sets the size of the increment
func (o *Analysis) NewStep(incr float64) (status int) {
	if o.Dom.Changed() {
		if err := o.Renumber(); err != nil {
			o.sink.Warnf("%v", err)
			return algo.BadConfig
		}
	}
	if incr != 0 {
		o.Integ.SetIncrement(incr)
	}
	if err := o.Integ.NewStep(); err != nil {
		o.sink.Warnf("cannot start increment %d: %v", o.nsteps+1, err)
		return algo.Status(err)
	}
	return algo.Success
}

// SolveStep runs the iterations of the current increment
func (o *Analysis) SolveStep() int {
	return o.current.SolveStep()
}

// ResidualNorm returns the norm of the unbalance after the last iteration
func (o *Analysis) ResidualNorm() float64 { return o.current.ResidualNorm() }

// NumIters returns the number of iterations of the last increment
func (o *Analysis) NumIters() int { return o.current.NumIters() }

// NumSteps returns the number of committed steps
func (o *Analysis) NumSteps() int { return o.nsteps }

// Stop requests the analysis to stop before the next increment
func (o *Analysis) Stop() { o.stop.Store(true) }

// Run runs nsteps increments; nsteps ≤ 0 => use the number of steps in the simulation data
func (o *Analysis) Run(nsteps int) (err error) {
	if nsteps <= 0 {
		nsteps = o.Sim.Solver.Nsteps
	}
	cputime := time.Now()
	for k := 0; k < nsteps; k++ {
		if o.stop.Load() {
			o.sink.Infof("analysis stopped after %d steps", o.nsteps)
			return
		}
		status := o.Step()
		if status != algo.Success {
			err = chk.Err("step %d failed with status %d (%s):\n%v", o.nsteps+1, status, algo.StatusString(status), o.current.Err())
			return
		}
	}
	o.sink.Infof("%d steps; final λ (or t) = %g; cpu time = %v", o.nsteps, o.Integ.Context().Lambda, time.Now().Sub(cputime))
	return
}

// Step runs one increment, retrying with smaller increments according to the divergence control
func (o *Analysis) Step() (status int) {

	// auxiliary
	s := &o.Sim.Solver
	o.nominal = o.Integ.Increment()
	ndiverg := 0 // number of retries
	o.current = o.Algo

	for {

		// run increment
		status = o.NewStep(0)
		if status == algo.Success {
			status = o.SolveStep()
		}
		if status == algo.Success {
			if err := o.Integ.Commit(); err != nil {
				o.sink.Warnf("cannot commit step %d: %v", o.nsteps+1, err)
				status = algo.IntegratorFailed
			}
		}
		o.record(status, ndiverg)
		if status == algo.Success {
			o.nsteps++
			if ndiverg > 0 {
				o.Integ.SetIncrement(o.nominal)
			}
			o.Integ.Adapt(o.NumIters())
			return
		}

		// restore state
		if err := o.Integ.Revert(); err != nil {
			o.sink.Warnf("cannot revert step %d: %v", o.nsteps+1, err)
			return algo.IntegratorFailed
		}
		if !s.DvgCtrl {
			return
		}

		// next action
		action := ActionFor(status)
		if action == Switch && o.Fallback != nil && o.current != o.Fallback {
			o.sink.Warnf(". . . status %d: switching to %s . . .", status, o.Fallback.Name())
			o.current = o.Fallback
			continue
		}
		if action == Abort {
			return
		}
		ndiverg++
		if ndiverg >= s.NdvgMax {
			o.sink.Warnf("continuous divergence after %d retries", ndiverg)
			return
		}
		incr := o.Integ.Increment() * 0.5
		if math.Abs(incr) < o.minIncrement() {
			o.sink.Warnf("increment is too small: |%g| < %g", incr, o.minIncrement())
			return
		}
		o.sink.Warnf(". . . status %d: iterations diverging (%2d); increment = %g . . .", status, ndiverg, incr)
		o.Integ.SetIncrement(incr)
	}
}

// minIncrement returns the smallest increment accepted when shrinking
func (o *Analysis) minIncrement() float64 {
	if o.Sim.Solver.Type == "transient" {
		return o.Sim.Solver.DtMin
	}
	return o.Sim.Solver.IncMin
}

// record saves step data in summary and metrics
func (o *Analysis) record(status, ndiverg int) {
	ctx := o.Integ.Context()
	rec := StepData{
		Index:   o.nsteps + 1,
		Lambda:  ctx.Lambda,
		Incr:    o.Integ.Increment(),
		Iters:   o.NumIters(),
		Resid:   o.ResidualNorm(),
		Status:  status,
		Retries: ndiverg,
	}
	if status == algo.Success {
		o.Summary.Steps = append(o.Summary.Steps, rec)
		if o.Sim.Data.Stat {
			for i, v := range o.Test.Norms() {
				o.Summary.Resids.Append(i == 0, v)
			}
		}
		if o.Sim.Solver.ShowR {
			o.sink.Infof("step %4d: λ=%13.6e  it=%3d  |R|=%23.15e", rec.Index, rec.Lambda, rec.Iters, rec.Resid)
		}
	}
	if o.Metrics != nil {
		o.Metrics.Observe(status, rec.Iters)
	}
}
