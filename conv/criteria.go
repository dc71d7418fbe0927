// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conv

import (
	"math"

	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/diag"
)

// set factory
func init() {
	add := func(name string, rel bool, measure func(o *Criterion) float64) {
		testallocators[name] = func(tol float64, maxIt int, opt Options, sink diag.Sink) Test {
			return &Criterion{name: name, rel: rel, measure: measure, tol: tol, maxIt: maxIt, opt: opt, sink: sink}
		}
	}
	unbalance := func(o *Criterion) float64 { return Norm(o.src.B(), o.opt.NormType) }
	dispincr := func(o *Criterion) float64 { return Norm(o.src.X(), o.opt.NormType) }
	energy := func(o *Criterion) float64 { return 0.5 * math.Abs(la.VecDot(o.src.X(), o.src.B())) }
	add("normunbalance", false, unbalance)
	add("normdispincr", false, dispincr)
	add("energyincr", false, energy)
	add("relnormunbalance", true, unbalance)
	add("relnormdispincr", true, dispincr)
	add("relenergyincr", true, energy)
	add("reltotalnormdispincr", false, func(o *Criterion) float64 {
		x := o.src.X()
		if len(o.total) != len(x) {
			o.total = la.NewVector(len(x))
		}
		for i := range x {
			o.total[i] += x[i]
		}
		den := Norm(o.total, o.opt.NormType)
		if den == 0 {
			return 0
		}
		return Norm(x, o.opt.NormType) / den
	})
	testallocators["fixed"] = func(tol float64, maxIt int, opt Options, sink diag.Sink) Test {
		return &Criterion{name: "fixed", fixed: true, tol: tol, maxIt: maxIt, opt: opt, sink: sink,
			measure: unbalance}
	}
}

// Criterion implements all tests. The measured value is compared with the tolerance directly
// or, if rel is set, relative to the value measured at the first iteration (baseline)
type Criterion struct {

	// configuration
	name    string
	rel     bool                       // relative to baseline
	fixed   bool                       // converges at maxIt regardless of the norm
	measure func(o *Criterion) float64 // measured quantity
	tol     float64                    // tolerance
	maxIt   int                        // iteration budget
	opt     Options                    // options
	sink    diag.Sink                  // diagnostics
	src     Source                     // vectors

	// state
	started bool      // Start was called
	iter    int       // current iteration (starts at 1)
	norms   []float64 // measured values since Start
	norm0   float64   // baseline
	nincr   int       // consecutive increases
	total   la.Vector // accumulated increments (reltotalnormdispincr)
	verdict Verdict
	reason  Reason
}

func (o *Criterion) Name() string       { return o.name }
func (o *Criterion) SetSource(s Source) { o.src = s }
func (o *Criterion) NumIters() int      { return o.iter }
func (o *Criterion) Norms() []float64   { return o.norms }
func (o *Criterion) Verdict() Verdict   { return o.verdict }
func (o *Criterion) Reason() Reason     { return o.reason }
func (o *Criterion) Tol() float64       { return o.tol }
func (o *Criterion) SetTol(tol float64) { o.tol = tol }
func (o *Criterion) MaxIt() int         { return o.maxIt }

// Start resets the test before the iterations of a new step
func (o *Criterion) Start() {
	o.started = true
	o.iter = 1
	o.norms = o.norms[:0]
	o.norm0 = 0
	o.nincr = 0
	o.total.Fill(0)
	o.verdict = Going
	o.reason = NoReason
}

// Norm returns the k-th recorded value. Invalid indices give a diagnostic and -1
func (o *Criterion) Norm(k int) float64 {
	if k < 0 || k >= len(o.norms) {
		o.sink.Warnf("%s: norm index %d is out of range [0,%d)", o.name, k, len(o.norms))
		return -1
	}
	return o.norms[k]
}

// Test checks convergence of the current iteration
func (o *Criterion) Test() int {

	// usage errors
	if !o.started {
		o.sink.Warnf("%s: Test called before Start", o.name)
		return o.fail(NotStarted)
	}
	if o.src == nil {
		o.sink.Warnf("%s: vectors were not set", o.name)
		return o.fail(NoSource)
	}

	// measure
	v := o.measure(o)
	o.norms = append(o.norms, v)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		o.sink.Warnf("%s: norm is %v at iteration %d", o.name, v, o.iter)
		return o.fail(Diverged)
	}

	// divergence check on consecutive increases
	if o.opt.MaxIncr > 0 && len(o.norms) > 1 {
		if v > o.norms[len(o.norms)-2] {
			o.nincr++
			if o.nincr >= o.opt.MaxIncr {
				o.sink.Warnf("%s: norm increased %d consecutive times", o.name, o.nincr)
				return o.fail(Diverged)
			}
		} else {
			o.nincr = 0
		}
	}

	// check
	converged := false
	switch {
	case o.fixed:
		converged = o.iter >= o.maxIt
	case o.rel:
		if o.norm0 == 0 {
			o.norm0 = v // zero => not yet measurable
		}
		if o.norm0 != 0 {
			converged = v/o.norm0 <= o.tol
		}
	default:
		converged = v <= o.tol
	}
	if converged {
		o.verdict = Converged
		return o.iter
	}

	// budget
	if o.iter >= o.maxIt {
		if o.opt.NearMiss {
			o.sink.Warnf("%s: accepting iteration %d with norm %g (tol = %g)", o.name, o.iter, v, o.tol)
			o.verdict = NearMiss
			return o.iter
		}
		return o.fail(MaxIters)
	}
	o.iter++
	return Continue
}

func (o *Criterion) fail(r Reason) int {
	o.verdict = Failure
	o.reason = r
	return Failed
}
