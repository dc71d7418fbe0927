// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package algo

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/diag"
)

// Stepper moves the trial state along the search direction and forms the new unbalance
type Stepper interface {
	Update(ΔU []float64) error
	FormUnbalance() error
}

// Rhs gives the unbalance
type Rhs interface {
	B() la.Vector
}

// LineSearch finds η ∈ [EtaMin, EtaMax] such that s(η) = ΔU⋅R(U + η⋅ΔU) is small compared to
// s0 = ΔU⋅R(U). The search ends when |s/s0| ≤ Tol, after MaxIt trials, or when the trial η
// repeats; a repeated η is taken as converged
type LineSearch struct {

	// configuration
	name    string
	next    func(o *LineSearch) float64 // next trial η
	bracket bool                        // keep a bracket [ηL, ηU] with opposite signs of s
	Tol     float64                     // tolerance on |s/s0|
	MaxIt   int                         // maximum number of trials
	EtaMin  float64                     // minimum η
	EtaMax  float64                     // maximum η
	sink    diag.Sink

	// state
	nit    int       // number of trials
	s0     float64   // s at η = 0
	η, s   float64   // current trial
	ηq, sq float64   // previous trial
	ηL, sL float64   // lower end of bracket
	ηU, sU float64   // upper end of bracket
	dU     la.Vector // workspace
}

// lsallocators holds the rules of all line searches
var lsallocators = map[string]struct {
	next    func(o *LineSearch) float64
	bracket bool
}{
	"interpolated": {func(o *LineSearch) float64 { return o.η * o.s0 / (o.s0 - o.s) }, false},
	"secant": {func(o *LineSearch) float64 {
		den := o.sq - o.s
		if den == 0 {
			return o.η
		}
		return o.η - o.s*(o.ηq-o.η)/den
	}, false},
	"bisection": {func(o *LineSearch) float64 { return (o.ηL + o.ηU) / 2 }, true},
	"regulafalsi": {func(o *LineSearch) float64 {
		den := o.sL - o.sU
		if den == 0 {
			return o.η
		}
		return o.ηU - o.sU*(o.ηL-o.ηU)/den
	}, true},
}

// NewLineSearch returns a new line search. Zero values select the defaults:
//  tol=0.8, maxIt=10, ηmin=0.1, ηmax=10
func NewLineSearch(name string, tol float64, maxIt int, ηmin, ηmax float64, sink diag.Sink) (o *LineSearch, err error) {
	rule, ok := lsallocators[name]
	if !ok {
		return nil, chk.Err("cannot find line search named %q. options are [bisection interpolated regulafalsi secant]", name)
	}
	o = &LineSearch{name: name, next: rule.next, bracket: rule.bracket, Tol: tol, MaxIt: maxIt, EtaMin: ηmin, EtaMax: ηmax, sink: diag.Or(sink)}
	if o.Tol == 0 {
		o.Tol = 0.8
	}
	if o.MaxIt == 0 {
		o.MaxIt = 10
	}
	if o.EtaMin == 0 {
		o.EtaMin = 0.1
	}
	if o.EtaMax == 0 {
		o.EtaMax = 10
	}
	if o.Tol < 0 || o.Tol >= 1 {
		return nil, chk.Err("line search tolerance must be in (0, 1). %g is invalid", o.Tol)
	}
	if o.MaxIt < 0 {
		return nil, chk.Err("line search: maximum number of iterations must not be negative. %d is invalid", o.MaxIt)
	}
	if o.EtaMin < 0 || o.EtaMin > 1 || o.EtaMax < 1 {
		return nil, chk.Err("line search needs 0 ≤ ηmin ≤ 1 ≤ ηmax. ηmin=%g ηmax=%g are invalid", o.EtaMin, o.EtaMax)
	}
	return
}

func (o *LineSearch) Name() string  { return o.name }
func (o *LineSearch) NumIters() int { return o.nit }

// Search runs the line search. The full increment ΔU (η = 1) must have been applied and
// s1 = ΔU⋅R(U + ΔU) computed. On return the trial state corresponds to η
func (o *LineSearch) Search(s0, s1 float64, ΔU la.Vector, st Stepper, rhs Rhs) (η float64, err error) {

	// no search required
	o.nit = 0
	if s0 == 0 {
		return 1, nil
	}
	r0 := math.Abs(s1 / s0)
	if r0 <= o.Tol {
		return 1, nil
	}

	// initial state
	o.s0 = s0
	o.η, o.s = 1, s1
	o.ηq, o.sq = 0, s0
	o.ηL, o.sL = 0, s0
	o.ηU, o.sU = 1, s1
	if len(o.dU) != len(ΔU) {
		o.dU = la.NewVector(len(ΔU))
	}

	// bracket
	r := r0
	if o.bracket {
		for o.sU*s0 > 0 && o.ηU < o.EtaMax && o.nit < o.MaxIt {
			if err = o.move(math.Min(2*o.ηU, o.EtaMax), ΔU, st, rhs); err != nil {
				return o.η, err
			}
			o.ηU, o.sU = o.η, o.s
		}
		if o.sU*s0 > 0 {
			return o.η, nil
		}
		r = math.Abs(o.s / s0)
	}

	// search
	for r > o.Tol && o.nit < o.MaxIt {
		η = o.next(o)
		if !o.bracket && r > r0 {
			η = 1
		}
		η = math.Max(o.EtaMin, math.Min(o.EtaMax, η))
		if η == o.η {
			o.sink.Infof("line search: η=%g repeated after %d trials", η, o.nit)
			break
		}
		if err = o.move(η, ΔU, st, rhs); err != nil {
			return o.η, err
		}
		if o.bracket {
			if o.s*o.sL > 0 {
				o.ηL, o.sL = o.η, o.s
			} else {
				o.ηU, o.sU = o.η, o.s
			}
		}
		r = math.Abs(o.s / s0)
	}
	return o.η, nil
}

// move applies (η - ηcurrent)⋅ΔU and computes s(η)
func (o *LineSearch) move(η float64, ΔU la.Vector, st Stepper, rhs Rhs) (err error) {
	for i := range ΔU {
		o.dU[i] = (η - o.η) * ΔU[i]
	}
	if err = st.Update(o.dU); err != nil {
		return
	}
	if err = st.FormUnbalance(); err != nil {
		return
	}
	o.nit++
	o.ηq, o.sq = o.η, o.s
	o.η = η
	o.s = la.VecDot(ΔU, rhs.B())
	return
}
