// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package conv implements convergence tests for the iterations of nonlinear solvers
package conv

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/diag"
)

// results of Test
const (
	Failed   = -2 // budget exhausted, divergence or usage error
	Continue = -1 // not converged yet
)

// Verdict is the state of the test after the last call to Test
type Verdict int

const (
	Going     Verdict = iota // iterations must continue
	Converged                // tolerance satisfied
	NearMiss                 // budget exhausted but accepted
	Failure                  // see Reason
)

// Reason tells why the test failed
type Reason int

const (
	NoReason   Reason = iota
	MaxIters          // iteration budget exhausted
	Diverged          // non-finite norm or norm kept increasing
	NotStarted        // Test called before Start
	NoSource          // vectors were not set
)

func (r Reason) String() string {
	switch r {
	case MaxIters:
		return "maximum number of iterations reached"
	case Diverged:
		return "iterations diverged"
	case NotStarted:
		return "test was not started"
	case NoSource:
		return "test has no vectors"
	}
	return ""
}

// Source provides the vectors of the linear system
type Source interface {
	X() la.Vector // solution increment
	B() la.Vector // unbalanced forces
}

// Test defines convergence tests. Usage:
//  t.Start()
//  for { ...; r := t.Test(); if r != Continue { break } }
// Test returns the number of iterations (≥ 1) on convergence, Continue, or Failed
type Test interface {
	Name() string
	SetSource(s Source)
	Start()
	Test() int
	NumIters() int
	Norms() []float64
	Norm(k int) float64
	Verdict() Verdict
	Reason() Reason
	Tol() float64
	SetTol(tol float64)
	MaxIt() int
}

// Options holds optional settings of tests
type Options struct {
	NormType int  // 0: max norm; 1: one norm; 2: two norm
	MaxIncr  int  // number of consecutive increases of the norm accepted before divergence; 0 => no check
	NearMiss bool // accept the last iteration when the budget is exhausted
}

// testallocators holds all available tests
var testallocators = make(map[string]func(tol float64, maxIt int, opt Options, sink diag.Sink) Test)

// New returns a test by name
func New(name string, tol float64, maxIt int, opt Options, sink diag.Sink) (Test, error) {
	alloc, ok := testallocators[name]
	if !ok {
		return nil, chk.Err("cannot find convergence test named %q. options are %v", name, Names())
	}
	if maxIt < 1 {
		return nil, chk.Err("maximum number of iterations must be positive. %d is invalid", maxIt)
	}
	if name != "fixed" && tol <= 0 {
		return nil, chk.Err("tolerance must be positive. %g is invalid", tol)
	}
	if opt.NormType < 0 || opt.NormType > 2 {
		return nil, chk.Err("norm type must be 0, 1 or 2. %d is invalid", opt.NormType)
	}
	return alloc(tol, maxIt, opt, diag.Or(sink)), nil
}

// Names returns the names of all tests
func Names() (names []string) {
	for name := range testallocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// Norm computes a vector norm: 0 => max |vᵢ|; 1 => Σ |vᵢ|; 2 => Euclidean
func Norm(v la.Vector, normType int) (res float64) {
	switch normType {
	case 0:
		if len(v) == 0 {
			return 0
		}
		return v.Largest(1)
	case 1:
		for _, x := range v {
			if x < 0 {
				res -= x
			} else {
				res += x
			}
		}
		return
	}
	return v.Norm()
}
