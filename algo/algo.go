// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package algo implements solution algorithms that run the iterations of one increment
package algo

import (
	"errors"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/xcfem/xc-sub035/conv"
	"github.com/xcfem/xc-sub035/diag"
	"github.com/xcfem/xc-sub035/integ"
	"github.com/xcfem/xc-sub035/lsys"
)

// status codes returned by SolveStep
const (
	Success          = 0  // converged
	NotConverged     = -1 // iteration budget exhausted
	LinSysFailed     = -2 // singular or indefinite tangent
	IntegratorFailed = -3 // e.g. imaginary arc-length roots
	Diverged         = -4 // norm is not finite or kept increasing
	BadConfig        = -5 // missing collaborators or wrong usage
)

// StatusString returns a description of a status code
func StatusString(status int) string {
	switch status {
	case Success:
		return "success"
	case NotConverged:
		return "not converged"
	case LinSysFailed:
		return "linear system failed"
	case IntegratorFailed:
		return "integrator failed"
	case Diverged:
		return "diverged"
	case BadConfig:
		return "bad configuration"
	}
	return "unknown"
}

// Algorithm runs the iterations of one increment. Retrying is left to the caller
type Algorithm interface {
	Name() string
	SolveStep() int        // runs the iterations of the current increment; returns a status code
	NumIters() int         // number of iterations of the last call to SolveStep
	ResidualNorm() float64 // Euclidean norm of the unbalance after the last update
	Err() error            // cause of the last failure
	Test() conv.Test       // convergence test (nil for linear)
}

// Config holds the parameters of algorithms
type Config struct {
	LineSearch string  // line search for newtonls: "interpolated", "bisection", "secant" or "regulafalsi"
	LsTol      float64 // line search: tolerance on |s/s0|; 0 => 0.8
	LsMaxIt    int     // line search: maximum number of iterations; 0 => 10
	LsEtaMin   float64 // line search: minimum η; 0 => 0.1
	LsEtaMax   float64 // line search: maximum η; 0 => 10
	ShowR      bool    // show residuals
}

// allocators holds all available algorithms
var allocators = make(map[string]func(cfg *Config, b base) (Algorithm, error))

// New returns an algorithm by name
func New(name string, cfg *Config, it integ.Integrator, sys *lsys.System, test conv.Test, sink diag.Sink) (Algorithm, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("cannot find algorithm named %q. options are %v", name, Names())
	}
	if it == nil || sys == nil {
		return nil, chk.Err("algorithm %q needs an integrator and a linear system", name)
	}
	if name != "linear" && test == nil {
		return nil, chk.Err("algorithm %q needs a convergence test", name)
	}
	if cfg == nil {
		cfg = new(Config)
	}
	if test != nil {
		test.SetSource(sys)
	}
	return alloc(cfg, base{name: name, it: it, sys: sys, test: test, sink: diag.Or(sink), showR: cfg.ShowR})
}

// Names returns the names of all algorithms
func Names() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// base holds data shared by all algorithms
type base struct {
	name  string
	it    integ.Integrator
	sys   *lsys.System
	test  conv.Test
	sink  diag.Sink
	showR bool
	nit   int     // number of iterations
	res   float64 // residual norm
	err   error   // last error
}

func (o *base) Name() string          { return o.name }
func (o *base) NumIters() int         { return o.nit }
func (o *base) ResidualNorm() float64 { return o.res }
func (o *base) Err() error            { return o.err }
func (o *base) Test() conv.Test       { return o.test }

// ready checks the collaborators at the start of a step
func (o *base) ready() int {
	o.nit, o.err = 0, nil
	if !o.sys.Sized() {
		o.err = chk.Err("%s: linear system has no storage; equations must be numbered first", o.name)
		o.sink.Warnf("%v", o.err)
		return BadConfig
	}
	return Success
}

// unbalance forms b and records its norm
func (o *base) unbalance() int {
	if err := o.it.FormUnbalance(); err != nil {
		return o.failed(err)
	}
	o.res = o.sys.B().Norm()
	if o.showR {
		o.sink.Infof("%s: it=%3d  |R| = %23.15e", o.name, o.nit, o.res)
	}
	return Success
}

// failed records the error of an integrator or linear system operation
func (o *base) failed(err error) int {
	o.err = err
	o.sink.Warnf("%s: iteration %d failed: %v", o.name, o.nit, err)
	return Status(err)
}

// Status maps an error of an integrator or linear system operation to a status code
func Status(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, lsys.ErrSingular), errors.Is(err, lsys.ErrIndefinite), errors.Is(err, lsys.ErrNotSized):
		return LinSysFailed
	}
	return IntegratorFailed
}

// solve solves the linear system
func (o *base) solve() int {
	if err := o.sys.Solve(); err != nil {
		o.err = err
		o.sink.Warnf("%s: iteration %d: cannot solve linear system: %v", o.name, o.nit, err)
		return LinSysFailed
	}
	return Success
}

// verdict maps a failed test to a status code
func (o *base) verdict() int {
	r := o.test.Reason()
	o.err = chk.Err("%s: %s after %d iterations", o.test.Name(), r, o.nit)
	switch r {
	case conv.MaxIters:
		return NotConverged
	case conv.Diverged:
		return Diverged
	}
	return BadConfig
}
