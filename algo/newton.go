// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package algo

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/conv"
	"github.com/xcfem/xc-sub035/integ"
)

// tangent updates
const (
	tgCurrent = iota // every iteration
	tgStep           // first iteration of each step
	tgInitial        // first iteration of the analysis
)

// Newton implements the Newton-Raphson method and its modified variants
type Newton struct {
	base
	mode   int         // tangent updates
	formed bool        // tangent was formed (tgInitial)
	ls     *LineSearch // line search; may be nil
	ΔU     la.Vector   // increment (line search)
	b0     la.Vector   // unbalance before the update (line search)
}

// set factory
func init() {
	alloc := func(mode int, withLs bool) func(cfg *Config, b base) (Algorithm, error) {
		return func(cfg *Config, b base) (Algorithm, error) {
			o := &Newton{base: b, mode: mode}
			if withLs {
				if integ.Corrects(b.it) {
					return nil, chk.Err("line search cannot be used with integrator %q because it corrects the load factor at every update", b.it.Name())
				}
				name := cfg.LineSearch
				if name == "" {
					name = "interpolated"
				}
				ls, err := NewLineSearch(name, cfg.LsTol, cfg.LsMaxIt, cfg.LsEtaMin, cfg.LsEtaMax, b.sink)
				if err != nil {
					return nil, err
				}
				o.ls = ls
			}
			return o, nil
		}
	}
	allocators["newton"] = alloc(tgCurrent, false)
	allocators["modnewton"] = alloc(tgStep, false)
	allocators["initialnewton"] = alloc(tgInitial, false)
	allocators["newtonls"] = alloc(tgCurrent, true)
}

// LineSearch returns the line search (nil if not used)
func (o *Newton) LineSearch() *LineSearch { return o.ls }

// needTangent tells whether the tangent must be formed at this iteration
func (o *Newton) needTangent() bool {
	switch o.mode {
	case tgStep:
		return o.nit == 1 || !o.sys.Factored()
	case tgInitial:
		return !o.formed || !o.sys.Factored()
	}
	return true
}

// SolveStep iterates until the convergence test gives a verdict
func (o *Newton) SolveStep() (status int) {
	if status = o.ready(); status != Success {
		return
	}
	o.test.Start()
	if status = o.unbalance(); status != Success {
		return
	}
	for {
		o.nit++

		// tangent
		if o.needTangent() {
			if err := o.it.FormTangent(); err != nil {
				return o.failed(err)
			}
			o.formed = true
		}

		// solve
		if status = o.solve(); status != Success {
			return
		}
		if o.ls != nil {
			if len(o.ΔU) != o.sys.Neq() {
				o.ΔU = la.NewVector(o.sys.Neq())
				o.b0 = la.NewVector(o.sys.Neq())
			}
			copy(o.b0, o.sys.B())
		}

		// update
		if err := o.it.Update(o.sys.X()); err != nil {
			return o.failed(err)
		}
		var s0 float64
		if o.ls != nil {
			copy(o.ΔU, o.sys.X())
			s0 = la.VecDot(o.ΔU, o.b0)
		}
		if status = o.unbalance(); status != Success {
			return
		}

		// line search
		if o.ls != nil {
			s1 := la.VecDot(o.ΔU, o.sys.B())
			η, err := o.ls.Search(s0, s1, o.ΔU, o.it, o.sys)
			if err != nil {
				return o.failed(err)
			}
			if η != 1 {
				for i := range o.ΔU {
					o.ΔU[i] *= η
				}
				o.sys.SetX(o.ΔU)
				o.res = o.sys.B().Norm()
			}
		}

		// check
		switch o.test.Test() {
		case conv.Continue:
			continue
		case conv.Failed:
			status = o.verdict()
			o.sink.Warnf("%v", o.err)
			return
		}
		return Success
	}
}
