// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsys

import (
	"fmt"

	"github.com/cpmech/gosl/la"
)

// Umfpack stores A in triplet format and uses the sparse direct solver from gosl
type Umfpack struct {
	n    int
	t    *la.Triplet
	s    la.SparseSolver
	init bool
}

// set factory
func init() {
	solverallocators["umfpack"] = func() Solver { return new(Umfpack) }
}

func (o *Umfpack) Name() string { return "umfpack" }

func (o *Umfpack) Alloc(st *Structure) error {
	o.free()
	o.n = st.Neq
	o.t = new(la.Triplet)
	o.t.Init(o.n, o.n, st.NnzMax())
	return nil
}

func (o *Umfpack) Zero() { o.t.Start() }

func (o *Umfpack) Add(i, j int, v float64) { o.t.Put(i, j, v) }

// Factorize converts the panics of the sparse solver into errors
func (o *Umfpack) Factorize() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: umfpack: %v", ErrSingular, r)
		}
	}()
	if !o.init {
		o.s = la.NewSparseSolver("umfpack")
		o.s.Init(o.t, &la.SpArgs{})
		o.init = true
	}
	o.s.Fact()
	return
}

func (o *Umfpack) Solve(x, b []float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: umfpack: %v", ErrSingular, r)
		}
	}()
	o.s.Solve(x, b, false)
	return
}

func (o *Umfpack) free() {
	if o.init {
		o.s.Free()
		o.init = false
	}
}
