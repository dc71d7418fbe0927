// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsys

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/diag"
)

// System holds A (tangent), b (unbalance) and x (solution increment).
// A is factorised on demand: Solve factorises only if A was modified since the last
// factorisation; otherwise the existing factors are reused
type System struct {
	solver   Solver     // storage and factorisation of A
	st       *Structure // current structure
	b        la.Vector  // right-hand side
	x        la.Vector  // solution
	stale    bool       // A was modified after the last factorisation
	factored bool       // factors are available
	arena    Arena      // local buffers
	sink     diag.Sink  // diagnostics
}

// NewSystem returns a new linear system using the named backend
func NewSystem(backend string, sink diag.Sink) (o *System, err error) {
	o = &System{sink: diag.Or(sink)}
	o.solver, err = NewSolver(backend)
	if err != nil {
		return nil, err
	}
	return
}

// SetSize allocates storage for a new structure; e.g. after renumbering
func (o *System) SetSize(st *Structure) (err error) {
	if st == nil || st.Neq < 1 {
		return chk.Err("linear system needs at least one equation")
	}
	err = o.solver.Alloc(st)
	if err != nil {
		return chk.Err("cannot allocate %s storage:\n%v", o.solver.Name(), err)
	}
	o.st = st
	o.b = la.NewVector(st.Neq)
	o.x = la.NewVector(st.Neq)
	o.stale = true
	o.factored = false
	o.sink.Infof("linear system: backend=%s neq=%d halfband=%d", o.solver.Name(), st.Neq, st.HalfBand())
	return
}

// Backend returns the name of the backend
func (o *System) Backend() string { return o.solver.Name() }

// Neq returns the number of equations (0 if not sized)
func (o *System) Neq() int { return len(o.b) }

// Sized tells whether SetSize was called
func (o *System) Sized() bool { return o.st != nil }

// B returns the right-hand side; i.e. the unbalanced force vector
func (o *System) B() la.Vector { return o.b }

// X returns the solution; i.e. the increment of the unknowns
func (o *System) X() la.Vector { return o.x }

// Arena returns the buffers for local matrices and vectors
func (o *System) Arena() *Arena { return &o.arena }

// Factored tells whether valid factors of A are available
func (o *System) Factored() bool { return o.factored && !o.stale }

// Zero sets A = 0 and b = 0
func (o *System) Zero() {
	o.ZeroA()
	o.ZeroB()
}

// ZeroA sets A = 0 and invalidates the factors
func (o *System) ZeroA() {
	o.solver.Zero()
	o.stale = true
}

// ZeroB sets b = 0
func (o *System) ZeroB() {
	o.b.Fill(0)
}

// MarkStale invalidates the factors
func (o *System) MarkStale() { o.stale = true }

// AddA adds fact⋅K into A. idx holds the equation numbers of the rows/columns of K;
// negative numbers (constrained DOFs) are skipped
func (o *System) AddA(K *la.Matrix, idx []int, fact float64) {
	for a, I := range idx {
		if I < 0 {
			continue
		}
		for b, J := range idx {
			if J < 0 {
				continue
			}
			if v := K.Get(a, b); v != 0 {
				o.solver.Add(I, J, fact*v)
			}
		}
	}
	o.stale = true
}

// AddB adds fact⋅f into b
func (o *System) AddB(f []float64, idx []int, fact float64) {
	for a, I := range idx {
		if I >= 0 {
			o.b[I] += fact * f[a]
		}
	}
}

// SetB copies v into b
func (o *System) SetB(v []float64) {
	copy(o.b, v)
}

// SetX copies v into x
func (o *System) SetX(v []float64) {
	copy(o.x, v)
}

// Solve solves A⋅x = b, factorising A first if needed
func (o *System) Solve() (err error) {
	if o.st == nil {
		return ErrNotSized
	}
	if o.stale || !o.factored {
		o.factored = false
		err = o.solver.Factorize()
		if err != nil {
			return fmt.Errorf("%s factorisation failed: %w", o.solver.Name(), err)
		}
		o.stale = false
		o.factored = true
	}
	err = o.solver.Solve(o.x, o.b)
	if err != nil {
		return fmt.Errorf("%s solution failed: %w", o.solver.Name(), err)
	}
	return
}

// NegPivots returns the number of negative pivots of the last factorisation if the backend
// provides it; otherwise it returns -1
func (o *System) NegPivots() int {
	if s, ok := o.solver.(interface{ NegPivots() int }); ok {
		return s.NegPivots()
	}
	return -1
}
