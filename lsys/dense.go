// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsys

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Dense stores A as a full matrix and factorises it with LU and partial pivoting
type Dense struct {
	n  int
	a  *mat.Dense
	lu mat.LU
}

// DenseSPD stores the upper triangle of a symmetric A and factorises it with Cholesky
type DenseSPD struct {
	n  int
	a  *mat.SymDense
	ch mat.Cholesky
}

// set factory
func init() {
	solverallocators["dense"] = func() Solver { return new(Dense) }
	solverallocators["dense-spd"] = func() Solver { return new(DenseSPD) }
}

func (o *Dense) Name() string { return "dense" }

func (o *Dense) Alloc(st *Structure) error {
	o.n = st.Neq
	o.a = mat.NewDense(o.n, o.n, nil)
	return nil
}

func (o *Dense) Zero() { o.a.Zero() }

func (o *Dense) Add(i, j int, v float64) {
	o.a.Set(i, j, o.a.At(i, j)+v)
}

func (o *Dense) Factorize() error {
	o.lu.Factorize(o.a)
	if c := o.lu.Cond(); math.IsInf(c, 0) || math.IsNaN(c) || c > mat.ConditionTolerance {
		return fmt.Errorf("%w: dense LU condition number = %g", ErrSingular, c)
	}
	return nil
}

func (o *Dense) Solve(x, b []float64) error {
	dst := mat.NewVecDense(o.n, x)
	if err := o.lu.SolveVecTo(dst, false, mat.NewVecDense(o.n, b)); err != nil {
		return fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return nil
}

func (o *DenseSPD) Name() string { return "dense-spd" }

func (o *DenseSPD) Alloc(st *Structure) error {
	o.n = st.Neq
	o.a = mat.NewSymDense(o.n, nil)
	return nil
}

func (o *DenseSPD) Zero() { o.a.Zero() }

// Add only uses the upper triangle
func (o *DenseSPD) Add(i, j int, v float64) {
	if i > j {
		return
	}
	o.a.SetSym(i, j, o.a.At(i, j)+v)
}

func (o *DenseSPD) Factorize() error {
	if ok := o.ch.Factorize(o.a); !ok {
		return fmt.Errorf("%w: dense Cholesky failed", ErrIndefinite)
	}
	if c := o.ch.Cond(); c > mat.ConditionTolerance {
		return fmt.Errorf("%w: dense Cholesky condition number = %g", ErrSingular, c)
	}
	return nil
}

func (o *DenseSPD) Solve(x, b []float64) error {
	dst := mat.NewVecDense(o.n, x)
	if err := o.ch.SolveVecTo(dst, mat.NewVecDense(o.n, b)); err != nil {
		return fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return nil
}
