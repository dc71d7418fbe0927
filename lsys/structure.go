// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lsys implements the linear system A⋅x = b solved at each iteration
package lsys

import (
	"errors"

	"github.com/xcfem/xc-sub035/eqs"
)

// errors returned by Solve and Factorize. Callers test them with errors.Is
var (
	ErrSingular   = errors.New("singular matrix")
	ErrIndefinite = errors.New("matrix is not positive definite")
	ErrNotSized   = errors.New("linear system has not been sized")
)

// Structure describes the sparsity of A
type Structure struct {
	Neq  int     // number of equations
	Conn [][]int // equations of each entity; negative values are skipped
}

// HalfBand returns the half bandwidth
func (o *Structure) HalfBand() int {
	return eqs.Bandwidth(o.Conn)
}

// Heights returns the skyline heights of columns
func (o *Structure) Heights() []int {
	return eqs.Heights(o.Neq, o.Conn)
}

// NnzMax returns the maximum number of entries added in one assembly
func (o *Structure) NnzMax() (nnz int) {
	for _, c := range o.Conn {
		m := 0
		for _, i := range c {
			if i >= 0 {
				m++
			}
		}
		nnz += m * m
	}
	if nnz < o.Neq {
		nnz = o.Neq
	}
	return
}
