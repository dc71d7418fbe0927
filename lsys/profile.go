// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsys

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
)

// Profile stores the upper triangle of a symmetric A by columns (skyline) and factorises it
// as L⋅D⋅Lᵀ without pivoting. Indefinite matrices are accepted as long as no pivot vanishes
type Profile struct {
	n      int
	top    []int     // [n] first row stored in each column
	start  []int     // [n+1] position of the first stored entry of each column
	a      []float64 // column entries from top[j] to j
	negpiv int       // number of negative pivots of last factorisation
}

// set factory
func init() {
	solverallocators["profile"] = func() Solver { return new(Profile) }
}

func (o *Profile) Name() string { return "profile" }

func (o *Profile) Alloc(st *Structure) error {
	h := st.Heights()
	o.n = st.Neq
	o.top = make([]int, o.n)
	o.start = make([]int, o.n+1)
	for j := 0; j < o.n; j++ {
		o.top[j] = j - h[j]
		o.start[j+1] = o.start[j] + h[j] + 1
	}
	o.a = make([]float64, o.start[o.n])
	return nil
}

func (o *Profile) Zero() {
	for k := range o.a {
		o.a[k] = 0
	}
}

// pos returns the position of A[i][j] with i ≤ j
func (o *Profile) pos(i, j int) int {
	return o.start[j] + i - o.top[j]
}

// Add only uses the upper triangle
func (o *Profile) Add(i, j int, v float64) {
	if i > j {
		return
	}
	if i < o.top[j] {
		chk.Panic("profile: entry (%d,%d) is outside the skyline", i, j)
	}
	o.a[o.pos(i, j)] += v
}

// NegPivots returns the number of negative pivots of the last factorisation
func (o *Profile) NegPivots() int { return o.negpiv }

func (o *Profile) Factorize() error {
	o.negpiv = 0
	for j := 0; j < o.n; j++ {
		mj := o.top[j]

		// g_ij = a_ij - Σ l_ri g_rj
		for i := mj + 1; i < j; i++ {
			r0 := imax(o.top[i], mj)
			s := o.a[o.pos(i, j)]
			for r := r0; r < i; r++ {
				s -= o.a[o.pos(r, i)] * o.a[o.pos(r, j)]
			}
			o.a[o.pos(i, j)] = s
		}

		// l_ij = g_ij / d_i and d_j
		d := o.a[o.pos(j, j)]
		for i := mj; i < j; i++ {
			g := o.a[o.pos(i, j)]
			l := g / o.a[o.pos(i, i)]
			d -= l * g
			o.a[o.pos(i, j)] = l
		}
		if math.IsNaN(d) || d == 0 {
			return fmt.Errorf("%w: profile LDLᵀ pivot %d is %g", ErrSingular, j, d)
		}
		if d < 0 {
			o.negpiv++
		}
		o.a[o.pos(j, j)] = d
	}
	return nil
}

func (o *Profile) Solve(x, b []float64) error {
	copy(x, b)
	for j := 0; j < o.n; j++ {
		for i := o.top[j]; i < j; i++ {
			x[j] -= o.a[o.pos(i, j)] * x[i]
		}
	}
	for j := 0; j < o.n; j++ {
		x[j] /= o.a[o.pos(j, j)]
	}
	for j := o.n - 1; j >= 0; j-- {
		for i := o.top[j]; i < j; i++ {
			x[i] -= o.a[o.pos(i, j)] * x[j]
		}
	}
	return nil
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
