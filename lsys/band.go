// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsys

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Band stores a general banded A with kl = ku = half bandwidth and factorises it with LU and
// partial pivoting. Row i keeps columns i-kl to i+ku+kl to hold the fill-in due to pivoting
type Band struct {
	n, kl, ku int
	w         int       // width of each row
	a         []float64 // [n*w]
	piv       []int
}

// BandSPD stores the upper band of a symmetric A and factorises it with Cholesky
type BandSPD struct {
	n, k int
	a    *mat.SymBandDense
	ch   mat.BandCholesky
}

// set factory
func init() {
	solverallocators["band"] = func() Solver { return new(Band) }
	solverallocators["band-spd"] = func() Solver { return new(BandSPD) }
}

func (o *Band) Name() string { return "band" }

func (o *Band) Alloc(st *Structure) error {
	o.n = st.Neq
	o.kl = st.HalfBand()
	o.ku = o.kl
	o.w = 2*o.kl + o.ku + 1
	o.a = make([]float64, o.n*o.w)
	o.piv = make([]int, o.n)
	return nil
}

func (o *Band) Zero() {
	for k := range o.a {
		o.a[k] = 0
	}
}

// pos returns the position of A[i][j] in the storage
func (o *Band) pos(i, j int) int {
	return i*o.w + j - i + o.kl
}

func (o *Band) Add(i, j int, v float64) {
	if j-i > o.ku || i-j > o.kl {
		chk.Panic("band: entry (%d,%d) is outside the band (kl=%d, ku=%d)", i, j, o.kl, o.ku)
	}
	o.a[o.pos(i, j)] += v
}

func (o *Band) Factorize() error {
	anorm := 0.0
	for _, v := range o.a {
		anorm = math.Max(anorm, math.Abs(v))
	}
	tiny := anorm * float64(o.n) * 1e-15
	for k := 0; k < o.n; k++ {
		last := imin(o.n-1, k+o.kl)
		p := k
		for i := k + 1; i <= last; i++ {
			if math.Abs(o.a[o.pos(i, k)]) > math.Abs(o.a[o.pos(p, k)]) {
				p = i
			}
		}
		akk := o.a[o.pos(p, k)]
		if math.IsNaN(akk) || math.Abs(akk) <= tiny {
			return fmt.Errorf("%w: band LU pivot %d is %g", ErrSingular, k, akk)
		}
		o.piv[k] = p
		right := imin(o.n-1, k+o.ku+o.kl)
		if p != k {
			for j := k; j <= right; j++ {
				o.a[o.pos(k, j)], o.a[o.pos(p, j)] = o.a[o.pos(p, j)], o.a[o.pos(k, j)]
			}
		}
		for i := k + 1; i <= last; i++ {
			l := o.a[o.pos(i, k)] / o.a[o.pos(k, k)]
			o.a[o.pos(i, k)] = l
			if l == 0 {
				continue
			}
			for j := k + 1; j <= right; j++ {
				o.a[o.pos(i, j)] -= l * o.a[o.pos(k, j)]
			}
		}
	}
	return nil
}

func (o *Band) Solve(x, b []float64) error {
	copy(x, b)
	for k := 0; k < o.n; k++ {
		if p := o.piv[k]; p != k {
			x[k], x[p] = x[p], x[k]
		}
		for i := k + 1; i <= imin(o.n-1, k+o.kl); i++ {
			x[i] -= o.a[o.pos(i, k)] * x[k]
		}
	}
	for k := o.n - 1; k >= 0; k-- {
		s := x[k]
		for j := k + 1; j <= imin(o.n-1, k+o.ku+o.kl); j++ {
			s -= o.a[o.pos(k, j)] * x[j]
		}
		x[k] = s / o.a[o.pos(k, k)]
	}
	return nil
}

func (o *BandSPD) Name() string { return "band-spd" }

func (o *BandSPD) Alloc(st *Structure) error {
	o.n = st.Neq
	o.k = st.HalfBand()
	o.a = mat.NewSymBandDense(o.n, o.k, nil)
	return nil
}

func (o *BandSPD) Zero() { o.a.Zero() }

// Add only uses the upper band
func (o *BandSPD) Add(i, j int, v float64) {
	if i > j {
		return
	}
	if j-i > o.k {
		chk.Panic("band-spd: entry (%d,%d) is outside the band (k=%d)", i, j, o.k)
	}
	o.a.SetSymBand(i, j, o.a.At(i, j)+v)
}

func (o *BandSPD) Factorize() error {
	if ok := o.ch.Factorize(o.a); !ok {
		return fmt.Errorf("%w: band Cholesky failed", ErrIndefinite)
	}
	if c := o.ch.Cond(); c > mat.ConditionTolerance {
		return fmt.Errorf("%w: band Cholesky condition number = %g", ErrSingular, c)
	}
	return nil
}

func (o *BandSPD) Solve(x, b []float64) error {
	dst := mat.NewVecDense(o.n, x)
	if err := o.ch.SolveVecTo(dst, mat.NewVecDense(o.n, b)); err != nil {
		return fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return nil
}

func imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}
