// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsys

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// chainSystem assembles a chain of springs with stiffness k[e] between equations e and e+1.
// The first equation is also connected to a support
func chainSystem(tst *testing.T, backend string, k []float64) (o *System) {
	o, err := NewSystem(backend, nil)
	if err != nil {
		tst.Errorf("NewSystem failed:\n%v", err)
		return nil
	}
	neq := len(k)
	conn := [][]int{{-1, 0}}
	for e := 1; e < neq; e++ {
		conn = append(conn, []int{e - 1, e})
	}
	if err = o.SetSize(&Structure{Neq: neq, Conn: conn}); err != nil {
		tst.Errorf("SetSize failed:\n%v", err)
		return nil
	}
	o.Zero()
	for e, c := range conn {
		K := o.Arena().Matrix(2, 0)
		K.Set(0, 0, k[e])
		K.Set(0, 1, -k[e])
		K.Set(1, 0, -k[e])
		K.Set(1, 1, k[e])
		o.AddA(K, c, 1)
	}
	return
}

func Test_lsys01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lsys01. all backends solve a chain of springs")

	// chain with unit load at the tip: x_i = Σ_{e≤i} 1/k_e
	k := []float64{1, 2, 4, 8, 5}
	correct := []float64{1, 1.5, 1.75, 1.875, 2.075}
	for _, name := range Backends() {
		sys := chainSystem(tst, name, k)
		if sys == nil {
			return
		}
		sys.AddB([]float64{1}, []int{4}, 1)
		err := sys.Solve()
		if err != nil {
			tst.Errorf("%s: Solve failed:\n%v", name, err)
			return
		}
		if chk.Verbose {
			io.Pforan("%10s: x = %v\n", name, sys.X())
		}
		chk.Array(tst, name+": x", 1e-13, sys.X(), correct)
		if !sys.Factored() {
			tst.Errorf("%s: system must be factored after Solve", name)
		}
	}
}

func Test_lsys02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lsys02. repeated solves are bit-identical")

	for _, name := range Backends() {
		sys := chainSystem(tst, name, []float64{3, 1, 7, 2})
		if sys == nil {
			return
		}
		sys.SetB([]float64{0.1, -0.3, 1.0 / 3.0, 2})
		if err := sys.Solve(); err != nil {
			tst.Errorf("%s: first solve failed:\n%v", name, err)
			return
		}
		x1 := sys.X().GetCopy()
		if err := sys.Solve(); err != nil {
			tst.Errorf("%s: second solve failed:\n%v", name, err)
			return
		}
		for i := range x1 {
			if x1[i] != sys.X()[i] {
				tst.Errorf("%s: x[%d] differs: %v != %v", name, i, x1[i], sys.X()[i])
				return
			}
		}

		// modifying A invalidates the factors
		sys.AddA(sys.Arena().Matrix(1, 0), []int{0}, 1)
		if sys.Factored() {
			tst.Errorf("%s: AddA must mark the factors stale", name)
		}
	}
}

func Test_lsys03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lsys03. singular matrices and usage errors")

	for _, name := range Backends() {
		if name == "umfpack" {
			continue // reports singular matrices by its own messages
		}
		sys, _ := NewSystem(name, nil)
		if err := sys.Solve(); !errors.Is(err, ErrNotSized) {
			tst.Errorf("%s: Solve before SetSize must return ErrNotSized. got %v", name, err)
			return
		}

		// chain without support is singular
		sys.SetSize(&Structure{Neq: 2, Conn: [][]int{{0, 1}}})
		K := la.NewMatrix(2, 2)
		K.Set(0, 0, 1)
		K.Set(0, 1, -1)
		K.Set(1, 0, -1)
		K.Set(1, 1, 1)
		sys.AddA(K, []int{0, 1}, 1)
		sys.SetB([]float64{1, 0})
		err := sys.Solve()
		if !errors.Is(err, ErrSingular) && !errors.Is(err, ErrIndefinite) {
			tst.Errorf("%s: singular matrix must be detected. got %v", name, err)
			return
		}
		if sys.Factored() {
			tst.Errorf("%s: failed factorisation must not leave the system factored", name)
		}
	}

	// unknown backend
	if _, err := NewSystem("cholmod", nil); err == nil {
		tst.Errorf("unknown backend must fail")
	}
	sys, _ := NewSystem("dense", nil)
	if err := sys.SetSize(&Structure{Neq: 0}); err == nil {
		tst.Errorf("zero equations must fail")
	}
}

func Test_lsys04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lsys04. profile LDLᵀ of indefinite matrix")

	sys, _ := NewSystem("profile", nil)
	sys.SetSize(&Structure{Neq: 2, Conn: [][]int{{0, 1}}})
	K := la.NewMatrix(2, 2)
	K.Set(0, 0, 2)
	K.Set(0, 1, 1)
	K.Set(1, 0, 1)
	K.Set(1, 1, -3)
	sys.AddA(K, []int{0, 1}, 1)
	sys.SetB([]float64{3, -2})
	if err := sys.Solve(); err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	chk.Array(tst, "x", 1e-15, sys.X(), []float64{1, 1})
	chk.Int(tst, "negative pivots", sys.NegPivots(), 1)

	dense, _ := NewSystem("dense", nil)
	chk.Int(tst, "dense negative pivots", dense.NegPivots(), -1)
}

func Test_arena01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arena01. buffers are reused and zeroed")

	var a Arena
	M := a.Matrix(3, 0)
	M.Set(1, 1, 5)
	N := a.Matrix(3, 0)
	if M != N {
		tst.Errorf("matrix must be reused")
	}
	chk.Float64(tst, "zeroed", 1e-17, N.Get(1, 1), 0)
	if a.Matrix(3, 1) == M {
		tst.Errorf("slots must be distinct")
	}
	v := a.Vector(2, 0)
	v[0] = 1
	chk.Array(tst, "v", 1e-17, a.Vector(2, 0), []float64{0, 0})
}
