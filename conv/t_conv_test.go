// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conv

import (
	"math"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/xcfem/xc-sub035/diag"
)

// vectors feeds given values to tests
type vectors struct {
	x, b la.Vector
}

func (o *vectors) X() la.Vector { return o.x }
func (o *vectors) B() la.Vector { return o.b }

// feed runs the test with a sequence of values set into x and b
func feed(t Test, values []float64) (res []int) {
	src := &vectors{x: la.NewVector(1), b: la.NewVector(1)}
	t.SetSource(src)
	t.Start()
	for _, v := range values {
		src.x[0], src.b[0] = v, v
		r := t.Test()
		res = append(res, r)
		if r != Continue {
			break
		}
	}
	return
}

func Test_conv01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conv01. relative norm of displacement increment")

	t, err := New("relnormdispincr", 1e-6, 10, Options{NormType: 2}, nil)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	res := feed(t, []float64{1.0, 0.3, 1e-7})
	chk.Ints(tst, "results", res, []int{-1, -1, 3})
	chk.Int(tst, "verdict", int(t.Verdict()), int(Converged))
	chk.Array(tst, "norms", 1e-17, t.Norms(), []float64{1.0, 0.3, 1e-7})
	chk.Int(tst, "numIters", t.NumIters(), 3)
}

func Test_conv02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conv02. budget exhaustion and near miss")

	t, _ := New("normunbalance", 1e-8, 3, Options{}, nil)
	res := feed(t, []float64{1, 0.1, 0.01, 0.001})
	chk.Ints(tst, "results", res, []int{-1, -1, -2})
	chk.Int(tst, "reason", int(t.Reason()), int(MaxIters))

	t, _ = New("normunbalance", 1e-8, 3, Options{NearMiss: true}, nil)
	res = feed(t, []float64{1, 0.1, 0.01, 0.001})
	chk.Ints(tst, "results", res, []int{-1, -1, 3})
	chk.Int(tst, "verdict", int(t.Verdict()), int(NearMiss))
}

func Test_conv03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conv03. divergence")

	t, _ := New("relnormunbalance", 1e-8, 20, Options{MaxIncr: 2}, nil)
	res := feed(t, []float64{1, 2, 0.5, 0.7, 0.9, 0.1})
	chk.Ints(tst, "results", res, []int{-1, -1, -1, -1, -2})
	chk.Int(tst, "reason", int(t.Reason()), int(Diverged))

	t, _ = New("normdispincr", 1e-8, 20, Options{}, nil)
	res = feed(t, []float64{1, math.NaN()})
	chk.Ints(tst, "results", res, []int{-1, -2})
	chk.Int(tst, "reason", int(t.Reason()), int(Diverged))
}

func Test_conv04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conv04. usage errors")

	var sink diag.Buffer
	t, _ := New("normunbalance", 1e-8, 5, Options{}, &sink)
	t.SetSource(&vectors{x: la.NewVector(1), b: la.NewVector(1)})
	chk.Int(tst, "test before start", t.Test(), Failed)
	chk.Int(tst, "reason", int(t.Reason()), int(NotStarted))

	t.Start()
	chk.Float64(tst, "norm(7)", 1e-17, t.Norm(7), -1)
	if sink.Nwarn != 2 || !strings.Contains(sink.String(), "out of range") {
		tst.Errorf("diagnostics are missing:\n%s", sink.String())
	}

	// invalid configurations
	if _, err := New("relnormunbalance", 0, 5, Options{}, nil); err == nil {
		tst.Errorf("zero tolerance must fail")
	}
	if _, err := New("relnormunbalance", 1e-3, 0, Options{}, nil); err == nil {
		tst.Errorf("zero budget must fail")
	}
	if _, err := New("normwhatever", 1e-3, 5, Options{}, nil); err == nil {
		tst.Errorf("unknown test must fail")
	}
	if _, err := New("normunbalance", 1e-3, 5, Options{NormType: 3}, nil); err == nil {
		tst.Errorf("invalid norm type must fail")
	}
}

func Test_conv05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conv05. zero baseline")

	// zero baseline is re-taken at the next measurement
	t, _ := New("relnormunbalance", 1e-3, 10, Options{}, nil)
	res := feed(t, []float64{0, 2, 1e-4})
	chk.Ints(tst, "results", res, []int{-1, -1, 3})

	// zeros are never measurable: the budget ends the iterations
	t, _ = New("relnormdispincr", 1e-3, 3, Options{}, nil)
	res = feed(t, []float64{0, 0, 0})
	chk.Ints(tst, "results (zeros)", res, []int{-1, -1, -2})
	chk.Int(tst, "reason", int(t.Reason()), int(MaxIters))
}

func Test_conv06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conv06. loop terminates for every test")

	for _, name := range Names() {
		for _, maxIt := range []int{1, 2, 7} {
			t, err := New(name, 1e-12, maxIt, Options{}, nil)
			if err != nil {
				tst.Errorf("%s: %v", name, err)
				return
			}
			src := &vectors{x: la.NewVector(2), b: la.NewVector(2)}
			t.SetSource(src)
			t.Start()
			ncalls := 0
			for {
				src.x[0], src.x[1], src.b[1] = 1, 1, 1 // never converges
				ncalls++
				if t.Test() != Continue {
					break
				}
				if ncalls > maxIt {
					tst.Errorf("%s: test did not stop after %d calls", name, ncalls)
					return
				}
			}
			chk.Int(tst, name+": ncalls", ncalls, maxIt)
		}
	}
}

func Test_conv07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conv07. other measures")

	src := &vectors{x: la.Vector{3, -4}, b: la.Vector{1, 1}}

	chk.Float64(tst, "max norm", 1e-15, Norm(src.x, 0), 4)
	chk.Float64(tst, "one norm", 1e-15, Norm(src.x, 1), 7)
	chk.Float64(tst, "two norm", 1e-15, Norm(src.x, 2), 5)

	// energy = ½|x⋅b| = 0.5
	t, _ := New("energyincr", 0.6, 5, Options{}, nil)
	t.SetSource(src)
	t.Start()
	chk.Int(tst, "energy", t.Test(), 1)

	// accumulated increments: |x|/|Σx| = 1 then 1/2
	t, _ = New("reltotalnormdispincr", 0.6, 5, Options{}, nil)
	t.SetSource(src)
	t.Start()
	chk.Int(tst, "total 1", t.Test(), Continue)
	chk.Int(tst, "total 2", t.Test(), 2)

	// fixed number of iterations
	t, _ = New("fixed", 0, 3, Options{}, nil)
	t.SetSource(src)
	t.Start()
	chk.Ints(tst, "fixed", []int{t.Test(), t.Test(), t.Test()}, []int{-1, -1, 3})
}
