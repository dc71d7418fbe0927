// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bytes"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. reading JSON simulation file")

	sim, err := ReadSim("data/vonmises.sim", "")
	if err != nil {
		tst.Errorf("ReadSim failed:\n%v", err)
		return
	}
	if chk.Verbose {
		var buf bytes.Buffer
		sim.GetInfo(&buf)
		io.Pforan("%v\n", buf.String())
	}
	chk.String(tst, sim.Key, "vonmises")
	chk.String(tst, sim.EncType, "json")
	chk.String(tst, sim.Model.Type, "vonmises")
	chk.Int(tst, "nprms", len(sim.Model.Prms), 3)
	chk.Float64(tst, "EA", 1e-15, sim.Model.Prms[0].V, 1000)
	chk.String(tst, sim.LinSol.Name, "dense")
	chk.String(tst, sim.LinSol.Numberer, "rcm")

	// solver data and defaults
	s := sim.Solver
	chk.String(tst, s.Type, "static")
	chk.String(tst, s.Algo, "newton")
	chk.String(tst, s.Integ, "arclength")
	chk.String(tst, s.Test, "normunbalance")
	chk.Float64(tst, "tol", 1e-15, s.Tol, 1e-10)
	chk.Float64(tst, "incr", 1e-15, s.Incr, 0.03)
	chk.Int(tst, "nsteps", s.Nsteps, 15)
	chk.Int(tst, "nmaxit", s.NmaxIt, 20)
	chk.Int(tst, "ndvgmax", s.NdvgMax, 20)
	chk.Float64(tst, "lstol", 1e-15, s.LsTol, 0.8)
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. reading YAML simulation file")

	sim, err := ReadSim("data/oscillator.yaml", "run1")
	if err != nil {
		tst.Errorf("ReadSim failed:\n%v", err)
		return
	}
	chk.String(tst, sim.Key, "oscillator-run1")
	chk.String(tst, sim.DirOut, "/tmp/xcsolve/oscillator")
	chk.String(tst, sim.EncType, "gob")
	chk.String(tst, sim.LinSol.Name, "band-spd")
	chk.String(tst, sim.LinSol.Numberer, "plain")
	chk.Float64(tst, "k", 1e-15, sim.Model.Prms[1].V, 39.47841760435743)

	// transient settings
	s := sim.Solver
	chk.String(tst, s.Type, "transient")
	chk.String(tst, s.Integ, "newmark")
	chk.Float64(tst, "dt", 1e-15, s.Dt, 0.0025)
	chk.Float64(tst, "incr", 1e-15, s.Incr, 0.0025)
	chk.Int(tst, "nsteps", s.Nsteps, 400)
	chk.Float64(tst, "γ", 1e-15, s.Gamma, 0.5)
	chk.Float64(tst, "β", 1e-15, s.Beta, 0.25)
	if !s.InitAccel {
		tst.Errorf("initaccel must be true")
	}

	// functions
	f, err := sim.Functions.Get("step")
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "f(0.3)", 1e-15, f.F(0.3, nil), 1)
	if _, err = sim.Functions.Get("ramp"); err == nil {
		tst.Errorf("unknown function must fail")
	}
	if f, err = sim.Functions.Get(""); f != nil || err != nil {
		tst.Errorf("empty name must give nil function")
	}

	// wrong function data is returned as error
	funcs := FuncsData{
		&FuncData{Name: "spline", Type: "cubic-spline"},
		&FuncData{Name: "noparams", Type: "cte"},
	}
	for _, name := range []string{"spline", "noparams"} {
		f, err = funcs.Get(name)
		if err == nil || f != nil {
			tst.Errorf("function %q must fail", name)
		}
		io.Pforan("%s: %v\n", name, err)
	}
}

func Test_sim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim03. validation")

	var s SolverData
	s.SetDefault()
	s.PostProcess()
	if err := s.Validate(); err != nil {
		tst.Errorf("defaults must be valid:\n%v", err)
		return
	}
	chk.String(tst, s.Integ, "loadcontrol")

	s.Type = "quasistatic"
	if err := s.Validate(); err == nil {
		tst.Errorf("wrong analysis type must fail")
	}
	s.Type = "transient"
	s.Incr = -0.1
	if err := s.Validate(); err == nil {
		tst.Errorf("negative time step must fail")
	}
	s.Type, s.Incr, s.Nsteps = "static", 0.1, 0
	if err := s.Validate(); err == nil {
		tst.Errorf("zero steps must fail")
	}

	if _, err := ReadSim("data/notfound.sim", ""); err == nil {
		tst.Errorf("missing file must fail")
	}
}

func Test_sim04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim04. saving and reading configuration")

	sim, err := ReadSim("data/vonmises.sim", "")
	if err != nil {
		tst.Errorf("ReadSim failed:\n%v", err)
		return
	}
	dir := tst.TempDir()
	for _, enctype := range []string{"gob", "json"} {
		fn, err := sim.SaveConfig(dir, sim.Key, enctype)
		if err != nil {
			tst.Errorf("SaveConfig failed:\n%v", err)
			return
		}
		io.Pforan("file = %v\n", fn)
		res, err := ReadConfig(dir, sim.Key, enctype)
		if err != nil {
			tst.Errorf("ReadConfig failed:\n%v", err)
			return
		}
		chk.String(tst, res.Data.Desc, sim.Data.Desc)
		chk.String(tst, res.LinSol.Name, sim.LinSol.Name)
		chk.String(tst, res.Solver.Integ, sim.Solver.Integ)
		chk.Float64(tst, enctype+": tol", 1e-15, res.Solver.Tol, sim.Solver.Tol)
		chk.Float64(tst, enctype+": lsetamax", 1e-15, res.Solver.LsEtaMax, sim.Solver.LsEtaMax)
		chk.Int(tst, enctype+": nsteps", res.Solver.Nsteps, sim.Solver.Nsteps)
	}
}
