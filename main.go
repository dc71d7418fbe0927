// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xcfem/xc-sub035/diag"
	"github.com/xcfem/xc-sub035/fem"
	"github.com/xcfem/xc-sub035/inp"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".sim", true)
	verbose := io.ArgToBool(1, true)
	saveSummary := io.ArgToBool(2, true)
	alias := io.ArgToString(3, "")

	// message
	if verbose {
		io.PfWhite("\nxcsolve -- incremental-iterative equilibrium solver\n\n")
		io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")

		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"save summary", "saveSummary", saveSummary,
			"word to add to results", "alias", alias,
		))
	}

	// simulation data
	sim, err := inp.ReadSim(fnamepath, alias)
	if err != nil {
		chk.Panic("%v", err)
	}

	// diagnostics: console and log file
	err = os.MkdirAll(sim.DirOut, 0777)
	if err != nil {
		chk.Panic("cannot create output directory:\n%v", err)
	}
	logfile, err := os.Create(filepath.Join(sim.DirOut, sim.Key+".log"))
	if err != nil {
		chk.Panic("cannot create log file:\n%v", err)
	}
	defer logfile.Close()
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	sink := diag.NewSlog(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
		slog.NewJSONHandler(logfile, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	// model and analysis
	d, err := fem.NewModel(sim)
	if err != nil {
		chk.Panic("%v", err)
	}
	analysis, err := fem.NewAnalysis(sim, d, sink)
	if err != nil {
		chk.Panic("%v", err)
	}
	var reg *prometheus.Registry
	if sim.Data.Metrics {
		reg = prometheus.NewRegistry()
		analysis.Metrics, err = fem.NewMetrics(reg)
		if err != nil {
			chk.Panic("%v", err)
		}
	}

	// run simulation
	err = analysis.Run(0)
	if err != nil {
		chk.Panic("Run failed:\n%v", err)
	}

	// results
	if verbose {
		io.Pf("\n%8s%23s%6s%23s\n", "step", "λ (or t)", "it", "|R|")
		for _, s := range analysis.Summary.Steps {
			io.Pf("%8d%23.15e%6d%23.15e\n", s.Index, s.Lambda, s.Iters, s.Resid)
		}
		io.Pf("\nU = %v\n", d.Committed.U)
	}
	if reg != nil {
		families, err := reg.Gather()
		if err != nil {
			chk.Panic("cannot gather metrics:\n%v", err)
		}
		for _, f := range families {
			for _, m := range f.GetMetric() {
				for _, l := range m.GetLabel() {
					io.Pf("%s{%s=%q} ", f.GetName(), l.GetName(), l.GetValue())
				}
				if c := m.GetCounter(); c != nil {
					io.Pf("%s %g\n", f.GetName(), c.GetValue())
				}
				if h := m.GetHistogram(); h != nil {
					io.Pf("%s count=%d sum=%g\n", f.GetName(), h.GetSampleCount(), h.GetSampleSum())
				}
			}
		}
	}

	// save summary
	if saveSummary {
		fn, err := analysis.Summary.Save(sim.DirOut, sim.Key, sim.EncType, verbose)
		if err != nil {
			chk.Panic("%v", err)
		}
		sink.Infof("summary saved in %s", fn)
		if _, err = sim.SaveConfig(sim.DirOut, sim.Key, sim.EncType); err != nil {
			chk.Panic("%v", err)
		}
	}
}
