// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or YAML file
package inp

import (
	"encoding/json"
	goio "io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc"`    // description of simulation
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/xcsolve
	Encoder string `json:"encoder"` // encoder name; e.g. "gob" "json"
	Stat    bool   `json:"stat"`    // record residuals in summary
	Metrics bool   `json:"metrics"` // register prometheus metrics
}

// ModelData holds the definition of a verification model
type ModelData struct {
	Type string     `json:"type"` // "springs", "cubic", "vonmises" or "oscillator"
	Prms dbf.Params `json:"prms"` // parameters
	Load float64    `json:"load"` // reference load
	Func string     `json:"func"` // name of load function; empty => λ
}

// FuncData holds function definition
type FuncData struct {
	Name string     `json:"name"` // name of function. ex: zero, load, myfunction1, etc.
	Type string     `json:"type"` // type of function. ex: cte, rmp
	Prms dbf.Params `json:"prms"` // parameters
}

// FuncsData holds functions
type FuncsData []*FuncData

// LinSolData holds data for linear solvers
type LinSolData struct {
	Name     string `json:"name"`     // "dense", "dense-spd", "band", "band-spd", "profile" or "umfpack"
	Numberer string `json:"numberer"` // "plain" or "rcm"
	Verbose  bool   `json:"verbose"`  // verbose?
}

// SolverData holds FEM solver data
type SolverData struct {

	// analysis
	Type     string `json:"type"`     // analysis type: "static" or "transient"
	Algo     string `json:"algo"`     // algorithm: linear, newton, modnewton, initialnewton, newtonls
	Integ    string `json:"integ"`    // integrator: loadcontrol, dispcontrol, arclength, arclength1, newmark, hht
	Fallback string `json:"fallback"` // algorithm used after a failure with status "switch"; empty => none
	ShowR    bool   `json:"showr"`    // show residual

	// convergence test
	Test     string  `json:"test"`     // convergence test; e.g. normdispincr
	Tol      float64 `json:"tol"`      // tolerance
	NmaxIt   int     `json:"nmaxit"`   // number of max iterations
	NormType int     `json:"normtype"` // 0: max norm, 1: one norm, 2: two norm
	MaxIncr  int     `json:"maxincr"`  // consecutive increases of norm taken as divergence; 0 => no check
	NearMiss bool    `json:"nearmiss"` // accept last iteration when budget is exhausted

	// line search
	LineSearch string  `json:"linesearch"` // interpolated, bisection, secant or regulafalsi
	LsTol      float64 `json:"lstol"`      // tolerance on |s/s0|
	LsMaxIt    int     `json:"lsmaxit"`    // max number of trials
	LsEtaMin   float64 `json:"lsetamin"`   // minimum η
	LsEtaMax   float64 `json:"lsetamax"`   // maximum η

	// static analyses
	Incr     float64 `json:"incr"`     // increment: Δλ, Δu or arc length
	Nsteps   int     `json:"nsteps"`   // number of increments
	Jd       int     `json:"jd"`       // desired number of iterations for adaptive increments; 0 => fixed
	IncMin   float64 `json:"incmin"`   // minimum increment
	IncMax   float64 `json:"incmax"`   // maximum increment
	ArcAlpha float64 `json:"arcalpha"` // arc-length: scaling of load factor
	CtrlDof  int     `json:"ctrldof"`  // displacement control: controlled DOF

	// transient analyses
	Dt        float64 `json:"dt"`        // time step
	Tf        float64 `json:"tf"`        // final time
	DtMin     float64 `json:"dtmin"`     // minium value of Dt
	Gamma     float64 `json:"gamma"`     // Newmark's γ
	Beta      float64 `json:"beta"`      // Newmark's β
	HHTalp    float64 `json:"hhtalp"`    // HHT α parameter
	InitAccel bool    `json:"initaccel"` // compute initial accelerations
	RayleighM float64 `json:"rayleighm"` // Rayleigh damping: coefficient of M
	RayleighK float64 `json:"rayleighk"` // Rayleigh damping: coefficient of K

	// divergence control
	DvgCtrl bool `json:"dvgctrl"` // use divergence control
	NdvgMax int  `json:"ndvgmax"` // max number of continued divergence
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data       `json:"data"`      // stores global simulation data
	Model     ModelData  `json:"model"`     // verification model
	Functions FuncsData  `json:"functions"` // stores all load functions
	LinSol    LinSolData `json:"linsol"`    // linear solver data
	Solver    SolverData `json:"solver"`    // FEM solver data

	// derived
	DirOut  string // directory to save results
	Key     string // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType string // encoder type
}

// Simulation //////////////////////////////////////////////////////////////////////////////////////

// ReadSim reads all simulation data from a .sim (JSON) or .yaml file
func ReadSim(simfilepath, alias string) (o *Simulation, err error) {

	// new sim
	o = new(Simulation)
	o.Solver.SetDefault()
	o.LinSol.SetDefault()

	// read file
	b, err := os.ReadFile(os.ExpandEnv(simfilepath))
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q:\n%v", simfilepath, err)
	}

	// decode
	ext := strings.ToLower(filepath.Ext(simfilepath))
	switch ext {
	case ".yaml", ".yml":
		err = decodeYaml(b, o)
	default:
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// input directory and filename key
	fnkey := io.FnKey(filepath.Base(simfilepath))
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = os.ExpandEnv(o.Data.DirOut)
	if o.DirOut == "" {
		o.DirOut = filepath.Join(os.TempDir(), "xcsolve", fnkey)
	}

	// encoder
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// derived data
	o.Solver.PostProcess()
	if err = o.Solver.Validate(); err != nil {
		return nil, chk.Err("ReadSim: invalid solver data in %q:\n%v", simfilepath, err)
	}
	return
}

// decodeYaml decodes YAML into a generic map and then into the structures using the json tags
func decodeYaml(b []byte, o *Simulation) (err error) {
	var raw map[string]interface{}
	if err = yaml.Unmarshal(b, &raw); err != nil {
		return
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           o,
	})
	if err != nil {
		return
	}
	return dec.Decode(raw)
}

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// Get returns function by name
//  Note: returns nil if name is empty
func (o FuncsData) Get(name string) (fcn dbf.T, err error) {
	if name == "" {
		return
	}
	for _, f := range o {
		if f.Name == name {
			fcn, err = newFunc(f.Type, f.Prms)
			if err != nil {
				err = chk.Err("cannot get function named %q because of the following error:\n%v", name, err)
			}
			return
		}
	}
	err = chk.Err("cannot find function named %q\n", name)
	return
}

// newFunc allocates a function from the database, converting its panics into errors
func newFunc(typ string, prms dbf.Params) (fcn dbf.T, err error) {
	defer func() {
		if r := recover(); r != nil {
			fcn, err = nil, chk.Err("%v", r)
		}
	}()
	fcn = dbf.New(typ, prms)
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *LinSolData) SetDefault() {
	o.Name = "profile"
	o.Numberer = "rcm"
}

// SetDefault set defaults values
func (o *SolverData) SetDefault() {

	// analysis
	o.Type = "static"
	o.Algo = "newton"

	// convergence test
	o.Test = "normdispincr"
	o.Tol = 1e-8
	o.NmaxIt = 20
	o.NormType = 2

	// line search
	o.LineSearch = "interpolated"
	o.LsTol = 0.8
	o.LsMaxIt = 10
	o.LsEtaMin = 0.1
	o.LsEtaMax = 10

	// static analyses
	o.Incr = 0.1
	o.Nsteps = 10
	o.IncMin = 1e-6
	o.IncMax = 1

	// transient analyses
	o.DtMin = 1e-8
	o.Gamma = 0.5
	o.Beta = 0.25
	o.HHTalp = 1

	// divergence control
	o.DvgCtrl = true
	o.NdvgMax = 20
}

// PostProcess performs a post-processing of the just read json file
func (o *SolverData) PostProcess() {
	if o.Integ == "" {
		if o.Type == "transient" {
			o.Integ = "newmark"
		} else {
			o.Integ = "loadcontrol"
		}
	}
	if o.Type == "transient" && o.Dt > 0 {
		o.Incr = o.Dt
		if o.Tf > 0 {
			o.Nsteps = int(math.Ceil(o.Tf/o.Dt - 1e-10))
		}
	}
}

// Validate checks the numerical settings. Names of strategies are checked by their factories
func (o *SolverData) Validate() (err error) {
	if o.Type != "static" && o.Type != "transient" {
		return chk.Err("analysis type must be \"static\" or \"transient\". %q is invalid", o.Type)
	}
	if o.Type == "transient" && o.Incr <= 0 {
		return chk.Err("time step must be positive. Dt=%g is invalid", o.Incr)
	}
	if o.Incr == 0 {
		return chk.Err("increment must be non-zero")
	}
	if o.Nsteps < 1 {
		return chk.Err("number of steps must be positive. %d is invalid", o.Nsteps)
	}
	if o.NmaxIt < 1 {
		return chk.Err("number of max iterations must be positive. %d is invalid", o.NmaxIt)
	}
	if o.DvgCtrl && o.NdvgMax < 1 {
		return chk.Err("max number of continued divergence must be positive. %d is invalid", o.NdvgMax)
	}
	return
}
