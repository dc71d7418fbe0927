// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/xcfem/xc-sub035/algo"

// Action is the reaction of the driver to a failed increment
type Action int

const (
	Shrink Action = iota // halve the increment and retry
	Switch               // retry with the fallback algorithm; shrink if there is none
	Abort                // stop the analysis
)

func (a Action) String() string {
	switch a {
	case Shrink:
		return "shrink"
	case Switch:
		return "switch"
	}
	return "abort"
}

// ActionFor returns the action corresponding to a status code
func ActionFor(status int) Action {
	switch status {
	case algo.NotConverged, algo.Diverged, algo.IntegratorFailed:
		return Shrink
	case algo.LinSysFailed:
		return Switch
	}
	return Abort
}
