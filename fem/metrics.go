// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xcfem/xc-sub035/algo"
)

// Metrics holds prometheus collectors of the analysis
type Metrics struct {
	Steps *prometheus.CounterVec // increments by status
	Iters prometheus.Histogram   // iterations of converged increments
}

// NewMetrics allocates and registers the collectors
func NewMetrics(reg prometheus.Registerer) (o *Metrics, err error) {
	o = &Metrics{
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xcsolve_steps_total",
			Help: "Number of increments by status.",
		}, []string{"status"}),
		Iters: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "xcsolve_iterations",
			Help:    "Number of iterations of converged increments.",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		}),
	}
	for _, c := range []prometheus.Collector{o.Steps, o.Iters} {
		if err = reg.Register(c); err != nil {
			return nil, chk.Err("cannot register metrics:\n%v", err)
		}
	}
	return
}

// Observe records an increment
func (o *Metrics) Observe(status, iters int) {
	o.Steps.WithLabelValues(algo.StatusString(status)).Inc()
	if status == algo.Success {
		o.Iters.Observe(float64(iters))
	}
}
