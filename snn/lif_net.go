// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/prjn"
)

// Layer names of the single neuron network, which are also the names of
// their monitors
const (
	LIFInput  = "A"
	LIFOutput = "B"
)

// NewLIFTopology returns the smallest complete network: one input neuron A
// connected to one LIF neuron B, with a Gaussian initial weight of mean
// wtMean and standard deviation 0.1, bounded to [-1, 1].  Monitor A records
// the spikes of A, and monitor B the spikes and Vm of B, for steps steps.
// seed seeds the weight, 0 = the global source.
func NewLIFTopology(steps int, wtMean float64, seed int64) *Topology {
	tp := &Topology{Name: "LIF", Dt: 1, Seed: seed}
	tp.Layers = []LayerSpec{
		NewLayerSpec(LIFInput, 1, nil, InputNeurons),
		NewLayerSpec(LIFOutput, 1, nil, LIFNeurons),
	}
	cs := NewConnSpec(LIFInput, LIFOutput, prjn.NewFull(), ForwardConn)
	cs.WtInit.Dist = erand.Gaussian
	cs.WtInit.Mean = wtMean
	cs.WtInit.Var = 0.1
	cs.WtRange.Set(-1, 1)
	tp.Conns = []ConnSpec{cs}
	tp.Monitors = []MonitorSpec{
		{Name: LIFInput, Target: LIFInput, Vars: []string{"Spike"}, Capacity: steps},
		{Name: LIFOutput, Target: LIFOutput, Vars: []string{"Spike", "Vm"}, Capacity: steps},
	}
	return tp
}
