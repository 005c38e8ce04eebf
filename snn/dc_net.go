// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/prjn"
)

// Layer and monitor names used by the Diehl & Cook network
const (
	DCInput      = "Input"
	DCExcitatory = "Excitatory"
	DCInhibitory = "Inhibitory"
	DCExcMonitor = "Exc_Monitor"
)

// DCParams are the parameters of the modified Diehl & Cook (2015)
// unsupervised digit-classification network: an input layer fully
// connected by plastic STDP synapses to adaptive excitatory neurons, each of
// which drives one inhibitory neuron that inhibits all other excitatory
// neurons (soft winner-take-all).
type DCParams struct {
	NInput       int     `def:"784" desc:"number of input neurons"`
	InputShape   []int   `desc:"shape of the input layer -- product must equal NInput"`
	NNeurons     int     `def:"100" desc:"number of excitatory, and of inhibitory, neurons"`
	Dt           float32 `def:"1" desc:"integration time step"`
	Time         int     `def:"250" desc:"number of time steps each input is presented for -- the monitor capacity"`
	WExc         float32 `def:"22.5" desc:"strength of the excitatory to inhibitory synapses"`
	WInh         float32 `def:"17.5" desc:"strength of the inhibitory to excitatory synapses (applied as negative)"`
	NuPre        float32 `def:"0.0001" desc:"STDP depression rate on input to excitatory synapses"`
	NuPost       float32 `def:"0.01" desc:"STDP potentiation rate on input to excitatory synapses"`
	WtMin        float32 `def:"0" desc:"minimum input to excitatory weight"`
	WtMax        float32 `def:"1" desc:"maximum input to excitatory weight"`
	WtInitMax    float32 `def:"0.3" desc:"initial input to excitatory weights are uniform in [0, WtInitMax]"`
	Norm         float32 `def:"78.4" desc:"input to excitatory weights normalization target for each excitatory neuron"`
	ThetaPlus    float32 `def:"0.05" desc:"on-spike threshold increment of the excitatory neurons"`
	TcThetaDecay float32 `def:"1e7" desc:"time constant of the excitatory threshold decay"`
}

func (dp *DCParams) Defaults() {
	dp.NInput = 784
	dp.InputShape = []int{1, 28, 28}
	dp.NNeurons = 100
	dp.Dt = 1
	dp.Time = 250
	dp.WExc = 22.5
	dp.WInh = 17.5
	dp.NuPre = 1e-4
	dp.NuPost = 1e-2
	dp.WtMin = 0
	dp.WtMax = 1
	dp.WtInitMax = 0.3
	dp.Norm = 78.4
	dp.ThetaPlus = 0.05
	dp.TcThetaDecay = 1e7
}

// NewDCTopology returns the Topology of the Diehl & Cook network for given
// parameters
func NewDCTopology(dp *DCParams) *Topology {
	tp := &Topology{Name: "DCModified", Dt: dp.Dt}

	inp := NewLayerSpec(DCInput, dp.NInput, dp.InputShape, InputNeurons)
	inp.Trace.Tc = 20

	exc := NewLayerSpec(DCExcitatory, dp.NNeurons, nil, AdaptLIFNeurons)
	exc.LIF.Rest = -65
	exc.LIF.Reset = -60
	exc.LIF.Thr = -52
	exc.LIF.Refract = 5
	exc.LIF.TcDecay = 100
	exc.Trace.Tc = 20
	exc.Adapt.ThetaPlus = dp.ThetaPlus
	exc.Adapt.TcThetaDecay = dp.TcThetaDecay
	exc.Adapt.OneSpike = true

	inh := NewLayerSpec(DCInhibitory, dp.NNeurons, nil, LIFNeurons)
	inh.LIF.Rest = -60
	inh.LIF.Reset = -45
	inh.LIF.Thr = -40
	inh.LIF.TcDecay = 10
	inh.LIF.Refract = 2
	inh.Trace.On = false

	tp.Layers = []LayerSpec{inp, exc, inh}

	inExc := NewConnSpec(DCInput, DCExcitatory, prjn.NewFull(), ForwardConn)
	inExc.WtInit.Dist = erand.Uniform
	inExc.WtInit.Mean = float64(dp.WtInitMax) / 2
	inExc.WtInit.Var = float64(dp.WtInitMax) / 2
	inExc.WtRange.Set(dp.WtMin, dp.WtMax)
	inExc.Norm = dp.Norm
	inExc.Learn.Kind = PostPre
	inExc.Learn.NuPre = dp.NuPre
	inExc.Learn.NuPost = dp.NuPost

	excInh := NewConnSpec(DCExcitatory, DCInhibitory, prjn.NewOneToOne(), ForwardConn)
	excInh.WtInit.Dist = erand.Mean
	excInh.WtInit.Mean = float64(dp.WExc)
	excInh.WtInit.Var = 0
	excInh.WtRange.Set(0, dp.WExc)

	full := prjn.NewFull()
	full.SelfCon = false
	inhExc := NewConnSpec(DCInhibitory, DCExcitatory, full, LateralConn)
	inhExc.WtInit.Dist = erand.Mean
	inhExc.WtInit.Mean = -float64(dp.WInh)
	inhExc.WtInit.Var = 0
	inhExc.WtRange.Set(-dp.WInh, 0)

	tp.Conns = []ConnSpec{inExc, excInh, inhExc}

	tp.Monitors = []MonitorSpec{
		{Name: DCExcMonitor, Target: DCExcitatory, Vars: []string{"Spike"}, Capacity: dp.Time},
	}
	return tp
}
