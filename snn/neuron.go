// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"

	"github.com/goki/mat32"
)

// snn.Neuron holds all of the neuron (unit) level state variables.
// Parameters live on the Layer; everything here is reset between
// presentations except Theta, which is learned.
type Neuron struct {
	Refract int32   `desc:"refractory counter, in time steps: while > 0 the neuron cannot spike and Vm is not updated"`
	Vm      float32 `desc:"membrane potential"`
	Spike   float32 `desc:"whether neuron has spiked or not on this time step (0 or 1) -- for input neurons this is the injected value"`
	Ge      float32 `desc:"total input current received on this time step, from all incoming connections plus external input"`
	Trace   float32 `desc:"exponentially decaying spike trace, incremented by 1 on each spike -- drives STDP"`
	Theta   float32 `desc:"adaptive threshold offset added to the layer threshold (AdaptLIFNeurons only) -- learned, persists across presentations"`
}

var NeuronVars = []string{"Vm", "Spike", "Ge", "Trace", "Theta", "Refract"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarIdxByName returns the index of the variable in the Neuron, or error
func NeuronVarIdxByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	switch idx {
	case 0:
		return nrn.Vm
	case 1:
		return nrn.Spike
	case 2:
		return nrn.Ge
	case 3:
		return nrn.Trace
	case 4:
		return nrn.Theta
	case 5:
		return float32(nrn.Refract)
	}
	return mat32.NaN()
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return mat32.NaN(), err
	}
	return nrn.VarByIndex(i), nil
}

// IsRefractory returns true if the neuron is within its refractory period
func (nrn *Neuron) IsRefractory() bool {
	return nrn.Refract > 0
}
