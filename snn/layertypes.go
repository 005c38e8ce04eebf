// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import "github.com/goki/ki/kit"

// NeuronKind enumerates the closed set of neuron models a Layer can use.
// Class parameter styles automatically key off of these kinds.
type NeuronKind int32

//go:generate stringer -type=NeuronKind

var KiT_NeuronKind = kit.Enums.AddEnum(NeuronKindN, kit.NotBitFlag, nil)

func (ev NeuronKind) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeuronKind) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The neuron kinds
const (
	// InputNeurons pass their input straight through as spikes, with no
	// dynamics.  Externally supplied spike trains enter the network here,
	// using the same propagation machinery as computed layers.
	InputNeurons NeuronKind = iota

	// LIFNeurons are leaky integrate-and-fire neurons: the membrane
	// potential decays toward Rest and a spike is emitted when it
	// crosses Thr, followed by a reset and a refractory period.
	LIFNeurons

	// AdaptLIFNeurons are LIF neurons with an adaptive threshold:
	// each spike raises a per-neuron Theta that is added to Thr and
	// slowly decays back toward 0 (Diehl & Cook, 2015).
	AdaptLIFNeurons

	NeuronKindN
)

// IsInput returns true for the pass-through input kind
func (nk NeuronKind) IsInput() bool {
	return nk == InputNeurons
}
