// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import "github.com/goki/ki/kit"

// ConnType is the structural type of a Connection
type ConnType int32

//go:generate stringer -type=ConnType

var KiT_ConnType = kit.Enums.AddEnum(ConnTypeN, kit.NotBitFlag, nil)

func (ev ConnType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ConnType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The connection types
const (
	// ForwardConn connects two different layers, in the feedforward
	// (or feedback) direction
	ForwardConn ConnType = iota

	// LateralConn connects two layers of identical shape (or a layer to
	// itself), and the pattern is built in same-layer mode, so that
	// patterns such as prjn.Full with SelfCon = false leave the
	// diagonal unconnected.
	LateralConn

	ConnTypeN
)

// PlasticityKind is the closed set of learning rules a Connection can use
type PlasticityKind int32

//go:generate stringer -type=PlasticityKind

var KiT_PlasticityKind = kit.Enums.AddEnum(PlasticityKindN, kit.NotBitFlag, nil)

func (ev PlasticityKind) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *PlasticityKind) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// NoPlasticity means the weights are fixed
	NoPlasticity PlasticityKind = iota

	// PostPre is pair-based STDP driven by spike traces: potentiation by
	// the presynaptic trace on each postsynaptic spike, and depression by
	// the postsynaptic trace on each presynaptic spike.
	PostPre

	PlasticityKindN
)
