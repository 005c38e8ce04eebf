// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/minmax"
)

// LayerSpec describes one layer of a Topology
type LayerSpec struct {
	Name  string      `desc:"unique layer name"`
	Class string      `desc:"additional class names for parameter styles"`
	Kind  NeuronKind  `desc:"neuron model"`
	N     int         `desc:"number of neurons"`
	Shape []int       `desc:"shape of the layer -- nil = 1D of N"`
	LIF   LIFParams   `view:"inline" desc:"membrane parameters"`
	Adapt AdaptParams `view:"inline" desc:"adaptive threshold parameters"`
	Trace TraceParams `view:"inline" desc:"spike trace parameters"`
}

// NewLayerSpec returns a LayerSpec with default parameters
func NewLayerSpec(name string, n int, shape []int, kind NeuronKind) LayerSpec {
	ls := LayerSpec{Name: name, Kind: kind, N: n, Shape: shape}
	ls.LIF.Defaults()
	ls.Adapt.Defaults()
	ls.Trace.Defaults()
	return ls
}

// ConnSpec describes one connection of a Topology
type ConnSpec struct {
	Send    string          `desc:"sending layer name"`
	Recv    string          `desc:"receiving layer name"`
	Class   string          `desc:"additional class names for parameter styles"`
	Pat     prjn.Pattern    `desc:"pattern of connectivity"`
	Typ     ConnType        `desc:"type of connection"`
	WtInit  erand.RndParams `view:"inline" desc:"initial weight distribution"`
	WtRange minmax.F32      `view:"inline" desc:"weight bounds"`
	Norm    float32         `desc:"normalization target, 0 = off"`
	Learn   STDPParams      `view:"inline" desc:"plasticity rule"`
}

// NewConnSpec returns a ConnSpec with default parameters
func NewConnSpec(send, recv string, pat prjn.Pattern, typ ConnType) ConnSpec {
	cs := ConnSpec{Send: send, Recv: recv, Pat: pat, Typ: typ}
	cs.WtInit.Dist = erand.Uniform
	cs.WtInit.Mean = 0.5
	cs.WtInit.Var = 0.25
	cs.WtRange.Set(0, 1)
	cs.Learn.Defaults()
	return cs
}

// MonitorSpec describes one monitor of a Topology
type MonitorSpec struct {
	Name     string   `desc:"unique monitor name -- empty = Target + _Monitor"`
	Target   string   `desc:"name of the layer, or of the connection (Send + To + Recv), to record"`
	Vars     []string `desc:"variables to record"`
	Capacity int      `desc:"maximum number of steps kept, 0 = unlimited"`
}

// Topology is a complete declarative description of a network, which
// Build turns into a built, initialized Network.  Params, if set, are
// applied after the layers and connections are configured from their
// specs, and before the network is built.
type Topology struct {
	Name     string        `desc:"network name"`
	Dt       float32       `desc:"integration time step"`
	Layers   []LayerSpec   `desc:"layers, in integration order"`
	Conns    []ConnSpec    `desc:"connections, in current accumulation order"`
	Monitors []MonitorSpec `desc:"monitors"`
	Params   *params.Sheet `desc:"optional parameter styles applied before Build"`
	Seed     int64         `desc:"random seed of the network, for weight initialization -- 0 = the global source"`
}

// Build makes the network described by this topology, in given context.
// Returns ErrConfig for any inconsistency, in which case no network is
// returned.
func (tp *Topology) Build(ctx *ExecutionContext) (*Network, error) {
	nt := NewNetwork(tp.Name, tp.Dt, ctx)
	if tp.Seed != 0 {
		nt.SetRandSeed(tp.Seed)
	}
	for i := range tp.Layers {
		ls := &tp.Layers[i]
		ly, err := nt.AddLayer(ls.Name, ls.N, ls.Shape, ls.Kind)
		if err != nil {
			return nil, err
		}
		ly.Cls = ls.Class
		ly.LIF = ls.LIF
		ly.Adapt = ls.Adapt
		ly.Trace = ls.Trace
	}
	for i := range tp.Conns {
		cs := &tp.Conns[i]
		send, err := nt.LayerByNameTry(cs.Send)
		if err != nil {
			return nil, err
		}
		recv, err := nt.LayerByNameTry(cs.Recv)
		if err != nil {
			return nil, err
		}
		if cs.Pat == nil {
			return nil, configErr("Topology: %v: connection from: %v to: %v has no pattern", tp.Name, cs.Send, cs.Recv)
		}
		cn, err := nt.ConnectLayers(send, recv, cs.Pat, cs.Typ)
		if err != nil {
			return nil, err
		}
		cn.Cls = cs.Class
		cn.WtInit = cs.WtInit
		cn.WtRange = cs.WtRange
		cn.Norm = cs.Norm
		cn.Learn = cs.Learn
	}
	if tp.Params != nil {
		if _, err := nt.ApplyParams(tp.Params, false); err != nil {
			return nil, err
		}
	}
	if err := nt.Build(); err != nil {
		return nil, err
	}
	for i := range tp.Monitors {
		ms := &tp.Monitors[i]
		var target Recorder
		if ly := nt.LayerByName(ms.Target); ly != nil {
			target = ly
		} else if cn, has := nt.ConnMap[ms.Target]; has {
			target = cn
		} else {
			return nil, configErr("Topology: %v: monitor target: %v is not a layer or connection", tp.Name, ms.Target)
		}
		if _, err := nt.AddMonitor(ms.Name, target, ms.Vars, ms.Capacity); err != nil {
			return nil, err
		}
	}
	return nt, nil
}
