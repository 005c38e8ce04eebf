// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package snn is the overall repository for spiking neural network simulation
code implemented in the Go language (golang): leaky integrate-and-fire
neurons connected by weighted synapses, learning without supervision
through spike-timing-dependent plasticity (STDP).

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* snn: the core simulation engine: Layer (neuron groups), Connection
(weights, currents, STDP), Monitor (recorded state histories), and Network
(time-stepped run loop, reset, normalization).  Networks are described by a
Topology and built against an explicit ExecutionContext.

* readout: maps neurons to class labels by their spike counts, and predicts
labels for new presentations from those assignments.

* trainer: the presentation / epoch loop wrapped around a Network.

* config: YAML parameter files for the standard networks.

* encode: rate-based spike encoding of intensity patterns, used by the
command-line driver.

* cmd/snn: command-line driver for summarizing and training networks.

* examples: these actually compile into runnable programs and provide the starting
point for your own simulations.  examples/lif_neuron is the place to start;
examples/bench times multi-layer STDP networks on the serial and parallel
backends, and examples/eqplot tabulates the LIF f-I curve.
*/
package snn
