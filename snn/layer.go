// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"log"

	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"
)

// snn.Layer is a group of spiking neurons of one NeuronKind, sharing
// parameters.  It holds the per-neuron state and advances it one time step
// at a time given the input current accumulated for that step.
type Layer struct {
	Nm        string        `desc:"Name of the layer -- this must be unique within the network, which has a map for quick lookup and layers are typically accessed directly by name"`
	Cls       string        `desc:"Class is for applying parameter styles, can be space separated multple tags"`
	Kind      NeuronKind    `desc:"neuron model used by this layer -- matches against .Class parameter styles (e.g., .LIFNeurons)"`
	Shp       etensor.Shape `desc:"shape of the layer -- a multi-dimensional view onto the flat list of neurons, whose total size must match the number of neurons"`
	Idx       int           `desc:"a 0..n-1 index of the position of the layer within list of layers in the network"`
	LIF       LIFParams     `view:"inline" desc:"leaky integrate-and-fire membrane parameters (not used by InputNeurons)"`
	Adapt     AdaptParams   `view:"inline" desc:"adaptive threshold parameters (AdaptLIFNeurons only)"`
	Trace     TraceParams   `view:"inline" desc:"spike trace parameters, used by STDP"`
	Neurons   []Neuron      `desc:"slice of neurons for this layer -- flat list of len = Shp.Len()"`
	RecvConns []*Connection `desc:"list of receiving connections into this layer from other layers"`
	SendConns []*Connection `desc:"list of sending connections from this layer to other layers"`
	GeBuf     []float32     `view:"-" desc:"per-neuron input current accumulator, filled by incoming connections and external input before Integrate"`
	Rand      erand.Rand    `view:"-" desc:"random source for choosing the spiking neuron with Adapt.OneSpike -- the network's source when added to a network"`

	spikers []int // neurons that crossed threshold on this step, for OneSpike
}

// NewLayer returns a new layer of given kind with default parameters.
// Config must be called to set its size.
func NewLayer(name string, kind NeuronKind) *Layer {
	ly := &Layer{Nm: name, Kind: kind, Rand: erand.NewGlobalRand()}
	ly.Defaults()
	return ly
}

func (ly *Layer) Name() string     { return ly.Nm }
func (ly *Layer) Label() string    { return ly.Nm }
func (ly *Layer) TypeName() string { return "Layer" } // type category, for params..
func (ly *Layer) Class() string    { return ly.Kind.String() + " " + ly.Cls }
func (ly *Layer) SetClass(cls string) *Layer {
	ly.Cls = cls
	return ly
}
func (ly *Layer) Shape() *etensor.Shape { return &ly.Shp }
func (ly *Layer) NNeurons() int         { return len(ly.Neurons) }

func (ly *Layer) Defaults() {
	ly.LIF.Defaults()
	ly.Adapt.Defaults()
	ly.Trace.Defaults()
}

// UpdateParams updates all the derived parameters for given integration
// time step
func (ly *Layer) UpdateParams(dt float32) {
	ly.LIF.Update(dt)
	ly.Adapt.Update(dt)
	ly.Trace.Update(dt)
}

// Config sets the number of neurons and the shape of the layer.
// shape may be nil, in which case the layer is 1D with n neurons.
// Returns ErrConfig if n does not match the product of shape.
func (ly *Layer) Config(n int, shape []int) error {
	if n <= 0 {
		return configErr("Layer: %v: number of neurons must be > 0, is: %d", ly.Nm, n)
	}
	if len(shape) == 0 {
		shape = []int{n}
	}
	prod := 1
	for _, d := range shape {
		if d <= 0 {
			return configErr("Layer: %v: shape dimensions must be > 0: %v", ly.Nm, shape)
		}
		prod *= d
	}
	if prod != n {
		return configErr("Layer: %v: number of neurons: %d does not match shape: %v (size %d)", ly.Nm, n, shape, prod)
	}
	ly.Shp.SetShape(shape, nil, nil)
	ly.Neurons = make([]Neuron, n)
	ly.GeBuf = make([]float32, n)
	return nil
}

// Validate checks the parameters for consistency -- called once at Build,
// not per step.
func (ly *Layer) Validate() error {
	if len(ly.Neurons) == 0 {
		return configErr("Layer: %v: not configured -- call Config first", ly.Nm)
	}
	if ly.Kind < 0 || ly.Kind >= NeuronKindN {
		return configErr("Layer: %v: invalid neuron kind: %d", ly.Nm, ly.Kind)
	}
	if err := ly.Trace.Validate(); err != nil {
		return err
	}
	if ly.Kind.IsInput() {
		return nil
	}
	if err := ly.LIF.Validate(); err != nil {
		return err
	}
	if ly.Kind == AdaptLIFNeurons {
		if err := ly.Adapt.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NumericWarnings logs a warning for each time constant that is not large
// relative to dt, where explicit Euler integration becomes inaccurate.
// Returns the number of warnings.
func (ly *Layer) NumericWarnings(dt float32) int {
	nw := 0
	warn := func(nm string, tau float32) {
		if tau > 0 && dt/tau > NumericWarnRate {
			log.Printf("snn NumericWarning: Layer: %v: dt / %s = %g is not small relative to 1 -- integration may be inaccurate or overflow\n", ly.Nm, nm, dt/tau)
			nw++
		}
	}
	if !ly.Kind.IsInput() {
		warn("TcDecay", ly.LIF.TcDecay)
	}
	if ly.Kind == AdaptLIFNeurons {
		warn("TcThetaDecay", ly.Adapt.TcThetaDecay)
	}
	if ly.Trace.On {
		warn("Trace.Tc", ly.Trace.Tc)
	}
	return nw
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init methods

// InitActs resets all transient state to baseline: membrane potentials to
// Rest, and spikes, input currents, refractory counters and traces to 0.
// Theta is learned and is not affected -- see InitThetas.
func (ly *Layer) InitActs() {
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		ly.LIF.InitActs(nrn)
		nrn.Trace = 0
	}
	ly.InitGe()
}

// InitThetas resets the adaptive thresholds to 0
func (ly *Layer) InitThetas() {
	for ni := range ly.Neurons {
		ly.Neurons[ni].Theta = 0
	}
}

// InitGe clears the input current accumulator
func (ly *Layer) InitGe() {
	for i := range ly.GeBuf {
		ly.GeBuf[i] = 0
	}
}

// ApplyExtStep adds the external input for given time step into the input
// current accumulator.  ext must be [steps, neurons...] with the same number
// of neurons per step as the layer.
func (ly *Layer) ApplyExtStep(ext *etensor.Float32, step int) {
	nn := len(ly.Neurons)
	off := step * nn
	vals := ext.Values[off : off+nn]
	for ni, v := range vals {
		ly.GeBuf[ni] += v
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Step methods

// Integrate advances all neurons one time step with the input currents
// accumulated in GeBuf.  InputNeurons spike with their input directly.
// LIF neurons integrate their membrane equation, respecting refraction.
// Adaptive neurons additionally update Theta, only when training, and
// with Adapt.OneSpike only one of them keeps its spike.
// Traces are updated last, from the new spikes.
func (ly *Layer) Integrate(ctx *ExecutionContext) {
	learn := ctx.IsTraining()
	oneSpike := ly.Kind == AdaptLIFNeurons && ly.Adapt.OneSpike
	ctx.Backend.Range(len(ly.Neurons), func(st, ed int) {
		for ni := st; ni < ed; ni++ {
			nrn := &ly.Neurons[ni]
			nrn.Ge = ly.GeBuf[ni]
			switch ly.Kind {
			case InputNeurons:
				nrn.Spike = nrn.Ge
			case LIFNeurons:
				ly.LIF.VmFromGe(nrn, nrn.Ge, ly.LIF.Thr)
			case AdaptLIFNeurons:
				ly.LIF.VmFromGe(nrn, nrn.Ge, ly.LIF.Thr+nrn.Theta)
				if learn {
					ly.Adapt.ThetaFromSpike(nrn)
				}
			}
			if ly.Trace.On && !oneSpike {
				ly.Trace.TraceFromSpike(nrn)
			}
		}
	})
	if !oneSpike {
		return
	}
	ly.KeepOneSpike()
	if ly.Trace.On {
		for ni := range ly.Neurons {
			ly.Trace.TraceFromSpike(&ly.Neurons[ni])
		}
	}
}

// KeepOneSpike clears the spikes of all but one of the neurons that spiked,
// chosen at random from Rand.
func (ly *Layer) KeepOneSpike() {
	ly.spikers = ly.spikers[:0]
	for ni := range ly.Neurons {
		if ly.Neurons[ni].Spike != 0 {
			ly.spikers = append(ly.spikers, ni)
		}
	}
	if len(ly.spikers) <= 1 {
		return
	}
	keep := ly.spikers[erand.IntZeroN(int64(len(ly.spikers)), -1, ly.Rand)]
	for _, ni := range ly.spikers {
		if ni != keep {
			ly.Neurons[ni].Spike = 0
		}
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Access

// SpikeCount returns the number of neurons that spiked on the current step
func (ly *Layer) SpikeCount() int {
	n := 0
	for ni := range ly.Neurons {
		if ly.Neurons[ni].Spike != 0 {
			n++
		}
	}
	return n
}

// UnitVals fills in values of given variable name on unit,
// for each unit in the layer, into given float32 slice (only resized if not big enough).
// Returns error on invalid var name.
func (ly *Layer) UnitVals(vals *[]float32, varNm string) error {
	nn := len(ly.Neurons)
	if *vals == nil || cap(*vals) < nn {
		*vals = make([]float32, nn)
	} else if len(*vals) < nn {
		*vals = (*vals)[0:nn]
	}
	return ly.VarValues(*vals, varNm)
}

// VarNames is the Recorder interface: the names of the neuron variables
func (ly *Layer) VarNames() []string {
	return NeuronVars
}

// VarShape is the Recorder interface: every neuron variable has the layer shape
func (ly *Layer) VarShape(varNm string) ([]int, error) {
	if _, err := NeuronVarIdxByName(varNm); err != nil {
		return nil, err
	}
	return append([]int{}, ly.Shp.Shp...), nil
}

// VarValues is the Recorder interface: copies the values of given variable
// into vals, which must be at least the number of neurons long.
func (ly *Layer) VarValues(vals []float32, varNm string) error {
	vidx, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return err
	}
	for ni := range ly.Neurons {
		vals[ni] = ly.Neurons[ni].VarByIndex(vidx)
	}
	return nil
}
