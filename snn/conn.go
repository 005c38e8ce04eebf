// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"

	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/minmax"
	"github.com/goki/mat32"
)

// snn.Connection is a dense weight matrix from a sending Layer to a receiving
// Layer.  Wts is row-major [Send.N x Recv.N], so the weight from sending
// neuron si to receiving neuron ri is Wts[si * Recv.N + ri].
// Connectivity from the Pat pattern is encoded in the weights: unconnected
// pairs hold 0 and are not changed by learning or normalization, so a
// connection with unconnected pairs must have a WtRange that includes 0.
type Connection struct {
	Send    *Layer          `desc:"sending layer for this connection"`
	Recv    *Layer          `desc:"receiving layer for this connection"`
	Cls     string          `desc:"Class is for applying parameter styles, can be space separated multple tags"`
	Typ     ConnType        `desc:"type of connection -- LateralConn builds the pattern in same-layer mode"`
	Pat     prjn.Pattern    `desc:"pattern of connectivity"`
	Idx     int             `desc:"a 0..n-1 index of the position of the connection within list of connections in the network"`
	WtInit  erand.RndParams `view:"inline" desc:"initial random weight distribution, for connected pairs"`
	WtRange minmax.F32      `view:"inline" desc:"weights are always clipped to within this range, after initialization and after every learning or normalization step"`
	Norm    float32         `min:"0" desc:"if > 0, Normalize rescales the weights into each receiving neuron so that the sum of their absolute values is Norm"`
	Learn   STDPParams      `view:"inline" desc:"plasticity rule parameters"`

	Wts  []float32 `view:"-" desc:"weights, row-major [Send.N x Recv.N]"`
	Mask []bool    `view:"-" desc:"connected pairs, same layout as Wts -- nil if every pair is connected"`

	spikers []int32 // sending neurons that are active on this step
}

// NewConnection returns a new connection with default parameters
func NewConnection(send, recv *Layer, pat prjn.Pattern, typ ConnType) *Connection {
	cn := &Connection{Send: send, Recv: recv, Pat: pat, Typ: typ}
	cn.Defaults()
	return cn
}

func (cn *Connection) Name() string     { return cn.Send.Name() + "To" + cn.Recv.Name() }
func (cn *Connection) Label() string    { return cn.Name() }
func (cn *Connection) TypeName() string { return "Conn" } // type category, for params..
func (cn *Connection) Class() string    { return cn.Typ.String() + " " + cn.Cls }
func (cn *Connection) SetClass(cls string) *Connection {
	cn.Cls = cls
	return cn
}

func (cn *Connection) String() string {
	str := ""
	if cn.Recv == nil {
		str += "recv=nil; "
	} else {
		str += cn.Recv.Name() + " <- "
	}
	if cn.Send == nil {
		str += "send=nil"
	} else {
		str += cn.Send.Name()
	}
	if cn.Pat == nil {
		str += " Pat=nil"
	} else {
		str += " Pat=" + cn.Pat.Name()
	}
	return str
}

func (cn *Connection) Defaults() {
	cn.WtInit.Dist = erand.Uniform
	cn.WtInit.Mean = 0.5
	cn.WtInit.Var = 0.25
	cn.WtRange.Set(0, 1)
	cn.Learn.Defaults()
}

// Validate tests for non-nil settings and consistent parameters
func (cn *Connection) Validate() error {
	if cn.Send == nil || cn.Recv == nil || cn.Pat == nil {
		return configErr("Connection: %v: Send, Recv and Pat must all be set", cn)
	}
	if cn.Recv.Kind.IsInput() {
		return configErr("Connection: %v: receiving layer is an input layer, whose spikes are only set externally", cn.Name())
	}
	if cn.Typ == LateralConn && cn.Send.Shp.Len() != cn.Recv.Shp.Len() {
		return configErr("Connection: %v: lateral connection requires layers of the same size: %d != %d", cn.Name(), cn.Send.Shp.Len(), cn.Recv.Shp.Len())
	}
	if cn.WtRange.Min > cn.WtRange.Max {
		return configErr("Connection: %v: WtRange.Min: %g > WtRange.Max: %g", cn.Name(), cn.WtRange.Min, cn.WtRange.Max)
	}
	if err := cn.validateMaskRange(); err != nil {
		return err
	}
	if cn.Norm < 0 {
		return configErr("Connection: %v: Norm must be >= 0, is: %g", cn.Name(), cn.Norm)
	}
	if err := cn.Learn.Validate(); err != nil {
		return err
	}
	if cn.Learn.IsPlastic() && !(cn.Send.Trace.On && cn.Recv.Trace.On) {
		return configErr("Connection: %v: plasticity requires spike traces on both the sending and receiving layers", cn.Name())
	}
	return nil
}

// Build constructs the weights and connectivity according to the pattern.
// The weights are not initialized -- call InitWts.
func (cn *Connection) Build() error {
	if err := cn.Validate(); err != nil {
		return err
	}
	ns := cn.Send.Shp.Len()
	nr := cn.Recv.Shp.Len()
	_, _, cons := cn.Pat.Connect(&cn.Send.Shp, &cn.Recv.Shp, cn.Typ == LateralConn)
	cn.Wts = make([]float32, ns*nr)
	cn.Mask = make([]bool, ns*nr)
	all := true
	for ri := 0; ri < nr; ri++ {
		for si := 0; si < ns; si++ {
			if cons.Value1D(ri*ns + si) {
				cn.Mask[si*nr+ri] = true
			} else {
				all = false
			}
		}
	}
	if all {
		cn.Mask = nil
	}
	if err := cn.validateMaskRange(); err != nil {
		cn.Wts = nil
		cn.Mask = nil
		return err
	}
	cn.spikers = make([]int32, 0, ns)
	return nil
}

// validateMaskRange checks that WtRange includes 0 when some pairs are
// not connected, as those hold a weight of 0.
func (cn *Connection) validateMaskRange() error {
	if cn.Mask == nil || (cn.WtRange.Min <= 0 && cn.WtRange.Max >= 0) {
		return nil
	}
	return configErr("Connection: %v: WtRange: [%g, %g] must include 0, the weight of unconnected pairs", cn.Name(), cn.WtRange.Min, cn.WtRange.Max)
}

// IsConnected returns true if sending neuron si connects to receiving
// neuron ri
func (cn *Connection) IsConnected(si, ri int) bool {
	if cn.Mask == nil {
		return true
	}
	return cn.Mask[si*cn.Recv.Shp.Len()+ri]
}

// NConns returns the number of connected pairs
func (cn *Connection) NConns() int {
	if cn.Mask == nil {
		return len(cn.Wts)
	}
	n := 0
	for _, c := range cn.Mask {
		if c {
			n++
		}
	}
	return n
}

// InitWts initializes weight values according to WtInit params, drawn
// from rnd, clipped to WtRange.
func (cn *Connection) InitWts(rnd erand.Rand) {
	for i := range cn.Wts {
		if cn.Mask != nil && !cn.Mask[i] {
			cn.Wts[i] = 0
			continue
		}
		cn.Wts[i] = cn.WtRange.ClipVal(float32(cn.WtInit.Gen(-1, rnd)))
	}
}

// ClipWts clips all weights to WtRange, e.g., after it has changed
func (cn *Connection) ClipWts() {
	for i, wt := range cn.Wts {
		cn.Wts[i] = cn.WtRange.ClipVal(wt)
	}
}

// Wt returns the weight from sending neuron si to receiving neuron ri
func (cn *Connection) Wt(si, ri int) float32 {
	return cn.Wts[si*cn.Recv.Shp.Len()+ri]
}

// SetWt sets the weight from sending neuron si to receiving neuron ri,
// clipped to WtRange.  Unconnected pairs are left at 0.
func (cn *Connection) SetWt(si, ri int, wt float32) {
	i := si*cn.Recv.Shp.Len() + ri
	if cn.Mask != nil && !cn.Mask[i] {
		return
	}
	cn.Wts[i] = cn.WtRange.ClipVal(wt)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Step methods

// CurrentToRecv adds the current from the sending spikes, as they stand now,
// into the receiving layer GeBuf:  ge[ri] += sum_si Spike[si] * W[si, ri].
// Only active senders are visited.  Receiving neurons are split over the
// context backend.
func (cn *Connection) CurrentToRecv(ctx *ExecutionContext) {
	cn.spikers = cn.spikers[:0]
	for si := range cn.Send.Neurons {
		if cn.Send.Neurons[si].Spike != 0 {
			cn.spikers = append(cn.spikers, int32(si))
		}
	}
	if len(cn.spikers) == 0 {
		return
	}
	nr := cn.Recv.Shp.Len()
	ge := cn.Recv.GeBuf
	ctx.Backend.Range(nr, func(st, ed int) {
		for _, si := range cn.spikers {
			sp := cn.Send.Neurons[si].Spike
			wts := cn.Wts[int(si)*nr : int(si+1)*nr]
			for ri := st; ri < ed; ri++ {
				ge[ri] += sp * wts[ri]
			}
		}
	})
}

// ApplyPlasticity applies the learning rule given the current spikes and
// traces of both layers, then clips every weight to WtRange.
// Receiving neurons are split over the context backend.
func (cn *Connection) ApplyPlasticity(ctx *ExecutionContext) {
	if !cn.Learn.IsPlastic() {
		return
	}
	ns := cn.Send.Shp.Len()
	nr := cn.Recv.Shp.Len()
	snr := cn.Send.Neurons
	rnr := cn.Recv.Neurons
	ctx.Backend.Range(nr, func(st, ed int) {
		for ri := st; ri < ed; ri++ {
			rn := &rnr[ri]
			for si := 0; si < ns; si++ {
				wi := si*nr + ri
				if cn.Mask != nil && !cn.Mask[wi] {
					continue
				}
				sn := &snr[si]
				if rn.Spike != 0 || sn.Spike != 0 {
					cn.Wts[wi] += cn.Learn.DWt(sn.Spike, sn.Trace, rn.Spike, rn.Trace)
				}
				cn.Wts[wi] = cn.clipWt(cn.Wts[wi], si, ri)
			}
		}
	})
}

// Normalize rescales the weights into each receiving neuron so that the
// sum of their absolute values equals Norm, then clips them to WtRange.
// Receiving neurons whose weights sum to 0 are left unchanged.
// Does nothing if Norm is 0.
func (cn *Connection) Normalize() {
	if cn.Norm <= 0 {
		return
	}
	ns := cn.Send.Shp.Len()
	nr := cn.Recv.Shp.Len()
	for ri := 0; ri < nr; ri++ {
		sum := float32(0)
		for si := 0; si < ns; si++ {
			sum += mat32.Abs(cn.Wts[si*nr+ri])
		}
		if sum == 0 {
			continue
		}
		fact := cn.Norm / sum
		for si := 0; si < ns; si++ {
			wi := si*nr + ri
			if cn.Mask != nil && !cn.Mask[wi] {
				continue
			}
			cn.Wts[wi] = cn.clipWt(cn.Wts[wi]*fact, si, ri)
		}
	}
}

// clipWt clips to WtRange, and panics if the result is still out of range,
// which only happens for NaN weights.
func (cn *Connection) clipWt(wt float32, si, ri int) float32 {
	wt = cn.WtRange.ClipVal(wt)
	if !(wt >= cn.WtRange.Min && wt <= cn.WtRange.Max) {
		panic(fmt.Sprintf("snn.Connection: %v: weight [%d, %d] = %g out of range [%g, %g] after clipping", cn.Name(), si, ri, wt, cn.WtRange.Min, cn.WtRange.Max))
	}
	return wt
}

//////////////////////////////////////////////////////////////////////////////////////
//  Access

// WtStats returns the min, max and mean of the connected weights
func (cn *Connection) WtStats() (mn, mx, avg float32) {
	var mm minmax.F32
	mm.SetInfinity()
	sum := float32(0)
	n := 0
	for i, w := range cn.Wts {
		if cn.Mask != nil && !cn.Mask[i] {
			continue
		}
		mm.FitValInRange(w)
		sum += w
		n++
	}
	if n == 0 {
		return 0, 0, 0
	}
	return mm.Min, mm.Max, sum / float32(n)
}

// VarNames is the Recorder interface: connections only record weights
func (cn *Connection) VarNames() []string {
	return []string{"Wt"}
}

// VarShape is the Recorder interface: weights are [Send.N, Recv.N]
func (cn *Connection) VarShape(varNm string) ([]int, error) {
	if varNm != "Wt" {
		return nil, fmt.Errorf("Connection VarShape: variable name: %v not valid", varNm)
	}
	return []int{cn.Send.Shp.Len(), cn.Recv.Shp.Len()}, nil
}

// VarValues is the Recorder interface: copies the weights into vals
func (cn *Connection) VarValues(vals []float32, varNm string) error {
	if varNm != "Wt" {
		return fmt.Errorf("Connection VarValues: variable name: %v not valid", varNm)
	}
	copy(vals, cn.Wts)
	return nil
}
