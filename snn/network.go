// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/etime"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/emer/emergent/timer"
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/kit"
)

// NetState is the run state of a Network
type NetState int32

//go:generate stringer -type=NetState

var KiT_NetState = kit.Enums.AddEnum(NetStateN, kit.NotBitFlag, nil)

func (ev NetState) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NetState) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Idle is the state after Build and after ResetStateVars
	Idle NetState = iota

	// Stepping is the state during Run
	Stepping

	// Done is the state after a Run has completed
	Done

	NetStateN
)

// HookFunc is called with the network during a Run, after each step
// (StepHooks) or at the end of the run (RunHooks).
type HookFunc func(net *Network)

// snn.Network is the spiking network: it owns the layers, the connections
// between them, and the monitors, and runs the step loop.
type Network struct {
	Nm           string                 `desc:"overall name of network -- helps discriminate if there are multiple"`
	Dt           float32                `def:"1" desc:"integration time step, in msec -- all time constants are relative to this"`
	Ctx          *ExecutionContext      `desc:"execution context: backend, mode and counters"`
	Layers       []*Layer               `desc:"list of layers, in order of insertion -- integration order"`
	Conns        []*Connection          `desc:"list of connections, in order of insertion -- current accumulation order"`
	Monitors     []*Monitor             `desc:"list of monitors, in order of insertion"`
	State        NetState               `inactive:"+" desc:"current run state"`
	NormInterval int                    `def:"1" min:"1" desc:"number of training Run calls between weight normalizations -- normalization is done at the end of the Run"`
	NormCtr      int                    `inactive:"+" desc:"counter for how long it has been since last normalization"`
	StepHooks    []HookFunc             `view:"-" desc:"functions called after every step, after monitors are recorded"`
	RunHooks     []HookFunc             `view:"-" desc:"functions called at the end of every Run, before normalization"`
	LayMap       map[string]*Layer      `view:"-" desc:"map of name to layers -- layer names must be unique"`
	ConnMap      map[string]*Connection `view:"-" desc:"map of send + To + recv name to connections"`
	MonMap       map[string]*Monitor    `view:"-" desc:"map of name to monitors -- monitor names must be unique"`
	FunTimes     map[string]*timer.Time `view:"-" desc:"timers for each major function (step phase)"`
	Rand         erand.SysRand          `view:"-" desc:"random source for weight initialization and sample order -- the global source unless SetRandSeed is called"`
	Built        bool                   `inactive:"+" desc:"true after Build has succeeded"`
}

// NewNetwork returns a new network with given integration time step,
// using given execution context (nil = serial backend, training mode).
func NewNetwork(name string, dt float32, ctx *ExecutionContext) *Network {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	nt := &Network{Nm: name, Dt: dt, Ctx: ctx, NormInterval: 1}
	nt.LayMap = make(map[string]*Layer)
	nt.ConnMap = make(map[string]*Connection)
	nt.MonMap = make(map[string]*Monitor)
	nt.FunTimes = make(map[string]*timer.Time)
	return nt
}

func (nt *Network) Name() string { return nt.Nm }

// SetRandSeed gives the network its own random source with given seed,
// so that weight initialization is reproducible.
func (nt *Network) SetRandSeed(seed int64) {
	nt.Rand.NewRand(seed)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Config

// AddLayer adds a new layer with given name, number of neurons, shape
// (nil = 1D) and kind.  Returns ErrConfig for a duplicate name or a size
// mismatch.
func (nt *Network) AddLayer(name string, n int, shape []int, kind NeuronKind) (*Layer, error) {
	if nt.Built {
		return nil, stateErr("Network: %v: cannot add layer: %v after Build", nt.Nm, name)
	}
	if _, has := nt.LayMap[name]; has {
		return nil, configErr("Network: %v: layer named: %v already exists", nt.Nm, name)
	}
	ly := NewLayer(name, kind)
	if err := ly.Config(n, shape); err != nil {
		return nil, err
	}
	ly.Rand = &nt.Rand
	ly.Idx = len(nt.Layers)
	nt.Layers = append(nt.Layers, ly)
	nt.LayMap[name] = ly
	return ly, nil
}

// ConnectLayers adds a new connection from send to recv using given
// pattern of connectivity.  At most one connection is allowed per
// (send, recv) pair.
func (nt *Network) ConnectLayers(send, recv *Layer, pat prjn.Pattern, typ ConnType) (*Connection, error) {
	if nt.Built {
		return nil, stateErr("Network: %v: cannot add connection after Build", nt.Nm)
	}
	if send == nil || recv == nil {
		return nil, configErr("Network: %v: ConnectLayers: nil layer", nt.Nm)
	}
	if nt.LayMap[send.Nm] != send || nt.LayMap[recv.Nm] != recv {
		return nil, configErr("Network: %v: ConnectLayers: layers %v, %v must both belong to this network", nt.Nm, send.Nm, recv.Nm)
	}
	cn := NewConnection(send, recv, pat, typ)
	if _, has := nt.ConnMap[cn.Name()]; has {
		return nil, configErr("Network: %v: connection from: %v to: %v already exists", nt.Nm, send.Nm, recv.Nm)
	}
	cn.Idx = len(nt.Conns)
	nt.Conns = append(nt.Conns, cn)
	nt.ConnMap[cn.Name()] = cn
	send.SendConns = append(send.SendConns, cn)
	recv.RecvConns = append(recv.RecvConns, cn)
	return cn, nil
}

// AddMonitor adds a new monitor recording given variables from target,
// keeping at most capacity steps (0 = unlimited).
func (nt *Network) AddMonitor(name string, target Recorder, vars []string, capacity int) (*Monitor, error) {
	if nt.State == Stepping {
		return nil, stateErr("Network: %v: cannot add monitor during Run", nt.Nm)
	}
	mon, err := NewMonitor(name, target, vars, capacity)
	if err != nil {
		return nil, err
	}
	if _, has := nt.MonMap[mon.Nm]; has {
		return nil, configErr("Network: %v: monitor named: %v already exists", nt.Nm, mon.Nm)
	}
	nt.Monitors = append(nt.Monitors, mon)
	nt.MonMap[mon.Nm] = mon
	return mon, nil
}

// AddLayerMonitor adds a monitor on the layer of given name
func (nt *Network) AddLayerMonitor(name, layNm string, vars []string, capacity int) (*Monitor, error) {
	ly, err := nt.LayerByNameTry(layNm)
	if err != nil {
		return nil, err
	}
	return nt.AddMonitor(name, ly, vars, capacity)
}

// LayerByName returns layer of given name, nil if not found
func (nt *Network) LayerByName(name string) *Layer {
	return nt.LayMap[name]
}

// LayerByNameTry returns layer of given name, returns error if not found
func (nt *Network) LayerByNameTry(name string) (*Layer, error) {
	ly, ok := nt.LayMap[name]
	if !ok {
		return nil, configErr("Layer named: %v not found in Network: %v", name, nt.Nm)
	}
	return ly, nil
}

// ConnByName returns the connection from send to recv layer names,
// nil if not found
func (nt *Network) ConnByName(send, recv string) *Connection {
	return nt.ConnMap[send+"To"+recv]
}

// MonitorByName returns monitor of given name, nil if not found
func (nt *Network) MonitorByName(name string) *Monitor {
	return nt.MonMap[name]
}

// Build validates all parameters and constructs the connection weights,
// which are then initialized.  Time constants that are not large relative
// to Dt are logged as numeric warnings.
func (nt *Network) Build() error {
	if nt.Built {
		return stateErr("Network: %v: already built", nt.Nm)
	}
	if nt.Dt <= 0 {
		return configErr("Network: %v: Dt must be > 0, is: %g", nt.Nm, nt.Dt)
	}
	if len(nt.Layers) == 0 {
		return configErr("Network: %v: no layers", nt.Nm)
	}
	if nt.NormInterval < 1 {
		nt.NormInterval = 1
	}
	for _, ly := range nt.Layers {
		ly.UpdateParams(nt.Dt)
		if err := ly.Validate(); err != nil {
			return err
		}
		ly.NumericWarnings(nt.Dt)
	}
	for _, cn := range nt.Conns {
		if err := cn.Build(); err != nil {
			return err
		}
	}
	nt.Built = true
	nt.InitWts()
	return nil
}

// InitWts initializes synaptic weights and all other learned state
// (adaptive thresholds), and resets all transient state and counters.
func (nt *Network) InitWts() {
	for _, cn := range nt.Conns {
		cn.InitWts(&nt.Rand)
	}
	for _, ly := range nt.Layers {
		ly.InitThetas()
	}
	nt.NormCtr = 0
	nt.Ctx.Reset()
	nt.initStateVars()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Mode

// Train enables plasticity and threshold adaptation
func (nt *Network) Train() {
	nt.Ctx.Mode = etime.Train
}

// Eval disables plasticity and threshold adaptation
func (nt *Network) Eval() {
	nt.Ctx.Mode = etime.Test
}

// IsTraining returns true in training mode
func (nt *Network) IsTraining() bool {
	return nt.Ctx.IsTraining()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Run

// ResetStateVars resets all transient state to baseline: membrane
// potentials to rest, and spikes, currents, refractory counters and traces
// to 0, and clears monitor histories.  Weights and thresholds are not
// affected.  Returns ErrRuntimeState during a Run.
func (nt *Network) ResetStateVars() error {
	if nt.State == Stepping {
		return stateErr("Network: %v: cannot reset state during Run", nt.Nm)
	}
	nt.initStateVars()
	return nil
}

func (nt *Network) initStateVars() {
	for _, ly := range nt.Layers {
		ly.InitActs()
	}
	for _, mon := range nt.Monitors {
		mon.Reset()
	}
	nt.State = Idle
}

// ValidateInputs checks the inputs for a Run of given number of steps:
// every name must be an input layer, and every tensor must be shaped
// [steps, layer shape...] (or any shape with the same number of values
// per step).
func (nt *Network) ValidateInputs(inputs map[string]*etensor.Float32, steps int) error {
	for nm, tsr := range inputs {
		ly, ok := nt.LayMap[nm]
		if !ok {
			return configErr("Network: %v: input for unknown layer: %v", nt.Nm, nm)
		}
		if !ly.Kind.IsInput() {
			return configErr("Network: %v: input for layer: %v which is not an input layer: %v", nt.Nm, nm, ly.Kind)
		}
		if tsr == nil || tsr.NumDims() < 1 {
			return configErr("Network: %v: input for layer: %v has no data", nt.Nm, nm)
		}
		if tsr.Dim(0) != steps {
			return stateErr("Network: %v: input for layer: %v has %d time steps, run is for %d", nt.Nm, nm, tsr.Dim(0), steps)
		}
		if tsr.Len() != steps*ly.NNeurons() {
			return configErr("Network: %v: input for layer: %v has %d values per step, layer has %d neurons", nt.Nm, nm, tsr.Len()/steps, ly.NNeurons())
		}
	}
	return nil
}

// Run runs the network for given number of time steps, with inputs to
// input layers keyed by layer name, each [steps, layer shape...].
// Input layers without inputs receive none.  All inputs are checked before
// anything is changed.
//
// Each step: input layers are integrated with their inputs, then every
// connection adds its current into the receiving layer, from the spikes
// as they stand (so input spikes of this step, and computed spikes of the
// previous step), then computed layers are integrated in order, then the
// weights learn (in training mode), monitors record, and step hooks run.
// After the last step, run hooks run, and weights are normalized every
// NormInterval training runs.
func (nt *Network) Run(inputs map[string]*etensor.Float32, steps int) error {
	if !nt.Built {
		return stateErr("Network: %v: must Build before Run", nt.Nm)
	}
	if nt.State == Stepping {
		return stateErr("Network: %v: Run called during Run", nt.Nm)
	}
	if steps <= 0 {
		return configErr("Network: %v: number of steps must be > 0, is: %d", nt.Nm, steps)
	}
	if err := nt.ValidateInputs(inputs, steps); err != nil {
		return err
	}
	ctx := nt.Ctx
	learn := ctx.IsTraining()
	nt.State = Stepping
	ctx.RunStart()
	for step := 0; step < steps; step++ {
		nt.FunTimerStart("Input")
		for _, ly := range nt.Layers {
			ly.InitGe()
			if !ly.Kind.IsInput() {
				continue
			}
			if tsr, has := inputs[ly.Nm]; has {
				ly.ApplyExtStep(tsr, step)
			}
			ly.Integrate(ctx)
		}
		nt.FunTimerStop("Input")

		nt.FunTimerStart("Current")
		for _, cn := range nt.Conns {
			cn.CurrentToRecv(ctx)
		}
		nt.FunTimerStop("Current")

		nt.FunTimerStart("Integrate")
		for _, ly := range nt.Layers {
			if !ly.Kind.IsInput() {
				ly.Integrate(ctx)
			}
		}
		nt.FunTimerStop("Integrate")

		if learn {
			nt.FunTimerStart("Plasticity")
			for _, cn := range nt.Conns {
				cn.ApplyPlasticity(ctx)
			}
			nt.FunTimerStop("Plasticity")
		}

		for _, mon := range nt.Monitors {
			if err := mon.Record(); err != nil {
				nt.State = Done
				return err
			}
		}
		for _, hf := range nt.StepHooks {
			hf(nt)
		}
		ctx.StepInc(nt.Dt)
	}
	for _, hf := range nt.RunHooks {
		hf(nt)
	}
	ctx.Runs++
	if learn {
		nt.NormCtr++
		if nt.NormCtr >= nt.NormInterval {
			nt.Normalize()
			nt.NormCtr = 0
		}
	}
	nt.State = Done
	return nil
}

// Normalize normalizes the weights of all connections that have a Norm
// target.
func (nt *Network) Normalize() {
	nt.FunTimerStart("Normalize")
	for _, cn := range nt.Conns {
		cn.Normalize()
	}
	nt.FunTimerStop("Normalize")
}

//////////////////////////////////////////////////////////////////////////////////////
//  Params

// ApplyParams applies given parameter style Sheet to layers and
// connections in this network.  Layer styles are applied to paths such as
// "Layer.LIF.Thr", and connection styles to paths such as "Conn.Learn.NuPost".
// If setMsg is true, then a message is printed to confirm each parameter
// that is set.  Parameters are re-validated if the network is built, and
// weights are clipped to any changed WtRange.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	if nt.State == Stepping {
		return false, stateErr("Network: %v: cannot apply params during Run", nt.Nm)
	}
	applied := false
	var rerr error
	for _, ly := range nt.Layers {
		app, err := ly.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	if rerr != nil || !applied || !nt.Built {
		return applied, rerr
	}
	for _, ly := range nt.Layers {
		ly.UpdateParams(nt.Dt)
		if err := ly.Validate(); err != nil {
			return applied, err
		}
	}
	for _, cn := range nt.Conns {
		if err := cn.Validate(); err != nil {
			return applied, err
		}
		cn.ClipWts()
	}
	return applied, nil
}

// ApplyParams applies given parameter style Sheet to this layer and its
// receiving connections.
func (ly *Layer) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	app, err := pars.Apply(ly, setMsg)
	if app {
		applied = true
	}
	if err != nil {
		rerr = err
	}
	for _, cn := range ly.RecvConns {
		app, err = pars.Apply(cn, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

//////////////////////////////////////////////////////////////////////////////////////
//  Reports

// SizeReport returns a string reporting the size of each layer and
// connection, and overall.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	neur := 0
	neurMem := 0
	syn := 0
	synMem := 0
	for _, ly := range nt.Layers {
		nn := len(ly.Neurons)
		nmem := nn*int(unsafe.Sizeof(Neuron{})) + len(ly.GeBuf)*4
		neur += nn
		neurMem += nmem
		fmt.Fprintf(&b, "%14s:\t Neurons: %d\t NeurMem: %v \t Sends To:\n", ly.Nm, nn, (datasize.ByteSize)(nmem).HumanReadable())
		for _, cn := range ly.SendConns {
			ns := cn.NConns()
			syn += ns
			pmem := len(cn.Wts)*4 + len(cn.Mask)
			synMem += pmem
			fmt.Fprintf(&b, "\t%14s:\t Syns: %d\t SynnMem: %v\n", cn.Recv.Name(), ns, (datasize.ByteSize)(pmem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", nt.Nm, neur, (datasize.ByteSize)(neurMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}

// Summary returns a table of the layers, connections and monitors
func (nt *Network) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n Network: %v  Dt: %g  Backend: %v\n", nt.Nm, nt.Dt, nt.Ctx.Backend.Name())
	b.WriteString(strings.Repeat("-", 65) + "\n")
	fmt.Fprintf(&b, "%-20s%-20s%-10s%-15s\n", "Layer Name", "Type", "Neurons", "Shape")
	b.WriteString(strings.Repeat("-", 65) + "\n")
	for _, ly := range nt.Layers {
		fmt.Fprintf(&b, "%-20s%-20s%-10d%-15v\n", ly.Nm, ly.Kind, ly.NNeurons(), ly.Shp.Shp)
	}

	b.WriteString("\nConnections\n")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	fmt.Fprintf(&b, "%-15s%-15s%-30s%-20s\n", "Source", "Target", "Shape", "Connection Type")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	for _, cn := range nt.Conns {
		shp := fmt.Sprintf("[%d %d]", cn.Send.NNeurons(), cn.Recv.NNeurons())
		fmt.Fprintf(&b, "%-15s%-15s%-30s%v %-20v\n", cn.Send.Nm, cn.Recv.Nm, shp, cn.Learn.Kind, cn.Typ)
	}

	b.WriteString("\nMonitors\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	fmt.Fprintf(&b, "%-20s%-20s%-10s\n", "Monitor Name", "Target", "Time Steps")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, mon := range nt.Monitors {
		fmt.Fprintf(&b, "%-20s%-20s%-10d\n", mon.Nm, mon.Target.Name(), mon.Capacity)
	}
	b.WriteString(strings.Repeat("-", 50) + "\n")
	return b.String()
}

// FunTimerStart starts function timer for given function name -- ensures creation of timer
func (nt *Network) FunTimerStart(fun string) {
	ft, ok := nt.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		nt.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (nt *Network) FunTimerStop(fun string) {
	ft := nt.FunTimes[fun]
	ft.Stop()
}

// TimerReport returns the amount of time spent in each step phase
func (nt *Network) TimerReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TimerReport: %v, Backend: %v\n", nt.Nm, nt.Ctx.Backend.Name())
	fmt.Fprintf(&b, "\t%13s \t%7s\t%7s\n", "Function Name", "Secs", "Pct")
	nfn := len(nt.FunTimes)
	fnms := make([]string, 0, nfn)
	for k := range nt.FunTimes {
		fnms = append(fnms, k)
	}
	sort.StringSlice(fnms).Sort()
	pcts := make([]float64, nfn)
	tot := 0.0
	for i, fn := range fnms {
		pcts[i] = nt.FunTimes[fn].TotalSecs()
		tot += pcts[i]
	}
	for i, fn := range fnms {
		pct := 0.0
		if tot > 0 {
			pct = 100 * (pcts[i] / tot)
		}
		fmt.Fprintf(&b, "\t%13s \t%7.3f\t%7.1f\n", fn, pcts[i], pct)
	}
	fmt.Fprintf(&b, "\t%13s \t%7.3f\n", "Total", tot)
	return b.String()
}

// ResetTimers resets all the function timers
func (nt *Network) ResetTimers() {
	for _, ft := range nt.FunTimes {
		ft.Reset()
	}
}

// LogSpikeCounts logs the number of neurons spiking on the current step in
// each layer, for debugging.
func (nt *Network) LogSpikeCounts() {
	var b strings.Builder
	for _, ly := range nt.Layers {
		fmt.Fprintf(&b, " %v: %d", ly.Nm, ly.SpikeCount())
	}
	log.Printf("Network: %v step: %d spikes:%s\n", nt.Nm, nt.Ctx.StepTot, b.String())
}
