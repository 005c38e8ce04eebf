// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the YAML parameter files used to build and train
// the Diehl & Cook network.  The top-level network key is required; all
// other settings fall back to Default.
package config

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"

	"github.com/emer/emergent/params"
	"github.com/emer/snn/snn"
	"gopkg.in/yaml.v3"
)

// Params is the root of a parameter file.
type Params struct {
	// Name labels log messages.
	Name string `yaml:"name"`

	// Network holds the network construction parameters.
	Network NetworkConfig `yaml:"network"`

	// Training holds the training loop parameters.
	Training TrainingConfig `yaml:"training"`
}

// NetworkConfig mirrors snn.DCParams, plus optional per-layer and
// per-connection overrides.
type NetworkConfig struct {
	Dt           float32 `yaml:"dt"`
	Time         int     `yaml:"time"`
	NInput       int     `yaml:"n_input"`
	InputShape   []int   `yaml:"input_shape,flow"`
	NNeurons     int     `yaml:"n_neurons"`
	WExc         float32 `yaml:"w_exc"`
	WInh         float32 `yaml:"w_inh"`
	NuPre        float32 `yaml:"nu_pre"`
	NuPost       float32 `yaml:"nu_post"`
	WtMin        float32 `yaml:"wmin"`
	WtMax        float32 `yaml:"wmax"`
	WtInitMax    float32 `yaml:"wt_init_max"`
	Norm         float32 `yaml:"norm"`
	ThetaPlus    float32 `yaml:"theta_plus"`
	TcThetaDecay float32 `yaml:"tc_theta_decay"`

	// Layers overrides neuron parameters, keyed by layer name.
	Layers map[string]LayerConfig `yaml:"layers,omitempty"`

	// Connections overrides connection parameters, keyed by connection
	// name (Send + To + Recv, e.g. InputToExcitatory).
	Connections map[string]ConnConfig `yaml:"connections,omitempty"`
}

// LayerConfig holds optional neuron parameter overrides for one layer.
// Unset fields keep the network's own values.
type LayerConfig struct {
	Rest         *float32 `yaml:"rest,omitempty"`
	Reset        *float32 `yaml:"reset,omitempty"`
	Threshold    *float32 `yaml:"threshold,omitempty"`
	Refractory   *float32 `yaml:"refractory_period,omitempty"`
	TcDecay      *float32 `yaml:"tc_decay,omitempty"`
	TcTrace      *float32 `yaml:"tc_trace,omitempty"`
	ThetaPlus    *float32 `yaml:"theta_plus,omitempty"`
	TcThetaDecay *float32 `yaml:"tc_theta_decay,omitempty"`
}

// ConnConfig holds optional parameter overrides for one connection.
type ConnConfig struct {
	WtMin  *float32 `yaml:"wmin,omitempty"`
	WtMax  *float32 `yaml:"wmax,omitempty"`
	Norm   *float32 `yaml:"normalization_target,omitempty"`
	NuPre  *float32 `yaml:"nu_pre,omitempty"`
	NuPost *float32 `yaml:"nu_post,omitempty"`
}

// TrainingConfig configures the trainer.
type TrainingConfig struct {
	Epochs   int     `yaml:"epochs"`
	NClasses int     `yaml:"n_classes"`
	Seed     int64   `yaml:"seed"`
	MaxRate  float32 `yaml:"max_rate"`
}

// Default returns Params with the defaults of the Diehl & Cook network.
func Default() *Params {
	var dp snn.DCParams
	dp.Defaults()
	return &Params{
		Name: "snn",
		Network: NetworkConfig{
			Dt:           dp.Dt,
			Time:         dp.Time,
			NInput:       dp.NInput,
			InputShape:   dp.InputShape,
			NNeurons:     dp.NNeurons,
			WExc:         dp.WExc,
			WInh:         dp.WInh,
			NuPre:        dp.NuPre,
			NuPost:       dp.NuPost,
			WtMin:        dp.WtMin,
			WtMax:        dp.WtMax,
			WtInitMax:    dp.WtInitMax,
			Norm:         dp.Norm,
			ThetaPlus:    dp.ThetaPlus,
			TcThetaDecay: dp.TcThetaDecay,
		},
		Training: TrainingConfig{
			Epochs:   10,
			NClasses: 10,
			Seed:     1,
			MaxRate:  0.25,
		},
	}
}

// Parse decodes a parameter file over the defaults.  The top-level
// network key must be present.
func Parse(data []byte) (*Params, error) {
	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("%w: parsing config: %v", snn.ErrConfig, err)
	}
	if _, has := keys["network"]; !has {
		return nil, fmt.Errorf("%w: config file should contain keyword \"network\"", snn.ErrConfig)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config: %v", snn.ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads and validates the parameter file at path.
func LoadFromFile(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		log.Printf("[config] invalid configuration file at: %v: %v\n", path, err)
		return nil, err
	}
	log.Printf("[%v] loaded configuration file at: %v\n", cfg.Name, path)
	return cfg, nil
}

// Save writes the parameters as YAML to path.
func (c *Params) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that cannot be checked by the network itself
// before it is built.
func (c *Params) Validate() error {
	nc := &c.Network
	switch {
	case nc.Dt <= 0:
		return fmt.Errorf("%w: network.dt must be > 0, got %g", snn.ErrConfig, nc.Dt)
	case nc.Time <= 0:
		return fmt.Errorf("%w: network.time must be > 0, got %d", snn.ErrConfig, nc.Time)
	case nc.NInput <= 0 || nc.NNeurons <= 0:
		return fmt.Errorf("%w: network.n_input and network.n_neurons must be > 0, got %d, %d", snn.ErrConfig, nc.NInput, nc.NNeurons)
	case nc.WtMin > nc.WtMax:
		return fmt.Errorf("%w: network.wmin: %g > network.wmax: %g", snn.ErrConfig, nc.WtMin, nc.WtMax)
	}
	if len(nc.InputShape) > 0 {
		n := 1
		for _, d := range nc.InputShape {
			n *= d
		}
		if n != nc.NInput {
			return fmt.Errorf("%w: network.input_shape: %v has %d elements, network.n_input is %d", snn.ErrConfig, nc.InputShape, n, nc.NInput)
		}
	}
	if c.Training.Epochs < 0 {
		return fmt.Errorf("%w: training.epochs must be >= 0, got %d", snn.ErrConfig, c.Training.Epochs)
	}
	if c.Training.NClasses <= 0 {
		return fmt.Errorf("%w: training.n_classes must be > 0, got %d", snn.ErrConfig, c.Training.NClasses)
	}
	if c.Training.MaxRate < 0 || c.Training.MaxRate > 1 {
		return fmt.Errorf("%w: training.max_rate must be in [0, 1], got %g", snn.ErrConfig, c.Training.MaxRate)
	}
	return nil
}

// DCParams returns the network construction parameters.
func (c *Params) DCParams() *snn.DCParams {
	nc := &c.Network
	return &snn.DCParams{
		NInput:       nc.NInput,
		InputShape:   nc.InputShape,
		NNeurons:     nc.NNeurons,
		Dt:           nc.Dt,
		Time:         nc.Time,
		WExc:         nc.WExc,
		WInh:         nc.WInh,
		NuPre:        nc.NuPre,
		NuPost:       nc.NuPost,
		WtMin:        nc.WtMin,
		WtMax:        nc.WtMax,
		WtInitMax:    nc.WtInitMax,
		Norm:         nc.Norm,
		ThetaPlus:    nc.ThetaPlus,
		TcThetaDecay: nc.TcThetaDecay,
	}
}

// Topology returns the Diehl & Cook topology with the overrides applied
// as its parameter sheet, seeded with the training seed.
func (c *Params) Topology() *snn.Topology {
	tp := snn.NewDCTopology(c.DCParams())
	tp.Seed = c.Training.Seed
	if sh := c.Sheet(); len(*sh) > 0 {
		tp.Params = sh
	}
	return tp
}

// Sheet returns the layer and connection overrides as a params.Sheet of
// #Name selectors, in name order.
func (c *Params) Sheet() *params.Sheet {
	sh := &params.Sheet{}
	for _, nm := range sortedKeys(c.Network.Layers) {
		lc := c.Network.Layers[nm]
		pp := params.Params{}
		setParam(pp, "Layer.LIF.Rest", lc.Rest)
		setParam(pp, "Layer.LIF.Reset", lc.Reset)
		setParam(pp, "Layer.LIF.Thr", lc.Threshold)
		setParam(pp, "Layer.LIF.Refract", lc.Refractory)
		setParam(pp, "Layer.LIF.TcDecay", lc.TcDecay)
		setParam(pp, "Layer.Trace.Tc", lc.TcTrace)
		setParam(pp, "Layer.Adapt.ThetaPlus", lc.ThetaPlus)
		setParam(pp, "Layer.Adapt.TcThetaDecay", lc.TcThetaDecay)
		if len(pp) > 0 {
			*sh = append(*sh, &params.Sel{Sel: "#" + nm, Desc: "layer overrides from config", Params: pp})
		}
	}
	for _, nm := range sortedKeys(c.Network.Connections) {
		cc := c.Network.Connections[nm]
		pp := params.Params{}
		setParam(pp, "Conn.WtRange.Min", cc.WtMin)
		setParam(pp, "Conn.WtRange.Max", cc.WtMax)
		setParam(pp, "Conn.Norm", cc.Norm)
		setParam(pp, "Conn.Learn.NuPre", cc.NuPre)
		setParam(pp, "Conn.Learn.NuPost", cc.NuPost)
		if len(pp) > 0 {
			*sh = append(*sh, &params.Sel{Sel: "#" + nm, Desc: "connection overrides from config", Params: pp})
		}
	}
	return sh
}

func setParam(pp params.Params, path string, val *float32) {
	if val != nil {
		pp[path] = strconv.FormatFloat(float64(*val), 'g', -1, 32)
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
