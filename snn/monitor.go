// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// Recorder is implemented by anything a Monitor can record from:
// Layer (neuron variables) and Connection (weights).
type Recorder interface {
	// Name is the name of the object, used as the default Monitor name
	Name() string

	// VarNames are the variables that can be recorded
	VarNames() []string

	// VarShape returns the shape of one recording of given variable,
	// or an error if the variable is not valid.
	VarShape(varNm string) ([]int, error)

	// VarValues copies the current values of given variable into vals,
	// which is the size of the VarShape.
	VarValues(vals []float32, varNm string) error
}

// snn.Monitor records the time history of variables of one Recorder,
// one row per time step.  If Capacity > 0, only the most recent
// Capacity steps are kept, older ones being dropped.
type Monitor struct {
	Nm       string   `desc:"name of the monitor -- unique within the network"`
	Target   Recorder `desc:"object being recorded"`
	Vars     []string `desc:"variables being recorded"`
	Capacity int      `desc:"maximum number of time steps kept -- 0 = unlimited"`
	Active   bool     `desc:"recording is only done while Active"`

	Shapes [][]int     `view:"-" desc:"shape of one recording for each var"`
	Sizes  []int       `view:"-" desc:"number of values in one recording for each var"`
	Hist   [][]float32 `view:"-" desc:"history for each var, rows concatenated"`
	NRows  int         `view:"-" desc:"number of rows (time steps) currently in the history"`

	prvHist [][]float32 // Hist before the current Record, restored on error
}

// NewMonitor returns a new active monitor on given target, for given
// variables.  Returns ErrConfig for variables the target does not have.
func NewMonitor(name string, target Recorder, vars []string, capacity int) (*Monitor, error) {
	if name == "" {
		name = target.Name() + "_Monitor"
	}
	if len(vars) == 0 {
		return nil, configErr("Monitor: %v: no variables to record", name)
	}
	if capacity < 0 {
		return nil, configErr("Monitor: %v: Capacity must be >= 0, is: %d", name, capacity)
	}
	mon := &Monitor{Nm: name, Target: target, Vars: append([]string{}, vars...), Capacity: capacity, Active: true}
	mon.Shapes = make([][]int, len(vars))
	mon.Sizes = make([]int, len(vars))
	mon.Hist = make([][]float32, len(vars))
	mon.prvHist = make([][]float32, len(vars))
	for vi, vnm := range vars {
		shp, err := target.VarShape(vnm)
		if err != nil {
			return nil, configErr("Monitor: %v: %v", name, err)
		}
		sz := 1
		for _, d := range shp {
			sz *= d
		}
		mon.Shapes[vi] = shp
		mon.Sizes[vi] = sz
	}
	return mon, nil
}

func (mon *Monitor) Name() string { return mon.Nm }

// VarIdx returns the index of given variable among Vars, or -1
func (mon *Monitor) VarIdx(varNm string) int {
	for vi, vnm := range mon.Vars {
		if vnm == varNm {
			return vi
		}
	}
	return -1
}

// Record appends the current values of all variables as a new row,
// if Active.  When at Capacity, the oldest row is dropped first.
// If the target fails to provide a variable, the history is left as it
// was and the error is returned.
func (mon *Monitor) Record() error {
	if !mon.Active {
		return nil
	}
	full := mon.Capacity > 0 && mon.NRows >= mon.Capacity
	copy(mon.prvHist, mon.Hist)
	for vi, vnm := range mon.Vars {
		sz := mon.Sizes[vi]
		h := mon.Hist[vi]
		if full {
			h = h[sz:]
		}
		st := len(h)
		h = append(h, make([]float32, sz)...)
		if err := mon.Target.VarValues(h[st:], vnm); err != nil {
			copy(mon.Hist, mon.prvHist)
			return configErr("Monitor: %v: Record: %v", mon.Nm, err)
		}
		mon.Hist[vi] = h
	}
	if !full {
		mon.NRows++
	}
	return nil
}

// Get returns a copy of the history of given variable, as a tensor of
// shape [steps, var shape...].  Getting twice without a Record in between
// returns identical values.
func (mon *Monitor) Get(varNm string) (*etensor.Float32, error) {
	vi := mon.VarIdx(varNm)
	if vi < 0 {
		return nil, configErr("Monitor: %v: variable: %v is not being recorded", mon.Nm, varNm)
	}
	shp := append([]int{mon.NRows}, mon.Shapes[vi]...)
	tsr := etensor.NewFloat32(shp, nil, nil)
	copy(tsr.Values, mon.Hist[vi])
	return tsr, nil
}

// Reset clears the history
func (mon *Monitor) Reset() {
	for vi := range mon.Hist {
		mon.Hist[vi] = mon.Hist[vi][:0]
	}
	mon.NRows = 0
}

// Table returns the history as a table with one row per step:
// a Step column followed by one tensor column per variable.
func (mon *Monitor) Table() *etable.Table {
	sch := etable.Schema{
		{"Step", etensor.INT64, nil, nil},
	}
	for vi, vnm := range mon.Vars {
		sch = append(sch, etable.Column{vnm, etensor.FLOAT32, mon.Shapes[vi], nil})
	}
	dt := &etable.Table{}
	dt.SetMetaData("name", mon.Nm)
	dt.SetMetaData("desc", "Monitor history of "+mon.Target.Name())
	dt.SetFromSchema(sch, mon.NRows)
	for row := 0; row < mon.NRows; row++ {
		dt.SetCellFloat("Step", row, float64(row))
	}
	for vi := range mon.Vars {
		col := dt.Cols[vi+1].(*etensor.Float32)
		copy(col.Values, mon.Hist[vi])
	}
	return dt
}
