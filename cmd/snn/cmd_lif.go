// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/snn/encode"
	"github.com/emer/snn/snn"
	"github.com/spf13/cobra"
)

func newLIFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lif",
		Short: "Drive a single LIF neuron with random input spikes",
		Long: `Runs one input neuron A, spiking at random with probability --p on each
step, connected to one LIF neuron B, and prints the spike counts of both.
With --out, the recorded spikes and membrane potential of B are written as
tab separated values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			p, _ := cmd.Flags().GetFloat64("p")
			wt, _ := cmd.Flags().GetFloat64("wt")
			seed, _ := cmd.Flags().GetInt64("seed")
			out, _ := cmd.Flags().GetString("out")
			return runLIF(newContext(cmd), steps, p, wt, seed, out)
		},
	}
	cmd.Flags().Int("steps", 250, "number of time steps")
	cmd.Flags().Float64("p", 0.1, "probability of an input spike on each step")
	cmd.Flags().Float64("wt", 0.05, "mean connection weight (standard deviation 0.1)")
	cmd.Flags().Int64("seed", 1, "random seed")
	cmd.Flags().String("out", "", "file to write the B monitor to")
	return cmd
}

func runLIF(ctx *snn.ExecutionContext, steps int, p, wt float64, seed int64, out string) error {
	nt, err := snn.NewLIFTopology(steps, wt, seed).Build(ctx)
	if err != nil {
		return err
	}
	inp := encode.Bernoulli(steps, []int{1}, float32(p), erand.NewSysRand(seed))
	if err := nt.Run(map[string]*etensor.Float32{snn.LIFInput: inp}, steps); err != nil {
		return err
	}

	fmt.Print(nt.Summary())
	fmt.Printf("weight A -> B: %.4g\n", nt.ConnByName(snn.LIFInput, snn.LIFOutput).Wt(0, 0))
	for _, mnm := range []string{snn.LIFInput, snn.LIFOutput} {
		spk, err := nt.MonitorByName(mnm).Get("Spike")
		if err != nil {
			return err
		}
		n := 0
		for _, v := range spk.Values {
			if v > 0 {
				n++
			}
		}
		fmt.Printf("%v: %d spikes in %d steps\n", mnm, n, steps)
	}
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		return nt.MonitorByName(snn.LIFOutput).Table().WriteCSV(f, etable.Tab, etable.Headers)
	}
	return nil
}
