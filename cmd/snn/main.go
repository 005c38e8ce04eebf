// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command snn builds, inspects and trains spiking networks.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/emer/snn/config"
	"github.com/emer/snn/snn"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	log.SetPrefix("snn: ")
	rootCmd := &cobra.Command{
		Use:   "snn",
		Short: "Spiking neural network simulator",
		Long: `snn simulates networks of leaky integrate-and-fire neurons with
spike-timing-dependent plasticity.

The network is the modified Diehl & Cook network, configured by an optional
YAML parameter file (--config), which must contain a "network" section.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML parameter file (default: built-in parameters)")
	rootCmd.PersistentFlags().Int("threads", 0, "number of threads for the parallel backend (0 = serial)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSummaryCmd(),
		newTrainCmd(),
		newLIFCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("snn version %s\n", version)
		},
	}
}

// loadConfig returns the parameters from the --config file, or the defaults
func loadConfig(cmd *cobra.Command) (*config.Params, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

// newContext returns an execution context with the backend given by --threads
func newContext(cmd *cobra.Command) *snn.ExecutionContext {
	nthr, _ := cmd.Flags().GetInt("threads")
	if nthr <= 0 {
		return snn.NewContext(nil)
	}
	return snn.NewContext(snn.NewParallelBackend(nthr))
}

// buildNet builds the configured network
func buildNet(cmd *cobra.Command) (*config.Params, *snn.Network, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	nt, err := cfg.Topology().Build(newContext(cmd))
	if err != nil {
		return nil, nil, fmt.Errorf("building network: %w", err)
	}
	return cfg, nt, nil
}
