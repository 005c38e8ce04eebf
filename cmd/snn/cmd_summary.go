// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the layers, connections and monitors of the network",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, nt, err := buildNet(cmd)
			if err != nil {
				return err
			}
			fmt.Print(nt.Summary())
			sizes, _ := cmd.Flags().GetBool("sizes")
			if sizes {
				fmt.Println()
				fmt.Print(nt.SizeReport())
			}
			return nil
		},
	}
	cmd.Flags().Bool("sizes", true, "also print the memory used by each layer and connection")
	return cmd
}
