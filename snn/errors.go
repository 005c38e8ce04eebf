// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"errors"
	"fmt"
	"log"
)

var (
	// ErrConfig is returned for structural problems detected while building
	// a network: shape / size mismatches, unknown layer names, inconsistent
	// parameters.  Nothing is corrected silently.
	ErrConfig = errors.New("snn: configuration error")

	// ErrRuntimeState is returned when a call is not valid in the current
	// state of the network, e.g., an input with the wrong number of time
	// steps, or a reset during a run.  State is not modified.
	ErrRuntimeState = errors.New("snn: runtime state error")
)

// configErr logs and returns an ErrConfig-wrapped error
func configErr(format string, args ...any) error {
	err := fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
	log.Println(err)
	return err
}

// stateErr logs and returns an ErrRuntimeState-wrapped error
func stateErr(format string, args ...any) error {
	err := fmt.Errorf("%w: %s", ErrRuntimeState, fmt.Sprintf(format, args...))
	log.Println(err)
	return err
}
