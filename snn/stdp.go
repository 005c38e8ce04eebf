// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

// STDPParams are the spike-timing-dependent plasticity parameters of a
// Connection.  The rule is stateless: it only reads the current spikes and
// traces of the sending and receiving layers.
type STDPParams struct {
	Kind   PlasticityKind `desc:"learning rule -- NoPlasticity for fixed weights"`
	NuPre  float32        `viewif:"Kind=PostPre" def:"0.0001" min:"0" desc:"depression learning rate, applied on presynaptic spikes, scaled by the postsynaptic trace"`
	NuPost float32        `viewif:"Kind=PostPre" def:"0.01" min:"0" desc:"potentiation learning rate, applied on postsynaptic spikes, scaled by the presynaptic trace"`
}

func (sp *STDPParams) Defaults() {
	sp.Kind = NoPlasticity
	sp.NuPre = 1e-4
	sp.NuPost = 1e-2
}

// IsPlastic returns true if the weights change with learning
func (sp *STDPParams) IsPlastic() bool {
	return sp.Kind != NoPlasticity
}

func (sp *STDPParams) Validate() error {
	if sp.Kind < 0 || sp.Kind >= PlasticityKindN {
		return configErr("STDPParams: invalid Kind: %d", sp.Kind)
	}
	if sp.NuPre < 0 || sp.NuPost < 0 {
		return configErr("STDPParams: learning rates must be >= 0: NuPre: %g  NuPost: %g", sp.NuPre, sp.NuPost)
	}
	return nil
}

// DWt returns the weight change for one synapse:
// NuPost * postSpike * preTrace - NuPre * preSpike * postTrace
func (sp *STDPParams) DWt(preSpike, preTrace, postSpike, postTrace float32) float32 {
	return sp.NuPost*postSpike*preTrace - sp.NuPre*preSpike*postTrace
}
