package neuromath

import "math"

// Rule is the closed set of online (within-lifetime) weight-update rules a
// neuron may run after it fires.
type Rule int

const (
	None Rule = iota
	HebbianW
	Hebbian
	OjasW
	Ojas
	Neuromodulation
	SelfModulationV1
	SelfModulationV2
	SelfModulationV3
	SelfModulationV4
	SelfModulationV5
	SelfModulationV6
)

func (r Rule) String() string {
	switch r {
	case None:
		return "none"
	case HebbianW:
		return "hebbian_w"
	case Hebbian:
		return "hebbian"
	case OjasW:
		return "ojas_w"
	case Ojas:
		return "ojas"
	case Neuromodulation:
		return "neuromodulation"
	case SelfModulationV1:
		return "self_modulation_v1"
	case SelfModulationV2:
		return "self_modulation_v2"
	case SelfModulationV3:
		return "self_modulation_v3"
	case SelfModulationV4:
		return "self_modulation_v4"
	case SelfModulationV5:
		return "self_modulation_v5"
	case SelfModulationV6:
		return "self_modulation_v6"
	default:
		return "unknown"
	}
}

// PerWeight reports whether this rule's H parameter is one value per weight
// (the "_w" suffixed variants) rather than a single value shared by the
// whole neuron.
func (r Rule) PerWeight() bool {
	return r == HebbianW || r == OjasW
}

// Params bundles a plasticity rule's parameters. H is per-weight when the
// rule's PerWeight() is true (len(H) == len(weights)), otherwise it holds a
// single broadcast value in H[0]. A, B, C and D are only meaningful for
// Neuromodulation and the SelfModulationVN family.
//
// For SelfModulationVN, ModulatoryWeights supplies the weights of the
// embedded modulatory neuron(s) that compute tanh(dot(input,
// ModulatoryWeights)) in place of whichever of (H, A, B, C, D) that variant
// designates as self-computed — see Rule.selfComputed, where the exact split
// is documented.
type Params struct {
	H                 []float64
	A, B, C, D        float64
	ModulatoryWeights []Weight
}

// selfComputed reports, for a SelfModulationVN rule, which of (H, A, B, C, D)
// are produced by the embedded modulatory neuron rather than taken from
// Params directly. Variants progressively hand more parameters to the
// modulatory neuron, except V6 which hands over only D — giving a spread of
// "mostly fixed" to "mostly self-computed" configurations for experiments to
// select between via constraints.
func (r Rule) selfComputed() (h, a, b, c, d bool) {
	switch r {
	case SelfModulationV1:
		return true, false, false, false, false
	case SelfModulationV2:
		return true, true, false, false, false
	case SelfModulationV3:
		return true, true, true, false, false
	case SelfModulationV4:
		return true, true, true, true, false
	case SelfModulationV5:
		return true, true, true, true, true
	case SelfModulationV6:
		return false, false, false, false, true
	default:
		return false, false, false, false, false
	}
}

// modulatorySignal computes tanh(dot(input, ModulatoryWeights)), the shared
// building block every self-computed parameter in the SelfModulationVN
// family reduces to per spec.md §4.1.
func modulatorySignal(input []Signal, modWeights []Weight) float64 {
	n := len(input)
	if len(modWeights) < n {
		n = len(modWeights)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(input[i]) * float64(modWeights[i])
	}
	return math.Tanh(dot)
}

// Update computes the weight delta for each element of weight, given the
// flattened input vector x that produced output y on this firing. It does
// not saturate the result — callers combine Update with SaturateWeight (or
// the larger plasticity-parameter saturation bound) the same way the agent
// runtime's weight_perturb protocol does.
func (r Rule) Update(params Params, input []Signal, weight []Weight, output Signal) []Weight {
	delta := make([]Weight, len(weight))
	y := float64(output)

	switch r {
	case None:
		// zero delta, already the zero value of delta

	case HebbianW:
		for i := range weight {
			h := paramAt(params.H, i)
			x := float64(inputAt(input, i))
			delta[i] = Weight(h * x * y)
		}

	case Hebbian:
		h := paramAt(params.H, 0)
		for i := range weight {
			x := float64(inputAt(input, i))
			delta[i] = Weight(h * x * y)
		}

	case OjasW:
		for i := range weight {
			h := paramAt(params.H, i)
			x := float64(inputAt(input, i))
			w := float64(weight[i])
			delta[i] = Weight(h * y * (x - y*w))
		}

	case Ojas:
		h := paramAt(params.H, 0)
		for i := range weight {
			x := float64(inputAt(input, i))
			w := float64(weight[i])
			delta[i] = Weight(h * y * (x - y*w))
		}

	case Neuromodulation:
		h, a, b, c, d := params.H0(), params.A, params.B, params.C, params.D
		for i := range weight {
			x := float64(inputAt(input, i))
			delta[i] = Weight(h * (a*x*y + b*x + c*y + d))
		}

	case SelfModulationV1, SelfModulationV2, SelfModulationV3, SelfModulationV4, SelfModulationV5, SelfModulationV6:
		selfH, selfA, selfB, selfC, selfD := r.selfComputed()
		mod := modulatorySignal(input, params.ModulatoryWeights)

		h := pick(selfH, mod, params.H0())
		a := pick(selfA, mod, params.A)
		b := pick(selfB, mod, params.B)
		c := pick(selfC, mod, params.C)
		d := pick(selfD, mod, params.D)

		for i := range weight {
			x := float64(inputAt(input, i))
			delta[i] = Weight(h * (a*x*y + b*x + c*y + d))
		}
	}

	return delta
}

func pick(self bool, modValue, fixedValue float64) float64 {
	if self {
		return modValue
	}
	return fixedValue
}

// H0 returns the single broadcast H value, 0 if unset.
func (p Params) H0() float64 {
	return paramAt(p.H, 0)
}

func paramAt(h []float64, i int) float64 {
	if i < len(h) {
		return h[i]
	}
	if len(h) > 0 {
		return h[0]
	}
	return 0
}

func inputAt(input []Signal, i int) Signal {
	if i < len(input) {
		return input[i]
	}
	return 0
}

// PlasticityParamSaturationLimit bounds plasticity parameters after a tuning
// perturbation: spec.md §4.3 sets this spread at 10x the weight saturation
// limit.
const PlasticityParamSaturationLimit = 10 * SaturationLimit

// SaturateParam clamps a plasticity parameter value to
// [-PlasticityParamSaturationLimit, +PlasticityParamSaturationLimit].
func SaturateParam(v float64) float64 {
	return Sat(v, -PlasticityParamSaturationLimit, PlasticityParamSaturationLimit)
}
