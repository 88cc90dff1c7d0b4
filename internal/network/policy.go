package network

import (
	_ "embed"
	"math"

	"github.com/Quinniboi10/Chaos/internal/chess"
)

//go:embed data/policy.bin
var policyBlob []byte

// PolicyHidden is H_P, the policy network's hidden width, fixed at build
// (spec.md §4.3, §6.3).
const PolicyHidden = 64

type policyNet struct {
	featureWeights []int16 // FeatureCount * PolicyHidden
	featureBiases  []int16 // PolicyHidden
	outputWeights  []int16 // PolicyHidden * PolicyOutputs
	outputBiases   []int16 // PolicyOutputs
}

var policy policyNet

func init() {
	policy = parsePolicyNet(policyBlob)
}

func parsePolicyNet(blob []byte) policyNet {
	var n policyNet
	off := 0
	n.featureWeights = readInt16s(blob, &off, FeatureCount*PolicyHidden)
	n.featureBiases = readInt16s(blob, &off, PolicyHidden)
	n.outputWeights = readInt16s(blob, &off, PolicyHidden*PolicyOutputs)
	n.outputBiases = readInt16s(blob, &off, PolicyOutputs)
	if off != len(blob) {
		panic("network: policy.bin has unexpected trailing bytes")
	}
	return n
}

// rawLogits runs the two-layer policy network over pos and returns a raw
// (undequantised in the softmax sense, but real-valued) logit per output
// slot; used only for the slots referenced by the position's legal moves.
func rawLogits(pos *chess.Position) []float64 {
	acc := make([]int32, PolicyHidden)
	for h := 0; h < PolicyHidden; h++ {
		acc[h] = int32(policy.featureBiases[h])
	}

	var buf [32]int
	active := ActiveFeatures(pos, buf[:0])
	for _, f := range active {
		row := policy.featureWeights[f*PolicyHidden : (f+1)*PolicyHidden]
		for h := 0; h < PolicyHidden; h++ {
			acc[h] += int32(row[h])
		}
	}

	hidden := make([]int32, PolicyHidden)
	for h := 0; h < PolicyHidden; h++ {
		hidden[h] = clampSCReLU(acc[h])
	}

	logits := make([]float64, PolicyOutputs)
	for o := 0; o < PolicyOutputs; o++ {
		var sum int64
		for h := 0; h < PolicyHidden; h++ {
			sum += int64(hidden[h]) * int64(policy.outputWeights[h*PolicyOutputs+o])
		}
		logits[o] = float64(sum)/float64(QA*QB) + float64(policy.outputBiases[o])
	}
	return logits
}

// FillPolicy computes the normalised prior for each of moves (children of a
// single parent) at the given temperature (spec.md §4.3 fill_policy): raw
// logits, subtract the max for numerical stability, divide by temperature,
// exponentiate, normalise. It returns the per-move probabilities (same
// order as moves) and the parent's gini impurity 1 - sum(p_i^2).
//
// The retained "raw" fill (temperature fixed at 1, no separate rescale
// path) that the original engine's datagen carried as an unused variant is
// not reproduced here; spec.md §9 directs keeping only the
// temperature-parameterised form.
func FillPolicy(pos *chess.Position, moves []chess.Move, temperature float64) (probs []float64, gini float64) {
	logits := rawLogits(pos)
	stm := pos.SideToMove()

	raw := make([]float64, len(moves))
	maxLogit := math.Inf(-1)
	for i, m := range moves {
		slot := MoveSlot(stm, m)
		raw[i] = logits[slot]
		if raw[i] > maxLogit {
			maxLogit = raw[i]
		}
	}

	sum := 0.0
	for i := range raw {
		raw[i] = math.Exp((raw[i] - maxLogit) / temperature)
		sum += raw[i]
	}

	probs = make([]float64, len(moves))
	sumSq := 0.0
	if sum > 0 {
		for i := range raw {
			probs[i] = raw[i] / sum
			sumSq += probs[i] * probs[i]
		}
	} else if len(moves) > 0 {
		uniform := 1.0 / float64(len(moves))
		for i := range probs {
			probs[i] = uniform
			sumSq += uniform * uniform
		}
	}

	gini = 1 - sumSq
	if gini < 0 {
		gini = 0
	}
	if gini > 1 {
		gini = 1
	}
	return probs, gini
}
