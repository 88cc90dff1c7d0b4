package network

import (
	_ "embed"
	"encoding/binary"

	"github.com/Quinniboi10/Chaos/internal/chess"
)

//go:embed data/value.bin
var valueBlob []byte

// ValueHidden is H_V, the value network's hidden width (spec.md §4.2:
// "implementation-chosen, typical 1024"; Chaos fixes it at build time,
// matching the spec's "hidden size H_V fixed at build" (§6.3)).
const ValueHidden = 128

// valueNet holds the single-hidden-layer value network's quantised integer
// weights, kept as stored; Evaluate dequantises its result. Loaded once from
// the embedded blob at package init.
type valueNet struct {
	featureWeights []int16 // FeatureCount * ValueHidden
	featureBiases  []int16 // ValueHidden
	outputWeights  []int16 // ValueHidden
	outputBias     int32
}

var value valueNet

func init() {
	value = parseValueNet(valueBlob)
}

func parseValueNet(blob []byte) valueNet {
	var n valueNet
	off := 0
	n.featureWeights = readInt16s(blob, &off, FeatureCount*ValueHidden)
	n.featureBiases = readInt16s(blob, &off, ValueHidden)
	n.outputWeights = readInt16s(blob, &off, ValueHidden)
	n.outputBias = int32(binary.LittleEndian.Uint32(blob[off : off+4]))
	off += 4
	if off != len(blob) {
		panic("network: value.bin has unexpected trailing bytes")
	}
	return n
}

func readInt16s(blob []byte, off *int, n int) []int16 {
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(blob[*off : *off+2]))
		*off += 2
	}
	return out
}

// Evaluate returns the value network's centipawn score for pos, from the
// side-to-move's perspective (spec.md §4.2 contract: evaluate(pos) -> i32).
func Evaluate(pos *chess.Position) int32 {
	acc := make([]int32, ValueHidden)
	for h := 0; h < ValueHidden; h++ {
		acc[h] = int32(value.featureBiases[h])
	}

	var buf [32]int
	active := ActiveFeatures(pos, buf[:0])
	for _, f := range active {
		row := value.featureWeights[f*ValueHidden : (f+1)*ValueHidden]
		for h := 0; h < ValueHidden; h++ {
			acc[h] += int32(row[h])
		}
	}

	var out int64
	for h := 0; h < ValueHidden; h++ {
		out += int64(clampSCReLU(acc[h])) * int64(value.outputWeights[h])
	}
	// Dequantise: SCReLU squared the QA scale, the feature transformer
	// contributed another QA, and the output layer weights are scaled by
	// QB; divide out QA*QB once the int32/int64 accumulation is complete
	// (spec.md §4.2 "must use full precision of accumulator before
	// dequantising").
	cp := out/int64(QA*QB) + int64(value.outputBias)
	return int32(cp)
}
