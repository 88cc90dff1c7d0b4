package chess

import "math/rand"

var (
	zobristPiece  [2][6][64]uint64
	zobristSide   uint64
	zobristCastle [16]uint64
	zobristEpFile [8]uint64
)

// Keys are derived from a fixed seed so that Zobrist hashes are stable
// across runs of the same binary — required for the TT and for MontyFormat
// round-trips, neither of which can tolerate a hash that changes build to
// build.
func init() {
	rng := rand.New(rand.NewSource(0x5A67_A1A1_C0FF_EE42))
	for c := 0; c < 2; c++ {
		for pt := 0; pt < 6; pt++ {
			for sq := 0; sq < 64; sq++ {
				zobristPiece[c][pt][sq] = rng.Uint64()
			}
		}
	}
	zobristSide = rng.Uint64()
	for i := range zobristCastle {
		zobristCastle[i] = rng.Uint64()
	}
	for i := range zobristEpFile {
		zobristEpFile[i] = rng.Uint64()
	}
}
