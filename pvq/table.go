// Package pvq implements Pyramid Vector Quantization (spec §4.3): encoding
// an integer pulse vector as a single combinatorial index and back, plus the
// greedy pulse-search used to build a pulse vector from a target shape.
//
// The codebook-size table V(n,k) counts all length-n integer vectors whose
// absolute values sum to k (signs included), via the standard recurrence
//
//	V(n,0) = 1           (only the all-zero vector)
//	V(0,k) = 0, k>0
//	V(n,k) = V(n-1,k) + V(n,k-1) + V(n-1,k-1)
//
// which follows directly from splitting on the value assigned to the first
// coordinate: V(n,k) gets V(n-1,k) when that coordinate is 0, and
// each nonzero magnitude m in [1,k] contributes 2*V(n-1,k-m) once for each
// sign. Enumerate/Deenumerate (in enum.go) walk this same split to convert
// between a pulse vector and its index, which is the combinatorial-offset
// scheme spec §4.3 describes as "a leading-sign bit plus a combinatorial
// offset table"; this package folds the sign choice into the same table
// rather than keeping a separate half-size table, which is mathematically
// equivalent and simpler to generate without floating point or a bundled
// literal table (grounded on celt/cwrs.go's role, not its exact table).
package pvq

// MaxPVQN and MaxPVQK bound the table generated by buildTable, matching the
// largest (N,K) pair SNS/TNS/residual shape quantization ever requests.
const (
	MaxPVQN = 64
	MaxPVQK = 32
)

// table is a shared V(n,k) DP table, built once at package init, covering n in
// [0,MaxPVQN], k in [0,MaxPVQK].
var table = buildTable(MaxPVQN, MaxPVQK)

func buildTable(maxN, maxK int) [][]uint64 {
	v := make([][]uint64, maxN+1)
	for n := range v {
		v[n] = make([]uint64, maxK+1)
	}
	for n := 0; n <= maxN; n++ {
		v[n][0] = 1
	}
	for k := 1; k <= maxK; k++ {
		v[0][k] = 0
	}
	for n := 1; n <= maxN; n++ {
		for k := 1; k <= maxK; k++ {
			v[n][k] = v[n-1][k] + v[n][k-1] + v[n-1][k-1]
		}
	}
	return v
}

// codebookSize returns V(n,k), the number of distinct pulse vectors of
// length n with L1 pulse-count k, panicking if n or k exceed the table's
// bounds (callers are expected to keep shapes within MaxPVQN/MaxPVQK).
func codebookSize(n, k int) uint64 {
	if n < 0 || k < 0 {
		return 0
	}
	if n > MaxPVQN || k > MaxPVQK {
		panic("pvq: (n,k) exceeds precomputed table bounds")
	}
	return table[n][k]
}
