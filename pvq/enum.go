package pvq

import "fmt"

// Enumerate maps a length-n pulse vector y (sum of |y[i]| == k) to its
// index in [0, V(n,k)), per spec §4.3's "PVQ index <-> vector" operation.
// It walks coordinates left to right, at each position accumulating the
// count of every vector that would sort before y: first the all-zero
// choice at this coordinate, then each smaller magnitude with both signs,
// then (if y's own magnitude here is negative) the positive twin of the
// same magnitude.
func Enumerate(y []int32, n, k int) uint64 {
	if len(y) != n {
		panic(fmt.Sprintf("pvq: vector length %d != n %d", len(y), n))
	}
	var idx uint64
	remaining := k
	for pos := 0; pos < n; pos++ {
		v := y[pos]
		av := int(v)
		if av < 0 {
			av = -av
		}
		rest := n - pos - 1
		for m := 0; m < av; m++ {
			if m == 0 {
				idx += codebookSize(rest, remaining)
			} else {
				idx += 2 * codebookSize(rest, remaining-m)
			}
		}
		if av > 0 && v < 0 {
			idx += codebookSize(rest, remaining-av)
		}
		remaining -= av
	}
	return idx
}

// Deenumerate is the inverse of Enumerate: given an index in [0,V(n,k)), it
// reconstructs the unique length-n, pulse-count-k vector with that index.
func Deenumerate(index uint64, n, k int) []int32 {
	y := make([]int32, n)
	remaining := k
	for pos := 0; pos < n; pos++ {
		rest := n - pos - 1
		// m == 0
		cnt := codebookSize(rest, remaining)
		if index < cnt {
			y[pos] = 0
			continue
		}
		index -= cnt
		found := false
		for m := 1; m <= remaining; m++ {
			cntMag := codebookSize(rest, remaining-m)
			if index < cntMag {
				y[pos] = int32(m)
				remaining -= m
				found = true
				break
			}
			index -= cntMag
			if index < cntMag {
				y[pos] = int32(-m)
				remaining -= m
				found = true
				break
			}
			index -= cntMag
		}
		if !found {
			panic("pvq: index out of range for (n,k)")
		}
	}
	return y
}

// CodebookSize exposes V(n,k) for callers sizing an index field (spec
// §4.3: "size of the enumeration" determines the bit width of the coded
// index).
func CodebookSize(n, k int) uint64 {
	return codebookSize(n, k)
}
