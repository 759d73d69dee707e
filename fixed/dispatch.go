package fixed

import "golang.org/x/sys/cpu"

// TwiddleMulKernel multiplies a vector of Q15 mantissas pairwise against a
// twiddle table. No package in this module calls it; mdct's DCT-IV core
// sums directly against its own cosine table (§4.2). It is selected once at package init between a portable implementation and an
// unrolled one tuned for the host's SIMD-friendly integer pipeline width,
// mirroring the teacher's celt/kissfft32_opt_amd64.go vs.
// celt/kissfft32_opt_stub.go dispatch-by-CPU-feature pattern. Both paths
// compute bit-identical results; the tuned path only changes loop
// unrolling granularity.
var TwiddleMulKernel func(dst, a, b []int16)

func init() {
	if cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD {
		TwiddleMulKernel = twiddleMulUnrolled
		return
	}
	TwiddleMulKernel = twiddleMulPortable
}

func twiddleMulPortable(dst, a, b []int16) {
	n := len(dst)
	for i := 0; i < n; i++ {
		dst[i] = Mul16Q15(a[i], b[i])
	}
}

// twiddleMulUnrolled is functionally identical to twiddleMulPortable; it
// processes four lanes per loop iteration so the compiler can keep more
// independent multiply-accumulate chains in flight on wide pipelines.
func twiddleMulUnrolled(dst, a, b []int16) {
	n := len(dst)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = Mul16Q15(a[i], b[i])
		dst[i+1] = Mul16Q15(a[i+1], b[i+1])
		dst[i+2] = Mul16Q15(a[i+2], b[i+2])
		dst[i+3] = Mul16Q15(a[i+3], b[i+3])
	}
	for ; i < n; i++ {
		dst[i] = Mul16Q15(a[i], b[i])
	}
}
