// Package arena implements the per-frame scratch-arena allocator described
// in spec §3 and §9: a single contiguous region carved into sub-slices by
// each pipeline stage, with no heap allocation on the hot path once the
// arena itself has been sized.
//
// The allocator is a bump allocator over backing []int32 and []byte stores
// with an explicit Mark/Release checkpoint so that stages whose use
// intervals are disjoint can safely alias the same bytes, per the
// "Scratch-arena carvings" invariant in §3.
package arena

// Arena is a per-frame scratch allocator. It is not safe for concurrent
// use; each codec instance owns exactly one Arena (§5: no shared mutable
// state between instances).
type Arena struct {
	ints  []int32
	bytes []byte
	ip    int // bump pointer into ints
	bp    int // bump pointer into bytes
}

// New creates an Arena sized for intCap int32 mantissas and byteCap bytes.
// Size is a function of (frame_length, fs_idx) chosen by the caller; the
// codec package computes the bound once at Open and never grows the arena
// afterward.
func New(intCap, byteCap int) *Arena {
	return &Arena{
		ints:  make([]int32, intCap),
		bytes: make([]byte, byteCap),
	}
}

// Mark is a checkpoint returned by the arena's current bump positions.
type Mark struct {
	ip int
	bp int
}

// Checkpoint returns the arena's current allocation position.
func (a *Arena) Checkpoint() Mark {
	return Mark{ip: a.ip, bp: a.bp}
}

// Release rewinds the arena to a previously taken Mark. Any slices carved
// since the mark must not be used again; this is the explicit
// checkpoint/restore the source's ad hoc aliased carvings are modeled as.
func (a *Arena) Release(m Mark) {
	a.ip = m.ip
	a.bp = m.bp
}

// Reset rewinds the entire arena, for reuse at the start of the next frame.
func (a *Arena) Reset() {
	a.ip = 0
	a.bp = 0
}

// Int32 carves n int32 mantissas from the arena.
func (a *Arena) Int32(n int) []int32 {
	if n <= 0 {
		return nil
	}
	if a.ip+n > len(a.ints) {
		panic("arena: int32 region exhausted")
	}
	s := a.ints[a.ip : a.ip+n : a.ip+n]
	a.ip += n
	for i := range s {
		s[i] = 0
	}
	return s
}

// Bytes carves n bytes from the arena.
func (a *Arena) Bytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	if a.bp+n > len(a.bytes) {
		panic("arena: byte region exhausted")
	}
	s := a.bytes[a.bp : a.bp+n : a.bp+n]
	a.bp += n
	for i := range s {
		s[i] = 0
	}
	return s
}
