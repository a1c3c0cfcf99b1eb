// Package segment implements the virtual-address segment lookup the
// pipeline's IC and DC stages consult on every access: given a virtual
// address and the CP0 status word, return the translation window it falls
// in, or report a miss.
package segment

import "fmt"

// Segment is a translation window [Start, Start+Length] (both ends
// included, see Contains) mapped to bus space by subtracting Offset, with
// Cached gating whether RF may proceed.
type Segment struct {
	Start   uint64
	Length  uint64
	Offset  uint64
	Cached  bool
	MinCP0  uint32 // status bits that must be set for this segment to apply
	MaskCP0 uint32 // mask of status bits MinCP0 is compared against
}

// Contains reports whether addr falls within the segment, using the same
// unsigned-delta rule the pipeline stages use so a negative offset also
// misses rather than wrapping around to a false hit.
func (s *Segment) Contains(addr uint64) bool {
	return addr-s.Start <= s.Length
}

// Map is an ordered table of segments, consulted in order on a miss.
type Map struct {
	segments []*Segment
}

// ErrNoSegment is returned (wrapped) when no table entry covers an address.
var ErrNoSegment = fmt.Errorf("no segment covers address")

// NewMap creates an empty segment map.
func NewMap() *Map {
	return &Map{}
}

// Add appends a segment to the table. Segments are non-owning once
// installed in a latch: the pipeline keeps pointers into this table for
// the lifetime of the CPU, so Add must not be called once the CPU holding
// pointers into a prior Add is running against this map.
func (m *Map) Add(s *Segment) {
	m.segments = append(m.segments, s)
}

// Lookup finds the segment covering addr given the current CP0 status
// word. Returns (nil, false) on a miss.
func (m *Map) Lookup(addr uint64, cp0Status uint32) (*Segment, bool) {
	for _, s := range m.segments {
		if cp0Status&s.MaskCP0 != s.MinCP0 {
			continue
		}
		if s.Contains(addr) {
			return s, true
		}
	}
	return nil, false
}

// Default returns a segment spanning the full 64-bit address space,
// uncached, with no CP0 gating and a zero bus offset. The pipeline primes
// ICRFLatch.Segment and EXDCLatch.Segment with this at init so the very
// first access has somewhere to start from rather than a nil pointer.
// Because it covers every address, a latch holding it never misses and so
// never falls through to a Lookup.
func Default() *Segment {
	return &Segment{
		Start:  0,
		Length: ^uint64(0),
		Offset: 0,
		Cached: false,
	}
}
