package vr4300

import (
	"github.com/cen64sim/vr4300/decode"
	"github.com/cen64sim/vr4300/segment"
)

// Fault identifies which of the pipeline's exception/stall conditions is
// in flight on a latch. A latch's Fault != FaultNone means downstream
// stages for that instruction are squashed (spec.md §3's squash
// invariant).
type Fault uint8

// Fault kinds, per spec.md §7's taxonomy.
const (
	FaultNone Fault = iota
	FaultIADE        // instruction address error (IC segment miss)
	FaultDADE        // data address error (DC segment miss)
	FaultUNC         // uncached-segment indicator, observed at RF
	FaultLDI         // load-use interlock, detected at EX
	FaultDCB         // data-cache busy (memory read stall)
	FaultRST         // cold-reset signal
)

// String names a Fault for diagnostics and test failure messages.
func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "NONE"
	case FaultIADE:
		return "IADE"
	case FaultDADE:
		return "DADE"
	case FaultUNC:
		return "UNC"
	case FaultLDI:
		return "LDI"
	case FaultDCB:
		return "DCB"
	case FaultRST:
		return "RST"
	default:
		return "UNKNOWN"
	}
}

// Common is the sub-record every latch carries: the instruction's PC and
// whatever fault it is currently squashed by.
type Common struct {
	PC    uint64
	Fault Fault
}

// RequestType distinguishes the three states a BusRequest can be in.
type RequestType uint8

// RequestType values.
const (
	RequestNone RequestType = iota
	RequestRead
	RequestWrite
)

// BusRequest is the DC stage's outgoing (or in-flight) bus transaction, per
// spec.md §3.
type BusRequest struct {
	Type    RequestType
	Address uint64
	Word    uint64
	Size    int // bytes, 1..8
	DQM     uint64
}

// ICRFLatch carries IC's output to RF: the fetched PC and the segment it
// was fetched from.
type ICRFLatch struct {
	Common  Common
	PC      uint64
	Segment *segment.Segment
}

// RFEXLatch carries RF/IC's combined output to EX: the raw instruction
// word, the mask IC applies before decoding it, and the resulting opcode.
type RFEXLatch struct {
	Common Common
	IW     uint32
	IWMask uint32
	Opcode decode.Opcode
}

// EXDCLatch carries EX's output to DC: any bus request the handler issued,
// the destination register and result it computed, and the segment the
// request's address falls in.
type EXDCLatch struct {
	Common  Common
	Request BusRequest
	Dest    uint8
	Result  uint64
	Segment *segment.Segment
}

// DCWBLatch carries DC's output to WB: the destination register and the
// value to commit.
type DCWBLatch struct {
	Common Common
	Dest   uint8
	Result uint64
}
