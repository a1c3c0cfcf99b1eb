// Package vr4300 implements the five-stage pipeline engine at the heart of
// a VR4300 instruction-execution core: per-stage latching, WB->EX
// forwarding, load-use interlocks, segment-lookup address translation, and
// the fault-recovery scheduler that replays a partial pipeline after an
// abort. See SPEC_FULL.md for the full component breakdown.
package vr4300

import (
	"github.com/cen64sim/vr4300/bus"
	"github.com/cen64sim/vr4300/cp0"
	"github.com/cen64sim/vr4300/decode"
	"github.com/cen64sim/vr4300/segment"
)

// HandlerFunc is the signature every opcode handler implements: it mutates
// registers, the EXDC latch, and — for branches — the ICRF PC and the
// RFEX IWMask, using only the forwarded rs/rt values it's given. See
// SPEC_FULL.md §6.
type HandlerFunc func(cpu *CPU, rs, rt uint64)

// ResumePoint names the stage a replay tick resumes from after an abort,
// per spec.md §3/§4.8. This is the tagged-enum re-expression of the
// original's six-entry function-pointer LUT (spec.md §9's REDESIGN FLAG).
type ResumePoint uint8

// ResumePoint values. The numbering matches spec.md §4.7/§4.8 exactly so
// a reader cross-referencing the spec doesn't have to remap indices.
const (
	ResumeFastPath ResumePoint = iota // 0: from WB, i.e. the full pipeline
	ResumeFromDC                      // 1: WB resolved an interlock
	ResumeFromEX                      // 2: DC resolved an interlock
	ResumeFromRF                      // 3: EX resolved an interlock
	ResumeFromIC                      // 4: RF resolved an interlock
	ResumeFromEXFixup                 // 5: DC resolved an interlock; apply load fix-up first
)

// Control holds the pipeline's scheduling state, per spec.md §3.
type Control struct {
	CyclesToStall    uint32
	FaultPresent     bool
	SkipStages       ResumePoint
	ExceptionHistory uint32
}

// CPU is the processor core: registers, CP0 state, the four pipeline
// latches, and the scheduling state that ties them together. It is the
// only long-lived mutable state in this package — spec.md §9 explicitly
// calls for an owned aggregate passed by exclusive reference, never a
// process-wide singleton.
type CPU struct {
	Regs RegFile
	CP0  *cp0.State

	ICRF ICRFLatch
	RFEX RFEXLatch
	EXDC EXDCLatch
	DCWB DCWBLatch

	Control Control

	Bus         bus.Bus
	SegmentMap  *segment.Map
	Decoder     decode.Decoder
	Handlers    [decode.NumOpcodes]HandlerFunc

	// ExceptionHistoryThreshold is the number of fault-free WB
	// evaluations (in cycleSlowWB only — see SPEC_FULL.md §11) before
	// FaultPresent clears. spec.md §3 fixes this at 4.
	ExceptionHistoryThreshold uint32

	// ColdReset, when set, causes the next Cycle that is not spent counting
	// down CyclesToStall to raise RST before any stage runs (spec.md §4.7
	// step 2). A caller sets this once to request a reset and the RST
	// handler clears it.
	ColdReset bool
}

// New creates a CPU wired to the given collaborators. Handlers with a zero
// value are left nil; dispatching to an unset handler is a configuration
// error the caller is responsible for avoiding (spec.md treats the
// handler table as an external collaborator whose completeness is outside
// this engine's contract).
func New(b bus.Bus, segMap *segment.Map, dec decode.Decoder, handlers [decode.NumOpcodes]HandlerFunc) *CPU {
	cpu := &CPU{
		Bus:                       b,
		SegmentMap:                segMap,
		Decoder:                   dec,
		Handlers:                  handlers,
		CP0:                       cp0.New(),
		ExceptionHistoryThreshold: 4,
	}
	cpu.Init(segment.Default())
	return cpu
}

// Init zeroes all latches and control state and installs defaultSeg into
// ICRF and EXDC, matching spec.md §6's vr4300_pipeline_init.
func (c *CPU) Init(defaultSeg *segment.Segment) {
	c.Regs.Reset()
	c.ICRF = ICRFLatch{Segment: defaultSeg}
	c.RFEX = RFEXLatch{IWMask: ^uint32(0)}
	c.EXDC = EXDCLatch{Segment: defaultSeg}
	c.DCWB = DCWBLatch{}
	c.Control = Control{}
}
