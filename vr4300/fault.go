package vr4300

import "github.com/cen64sim/vr4300/cp0"

// IADE, DADE, UNC, LDI and DCB below are each invoked from inside exactly
// one stage body (see stages.go) when that stage finds it cannot complete
// the instruction currently in its input latch. Each of them sets
// skip_stages to the resume point matching spec.md §4.8's table and marks
// fault_present so the replay scheduler keeps re-checking squash
// conditions until exception_history ages it out (SPEC_FULL.md §11); all
// but DCB also record the fault kind on the latch the next stage
// downstream will actually read. RST is invoked from Cycle instead and
// reinitializes the CPU.

// IADE is an instruction address error: the segment map has no segment
// covering pc. Raised from icStage, the last stage in fast-path order, so
// only IC itself needs replaying next tick.
func (c *CPU) IADE(pc uint64) {
	c.ICRF.Common.Fault = FaultIADE
	c.CP0.RaiseException(cp0.ExcCodeIADE, pc, pc)

	c.Control.SkipStages = ResumeFromIC
	c.Control.FaultPresent = true
	c.Control.ExceptionHistory = 0
}

// DADE is a data address error: the segment map has no segment covering
// the DC stage's request address. EX, RF, and IC haven't run yet this
// tick, so the replay resumes from EX.
func (c *CPU) DADE(address uint64) {
	c.DCWB.Common.Fault = FaultDADE
	c.CP0.RaiseException(cp0.ExcCodeDADE, c.EXDC.Common.PC, address)

	c.Control.SkipStages = ResumeFromEX
	c.Control.FaultPresent = true
	c.Control.ExceptionHistory = 0
}

// UNC flags that RF fetched an instruction out of an uncached segment.
// This isn't an architectural exception — it's the signal the real
// implementation would use to route the access around the data cache —
// but it shares the squash/replay machinery, so it's modeled the same
// way. Raised from rfStage, which already ran this tick; the replay
// resumes from IC so the next tick re-fetches rather than re-running RF
// against the same unchanged segment lookup.
func (c *CPU) UNC() {
	c.RFEX.Common.Fault = FaultUNC

	c.Control.SkipStages = ResumeFromIC
	c.Control.FaultPresent = true
	c.Control.ExceptionHistory = 0
}

// LDI is the load-use interlock: EX found that RFEX's instruction reads a
// register DCWB is about to overwrite. WB and DC already ran this tick;
// the replay resumes from RF, giving the producer one more tick to land
// in DCWB before EX is retried.
func (c *CPU) LDI() {
	c.EXDC.Common.Fault = FaultLDI

	c.Control.SkipStages = ResumeFromRF
	c.Control.FaultPresent = true
	c.Control.ExceptionHistory = 0
}

// DCB is data-cache-busy: DC deferred a read rather than modeling the
// cache access. Unlike IADE, DADE, UNC and LDI, this one marks no latch
// fault, in particular none on DCWB — the load is going to complete
// normally once fixupEX backfills
// the result, and a latch fault there would permanently squash its WB
// commit. The replay resumes from EX with the fix-up applied first.
func (c *CPU) DCB() {
	c.Control.SkipStages = ResumeFromEXFixup
	c.Control.FaultPresent = true
	c.Control.ExceptionHistory = 0
}

// RST is a cold reset: it takes priority over everything else in flight
// and reinitializes the processor from scratch — registers, CP0, all four
// latches, and the control block — rather than squashing and replaying.
func (c *CPU) RST() {
	defaultSeg := c.ICRF.Segment
	if defaultSeg == nil {
		defaultSeg = c.EXDC.Segment
	}

	c.CP0.Reset()
	c.Init(defaultSeg)
	c.ColdReset = false
}
