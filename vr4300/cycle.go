package vr4300

// Cycle advances the processor pipeline by one pclock. See spec.md §4.7.
func (c *CPU) Cycle() {
	ctl := &c.Control

	if ctl.CyclesToStall > 0 {
		ctl.CyclesToStall--
		return
	}

	// RST has very high priority and aborts anything in flight, even an
	// active interlock replay. It's checked after the stall counter
	// (spec.md §9's second Open Question: a stalling CPU ignores resets
	// until the stall clears, preserved here rather than reordered). Note
	// this falls through rather than returning: once the reset has run,
	// fault_present and skip_stages are both clear, so the same tick
	// proceeds straight into the fast path below.
	if c.ColdReset {
		c.RST()
	}

	if ctl.FaultPresent || ctl.SkipStages != ResumeFastPath {
		c.dispatchReplay(ctl.SkipStages)
		return
	}

	if c.wbStage() {
		return
	}
	if c.dcStage() {
		return
	}
	if c.exStage() {
		return
	}
	if c.rfStage() {
		return
	}
	if c.icStage() {
		return
	}
}

// dispatchReplay indexes the six-entry resume-point table. Re-expressed as
// a tagged-enum switch rather than a function-pointer LUT (spec.md §9).
func (c *CPU) dispatchReplay(point ResumePoint) {
	switch point {
	case ResumeFastPath:
		c.cycleSlowWB()
	case ResumeFromDC:
		c.cycleSlowDC()
	case ResumeFromEX:
		c.cycleSlowEX()
	case ResumeFromRF:
		c.cycleSlowRF()
	case ResumeFromIC:
		c.cycleSlowIC()
	case ResumeFromEXFixup:
		c.cycleSlowEXFixup()
	}
}

// cycleSlowWB resumes the pipeline checking every stage's upstream latch
// for a still-in-flight fault before running it, squashing (copying the
// upstream Common forward without executing the stage body) where one is
// found. This is also where exceptionHistory ages — see SPEC_FULL.md §11
// for why only this variant touches it.
func (c *CPU) cycleSlowWB() {
	ctl := &c.Control

	if ctl.ExceptionHistory >= c.thresholdOrDefault() {
		ctl.FaultPresent = false
	}
	ctl.ExceptionHistory++

	if c.DCWB.Common.Fault == FaultNone {
		if c.wbStage() {
			return
		}
	} else {
		c.DCWB.Common = c.EXDC.Common
	}

	if c.EXDC.Common.Fault == FaultNone {
		if c.dcStage() {
			return
		}
	} else {
		c.EXDC.Common = c.RFEX.Common
	}

	if c.RFEX.Common.Fault == FaultNone {
		if c.exStage() {
			return
		}
	} else {
		c.RFEX.Common = c.ICRF.Common
	}

	if c.ICRF.Common.Fault == FaultNone {
		if c.rfStage() {
			return
		}
	}

	if c.icStage() {
		return
	}
}

// cycleSlowDC resumes from DC (WB resolved an interlock). Currently
// unreachable from any fault this engine raises — WB never aborts — but
// kept as its own entry point for the same reason the original six-slot
// table keeps it: symmetry, and a home for any future WB-stage fault.
func (c *CPU) cycleSlowDC() {
	if c.EXDC.Common.Fault == FaultNone {
		if c.dcStage() {
			return
		}
	} else {
		c.EXDC.Common = c.RFEX.Common
	}

	if c.RFEX.Common.Fault == FaultNone {
		if c.exStage() {
			return
		}
	} else {
		c.RFEX.Common = c.ICRF.Common
	}

	if c.ICRF.Common.Fault == FaultNone {
		if c.rfStage() {
			return
		}
	}

	if c.icStage() {
		return
	}

	c.Control.SkipStages = ResumeFastPath
}

// cycleSlowEX resumes from EX (DC resolved an interlock, i.e. DADE).
func (c *CPU) cycleSlowEX() {
	if c.RFEX.Common.Fault == FaultNone {
		if c.exStage() {
			return
		}
	} else {
		c.RFEX.Common = c.ICRF.Common
	}

	if c.ICRF.Common.Fault == FaultNone {
		if c.rfStage() {
			return
		}
	}

	if c.icStage() {
		return
	}

	c.Control.SkipStages = ResumeFastPath
}

// cycleSlowEXFixup resumes from EX after first patching DCWB's result with
// the load alignment spec.md §4.6 describes (DCB resolved: the deferred
// memory read has now "completed").
func (c *CPU) cycleSlowEXFixup() {
	fixupEX(&c.EXDC, &c.DCWB)

	if c.RFEX.Common.Fault == FaultNone {
		if c.exStage() {
			return
		}
	} else {
		c.RFEX.Common = c.ICRF.Common
	}

	if c.ICRF.Common.Fault == FaultNone {
		if c.rfStage() {
			return
		}
	}

	if c.icStage() {
		return
	}

	c.Control.SkipStages = ResumeFastPath
}

// cycleSlowRF resumes from RF (EX resolved an interlock, i.e. LDI).
func (c *CPU) cycleSlowRF() {
	if c.ICRF.Common.Fault == FaultNone {
		if c.rfStage() {
			return
		}
	}

	if c.icStage() {
		return
	}

	c.Control.SkipStages = ResumeFastPath
}

// cycleSlowIC resumes from IC alone (RF resolved an interlock, i.e. UNC).
func (c *CPU) cycleSlowIC() {
	if c.icStage() {
		return
	}

	c.Control.SkipStages = ResumeFastPath
}

func (c *CPU) thresholdOrDefault() uint32 {
	if c.ExceptionHistoryThreshold == 0 {
		return 4
	}
	return c.ExceptionHistoryThreshold
}
