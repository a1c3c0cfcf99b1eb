package vr4300

import "github.com/cen64sim/vr4300/decode"

// icStage is the instruction cache fetch stage: spec.md §4.1. It finishes
// decoding the instruction RF left parked in RFEX (applying the delay-slot
// squash mask), checks the current segment still covers pc, and advances
// pc. Returns true on abort (IADE).
func (c *CPU) icStage() bool {
	icrf := &c.ICRF
	rfex := &c.RFEX

	pc := icrf.PC
	icrf.Common.PC = pc

	decodeIW := rfex.IW & rfex.IWMask
	rfex.IW = decodeIW
	rfex.Opcode = c.Decoder.Decode(decodeIW)
	rfex.IWMask = ^uint32(0)

	seg := icrf.Segment
	if pc-seg.Start > seg.Length {
		found, ok := c.SegmentMap.Lookup(pc, c.CP0.Status)
		if !ok {
			c.IADE(pc)
			return true
		}
		icrf.Segment = found
	}

	icrf.Common.Fault = FaultNone
	icrf.PC = pc + 4
	return false
}

// rfStage is register fetch / decode completion: spec.md §4.2. Register
// reads themselves happen in EX, after forwarding is applied — an
// intentional structural choice the spec calls out explicitly. Returns
// true on abort (UNC).
func (c *CPU) rfStage() bool {
	icrf := &c.ICRF
	rfex := &c.RFEX

	rfex.Common = icrf.Common

	if !icrf.Segment.Cached {
		c.UNC()
		return true
	}
	return false
}

// exStage executes: spec.md §4.3. It detects the load-use interlock,
// forwards DC/WB's result via the branchless swap-read-restore idiom, and
// dispatches to the opcode's handler. Returns true on abort (LDI).
func (c *CPU) exStage() bool {
	rfex := &c.RFEX
	dcwb := &c.DCWB
	exdc := &c.EXDC

	exdc.Common = rfex.Common

	flags := rfex.Opcode.Flags
	if exdc.Request.Type == RequestNone {
		flags &^= decode.NeedRS | decode.NeedRT
	}

	iw := rfex.IW
	rs := decode.RS(iw)
	rt := decode.RT(iw)

	if (dcwb.Dest == rs && flags&decode.NeedRS != 0) ||
		(dcwb.Dest == rt && flags&decode.NeedRT != 0) {
		c.LDI()
		return true
	}

	// Forward DC/WB's result without a data-dependent branch: swap it
	// into place, read both sources, then restore. Force R0=0 on both
	// sides of the swap so forwarding into/through R0 is a no-op.
	temp := c.Regs.rawRead(dcwb.Dest)
	c.Regs.rawWrite(dcwb.Dest, dcwb.Result)
	c.Regs.rawWrite(R0, 0)

	rsVal := c.Regs.rawRead(rs)
	rtVal := c.Regs.rawRead(rt)

	c.Regs.rawWrite(dcwb.Dest, temp)
	c.Regs.rawWrite(R0, 0)

	exdc.Dest = R0
	exdc.Request = BusRequest{}

	handler := c.Handlers[rfex.Opcode.ID]
	if handler != nil {
		handler(c, rsVal, rtVal)
	}

	return false
}

// dcStage is the data cache stage: spec.md §4.4. A write is issued
// synchronously; a read always defers via DCB — the data-cache path is
// explicitly approximate (spec.md §1 Non-goals, §9 Open Questions).
// Returns true on abort (DADE or DCB).
func (c *CPU) dcStage() bool {
	exdc := &c.EXDC
	dcwb := &c.DCWB

	dcwb.Common = exdc.Common
	dcwb.Result = exdc.Result
	dcwb.Dest = exdc.Dest

	if exdc.Request.Type == RequestNone {
		return false
	}

	address := exdc.Request.Address
	seg := exdc.Segment
	if address-seg.Start > seg.Length {
		found, ok := c.SegmentMap.Lookup(address, c.CP0.Status)
		if !ok {
			c.DADE(address)
			return true
		}
		seg = found
	}

	exdc.Segment = seg
	exdc.Request.Address = address - seg.Offset

	switch exdc.Request.Type {
	case RequestRead:
		c.DCB()
		return true
	case RequestWrite:
		_ = c.Bus.WriteWord(exdc.Request.Address, exdc.Request.Word, exdc.Request.DQM)
		return false
	default:
		return false
	}
}

// wbStage is writeback: spec.md §4.5. A fault on DCWB squashes the
// commit; otherwise the result lands in the register file and R0 is
// re-zeroed.
func (c *CPU) wbStage() bool {
	dcwb := &c.DCWB

	if dcwb.Common.Fault != FaultNone {
		return false
	}

	c.Regs.rawWrite(dcwb.Dest, dcwb.Result)
	c.Regs.rawWrite(R0, 0)
	return false
}

// fixupEX performs the load-result alignment spec.md §4.6 describes: the
// handler decides whether sign extension applies by how it set
// exdc_latch.result (used here as a "keep" mask that preserves the high
// bits the load shouldn't overwrite). This runs once, on the tick after a
// DCB-deferred read completes, before falling through to a normal EX/RF/IC
// replay.
func fixupEX(exdc *EXDCLatch, dcwb *DCWBLatch) {
	req := exdc.Request

	maskShift := uint(req.Size) * 8
	dataShift := uint(8-req.Size) * 8

	data := req.Word
	sdata := int64(req.Word)
	mask := int64(exdc.Result)

	mask = (mask >> maskShift) << maskShift
	sdata = (sdata << dataShift) >> dataShift
	data = (data << dataShift) >> dataShift

	dcwb.Result = uint64(sdata)&uint64(mask) | data
}
