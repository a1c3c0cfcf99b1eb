package vr4300

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cen64sim/vr4300/bus"
	"github.com/cen64sim/vr4300/decode"
	"github.com/cen64sim/vr4300/segment"
)

func encodeR(rs, rt, rd, shamt, funct uint32) uint32 {
	return (rs << 21) | (rt << 16) | (rd << 11) | (shamt << 6) | funct
}

// testHandlers wires just enough of the opcode table to drive these
// scenarios without importing the opcodes package, which imports this one.
func testHandlers() [decode.NumOpcodes]HandlerFunc {
	var t [decode.NumOpcodes]HandlerFunc
	t[decode.IDNop] = func(cpu *CPU, rs, rt uint64) {}
	t[decode.IDADD] = func(cpu *CPU, rs, rt uint64) {
		cpu.EXDC.Dest = decode.RD(cpu.RFEX.IW)
		cpu.EXDC.Result = rs + rt
	}
	return t
}

// cachedSpan installs a single cached segment spanning the entire address
// space into both ICRF and EXDC, so RF's cached-gate check never fires and
// IC's bound check never misses — the scenarios below care about the
// pipeline's interlock/fault machinery, not segment routing.
func cachedSpan() *segment.Segment {
	return &segment.Segment{Start: 0, Length: ^uint64(0), Offset: 0, Cached: true}
}

func primeRFEX(cpu *CPU, pc uint64, iw uint32) {
	cpu.RFEX.Common.PC = pc
	cpu.RFEX.IW = iw
	cpu.RFEX.IWMask = ^uint32(0)
	cpu.RFEX.Opcode = decode.NewMIPSIII().Decode(iw)
}

var _ = Describe("Cycle end-to-end scenarios", func() {
	var cpu *CPU

	BeforeEach(func() {
		cpu = New(bus.NewFlatBus(4096), segment.NewMap(), decode.NewMIPSIII(), testHandlers())
		seg := cachedSpan()
		cpu.ICRF.Segment = seg
		cpu.EXDC.Segment = seg
		cpu.ICRF.PC = 0x100
	})

	It("runs the fast path for a plain ALU op end to end", func() {
		cpu.Regs.Write(1, 0x10)
		cpu.Regs.Write(2, 0x20)
		primeRFEX(cpu, 0x100, encodeR(1, 2, 3, 0, 0x20)) // ADD r3, r1, r2

		cpu.Cycle()
		cpu.Cycle()
		cpu.Cycle()

		Expect(cpu.Regs.Read(3)).To(Equal(uint64(0x30)))
		Expect(cpu.Control.FaultPresent).To(BeFalse())
		Expect(cpu.Control.SkipStages).To(Equal(ResumeFastPath))
	})

	It("detects a load-use interlock, replays from RF, and completes with the forwarded value visible", func() {
		// Leave the prior tick's EXDC looking like a completed store: a
		// write request (so the NEEDRS/NEEDRT clear in EX doesn't fire,
		// since only Type==None triggers it) and dest=r5/result=0xDEAD,
		// which DC's unconditional copy turns into dcwb_latch's
		// precondition before EX runs later in the same tick.
		cpu.EXDC.Request = BusRequest{Type: RequestWrite}
		cpu.EXDC.Dest = 5
		cpu.EXDC.Result = 0xDEAD

		primeRFEX(cpu, 0x100, encodeR(5, 6, 7, 0, 0x20)) // ADD r7, r5, r6

		cpu.Cycle() // EX sees dcwb.Dest==rs==5, raises LDI
		Expect(cpu.EXDC.Common.Fault).To(Equal(FaultLDI))
		Expect(cpu.Control.SkipStages).To(Equal(ResumeFromRF))
		Expect(cpu.Control.FaultPresent).To(BeTrue())

		cpu.Cycle() // replay from RF
		Expect(cpu.Control.SkipStages).To(Equal(ResumeFastPath))

		cpu.Cycle() // WB commits r5, EX re-runs the dependent op against it
		Expect(cpu.Regs.Read(5)).To(Equal(uint64(0xDEAD)))
	})

	It("raises IADE when the PC leaves the current segment with no map fallback", func() {
		limited := &segment.Segment{Start: 0, Length: 0xFFF, Cached: true}
		cpu.ICRF.Segment = limited
		cpu.ICRF.PC = 0x10000

		pcBefore := cpu.ICRF.PC
		cpu.Cycle()

		Expect(cpu.ICRF.Common.Fault).To(Equal(FaultIADE))
		Expect(cpu.Control.SkipStages).To(Equal(ResumeFromIC))
		Expect(cpu.ICRF.PC).To(Equal(pcBefore))
	})

	It("reproduces a sign-extending load through the ex_fixdc replay", func() {
		cpu.EXDC.Request = BusRequest{Type: RequestRead, Word: 0x00008000, Size: 2}
		cpu.EXDC.Result = ^uint64(0) // signExtendKeep
		cpu.Control.FaultPresent = true
		cpu.Control.SkipStages = ResumeFromEXFixup

		cpu.Cycle()

		Expect(cpu.DCWB.Result).To(Equal(uint64(0xFFFFFFFFFFFF8000)))
	})

	It("squashes a delay slot by masking IW to a NOP-equivalent word before decode", func() {
		cpu.RFEX.IW = encodeR(1, 2, 3, 0, 0x20) // a real ADD, never decoded
		cpu.RFEX.IWMask = 0

		cpu.icStage()

		Expect(cpu.RFEX.Opcode.ID).To(Equal(decode.IDNop))
		Expect(cpu.RFEX.IWMask).To(Equal(^uint32(0)))
	})

	It("gives RST priority: the next Cycle reinitializes before anything else runs", func() {
		cpu.Regs.Write(9, 0xBEEF)
		cpu.ColdReset = true
		cpu.Control.CyclesToStall = 0

		cpu.Cycle()

		Expect(cpu.ColdReset).To(BeFalse())
		Expect(cpu.Regs.Read(9)).To(Equal(uint64(0)))
	})
})
