package vr4300

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cen64sim/vr4300/decode"
	"github.com/cen64sim/vr4300/segment"
)

func newTestCPU() *CPU {
	return New(nil, segment.NewMap(), nil, [decode.NumOpcodes]HandlerFunc{})
}

var _ = Describe("fault handlers", func() {
	var cpu *CPU

	BeforeEach(func() {
		cpu = newTestCPU()
		cpu.Control.ExceptionHistory = 7
	})

	Describe("IADE", func() {
		It("faults ICRF and resumes from IC", func() {
			cpu.IADE(0x8000)
			Expect(cpu.ICRF.Common.Fault).To(Equal(FaultIADE))
			Expect(cpu.Control.SkipStages).To(Equal(ResumeFromIC))
			Expect(cpu.Control.FaultPresent).To(BeTrue())
			Expect(cpu.Control.ExceptionHistory).To(Equal(uint32(0)))
		})
	})

	Describe("DADE", func() {
		It("faults DCWB and resumes from EX", func() {
			cpu.EXDC.Common.PC = 0x4000
			cpu.DADE(0x4444)
			Expect(cpu.DCWB.Common.Fault).To(Equal(FaultDADE))
			Expect(cpu.Control.SkipStages).To(Equal(ResumeFromEX))
			Expect(cpu.Control.FaultPresent).To(BeTrue())
			Expect(cpu.CP0.BadVAddr).To(Equal(uint64(0x4444)))
			Expect(cpu.CP0.EPC).To(Equal(uint64(0x4000)))
		})
	})

	Describe("UNC", func() {
		It("faults RFEX and resumes from IC", func() {
			cpu.UNC()
			Expect(cpu.RFEX.Common.Fault).To(Equal(FaultUNC))
			Expect(cpu.Control.SkipStages).To(Equal(ResumeFromIC))
			Expect(cpu.Control.FaultPresent).To(BeTrue())
		})
	})

	Describe("LDI", func() {
		It("faults EXDC and resumes from RF", func() {
			cpu.LDI()
			Expect(cpu.EXDC.Common.Fault).To(Equal(FaultLDI))
			Expect(cpu.Control.SkipStages).To(Equal(ResumeFromRF))
			Expect(cpu.Control.FaultPresent).To(BeTrue())
		})
	})

	Describe("DCB", func() {
		It("resumes from the EX fix-up point without faulting any latch", func() {
			cpu.DCB()
			Expect(cpu.ICRF.Common.Fault).To(Equal(FaultNone))
			Expect(cpu.RFEX.Common.Fault).To(Equal(FaultNone))
			Expect(cpu.EXDC.Common.Fault).To(Equal(FaultNone))
			Expect(cpu.DCWB.Common.Fault).To(Equal(FaultNone))
			Expect(cpu.Control.SkipStages).To(Equal(ResumeFromEXFixup))
			Expect(cpu.Control.FaultPresent).To(BeTrue())
		})
	})

	Describe("RST", func() {
		It("reinitializes the CPU and clears ColdReset", func() {
			cpu.ColdReset = true
			cpu.Regs.Write(5, 0xDEAD)
			cpu.CP0.Status |= 0x2 // StatusEXL

			cpu.RST()

			Expect(cpu.ColdReset).To(BeFalse())
			Expect(cpu.Regs.Read(5)).To(Equal(uint64(0)))
			Expect(cpu.Control).To(Equal(Control{}))
		})

		It("preserves the installed default segment across reset", func() {
			seg := &segment.Segment{Start: 0x1000, Length: 0xFFF}
			cpu.ICRF.Segment = seg

			cpu.RST()

			Expect(cpu.ICRF.Segment).To(BeIdenticalTo(seg))
			Expect(cpu.EXDC.Segment).To(BeIdenticalTo(seg))
		})
	})
})
