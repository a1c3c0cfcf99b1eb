package opcodes

import (
	"github.com/cen64sim/vr4300/vr4300"
	"github.com/cen64sim/vr4300/decode"
)

// redirect squashes the delay slot by zeroing rfex_latch.iw_mask and moves
// ICRF.PC to target, but only when taken is true: a real VR4300 executes
// the delay-slot instruction unconditionally unless the branch is actually
// taken (the GLOSSARY's "Delay slot" entry), so a not-taken conditional
// branch falls through with its delay slot intact.
func redirect(cpu *vr4300.CPU, taken bool, target uint64) {
	if taken {
		cpu.RFEX.IWMask = 0
		cpu.ICRF.PC = target
	}
}

func branchTarget(cpu *vr4300.CPU) uint64 {
	offset := decode.SignExtImm16(cpu.RFEX.IW) << 2
	return cpu.EXDC.Common.PC + 4 + offset
}

func jumpTarget(cpu *vr4300.CPU) uint64 {
	pc := cpu.EXDC.Common.PC
	return (pc & 0xFFFFFFFFF0000000) | (uint64(decode.Target26(cpu.RFEX.IW)) << 2)
}

func setLink(cpu *vr4300.CPU, link uint8) {
	cpu.EXDC.Dest = link
	cpu.EXDC.Result = cpu.EXDC.Common.PC + 8
}

// BEQ: branch if rs == rt.
func BEQ(cpu *vr4300.CPU, rs, rt uint64) {
	redirect(cpu, rs == rt, branchTarget(cpu))
}

// BNE: branch if rs != rt.
func BNE(cpu *vr4300.CPU, rs, rt uint64) {
	redirect(cpu, rs != rt, branchTarget(cpu))
}

// BLEZ: branch if rs <= 0, signed.
func BLEZ(cpu *vr4300.CPU, rs, rt uint64) {
	redirect(cpu, int64(rs) <= 0, branchTarget(cpu))
}

// BGTZ: branch if rs > 0, signed.
func BGTZ(cpu *vr4300.CPU, rs, rt uint64) {
	redirect(cpu, int64(rs) > 0, branchTarget(cpu))
}

// J: unconditional jump within the current 256MB region.
func J(cpu *vr4300.CPU, rs, rt uint64) {
	redirect(cpu, true, jumpTarget(cpu))
}

// JAL: like J, and links r31 = pc + 8.
func JAL(cpu *vr4300.CPU, rs, rt uint64) {
	setLink(cpu, 31)
	redirect(cpu, true, jumpTarget(cpu))
}

// JR: unconditional jump to the address in rs.
func JR(cpu *vr4300.CPU, rs, rt uint64) {
	redirect(cpu, true, rs)
}

// JALR: like JR, and links rd (defaulting to r31 in the assembler, but the
// encoding carries whatever rd the instruction word names).
func JALR(cpu *vr4300.CPU, rs, rt uint64) {
	setLink(cpu, decode.RD(cpu.RFEX.IW))
	redirect(cpu, true, rs)
}
