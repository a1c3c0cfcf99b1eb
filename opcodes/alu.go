// Package opcodes provides the MIPS III instruction semantics vr4300.CPU
// dispatches to: one handler per decode.ID, each mutating only what
// SPEC_FULL.md §4.9 grants a handler — registers via the EXDC latch, the
// outgoing bus request, and (for branches) the next fetch PC and the
// delay-slot squash mask. It imports vr4300 rather than the other way
// around, so the pipeline engine never needs to know this table exists.
package opcodes

import (
	"github.com/cen64sim/vr4300/vr4300"
	"github.com/cen64sim/vr4300/decode"
)

// ADDI: rt = rs + sign_ext(imm16). Unlike the real VR4300, this tree does
// not model the integer-overflow trap the architecture defines for ADDI;
// it behaves like ADDIU. See DESIGN.md.
func ADDI(cpu *vr4300.CPU, rs, rt uint64) {
	writeRT(cpu, rs+decode.SignExtImm16(cpu.RFEX.IW))
}

// ADDIU: rt = rs + sign_ext(imm16), no overflow trap.
func ADDIU(cpu *vr4300.CPU, rs, rt uint64) {
	writeRT(cpu, rs+decode.SignExtImm16(cpu.RFEX.IW))
}

// ANDI: rt = rs & zero_ext(imm16).
func ANDI(cpu *vr4300.CPU, rs, rt uint64) {
	writeRT(cpu, rs&decode.ZeroExtImm16(cpu.RFEX.IW))
}

// ORI: rt = rs | zero_ext(imm16).
func ORI(cpu *vr4300.CPU, rs, rt uint64) {
	writeRT(cpu, rs|decode.ZeroExtImm16(cpu.RFEX.IW))
}

// XORI: rt = rs ^ zero_ext(imm16).
func XORI(cpu *vr4300.CPU, rs, rt uint64) {
	writeRT(cpu, rs^decode.ZeroExtImm16(cpu.RFEX.IW))
}

// SLTI: rt = 1 if rs < sign_ext(imm16), signed compare, else 0.
func SLTI(cpu *vr4300.CPU, rs, rt uint64) {
	imm := decode.SignExtImm16(cpu.RFEX.IW)
	writeRT(cpu, boolToWord(int64(rs) < int64(imm)))
}

// SLTIU: rt = 1 if rs < sign_ext(imm16), unsigned compare, else 0.
func SLTIU(cpu *vr4300.CPU, rs, rt uint64) {
	imm := decode.SignExtImm16(cpu.RFEX.IW)
	writeRT(cpu, boolToWord(rs < imm))
}

// ADD: rd = rs + rt. No overflow trap modeled; see ADDI.
func ADD(cpu *vr4300.CPU, rs, rt uint64) {
	writeRD(cpu, rs+rt)
}

// ADDU: rd = rs + rt.
func ADDU(cpu *vr4300.CPU, rs, rt uint64) {
	writeRD(cpu, rs+rt)
}

// SUB: rd = rs - rt. No overflow trap modeled; see ADDI.
func SUB(cpu *vr4300.CPU, rs, rt uint64) {
	writeRD(cpu, rs-rt)
}

// SUBU: rd = rs - rt.
func SUBU(cpu *vr4300.CPU, rs, rt uint64) {
	writeRD(cpu, rs-rt)
}

// AND: rd = rs & rt.
func AND(cpu *vr4300.CPU, rs, rt uint64) {
	writeRD(cpu, rs&rt)
}

// OR: rd = rs | rt.
func OR(cpu *vr4300.CPU, rs, rt uint64) {
	writeRD(cpu, rs|rt)
}

// XOR: rd = rs ^ rt.
func XOR(cpu *vr4300.CPU, rs, rt uint64) {
	writeRD(cpu, rs^rt)
}

// NOR: rd = ^(rs | rt).
func NOR(cpu *vr4300.CPU, rs, rt uint64) {
	writeRD(cpu, ^(rs | rt))
}

// SLT: rd = 1 if rs < rt, signed compare, else 0.
func SLT(cpu *vr4300.CPU, rs, rt uint64) {
	writeRD(cpu, boolToWord(int64(rs) < int64(rt)))
}

// SLTU: rd = 1 if rs < rt, unsigned compare, else 0.
func SLTU(cpu *vr4300.CPU, rs, rt uint64) {
	writeRD(cpu, boolToWord(rs < rt))
}

// SLL: rd = sign_ext32(rt[31:0] << shamt). The all-zero word (SLL $0,$0,0)
// is the canonical NOP; the decoder routes exactly that word to IDNop, so
// this handler never sees it. Any other SLL with rd == R0 does reach this
// handler, and its result is discarded by R0's hard-wired zero.
func SLL(cpu *vr4300.CPU, rs, rt uint64) {
	shamt := decode.Shamt(cpu.RFEX.IW)
	writeRD(cpu, signExt32(uint32(rt)<<shamt))
}

// SRL: rd = sign_ext32(rt[31:0] >> shamt), logical shift.
func SRL(cpu *vr4300.CPU, rs, rt uint64) {
	shamt := decode.Shamt(cpu.RFEX.IW)
	writeRD(cpu, signExt32(uint32(rt)>>shamt))
}

// SRA: rd = sign_ext32(rt[31:0] >> shamt), arithmetic shift.
func SRA(cpu *vr4300.CPU, rs, rt uint64) {
	shamt := decode.Shamt(cpu.RFEX.IW)
	writeRD(cpu, signExt32(uint32(int32(rt)>>shamt)))
}

// NOP does nothing; it exists so Table has an explicit entry rather than a
// nil one at IDNop.
func NOP(cpu *vr4300.CPU, rs, rt uint64) {}

func writeRD(cpu *vr4300.CPU, result uint64) {
	cpu.EXDC.Dest = decode.RD(cpu.RFEX.IW)
	cpu.EXDC.Result = result
}

func writeRT(cpu *vr4300.CPU, result uint64) {
	cpu.EXDC.Dest = decode.RT(cpu.RFEX.IW)
	cpu.EXDC.Result = result
}

func boolToWord(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func signExt32(v uint32) uint64 {
	return uint64(int64(int32(v)))
}
