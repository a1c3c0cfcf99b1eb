package opcodes

import (
	"github.com/cen64sim/vr4300/vr4300"
	"github.com/cen64sim/vr4300/decode"
)

// signExtendKeep is the exdc_latch.result "keep mask" fixupEX consults: all
// ones preserves the sign-extended high bits a signed load produces, zero
// discards them in favor of the zero-extended low bits every load already
// carries. See vr4300/stages.go's fixupEX.
const (
	signExtendKeep = ^uint64(0)
	zeroExtendKeep = 0
)

func issueLoad(cpu *vr4300.CPU, dest uint8, base uint64, size int, keep uint64) {
	imm := decode.SignExtImm16(cpu.RFEX.IW)
	cpu.EXDC.Dest = dest
	cpu.EXDC.Result = keep
	cpu.EXDC.Request = vr4300.BusRequest{
		Type:    vr4300.RequestRead,
		Address: base + imm,
		Size:    size,
	}
}

func issueStore(cpu *vr4300.CPU, base, value uint64, size int) {
	imm := decode.SignExtImm16(cpu.RFEX.IW)
	word, dqm := storeParams(value, size)
	cpu.EXDC.Request = vr4300.BusRequest{
		Type:    vr4300.RequestWrite,
		Address: base + imm,
		Word:    word,
		Size:    size,
		DQM:     dqm,
	}
}

// storeParams left-justifies value's low size*8 bits into a 64-bit bus
// word and builds the matching per-byte write-enable mask, so a partial
// store only touches the size bytes starting at the request address (see
// bus.FlatBus.WriteWord).
func storeParams(value uint64, size int) (word, dqm uint64) {
	if size == 8 {
		return value, ^uint64(0)
	}
	shift := uint(8-size) * 8
	byteMask := (uint64(1)<<(uint(size)*8) - 1) << shift
	return value << shift, byteMask
}

// LB: rt = sign_ext(mem_byte(rs + imm16)).
func LB(cpu *vr4300.CPU, rs, rt uint64) {
	issueLoad(cpu, decode.RT(cpu.RFEX.IW), rs, 1, signExtendKeep)
}

// LBU: rt = zero_ext(mem_byte(rs + imm16)).
func LBU(cpu *vr4300.CPU, rs, rt uint64) {
	issueLoad(cpu, decode.RT(cpu.RFEX.IW), rs, 1, zeroExtendKeep)
}

// LH: rt = sign_ext(mem_halfword(rs + imm16)).
func LH(cpu *vr4300.CPU, rs, rt uint64) {
	issueLoad(cpu, decode.RT(cpu.RFEX.IW), rs, 2, signExtendKeep)
}

// LHU: rt = zero_ext(mem_halfword(rs + imm16)).
func LHU(cpu *vr4300.CPU, rs, rt uint64) {
	issueLoad(cpu, decode.RT(cpu.RFEX.IW), rs, 2, zeroExtendKeep)
}

// LW: rt = sign_ext(mem_word(rs + imm16)).
func LW(cpu *vr4300.CPU, rs, rt uint64) {
	issueLoad(cpu, decode.RT(cpu.RFEX.IW), rs, 4, signExtendKeep)
}

// LWU: rt = zero_ext(mem_word(rs + imm16)).
func LWU(cpu *vr4300.CPU, rs, rt uint64) {
	issueLoad(cpu, decode.RT(cpu.RFEX.IW), rs, 4, zeroExtendKeep)
}

// LD: rt = mem_doubleword(rs + imm16).
func LD(cpu *vr4300.CPU, rs, rt uint64) {
	issueLoad(cpu, decode.RT(cpu.RFEX.IW), rs, 8, zeroExtendKeep)
}

// SB: mem_byte(rs + imm16) = rt[7:0].
func SB(cpu *vr4300.CPU, rs, rt uint64) {
	issueStore(cpu, rs, rt, 1)
}

// SH: mem_halfword(rs + imm16) = rt[15:0].
func SH(cpu *vr4300.CPU, rs, rt uint64) {
	issueStore(cpu, rs, rt, 2)
}

// SW: mem_word(rs + imm16) = rt[31:0].
func SW(cpu *vr4300.CPU, rs, rt uint64) {
	issueStore(cpu, rs, rt, 4)
}

// SD: mem_doubleword(rs + imm16) = rt.
func SD(cpu *vr4300.CPU, rs, rt uint64) {
	issueStore(cpu, rs, rt, 8)
}
