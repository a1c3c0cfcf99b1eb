// Package decode maps raw MIPS III instruction words to opcode descriptors.
//
// It deliberately stops at identifying *which* handler a word dispatches to
// and what operands that handler needs — it does not build a full decoded
// instruction struct the way a disassembler would. The pipeline's EX stage
// pulls rs/rt straight out of the instruction word itself (see vr4300.CPU),
// and each opcode handler is responsible for picking any further bitfields
// (rd, immediate, branch offset) it needs out of the raw word.
package decode

// Flags describes operand requirements and other static properties of an
// opcode, independent of any particular encoding of it.
type Flags uint8

const (
	// NeedRS means the handler reads the rs register value.
	NeedRS Flags = 1 << iota
	// NeedRT means the handler reads the rt register value.
	NeedRT
	// IsBranch means the handler may redirect ICRF.PC and squash the
	// instruction behind it in the delay slot.
	IsBranch
	// IsLoad means the handler issues a bus read request.
	IsLoad
	// IsStore means the handler issues a bus write request.
	IsStore
)

// ID identifies an opcode's handler in opcodes.Table.
type ID uint8

// Opcode is the result of decoding an instruction word: just enough for the
// pipeline to find a handler and know which operands it needs.
type Opcode struct {
	ID    ID
	Flags Flags
}

// Decoder maps an instruction word to an Opcode. The pipeline depends only
// on this interface; MIPSIII (opcodes.go) is the reference MIPS III
// implementation.
type Decoder interface {
	Decode(iw uint32) Opcode
}

// Field extraction helpers, shared with the opcodes package so handlers and
// the decoder agree on the MIPS III instruction layout.

// Opcode6 returns the primary 6-bit opcode field, bits [31:26].
func Opcode6(iw uint32) uint32 { return (iw >> 26) & 0x3F }

// Funct returns the 6-bit function field used by SPECIAL (opcode 0), bits [5:0].
func Funct(iw uint32) uint32 { return iw & 0x3F }

// RS returns the rs register index, bits [25:21].
func RS(iw uint32) uint8 { return uint8((iw >> 21) & 0x1F) }

// RT returns the rt register index, bits [20:16].
func RT(iw uint32) uint8 { return uint8((iw >> 16) & 0x1F) }

// RD returns the rd register index, bits [15:11].
func RD(iw uint32) uint8 { return uint8((iw >> 11) & 0x1F) }

// Shamt returns the shift-amount field, bits [10:6].
func Shamt(iw uint32) uint8 { return uint8((iw >> 6) & 0x1F) }

// Imm16 returns the raw 16-bit immediate field, bits [15:0].
func Imm16(iw uint32) uint16 { return uint16(iw) }

// SignExtImm16 sign-extends the 16-bit immediate field to 64 bits.
func SignExtImm16(iw uint32) uint64 { return uint64(int64(int16(Imm16(iw)))) }

// ZeroExtImm16 zero-extends the 16-bit immediate field to 64 bits.
func ZeroExtImm16(iw uint32) uint64 { return uint64(Imm16(iw)) }

// Target26 returns the 26-bit jump target field, bits [25:0].
func Target26(iw uint32) uint32 { return iw & 0x3FFFFFF }
