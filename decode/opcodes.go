package decode

// Opcode IDs. Index into opcodes.Table. Grouped by the MIPS III instruction
// class that produces them; the blank lines only separate the groups, the
// values themselves are consecutive.
const (
	IDNop ID = iota

	IDADDI
	IDADDIU
	IDANDI
	IDORI
	IDXORI
	IDSLTI
	IDSLTIU

	IDADD
	IDADDU
	IDSUB
	IDSUBU
	IDAND
	IDOR
	IDXOR
	IDNOR
	IDSLT
	IDSLTU

	IDSLL
	IDSRL
	IDSRA

	IDLB
	IDLBU
	IDLH
	IDLHU
	IDLW
	IDLWU
	IDLD
	IDSB
	IDSH
	IDSW
	IDSD

	IDBEQ
	IDBNE
	IDBLEZ
	IDBGTZ
	IDJ
	IDJAL
	IDJR
	IDJALR

	// NumOpcodes must stay last; it sizes opcodes.Table.
	NumOpcodes
)

// flagsByID is the static opcode-id -> (flags) lookup the decoder consults. The
// actual register-mutating behavior for each id lives in the opcodes
// package, grounded by id rather than by direct reference, so that this
// package never needs to import the code that executes instructions.
var flagsByID = [NumOpcodes]Flags{
	IDNop: 0,

	IDADDI:  NeedRS,
	IDADDIU: NeedRS,
	IDANDI:  NeedRS,
	IDORI:   NeedRS,
	IDXORI:  NeedRS,
	IDSLTI:  NeedRS,
	IDSLTIU: NeedRS,

	IDADD:  NeedRS | NeedRT,
	IDADDU: NeedRS | NeedRT,
	IDSUB:  NeedRS | NeedRT,
	IDSUBU: NeedRS | NeedRT,
	IDAND:  NeedRS | NeedRT,
	IDOR:   NeedRS | NeedRT,
	IDXOR:  NeedRS | NeedRT,
	IDNOR:  NeedRS | NeedRT,
	IDSLT:  NeedRS | NeedRT,
	IDSLTU: NeedRS | NeedRT,

	IDSLL: NeedRT,
	IDSRL: NeedRT,
	IDSRA: NeedRT,

	IDLB:  NeedRS | IsLoad,
	IDLBU: NeedRS | IsLoad,
	IDLH:  NeedRS | IsLoad,
	IDLHU: NeedRS | IsLoad,
	IDLW:  NeedRS | IsLoad,
	IDLWU: NeedRS | IsLoad,
	IDLD:  NeedRS | IsLoad,
	IDSB:  NeedRS | NeedRT | IsStore,
	IDSH:  NeedRS | NeedRT | IsStore,
	IDSW:  NeedRS | NeedRT | IsStore,
	IDSD:  NeedRS | NeedRT | IsStore,

	IDBEQ:  NeedRS | NeedRT | IsBranch,
	IDBNE:  NeedRS | NeedRT | IsBranch,
	IDBLEZ: NeedRS | IsBranch,
	IDBGTZ: NeedRS | IsBranch,
	IDJ:    IsBranch,
	IDJAL:  IsBranch,
	IDJR:   NeedRS | IsBranch,
	IDJALR: NeedRS | IsBranch,
}

// MIPSIII decodes MIPS III instruction words using the fixed primary
// opcode / SPECIAL-function encoding.
type MIPSIII struct{}

// NewMIPSIII creates a MIPS III decoder.
func NewMIPSIII() *MIPSIII { return &MIPSIII{} }

// Decode maps an instruction word to an Opcode. Unrecognized words decode
// to IDNop with no operand requirements, the same NOP-equivalent a
// branch-delay squash produces (see vr4300's IC stage).
func (MIPSIII) Decode(iw uint32) Opcode {
	id := classify(iw)
	return Opcode{ID: id, Flags: flagsByID[id]}
}

func classify(iw uint32) ID {
	op := Opcode6(iw)

	switch op {
	case 0x00: // SPECIAL
		return classifySpecial(iw)
	case 0x08:
		return IDADDI
	case 0x09:
		return IDADDIU
	case 0x0C:
		return IDANDI
	case 0x0D:
		return IDORI
	case 0x0E:
		return IDXORI
	case 0x0A:
		return IDSLTI
	case 0x0B:
		return IDSLTIU
	case 0x04:
		return IDBEQ
	case 0x05:
		return IDBNE
	case 0x06:
		return IDBLEZ
	case 0x07:
		return IDBGTZ
	case 0x02:
		return IDJ
	case 0x03:
		return IDJAL
	case 0x20:
		return IDLB
	case 0x24:
		return IDLBU
	case 0x21:
		return IDLH
	case 0x25:
		return IDLHU
	case 0x23:
		return IDLW
	case 0x27:
		return IDLWU
	case 0x37:
		return IDLD
	case 0x28:
		return IDSB
	case 0x29:
		return IDSH
	case 0x2B:
		return IDSW
	case 0x3F:
		return IDSD
	default:
		return IDNop
	}
}

func classifySpecial(iw uint32) ID {
	switch Funct(iw) {
	case 0x20:
		return IDADD
	case 0x21:
		return IDADDU
	case 0x22:
		return IDSUB
	case 0x23:
		return IDSUBU
	case 0x24:
		return IDAND
	case 0x25:
		return IDOR
	case 0x26:
		return IDXOR
	case 0x27:
		return IDNOR
	case 0x2A:
		return IDSLT
	case 0x2B:
		return IDSLTU
	case 0x00:
		if iw == 0 {
			return IDNop
		}
		return IDSLL
	case 0x02:
		return IDSRL
	case 0x03:
		return IDSRA
	case 0x08:
		return IDJR
	case 0x09:
		return IDJALR
	default:
		return IDNop
	}
}
