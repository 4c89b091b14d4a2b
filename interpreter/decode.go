package interpreter

import "github.com/dark-rv32i/sim/isa"

// Executor is a decoded instruction, per spec.md §4.3's option (a)
// ("a tagged variant over the nine opcode classes, dispatched by a hot
// match in the loop"). Decoding is a pure function of the 32-bit word:
// it never depends on the address it was fetched from, which is what
// lets ICache.ifetch(pc) stay extensionally equal to a fresh decode.
type Executor struct {
	class          isa.Class
	opcode         isa.Opcode
	funct3, funct7 uint8
	rd, rs1, rs2   uint8
	imm            int32
	word           uint32
}

// Decode decodes a 32-bit RV32I instruction word. Decoding itself
// cannot trap by spec: an unrecognized opcode decodes successfully here
// and Exec raises InsUnknown when run. Exec also raises InsUnknown for
// an R-type funct3/funct7 pair or a branch, load or store funct3 outside
// RV32I; it does not check the funct3 of JALR and SYSTEM words or the
// upper immediate bits of shift-immediate words.
func Decode(word uint32) *Executor {
	op := isa.Opcode(word & 0x7F)
	rd := uint8((word >> 7) & 0x1F)
	f3 := uint8((word >> 12) & 0x7)
	rs1 := uint8((word >> 15) & 0x1F)
	rs2 := uint8((word >> 20) & 0x1F)
	f7 := uint8((word >> 25) & 0x7F)

	e := &Executor{opcode: op, funct3: f3, funct7: f7, rd: rd, rs1: rs1, rs2: rs2, word: word}

	switch op {
	case isa.OpcodeOp:
		e.class = isa.ClassR
	case isa.OpcodeOpImm:
		e.class = isa.ClassI
		e.imm = immI(word)
	case isa.OpcodeLoad:
		e.class = isa.ClassL
		e.imm = immI(word)
	case isa.OpcodeStore:
		e.class = isa.ClassS
		e.imm = immS(word)
	case isa.OpcodeBranch:
		e.class = isa.ClassB
		e.imm = immB(word)
	case isa.OpcodeJAL:
		e.class = isa.ClassJAL
		e.imm = immJ(word)
	case isa.OpcodeJALR:
		e.class = isa.ClassJALR
		e.imm = immI(word)
	case isa.OpcodeLUI:
		e.class = isa.ClassLUI
		e.imm = immU(word)
	case isa.OpcodeAUIPC:
		e.class = isa.ClassAUIPC
		e.imm = immU(word)
	case isa.OpcodeSystem:
		e.class = isa.ClassI
		e.imm = immI(word)
	default:
		e.class = unknownClass
	}
	return e
}

// unknownClass is a sentinel isa.Class value reserved for words whose
// opcode matches none of the nine RV32I formats.
const unknownClass isa.Class = 0xFF

// Class, Funct3, Funct7, Rd, Rs1, Rs2, Imm, and Word expose a decoded
// Executor's fields read-only, for the disassembler (package debug).
func (e *Executor) Class() isa.Class   { return e.class }
func (e *Executor) Opcode() isa.Opcode { return e.opcode }
func (e *Executor) Funct3() uint8      { return e.funct3 }
func (e *Executor) Funct7() uint8      { return e.funct7 }
func (e *Executor) Rd() uint8          { return e.rd }
func (e *Executor) Rs1() uint8         { return e.rs1 }
func (e *Executor) Rs2() uint8         { return e.rs2 }
func (e *Executor) Imm() int32         { return e.imm }
func (e *Executor) Word() uint32       { return e.word }

// IsUnknown reports whether word decoded to no recognized opcode.
func (e *Executor) IsUnknown() bool { return e.class == unknownClass }

func immI(word uint32) int32 { return int32(word) >> 20 }

func immS(word uint32) int32 {
	v := ((word >> 7) & 0x1F) | ((word >> 20) & 0xFE0)
	return signExtend(v, 12)
}

func immB(word uint32) int32 {
	v := ((word >> 7) & 0x1E) | ((word >> 20) & 0x7E0) | ((word << 4) & 0x800) | ((word >> 19) & 0x1000)
	return signExtend(v, 13)
}

func immJ(word uint32) int32 {
	v := ((word >> 20) & 0x7FE) | ((word >> 9) & 0x800) | (word & 0xFF000) | ((word >> 11) & 0x100000)
	return signExtend(v, 21)
}

func immU(word uint32) int32 { return int32(word & 0xFFFFF000) }

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}
