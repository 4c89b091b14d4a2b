package obj

import "github.com/dark-rv32i/sim/isa"

// Instruction is a decoded or partially decoded RV32I instruction, per
// spec.md §3. Pre-link, Imm carries an Immediate that may still be
// unresolved; post-link, Encode folds everything into the final 32-bit
// word.
type Instruction struct {
	Mnemonic string
	Class    isa.Class
	Opcode   isa.Opcode
	Funct3   uint8
	Funct7   uint8

	Rd, Rs1, Rs2 uint8
	Imm          *Immediate

	// Pos is the absolute address this instruction ends up at once
	// linked; the linker fills it in once sections are placed (the first
	// pass of resolveAll) and the evaluator
	// uses it as the `position` operand of PCREL_HI/PCREL_LO.
	Pos uint32
}

// Encode folds the instruction's fields and a fully-resolved 32-bit
// immediate value into the final RV32I instruction word.
func (in *Instruction) Encode(resolvedImm int32) uint32 {
	w := uint32(in.Opcode)
	switch in.Class {
	case isa.ClassR:
		w |= uint32(in.Rd) << 7
		w |= uint32(in.Funct3) << 12
		w |= uint32(in.Rs1) << 15
		w |= uint32(in.Rs2) << 20
		w |= uint32(in.Funct7) << 25
	case isa.ClassI, isa.ClassL, isa.ClassJALR:
		imm := uint32(resolvedImm) & 0xFFF
		w |= uint32(in.Rd) << 7
		w |= uint32(in.Funct3) << 12
		w |= uint32(in.Rs1) << 15
		w |= imm << 20
	case isa.ClassS:
		imm := uint32(resolvedImm) & 0xFFF
		w |= (imm & 0x1F) << 7
		w |= uint32(in.Funct3) << 12
		w |= uint32(in.Rs1) << 15
		w |= uint32(in.Rs2) << 20
		w |= ((imm >> 5) & 0x7F) << 25
	case isa.ClassB:
		imm := uint32(resolvedImm)
		w |= ((imm >> 11) & 0x1) << 7
		w |= ((imm >> 1) & 0xF) << 8
		w |= uint32(in.Funct3) << 12
		w |= uint32(in.Rs1) << 15
		w |= uint32(in.Rs2) << 20
		w |= ((imm >> 5) & 0x3F) << 25
		w |= ((imm >> 12) & 0x1) << 31
	case isa.ClassJAL:
		imm := uint32(resolvedImm)
		w |= uint32(in.Rd) << 7
		w |= ((imm >> 12) & 0xFF) << 12
		w |= ((imm >> 11) & 0x1) << 20
		w |= ((imm >> 1) & 0x3FF) << 21
		w |= ((imm >> 20) & 0x1) << 31
	case isa.ClassLUI, isa.ClassAUIPC:
		w |= uint32(in.Rd) << 7
		w |= (uint32(resolvedImm) & 0xFFFFF) << 12
	}
	return w
}
