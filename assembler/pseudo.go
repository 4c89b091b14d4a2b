package assembler

import (
	"github.com/dark-rv32i/sim/isa"
	"github.com/dark-rv32i/sim/obj"
)

// expandPseudo lowers one pseudo-mnemonic into one or more canonical
// instructions, per spec.md §4.1 ("li and la expand to a lui/addi pair
// using HI/LO relocations").
func (p *parser) expandPseudo(mnemonic, rest string) error {
	switch mnemonic {
	case "li":
		return p.expandLI(rest)
	case "la":
		return p.expandLA(rest)
	case "call":
		return p.expandCall(rest, isa.RegByName["ra"])
	case "tail":
		return p.expandCall(rest, isa.RegByName["x0"])
	case "j":
		return p.expandJ(rest)
	case "jr":
		return p.expandJR(rest)
	case "mv":
		return p.expandMV(rest)
	case "ret":
		return p.expandRet()
	case "nop":
		return p.expandNop()
	case "beqz", "bnez", "blez", "bgez", "bltz", "bgtz":
		return p.expandBranchZero(mnemonic, rest)
	default:
		return p.errf("unhandled pseudo-instruction %q", mnemonic)
	}
}

func (p *parser) rType(mnemonic string, rd, rs1, rs2 uint8) *obj.Instruction {
	d := isa.InstrTable[mnemonic]
	return &obj.Instruction{Mnemonic: mnemonic, Class: d.Class, Opcode: d.Opcode, Funct3: d.Funct3, Funct7: d.Funct7, Rd: rd, Rs1: rs1, Rs2: rs2}
}

func (p *parser) iType(mnemonic string, rd, rs1 uint8, imm *obj.Immediate) *obj.Instruction {
	d := isa.InstrTable[mnemonic]
	return &obj.Instruction{Mnemonic: mnemonic, Class: d.Class, Opcode: d.Opcode, Funct3: d.Funct3, Funct7: d.Funct7, Rd: rd, Rs1: rs1, Imm: imm}
}

func (p *parser) bType(mnemonic string, rs1, rs2 uint8, imm *obj.Immediate) *obj.Instruction {
	d := isa.InstrTable[mnemonic]
	return &obj.Instruction{Mnemonic: mnemonic, Class: d.Class, Opcode: d.Opcode, Funct3: d.Funct3, Funct7: d.Funct7, Rs1: rs1, Rs2: rs2, Imm: imm}
}

// expandLI lowers "li rd, imm" to an absolute lui/addi pair, always
// expanding both instructions regardless of whether imm fits in 12
// bits, per DESIGN.md.
func (p *parser) expandLI(rest string) error {
	ops, err := splitCommand(rest, 2)
	if err != nil {
		return p.errf("li: %v", err)
	}
	rd, err := p.reg(ops[0])
	if err != nil {
		return p.errf("li: %v", err)
	}
	val, err := parseImmExpr(ops[1])
	if err != nil {
		return p.errf("li: %v", err)
	}
	p.emit(p.iType("lui", rd, 0, obj.Relocate(obj.HI, val)))
	p.emit(&obj.Instruction{Mnemonic: "addi", Class: isa.ClassI, Opcode: isa.OpcodeOpImm, Funct3: 0x0, Rd: rd, Rs1: rd, Imm: obj.Relocate(obj.LO, val)})
	return nil
}

// expandLA lowers "la rd, sym" to a PC-relative auipc/addi pair, wiring
// the addi's PCREL_LO back to the auipc instruction it pairs with.
func (p *parser) expandLA(rest string) error {
	ops, err := splitCommand(rest, 2)
	if err != nil {
		return p.errf("la: %v", err)
	}
	rd, err := p.reg(ops[0])
	if err != nil {
		return p.errf("la: %v", err)
	}
	sym, err := parseImmExpr(ops[1])
	if err != nil {
		return p.errf("la: %v", err)
	}
	auipc := p.iType("auipc", rd, 0, obj.Relocate(obj.PCRelHI, sym))
	p.emit(auipc)
	p.emit(&obj.Instruction{Mnemonic: "addi", Class: isa.ClassI, Opcode: isa.OpcodeOpImm, Funct3: 0x0, Rd: rd, Rs1: rd, Imm: obj.RelocatePCLo(sym, auipc)})
	return nil
}

// expandCall lowers "call sym"/"tail sym" to an auipc/jalr pair, with
// rd fixed to the given link register (ra for call, x0 for tail).
func (p *parser) expandCall(rest string, link uint8) error {
	sym, err := parseImmExpr(rest)
	if err != nil {
		return p.errf("call/tail: %v", err)
	}
	tmp := isa.RegByName["t1"]
	auipc := p.iType("auipc", tmp, 0, obj.Relocate(obj.PCRelHI, sym))
	p.emit(auipc)
	p.emit(&obj.Instruction{Mnemonic: "jalr", Class: isa.ClassJALR, Opcode: isa.OpcodeJALR, Funct3: 0x0, Rd: link, Rs1: tmp, Imm: obj.RelocatePCLo(sym, auipc)})
	return nil
}

// expandJ lowers "j label" to "jal x0, label".
func (p *parser) expandJ(rest string) error {
	sym, err := parseImmExpr(rest)
	if err != nil {
		return p.errf("j: %v", err)
	}
	p.emit(&obj.Instruction{Mnemonic: "jal", Class: isa.ClassJAL, Opcode: isa.OpcodeJAL, Rd: isa.RegByName["x0"], Imm: sym})
	return nil
}

// expandJR lowers "jr rs" to "jalr x0, 0(rs)".
func (p *parser) expandJR(rest string) error {
	rs, err := p.reg(rest)
	if err != nil {
		return p.errf("jr: %v", err)
	}
	p.emit(&obj.Instruction{Mnemonic: "jalr", Class: isa.ClassJALR, Opcode: isa.OpcodeJALR, Rd: isa.RegByName["x0"], Rs1: rs, Imm: obj.Int32(0)})
	return nil
}

// expandMV lowers "mv rd, rs" to "addi rd, rs, 0".
func (p *parser) expandMV(rest string) error {
	ops, err := splitCommand(rest, 2)
	if err != nil {
		return p.errf("mv: %v", err)
	}
	rd, err := p.reg(ops[0])
	if err != nil {
		return p.errf("mv: %v", err)
	}
	rs, err := p.reg(ops[1])
	if err != nil {
		return p.errf("mv: %v", err)
	}
	p.emit(p.iType("addi", rd, rs, obj.Int32(0)))
	return nil
}

// expandRet lowers "ret" to "jalr x0, 0(ra)".
func (p *parser) expandRet() error {
	p.emit(&obj.Instruction{Mnemonic: "jalr", Class: isa.ClassJALR, Opcode: isa.OpcodeJALR, Rd: isa.RegByName["x0"], Rs1: isa.RegByName["ra"], Imm: obj.Int32(0)})
	return nil
}

// expandNop lowers "nop" to "addi x0, x0, 0".
func (p *parser) expandNop() error {
	p.emit(p.iType("addi", isa.RegByName["x0"], isa.RegByName["x0"], obj.Int32(0)))
	return nil
}

// expandBranchZero lowers the zero-comparison branch aliases to their
// underlying two-register branch.
func (p *parser) expandBranchZero(mnemonic, rest string) error {
	ops, err := splitCommand(rest, 2)
	if err != nil {
		return p.errf("%s: %v", mnemonic, err)
	}
	rs, err := p.reg(ops[0])
	if err != nil {
		return p.errf("%s: %v", mnemonic, err)
	}
	label, err := parseImmExpr(ops[1])
	if err != nil {
		return p.errf("%s: %v", mnemonic, err)
	}
	zero := isa.RegByName["x0"]
	switch mnemonic {
	case "beqz":
		p.emit(p.bType("beq", rs, zero, label))
	case "bnez":
		p.emit(p.bType("bne", rs, zero, label))
	case "blez":
		p.emit(p.bType("bge", zero, rs, label))
	case "bgez":
		p.emit(p.bType("bge", rs, zero, label))
	case "bltz":
		p.emit(p.bType("blt", rs, zero, label))
	case "bgtz":
		p.emit(p.bType("blt", zero, rs, label))
	}
	return nil
}
