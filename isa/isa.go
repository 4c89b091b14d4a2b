// Package isa holds the static RV32I tables: ABI register names, the
// opcode-class encoding, and the per-mnemonic instruction descriptors.
package isa

import "fmt"

// Class is one of the nine RV32I instruction formats.
type Class uint8

const (
	ClassR Class = iota
	ClassI
	ClassS
	ClassL // load, a dedicated I-format subclass carrying an imm(reg) operand
	ClassB
	ClassJAL
	ClassJALR
	ClassLUI
	ClassAUIPC
)

// Opcode is the 7-bit RV32I opcode field.
type Opcode uint8

const (
	OpcodeLoad    Opcode = 0b0000011
	OpcodeStore   Opcode = 0b0100011
	OpcodeBranch  Opcode = 0b1100011
	OpcodeOpImm   Opcode = 0b0010011
	OpcodeOp      Opcode = 0b0110011
	OpcodeJAL     Opcode = 0b1101111
	OpcodeJALR    Opcode = 0b1100111
	OpcodeLUI     Opcode = 0b0110111
	OpcodeAUIPC   Opcode = 0b0010111
	OpcodeSystem  Opcode = 0b1110011
)

// Desc describes a single mnemonic: its class and its fixed opcode/
// funct3/funct7 bits.
type Desc struct {
	Class  Class
	Opcode Opcode
	Funct3 uint8
	Funct7 uint8
}

// RegByName maps every ABI and numeric register spelling ("sp", "x2", ...)
// to its 5-bit index.
var RegByName = make(map[string]uint8, 64)

// InstrTable maps every canonical (non-pseudo) mnemonic to its descriptor.
var InstrTable = make(map[string]Desc)

// PseudoMnemonics lists the mnemonics the assembler expands before ever
// consulting InstrTable. Kept here so other packages (the assembler,
// in particular) can tell a pseudo-op apart from a hardware one.
var PseudoMnemonics = map[string]bool{
	"li": true, "la": true, "call": true, "tail": true, "j": true,
	"jr": true, "mv": true, "ret": true, "nop": true,
	"beqz": true, "bnez": true, "blez": true, "bgez": true,
	"bltz": true, "bgtz": true,
}

func init() {
	populateRegisters()
	populateInstructions()
}

func populateRegisters() {
	abiNames := []string{
		"zero", "ra", "sp", "gp", "tp",
		"t0", "t1", "t2",
		"s0", "s1",
		"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
		"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
		"t3", "t4", "t5", "t6",
	}
	for i, name := range abiNames {
		RegByName[name] = uint8(i)
		RegByName[fmt.Sprintf("x%d", i)] = uint8(i)
	}
	RegByName["fp"] = RegByName["s0"] // frame pointer alias
}

func populateInstructions() {
	r := func(mnemonic string, f3, f7 uint8) {
		InstrTable[mnemonic] = Desc{Class: ClassR, Opcode: OpcodeOp, Funct3: f3, Funct7: f7}
	}
	i := func(mnemonic string, f3 uint8) {
		InstrTable[mnemonic] = Desc{Class: ClassI, Opcode: OpcodeOpImm, Funct3: f3}
	}
	l := func(mnemonic string, f3 uint8) {
		InstrTable[mnemonic] = Desc{Class: ClassL, Opcode: OpcodeLoad, Funct3: f3}
	}
	s := func(mnemonic string, f3 uint8) {
		InstrTable[mnemonic] = Desc{Class: ClassS, Opcode: OpcodeStore, Funct3: f3}
	}
	b := func(mnemonic string, f3 uint8) {
		InstrTable[mnemonic] = Desc{Class: ClassB, Opcode: OpcodeBranch, Funct3: f3}
	}

	// R-type: register-register
	r("add", 0x0, 0x00)
	r("sub", 0x0, 0x20)
	r("sll", 0x1, 0x00)
	r("slt", 0x2, 0x00)
	r("sltu", 0x3, 0x00)
	r("xor", 0x4, 0x00)
	r("srl", 0x5, 0x00)
	r("sra", 0x5, 0x20)
	r("or", 0x6, 0x00)
	r("and", 0x7, 0x00)

	// I-type: register-immediate ALU ops
	i("addi", 0x0)
	i("slli", 0x1)
	i("slti", 0x2)
	i("sltiu", 0x3)
	i("xori", 0x4)
	i("srli", 0x5)
	i("srai", 0x5)
	i("ori", 0x6)
	i("andi", 0x7)

	// L-type: loads (I-format with an imm(reg) operand shape)
	l("lb", 0x0)
	l("lh", 0x1)
	l("lw", 0x2)
	l("lbu", 0x4)
	l("lhu", 0x5)

	// S-type: stores
	s("sb", 0x0)
	s("sh", 0x1)
	s("sw", 0x2)

	// B-type: branches
	b("beq", 0x0)
	b("bne", 0x1)
	b("blt", 0x4)
	b("bge", 0x5)
	b("bltu", 0x6)
	b("bgeu", 0x7)

	// jumps / upper-immediate / system
	InstrTable["jal"] = Desc{Class: ClassJAL, Opcode: OpcodeJAL}
	InstrTable["jalr"] = Desc{Class: ClassJALR, Opcode: OpcodeJALR, Funct3: 0x0}
	InstrTable["lui"] = Desc{Class: ClassLUI, Opcode: OpcodeLUI}
	InstrTable["auipc"] = Desc{Class: ClassAUIPC, Opcode: OpcodeAUIPC}
	InstrTable["ecall"] = Desc{Class: ClassI, Opcode: OpcodeSystem, Funct3: 0x0}
	InstrTable["ebreak"] = Desc{Class: ClassI, Opcode: OpcodeSystem, Funct3: 0x0}
}

// SRAI and SRLI share a funct3; they are disambiguated by the top 7 bits
// of the shift-amount field (bit 30 set selects the arithmetic variant).
const ShiftArithmeticFunct7 = 0x20

// IsShiftImmediate reports whether mnemonic is one of the I-type shift
// instructions, which encode their shift amount (not a full 12-bit
// immediate) in the low 5 bits of the immediate field.
func IsShiftImmediate(mnemonic string) bool {
	switch mnemonic {
	case "slli", "srli", "srai":
		return true
	default:
		return false
	}
}
