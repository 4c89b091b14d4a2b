// Package debug implements spec.md §4.3's "Debug variant": a
// DebugManager that single-steps and prints state before each fetch,
// and a pure disassembler used by the stepper.
package debug

import (
	"fmt"
	"strings"

	"github.com/dark-rv32i/sim/console"
	"github.com/dark-rv32i/sim/interpreter"
	"github.com/dark-rv32i/sim/isa"
)

var (
	rMnemonic = map[[2]uint8]string{}
	iMnemonic = map[uint8]string{}
	lMnemonic = map[uint8]string{}
	sMnemonic = map[uint8]string{}
	bMnemonic = map[uint8]string{}
	regNames  [32]string
)

func init() {
	for mnemonic, desc := range isa.InstrTable {
		switch desc.Class {
		case isa.ClassR:
			rMnemonic[[2]uint8{desc.Funct3, desc.Funct7}] = mnemonic
		case isa.ClassI:
			if !isa.IsShiftImmediate(mnemonic) && desc.Opcode == isa.OpcodeOpImm {
				iMnemonic[desc.Funct3] = mnemonic
			}
		case isa.ClassL:
			lMnemonic[desc.Funct3] = mnemonic
		case isa.ClassS:
			sMnemonic[desc.Funct3] = mnemonic
		case isa.ClassB:
			bMnemonic[desc.Funct3] = mnemonic
		}
	}
	for name, idx := range isa.RegByName {
		if strings.HasPrefix(name, "x") || name == "fp" {
			continue
		}
		regNames[idx] = name
	}
}

func reg(i uint8) string { return regNames[i] }

// Disassemble renders word as a single line of canonical RV32I
// assembly. It is a pure function of word and must stay faithful to
// interpreter.Decode: unknown encodings render as "0x...", per
// spec.md §4.3.
func Disassemble(word uint32) string {
	e := interpreter.Decode(word)
	if e.IsUnknown() {
		return fmt.Sprintf("0x%08x", word)
	}

	switch e.Class() {
	case isa.ClassR:
		m, ok := rMnemonic[[2]uint8{e.Funct3(), e.Funct7()}]
		if !ok {
			return fmt.Sprintf("0x%08x", word)
		}
		return fmt.Sprintf("%s %s, %s, %s", m, reg(e.Rd()), reg(e.Rs1()), reg(e.Rs2()))

	case isa.ClassI:
		if e.Opcode() == isa.OpcodeSystem {
			if e.Imm() == 1 {
				return "ebreak"
			}
			return "ecall"
		}
		if shiftMnemonic, ok := shiftMnemonicFor(e.Funct3(), e.Imm()); ok {
			shamt := uint32(e.Imm()) & 0x1F
			return fmt.Sprintf("%s %s, %s, %d", shiftMnemonic, reg(e.Rd()), reg(e.Rs1()), shamt)
		}
		m, ok := iMnemonic[e.Funct3()]
		if !ok {
			return fmt.Sprintf("0x%08x", word)
		}
		return fmt.Sprintf("%s %s, %s, %d", m, reg(e.Rd()), reg(e.Rs1()), e.Imm())

	case isa.ClassL:
		m, ok := lMnemonic[e.Funct3()]
		if !ok {
			return fmt.Sprintf("0x%08x", word)
		}
		return fmt.Sprintf("%s %s, %d(%s)", m, reg(e.Rd()), e.Imm(), reg(e.Rs1()))

	case isa.ClassS:
		m, ok := sMnemonic[e.Funct3()]
		if !ok {
			return fmt.Sprintf("0x%08x", word)
		}
		return fmt.Sprintf("%s %s, %d(%s)", m, reg(e.Rs2()), e.Imm(), reg(e.Rs1()))

	case isa.ClassB:
		m, ok := bMnemonic[e.Funct3()]
		if !ok {
			return fmt.Sprintf("0x%08x", word)
		}
		return fmt.Sprintf("%s %s, %s, %d", m, reg(e.Rs1()), reg(e.Rs2()), e.Imm())

	case isa.ClassJAL:
		return fmt.Sprintf("jal %s, %d", reg(e.Rd()), e.Imm())

	case isa.ClassJALR:
		return fmt.Sprintf("jalr %s, %d(%s)", reg(e.Rd()), e.Imm(), reg(e.Rs1()))

	case isa.ClassLUI:
		return fmt.Sprintf("lui %s, %d", reg(e.Rd()), e.Imm()>>12)

	case isa.ClassAUIPC:
		return fmt.Sprintf("auipc %s, %d", reg(e.Rd()), e.Imm()>>12)
	}
	return fmt.Sprintf("0x%08x", word)
}

// shiftMnemonicFor distinguishes slli/srli/srai, which share a funct3
// within ClassI and are instead told apart by bit 10 of the encoded
// immediate (isa.ShiftArithmeticFunct7<<5), per isa.IsShiftImmediate.
func shiftMnemonicFor(f3 uint8, imm int32) (string, bool) {
	switch f3 {
	case 0x1:
		return "slli", true
	case 0x5:
		if uint32(imm)&(isa.ShiftArithmeticFunct7<<5) != 0 {
			return "srai", true
		}
		return "srli", true
	}
	return "", false
}

// Manager is the tracing DebugManager of spec.md §4.3's debug variant:
// before every fetch it prints the current PC, the disassembled
// instruction at that address, and registers a0, a1, ra and sp. It does
// not pause for input.
type Manager struct {
	sink *console.Sink
}

// NewManager returns a Manager that prints to sink.
func NewManager(sink *console.Sink) *Manager {
	return &Manager{sink: sink}
}

// Before implements interpreter.DebugManager.
func (m *Manager) Before(pc uint32, regs *interpreter.RegisterFile, mem *interpreter.Memory) {
	word, err := mem.LoadCmd(pc)
	if err != nil {
		m.sink.Printf("%08x: <unreadable: %v>\n", pc, err)
		return
	}
	m.sink.Printf("%08x: %-28s a0=%08x a1=%08x ra=%08x sp=%08x\n",
		pc, Disassemble(word),
		regs.Read(isa.RegByName["a0"]), regs.Read(isa.RegByName["a1"]),
		regs.Read(isa.RegByName["ra"]), regs.Read(isa.RegByName["sp"]))
}
