package debug

import (
	"strings"
	"testing"

	"github.com/dark-rv32i/sim/isa"
)

func encodeR(mnemonic string, rd, rs1, rs2 uint8) uint32 {
	d := isa.InstrTable[mnemonic]
	return uint32(d.Opcode) | uint32(rd)<<7 | uint32(d.Funct3)<<12 | uint32(rs1)<<15 | uint32(rs2)<<20 | uint32(d.Funct7)<<25
}

func encodeI(mnemonic string, rd, rs1 uint8, imm int32) uint32 {
	d := isa.InstrTable[mnemonic]
	return uint32(d.Opcode) | uint32(rd)<<7 | uint32(d.Funct3)<<12 | uint32(rs1)<<15 | (uint32(imm)&0xFFF)<<20
}

func TestDisassembleRType(t *testing.T) {
	out := Disassemble(encodeR("add", 1, 2, 3))
	if !strings.Contains(out, "add") || !strings.Contains(out, "ra") {
		t.Fatalf("Disassemble = %q, want it to name add/rd", out)
	}
}

func TestDisassembleShiftDistinguishesArithmetic(t *testing.T) {
	srai := encodeI("srai", 1, 2, 5|(isa.ShiftArithmeticFunct7<<5))
	srli := encodeI("srli", 1, 2, 5)
	if !strings.HasPrefix(Disassemble(srai), "srai") {
		t.Fatalf("Disassemble(srai word) = %q, want srai prefix", Disassemble(srai))
	}
	if !strings.HasPrefix(Disassemble(srli), "srli") {
		t.Fatalf("Disassemble(srli word) = %q, want srli prefix", Disassemble(srli))
	}
}

func TestDisassembleUnknownWordRendersHex(t *testing.T) {
	out := Disassemble(0x7F)
	if !strings.HasPrefix(out, "0x") {
		t.Fatalf("Disassemble(unknown) = %q, want a 0x... hex rendering", out)
	}
}

func TestDisassembleSystemInstructions(t *testing.T) {
	ecall := uint32(isa.InstrTable["ecall"].Opcode)
	if Disassemble(ecall) != "ecall" {
		t.Fatalf("Disassemble(ecall word) = %q, want \"ecall\"", Disassemble(ecall))
	}
	ebreak := ecall | (1 << 20) // imm field = 1 selects ebreak
	if Disassemble(ebreak) != "ebreak" {
		t.Fatalf("Disassemble(ebreak word) = %q, want \"ebreak\"", Disassemble(ebreak))
	}
}
