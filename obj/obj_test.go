package obj

import (
	"testing"

	"github.com/dark-rv32i/sim/isa"
)

func TestSectionAppendAndAlign(t *testing.T) {
	s := NewSection(Text)
	s.AppendData([]byte{1, 2, 3})
	if s.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", s.Size())
	}
	pad := s.AlignTo(4)
	if pad != 1 {
		t.Fatalf("AlignTo(4) padded %d bytes, want 1", pad)
	}
	if s.Size() != 4 {
		t.Fatalf("Size() after align = %d, want 4", s.Size())
	}
}

func TestSectionBssStaysEmpty(t *testing.T) {
	s := NewSection(Bss)
	s.Reserve(16)
	if s.Size() != 16 {
		t.Fatalf("Size() = %d, want 16", s.Size())
	}
	if len(s.Raw) != 0 {
		t.Fatalf("bss Raw has %d bytes, want 0", len(s.Raw))
	}
}

func TestSectionMergeFromTranslatesOffsets(t *testing.T) {
	dst := NewSection(Data)
	dst.AppendData([]byte{0xAA, 0xBB})

	src := NewSection(Data)
	insn := &Instruction{Mnemonic: "add"}
	off := src.AppendInstruction(insn)
	if off != 0 {
		t.Fatalf("src offset = %d, want 0", off)
	}

	base := dst.MergeFrom(src)
	if base != 2 {
		t.Fatalf("MergeFrom base = %d, want 2", base)
	}
	if dst.Size() != 6 {
		t.Fatalf("merged Size() = %d, want 6", dst.Size())
	}
	last := dst.Items[len(dst.Items)-1]
	if last.Offset != 2 || last.Insn != insn {
		t.Fatalf("merged item = %+v, want offset=2 same insn", last)
	}
}

func TestValidLabelName(t *testing.T) {
	if !ValidLabelName("main") || !ValidLabelName("_start") || !ValidLabelName("loop.1") {
		t.Error("expected valid label names to be accepted")
	}
	if ValidLabelName("") || ValidLabelName("has space") || ValidLabelName("semi;colon") {
		t.Error("expected invalid label names to be rejected")
	}
}

func TestInstructionEncodeRType(t *testing.T) {
	insn := &Instruction{
		Class: isa.ClassR, Opcode: isa.OpcodeOp,
		Funct3: 0x0, Funct7: 0x20, // sub
		Rd: 1, Rs1: 2, Rs2: 3,
	}
	word := insn.Encode(0)
	got := Decode32(word)
	if got.rd != 1 || got.rs1 != 2 || got.rs2 != 3 || got.funct7 != 0x20 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestInstructionEncodeIType(t *testing.T) {
	insn := &Instruction{
		Class: isa.ClassI, Opcode: isa.OpcodeOpImm,
		Funct3: 0x0, Rd: 5, Rs1: 6,
	}
	word := insn.Encode(-1) // addi x5, x6, -1
	got := Decode32(word)
	if int32(got.imm12) != -1 {
		t.Fatalf("imm round trip = %d, want -1", int32(got.imm12))
	}
}

// decoded32 and Decode32 are a tiny local re-decoder, independent of the
// interpreter package, so obj's own encode tests don't need to import it.
type decoded32 struct {
	rd, rs1, rs2, funct7 uint32
	imm12                int32
}

func Decode32(word uint32) decoded32 {
	return decoded32{
		rd:     (word >> 7) & 0x1F,
		rs1:    (word >> 15) & 0x1F,
		rs2:    (word >> 20) & 0x1F,
		funct7: (word >> 25) & 0x7F,
		imm12:  int32(word) >> 20,
	}
}
