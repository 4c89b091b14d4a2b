package assembler

import (
	"strings"
	"testing"

	"github.com/dark-rv32i/sim/console"
	"github.com/dark-rv32i/sim/obj"
)

func TestStripCommentHonorsStringLiterals(t *testing.T) {
	got := stripComment(`.asciz "a # b" # real comment`)
	want := `.asciz "a # b" `
	if got != want {
		t.Fatalf("stripComment = %q, want %q", got, want)
	}
}

func TestStripCommentHandlesEscapedBackslashBeforeClosingQuote(t *testing.T) {
	// The string literal's content is one literal backslash, written as
	// two backslash characters; the closing quote is NOT escaped, so the
	// trailing "#" is a real comment.
	got := stripComment(`.asciz "C:\\" # real comment`)
	want := `.asciz "C:\\" `
	if got != want {
		t.Fatalf("stripComment = %q, want %q", got, want)
	}
}

func TestSplitLeadingLabel(t *testing.T) {
	label, rest, ok := splitLeadingLabel("loop.1: addi x0, x0, 0")
	if !ok || label != "loop.1" {
		t.Fatalf("label = %q, ok = %v, want \"loop.1\", true", label, ok)
	}
	if rest != "addi x0, x0, 0" {
		t.Fatalf("rest = %q", rest)
	}
	if _, _, ok := splitLeadingLabel("addi x0, x0, 0"); ok {
		t.Fatal("expected no label detected")
	}
}

func TestSplitCommandRejectsWrongArityAndEmptyTokens(t *testing.T) {
	if _, err := splitCommand("a, b, c", 3); err != nil {
		t.Fatalf("splitCommand: %v", err)
	}
	if _, err := splitCommand("a, b", 3); err == nil {
		t.Fatal("expected an arity error")
	}
	if _, err := splitCommand("a, , c", 3); err == nil {
		t.Fatal("expected an empty-operand error")
	}
}

func TestParseMemOperand(t *testing.T) {
	imm, reg, err := parseMemOperand("-4(sp)")
	if err != nil || imm != "-4" || reg != "sp" {
		t.Fatalf("parseMemOperand = %q, %q, %v", imm, reg, err)
	}
}

func TestExtractStringLiteralEscapes(t *testing.T) {
	got, err := extractStringLiteral(`"hi\n\t\""`)
	if err != nil {
		t.Fatalf("extractStringLiteral: %v", err)
	}
	if got != "hi\n\t\"" {
		t.Fatalf("extractStringLiteral = %q", got)
	}
	if _, err := extractStringLiteral(`"unterminated`); err == nil {
		t.Fatal("expected an unterminated-string error")
	}
}

func TestParseImmExprPlainAndRelocated(t *testing.T) {
	imm, err := parseImmExpr("%hi(target)")
	if err != nil {
		t.Fatalf("parseImmExpr: %v", err)
	}
	if imm.Kind != obj.ImmRel || imm.RelOp != obj.HI || imm.RelOf.Sym != "target" {
		t.Fatalf("parseImmExpr(%%hi(target)) = %+v", imm)
	}

	sum, err := parseImmExpr("target+4")
	if err != nil {
		t.Fatalf("parseImmExpr: %v", err)
	}
	if sum.Kind != obj.ImmTree {
		t.Fatalf("parseImmExpr(target+4) = %+v, want a tree", sum)
	}
}

func assembleSource(t *testing.T, src string) *obj.ObjectFile {
	t.Helper()
	f, err := Assemble("t.s", strings.NewReader(src), console.New(nil))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return f
}

func TestAssembleFullProgram(t *testing.T) {
	src := `
.text
.globl main
main:
	li a0, 10
	la a1, msg
	addi a0, a0, 1
loop:
	beqz a0, done
	addi a0, a0, -1
	j loop
done:
	ret

.rodata
msg:
	.asciz "hi"
`
	f := assembleSource(t, src)
	if _, ok := f.Exported["main"]; !ok {
		t.Fatal("expected main to be exported")
	}
	if _, ok := f.Local["loop"]; !ok {
		t.Fatal("expected loop to be a local label")
	}
	text := f.Section(obj.Text)
	// li(2) + la(2) + addi(1) + beqz(1) + addi(1) + j(1) + ret(1) = 9
	if len(text.Items) != 9 {
		t.Fatalf("text has %d items, want 9", len(text.Items))
	}
	rodata := f.Section(obj.Rodata)
	if rodata.Size() != 3 { // "hi" + NUL
		t.Fatalf("rodata size = %d, want 3", rodata.Size())
	}
}

func TestAssembleRejectsUnknownMnemonic(t *testing.T) {
	_, err := Assemble("t.s", strings.NewReader("frobnicate x0, x0, x0\n"), console.New(nil))
	if err == nil {
		t.Fatal("expected a parse error for an unknown mnemonic")
	}
	if _, ok := err.(*obj.ParseError); !ok {
		t.Fatalf("err = %T, want *obj.ParseError", err)
	}
}

func TestAssembleRejectsContentAfterLabel(t *testing.T) {
	_, err := Assemble("t.s", strings.NewReader("foo: addi x0, x0, 0\n"), console.New(nil))
	if err == nil {
		t.Fatal("expected a parse error: labels must occupy their own line")
	}
}

func TestDirectivesByteHalfWordLittleEndian(t *testing.T) {
	src := ".data\n.word 0x01020304\n.half 0xABCD\n.byte 7\n"
	f := assembleSource(t, src)
	data := f.Section(obj.Data)
	if data.Size() != 7 {
		t.Fatalf("data size = %d, want 7", data.Size())
	}
	raw := data.Raw
	if raw[0] != 0x04 || raw[3] != 0x01 {
		t.Fatalf("word not little-endian: %x", raw[:4])
	}
	if raw[4] != 0xCD || raw[5] != 0xAB {
		t.Fatalf("half not little-endian: %x", raw[4:6])
	}
	if raw[6] != 7 {
		t.Fatalf("byte = %x, want 7", raw[6])
	}
}

func TestDirectiveZeroReserves(t *testing.T) {
	f := assembleSource(t, ".bss\nbuf:\n.zero 16\n")
	bss := f.Section(obj.Bss)
	if bss.Size() != 16 {
		t.Fatalf("bss size = %d, want 16", bss.Size())
	}
	sym, ok := f.Local["buf"]
	if !ok || sym.Offset != 0 {
		t.Fatalf("buf symbol = %+v, ok=%v", sym, ok)
	}
}

func TestDirectiveAlignRaisesSectionAlignment(t *testing.T) {
	f := assembleSource(t, ".data\n.byte 1\n.align 16\nv:\n.word 0\n")
	data := f.Section(obj.Data)
	if data.Alignment != 16 {
		t.Fatalf("Alignment = %d, want 16", data.Alignment)
	}
	if data.Size() != 20 {
		t.Fatalf("size = %d, want 20 (1 byte + 15 padding + 4-byte word)", data.Size())
	}
}

func TestDirectiveP2AlignRaisesSectionAlignment(t *testing.T) {
	f := assembleSource(t, ".data\n.byte 1\n.p2align 3\nv:\n.word 0\n")
	data := f.Section(obj.Data)
	if data.Alignment != 8 {
		t.Fatalf("Alignment = %d, want 8 (2^3)", data.Alignment)
	}
}
