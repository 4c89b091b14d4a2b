// Package assembler implements spec.md §4.1: the text-to-ObjectFile
// first stage of the pipeline. It is grounded on
// Gitphiyi-Phissembler/assembler/assembler.go's two-pass design, though
// this version resolves labels to offsets lazily (at link time) rather
// than in a dedicated first pass, since obj.Symbol already records a
// section-relative offset as soon as a label is seen.
package assembler

import (
	"bufio"
	"io"
	"strings"

	"github.com/dark-rv32i/sim/console"
	"github.com/dark-rv32i/sim/isa"
	"github.com/dark-rv32i/sim/obj"
)

type parser struct {
	file        string
	sink        *console.Sink
	obj         *obj.ObjectFile
	section     obj.SectionKind
	lineNo      int
	globalNames map[string]bool
}

// Assemble reads one assembly source file from r and produces its
// ObjectFile, per spec.md §4.1. name is used for diagnostics and
// becomes ObjectFile.Name.
func Assemble(name string, r io.Reader, sink *console.Sink) (*obj.ObjectFile, error) {
	p := &parser{
		file:        name,
		sink:        sink,
		obj:         obj.New(name),
		section:     obj.Text,
		globalNames: make(map[string]bool),
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.lineNo++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.obj, nil
}

func (p *parser) errf(format string, args ...any) error {
	return obj.NewParseError(p.file, p.lineNo, 0, format, args...)
}

func (p *parser) parseLine(raw string) error {
	line := stripComment(raw)
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	if label, rest, ok := splitLeadingLabel(trimmed); ok {
		if !obj.ValidLabelName(label) {
			return p.errf("invalid label name %q", label)
		}
		if rest != "" {
			return p.errf("unexpected content after label %q: %q", label, rest)
		}
		p.defineSymbol(label)
		return nil
	}

	if strings.HasPrefix(trimmed, ".") {
		return p.parseDirective(trimmed)
	}
	return p.parseInstruction(trimmed)
}

func (p *parser) defineSymbol(name string) {
	sym := &obj.Symbol{
		Name:    name,
		Section: p.section,
		Offset:  p.obj.Section(p.section).Size(),
		Vis:     obj.Local,
	}
	if p.globalNames[name] {
		sym.Vis = obj.Global
	}
	p.obj.DefineLabel(sym)
}

func (p *parser) markGlobal(name string) {
	p.globalNames[name] = true
	if sym, ok := p.obj.Local[name]; ok {
		delete(p.obj.Local, name)
		sym.Vis = obj.Global
		p.obj.Exported[name] = sym
	}
}

// parseInstruction dispatches mnemonic+operands: pseudo-ops expand to
// one or more canonical instructions (pseudo.go), everything else is
// looked up in isa.InstrTable and shaped per its Class.
func (p *parser) parseInstruction(stmt string) error {
	mnemonic, rest, _ := strings.Cut(stmt, " ")
	rest = strings.TrimSpace(rest)
	mnemonic = strings.ToLower(mnemonic)

	if isa.PseudoMnemonics[mnemonic] {
		return p.expandPseudo(mnemonic, rest)
	}

	desc, ok := isa.InstrTable[mnemonic]
	if !ok {
		return p.errf("unknown mnemonic %q", mnemonic)
	}
	insn, err := p.buildInstruction(mnemonic, desc, rest)
	if err != nil {
		return p.errf("%s: %v", mnemonic, err)
	}
	p.emit(insn)
	return nil
}

// emit appends insn to the current section.
func (p *parser) emit(insn *obj.Instruction) {
	p.obj.Section(p.section).AppendInstruction(insn)
}

func (p *parser) reg(tok string) (uint8, error) {
	n, ok := isa.RegByName[strings.ToLower(strings.TrimSpace(tok))]
	if !ok {
		return 0, &parseOperandError{"unknown register " + tok}
	}
	return n, nil
}

type parseOperandError struct{ msg string }

func (e *parseOperandError) Error() string { return e.msg }

// buildInstruction shapes the operand string for desc.Class into a
// fully-formed (but possibly still symbol-unresolved) Instruction.
func (p *parser) buildInstruction(mnemonic string, desc isa.Desc, rest string) (*obj.Instruction, error) {
	base := &obj.Instruction{Mnemonic: mnemonic, Class: desc.Class, Opcode: desc.Opcode, Funct3: desc.Funct3, Funct7: desc.Funct7}

	switch desc.Class {
	case isa.ClassR:
		ops, err := splitCommand(rest, 3)
		if err != nil {
			return nil, err
		}
		if base.Rd, err = p.reg(ops[0]); err != nil {
			return nil, err
		}
		if base.Rs1, err = p.reg(ops[1]); err != nil {
			return nil, err
		}
		if base.Rs2, err = p.reg(ops[2]); err != nil {
			return nil, err
		}
		return base, nil

	case isa.ClassI:
		if mnemonic == "ecall" || mnemonic == "ebreak" {
			if _, err := splitCommand(rest, 0); err != nil {
				return nil, err
			}
			base.Imm = obj.Int32(0)
			if mnemonic == "ebreak" {
				base.Imm = obj.Int32(1)
			}
			return base, nil
		}
		ops, err := splitCommand(rest, 3)
		if err != nil {
			return nil, err
		}
		if base.Rd, err = p.reg(ops[0]); err != nil {
			return nil, err
		}
		if base.Rs1, err = p.reg(ops[1]); err != nil {
			return nil, err
		}
		if isa.IsShiftImmediate(mnemonic) {
			v, err := parseIntLiteral(ops[2])
			if err != nil {
				return nil, err
			}
			base.Imm = buildShiftImm(mnemonic, int32(v))
			return base, nil
		}
		imm, err := parseImmExpr(ops[2])
		if err != nil {
			return nil, err
		}
		base.Imm = imm
		return base, nil

	case isa.ClassL:
		ops, err := splitCommand(rest, 2)
		if err != nil {
			return nil, err
		}
		if base.Rd, err = p.reg(ops[0]); err != nil {
			return nil, err
		}
		immTok, regTok, err := parseMemOperand(ops[1])
		if err != nil {
			return nil, err
		}
		if base.Rs1, err = p.reg(regTok); err != nil {
			return nil, err
		}
		if base.Imm, err = parseImmExpr(immTok); err != nil {
			return nil, err
		}
		return base, nil

	case isa.ClassS:
		ops, err := splitCommand(rest, 2)
		if err != nil {
			return nil, err
		}
		if base.Rs2, err = p.reg(ops[0]); err != nil {
			return nil, err
		}
		immTok, regTok, err := parseMemOperand(ops[1])
		if err != nil {
			return nil, err
		}
		if base.Rs1, err = p.reg(regTok); err != nil {
			return nil, err
		}
		if base.Imm, err = parseImmExpr(immTok); err != nil {
			return nil, err
		}
		return base, nil

	case isa.ClassB:
		ops, err := splitCommand(rest, 3)
		if err != nil {
			return nil, err
		}
		if base.Rs1, err = p.reg(ops[0]); err != nil {
			return nil, err
		}
		if base.Rs2, err = p.reg(ops[1]); err != nil {
			return nil, err
		}
		if base.Imm, err = parseImmExpr(ops[2]); err != nil {
			return nil, err
		}
		return base, nil

	case isa.ClassJAL:
		ops, err := splitCommand(rest, 2)
		if err != nil {
			return nil, err
		}
		if base.Rd, err = p.reg(ops[0]); err != nil {
			return nil, err
		}
		if base.Imm, err = parseImmExpr(ops[1]); err != nil {
			return nil, err
		}
		return base, nil

	case isa.ClassJALR:
		ops, err := splitCommand(rest, 2)
		if err == nil {
			var regTok, immTok string
			if base.Rd, err = p.reg(ops[0]); err != nil {
				return nil, err
			}
			immTok, regTok, err = parseMemOperand(ops[1])
			if err != nil {
				return nil, err
			}
			if base.Rs1, err = p.reg(regTok); err != nil {
				return nil, err
			}
			if base.Imm, err = parseImmExpr(immTok); err != nil {
				return nil, err
			}
			return base, nil
		}
		ops, err = splitCommand(rest, 3)
		if err != nil {
			return nil, err
		}
		if base.Rd, err = p.reg(ops[0]); err != nil {
			return nil, err
		}
		if base.Rs1, err = p.reg(ops[1]); err != nil {
			return nil, err
		}
		if base.Imm, err = parseImmExpr(ops[2]); err != nil {
			return nil, err
		}
		return base, nil

	case isa.ClassLUI, isa.ClassAUIPC:
		ops, err := splitCommand(rest, 2)
		if err != nil {
			return nil, err
		}
		if base.Rd, err = p.reg(ops[0]); err != nil {
			return nil, err
		}
		if base.Imm, err = parseImmExpr(ops[1]); err != nil {
			return nil, err
		}
		return base, nil
	}

	return nil, &parseOperandError{"unhandled instruction class"}
}

// buildShiftImm folds a literal shift amount and the SRAI arithmetic
// bit into a single 12-bit I-type immediate, per isa.ShiftArithmeticFunct7.
func buildShiftImm(mnemonic string, raw int32) *obj.Immediate {
	v := uint32(raw) & 0x1F
	if mnemonic == "srai" {
		v |= isa.ShiftArithmeticFunct7 << 5
	}
	return obj.Int32(int32(v))
}
