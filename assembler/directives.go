package assembler

import (
	"encoding/binary"
	"strings"

	"github.com/dark-rv32i/sim/obj"
)

// parseDirective handles one ".xxx" statement against the parser's
// current section/symbol state, per spec.md §4.1's directive list.
func (p *parser) parseDirective(stmt string) error {
	name, rest, _ := strings.Cut(stmt, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case ".text", ".data", ".rodata", ".bss":
		kind, _ := obj.SectionKindByName(name)
		p.section = kind
		return nil

	case ".globl", ".global":
		if rest == "" {
			return p.errf("missing symbol name for %s", name)
		}
		p.markGlobal(rest)
		return nil

	case ".align", ".p2align":
		n, err := parseIntLiteral(rest)
		if err != nil {
			return p.errf("bad alignment %q: %v", rest, err)
		}
		align := n
		if name == ".p2align" {
			align = 1 << uint(n)
		}
		sec := p.obj.Section(p.section)
		sec.AlignTo(int(align))
		if int(align) > sec.Alignment {
			sec.Alignment = int(align)
		}
		return nil

	case ".byte":
		return p.emitInts(rest, 1)
	case ".half":
		return p.emitInts(rest, 2)
	case ".word":
		return p.emitInts(rest, 4)

	case ".asciz", ".string":
		s, err := extractStringLiteral(stmt)
		if err != nil {
			return p.errf("%v", err)
		}
		data := append([]byte(s), 0)
		p.obj.Section(p.section).AppendData(data)
		return nil

	case ".zero", ".space":
		n, err := parseIntLiteral(rest)
		if err != nil {
			return p.errf("bad length %q: %v", rest, err)
		}
		p.obj.Section(p.section).Reserve(int(n))
		return nil

	default:
		return p.errf("unknown assembler directive %q", name)
	}
}

// emitInts parses a comma-separated list of integer literals and
// appends each as a width-byte little-endian chunk.
func (p *parser) emitInts(rest string, width int) error {
	if rest == "" {
		return p.errf("expected at least one value")
	}
	for _, tok := range strings.Split(rest, ",") {
		tok = strings.TrimSpace(tok)
		v, err := parseIntLiteral(tok)
		if err != nil {
			return p.errf("bad integer literal %q: %v", tok, err)
		}
		buf := make([]byte, width)
		switch width {
		case 1:
			buf[0] = byte(v)
		case 2:
			binary.LittleEndian.PutUint16(buf, uint16(v))
		case 4:
			binary.LittleEndian.PutUint32(buf, uint32(v))
		}
		p.obj.Section(p.section).AppendData(buf)
	}
	return nil
}
