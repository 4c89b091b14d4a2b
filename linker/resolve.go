package linker

import (
	"github.com/dark-rv32i/sim/isa"
	"github.com/dark-rv32i/sim/obj"
)

// resolveAll assigns every instruction its final address, evaluates its
// immediate, and patches the encoded word back into its section's raw
// bytes, per spec.md §4.2's "symbol resolution and immediate
// evaluation" phase.
func resolveAll(img *obj.LinkedImage, owners map[*obj.Instruction]*obj.ObjectFile, layouts map[*obj.ObjectFile]*fileLayout) error {
	for k := obj.Text; k <= obj.Bss; k++ {
		sec := img.Section(k)
		for _, item := range sec.Items {
			if item.Insn != nil {
				item.Insn.Pos = sec.Base + uint32(item.Offset)
			}
		}
	}

	for k := obj.Text; k <= obj.Bss; k++ {
		sec := img.Section(k)
		for _, item := range sec.Items {
			insn := item.Insn
			if insn == nil {
				continue
			}
			owner := owners[insn]
			var v int64
			if insn.Imm != nil { // R-type instructions carry no immediate
				var err error
				v, err = evaluate(insn.Imm, insn.Pos, owner, layouts, img)
				if err != nil {
					return err
				}
			}
			switch insn.Class {
			case isa.ClassB, isa.ClassJAL:
				v -= int64(insn.Pos)
			}
			word := insn.Encode(int32(v))
			if sec.Kind != obj.Bss {
				sec.Raw[item.Offset+0] = byte(word)
				sec.Raw[item.Offset+1] = byte(word >> 8)
				sec.Raw[item.Offset+2] = byte(word >> 16)
				sec.Raw[item.Offset+3] = byte(word >> 24)
			}
		}
	}
	return nil
}

// evaluate computes an Immediate's value per spec.md §4.2's recursive
// rules: Int returns its literal, Sym resolves through the owning
// file's locals then the merged global table, Rel applies one of the
// four relocation formulas (including the mandatory +0x800 HI/PCREL_HI
// rounding bias), and Tree folds its elements left to right.
func evaluate(imm *obj.Immediate, position uint32, file *obj.ObjectFile, layouts map[*obj.ObjectFile]*fileLayout, img *obj.LinkedImage) (int64, error) {
	switch imm.Kind {
	case obj.ImmInt:
		return int64(imm.Int), nil

	case obj.ImmSym:
		return resolveSymbol(imm.Sym, file, layouts, img)

	case obj.ImmRel:
		inner, err := evaluate(imm.RelOf, position, file, layouts, img)
		if err != nil {
			return 0, err
		}
		switch imm.RelOp {
		case obj.HI:
			return (inner + 0x800) >> 12, nil
		case obj.LO:
			return signExtend12(inner), nil
		case obj.PCRelHI:
			diff := inner - int64(position)
			return (diff + 0x800) >> 12, nil
		case obj.PCRelLO:
			if imm.PCRelAt == nil {
				return 0, obj.NewLinkError(obj.UnresolvedPCRelPair, "%%pcrel_lo with no matching %%pcrel_hi")
			}
			diff := inner - int64(imm.PCRelAt.Pos)
			return signExtend12(diff), nil
		}
		return 0, obj.NewLinkError(obj.UnresolvedPCRelPair, "unknown relocation operator")

	case obj.ImmTree:
		var acc int64
		for i, elem := range imm.Tree {
			if elem.Op == obj.End {
				break
			}
			v, err := evaluate(elem.Value, position, file, layouts, img)
			if err != nil {
				return 0, err
			}
			op := elem.Op
			if i == 0 {
				op = obj.Add
			}
			if op == obj.Sub {
				acc -= v
			} else {
				acc += v
			}
		}
		return acc, nil
	}
	return 0, obj.NewLinkError(obj.UnknownSymbol, "malformed immediate")
}

func resolveSymbol(name string, file *obj.ObjectFile, layouts map[*obj.ObjectFile]*fileLayout, img *obj.LinkedImage) (int64, error) {
	if file != nil {
		if sym, ok := file.Local[name]; ok {
			base := img.Section(sym.Section).Base
			fileOffset := layouts[file].offsets[sym.Section]
			return int64(base) + int64(fileOffset) + int64(sym.Offset), nil
		}
	}
	if addr, ok := img.Position[name]; ok {
		return int64(addr), nil
	}
	return 0, obj.NewLinkError(obj.UnknownSymbol, "%q", name)
}

// signExtend12 sign-extends the low 12 bits of v.
func signExtend12(v int64) int64 {
	x := uint32(v) & 0xFFF
	if x&0x800 != 0 {
		x |= 0xFFFFF000
	}
	return int64(int32(x))
}
