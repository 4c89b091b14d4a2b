package obj

import "fmt"

// RelOp identifies one of the four relocation operators that may wrap an
// inner immediate, per spec.md §3.
type RelOp uint8

const (
	HI RelOp = iota
	LO
	PCRelHI
	PCRelLO
)

func (op RelOp) String() string {
	switch op {
	case HI:
		return "HI"
	case LO:
		return "LO"
	case PCRelHI:
		return "PCREL_HI"
	case PCRelLO:
		return "PCREL_LO"
	default:
		return "?"
	}
}

// TreeOp is the fold operator preceding one element of a Tree immediate.
type TreeOp uint8

const (
	Add TreeOp = iota
	Sub
	End
)

// TreeElem is one (operator, operand) pair in a Tree immediate's flat
// left fold. The first element's Op is always implicitly Add on
// evaluation regardless of what is stored here; the last element's Op
// must be End per spec.md §3's invariant.
type TreeElem struct {
	Op    TreeOp
	Value *Immediate
}

// Immediate is the tagged variant of spec.md §3: exactly one of the four
// kinds below is populated, selected by Kind.
type Immediate struct {
	Kind immKind

	Int int32  // ImmInt
	Sym string // ImmSym

	RelOp   RelOp        // ImmRel
	RelOf   *Immediate   // ImmRel
	PCRelAt *Instruction // ImmRel, PCRelLO only: direct back-reference to the
	// paired PCREL_HI instruction (typically an AUIPC), whose Pos the
	// linker uses as `position` when evaluating this PCREL_LO, instead of
	// requiring an auxiliary ".Lpcrel_hi" label. Resolves spec.md §9's
	// open question about PCREL_LO -> PCREL_HI linkage; see SPEC_FULL.md §7.

	Tree []TreeElem // ImmTree
}

type immKind uint8

const (
	ImmInt immKind = iota
	ImmSym
	ImmRel
	ImmTree
)

// Int32 builds a literal immediate.
func Int32(v int32) *Immediate { return &Immediate{Kind: ImmInt, Int: v} }

// SymRef builds an unresolved symbol-reference immediate.
func SymRef(name string) *Immediate { return &Immediate{Kind: ImmSym, Sym: name} }

// Relocate wraps inner with a relocation operator.
func Relocate(op RelOp, inner *Immediate) *Immediate {
	return &Immediate{Kind: ImmRel, RelOp: op, RelOf: inner}
}

// RelocatePCLo wraps inner with PCRelLO and records its paired PCREL_HI
// instruction directly, instead of requiring an auxiliary ".Lpcrel_hi"
// label (see SPEC_FULL.md §7).
func RelocatePCLo(inner *Immediate, hiInsn *Instruction) *Immediate {
	imm := Relocate(PCRelLO, inner)
	imm.PCRelAt = hiInsn
	return imm
}

// NewTree builds a Tree immediate from a left-to-right list of
// (operator, operand) pairs. The first operator is always treated as
// Add on evaluation; End is appended automatically.
func NewTree(elems ...TreeElem) *Immediate {
	full := make([]TreeElem, len(elems)+1)
	copy(full, elems)
	full[len(elems)] = TreeElem{Op: End}
	return &Immediate{Kind: ImmTree, Tree: full}
}

func (im *Immediate) String() string {
	switch im.Kind {
	case ImmInt:
		return fmt.Sprintf("%d", im.Int)
	case ImmSym:
		return im.Sym
	case ImmRel:
		return fmt.Sprintf("%%%s(%s)", im.RelOp, im.RelOf)
	case ImmTree:
		return "tree(...)"
	default:
		return "<invalid immediate>"
	}
}
