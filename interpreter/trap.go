package interpreter

import "fmt"

// TrapKind enumerates the fatal interpreter conditions of spec.md §7.3.
type TrapKind uint8

const (
	LoadMisAligned TrapKind = iota
	LoadOutOfBound
	StoreMisAligned
	StoreOutOfBound
	InsMisAligned
	InsOutOfBound
	InsUnknown
	LibcMisAligned
	LibcOutOfBound
	LibcError
	DivideByZero
	NotImplemented
)

func (k TrapKind) String() string {
	switch k {
	case LoadMisAligned:
		return "LoadMisAligned"
	case LoadOutOfBound:
		return "LoadOutOfBound"
	case StoreMisAligned:
		return "StoreMisAligned"
	case StoreOutOfBound:
		return "StoreOutOfBound"
	case InsMisAligned:
		return "InsMisAligned"
	case InsOutOfBound:
		return "InsOutOfBound"
	case InsUnknown:
		return "InsUnknown"
	case LibcMisAligned:
		return "LibcMisAligned"
	case LibcOutOfBound:
		return "LibcOutOfBound"
	case LibcError:
		return "LibcError"
	case DivideByZero:
		return "DivideByZero"
	case NotImplemented:
		return "NotImplemented"
	default:
		return "UnknownTrap"
	}
}

// Trap is FailToInterpret from spec.md §7.3: a fatal interpreter
// condition carrying an address and whichever of {word, alignment,
// size, message} applies to its kind.
type Trap struct {
	Kind    TrapKind
	Addr    uint32
	Word    uint32 // InsUnknown: the undecodable command word
	Align   uint32 // *MisAligned: the required alignment
	Size    uint32 // *OutOfBound: the access width
	Message string
}

func (t *Trap) Error() string {
	switch t.Kind {
	case InsUnknown:
		return fmt.Sprintf("%s: word %#08x at %#08x", t.Kind, t.Word, t.Addr)
	case LoadMisAligned, StoreMisAligned, InsMisAligned, LibcMisAligned:
		return fmt.Sprintf("%s: address %#08x not %d-aligned", t.Kind, t.Addr, t.Align)
	case LoadOutOfBound, StoreOutOfBound, InsOutOfBound, LibcOutOfBound:
		return fmt.Sprintf("%s: access [%#08x, %#08x) unmapped", t.Kind, t.Addr, t.Addr+t.Size)
	case LibcError:
		return fmt.Sprintf("%s: %s", t.Kind, t.Message)
	default:
		return t.Kind.String()
	}
}
