package obj

import "fmt"

// ParseError is the assembler's fatal error kind, per spec.md §7.1. It
// carries file/line context where available, mirroring the
// line/character position tracking of
// danielcbailey-RISC-V-Emulator's Diagnostic/TextPosition types.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		if e.Column > 0 {
			return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
		}
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// NewParseError builds a ParseError at a given line (columns are
// optional; pass 0 when the offending token's column isn't tracked).
func NewParseError(file string, line, col int, format string, args ...any) *ParseError {
	return &ParseError{File: file, Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

// LinkErrorKind enumerates the fatal link-time conditions of spec.md §4.2/§7.2.
type LinkErrorKind uint8

const (
	DuplicateGlobalSymbol LinkErrorKind = iota
	UnknownSymbol
	SectionOverlap
	MissingMain
	UnresolvedPCRelPair
)

func (k LinkErrorKind) String() string {
	switch k {
	case DuplicateGlobalSymbol:
		return "duplicate global symbol"
	case UnknownSymbol:
		return "unknown symbol"
	case SectionOverlap:
		return "section overlap"
	case MissingMain:
		return "missing main"
	case UnresolvedPCRelPair:
		return "unresolved PC-relative pair"
	default:
		return "link error"
	}
}

// LinkError is the linker's fatal error kind, per spec.md §7.2. The
// spec calls these "reported via panic"; we model them as a typed
// error returned at the Link() boundary, which main.go prints before
// exiting non-zero, and which keeps Link testable without recover().
type LinkError struct {
	Kind    LinkErrorKind
	Detail  string
}

func (e *LinkError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// NewLinkError builds a LinkError of the given kind with a formatted detail.
func NewLinkError(kind LinkErrorKind, format string, args ...any) *LinkError {
	return &LinkError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
