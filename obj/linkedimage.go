package obj

// LinkedImage is the linker's output, per spec.md §3: the four sections
// with final base addresses and fully-resolved contents, a single
// global symbol table, and a position_table exposing at least "main".
type LinkedImage struct {
	Sections [4]*Section

	Symbols  map[string]*Symbol
	Position map[string]uint32 // absolute addresses, keyed by symbol name
}

// Section returns the final section for kind.
func (img *LinkedImage) Section(kind SectionKind) *Section { return img.Sections[kind] }

// MainAddr returns the absolute address of "main". Callers should have
// already rejected a LinkedImage missing it (spec.md §4.2: "its
// absence is fatal").
func (img *LinkedImage) MainAddr() uint32 { return img.Position["main"] }
