package obj

// ObjectFile is the assembler's output for a single input file, per
// spec.md §3: four sections (possibly empty) and two symbol tables.
// All immediates inside its instructions may still be unresolved.
type ObjectFile struct {
	Name string

	Sections [4]*Section // indexed by SectionKind

	// Local holds symbols scoped to this file only (any label never
	// marked .globl); Exported holds symbols visible to
	// other object files once linked.
	Local    map[string]*Symbol
	Exported map[string]*Symbol
}

// New creates an empty object file with all four sections initialized.
func New(name string) *ObjectFile {
	f := &ObjectFile{
		Name:     name,
		Local:    make(map[string]*Symbol),
		Exported: make(map[string]*Symbol),
	}
	for k := Text; k <= Bss; k++ {
		f.Sections[k] = NewSection(k)
	}
	return f
}

// Section returns the section for kind.
func (f *ObjectFile) Section(kind SectionKind) *Section { return f.Sections[kind] }

// Symbol looks up name in Local then Exported, matching the visibility
// search order the linker's own resolution uses for same-file lookups.
func (f *ObjectFile) Symbol(name string) (*Symbol, bool) {
	if s, ok := f.Local[name]; ok {
		return s, true
	}
	if s, ok := f.Exported[name]; ok {
		return s, true
	}
	return nil, false
}

// DefineLabel records sym as defined in this file, in Exported if it is
// global and in Local otherwise. An earlier entry of the same name in
// that table is replaced.
func (f *ObjectFile) DefineLabel(sym *Symbol) {
	if sym.Vis == Global {
		f.Exported[sym.Name] = sym
	} else {
		f.Local[sym.Name] = sym
	}
}
