// Package linker implements spec.md §4.2: merging one or more
// ObjectFiles into a single LinkedImage, laying sections out in the
// canonical text<data<rodata<bss order, and resolving every
// instruction's Immediate to a final 32-bit value. Grounded on
// Gitphiyi-Phissembler/assembler/assembler.go's SecondPass address
// patching and, for the merged-symbol-table shape, on
// other_examples/unicornx-rvld's Context/Symbol design.
package linker

import (
	"github.com/dark-rv32i/sim/obj"
)

// fileLayout records, per input ObjectFile, the merged-section-relative
// offset its own four sections were placed at.
type fileLayout struct {
	offsets [4]int
}

// Link merges files in the given order, lays out the four sections,
// and resolves every instruction's immediate. main must be a defined
// global symbol; its absence is a fatal MissingMain LinkError.
func Link(files []*obj.ObjectFile) (*obj.LinkedImage, error) {
	img, owners, layouts, err := merge(files)
	if err != nil {
		return nil, err
	}
	if err := layout(img); err != nil {
		return nil, err
	}
	for name, sym := range img.Symbols {
		img.Position[name] = img.Section(sym.Section).Base + uint32(sym.Offset)
	}
	if _, ok := img.Position["main"]; !ok {
		return nil, obj.NewLinkError(obj.MissingMain, "no global symbol \"main\"")
	}
	if err := resolveAll(img, owners, layouts); err != nil {
		return nil, err
	}
	return img, nil
}

// merge concatenates each file's sections, in input order, into img,
// and builds the single global symbol table, rejecting duplicate
// globals.
func merge(files []*obj.ObjectFile) (*obj.LinkedImage, map[*obj.Instruction]*obj.ObjectFile, map[*obj.ObjectFile]*fileLayout, error) {
	img := &obj.LinkedImage{Symbols: make(map[string]*obj.Symbol), Position: make(map[string]uint32)}
	for k := obj.Text; k <= obj.Bss; k++ {
		img.Sections[k] = obj.NewSection(k)
	}

	owners := make(map[*obj.Instruction]*obj.ObjectFile)
	layouts := make(map[*obj.ObjectFile]*fileLayout)

	for _, f := range files {
		fl := &fileLayout{}
		for k := obj.Text; k <= obj.Bss; k++ {
			src := f.Section(k)
			for _, item := range src.Items {
				if item.Insn != nil {
					owners[item.Insn] = f
				}
			}
			fl.offsets[k] = img.Section(k).MergeFrom(src)
		}
		layouts[f] = fl

		for name, sym := range f.Exported {
			if _, dup := img.Symbols[name]; dup {
				return nil, nil, nil, obj.NewLinkError(obj.DuplicateGlobalSymbol, "%q exported by more than one file", name)
			}
			img.Symbols[name] = &obj.Symbol{
				Name:    name,
				Section: sym.Section,
				Offset:  sym.Offset + fl.offsets[sym.Section],
				Vis:     obj.Global,
			}
		}
	}
	return img, owners, layouts, nil
}

// layout assigns each section a base address in canonical order,
// rounding up to each section's accumulated alignment requirement.
func layout(img *obj.LinkedImage) error {
	var base uint64
	for k := obj.Text; k <= obj.Bss; k++ {
		sec := img.Section(k)
		if sec.Alignment > 1 {
			if rem := base % uint64(sec.Alignment); rem != 0 {
				base += uint64(sec.Alignment) - rem
			}
		}
		if base > 0xFFFFFFFF {
			return obj.NewLinkError(obj.SectionOverlap, "section %s base %#x exceeds the 32-bit address space", sec.Kind, base)
		}
		sec.Base = uint32(base)
		base += uint64(sec.Size())
	}
	if base > 0xFFFFFFFF {
		return obj.NewLinkError(obj.SectionOverlap, "image size %#x exceeds the 32-bit address space", base)
	}
	return nil
}
