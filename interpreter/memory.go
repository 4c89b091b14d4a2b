package interpreter

import (
	"encoding/binary"

	"github.com/dark-rv32i/sim/obj"
)

// Memory is the interpreter's flat address space, built from a
// LinkedImage's four sections per spec.md §4.3. Unlike obj.Section
// (whose bss storage is conceptually empty, since reads-as-zero needs
// no backing bytes at link time), Memory allocates a real zeroed
// backing buffer for bss so that writes persist across the run.
type Memory struct {
	bases [4]uint32
	sizes [4]uint32
	buf   [4][]byte

	brk uint32 // current program break, grown into bss by the brk/sbrk syscalls
}

// NewMemory copies text/data/rodata out of img (so the interpreter's
// working set is independent of the LinkedImage) and allocates a fresh
// zeroed buffer for bss.
func NewMemory(img *obj.LinkedImage) *Memory {
	m := &Memory{}
	for k := obj.Text; k <= obj.Bss; k++ {
		sec := img.Section(k)
		m.bases[k] = sec.Base
		m.sizes[k] = uint32(sec.Size())
		if k == obj.Bss {
			m.buf[k] = make([]byte, sec.Size())
		} else {
			m.buf[k] = append([]byte(nil), sec.Raw...)
		}
	}
	m.brk = m.bases[obj.Bss] + m.sizes[obj.Bss]
	return m
}

// Break returns the current program break.
func (m *Memory) Break() uint32 { return m.brk }

// SetBreak implements the brk(addr) syscall: moves the break to addr,
// growing bss's backing buffer if it advances past the current end.
func (m *Memory) SetBreak(addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, &Trap{Kind: LibcMisAligned, Addr: addr, Align: 4}
	}
	if addr < m.bases[obj.Bss] {
		return 0, &Trap{Kind: LibcError, Addr: addr, Message: "brk below the bss segment"}
	}
	m.growBssTo(addr)
	m.brk = addr
	return m.brk, nil
}

// GrowBreak implements the sbrk(delta) syscall and returns the break's
// previous value, per the libc convention.
func (m *Memory) GrowBreak(delta int32) (uint32, error) {
	old := m.brk
	next := uint32(int64(int32(old)) + int64(delta))
	if next < m.bases[obj.Bss] {
		return 0, &Trap{Kind: LibcError, Addr: next, Message: "sbrk below the bss segment"}
	}
	m.growBssTo(next)
	m.brk = next
	return old, nil
}

func (m *Memory) growBssTo(addr uint32) {
	need := addr - m.bases[obj.Bss]
	if need > m.sizes[obj.Bss] {
		extra := need - m.sizes[obj.Bss]
		m.buf[obj.Bss] = append(m.buf[obj.Bss], make([]byte, extra)...)
		m.sizes[obj.Bss] = need
	}
}

func (m *Memory) find(addr uint32) (obj.SectionKind, bool) {
	for k := obj.Text; k <= obj.Bss; k++ {
		if addr >= m.bases[k] && addr < m.bases[k]+m.sizes[k] {
			return k, true
		}
	}
	return 0, false
}

func (m *Memory) loadBytes(addr, width uint32, alignTrap, oobTrap TrapKind) ([]byte, error) {
	if width > 1 && addr%width != 0 {
		return nil, &Trap{Kind: alignTrap, Addr: addr, Align: width}
	}
	k, ok := m.find(addr)
	if !ok || addr+width > m.bases[k]+m.sizes[k] || addr+width < addr {
		return nil, &Trap{Kind: oobTrap, Addr: addr, Size: width}
	}
	off := addr - m.bases[k]
	return m.buf[k][off : off+width], nil
}

// LoadI8 reads a sign-extended byte.
func (m *Memory) LoadI8(addr uint32) (int32, error) {
	b, err := m.loadBytes(addr, 1, LoadMisAligned, LoadOutOfBound)
	if err != nil {
		return 0, err
	}
	return int32(int8(b[0])), nil
}

// LoadU8 reads a zero-extended byte.
func (m *Memory) LoadU8(addr uint32) (uint32, error) {
	b, err := m.loadBytes(addr, 1, LoadMisAligned, LoadOutOfBound)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]), nil
}

// LoadI16 reads a sign-extended halfword.
func (m *Memory) LoadI16(addr uint32) (int32, error) {
	b, err := m.loadBytes(addr, 2, LoadMisAligned, LoadOutOfBound)
	if err != nil {
		return 0, err
	}
	return int32(int16(binary.LittleEndian.Uint16(b))), nil
}

// LoadU16 reads a zero-extended halfword.
func (m *Memory) LoadU16(addr uint32) (uint32, error) {
	b, err := m.loadBytes(addr, 2, LoadMisAligned, LoadOutOfBound)
	if err != nil {
		return 0, err
	}
	return uint32(binary.LittleEndian.Uint16(b)), nil
}

// LoadI32 reads a word (sign-extension is a no-op at 32 bits; kept for
// symmetry with the {i,u}{8,16,32} naming of spec.md §4.3).
func (m *Memory) LoadI32(addr uint32) (int32, error) {
	b, err := m.loadBytes(addr, 4, LoadMisAligned, LoadOutOfBound)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// LoadU32 reads a word as unsigned.
func (m *Memory) LoadU32(addr uint32) (uint32, error) {
	v, err := m.LoadI32(addr)
	return uint32(v), err
}

// LoadCmd fetches a 32-bit instruction word from text, per spec.md
// §4.3's load_cmd.
func (m *Memory) LoadCmd(addr uint32) (uint32, error) {
	b, err := m.loadBytes(addr, 4, InsMisAligned, InsOutOfBound)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (m *Memory) storeBytes(addr, width uint32, data []byte) error {
	if width > 1 && addr%width != 0 {
		return &Trap{Kind: StoreMisAligned, Addr: addr, Align: width}
	}
	k, ok := m.find(addr)
	if !ok || addr+width > m.bases[k]+m.sizes[k] || addr+width < addr {
		return &Trap{Kind: StoreOutOfBound, Addr: addr, Size: width}
	}
	if k == obj.Text || k == obj.Rodata {
		return &Trap{Kind: StoreOutOfBound, Addr: addr, Size: width}
	}
	off := addr - m.bases[k]
	copy(m.buf[k][off:off+width], data)
	return nil
}

// StoreI8 stores the low byte of v.
func (m *Memory) StoreI8(addr uint32, v int32) error {
	return m.storeBytes(addr, 1, []byte{byte(v)})
}

// StoreI16 stores the low halfword of v, little-endian.
func (m *Memory) StoreI16(addr uint32, v int32) error {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return m.storeBytes(addr, 2, b)
}

// StoreI32 stores v, little-endian.
func (m *Memory) StoreI32(addr uint32, v int32) error {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return m.storeBytes(addr, 4, b)
}

// ReadBytes copies n bytes starting at addr, for the read/write libc
// syscalls (libc.go), performing the same range check as the typed
// loads but without an alignment requirement.
func (m *Memory) ReadBytes(addr uint32, n uint32) ([]byte, error) {
	k, ok := m.find(addr)
	if !ok || addr+n > m.bases[k]+m.sizes[k] || addr+n < addr {
		return nil, &Trap{Kind: LibcOutOfBound, Addr: addr, Size: n}
	}
	off := addr - m.bases[k]
	out := make([]byte, n)
	copy(out, m.buf[k][off:off+n])
	return out, nil
}

// WriteBytes copies data into memory starting at addr.
func (m *Memory) WriteBytes(addr uint32, data []byte) error {
	k, ok := m.find(addr)
	n := uint32(len(data))
	if !ok || addr+n > m.bases[k]+m.sizes[k] || addr+n < addr {
		return &Trap{Kind: LibcOutOfBound, Addr: addr, Size: n}
	}
	if k == obj.Text || k == obj.Rodata {
		return &Trap{Kind: LibcOutOfBound, Addr: addr, Size: n}
	}
	off := addr - m.bases[k]
	copy(m.buf[k][off:off+n], data)
	return nil
}
