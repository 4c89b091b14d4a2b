package interpreter

// RegisterFile holds the 32 general registers, the program counter, and
// the generation counter that bounds execution via advance(), per
// spec.md §3/§4.3.
type RegisterFile struct {
	regs   [32]uint32
	pc     uint32
	gen    uint64
	halted bool
}

// NewRegisterFile returns a register file with PC set to the entry
// address (typically position_of("main")).
func NewRegisterFile(pc uint32) *RegisterFile {
	return &RegisterFile{pc: pc}
}

// Read returns register i; x0 always reads zero.
func (r *RegisterFile) Read(i uint8) uint32 {
	if i == 0 {
		return 0
	}
	return r.regs[i]
}

// Write sets register i; writes to x0 are silently discarded.
func (r *RegisterFile) Write(i uint8, v uint32) {
	if i != 0 {
		r.regs[i] = v
	}
}

// PC returns the program counter.
func (r *RegisterFile) PC() uint32 { return r.pc }

// SetPC sets the program counter.
func (r *RegisterFile) SetPC(pc uint32) { r.pc = pc }

// Halt marks the register file halted; the next advance() call (and
// every one after) returns false. Used by the exit syscall.
func (r *RegisterFile) Halt() { r.halted = true }

// Halted reports whether Halt has been called.
func (r *RegisterFile) Halted() bool { return r.halted }

// advance increments the generation counter and reports whether
// execution should continue, per spec.md §4.3's top-level loop.
func (r *RegisterFile) advance() bool {
	if r.halted {
		return false
	}
	r.gen++
	return true
}

// Generation returns how many times advance() has returned true. A run
// that ends in a timeout has called it once more than it retired.
func (r *RegisterFile) Generation() uint64 { return r.gen }
