package interpreter

import (
	"fmt"
	"io"
)

// Syscall numbers recognized by ECALL, per spec.md §6. read/write/exit/
// brk match the real RISC-V Linux ABI; sbrk has no Linux syscall number
// of its own (glibc implements it atop brk) so it is assigned a
// simulator-private number, documented in DESIGN.md.
const (
	sysRead  = 63
	sysWrite = 64
	sysExit  = 93
	sysBrk   = 214
	sysSbrk  = 9000
)

const (
	regA0 = 10
	regA1 = 11
	regA2 = 12
	regA7 = 17
)

// execSystem handles one ECALL/EBREAK. EBREAK (imm==1) is a no-op in
// this simulator, since there is no attached debugger to trap into;
// ECALL (imm==0) dispatches to the libc shim.
func (e *Executor) execSystem(regs *RegisterFile, mem *Memory, dev Device) error {
	if e.imm == 1 {
		return nil
	}
	return dispatchSyscall(regs, mem, dev)
}

// dispatchSyscall reads a7 and a0..a2 (no recognized call takes more
// arguments), performs the call via dev/mem, and
// writes the result to a0, per spec.md §4.3's "ECALL / syscall surface".
func dispatchSyscall(regs *RegisterFile, mem *Memory, dev Device) error {
	num := regs.Read(regA7)
	arg0 := regs.Read(regA0)
	arg1 := regs.Read(regA1)
	arg2 := regs.Read(regA2)

	switch num {
	case sysRead:
		buf := make([]byte, arg2)
		n, err := dev.Read(int32(arg0), buf)
		if err != nil && err != io.EOF {
			return &Trap{Kind: LibcError, Addr: regs.PC(), Message: err.Error()}
		}
		if n > 0 {
			if err := mem.WriteBytes(arg1, buf[:n]); err != nil {
				return err
			}
		}
		regs.Write(regA0, uint32(n))
		return nil

	case sysWrite:
		buf, err := mem.ReadBytes(arg1, arg2)
		if err != nil {
			return err
		}
		n, err := dev.Write(int32(arg0), buf)
		if err != nil {
			return &Trap{Kind: LibcError, Addr: regs.PC(), Message: err.Error()}
		}
		regs.Write(regA0, uint32(n))
		return nil

	case sysExit:
		regs.Write(regA0, arg0)
		regs.Halt()
		return nil

	case sysBrk:
		newBrk, err := mem.SetBreak(arg0)
		if err != nil {
			return err
		}
		regs.Write(regA0, newBrk)
		return nil

	case sysSbrk:
		old, err := mem.GrowBreak(int32(arg0))
		if err != nil {
			return err
		}
		regs.Write(regA0, old)
		return nil

	default:
		return &Trap{Kind: LibcError, Addr: regs.PC(), Message: fmt.Sprintf("unrecognized syscall number %d", num)}
	}
}
