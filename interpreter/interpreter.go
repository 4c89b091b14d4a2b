// Package interpreter implements spec.md §4.3: the fetch/decode/
// execute loop driven by an ICache, against a RegisterFile, Memory,
// and Device, with the debug variant of spec.md §4.3's "Debug variant"
// wired through an optional DebugManager hook.
package interpreter

import "github.com/dark-rv32i/sim/obj"

// Interpreter owns everything the fetch/decode/execute loop touches
// for one run, per spec.md §5's resource-ownership model.
type Interpreter struct {
	Regs    *RegisterFile
	Mem     *Memory
	Dev     Device
	Cache   *ICache
	Timeout int
}

// New builds an Interpreter from a linked image, starting execution at
// position_of("main").
func New(img *obj.LinkedImage, dev Device, timeout int) *Interpreter {
	return &Interpreter{
		Regs:    NewRegisterFile(img.MainAddr()),
		Mem:     NewMemory(img),
		Dev:     dev,
		Cache:   NewICache(),
		Timeout: timeout,
	}
}

// TimeoutError reports that the run exhausted its retirement budget,
// per spec.md §4.3 ("Exhausting timeout is fatal").
type TimeoutError struct{ Limit int }

func (e *TimeoutError) Error() string { return "Time Limit Exceeded" }

// DebugManager is consulted before every fetch in the debug variant of
// the loop; it may single-step, dump register/memory state, or
// disassemble the instruction about to execute.
type DebugManager interface {
	Before(pc uint32, regs *RegisterFile, mem *Memory)
}

// Run executes the fetch/decode/execute loop to completion (a clean
// exit syscall) or failure (trap or timeout), returning the exit code
// a0 held at the moment of exit.
func (ip *Interpreter) Run() (int32, error) {
	return ip.RunWith(nil)
}

// RunWith is Run with an optional DebugManager consulted before each
// fetch, per spec.md §4.3's "Debug variant".
func (ip *Interpreter) RunWith(dbg DebugManager) (int32, error) {
	remaining := ip.Timeout

	for ip.Regs.advance() {
		if remaining <= 0 {
			return 0, &TimeoutError{Limit: ip.Timeout}
		}
		remaining--

		if dbg != nil {
			dbg.Before(ip.Regs.PC(), ip.Regs, ip.Mem)
		}

		exe, err := ip.Cache.Ifetch(ip.Regs.PC(), ip.Mem)
		if err != nil {
			return 0, err
		}
		if _, err := exe.Exec(ip.Regs, ip.Mem, ip.Dev); err != nil {
			return 0, err
		}
	}
	return int32(ip.Regs.Read(regA0)), nil
}
