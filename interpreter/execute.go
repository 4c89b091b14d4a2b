package interpreter

import "github.com/dark-rv32i/sim/isa"

// Exec applies e's full semantic effect to regs/mem/dev, updates PC,
// and returns the address PC now holds, per spec.md §4.3. On a trap PC
// is left unchanged and the returned address is pc+4. RV32I
// arithmetic is two's-complement 32-bit; shifts use only the low 5
// bits of the shift amount (grounded on other_examples/quminzhi-emurv's
// Step()).
func (e *Executor) Exec(regs *RegisterFile, mem *Memory, dev Device) (uint32, error) {
	pc := regs.PC()
	fallthroughPC := pc + 4
	nextPC := fallthroughPC

	switch e.class {
	case isa.ClassR:
		if e.funct7 != 0 && !(e.funct7 == isa.ShiftArithmeticFunct7 && (e.funct3 == 0x0 || e.funct3 == 0x5)) {
			return fallthroughPC, &Trap{Kind: InsUnknown, Addr: pc, Word: e.word}
		}
		a, b := regs.Read(e.rs1), regs.Read(e.rs2)
		regs.Write(e.rd, execR(e.funct3, e.funct7, a, b))

	case isa.ClassI:
		if e.opcode == isa.OpcodeSystem {
			if err := e.execSystem(regs, mem, dev); err != nil {
				return fallthroughPC, err
			}
		} else {
			a := regs.Read(e.rs1)
			regs.Write(e.rd, execI(e.funct3, e.imm, a))
		}

	case isa.ClassL:
		v, err := e.execLoad(regs, mem)
		if err != nil {
			return fallthroughPC, err
		}
		regs.Write(e.rd, v)

	case isa.ClassS:
		if err := e.execStore(regs, mem); err != nil {
			return fallthroughPC, err
		}

	case isa.ClassB:
		if e.funct3 == 0x2 || e.funct3 == 0x3 {
			return fallthroughPC, &Trap{Kind: InsUnknown, Addr: pc, Word: e.word}
		}
		if execBranch(e.funct3, regs.Read(e.rs1), regs.Read(e.rs2)) {
			nextPC = uint32(int32(pc) + e.imm)
		}

	case isa.ClassJAL:
		regs.Write(e.rd, pc+4)
		nextPC = uint32(int32(pc) + e.imm)

	case isa.ClassJALR:
		target := (regs.Read(e.rs1) + uint32(e.imm)) &^ 1
		regs.Write(e.rd, pc+4)
		nextPC = target

	case isa.ClassLUI:
		regs.Write(e.rd, uint32(e.imm))

	case isa.ClassAUIPC:
		regs.Write(e.rd, pc+uint32(e.imm))

	default:
		return fallthroughPC, &Trap{Kind: InsUnknown, Addr: pc, Word: e.word}
	}

	regs.SetPC(nextPC)
	return nextPC, nil
}

func execR(f3, f7 uint8, a, b uint32) uint32 {
	switch f3 {
	case 0x0:
		if f7 == isa.ShiftArithmeticFunct7 {
			return a - b
		}
		return a + b
	case 0x1:
		return a << (b & 0x1F)
	case 0x2:
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case 0x3:
		if a < b {
			return 1
		}
		return 0
	case 0x4:
		return a ^ b
	case 0x5:
		if f7 == isa.ShiftArithmeticFunct7 {
			return uint32(int32(a) >> (b & 0x1F))
		}
		return a >> (b & 0x1F)
	case 0x6:
		return a | b
	case 0x7:
		return a & b
	}
	return 0
}

func execI(f3 uint8, imm int32, a uint32) uint32 {
	switch f3 {
	case 0x0:
		return uint32(int32(a) + imm)
	case 0x1:
		return a << (uint32(imm) & 0x1F)
	case 0x2:
		if int32(a) < imm {
			return 1
		}
		return 0
	case 0x3:
		if a < uint32(imm) {
			return 1
		}
		return 0
	case 0x4:
		return a ^ uint32(imm)
	case 0x5:
		if uint32(imm)&(isa.ShiftArithmeticFunct7<<5) != 0 {
			return uint32(int32(a) >> (uint32(imm) & 0x1F))
		}
		return a >> (uint32(imm) & 0x1F)
	case 0x6:
		return a | uint32(imm)
	case 0x7:
		return a & uint32(imm)
	}
	return 0
}

func execBranch(f3 uint8, a, b uint32) bool {
	switch f3 {
	case 0x0:
		return a == b
	case 0x1:
		return a != b
	case 0x4:
		return int32(a) < int32(b)
	case 0x5:
		return int32(a) >= int32(b)
	case 0x6:
		return a < b
	case 0x7:
		return a >= b
	}
	return false
}

func (e *Executor) execLoad(regs *RegisterFile, mem *Memory) (uint32, error) {
	addr := uint32(int32(regs.Read(e.rs1)) + e.imm)
	switch e.funct3 {
	case 0x0:
		v, err := mem.LoadI8(addr)
		return uint32(v), err
	case 0x1:
		v, err := mem.LoadI16(addr)
		return uint32(v), err
	case 0x2:
		return mem.LoadU32(addr)
	case 0x4:
		return mem.LoadU8(addr)
	case 0x5:
		return mem.LoadU16(addr)
	}
	return 0, &Trap{Kind: InsUnknown, Addr: regs.PC(), Word: e.word}
}

func (e *Executor) execStore(regs *RegisterFile, mem *Memory) error {
	addr := uint32(int32(regs.Read(e.rs1)) + e.imm)
	v := int32(regs.Read(e.rs2))
	switch e.funct3 {
	case 0x0:
		return mem.StoreI8(addr, v)
	case 0x1:
		return mem.StoreI16(addr, v)
	case 0x2:
		return mem.StoreI32(addr, v)
	}
	return &Trap{Kind: InsUnknown, Addr: regs.PC(), Word: e.word}
}
