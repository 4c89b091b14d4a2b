package e2e

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dark-rv32i/sim/interpreter"
)

var _ = Describe("Pipeline End-to-End Scenarios", func() {

	Describe("hello world via the write syscall", func() {
		It("prints to fd 1 and exits zero", func() {
			src := `
.text
.globl main
main:
	li a0, 1
	la a1, msg
	li a2, 13
	li a7, 64
	ecall
	li a0, 0
	li a7, 93
	ecall

.rodata
msg:
	.asciz "hello world!\n"
`
			r := run(src, 10000)
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.exitCode).To(Equal(int32(0)))
			Expect(r.stdout).To(Equal("hello world!\n"))
		})
	})

	Describe("arithmetic via add + exit", func() {
		It("computes 10+32 and exits with 42", func() {
			src := `
.text
.globl main
main:
	li a0, 10
	li a1, 32
	add a0, a0, a1
	li a7, 93
	ecall
`
			r := run(src, 1000)
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.exitCode).To(Equal(int32(42)))
		})
	})

	Describe("PC-relative load via la/lw", func() {
		It("loads a rodata word through a PCREL_HI/PCREL_LO pair", func() {
			src := `
.text
.globl main
main:
	la a1, value
	lw a0, 0(a1)
	li a7, 93
	ecall

.rodata
.align 4
value:
	.word 99
`
			r := run(src, 1000)
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.exitCode).To(Equal(int32(99)))
		})
	})

	Describe("misalignment trap", func() {
		It("traps on a misaligned word load", func() {
			src := `
.text
.globl main
main:
	li a1, 1
	lw a0, 0(a1)
	li a7, 93
	ecall
`
			r := run(src, 1000)
			trap, ok := r.err.(*interpreter.Trap)
			Expect(ok).To(BeTrue())
			Expect(trap.Kind).To(Equal(interpreter.LoadMisAligned))
		})
	})

	Describe("backward branch loop", func() {
		It("counts down from 5 to 0 and exits with the final count", func() {
			src := `
.text
.globl main
main:
	li a0, 5
loop:
	beqz a0, done
	addi a0, a0, -1
	j loop
done:
	li a7, 93
	ecall
`
			r := run(src, 1000)
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.exitCode).To(Equal(int32(0)))
		})
	})

	Describe("timeout exhaustion", func() {
		It("fails with a TimeoutError after exactly the retirement budget", func() {
			src := `
.text
.globl main
main:
	j main
`
			r := run(src, 1000)
			_, ok := r.err.(*interpreter.TimeoutError)
			Expect(ok).To(BeTrue())
		})
	})
})

var _ = Describe("Testable Invariants", func() {
	It("reads x0 as zero even after code attempts to write it", func() {
		src := `
.text
.globl main
main:
	addi x0, x0, 5
	li a0, 0
	add a0, a0, x0
	li a7, 93
	ecall
`
		r := run(src, 1000)
		Expect(r.err).NotTo(HaveOccurred())
		Expect(r.exitCode).To(Equal(int32(0)))
	})

	It("clears JALR's target low bit", func() {
		src := `
.text
.globl main
main:
	la a1, target
	addi a1, a1, 1
	jalr ra, 0(a1)
	li a0, 1
	li a7, 93
	ecall
target:
	li a0, 0
	li a7, 93
	ecall
`
		r := run(src, 1000)
		Expect(r.err).NotTo(HaveOccurred())
		Expect(r.exitCode).To(Equal(int32(0)))
	})

	It("treats a shift amount of 32 as a no-op (low 5 bits only)", func() {
		src := `
.text
.globl main
main:
	li a0, 1
	li a1, 32
	sll a0, a0, a1
	li a7, 93
	ecall
`
		r := run(src, 1000)
		Expect(r.err).NotTo(HaveOccurred())
		Expect(r.exitCode).To(Equal(int32(1)))
	})
})
