// Command rvsim is the assembler/linker/interpreter pipeline's CLI
// entry point, the Go analogue of original_source/main.cpp's
// dark::Interpreter driver.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dark-rv32i/sim/assembler"
	"github.com/dark-rv32i/sim/config"
	"github.com/dark-rv32i/sim/console"
	"github.com/dark-rv32i/sim/debug"
	"github.com/dark-rv32i/sim/interpreter"
	"github.com/dark-rv32i/sim/linker"
	"github.com/dark-rv32i/sim/obj"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run mirrors main.cpp's try/catch: any error a stage returns (a
// ParseError, LinkError, Trap, TimeoutError, or an I/O error) is
// printed and gives exit status 1; a panic recovered here is treated
// as an internal bug (dark::unreachable) and gives exit status 2.
func run(args []string) (code int) {
	sink := console.New(os.Stderr)

	defer func() {
		if r := recover(); r != nil {
			sink.Printf("internal error: %v\n", r)
			code = 2
		}
	}()

	cfg, err := config.Parse(args)
	if err != nil {
		sink.Printf("%v\n", err)
		return 1
	}
	sink.SetDetail(cfg.Detail)

	start := time.Now()

	img, err := build(cfg, sink)
	if err != nil {
		sink.Printf("%v\n", err)
		return 1
	}

	buildTime := time.Now()
	sink.Banner(fmt.Sprintf(" Build time: %dms ", buildTime.Sub(start).Milliseconds()))

	if cfg.Detail {
		printDetail(sink, img)
	}

	exitCode, err := simulate(cfg, img, sink)

	interpretTime := time.Now()
	sink.Banner(fmt.Sprintf(" Interpret time: %dms ", interpretTime.Sub(buildTime).Milliseconds()))

	if err != nil {
		sink.Printf("%v\n", err)
		return 1
	}
	return int(exitCode)
}

// build assembles every input and links the results, matching
// dark::Interpreter::assemble()+link().
func build(cfg *config.Config, sink *console.Sink) (*obj.LinkedImage, error) {
	files := make([]*obj.ObjectFile, 0, len(cfg.Inputs))
	for _, path := range cfg.Inputs {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		objFile, err := assembler.Assemble(path, f, sink)
		closeErr := f.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
		files = append(files, objFile)
	}
	return linker.Link(files)
}

// simulate runs the linked image, consulting a debug.Manager when
// -debug was given, matching dark::Interpreter::simulate().
func simulate(cfg *config.Config, img *obj.LinkedImage, sink *console.Sink) (int32, error) {
	ip := interpreter.New(img, interpreter.NewStdioDevice(), cfg.Timeout)
	if cfg.Debug {
		return ip.RunWith(debug.NewManager(sink))
	}
	return ip.Run()
}

// printDetail prints the section layout table requested by -detail.
func printDetail(sink *console.Sink, img *obj.LinkedImage) {
	sink.Printf("%-8s %10s %10s %10s\n", "section", "base", "size", "align")
	for k := obj.Text; k <= obj.Bss; k++ {
		sec := img.Section(k)
		sink.Printf("%-8s 0x%08x %10d %10d\n", k, sec.Base, sec.Size(), sec.Alignment)
	}
	sink.Printf("entry main @ 0x%08x\n", img.MainAddr())
}
