package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/urfave/cli.v2"

	"sixfive/cpu"
	"sixfive/mask"
	"sixfive/mem"
)

func main() {
	app := &cli.App{
		Name:    "sixfive",
		Usage:   "Run a 6502 program image",
		Version: "v0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "program",
				Aliases: []string{"p"},
				Usage:   "file of whitespace-separated hex bytes",
			},
			&cli.UintFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "load address",
				Value:   0x0800,
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "open the interactive step debugger",
			},
			&cli.BoolFlag{
				Name:    "trace",
				Aliases: []string{"t"},
				Usage:   "log each executed instruction to stderr",
			},
		},
		Action: run,
	}
	app.Run(os.Args)
}

func run(ctx *cli.Context) error {
	file := ctx.String("program")
	if file == "" {
		cli.ShowAppHelp(ctx)
		return cli.Exit("", 1)
	}
	text, err := os.ReadFile(file)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	addr := uint16(ctx.Uint("addr"))

	c := cpu.New(nil)
	if ctx.Bool("trace") {
		c.Log = log.New(os.Stderr, "", 0)
	}

	if ctx.Bool("debug") {
		if err := c.Debug(string(text), addr); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return nil
	}

	if err := c.Mem.LoadProgram(string(text), addr); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	// execution begins at the reset vector; place a jump to the image there
	c.Mem.Load(mem.ResetVector, []byte{0x4C, mask.Lo(addr), mask.Hi(addr)})

	for c.Running {
		c.Tick()
	}

	pc, sp, a, x, y, sr := c.Registers()
	fmt.Printf("PC:%04X SP:%02X A:%02X X:%02X Y:%02X SR:%08b CYC:%d\n",
		pc, sp, a, x, y, sr, c.Cycles)
	if err := c.Err(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
