// Package main implements the main entry point for a CHIP-8 terminal emulator
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/emulator"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(logger)

	if err := run(ctx, logger, opts); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	rom, err := loader.Load(opts.Input)
	if err != nil {
		return err
	}
	logger.Info("Loaded ROM",
		log.String("file", opts.Input),
		log.String("size", fmt.Sprintf("%d bytes", len(rom))))

	var vmOpts []chip8.Option
	if opts.Debug {
		vmOpts = append(vmOpts, chip8.WithLogger(logger))
	}
	vm := chip8.New(vmOpts...)
	if err := vm.Load(rom); err != nil {
		return err
	}

	emu := emulator.New(logger, vm)
	if opts.Steps > 0 {
		return emu.RunHeadless(ctx, opts.Steps, os.Stdout)
	}
	return emu.Run(ctx)
}

func printBanner(logger *log.Logger) {
	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))
}
