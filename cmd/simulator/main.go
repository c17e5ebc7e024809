// Command simulator is the CLI front-end for the EDU-CPU instruction-set
// simulator: it loads one or more object files into a single image, then
// either runs to completion or drives an interactive stepper.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eduproc/educpu/internal/debugger"
	"github.com/eduproc/educpu/internal/snapshot"
	"github.com/eduproc/educpu/internal/trace"
	"github.com/eduproc/educpu/pkg/cpu"
	"github.com/eduproc/educpu/pkg/objfmt"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "simulator:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var traceEnabled bool
	var maxCycles int
	var interactive bool
	var dumpState string

	cmd := &cobra.Command{
		Use:           "simulator <file>...",
		Short:         "Cycle-accurate instruction-set simulator for the EDU-CPU",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, traceEnabled, maxCycles, interactive, dumpState)
		},
	}
	cmd.Flags().BoolVar(&traceEnabled, "trace", false, "print a one-line state snapshot before every instruction")
	cmd.Flags().IntVar(&maxCycles, "max-cycles", 65536, "fatal cycle-limit cap")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "step through execution with an interactive TUI")
	cmd.Flags().StringVar(&dumpState, "dump-state", "", "write a gob-encoded postmortem state snapshot to this path")
	return cmd
}

func run(paths []string, traceEnabled bool, maxCycles int, interactive bool, dumpState string) error {
	files := make([]objfmt.File, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		files[i] = objfmt.File{Name: p, Data: data}
	}

	img, err := objfmt.LoadMulti(files)
	if err != nil {
		return err
	}

	state := cpu.New(img, os.Stdout)

	var runErr error
	if interactive {
		runErr = debugger.Run(state)
	} else {
		var onStep func(*cpu.State)
		if traceEnabled {
			onStep = trace.New(os.Stderr).Step
		}
		runErr = state.Run(maxCycles, onStep)
	}

	if dumpState != "" {
		if err := snapshot.Save(dumpState, snapshot.FromState(state)); err != nil {
			return fmt.Errorf("writing state dump: %w", err)
		}
	}

	return runErr
}
