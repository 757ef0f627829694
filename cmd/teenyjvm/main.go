// Command teenyjvm loads a single .class file and runs its main method.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teenyjvm"
	"teenyjvm/interp"
)

func main() {
	var trace bool

	root := &cobra.Command{
		Use:   "teenyjvm <class-file>",
		Short: "run a single .class file on the TeenyJVM interpreter",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				cmd.SilenceUsage = false // print usage for a wrong argument count
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassFile(args[0], trace)
		},
	}
	root.Flags().BoolVar(&trace, "trace", false, "print each executed instruction and the operand stack before it runs")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "teenyjvm: %v\n", err)
		os.Exit(1)
	}
}

// runClassFile drives one interpreter run and converts a runtime panic —
// a verifier-level bug surfacing as a Go slice bounds panic or an
// operand stack overflow/underflow — into the same fatal, non-zero-exit outcome as any other
// reported error, instead of a raw Go stack trace.
func runClassFile(path string, trace bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fatal: %v", r)
		}
	}()

	opts := teenyjvm.Options{}
	if trace {
		opts.Trace = func(pc int, op interp.Opcode, stack []int32) {
			fmt.Fprintf(os.Stderr, "pc=%-4d %-14s stack=%v\n", pc, op, stack)
		}
	}

	return teenyjvm.Run(path, opts)
}
