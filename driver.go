// Package teenyjvm loads and runs a single .class file through the
// TeenyJVM interpreter: find the entry method, execute it, report the
// outcome.
package teenyjvm

import (
	"fmt"
	"io"
	"os"

	"teenyjvm/classfile"
	"teenyjvm/heap"
	"teenyjvm/interp"
)

// MainMethodName and MainMethodDescriptor identify the entry point
// TeenyJVM looks for: a static void main(String[] args).
const (
	MainMethodName       = "main"
	MainMethodDescriptor = "([Ljava/lang/String;)V"
)

// Options configures one Run invocation.
type Options struct {
	// Trace, if set, is forwarded to the interpreter for per-instruction
	// debug output.
	Trace interp.Trace

	// Output receives the bytes invokevirtual prints. Defaults to
	// os.Stdout when nil; tests inject a buffer here to observe output.
	Output io.Writer
}

// Run loads the class file at path, locates its main method, and
// executes it to completion, writing any int printed via invokevirtual
// to opts.Output (stdout by default). A missing main method, or a main
// method that returns a value, is a fatal error.
func Run(path string, opts Options) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening class file: %w", err)
	}
	defer file.Close()

	class, err := classfile.Load(file)
	if err != nil {
		return fmt.Errorf("loading class file: %w", err)
	}

	main, ok := classfile.FindMethod(class.Methods, MainMethodName, MainMethodDescriptor)
	if !ok {
		return fmt.Errorf("class file has no %s%s method", MainMethodName, MainMethodDescriptor)
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	h := heap.New()
	machine := interp.New(class, h, output)
	machine.Trace = opts.Trace

	locals := make([]int32, main.Code.MaxLocals)
	_, hasValue, err := machine.Execute(main, locals)
	if err != nil {
		return fmt.Errorf("running %s: %w", MainMethodName, err)
	}
	if hasValue {
		return fmt.Errorf("%s must return void", MainMethodName)
	}

	return nil
}
