package interp

import "fmt"

// frame holds the per-invocation state of one executing method: its
// locals array and a fixed-capacity operand stack, sized by the method's
// Code.MaxLocals/Code.MaxStack. A fresh frame is pushed for every
// invokestatic and for the initial call into main, mirroring the host
// call-stack recursion the reference implementation uses instead of an
// explicit frame stack.
type frame struct {
	locals []int32
	stack  []int32
	sp     int // index of the top element; -1 means empty
}

func newFrame(maxLocals, maxStack uint16) *frame {
	return &frame{
		locals: make([]int32, maxLocals),
		stack:  make([]int32, maxStack),
		sp:     -1,
	}
}

// push places v on top of the operand stack. A push past MaxStack is a
// verifier-level bug in well-formed bytecode; TeenyJVM treats it as fatal
// rather than silently growing the stack.
func (f *frame) push(v int32) {
	f.sp++
	if f.sp >= len(f.stack) {
		panic(fmt.Sprintf("operand stack overflow (max_stack=%d)", len(f.stack)))
	}
	f.stack[f.sp] = v
}

// pop removes and returns the top of the operand stack.
func (f *frame) pop() int32 {
	if f.sp < 0 {
		panic("operand stack underflow")
	}
	v := f.stack[f.sp]
	f.sp--
	return v
}

// dup duplicates the top operand stack value.
func (f *frame) dup() {
	f.push(f.stack[f.sp])
}
