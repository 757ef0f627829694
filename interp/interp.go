// Package interp implements the fetch/decode/execute loop over a method's
// Code attribute: the operand-stack machine at the heart of TeenyJVM.
package interp

import (
	"errors"
	"fmt"
	"io"

	"teenyjvm/classfile"
	"teenyjvm/heap"
)

// ErrDivisionByZero is returned when idiv or irem divides by zero. The
// reference C implementation lets this crash the process; TeenyJVM
// reports it as an ordinary fatal error instead.
var ErrDivisionByZero = errors.New("division by zero")

// ErrUnknownOpcode is returned when the fetched instruction byte has no
// defined behavior. spec.md's redesign flags call for this to be a fatal
// error rather than the silently-ignored default case the reference
// switch statement falls through to.
type ErrUnknownOpcode struct {
	Opcode Opcode
	PC     int
}

func (e *ErrUnknownOpcode) Error() string {
	return fmt.Sprintf("unknown opcode %#02x at pc=%d", byte(e.Opcode), e.PC)
}

// Trace, when non-nil, is invoked once before each instruction is
// executed. It is a debugging aid only — TeenyJVM never branches on
// anything Trace does, so implementations may safely store the stack
// slice for later inspection only if they copy it first.
type Trace func(pc int, op Opcode, stack []int32)

// Machine owns the state shared across every frame of one program run:
// the class being executed, the heap of arrays, the sink for
// invokevirtual's print side effect, and an optional trace hook.
type Machine struct {
	Class  *classfile.Class
	Heap   *heap.Heap
	Output io.Writer
	Trace  Trace
}

// New returns a Machine ready to execute methods of class, printing to
// out and allocating arrays from h.
func New(class *classfile.Class, h *heap.Heap, out io.Writer) *Machine {
	return &Machine{Class: class, Heap: h, Output: out}
}

// Execute runs method to completion starting from an empty operand stack
// and the given locals (already populated with the caller's arguments in
// slots 0..numParams-1; the rest are zero, matching the reference
// implementation's memset-then-fill order). It returns the method's
// return value, or (0, false) for a void return.
func (m *Machine) Execute(method *classfile.Method, locals []int32) (int32, bool, error) {
	f := newFrame(method.Code.MaxLocals, method.Code.MaxStack)
	copy(f.locals, locals)

	code := method.Code.Bytes
	pc := 0

	for pc < len(code) {
		op := Opcode(code[pc])
		if m.Trace != nil {
			m.Trace(pc, op, f.stack[:f.sp+1])
		}

		switch op {
		case Nop:
			pc++

		case IconstM1, Iconst0, Iconst1, Iconst2, Iconst3, Iconst4, Iconst5:
			f.push(int32(op) - int32(Iconst0))
			pc++

		case Bipush:
			f.push(int32(int8(code[pc+1])))
			pc += 2

		case Sipush:
			value := int16(uint16(code[pc+1])<<8 | uint16(code[pc+2]))
			f.push(int32(value))
			pc += 3

		case Ldc:
			index := code[pc+1]
			value, err := m.Class.Pool.GetInteger(uint16(index))
			if err != nil {
				return 0, false, fmt.Errorf("ldc at pc=%d: %w", pc, err)
			}
			f.push(value)
			pc += 2

		case Iload, Aload:
			index := code[pc+1]
			f.push(f.locals[index])
			pc += 2

		case Iload0, Iload1, Iload2, Iload3:
			f.push(f.locals[int(op-Iload0)])
			pc++

		case Aload0, Aload1, Aload2, Aload3:
			f.push(f.locals[int(op-Aload0)])
			pc++

		case Istore, Astore:
			index := code[pc+1]
			f.locals[index] = f.pop()
			pc += 2

		case Istore0, Istore1, Istore2, Istore3:
			f.locals[int(op-Istore0)] = f.pop()
			pc++

		case Astore0, Astore1, Astore2, Astore3:
			f.locals[int(op-Astore0)] = f.pop()
			pc++

		case Iinc:
			index := code[pc+1]
			constant := int32(int8(code[pc+2]))
			f.locals[index] += constant
			pc += 3

		case Dup:
			f.dup()
			pc++

		case Iadd:
			v2, v1 := f.pop(), f.pop()
			f.push(v1 + v2)
			pc++

		case Isub:
			v2, v1 := f.pop(), f.pop()
			f.push(v1 - v2)
			pc++

		case Imul:
			v2, v1 := f.pop(), f.pop()
			f.push(v1 * v2)
			pc++

		case Idiv:
			v2, v1 := f.pop(), f.pop()
			if v2 == 0 {
				return 0, false, fmt.Errorf("idiv at pc=%d: %w", pc, ErrDivisionByZero)
			}
			f.push(v1 / v2)
			pc++

		case Irem:
			v2, v1 := f.pop(), f.pop()
			if v2 == 0 {
				return 0, false, fmt.Errorf("irem at pc=%d: %w", pc, ErrDivisionByZero)
			}
			f.push(v1 % v2)
			pc++

		case Ineg:
			f.push(-f.pop())
			pc++

		case Ishl:
			shift, value := f.pop(), f.pop()
			f.push(value << (uint32(shift) & 0x1F))
			pc++

		case Ishr:
			shift, value := f.pop(), f.pop()
			f.push(value >> (uint32(shift) & 0x1F))
			pc++

		case Iushr:
			shift, value := f.pop(), f.pop()
			f.push(int32(uint32(value) >> (uint32(shift) & 0x1F)))
			pc++

		case Iand:
			v2, v1 := f.pop(), f.pop()
			f.push(v1 & v2)
			pc++

		case Ior:
			v2, v1 := f.pop(), f.pop()
			f.push(v1 | v2)
			pc++

		case Ixor:
			v2, v1 := f.pop(), f.pop()
			f.push(v1 ^ v2)
			pc++

		case Ifeq, Ifne, Iflt, Ifge, Ifgt, Ifle:
			taken := compareToZero(op, f.pop())
			pc = branch(pc, code, taken)

		case IfIcmpeq, IfIcmpne, IfIcmplt, IfIcmpge, IfIcmpgt, IfIcmple:
			v2, v1 := f.pop(), f.pop()
			taken := compareInts(op, v1, v2)
			pc = branch(pc, code, taken)

		case Goto:
			offset := int16(uint16(code[pc+1])<<8 | uint16(code[pc+2]))
			pc += int(offset)

		case Ireturn, Areturn:
			return f.pop(), true, nil

		case Return:
			return 0, false, nil

		case Getstatic:
			pc += 3

		case Invokevirtual:
			val := f.pop()
			fmt.Fprintf(m.Output, "%d\n", val)
			pc += 3

		case Invokestatic:
			index := uint16(code[pc+1])<<8 | uint16(code[pc+2])
			name, descriptor, err := m.Class.Pool.ResolveMethod(index)
			if err != nil {
				return 0, false, fmt.Errorf("invokestatic at pc=%d: %w", pc, err)
			}
			called, ok := classfile.FindMethod(m.Class.Methods, name, descriptor)
			if !ok {
				return 0, false, fmt.Errorf("invokestatic at pc=%d: no such method %s%s", pc, name, descriptor)
			}

			numParams := classfile.NumParams(descriptor)
			calleeLocals := make([]int32, called.Code.MaxLocals)
			for i := numParams - 1; i >= 0; i-- {
				calleeLocals[i] = f.pop()
			}

			result, hasValue, err := m.Execute(called, calleeLocals)
			if err != nil {
				return 0, false, err
			}
			if hasValue {
				f.push(result)
			}
			pc += 3

		case Newarray:
			count := f.pop()
			ref := m.Heap.NewArray(count)
			f.push(ref)
			pc += 2

		case Arraylength:
			ref := f.pop()
			array, err := m.Heap.Get(ref)
			if err != nil {
				return 0, false, fmt.Errorf("arraylength at pc=%d: %w", pc, err)
			}
			f.push(array[0])
			pc++

		case Iaload:
			index, ref := f.pop(), f.pop()
			array, err := m.Heap.Get(ref)
			if err != nil {
				return 0, false, fmt.Errorf("iaload at pc=%d: %w", pc, err)
			}
			f.push(array[index+1])
			pc++

		case Iastore:
			value, index, ref := f.pop(), f.pop(), f.pop()
			array, err := m.Heap.Get(ref)
			if err != nil {
				return 0, false, fmt.Errorf("iastore at pc=%d: %w", pc, err)
			}
			array[index+1] = value
			pc++

		default:
			return 0, false, &ErrUnknownOpcode{Opcode: op, PC: pc}
		}
	}

	return 0, false, nil
}

// branch resolves an if*/if_icmp* instruction's two-byte signed offset,
// relative to the opcode's own address, once the comparison result is
// known. Not taken falls through past the three-byte instruction.
func branch(pc int, code []byte, taken bool) int {
	if !taken {
		return pc + 3
	}
	offset := int16(uint16(code[pc+1])<<8 | uint16(code[pc+2]))
	return pc + int(offset)
}

func compareToZero(op Opcode, v int32) bool {
	switch op {
	case Ifeq:
		return v == 0
	case Ifne:
		return v != 0
	case Iflt:
		return v < 0
	case Ifge:
		return v >= 0
	case Ifgt:
		return v > 0
	case Ifle:
		return v <= 0
	default:
		return false
	}
}

func compareInts(op Opcode, v1, v2 int32) bool {
	switch op {
	case IfIcmpeq:
		return v1 == v2
	case IfIcmpne:
		return v1 != v2
	case IfIcmplt:
		return v1 < v2
	case IfIcmpge:
		return v1 >= v2
	case IfIcmpgt:
		return v1 > v2
	case IfIcmple:
		return v1 <= v2
	default:
		return false
	}
}
