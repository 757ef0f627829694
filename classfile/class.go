package classfile

import (
	"fmt"
	"io"
)

// classMagic is the required four-byte signature of every .class file.
const classMagic uint32 = 0xCAFEBABE

// Class owns the constant pool and method table for the lifetime of one
// program run. Header fields (magic, versions) and class-info fields
// (access flags, this/super indices) are read to advance the cursor but
// are not retained — TeenyJVM has no use for them beyond validation.
type Class struct {
	Pool    *Pool
	Methods []*Method
}

// Load parses a .class file from r end to end: magic, versions, constant
// pool, class info, method table. Any structural violation (bad magic,
// unknown tag, out-of-range index, tag mismatch, nonzero interfaces/fields
// count, non-static non-<init> method, missing/duplicate Code attribute,
// truncated input) is a fatal error returned to the caller.
func Load(r io.ReadSeeker) (*Class, error) {
	rd := NewReader(r)

	magic := rd.U4()
	if rd.Err() != nil {
		return nil, rd.Err()
	}
	if magic != classMagic {
		return nil, fmt.Errorf("bad magic %#08x, expected %#08x", magic, classMagic)
	}

	rd.U2() // minor_version, unused beyond validation
	rd.U2() // major_version, unused beyond validation

	pool, err := readConstantPool(rd)
	if err != nil {
		return nil, fmt.Errorf("constant pool: %w", err)
	}

	rd.U2() // access_flags, unused
	rd.U2() // this_class, unused
	rd.U2() // super_class, unused

	interfacesCount := rd.U2()
	if rd.Err() != nil {
		return nil, rd.Err()
	}
	if interfacesCount != 0 {
		return nil, fmt.Errorf("TeenyJVM does not support interfaces (interfaces_count=%d)", interfacesCount)
	}

	fieldsCount := rd.U2()
	if rd.Err() != nil {
		return nil, rd.Err()
	}
	if fieldsCount != 0 {
		return nil, fmt.Errorf("TeenyJVM does not support fields (fields_count=%d)", fieldsCount)
	}

	methods, err := readMethods(rd, pool)
	if err != nil {
		return nil, fmt.Errorf("methods: %w", err)
	}

	return &Class{Pool: pool, Methods: methods}, nil
}
