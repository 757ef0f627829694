package classfile

import "fmt"

const isStatic uint16 = 0x0008

// Code is the portion of a method holding the operand stack/locals sizing
// and the bytecode itself.
type Code struct {
	MaxStack  uint16
	MaxLocals uint16
	Bytes     []byte
}

// Method is one entry in the class's method table: a name, a descriptor,
// and exactly one Code attribute.
type Method struct {
	Name       string
	Descriptor string
	Code       Code
}

// FindMethod performs a linear scan of methods for an exact bytewise match
// on both name and descriptor. A missing method yields (nil, false); the
// caller decides whether that's fatal (true at the entry point, per §7).
func FindMethod(methods []*Method, name, descriptor string) (*Method, bool) {
	for _, m := range methods {
		if m.Name == name && m.Descriptor == descriptor {
			return m, true
		}
	}
	return nil, false
}

// readMethods reads the method_count followed by that many method_info
// structures, resolving each method's name/descriptor from the pool and
// enforcing the STATIC-except-<init> and exactly-one-Code invariants.
func readMethods(r *Reader, pool *Pool) ([]*Method, error) {
	count := r.U2()
	methods := make([]*Method, 0, count)

	for i := uint16(0); i < count; i++ {
		accessFlags := r.U2()
		nameIndex := r.U2()
		descriptorIndex := r.U2()
		attributesCount := r.U2()
		if r.Err() != nil {
			return nil, r.Err()
		}

		name, err := pool.GetUtf8(nameIndex)
		if err != nil {
			return nil, fmt.Errorf("method %d name: %w", i, err)
		}
		descriptor, err := pool.GetUtf8(descriptorIndex)
		if err != nil {
			return nil, fmt.Errorf("method %d descriptor: %w", i, err)
		}

		if name != "<init>" && accessFlags&isStatic == 0 {
			return nil, fmt.Errorf("method %s%s: TeenyJVM only supports static methods (except <init>)", name, descriptor)
		}

		code, err := readMethodAttributes(r, pool, attributesCount)
		if err != nil {
			return nil, fmt.Errorf("method %s%s: %w", name, descriptor, err)
		}

		methods = append(methods, &Method{Name: name, Descriptor: descriptor, Code: code})
	}

	return methods, nil
}

// readMethodAttributes reads attributesCount attribute_info structures,
// parsing the mandatory "Code" attribute and skipping all others by their
// declared length. Exactly one Code attribute is required.
func readMethodAttributes(r *Reader, pool *Pool, attributesCount uint16) (Code, error) {
	var code Code
	foundCode := false

	for i := uint16(0); i < attributesCount; i++ {
		nameIndex := r.U2()
		length := r.U4()
		if r.Err() != nil {
			return Code{}, r.Err()
		}

		attrStart, err := r.Tell()
		if err != nil {
			return Code{}, err
		}
		attrEnd := attrStart + int64(length)

		attrName, err := pool.GetUtf8(nameIndex)
		if err != nil {
			return Code{}, fmt.Errorf("attribute %d name: %w", i, err)
		}

		if attrName == "Code" {
			if foundCode {
				return Code{}, fmt.Errorf("duplicate Code attribute")
			}
			foundCode = true

			code.MaxStack = r.U2()
			code.MaxLocals = r.U2()
			codeLength := r.U4()
			code.Bytes = r.Bytes(int(codeLength))
			if r.Err() != nil {
				return Code{}, r.Err()
			}
		}

		r.Seek(attrEnd)
	}

	if !foundCode {
		return Code{}, fmt.Errorf("missing Code attribute")
	}

	return code, nil
}
