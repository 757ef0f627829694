// Package classbuilder assembles minimal .class byte streams in memory,
// for use by package tests that need real TeenyJVM-subset class files but
// have no javac toolchain available to produce them.
package classbuilder

import (
	"bytes"
	"encoding/binary"
)

// Builder accumulates constant pool entries and methods, then renders a
// complete big-endian .class byte stream via Bytes.
type Builder struct {
	pool    [][]byte // each entry is the tag byte followed by its payload
	methods []methodEntry
}

type methodEntry struct {
	accessFlags uint16
	nameIndex   uint16
	descIndex   uint16
	maxStack    uint16
	maxLocals   uint16
	code        []byte
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// AddUtf8 appends a Utf8 constant and returns its 1-indexed pool slot.
func (b *Builder) AddUtf8(s string) uint16 {
	entry := make([]byte, 0, 3+len(s))
	entry = append(entry, 1) // TagUtf8
	entry = binary.BigEndian.AppendUint16(entry, uint16(len(s)))
	entry = append(entry, s...)
	return b.add(entry)
}

// AddInteger appends an Integer constant and returns its pool slot.
func (b *Builder) AddInteger(v int32) uint16 {
	entry := make([]byte, 0, 5)
	entry = append(entry, 3) // TagInteger
	entry = binary.BigEndian.AppendUint32(entry, uint32(v))
	return b.add(entry)
}

// AddClass appends a Class constant naming the Utf8 at nameIndex.
func (b *Builder) AddClass(nameIndex uint16) uint16 {
	entry := make([]byte, 0, 3)
	entry = append(entry, 7) // TagClass
	entry = binary.BigEndian.AppendUint16(entry, nameIndex)
	return b.add(entry)
}

// AddNameAndType appends a NameAndType constant.
func (b *Builder) AddNameAndType(nameIndex, descriptorIndex uint16) uint16 {
	entry := make([]byte, 0, 5)
	entry = append(entry, 12) // TagNameAndType
	entry = binary.BigEndian.AppendUint16(entry, nameIndex)
	entry = binary.BigEndian.AppendUint16(entry, descriptorIndex)
	return b.add(entry)
}

// AddMethodref appends a Methodref constant.
func (b *Builder) AddMethodref(classIndex, nameAndTypeIndex uint16) uint16 {
	entry := make([]byte, 0, 5)
	entry = append(entry, 10) // TagMethodref
	entry = binary.BigEndian.AppendUint16(entry, classIndex)
	entry = binary.BigEndian.AppendUint16(entry, nameAndTypeIndex)
	return b.add(entry)
}

func (b *Builder) add(entry []byte) uint16 {
	b.pool = append(b.pool, entry)
	return uint16(len(b.pool))
}

// AddMethod appends a method whose name/descriptor are already-registered
// pool slots (normally via AddUtf8), with static access flags (0x0008)
// unless isInit is true.
func (b *Builder) AddMethod(nameIndex, descIndex uint16, isInit bool, maxStack, maxLocals uint16, code []byte) {
	flags := uint16(0x0008)
	if isInit {
		flags = 0
	}
	b.AddMethodWithFlags(flags, nameIndex, descIndex, maxStack, maxLocals, code)
}

// AddMethodWithFlags appends a method with an explicit access_flags value,
// for tests that need to exercise TeenyJVM's STATIC-except-<init> check
// directly.
func (b *Builder) AddMethodWithFlags(accessFlags, nameIndex, descIndex uint16, maxStack, maxLocals uint16, code []byte) {
	b.methods = append(b.methods, methodEntry{
		accessFlags: accessFlags,
		nameIndex:   nameIndex,
		descIndex:   descIndex,
		maxStack:    maxStack,
		maxLocals:   maxLocals,
		code:        code,
	})
}

// Bytes renders the accumulated pool and methods into a complete .class
// byte stream: magic, versions, constant pool, a synthetic this_class/
// super_class pair, zero interfaces, zero fields, and the method table
// (each method carrying exactly one Code attribute named "Code", itself
// a registered Utf8 constant).
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer

	binary.Write(&buf, binary.BigEndian, uint32(0xCAFEBABE))
	binary.Write(&buf, binary.BigEndian, uint16(0)) // minor
	binary.Write(&buf, binary.BigEndian, uint16(0)) // major

	codeNameIndex := b.AddUtf8("Code")
	classNameIndex := b.AddUtf8("Fixture")
	thisClassIndex := b.AddClass(classNameIndex)

	binary.Write(&buf, binary.BigEndian, uint16(len(b.pool)+1))
	for _, entry := range b.pool {
		buf.Write(entry)
	}

	binary.Write(&buf, binary.BigEndian, uint16(0))      // access_flags
	binary.Write(&buf, binary.BigEndian, thisClassIndex) // this_class
	binary.Write(&buf, binary.BigEndian, uint16(0))      // super_class
	binary.Write(&buf, binary.BigEndian, uint16(0))      // interfaces_count
	binary.Write(&buf, binary.BigEndian, uint16(0))      // fields_count

	binary.Write(&buf, binary.BigEndian, uint16(len(b.methods)))
	for _, m := range b.methods {
		binary.Write(&buf, binary.BigEndian, m.accessFlags)
		binary.Write(&buf, binary.BigEndian, m.nameIndex)
		binary.Write(&buf, binary.BigEndian, m.descIndex)
		binary.Write(&buf, binary.BigEndian, uint16(1)) // attributes_count

		var attr bytes.Buffer
		binary.Write(&attr, binary.BigEndian, m.maxStack)
		binary.Write(&attr, binary.BigEndian, m.maxLocals)
		binary.Write(&attr, binary.BigEndian, uint32(len(m.code)))
		attr.Write(m.code)

		binary.Write(&buf, binary.BigEndian, codeNameIndex)
		binary.Write(&buf, binary.BigEndian, uint32(attr.Len()))
		buf.Write(attr.Bytes())
	}

	return buf.Bytes()
}

// MainDescriptor is the descriptor TeenyJVM requires of the entry method.
const MainDescriptor = "([Ljava/lang/String;)V"
