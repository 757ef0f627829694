package classfile_test

import (
	"bytes"
	"testing"

	"teenyjvm/classfile"
	"teenyjvm/internal/classbuilder"
)

func TestResolveMethod(t *testing.T) {
	b := classbuilder.New()
	classNameIndex := b.AddUtf8("Fixture")
	classIndex := b.AddClass(classNameIndex)
	methodNameIndex := b.AddUtf8("helper")
	descIndex := b.AddUtf8("(II)I")
	natIndex := b.AddNameAndType(methodNameIndex, descIndex)
	methodrefIndex := b.AddMethodref(classIndex, natIndex)

	mainName := b.AddUtf8("main")
	mainDescIndex := b.AddUtf8(classbuilder.MainDescriptor)
	b.AddMethod(mainName, mainDescIndex, false, 0, 0, []byte{0xB1})

	class, err := classfile.Load(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	name, descriptor, err := class.Pool.ResolveMethod(methodrefIndex)
	if err != nil {
		t.Fatalf("ResolveMethod: %v", err)
	}
	if name != "helper" || descriptor != "(II)I" {
		t.Fatalf("ResolveMethod = (%q, %q), want (helper, (II)I)", name, descriptor)
	}
}

func TestGetOutOfRangeIndex(t *testing.T) {
	b := classbuilder.New()
	mainName := b.AddUtf8("main")
	mainDescIndex := b.AddUtf8(classbuilder.MainDescriptor)
	b.AddMethod(mainName, mainDescIndex, false, 0, 0, []byte{0xB1})

	class, err := classfile.Load(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := class.Pool.Get(0); err == nil {
		t.Fatal("Get(0): want error, got nil")
	}
	if _, err := class.Pool.Get(uint16(class.Pool.Size() + 1)); err == nil {
		t.Fatal("Get(size+1): want error, got nil")
	}
}

func TestGetTagMismatch(t *testing.T) {
	b := classbuilder.New()
	mainName := b.AddUtf8("main")
	mainDescIndex := b.AddUtf8(classbuilder.MainDescriptor)
	b.AddMethod(mainName, mainDescIndex, false, 0, 0, []byte{0xB1})

	class, err := classfile.Load(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := class.Pool.GetInteger(mainName); err == nil {
		t.Fatal("GetInteger on a Utf8 entry: want error, got nil")
	}
}
