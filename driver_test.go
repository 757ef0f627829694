package teenyjvm_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"teenyjvm"
	"teenyjvm/internal/classbuilder"
)

func writeClassFile(t *testing.T, b *classbuilder.Builder) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Fixture.class")
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunHelloInteger(t *testing.T) {
	b := classbuilder.New()
	nameIndex := b.AddUtf8("main")
	descIndex := b.AddUtf8(classbuilder.MainDescriptor)
	// bipush 42, invokevirtual #1 #2 (System.out.println), return
	code := []byte{0x10, 42, 0xB6, 0x00, 0x01, 0xB1}
	b.AddMethod(nameIndex, descIndex, false, 1, 1, code)

	path := writeClassFile(t, b)
	if err := teenyjvm.Run(path, teenyjvm.Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunMissingMainIsFatal(t *testing.T) {
	b := classbuilder.New()
	nameIndex := b.AddUtf8("notMain")
	descIndex := b.AddUtf8("()V")
	b.AddMethod(nameIndex, descIndex, false, 0, 0, []byte{0xB1})

	path := writeClassFile(t, b)
	if err := teenyjvm.Run(path, teenyjvm.Options{}); err == nil {
		t.Fatal("Run: want error for missing main, got nil")
	}
}

func TestRunRecursiveFactorial(t *testing.T) {
	b := classbuilder.New()

	// factorial(I)I:
	//   iload_0
	//   ifle L_BASE      (n <= 0 -> return 1)
	//   iload_0
	//   iload_0
	//   iconst_1
	//   isub
	//   invokestatic #factorial
	//   imul
	//   ireturn
	// L_BASE:
	//   iconst_1
	//   ireturn
	factNameIndex := b.AddUtf8("factorial")
	factDescIndex := b.AddUtf8("(I)I")
	classNameIndex := b.AddUtf8("Fixture")
	classIndex := b.AddClass(classNameIndex)
	natIndex := b.AddNameAndType(factNameIndex, factDescIndex)
	methodrefIndex := b.AddMethodref(classIndex, natIndex)

	code := []byte{
		0x1A,                         // iload_0
		0x9E, 0x00, 0x0C,             // ifle +12 -> pc 1+12 = 13
		0x1A,                         // iload_0
		0x1A,                         // iload_0
		0x04,                         // iconst_1
		0x64,                         // isub
		0xB8, byte(methodrefIndex >> 8), byte(methodrefIndex), // invokestatic
		0x68, // imul
		0xAC, // ireturn
		0x04, // iconst_1  (base case, pc 13)
		0xAC, // ireturn
	}
	b.AddMethod(factNameIndex, factDescIndex, false, 3, 1, code)

	mainNameIndex := b.AddUtf8("main")
	mainDescIndex := b.AddUtf8(classbuilder.MainDescriptor)
	mainCode := []byte{
		0x10, 5, // bipush 5
		0xB8, byte(methodrefIndex >> 8), byte(methodrefIndex), // invokestatic factorial
		0xB6, 0x00, 0x01, // invokevirtual (print)
		0xB1, // return
	}
	b.AddMethod(mainNameIndex, mainDescIndex, false, 2, 1, mainCode)

	path := writeClassFile(t, b)
	var out bytes.Buffer
	if err := teenyjvm.Run(path, teenyjvm.Options{Output: &out}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "120\n" {
		t.Fatalf("output = %q, want %q", got, "120\n")
	}
}
