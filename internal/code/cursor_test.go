package code

import (
	"strings"
	"testing"
)

// fixtureFile hand-builds the model for:
//
//	class Outer {
//	  class Inner {
//	    void m() { int x; }
//	  }
//	  void o() { }
//	}
func fixtureFile(t *testing.T) *File {
	t.Helper()
	src := "class Outer {\n" +
		"  class Inner {\n" +
		"    void m() { int x; }\n" +
		"  }\n" +
		"  void o() { }\n" +
		"}\n"

	idx := func(sub string) int {
		t.Helper()
		i := strings.Index(src, sub)
		if i < 0 {
			t.Fatalf("fixture: %q not found", sub)
		}
		return i
	}

	f := &File{
		Path:     "Outer.java",
		Language: "java",
		Src:      []byte(src),
	}
	f.Classes = []Class{
		{
			Name: "Outer", Qualified: "Outer", Parent: NoClass, Depth: 0,
			Methods:   []MethodID{1},
			StartByte: 0, EndByte: len(src) - 1,
			StartLine: 1, EndLine: 6,
		},
		{
			Name: "Inner", Qualified: "Outer.Inner", Parent: 0, Depth: 1,
			Methods:   []MethodID{0},
			StartByte: idx("class Inner"), EndByte: idx("  }") + 3,
			StartLine: 2, EndLine: 4,
		},
	}
	f.Methods = []Method{
		{
			Name: "m", Class: 1, Desc: "m()", Signature: "void m()",
			StartByte: idx("void m()"), EndByte: idx("int x; }") + 8,
			StartLine: 3, EndLine: 3,
			BodyStart: idx("{ int x; }"), BodyEnd: idx("int x; }") + 8,
		},
		{
			Name: "o", Class: 0, Desc: "o()", Signature: "void o()",
			StartByte: idx("void o()"), EndByte: idx("void o() { }") + 12,
			StartLine: 5, EndLine: 5,
			BodyStart: idx("{ }"), BodyEnd: idx("{ }") + 3,
		},
	}
	return f
}

func TestSurroundingClass_InnermostWins(t *testing.T) {
	f := fixtureFile(t)
	offset := strings.Index(string(f.Src), "int x")

	cid, ok := f.SurroundingClass(offset)
	if !ok {
		t.Fatal("expected a surrounding class")
	}
	if got := f.Class(cid).Name; got != "Inner" {
		t.Errorf("surrounding class = %q, want Inner", got)
	}
}

func TestSurroundingClass_OuterBody(t *testing.T) {
	f := fixtureFile(t)
	offset := strings.Index(string(f.Src), "void o")

	cid, ok := f.SurroundingClass(offset)
	if !ok {
		t.Fatal("expected a surrounding class")
	}
	if got := f.Class(cid).Name; got != "Outer" {
		t.Errorf("surrounding class = %q, want Outer", got)
	}
}

func TestSurroundingClass_Absence(t *testing.T) {
	f := fixtureFile(t)

	if _, ok := f.SurroundingClass(-1); ok {
		t.Error("negative offset should have no surrounding class")
	}
	if _, ok := f.SurroundingClass(len(f.Src) + 10); ok {
		t.Error("out-of-range offset should have no surrounding class")
	}

	var nilFile *File
	if _, ok := nilFile.SurroundingClass(0); ok {
		t.Error("nil file should have no surrounding class")
	}
}

func TestSurroundingMethod(t *testing.T) {
	f := fixtureFile(t)

	offset := strings.Index(string(f.Src), "int x")
	mid, ok := f.SurroundingMethod(offset)
	if !ok {
		t.Fatal("expected a surrounding method")
	}
	if got := f.Method(mid).Name; got != "m" {
		t.Errorf("surrounding method = %q, want m", got)
	}

	// Between Inner's closing brace and o's declaration: class but no method.
	offset = strings.Index(string(f.Src), "class Inner")
	if _, ok := f.SurroundingMethod(offset); ok {
		t.Error("class keyword offset should have no surrounding method")
	}
}

func TestSurroundingLine(t *testing.T) {
	f := fixtureFile(t)

	n, ok := f.SurroundingLine(strings.Index(string(f.Src), "int x"))
	if !ok || n != 3 {
		t.Errorf("line = %d (ok=%v), want 3", n, ok)
	}
	n, ok = f.SurroundingLine(0)
	if !ok || n != 1 {
		t.Errorf("line at offset 0 = %d (ok=%v), want 1", n, ok)
	}
	if _, ok := f.SurroundingLine(-1); ok {
		t.Error("negative offset should have no line")
	}
	if _, ok := f.SurroundingLine(len(f.Src) + 1); ok {
		t.Error("out-of-range offset should have no line")
	}
}

func TestContainsLine_InclusiveBounds(t *testing.T) {
	m := &Method{StartLine: 3, EndLine: 5}

	for _, n := range []int{3, 4, 5} {
		if !m.ContainsLine(n) {
			t.Errorf("ContainsLine(%d) = false, want true", n)
		}
	}
	for _, n := range []int{2, 6} {
		if m.ContainsLine(n) {
			t.Errorf("ContainsLine(%d) = true, want false", n)
		}
	}
}

func TestBody(t *testing.T) {
	f := fixtureFile(t)

	body, ok := f.Body(f.Method(0))
	if !ok {
		t.Fatal("expected a body")
	}
	if body != "{ int x; }" {
		t.Errorf("body = %q", body)
	}

	noBody := &Method{BodyStart: -1, BodyEnd: -1}
	if _, ok := f.Body(noBody); ok {
		t.Error("bodyless method should report no body")
	}
}

func TestContextLabels(t *testing.T) {
	f := fixtureFile(t)

	labels := ContextLabels(f, strings.Index(string(f.Src), "int x"))
	want := []string{"<b>Inner</b>", "<b>m()</b>", "Line 3"}
	if len(labels) != len(want) {
		t.Fatalf("labels = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestContextLabels_Absence(t *testing.T) {
	if got := ContextLabels(nil, 0); got != nil {
		t.Errorf("nil file labels = %v, want nil", got)
	}
	f := fixtureFile(t)
	if got := ContextLabels(f, -1); got != nil {
		t.Errorf("absent caret labels = %v, want nil", got)
	}
}

func TestClassesToTest(t *testing.T) {
	f := fixtureFile(t)

	got := ClassesToTest(f, strings.Index(string(f.Src), "int x"))
	if len(got) != 1 || f.Class(got[0]).Name != "Inner" {
		t.Errorf("caret in Inner: got %v", got)
	}

	// Caret outside every class: all top-level classes.
	got = ClassesToTest(f, -1)
	if len(got) != 1 || f.Class(got[0]).Name != "Outer" {
		t.Errorf("caret outside: got %v", got)
	}
}
