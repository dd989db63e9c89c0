// Package code defines the language-agnostic structural model over parsed
// source files. A File owns flat tables of class and method records; every
// cross-reference between them is an index into those tables, not a pointer.
// Adapters in internal/lang populate the model, everything in this package is
// a read-only query over it.
package code

import "sort"

// Kind classifies a class declaration.
type Kind int

const (
	KindClass Kind = iota
	KindAbstractClass
	KindInterface
	KindEnum
	KindRecord
)

// String returns a short label for the class kind.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindAbstractClass:
		return "abstract class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// ClassID and MethodID index into a File's tables.
type ClassID int

// MethodID indexes into File.Methods.
type MethodID int

const (
	// NoClass marks an absent class reference.
	NoClass ClassID = -1
	// NoMethod marks an absent method reference.
	NoMethod MethodID = -1
)

// File is one parsed source file.
type File struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	// Package is the declared package (Java) or the module path derived from
	// the file path (Python). Qualified names are prefixed with it.
	Package string `json:"package,omitempty"`
	// HeaderEnd is the byte offset where the package/import preamble ends.
	// FullText prepends Src[:HeaderEnd] so a class can be reconstructed
	// standalone.
	HeaderEnd int      `json:"header_end,omitempty"`
	Src       []byte   `json:"src"`
	Classes   []Class  `json:"classes,omitempty"`
	Methods   []Method `json:"methods,omitempty"`

	lineStart []int // byte offset of each line start, built lazily
}

// Class is one class/interface/enum/record declaration. Byte ranges are
// [StartByte, EndByte), line ranges are 1-based and inclusive on both ends.
type Class struct {
	Name      string `json:"name"`
	Qualified string `json:"qualified"`
	Kind      Kind   `json:"kind"`
	// Parent is the enclosing class, NoClass for a top-level declaration.
	Parent ClassID `json:"parent"`
	// Depth is the nesting depth, 0 for a top-level declaration.
	Depth int `json:"depth"`
	// Supers lists declared supertype names as written in source, the
	// extends-clause type first. Empty for root types.
	Supers []string `json:"supers,omitempty"`
	// Methods holds declared methods in declaration order.
	Methods []MethodID `json:"methods,omitempty"`
	// Refs lists type names referenced in the class API surface: supertypes,
	// field types and method parameter/return types.
	Refs      []string `json:"refs,omitempty"`
	StartByte int      `json:"start_byte"`
	EndByte   int      `json:"end_byte"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
}

// Method is one method or constructor declaration.
type Method struct {
	Name  string  `json:"name"`
	Class ClassID `json:"class"`
	// Params holds erased parameter type names (Java) or parameter names
	// (Python). Used for display labels.
	Params []string `json:"params,omitempty"`
	// Desc is the adapter-specific erased descriptor used for overload
	// disambiguation and override identity, e.g. "indexOf(String,int)".
	Desc string `json:"desc"`
	// Signature is the source-level signature string.
	Signature string `json:"signature"`
	Ctor      bool   `json:"ctor,omitempty"`
	// Refs lists type names referenced in the method signature and body.
	Refs      []string `json:"refs,omitempty"`
	StartByte int      `json:"start_byte"`
	EndByte   int      `json:"end_byte"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	// BodyStart/BodyEnd delimit the body, both -1 for declarations without
	// one (interface methods, abstract methods).
	BodyStart int `json:"body_start"`
	BodyEnd   int `json:"body_end"`
}

// Class returns the class record for id, or nil when absent.
func (f *File) Class(id ClassID) *Class {
	if f == nil || id < 0 || int(id) >= len(f.Classes) {
		return nil
	}
	return &f.Classes[id]
}

// Method returns the method record for id, or nil when absent.
func (f *File) Method(id MethodID) *Method {
	if f == nil || id < 0 || int(id) >= len(f.Methods) {
		return nil
	}
	return &f.Methods[id]
}

// Text returns the source text of a class declaration.
func (f *File) Text(c *Class) string {
	if f == nil || c == nil || c.StartByte < 0 || c.EndByte > len(f.Src) {
		return ""
	}
	return string(f.Src[c.StartByte:c.EndByte])
}

// FullText returns the class declaration together with the package/import
// preamble of its file, for reconstructing the class standalone.
func (f *File) FullText(c *Class) string {
	body := f.Text(c)
	if f == nil || f.HeaderEnd <= 0 || f.HeaderEnd > len(f.Src) {
		return body
	}
	return string(f.Src[:f.HeaderEnd]) + "\n\n" + body
}

// Body returns the source text of a method body. The boolean is false for
// declarations without a body.
func (f *File) Body(m *Method) (string, bool) {
	if f == nil || m == nil || !m.HasBody() || m.BodyEnd > len(f.Src) {
		return "", false
	}
	return string(f.Src[m.BodyStart:m.BodyEnd]), true
}

// HasBody reports whether the declaration carries a body.
func (m *Method) HasBody() bool {
	return m != nil && m.BodyStart >= 0 && m.BodyEnd >= m.BodyStart
}

// ContainsOffset reports whether the class source range contains the byte
// offset.
func (c *Class) ContainsOffset(offset int) bool {
	return c != nil && offset >= c.StartByte && offset < c.EndByte
}

// ContainsOffset reports whether the method source range contains the byte
// offset.
func (m *Method) ContainsOffset(offset int) bool {
	return m != nil && offset >= m.StartByte && offset < m.EndByte
}

// ContainsLine reports whether the 1-based line falls within the method
// declaration, inclusive on both ends.
func (m *Method) ContainsLine(n int) bool {
	return m != nil && n >= m.StartLine && n <= m.EndLine
}

// ContainsLine reports whether the 1-based line falls within the class
// declaration, inclusive on both ends.
func (c *Class) ContainsLine(n int) bool {
	return c != nil && n >= c.StartLine && n <= c.EndLine
}

// SuperName returns the extends-clause supertype name. The boolean is false
// for root types.
func (c *Class) SuperName() (string, bool) {
	if c == nil || len(c.Supers) == 0 {
		return "", false
	}
	return c.Supers[0], true
}

// Line maps a byte offset to its 1-based line number. The boolean is false
// when the offset has no valid mapping.
func (f *File) Line(offset int) (int, bool) {
	if f == nil || offset < 0 || offset > len(f.Src) {
		return 0, false
	}
	starts := f.lineStarts()
	// First line start greater than offset; the line is the one before it.
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
	return i, true
}

func (f *File) lineStarts() []int {
	if f.lineStart == nil {
		starts := []int{0}
		for i, b := range f.Src {
			if b == '\n' {
				starts = append(starts, i+1)
			}
		}
		f.lineStart = starts
	}
	return f.lineStart
}

// ClassRef addresses a class across files.
type ClassRef struct {
	File *File
	ID   ClassID
}

// Valid reports whether the reference resolves to a class record.
func (r ClassRef) Valid() bool {
	return r.File.Class(r.ID) != nil
}

// Class returns the referenced class record, or nil.
func (r ClassRef) Class() *Class {
	return r.File.Class(r.ID)
}

// MethodRef addresses a method across files.
type MethodRef struct {
	File *File
	ID   MethodID
}

// Valid reports whether the reference resolves to a method record.
func (r MethodRef) Valid() bool {
	return r.File.Method(r.ID) != nil
}

// Method returns the referenced method record, or nil.
func (r MethodRef) Method() *Method {
	return r.File.Method(r.ID)
}

// Resolver resolves type reference names against a project and answers
// subclass queries. internal/project provides the real implementation; tests
// substitute fakes.
type Resolver interface {
	// ResolveType maps a type name as written in from to a project class.
	// The boolean is false for library types, primitives and anything else
	// that does not resolve inside the project.
	ResolveType(name string, from *File) (ClassRef, bool)

	// Subclasses returns the project classes that declare the class with the
	// given qualified name among their supertypes.
	Subclasses(qualified string) []ClassRef
}
