package code

// SurroundingClass returns the innermost class declaration containing the
// byte offset. Nested classes shadow their enclosing class: the smallest
// containing range wins, ties broken by deepest nesting. The boolean is
// false when no class contains the offset.
func (f *File) SurroundingClass(offset int) (ClassID, bool) {
	if f == nil || offset < 0 {
		return NoClass, false
	}
	best := NoClass
	for i := range f.Classes {
		c := &f.Classes[i]
		if !c.ContainsOffset(offset) {
			continue
		}
		if best == NoClass {
			best = ClassID(i)
			continue
		}
		b := &f.Classes[best]
		size, bestSize := c.EndByte-c.StartByte, b.EndByte-b.StartByte
		if size < bestSize || (size == bestSize && c.Depth > b.Depth) {
			best = ClassID(i)
		}
	}
	return best, best != NoClass
}

// SurroundingMethod returns the method containing the byte offset, scoped to
// the declared methods of the surrounding class. Inherited methods have no
// range in this file and are never candidates. The boolean is false when the
// offset is outside every method.
func (f *File) SurroundingMethod(offset int) (MethodID, bool) {
	cid, ok := f.SurroundingClass(offset)
	if !ok {
		return NoMethod, false
	}
	best := NoMethod
	for _, mid := range f.Class(cid).Methods {
		m := f.Method(mid)
		if !m.ContainsOffset(offset) {
			continue
		}
		if best == NoMethod || m.EndByte-m.StartByte < f.Method(best).EndByte-f.Method(best).StartByte {
			best = mid
		}
	}
	return best, best != NoMethod
}

// SurroundingLine maps the byte offset to its 1-based line number. The
// boolean is false when the offset has no valid mapping.
func (f *File) SurroundingLine(offset int) (int, bool) {
	return f.Line(offset)
}

// ClassesToTest returns the classes relevant at a caret: the innermost
// surrounding class when the caret is inside one, otherwise every top-level
// class of the file in declaration order.
func ClassesToTest(f *File, offset int) []ClassID {
	if f == nil {
		return nil
	}
	if cid, ok := f.SurroundingClass(offset); ok {
		return []ClassID{cid}
	}
	var out []ClassID
	for i := range f.Classes {
		if f.Classes[i].Parent == NoClass {
			out = append(out, ClassID(i))
		}
	}
	return out
}

// ContextLabels returns the display labels describing the code constructs
// around a caret: the surrounding class, the surrounding method when the
// caret is inside one, and the line. A nil file or an offset outside every
// class yields nil, never an error.
func ContextLabels(f *File, offset int) []string {
	if f == nil {
		return nil
	}
	cid, ok := f.SurroundingClass(offset)
	if !ok {
		return nil
	}
	labels := []string{ClassLabel(f.Class(cid))}
	if mid, ok := f.SurroundingMethod(offset); ok {
		labels = append(labels, MethodLabel(f.Class(cid), f.Method(mid)))
	}
	if n, ok := f.Line(offset); ok {
		labels = append(labels, LineLabel(n))
	}
	return labels
}
