package code

import (
	"fmt"
	"strings"
)

// Descriptor returns the erased signature used for overload disambiguation
// and override identity. Stable across calls for the same declaration.
func Descriptor(m *Method) string {
	if m == nil {
		return ""
	}
	return m.Desc
}

// ClassLabel returns the display name for a class declaration.
func ClassLabel(c *Class) string {
	if c == nil {
		return ""
	}
	return "<b>" + c.Name + "</b>"
}

// MethodLabel returns the display name for a method declaration.
// Constructors are labeled by their class, not the method name.
func MethodLabel(c *Class, m *Method) string {
	if m == nil {
		return ""
	}
	params := strings.Join(m.Params, ", ")
	if m.Ctor && c != nil {
		return "<b>constructor " + c.Name + "(" + params + ")</b>"
	}
	return "<b>" + m.Name + "(" + params + ")</b>"
}

// LineLabel returns the display name for a 1-based line number.
func LineLabel(n int) string {
	return fmt.Sprintf("Line %d", n)
}
