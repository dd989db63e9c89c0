package code

import (
	"fmt"
	"sort"
	"strings"
)

// MaxOutlineBytes caps the outline so very large projects stay readable.
const MaxOutlineBytes = 16 * 1024

// FormatOutline produces a compact per-file outline of a project snapshot.
// Deterministic: files are sorted, classes and methods stay in declaration
// order. Output is capped at MaxOutlineBytes.
//
// Example output:
//
//	# Project Classes
//	src/org/acme/Server.java:
//	  org.acme.Server (class): Server(int), start(), stop()
func FormatOutline(snap map[string]*File) string {
	if len(snap) == 0 {
		return ""
	}

	paths := make([]string, 0, len(snap))
	for p := range snap {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("# Project Classes\n")

	for _, path := range paths {
		text := formatFileClasses(snap[path])
		if text == "" {
			continue
		}
		entry := fmt.Sprintf("%s:\n%s", path, text)
		if b.Len()+len(entry) > MaxOutlineBytes {
			fmt.Fprintf(&b, "# ... truncated (%d files total)\n", len(paths))
			break
		}
		b.WriteString(entry)
	}
	return b.String()
}

func formatFileClasses(f *File) string {
	if f == nil || len(f.Classes) == 0 {
		return ""
	}
	var b strings.Builder
	for i := range f.Classes {
		c := &f.Classes[i]
		descs := make([]string, 0, len(c.Methods))
		for _, mid := range c.Methods {
			if m := f.Method(mid); m != nil {
				descs = append(descs, m.Desc)
			}
		}
		if len(descs) > 0 {
			fmt.Fprintf(&b, "  %s (%s): %s\n", c.Qualified, c.Kind, strings.Join(descs, ", "))
		} else {
			fmt.Fprintf(&b, "  %s (%s)\n", c.Qualified, c.Kind)
		}
	}
	return b.String()
}
