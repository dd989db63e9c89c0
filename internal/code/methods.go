package code

// AllMethods returns the declared plus inherited methods of a class, walking
// the superclass chain through res. An override shadows its superclass
// counterpart: only one entry per descriptor survives, the most derived one.
// Declared methods come first, in declaration order; constructors are not
// inherited. A nil resolver limits the result to declared methods.
func AllMethods(ref ClassRef, res Resolver) []MethodRef {
	var out []MethodRef
	seen := make(map[string]bool)
	visited := make(map[string]bool)

	cur := ref
	for cur.Valid() {
		c := cur.Class()
		if visited[c.Qualified] {
			break
		}
		visited[c.Qualified] = true

		inherited := cur != ref
		for _, mid := range c.Methods {
			m := cur.File.Method(mid)
			if m == nil || (inherited && m.Ctor) {
				continue
			}
			if seen[m.Desc] {
				continue
			}
			seen[m.Desc] = true
			out = append(out, MethodRef{File: cur.File, ID: mid})
		}

		super, ok := c.SuperName()
		if !ok || res == nil {
			break
		}
		next, ok := res.ResolveType(super, cur.File)
		if !ok {
			break
		}
		cur = next
	}
	return out
}
