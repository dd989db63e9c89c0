// Package discover implements bounded interesting-class discovery: given
// seed classes, it collects the project classes reachable through type
// references, then explores subclass substitutability down to a configured
// polymorphism depth.
package discover

import (
	"sort"

	"github.com/xonecas/codescope/internal/code"
)

// Classes returns the project classes structurally interesting to the seed
// classes: every type referenced from a seed's API surface that resolves to
// a project class, plus subclasses of those classes explored polyDepth
// levels deep. Seeds themselves are excluded. Unresolvable references are
// skipped silently. The result is deduplicated by qualified name and sorted,
// so discovery is idempotent and independent of seed order.
func Classes(res code.Resolver, seeds []code.ClassRef, polyDepth int) []code.ClassRef {
	return run(res, seeds, code.MethodRef{ID: code.NoMethod}, polyDepth)
}

// ForMethod scopes discovery to one method of the class under test: the
// types referenced inside that method's signature and body are considered
// in addition to the class API surface.
func ForMethod(res code.Resolver, cut code.ClassRef, method code.MethodRef, polyDepth int) []code.ClassRef {
	return run(res, []code.ClassRef{cut}, method, polyDepth)
}

func run(res code.Resolver, seeds []code.ClassRef, method code.MethodRef, polyDepth int) []code.ClassRef {
	if res == nil || len(seeds) == 0 {
		return nil
	}

	// Seeds are marked up front: they never enter the result and reference
	// cycles back into a seed terminate immediately.
	visited := make(map[string]bool)
	for _, seed := range seeds {
		if c := seed.Class(); c != nil {
			visited[c.Qualified] = true
		}
	}

	var out []code.ClassRef

	// expandSubs admits subclasses of an admitted class, depth levels deep.
	// The visited set guarantees termination on cyclic hierarchies.
	var expandSubs func(ref code.ClassRef, depth int)
	expandSubs = func(ref code.ClassRef, depth int) {
		if depth <= 0 {
			return
		}
		c := ref.Class()
		if c == nil {
			return
		}
		for _, sub := range res.Subclasses(c.Qualified) {
			sc := sub.Class()
			if sc == nil || visited[sc.Qualified] {
				continue
			}
			visited[sc.Qualified] = true
			out = append(out, sub)
			expandSubs(sub, depth-1)
		}
	}

	for _, seed := range seeds {
		c := seed.Class()
		if c == nil {
			continue
		}
		names := c.Refs
		if m := method.Method(); m != nil && method.File == seed.File {
			names = append(append([]string{}, names...), m.Refs...)
		}
		for _, name := range names {
			ref, ok := res.ResolveType(name, seed.File)
			if !ok {
				continue
			}
			rc := ref.Class()
			if rc == nil || visited[rc.Qualified] {
				continue
			}
			visited[rc.Qualified] = true
			out = append(out, ref)
			expandSubs(ref, polyDepth)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Class().Qualified < out[j].Class().Qualified
	})
	return out
}
