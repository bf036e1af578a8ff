// Package composite provides structural value objects: immutable, opaque
// values that compare by deep structural equality rather than by identity,
// plus map and set containers that use that equality for composite keys.
//
// A composite is built once from structured input and never changes:
//
//	a := composite.MustNew(map[string]any{"id": 1, "kind": "user"})
//	b := composite.MustNew(composite.Fields{{"kind", "user"}, {"id", 1}})
//	composite.Equal(a, b) // true, key order is irrelevant
//
//	pair := composite.Of(1, 2) // ordinal composite: {"0": 1, "1": 2, "length": 2}
//
// Containers treat a composite key as a structural probe and every other key
// by identity:
//
//	m := composite.NewMap[int]()
//	m.Set(composite.Of("x", 1), 10)
//	v, ok := m.Get(composite.Of("x", 1)) // 10, true
//
// Leaf values (anything that is not a composite) compare with strict
// same-value semantics: NaN equals NaN, +0 and -0 differ, pointers, slices,
// maps, channels and funcs compare by reference, structs and arrays compare
// field by field.
//
// Composites are tracked in a process-wide registry that holds them weakly;
// an unreferenced composite and its registry entry are reclaimed by the
// garbage collector. Values built by another copy of this package (for
// example a vendored fork) are never composites here.
//
// Composites cannot form cycles: a composite only references composites that
// existed before it, and mutable leaves such as maps and pointers compare by
// reference without being walked. Equal and Hash therefore always terminate.
package composite
