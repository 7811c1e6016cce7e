// Package resolve turns influence endpoint references into canonical
// fully-qualified variable paths.
package resolve

import (
	"sort"

	"github.com/gyxcit/simdecision/internal/model"
)

// ShortNameIndex maps a bare component name to the fully-qualified paths
// that expose it, sorted lexicographically so ambiguous lookups resolve the
// same way on every pass.
type ShortNameIndex map[string][]string

// BuildIndex scans the model and indexes every component by its bare name.
func BuildIndex(m *model.SystemModel) ShortNameIndex {
	idx := make(ShortNameIndex)
	for entityName, e := range m.Entities {
		for compName := range e.Components {
			idx[compName] = append(idx[compName], model.JoinPath(entityName, compName))
		}
	}
	for name := range idx {
		sort.Strings(idx[name])
	}
	return idx
}

// Resolve maps an influence endpoint reference to a fully-qualified path.
// owningEntity and ownComponent identify the component holding the
// influence. Resolution order:
//
//  1. An already-qualified reference that exists in the model is returned
//     unchanged.
//  2. The "self" sentinel, or the local component's own bare name, resolves
//     to the local component.
//  3. A bare name that exists in the owning entity resolves there
//     (same-entity priority).
//  4. Otherwise the global short-name index is consulted; the first path in
//     sorted order wins. Callers needing determinism across renames should
//     use fully-qualified references.
//  5. Anything else is unresolved; ok is false.
func Resolve(m *model.SystemModel, from, owningEntity, ownComponent string, idx ShortNameIndex) (path string, ok bool) {
	if model.IsQualified(from) {
		if m.HasPath(from) {
			return from, true
		}
		return "", false
	}

	if from == model.SelfRef || from == ownComponent {
		return model.JoinPath(owningEntity, ownComponent), true
	}

	local := model.JoinPath(owningEntity, from)
	if m.HasPath(local) {
		return local, true
	}

	if paths := idx[from]; len(paths) > 0 {
		return paths[0], true
	}

	return "", false
}
