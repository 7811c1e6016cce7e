package model

import "strings"

// SelfRef is the sentinel an influence may use to reference the component
// it is attached to.
const SelfRef = "self"

// JoinPath builds the fully-qualified path "Entity.Component".
func JoinPath(entity, component string) string {
	return entity + "." + component
}

// SplitPath splits a fully-qualified path into entity and component names.
// Component names may not contain dots; the first dot separates the two.
func SplitPath(path string) (entity, component string, ok bool) {
	i := strings.Index(path, ".")
	if i <= 0 || i == len(path)-1 {
		return "", "", false
	}
	return path[:i], path[i+1:], true
}

// IsQualified reports whether a reference already has the
// "Entity.Component" shape.
func IsQualified(ref string) bool {
	_, _, ok := SplitPath(ref)
	return ok
}

// EntityPrefix returns the prefix that all paths inside the entity share.
func EntityPrefix(entity string) string {
	return entity + "."
}
