package java

import "strings"

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

// Modifier tags used by the import graph for nodes that are not classes.
const (
	ModifierPackage = "package"
	ModifierFile    = "file"
)

// ClassSignature is one class declaration recognized in a source file.
type ClassSignature struct {
	Package      string
	SimpleName   string
	DeclaredName string
	FullName     string
	Modifiers    string
	SuperClasses []string
	Interfaces   []string
	File         string
	Path         string
	Line         int
}

func (s ClassSignature) HasModifier(mod string) bool {
	return HasModifier(s.Modifiers, mod)
}

func (s ClassSignature) Visibility() Visibility {
	switch {
	case s.HasModifier("public"):
		return VisibilityPublic
	case s.HasModifier("protected"):
		return VisibilityProtected
	case s.HasModifier("private"):
		return VisibilityPrivate
	}
	return VisibilityPackage
}

// ImportSet is what the import graph mode extracts from one file.
type ImportSet struct {
	Package string
	File    string
	Path    string
	Imports []string
}

// HasModifier reports whether the space separated modifier list contains mod.
func HasModifier(modifiers, mod string) bool {
	for _, m := range strings.Fields(modifiers) {
		if m == mod {
			return true
		}
	}
	return false
}

// ErasedName strips generic parameters from a type name:
// Map<K,List<V>> becomes Map.
func ErasedName(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return name
}

// SimpleName returns the last dot separated element of a qualified name.
func SimpleName(name string) string {
	name = ErasedName(name)
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
