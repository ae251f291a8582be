package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErasedName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Map", "Map"},
		{"Map<K,List<V>>", "Map"},
		{"Entry <K>", "Entry"},
		{"a.b.Outer<T>", "a.b.Outer"},
		{"<T>", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErasedName(tt.in), tt.in)
	}
}

func TestSimpleName(t *testing.T) {
	assert.Equal(t, "Inner", SimpleName("Outer.Inner"))
	assert.Equal(t, "Inner", SimpleName("Outer.Inner<T>"))
	assert.Equal(t, "Plain", SimpleName("Plain"))
}

func TestVisibility(t *testing.T) {
	tests := []struct {
		modifiers string
		want      Visibility
	}{
		{"public abstract", VisibilityPublic},
		{"protected static", VisibilityProtected},
		{"private final", VisibilityPrivate},
		{"final", VisibilityPackage},
		{"", VisibilityPackage},
	}
	for _, tt := range tests {
		t.Run(tt.modifiers, func(t *testing.T) {
			sig := ClassSignature{Modifiers: tt.modifiers}
			assert.Equal(t, tt.want, sig.Visibility())
		})
	}
}

func TestHasModifier(t *testing.T) {
	assert.True(t, HasModifier("public  abstract", "abstract"))
	assert.False(t, HasModifier("publicabstract", "public"))
	assert.False(t, HasModifier("", "public"))
}
