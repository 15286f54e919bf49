package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("Senior Go Engineer, Node.js and AWS")

	assert.Equal(t, "Senior Go Engineer, Node.js and AWS", doc.Raw)
	assert.Equal(t, "senior go engineer, node.js and aws", doc.Normalized)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "PYTHON", "python"},
		{"keeps punctuation", "C++ / Node.JS", "c++ / node.js"},
		{"keeps whitespace", "Machine  Learning\n", "machine  learning\n"},
		{"unicode", "ÉCOLE", "école"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize("Kubernetes and Docker")
	assert.Equal(t, once, Normalize(once))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \n\t"))
	assert.False(t, IsBlank(" x "))
}

func TestFoldSet(t *testing.T) {
	set := FoldSet([]string{"Go", "GO", "Python"})

	assert.Len(t, set, 2)
	assert.Contains(t, set, "go")
	assert.Contains(t, set, "python")
}
