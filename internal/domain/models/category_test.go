package models

import (
	"reflect"
	"testing"
)

func TestLastSegment(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a/b/c", "c"},
		{"root", "root"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := LastSegment(tt.path); got != tt.want {
			t.Errorf("LastSegment(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestReplacePathPrefix(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		oldPath string
		newPath string
		want    string
	}{
		{"exact match", "a/b", "a/b", "a/x", "a/x"},
		{"descendant", "a/b/c/d", "a/b", "a/x", "a/x/c/d"},
		{"sibling with shared prefix", "a/bc", "a/b", "a/x", "a/bc"},
		{"unrelated", "z/y", "a/b", "a/x", "z/y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplacePathPrefix(tt.path, tt.oldPath, tt.newPath); got != tt.want {
				t.Errorf("ReplacePathPrefix(%q, %q, %q) = %q, want %q",
					tt.path, tt.oldPath, tt.newPath, got, tt.want)
			}
		})
	}
}

func TestPathMatchesSubtree(t *testing.T) {
	tests := []struct {
		path string
		root string
		want bool
	}{
		{"a/b", "a/b", true},
		{"a/b/c", "a/b", true},
		{"a/bc", "a/b", false},
		{"a", "a/b", false},
	}

	for _, tt := range tests {
		if got := PathMatchesSubtree(tt.path, tt.root); got != tt.want {
			t.Errorf("PathMatchesSubtree(%q, %q) = %v, want %v", tt.path, tt.root, got, tt.want)
		}
	}
}

func TestAncestorPaths(t *testing.T) {
	if got := AncestorPaths(""); got != nil {
		t.Errorf("AncestorPaths(\"\") = %v, want nil", got)
	}

	got := AncestorPaths("a/b/c")
	want := []string{"a", "a/b", "a/b/c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AncestorPaths(\"a/b/c\") = %v, want %v", got, want)
	}
}
