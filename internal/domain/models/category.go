package models

import (
	"strings"
	"time"
)

// UncategorizedFilter is the reserved filter sentinel selecting documents
// with no category. It is never a valid category path.
const UncategorizedFilter = "__uncategorized__"

// StoredCategory is an explicitly created category record. Explicit records
// keep empty folders visible before any document lands in them. Name always
// equals the last segment of Path.
type StoredCategory struct {
	ID        string    `json:"id" db:"id"`
	Path      string    `json:"path" db:"path"`
	Name      string    `json:"name" db:"name"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CategoryNode is an in-memory tree node derived from category paths.
// It is rebuilt from the flat document and category lists on every read and
// never persisted.
type CategoryNode struct {
	Name          string          `json:"name"`
	Path          string          `json:"path"`
	Children      []*CategoryNode `json:"children"`
	DocumentCount int             `json:"document_count"`
}

// LastSegment returns the final segment of a category path.
func LastSegment(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// ReplacePathPrefix rewrites a category path after a rename of oldPath to
// newPath. Paths equal to oldPath become newPath; strict descendants keep
// their suffix below the new prefix. Other paths are returned unchanged.
func ReplacePathPrefix(path, oldPath, newPath string) string {
	if path == oldPath {
		return newPath
	}
	if strings.HasPrefix(path, oldPath+"/") {
		return newPath + strings.TrimPrefix(path, oldPath)
	}
	return path
}

// PathMatchesSubtree reports whether path equals root or descends from it.
func PathMatchesSubtree(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+"/")
}

// AncestorPaths lists every prefix path of a category from root to leaf,
// inclusive: "a/b/c" yields ["a", "a/b", "a/b/c"].
func AncestorPaths(path string) []string {
	if path == "" {
		return nil
	}
	segments := strings.Split(path, "/")
	paths := make([]string, 0, len(segments))
	current := ""
	for _, seg := range segments {
		if current == "" {
			current = seg
		} else {
			current = current + "/" + seg
		}
		paths = append(paths, current)
	}
	return paths
}
