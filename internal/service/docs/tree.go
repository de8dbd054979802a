package docs

import (
	"strings"

	"docbase/internal/domain/models"
)

// ParseCategories derives the category tree from a flat document list.
// Nodes are created lazily the first time any path reaches them, in source
// iteration order; each categorized document increments the count of its
// leaf node and every ancestor. Only root nodes are returned (children are
// reachable through the tree). Documents with an empty category are counted
// separately and excluded from the tree.
func ParseCategories(docs []models.Document) (roots []*models.CategoryNode, uncategorized int) {
	index := make(map[string]*models.CategoryNode)

	for _, d := range docs {
		if d.Category == "" {
			uncategorized++
			continue
		}

		var parent *models.CategoryNode
		path := ""
		for _, segment := range strings.Split(d.Category, "/") {
			if path == "" {
				path = segment
			} else {
				path = path + "/" + segment
			}

			node, ok := index[path]
			if !ok {
				node = &models.CategoryNode{Name: segment, Path: path}
				index[path] = node
				if parent == nil {
					roots = append(roots, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}
			node.DocumentCount++
			parent = node
		}
	}

	return roots, uncategorized
}

// MergeStoredCategories grafts explicitly stored category paths onto a
// derived tree, creating any missing node with a zero document count.
// Merging a path that already exists is a no-op, so repeated merges never
// produce duplicate siblings.
func MergeStoredCategories(roots []*models.CategoryNode, storedPaths []string) []*models.CategoryNode {
	index := make(map[string]*models.CategoryNode)
	var walk func(nodes []*models.CategoryNode)
	walk = func(nodes []*models.CategoryNode) {
		for _, n := range nodes {
			index[n.Path] = n
			walk(n.Children)
		}
	}
	walk(roots)

	for _, stored := range storedPaths {
		if stored == "" {
			continue
		}

		var parent *models.CategoryNode
		path := ""
		for _, segment := range strings.Split(stored, "/") {
			if path == "" {
				path = segment
			} else {
				path = path + "/" + segment
			}

			node, ok := index[path]
			if !ok {
				node = &models.CategoryNode{Name: segment, Path: path}
				index[path] = node
				if parent == nil {
					roots = append(roots, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}
			parent = node
		}
	}

	return roots
}
