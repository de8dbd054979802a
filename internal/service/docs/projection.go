package docs

import (
	"sort"
	"strings"

	"docbase/internal/domain/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField selects the projection sort key.
type SortField string

const (
	SortByDate      SortField = "date"
	SortByTitle     SortField = "title"
	SortByFilename  SortField = "filename"
	SortByExtension SortField = "extension"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Filter narrows the projected document list. Zero values ("" / "all")
// disable the corresponding filter.
type Filter struct {
	Search      string
	Status      string // "all" or a models.Status value
	Extension   string // "all" or a lower-cased extension
	Category    string // "", a category path, or models.UncategorizedFilter
	ShowDeleted bool
}

// Sort describes the projection ordering.
type Sort struct {
	Field     SortField
	Direction SortDirection
}

// StatusCounts is the per-status breakdown over the unfiltered set.
type StatusCounts struct {
	All      int `json:"all"`
	Active   int `json:"active"`
	Pending  int `json:"pending"`
	Inactive int `json:"inactive"`
	Deleted  int `json:"deleted"`
}

// Document titles and filenames sort by Swedish collation rules.
var textCollator = collate.New(language.Swedish)

// ProjectDocuments filters and sorts the document collection for display.
// The sort is stable: documents that compare equal keep their input order.
func ProjectDocuments(docs []models.Document, filter Filter, s Sort) []models.Document {
	result := make([]models.Document, 0, len(docs))

	search := strings.ToLower(filter.Search)
	for _, d := range docs {
		if !filter.ShowDeleted && d.CurrentVersion.Status == models.StatusDeleted {
			continue
		}

		switch {
		case filter.Category == models.UncategorizedFilter:
			if d.Category != "" {
				continue
			}
		case filter.Category != "":
			if !models.PathMatchesSubtree(d.Category, filter.Category) {
				continue
			}
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(d.Title), search) &&
			!strings.Contains(strings.ToLower(d.Filename), search) {
			continue
		}

		if filter.Status != "" && filter.Status != "all" &&
			string(d.CurrentVersion.Status) != filter.Status {
			continue
		}

		if filter.Extension != "" && filter.Extension != "all" &&
			models.ExtensionOf(d.Filename) != filter.Extension {
			continue
		}

		result = append(result, d)
	}

	sort.SliceStable(result, func(i, j int) bool {
		cmp := compareDocuments(result[i], result[j], s.Field)
		if s.Direction == SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})

	return result
}

func compareDocuments(a, b models.Document, field SortField) int {
	switch field {
	case SortByTitle:
		return textCollator.CompareString(a.Title, b.Title)
	case SortByFilename:
		return textCollator.CompareString(a.Filename, b.Filename)
	case SortByExtension:
		return textCollator.CompareString(models.ExtensionOf(a.Filename), models.ExtensionOf(b.Filename))
	default: // SortByDate
		au, bu := a.CurrentVersion.CreatedAt, b.CurrentVersion.CreatedAt
		switch {
		case au.Before(bu):
			return -1
		case au.After(bu):
			return 1
		}
		return 0
	}
}

// CountByStatus tallies current-version statuses over the full unfiltered
// set, independent of any active projection.
func CountByStatus(docs []models.Document) StatusCounts {
	counts := StatusCounts{All: len(docs)}
	for _, d := range docs {
		switch d.CurrentVersion.Status {
		case models.StatusActive:
			counts.Active++
		case models.StatusPending:
			counts.Pending++
		case models.StatusInactive:
			counts.Inactive++
		case models.StatusDeleted:
			counts.Deleted++
		}
	}
	return counts
}
