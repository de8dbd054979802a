package docs

import (
	"testing"
	"time"

	"docbase/internal/domain/models"
)

func projDoc(id, title, filename string, status models.Status, category string, created time.Time) models.Document {
	return models.Document{
		ID:       id,
		Title:    title,
		Filename: filename,
		Category: category,
		CurrentVersion: models.DocumentVersion{
			ID:        "v-" + id,
			Status:    status,
			CreatedAt: created,
		},
	}
}

func ids(docs []models.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestProjectDocumentsFilters(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	all := []models.Document{
		projDoc("1", "Pump manual", "pump_manual.pdf", models.StatusActive, "Manuals", base),
		projDoc("2", "Valve sheet", "valve.xlsx", models.StatusPending, "Manuals/Hydraulics", base.Add(time.Hour)),
		projDoc("3", "Old drawing", "drawing.pdf", models.StatusDeleted, "", base.Add(2*time.Hour)),
		projDoc("4", "Notes", "notes.txt", models.StatusInactive, "", base.Add(3*time.Hour)),
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"deleted excluded by default", Filter{}, []string{"4", "2", "1"}},
		{"show deleted includes", Filter{ShowDeleted: true}, []string{"3", "4", "2", "1"}},
		{"status pending", Filter{Status: "pending"}, []string{"2"}},
		{"status all", Filter{Status: "all"}, []string{"4", "2", "1"}},
		{"search matches title", Filter{Search: "pump"}, []string{"1"}},
		{"search matches filename", Filter{Search: "VALVE"}, []string{"2"}},
		{"extension filter", Filter{Extension: "pdf"}, []string{"1"}},
		{"category subtree", Filter{Category: "Manuals"}, []string{"2", "1"}},
		{"category exact child", Filter{Category: "Manuals/Hydraulics"}, []string{"2"}},
		{"uncategorized sentinel", Filter{Category: models.UncategorizedFilter}, []string{"4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(ProjectDocuments(all, tt.filter, Sort{Field: SortByDate, Direction: SortDesc}))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestProjectDocumentsSortStability(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	all := []models.Document{
		projDoc("first", "Same", "a.pdf", models.StatusActive, "", ts),
		projDoc("second", "Same", "b.pdf", models.StatusActive, "", ts),
		projDoc("third", "Same", "c.pdf", models.StatusActive, "", ts),
	}

	got := ids(ProjectDocuments(all, Filter{}, Sort{Field: SortByTitle, Direction: SortAsc}))
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("equal keys reordered: got %v, want %v", got, want)
		}
	}
}

func TestProjectDocumentsTitleSortAscDesc(t *testing.T) {
	ts := time.Now()
	all := []models.Document{
		projDoc("b", "Beta", "b.pdf", models.StatusActive, "", ts),
		projDoc("a", "Alpha", "a.pdf", models.StatusActive, "", ts),
		projDoc("c", "Gamma", "c.pdf", models.StatusActive, "", ts),
	}

	asc := ids(ProjectDocuments(all, Filter{}, Sort{Field: SortByTitle, Direction: SortAsc}))
	if asc[0] != "a" || asc[2] != "c" {
		t.Errorf("asc order = %v", asc)
	}

	desc := ids(ProjectDocuments(all, Filter{}, Sort{Field: SortByTitle, Direction: SortDesc}))
	if desc[0] != "c" || desc[2] != "a" {
		t.Errorf("desc order = %v", desc)
	}
}

func TestCountByStatus(t *testing.T) {
	ts := time.Now()
	all := []models.Document{
		projDoc("1", "", "", models.StatusActive, "", ts),
		projDoc("2", "", "", models.StatusActive, "", ts),
		projDoc("3", "", "", models.StatusPending, "", ts),
		projDoc("4", "", "", models.StatusInactive, "", ts),
		projDoc("5", "", "", models.StatusDeleted, "", ts),
	}

	counts := CountByStatus(all)
	if counts.All != 5 || counts.Active != 2 || counts.Pending != 1 ||
		counts.Inactive != 1 || counts.Deleted != 1 {
		t.Errorf("counts = %+v", counts)
	}
}
