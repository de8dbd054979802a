package docs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"docbase/internal/domain"
	"docbase/internal/domain/models"
	"docbase/internal/domain/repositories"
)

// callLog records repository calls so tests can assert mutation ordering.
type callLog struct {
	calls []string
}

func (l *callLog) record(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeDocumentRepo struct {
	log    *callLog
	docs   map[string]*models.Document
	nextID int
	failOn string
}

func newFakeDocumentRepo(log *callLog) *fakeDocumentRepo {
	return &fakeDocumentRepo{log: log, docs: make(map[string]*models.Document)}
}

func (r *fakeDocumentRepo) fail(op string) error {
	if r.failOn == op {
		return &domain.BackendError{Op: op, Cause: fmt.Errorf("simulated failure")}
	}
	return nil
}

func (r *fakeDocumentRepo) Insert(ctx context.Context, doc *models.Document) error {
	r.log.record("doc.Insert")
	if err := r.fail("insert"); err != nil {
		return err
	}
	r.nextID++
	doc.ID = fmt.Sprintf("doc-%d", r.nextID)
	doc.CreatedAt = time.Now()
	stored := *doc
	r.docs[doc.ID] = &stored
	return nil
}

func (r *fakeDocumentRepo) Get(ctx context.Context, id string) (*models.Document, error) {
	r.log.record("doc.Get %s", id)
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) List(ctx context.Context, includeDeleted bool) ([]models.Document, error) {
	r.log.record("doc.List")
	var out []models.Document
	for _, d := range r.docs {
		if !includeDeleted && d.Status == models.StatusDeleted {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeDocumentRepo) ListByCategorySubtree(ctx context.Context, path string) ([]models.Document, error) {
	r.log.record("doc.ListByCategorySubtree %s", path)
	var out []models.Document
	for _, d := range r.docs {
		if models.PathMatchesSubtree(d.Category, path) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDocumentRepo) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	r.log.record("doc.UpdateStatus %s %s", id, status)
	if err := r.fail("update_status"); err != nil {
		return err
	}
	doc, ok := r.docs[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc.Status = status
	return nil
}

func (r *fakeDocumentRepo) UpdateCategory(ctx context.Context, id, category string) error {
	r.log.record("doc.UpdateCategory %s %s", id, category)
	doc, ok := r.docs[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc.Category = category
	return nil
}

func (r *fakeDocumentRepo) UpdateHeader(ctx context.Context, id string, update models.DocumentHeaderUpdate) error {
	r.log.record("doc.UpdateHeader %s", id)
	doc, ok := r.docs[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	if update.Title != nil {
		doc.Title = *update.Title
	}
	if update.Category != nil {
		doc.Category = *update.Category
	}
	if update.StoragePath != nil {
		doc.StoragePath = *update.StoragePath
		doc.Filename = models.FilenameFromStoragePath(*update.StoragePath)
	}
	if update.Size != nil {
		doc.Size = *update.Size
	}
	if update.Status != nil {
		doc.Status = *update.Status
	}
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id string) error {
	r.log.record("doc.Delete %s", id)
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

type fakeVersionRepo struct {
	log      *callLog
	versions map[string]*models.DocumentVersion
	order    []string
	nextID   int
	failOn   string
}

func newFakeVersionRepo(log *callLog) *fakeVersionRepo {
	return &fakeVersionRepo{log: log, versions: make(map[string]*models.DocumentVersion)}
}

func (r *fakeVersionRepo) fail(op string) error {
	if r.failOn == op {
		return &domain.BackendError{Op: op, Cause: fmt.Errorf("simulated failure")}
	}
	return nil
}

func (r *fakeVersionRepo) Insert(ctx context.Context, v *models.DocumentVersion) error {
	r.log.record("ver.Insert %s", v.Label)
	if err := r.fail("insert"); err != nil {
		return err
	}
	r.nextID++
	v.ID = fmt.Sprintf("ver-%d", r.nextID)
	v.CreatedAt = time.Now()
	stored := *v
	r.versions[v.ID] = &stored
	r.order = append(r.order, v.ID)
	return nil
}

func (r *fakeVersionRepo) Get(ctx context.Context, id string) (*models.DocumentVersion, error) {
	r.log.record("ver.Get %s", id)
	v, ok := r.versions[id]
	if !ok {
		return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
	}
	copied := *v
	return &copied, nil
}

func (r *fakeVersionRepo) ListByDocumentIDs(ctx context.Context, documentIDs []string) ([]models.DocumentVersion, error) {
	r.log.record("ver.ListByDocumentIDs")
	want := make(map[string]bool, len(documentIDs))
	for _, id := range documentIDs {
		want[id] = true
	}
	var out []models.DocumentVersion
	for _, id := range r.order {
		if v := r.versions[id]; want[v.DocumentID] {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVersionRepo) CountByDocument(ctx context.Context, documentID string) (int, error) {
	r.log.record("ver.CountByDocument %s", documentID)
	count := 0
	for _, v := range r.versions {
		if v.DocumentID == documentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeVersionRepo) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	r.log.record("ver.UpdateStatus %s %s", id, status)
	if err := r.fail("update_status"); err != nil {
		return err
	}
	v, ok := r.versions[id]
	if !ok {
		return fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
	}
	v.Status = status
	return nil
}

func (r *fakeVersionRepo) UpdateStatusByIDs(ctx context.Context, ids []string, status models.Status) error {
	r.log.record("ver.UpdateStatusByIDs %v %s", ids, status)
	for _, id := range ids {
		if v, ok := r.versions[id]; ok {
			v.Status = status
		}
	}
	return nil
}

func (r *fakeVersionRepo) UpdateStatusByDocument(ctx context.Context, documentID string, status models.Status) error {
	r.log.record("ver.UpdateStatusByDocument %s %s", documentID, status)
	for _, v := range r.versions {
		if v.DocumentID == documentID {
			v.Status = status
		}
	}
	return nil
}

func (r *fakeVersionRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	r.log.record("ver.DeleteByDocument %s", documentID)
	for id, v := range r.versions {
		if v.DocumentID == documentID {
			delete(r.versions, id)
		}
	}
	return nil
}

type fakeCategoryRepo struct {
	log    *callLog
	byPath map[string]*models.StoredCategory
	nextID int
}

func newFakeCategoryRepo(log *callLog) *fakeCategoryRepo {
	return &fakeCategoryRepo{log: log, byPath: make(map[string]*models.StoredCategory)}
}

func (r *fakeCategoryRepo) Upsert(ctx context.Context, cat *models.StoredCategory) error {
	r.log.record("cat.Upsert %s", cat.Path)
	if existing, ok := r.byPath[cat.Path]; ok {
		*cat = *existing
		return nil
	}
	r.nextID++
	cat.ID = fmt.Sprintf("cat-%d", r.nextID)
	cat.CreatedAt = time.Now()
	stored := *cat
	r.byPath[cat.Path] = &stored
	return nil
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]models.StoredCategory, error) {
	r.log.record("cat.List")
	var out []models.StoredCategory
	for _, c := range r.byPath {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (r *fakeCategoryRepo) ListSubtree(ctx context.Context, path string) ([]models.StoredCategory, error) {
	r.log.record("cat.ListSubtree %s", path)
	var out []models.StoredCategory
	for _, c := range r.byPath {
		if models.PathMatchesSubtree(c.Path, path) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (r *fakeCategoryRepo) UpdatePath(ctx context.Context, id, path, name string) error {
	r.log.record("cat.UpdatePath %s %s", id, path)
	for old, c := range r.byPath {
		if c.ID == id {
			delete(r.byPath, old)
			c.Path = path
			c.Name = name
			r.byPath[path] = c
			return nil
		}
	}
	return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
}

func (r *fakeCategoryRepo) DeleteSubtree(ctx context.Context, path string) error {
	r.log.record("cat.DeleteSubtree %s", path)
	for p := range r.byPath {
		if models.PathMatchesSubtree(p, path) {
			delete(r.byPath, p)
		}
	}
	return nil
}

type fakeBlobStore struct {
	log     *callLog
	failing bool
}

func (b *fakeBlobStore) Store(ctx context.Context, objectPath string, contentType string, rd io.Reader) (string, error) {
	b.log.record("blob.Store %s", objectPath)
	if b.failing {
		return "", &domain.BackendError{Op: "write blob", Cause: fmt.Errorf("simulated failure")}
	}
	io.Copy(io.Discard, rd)
	return "bucket/" + objectPath, nil
}

func (b *fakeBlobStore) PublicURL(storagePath string) string {
	return "https://files.example.com/" + storagePath
}

type fakeNotifier struct {
	log      *callLog
	events   []repositories.DocumentEvent
	pages    [][]repositories.PagePayload
	sendErr  error
	eventErr error
}

func (n *fakeNotifier) NotifyDocument(ctx context.Context, event repositories.DocumentEvent) error {
	n.log.record("notify.Document %s", event.DocumentID)
	if n.eventErr != nil {
		return n.eventErr
	}
	n.events = append(n.events, event)
	return nil
}

func (n *fakeNotifier) SendPages(ctx context.Context, pages []repositories.PagePayload) error {
	n.log.record("notify.Pages %d", len(pages))
	if n.sendErr != nil {
		return n.sendErr
	}
	n.pages = append(n.pages, pages)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
