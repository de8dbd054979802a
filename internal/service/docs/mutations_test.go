package docs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"docbase/internal/config"
	"docbase/internal/domain"
	"docbase/internal/domain/models"
	"docbase/internal/domain/services"
	"docbase/internal/filetypes"
)

type fixture struct {
	log      *callLog
	docRepo  *fakeDocumentRepo
	verRepo  *fakeVersionRepo
	catRepo  *fakeCategoryRepo
	blobs    *fakeBlobStore
	notifier *fakeNotifier
}

func newFixture(t *testing.T, mode config.DeletionMode) (services.DocumentService, *fixture) {
	t.Helper()

	log := &callLog{}
	f := &fixture{
		log:      log,
		docRepo:  newFakeDocumentRepo(log),
		verRepo:  newFakeVersionRepo(log),
		catRepo:  newFakeCategoryRepo(log),
		blobs:    &fakeBlobStore{log: log},
		notifier: &fakeNotifier{log: log},
	}

	registry, err := filetypes.NewRegistry()
	if err != nil {
		t.Fatalf("file type registry: %v", err)
	}

	svc := NewDocumentService(
		f.docRepo, f.verRepo, f.catRepo, f.blobs, f.notifier,
		registry, mode, testLogger(),
	)
	return svc, f
}

func uploadReq(filename string) *services.UploadRequest {
	return &services.UploadRequest{
		File:     strings.NewReader("file-bytes"),
		Filename: filename,
		Size:     10,
		Category: "Manuals",
		OwnerID:  "user-1",
	}
}

// callIndex returns the position of the first call starting with prefix.
func callIndex(t *testing.T, log *callLog, prefix string) int {
	t.Helper()
	for i, c := range log.calls {
		if strings.HasPrefix(c, prefix) {
			return i
		}
	}
	t.Fatalf("no call with prefix %q in %v", prefix, log.calls)
	return -1
}

func TestUploadOrderAndState(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)

	doc, err := svc.Upload(context.Background(), uploadReq("pump_manual.pdf"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	// Blob first, then header, then version
	if !(callIndex(t, f.log, "blob.Store") < callIndex(t, f.log, "doc.Insert") &&
		callIndex(t, f.log, "doc.Insert") < callIndex(t, f.log, "ver.Insert")) {
		t.Errorf("wrong call order: %v", f.log.calls)
	}

	if doc.Status != models.StatusPending {
		t.Errorf("document status = %s, want pending", doc.Status)
	}
	if doc.Title != "Pump manual" {
		t.Errorf("derived title = %q", doc.Title)
	}
	if doc.CurrentVersion.Label != "1.0" || doc.CurrentVersion.Status != models.StatusPending {
		t.Errorf("first version = %+v", doc.CurrentVersion)
	}

	if len(f.notifier.events) != 1 {
		t.Fatalf("notifications = %d, want 1", len(f.notifier.events))
	}
	event := f.notifier.events[0]
	if event.DocumentID != doc.ID || event.Version != "1.0" {
		t.Errorf("event = %+v", event)
	}
	if !strings.HasPrefix(event.FileURL, "https://files.example.com/bucket/documents/user-1/") {
		t.Errorf("file URL = %q", event.FileURL)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)

	_, err := svc.Upload(context.Background(), uploadReq("malware.exe"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(f.log.calls) != 0 {
		t.Errorf("backend touched on invalid upload: %v", f.log.calls)
	}
}

func TestUploadVersionInsertFailureLeavesHeader(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)
	f.verRepo.failOn = "insert"

	_, err := svc.Upload(context.Background(), uploadReq("report.pdf"))
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("err = %v, want ErrBackend", err)
	}

	// The header row survives; the read path synthesizes its version
	if len(f.docRepo.docs) != 1 {
		t.Errorf("document rows = %d, want 1", len(f.docRepo.docs))
	}
	if len(f.notifier.events) != 0 {
		t.Error("notified despite failed upload")
	}
}

func TestNotifyFailureDoesNotFailUpload(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)
	f.notifier.eventErr = fmt.Errorf("workflow down")

	if _, err := svc.Upload(context.Background(), uploadReq("report.pdf")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
}

func seedDocument(t *testing.T, f *fixture, category string, versionStatuses ...models.Status) (*models.Document, []string) {
	t.Helper()
	ctx := context.Background()

	doc := &models.Document{
		Title:       "Seeded",
		Filename:    "seeded.pdf",
		Extension:   "pdf",
		Category:    category,
		StoragePath: "bucket/documents/user-1/seeded.pdf",
		Size:        10,
		UploadedBy:  "user-1",
		Status:      models.StatusActive,
	}
	if err := f.docRepo.Insert(ctx, doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	var versionIDs []string
	for i, status := range versionStatuses {
		v := &models.DocumentVersion{
			DocumentID:  doc.ID,
			Label:       fmt.Sprintf("%d.0", i+1),
			StoragePath: fmt.Sprintf("bucket/documents/user-1/v%d_seeded.pdf", i+1),
			Size:        10,
			UploadedBy:  "user-1",
			Status:      status,
		}
		if err := f.verRepo.Insert(ctx, v); err != nil {
			t.Fatalf("seed version: %v", err)
		}
		versionIDs = append(versionIDs, v.ID)
	}

	f.log.calls = nil
	return doc, versionIDs
}

func TestReplaceOrderingInvariant(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)
	doc, versionIDs := seedDocument(t, f, "Manuals", models.StatusActive)

	err := svc.Replace(context.Background(), &services.ReplaceRequest{
		DocumentID:       doc.ID,
		CurrentVersionID: versionIDs[0],
		File:             strings.NewReader("new-bytes"),
		Filename:         "seeded_v2.pdf",
		Size:             20,
		Category:         "Manuals",
		OwnerID:          "user-1",
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	// Deactivate before insert, header update last
	deactivate := callIndex(t, f.log, "ver.UpdateStatus "+versionIDs[0]+" inactive")
	insert := callIndex(t, f.log, "ver.Insert")
	header := callIndex(t, f.log, "doc.UpdateHeader")
	if !(deactivate < insert && insert < header) {
		t.Errorf("wrong call order: %v", f.log.calls)
	}

	// Old version inactive, new version "2.0" pending
	if f.verRepo.versions[versionIDs[0]].Status != models.StatusInactive {
		t.Error("old version still active")
	}
	var newVersion *models.DocumentVersion
	for _, v := range f.verRepo.versions {
		if v.Label == "2.0" {
			newVersion = v
		}
	}
	if newVersion == nil || newVersion.Status != models.StatusPending {
		t.Fatalf("new version = %+v", newVersion)
	}

	// Header takes the new blob and goes pending
	header2 := f.docRepo.docs[doc.ID]
	if header2.Status != models.StatusPending || header2.Size != 20 {
		t.Errorf("header = %+v", header2)
	}
	if header2.StoragePath != newVersion.StoragePath {
		t.Errorf("header storage path %q != version %q", header2.StoragePath, newVersion.StoragePath)
	}
}

func TestUpdateStatusRestrictedValues(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)
	doc, versionIDs := seedDocument(t, f, "", models.StatusPending)

	for _, status := range []models.Status{models.StatusPending, models.StatusProcessing} {
		err := svc.UpdateStatus(context.Background(), doc.ID, versionIDs[0], status)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("UpdateStatus(%s) err = %v, want ErrValidation", status, err)
		}
	}

	if err := svc.UpdateStatus(context.Background(), doc.ID, versionIDs[0], models.StatusActive); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	// Version row first, then header
	if !(callIndex(t, f.log, "ver.UpdateStatus") < callIndex(t, f.log, "doc.UpdateStatus")) {
		t.Errorf("wrong call order: %v", f.log.calls)
	}
}

func TestUpdateCategoryCreatesAncestors(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)
	doc, _ := seedDocument(t, f, "", models.StatusActive)

	if err := svc.UpdateCategory(context.Background(), doc.ID, "a/b/c", "user-1"); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}

	for _, path := range []string{"a", "a/b", "a/b/c"} {
		if _, ok := f.catRepo.byPath[path]; !ok {
			t.Errorf("ancestor %q not stored", path)
		}
	}
	if f.docRepo.docs[doc.ID].Category != "a/b/c" {
		t.Errorf("category = %q", f.docRepo.docs[doc.ID].Category)
	}
}

func TestUpdateCategoryDetach(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)
	doc, _ := seedDocument(t, f, "a/b", models.StatusActive)

	if err := svc.UpdateCategory(context.Background(), doc.ID, "", "user-1"); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if f.docRepo.docs[doc.ID].Category != "" {
		t.Error("document not detached")
	}
	if len(f.catRepo.byPath) != 0 {
		t.Errorf("stored categories created on detach: %v", f.catRepo.byPath)
	}
}

func TestRollbackPostconditions(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)
	doc, versionIDs := seedDocument(t, f, "",
		models.StatusInactive, models.StatusInactive, models.StatusActive)

	err := svc.Rollback(context.Background(), &services.RollbackRequest{
		DocumentID:      doc.ID,
		TargetVersionID: versionIDs[0],
		NewerVersionIDs: []string{versionIDs[1], versionIDs[2]},
	})
	if err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	if f.verRepo.versions[versionIDs[0]].Status != models.StatusActive {
		t.Error("target not active")
	}
	for _, id := range versionIDs[1:] {
		if f.verRepo.versions[id].Status != models.StatusInactive {
			t.Errorf("newer version %s not inactive", id)
		}
	}

	header := f.docRepo.docs[doc.ID]
	if header.Status != models.StatusActive {
		t.Errorf("header status = %s", header.Status)
	}
	if header.StoragePath != f.verRepo.versions[versionIDs[0]].StoragePath {
		t.Error("header storage path not copied from target")
	}
}

func TestRollbackConflictWhenAlreadyActive(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)
	doc, versionIDs := seedDocument(t, f, "", models.StatusActive)

	err := svc.Rollback(context.Background(), &services.RollbackRequest{
		DocumentID:      doc.ID,
		TargetVersionID: versionIDs[0],
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestRollbackRejectsForeignVersion(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)
	doc, _ := seedDocument(t, f, "", models.StatusActive)
	_, otherVersions := seedDocument(t, f, "", models.StatusActive)

	err := svc.Rollback(context.Background(), &services.RollbackRequest{
		DocumentID:      doc.ID,
		TargetVersionID: otherVersions[0],
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestSoftDelete(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)
	doc, versionIDs := seedDocument(t, f, "", models.StatusActive, models.StatusInactive)

	if err := svc.Delete(context.Background(), doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// Versions marked first, then the header
	if !(callIndex(t, f.log, "ver.UpdateStatusByDocument") < callIndex(t, f.log, "doc.UpdateStatus")) {
		t.Errorf("wrong call order: %v", f.log.calls)
	}

	for _, id := range versionIDs {
		if f.verRepo.versions[id].Status != models.StatusDeleted {
			t.Errorf("version %s not deleted", id)
		}
	}
	if f.docRepo.docs[doc.ID].Status != models.StatusDeleted {
		t.Error("header not deleted")
	}
}

func TestHardDelete(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeHard)
	doc, _ := seedDocument(t, f, "", models.StatusActive)

	if err := svc.Delete(context.Background(), doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// Version rows removed before the header row
	if !(callIndex(t, f.log, "ver.DeleteByDocument") < callIndex(t, f.log, "doc.Delete")) {
		t.Errorf("wrong call order: %v", f.log.calls)
	}
	if len(f.docRepo.docs) != 0 || len(f.verRepo.versions) != 0 {
		t.Error("rows survived hard delete")
	}
}

func TestPurgeIgnoresDeletionMode(t *testing.T) {
	svc, f := newFixture(t, config.DeletionModeSoft)
	doc, _ := seedDocument(t, f, "", models.StatusActive)

	if err := svc.Purge(context.Background(), doc.ID); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if len(f.docRepo.docs) != 0 {
		t.Error("document survived purge")
	}
}
