package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Status is the lifecycle state shared by documents and their versions.
type Status string

const (
	StatusPending    Status = "pending"
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusDeleted    Status = "deleted"
	StatusProcessing Status = "processing"
)

// ParseStatus validates a status string coming from a request or backend row.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusActive, StatusInactive, StatusDeleted, StatusProcessing:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// DocumentVersion is one uploaded file snapshot belonging to exactly one document.
// Immutable once created except for Status.
type DocumentVersion struct {
	ID          string    `json:"id" db:"id"`
	DocumentID  string    `json:"document_id" db:"document_id"`
	Label       string    `json:"version" db:"version"` // "1.0", "2.0", ...
	Filename    string    `json:"filename"`             // Derived from storage path
	StoragePath string    `json:"storage_path" db:"storage_path"`
	Size        int64     `json:"size" db:"size"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Document is a logical artifact with one or more versions and a current version.
// Versions is ordered newest first; CurrentVersion is the version whose status is
// active, falling back to the newest version when none is.
type Document struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"name"`
	Filename    string    `json:"filename" db:"filename"`
	Extension   string    `json:"extension" db:"extension"`
	Category    string    `json:"category,omitempty" db:"category"` // ""= uncategorized
	StoragePath string    `json:"storage_path" db:"storage_path"`
	Size        int64     `json:"size" db:"size"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	CurrentVersion DocumentVersion   `json:"current_version"`
	Versions       []DocumentVersion `json:"versions"`
}

// DocumentHeaderUpdate carries the header fields rewritten by replace and
// rollback operations. Nil fields are left untouched.
type DocumentHeaderUpdate struct {
	Title       *string
	Category    *string
	StoragePath *string
	Size        *int64
	Status      *Status
}

// TitleFromFilename derives a display title from an uploaded filename:
// extension stripped, underscores and hyphens turned into spaces, first
// letter capitalized.
func TitleFromFilename(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, name)
	runes := []rune(name)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// ExtensionOf returns the lower-cased text after the last dot, or "" when the
// filename has no extension.
func ExtensionOf(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// FilenameFromStoragePath returns the last path segment of a storage path.
func FilenameFromStoragePath(storagePath string) string {
	if idx := strings.LastIndex(storagePath, "/"); idx >= 0 {
		return storagePath[idx+1:]
	}
	return storagePath
}

// FormatTimestamp renders a timestamp as "yyyymmdd hh:mm".
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102 15:04")
}

// UniqueExtensions collects the distinct filename extensions across a
// document set, lower-cased and sorted.
func UniqueExtensions(docs []Document) []string {
	seen := make(map[string]struct{})
	var exts []string
	for _, d := range docs {
		ext := ExtensionOf(d.Filename)
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; !ok {
			seen[ext] = struct{}{}
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}
