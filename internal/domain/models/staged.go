package models

import (
	"io"

	"github.com/google/uuid"
)

// StagedState tracks a staged file from selection to resolution.
type StagedState string

const (
	StagedSelected  StagedState = "selected"
	StagedUploading StagedState = "uploading"
	StagedCommitted StagedState = "committed"
	StagedDiscarded StagedState = "discarded"
)

// StagedFile is a selected-but-not-yet-uploaded image awaiting batch
// confirmation. Form-local and transient: it never reaches the project
// cache and is never persisted.
type StagedFile struct {
	ID    uuid.UUID
	Name  string
	Path  string
	MIME  string
	Size  int64
	State StagedState

	preview  io.Closer
	released bool
}

func NewStagedFile(name, path, mime string, size int64, preview io.Closer) *StagedFile {
	return &StagedFile{
		ID:      uuid.New(),
		Name:    name,
		Path:    path,
		MIME:    mime,
		Size:    size,
		State:   StagedSelected,
		preview: preview,
	}
}

// Release frees the preview resource. Idempotent: the editor tears files
// down on every exit path and must be able to call this twice.
func (f *StagedFile) Release() error {
	if f.released || f.preview == nil {
		f.released = true
		return nil
	}
	f.released = true
	return f.preview.Close()
}

func (f *StagedFile) Released() bool {
	return f.released
}
