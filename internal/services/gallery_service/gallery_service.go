package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"folio/internal/domain/models"
	"folio/internal/lib/logger/sl"
	"folio/internal/validation"

	"github.com/google/uuid"
)

var (
	// ErrUploadInProgress guards the staged list while a batch upload
	// runs: no add/remove mid-flight, or the per-file ordering that the
	// partial-failure semantics depend on falls apart.
	ErrUploadInProgress = errors.New("upload in progress")

	ErrIndexOutOfRange = errors.New("image index out of range")
	ErrEditorClosed    = errors.New("gallery editor is closed")
)

// ImageUploader sends one file to the backend and returns its URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, file models.FileUpload) (string, error)
}

// Rejection names one file that did not make it into staging and why.
type Rejection struct {
	Name   string
	Reason string
}

// SelectReport is the outcome of one select batch: every candidate
// either staged or rejected, never a fail-on-first.
type SelectReport struct {
	Staged   []*models.StagedFile
	Rejected []Rejection
}

// GalleryEditor is the per-project-form staging area for images:
// selection, preview, batch upload, main-image designation. It touches
// the committed images list only when uploads succeed.
type GalleryEditor struct {
	log      *slog.Logger
	uploader ImageUploader
	policy   validation.UploadPolicy

	mu        sync.Mutex
	images    []string
	mainIndex int
	staged    []*models.StagedFile
	uploading bool
	closed    bool
}

// NewGalleryEditor starts an editing session over a project's committed
// images. For a new project both arguments are zero.
func NewGalleryEditor(log *slog.Logger, uploader ImageUploader, policy validation.UploadPolicy, images []string, mainIndex int) *GalleryEditor {
	return &GalleryEditor{
		log:       log,
		uploader:  uploader,
		policy:    policy,
		images:    append([]string(nil), images...),
		mainIndex: models.ClampMainIndex(mainIndex, len(images)),
	}
}

// SelectFiles validates each candidate and stages the ones that pass,
// holding an open handle as the preview resource. Candidates beyond the
// per-project image ceiling are rejected; all rejection reasons come
// back in one report.
func (e *GalleryEditor) SelectFiles(paths []string) (*SelectReport, error) {
	const op = "gallery_service.GalleryEditor.SelectFiles"

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, fmt.Errorf("%s: %w", op, ErrEditorClosed)
	}
	if e.uploading {
		return nil, fmt.Errorf("%s: %w", op, ErrUploadInProgress)
	}

	report := &SelectReport{}
	total := len(e.images) + len(e.staged)

	for _, path := range paths {
		name := filepath.Base(path)

		if total >= models.MaxImages {
			report.Rejected = append(report.Rejected, Rejection{
				Name:   name,
				Reason: fmt.Sprintf("image limit of %d per project reached", models.MaxImages),
			})
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			report.Rejected = append(report.Rejected, Rejection{Name: name, Reason: "file not readable"})
			continue
		}

		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if err := validation.CheckUpload(mimeType, info.Size(), e.policy); err != nil {
			report.Rejected = append(report.Rejected, Rejection{Name: name, Reason: err.Error()})
			continue
		}

		preview, err := os.Open(path)
		if err != nil {
			report.Rejected = append(report.Rejected, Rejection{Name: name, Reason: "file not readable"})
			continue
		}

		staged := models.NewStagedFile(name, path, mimeType, info.Size(), preview)
		e.staged = append(e.staged, staged)
		report.Staged = append(report.Staged, staged)
		total++
	}

	if len(report.Rejected) > 0 {
		e.log.Warn("some files rejected",
			slog.String("op", op),
			slog.Int("rejected", len(report.Rejected)),
			slog.Int("staged", len(report.Staged)),
		)
	}

	return report, nil
}

// RemoveStaged discards one staged file and releases its preview. The
// committed images are untouched.
func (e *GalleryEditor) RemoveStaged(id uuid.UUID) error {
	const op = "gallery_service.GalleryEditor.RemoveStaged"

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.uploading {
		return fmt.Errorf("%s: %w", op, ErrUploadInProgress)
	}

	for i, f := range e.staged {
		if f.ID == id {
			f.State = models.StagedDiscarded
			_ = f.Release()
			e.staged = append(e.staged[:i:i], e.staged[i+1:]...)
			return nil
		}
	}
	return nil
}

// ConfirmUpload uploads the staged files one by one, in order. Each
// success eagerly attaches its URL to the committed images and leaves
// staging. On the first failure the failed file and everything after it
// stay Selected and the error names the file; earlier successes are not
// rolled back. Full success clears staging entirely.
func (e *GalleryEditor) ConfirmUpload(ctx context.Context) error {
	const op = "gallery_service.GalleryEditor.ConfirmUpload"

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrEditorClosed)
	}
	if e.uploading {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrUploadInProgress)
	}
	e.uploading = true
	batch := append([]*models.StagedFile(nil), e.staged...)
	for _, f := range batch {
		f.State = models.StagedUploading
	}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.uploading = false
		e.mu.Unlock()
	}()

	log := e.log.With(slog.String("op", op))

	for _, f := range batch {
		url, err := e.uploadOne(ctx, f)
		if err != nil {
			e.mu.Lock()
			for _, remaining := range batch {
				if remaining.State == models.StagedUploading {
					remaining.State = models.StagedSelected
				}
			}
			e.mu.Unlock()

			log.Error("batch upload stopped", slog.String("file", f.Name), sl.Err(err))

			return fmt.Errorf("%s: upload of %q failed: %w", op, f.Name, err)
		}

		e.mu.Lock()
		f.State = models.StagedCommitted
		_ = f.Release()
		e.images = append(e.images, url)
		e.dropStaged(f.ID)
		e.mu.Unlock()
	}

	log.Info("batch uploaded", slog.Int("files", len(batch)))

	return nil
}

func (e *GalleryEditor) uploadOne(ctx context.Context, f *models.StagedFile) (string, error) {
	src, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	return e.uploader.UploadImage(ctx, models.FileUpload{
		Name:    f.Name,
		MIME:    f.MIME,
		Size:    f.Size,
		Content: src,
	})
}

// dropStaged removes one entry from the staged list. Caller holds the lock.
func (e *GalleryEditor) dropStaged(id uuid.UUID) {
	for i, f := range e.staged {
		if f.ID == id {
			e.staged = append(e.staged[:i:i], e.staged[i+1:]...)
			return
		}
	}
}

// SetMainImage designates the committed image at index as the primary
// display image. Selecting the already-selected index is a no-op.
func (e *GalleryEditor) SetMainImage(index int) error {
	const op = "gallery_service.GalleryEditor.SetMainImage"

	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.images) {
		return fmt.Errorf("%s: %w", op, ErrIndexOutOfRange)
	}
	e.mainIndex = index
	return nil
}

// RemoveImage removes a committed image by index. When the designated
// main image is removed, or the index now points past the end, the
// designation falls back to the first image.
func (e *GalleryEditor) RemoveImage(index int) error {
	const op = "gallery_service.GalleryEditor.RemoveImage"

	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.images) {
		return fmt.Errorf("%s: %w", op, ErrIndexOutOfRange)
	}

	removedMain := index == e.mainIndex
	e.images = append(e.images[:index:index], e.images[index+1:]...)
	if removedMain || e.mainIndex >= len(e.images) {
		e.mainIndex = 0
	}
	return nil
}

// Images returns a copy of the committed image URLs.
func (e *GalleryEditor) Images() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.images...)
}

func (e *GalleryEditor) MainIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mainIndex
}

// Staged returns the current staged files in selection order.
func (e *GalleryEditor) Staged() []*models.StagedFile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*models.StagedFile(nil), e.staged...)
}

// Close releases every outstanding preview resource. Mandatory on every
// exit path of the owning form; safe to call more than once.
func (e *GalleryEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true

	for _, f := range e.staged {
		f.State = models.StagedDiscarded
		_ = f.Release()
	}
	e.staged = nil
}
