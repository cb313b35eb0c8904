package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"folio/internal/domain/models"
	"folio/internal/lib/logger/sl"
	"folio/internal/metrics"
	"folio/internal/storage/projectcache"
	"folio/internal/transport/rest"
	"folio/internal/validation"

	gocache "github.com/patrickmn/go-cache"
)

var (
	// ErrUnauthenticated is returned before any network call when a
	// mutating action is attempted without a token. The token gate runs
	// ahead of all other validation, so an unauthenticated caller sees
	// this error regardless of payload shape.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrProjectNotFound = errors.New("project not found")
	ErrNoFile          = errors.New("no file provided")
)

const (
	detailTTL     = 5 * time.Minute
	detailCleanup = 10 * time.Minute
)

// TokenProvider yields the current bearer token, empty when logged out.
type TokenProvider interface {
	Token() string
}

// APIClient is the backend surface the action layer consumes.
type APIClient interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (models.Project, error)
	CreateProject(ctx context.Context, token string, in models.ProjectInput) (models.Project, error)
	UpdateProject(ctx context.Context, token string, id int64, patch models.ProjectPatch) (models.Project, error)
	DeleteProject(ctx context.Context, token string, id int64) error
	UploadImage(ctx context.Context, token string, file models.FileUpload) (string, error)
}

// ProjectService orchestrates backend calls and reconciles results into
// the project cache. Nothing else mutates the cache.
type ProjectService struct {
	log     *slog.Logger
	api     APIClient
	tokens  TokenProvider
	cache   *projectcache.Cache
	detail  *gocache.Cache
	uploads validation.UploadPolicy
}

func NewProjectService(log *slog.Logger, api APIClient, tokens TokenProvider, cache *projectcache.Cache, uploads validation.UploadPolicy) *ProjectService {
	return &ProjectService{
		log:     log,
		api:     api,
		tokens:  tokens,
		cache:   cache,
		detail:  gocache.New(detailTTL, detailCleanup),
		uploads: uploads,
	}
}

// Projects returns the cached collection, newest first.
func (s *ProjectService) Projects() []models.Project {
	return s.cache.SortedByNewest()
}

// InvalidateView bumps the cache epoch so responses still in flight for
// the previous view are discarded on arrival.
func (s *ProjectService) InvalidateView() {
	s.cache.Reset()
	s.detail.Flush()
}

// List replaces the entire cache with the backend's collection. Failure
// leaves the cache untouched.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	const op = "project_service.ProjectService.List"

	log := s.log.With(slog.String("op", op))

	epoch := s.cache.Epoch()

	projects, err := s.api.ListProjects(ctx)
	if err != nil {
		log.Error("failed to list projects", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.cache.Replace(epoch, projects) {
		log.Debug("stale list response discarded")
	}

	return projects, nil
}

// GetByID fetches a single record for the detail view. It never touches
// the shared cache; the result is memoized locally with a short TTL.
func (s *ProjectService) GetByID(ctx context.Context, id int64) (models.Project, error) {
	const op = "project_service.ProjectService.GetByID"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("project_id", id),
	)

	if cached, ok := s.detail.Get(detailKey(id)); ok {
		return cached.(models.Project), nil
	}

	project, err := s.api.GetProject(ctx, id)
	if err != nil {
		var apiErr *rest.APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			return models.Project{}, fmt.Errorf("%s: %w", op, ErrProjectNotFound)
		}
		log.Error("failed to get project", sl.Err(err))

		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	s.detail.Set(detailKey(id), project, gocache.DefaultExpiration)

	return project, nil
}

// Create validates locally, sends, and appends the server's record to
// the cache. Invalid input never reaches the backend.
func (s *ProjectService) Create(ctx context.Context, in models.ProjectInput) (models.Project, error) {
	const op = "project_service.ProjectService.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", in.Title),
	)

	token := s.tokens.Token()
	if token == "" {
		return models.Project{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	in.Techs = models.NormalizeTechs(in.Techs)

	if err := validation.CheckProjectInput(in); err != nil {
		log.Warn("invalid project payload", sl.Err(err))

		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	epoch := s.cache.Epoch()

	project, err := s.api.CreateProject(ctx, token, in)
	if err != nil {
		log.Error("failed to create project", sl.Err(err))

		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	if !s.cache.Append(epoch, project) {
		log.Debug("stale create response discarded")
	}

	log.Info("project created", slog.Int64("project_id", project.ID))

	return project, nil
}

// Update sends only the provided fields and replaces the matching cache
// entry with the server's record.
func (s *ProjectService) Update(ctx context.Context, id int64, patch models.ProjectPatch) (models.Project, error) {
	const op = "project_service.ProjectService.Update"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("project_id", id),
	)

	token := s.tokens.Token()
	if token == "" {
		return models.Project{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if patch.Techs != nil {
		normalized := models.NormalizeTechs(*patch.Techs)
		patch.Techs = &normalized
	}

	if err := validation.CheckProjectPatch(patch); err != nil {
		log.Warn("invalid project patch", sl.Err(err))

		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	epoch := s.cache.Epoch()

	project, err := s.api.UpdateProject(ctx, token, id, patch)
	if err != nil {
		log.Error("failed to update project", sl.Err(err))

		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	if !s.cache.ReplaceByID(epoch, project) {
		log.Debug("stale update response discarded")
	}
	s.detail.Delete(detailKey(id))

	log.Info("project updated")

	return project, nil
}

// Delete removes the record on the backend, then from the cache by id.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	const op = "project_service.ProjectService.Delete"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("project_id", id),
	)

	token := s.tokens.Token()
	if token == "" {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	epoch := s.cache.Epoch()

	if err := s.api.DeleteProject(ctx, token, id); err != nil {
		log.Error("failed to delete project", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if !s.cache.RemoveByID(epoch, id) {
		log.Debug("stale delete response discarded")
	}
	s.detail.Delete(detailKey(id))

	log.Info("project deleted")

	return nil
}

// UploadImage validates the file locally, sends it, and returns the
// storage URL. The cache is not involved; the caller attaches the URL to
// a project's images.
func (s *ProjectService) UploadImage(ctx context.Context, file models.FileUpload) (string, error) {
	const op = "project_service.ProjectService.UploadImage"

	log := s.log.With(
		slog.String("op", op),
		slog.String("file", file.Name),
	)

	token := s.tokens.Token()
	if token == "" {
		return "", fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if file.Content == nil {
		return "", fmt.Errorf("%s: %w", op, ErrNoFile)
	}

	if err := validation.CheckUpload(file.MIME, file.Size, s.uploads); err != nil {
		metrics.UploadsRejectedTotal.Inc()
		log.Warn("upload rejected", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	url, err := s.api.UploadImage(ctx, token, file)
	if err != nil {
		log.Error("failed to upload image", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("image uploaded", slog.String("url", url))

	return url, nil
}

func detailKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
