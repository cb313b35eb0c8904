package app

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/config"
	galleryservice "folio/internal/services/gallery_service"
	projectservice "folio/internal/services/project_service"
	sessionservice "folio/internal/services/session_service"
	"folio/internal/storage/prefstore"
	"folio/internal/storage/projectcache"
	"folio/internal/transport/debug"
	"folio/internal/transport/rest"
	"folio/internal/validation"
)

// App wires the client together: durable prefs, session, REST client,
// project cache, action layer, optional debug listener.
type App struct {
	Log      *slog.Logger
	Session  *sessionservice.SessionService
	Projects *projectservice.ProjectService
	Cache    *projectcache.Cache
	Uploads  validation.UploadPolicy
	Debug    *debug.Server

	redisStore *prefstore.RedisStore
}

func New(log *slog.Logger, cfg *config.Config) (*App, error) {
	var (
		prefs      prefstore.Store
		redisStore *prefstore.RedisStore
	)

	switch cfg.Prefs.Backend {
	case "redis":
		redisStore = prefstore.NewRedisStore(cfg.Prefs.Redis.Addr, cfg.Prefs.Redis.Password, cfg.Prefs.Redis.DB)
		prefs = redisStore
	case "file", "":
		fileStore, err := prefstore.NewFileStore(cfg.Prefs.Path)
		if err != nil {
			return nil, fmt.Errorf("init pref store: %w", err)
		}
		prefs = fileStore
	default:
		return nil, fmt.Errorf("unknown prefs backend %q", cfg.Prefs.Backend)
	}

	client := rest.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	session := sessionservice.NewSessionService(log, prefs, client)
	if err := session.Restore(context.Background()); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	uploads := validation.UploadPolicy{
		MaxSize:   cfg.Uploads.MaxSize,
		AllowWebP: cfg.Uploads.AllowWebP,
	}

	cache := projectcache.New()
	projects := projectservice.NewProjectService(log, client, session, cache, uploads)

	a := &App{
		Log:        log,
		Session:    session,
		Projects:   projects,
		Cache:      cache,
		Uploads:    uploads,
		redisStore: redisStore,
	}

	if cfg.Debug.Enabled {
		a.Debug = debug.New(log, cfg.Debug.Host, cfg.Debug.Port)
	}

	return a, nil
}

// NewGalleryEditor opens a staging session for one project form.
func (a *App) NewGalleryEditor(images []string, mainIndex int) *galleryservice.GalleryEditor {
	return galleryservice.NewGalleryEditor(a.Log, a.Projects, a.Uploads, images, mainIndex)
}

func (a *App) Close() {
	if a.redisStore != nil {
		_ = a.redisStore.Close()
	}
}
