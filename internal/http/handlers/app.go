package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"fusionstudio/internal/composer"
	"fusionstudio/internal/domain"
	"fusionstudio/internal/infra"
	"fusionstudio/internal/session"
)

// App is the handler container: configuration, logging, the session store and
// the relay fetcher used for catalog thumbnails.
type App struct {
	Config   *infra.Config
	Logger   *infra.Logger
	Sessions *session.Store
	Fetcher  composer.ReferenceFetcher

	thumbs thumbnailCache
}

func NewApp(cfg *infra.Config, logger *infra.Logger, sessions *session.Store, fetcher composer.ReferenceFetcher) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		Sessions: sessions,
		Fetcher:  fetcher,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}

// fail maps domain errors onto HTTP responses with a stable error kind.
func (a *App) fail(w http.ResponseWriter, err error) {
	var fetchErr *domain.FetchError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		a.error(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, domain.ErrReferenceNotFound):
		a.error(w, http.StatusNotFound, "reference_not_found", err.Error())
	case errors.Is(err, domain.ErrNotAnImage):
		a.error(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, domain.ErrNotReady), errors.Is(err, domain.ErrBusy):
		a.error(w, http.StatusConflict, "not_ready", err.Error())
	case errors.Is(err, domain.ErrNoResult):
		a.error(w, http.StatusNotFound, "no_result", err.Error())
	case errors.Is(err, domain.ErrNoImageContent):
		a.error(w, http.StatusBadGateway, "no_image_content", err.Error())
	case errors.As(err, &fetchErr):
		a.error(w, http.StatusBadGateway, "fetch_failed", err.Error())
	default:
		a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
	}
}
