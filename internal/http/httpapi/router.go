package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"fusionstudio/internal/http/handlers"
	"fusionstudio/internal/middleware"
	"fusionstudio/web"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(*app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/catalog", func(r chi.Router) {
		r.Get("/", app.Catalog)
		r.Get("/{id}/thumbnail", app.CatalogThumbnail)
	})

	r.Route("/v1/sessions", func(r chi.Router) {
		r.With(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute)).
			Post("/", app.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.SessionState)
			r.Post("/image", app.UploadImage)
			r.Delete("/image", app.ClearImage)
			r.Post("/reference", app.SelectReference)
			r.With(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute)).
				Post("/fuse", app.Fuse)
			r.Get("/result", app.Result)
			r.Get("/result/download", app.DownloadResult)
		})
	})

	// Static front end.
	r.Handle("/*", web.Handler())

	return r
}
