package handlers

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"fusionstudio/internal/catalog"
)

const thumbnailEdge = 256

// thumbnailCache memoizes rendered thumbnails so the gallery does not
// re-fetch the full-size artwork on every page load.
type thumbnailCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (c *thumbnailCache) get(id string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[id]
	return data, ok
}

func (c *thumbnailCache) put(id string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string][]byte)
	}
	c.items[id] = data
}

// Catalog lists the fixed reference gallery in display order.
func (a *App) Catalog(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": catalog.All()})
}

// CatalogThumbnail serves a downscaled JPEG of one catalog artwork, fetched
// through the relay and fitted into a thumbnail box.
func (a *App) CatalogThumbnail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ref, err := catalog.Lookup(id)
	if err != nil {
		a.fail(w, err)
		return
	}

	if data, ok := a.thumbs.get(id); ok {
		writeThumbnail(w, data)
		return
	}

	raw, _, err := a.Fetcher.FetchImage(r.Context(), ref.URL)
	if err != nil {
		a.Logger.Warn().Err(err).Str("reference", id).Msg("thumbnail fetch failed")
		a.fail(w, err)
		return
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		a.error(w, http.StatusBadGateway, "decode_failed", "reference image is not decodable")
		return
	}
	thumb := imaging.Fit(img, thumbnailEdge, thumbnailEdge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode thumbnail")
		return
	}

	a.thumbs.put(id, buf.Bytes())
	writeThumbnail(w, buf.Bytes())
}

func writeThumbnail(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
