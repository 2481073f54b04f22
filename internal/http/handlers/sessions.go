package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fusionstudio/internal/catalog"
	"fusionstudio/internal/composer"
	"fusionstudio/internal/domain"
)

// downloadFilename is the literal name the browser saves results under.
const downloadFilename = "fused-image.png"

type sessionStateResponse struct {
	SessionID      string `json:"session_id,omitempty"`
	HasInput       bool   `json:"has_input"`
	InputMediaType string `json:"input_media_type,omitempty"`
	ReferenceID    string `json:"reference_id,omitempty"`
	Loading        bool   `json:"loading"`
	CanGenerate    bool   `json:"can_generate"`
	HasResult      bool   `json:"has_result"`
	Error          string `json:"error,omitempty"`
}

func stateResponse(st domain.State) sessionStateResponse {
	resp := sessionStateResponse{
		HasInput:    st.Input != nil,
		Loading:     st.Loading,
		CanGenerate: st.CanGenerate(),
		HasResult:   st.Result != nil,
		Error:       st.ErrorMessage,
	}
	if st.Input != nil {
		resp.InputMediaType = st.Input.MediaType
	}
	if st.Reference != nil {
		resp.ReferenceID = st.Reference.ID
	}
	return resp
}

func (a *App) controller(w http.ResponseWriter, r *http.Request) (*composer.Controller, string, bool) {
	id := chi.URLParam(r, "id")
	ctrl, err := a.Sessions.Get(id)
	if err != nil {
		a.fail(w, err)
		return nil, "", false
	}
	return ctrl, id, true
}

// CreateSession allocates a fresh composer session.
func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := a.Sessions.Create()
	a.Logger.Debug().Str("session_id", id).Msg("session created")
	a.json(w, http.StatusCreated, sessionStateResponse{SessionID: id})
}

// SessionState returns the current state snapshot, including whether the
// generate action is currently permitted.
func (a *App) SessionState(w http.ResponseWriter, r *http.Request) {
	ctrl, id, ok := a.controller(w, r)
	if !ok {
		return
	}
	resp := stateResponse(ctrl.Snapshot())
	resp.SessionID = id
	a.json(w, http.StatusOK, resp)
}

// UploadImage ingests the user-supplied image from a multipart form. The file
// picker and the drag-and-drop path both post to this endpoint.
func (a *App) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctrl, id, ok := a.controller(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "multipart field 'image' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}

	if err := ctrl.Upload(header.Header.Get("Content-Type"), data); err != nil {
		a.fail(w, err)
		return
	}

	a.Logger.Debug().
		Str("session_id", id).
		Str("filename", header.Filename).
		Int("bytes", len(data)).
		Msg("image uploaded")

	resp := stateResponse(ctrl.Snapshot())
	resp.SessionID = id
	a.json(w, http.StatusOK, resp)
}

// ClearImage removes the uploaded image.
func (a *App) ClearImage(w http.ResponseWriter, r *http.Request) {
	ctrl, id, ok := a.controller(w, r)
	if !ok {
		return
	}
	ctrl.ClearInput()
	resp := stateResponse(ctrl.Snapshot())
	resp.SessionID = id
	a.json(w, http.StatusOK, resp)
}

type selectReferenceRequest struct {
	ReferenceID string `json:"reference_id"`
}

// SelectReference activates a catalog entry as the style reference.
func (a *App) SelectReference(w http.ResponseWriter, r *http.Request) {
	ctrl, id, ok := a.controller(w, r)
	if !ok {
		return
	}

	var req selectReferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	ref, err := catalog.Lookup(req.ReferenceID)
	if err != nil {
		a.fail(w, err)
		return
	}
	ctrl.Select(ref)

	resp := stateResponse(ctrl.Snapshot())
	resp.SessionID = id
	a.json(w, http.StatusOK, resp)
}

type fuseResponse struct {
	sessionStateResponse
	DataURI string `json:"data_uri,omitempty"`
}

// Fuse runs one generation episode and returns the fused image as a data URI.
func (a *App) Fuse(w http.ResponseWriter, r *http.Request) {
	ctrl, id, ok := a.controller(w, r)
	if !ok {
		return
	}

	res, err := ctrl.Generate(r.Context())
	if err != nil {
		a.Logger.Warn().Err(err).Str("session_id", id).Msg("fusion failed")
		a.fail(w, err)
		return
	}

	a.Logger.Info().Str("session_id", id).Str("mime", res.MediaType).Msg("fusion succeeded")
	resp := fuseResponse{stateResponse(ctrl.Snapshot()), res.DataURI()}
	resp.SessionID = id
	a.json(w, http.StatusOK, resp)
}

// Result returns the currently rendered fused image as a data URI.
func (a *App) Result(w http.ResponseWriter, r *http.Request) {
	ctrl, _, ok := a.controller(w, r)
	if !ok {
		return
	}
	res, err := ctrl.Result()
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{
		"data_uri":   res.DataURI(),
		"media_type": res.MediaType,
	})
}

// DownloadResult streams the fused image bytes as an attachment under the
// fixed filename. 404 when no result is present.
func (a *App) DownloadResult(w http.ResponseWriter, r *http.Request) {
	ctrl, _, ok := a.controller(w, r)
	if !ok {
		return
	}
	res, err := ctrl.Result()
	if err != nil {
		a.fail(w, err)
		return
	}
	data, err := composer.DecodePayload(res.Data)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "stored result is not decodable")
		return
	}
	w.Header().Set("Content-Type", res.MediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
