package api

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/services"
)

// maxUploadBytes caps cover-letter and profile-image uploads.
const maxUploadBytes = 8 << 20

type fileHandler struct {
	responder Responder
	logger    zerolog.Logger
	files     *services.FileStore
}

func newFileHandler(files *services.FileStore) fileHandler {
	logger := log.With().Str("handlerName", "fileHandler").Logger()

	return fileHandler{
		responder: NewResponder(logger),
		logger:    logger,
		files:     files,
	}
}

// uploadFile stores a multipart upload and returns the opaque filename the
// caller references from applications and profiles.
func (h fileHandler) uploadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := ctxGetCaller(r.Context()); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			h.responder.WriteError(w, errs.NewBadRequest("invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingField("file"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequest("failed to read upload"))
			return
		}

		name, err := h.files.Save(data, filepath.Ext(header.Filename))
		if err != nil {
			h.responder.WriteError(w, errs.NewInternal("storing file", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]string{"filename": name})
	}
}

// downloadFile streams a stored artifact back by its opaque filename.
func (h fileHandler) downloadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := ctxGetCaller(r.Context()); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		name := chi.URLParam(r, "filename")
		data, err := h.files.Open(name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := w.Write(data); err != nil {
			h.logger.Error().Err(err).Msg("error writing file response")
		}
	}
}
