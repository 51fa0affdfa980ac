package api

import (
	"errors"
	"net/http"

	"github.com/AbdulMoizz31/lost-found-portal/internal/imaging"
	"github.com/AbdulMoizz31/lost-found-portal/internal/uploads"
)

// UploadsHandler stages item photos before report submission.
type UploadsHandler struct {
	Uploads *uploads.Manager
}

type stagedUploadResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	MIME string `json:"mime"`
	Size int64  `json:"size"`
}

// Create handles POST /api/uploads.
func (h *UploadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)

	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	staged, err := h.Uploads.Add(header.Filename, result.MIME, result.Data)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}

	jsonResponse(w, http.StatusCreated, stagedUploadResponse{
		ID:   staged.ID,
		Name: staged.Name,
		MIME: staged.MIME,
		Size: staged.Size,
	})
}

// Get handles GET /api/uploads/{id} (preview).
func (h *UploadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	staged, data, err := h.Uploads.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, uploads.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "upload not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	w.Header().Set("Content-Type", staged.MIME)
	w.Write(data)
}

// Delete handles DELETE /api/uploads/{id} (release without submitting).
func (h *UploadsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Uploads.Remove(r.PathValue("id")); err != nil {
		if errors.Is(err, uploads.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "upload not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to remove upload")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "upload removed"})
}
