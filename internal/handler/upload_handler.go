package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"

	"lostfound/internal/service"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type UploadResponse struct {
	URL string `json:"url"`
}

// readImage pulls the "image" form file and sniffs its content type. The
// returned file must be closed by the caller.
func (h *Handlers) readImage(w http.ResponseWriter, r *http.Request) (service.Upload, multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+1<<20)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, fmt.Sprintf("file too large (max %d MB)", h.Cfg.MaxUploadSize>>20), http.StatusRequestEntityTooLarge)
		} else {
			WriteError(w, "invalid multipart form", http.StatusBadRequest)
		}
		return service.Upload{}, nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, "missing image file", http.StatusBadRequest)
		return service.Upload{}, nil, false
	}

	if header.Size > h.Cfg.MaxUploadSize {
		file.Close()
		WriteError(w, fmt.Sprintf("file too large (max %d MB)", h.Cfg.MaxUploadSize>>20), http.StatusRequestEntityTooLarge)
		return service.Upload{}, nil, false
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		file.Close()
		WriteError(w, "could not read file", http.StatusBadRequest)
		return service.Upload{}, nil, false
	}

	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		file.Close()
		WriteError(w, "unsupported file type, allowed: JPEG, PNG, GIF, WebP", http.StatusBadRequest)
		return service.Upload{}, nil, false
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		WriteError(w, "could not read file", http.StatusBadRequest)
		return service.Upload{}, nil, false
	}

	return service.Upload{
		FileName:    header.Filename,
		File:        file,
		Size:        header.Size,
		ContentType: mtype.String(),
	}, file, true
}

// UploadImage stores a post image ahead of post creation.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requesterID(w, r); !ok {
		return
	}

	upload, file, ok := h.readImage(w, r)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.UploadService.UploadPostImage(r.Context(), upload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, UploadResponse{URL: url}, http.StatusCreated)
}
