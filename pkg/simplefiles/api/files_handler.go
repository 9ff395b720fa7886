package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-files/pkg/simplefiles"
)

// DefaultMaxUploadBytes caps multipart bodies when no limit is configured.
const DefaultMaxUploadBytes int64 = 32 << 20

// uploadField is the multipart field carrying the file.
const uploadField = "upfile"

// FilesHandler serves the upload form, the listing and downloads
type FilesHandler struct {
	service        simplefiles.Service
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(service simplefiles.Service, logger *slog.Logger, maxUploadBytes int64) *FilesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &FilesHandler{
		service:        service,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the router for files endpoints, meant to be mounted at /file
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/list", h.ListFiles)
	r.Get("/form", h.Form)
	r.With(RequestSizeLimit(h.maxUploadBytes)).Post("/save", h.SaveFile)
	r.Get("/download", h.DownloadFile)
	return r
}

// ListFiles renders every record as HTML, or as JSON when the client asks for it
func (h *FilesHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListFiles(r.Context())
	if err != nil {
		h.writeError(w, r, "Failed to list files", err)
		return
	}

	if render.GetAcceptedContentType(r) == render.ContentTypeJSON {
		render.JSON(w, r, records)
		return
	}
	h.renderHTML(w, r, http.StatusOK, ListPage(records))
}

// Form renders an empty upload form
func (h *FilesHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderHTML(w, r, http.StatusOK, FormPage(nil))
}

// SaveFile accepts a multipart upload and stores it
func (h *FilesHandler) SaveFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.logger.Warn("Upload too large", "limit", maxErr.Limit)
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Warn("Invalid multipart form", "error", err)
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		h.logger.Warn("Missing upload", "field", uploadField, "error", err)
		http.Error(w, "File is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := simplefiles.ReadChunked(file)
	if err != nil {
		h.writeError(w, r, "Failed to read upload", err)
		return
	}

	result, err := h.service.SaveFile(r.Context(), simplefiles.SaveFileRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		File: simplefiles.UploadedFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		},
	})
	if err != nil {
		var attrs []any
		if result != nil {
			attrs = append(attrs, "stage", result.Stage, "key", result.ObjectKey)
		}
		h.writeError(w, r, "Failed to save file", err, attrs...)
		return
	}

	h.renderHTML(w, r, http.StatusOK, FormPage(result.Record))
}

// DownloadFile streams a stored file back as an attachment
func (h *FilesHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	id, err := uuid.Parse(rawID)
	if err != nil {
		h.logger.Warn("Invalid file ID", "id", rawID, "error", err)
		http.Error(w, "Invalid file ID", http.StatusBadRequest)
		return
	}

	download, err := h.service.DownloadFile(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "Failed to download file", err, "id", id)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+simplefiles.EncodeFilename(download.Filename())+`"`)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(download.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(download.Data); err != nil {
		h.logger.Warn("Failed to write download", "id", id, "error", err)
	}
}

// writeError maps service errors to status codes: invalid input and unknown
// IDs are the client's fault, everything else is ours.
func (h *FilesHandler) writeError(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	status := http.StatusInternalServerError
	if errors.Is(err, simplefiles.ErrInvalidArgument) {
		status = http.StatusBadRequest
	}

	attrs = append(attrs, "error", err, "status", status)
	if status >= 500 {
		h.logger.ErrorContext(r.Context(), msg, attrs...)
	} else {
		h.logger.WarnContext(r.Context(), msg, attrs...)
	}
	http.Error(w, msg+": "+err.Error(), status)
}

func (h *FilesHandler) renderHTML(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render page", "error", err)
	}
}
