package server

import (
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// GetFile handles GET /files/{id} requests. Images are shown inline; any
// other content is sent as an opaque download so it never renders on the
// API origin.
func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	blob, found, err := h.files.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to read file",
			slog.Int("file_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to read file", "FILE_READ_FAILED")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "file not found", "FILE_NOT_FOUND")
		return
	}

	contentType, disposition := servedType(blob.ContentType)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Content)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	params := map[string]string{}
	if blob.Name != "" {
		params["filename"] = blob.Name
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, params))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob.Content)
}

// servedType returns the Content-Type and disposition for a stored blob.
// SVG is scriptable and is treated as a download.
func servedType(sniffed string) (string, string) {
	mediaType, _, err := mime.ParseMediaType(sniffed)
	if err == nil && strings.HasPrefix(mediaType, "image/") && mediaType != "image/svg+xml" {
		return sniffed, "inline"
	}
	return "application/octet-stream", "attachment"
}
