package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/maauso/dreamjob/internal/board"
	"github.com/maauso/dreamjob/internal/file"
	"github.com/maauso/dreamjob/internal/session"
	"github.com/maauso/dreamjob/internal/user"
)

// DefaultMaxUploadBytes caps request bodies carrying file uploads.
const DefaultMaxUploadBytes int64 = 10 << 20

// Services bundles the application services the handlers call into.
type Services struct {
	Candidates *board.CandidateService
	Vacancies  *board.VacancyService
	Cities     *board.CityService
	Files      file.Store
	Users      *user.Service
	Sessions   session.Store
}

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	candidates     *board.CandidateService
	vacancies      *board.VacancyService
	cities         *board.CityService
	files          file.Store
	users          *user.Service
	sessions       session.Store
	validator      *validator.Validate
	logger         *slog.Logger
	maxUploadBytes int64
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithMaxUploadBytes sets the maximum accepted size of a form body.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handlers) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc Services, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		candidates:     svc.Candidates,
		vacancies:      svc.Vacancies,
		cities:         svc.Cities,
		files:          svc.Files,
		users:          svc.Users,
		sessions:       svc.Sessions,
		validator:      validator.New(),
		logger:         logger,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Index handles GET /index requests.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "Hello World!")
}

// pathID parses the {id} path value. It writes a 400 response and returns
// false when the value is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid id %q", raw), "INVALID_ID")
		return 0, false
	}
	return id, true
}

// decodeJSON decodes and validates a JSON request body into dst.
func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return false
	}
	return h.validate(w, dst)
}

func (h *Handlers) validate(w http.ResponseWriter, v any) bool {
	if err := h.validator.Struct(v); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return false
	}
	return true
}

// parseForm reads a urlencoded or multipart form body, bounded by the
// configured upload limit.
func (h *Handlers) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var err error
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(h.maxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", "BODY_TOO_LARGE")
			return false
		}
		h.logger.Warn("failed to parse form",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid form body", "INVALID_FORM")
		return false
	}
	return true
}

// formUpload returns the uploaded "file" part, or nil when none was sent.
// A part with neither a file name nor content counts as not sent, which is
// what browsers submit for an untouched file input.
func formUpload(r *http.Request) (*board.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}
	if header.Filename == "" && len(content) == 0 {
		return nil, nil
	}
	return &board.Upload{Name: header.Filename, Content: content}, nil
}

// formInt parses an optional integer form field; empty means 0.
func formInt(r *http.Request, key string) (int, error) {
	raw := r.PostFormValue(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// formBool parses an optional checkbox-style form field.
func formBool(r *http.Request, key string) (bool, error) {
	switch raw := r.PostFormValue(key); raw {
	case "", "false", "0", "off":
		return false, nil
	case "true", "1", "on":
		return true, nil
	default:
		return false, fmt.Errorf("%s must be a boolean", key)
	}
}

func fileURL(fileID int) string {
	if fileID == 0 {
		return ""
	}
	return "/files/" + strconv.Itoa(fileID)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
