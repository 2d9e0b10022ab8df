package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maauso/dreamjob/internal/board"
	"github.com/maauso/dreamjob/internal/file"
	"github.com/maauso/dreamjob/internal/record"
	"github.com/maauso/dreamjob/internal/session"
	"github.com/maauso/dreamjob/internal/user"
)

type testServer struct {
	router    http.Handler
	files     *file.MemoryStore
	vacancies *record.MemoryRepository[board.Vacancy]
}

func newTestServer(t *testing.T, cfg Config, opts ...HandlerOption) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx := context.Background()

	cities := record.NewMemoryRepository[board.City]()
	cities.Save(ctx, board.City{ID: 1, Name: "Москва"})
	cities.Save(ctx, board.City{ID: 2, Name: "Санкт-Петербург"})

	candidates := record.NewMemoryRepository[board.Candidate]()
	vacancies := record.NewMemoryRepository[board.Vacancy]()
	files := file.NewMemoryStore()

	h := NewHandlers(Services{
		Candidates: board.NewCandidateService(candidates, files, logger),
		Vacancies:  board.NewVacancyService(vacancies, files, logger),
		Cities:     board.NewCityService(cities),
		Files:      files,
		Users:      user.NewService(user.NewMemoryRepository(), logger, user.WithBcryptCost(bcrypt.MinCost)),
		Sessions:   session.NewMemoryStore(session.DefaultTTL),
	}, logger, opts...)

	return &testServer{
		router:    NewRouter(h, logger, cfg),
		files:     files,
		vacancies: vacancies,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type upload struct {
	name    string
	content []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, up *upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if up != nil {
		fw, err := mw.CreateFormFile("file", up.name)
		require.NoError(t, err)
		_, err = fw.Write(up.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// login registers a user and returns its session cookie.
func (s *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := s.do(jsonRequest(t, http.MethodPost, "/users/register", RegisterRequest{
		Email:    "petr@example.com",
		Name:     "Петр Арсентьев",
		Password: "secret1",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(jsonRequest(t, http.MethodPost, "/users/login", LoginRequest{
		Email:    "petr@example.com",
		Password: "secret1",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[HealthResponse](t, rec).Status)
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := s.do(httptest.NewRequest(http.MethodGet, "/index", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello World!", rec.Body.String())
}

func TestCities(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := s.do(httptest.NewRequest(http.MethodGet, "/cities", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cities := decode[[]CityResponse](t, rec)
	require.Len(t, cities, 2)
	assert.Equal(t, 1, cities[0].ID)
	assert.Equal(t, "Москва", cities[0].Name)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/cities/2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Санкт-Петербург", decode[CityResponse](t, rec).Name)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/cities/9", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateVacancyWithLogo(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	cookie := s.login(t)

	req := multipartRequest(t, http.MethodPost, "/vacancies", map[string]string{
		"title":       "Junior Java Developer",
		"description": "Spring Boot",
		"visible":     "true",
		"city_id":     "1",
	}, &upload{name: "logo.png", content: []byte{1, 2, 3}})
	req.AddCookie(cookie)
	rec := s.do(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[VacancyResponse](t, rec)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Junior Java Developer", created.Title)
	assert.True(t, created.Visible)
	assert.False(t, created.CreationDate.IsZero())
	require.Equal(t, "/files/1", created.FileURL)

	rec = s.do(httptest.NewRequest(http.MethodGet, created.FileURL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte{1, 2, 3}, rec.Body.Bytes())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "logo.png")
	assert.Equal(t, "3", rec.Header().Get("Content-Length"))
}

func TestCreateCandidateWithoutFile(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	cookie := s.login(t)

	req := multipartRequest(t, http.MethodPost, "/candidates", map[string]string{
		"name":    "Иван Иванов",
		"city_id": "2",
	}, nil)
	req.AddCookie(cookie)
	rec := s.do(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[CandidateResponse](t, rec)
	assert.Empty(t, created.FileURL)

	infos, err := s.files.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/candidates", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]CandidateResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Иван Иванов", list[0].Name)
}

func TestCreateCandidateURLEncoded(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	cookie := s.login(t)

	req := httptest.NewRequest(http.MethodPost, "/candidates", strings.NewReader("name=Anna&city_id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := s.do(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Anna", decode[CandidateResponse](t, rec).Name)
}

func TestUpdateVacancyKeepsLogoWithoutUpload(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	cookie := s.login(t)

	req := multipartRequest(t, http.MethodPost, "/vacancies", map[string]string{
		"title":   "Java Developer",
		"city_id": "1",
	}, &upload{name: "logo.png", content: []byte{1, 2, 3}})
	req.AddCookie(cookie)
	rec := s.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[VacancyResponse](t, rec)

	req = multipartRequest(t, http.MethodPut, "/vacancies/1", map[string]string{
		"title":   "Senior Java Developer",
		"city_id": "2",
	}, nil)
	req.AddCookie(cookie)
	rec = s.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[VacancyResponse](t, rec)
	assert.Equal(t, "Senior Java Developer", updated.Title)
	assert.Equal(t, 2, updated.CityID)
	assert.Equal(t, created.FileURL, updated.FileURL)
	assert.True(t, created.CreationDate.Equal(updated.CreationDate))
}

func TestUpdateVacancyReplacesLogo(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	cookie := s.login(t)

	req := multipartRequest(t, http.MethodPost, "/vacancies", map[string]string{
		"title":   "Java Developer",
		"city_id": "1",
	}, &upload{name: "old.png", content: []byte{1}})
	req.AddCookie(cookie)
	require.Equal(t, http.StatusCreated, s.do(req).Code)

	req = multipartRequest(t, http.MethodPut, "/vacancies/1", map[string]string{
		"title":   "Java Developer",
		"city_id": "1",
	}, &upload{name: "new.png", content: []byte{2, 2}})
	req.AddCookie(cookie)
	rec := s.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "/files/2", decode[VacancyResponse](t, rec).FileURL)

	// The replaced logo stays in the store.
	infos, err := s.files.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, infos, 2)
}

func TestUpdateMissingVacancy(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	cookie := s.login(t)

	req := multipartRequest(t, http.MethodPut, "/vacancies/42", map[string]string{
		"title":   "Ghost",
		"city_id": "1",
	}, nil)
	req.AddCookie(cookie)
	rec := s.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "VACANCY_NOT_FOUND", decode[ErrorResponse](t, rec).Code)
	assert.Equal(t, 0, s.vacancies.Len())
}

func TestDeleteCandidate(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	cookie := s.login(t)

	req := multipartRequest(t, http.MethodPost, "/candidates", map[string]string{
		"name":    "Иван Иванов",
		"city_id": "1",
	}, nil)
	req.AddCookie(cookie)
	require.Equal(t, http.StatusCreated, s.do(req).Code)

	del := httptest.NewRequest(http.MethodDelete, "/candidates/1", nil)
	del.AddCookie(cookie)
	assert.Equal(t, http.StatusNoContent, s.do(del).Code)

	del = httptest.NewRequest(http.MethodDelete, "/candidates/1", nil)
	del.AddCookie(cookie)
	assert.Equal(t, http.StatusNotFound, s.do(del).Code)

	assert.Equal(t, http.StatusNotFound, s.do(httptest.NewRequest(http.MethodGet, "/candidates/1", nil)).Code)
}

func TestPostingValidation(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	cookie := s.login(t)

	tests := []struct {
		name     string
		target   string
		fields   map[string]string
		wantCode string
	}{
		{
			name:     "missing name",
			target:   "/candidates",
			fields:   map[string]string{"city_id": "1"},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "missing city",
			target:   "/candidates",
			fields:   map[string]string{"name": "Иван"},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "non-numeric city",
			target:   "/candidates",
			fields:   map[string]string{"name": "Иван", "city_id": "moscow"},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "unknown city",
			target:   "/vacancies",
			fields:   map[string]string{"title": "Java", "city_id": "99"},
			wantCode: "UNKNOWN_CITY",
		},
		{
			name:     "bad visible flag",
			target:   "/vacancies",
			fields:   map[string]string{"title": "Java", "city_id": "1", "visible": "maybe"},
			wantCode: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, http.MethodPost, tt.target, tt.fields, nil)
			req.AddCookie(cookie)
			rec := s.do(req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestInvalidPathID(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	for _, target := range []string{"/candidates/abc", "/vacancies/0", "/files/-1"} {
		rec := s.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "INVALID_ID", decode[ErrorResponse](t, rec).Code)
	}
}

func TestGetMissingFile(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := s.do(httptest.NewRequest(http.MethodGet, "/files/7", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FILE_NOT_FOUND", decode[ErrorResponse](t, rec).Code)
}

func TestUploadTooLarge(t *testing.T) {
	s := newTestServer(t, DefaultConfig(), WithMaxUploadBytes(1024))
	cookie := s.login(t)

	req := multipartRequest(t, http.MethodPost, "/candidates", map[string]string{
		"name":    "Иван",
		"city_id": "1",
	}, &upload{name: "big.bin", content: bytes.Repeat([]byte{7}, 4096)})
	req.AddCookie(cookie)
	rec := s.do(req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	infos, err := s.files.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestMutationsRequireSession(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	requests := []*http.Request{
		multipartRequest(t, http.MethodPost, "/candidates", map[string]string{"name": "x", "city_id": "1"}, nil),
		multipartRequest(t, http.MethodPut, "/vacancies/1", map[string]string{"title": "x", "city_id": "1"}, nil),
		httptest.NewRequest(http.MethodDelete, "/candidates/1", nil),
		httptest.NewRequest(http.MethodGet, "/users/me", nil),
	}
	for _, req := range requests {
		rec := s.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, req.Method+" "+req.URL.Path)
	}

	bogus := httptest.NewRequest(http.MethodDelete, "/candidates/1", nil)
	bogus.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-session"})
	assert.Equal(t, http.StatusUnauthorized, s.do(bogus).Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	s.login(t)

	rec := s.do(jsonRequest(t, http.MethodPost, "/users/register", RegisterRequest{
		Email:    "PETR@example.com",
		Name:     "Другой Петр",
		Password: "secret2",
	}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_TAKEN", decode[ErrorResponse](t, rec).Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := s.do(jsonRequest(t, http.MethodPost, "/users/register", RegisterRequest{
		Email:    "not-an-email",
		Name:     "x",
		Password: "secret1",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader("{"))
	rec = s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", decode[ErrorResponse](t, rec).Code)
}

func TestLoginMeLogout(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	cookie := s.login(t)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(cookie)
	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[UserResponse](t, rec)
	assert.Equal(t, "petr@example.com", me.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	req = httptest.NewRequest(http.MethodPost, "/users/logout", nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusNoContent, s.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	s.login(t)

	rec := s.do(jsonRequest(t, http.MethodPost, "/users/login", LoginRequest{
		Email:    "petr@example.com",
		Password: "wrong-password",
	}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode[ErrorResponse](t, rec).Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoginRatePerMinute = 2
	s := newTestServer(t, cfg)

	attempt := func() *httptest.ResponseRecorder {
		return s.do(jsonRequest(t, http.MethodPost, "/users/login", LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		}))
	}

	assert.Equal(t, http.StatusUnauthorized, attempt().Code)
	assert.Equal(t, http.StatusUnauthorized, attempt().Code)

	rec := attempt()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedOrigins = []string{"https://dreamjob.example"}
	s := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/candidates", nil)
	req.Header.Set("Origin", "https://dreamjob.example")
	rec := s.do(req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dreamjob.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := RecoveryMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode[ErrorResponse](t, rec).Code)
}

func TestGetFile_HTMLIsServedAsDownload(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	cookie := s.login(t)

	req := multipartRequest(t, http.MethodPost, "/vacancies", map[string]string{
		"title":   "Java Developer",
		"city_id": "1",
	}, &upload{name: "logo.png", content: []byte("<html><script>fetch('/users/me')</script></html>")})
	req.AddCookie(cookie)
	rec := s.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	fileURL := decode[VacancyResponse](t, rec).FileURL

	rec = s.do(httptest.NewRequest(http.MethodGet, fileURL, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "logo.png")
}

func TestGetFile_ImageIsInline(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	fileID, err := s.files.Save(context.Background(), "photo.png", png)
	require.NoError(t, err)

	rec := s.do(httptest.NewRequest(http.MethodGet, fileURL(fileID), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "inline"))
	assert.Equal(t, png, rec.Body.Bytes())
}

func TestCORS_WildcardNeverAllowsCredentials(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	cookie := s.login(t)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.AddCookie(cookie)
	rec := s.do(req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_ListedOriginAllowsCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedOrigins = []string{"https://dreamjob.example"}
	s := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/cities", nil)
	req.Header.Set("Origin", "https://dreamjob.example")
	rec := s.do(req)
	assert.Equal(t, "https://dreamjob.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/cities", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = s.do(req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}
