package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toolbox/toolbox-go/internal/crypto"
	"github.com/toolbox/toolbox-go/internal/middleware"
	"github.com/toolbox/toolbox-go/internal/model"
	"github.com/toolbox/toolbox-go/internal/passgen"
	"github.com/toolbox/toolbox-go/internal/service"
)

const (
	testSecret    = "handler-test-secret"
	testMaxUpload = 1 << 10
)

type memoryActivity struct {
	events []model.ActivityEvent
	err    error
	limit  int
}

func (m *memoryActivity) Record(ctx context.Context, event *model.ActivityEvent) error {
	event.ID = "evt-" + event.Tool
	event.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.events = append(m.events, *event)
	return nil
}

func (m *memoryActivity) ListRecent(ctx context.Context, limit int) ([]model.ActivityEvent, error) {
	m.limit = limit
	return m.events, m.err
}

func (m *memoryActivity) CountByTool(ctx context.Context, since time.Time) (map[string]int, error) {
	counts := map[string]int{}
	for _, e := range m.events {
		counts[e.Tool]++
	}
	return counts, m.err
}

func newTestRouter(t *testing.T, store *memoryActivity) http.Handler {
	t.Helper()

	return NewRouter(testDeps(store))
}

func testDeps(store *memoryActivity) RouterDeps {
	var rec service.ActivityRecorder
	if store != nil {
		rec = store
	}

	deps := RouterDeps{
		Generator:      service.NewGeneratorService(passgen.NewEngine(passgen.NewCryptoSource()), nil, rec),
		QR:             service.NewQRService(nil, rec),
		Convert:        service.NewConvertService(nil, rec),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("# metrics")) }),
		JWTSecret:      testSecret,
		MaxUploadBytes: testMaxUpload,
	}
	if store != nil {
		deps.Activity = service.NewActivityService(store)
	}
	return deps
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, nil)

	w := doJSON(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = doJSON(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# metrics", w.Body.String())
}

func TestHandleGenerate(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLength int
	}{
		{"empty body uses defaults", "", http.StatusOK, 16},
		{"explicit length", `{"length": 24}`, http.StatusOK, 24},
		{"letters only", `{"length": 10, "numbers": false, "symbols": false}`, http.StatusOK, 10},
		{"too short", `{"length": 3}`, http.StatusBadRequest, 0},
		{"too long", `{"length": 129}`, http.StatusBadRequest, 0},
		{"no classes", `{"uppercase": false, "lowercase": false, "numbers": false, "symbols": false}`, http.StatusBadRequest, 0},
		{"malformed json", `{"length":`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodPost, "/api/v1/generate", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, decodeBody[map[string]string](t, w), "error")
				return
			}

			resp := decodeBody[model.GenerateResponse](t, w)
			assert.Len(t, resp.Password, tt.wantLength)
			assert.Equal(t, tt.wantLength, resp.Length)
			assert.True(t, resp.Secure)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		})
	}
}

func TestHandleGenerate_ChunkedEmptyBodyUsesDefaults(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(""))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[model.GenerateResponse](t, w)
	assert.Len(t, resp.Password, passgen.DefaultLength)
}

func TestToolRoutes_TypedNilRecorder(t *testing.T) {
	var store *memoryActivity

	h := NewRouter(RouterDeps{
		Generator: service.NewGeneratorService(passgen.NewEngine(passgen.NewCryptoSource()), nil, store),
		QR:        service.NewQRService(nil, store),
		Convert:   service.NewConvertService(nil, store),
	})

	assert.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/api/v1/generate", "").Code)
	assert.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/api/v1/strength", `{"password": "abc"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, h, http.MethodPost, "/api/v1/convert/pdf/decode", `{"base64": "***"}`).Code)
}

func TestHandleGenerate_WithHash(t *testing.T) {
	h := newTestRouter(t, nil)

	w := doJSON(t, h, http.MethodPost, "/api/v1/generate", `{"length": 20, "hash": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[model.GenerateResponse](t, w)
	ok, err := crypto.VerifyPassword(resp.Password, resp.Hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHandleGenerate_BodyTooLarge(t *testing.T) {
	h := newTestRouter(t, nil)

	body := `{"length": 16, "pad": "` + strings.Repeat("x", maxJSONBody) + `"}`
	w := doJSON(t, h, http.MethodPost, "/api/v1/generate", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandleStrength(t *testing.T) {
	h := newTestRouter(t, nil)

	w := doJSON(t, h, http.MethodPost, "/api/v1/strength", `{"password": "Abcdefghijklmnop123!@#"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[model.StrengthResponse](t, w)
	assert.Equal(t, 6, resp.Score)
	assert.Equal(t, "VeryStrong", resp.Strength)
	assert.NotEmpty(t, resp.Hint)

	w = doJSON(t, h, http.MethodPost, "/api/v1/strength", `{"password": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleQR(t *testing.T) {
	h := newTestRouter(t, nil)

	w := doJSON(t, h, http.MethodPost, "/api/v1/qr", `{"text": "https://example.com", "size": 200}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="qr-code-`)

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestHandleQR_Validation(t *testing.T) {
	h := newTestRouter(t, nil)

	for _, body := range []string{`{"text": ""}`, `{"text": "hi", "size": 64}`, `{"text": "hi", "size": 4096}`} {
		w := doJSON(t, h, http.MethodPost, "/api/v1/qr", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func multipartUpload(t *testing.T, path, field, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleEncode(t *testing.T) {
	h := newTestRouter(t, nil)
	doc := []byte("<?xml version=\"1.0\"?><root/>")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, multipartUpload(t, "/api/v1/convert/xml/encode", "file", "feed.xml", doc))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[model.EncodeResponse](t, w)
	assert.Equal(t, base64.StdEncoding.EncodeToString(doc), resp.Base64)
	assert.Equal(t, "feed.xml.txt", resp.Filename)
	assert.Equal(t, len(doc), resp.Size)
}

func TestHandleEncode_Errors(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
	}{
		{"unknown kind", multipartUpload(t, "/api/v1/convert/docx/encode", "file", "a.docx", []byte("x")), http.StatusNotFound},
		{"missing file field", multipartUpload(t, "/api/v1/convert/pdf/encode", "upload", "a.pdf", []byte("%PDF-1.4")), http.StatusBadRequest},
		{"empty file", multipartUpload(t, "/api/v1/convert/pdf/encode", "file", "a.pdf", nil), http.StatusBadRequest},
		{"file too large", multipartUpload(t, "/api/v1/convert/pdf/encode", "file", "a.pdf", bytes.Repeat([]byte("a"), testMaxUpload+1)), http.StatusRequestEntityTooLarge},
		{"not multipart", httptest.NewRequest(http.MethodPost, "/api/v1/convert/pdf/encode", strings.NewReader("plain")), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, tt.req)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestHandleDecode_XMLAsJSON(t *testing.T) {
	h := newTestRouter(t, nil)
	doc := "<note><to>ops</to></note>"
	body := `{"base64": "` + base64.StdEncoding.EncodeToString([]byte(doc)) + `"}`

	w := doJSON(t, h, http.MethodPost, "/api/v1/convert/xml/decode", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[model.DecodeResponse](t, w)
	assert.Equal(t, doc, resp.Content)
	assert.Equal(t, "converted.xml", resp.Filename)
	assert.Empty(t, resp.Warnings)
}

func TestHandleDecode_PDFDownload(t *testing.T) {
	h := newTestRouter(t, nil)
	doc := []byte("%PDF-1.4\n%%EOF")
	body := `{"base64": "data:application/pdf;base64,` + base64.StdEncoding.EncodeToString(doc) + `", "download": true}`

	w := doJSON(t, h, http.MethodPost, "/api/v1/convert/pdf/decode", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="document.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, doc, w.Body.Bytes())
}

func TestHandleDecode_InvalidBase64(t *testing.T) {
	h := newTestRouter(t, nil)

	w := doJSON(t, h, http.MethodPost, "/api/v1/convert/pdf/decode", `{"base64": "***"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/convert/pdf/decode", `{"base64": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityRoutes_NotMountedWithoutStore(t *testing.T) {
	h := newTestRouter(t, nil)

	w := doJSON(t, h, http.MethodGet, "/api/v1/activity", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func authorized(t *testing.T, path string) *http.Request {
	t.Helper()
	token, err := crypto.IssueToken("ops", testSecret, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestActivityRoutes(t *testing.T) {
	store := &memoryActivity{}
	h := newTestRouter(t, store)

	w := doJSON(t, h, http.MethodGet, "/api/v1/activity", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	doJSON(t, h, http.MethodPost, "/api/v1/generate", "")
	doJSON(t, h, http.MethodPost, "/api/v1/strength", `{"password": "abc"}`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, authorized(t, "/api/v1/activity?limit=10"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	events := decodeBody[[]model.ActivityResponse](t, w)
	require.Len(t, events, 2)
	assert.Equal(t, model.ToolGenerator, events[0].Tool)
	assert.Equal(t, 10, store.limit)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, authorized(t, "/api/v1/activity/summary?window=1h"))
	require.Equal(t, http.StatusOK, w.Code)

	var summary struct {
		Window string         `json:"window"`
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "1h0m0s", summary.Window)
	assert.Equal(t, 1, summary.Counts[model.ToolStrength])
}

func TestActivityRoutes_LogAdminSubject(t *testing.T) {
	var buf bytes.Buffer
	deps := testDeps(&memoryActivity{})
	deps.Logger = slog.New(slog.NewJSONHandler(&buf, nil))
	h := NewRouter(deps)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authorized(t, "/api/v1/activity"))
	require.Equal(t, http.StatusOK, w.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "/api/v1/activity", entry["path"])
	assert.Equal(t, "ops", entry["subject"])
}

func TestActivityRoutes_BadParams(t *testing.T) {
	h := newTestRouter(t, &memoryActivity{})

	for _, path := range []string{"/api/v1/activity?limit=abc", "/api/v1/activity?limit=0", "/api/v1/activity/summary?window=-1h", "/api/v1/activity/summary?window=soon"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, authorized(t, path))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestActivityRoutes_StoreError(t *testing.T) {
	h := newTestRouter(t, &memoryActivity{err: errors.New("db down")})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authorized(t, "/api/v1/activity"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestRateLimitedToolRoutes(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 1)
	defer rl.Stop()

	h := NewRouter(RouterDeps{
		Generator:   service.NewGeneratorService(passgen.NewEngine(passgen.NewCryptoSource()), nil, nil),
		QR:          service.NewQRService(nil, nil),
		Convert:     service.NewConvertService(nil, nil),
		RateLimiter: rl,
	})

	assert.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/api/v1/generate", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doJSON(t, h, http.MethodPost, "/api/v1/generate", "").Code)
	assert.Equal(t, http.StatusOK, doJSON(t, h, http.MethodGet, "/health", "").Code)
}

func TestRecoversFromPanics(t *testing.T) {
	h := NewRouter(RouterDeps{MaxUploadBytes: testMaxUpload})

	// A router without services panics on use; the recoverer turns that into a 500.
	w := doJSON(t, h, http.MethodPost, "/api/v1/strength", `{"password": "x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
