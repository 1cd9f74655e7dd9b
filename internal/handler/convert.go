package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/toolbox/toolbox-go/internal/convert"
	"github.com/toolbox/toolbox-go/internal/model"
	"github.com/toolbox/toolbox-go/internal/service"
)

// multipartOverhead leaves room for boundaries and part headers on top of the file itself.
const multipartOverhead = 64 << 10

// ConvertHandler handles HTTP requests for the Base64 converters.
type ConvertHandler struct {
	service  *service.ConvertService
	maxBytes int64
}

// NewConvertHandler creates a new ConvertHandler. maxBytes caps the size of an
// uploaded or decoded document.
func NewConvertHandler(svc *service.ConvertService, maxBytes int64) *ConvertHandler {
	return &ConvertHandler{service: svc, maxBytes: maxBytes}
}

// HandleEncode handles POST /api/v1/convert/{kind}/encode requests.
// The document is sent as the multipart form field "file".
func (h *ConvertHandler) HandleEncode(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("file too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	if int64(len(data)) > h.maxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("file too large"))
		return
	}

	resp, err := h.service.Encode(r.Context(), kind, header.Filename, data)
	if err != nil {
		if isConvertError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDecode handles POST /api/v1/convert/{kind}/decode requests. With
// "download": true the decoded document is returned as an attachment.
func (h *ConvertHandler) HandleDecode(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	var req model.DecodeRequest
	if !decodeJSON(w, r, base64Limit(h.maxBytes), &req) {
		return
	}

	dec, err := h.service.Decode(r.Context(), kind, req.Base64)
	if err != nil {
		if isConvertError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	if req.Download {
		writeAttachment(w, kind.ContentType(), dec.Filename, dec.Data)
		return
	}
	writeJSON(w, http.StatusOK, service.DecodeResponse(dec))
}

func kindParam(w http.ResponseWriter, r *http.Request) (convert.Kind, bool) {
	kind, err := convert.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		return "", false
	}
	return kind, true
}

// base64Limit is the JSON body size that can carry a document of n bytes.
func base64Limit(n int64) int64 {
	return (n+2)/3*4 + maxJSONBody
}

func isConvertError(err error) bool {
	return errors.Is(err, convert.ErrEmptyInput) ||
		errors.Is(err, convert.ErrInvalidBase64) ||
		errors.Is(err, convert.ErrNotText) ||
		errors.Is(err, convert.ErrUnknownKind)
}
