package handler

import (
	"errors"
	"net/http"

	"github.com/toolbox/toolbox-go/internal/model"
	"github.com/toolbox/toolbox-go/internal/qrcode"
	"github.com/toolbox/toolbox-go/internal/service"
)

// QRHandler handles HTTP requests for QR code rendering.
type QRHandler struct {
	service *service.QRService
}

// NewQRHandler creates a new QRHandler.
func NewQRHandler(svc *service.QRService) *QRHandler {
	return &QRHandler{service: svc}
}

// HandleGenerate handles POST /api/v1/qr requests and responds with a PNG download.
func (h *QRHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.QRRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	img, err := h.service.Generate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, qrcode.ErrTextRequired),
			errors.Is(err, qrcode.ErrTextTooLong),
			errors.Is(err, qrcode.ErrInvalidSize):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeAttachment(w, "image/png", img.Filename, img.PNG)
}
