package service

import (
	"context"
	"strconv"

	"github.com/toolbox/toolbox-go/internal/metrics"
	"github.com/toolbox/toolbox-go/internal/model"
	"github.com/toolbox/toolbox-go/internal/qrcode"
)

// QRService renders QR codes.
type QRService struct {
	metrics  metrics.Recorder
	activity activityLog
}

// NewQRService creates a new QRService. rec may be nil.
func NewQRService(m metrics.Recorder, rec ActivityRecorder) *QRService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &QRService{metrics: m, activity: newActivityLog(rec)}
}

// Generate renders the requested text as a PNG.
func (s *QRService) Generate(ctx context.Context, req model.QRRequest) (qrcode.Image, error) {
	img, err := qrcode.Generate(qrcode.Options{Text: req.Text, Size: req.Size})
	if err != nil {
		s.activity.record(ctx, model.ActivityEvent{
			Tool:    model.ToolQR,
			Action:  "generate",
			Outcome: outcomeFor(err, qrcode.ErrTextRequired, qrcode.ErrTextTooLong, qrcode.ErrInvalidSize),
			Detail:  err.Error(),
		})
		return qrcode.Image{}, err
	}

	s.metrics.QRGenerated(img.Size)
	s.activity.record(ctx, model.ActivityEvent{
		Tool:    model.ToolQR,
		Action:  "generate",
		Outcome: model.OutcomeSuccess,
		Bytes:   len(img.PNG),
		Detail:  "size=" + strconv.Itoa(img.Size),
	})

	return img, nil
}
