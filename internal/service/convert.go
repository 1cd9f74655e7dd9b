package service

import (
	"context"

	"github.com/toolbox/toolbox-go/internal/convert"
	"github.com/toolbox/toolbox-go/internal/metrics"
	"github.com/toolbox/toolbox-go/internal/model"
)

// ConvertService turns documents into Base64 and back.
type ConvertService struct {
	metrics  metrics.Recorder
	activity activityLog
}

// NewConvertService creates a new ConvertService. rec may be nil.
func NewConvertService(m metrics.Recorder, rec ActivityRecorder) *ConvertService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &ConvertService{metrics: m, activity: newActivityLog(rec)}
}

// Encode converts an uploaded file to Base64.
func (s *ConvertService) Encode(ctx context.Context, kind convert.Kind, filename string, data []byte) (model.EncodeResponse, error) {
	enc, err := convert.EncodeFile(kind, filename, data)
	s.observe(ctx, kind, "encode", len(data), err)
	if err != nil {
		return model.EncodeResponse{}, err
	}

	return model.EncodeResponse{
		Base64:   enc.Base64,
		Filename: enc.Filename,
		Size:     enc.Size,
		Warnings: enc.Warnings,
	}, nil
}

// Decode converts Base64 text back into a document.
func (s *ConvertService) Decode(ctx context.Context, kind convert.Kind, input string) (convert.Decoded, error) {
	dec, err := convert.DecodeBase64(kind, input)
	s.observe(ctx, kind, "decode", len(dec.Data), err)
	if err != nil {
		return convert.Decoded{}, err
	}
	return dec, nil
}

// DecodeResponse describes a decoded document for JSON clients.
func DecodeResponse(dec convert.Decoded) model.DecodeResponse {
	resp := model.DecodeResponse{
		Kind:     string(dec.Kind),
		Filename: dec.Filename,
		Size:     len(dec.Data),
		Warnings: dec.Warnings,
	}
	if dec.Kind == convert.KindXML {
		resp.Content = dec.Text()
	}
	return resp
}

func (s *ConvertService) observe(ctx context.Context, kind convert.Kind, direction string, n int, err error) {
	outcome := model.OutcomeSuccess
	detail := ""
	if err != nil {
		outcome = outcomeFor(err, convert.ErrEmptyInput, convert.ErrInvalidBase64, convert.ErrNotText, convert.ErrUnknownKind)
		detail = err.Error()
	}

	s.metrics.Converted(string(kind), direction, outcome, n)
	s.activity.record(ctx, model.ActivityEvent{
		Tool:    model.ToolConvert,
		Action:  string(kind) + "." + direction,
		Outcome: outcome,
		Bytes:   n,
		Detail:  truncate(detail, 255),
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
