package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/toolbox/toolbox-go/internal/crypto"
	"github.com/toolbox/toolbox-go/internal/metrics"
	"github.com/toolbox/toolbox-go/internal/model"
	"github.com/toolbox/toolbox-go/internal/passgen"
)

var ErrPasswordRequired = errors.New("password is required")

// GeneratorService handles password generation and strength evaluation.
type GeneratorService struct {
	engine     *passgen.Engine
	metrics    metrics.Recorder
	activity   activityLog
	hashParams crypto.HashParams
}

// NewGeneratorService creates a new GeneratorService. rec may be nil.
func NewGeneratorService(engine *passgen.Engine, m metrics.Recorder, rec ActivityRecorder) *GeneratorService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &GeneratorService{
		engine:     engine,
		metrics:    m,
		activity:   newActivityLog(rec),
		hashParams: crypto.DefaultHashParams(),
	}
}

// SetHashParams changes the Argon2id cost used for "hash": true requests.
func (s *GeneratorService) SetHashParams(p crypto.HashParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.hashParams = p
	return nil
}

// Generate produces a password based on the given request.
func (s *GeneratorService) Generate(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	opts := passgen.Options{
		Length:    req.Length,
		Uppercase: boolOrDefault(req.Uppercase, true),
		Lowercase: boolOrDefault(req.Lowercase, true),
		Numbers:   boolOrDefault(req.Numbers, true),
		Symbols:   boolOrDefault(req.Symbols, true),
	}

	if opts.Length == 0 {
		opts.Length = passgen.DefaultLength
	}

	password, err := s.generate(opts)
	if err != nil {
		s.activity.record(ctx, model.ActivityEvent{
			Tool:    model.ToolGenerator,
			Action:  "generate",
			Outcome: outcomeFor(err, passgen.ErrInvalidOptions),
			Detail:  err.Error(),
		})
		return model.GenerateResponse{}, err
	}

	resp := model.GenerateResponse{
		Password: password.Value,
		Length:   len(password.Value),
		Score:    password.Strength.Score,
		Strength: string(password.Strength.Label),
		Hint:     password.Strength.Label.Hint(),
		Secure:   password.Secure,
	}

	if req.Hash {
		hash, err := crypto.HashPasswordWithParams(password.Value, s.hashParams)
		if err != nil {
			return model.GenerateResponse{}, err
		}
		resp.Hash = hash
	}

	s.metrics.PasswordGenerated(resp.Strength, resp.Secure)
	s.activity.record(ctx, model.ActivityEvent{
		Tool:    model.ToolGenerator,
		Action:  "generate",
		Outcome: model.OutcomeSuccess,
		Detail:  resp.Strength + " length=" + strconv.Itoa(resp.Length),
	})

	return resp, nil
}

func (s *GeneratorService) generate(opts passgen.Options) (passgen.Password, error) {
	// The engine accepts any length from the class count up; requests keep to the usable range.
	if len(opts.Classes()) > 0 && opts.Length < passgen.MinLength {
		return passgen.Password{}, passgen.ErrLengthTooShort
	}
	return s.engine.Generate(opts)
}

// Evaluate scores a caller-supplied password.
func (s *GeneratorService) Evaluate(ctx context.Context, req model.StrengthRequest) (model.StrengthResponse, error) {
	if req.Password == "" {
		return model.StrengthResponse{}, ErrPasswordRequired
	}

	strength := passgen.EvaluateStrength(req.Password)
	s.metrics.StrengthEvaluated(string(strength.Label))
	s.activity.record(ctx, model.ActivityEvent{
		Tool:    model.ToolStrength,
		Action:  "evaluate",
		Outcome: model.OutcomeSuccess,
		Detail:  string(strength.Label),
	})

	return model.StrengthResponse{
		Score:    strength.Score,
		Strength: string(strength.Label),
		Hint:     strength.Label.Hint(),
	}, nil
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

// outcomeFor classifies err as a rejected request when it matches any of the
// validation sentinels, and as an error otherwise.
func outcomeFor(err error, validation ...error) string {
	for _, v := range validation {
		if errors.Is(err, v) {
			return model.OutcomeRejected
		}
	}
	return model.OutcomeError
}
