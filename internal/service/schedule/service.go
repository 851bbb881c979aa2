package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"studyplan/internal/capabilities"
	"studyplan/internal/config"
	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/schedule"
	"studyplan/internal/domain/services"
	domainllm "studyplan/internal/domain/services/llm"
)

const (
	// defaultTemperature is sent only to models that accept it.
	defaultTemperature = 0.2

	// snippetRunes bounds the model output copied into logs.
	snippetRunes = 200

	msgInvalidJSON = "model did not return valid JSON"
	msgFailed      = "failed to generate schedule"
)

// Service implements the schedule generation gateway
type Service struct {
	models    *capabilities.Registry
	providers domainllm.ProviderResolver
	timeout   time.Duration
	logger    *slog.Logger
}

// NewService creates a new schedule generation service. A zero timeout
// leaves the caller's deadline alone.
func NewService(
	models *capabilities.Registry,
	providers domainllm.ProviderResolver,
	timeout time.Duration,
	logger *slog.Logger,
) services.ScheduleService {
	return &Service{
		models:    models,
		providers: providers,
		timeout:   timeout,
		logger:    logger,
	}
}

// ListModels returns the allow-list.
func (s *Service) ListModels() []capabilities.ModelCapabilities {
	return s.models.ListModels()
}

// Generate runs one schedule generation. It never retries.
func (s *Service) Generate(ctx context.Context, userID string, req *models.GenerateRequest) (*models.GenerateResponse, error) {
	if userID == "" {
		return nil, domain.Unauthenticated("sign in required")
	}
	if req == nil {
		return nil, domain.Invalid("provide brief:string")
	}

	brief := strings.TrimSpace(req.Brief)
	if err := validation.Validate(brief,
		validation.Required.Error("provide brief:string"),
		validation.RuneLength(1, config.MaxBriefLength),
	); err != nil {
		return nil, domain.Invalid("brief: %v", err)
	}
	if !validConstraints(req.Constraints) {
		return nil, domain.Invalid("constraints must be a JSON object")
	}

	model, exact := s.models.Resolve(req.Model)
	if !exact && req.Model != "" {
		s.logger.Debug("requested model not allowed, using default",
			"requested", req.Model,
			"model", model.ID,
		)
	}

	completer, err := s.providers.GetProvider(model.Provider)
	if err != nil {
		s.logger.Error("schedule provider unavailable",
			"provider", model.Provider,
			"model", model.ID,
			"error", err,
		)
		return nil, &domain.InternalError{Message: msgFailed}
	}

	controls := req.Controls.Resolve()
	creq := &domainllm.CompletionRequest{
		Model:      model.ID,
		System:     systemPrompt(controls),
		Prompt:     userPrompt(brief, req.Constraints),
		SchemaName: SchemaName,
		Schema:     BuildSchema(),
		MaxTokens:  model.MaxOutput,
	}
	if model.SupportsTemperature {
		t := defaultTemperature
		creq.Temperature = &t
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := completer.Complete(ctx, creq)
	if err != nil {
		s.logger.Error("schedule generation failed",
			"user_id", userID,
			"model", model.ID,
			"error", err,
		)
		return nil, &domain.InternalError{Message: msgFailed}
	}

	sched, err := parseSchedule(resp.Content)
	if err != nil {
		s.logger.Error("JSON parse failed",
			"user_id", userID,
			"model", model.ID,
			"content_snippet", snippet(resp.Content, snippetRunes),
			"error", err,
		)
		return nil, &domain.InternalError{Message: msgInvalidJSON}
	}
	applyControls(sched, controls)

	s.logger.Info("schedule generated",
		"user_id", userID,
		"model", model.ID,
		"sessions", len(sched.Sessions),
		"total_minutes", sched.TotalMinutes(),
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &models.GenerateResponse{
		OK:       true,
		Schedule: sched,
		Model:    model.ID,
	}, nil
}

// parseSchedule decodes the model output. The document must be a JSON
// object; anything else is rejected.
func parseSchedule(content string) (*models.Schedule, error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("output is not a JSON object")
	}
	var sched models.Schedule
	if err := json.Unmarshal([]byte(trimmed), &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

// applyControls enforces what the prompt can only ask for: disabled parts
// are cleared, durations are at least one minute and lists are never nil.
func applyControls(s *models.Schedule, c models.ResolvedControls) {
	if s.Sessions == nil {
		s.Sessions = []models.Session{}
	}
	for i := range s.Sessions {
		sess := &s.Sessions[i]
		sess.DurationMin = max(1, sess.DurationMin)
		if !c.IncludeDescriptions {
			sess.Description = ""
		}
		if !c.IncludeLinks || sess.Materials == nil {
			sess.Materials = []string{}
		}
		if !c.IncludeSubsections || sess.Subsections == nil {
			sess.Subsections = []models.Subsection{}
		}
		for j := range sess.Subsections {
			sub := &sess.Subsections[j]
			sub.DurationMin = max(1, sub.DurationMin)
			if !c.IncludeDescriptions {
				sub.Description = ""
			}
			if !c.IncludeLinks || sub.Materials == nil {
				sub.Materials = []string{}
			}
		}
	}
}

// snippet truncates s to at most n runes.
func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// validConstraints accepts a JSON object. Absent and null mean no constraints.
func validConstraints(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return true
	}
	return trimmed[0] == '{' && json.Valid(trimmed)
}
