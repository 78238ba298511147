package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"cvlens/internal/llm"
	"cvlens/internal/llmjson"
)

const (
	extractMaxTokens   = 4000
	extractTemperature = 0.7
)

// Extractor turns raw resume text into a Details record via a generative
// model call and the structured-output parser.
type Extractor struct {
	llm    llm.Client
	logger *slog.Logger
}

// NewExtractor constructs the extractor around an injected model client.
func NewExtractor(client llm.Client, logger *slog.Logger) *Extractor {
	return &Extractor{llm: client, logger: logger}
}

// Extract prompts the model for a schema-conformant JSON resume, recovers
// the object from the raw completion, normalizes known field-name drift and
// binds it to the canonical schema. A response that cannot be bound triggers
// one fresh model round trip; if that also fails, the empty default record
// is returned together with the error so the caller can degrade gracefully.
func (e *Extractor) Extract(ctx context.Context, resumeText string) (Details, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		raw, err := e.llm.Generate(ctx, llm.GenerateRequest{
			Op:          "resume_details",
			Prompt:      parserPrompt(resumeText),
			MaxTokens:   extractMaxTokens,
			Temperature: extractTemperature,
		})
		if err != nil {
			// The call itself failed; a retry here would duplicate the
			// client's own retry policy.
			return EmptyDetails(), err
		}

		details, err := decodeDetails(raw)
		if err == nil {
			return details, nil
		}
		lastErr = err
		e.logger.Warn("resume details response rejected",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)
	}
	return EmptyDetails(), lastErr
}

// decodeDetails recovers the JSON object from model output and binds it to
// Details, tolerating both a bare record and one wrapped in the
// "resume_details" envelope the prompt asks for.
func decodeDetails(raw string) (Details, error) {
	payload, err := llmjson.Extract(raw)
	if err != nil {
		return Details{}, err
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return Details{}, fmt.Errorf("decode resume payload: %w", err)
	}
	if inner, ok := decoded["resume_details"].(map[string]any); ok {
		decoded = inner
	}

	normalizeDetailsMap(decoded)

	canonical, err := json.Marshal(decoded)
	if err != nil {
		return Details{}, fmt.Errorf("re-encode resume payload: %w", err)
	}

	var details Details
	if err := json.Unmarshal(canonical, &details); err != nil {
		return Details{}, fmt.Errorf("bind resume schema: %w", err)
	}
	details.ensureDefaults()
	return details, nil
}
