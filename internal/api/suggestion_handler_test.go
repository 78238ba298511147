package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cvlens/internal/llm"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Generate(_ context.Context, req llm.GenerateRequest) (string, error) {
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newSuggestionContext(t *testing.T, w *httptest.ResponseRecorder, payload string) *gin.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/resume/project", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	return newAuthedContext(t, w, req, 1)
}

func TestSuggestProject(t *testing.T) {
	client := &fakeLLM{response: "```json\n{\"suggestions\": [\"Led migration of billing service\", \"Cut deploy time by 40%\"]}\n```"}
	h := NewSuggestionHandler(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	c := newSuggestionContext(t, w, `{"project_name": "billing service", "tech_stack": "go, postgres", "description": "rewrote invoice generation"}`)

	h.SuggestProject(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp suggestionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Suggestions) != 2 {
		t.Errorf("suggestions = %v", resp.Suggestions)
	}
	if len(client.prompts) != 1 {
		t.Fatalf("prompts = %v", client.prompts)
	}
	for _, want := range []string{"billing service", "go, postgres", "rewrote invoice generation"} {
		if !strings.Contains(client.prompts[0], want) {
			t.Errorf("prompt missing %q: %s", want, client.prompts[0])
		}
	}
}

func TestSuggestProjectMissingFields(t *testing.T) {
	h := NewSuggestionHandler(&fakeLLM{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	c := newSuggestionContext(t, w, `{"project_name": "billing service"}`)

	h.SuggestProject(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestSuggestExperienceModelFailure(t *testing.T) {
	client := &fakeLLM{err: errors.New("model unavailable")}
	h := NewSuggestionHandler(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	c := newSuggestionContext(t, w, `{"organisation_name": "Acme", "position": "engineer", "location": "Berlin"}`)

	h.SuggestExperience(c)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", w.Code)
	}
}

func TestSuggestExtracurricularUnparseableResponse(t *testing.T) {
	client := &fakeLLM{response: "sorry, I cannot help with that"}
	h := NewSuggestionHandler(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	c := newSuggestionContext(t, w, `{"organisation_name": "Chess Club", "position": "president", "location": "Campus"}`)

	h.SuggestExtracurricular(c)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", w.Code)
	}
}
