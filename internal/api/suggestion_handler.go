package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvlens/internal/api/middleware"
	"cvlens/internal/llm"
	"cvlens/internal/llmjson"
)

const (
	suggestionMaxTokens   = 500
	suggestionTemperature = 0.7
)

// SuggestionHandler serves bullet-point suggestions for individual resume
// entries (projects, work experience, extracurriculars).
type SuggestionHandler struct {
	llm    llm.Client
	logger *slog.Logger
}

func NewSuggestionHandler(client llm.Client, logger *slog.Logger) *SuggestionHandler {
	return &SuggestionHandler{llm: client, logger: logger}
}

type projectSuggestionRequest struct {
	ProjectName string `form:"project_name" json:"project_name" binding:"required"`
	TechStack   string `form:"tech_stack" json:"tech_stack" binding:"required"`
	Description string `form:"description" json:"description"`
}

type experienceSuggestionRequest struct {
	OrganisationName string `form:"organisation_name" json:"organisation_name" binding:"required"`
	Position         string `form:"position" json:"position" binding:"required"`
	Location         string `form:"location" json:"location" binding:"required"`
	Description      string `form:"description" json:"description"`
}

type suggestionResponse struct {
	Suggestions []string `json:"suggestions"`
}

// SuggestProject writes description points for a project entry.
func (h *SuggestionHandler) SuggestProject(c *gin.Context) {
	var req projectSuggestionRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	subject := fmt.Sprintf("Project: %s\nTech stack: %s", req.ProjectName, req.TechStack)
	h.suggest(c, "project", subject, req.Description)
}

// SuggestExperience writes description points for a work experience entry.
func (h *SuggestionHandler) SuggestExperience(c *gin.Context) {
	h.suggestForExperience(c, "work experience")
}

// SuggestExtracurricular writes description points for an extracurricular
// activity entry.
func (h *SuggestionHandler) SuggestExtracurricular(c *gin.Context) {
	h.suggestForExperience(c, "extracurricular activity")
}

func (h *SuggestionHandler) suggestForExperience(c *gin.Context, kind string) {
	var req experienceSuggestionRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	subject := fmt.Sprintf("Organisation: %s\nPosition: %s\nLocation: %s",
		req.OrganisationName, req.Position, req.Location)
	h.suggest(c, kind, subject, req.Description)
}

func (h *SuggestionHandler) suggest(c *gin.Context, kind, subject, description string) {
	logger := h.loggerFromContext(c).With(slog.String("kind", kind))

	raw, err := h.llm.Generate(c.Request.Context(), llm.GenerateRequest{
		Op:          "suggestions",
		Prompt:      suggestionPrompt(kind, subject, description),
		MaxTokens:   suggestionMaxTokens,
		Temperature: suggestionTemperature,
	})
	if err != nil {
		logger.Error("suggestion generation failed", slog.Any("error", err))
		BadGateway(c, "suggestion generation failed")
		return
	}

	var resp suggestionResponse
	if err := llmjson.Unmarshal(raw, &resp); err != nil {
		logger.Error("suggestion response unparseable", slog.Any("error", err))
		BadGateway(c, "suggestion generation failed")
		return
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}

	c.JSON(http.StatusOK, resp)
}

func suggestionPrompt(kind, subject, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert resume writer. Write 3-5 strong resume bullet points for the %s below. ", kind)
	b.WriteString("Use action verbs and quantify impact where possible. Return ONLY a JSON object:\n")
	b.WriteString(`{"suggestions": ["..."]}`)
	b.WriteString("\n\n")
	b.WriteString(subject)
	if d := strings.TrimSpace(description); d != "" {
		b.WriteString("\nCurrent description: ")
		b.WriteString(d)
	}
	return b.String()
}

func (h *SuggestionHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
