package analysis

import (
	"encoding/json"

	"cvlens/internal/resume"
)

// ATSSubScores holds the machine-screening score breakdown produced by the
// model. All values are 0-100; a failed call yields the zero value.
type ATSSubScores struct {
	ATSScore            float64 `json:"ats_score"`
	FormatCompliance    float64 `json:"format_compliance"`
	KeywordOptimization float64 `json:"keyword_optimization"`
	Readability         float64 `json:"readability"`
}

// JobFit is the model's qualitative judgement on role fit.
type JobFit struct {
	Score float64 `json:"score"`
	Notes string  `json:"notes"`
}

// OverallAnalysis is the holistic review returned by the overall-analysis
// call: narrative strengths and improvements plus a recommendation score.
type OverallAnalysis struct {
	Strengths           []string `json:"strengths"`
	Improvements        []string `json:"improvements"`
	ATSSuggestions      []string `json:"ats_suggestions"`
	JobFit              JobFit   `json:"job_fit"`
	RecommendationScore float64  `json:"recommendation_score"`
	Summary             string   `json:"summary"`
}

// SectionReview grades a single resume section. OverallReview is one of
// excellent, good, needs_improvement or poor; anything else is coerced to
// needs_improvement when the model response is bound.
type SectionReview struct {
	Description   string   `json:"description"`
	Good          []string `json:"good"`
	Bad           []string `json:"bad"`
	Improvements  []string `json:"improvements"`
	OverallReview string   `json:"overall_review"`
}

var validReviews = map[string]bool{
	"excellent":         true,
	"good":              true,
	"needs_improvement": true,
	"poor":              true,
}

func (s *SectionReview) normalize() {
	if !validReviews[s.OverallReview] {
		s.OverallReview = "needs_improvement"
	}
	if s.Good == nil {
		s.Good = []string{}
	}
	if s.Bad == nil {
		s.Bad = []string{}
	}
	if s.Improvements == nil {
		s.Improvements = []string{}
	}
}

// Result aggregates everything the pipeline computed for one resume:
// deterministic scores, skill matching and the three model-generated parts.
type Result struct {
	JobMatchScore       float64                  `json:"job_match_score"`
	SkillMatchPercent   float64                  `json:"skill_match_percent"`
	TechnicalSkills     []string                 `json:"technical_skills"`
	SoftSkills          []string                 `json:"soft_skills"`
	MatchedSkills       []string                 `json:"matched_skills"`
	MissingSkills       []string                 `json:"missing_skills"`
	ATSScores           ATSSubScores             `json:"ats_scores"`
	OverallAnalysis     OverallAnalysis          `json:"overall_analysis"`
	SectionWiseAnalysis map[string]SectionReview `json:"section_wise_analysis"`
}

// ResumeMetadata describes the uploaded file inside the response envelope.
type ResumeMetadata struct {
	ResumeName string `json:"resume_name"`
	IsPrimary  bool   `json:"is_primary"`
}

// EnvelopeResult pairs the structured resume with its analysis.
type EnvelopeResult struct {
	ResumeDetails  resume.Details `json:"resume_details"`
	ResumeAnalysis Result         `json:"resume_analysis"`
}

// Envelope is the full pipeline response. On failure Success is false and
// ErrorCode/ErrorMessage are set; Result is omitted.
type Envelope struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	ErrorCode      int             `json:"error_code,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	ResumeMetadata *ResumeMetadata `json:"resume_metadata,omitempty"`
	Result         *EnvelopeResult `json:"result,omitempty"`
}

func emptyOverall() OverallAnalysis {
	return OverallAnalysis{
		Strengths:      []string{},
		Improvements:   []string{},
		ATSSuggestions: []string{},
	}
}

func emptyResult() Result {
	return Result{
		TechnicalSkills:     []string{},
		SoftSkills:          []string{},
		MatchedSkills:       []string{},
		MissingSkills:       []string{},
		OverallAnalysis:     emptyOverall(),
		SectionWiseAnalysis: map[string]SectionReview{},
	}
}

// marshalRaw is a small helper for handing jsonb payloads to the persist
// task without re-binding them on the worker side.
func marshalRaw(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}
