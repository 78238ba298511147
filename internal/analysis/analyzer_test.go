package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/hibiken/asynq"

	"cvlens/internal/errcode"
	"cvlens/internal/llm"
	"cvlens/internal/resume"
	"cvlens/internal/skills"
	"cvlens/internal/tasks"
)

type fakeLLM struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeLLM) Generate(_ context.Context, req llm.GenerateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req.Op)
	if err := f.errs[req.Op]; err != nil {
		return "", err
	}
	resp, ok := f.responses[req.Op]
	if !ok {
		return "", errors.New("unexpected op " + req.Op)
	}
	return resp, nil
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeEnqueuer struct {
	mu      sync.Mutex
	tasks   []*asynq.Task
	nextErr error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: "analysis"}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	overallResponse = "```json\n{\"strengths\": [\"clear python experience\"], \"improvements\": [\"quantify impact\"], \"ats_suggestions\": [\"use standard headings\"], \"job_fit\": {\"score\": 72, \"notes\": \"decent overlap\"}, \"recommendation_score\": 70, \"summary\": \"a solid candidate\"}\n```"

	sectionResponse = `{"skills": {"description": "skill list", "good": ["relevant stack"], "bad": [], "improvements": ["group by category"], "overall_review": "amazing"}}`

	atsResponse = `{"ats_score": 81, "format_compliance": 75, "keyword_optimization": 64, "readability": 90}`

	detailsResponse = `{"resume_details": {"personal_info": {"name": "Ada Example"}, "skills": [{"group_name": "Languages", "skills": ["python"]}]}}`
)

func newTestAnalyzer(client llm.Client, enq TaskEnqueuer) *Analyzer {
	logger := discardLogger()
	extractor := resume.NewExtractor(client, logger)
	return NewAnalyzer(client, extractor, skills.DefaultTaxonomy(), enq, logger, 3, "analysis", 5)
}

func fullResponses() map[string]string {
	return map[string]string{
		"overall_analysis": overallResponse,
		"section_analysis": sectionResponse,
		"ats_scores":       atsResponse,
		"resume_details":   detailsResponse,
	}
}

func testRequest() Request {
	return Request{
		Content:        []byte("skilled in python and communication"),
		Extension:      "txt",
		FileName:       "cv.txt",
		TargetRole:     "backend engineer",
		JobDescription: "python mysql",
		UserID:         7,
		CorrelationID:  "corr-1",
		ObjectKey:      "resumes/7/abc.txt",
		IsPrimary:      true,
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	client := &fakeLLM{responses: fullResponses()}
	enq := &fakeEnqueuer{}
	analyzer := newTestAnalyzer(client, enq)

	env := analyzer.Analyze(context.Background(), testRequest())

	if !env.Success {
		t.Fatalf("expected success, got error %d: %s", env.ErrorCode, env.ErrorMessage)
	}
	if env.ResumeMetadata == nil || env.ResumeMetadata.ResumeName != "cv.txt" || !env.ResumeMetadata.IsPrimary {
		t.Fatalf("unexpected metadata: %+v", env.ResumeMetadata)
	}
	if env.Result == nil {
		t.Fatal("expected a result payload")
	}

	res := env.Result.ResumeAnalysis
	if res.SkillMatchPercent != 50.0 {
		t.Errorf("skill match percent = %v, want 50.0", res.SkillMatchPercent)
	}
	if len(res.MatchedSkills) != 1 || res.MatchedSkills[0] != "python" {
		t.Errorf("matched skills = %v, want [python]", res.MatchedSkills)
	}
	if len(res.MissingSkills) != 1 || res.MissingSkills[0] != "mysql" {
		t.Errorf("missing skills = %v, want [mysql]", res.MissingSkills)
	}
	if res.JobMatchScore <= 0 {
		t.Errorf("job match score = %v, want > 0", res.JobMatchScore)
	}
	if res.ATSScores.ATSScore != 81 || res.ATSScores.Readability != 90 {
		t.Errorf("unexpected ats scores: %+v", res.ATSScores)
	}
	if len(res.OverallAnalysis.Strengths) != 1 || res.OverallAnalysis.RecommendationScore != 70 {
		t.Errorf("unexpected overall analysis: %+v", res.OverallAnalysis)
	}
	review, ok := res.SectionWiseAnalysis["skills"]
	if !ok {
		t.Fatalf("missing skills section review: %v", res.SectionWiseAnalysis)
	}
	if review.OverallReview != "needs_improvement" {
		t.Errorf("overall_review = %q, want unknown grade coerced to needs_improvement", review.OverallReview)
	}

	if env.Result.ResumeDetails.PersonalInfo.Name != "Ada Example" {
		t.Errorf("resume details not bound: %+v", env.Result.ResumeDetails.PersonalInfo)
	}

	if len(enq.tasks) != 1 {
		t.Fatalf("enqueued %d tasks, want 1", len(enq.tasks))
	}
	task := enq.tasks[0]
	if task.Type() != tasks.TypeAnalysisPersist {
		t.Errorf("task type = %q", task.Type())
	}
	var payload tasks.AnalysisPersistPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.UserID != 7 || payload.ResumeName != "cv.txt" || payload.ObjectKey != "resumes/7/abc.txt" || !payload.IsPrimary {
		t.Errorf("unexpected payload: %+v", payload)
	}
	if payload.CorrelationID != "corr-1" {
		t.Errorf("correlation id = %q", payload.CorrelationID)
	}
}

func TestAnalyzeDegradesWhenModelFails(t *testing.T) {
	client := &fakeLLM{errs: map[string]error{
		"overall_analysis": errors.New("boom"),
		"section_analysis": errors.New("boom"),
		"ats_scores":       errors.New("boom"),
		"resume_details":   errors.New("boom"),
	}}
	enq := &fakeEnqueuer{}
	analyzer := newTestAnalyzer(client, enq)

	env := analyzer.Analyze(context.Background(), testRequest())

	if !env.Success {
		t.Fatalf("model failures must not fail the pipeline: %+v", env)
	}
	res := env.Result.ResumeAnalysis
	if res.SkillMatchPercent != 50.0 {
		t.Errorf("deterministic scores must survive: %v", res.SkillMatchPercent)
	}
	if res.ATSScores != (ATSSubScores{}) {
		t.Errorf("ats scores should be zero valued: %+v", res.ATSScores)
	}
	if res.OverallAnalysis.Strengths == nil || len(res.OverallAnalysis.Strengths) != 0 {
		t.Errorf("overall strengths should be empty non-nil: %v", res.OverallAnalysis.Strengths)
	}
	if len(res.SectionWiseAnalysis) != 0 {
		t.Errorf("section analysis should be empty: %v", res.SectionWiseAnalysis)
	}
	if env.Result.ResumeDetails.PersonalInfo.Name != "" {
		t.Errorf("details should be defaults: %+v", env.Result.ResumeDetails.PersonalInfo)
	}
	if len(enq.tasks) != 1 {
		t.Errorf("degraded result should still be persisted, got %d tasks", len(enq.tasks))
	}
}

func TestAnalyzeUnsupportedFormat(t *testing.T) {
	client := &fakeLLM{responses: fullResponses()}
	enq := &fakeEnqueuer{}
	analyzer := newTestAnalyzer(client, enq)

	req := testRequest()
	req.Extension = "exe"
	env := analyzer.Analyze(context.Background(), req)

	if env.Success {
		t.Fatal("expected failure envelope")
	}
	if env.ErrorCode != errcode.UnsupportedFormat {
		t.Errorf("error code = %d, want %d", env.ErrorCode, errcode.UnsupportedFormat)
	}
	if env.Result != nil {
		t.Errorf("failure envelope must not carry a result")
	}
	if client.callCount() != 0 {
		t.Errorf("no model calls expected, got %d", client.callCount())
	}
	if len(enq.tasks) != 0 {
		t.Errorf("nothing should be persisted, got %d tasks", len(enq.tasks))
	}
}

func TestAnalyzeEnqueueFailureKeepsResponse(t *testing.T) {
	client := &fakeLLM{responses: fullResponses()}
	enq := &fakeEnqueuer{nextErr: errors.New("redis down")}
	analyzer := newTestAnalyzer(client, enq)

	env := analyzer.Analyze(context.Background(), testRequest())

	if !env.Success {
		t.Fatalf("enqueue failure must not fail the response: %+v", env)
	}
	if env.Result == nil || env.Result.ResumeAnalysis.SkillMatchPercent != 50.0 {
		t.Errorf("result should be intact despite enqueue failure")
	}
}
