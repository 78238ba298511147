package analysis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"cvlens/internal/errcode"
	"cvlens/internal/extract"
	"cvlens/internal/llm"
	"cvlens/internal/llmjson"
	"cvlens/internal/resume"
	"cvlens/internal/similarity"
	"cvlens/internal/skills"
	"cvlens/internal/tasks"
)

// TaskEnqueuer is the slice of asynq.Client the analyzer needs. Tests swap
// in a recording fake.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Request is one analysis job: the raw uploaded document plus the caller's
// targeting inputs and the identifiers the persist task needs.
type Request struct {
	Content        []byte
	Extension      string
	FileName       string
	TargetRole     string
	JobDescription string
	UserID         uint
	CorrelationID  string
	ObjectKey      string
	IsPrimary      bool
}

// Analyzer runs the full pipeline for one resume: text extraction,
// deterministic scoring, three concurrent model calls and deferred
// persistence through the task queue.
type Analyzer struct {
	llm             llm.Client
	extractor       *resume.Extractor
	taxonomy        *skills.Taxonomy
	enqueuer        TaskEnqueuer
	logger          *slog.Logger
	maxConcurrent   int
	queue           string
	persistMaxRetry int
}

func NewAnalyzer(client llm.Client, extractor *resume.Extractor, taxonomy *skills.Taxonomy, enqueuer TaskEnqueuer, logger *slog.Logger, maxConcurrent int, queue string, persistMaxRetry int) *Analyzer {
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	return &Analyzer{
		llm:             client,
		extractor:       extractor,
		taxonomy:        taxonomy,
		enqueuer:        enqueuer,
		logger:          logger,
		maxConcurrent:   maxConcurrent,
		queue:           queue,
		persistMaxRetry: persistMaxRetry,
	}
}

// Analyze runs the pipeline and always returns an envelope. Fatal failures
// (unreadable document) come back as success=false with an error code;
// individual model-call failures degrade to zero-valued sections so the
// deterministic scores still reach the caller.
func (a *Analyzer) Analyze(ctx context.Context, req Request) *Envelope {
	log := a.logger.With("correlation_id", req.CorrelationID, "user_id", req.UserID)

	text, err := extract.Text(req.Content, req.Extension)
	if err != nil {
		code := errcode.ExtractionFailed
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			code = errcode.UnsupportedFormat
		}
		log.Warn("text extraction failed", "error", err, "extension", req.Extension)
		return &Envelope{
			Success:      false,
			Message:      errcode.Msg(code),
			ErrorCode:    code,
			ErrorMessage: err.Error(),
		}
	}

	result := emptyResult()
	result.JobMatchScore = similarity.Score(text, req.JobDescription)
	result.TechnicalSkills, result.SoftSkills = a.taxonomy.Detect(text)

	match := a.taxonomy.MatchJobDescription(text, req.JobDescription)
	result.SkillMatchPercent = match.MatchPercent
	result.MatchedSkills = match.Matched
	result.MissingSkills = match.Missing

	details := resume.EmptyDetails()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)

	g.Go(func() error {
		d, err := a.extractor.Extract(gctx, text)
		if err != nil {
			log.Warn("structured extraction degraded to defaults", "error", err)
			return nil
		}
		details = d
		return nil
	})

	g.Go(func() error {
		overall, err := a.overallAnalysis(gctx, text, req.TargetRole, req.JobDescription)
		if err != nil {
			log.Warn("overall analysis failed", "error", err)
			return nil
		}
		result.OverallAnalysis = overall
		return nil
	})

	g.Go(func() error {
		sections, err := a.sectionAnalysis(gctx, text, req.TargetRole)
		if err != nil {
			log.Warn("section analysis failed", "error", err)
			return nil
		}
		result.SectionWiseAnalysis = sections
		return nil
	})

	g.Go(func() error {
		scores, err := a.atsScores(gctx, text, req.JobDescription)
		if err != nil {
			log.Warn("ats scoring failed", "error", err)
			return nil
		}
		result.ATSScores = scores
		return nil
	})

	// Workers swallow their own errors, so Wait only synchronizes.
	_ = g.Wait()

	envelope := &Envelope{
		Success: true,
		Message: "resume analyzed successfully",
		ResumeMetadata: &ResumeMetadata{
			ResumeName: req.FileName,
			IsPrimary:  req.IsPrimary,
		},
		Result: &EnvelopeResult{
			ResumeDetails:  details,
			ResumeAnalysis: result,
		},
	}

	a.enqueuePersist(ctx, req, details, result, log)
	return envelope
}

func (a *Analyzer) overallAnalysis(ctx context.Context, text, targetRole, jd string) (OverallAnalysis, error) {
	raw, err := a.llm.Generate(ctx, llm.GenerateRequest{
		Op:          "overall_analysis",
		Prompt:      overallPrompt(text, targetRole, jd),
		MaxTokens:   overallMaxTokens,
		Temperature: overallTemp,
	})
	if err != nil {
		return emptyOverall(), err
	}
	overall := emptyOverall()
	if err := llmjson.Unmarshal(raw, &overall); err != nil {
		return emptyOverall(), err
	}
	if overall.Strengths == nil {
		overall.Strengths = []string{}
	}
	if overall.Improvements == nil {
		overall.Improvements = []string{}
	}
	if overall.ATSSuggestions == nil {
		overall.ATSSuggestions = []string{}
	}
	return overall, nil
}

func (a *Analyzer) sectionAnalysis(ctx context.Context, text, targetRole string) (map[string]SectionReview, error) {
	raw, err := a.llm.Generate(ctx, llm.GenerateRequest{
		Op:          "section_analysis",
		Prompt:      sectionPrompt(text, targetRole),
		MaxTokens:   sectionMaxTokens,
		Temperature: sectionTemp,
	})
	if err != nil {
		return map[string]SectionReview{}, err
	}
	sections := map[string]SectionReview{}
	if err := llmjson.Unmarshal(raw, &sections); err != nil {
		return map[string]SectionReview{}, err
	}
	for name, review := range sections {
		review.normalize()
		sections[name] = review
	}
	return sections, nil
}

func (a *Analyzer) atsScores(ctx context.Context, text, jd string) (ATSSubScores, error) {
	raw, err := a.llm.Generate(ctx, llm.GenerateRequest{
		Op:          "ats_scores",
		Prompt:      atsPrompt(text, jd),
		MaxTokens:   atsMaxTokens,
		Temperature: atsTemp,
	})
	if err != nil {
		return ATSSubScores{}, err
	}
	var scores ATSSubScores
	if err := llmjson.Unmarshal(raw, &scores); err != nil {
		return ATSSubScores{}, err
	}
	return scores, nil
}

// enqueuePersist hands the finished analysis to the worker. The response has
// already been assembled at this point, so enqueue failures are logged and
// otherwise ignored.
func (a *Analyzer) enqueuePersist(ctx context.Context, req Request, details resume.Details, result Result, log *slog.Logger) {
	task, err := tasks.NewAnalysisPersistTask(tasks.AnalysisPersistPayload{
		UserID:        req.UserID,
		ResumeName:    req.FileName,
		ObjectKey:     req.ObjectKey,
		IsPrimary:     req.IsPrimary,
		CorrelationID: req.CorrelationID,
		Details:       marshalRaw(details),
		Analysis:      marshalRaw(result),
	})
	if err != nil {
		log.Error("build persist task failed", "error", err)
		return
	}
	info, err := a.enqueuer.EnqueueContext(ctx, task,
		asynq.Queue(a.queue),
		asynq.MaxRetry(a.persistMaxRetry),
	)
	if err != nil {
		log.Error("enqueue persist task failed", "error", err)
		return
	}
	log.Info("persist task enqueued", "task_id", info.ID, "queue", info.Queue)
}
