package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cvlens/internal/database"
	"cvlens/internal/tasks"
)

type fakePublisher struct {
	channels []string
	messages [][]byte
	nextErr  error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, message any) *redis.IntCmd {
	if p.nextErr != nil {
		cmd := redis.NewIntCmd(context.Background())
		cmd.SetErr(p.nextErr)
		return cmd
	}
	p.channels = append(p.channels, channel)
	p.messages = append(p.messages, message.([]byte))
	return redis.NewIntResult(1, nil)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.User{}, &database.Resume{}, &database.ResumeAnalysis{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newPersistTask(t *testing.T, payload tasks.AnalysisPersistPayload) *asynq.Task {
	t.Helper()
	task, err := tasks.NewAnalysisPersistTask(payload)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	return task
}

func testPayload() tasks.AnalysisPersistPayload {
	return tasks.AnalysisPersistPayload{
		UserID:        7,
		ResumeName:    "cv.pdf",
		ObjectKey:     "resumes/7/abc.pdf",
		IsPrimary:     false,
		CorrelationID: "corr-1",
		Details:       json.RawMessage(`{"personal_info": {"name": "Ada"}}`),
		Analysis:      json.RawMessage(`{"job_match_score": 42.5}`),
	}
}

func TestPersistTaskCreatesRecords(t *testing.T) {
	db := newTestDB(t)
	pub := &fakePublisher{}
	h := NewPersistTaskHandler(db, pub, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := h.ProcessTask(context.Background(), newPersistTask(t, testPayload())); err != nil {
		t.Fatalf("process task: %v", err)
	}

	var resume database.Resume
	if err := db.First(&resume, "user_id = ?", 7).Error; err != nil {
		t.Fatalf("load resume: %v", err)
	}
	if resume.Name != "cv.pdf" || resume.ObjectKey != "resumes/7/abc.pdf" || resume.IsPrimary {
		t.Errorf("unexpected resume row: %+v", resume)
	}

	var analysis database.ResumeAnalysis
	if err := db.First(&analysis, "resume_id = ?", resume.ID).Error; err != nil {
		t.Fatalf("load analysis: %v", err)
	}
	if analysis.UserID != 7 || analysis.CorrelationID != "corr-1" {
		t.Errorf("unexpected analysis row: %+v", analysis)
	}

	if len(pub.channels) != 1 || pub.channels[0] != "user_notify:7" {
		t.Fatalf("publish channels = %v", pub.channels)
	}
	var notify AnalysisNotifyMessage
	if err := json.Unmarshal(pub.messages[0], &notify); err != nil {
		t.Fatalf("decode notify: %v", err)
	}
	if notify.Status != "completed" || notify.ResumeID != resume.ID || notify.CorrelationID != "corr-1" {
		t.Errorf("unexpected notify: %+v", notify)
	}
}

func TestPersistTaskDemotesPreviousPrimary(t *testing.T) {
	db := newTestDB(t)
	pub := &fakePublisher{}
	h := NewPersistTaskHandler(db, pub, slog.New(slog.NewTextHandler(io.Discard, nil)))

	old := database.Resume{UserID: 7, Name: "old.pdf", IsPrimary: true}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	payload := testPayload()
	payload.IsPrimary = true
	if err := h.ProcessTask(context.Background(), newPersistTask(t, payload)); err != nil {
		t.Fatalf("process task: %v", err)
	}

	var primaries []database.Resume
	if err := db.Where("user_id = ? AND is_primary = ?", 7, true).Find(&primaries).Error; err != nil {
		t.Fatalf("load primaries: %v", err)
	}
	if len(primaries) != 1 || primaries[0].Name != "cv.pdf" {
		t.Fatalf("primary invariant broken: %+v", primaries)
	}

	if err := db.First(&old, old.ID).Error; err != nil {
		t.Fatalf("reload old resume: %v", err)
	}
	if old.IsPrimary {
		t.Error("previous primary was not demoted")
	}
}

func TestPersistTaskBadPayload(t *testing.T) {
	db := newTestDB(t)
	pub := &fakePublisher{}
	h := NewPersistTaskHandler(db, pub, slog.New(slog.NewTextHandler(io.Discard, nil)))

	task := asynq.NewTask(tasks.TypeAnalysisPersist, []byte("not json"))
	if err := h.ProcessTask(context.Background(), task); err == nil {
		t.Fatal("expected error for malformed payload")
	}
	if len(pub.channels) != 0 {
		t.Errorf("no notification expected before the final attempt, got %v", pub.channels)
	}
}

func TestPersistTaskPublishFailure(t *testing.T) {
	db := newTestDB(t)
	pub := &fakePublisher{nextErr: errors.New("redis down")}
	h := NewPersistTaskHandler(db, pub, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := h.ProcessTask(context.Background(), newPersistTask(t, testPayload())); err == nil {
		t.Fatal("expected error when notification publish fails")
	}

	var count int64
	if err := db.Model(&database.Resume{}).Count(&count).Error; err != nil {
		t.Fatalf("count resumes: %v", err)
	}
	if count != 1 {
		t.Errorf("resume should still be persisted, count = %d", count)
	}
}
