package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cvlens/internal/database"
	"cvlens/internal/errcode"
	"cvlens/internal/tasks"
)

// Publisher is the slice of the Redis client the worker uses to notify the
// WebSocket forwarder.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// PersistTaskHandler consumes analysis persistence tasks: it writes the
// resume and its analysis to the database and pushes a notification to the
// uploading user's channel.
type PersistTaskHandler struct {
	db        *gorm.DB
	publisher Publisher
	logger    *slog.Logger
}

func NewPersistTaskHandler(db *gorm.DB, publisher Publisher, logger *slog.Logger) *PersistTaskHandler {
	return &PersistTaskHandler{db: db, publisher: publisher, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *PersistTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	var payload tasks.AnalysisPersistPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("user_id", uint64(payload.UserID)),
	)
	log.Info("persisting analyzed resume", slog.String("resume_name", payload.ResumeName))

	// Failures before the final retry stay silent; asynq will run the task
	// again and the user only hears about the definitive outcome.
	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}
		notify := AnalysisNotifyMessage{
			Status:        "error",
			ResumeName:    payload.ResumeName,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.publishNotify(ctx, payload.UserID, notify); err != nil {
			log.Error("publish error notification failed", slog.Any("error", err))
		}
	}()

	resume := database.Resume{
		UserID:    payload.UserID,
		Name:      payload.ResumeName,
		IsPrimary: payload.IsPrimary,
		ObjectKey: payload.ObjectKey,
		Details:   datatypes.JSON(payload.Details),
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if payload.IsPrimary {
			if err := tx.Model(&database.Resume{}).
				Where("user_id = ? AND is_primary = ?", payload.UserID, true).
				Update("is_primary", false).Error; err != nil {
				return fmt.Errorf("demote previous primary: %w", err)
			}
		}
		if err := tx.Create(&resume).Error; err != nil {
			return fmt.Errorf("insert resume: %w", err)
		}
		analysis := database.ResumeAnalysis{
			ResumeID:      resume.ID,
			UserID:        payload.UserID,
			CorrelationID: payload.CorrelationID,
			Result:        datatypes.JSON(payload.Analysis),
		}
		if err := tx.Create(&analysis).Error; err != nil {
			return fmt.Errorf("insert analysis: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("persist transaction failed", slog.Any("error", err))
		return err
	}

	notify := AnalysisNotifyMessage{
		Status:        "completed",
		ResumeID:      resume.ID,
		ResumeName:    payload.ResumeName,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := h.publishNotify(ctx, payload.UserID, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("resume persisted", slog.Uint64("resume_id", uint64(resume.ID)))
	return nil
}

func (h *PersistTaskHandler) publishNotify(ctx context.Context, userID uint, notify AnalysisNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf("user_notify:%d", userID)
	if err := h.publisher.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
