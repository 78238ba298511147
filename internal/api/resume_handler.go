package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cvlens/internal/analysis"
	"cvlens/internal/api/middleware"
	"cvlens/internal/database"
	"cvlens/internal/errcode"
	"cvlens/internal/extract"
	"cvlens/internal/storage"
)

const documentLinkTTL = 10 * time.Minute

// documentStore is the slice of storage.Client the resume handler needs.
type documentStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	StatObject(ctx context.Context, objectKey string) (*minio.ObjectInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// resumeAnalyzer runs the full pipeline for one uploaded document.
type resumeAnalyzer interface {
	Analyze(ctx context.Context, req analysis.Request) *analysis.Envelope
}

// ResumeHandler serves upload-and-analyze plus the stored-resume CRUD.
type ResumeHandler struct {
	db                *gorm.DB
	storage           documentStore
	analyzer          resumeAnalyzer
	logger            *slog.Logger
	clamdAddr         string
	maxUploadBytes    int64
	defaultTargetRole string
}

func NewResumeHandler(db *gorm.DB, storageClient documentStore, analyzer resumeAnalyzer, logger *slog.Logger, clamdAddr string, maxUploadBytes int64, defaultTargetRole string) *ResumeHandler {
	return &ResumeHandler{
		db:                db,
		storage:           storageClient,
		analyzer:          analyzer,
		logger:            logger,
		clamdAddr:         clamdAddr,
		maxUploadBytes:    maxUploadBytes,
		defaultTargetRole: defaultTargetRole,
	}
}

var errInvalidResumeID = errors.New("invalid resume id")

// Analyze receives a resume document with optional targeting inputs, runs
// the analysis pipeline synchronously and returns the result envelope.
// Pipeline-level failures (bad document) still answer 200 with success=false
// so clients always get the envelope shape.
func (h *ResumeHandler) Analyze(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	logger := h.loggerFromContext(c).With(slog.Uint64("user_id", uint64(userID)))

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		Error(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(file.Filename), ".")
	if !extract.IsSupported(ext) {
		c.JSON(http.StatusOK, analysis.Envelope{
			Success:      false,
			Message:      errcode.Msg(errcode.UnsupportedFormat),
			ErrorCode:    errcode.UnsupportedFormat,
			ErrorMessage: fmt.Sprintf("unsupported document format %q", ext),
		})
		return
	}

	targetRole := strings.TrimSpace(c.PostForm("target_role"))
	if targetRole == "" {
		targetRole = h.defaultTargetRole
	}
	jobDescription := strings.TrimSpace(c.PostForm("job_description"))
	isPrimary, _ := strconv.ParseBool(c.DefaultPostForm("is_primary", "false"))

	if h.clamdAddr != "" {
		if err := h.scanUpload(file); err != nil {
			if errors.Is(err, errMaliciousFile) {
				BadRequest(c, "malicious file detected")
				return
			}
			logger.Error("scan file failed", slog.Any("error", err))
			Internal(c, "failed to scan file")
			return
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	content, err := io.ReadAll(fileReader)
	fileReader.Close()
	if err != nil {
		Internal(c, "failed to read file")
		return
	}

	ctx := c.Request.Context()
	correlationID := middleware.GetCorrelationID(c)

	// Archiving the original is best effort; analysis proceeds without it.
	objectKey := fmt.Sprintf("resumes/%d/%s.%s", userID, uuid.NewString(), ext)
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := h.storage.UploadFile(ctx, objectKey, bytes.NewReader(content), file.Size, contentType); err != nil {
		logger.Warn("archive upload failed", slog.Any("error", err), slog.String("object_key", objectKey))
		objectKey = ""
	}

	envelope := h.analyzer.Analyze(ctx, analysis.Request{
		Content:        content,
		Extension:      ext,
		FileName:       file.Filename,
		TargetRole:     targetRole,
		JobDescription: jobDescription,
		UserID:         userID,
		CorrelationID:  correlationID,
		ObjectKey:      objectKey,
		IsPrimary:      isPrimary,
	})

	c.JSON(http.StatusOK, envelope)
}

var errMaliciousFile = errors.New("malicious file detected")

func (h *ResumeHandler) scanUpload(file *multipart.FileHeader) error {
	clamdClient := clamd.NewClamd(h.clamdAddr)

	fileReader, err := file.Open()
	if err != nil {
		return fmt.Errorf("open file for scan: %w", err)
	}

	abortChan := make(chan bool)
	scanChan, err := clamdClient.ScanStream(fileReader, abortChan)
	fileReader.Close()
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}
	defer close(abortChan)

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return errMaliciousFile
		}
	}
	return nil
}

type resumeListItem struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// ListResumes lists the caller's stored resumes, primary first.
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	var resumes []database.Resume
	if err := h.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_primary DESC, created_at DESC").
		Find(&resumes).Error; err != nil {
		Internal(c, "failed to list resumes")
		return
	}

	items := make([]resumeListItem, 0, len(resumes))
	for _, r := range resumes {
		items = append(items, resumeListItem{
			ID:        r.ID,
			Name:      r.Name,
			IsPrimary: r.IsPrimary,
			CreatedAt: r.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, items)
}

type resumeResponse struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	IsPrimary bool           `json:"is_primary"`
	Details   datatypes.JSON `json:"details"`
	Analysis  datatypes.JSON `json:"analysis,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// GetResume returns one stored resume with its structured details and the
// most recent analysis.
func (h *ResumeHandler) GetResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resume, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyResumeLookupError(c, err)
		return
	}

	resp := resumeResponse{
		ID:        resume.ID,
		Name:      resume.Name,
		IsPrimary: resume.IsPrimary,
		Details:   resume.Details,
		CreatedAt: resume.CreatedAt,
		UpdatedAt: resume.UpdatedAt,
	}

	var latest database.ResumeAnalysis
	err = h.db.WithContext(c.Request.Context()).
		Where("resume_id = ?", resume.ID).
		Order("created_at DESC").
		First(&latest).Error
	if err == nil {
		resp.Analysis = latest.Result
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		Internal(c, "failed to load analysis")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteResume removes a resume, its analyses and the archived document.
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resume, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyResumeLookupError(c, err)
		return
	}

	ctx := c.Request.Context()
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resume_id = ?", resume.ID).Delete(&database.ResumeAnalysis{}).Error; err != nil {
			return err
		}
		return tx.Delete(&database.Resume{}, resume.ID).Error
	})
	if err != nil {
		Internal(c, "failed to delete resume")
		return
	}

	if resume.ObjectKey != "" {
		if err := h.storage.DeleteObject(ctx, resume.ObjectKey); err != nil {
			h.loggerFromContext(c).Warn("delete archived document failed",
				slog.String("object_key", resume.ObjectKey), slog.Any("error", err))
		}
	}

	c.Status(http.StatusNoContent)
}

// MarkPrimary makes a resume the caller's primary one. Any previous primary
// is demoted in the same transaction.
func (h *ResumeHandler) MarkPrimary(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resume, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyResumeLookupError(c, err)
		return
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&database.Resume{}).
			Where("user_id = ? AND is_primary = ? AND id <> ?", userID, true, resume.ID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(resume).Update("is_primary", true).Error
	})
	if err != nil {
		Internal(c, "failed to mark primary resume")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetDocumentLink returns a presigned download link for the archived
// original document.
func (h *ResumeHandler) GetDocumentLink(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resume, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyResumeLookupError(c, err)
		return
	}

	if resume.ObjectKey == "" {
		Conflict(c, "original document not archived")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.storage.StatObject(ctx, resume.ObjectKey); err != nil {
		if storage.IsNoSuchKey(err) {
			NotFound(c, "archived document no longer exists")
			return
		}
		Internal(c, "failed to check archived document")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(ctx, resume.ObjectKey, documentLinkTTL)
	if err != nil {
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

func (h *ResumeHandler) replyResumeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidResumeID):
		BadRequest(c, "invalid resume id")
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "resume not found")
	default:
		Internal(c, "failed to query resume")
	}
}

func (h *ResumeHandler) getResumeForUser(ctx context.Context, idParam string, userID uint) (*database.Resume, error) {
	resumeID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return nil, errInvalidResumeID
	}

	var resume database.Resume
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", uint(resumeID), userID).
		First(&resume).Error; err != nil {
		return nil, err
	}

	return &resume, nil
}

func (h *ResumeHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case uint64:
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}
