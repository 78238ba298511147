package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is an account. Deleting a user removes their resumes and analyses.
type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:64"`
	PasswordHash string   `gorm:"size:255"`
	Role         string   `gorm:"size:32;default:user"`
	Resumes      []Resume `gorm:"constraint:OnDelete:CASCADE"`
}

// Resume is one stored resume: the structured details extracted from the
// uploaded document plus the archive location of the original file. At most
// one resume per user has IsPrimary set; the worker enforces that inside the
// persist transaction.
type Resume struct {
	gorm.Model
	UserID    uint           `gorm:"index"`
	User      User           `gorm:"constraint:OnDelete:CASCADE"`
	Name      string         `gorm:"size:255"`
	IsPrimary bool           `gorm:"index"`
	ObjectKey string         `gorm:"size:512"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
}

// ResumeAnalysis stores the full analysis result for one resume as delivered
// to the caller, keyed by the correlation id of the originating request.
type ResumeAnalysis struct {
	gorm.Model
	ResumeID      uint           `gorm:"index"`
	Resume        Resume         `gorm:"constraint:OnDelete:CASCADE"`
	UserID        uint           `gorm:"index"`
	CorrelationID string         `gorm:"size:64"`
	Result        datatypes.JSON `gorm:"type:jsonb"`
}
