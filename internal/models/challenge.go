package models

import "time"

// DreamChallenge is a time-boxed journaling challenge open to all users.
type DreamChallenge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
}

// UserChallenge tracks a user's participation in a challenge.
// At most one row per (user, challenge) pair.
type UserChallenge struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;uniqueIndex:idx_user_challenge" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ChallengeID uint           `gorm:"not null;uniqueIndex:idx_user_challenge" json:"challenge_id"`
	Challenge   DreamChallenge `gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE" json:"challenge"`
	Completed   bool           `gorm:"default:false" json:"completed"`
}

// LucidDreamingProgress records a user's lucid dreaming practice. One row per
// user; SuccessRate is a percentage in [0,100].
type LucidDreamingProgress struct {
	ID                  uint    `gorm:"primaryKey" json:"id"`
	UserID              uint    `gorm:"not null;uniqueIndex" json:"user_id"`
	User                User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TechniquesPracticed string  `gorm:"type:text" json:"techniques_practiced"`
	SuccessRate         float64 `gorm:"default:0" json:"success_rate"`
}
