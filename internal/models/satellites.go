package models

import "time"

// Satellite records hang off a Dream or User and cascade with their parent.
// They are persisted by the API but have no generation pipeline of their own.

// ArtworkGeneration stores a generated artwork reference for a dream.
type ArtworkGeneration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DreamID   uint      `gorm:"not null;index" json:"dream_id"`
	Dream     Dream     `gorm:"foreignKey:DreamID;constraint:OnDelete:CASCADE" json:"-"`
	Image     string    `gorm:"not null" json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// SoundtrackGeneration stores a generated soundtrack reference for a dream.
type SoundtrackGeneration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DreamID   uint      `gorm:"not null;index" json:"dream_id"`
	Dream     Dream     `gorm:"foreignKey:DreamID;constraint:OnDelete:CASCADE" json:"-"`
	AudioFile string    `gorm:"not null" json:"audio_file"`
	CreatedAt time.Time `json:"created_at"`
}

// CulturalInterpretation is a per-culture reading of a dream.
type CulturalInterpretation struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	DreamID        uint   `gorm:"not null;index" json:"dream_id"`
	Dream          Dream  `gorm:"foreignKey:DreamID;constraint:OnDelete:CASCADE" json:"-"`
	Culture        string `gorm:"size:100;not null" json:"culture"`
	Interpretation string `gorm:"type:text" json:"interpretation"`
}

// DailyTask is a small follow-up action derived from a dream.
type DailyTask struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	DreamID         uint   `gorm:"not null;index" json:"dream_id"`
	Dream           Dream  `gorm:"foreignKey:DreamID;constraint:OnDelete:CASCADE" json:"-"`
	TaskDescription string `gorm:"type:text;not null" json:"task_description"`
	Completed       bool   `gorm:"default:false" json:"completed"`
}

// DreamMeditation is a guided meditation track owned by a user.
type DreamMeditation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	AudioFile string    `gorm:"not null" json:"audio_file"`
	CreatedAt time.Time `json:"created_at"`
}

// DreamPrompt is a user-authored writing prompt.
type DreamPrompt struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PromptText string    `gorm:"type:text;not null" json:"prompt_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// CollaborativeDream is a response to a DreamPrompt written by any user.
type CollaborativeDream struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	PromptID     uint        `gorm:"not null;index" json:"prompt_id"`
	Prompt       DreamPrompt `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"-"`
	UserID       uint        `gorm:"not null;index" json:"user_id"`
	User         User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	DreamContent string      `gorm:"type:text;not null" json:"dream_content"`
	CreatedAt    time.Time   `json:"created_at"`
}
