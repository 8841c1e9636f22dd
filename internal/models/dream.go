package models

import (
	"time"
)

// Dream is a user-authored journal entry. Date is set once at creation and
// never updated afterwards.
type Dream struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	User           User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	Date           time.Time      `gorm:"not null" json:"date"`
	IsLucid        bool           `gorm:"default:false" json:"is_lucid"`
	AudioRecording string         `json:"audio_recording,omitempty"`
	Emotions       []DreamEmotion `gorm:"foreignKey:DreamID" json:"emotions,omitempty"`
	Themes         []DreamTheme   `gorm:"foreignKey:DreamID" json:"themes,omitempty"`
	Insight        *DreamInsight  `gorm:"foreignKey:DreamID" json:"insight,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Emotion is a global vocabulary entry, deduplicated by name.
type Emotion struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

// Theme is a global vocabulary entry, deduplicated by name.
type Theme struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

// DreamEmotion links a dream to an emotion with an intensity rating in [1,10].
// At most one row per (dream, emotion) pair.
type DreamEmotion struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	DreamID   uint    `gorm:"not null;uniqueIndex:idx_dream_emotion" json:"dream_id"`
	Dream     Dream   `gorm:"foreignKey:DreamID;constraint:OnDelete:CASCADE" json:"-"`
	EmotionID uint    `gorm:"not null;uniqueIndex:idx_dream_emotion" json:"emotion_id"`
	Emotion   Emotion `gorm:"foreignKey:EmotionID;constraint:OnDelete:CASCADE" json:"emotion"`
	Intensity int     `gorm:"not null" json:"intensity"`
}

// DreamTheme links a dream to a theme. At most one row per (dream, theme) pair.
type DreamTheme struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	DreamID uint  `gorm:"not null;uniqueIndex:idx_dream_theme" json:"dream_id"`
	Dream   Dream `gorm:"foreignKey:DreamID;constraint:OnDelete:CASCADE" json:"-"`
	ThemeID uint  `gorm:"not null;uniqueIndex:idx_dream_theme" json:"theme_id"`
	Theme   Theme `gorm:"foreignKey:ThemeID;constraint:OnDelete:CASCADE" json:"theme"`
}

// DreamInsight holds the AI-generated interpretive analysis for a dream.
// One per dream; regeneration overwrites the existing row.
type DreamInsight struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DreamID   uint      `gorm:"not null;uniqueIndex" json:"dream_id"`
	Dream     Dream     `gorm:"foreignKey:DreamID;constraint:OnDelete:CASCADE" json:"-"`
	Summary   string    `gorm:"size:1000" json:"summary"`
	Analysis  string    `gorm:"type:text" json:"analysis"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// MinIntensity and MaxIntensity bound DreamEmotion.Intensity.
	MinIntensity = 1
	MaxIntensity = 10

	// InsightSummaryLen is how much of the analysis is kept as the summary.
	InsightSummaryLen = 1000
)
