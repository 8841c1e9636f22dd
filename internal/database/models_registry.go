package database

import "dreamdeck/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Dream{},
		&models.Emotion{},
		&models.Theme{},
		&models.DreamEmotion{},
		&models.DreamTheme{},
		&models.DreamInsight{},
		&models.ArtworkGeneration{},
		&models.SoundtrackGeneration{},
		&models.DreamChallenge{},
		&models.UserChallenge{},
		&models.LucidDreamingProgress{},
		&models.CulturalInterpretation{},
		&models.DailyTask{},
		&models.DreamMeditation{},
		&models.DreamPrompt{},
		&models.CollaborativeDream{},
	}
}
