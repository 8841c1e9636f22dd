package seed

import (
	"log"

	"dreamdeck/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers      int
	DreamsPerUser int
	NumChallenges int
	WithInsights  bool
	ShouldClean   bool
}

// Seed populates the database with demo data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users with up to %d dreams each...", opts.NumUsers, opts.DreamsPerUser)

	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			log.Printf("Warning: could not clear all existing data: %v", err)
		}
	}

	f := NewFactory(db)

	// One known staff account for local testing.
	if _, err := f.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@dreamdeck.local"
		u.IsStaff = true
		u.IsPremium = true
	}); err != nil {
		return err
	}

	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return err
		}

		for j := 0; j < opts.DreamsPerUser; j++ {
			dream, err := f.CreateDream(user)
			if err != nil {
				return err
			}
			if opts.WithInsights && j == 0 {
				if _, err := f.CreateInsight(dream); err != nil {
					return err
				}
			}
		}

		if _, err := f.CreateProgress(user); err != nil {
			return err
		}
	}

	for i := 0; i < opts.NumChallenges; i++ {
		if _, err := f.CreateChallenge(); err != nil {
			return err
		}
	}

	log.Println("Seeding complete")
	return nil
}

// ClearAll deletes all seeded data, children before parents.
func ClearAll(db *gorm.DB) error {
	tables := []any{
		&models.DreamEmotion{},
		&models.DreamTheme{},
		&models.DreamInsight{},
		&models.ArtworkGeneration{},
		&models.SoundtrackGeneration{},
		&models.CulturalInterpretation{},
		&models.DreamMeditation{},
		&models.CollaborativeDream{},
		&models.Dream{},
		&models.UserChallenge{},
		&models.DreamChallenge{},
		&models.LucidDreamingProgress{},
		&models.DailyTask{},
		&models.DreamPrompt{},
		&models.Emotion{},
		&models.Theme{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}
