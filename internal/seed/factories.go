// Package seed provides helpers to create demo and test data for the
// application database. Development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"dreamdeck/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them. A thin helper used by
// the seeder and tests.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var (
	dreamThemes = []string{
		"Flying", "Falling", "Water", "Chase", "School", "Family", "Travel",
		"Animals", "Darkness", "Light", "Ocean", "Forest", "City", "Music",
		"Childhood", "Transformation", "Mirrors", "Doors", "Stairs", "Storm",
	}

	dreamEmotions = []string{
		"Joy", "Fear", "Anxiety", "Wonder", "Curiosity", "Sadness", "Relief",
		"Confusion", "Euphoria", "Nostalgia", "Dread", "Serenity", "Anger",
	}

	lucidTechniques = []string{
		"reality checks", "dream journaling", "MILD", "WBTB", "meditation",
		"wake-initiated induction",
	}
)

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	dob := gofakeit.DateRange(
		time.Now().AddDate(-60, 0, 0),
		time.Now().AddDate(-18, 0, 0),
	)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	user := &models.User{
		Username:    gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		Password:    string(hashedPassword),
		Bio:         gofakeit.Sentence(10),
		DateOfBirth: &dob,
		IsPremium:   gofakeit.Bool(),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateDream persists a dream for the user with a realistic spread of
// emotions, themes, and creation dates.
func (f *Factory) CreateDream(user *models.User, overrides ...func(*models.Dream)) (*models.Dream, error) {
	daysBack := f.rng.Intn(90)
	date := time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(f.rng.Intn(24))*time.Hour)

	dream := &models.Dream{
		UserID:  user.ID,
		Title:   gofakeit.Sentence(4),
		Content: gofakeit.Paragraph(2, 4, 8, "\n"),
		Date:    date,
		IsLucid: f.rng.Intn(5) == 0,
	}

	for _, override := range overrides {
		override(dream)
	}

	if err := f.db.Create(dream).Error; err != nil {
		return nil, err
	}

	for _, name := range pickDistinct(f.rng, dreamEmotions, 1+f.rng.Intn(3)) {
		emotion, err := f.getOrCreateEmotion(name)
		if err != nil {
			return nil, err
		}
		link := models.DreamEmotion{
			DreamID:   dream.ID,
			EmotionID: emotion.ID,
			Intensity: 1 + f.rng.Intn(10),
		}
		if err := f.db.Create(&link).Error; err != nil {
			return nil, err
		}
	}

	for _, name := range pickDistinct(f.rng, dreamThemes, 1+f.rng.Intn(3)) {
		theme, err := f.getOrCreateTheme(name)
		if err != nil {
			return nil, err
		}
		link := models.DreamTheme{DreamID: dream.ID, ThemeID: theme.ID}
		if err := f.db.Create(&link).Error; err != nil {
			return nil, err
		}
	}

	return dream, nil
}

// CreateInsight attaches a generated-looking insight to a dream.
func (f *Factory) CreateInsight(dream *models.Dream) (*models.DreamInsight, error) {
	analysis := gofakeit.Paragraph(3, 5, 10, "\n")
	summary := analysis
	if len(summary) > models.InsightSummaryLen {
		summary = summary[:models.InsightSummaryLen]
	}

	insight := &models.DreamInsight{
		DreamID:  dream.ID,
		Summary:  summary,
		Analysis: analysis,
	}
	if err := f.db.Create(insight).Error; err != nil {
		return nil, err
	}
	return insight, nil
}

// CreateChallenge persists a challenge whose window contains now.
func (f *Factory) CreateChallenge(overrides ...func(*models.DreamChallenge)) (*models.DreamChallenge, error) {
	challenge := &models.DreamChallenge{
		Title:       gofakeit.Sentence(3),
		Description: gofakeit.Sentence(12),
		StartDate:   time.Now().AddDate(0, 0, -f.rng.Intn(7)),
		EndDate:     time.Now().AddDate(0, 0, 7+f.rng.Intn(21)),
	}

	for _, override := range overrides {
		override(challenge)
	}

	if err := f.db.Create(challenge).Error; err != nil {
		return nil, err
	}
	return challenge, nil
}

// CreateProgress persists lucid dreaming progress for a user.
func (f *Factory) CreateProgress(user *models.User) (*models.LucidDreamingProgress, error) {
	techniques := pickDistinct(f.rng, lucidTechniques, 1+f.rng.Intn(3))
	progress := &models.LucidDreamingProgress{
		UserID:              user.ID,
		TechniquesPracticed: strings.Join(techniques, ", "),
		SuccessRate:         float64(f.rng.Intn(101)),
	}
	if err := f.db.Create(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (f *Factory) getOrCreateEmotion(name string) (*models.Emotion, error) {
	var emotion models.Emotion
	err := f.db.Where("name = ?", name).FirstOrCreate(&emotion, models.Emotion{Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &emotion, nil
}

func (f *Factory) getOrCreateTheme(name string) (*models.Theme, error) {
	var theme models.Theme
	err := f.db.Where("name = ?", name).FirstOrCreate(&theme, models.Theme{Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &theme, nil
}

func pickDistinct(rng *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := rng.Perm(len(pool))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}
