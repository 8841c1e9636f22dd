package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dreamdeck/internal/config"
	"dreamdeck/internal/featureflags"
	"dreamdeck/internal/models"
	"dreamdeck/internal/repository"
	"dreamdeck/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "Str0ngPassw0rd!"

// stubGenerator is a canned text generator for handler tests.
type stubGenerator struct {
	response   string
	err        error
	lastModel  string
	lastPrompt string
}

func (g *stubGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	g.lastModel = model
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Dream{},
		&models.Emotion{},
		&models.Theme{},
		&models.DreamEmotion{},
		&models.DreamTheme{},
		&models.DreamInsight{},
		&models.DreamChallenge{},
		&models.UserChallenge{},
		&models.LucidDreamingProgress{},
	))
	return db
}

// newTestServer assembles a Server on an in-memory database. Prometheus
// middleware is left nil so repeated construction across tests does not
// double-register collectors.
func newTestServer(t *testing.T, db *gorm.DB, redisClient *redis.Client, gen *stubGenerator) *Server {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:      "test_secret",
		Port:           "0",
		GeminiModel:    "flash-test",
		GeminiProModel: "pro-test",
		FeatureFlags:   "insight_tagged_prompt=on",
		Env:            "test",
	}

	userRepo := repository.NewUserRepository(db)
	dreamRepo := repository.NewDreamRepository(db)
	vocabRepo := repository.NewVocabularyRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	flags := featureflags.NewManager(cfg.FeatureFlags)

	s := &Server{
		config:        cfg,
		db:            db,
		redis:         redisClient,
		userRepo:      userRepo,
		dreamRepo:     dreamRepo,
		vocabRepo:     vocabRepo,
		insightRepo:   insightRepo,
		challengeRepo: challengeRepo,
		featureFlags:  flags,
	}
	s.dreamService = service.NewDreamService(dreamRepo, vocabRepo)
	s.suggestionService = service.NewSuggestionService(gen, cfg.GeminiModel)
	s.insightService = service.NewInsightService(dreamRepo, insightRepo, gen, cfg.GeminiProModel, flags)
	s.userService = service.NewUserService(userRepo, challengeRepo)
	return s
}

func newTestApp(s *Server) *fiber.App {
	app := fiber.New()
	s.SetupRoutes(app)
	return app
}

func createTestUser(t *testing.T, db *gorm.DB, username string, mutate ...func(*models.User)) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	for _, m := range mutate {
		m(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func accessTokenFor(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	pair, err := s.generateTokenPair(user.ID, user.Username)
	require.NoError(t, err)
	return pair.AccessToken
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func authedRequest(t *testing.T, method, path, token string, body any) *http.Request {
	t.Helper()
	req := jsonRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}
