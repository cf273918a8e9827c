package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/requestdata"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type testEnv struct {
	db                  *gorm.DB
	log                 *logger.Logger
	userRepo            repos.UserRepo
	progressRepo        repos.UserProgressRepo
	achievementRepo     repos.AchievementRepo
	userAchievementRepo repos.UserAchievementRepo
	sessionRepo         repos.QuizSessionRepo
	questionRepo        repos.QuizQuestionRepo
	answerRepo          repos.QuizAnswerRepo
	progressService     ProgressService
	quizService         QuizService
	dedupeService       DedupeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.UserProgress{},
		&types.Achievement{},
		&types.UserAchievement{},
		&types.QuizSession{},
		&types.QuizQuestion{},
		&types.QuizAnswer{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	env := &testEnv{
		db:                  db,
		log:                 log,
		userRepo:            repos.NewUserRepo(db, log),
		progressRepo:        repos.NewUserProgressRepo(db, log),
		achievementRepo:     repos.NewAchievementRepo(db, log),
		userAchievementRepo: repos.NewUserAchievementRepo(db, log),
		sessionRepo:         repos.NewQuizSessionRepo(db, log),
		questionRepo:        repos.NewQuizQuestionRepo(db, log),
		answerRepo:          repos.NewQuizAnswerRepo(db, log),
	}
	env.progressService = NewProgressService(db, log, env.progressRepo, env.achievementRepo, env.userAchievementRepo, env.sessionRepo, nil)
	env.quizService = NewQuizService(db, log, env.sessionRepo, env.questionRepo, env.answerRepo, env.progressService)
	env.dedupeService = NewDedupeService(db, log, env.questionRepo)
	return env
}

// setNow pins the clock both services derive "today" from.
func (env *testEnv) setNow(t *testing.T, now time.Time) {
	t.Helper()
	env.progressService.(*progressService).now = func() time.Time { return now }
	env.quizService.(*quizService).now = func() time.Time { return now }
}

func (env *testEnv) createUser(t *testing.T) *types.User {
	t.Helper()
	user := &types.User{
		ID:          uuid.New(),
		Email:       fmt.Sprintf("%s@example.com", uuid.New().String()[:8]),
		Password:    "hashed",
		DisplayName: "Test User",
	}
	if _, err := env.userRepo.Create(context.Background(), nil, []*types.User{user}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func (env *testEnv) createProgress(t *testing.T, userID uuid.UUID, mutate func(*types.UserProgress)) *types.UserProgress {
	t.Helper()
	progress := &types.UserProgress{
		ID:     uuid.New(),
		UserID: userID,
		Level:  1,
	}
	if mutate != nil {
		mutate(progress)
	}
	if _, err := env.progressRepo.Create(context.Background(), nil, []*types.UserProgress{progress}); err != nil {
		t.Fatalf("failed to create progress: %v", err)
	}
	return progress
}

func authedCtx(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}

func sampleQuiz(title string, n int) QuizData {
	data := QuizData{Title: title}
	for i := 0; i < n; i++ {
		data.Questions = append(data.Questions, Question{
			Key:          fmt.Sprintf("q%d", i),
			Text:         fmt.Sprintf("What is %d + %d?", i, i),
			Variants:     []string{"1", "2", "3", "4"},
			CorrectIndex: i % 4,
			Explanation:  "arithmetic",
		})
	}
	return data
}
