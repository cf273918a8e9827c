package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/gamification"
	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/requestdata"
	"github.com/yungbote/quizforge-backend/internal/types"
)

// ProgressView is everything the progress screen needs in one load.
type ProgressView struct {
	Progress     *types.UserProgress     `json:"progress"`
	Catalog      []*types.Achievement    `json:"catalog"`
	Earned       []*types.UserAchievement `json:"earned"`
	DailyLoginXP int                     `json:"daily_login_xp"`
}

// EarnedAchievement pairs a fresh award with its catalog definition for
// caller notification.
type EarnedAchievement struct {
	Earned      *types.UserAchievement `json:"earned"`
	Achievement *types.Achievement     `json:"achievement"`
}

type ProgressService interface {
	LoadProgress(ctx context.Context) (*ProgressView, error)
	AddXP(ctx context.Context, amount int, quizScore *int) ([]EarnedAchievement, error)
}

type progressService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	progressRepo        repos.UserProgressRepo
	achievementRepo     repos.AchievementRepo
	userAchievementRepo repos.UserAchievementRepo
	sessionRepo         repos.QuizSessionRepo
	leaderboard         LeaderboardService
	now                 func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	progressRepo repos.UserProgressRepo,
	achievementRepo repos.AchievementRepo,
	userAchievementRepo repos.UserAchievementRepo,
	sessionRepo repos.QuizSessionRepo,
	leaderboard LeaderboardService,
) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	return &progressService{
		db:                  db,
		log:                 serviceLog,
		progressRepo:        progressRepo,
		achievementRepo:     achievementRepo,
		userAchievementRepo: userAchievementRepo,
		sessionRepo:         sessionRepo,
		leaderboard:         leaderboard,
		now:                 time.Now,
	}
}

// LoadProgress resolves (or lazily creates) the caller's progress record and
// applies the daily-login streak update. The login update is idempotent per
// calendar day: once last_activity_date equals today it is skipped entirely.
func (ps *progressService) LoadProgress(ctx context.Context) (*ProgressView, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user")
	}

	var progress *types.UserProgress
	var loginXP int
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records, err := ps.progressRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}
		if len(records) > 0 {
			progress = records[0]
		} else {
			progress = &types.UserProgress{
				ID:     uuid.New(),
				UserID: userID,
				Level:  1,
			}
			if _, err := ps.progressRepo.Create(ctx, tx, []*types.UserProgress{progress}); err != nil {
				return fmt.Errorf("failed to create progress: %w", err)
			}
		}

		today := gamification.Today(ps.now())
		if progress.LastActivityDate == today {
			return nil
		}
		update := gamification.NextStreak(today, progress.LastActivityDate, progress.CurrentStreak, progress.LongestStreak)
		loginXP = gamification.DailyLoginXP(update)
		progress.TotalXP += loginXP
		progress.Level = gamification.LevelForXP(progress.TotalXP)
		progress.CurrentStreak = update.Current
		progress.LongestStreak = update.Longest
		progress.LastActivityDate = today
		if err := ps.progressRepo.Update(ctx, tx, progress); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	catalog, err := ps.achievementRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement catalog: %w", err)
	}
	earned, err := ps.userAchievementRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load earned achievements: %w", err)
	}

	ps.pushLeaderboard(ctx, userID, progress)

	return &ProgressView{
		Progress:     progress,
		Catalog:      catalog,
		Earned:       earned,
		DailyLoginXP: loginXP,
	}, nil
}

// AddXP awards XP, recomputes level and streak, and runs a single
// achievement-evaluation pass over the fresh stats. Reward XP from newly
// earned achievements is added on top but does not re-trigger evaluation in
// the same call; a reward-induced level-up is picked up by the next award.
// A caller with no progress record is a no-op.
func (ps *progressService) AddXP(ctx context.Context, amount int, quizScore *int) ([]EarnedAchievement, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, nil
	}
	if amount < 0 {
		return nil, fmt.Errorf("negative xp amount")
	}

	var progress *types.UserProgress
	var newlyEarned []EarnedAchievement
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := ps.progressRepo.GetByUserIDForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load progress: %w", err)
		}
		progress = record

		today := gamification.Today(ps.now())
		update := gamification.NextStreak(today, progress.LastActivityDate, progress.CurrentStreak, progress.LongestStreak)
		progress.TotalXP += amount
		progress.Level = gamification.LevelForXP(progress.TotalXP)
		progress.CurrentStreak = update.Current
		progress.LongestStreak = update.Longest
		progress.LastActivityDate = today
		if err := ps.progressRepo.Update(ctx, tx, progress); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		earned, err := ps.evaluateAchievements(ctx, tx, progress, quizScore)
		if err != nil {
			return err
		}
		newlyEarned = earned
		return nil
	})
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, nil
	}

	ps.pushLeaderboard(ctx, userID, progress)

	return newlyEarned, nil
}

// evaluateAchievements is the single evaluation pass: every unearned catalog
// entry is checked against the current stats, qualifying entries are awarded
// and their XP rewards summed into the progress row.
func (ps *progressService) evaluateAchievements(ctx context.Context, tx *gorm.DB, progress *types.UserProgress, quizScore *int) ([]EarnedAchievement, error) {
	catalog, err := ps.achievementRepo.GetAll(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement catalog: %w", err)
	}
	if len(catalog) == 0 {
		return nil, nil
	}

	earnedRows, err := ps.userAchievementRepo.GetByUserIDs(ctx, tx, []uuid.UUID{progress.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to load earned achievements: %w", err)
	}
	alreadyEarned := make(map[uuid.UUID]bool, len(earnedRows))
	for _, row := range earnedRows {
		alreadyEarned[row.AchievementID] = true
	}

	completed, err := ps.sessionRepo.CountCompletedByUserID(ctx, tx, progress.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed sessions: %w", err)
	}

	stats := gamification.Stats{
		TotalXP:          progress.TotalXP,
		Level:            progress.Level,
		CurrentStreak:    progress.CurrentStreak,
		QuizzesCompleted: int(completed),
		LastScore:        quizScore,
	}

	var newRows []*types.UserAchievement
	var results []EarnedAchievement
	rewardXP := 0
	now := ps.now()
	for _, entry := range catalog {
		if alreadyEarned[entry.ID] {
			continue
		}
		if !gamification.Qualifies(gamification.ConditionKind(entry.Condition), entry.Threshold, stats) {
			continue
		}
		row := &types.UserAchievement{
			ID:            uuid.New(),
			UserID:        progress.UserID,
			AchievementID: entry.ID,
			EarnedAt:      now,
		}
		newRows = append(newRows, row)
		results = append(results, EarnedAchievement{Earned: row, Achievement: entry})
		rewardXP += entry.XPReward
	}
	if len(newRows) == 0 {
		return nil, nil
	}

	if _, err := ps.userAchievementRepo.Create(ctx, tx, newRows); err != nil {
		return nil, fmt.Errorf("failed to record achievements: %w", err)
	}
	if rewardXP > 0 {
		progress.TotalXP += rewardXP
		progress.Level = gamification.LevelForXP(progress.TotalXP)
		if err := ps.progressRepo.Update(ctx, tx, progress); err != nil {
			return nil, fmt.Errorf("failed to apply achievement rewards: %w", err)
		}
	}
	return results, nil
}

// pushLeaderboard mirrors the fresh totals into redis. Best effort: the
// leaderboard is a projection and must never fail a progress write.
func (ps *progressService) pushLeaderboard(ctx context.Context, userID uuid.UUID, progress *types.UserProgress) {
	if ps.leaderboard == nil || progress == nil {
		return
	}
	if err := ps.leaderboard.UpdateXP(ctx, userID, progress.TotalXP); err != nil {
		ps.log.Warn("leaderboard xp update failed", "error", err)
	}
	if err := ps.leaderboard.UpdateStreak(ctx, userID, progress.LongestStreak); err != nil {
		ps.log.Warn("leaderboard streak update failed", "error", err)
	}
}
