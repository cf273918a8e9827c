package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/quizforge-backend/internal/gamification"
	"github.com/yungbote/quizforge-backend/internal/types"
)

func seedAchievement(t *testing.T, env *testEnv, key string, condition gamification.ConditionKind, threshold, reward int) *types.Achievement {
	t.Helper()
	row := &types.Achievement{
		ID:        uuid.New(),
		Key:       key,
		Name:      key,
		XPReward:  reward,
		Condition: string(condition),
		Threshold: threshold,
	}
	if err := env.achievementRepo.UpsertByKey(context.Background(), nil, []*types.Achievement{row}); err != nil {
		t.Fatalf("failed to seed achievement: %v", err)
	}
	return row
}

func TestLoadProgress_CreatesRecordOnFirstLoad(t *testing.T) {
	env := newTestEnv(t)
	env.setNow(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	user := env.createUser(t)

	view, err := env.progressService.LoadProgress(authedCtx(user.ID))
	if err != nil {
		t.Fatalf("LoadProgress failed: %v", err)
	}
	if view.Progress == nil {
		t.Fatalf("expected a progress record")
	}
	// First-ever activity: streak 1, base login XP only.
	if view.Progress.CurrentStreak != 1 || view.Progress.LongestStreak != 1 {
		t.Fatalf("expected streak 1/1, got %d/%d", view.Progress.CurrentStreak, view.Progress.LongestStreak)
	}
	if view.DailyLoginXP != 10 || view.Progress.TotalXP != 10 {
		t.Fatalf("expected 10 login XP, got bonus=%d total=%d", view.DailyLoginXP, view.Progress.TotalXP)
	}
	if view.Progress.LastActivityDate != "2026-08-30" {
		t.Fatalf("unexpected last activity date %q", view.Progress.LastActivityDate)
	}
}

func TestLoadProgress_SameDayIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.setNow(t, time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC))
	user := env.createUser(t)
	ctx := authedCtx(user.ID)

	first, err := env.progressService.LoadProgress(ctx)
	if err != nil {
		t.Fatalf("first LoadProgress failed: %v", err)
	}
	second, err := env.progressService.LoadProgress(ctx)
	if err != nil {
		t.Fatalf("second LoadProgress failed: %v", err)
	}
	if second.Progress.TotalXP != first.Progress.TotalXP {
		t.Fatalf("same-day reload changed XP: %d -> %d", first.Progress.TotalXP, second.Progress.TotalXP)
	}
	if second.DailyLoginXP != 0 {
		t.Fatalf("same-day reload granted login XP: %d", second.DailyLoginXP)
	}
}

func TestLoadProgress_ConsecutiveDayGrantsStreakBonus(t *testing.T) {
	env := newTestEnv(t)
	env.setNow(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	user := env.createUser(t)
	env.createProgress(t, user.ID, func(p *types.UserProgress) {
		p.CurrentStreak = 1
		p.LongestStreak = 1
		p.LastActivityDate = "2026-08-29"
	})

	view, err := env.progressService.LoadProgress(authedCtx(user.ID))
	if err != nil {
		t.Fatalf("LoadProgress failed: %v", err)
	}
	if view.Progress.CurrentStreak != 2 {
		t.Fatalf("expected streak 2, got %d", view.Progress.CurrentStreak)
	}
	// 10 base + 2*2 streak bonus.
	if view.DailyLoginXP != 14 {
		t.Fatalf("expected 14 login XP, got %d", view.DailyLoginXP)
	}
}

func TestLoadProgress_GapResetsStreakButKeepsLongest(t *testing.T) {
	env := newTestEnv(t)
	env.setNow(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	user := env.createUser(t)
	env.createProgress(t, user.ID, func(p *types.UserProgress) {
		p.CurrentStreak = 14
		p.LongestStreak = 14
		p.LastActivityDate = "2026-08-20"
	})

	view, err := env.progressService.LoadProgress(authedCtx(user.ID))
	if err != nil {
		t.Fatalf("LoadProgress failed: %v", err)
	}
	if view.Progress.CurrentStreak != 1 {
		t.Fatalf("expected streak reset to 1, got %d", view.Progress.CurrentStreak)
	}
	if view.Progress.LongestStreak != 14 {
		t.Fatalf("longest streak must survive a reset, got %d", view.Progress.LongestStreak)
	}
	if view.DailyLoginXP != 10 {
		t.Fatalf("reset day should grant base XP only, got %d", view.DailyLoginXP)
	}
}

func TestAddXP_AnonymousIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	earned, err := env.progressService.AddXP(context.Background(), 100, nil)
	if err != nil {
		t.Fatalf("AddXP failed: %v", err)
	}
	if earned != nil {
		t.Fatalf("anonymous AddXP should award nothing")
	}
}

func TestAddXP_MissingProgressRecordIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	earned, err := env.progressService.AddXP(authedCtx(user.ID), 100, nil)
	if err != nil {
		t.Fatalf("AddXP failed: %v", err)
	}
	if earned != nil {
		t.Fatalf("AddXP without a progress record should award nothing")
	}
}

func TestAddXP_RecomputesLevel(t *testing.T) {
	env := newTestEnv(t)
	env.setNow(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	user := env.createUser(t)
	env.createProgress(t, user.ID, func(p *types.UserProgress) {
		p.TotalXP = 90
	})

	if _, err := env.progressService.AddXP(authedCtx(user.ID), 20, nil); err != nil {
		t.Fatalf("AddXP failed: %v", err)
	}

	records, err := env.progressRepo.GetByUserIDs(context.Background(), nil, []uuid.UUID{user.ID})
	if err != nil || len(records) != 1 {
		t.Fatalf("failed to reload progress: %v", err)
	}
	if records[0].TotalXP != 110 {
		t.Fatalf("expected 110 XP, got %d", records[0].TotalXP)
	}
	if records[0].Level != 2 {
		t.Fatalf("expected level 2 at 110 XP, got %d", records[0].Level)
	}
}

func TestAddXP_AwardsQualifyingAchievementsOnce(t *testing.T) {
	env := newTestEnv(t)
	env.setNow(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	user := env.createUser(t)
	env.createProgress(t, user.ID, nil)
	perfect := seedAchievement(t, env, "perfect", gamification.ConditionPerfectScore, 100, 75)
	seedAchievement(t, env, "streak_30", gamification.ConditionStreakDays, 30, 500)

	score := 100
	earned, err := env.progressService.AddXP(authedCtx(user.ID), 150, &score)
	if err != nil {
		t.Fatalf("AddXP failed: %v", err)
	}
	if len(earned) != 1 || earned[0].Achievement.ID != perfect.ID {
		t.Fatalf("expected exactly the perfect-score achievement, got %+v", earned)
	}

	records, err := env.progressRepo.GetByUserIDs(context.Background(), nil, []uuid.UUID{user.ID})
	if err != nil || len(records) != 1 {
		t.Fatalf("failed to reload progress: %v", err)
	}
	// 150 quiz XP + 75 achievement reward.
	if records[0].TotalXP != 225 {
		t.Fatalf("expected 225 XP, got %d", records[0].TotalXP)
	}

	// A second perfect score must not re-award.
	earned, err = env.progressService.AddXP(authedCtx(user.ID), 150, &score)
	if err != nil {
		t.Fatalf("second AddXP failed: %v", err)
	}
	if len(earned) != 0 {
		t.Fatalf("achievement re-awarded: %+v", earned)
	}
}

func TestAddXP_ImperfectScoreDoesNotAwardPerfect(t *testing.T) {
	env := newTestEnv(t)
	env.setNow(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	user := env.createUser(t)
	env.createProgress(t, user.ID, nil)
	seedAchievement(t, env, "perfect", gamification.ConditionPerfectScore, 100, 75)

	score := 99
	earned, err := env.progressService.AddXP(authedCtx(user.ID), 90, &score)
	if err != nil {
		t.Fatalf("AddXP failed: %v", err)
	}
	if len(earned) != 0 {
		t.Fatalf("99%% must not earn perfect_score, got %+v", earned)
	}
}
