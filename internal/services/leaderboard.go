package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/utils"
)

const (
	leaderboardXPKey     = "leaderboard:xp"
	leaderboardStreakKey = "leaderboard:streak"
)

// LeaderboardEntry is one ranked row; Rank is 1-based.
type LeaderboardEntry struct {
	UserID uuid.UUID `json:"user_id"`
	Score  int       `json:"score"`
	Rank   int       `json:"rank"`
}

// LeaderboardService mirrors progress totals into redis sorted sets. It is a
// projection of the progress table and may be absent entirely when redis is
// not configured.
type LeaderboardService interface {
	UpdateXP(ctx context.Context, userID uuid.UUID, totalXP int) error
	UpdateStreak(ctx context.Context, userID uuid.UUID, longestStreak int) error
	TopByXP(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	TopByStreak(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	RankByXP(ctx context.Context, userID uuid.UUID) (int, error)
}

type leaderboardService struct {
	client *redis.Client
	log    *logger.Logger
}

// NewLeaderboardService connects to redis at REDIS_ADDR. Returns (nil, nil)
// when the variable is unset so callers can run without a leaderboard.
func NewLeaderboardService(ctx context.Context, log *logger.Logger) (LeaderboardService, error) {
	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetEnv("REDIS_PASSWORD", "", log),
		DB:       utils.GetEnvAsInt("REDIS_DB", 0, log),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &leaderboardService{
		client: client,
		log:    log.With("service", "LeaderboardService"),
	}, nil
}

func (ls *leaderboardService) UpdateXP(ctx context.Context, userID uuid.UUID, totalXP int) error {
	return ls.client.ZAdd(ctx, leaderboardXPKey, redis.Z{
		Score:  float64(totalXP),
		Member: userID.String(),
	}).Err()
}

func (ls *leaderboardService) UpdateStreak(ctx context.Context, userID uuid.UUID, longestStreak int) error {
	return ls.client.ZAdd(ctx, leaderboardStreakKey, redis.Z{
		Score:  float64(longestStreak),
		Member: userID.String(),
	}).Err()
}

func (ls *leaderboardService) TopByXP(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	return ls.top(ctx, leaderboardXPKey, limit)
}

func (ls *leaderboardService) TopByStreak(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	return ls.top(ctx, leaderboardStreakKey, limit)
}

func (ls *leaderboardService) top(ctx context.Context, key string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := ls.client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		member, ok := row.Member.(string)
		if !ok {
			continue
		}
		userID, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID: userID,
			Score:  int(row.Score),
			Rank:   i + 1,
		})
	}
	return entries, nil
}

// RankByXP returns the caller's 1-based position, or 0 when unranked.
func (ls *leaderboardService) RankByXP(ctx context.Context, userID uuid.UUID) (int, error) {
	rank, err := ls.client.ZRevRank(ctx, leaderboardXPKey, userID.String()).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read rank: %w", err)
	}
	return int(rank) + 1, nil
}
