package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/repos"
)

const dedupeDeleteBatchSize = 100

// DedupeService removes duplicate question snapshots across sessions,
// keeping the earliest stored copy of each question.
type DedupeService interface {
	Run(ctx context.Context) (int, error)
}

type dedupeService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuizQuestionRepo
}

func NewDedupeService(db *gorm.DB, log *logger.Logger, questionRepo repos.QuizQuestionRepo) DedupeService {
	serviceLog := log.With("service", "DedupeService")
	return &dedupeService{db: db, log: serviceLog, questionRepo: questionRepo}
}

// Run scans the full snapshot set in storage order, keeps the first
// occurrence of every dedupe key, and deletes the rest in batches. Answers
// reference questions by key, not by row, so they are left untouched.
// Running against an already-clean corpus is a no-op.
func (ds *dedupeService) Run(ctx context.Context) (int, error) {
	snapshots, err := ds.questionRepo.GetAllOrdered(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to read question corpus: %w", err)
	}

	seen := map[string]bool{}
	var duplicates []uuid.UUID
	for _, snapshot := range snapshots {
		q, err := decodeQuestion(snapshot)
		if err != nil {
			ds.log.Warn("skipping undecodable snapshot", "question_id", snapshot.ID, "error", err)
			continue
		}
		key := questionDedupeKey(q.Text, q.Variants)
		if seen[key] {
			duplicates = append(duplicates, snapshot.ID)
			continue
		}
		seen[key] = true
	}
	if len(duplicates) == 0 {
		return 0, nil
	}

	for start := 0; start < len(duplicates); start += dedupeDeleteBatchSize {
		end := start + dedupeDeleteBatchSize
		if end > len(duplicates) {
			end = len(duplicates)
		}
		if err := ds.questionRepo.FullDeleteByIDs(ctx, nil, duplicates[start:end]); err != nil {
			return 0, fmt.Errorf("failed to delete duplicate snapshots: %w", err)
		}
	}

	ds.log.Info("question dedupe complete", "scanned", len(snapshots), "removed", len(duplicates))
	return len(duplicates), nil
}
