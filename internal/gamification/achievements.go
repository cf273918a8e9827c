package gamification

import "fmt"

// ConditionKind enumerates the achievement unlock conditions. Kinds are
// matched exhaustively; an unknown kind never qualifies.
type ConditionKind string

const (
	ConditionQuizzesCompleted ConditionKind = "quizzes_completed"
	ConditionPerfectScore     ConditionKind = "perfect_score"
	ConditionStreakDays       ConditionKind = "streak_days"
	ConditionLevelReached     ConditionKind = "level_reached"
)

func (k ConditionKind) Valid() bool {
	switch k {
	case ConditionQuizzesCompleted, ConditionPerfectScore, ConditionStreakDays, ConditionLevelReached:
		return true
	}
	return false
}

// Stats is the aggregate snapshot an achievement condition is evaluated
// against. LastScore is the most recent quiz score, when the triggering
// event was a quiz completion.
type Stats struct {
	TotalXP          int
	Level            int
	CurrentStreak    int
	QuizzesCompleted int
	LastScore        *int
}

// Qualifies reports whether a single condition holds for the given stats.
// perfect_score matches the threshold exactly; the remaining kinds are
// at-least comparisons.
func Qualifies(kind ConditionKind, threshold int, s Stats) bool {
	switch kind {
	case ConditionQuizzesCompleted:
		return s.QuizzesCompleted >= threshold
	case ConditionPerfectScore:
		return s.LastScore != nil && *s.LastScore == threshold
	case ConditionStreakDays:
		return s.CurrentStreak >= threshold
	case ConditionLevelReached:
		return s.Level >= threshold
	default:
		return false
	}
}

// ParseConditionKind validates a stored condition string.
func ParseConditionKind(raw string) (ConditionKind, error) {
	k := ConditionKind(raw)
	if !k.Valid() {
		return "", fmt.Errorf("unknown achievement condition %q", raw)
	}
	return k, nil
}
