package gamification

import "testing"

func intPtr(v int) *int { return &v }

func TestQualifies_QuizzesCompleted(t *testing.T) {
	s := Stats{QuizzesCompleted: 10}
	if !Qualifies(ConditionQuizzesCompleted, 10, s) {
		t.Fatalf("10 completed should meet threshold 10")
	}
	if Qualifies(ConditionQuizzesCompleted, 11, s) {
		t.Fatalf("10 completed should not meet threshold 11")
	}
}

func TestQualifies_PerfectScoreIsExactMatch(t *testing.T) {
	if !Qualifies(ConditionPerfectScore, 100, Stats{LastScore: intPtr(100)}) {
		t.Fatalf("score 100 should qualify for perfect_score")
	}
	if Qualifies(ConditionPerfectScore, 100, Stats{LastScore: intPtr(99)}) {
		t.Fatalf("score 99 must not qualify for perfect_score")
	}
	// 101 is above the threshold but perfect_score matches exactly.
	if Qualifies(ConditionPerfectScore, 100, Stats{LastScore: intPtr(101)}) {
		t.Fatalf("score above threshold must not qualify for perfect_score")
	}
	if Qualifies(ConditionPerfectScore, 100, Stats{}) {
		t.Fatalf("no score must not qualify for perfect_score")
	}
}

func TestQualifies_StreakAndLevel(t *testing.T) {
	s := Stats{CurrentStreak: 7, Level: 5}
	if !Qualifies(ConditionStreakDays, 7, s) || Qualifies(ConditionStreakDays, 8, s) {
		t.Fatalf("streak threshold comparison wrong")
	}
	if !Qualifies(ConditionLevelReached, 5, s) || Qualifies(ConditionLevelReached, 6, s) {
		t.Fatalf("level threshold comparison wrong")
	}
}

func TestQualifies_UnknownKindNeverQualifies(t *testing.T) {
	s := Stats{TotalXP: 1 << 20, Level: 99, CurrentStreak: 99, QuizzesCompleted: 99}
	if Qualifies(ConditionKind("bogus"), 0, s) {
		t.Fatalf("unknown condition kind must never qualify")
	}
}

func TestParseConditionKind(t *testing.T) {
	for _, raw := range []string{"quizzes_completed", "perfect_score", "streak_days", "level_reached"} {
		if _, err := ParseConditionKind(raw); err != nil {
			t.Fatalf("ParseConditionKind(%q) failed: %v", raw, err)
		}
	}
	if _, err := ParseConditionKind("total_xp"); err == nil {
		t.Fatalf("expected error for unknown condition")
	}
}
