package gamification

import "testing"

func TestNextStreak_SameDayIsNoOp(t *testing.T) {
	u := NextStreak("2026-08-30", "2026-08-30", 5, 9)
	if u.Current != 5 || u.Longest != 9 {
		t.Fatalf("same-day update changed streak: %+v", u)
	}
	if u.Continued {
		t.Fatalf("same-day update should not mark Continued")
	}
}

func TestNextStreak_ConsecutiveDayIncrements(t *testing.T) {
	u := NextStreak("2026-08-30", "2026-08-29", 5, 9)
	if u.Current != 6 {
		t.Fatalf("expected current 6, got %d", u.Current)
	}
	if !u.Continued {
		t.Fatalf("expected Continued=true")
	}
	if u.Longest != 9 {
		t.Fatalf("longest should stay 9, got %d", u.Longest)
	}
}

func TestNextStreak_RaisesLongest(t *testing.T) {
	u := NextStreak("2026-08-30", "2026-08-29", 9, 9)
	if u.Current != 10 || u.Longest != 10 {
		t.Fatalf("expected 10/10, got %d/%d", u.Current, u.Longest)
	}
}

func TestNextStreak_GapResetsToOne(t *testing.T) {
	u := NextStreak("2026-08-30", "2026-08-27", 14, 14)
	if u.Current != 1 {
		t.Fatalf("expected reset to 1, got %d", u.Current)
	}
	if u.Continued {
		t.Fatalf("reset should not mark Continued")
	}
	if u.Longest != 14 {
		t.Fatalf("longest must survive a reset, got %d", u.Longest)
	}
}

func TestNextStreak_FirstActivityStartsAtOne(t *testing.T) {
	u := NextStreak("2026-08-30", "", 0, 0)
	if u.Current != 1 || u.Longest != 1 {
		t.Fatalf("expected 1/1 on first activity, got %d/%d", u.Current, u.Longest)
	}
	if u.Continued {
		t.Fatalf("first activity should not mark Continued")
	}
}

func TestNextStreak_MonthBoundary(t *testing.T) {
	u := NextStreak("2026-09-01", "2026-08-31", 2, 2)
	if u.Current != 3 || !u.Continued {
		t.Fatalf("expected month-boundary increment, got %+v", u)
	}
}

func TestDailyLoginXP_BaseOnly(t *testing.T) {
	for _, u := range []StreakUpdate{
		{Current: 1, Longest: 1},
		{Current: 1, Longest: 14},
	} {
		if got := DailyLoginXP(u); got != 10 {
			t.Fatalf("DailyLoginXP(%+v) = %d, want 10", u, got)
		}
	}
}

func TestDailyLoginXP_BonusScalesWithStreak(t *testing.T) {
	u := StreakUpdate{Current: 2, Longest: 2, Continued: true}
	if got := DailyLoginXP(u); got != 14 {
		t.Fatalf("DailyLoginXP(streak 2) = %d, want 14", got)
	}
}

func TestDailyLoginXP_BonusCapped(t *testing.T) {
	u := StreakUpdate{Current: 40, Longest: 40, Continued: true}
	if got := DailyLoginXP(u); got != 60 {
		t.Fatalf("DailyLoginXP(streak 40) = %d, want 60", got)
	}
}
