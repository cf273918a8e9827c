package gamification

import "testing"

func TestLevelForXP_Thresholds(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
		{-50, 1},
	}
	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.level {
			t.Fatalf("LevelForXP(%d) = %d, want %d", tc.xp, got, tc.level)
		}
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 5000; xp++ {
		cur := LevelForXP(xp)
		if cur < prev {
			t.Fatalf("level decreased: LevelForXP(%d)=%d < LevelForXP(%d)=%d", xp, cur, xp-1, prev)
		}
		prev = cur
	}
}

func TestXPFloorForLevel_InverseOfLevelForXP(t *testing.T) {
	for level := 1; level <= 20; level++ {
		floor := XPFloorForLevel(level)
		if got := LevelForXP(floor); got != level {
			t.Fatalf("LevelForXP(XPFloorForLevel(%d)=%d) = %d, want %d", level, floor, got, level)
		}
		if floor > 0 {
			if got := LevelForXP(floor - 1); got != level-1 {
				t.Fatalf("LevelForXP(%d) = %d, want %d", floor-1, got, level-1)
			}
		}
	}
}

func TestLevelProgress_Bounds(t *testing.T) {
	if got := LevelProgress(0); got != 0 {
		t.Fatalf("LevelProgress(0) = %v, want 0", got)
	}
	// Level 1 spans [0,100); 50 XP is halfway.
	if got := LevelProgress(50); got != 0.5 {
		t.Fatalf("LevelProgress(50) = %v, want 0.5", got)
	}
	for xp := 0; xp <= 2000; xp += 37 {
		frac := LevelProgress(xp)
		if frac < 0 || frac > 1 {
			t.Fatalf("LevelProgress(%d) = %v, out of [0,1]", xp, frac)
		}
	}
}
