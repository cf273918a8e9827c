package gamification

import "time"

// DateLayout is the ISO calendar-date form used for all streak comparisons
// and for the persisted last-activity date. Callers must derive "today" once
// and use the same value for comparison and persistence.
const DateLayout = "2006-01-02"

const (
	dailyLoginBaseXP   = 10
	dailyLoginBonusCap = 50
)

// StreakUpdate is the result of advancing a streak to "today".
type StreakUpdate struct {
	Current int
	Longest int
	// Continued is true only when the streak advanced via the
	// consecutive-day branch, not on first-ever activity or a reset.
	Continued bool
}

// Today formats now in the caller's local calendar.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// NextStreak computes the streak transition for activity on todayISO given
// the persisted lastISO date. Same-day re-entry is a no-op; exactly one
// calendar day of distance increments; anything else (including no prior
// activity) resets to 1. Longest is raised to cover the new current value.
func NextStreak(todayISO, lastISO string, current, longest int) StreakUpdate {
	if lastISO == todayISO {
		if longest < current {
			longest = current
		}
		return StreakUpdate{Current: current, Longest: longest}
	}

	newCurrent := 1
	continued := false
	if lastISO != "" {
		last, err := time.Parse(DateLayout, lastISO)
		today, err2 := time.Parse(DateLayout, todayISO)
		if err == nil && err2 == nil && last.AddDate(0, 0, 1).Equal(today) {
			newCurrent = current + 1
			continued = true
		}
	}
	if longest < newCurrent {
		longest = newCurrent
	}
	return StreakUpdate{Current: newCurrent, Longest: longest, Continued: continued}
}

// DailyLoginXP returns the bonus granted on the dedicated login-tracking
// path: base 10, plus min(streak*2, 50) when the streak advanced through the
// consecutive-day branch.
func DailyLoginXP(u StreakUpdate) int {
	xp := dailyLoginBaseXP
	if u.Continued {
		bonus := u.Current * 2
		if bonus > dailyLoginBonusCap {
			bonus = dailyLoginBonusCap
		}
		xp += bonus
	}
	return xp
}
