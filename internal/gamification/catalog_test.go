package gamification

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "achievements.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	return path
}

func TestLoadCatalog_ParsesEntries(t *testing.T) {
	path := writeCatalog(t, `
achievements:
  - key: first_quiz
    name: "First Steps"
    description: "Complete your first quiz"
    icon: "🎯"
    xp_reward: 25
    condition: quizzes_completed
    threshold: 1
  - key: perfect
    name: "Perfectionist"
    xp_reward: 75
    condition: perfect_score
    threshold: 100
`)
	entries, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Key != "first_quiz" || entries[0].Condition != ConditionQuizzesCompleted || entries[0].Threshold != 1 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].XPReward != 75 {
		t.Fatalf("unexpected xp_reward: %d", entries[1].XPReward)
	}
}

func TestLoadCatalog_RejectsDuplicateKeys(t *testing.T) {
	path := writeCatalog(t, `
achievements:
  - key: dup
    name: a
    condition: streak_days
    threshold: 3
  - key: dup
    name: b
    condition: streak_days
    threshold: 7
`)
	if _, err := LoadCatalog(path); err == nil {
		t.Fatalf("expected error for duplicate keys")
	}
}

func TestLoadCatalog_RejectsUnknownCondition(t *testing.T) {
	path := writeCatalog(t, `
achievements:
  - key: weird
    name: weird
    condition: total_logins
    threshold: 1
`)
	if _, err := LoadCatalog(path); err == nil {
		t.Fatalf("expected error for unknown condition")
	}
}
