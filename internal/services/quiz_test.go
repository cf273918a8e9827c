package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/quizforge-backend/internal/types"
)

func TestSaveSession_RoundTripsOrderedQuestions(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	ctx := authedCtx(user.ID)

	data := sampleQuiz("Biology Basics", 5)
	data.Questions[2].Passage = []string{"chunk one", "chunk two"}
	sessionID, err := env.quizService.SaveSession(ctx, data)
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	loaded, err := env.quizService.LoadSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if loaded.Session.Title != "Biology Basics" || loaded.Session.TotalQuestions != 5 {
		t.Fatalf("unexpected session: %+v", loaded.Session)
	}
	if loaded.Session.UserID == nil || *loaded.Session.UserID != user.ID {
		t.Fatalf("session not owned by creator")
	}
	if len(loaded.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(loaded.Questions))
	}
	for i, q := range loaded.Questions {
		if q.Key != data.Questions[i].Key {
			t.Fatalf("question %d out of order: got %q want %q", i, q.Key, data.Questions[i].Key)
		}
	}
	if len(loaded.Questions[2].Passage) != 2 {
		t.Fatalf("passage lost in round trip: %+v", loaded.Questions[2])
	}
}

func TestSaveSession_EmptyQuizRejected(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.quizService.SaveSession(context.Background(), QuizData{Title: "empty"}); err == nil {
		t.Fatalf("expected error for quiz with no questions")
	}
}

func TestSaveSession_AnonymousSessionIsUnowned(t *testing.T) {
	env := newTestEnv(t)
	sessionID, err := env.quizService.SaveSession(context.Background(), sampleQuiz("Anon Quiz", 2))
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	loaded, err := env.quizService.LoadSession(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if loaded.Session.UserID != nil {
		t.Fatalf("anonymous session must have no owner")
	}
}

func TestLoadSession_MissingSessionFails(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.quizService.LoadSession(context.Background(), uuid.New()); err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestListSessions_NewestFirstAndAnonymousEmpty(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	ctx := authedCtx(user.ID)

	first, err := env.quizService.SaveSession(ctx, sampleQuiz("First", 1))
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := env.quizService.SaveSession(ctx, sampleQuiz("Second", 1))
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	sessions, err := env.quizService.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != second || sessions[1].ID != first {
		t.Fatalf("sessions not newest-first: %v then %v", sessions[0].ID, sessions[1].ID)
	}

	anon, err := env.quizService.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("anonymous ListSessions failed: %v", err)
	}
	if len(anon) != 0 {
		t.Fatalf("anonymous caller should see no sessions, got %d", len(anon))
	}
}

func TestSaveProgress_LastWriteWinsPerQuestion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sessionID, err := env.quizService.SaveSession(ctx, sampleQuiz("Quiz", 3))
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	if err := env.quizService.SaveProgress(ctx, sessionID, 1, []AnswerInput{
		{QuestionKey: "q0", SelectedIndex: 1, Correct: false},
	}); err != nil {
		t.Fatalf("first SaveProgress failed: %v", err)
	}
	if err := env.quizService.SaveProgress(ctx, sessionID, 2, []AnswerInput{
		{QuestionKey: "q0", SelectedIndex: 0, Correct: true},
		{QuestionKey: "q1", SelectedIndex: types.SkippedIndex, Correct: false},
	}); err != nil {
		t.Fatalf("second SaveProgress failed: %v", err)
	}

	answers, err := env.answerRepo.GetBySessionIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		t.Fatalf("failed to read answers: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answer rows after upsert, got %d", len(answers))
	}
	byKey := map[string]*types.QuizAnswer{}
	for _, a := range answers {
		byKey[a.QuestionKey] = a
	}
	if byKey["q0"] == nil || byKey["q0"].SelectedIndex != 0 || !byKey["q0"].Correct {
		t.Fatalf("q0 not overwritten by later save: %+v", byKey["q0"])
	}
	if byKey["q1"] == nil || byKey["q1"].SelectedIndex != types.SkippedIndex {
		t.Fatalf("skipped answer not recorded: %+v", byKey["q1"])
	}

	loaded, err := env.quizService.LoadSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if loaded.Session.CurrentIndex != 2 {
		t.Fatalf("cursor not advanced, got %d", loaded.Session.CurrentIndex)
	}
}

func TestCompleteSession_ComputesXPAndFinalizes(t *testing.T) {
	env := newTestEnv(t)
	env.setNow(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	user := env.createUser(t)
	env.createProgress(t, user.ID, nil)
	ctx := authedCtx(user.ID)

	sessionID, err := env.quizService.SaveSession(ctx, sampleQuiz("Quiz", 10))
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	data := sampleQuiz("Quiz", 10)
	answers := make([]AnswerInput, 10)
	for i := range answers {
		answers[i] = AnswerInput{QuestionKey: data.Questions[i].Key, SelectedIndex: 0, Correct: i < 8}
	}
	result, err := env.quizService.CompleteSession(ctx, sessionID, answers, 80)
	if err != nil {
		t.Fatalf("CompleteSession failed: %v", err)
	}
	if result.XPEarned != 80 {
		t.Fatalf("expected 80 XP for 8 correct, got %d", result.XPEarned)
	}

	loaded, err := env.quizService.LoadSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if !loaded.Session.Completed {
		t.Fatalf("session not marked completed")
	}
	if loaded.Session.CurrentIndex != types.FinalizedIndex {
		t.Fatalf("cursor not finalized, got %d", loaded.Session.CurrentIndex)
	}
	if loaded.Session.Score == nil || *loaded.Session.Score != 80 {
		t.Fatalf("score not persisted: %+v", loaded.Session.Score)
	}
	if loaded.Session.XPEarned == nil || *loaded.Session.XPEarned != 80 {
		t.Fatalf("xp not persisted: %+v", loaded.Session.XPEarned)
	}

	records, err := env.progressRepo.GetByUserIDs(context.Background(), nil, []uuid.UUID{user.ID})
	if err != nil || len(records) != 1 {
		t.Fatalf("failed to reload progress: %v", err)
	}
	if records[0].TotalXP != 80 {
		t.Fatalf("progress XP not updated, got %d", records[0].TotalXP)
	}
}

func TestCompleteSession_PerfectScoreBonus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sessionID, err := env.quizService.SaveSession(ctx, sampleQuiz("Quiz", 10))
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	data := sampleQuiz("Quiz", 10)
	answers := make([]AnswerInput, 10)
	for i := range answers {
		answers[i] = AnswerInput{QuestionKey: data.Questions[i].Key, SelectedIndex: 0, Correct: true}
	}
	result, err := env.quizService.CompleteSession(ctx, sessionID, answers, 100)
	if err != nil {
		t.Fatalf("CompleteSession failed: %v", err)
	}
	// 10 correct * 10 + 50 perfect bonus.
	if result.XPEarned != 150 {
		t.Fatalf("expected 150 XP for a perfect score, got %d", result.XPEarned)
	}
}

func TestCompleteSession_AnonymousSkipsProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sessionID, err := env.quizService.SaveSession(ctx, sampleQuiz("Quiz", 2))
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	result, err := env.quizService.CompleteSession(ctx, sessionID, []AnswerInput{
		{QuestionKey: "q0", SelectedIndex: 0, Correct: true},
		{QuestionKey: "q1", SelectedIndex: 1, Correct: true},
	}, 100)
	if err != nil {
		t.Fatalf("CompleteSession failed: %v", err)
	}
	if result.XPEarned != 70 {
		t.Fatalf("expected 70 XP, got %d", result.XPEarned)
	}
	if len(result.NewAchievements) != 0 {
		t.Fatalf("anonymous completion must not award achievements")
	}
}

func TestCompleteSession_ScoreOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	sessionID, err := env.quizService.SaveSession(context.Background(), sampleQuiz("Quiz", 1))
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if _, err := env.quizService.CompleteSession(context.Background(), sessionID, nil, 101); err == nil {
		t.Fatalf("expected error for score > 100")
	}
	if _, err := env.quizService.CompleteSession(context.Background(), sessionID, nil, -1); err == nil {
		t.Fatalf("expected error for negative score")
	}
}

func TestAllQuestions_CollapsesDuplicatesAcrossSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.quizService.SaveSession(ctx, sampleQuiz("Quiz A", 3)); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	// Same questions with different casing and spacing plus one new question.
	dup := sampleQuiz("Quiz B", 3)
	for i := range dup.Questions {
		dup.Questions[i].Text = "  " + dup.Questions[i].Text + "  "
	}
	dup.Questions = append(dup.Questions, Question{
		Key:          "fresh",
		Text:         "Which planet is largest?",
		Variants:     []string{"Mars", "Jupiter"},
		CorrectIndex: 1,
	})
	if _, err := env.quizService.SaveSession(ctx, dup); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	questions, err := env.quizService.AllQuestions(ctx)
	if err != nil {
		t.Fatalf("AllQuestions failed: %v", err)
	}
	if len(questions) != 4 {
		t.Fatalf("expected 4 unique questions, got %d", len(questions))
	}

	count, err := env.quizService.TotalQuestionCount(ctx)
	if err != nil {
		t.Fatalf("TotalQuestionCount failed: %v", err)
	}
	if count != 7 {
		t.Fatalf("raw count should include duplicates, got %d", count)
	}
}

func TestDeleteGeneratedSessions_OnlyTouchesGenerated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	genID, err := env.quizService.SaveSession(ctx, sampleQuiz(GeneratedTitlePrefix+" Chemistry", 2))
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := env.quizService.SaveProgress(ctx, genID, 1, []AnswerInput{
		{QuestionKey: "q0", SelectedIndex: 0, Correct: true},
	}); err != nil {
		t.Fatalf("SaveProgress failed: %v", err)
	}
	manualID, err := env.quizService.SaveSession(ctx, sampleQuiz("My Custom Quiz", 2))
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	deleted, err := env.quizService.DeleteGeneratedSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteGeneratedSessions failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted session, got %d", deleted)
	}

	if _, err := env.quizService.LoadSession(ctx, genID); err == nil {
		t.Fatalf("generated session should be gone")
	}
	if _, err := env.quizService.LoadSession(ctx, manualID); err != nil {
		t.Fatalf("manual session should survive: %v", err)
	}
	answers, err := env.answerRepo.GetBySessionIDs(ctx, nil, []uuid.UUID{genID})
	if err != nil {
		t.Fatalf("failed to read answers: %v", err)
	}
	if len(answers) != 0 {
		t.Fatalf("answers of deleted session must be removed, got %d", len(answers))
	}

	// Nothing generated left: second run is a no-op.
	deleted, err = env.quizService.DeleteGeneratedSessions(ctx)
	if err != nil {
		t.Fatalf("second DeleteGeneratedSessions failed: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected no-op, got %d", deleted)
	}
}
