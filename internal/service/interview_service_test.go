package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/anxmeshhh/PrepIQ/internal/catalog"
	"github.com/anxmeshhh/PrepIQ/internal/config"
	"github.com/anxmeshhh/PrepIQ/internal/model"
	"github.com/anxmeshhh/PrepIQ/internal/repository"
	"github.com/anxmeshhh/PrepIQ/internal/store"
)

func buildInterviewService(totalQuestions int, pacing time.Duration, sessions store.Store, archive repository.ArchiveRepo, events Broadcaster) *InterviewService {
	aiCfg := disabledAIConfig()
	cat := catalog.New()

	return NewInterviewService(
		config.InterviewConfig{TotalQuestions: totalQuestions, PacingDelay: pacing},
		sessions, archive,
		NewQuestionService(aiCfg, cat, nil),
		NewEvaluatorService(aiCfg, cat, nil),
		NewReportService(cat),
		nil, events,
	)
}

func newTestInterviewService(t *testing.T, totalQuestions int) *InterviewService {
	t.Helper()
	return buildInterviewService(totalQuestions, time.Millisecond, store.NewMemoryStore(time.Hour), nil, NopBroadcaster{})
}

// fakeArchive is an in-memory stand-in for the Mongo-backed archive
type fakeArchive struct {
	mu    sync.Mutex
	saved map[string]*model.Session
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{saved: make(map[string]*model.Session)}
}

func (f *fakeArchive) Save(ctx context.Context, session *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	f.saved[session.ID] = &copied
	return nil
}

func (f *fakeArchive) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.saved[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeArchive) ListByDomain(ctx context.Context, domainKey string, limit int64) ([]*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Session
	for _, session := range f.saved {
		if session.DomainKey == domainKey && int64(len(out)) < limit {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeArchive) contains(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.saved[sessionID]
	return ok
}

// recordingBroadcaster captures session events for assertions
type recordingBroadcaster struct {
	mu           sync.Mutex
	disconnected []string
}

func (b *recordingBroadcaster) SendToSession(sessionID, msgType string, payload interface{}) {}

func (b *recordingBroadcaster) DisconnectSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, sessionID)
}

func (b *recordingBroadcaster) disconnectCount(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, id := range b.disconnected {
		if id == sessionID {
			n++
		}
	}
	return n
}

// waitForTurn polls until the session has the given question outstanding
func waitForTurn(t *testing.T, svc *InterviewService, sessionID string, questionID int) *model.Session {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		session, err := svc.GetSession(context.Background(), sessionID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if len(session.Questions) >= questionID && session.Status == model.StatusAwaitingAnswer {
			return session
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("question %d never became available", questionID)
	return nil
}

func TestStartInterview(t *testing.T) {
	svc := newTestInterviewService(t, 3)

	session, err := svc.StartInterview(context.Background(), "web_development", "intermediate")
	if err != nil {
		t.Fatalf("StartInterview failed: %v", err)
	}
	if session.ID == "" {
		t.Error("session has no id")
	}
	if session.Status != model.StatusAwaitingAnswer {
		t.Errorf("status = %q, want awaiting_answer", session.Status)
	}
	if len(session.Questions) != 1 || session.CurrentQuestion != 1 {
		t.Errorf("first question not set up: %+v", session)
	}

	stored, err := svc.GetSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("started session not stored: %v", err)
	}
	if stored.ID != session.ID {
		t.Errorf("stored id %q != %q", stored.ID, session.ID)
	}
}

func TestStartInterviewUnknownDomain(t *testing.T) {
	svc := newTestInterviewService(t, 3)

	_, err := svc.StartInterview(context.Background(), "underwater_basket_weaving", "entry")
	if !errors.Is(err, catalog.ErrUnknownDomain) {
		t.Fatalf("expected ErrUnknownDomain, got %v", err)
	}
}

func TestFullInterviewLoop(t *testing.T) {
	ctx := context.Background()
	total := 3
	svc := newTestInterviewService(t, total)

	session, err := svc.StartInterview(ctx, "ai_ml", "advanced")
	if err != nil {
		t.Fatal(err)
	}

	var last *TurnResult
	for turn := 1; turn <= total; turn++ {
		waitForTurn(t, svc, session.ID, turn)

		emotion := model.EmotionSample{Confidence: 0.5, Nervousness: 0.3, Engagement: 0.8}
		last, err = svc.SubmitAnswer(ctx, session.ID, "I would start from the data pipeline.", emotion, 40)
		if err != nil {
			t.Fatalf("turn %d: SubmitAnswer failed: %v", turn, err)
		}
		if last.QuestionNumber != turn {
			t.Errorf("turn %d: result question number %d", turn, last.QuestionNumber)
		}
	}

	if !last.Completed {
		t.Error("final turn did not complete the interview")
	}

	final, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if final.Status != model.StatusCompleted {
		t.Errorf("status = %q, want completed", final.Status)
	}
	if final.EndTime == nil {
		t.Error("EndTime not set")
	}
	if final.FinalReport == nil {
		t.Fatal("FinalReport not built")
	}

	// Per-turn records stay in lockstep
	if len(final.Responses) != total || len(final.Scores) != total ||
		len(final.Emotions) != total || len(final.ResponseTimes) != total ||
		len(final.ConfidenceLevels) != total {
		t.Errorf("per-turn records out of lockstep: %+v", final)
	}

	sum := 0
	for _, s := range final.Scores {
		sum += s
	}
	if final.TotalScore != sum {
		t.Errorf("TotalScore %d != sum of scores %d", final.TotalScore, sum)
	}
	if got := final.CumulativeAverage(); got != float64(sum)/float64(total) {
		t.Errorf("cumulative average %v", got)
	}
}

func TestSubmitAnswerWrongState(t *testing.T) {
	ctx := context.Background()
	svc := newTestInterviewService(t, 3)

	session, err := svc.StartInterview(ctx, "hr", "entry")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.SubmitAnswer(ctx, session.ID, "first", model.EmotionSample{}, 20); err != nil {
		t.Fatal(err)
	}

	// The session is pacing toward the next question; a second submit
	// must be rejected until it arrives
	_, err = svc.SubmitAnswer(ctx, session.ID, "second", model.EmotionSample{}, 20)
	if err != nil && !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if err == nil {
		// The pacing timer can fire first on a fast machine; then the
		// second submit is a legitimate turn and must have advanced
		current, gerr := svc.GetSession(ctx, session.ID)
		if gerr != nil {
			t.Fatal(gerr)
		}
		if current.AnsweredCount() != 2 {
			t.Errorf("submit succeeded without advancing the session: %+v", current)
		}
	}
}

func TestSubmitAnswerAfterCompleted(t *testing.T) {
	ctx := context.Background()
	svc := newTestInterviewService(t, 1)

	session, err := svc.StartInterview(ctx, "electrical", "intermediate")
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.SubmitAnswer(ctx, session.ID, "only answer", model.EmotionSample{}, 30)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Completed {
		t.Fatal("single-question interview should complete on first answer")
	}

	_, err = svc.SubmitAnswer(ctx, session.ID, "too late", model.EmotionSample{}, 30)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState after completion, got %v", err)
	}
}

func TestSubmitAnswerUnknownSession(t *testing.T) {
	svc := newTestInterviewService(t, 3)

	_, err := svc.SubmitAnswer(context.Background(), "ghost", "answer", model.EmotionSample{}, 10)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestEndInterviewEarly(t *testing.T) {
	ctx := context.Background()
	svc := newTestInterviewService(t, 10)

	session, err := svc.StartInterview(ctx, "web_development", "entry")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.SubmitAnswer(ctx, session.ID, "one answer", model.EmotionSample{Confidence: 0.6}, 50); err != nil {
		t.Fatal(err)
	}

	ended, err := svc.EndInterview(ctx, session.ID)
	if err != nil {
		t.Fatalf("EndInterview failed: %v", err)
	}
	if ended.Status != model.StatusCompleted {
		t.Errorf("status = %q, want completed", ended.Status)
	}
	if ended.FinalReport == nil {
		t.Fatal("no report for partial session")
	}
	if ended.FinalReport.PerformanceTrend != model.TrendInsufficientData {
		t.Errorf("one-turn trend = %q, want insufficient_data", ended.FinalReport.PerformanceTrend)
	}

	// Ending again is a no-op returning the same record
	again, err := svc.EndInterview(ctx, session.ID)
	if err != nil {
		t.Fatalf("second EndInterview failed: %v", err)
	}
	if !again.EndTime.Equal(*ended.EndTime) {
		t.Errorf("EndTime changed on repeat end: %v vs %v", again.EndTime, ended.EndTime)
	}
}

func TestEndInterviewZeroTurns(t *testing.T) {
	ctx := context.Background()
	svc := newTestInterviewService(t, 10)

	session, err := svc.StartInterview(ctx, "hr", "entry")
	if err != nil {
		t.Fatal(err)
	}

	ended, err := svc.EndInterview(ctx, session.ID)
	if err != nil {
		t.Fatalf("EndInterview on fresh session failed: %v", err)
	}
	if ended.FinalReport == nil {
		t.Fatal("no report for zero-turn session")
	}
	if ended.FinalReport.OverallScore != 0 {
		t.Errorf("zero-turn overall = %v, want 0", ended.FinalReport.OverallScore)
	}
}

func TestRetryQuestionWrongState(t *testing.T) {
	ctx := context.Background()
	svc := newTestInterviewService(t, 3)

	session, err := svc.StartInterview(ctx, "ai_ml", "entry")
	if err != nil {
		t.Fatal(err)
	}

	// A question is already outstanding, nothing to retry
	_, err = svc.RetryQuestion(ctx, session.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestConcurrentSubmitsSingleWinner(t *testing.T) {
	ctx := context.Background()
	// A pacing delay that never fires keeps the next question out of the race
	svc := buildInterviewService(5, time.Hour, store.NewMemoryStore(time.Hour), nil, NopBroadcaster{})

	session, err := svc.StartInterview(ctx, "web_development", "intermediate")
	if err != nil {
		t.Fatal(err)
	}
	defer svc.CancelPacing(session.ID)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SubmitAnswer(ctx, session.ID, fmt.Sprintf("answer %d", i), model.EmotionSample{}, 30)
		}(i)
	}
	wg.Wait()

	var won, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrInvalidState):
			rejected++
		default:
			t.Fatalf("unexpected submit error: %v", err)
		}
	}
	if won != 1 || rejected != 1 {
		t.Fatalf("got %d winners and %d rejections, want exactly one of each", won, rejected)
	}

	current, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if current.AnsweredCount() != 1 {
		t.Errorf("answered count = %d after racing submits, want 1", current.AnsweredCount())
	}
	if current.TotalScore != current.Scores[0] {
		t.Errorf("total score %v does not match the single recorded score %v", current.TotalScore, current.Scores[0])
	}
}

func TestGetSessionFallsBackToArchive(t *testing.T) {
	ctx := context.Background()
	archive := newFakeArchive()
	sessions := store.NewMemoryStore(time.Hour)
	svc := buildInterviewService(1, time.Millisecond, sessions, archive, NopBroadcaster{})

	session, err := svc.StartInterview(ctx, "ai_ml", "advanced")
	if err != nil {
		t.Fatal(err)
	}
	result, err := svc.SubmitAnswer(ctx, session.ID, "I would profile the pipeline first.", model.EmotionSample{}, 45)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Completed {
		t.Fatal("single-question interview did not complete")
	}

	// Archiving happens off the request path
	deadline := time.Now().Add(2 * time.Second)
	for !archive.contains(session.ID) {
		if time.Now().After(deadline) {
			t.Fatal("completed session never reached the archive")
		}
		time.Sleep(2 * time.Millisecond)
	}

	// Simulate TTL eviction from the live store
	if err := sessions.Delete(ctx, session.ID); err != nil {
		t.Fatal(err)
	}

	archived, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("evicted completed session not readable: %v", err)
	}
	if archived.Status != model.StatusCompleted {
		t.Errorf("archived status = %q, want completed", archived.Status)
	}
	if archived.FinalReport == nil {
		t.Error("archived session has no final report")
	}

	_, err = svc.GetSession(ctx, "never-existed")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown id with archive configured: got %v, want ErrSessionNotFound", err)
	}
}

func TestListCompleted(t *testing.T) {
	ctx := context.Background()
	archive := newFakeArchive()
	svc := buildInterviewService(1, time.Millisecond, store.NewMemoryStore(time.Hour), archive, NopBroadcaster{})

	archive.Save(ctx, &model.Session{ID: "a", DomainKey: "ai_ml", Status: model.StatusCompleted})
	archive.Save(ctx, &model.Session{ID: "b", DomainKey: "web_development", Status: model.StatusCompleted})

	listed, err := svc.ListCompleted(ctx, "ai_ml", 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].ID != "a" {
		t.Errorf("listed %+v, want just session a", listed)
	}

	noArchive := buildInterviewService(1, time.Millisecond, store.NewMemoryStore(time.Hour), nil, NopBroadcaster{})
	listed, err = noArchive.ListCompleted(ctx, "ai_ml", 20)
	if err != nil || listed != nil {
		t.Errorf("without an archive: got (%v, %v), want (nil, nil)", listed, err)
	}
}

func TestHandleEvictionReleasesSessionResources(t *testing.T) {
	ctx := context.Background()
	events := &recordingBroadcaster{}
	svc := buildInterviewService(5, time.Hour, store.NewMemoryStore(time.Hour), nil, events)

	session, err := svc.StartInterview(ctx, "web_development", "entry")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitAnswer(ctx, session.ID, "an answer", model.EmotionSample{}, 20); err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.timers.Load(session.ID); !ok {
		t.Fatal("submit did not arm the pacing timer")
	}

	svc.HandleEviction(session.ID)

	if _, ok := svc.timers.Load(session.ID); ok {
		t.Error("pacing timer survived eviction")
	}
	if _, ok := svc.locks.Load(session.ID); ok {
		t.Error("lock entry survived eviction")
	}
	if n := events.disconnectCount(session.ID); n != 1 {
		t.Errorf("socket disconnected %d times, want 1", n)
	}
}
