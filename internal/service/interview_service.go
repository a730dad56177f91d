package service

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anxmeshhh/PrepIQ/internal/config"
	"github.com/anxmeshhh/PrepIQ/internal/model"
	"github.com/anxmeshhh/PrepIQ/internal/repository"
	"github.com/anxmeshhh/PrepIQ/internal/speech"
	"github.com/anxmeshhh/PrepIQ/internal/store"
)

var (
	// ErrSessionNotFound means the id is unknown or the session expired
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidState means the operation does not apply to the session's
	// current status
	ErrInvalidState = errors.New("operation not valid in current session state")
)

// TurnResult is what one answered turn hands back to the caller
type TurnResult struct {
	Evaluation      *model.Evaluation `json:"evaluation"`
	QuestionNumber  int               `json:"questionNumber"`
	CumulativeScore float64           `json:"cumulativeScore"`
	Completed       bool              `json:"completed"`
}

// InterviewService drives the question/answer/evaluate cycle of a
// session. All state transitions happen here; per-session mutations are
// serialized through a lock table so a stored session is never written
// from two goroutines at once.
type InterviewService struct {
	cfg       config.InterviewConfig
	sessions  store.Store
	archive   repository.ArchiveRepo
	questions *QuestionService
	evaluator *EvaluatorService
	reports   *ReportService
	tts       speech.Synthesizer
	events    Broadcaster

	locks  sync.Map // session id -> *sync.Mutex
	timers sync.Map // session id -> *time.Timer (pending pacing delay)
}

// NewInterviewService creates a new interview service. archive and tts
// may be nil; the corresponding steps are skipped.
func NewInterviewService(
	cfg config.InterviewConfig,
	sessions store.Store,
	archive repository.ArchiveRepo,
	questions *QuestionService,
	evaluator *EvaluatorService,
	reports *ReportService,
	tts speech.Synthesizer,
	events Broadcaster,
) *InterviewService {
	return &InterviewService{
		cfg:       cfg,
		sessions:  sessions,
		archive:   archive,
		questions: questions,
		evaluator: evaluator,
		reports:   reports,
		tts:       tts,
		events:    events,
	}
}

func (s *InterviewService) lock(sessionID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// StartInterview creates a session and generates its first question.
// Nothing is stored if the first question cannot be produced.
func (s *InterviewService) StartInterview(ctx context.Context, domainKey, difficulty string) (*model.Session, error) {
	session := &model.Session{
		ID:         uuid.New().String(),
		DomainKey:  domainKey,
		Difficulty: difficulty,
		Status:     model.StatusAwaitingAnswer,
		StartTime:  time.Now(),
	}

	question, err := s.questions.GenerateQuestion(ctx, session)
	if err != nil {
		return nil, err
	}

	session.Questions = append(session.Questions, *question)
	session.CurrentQuestion = 1

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}

	log.Printf("interview %s started: domain=%s difficulty=%s", session.ID, domainKey, difficulty)
	s.speakQuestion(session.ID, question.Text)
	return session, nil
}

// GetSession loads a session by id. A session the live store has
// already evicted is still served from the archive when one is
// configured, so completed interviews stay readable past the TTL.
func (s *InterviewService) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if s.archive != nil {
		archived, aerr := s.archive.Get(ctx, sessionID)
		if aerr != nil {
			log.Printf("interview %s: archive lookup failed: %v", sessionID, aerr)
		} else if archived != nil {
			return archived, nil
		}
	}
	return nil, ErrSessionNotFound
}

// ListCompleted returns archived interviews for a domain, newest first.
// Without an archive there is no history to report.
func (s *InterviewService) ListCompleted(ctx context.Context, domainKey string, limit int64) ([]*model.Session, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.ListByDomain(ctx, domainKey, limit)
}

// SubmitAnswer scores the currently outstanding question. When the
// session still has questions left the next one is produced after the
// pacing delay; otherwise the session completes.
func (s *InterviewService) SubmitAnswer(ctx context.Context, sessionID, responseText string, emotion model.EmotionSample, duration float64) (*TurnResult, error) {
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.StatusAwaitingAnswer {
		return nil, ErrInvalidState
	}
	question := session.CurrentQuestionData()

	session.Status = model.StatusEvaluating
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}

	evaluation := s.evaluator.Evaluate(ctx, session, question, responseText, emotion, duration)

	session.Responses = append(session.Responses, model.Response{
		QuestionID:      question.ID,
		Text:            responseText,
		Evaluation:      *evaluation,
		Emotion:         emotion,
		DurationSeconds: duration,
		Category:        question.Category,
		CreatedAt:       time.Now(),
	})
	session.Scores = append(session.Scores, evaluation.OverallScore)
	session.Emotions = append(session.Emotions, emotion)
	session.ResponseTimes = append(session.ResponseTimes, duration)
	session.ConfidenceLevels = append(session.ConfidenceLevels, emotion.Confidence)
	session.TotalScore += evaluation.OverallScore

	result := &TurnResult{
		Evaluation:      evaluation,
		QuestionNumber:  question.ID,
		CumulativeScore: session.CumulativeAverage(),
	}

	s.events.SendToSession(sessionID, "response_evaluated", map[string]interface{}{
		"evaluation":       evaluation,
		"question_number":  question.ID,
		"cumulative_score": result.CumulativeScore,
	})

	if len(session.Questions) >= s.cfg.TotalQuestions {
		if err := s.complete(ctx, session); err != nil {
			return nil, err
		}
		result.Completed = true
	} else {
		session.Status = model.StatusGenerating
		if err := s.sessions.Put(ctx, session); err != nil {
			return nil, err
		}
		s.schedulePacing(sessionID)
	}
	return result, nil
}

// schedulePacing arms the delay before the next question. An existing
// timer for the session is replaced.
func (s *InterviewService) schedulePacing(sessionID string) {
	s.CancelPacing(sessionID)
	timer := time.AfterFunc(s.cfg.PacingDelay, func() {
		s.timers.Delete(sessionID)
		s.generateNext(sessionID)
	})
	s.timers.Store(sessionID, timer)
}

// CancelPacing stops any pending question timer for the session.
func (s *InterviewService) CancelPacing(sessionID string) {
	if t, ok := s.timers.LoadAndDelete(sessionID); ok {
		t.(*time.Timer).Stop()
	}
}

// HandleEviction releases everything the service holds for an evicted
// session: the pending pacing timer, the lock table entry and the open
// socket. Wired as the session store's eviction hook so an expired
// session never gets a ghost question and never leaks its lock.
func (s *InterviewService) HandleEviction(sessionID string) {
	s.CancelPacing(sessionID)
	s.locks.Delete(sessionID)
	s.events.DisconnectSession(sessionID)
}

func (s *InterviewService) generateNext(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return
	}
	if session.Status != model.StatusGenerating {
		return
	}

	if err := s.advanceQuestion(ctx, session); err != nil {
		log.Printf("interview %s: next question failed: %v", sessionID, err)
		s.events.SendToSession(sessionID, "error", map[string]interface{}{
			"message": "Failed to generate question. Please try again.",
		})
	}
}

// RetryQuestion re-attempts question generation after a surfaced
// failure. Only valid while the session is stuck in the generating state.
func (s *InterviewService) RetryQuestion(ctx context.Context, sessionID string) (*model.Question, error) {
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.StatusGenerating {
		return nil, ErrInvalidState
	}

	if err := s.advanceQuestion(ctx, session); err != nil {
		return nil, err
	}
	return session.CurrentQuestionData(), nil
}

// advanceQuestion generates, records and announces the next question.
// The session stays in the generating state on failure so the turn can
// be retried.
func (s *InterviewService) advanceQuestion(ctx context.Context, session *model.Session) error {
	question, err := s.questions.GenerateQuestion(ctx, session)
	if err != nil {
		return err
	}

	session.Questions = append(session.Questions, *question)
	session.CurrentQuestion = question.ID
	session.Status = model.StatusAwaitingAnswer
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	log.Printf("interview %s: question %d/%d generated", session.ID, question.ID, s.cfg.TotalQuestions)
	s.events.SendToSession(session.ID, "new_question", map[string]interface{}{
		"question":        question,
		"question_number": question.ID,
		"total_questions": s.cfg.TotalQuestions,
	})
	s.speakQuestion(session.ID, question.Text)
	return nil
}

// speakQuestion renders question audio off the request path. Failure
// downgrades the session to text-only for this turn.
func (s *InterviewService) speakQuestion(sessionID, text string) {
	if s.tts == nil {
		s.events.SendToSession(sessionID, "question_text_only", map[string]interface{}{"text": text})
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		audio, err := s.tts.Synthesize(ctx, text)
		if err != nil {
			log.Printf("interview %s: tts failed, sending text only: %v", sessionID, err)
			s.events.SendToSession(sessionID, "question_text_only", map[string]interface{}{"text": text})
			return
		}
		s.events.SendToSession(sessionID, "question_audio", map[string]interface{}{
			"audio": base64.StdEncoding.EncodeToString(audio),
		})
	}()
}

// EndInterview finishes the session immediately with whatever turns were
// answered. Calling it on a completed session is a no-op returning the
// existing record.
func (s *InterviewService) EndInterview(ctx context.Context, sessionID string) (*model.Session, error) {
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == model.StatusCompleted {
		return session, nil
	}

	s.CancelPacing(sessionID)
	if err := s.complete(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// complete is the single terminal transition. Caller must hold the
// session lock.
func (s *InterviewService) complete(ctx context.Context, session *model.Session) error {
	now := time.Now()
	session.EndTime = &now
	session.Status = model.StatusCompleted
	session.FinalReport = s.reports.BuildReport(session)

	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	log.Printf("interview %s completed: %d/%d answered, final score %.2f",
		session.ID, session.AnsweredCount(), s.cfg.TotalQuestions, session.CumulativeAverage())

	if s.archive != nil {
		go func(archived model.Session) {
			actx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.archive.Save(actx, &archived); err != nil {
				log.Printf("interview %s: archive failed: %v", archived.ID, err)
			}
		}(*session)
	}

	s.events.SendToSession(session.ID, "interview_completed", map[string]interface{}{
		"session_id":      session.ID,
		"final_score":     session.CumulativeAverage(),
		"total_questions": len(session.Questions),
	})
	return nil
}
