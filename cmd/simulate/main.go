package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anxmeshhh/PrepIQ/internal/catalog"
	"github.com/anxmeshhh/PrepIQ/internal/config"
	"github.com/anxmeshhh/PrepIQ/internal/model"
	"github.com/anxmeshhh/PrepIQ/internal/service"
	"github.com/anxmeshhh/PrepIQ/internal/store"
)

// simulate runs one full interview offline against the mock question
// generator and prints the final report. Handy for eyeballing analytics
// changes without a browser or an API key.
func main() {
	domain := flag.String("domain", "web_development", "interview domain key")
	difficulty := flag.String("difficulty", "intermediate", "difficulty level")
	turns := flag.Int("turns", 10, "questions per session")
	flag.Parse()

	cfg := config.Load()
	cfg.AI.APIKey = "" // force mock generation and neutral evaluations
	cfg.Interview.TotalQuestions = *turns
	cfg.Interview.PacingDelay = 10 * time.Millisecond

	cat := catalog.New()
	sessions := store.NewMemoryStore(cfg.Store.SessionTTL)

	gen := service.NewGeminiGenerator(cfg.AI)
	questionSvc := service.NewQuestionService(cfg.AI, cat, gen)
	evaluatorSvc := service.NewEvaluatorService(cfg.AI, cat, gen)
	reportSvc := service.NewReportService(cat)
	interviewSvc := service.NewInterviewService(cfg.Interview, sessions, nil,
		questionSvc, evaluatorSvc, reportSvc, nil, service.NopBroadcaster{})

	ctx := context.Background()

	session, err := interviewSvc.StartInterview(ctx, *domain, *difficulty)
	if err != nil {
		log.Fatalf("Failed to start interview: %v", err)
	}

	for turn := 1; turn <= *turns; turn++ {
		current, err := interviewSvc.GetSession(ctx, session.ID)
		if err != nil {
			log.Fatalf("Turn %d: session lookup failed: %v", turn, err)
		}
		question := current.CurrentQuestionData()
		fmt.Printf("Q%d: %s\n", question.ID, question.Text)

		emotion := model.EmotionSample{Confidence: 0.5 + 0.04*float64(turn), Nervousness: 0.4, Engagement: 0.7}
		answer := fmt.Sprintf("I would approach this by breaking the problem down and iterating. (turn %d)", turn)

		result, err := interviewSvc.SubmitAnswer(ctx, session.ID, answer, emotion, 45+float64(turn))
		if err != nil {
			log.Fatalf("Turn %d: submit failed: %v", turn, err)
		}
		fmt.Printf("  score %d/10, running average %.2f\n", result.Evaluation.OverallScore, result.CumulativeScore)

		if result.Completed {
			break
		}
		// Wait out the pacing delay before the next question appears
		waitForQuestion(ctx, interviewSvc, session.ID, turn+1)
	}

	final, err := interviewSvc.GetSession(ctx, session.ID)
	if err != nil {
		log.Fatalf("Failed to load completed session: %v", err)
	}

	out, _ := json.MarshalIndent(final.FinalReport, "", "  ")
	fmt.Println(string(out))
	os.Exit(0)
}

func waitForQuestion(ctx context.Context, svc *service.InterviewService, sessionID string, wantID int) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		session, err := svc.GetSession(ctx, sessionID)
		if err == nil && len(session.Questions) >= wantID && session.Status == model.StatusAwaitingAnswer {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	log.Fatalf("question %d never arrived", wantID)
}
