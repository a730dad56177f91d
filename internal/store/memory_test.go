package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/anxmeshhh/PrepIQ/internal/model"
)

func sampleSession(id string) *model.Session {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return &model.Session{
		ID:         id,
		DomainKey:  "web_development",
		Difficulty: "intermediate",
		Status:     model.StatusAwaitingAnswer,
		Questions: []model.Question{
			{ID: 1, Text: "Explain the event loop.", DomainKey: "web_development", Difficulty: "intermediate", Category: model.CategoryGeneralTechnical, CreatedAt: start},
		},
		Responses: []model.Response{
			{
				QuestionID:      1,
				Text:            "It processes the task queue between microtask drains.",
				Evaluation:      model.Evaluation{OverallScore: 7, TechnicalScore: 8, CommunicationScore: 6, CompletenessScore: 7, DepthScore: 7, PresentationScore: 6, Strengths: []string{"Accurate model"}},
				Emotion:         model.EmotionSample{Confidence: 0.6, Nervousness: 0.3, Engagement: 0.8},
				DurationSeconds: 42,
				Category:        model.CategoryGeneralTechnical,
				CreatedAt:       start.Add(time.Minute),
			},
		},
		Scores:           []int{7},
		Emotions:         []model.EmotionSample{{Confidence: 0.6, Nervousness: 0.3, Engagement: 0.8}},
		ResponseTimes:    []float64{42},
		ConfidenceLevels: []float64{0.6},
		CurrentQuestion:  1,
		TotalScore:       7,
		StartTime:        start,
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	want := sampleSession("s1")
	if err := s.Put(ctx, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("session did not round-trip\n got: %+v\nwant: %+v", got, want)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	if err := s.Put(ctx, sampleSession("s1")); err != nil {
		t.Fatal(err)
	}

	first, _ := s.Get(ctx, "s1")
	first.Scores = append(first.Scores, 10)
	first.TotalScore = 99

	second, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Scores) != 1 || second.TotalScore != 7 {
		t.Errorf("mutation of a returned session leaked into the store: %+v", second)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	if err := s.Put(ctx, sampleSession("s1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an unknown id is not an error
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of unknown id returned %v", err)
	}
}

func TestMemoryStoreSweepEvictsExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10 * time.Millisecond)

	var evicted []string
	s.OnEvict(func(id string) { evicted = append(evicted, id) })

	if err := s.Put(ctx, sampleSession("old")); err != nil {
		t.Fatal(err)
	}

	time.Sleep(30 * time.Millisecond)
	s.sweep()

	if _, err := s.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired session to be gone, got %v", err)
	}
	if len(evicted) != 1 || evicted[0] != "old" {
		t.Errorf("eviction hook not called for expired session: %v", evicted)
	}
}
