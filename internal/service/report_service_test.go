package service

import (
	"testing"
	"time"

	"github.com/anxmeshhh/PrepIQ/internal/catalog"
	"github.com/anxmeshhh/PrepIQ/internal/model"
)

func TestPerformanceTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   string
	}{
		{"improving", []int{3, 3, 8, 8}, model.TrendImproving},
		{"declining", []int{8, 8, 3, 3}, model.TrendDeclining},
		{"consistent", []int{5, 5, 5, 5}, model.TrendConsistent},
		{"single score", []int{7}, model.TrendInsufficientData},
		{"no scores", nil, model.TrendInsufficientData},
		// Odd count: middle element falls into the second half
		{"odd count improving", []int{3, 5, 9}, model.TrendImproving},
		{"within half a point", []int{5, 5, 5, 6}, model.TrendConsistent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := performanceTrend(tt.scores); got != tt.want {
				t.Errorf("performanceTrend(%v) = %q, want %q", tt.scores, got, tt.want)
			}
		})
	}
}

func TestAnalyzeEmotions(t *testing.T) {
	samples := []model.EmotionSample{
		{Confidence: 0.2, Nervousness: 0.8, Engagement: 0.5},
		{Confidence: 0.9, Nervousness: 0.4, Engagement: 0.7},
		{Confidence: 0.6, Nervousness: 0.2, Engagement: 0.9},
	}

	summary := analyzeEmotions(samples)

	if summary.ConfidenceTrend != model.TrendImproving {
		t.Errorf("last sample above first should be improving, got %q", summary.ConfidenceTrend)
	}
	if summary.PeakConfidence != 0.9 {
		t.Errorf("peak = %v, want 0.9", summary.PeakConfidence)
	}
	if summary.LowestConfidence != 0.2 {
		t.Errorf("lowest = %v, want 0.2", summary.LowestConfidence)
	}
	if summary.Nervousness < 0.46 || summary.Nervousness > 0.47 {
		t.Errorf("nervousness mean = %v, want ~0.467", summary.Nervousness)
	}
}

func TestAnalyzeEmotionsEmpty(t *testing.T) {
	summary := analyzeEmotions(nil)

	if summary.Confidence != 0.5 || summary.Nervousness != 0.5 || summary.Engagement != 0.5 {
		t.Errorf("empty samples should give neutral means, got %+v", summary)
	}
	if summary.ConfidenceTrend != model.TrendStable {
		t.Errorf("empty samples should give stable trend, got %q", summary.ConfidenceTrend)
	}
}

func responseWithEval(category model.QuestionCategory, overall int, strengths, improvements []string) model.Response {
	return model.Response{
		Category: category,
		Evaluation: model.Evaluation{
			OverallScore:       overall,
			TechnicalScore:     overall,
			CommunicationScore: overall,
			CompletenessScore:  overall,
			DepthScore:         overall,
			PresentationScore:  overall,
			Strengths:          strengths,
			Improvements:       improvements,
		},
	}
}

func TestAnalyzeByCategory(t *testing.T) {
	responses := []model.Response{
		responseWithEval(model.CategoryProblemSolving, 4, nil, nil),
		responseWithEval(model.CategoryProblemSolving, 6, nil, nil),
		responseWithEval(model.CategoryBestPractices, 9, nil, nil),
	}

	analysis := analyzeByCategory(responses)

	ps := analysis[string(model.CategoryProblemSolving)]
	if ps.QuestionCount != 2 || ps.AverageScore != 5 || ps.BestScore != 6 {
		t.Errorf("problem solving stats wrong: %+v", ps)
	}
	if !ps.NeedsImprovement {
		t.Error("mean below 6 should flag needs_improvement")
	}

	bp := analysis[string(model.CategoryBestPractices)]
	if bp.NeedsImprovement {
		t.Error("mean of 9 should not flag needs_improvement")
	}
}

func TestCompileTopRanking(t *testing.T) {
	responses := []model.Response{
		responseWithEval(model.CategoryGeneralTechnical, 7, []string{"A", "B"}, nil),
		responseWithEval(model.CategoryGeneralTechnical, 7, []string{"A", "C"}, nil),
		responseWithEval(model.CategoryGeneralTechnical, 7, []string{"A", "B"}, nil),
	}

	ranked := compileTop(responses, func(e *model.Evaluation) []string { return e.Strengths })

	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked items, got %d", len(ranked))
	}
	if ranked[0].Text != "A" || ranked[0].Count != 3 {
		t.Errorf("top item = %+v, want A x3", ranked[0])
	}
	if ranked[1].Text != "B" || ranked[1].Count != 2 {
		t.Errorf("second item = %+v, want B x2", ranked[1])
	}
}

func TestCompileTopCapsAtFive(t *testing.T) {
	responses := []model.Response{
		responseWithEval(model.CategoryGeneralTechnical, 7, []string{"A", "B", "C", "D", "E", "F", "G"}, nil),
	}

	ranked := compileTop(responses, func(e *model.Evaluation) []string { return e.Strengths })
	if len(ranked) != 5 {
		t.Errorf("expected cap of 5, got %d", len(ranked))
	}
}

func TestBuildReportFullSession(t *testing.T) {
	svc := NewReportService(catalog.New())

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Minute)
	session := &model.Session{
		ID:         "s1",
		DomainKey:  "web_development",
		Difficulty: "intermediate",
		Status:     model.StatusCompleted,
		Responses: []model.Response{
			responseWithEval(model.CategoryProblemSolving, 4, []string{"Engaged"}, []string{"Add depth"}),
			responseWithEval(model.CategoryProblemSolving, 8, []string{"Clear"}, []string{"More examples"}),
		},
		Scores:           []int{4, 8},
		Emotions:         []model.EmotionSample{{Confidence: 0.3}, {Confidence: 0.7}},
		ResponseTimes:    []float64{150, 130},
		ConfidenceLevels: []float64{0.3, 0.7},
		TotalScore:       12,
		StartTime:        start,
		EndTime:          &end,
	}

	report := svc.BuildReport(session)

	if report.OverallScore != 6 {
		t.Errorf("overall = %v, want 6", report.OverallScore)
	}
	if report.DurationMinutes != 24 {
		t.Errorf("duration = %v, want 24", report.DurationMinutes)
	}
	if report.PerformanceTrend != model.TrendImproving {
		t.Errorf("trend = %q, want improving", report.PerformanceTrend)
	}
	if report.AvgResponseTime != 140 {
		t.Errorf("avg response time = %v, want 140", report.AvgResponseTime)
	}
	if report.ScoreBreakdown.Technical != 6 {
		t.Errorf("technical breakdown = %v, want 6", report.ScoreBreakdown.Technical)
	}

	// The low-scoring turn contributes its improvements, the high one its strengths
	recs := report.Recommendations
	if len(recs.FocusAreas) != 1 || recs.FocusAreas[0] != "Add depth" {
		t.Errorf("focus areas = %v", recs.FocusAreas)
	}
	if len(recs.Strengths) != 1 || recs.Strengths[0] != "Clear" {
		t.Errorf("strengths = %v", recs.Strengths)
	}
	if len(recs.StudyResources) == 0 {
		t.Error("no study resources for a builtin domain")
	}
	// Average of 6 lands in the middle next-steps bracket
	if len(recs.NextSteps) != 3 {
		t.Errorf("next steps = %v", recs.NextSteps)
	}
	// 140s average is over the two-minute mark
	if len(recs.PracticeRecommendations) != 1 || recs.PracticeRecommendations[0] != "Practice answering questions more concisely" {
		t.Errorf("practice recommendations = %v", recs.PracticeRecommendations)
	}
}

func TestBuildReportZeroTurns(t *testing.T) {
	svc := NewReportService(catalog.New())

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)
	session := &model.Session{
		ID:         "s1",
		DomainKey:  "hr",
		Difficulty: "entry",
		Status:     model.StatusCompleted,
		StartTime:  start,
		EndTime:    &end,
	}

	report := svc.BuildReport(session)

	if report.OverallScore != 0 {
		t.Errorf("empty session overall = %v, want 0", report.OverallScore)
	}
	if report.PerformanceTrend != model.TrendInsufficientData {
		t.Errorf("empty session trend = %q, want insufficient_data", report.PerformanceTrend)
	}
	if report.AvgResponseTime != 0 {
		t.Errorf("empty session avg response time = %v", report.AvgResponseTime)
	}
	if len(report.CategoryAnalysis) != 0 {
		t.Errorf("empty session category analysis = %v", report.CategoryAnalysis)
	}
	// Score 0 still resolves a next-steps bracket
	if len(report.Recommendations.NextSteps) != 4 {
		t.Errorf("next steps = %v", report.Recommendations.NextSteps)
	}
}
