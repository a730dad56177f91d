package service

import (
	"sort"

	"github.com/anxmeshhh/PrepIQ/internal/catalog"
	"github.com/anxmeshhh/PrepIQ/internal/model"
)

// ReportService derives the final analytics report from a completed
// session record. All computations are pure; the service carries only
// the catalog for study-resource lookups.
type ReportService struct {
	catalog *catalog.Catalog
}

// NewReportService creates a new report service
func NewReportService(cat *catalog.Catalog) *ReportService {
	return &ReportService{catalog: cat}
}

// BuildReport computes the full report for a session. The session must
// have EndTime set; partial sessions (fewer answered turns than
// questions) are fine, including zero answered turns.
func (s *ReportService) BuildReport(session *model.Session) *model.Report {
	report := &model.Report{
		OverallScore:     session.CumulativeAverage(),
		EmotionAnalysis:  analyzeEmotions(session.Emotions),
		PerformanceTrend: performanceTrend(session.Scores),
		CategoryAnalysis: analyzeByCategory(session.Responses),
		AvgResponseTime:  mean(session.ResponseTimes),
		ScoreBreakdown:   scoreBreakdown(session.Responses),
		StrengthsSummary: compileTop(session.Responses, func(e *model.Evaluation) []string { return e.Strengths }),
		ImprovementAreas: compileTop(session.Responses, func(e *model.Evaluation) []string { return e.Improvements }),
	}
	if session.EndTime != nil {
		report.DurationMinutes = session.EndTime.Sub(session.StartTime).Minutes()
	}
	report.Recommendations = s.buildRecommendations(session)
	return report
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func analyzeEmotions(samples []model.EmotionSample) model.EmotionSummary {
	if len(samples) == 0 {
		return model.EmotionSummary{
			Confidence:      0.5,
			Nervousness:     0.5,
			Engagement:      0.5,
			ConfidenceTrend: model.TrendStable,
		}
	}

	var confSum, nervSum, engSum float64
	peak, lowest := samples[0].Confidence, samples[0].Confidence
	for _, e := range samples {
		confSum += e.Confidence
		nervSum += e.Nervousness
		engSum += e.Engagement
		if e.Confidence > peak {
			peak = e.Confidence
		}
		if e.Confidence < lowest {
			lowest = e.Confidence
		}
	}

	n := float64(len(samples))
	first, last := samples[0].Confidence, samples[len(samples)-1].Confidence
	trend := model.TrendStable
	if last > first {
		trend = model.TrendImproving
	} else if last < first {
		trend = model.TrendDeclining
	}

	return model.EmotionSummary{
		Confidence:       confSum / n,
		Nervousness:      nervSum / n,
		Engagement:       engSum / n,
		ConfidenceTrend:  trend,
		PeakConfidence:   peak,
		LowestConfidence: lowest,
	}
}

// performanceTrend compares the first half of the score sequence against
// the second. With an odd count the middle score belongs to the second
// half.
func performanceTrend(scores []int) string {
	if len(scores) < 2 {
		return model.TrendInsufficientData
	}

	mid := len(scores) / 2
	firstAvg := meanInts(scores[:mid])
	secondAvg := meanInts(scores[mid:])

	switch {
	case secondAvg > firstAvg+0.5:
		return model.TrendImproving
	case secondAvg < firstAvg-0.5:
		return model.TrendDeclining
	default:
		return model.TrendConsistent
	}
}

func meanInts(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}

func analyzeByCategory(responses []model.Response) map[string]model.CategoryStats {
	grouped := make(map[string][]int)
	for _, r := range responses {
		category := string(r.Category)
		if category == "" {
			category = "General"
		}
		grouped[category] = append(grouped[category], r.Evaluation.OverallScore)
	}

	analysis := make(map[string]model.CategoryStats, len(grouped))
	for category, scores := range grouped {
		best := scores[0]
		for _, s := range scores {
			if s > best {
				best = s
			}
		}
		avg := meanInts(scores)
		analysis[category] = model.CategoryStats{
			AverageScore:     avg,
			QuestionCount:    len(scores),
			BestScore:        best,
			NeedsImprovement: avg < 6,
		}
	}
	return analysis
}

func scoreBreakdown(responses []model.Response) model.ScoreBreakdown {
	if len(responses) == 0 {
		return model.ScoreBreakdown{}
	}
	var b model.ScoreBreakdown
	for _, r := range responses {
		b.Technical += float64(r.Evaluation.TechnicalScore)
		b.Communication += float64(r.Evaluation.CommunicationScore)
		b.Completeness += float64(r.Evaluation.CompletenessScore)
		b.Depth += float64(r.Evaluation.DepthScore)
		b.Presentation += float64(r.Evaluation.PresentationScore)
	}
	n := float64(len(responses))
	b.Technical /= n
	b.Communication /= n
	b.Completeness /= n
	b.Depth /= n
	b.Presentation /= n
	return b
}

// compileTop ranks the feedback items extracted from every evaluation by
// how often they occur. Ties keep first-mention order. At most five
// items are returned.
func compileTop(responses []model.Response, extract func(*model.Evaluation) []string) []model.RankedItem {
	counts := make(map[string]int)
	var order []string
	for _, r := range responses {
		for _, item := range extract(&r.Evaluation) {
			if _, seen := counts[item]; !seen {
				order = append(order, item)
			}
			counts[item]++
		}
	}

	ranked := make([]model.RankedItem, 0, len(order))
	for _, text := range order {
		ranked = append(ranked, model.RankedItem{Text: text, Count: counts[text]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	return ranked
}

func (s *ReportService) buildRecommendations(session *model.Session) model.Recommendations {
	var weak, strong []string
	for _, r := range session.Responses {
		if r.Evaluation.OverallScore < 6 {
			weak = append(weak, r.Evaluation.Improvements...)
		} else {
			strong = append(strong, r.Evaluation.Strengths...)
		}
	}

	avgScore := session.CumulativeAverage()
	return model.Recommendations{
		FocusAreas:              dedupeTruncate(weak, 5),
		Strengths:               dedupeTruncate(strong, 5),
		StudyResources:          s.catalog.StudyResources(session.DomainKey),
		NextSteps:               nextSteps(avgScore),
		PracticeRecommendations: practiceRecommendations(session),
	}
}

// dedupeTruncate keeps the first occurrence of each item, capped at max.
func dedupeTruncate(items []string, max int) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if len(out) == max {
			break
		}
	}
	return out
}

func nextSteps(avgScore float64) []string {
	switch {
	case avgScore >= 8:
		return []string{
			"You're performing excellently! Focus on advanced topics and system design.",
			"Consider mentoring others or contributing to open source projects.",
			"Prepare for senior-level technical discussions and architecture questions.",
		}
	case avgScore >= 6:
		return []string{
			"Good foundation! Focus on deepening your technical knowledge.",
			"Practice explaining complex concepts more clearly.",
			"Work on real-world projects to gain more hands-on experience.",
		}
	default:
		return []string{
			"Focus on strengthening fundamental concepts.",
			"Practice basic technical questions daily.",
			"Consider taking structured courses or bootcamps.",
			"Build small projects to apply your learning.",
		}
	}
}

func practiceRecommendations(session *model.Session) []string {
	var recs []string

	avgTime := mean(session.ResponseTimes)
	if avgTime > 120 {
		recs = append(recs, "Practice answering questions more concisely")
	} else if len(session.ResponseTimes) > 0 && avgTime < 30 {
		recs = append(recs, "Take more time to provide detailed, thoughtful responses")
	}

	avgConfidence := 0.5
	if len(session.ConfidenceLevels) > 0 {
		avgConfidence = mean(session.ConfidenceLevels)
	}
	if avgConfidence < 0.4 {
		recs = append(recs, "Work on building confidence through more practice interviews")
	}

	return recs
}
