package model

// Performance trend tags
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendConsistent       = "consistent"
	TrendInsufficientData = "insufficient_data"
	TrendStable           = "stable"
)

// EmotionSummary aggregates the affect samples across the session
type EmotionSummary struct {
	Confidence       float64 `json:"confidence" bson:"confidence"`
	Nervousness      float64 `json:"nervousness" bson:"nervousness"`
	Engagement       float64 `json:"engagement" bson:"engagement"`
	ConfidenceTrend  string  `json:"confidenceTrend" bson:"confidenceTrend"`
	PeakConfidence   float64 `json:"peakConfidence" bson:"peakConfidence"`
	LowestConfidence float64 `json:"lowestConfidence" bson:"lowestConfidence"`
}

// CategoryStats is per-category performance
type CategoryStats struct {
	AverageScore     float64 `json:"averageScore" bson:"averageScore"`
	QuestionCount    int     `json:"questionCount" bson:"questionCount"`
	BestScore        int     `json:"bestScore" bson:"bestScore"`
	NeedsImprovement bool    `json:"needsImprovement" bson:"needsImprovement"`
}

// ScoreBreakdown is the mean of each sub-score across all responses
type ScoreBreakdown struct {
	Technical     float64 `json:"technical" bson:"technical"`
	Communication float64 `json:"communication" bson:"communication"`
	Completeness  float64 `json:"completeness" bson:"completeness"`
	Depth         float64 `json:"depth" bson:"depth"`
	Presentation  float64 `json:"presentation" bson:"presentation"`
}

// RankedItem is a feedback line with its occurrence count
type RankedItem struct {
	Text  string `json:"text" bson:"text"`
	Count int    `json:"count" bson:"count"`
}

// Recommendations is the synthesized guidance section of the report
type Recommendations struct {
	FocusAreas              []string        `json:"focusAreas" bson:"focusAreas"`
	Strengths               []string        `json:"strengths" bson:"strengths"`
	StudyResources          []StudyResource `json:"studyResources" bson:"studyResources"`
	NextSteps               []string        `json:"nextSteps" bson:"nextSteps"`
	PracticeRecommendations []string        `json:"practiceRecommendations" bson:"practiceRecommendations"`
}

// Report is the final analytics document, immutable once computed
type Report struct {
	OverallScore     float64                  `json:"overallScore" bson:"overallScore"`
	DurationMinutes  float64                  `json:"durationMinutes" bson:"durationMinutes"`
	EmotionAnalysis  EmotionSummary           `json:"emotionAnalysis" bson:"emotionAnalysis"`
	PerformanceTrend string                   `json:"performanceTrend" bson:"performanceTrend"`
	CategoryAnalysis map[string]CategoryStats `json:"categoryAnalysis" bson:"categoryAnalysis"`
	AvgResponseTime  float64                  `json:"avgResponseTime" bson:"avgResponseTime"`
	ScoreBreakdown   ScoreBreakdown           `json:"scoreBreakdown" bson:"scoreBreakdown"`
	StrengthsSummary []RankedItem             `json:"strengthsSummary" bson:"strengthsSummary"`
	ImprovementAreas []RankedItem             `json:"improvementAreas" bson:"improvementAreas"`
	Recommendations  Recommendations          `json:"recommendations" bson:"recommendations"`
}
