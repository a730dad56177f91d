package model

import "time"

// SessionStatus tracks where a session is in the question/answer/evaluate cycle
type SessionStatus string

const (
	// StatusAwaitingAnswer means the latest question is out and unanswered
	StatusAwaitingAnswer SessionStatus = "awaiting_answer"
	// StatusEvaluating means an answer is being scored right now
	StatusEvaluating SessionStatus = "evaluating"
	// StatusGenerating means the next question has not been produced yet
	StatusGenerating SessionStatus = "generating"
	// StatusCompleted is terminal; no transition leaves it
	StatusCompleted SessionStatus = "completed"
)

// QuestionCategory is the closed set of analytics categories
type QuestionCategory string

const (
	CategoryTechnicalImplementation QuestionCategory = "Technical Implementation"
	CategoryExperienceBased         QuestionCategory = "Experience-based"
	CategoryProblemSolving          QuestionCategory = "Problem Solving"
	CategoryBestPractices           QuestionCategory = "Best Practices"
	CategoryGeneralTechnical        QuestionCategory = "General Technical"
)

// Question is one generated interview question. ID is the 1-based turn index.
type Question struct {
	ID         int              `json:"id" bson:"id"`
	Text       string           `json:"text" bson:"text"`
	DomainKey  string           `json:"domain" bson:"domain"`
	Difficulty string           `json:"difficulty" bson:"difficulty"`
	Category   QuestionCategory `json:"category" bson:"category"`
	CreatedAt  time.Time        `json:"createdAt" bson:"createdAt"`
}

// EmotionSample is the client-supplied affect signal for one answer.
// All axes are in [0,1]; how they are derived is the client's business.
type EmotionSample struct {
	Confidence  float64 `json:"confidence" bson:"confidence"`
	Nervousness float64 `json:"nervousness" bson:"nervousness"`
	Engagement  float64 `json:"engagement" bson:"engagement"`
}

// Evaluation is the structured scoring result for one answer.
// JSON field names match the payload the model is instructed to return.
type Evaluation struct {
	OverallScore       int      `json:"overall_score" bson:"overallScore"`
	TechnicalScore     int      `json:"technical_score" bson:"technicalScore"`
	CommunicationScore int      `json:"communication_score" bson:"communicationScore"`
	CompletenessScore  int      `json:"completeness_score" bson:"completenessScore"`
	DepthScore         int      `json:"depth_score" bson:"depthScore"`
	PresentationScore  int      `json:"presentation_score" bson:"presentationScore"`
	Strengths          []string `json:"strengths" bson:"strengths"`
	Improvements       []string `json:"improvements" bson:"improvements"`
	DetailedFeedback   string   `json:"detailed_feedback" bson:"detailedFeedback"`
	KeyConceptsCovered []string `json:"key_concepts_covered" bson:"keyConceptsCovered"`
	MissingConcepts    []string `json:"missing_concepts" bson:"missingConcepts"`
}

// Response is one answered turn, index-aligned with the question it answers.
type Response struct {
	QuestionID      int              `json:"questionId" bson:"questionId"`
	Text            string           `json:"text" bson:"text"`
	Evaluation      Evaluation       `json:"evaluation" bson:"evaluation"`
	Emotion         EmotionSample    `json:"emotion" bson:"emotion"`
	DurationSeconds float64          `json:"durationSeconds" bson:"durationSeconds"`
	Category        QuestionCategory `json:"category" bson:"category"`
	CreatedAt       time.Time        `json:"createdAt" bson:"createdAt"`
}

// Session is the complete state of one interview. It only ever grows:
// questions, responses, scores and emotions are append-only, and
// responses/scores/emotions stay the same length at all times.
type Session struct {
	ID               string          `json:"id" bson:"_id"`
	DomainKey        string          `json:"domain" bson:"domain"`
	Difficulty       string          `json:"difficulty" bson:"difficulty"`
	Status           SessionStatus   `json:"status" bson:"status"`
	Questions        []Question      `json:"questions" bson:"questions"`
	Responses        []Response      `json:"responses" bson:"responses"`
	Scores           []int           `json:"scores" bson:"scores"`
	Emotions         []EmotionSample `json:"emotions" bson:"emotions"`
	ResponseTimes    []float64       `json:"responseTimes" bson:"responseTimes"`
	ConfidenceLevels []float64       `json:"confidenceLevels" bson:"confidenceLevels"`
	CurrentQuestion  int             `json:"currentQuestion" bson:"currentQuestion"`
	TotalScore       int             `json:"totalScore" bson:"totalScore"`
	StartTime        time.Time       `json:"startTime" bson:"startTime"`
	EndTime          *time.Time      `json:"endTime,omitempty" bson:"endTime,omitempty"`
	FinalReport      *Report         `json:"finalReport,omitempty" bson:"finalReport,omitempty"`
}

// AnsweredCount returns how many turns have been scored.
func (s *Session) AnsweredCount() int {
	return len(s.Scores)
}

// CumulativeAverage is the running mean overall score, 0 if nothing scored yet.
func (s *Session) CumulativeAverage() float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(len(s.Scores))
}

// CurrentQuestionData returns the most recent question, nil before the first.
func (s *Session) CurrentQuestionData() *Question {
	if len(s.Questions) == 0 {
		return nil
	}
	return &s.Questions[len(s.Questions)-1]
}
