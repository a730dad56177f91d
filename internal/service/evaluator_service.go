package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/anxmeshhh/PrepIQ/internal/catalog"
	"github.com/anxmeshhh/PrepIQ/internal/config"
	"github.com/anxmeshhh/PrepIQ/internal/model"
)

// EvaluatorService scores candidate answers via the generative-text
// collaborator. It never fails a turn: any collaborator or parse problem
// degrades to the fixed neutral evaluation.
type EvaluatorService struct {
	config  *config.AIConfig
	catalog *catalog.Catalog
	gen     TextGenerator
}

// NewEvaluatorService creates a new evaluator service
func NewEvaluatorService(cfg *config.AIConfig, cat *catalog.Catalog, gen TextGenerator) *EvaluatorService {
	return &EvaluatorService{
		config:  cfg,
		catalog: cat,
		gen:     gen,
	}
}

// Evaluate scores one answer against its question. The result always has
// every sub-score inside [1,10].
func (s *EvaluatorService) Evaluate(ctx context.Context, session *model.Session, question *model.Question, responseText string, emotion model.EmotionSample, duration float64) *model.Evaluation {
	if !s.config.IsEnabled() {
		return NeutralEvaluation()
	}

	domain, err := s.catalog.Get(session.DomainKey)
	if err != nil {
		return NeutralEvaluation()
	}

	prompt := s.buildEvaluationPrompt(domain, session.Difficulty, question, responseText, emotion, duration)
	raw, err := s.gen.Generate(ctx, s.config.Models.Eval, prompt, true)
	if err != nil {
		log.Printf("evaluation call failed, using neutral fallback: %v", err)
		return NeutralEvaluation()
	}

	return ParseEvaluation(raw)
}

func (s *EvaluatorService) buildEvaluationPrompt(domain *model.Domain, difficulty string, question *model.Question, responseText string, emotion model.EmotionSample, duration float64) string {
	return fmt.Sprintf(`You are an expert technical interviewer evaluating a candidate's response for a %s position at %s level.

INTERVIEW CONTEXT:
- Domain: %s
- Level: %s
- Question Category: %s

QUESTION: %s

CANDIDATE'S RESPONSE: %s

RESPONSE METADATA:
- Duration: %.0f seconds
- Confidence Level: %.2f

EVALUATION CRITERIA:
1. Technical Accuracy (1-10): Correctness of technical content
2. Communication Clarity (1-10): How well the response is articulated
3. Completeness (1-10): How thoroughly the question is answered
4. Depth of Knowledge (1-10): Demonstrates understanding beyond surface level
5. Professional Presentation (1-10): Overall interview performance

SCORING GUIDELINES:
- 9-10: Exceptional, exceeds expectations
- 7-8: Strong, meets expectations well
- 5-6: Adequate, meets basic expectations
- 3-4: Below expectations, needs improvement
- 1-2: Poor, significant gaps

Provide your evaluation in this exact JSON format:
{
    "overall_score": 7,
    "technical_score": 7,
    "communication_score": 7,
    "completeness_score": 7,
    "depth_score": 7,
    "presentation_score": 7,
    "strengths": ["specific strength 1", "specific strength 2"],
    "improvements": ["specific improvement 1", "specific improvement 2"],
    "detailed_feedback": "Comprehensive feedback explaining the evaluation with specific examples and suggestions for improvement",
    "key_concepts_covered": ["concept1", "concept2"],
    "missing_concepts": ["missing1", "missing2"]
}`,
		domain.Name, difficulty,
		domain.Name, difficulty, question.Category,
		question.Text, responseText,
		duration, emotion.Confidence)
}

var (
	fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")
	jsonObjectRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON pulls the evaluation payload out of collaborator output
// that may wrap JSON in prose or code fences. The first fenced segment
// wins; otherwise the widest {...} substring is used.
func ExtractJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	if m := jsonObjectRe.FindString(text); m != "" {
		return m
	}
	return text
}

// rawEvaluation uses pointers so absent sub-scores are distinguishable
// from explicit values.
type rawEvaluation struct {
	OverallScore       *int     `json:"overall_score"`
	TechnicalScore     *int     `json:"technical_score"`
	CommunicationScore *int     `json:"communication_score"`
	CompletenessScore  *int     `json:"completeness_score"`
	DepthScore         *int     `json:"depth_score"`
	PresentationScore  *int     `json:"presentation_score"`
	Strengths          []string `json:"strengths"`
	Improvements       []string `json:"improvements"`
	DetailedFeedback   string   `json:"detailed_feedback"`
	KeyConceptsCovered []string `json:"key_concepts_covered"`
	MissingConcepts    []string `json:"missing_concepts"`
}

// ParseEvaluation parses collaborator output into an Evaluation.
// Unparseable payloads yield the neutral fallback; parsed payloads get
// missing sub-scores defaulted to 5 and every sub-score clamped to [1,10].
func ParseEvaluation(raw string) *model.Evaluation {
	var parsed rawEvaluation
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &parsed); err != nil {
		log.Printf("evaluation payload unparseable, using neutral fallback: %v", err)
		return NeutralEvaluation()
	}

	return &model.Evaluation{
		OverallScore:       normalizeScore(parsed.OverallScore),
		TechnicalScore:     normalizeScore(parsed.TechnicalScore),
		CommunicationScore: normalizeScore(parsed.CommunicationScore),
		CompletenessScore:  normalizeScore(parsed.CompletenessScore),
		DepthScore:         normalizeScore(parsed.DepthScore),
		PresentationScore:  normalizeScore(parsed.PresentationScore),
		Strengths:          parsed.Strengths,
		Improvements:       parsed.Improvements,
		DetailedFeedback:   parsed.DetailedFeedback,
		KeyConceptsCovered: parsed.KeyConceptsCovered,
		MissingConcepts:    parsed.MissingConcepts,
	}
}

// normalizeScore defaults a missing sub-score to 5 and clamps to [1,10]
func normalizeScore(score *int) int {
	if score == nil {
		return 5
	}
	return ClampScore(*score)
}

// ClampScore bounds a sub-score to the closed interval [1,10]
func ClampScore(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// NeutralEvaluation is the fixed fallback used when scoring is
// unavailable; a stalled evaluation would block the whole session.
func NeutralEvaluation() *model.Evaluation {
	return &model.Evaluation{
		OverallScore:       6,
		TechnicalScore:     6,
		CommunicationScore: 6,
		CompletenessScore:  6,
		DepthScore:         6,
		PresentationScore:  6,
		Strengths:          []string{"Provided a response", "Engaged with the question"},
		Improvements:       []string{"Could provide more technical detail", "Consider structuring the response better"},
		DetailedFeedback:   "Your response shows engagement with the question. Consider providing more specific technical details and examples to strengthen your answer.",
		KeyConceptsCovered: []string{"Basic understanding"},
		MissingConcepts:    []string{"More detailed explanation needed"},
	}
}
