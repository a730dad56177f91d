package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anxmeshhh/PrepIQ/internal/catalog"
	"github.com/anxmeshhh/PrepIQ/internal/config"
	"github.com/anxmeshhh/PrepIQ/internal/model"
)

// ErrGenerationFailed means the question collaborator produced nothing
// usable. The caller must not advance the session on this path.
var ErrGenerationFailed = errors.New("question generation failed")

// QuestionService produces the next interview question for a session
type QuestionService struct {
	config  *config.AIConfig
	catalog *catalog.Catalog
	gen     TextGenerator
}

// NewQuestionService creates a new question service
func NewQuestionService(cfg *config.AIConfig, cat *catalog.Catalog, gen TextGenerator) *QuestionService {
	return &QuestionService{
		config:  cfg,
		catalog: cat,
		gen:     gen,
	}
}

// GenerateQuestion asks the collaborator for the next question in the
// session and tags it with an analytics category.
func (s *QuestionService) GenerateQuestion(ctx context.Context, session *model.Session) (*model.Question, error) {
	domain, err := s.catalog.Get(session.DomainKey)
	if err != nil {
		return nil, err
	}

	questionNum := len(session.Questions) + 1

	if !s.config.IsEnabled() {
		return s.mockQuestion(session, domain, questionNum), nil
	}

	prompt := s.buildQuestionPrompt(session, domain, questionNum)
	raw, err := s.gen.Generate(ctx, s.config.Models.Question, prompt, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	text := CleanQuestionText(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: collaborator returned empty text", ErrGenerationFailed)
	}

	return &model.Question{
		ID:         questionNum,
		Text:       text,
		DomainKey:  session.DomainKey,
		Difficulty: session.Difficulty,
		Category:   CategorizeQuestion(text),
		CreatedAt:  time.Now(),
	}, nil
}

func (s *QuestionService) buildQuestionPrompt(session *model.Session, domain *model.Domain, questionNum int) string {
	previous := make([]string, 0, len(session.Questions))
	for _, q := range session.Questions {
		previous = append(previous, q.Text)
	}

	return fmt.Sprintf(`You are an expert technical interviewer for %s positions at %s level.

Generate interview question #%d following these guidelines:

CONTEXT:
- Position: %s - %s level
- Topics to cover: %s
- Previous questions: %s

REQUIREMENTS:
1. Make it highly relevant to %s
2. Appropriate difficulty for %s level
3. Avoid repeating previous question topics
4. Mix technical and behavioral questions
5. Be specific and actionable
6. Keep it clear and concise (2-3 sentences max)

QUESTION TYPES TO ROTATE:
- Technical implementation
- Problem-solving scenarios
- Best practices and methodologies
- Experience-based questions
- Troubleshooting situations

Generate only the question text, no additional formatting or explanations.`,
		domain.Name, session.Difficulty, questionNum,
		domain.Name, session.Difficulty,
		strings.Join(domain.Topics, ", "),
		strings.Join(previous, "; "),
		domain.Name, session.Difficulty)
}

// mockQuestion rotates through the domain's topics when no API key is set
func (s *QuestionService) mockQuestion(session *model.Session, domain *model.Domain, questionNum int) *model.Question {
	topic := domain.Topics[(questionNum-1)%len(domain.Topics)]
	text := fmt.Sprintf("Tell me about a challenging problem you solved involving %s, and walk me through your approach.", topic)

	return &model.Question{
		ID:         questionNum,
		Text:       text,
		DomainKey:  session.DomainKey,
		Difficulty: session.Difficulty,
		Category:   CategorizeQuestion(text),
		CreatedAt:  time.Now(),
	}
}

// CleanQuestionText strips surrounding quotes and collapses embedded
// newlines to spaces.
func CleanQuestionText(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.Trim(text, `"'`)
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}

// categoryKeywords are scanned in order; the first family with a match
// decides the category.
var categoryKeywords = []struct {
	category model.QuestionCategory
	words    []string
}{
	{model.CategoryTechnicalImplementation, []string{"implement", "code", "algorithm", "function"}},
	{model.CategoryExperienceBased, []string{"experience", "project", "worked", "handled"}},
	{model.CategoryProblemSolving, []string{"problem", "challenge", "difficult", "solve"}},
	{model.CategoryBestPractices, []string{"best practice", "approach", "methodology", "process"}},
}

// CategorizeQuestion maps question text to exactly one analytics
// category. Classification is case-insensitive and deterministic.
func CategorizeQuestion(text string) model.QuestionCategory {
	lower := strings.ToLower(text)
	for _, family := range categoryKeywords {
		for _, word := range family.words {
			if strings.Contains(lower, word) {
				return family.category
			}
		}
	}
	return model.CategoryGeneralTechnical
}
