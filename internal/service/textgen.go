package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anxmeshhh/PrepIQ/internal/config"
)

// TextGenerator is the generative-text collaborator. It produces both
// free-text question prompts and JSON-shaped evaluation payloads.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string, wantJSON bool) (string, error)
}

// GeneratorFunc adapts a function to the TextGenerator interface
type GeneratorFunc func(ctx context.Context, model, prompt string, wantJSON bool) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, model, prompt string, wantJSON bool) (string, error) {
	return f(ctx, model, prompt, wantJSON)
}

// GeminiGenerator calls the Gemini generateContent API
type GeminiGenerator struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiGenerator creates a Gemini-backed text generator
func NewGeminiGenerator(cfg *config.AIConfig) *GeminiGenerator {
	return &GeminiGenerator{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Generate makes a request to the Gemini API
func (g *GeminiGenerator) Generate(ctx context.Context, modelName, prompt string, wantJSON bool) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}
	if wantJSON {
		reqBody["generationConfig"] = map[string]interface{}{
			"responseMimeType": "application/json",
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", g.config.ModelEndpoint(modelName), g.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}
