package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/anxmeshhh/PrepIQ/internal/config"
)

// GoogleTTS renders speech through the public Google Translate TTS
// endpoint, the same engine the gTTS library wraps. Output is MP3.
type GoogleTTS struct {
	baseURL  string
	language string
	client   *http.Client
}

// NewGoogleTTS creates a Translate-backed synthesizer
func NewGoogleTTS(cfg config.SpeechConfig) *GoogleTTS {
	return &GoogleTTS{
		baseURL:  cfg.TTSBaseURL,
		language: cfg.TTSLanguage,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (t *GoogleTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", t.language)
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts request failed: %s", resp.Status)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts returned empty audio")
	}
	return audio, nil
}

// GoogleSTT transcribes WAV audio through the Google Speech API v2
// full-duplex endpoint.
type GoogleSTT struct {
	baseURL  string
	apiKey   string
	language string
	client   *http.Client
}

// NewGoogleSTT creates a Google-backed transcriber
func NewGoogleSTT(cfg config.SpeechConfig) *GoogleSTT {
	return &GoogleSTT{
		baseURL:  cfg.STTBaseURL,
		apiKey:   cfg.STTAPIKey,
		language: cfg.STTLanguage,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// sttResponse is one line of the API's newline-delimited JSON output
type sttResponse struct {
	Result []struct {
		Alternative []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternative"`
		Final bool `json:"final"`
	} `json:"result"`
}

func (t *GoogleSTT) Transcribe(ctx context.Context, audio []byte) (string, float64, error) {
	if t.apiKey == "" {
		return "", 0, fmt.Errorf("stt api key not configured")
	}

	q := url.Values{}
	q.Set("output", "json")
	q.Set("lang", t.language)
	q.Set("key", t.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"?"+q.Encode(), bytes.NewReader(audio))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "audio/l16; rate=16000")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, fmt.Errorf("stt %s: %s", resp.Status, string(body))
	}

	// The endpoint streams one JSON object per line; the first line with
	// results carries the transcript.
	dec := json.NewDecoder(resp.Body)
	for {
		var line sttResponse
		if err := dec.Decode(&line); err == io.EOF {
			break
		} else if err != nil {
			return "", 0, fmt.Errorf("stt decode: %w", err)
		}
		for _, res := range line.Result {
			if len(res.Alternative) == 0 {
				continue
			}
			alt := res.Alternative[0]
			confidence := alt.Confidence
			if confidence == 0 {
				confidence = 0.9 // API omits confidence on single-candidate results
			}
			return alt.Transcript, confidence, nil
		}
	}

	return "", 0, fmt.Errorf("stt returned no transcript")
}
