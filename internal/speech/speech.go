package speech

import "context"

// PlaceholderTranscript is used when every recognition attempt fails;
// the turn still proceeds with this text rather than stalling.
const PlaceholderTranscript = "I couldn't clearly understand your response. Please try speaking more clearly."

// Synthesizer abstracts text-to-speech rendering. Failure degrades the
// question to text-only delivery and is never fatal to a turn.
type Synthesizer interface {
	// Synthesize returns encoded audio bytes for the given text
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Transcriber abstracts speech recognition. Failure yields the
// placeholder transcript with low confidence.
type Transcriber interface {
	// Transcribe converts audio bytes to text with a confidence in [0,1]
	Transcribe(ctx context.Context, audio []byte) (string, float64, error)
}
