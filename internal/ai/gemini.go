package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"voyage/internal/modules/itinerary"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiGenerator implements Generator using Google's Gemini models.
type GeminiGenerator struct {
	client      *genai.Client
	modelName   string
	maxTokens   int32
	temperature float32
	log         *zap.Logger
}

// NewGeminiGenerator initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiGenerator(ctx context.Context, apiKey, modelName string, maxTokens int, temperature float32, log *zap.Logger) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GeminiGenerator{
		client:      client,
		modelName:   modelName,
		maxTokens:   int32(maxTokens),
		temperature: temperature,
		log:         log,
	}, nil
}

// Close cleans up the Gemini client resources.
func (g *GeminiGenerator) Close() {
	g.client.Close()
}

func (g *GeminiGenerator) Generate(ctx context.Context, p Prompt) (out itinerary.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("gemini generator panicked", zap.Any("panic", r))
			out = itinerary.Unavailable()
		}
	}()

	// Per-call model so the system instruction stays request-scoped.
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = genai.NewUserContent(genai.Text(p.System))
	model.SetTemperature(g.temperature)
	model.SetMaxOutputTokens(g.maxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(p.User))
	if err != nil {
		g.log.Warn("gemini generation error", zap.Error(err))
		return itinerary.Unavailable()
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		g.log.Warn("no response candidates from Gemini")
		return itinerary.Unavailable()
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return itinerary.Unavailable()
	}
	return itinerary.Unstructured(text.String())
}
