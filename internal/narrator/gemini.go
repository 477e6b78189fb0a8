package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/kapu/kakao-royale-bot-go/internal/obslog"
	"github.com/kapu/kakao-royale-bot-go/internal/royale"
	"go.uber.org/zap"
)

const defaultModel = "gemini-2.0-flash"

var ErrEmptyResponse = errors.New("narrator returned no text")

// Gemini narrates rounds through the Generative Language API. It satisfies
// royale.Generator; the engine treats everything it returns as untrusted.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create generative client: %w", err)
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

// GenerateRound asks the model for one round as JSON and parses it
// leniently. Any failure is returned to the caller, which falls back to the
// deterministic generator.
func (g *Gemini) GenerateRound(ctx context.Context, req royale.GenerateRequest) (*royale.RoundPayload, error) {
	model := g.client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildRoundPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("generate round: %w", err)
	}
	text := firstText(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	payload, err := royale.DecodeRoundPayload([]byte(stripCodeFences(text)))
	if err != nil {
		obslog.L().Warn("narrator_bad_json",
			zap.Int("round", req.Round),
			zap.Int("response_len", len(text)),
			zap.Error(err),
		)
		return nil, err
	}
	return payload, nil
}

// Quip produces a one-liner for the fun commands (joke, roast, compliment).
func (g *Gemini) Quip(ctx context.Context, kind, target string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(buildQuipPrompt(kind, target)))
	if err != nil {
		return "", fmt.Errorf("generate quip: %w", err)
	}
	text := strings.TrimSpace(firstText(resp))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
