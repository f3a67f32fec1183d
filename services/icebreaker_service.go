package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"linkup_server/models"

	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultIcebreakerModel = "gemini-2.5-flash"

// ContentGenerator produces text from a prompt.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator backs ContentGenerator with the Gemini API.
type GeminiGenerator struct {
	client    *genai.Client
	modelName string
}

// NewGeminiGenerator creates a generator for the Gemini API backend.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultIcebreakerModel
	}

	return &GeminiGenerator{client: client, modelName: model}, nil
}

// GenerateContent sends the prompt and returns the concatenated text parts.
func (g *GeminiGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

// IcebreakerService enriches top-ranked candidates with a suggested opener.
// Generation is strictly best-effort: any timeout or failure degrades to the
// computed reason string and is never propagated.
type IcebreakerService struct {
	Generator ContentGenerator
	Logger    *zap.Logger
	Timeout   time.Duration
}

// Enabled reports whether a generator is configured at all.
func (s *IcebreakerService) Enabled() bool {
	return s != nil && s.Generator != nil
}

// Generate returns icebreaker text for the pair, or the reason string when
// generation is unavailable or fails.
func (s *IcebreakerService) Generate(ctx context.Context, requester, candidate models.UserProfile, reason string, commonInterests, sharedEvents []string) string {
	if !s.Enabled() {
		return reason
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := buildIcebreakerPrompt(requester, candidate, reason, commonInterests, sharedEvents)

	text, err := retry.DoWithData(
		func() (string, error) {
			return s.Generator.GenerateContent(ctx, prompt)
		},
		retry.Context(ctx),
		retry.Attempts(2), // single retry
		retry.Delay(200*time.Millisecond),
		retry.MaxJitter(100*time.Millisecond),
	)
	if err != nil {
		s.Logger.Warn("icebreaker generation failed, falling back to reason",
			zap.String("requester_id", requester.UserID),
			zap.String("candidate_id", candidate.UserID),
			zap.Error(err),
		)
		return reason
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return reason
	}
	return text
}

func buildIcebreakerPrompt(requester, candidate models.UserProfile, reason string, commonInterests, sharedEvents []string) string {
	var b strings.Builder
	b.WriteString("Write one short, friendly opening message (max two sentences) that ")
	b.WriteString(requester.DisplayName)
	b.WriteString(" could send to ")
	b.WriteString(candidate.DisplayName)
	b.WriteString(" after being matched in a professional networking community.\n")
	fmt.Fprintf(&b, "Why they matched: %s\n", reason)
	if len(commonInterests) > 0 {
		fmt.Fprintf(&b, "Shared interests: %s\n", strings.Join(commonInterests, ", "))
	}
	if len(sharedEvents) > 0 {
		fmt.Fprintf(&b, "Shared events: %s\n", strings.Join(sharedEvents, ", "))
	}
	b.WriteString("Reply with the message text only.")
	return b.String()
}
