// Package gemini provides a Completer backed by the Google GenAI Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/while-basic/celaya-parachain-sub001/model"
)

// DefaultModel is used when neither Options.Model nor GOOGLE_MODEL is set.
const DefaultModel = "gemini-2.5-flash"

// Options configures the Gemini adapter.
type Options struct {
	APIKey      string // falls back to GOOGLE_API_KEY
	Model       string // falls back to GOOGLE_MODEL, then DefaultModel
	Temperature float32
}

// Completer wraps genai's GenerateContent behind model.Completer.
type Completer struct {
	client *genai.Client
	opts   Options
}

// NewCompleter creates a Gemini client.
func NewCompleter(ctx context.Context, optFns ...func(o *Options)) (*Completer, error) {
	opts := Options{Temperature: 0.3}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.APIKey == "" {
		opts.APIKey = os.Getenv("GOOGLE_API_KEY")
	}

	if opts.APIKey == "" {
		return nil, errors.New("GOOGLE_API_KEY not set")
	}

	if opts.Model == "" {
		opts.Model = os.Getenv("GOOGLE_MODEL")
	}

	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Completer{client: client, opts: opts}, nil
}

// Complete implements model.Completer.
func (c *Completer) Complete(ctx context.Context, req model.Request) (string, error) {
	temperature := c.opts.Temperature

	cfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if req.Instructions != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.Instructions, "user")
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.opts.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", model.ErrEmptyCompletion
	}

	var sb strings.Builder

	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	if sb.Len() == 0 {
		return "", model.ErrEmptyCompletion
	}

	return sb.String(), nil
}

// Info implements model.Completer.
func (c *Completer) Info() model.Info {
	return model.Info{Name: c.opts.Model, Provider: "gemini"}
}
