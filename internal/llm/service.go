package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrPromptTooLong = errors.New("prompt exceeds token limit")
)

const chatPreamble = `You are DocsX, a writing assistant that helps students plan and draft essays.
Answer the user's request directly in plain prose. Do not wrap the answer in JSON or markdown fences.`

const rephrasePreamble = `Rephrase the following text. Keep its meaning, tone and language.
Respond with only the rewritten text, without quotes or commentary.`

type Service struct {
	llm       llms.Model
	timeout   time.Duration
	maxTokens int
	encoding  string
}

type Option func(*Service)

// WithTimeout bounds each generation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithMaxPromptTokens rejects prompts longer than n tokens. Zero disables the check.
func WithMaxPromptTokens(n int) Option {
	return func(s *Service) { s.maxTokens = n }
}

func New(baseURL, token, model string, opts ...Option) (*Service, error) {
	llm, err := openai.New(
		openai.WithToken(token),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return NewWithModel(llm, opts...), nil
}

func NewWithModel(model llms.Model, opts ...Option) *Service {
	s := &Service{
		llm:      model,
		timeout:  60 * time.Second,
		encoding: "cl100k_base",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Prompt(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if err := s.checkLength(prompt); err != nil {
		return "", err
	}
	return s.generate(ctx, chatPreamble+"\n\nUser: "+prompt+"\n\nDocsX:")
}

func (s *Service) Rephrase(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyPrompt
	}
	if err := s.checkLength(text); err != nil {
		return "", err
	}
	return s.generate(ctx, rephrasePreamble+"\n\nText:\n"+text+"\n\nRephrased:")
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	return clean(completion), nil
}

// clean trims whitespace and one layer of surrounding quotes.
func clean(completion string) string {
	completion = strings.TrimSpace(completion)
	if len(completion) >= 2 && strings.HasPrefix(completion, "\"") && strings.HasSuffix(completion, "\"") {
		completion = strings.TrimSpace(completion[1 : len(completion)-1])
	}
	return completion
}

func (s *Service) checkLength(prompt string) error {
	if s.maxTokens <= 0 {
		return nil
	}
	if n := s.countTokens(prompt); n > s.maxTokens {
		return fmt.Errorf("%w: %d > %d", ErrPromptTooLong, n, s.maxTokens)
	}
	return nil
}

// countTokens falls back to a four-runes-per-token estimate when the BPE
// ranks cannot be loaded.
func (s *Service) countTokens(text string) int {
	enc, err := tiktoken.GetEncoding(s.encoding)
	if err != nil {
		return (len([]rune(text)) + 3) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
