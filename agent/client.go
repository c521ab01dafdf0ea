package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("empty response from model")

// Generator produces a text answer for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt, system string, search bool) (string, error)
}

// Client is a throttled Gemini client shared by every AI collaborator.
type Client struct {
	genai   *genai.Client
	cfg     Config
	limiter *rate.Limiter
	log     *logrus.Logger
}

// NewClient creates a client for the Gemini API.
func NewClient(ctx context.Context, cfg Config, log *logrus.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("cannot create Gemini client: %w", err)
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		genai:   gc,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		log:     log,
	}, nil
}

// GenAI returns the underlying Gemini client.
func (c *Client) GenAI() *genai.Client { return c.genai }

// Config returns the client configuration.
func (c *Client) Config() Config { return c.cfg }

// Logger returns the client logger.
func (c *Client) Logger() *logrus.Logger { return c.log }

// Wait blocks until the rate limiter allows one more request.
func (c *Client) Wait(ctx context.Context) error {
	start := time.Now()
	err := c.limiter.Wait(ctx)
	if d := time.Since(start); d > 100*time.Millisecond {
		c.log.WithField("delay", d).Debug("AI request throttled")
	}
	return err
}

// Generate asks the text model for a single answer. With search the
// answer is grounded with Google Search.
func (c *Client) Generate(ctx context.Context, prompt, system string, search bool) (string, error) {
	if err := c.Wait(ctx); err != nil {
		return "", err
	}
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if search {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	resp, err := c.genai.Models.GenerateContent(ctx, c.cfg.TextModel, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("model %s failed: %w", c.cfg.TextModel, err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	c.log.WithFields(logrus.Fields{"model": c.cfg.TextModel, "search": search, "chars": len(text)}).Debug("model answered")
	return text, nil
}
