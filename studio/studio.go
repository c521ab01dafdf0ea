// Package studio is a thin layer over the generative models: streaming
// chat, image generation and video generation.
package studio

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/carteira/agent"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// Role is the author of a chat message.
type Role string

const (
	User  Role = "user"
	Model Role = "model"
)

// ChatMessage is a message of a chat session.
type ChatMessage struct {
	ID   string
	Role Role
	Text string
	Time time.Time
}

// GeneratedImage is an image produced from a prompt.
type GeneratedImage struct {
	ID     string
	URL    string // data URL
	Prompt string
	Time   time.Time
}

// VideoStatus is the state of a video generation.
type VideoStatus string

const (
	Pending   VideoStatus = "pending"
	Completed VideoStatus = "completed"
	Failed    VideoStatus = "failed"
)

// GeneratedVideo is a video produced from a prompt.
type GeneratedVideo struct {
	ID     string
	URL    string // download URI, set once completed
	Prompt string
	Status VideoStatus
	Time   time.Time

	op *genai.GenerateVideosOperation
}

// Studio runs the generative models of the client.
type Studio struct {
	client *agent.Client
	now    func() time.Time
	newID  func() string
}

// New returns a studio backed by client.
func New(client *agent.Client) *Studio {
	return &Studio{client: client, now: time.Now, newID: uuid.NewString}
}

// NewMessage returns a user message for text.
func (s *Studio) NewMessage(text string) ChatMessage {
	return ChatMessage{ID: s.newID(), Role: User, Text: text, Time: s.now()}
}

// StreamChat sends prompt to the text model and calls onChunk with the
// whole text received so far, every time a chunk arrives.
func (s *Studio) StreamChat(ctx context.Context, prompt string, onChunk func(text string)) (ChatMessage, error) {
	if err := s.client.Wait(ctx); err != nil {
		return ChatMessage{}, err
	}
	model := s.client.Config().TextModel
	stream := s.client.GenAI().Models.GenerateContentStream(ctx, model, genai.Text(prompt), nil)
	text, err := accumulate(stream, onChunk)
	msg := ChatMessage{ID: s.newID(), Role: Model, Text: text, Time: s.now()}
	if err != nil {
		return msg, fmt.Errorf("chat with %s failed: %w", model, err)
	}
	return msg, nil
}

// accumulate concatenates the text of a response stream.
func accumulate(stream iter.Seq2[*genai.GenerateContentResponse, error], onChunk func(string)) (string, error) {
	var b strings.Builder
	for resp, err := range stream {
		if err != nil {
			return b.String(), err
		}
		b.WriteString(resp.Text())
		if onChunk != nil {
			onChunk(b.String())
		}
	}
	return b.String(), nil
}

// GenerateImage produces a square image for prompt.
func (s *Studio) GenerateImage(ctx context.Context, prompt string) (GeneratedImage, error) {
	if err := s.client.Wait(ctx); err != nil {
		return GeneratedImage{}, err
	}
	model := s.client.Config().ImageModel
	cfg := &genai.GenerateContentConfig{}
	cfg.ResponseModalities = append(cfg.ResponseModalities, "TEXT", "IMAGE")
	resp, err := s.client.GenAI().Models.GenerateContent(ctx, model, genai.Text(prompt+"\n\nFormato quadrado (1:1)."), cfg)
	if err != nil {
		return GeneratedImage{}, fmt.Errorf("image generation with %s failed: %w", model, err)
	}
	u, err := imageDataURL(resp)
	if err != nil {
		return GeneratedImage{}, err
	}
	return GeneratedImage{ID: s.newID(), URL: u, Prompt: prompt, Time: s.now()}, nil
}

// ErrNoImage is returned when the model answers without an image.
var ErrNoImage = errors.New("no image data returned from model")

// imageDataURL returns the first inline image of resp as a data URL.
func imageDataURL(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoImage
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData == nil || len(p.InlineData.Data) == 0 {
			continue
		}
		mime := p.InlineData.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(p.InlineData.Data), nil
	}
	return "", ErrNoImage
}

// DecodeDataURL returns the bytes and media type of a base64 data URL.
func DecodeDataURL(u string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URL")
	}
	mime, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, "", fmt.Errorf("not a base64 data URL")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid data URL payload: %w", err)
	}
	return data, mime, nil
}

// GenerateVideo starts the generation of a 16:9 video. The returned video is
// pending until WaitVideo completes it.
func (s *Studio) GenerateVideo(ctx context.Context, prompt string) (*GeneratedVideo, error) {
	if err := s.client.Wait(ctx); err != nil {
		return nil, err
	}
	model := s.client.Config().VideoModel
	op, err := s.client.GenAI().Models.GenerateVideos(ctx, model, prompt, nil, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    "16:9",
	})
	if err != nil {
		return nil, fmt.Errorf("video generation with %s failed: %w", model, err)
	}
	return &GeneratedVideo{ID: s.newID(), Prompt: prompt, Status: Pending, Time: s.now(), op: op}, nil
}

// WaitVideo polls the video operation until it is done or ctx is canceled.
func (s *Studio) WaitVideo(ctx context.Context, v *GeneratedVideo) error {
	log := s.client.Logger().WithField("video", v.ID)
	get := func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		log.Debug("polling video operation")
		return s.client.GenAI().Operations.GetVideosOperation(ctx, op, nil)
	}
	return waitVideo(ctx, v, s.client.Config().VideoPoll, get)
}

func waitVideo(ctx context.Context, v *GeneratedVideo, interval time.Duration, get func(context.Context, *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)) error {
	if v.op == nil {
		return errors.New("video has no pending operation")
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	op := v.op
	for !op.Done {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		next, err := get(ctx, op)
		if err != nil {
			v.Status = Failed
			return fmt.Errorf("cannot poll video operation: %w", err)
		}
		if next == nil {
			v.Status = Failed
			return errors.New("video operation vanished while polling")
		}
		op = next
	}
	v.op = op
	if op.Error != nil {
		v.Status = Failed
		return fmt.Errorf("video generation failed: %v", op.Error)
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		v.Status = Failed
		return errors.New("video generation returned no video")
	}
	v.URL = op.Response.GeneratedVideos[0].Video.URI
	v.Status = Completed
	return nil
}

// DownloadVideo writes the content of a completed video to w.
func (s *Studio) DownloadVideo(ctx context.Context, v *GeneratedVideo, w io.Writer) error {
	if v.Status != Completed {
		return fmt.Errorf("video %s is %s", v.ID, v.Status)
	}
	u, err := url.Parse(v.URL)
	if err != nil {
		return fmt.Errorf("invalid video URI: %w", err)
	}
	q := u.Query()
	q.Set("key", s.client.Config().APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("cannot download video: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot download video: %s", resp.Status)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}
