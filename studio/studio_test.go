package studio

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"
)

func textChunk(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: s}}},
	}}}
}

func TestAccumulate(t *testing.T) {
	stream := func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, s := range []string{"Olá", ", ", "investidor"} {
			if !yield(textChunk(s), nil) {
				return
			}
		}
	}
	var seen []string
	got, err := accumulate(stream, func(text string) { seen = append(seen, text) })
	if err != nil {
		t.Fatalf("accumulate() error = %v", err)
	}
	if got != "Olá, investidor" {
		t.Errorf("accumulate() = %q", got)
	}
	want := []string{"Olá", "Olá, ", "Olá, investidor"}
	if strings.Join(seen, "|") != strings.Join(want, "|") {
		t.Errorf("chunks = %q, want %q", seen, want)
	}
}

func TestAccumulate_Error(t *testing.T) {
	boom := errors.New("boom")
	stream := func(yield func(*genai.GenerateContentResponse, error) bool) {
		if !yield(textChunk("parcial"), nil) {
			return
		}
		yield(nil, boom)
	}
	got, err := accumulate(stream, nil)
	if !errors.Is(err, boom) {
		t.Errorf("accumulate() error = %v, want %v", err, boom)
	}
	if got != "parcial" {
		t.Errorf("accumulate() = %q, want the partial text", got)
	}
}

func TestImageDataURL(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{
			{Text: "aqui está"},
			{InlineData: &genai.Blob{Data: []byte{1, 2, 3}, MIMEType: "image/png"}},
		}},
	}}}
	got, err := imageDataURL(resp)
	if err != nil {
		t.Fatalf("imageDataURL() error = %v", err)
	}
	if got != "data:image/png;base64,AQID" {
		t.Errorf("imageDataURL() = %q", got)
	}
	data, mime, err := DecodeDataURL(got)
	if err != nil || mime != "image/png" || len(data) != 3 {
		t.Errorf("DecodeDataURL() = %v %q %v", data, mime, err)
	}

	if _, err := imageDataURL(textChunk("sem imagem")); !errors.Is(err, ErrNoImage) {
		t.Errorf("imageDataURL(text only) error = %v, want ErrNoImage", err)
	}
}

func TestWaitVideo(t *testing.T) {
	v := &GeneratedVideo{ID: "v1", Status: Pending, op: &genai.GenerateVideosOperation{Name: "op"}}
	calls := 0
	get := func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		calls++
		if calls < 3 {
			return op, nil
		}
		return &genai.GenerateVideosOperation{Name: "op", Done: true, Response: &genai.GenerateVideosResponse{
			GeneratedVideos: []*genai.GeneratedVideo{{Video: &genai.Video{URI: "https://example.com/v?alt=media"}}},
		}}, nil
	}
	if err := waitVideo(context.Background(), v, time.Millisecond, get); err != nil {
		t.Fatalf("waitVideo() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("polled %d times, want 3", calls)
	}
	if v.Status != Completed || v.URL != "https://example.com/v?alt=media" {
		t.Errorf("video = %+v", v)
	}
}

func TestWaitVideo_Failed(t *testing.T) {
	v := &GeneratedVideo{ID: "v1", Status: Pending, op: &genai.GenerateVideosOperation{Name: "op"}}
	get := func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		return &genai.GenerateVideosOperation{Done: true, Error: map[string]any{"message": "quota"}}, nil
	}
	if err := waitVideo(context.Background(), v, time.Millisecond, get); err == nil {
		t.Fatal("waitVideo() error = nil, want failure")
	}
	if v.Status != Failed {
		t.Errorf("Status = %s, want %s", v.Status, Failed)
	}
}

func TestWaitVideo_NilOperation(t *testing.T) {
	v := &GeneratedVideo{ID: "v1", Status: Pending, op: &genai.GenerateVideosOperation{Name: "op"}}
	get := func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		return nil, nil
	}
	if err := waitVideo(context.Background(), v, time.Millisecond, get); err == nil {
		t.Fatal("waitVideo() error = nil, want failure")
	}
	if v.Status != Failed {
		t.Errorf("Status = %s, want %s", v.Status, Failed)
	}
}

func TestWaitVideo_Canceled(t *testing.T) {
	v := &GeneratedVideo{ID: "v1", Status: Pending, op: &genai.GenerateVideosOperation{Name: "op"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	get := func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		t.Fatal("polled after cancel")
		return nil, nil
	}
	if err := waitVideo(ctx, v, time.Hour, get); !errors.Is(err, context.Canceled) {
		t.Errorf("waitVideo() error = %v, want context.Canceled", err)
	}
	if v.Status != Pending {
		t.Errorf("Status = %s, want %s", v.Status, Pending)
	}
}

func TestDecodePCM16(t *testing.T) {
	// two stereo frames: (0, -32768) (16384, 32767)
	data := []byte{0x00, 0x00, 0x00, 0x80, 0x00, 0x40, 0xff, 0x7f}
	got, err := DecodePCM16(data, 2)
	if err != nil {
		t.Fatalf("DecodePCM16() error = %v", err)
	}
	want := [][]float32{{0, 0.5}, {-1, 32767.0 / 32768}}
	for c := range want {
		for i := range want[c] {
			if math.Abs(float64(got[c][i]-want[c][i])) > 1e-6 {
				t.Errorf("channel %d sample %d = %v, want %v", c, i, got[c][i], want[c][i])
			}
		}
	}

	if _, err := DecodePCM16(data[:3], 1); err == nil {
		t.Error("DecodePCM16(odd length) error = nil")
	}
	if _, err := DecodePCM16(data, 0); err == nil {
		t.Error("DecodePCM16(0 channels) error = nil")
	}
}

func TestEncodePCM16(t *testing.T) {
	samples := []float32{0, 0.5, -1, 2}
	got, err := DecodePCM16(EncodePCM16(samples), 1)
	if err != nil {
		t.Fatalf("DecodePCM16() error = %v", err)
	}
	want := []float32{0, 0.5, -1, 32767.0 / 32768}
	for i := range want {
		if math.Abs(float64(got[0][i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got[0][i], want[i])
		}
	}
}
