package agent

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrNoAPIKey is returned when no Gemini API key is configured.
var ErrNoAPIKey = errors.New("GEMINI_API_KEY is not set")

// Config is the configuration of the AI collaborators, read from the environment.
type Config struct {
	APIKey     string        `env:"GEMINI_API_KEY"`
	TextModel  string        `env:"CART_TEXT_MODEL" envDefault:"gemini-3-flash-preview"`
	ImageModel string        `env:"CART_IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`
	VideoModel string        `env:"CART_VIDEO_MODEL" envDefault:"veo-3.1-fast-generate-preview"`
	Rate       float64       `env:"CART_AI_RATE" envDefault:"1"` // requests per second
	Burst      int           `env:"CART_AI_BURST" envDefault:"2"`
	VideoPoll  time.Duration `env:"CART_VIDEO_POLL" envDefault:"5s"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("invalid AI configuration: %w", err)
	}
	if cfg.APIKey == "" {
		return cfg, ErrNoAPIKey
	}
	return cfg, nil
}
