package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// LineReader reads user input one line at a time.
type LineReader interface {
	Readline() (string, error)
}

type bufioReader struct{ r *bufio.Reader }

func (b bufioReader) Readline() (string, error) {
	line, err := b.r.ReadString('\n')
	if err != nil && line != "" && errors.Is(err, io.EOF) {
		return line, nil
	}
	return line, err
}

// NewLineReader returns a LineReader over a plain reader.
func NewLineReader(r io.Reader) LineReader { return bufioReader{bufio.NewReader(r)} }

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w           io.Writer
	r           LineReader
	Facilitator *Expert
	Experts     []*Expert
	// Render formats the markdown answers, they are printed as is when nil.
	Render func(markdown string) string
}

// New creates a new Agent over the experts.
//
// w receives the agent's output (e.g., os.Stdout) and r the user input.
func New(w io.Writer, r LineReader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           r,
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start creates every expert chat.
func (a *Agent) Start(ctx context.Context, client *Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

// Run starts the interactive REPL session for the agent. prompts are
// played before reading the user input.
func (a *Agent) Run(ctx context.Context, client *Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Bem-vindo ao assistente da carteira. Digite 'sair' para terminar.")

	for {
		var input string
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, "> "+input)
		} else {
			var err error
			input, err = a.r.Readline()
			if errors.Is(err, io.EOF) {
				return nil // Clean exit on Ctrl+D
			}
			if err != nil {
				return err
			}
		}

		switch strings.TrimSpace(input) {
		case "":
			continue
		case "sair", "bye":
			return nil
		}

		answer, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		if a.Render != nil {
			answer = a.Render(answer)
		}
		fmt.Fprintln(a.w, answer)
	}
}
