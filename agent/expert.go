package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// maxCallRounds bounds the function calls an expert can chain before answering.
const maxCallRounds = 8

// ErrTooManyCalls is returned when an expert keeps calling functions without answering.
var ErrTooManyCalls = errors.New("too many function calls without an answer")

// Expert is a chat session with a specialist model, optionally backed by a
// library of functions it can call.
type Expert struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	ModelName   string                       `json:"model_name"`
	Config      *genai.GenerateContentConfig `json:"config"`
	Library     Library
	client      *Client
	chat        *genai.Chat
}

// Start opens the expert chat session, on the client text model unless
// ModelName is set.
func (e *Expert) Start(ctx context.Context, client *Client) error {
	if e.ModelName == "" {
		e.ModelName = client.Config().TextModel
	}
	chat, err := client.GenAI().Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return fmt.Errorf("cannot start expert %s: %w", e.Name, err)
	}
	e.client = client
	e.chat = chat
	return nil
}

// Ask sends parts to the expert and returns its text answer. Function calls
// requested on the way are run through the Library and their responses sent
// back, all calls of a turn together.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (string, error) {
	for range maxCallRounds {
		if err := e.client.Wait(ctx); err != nil {
			return "", err
		}
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("no response from expert %s", e.Name)
		}
		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return answerText(resp.Candidates[0].Content), nil
		}
		if e.Library == nil {
			return "", fmt.Errorf("expert %s doesn't know how to make function calls", e.Name)
		}
		parts = parts[:0]
		for _, call := range calls {
			e.client.Logger().WithField("expert", e.Name).WithField("function", call.Name).Debug("function call")
			// errors travel in the function response
			parts = append(parts, &genai.Part{FunctionResponse: e.Library(ctx, call)})
		}
	}
	return "", fmt.Errorf("expert %s: %w", e.Name, ErrTooManyCalls)
}

// answerText joins the text parts of an answer, thoughts excluded.
func answerText(c *genai.Content) string {
	var b strings.Builder
	for _, p := range c.Parts {
		if p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// Declaration returns the function declaration to ask this expert.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {
					Type:        genai.TypeString,
					Description: "The question to ask the expert.",
				},
			},
			Required: []string{"question"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "Expert's response.",
		},
	}
}

// Call asks the expert the "question" argument.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, ok := args["question"].(string)
	if !ok {
		return errorResponse(id, e.Name, fmt.Errorf("invalid question type got %T, expected string", args["question"]))
	}
	answer, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return errorResponse(id, e.Name, fmt.Errorf("something went wrong while calling the expert: %w", err))
	}
	e.client.Logger().WithField("expert", e.Name).Debugf("%q -> %q", question, answer)
	return &genai.FunctionResponse{
		ID:       id,
		Name:     e.Name,
		Response: map[string]any{"output": answer},
	}
}
