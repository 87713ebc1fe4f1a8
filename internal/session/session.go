// Package session orchestrates one conversation: it grounds each request
// with store snapshots, calls the transport, decodes the model's function
// call, submits the command to the executor, and folds the result back into
// the conversation history.
package session

import (
	"context"
	"encoding/json"
	"strings"

	"daybook/internal/command"
	"daybook/internal/fncall"
	"daybook/internal/logging"
	"daybook/internal/store"
	"daybook/internal/transport"
)

const defaultSystemPrompt = "You are a planning assistant managing the user's events, tasks, " +
	"habits, goals, and categories. Use the provided userContext to resolve references to " +
	"existing items and always act through function calls."

// noActionMessage is returned whenever a model turn cannot be executed. The
// user must never see a half-applied command.
const noActionMessage = "I couldn't complete that request, so no action was taken."

// maxHistory bounds the conversation window sent with each request.
const maxHistory = 40

// Completer is the transport surface the session consumes. *transport.Client
// satisfies it; tests substitute a scripted fake.
type Completer interface {
	Send(ctx context.Context, req *transport.ChatRequest) (*transport.ChatResponse, error)
	Stream(ctx context.Context, req *transport.ChatRequest) (<-chan transport.StreamFrame, <-chan error)
}

// Options configures a session.
type Options struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// Session is one conversation over a shared store. It is not safe for
// concurrent use; the CLI drives it from a single loop.
type Session struct {
	completer Completer
	executor  *command.Executor
	st        store.Store
	opts      Options
	history   []transport.ChatMessage
}

// Reply is the outcome of one turn: the text shown to the user and, when a
// command ran, its result.
type Reply struct {
	Text   string
	Result *command.CommandResult
}

// New creates a session.
func New(completer Completer, executor *command.Executor, st store.Store, opts Options) *Session {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = defaultSystemPrompt
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1024
	}
	return &Session{
		completer: completer,
		executor:  executor,
		st:        st,
		opts:      opts,
	}
}

// Reset clears the conversation history. The store is untouched.
func (s *Session) Reset() {
	s.history = nil
}

// HandleTurn runs one blocking turn.
func (s *Session) HandleTurn(ctx context.Context, input string) (*Reply, error) {
	s.remember(transport.ChatMessage{Role: "user", Content: input})

	resp, err := s.completer.Send(ctx, s.request())
	if err != nil {
		return nil, err
	}

	if fc := resp.FirstFunctionCall(); fc != nil {
		return s.dispatch(ctx, fc), nil
	}

	text := resp.FirstContent()
	s.remember(transport.ChatMessage{Role: "assistant", Content: text})
	return &Reply{Text: text}, nil
}

// HandleTurnStreaming runs one streaming turn. Content fragments are passed
// to onContent as they arrive; function-call fragments are accumulated
// positionally and dispatched once the stream completes.
func (s *Session) HandleTurnStreaming(ctx context.Context, input string, onContent func(string)) (*Reply, error) {
	s.remember(transport.ChatMessage{Role: "user", Content: input})

	frames, errs := s.completer.Stream(ctx, s.request())

	var content, fnName, fnArgs strings.Builder
	for frame := range frames {
		if frame.Done {
			break
		}
		if frame.Content != "" {
			content.WriteString(frame.Content)
			if onContent != nil {
				onContent(frame.Content)
			}
		}
		if frame.FunctionCall != nil {
			fnName.WriteString(frame.FunctionCall.Name)
			fnArgs.WriteString(frame.FunctionCall.Arguments)
		}
	}
	if err := <-errs; err != nil {
		return nil, err
	}

	if fnName.Len() > 0 {
		return s.dispatch(ctx, &transport.FunctionCall{
			Name:      fnName.String(),
			Arguments: fnArgs.String(),
		}), nil
	}

	text := content.String()
	s.remember(transport.ChatMessage{Role: "assistant", Content: text})
	return &Reply{Text: text}, nil
}

// dispatch decodes and executes one function call. Every failure path
// degrades to a no-action reply; nothing here returns an error to the turn.
func (s *Session) dispatch(ctx context.Context, fc *transport.FunctionCall) *Reply {
	parsed, err := fncall.Parse(fc.Name, fc.Arguments)
	if err != nil {
		logging.Session("turn degraded, undecodable call %q", fc.Name)
		s.remember(transport.ChatMessage{Role: "assistant", Content: noActionMessage})
		return &Reply{Text: noActionMessage}
	}

	params := command.Params(parsed.Arguments)
	domain, action, ok := mapFunction(parsed.Name, params)
	if !ok {
		logging.Session("turn degraded, unmapped function %q", parsed.Name)
		s.remember(transport.ChatMessage{Role: "assistant", Content: noActionMessage})
		return &Reply{Text: noActionMessage}
	}

	result := s.executor.Submit(ctx, domain, action, params)

	s.remember(transport.ChatMessage{
		Role:         "assistant",
		FunctionCall: &transport.FunctionCall{Name: parsed.Name, Arguments: parsed.RawArguments},
	})
	s.remember(transport.ChatMessage{
		Role:    "function",
		Name:    parsed.Name,
		Content: resultPayload(result),
	})

	return &Reply{Text: result.Message, Result: &result}
}

// resultPayload serializes a result for the function-role history message.
func resultPayload(result command.CommandResult) string {
	payload, err := json.Marshal(result)
	if err != nil {
		return result.Message
	}
	return string(payload)
}

// request builds the next ChatRequest from the system prompt, the bounded
// history, and a fresh grounding snapshot.
func (s *Session) request() *transport.ChatRequest {
	messages := make([]transport.ChatMessage, 0, len(s.history)+1)
	messages = append(messages, transport.ChatMessage{Role: "system", Content: s.opts.SystemPrompt})
	messages = append(messages, s.history...)

	return &transport.ChatRequest{
		Messages:     messages,
		Model:        s.opts.Model,
		Temperature:  s.opts.Temperature,
		MaxTokens:    s.opts.MaxTokens,
		UserContext:  BuildUserContext(s.st),
		FunctionCall: "auto",
	}
}

// remember appends to the history, dropping the oldest turns past the
// window.
func (s *Session) remember(msg transport.ChatMessage) {
	s.history = append(s.history, msg)
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
}
