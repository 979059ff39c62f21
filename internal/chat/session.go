// Package chat holds the conversational side of the assistant: an
// explicit session object carrying the system prompt and the trimmed
// message history, with JSON persistence between runs.
package chat

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DefaultSystemPrompt keeps replies short enough to speak out loud.
const DefaultSystemPrompt = "You are a helpful voice assistant. " +
	"Be very concise, practical, and ask clarifying questions only when necessary. " +
	"Answer short and keep answers serious. Avoid unnecessary chit-chat. " +
	"If you don't know, say you don't know."

// Session owns the mutable conversation state. It is not safe for
// concurrent use; the daemon serializes turns.
type Session struct {
	client   openai.Client
	model    openai.ChatModel
	store    *Store
	maxTurns int
	history  []Message
}

// NewSession loads any persisted history from store and guarantees the
// session starts with a system message.
func NewSession(client openai.Client, model openai.ChatModel, store *Store, maxTurns int) (*Session, error) {
	history, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	s := &Session{
		client:   client,
		model:    model,
		store:    store,
		maxTurns: maxTurns,
		history:  history,
	}
	s.ensureSystem(DefaultSystemPrompt)
	s.trim()
	return s, nil
}

// History returns a copy of the current messages.
func (s *Session) History() []Message {
	return append([]Message(nil), s.history...)
}

// Ask runs one conversational turn: append the user text, query the
// model over the whole history, append and persist the reply.
func (s *Session) Ask(ctx context.Context, userText string) (string, error) {
	s.history = append(s.history, Message{Role: RoleUser, Content: userText})
	s.trim()

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(s.history))
	for _, m := range s.history {
		switch m.Role {
		case RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    s.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	s.history = append(s.history, Message{Role: RoleAssistant, Content: answer})
	s.trim()
	return answer, s.store.Save(s.history)
}

// RecordExchange appends a user/assistant pair without calling the
// model. Used when the command pipeline answered the turn itself.
func (s *Session) RecordExchange(userText, reply string) error {
	s.history = append(s.history,
		Message{Role: RoleUser, Content: userText},
		Message{Role: RoleAssistant, Content: reply},
	)
	s.trim()
	return s.store.Save(s.history)
}

// SetSystem replaces the system prompt, keeping the conversation.
func (s *Session) SetSystem(text string) error {
	rest := s.withoutSystem()
	s.history = append([]Message{{Role: RoleSystem, Content: text}}, rest...)
	s.trim()
	return s.store.Save(s.history)
}

// AddSystem appends extra instructions to the current system prompt.
func (s *Session) AddSystem(extra string) error {
	s.ensureSystem(DefaultSystemPrompt)
	s.history[0].Content = strings.TrimRight(s.history[0].Content, " \n") + "\n" + extra
	s.trim()
	return s.store.Save(s.history)
}

// Clear drops the conversation but keeps the current system prompt.
func (s *Session) Clear() error {
	s.ensureSystem(DefaultSystemPrompt)
	s.history = s.history[:1]
	return s.store.Save(s.history)
}

// Reset restores the default system prompt and clears everything else.
func (s *Session) Reset() error {
	s.history = []Message{{Role: RoleSystem, Content: DefaultSystemPrompt}}
	return s.store.Save(s.history)
}

func (s *Session) ensureSystem(prompt string) {
	if len(s.history) == 0 || s.history[0].Role != RoleSystem {
		s.history = append([]Message{{Role: RoleSystem, Content: prompt}}, s.history...)
	}
}

func (s *Session) withoutSystem() []Message {
	out := make([]Message, 0, len(s.history))
	for _, m := range s.history {
		if m.Role != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// trim keeps the first system message plus the most recent turns, two
// messages per turn.
func (s *Session) trim() {
	var system []Message
	if len(s.history) > 0 && s.history[0].Role == RoleSystem {
		system = s.history[:1]
	}
	rest := s.withoutSystem()
	if keep := 2 * s.maxTurns; len(rest) > keep {
		rest = rest[len(rest)-keep:]
	}
	s.history = append(append([]Message(nil), system...), rest...)
}
