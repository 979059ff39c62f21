package chat

import (
	"fmt"
	"path/filepath"
	"testing"

	openai "github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, maxTurns int) *Session {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "history.json"))
	s, err := NewSession(openai.Client{}, openai.ChatModelGPT5Nano, store, maxTurns)
	require.NoError(t, err)
	return s
}

func TestSessionStartsWithSystem(t *testing.T) {
	s := newTestSession(t, 5)
	h := s.History()
	require.Len(t, h, 1)
	assert.Equal(t, RoleSystem, h[0].Role)
	assert.Equal(t, DefaultSystemPrompt, h[0].Content)
}

func TestRecordExchangeAndTrim(t *testing.T) {
	s := newTestSession(t, 3)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.RecordExchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}

	h := s.History()
	require.Len(t, h, 1+2*3, "one system message plus three turns")
	assert.Equal(t, RoleSystem, h[0].Role)
	assert.Equal(t, "q7", h[1].Content)
	assert.Equal(t, "a9", h[len(h)-1].Content)
}

func TestSetSystemKeepsConversation(t *testing.T) {
	s := newTestSession(t, 5)
	require.NoError(t, s.RecordExchange("hello", "hi"))
	require.NoError(t, s.SetSystem("You are a pirate."))

	h := s.History()
	require.Len(t, h, 3)
	assert.Equal(t, "You are a pirate.", h[0].Content)
	assert.Equal(t, "hello", h[1].Content)
}

func TestAddSystemAppends(t *testing.T) {
	s := newTestSession(t, 5)
	require.NoError(t, s.AddSystem("The user's name is Sam."))

	h := s.History()
	assert.Contains(t, h[0].Content, DefaultSystemPrompt)
	assert.Contains(t, h[0].Content, "The user's name is Sam.")
}

func TestClearKeepsSystem(t *testing.T) {
	s := newTestSession(t, 5)
	require.NoError(t, s.SetSystem("custom prompt"))
	require.NoError(t, s.RecordExchange("hello", "hi"))
	require.NoError(t, s.Clear())

	h := s.History()
	require.Len(t, h, 1)
	assert.Equal(t, "custom prompt", h[0].Content)
}

func TestResetRestoresDefault(t *testing.T) {
	s := newTestSession(t, 5)
	require.NoError(t, s.SetSystem("custom prompt"))
	require.NoError(t, s.RecordExchange("hello", "hi"))
	require.NoError(t, s.Reset())

	h := s.History()
	require.Len(t, h, 1)
	assert.Equal(t, DefaultSystemPrompt, h[0].Content)
}

func TestSessionPersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewStore(path)

	s1, err := NewSession(openai.Client{}, openai.ChatModelGPT5Nano, store, 5)
	require.NoError(t, err)
	require.NoError(t, s1.RecordExchange("remember me", "done"))

	s2, err := NewSession(openai.Client{}, openai.ChatModelGPT5Nano, NewStore(path), 5)
	require.NoError(t, err)
	h := s2.History()
	require.Len(t, h, 3)
	assert.Equal(t, "remember me", h[1].Content)
	assert.Equal(t, "done", h[2].Content)
}
