package agent

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/observers"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/repo"
)

type stubRunner struct {
	lastInput model.QueryInput
	answer    string
}

func (s *stubRunner) Invoke(ctx context.Context, in model.QueryInput) (string, []observers.TraceEvent, error) {
	s.lastInput = in
	return s.answer, []observers.TraceEvent{{Seq: 1, Stage: "model_end", Name: "stub"}}, nil
}

func TestRunRequiresEmailAndMessage(t *testing.T) {
	o := newOrchestrator(&stubRunner{}, repo.NewMemoryConversationRepository())

	_, _, err := o.Run(context.Background(), "", "", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")

	_, _, err = o.Run(context.Background(), "", "alice@example.com", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message")
}

func TestRunDefaultsConversationIDToEmail(t *testing.T) {
	runner := &stubRunner{answer: "hi there"}
	o := newOrchestrator(runner, repo.NewMemoryConversationRepository())

	answer, trace, err := o.Run(context.Background(), "", "  alice@example.com  ", " where is my order? ")
	require.NoError(t, err)
	assert.Equal(t, "hi there", answer)
	require.Len(t, trace, 1)

	assert.Equal(t, "alice@example.com", runner.lastInput.ConversationID)
	assert.Equal(t, "alice@example.com", runner.lastInput.Email)
	assert.Equal(t, "where is my order?", runner.lastInput.Query)
}

func TestRunKeepsExplicitConversationID(t *testing.T) {
	runner := &stubRunner{}
	o := newOrchestrator(runner, repo.NewMemoryConversationRepository())

	_, _, err := o.Run(context.Background(), "session-42", "alice@example.com", "hi")
	require.NoError(t, err)
	assert.Equal(t, "session-42", runner.lastInput.ConversationID)
}

func TestClearConversation(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryConversationRepository()
	o := newOrchestrator(&stubRunner{}, store)

	require.NoError(t, store.AddMessage(ctx, "c1", schema.UserMessage("hi")))
	require.NoError(t, o.ClearConversation(ctx, "c1"))

	n, err := store.GetMessageCount(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, n)
}
