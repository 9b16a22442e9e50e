package repo

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()

	require.NoError(t, r.AddMessage(ctx, "c1", schema.UserMessage("where is my order?")))
	require.NoError(t, r.AddMessage(ctx, "c1", schema.AssistantMessage("let me check", nil)))
	require.NoError(t, r.AddMessage(ctx, "c2", schema.UserMessage("unrelated")))

	h, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, h.Messages, 2)
	assert.Equal(t, schema.User, h.Messages[0].Role)
	assert.Equal(t, "where is my order?", h.Messages[0].Content)

	n, err := r.GetMessageCount(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, r.ClearHistory(ctx, "c1"))
	n, err = r.GetMessageCount(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, n)

	// other conversations are untouched
	n, err = r.GetMessageCount(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryRepositoryCopiesHistory(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()
	require.NoError(t, r.AddMessage(ctx, "c1", schema.UserMessage("hi")))

	h, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	h.Messages[0] = schema.UserMessage("mutated")

	h2, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "hi", h2.Messages[0].Content)
}
