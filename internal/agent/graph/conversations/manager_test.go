package conversations

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/repo"
)

func newManager(maxTurns int) *MessagesManager {
	return NewMessagesManager(repo.NewMemoryConversationRepository(), model.ConversationConfig{MaxTurns: maxTurns})
}

func TestBuildContextStartsWithSystemPrompt(t *testing.T) {
	ctx := context.Background()
	mm := newManager(10)

	require.NoError(t, mm.RecordUserMessage(ctx, "c1", "where is my order?"))

	msgs, err := mm.BuildContext(ctx, "c1", "you are a support agent")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "you are a support agent", msgs[0].Content)
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, "where is my order?", msgs[1].Content)
}

func TestBuildContextTrimsToMaxTurns(t *testing.T) {
	ctx := context.Background()
	mm := newManager(4)

	for i := 0; i < 10; i++ {
		require.NoError(t, mm.RecordUserMessage(ctx, "c1", fmt.Sprintf("message %d", i)))
	}

	msgs, err := mm.BuildContext(ctx, "c1", "system")
	require.NoError(t, err)
	// System prompt plus the 4 newest turns.
	require.Len(t, msgs, 5)
	assert.Equal(t, "message 6", msgs[1].Content)
	assert.Equal(t, "message 9", msgs[4].Content)
}

func TestSaveResponseRoundTrips(t *testing.T) {
	ctx := context.Background()
	mm := newManager(10)

	require.NoError(t, mm.RecordUserMessage(ctx, "c1", "hi"))
	require.NoError(t, mm.SaveResponse(ctx, "c1", "hello, how can I help?"))

	msgs, err := mm.BuildContext(ctx, "c1", "system")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, schema.Assistant, msgs[2].Role)
	assert.Equal(t, "hello, how can I help?", msgs[2].Content)
}

func TestTrimTailCopies(t *testing.T) {
	src := []*schema.Message{schema.UserMessage("a"), schema.UserMessage("b")}
	out := trimTail(src, 10)
	require.Len(t, out, 2)
	out[0] = schema.UserMessage("mutated")
	assert.Equal(t, "a", src[0].Content)
}
