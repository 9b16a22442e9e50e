// Package agent wires the support graph, the conversation store and the
// tool dependencies into a single entry point for one-question-in,
// one-answer-out interactions.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/observers"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/model"
	logx "github.com/intersystems-ib/customer-support-agent-demo/pkg/logger"
)

// Orchestrator owns a compiled support graph. Build it once at startup and
// share it across requests; each Run is an independent turn.
type Orchestrator struct {
	runner graph.Runner
	repo   model.ConversationRepository
}

// NewOrchestrator builds the support graph from cfg and returns an
// Orchestrator ready to serve turns.
func NewOrchestrator(ctx context.Context, cfg graph.Config) (*Orchestrator, error) {
	runner, err := graph.BuildSupportGraph(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build support graph: %w", err)
	}
	return &Orchestrator{runner: runner, repo: cfg.ConversationRepo}, nil
}

func newOrchestrator(runner graph.Runner, repo model.ConversationRepository) *Orchestrator {
	return &Orchestrator{runner: runner, repo: repo}
}

// Run answers one user message on behalf of email. When conversationID is
// empty the conversation is keyed by the email itself, so repeated calls
// from the same user share history.
func (o *Orchestrator) Run(ctx context.Context, conversationID, email, message string) (string, []observers.TraceEvent, error) {
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)
	if email == "" {
		return "", nil, fmt.Errorf("email is required")
	}
	if message == "" {
		return "", nil, fmt.Errorf("message is empty")
	}
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		conversationID = email
	}

	logx.Debug().
		Str("conversation_id", conversationID).
		Str("email", email).
		Msg("agent run")

	return o.runner.Invoke(ctx, model.QueryInput{
		ConversationID: conversationID,
		Email:          email,
		Query:          message,
	})
}

// ClearConversation drops the stored history for a conversation.
func (o *Orchestrator) ClearConversation(ctx context.Context, conversationID string) error {
	return o.repo.ClearHistory(ctx, conversationID)
}
