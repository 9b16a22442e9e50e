package observers

import (
	"context"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/intersystems-ib/customer-support-agent-demo/pkg/logger"
)

// newModelHandler builds a typed ModelCallbackHandler that records model
// calls into the trace and logs them at a level controlled by verbosity.
func newModelHandler(rec *TraceRecorder, verbosity int) *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			user := ""
			if input != nil {
				user = lastUserContent(input.Messages)
			}
			rec.add("model_start", info.Name, user, "", nil)

			if verbosity >= 2 && input != nil {
				// Full message context (system + history), debug only.
				for i, m := range input.Messages {
					if m == nil || strings.TrimSpace(m.Content) == "" {
						continue
					}
					logx.Debug().
						Int("idx", i).
						Str("role", string(m.Role)).
						Str("content", truncate(m.Content, maxTraceField)).
						Msg("model context")
				}
			}
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			content := ""
			if output != nil && output.Message != nil {
				content = strings.TrimSpace(output.Message.Content)
			}
			rec.add("model_end", info.Name, "", content, nil)

			if output != nil && output.TokenUsage != nil {
				logx.Info().
					Int("prompt_tokens", output.TokenUsage.PromptTokens).
					Int("completion_tokens", output.TokenUsage.CompletionTokens).
					Int("total_tokens", output.TokenUsage.TotalTokens).
					Msg("model token usage")
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			rec.add("model_error", info.Name, "", "", err)
			logx.Error().Err(err).Str("model", info.Name).Msg("model call failed")
			return ctx
		},
	}
}

func lastUserContent(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}
		if m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}
