package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/intersystems-ib/customer-support-agent-demo/pkg/logger"
)

// newPromptHandler builds a typed PromptCallbackHandler (not yet wrapped).
func newPromptHandler(rec *TraceRecorder, verbosity int) *callbackHelper.PromptCallbackHandler {
	return &callbackHelper.PromptCallbackHandler{
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
			rendered := ""
			if output != nil && len(output.Result) > 0 && output.Result[0] != nil {
				rendered = output.Result[0].Content
			}
			rec.add("prompt_render", info.Name, "", rendered, nil)
			if verbosity >= 2 {
				logx.Debug().Str("prompt", info.Name).Str("rendered", truncate(rendered, maxTraceField)).Msg("prompt rendered")
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			rec.add("prompt_error", info.Name, "", "", err)
			logx.Error().Err(err).Str("prompt", info.Name).Msg("prompt render failed")
			return ctx
		},
	}
}
