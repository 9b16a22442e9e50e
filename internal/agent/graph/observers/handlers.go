package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates all observer handlers (prompt, tool, model)
// into one callbacks.Handler that records into rec. Verbosity controls how
// much is mirrored to the log: 0 errors only, 1 tool calls, 2 everything.
func NewAllCallbacks(rec *TraceRecorder, verbosity int) einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		Tool(newToolHandler(rec, verbosity)).
		ChatModel(newModelHandler(rec, verbosity)).
		Prompt(newPromptHandler(rec, verbosity)).
		Handler()
}
