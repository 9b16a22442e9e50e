package observers

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceRecorderOrdersEvents(t *testing.T) {
	rec := NewTraceRecorder()
	rec.add("model_start", "gemini", "hi", "", nil)
	rec.add("tool_start", "sql_last_orders", `{"user_email":"a@b.c"}`, "", nil)
	rec.add("tool_end", "sql_last_orders", "", `{"orders":[]}`, nil)
	rec.add("model_error", "gemini", "", "", errors.New("boom"))

	evs := rec.Events()
	require.Len(t, evs, 4)
	for i, ev := range evs {
		assert.Equal(t, i+1, ev.Seq)
		assert.False(t, ev.At.IsZero())
	}
	assert.Equal(t, "tool_start", evs[1].Stage)
	assert.Equal(t, "sql_last_orders", evs[1].Name)
	assert.Equal(t, "boom", evs[3].Err)
}

func TestTraceRecorderEventsReturnsCopy(t *testing.T) {
	rec := NewTraceRecorder()
	rec.add("model_start", "gemini", "", "", nil)

	evs := rec.Events()
	evs[0].Stage = "mutated"
	assert.Equal(t, "model_start", rec.Events()[0].Stage)
}

func TestTraceRecorderReset(t *testing.T) {
	rec := NewTraceRecorder()
	rec.add("model_start", "gemini", "", "", nil)
	rec.Reset()
	assert.Empty(t, rec.Events())

	rec.add("model_start", "gemini", "", "", nil)
	assert.Equal(t, 1, rec.Events()[0].Seq)
}

func TestTraceRecorderTruncatesLongFields(t *testing.T) {
	rec := NewTraceRecorder()
	rec.add("tool_end", "rag_doc_search", "", strings.Repeat("x", maxTraceField+500), nil)

	out := rec.Events()[0].Output
	assert.Len(t, out, maxTraceField+3)
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestTraceRecorderConcurrentAdds(t *testing.T) {
	rec := NewTraceRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.add("tool_start", "sql_last_orders", "", "", nil)
		}()
	}
	wg.Wait()

	evs := rec.Events()
	require.Len(t, evs, 50)
	seen := make(map[int]bool, len(evs))
	for _, ev := range evs {
		seen[ev.Seq] = true
	}
	assert.Len(t, seen, 50)
}
