package ingest

import "fmt"

// Chunk is one sliding window of a document body. Offsets are rune
// positions into the original body.
type Chunk struct {
	ChunkID string
	DocID   string
	Index   int
	Start   int
	End     int
	Text    string
}

// SplitChunks cuts text into windows of size runes advancing by
// size-overlap each step, so consecutive chunks share overlap runes.
// An empty text produces no chunks; a text shorter than size produces one.
func SplitChunks(docID, text string, size, overlap int) []Chunk {
	if size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		// Stride must stay positive or the window never advances.
		overlap = size - 1
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	stride := size - overlap
	var chunks []Chunk
	for start := 0; ; start += stride {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			ChunkID: fmt.Sprintf("%s#%04d", docID, len(chunks)),
			DocID:   docID,
			Index:   len(chunks),
			Start:   start,
			End:     end,
			Text:    string(runes[start:end]),
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
