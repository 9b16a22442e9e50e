// Package ingest loads knowledge-base documents and product seed data
// into the store and rebuilds their embeddings inside the database.
package ingest

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	logx "github.com/intersystems-ib/customer-support-agent-demo/pkg/logger"
)

// Doc is one knowledge-base document loaded from disk.
type Doc struct {
	DocID   string
	Title   string
	Body    string
	DocType string
}

var supportedExts = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// LoadDocs walks root and returns one Doc per supported file.
// DocID is the filename stem; Title is the first '#' heading when present,
// else the stem; the heading line is dropped from the body, which is then
// truncated to maxChars.
func LoadDocs(root string, maxChars int) ([]Doc, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		logx.Warn().Str("dir", root).Msg("docs dir not found")
		return nil, nil
	}

	var docs []Doc
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !supportedExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		text := strings.TrimSpace(string(raw))

		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		title, body := splitTitle(stem, text)

		if len(body) > maxChars {
			body = body[:maxChars]
		}

		docs = append(docs, Doc{
			DocID:   stem,
			Title:   title,
			Body:    body,
			DocType: strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), ".")),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// splitTitle extracts the first markdown heading as the title and drops
// that line from the body.
func splitTitle(stem, text string) (title, body string) {
	title = stem
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			if h := strings.TrimSpace(strings.TrimLeft(line, "# ")); h != "" {
				title = h
			}
			break
		}
	}

	body = text
	if strings.HasPrefix(body, "#") {
		if lines := strings.SplitN(body, "\n", 2); len(lines) == 2 {
			body = strings.TrimLeft(lines[1], "\n ")
		} else {
			body = ""
		}
	}
	return title, body
}
