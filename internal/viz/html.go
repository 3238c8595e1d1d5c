package viz

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/project"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML wraps Mermaid's flowchart source in a minimal standalone HTML
// document, loading Mermaid from its CDN build, and appends a notes
// section rendering each task's free-text notes from markdown to HTML.
func HTML(st *project.State, sched *cpm.Schedule) (string, error) {
	diagram := Mermaid(st, sched)

	var notes strings.Builder
	for _, t := range st.List() {
		if t.Notes == "" {
			continue
		}
		var buf bytes.Buffer
		if err := markdownRenderer.Convert([]byte(t.Notes), &buf); err != nil {
			return "", fmt.Errorf("rendering notes for %s: %w", t.ID, err)
		}
		fmt.Fprintf(&notes, "<section class=\"task-notes\">\n<h3>%s &mdash; %s</h3>\n%s</section>\n",
			t.ID, html.EscapeString(t.Name), buf.String())
	}

	var doc strings.Builder
	doc.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>DAGr project graph</title>
<script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
<style>
  body { font-family: sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
  .task-notes { border-top: 1px solid #ddd; padding-top: 0.5rem; margin-top: 1rem; }
</style>
</head>
<body>
<pre class="mermaid">
`)
	doc.WriteString(diagram)
	doc.WriteString(`</pre>
<script>mermaid.initialize({ startOnLoad: true });</script>
`)
	doc.WriteString(notes.String())
	doc.WriteString("</body>\n</html>\n")

	return doc.String(), nil
}
