package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/KaramelBytes/summarizer-cli/internal/summary"
)

type htmlRenderer struct{}

func (htmlRenderer) Format() Format    { return FormatHTML }
func (htmlRenderer) Extension() string { return ".html" }

// inlineEscaper backslash-escapes markdown syntax and html special characters
// so the parser keeps them as literal text.
var inlineEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "~", `\~`,
	"<", `\<`, ">", `\>`, "&", `\&`,
)

// htmlCell escapes cell text so it reaches the page verbatim.
func htmlCell(c string) string {
	return cellEscaper.Replace(inlineEscaper.Replace(c))
}

// Render converts the markdown table to html, so both outputs always agree.
func (htmlRenderer) Render(w io.Writer, s *summary.Summary, meta Meta, opts Options) error {
	md := markdownTable(s, opts, htmlCell)

	p := parser.NewWithExtensions(parser.Tables)
	doc := p.Parse(md)

	ro := mdhtml.RendererOptions{Flags: mdhtml.FlagsNone}
	if opts.HTML.CompletePage {
		ro.Flags |= mdhtml.CompletePage
		ro.Title = opts.HTML.Title
		if ro.Title == "" && meta.Source != "" {
			ro.Title = "Summary of " + meta.Source
		}
		ro.CSS = opts.HTML.CSS
		ro.Generator = "summarizer"
		ro.Head = metaTags(meta)
	}
	out := markdown.Render(doc, mdhtml.NewRenderer(ro))
	if opts.HTML.Border {
		out = bytes.ReplaceAll(out, []byte("<table>"), []byte(`<table border="1">`))
	}
	_, err := w.Write(out)
	return err
}

func metaTags(meta Meta) []byte {
	var b bytes.Buffer
	tag := func(name, content string) {
		if content != "" {
			fmt.Fprintf(&b, "  <meta name=\"%s\" content=\"%s\">\n", name, html.EscapeString(content))
		}
	}
	tag("report-id", meta.ReportID)
	tag("source", meta.Source)
	if !meta.GeneratedAt.IsZero() {
		tag("generated-at", meta.GeneratedAt.UTC().Format(time.RFC3339))
	}
	return b.Bytes()
}
