package export

import (
	"bytes"
	"io"
	"strings"

	"github.com/KaramelBytes/summarizer-cli/internal/summary"
)

type markdownRenderer struct{}

func (markdownRenderer) Format() Format    { return FormatMarkdown }
func (markdownRenderer) Extension() string { return ".md" }

func (markdownRenderer) Render(w io.Writer, s *summary.Summary, _ Meta, opts Options) error {
	_, err := w.Write(markdownTable(s, opts, cellEscaper.Replace))
	return err
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>", "\r", "<br>")

// markdownTable renders the summary as a pipe table with one row per column.
// esc makes each cell safe for the table.
func markdownTable(s *summary.Summary, opts Options, esc func(string) string) []byte {
	var b bytes.Buffer
	head := header(s)
	writeRow(&b, head, esc)
	b.WriteString("|")
	for range head {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for _, row := range rows(s, opts) {
		writeRow(&b, row, esc)
	}
	return b.Bytes()
}

func writeRow(b *bytes.Buffer, cells []string, esc func(string) string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		if c != "" {
			b.WriteString(esc(c))
			b.WriteString(" ")
		}
		b.WriteString("|")
	}
	b.WriteString("\n")
}
