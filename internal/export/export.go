// Package export renders a summary table to markdown, html, or a spreadsheet.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/summarizer-cli/internal/summary"
	"github.com/KaramelBytes/summarizer-cli/internal/utils"
)

// Format identifies an export target.
type Format string

const (
	FormatMarkdown    Format = "markdown"
	FormatHTML        Format = "html"
	FormatSpreadsheet Format = "spreadsheet"
)

// ErrUnsupportedFormat is returned for formats outside the registered set.
var ErrUnsupportedFormat = errors.New("unsupported format")

var aliases = map[string]Format{
	"markdown":    FormatMarkdown,
	"md":          FormatMarkdown,
	"html":        FormatHTML,
	"htm":         FormatHTML,
	"spreadsheet": FormatSpreadsheet,
	"xlsx":        FormatSpreadsheet,
	"excel":       FormatSpreadsheet,
}

// ParseFormat resolves a format name or alias, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q. Please choose from %s", ErrUnsupportedFormat, s, strings.Join(Supported(), ", "))
	}
	if _, registered := renderers[f]; !registered {
		return "", fmt.Errorf("%w: %q has no renderer", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Supported lists the registered formats in stable order.
func Supported() []string {
	out := make([]string, 0, len(renderers))
	for f := range renderers {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// Meta describes the report being written.
type Meta struct {
	ReportID    string
	Source      string
	GeneratedAt time.Time
}

// HTMLOptions are passed through to the html renderer.
type HTMLOptions struct {
	CompletePage bool
	Title        string
	// CSS is a stylesheet href linked from a complete page.
	CSS    string
	Border bool
}

// SpreadsheetOptions control the generated workbook.
type SpreadsheetOptions struct {
	SheetName string
	// PlainHeader turns off the bold header row.
	PlainHeader  bool
	FreezeHeader bool
	// ColumnWidth applies to every column when > 0.
	ColumnWidth float64
}

// Options are format-specific knobs forwarded by the caller unmodified.
type Options struct {
	// FloatPrecision is the number of significant digits (default 6).
	FloatPrecision int
	// NaRep replaces NaN cells (default "NaN").
	NaRep       string
	HTML        HTMLOptions
	Spreadsheet SpreadsheetOptions
}

// DefaultOptions returns the options used when the caller sets nothing.
func DefaultOptions() Options {
	return Options{
		FloatPrecision: 6,
		NaRep:          "NaN",
		Spreadsheet:    SpreadsheetOptions{SheetName: "Sheet1"},
	}
}

func (o Options) withDefaults() Options {
	if o.FloatPrecision <= 0 {
		o.FloatPrecision = 6
	}
	if o.NaRep == "" {
		o.NaRep = "NaN"
	}
	if o.Spreadsheet.SheetName == "" {
		o.Spreadsheet.SheetName = "Sheet1"
	}
	return o
}

// Renderer writes a summary in one format.
type Renderer interface {
	Format() Format
	Extension() string
	Render(w io.Writer, s *summary.Summary, meta Meta, opts Options) error
}

var renderers = map[Format]Renderer{}

// Register adds a renderer, replacing any previous one for the same format.
func Register(r Renderer) {
	renderers[r.Format()] = r
}

func init() {
	Register(markdownRenderer{})
	Register(htmlRenderer{})
	Register(spreadsheetRenderer{})
}

func lookup(f Format) (Renderer, error) {
	r, ok := renderers[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q. Please choose from %s", ErrUnsupportedFormat, f, strings.Join(Supported(), ", "))
	}
	return r, nil
}

// Extension returns the file extension (with dot) for a format.
func Extension(f Format) (string, error) {
	r, err := lookup(f)
	if err != nil {
		return "", err
	}
	return r.Extension(), nil
}

// Render writes s to w in the given format.
func Render(w io.Writer, f Format, s *summary.Summary, meta Meta, opts Options) error {
	if s == nil {
		return errors.New("render: nil summary")
	}
	r, err := lookup(f)
	if err != nil {
		return err
	}
	return r.Render(w, s, meta, opts.withDefaults())
}

// WriteFile renders s and writes it to fileName plus the format's extension.
// It returns the written path.
func WriteFile(f Format, fileName string, s *summary.Summary, meta Meta, opts Options) (string, error) {
	ext, err := Extension(f)
	if err != nil {
		return "", err
	}
	path := fileName + ext
	var buf bytes.Buffer
	if err := Render(&buf, f, s, meta, opts); err != nil {
		return "", fmt.Errorf("render %s: %w", f, err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
