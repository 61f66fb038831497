package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	cfgpkg "github.com/KaramelBytes/summarizer-cli/internal/config"
	"github.com/KaramelBytes/summarizer-cli/internal/dataset"
	"github.com/KaramelBytes/summarizer-cli/internal/export"
	"github.com/KaramelBytes/summarizer-cli/internal/logging"
	"github.com/KaramelBytes/summarizer-cli/internal/summarizer"
)

// summarizeJob is one source summarized into one or more export files.
type summarizeJob struct {
	Source  string
	OutBase string
	// OutDir holds the default report when OutBase is empty; the file is
	// named after the loaded table.
	OutDir        string
	Formats       []string
	Load          dataset.LoadOptions
	Export        export.Options
	CollectErrors bool
	Print         bool
	Out           io.Writer
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case "":
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", s)
}

func parseThousands(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",":
		return ',', nil
	case ".":
		return '.', nil
	case "space", " ":
		return ' ', nil
	case "":
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", s)
}

// parseKinds turns name=kind pairs into declared column kinds.
func parseKinds(pairs []string) (map[string]dataset.Kind, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	kinds := make(map[string]dataset.Kind, len(pairs))
	for _, p := range pairs {
		name, kind, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		k := dataset.ParseKind(strings.ToLower(strings.TrimSpace(kind)))
		if !ok || name == "" || k == dataset.KindUnknown {
			return nil, fmt.Errorf("invalid --kind %q (use column=numeric|datetime|categorical)", p)
		}
		kinds[name] = k
	}
	return kinds, nil
}

// resolveFormats validates requested formats, falling back to the configured list.
func resolveFormats(requested []string, c *cfgpkg.Global) ([]string, error) {
	formats := requested
	if len(formats) == 0 {
		formats = c.Formats
	}
	seen := map[export.Format]struct{}{}
	var out []string
	for _, f := range formats {
		parsed, err := export.ParseFormat(f)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[parsed]; dup {
			continue
		}
		seen[parsed] = struct{}{}
		out = append(out, string(parsed))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no export formats selected")
	}
	return out, nil
}

// exportOptionsFromConfig builds renderer options from config; flags override afterwards.
func exportOptionsFromConfig(c *cfgpkg.Global) export.Options {
	opts := export.DefaultOptions()
	if c.FloatPrecision > 0 {
		opts.FloatPrecision = c.FloatPrecision
	}
	if c.NaRep != "" {
		opts.NaRep = c.NaRep
	}
	opts.HTML.CompletePage = c.HTMLFullPage
	opts.HTML.CSS = c.HTMLCSS
	if c.SheetName != "" {
		opts.Spreadsheet.SheetName = c.SheetName
	}
	return opts
}

func loadOptionsFromConfig(c *cfgpkg.Global) dataset.LoadOptions {
	return dataset.LoadOptions{
		MaxRows:     c.MaxRows,
		HTTPTimeout: time.Duration(c.HTTPTimeoutSec) * time.Second,
		Logger:      logging.Default(),
	}
}

// runSummarize loads the source, summarizes it, and writes every requested format.
func runSummarize(ctx context.Context, job summarizeJob) ([]string, error) {
	tbl, err := dataset.Load(ctx, job.Source, job.Load)
	if err != nil {
		return nil, err
	}
	s, err := summarizer.New(tbl,
		summarizer.WithOutput(job.Out),
		summarizer.WithLogger(logging.Default()),
		summarizer.WithCollectErrors(job.CollectErrors),
	)
	if err != nil {
		return nil, err
	}

	if job.Print || job.CollectErrors {
		sum, err := s.GenerateSummary()
		if err != nil {
			return nil, err
		}
		for _, e := range sum.Errors() {
			fmt.Fprintf(job.Out, "⚠ Warning: %v\n", e)
		}
		if job.Print {
			if err := export.Render(job.Out, export.FormatMarkdown, sum, export.Meta{Source: tbl.Name}, job.Export); err != nil {
				return nil, err
			}
		}
	}

	outBase := job.OutBase
	if outBase == "" {
		outBase = filepath.Join(job.OutDir, tbl.Name+"_summary")
	}
	var paths []string
	for _, f := range job.Formats {
		path, err := s.ExportSummary(f, outBase, job.Export)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// lockedWriter serializes writes from concurrent batch workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
