package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/summarizer-cli/internal/logging"
	"github.com/klauspost/compress/gzip"
)

// LoadOptions controls how a source is read into a Table.
type LoadOptions struct {
	// Names replaces the header row; when set, the first record is data.
	Names []string
	// Delimiter for delimited text. If 0, '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
	// Query is the SQL statement for database sources.
	Query string
	// Kinds declares column kinds by name, overriding inference.
	Kinds map[string]Kind
	// HTTPTimeout bounds remote fetches; 0 means 60s.
	HTTPTimeout time.Duration
	Logger      *logging.Logger
}

// Loader reads a table from a source (path, URL or DSN).
type Loader interface {
	CanLoad(source string) bool
	Load(ctx context.Context, source string, opt LoadOptions) (*Table, error)
}

var registry []Loader

// Register adds a loader. Earlier registrations take precedence.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupportedSource indicates no registered loader accepts the source.
var ErrUnsupportedSource = errors.New("unsupported table source")

// Load selects a loader for source and reads it.
func Load(ctx context.Context, source string, opt LoadOptions) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(source) {
			opt.Logger.With("dataset").Tracef("%T selected for %s", l, source)
			t, err := l.Load(ctx, source, opt)
			if err != nil {
				return nil, err
			}
			for name, k := range opt.Kinds {
				c, ok := t.Column(name)
				if !ok {
					return nil, fmt.Errorf("%w: kind declared for unknown column %q", ErrInvalidInput, name)
				}
				c.Type = k
			}
			opt.Logger.With("dataset").Infof("loaded %s (%d rows, %d columns)", t.Name, t.NumRows(), t.NumCols())
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
}

func init() {
	Register(sqlLoader{})
	Register(parquetLoader{})
	Register(xlsxLoader{})
	Register(csvLoader{})
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// sourceBase returns the file name of a path or URL.
func sourceBase(source string) string {
	if isURL(source) {
		if u, err := url.Parse(source); err == nil {
			return path.Base(u.Path)
		}
	}
	return filepath.Base(source)
}

// sourceExt returns the lower-case extension, looking through a trailing .gz.
func sourceExt(source string) string {
	base := strings.ToLower(sourceBase(source))
	base = strings.TrimSuffix(base, ".gz")
	return filepath.Ext(base)
}

// TableName derives a table name from a source: base name without extensions.
func TableName(source string) string {
	base := sourceBase(source)
	base = strings.TrimSuffix(base, ".gz")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		return "table"
	}
	return base
}

// openSource opens a local file or fetches a URL, transparently gunzipping .gz sources.
func openSource(ctx context.Context, source string, opt LoadOptions) (io.ReadCloser, error) {
	var rc io.ReadCloser
	if isURL(source) {
		timeout := opt.HTTPTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client := &http.Client{Timeout: timeout}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		opt.Logger.With("dataset").Debugf("fetching %s", source)
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
			resp.Body.Close()
			return nil, fmt.Errorf("fetch: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		rc = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open source: %w", err)
		}
		rc = f
	}
	if !strings.HasSuffix(strings.ToLower(sourceBase(source)), ".gz") {
		return rc, nil
	}
	zr, err := gzip.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	return &gzipReadCloser{Reader: zr, under: rc}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	under io.Closer
}

func (g *gzipReadCloser) Close() error {
	err := g.Reader.Close()
	if cerr := g.under.Close(); err == nil {
		err = cerr
	}
	return err
}

// readAllSource buffers a whole source in memory for readers that need random access.
func readAllSource(ctx context.Context, source string, opt LoadOptions) ([]byte, error) {
	rc, err := openSource(ctx, source, opt)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return b, nil
}

// tableFromRows types raw text rows column by column.
func tableFromRows(name string, header []string, rows [][]string, opt LoadOptions) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: %s has no columns", ErrEmptyData, name)
	}
	cols := make([]*Column, len(header))
	for j, h := range header {
		cells := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		colName := strings.TrimSpace(h)
		if colName == "" {
			colName = fmt.Sprintf("column_%d", j+1)
		}
		cols[j] = TypedColumn(colName, cells, opt)
	}
	return NewTable(name, cols...), nil
}
