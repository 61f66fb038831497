package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/summarizer-cli/internal/dataset"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	sbFormats       []string
	sbOutputDir     string
	sbNames         []string
	sbKinds         []string
	sbDelimiter     string
	sbDecimal       string
	sbThousands     string
	sbSheetName     string
	sbSheetIndex    int
	sbMaxRows       int
	sbCollectErrors bool
	sbPrecision     int
	sbJobs          int
	sbQuiet         bool
)

var summarizeBatchCmd = &cobra.Command{
	Use:   "summarize-batch <files...>",
	Short: "Summarize multiple CSV/TSV/XLSX/Parquet files with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		formats, err := resolveFormats(sbFormats, c)
		if err != nil {
			return err
		}

		opt := loadOptionsFromConfig(c)
		opt.Names = sbNames
		if opt.Delimiter, err = parseDelimiter(sbDelimiter); err != nil {
			return err
		}
		if opt.DecimalSeparator, err = parseDecimal(sbDecimal); err != nil {
			return err
		}
		if opt.ThousandsSeparator, err = parseThousands(sbThousands); err != nil {
			return err
		}
		if cmd.Flags().Changed("max-rows") {
			opt.MaxRows = sbMaxRows
		}
		opt.SheetName = sbSheetName
		opt.SheetIndex = sbSheetIndex
		if opt.Kinds, err = parseKinds(sbKinds); err != nil {
			return err
		}

		exp := exportOptionsFromConfig(c)
		if sbPrecision > 0 {
			exp.FloatPrecision = sbPrecision
		}

		outDir := sbOutputDir
		if outDir == "" {
			outDir = c.OutputDir
		}
		bases := outputBases(files, outDir)

		jobs := sbJobs
		if !cmd.Flags().Changed("jobs") {
			jobs = c.BatchJobs
		}
		if jobs < 1 {
			jobs = 1
		}

		out := &lockedWriter{w: cmd.OutOrStdout()}
		var results io.Writer = out
		if sbQuiet {
			results = io.Discard
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(jobs)
		total := len(files)
		for i, path := range files {
			if !sbQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			g.Go(func() error {
				_, err := runSummarize(ctx, summarizeJob{
					Source:        path,
					OutBase:       bases[i],
					Formats:       formats,
					Load:          opt,
					Export:        exp,
					CollectErrors: sbCollectErrors,
					Out:           results,
				})
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				return nil
			})
		}
		return g.Wait()
	},
}

// expandInputs resolves globs, keeps literal paths that exist, dedupes and sorts.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// outputBases assigns each input an output base name. Without an output dir the
// report sits next to its source; colliding names get a __N suffix.
func outputBases(files []string, outDir string) []string {
	bases := make([]string, len(files))
	used := map[string]struct{}{}
	for i, path := range files {
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(path)
		}
		base := filepath.Join(dir, dataset.TableName(path)+"_summary")
		cand := base
		for idx := 2; ; idx++ {
			if _, taken := used[cand]; !taken {
				break
			}
			cand = fmt.Sprintf("%s__%d", base, idx)
		}
		used[cand] = struct{}{}
		bases[i] = cand
	}
	return bases
}

func init() {
	rootCmd.AddCommand(summarizeBatchCmd)
	summarizeBatchCmd.Flags().StringSliceVarP(&sbFormats, "format", "f", nil, "export formats: markdown|html|spreadsheet (default from config)")
	summarizeBatchCmd.Flags().StringVar(&sbOutputDir, "output-dir", "", "directory for reports (default: next to each source, or config output_dir)")
	summarizeBatchCmd.Flags().StringSliceVar(&sbNames, "names", nil, "column names to use instead of the header row")
	summarizeBatchCmd.Flags().StringSliceVar(&sbKinds, "kind", nil, "declare a column kind: name=numeric|datetime|categorical (repeatable)")
	summarizeBatchCmd.Flags().StringVar(&sbDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe'")
	summarizeBatchCmd.Flags().StringVar(&sbDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	summarizeBatchCmd.Flags().StringVar(&sbThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	summarizeBatchCmd.Flags().StringVar(&sbSheetName, "sheet-name", "", "XLSX: sheet name to summarize")
	summarizeBatchCmd.Flags().IntVar(&sbSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	summarizeBatchCmd.Flags().IntVar(&sbMaxRows, "max-rows", 0, "maximum rows to process (0 = unlimited, overrides config)")
	summarizeBatchCmd.Flags().BoolVar(&sbCollectErrors, "collect-errors", false, "report failing columns instead of aborting")
	summarizeBatchCmd.Flags().IntVar(&sbPrecision, "precision", 0, "significant digits for floats (default from config)")
	summarizeBatchCmd.Flags().IntVarP(&sbJobs, "jobs", "j", 4, "files summarized concurrently (default from config batch_jobs)")
	summarizeBatchCmd.Flags().BoolVar(&sbQuiet, "quiet", false, "suppress progress and non-essential output")
}
