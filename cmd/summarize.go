package cmd

import (
	"github.com/spf13/cobra"
)

var (
	sumFormats       []string
	sumOutput        string
	sumNames         []string
	sumKinds         []string
	sumDelimiter     string
	sumDecimal       string
	sumThousands     string
	sumSheetName     string
	sumSheetIndex    int
	sumMaxRows       int
	sumQuery         string
	sumCollectErrors bool
	sumHTMLFullPage  bool
	sumHTMLCSS       string
	sumHTMLTitle     string
	sumSheetTitle    string
	sumPrecision     int
	sumPrint         bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [source]",
	Short: "Summarize a table and export markdown, html, and spreadsheet reports",
	Long: `Summarize computes per-column statistics (type, min/max, mean, median, mode, zero %,
variance, std dev, IQR, coefficient of variation, unique values, date range) for a
CSV/TSV file or URL, an XLSX workbook, a Parquet file, or a postgres:// query.

Without a source the configured default_source (the iris dataset) is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		formats, err := resolveFormats(sumFormats, c)
		if err != nil {
			return err
		}

		opt := loadOptionsFromConfig(c)
		source := c.DefaultSource
		if len(args) == 1 {
			source = args[0]
		} else if !cmd.Flags().Changed("names") {
			opt.Names = c.DefaultNames
		}
		if len(sumNames) > 0 {
			opt.Names = sumNames
		}
		if opt.Delimiter, err = parseDelimiter(sumDelimiter); err != nil {
			return err
		}
		if opt.DecimalSeparator, err = parseDecimal(sumDecimal); err != nil {
			return err
		}
		if opt.ThousandsSeparator, err = parseThousands(sumThousands); err != nil {
			return err
		}
		if cmd.Flags().Changed("max-rows") {
			opt.MaxRows = sumMaxRows
		}
		opt.SheetName = sumSheetName
		opt.SheetIndex = sumSheetIndex
		opt.Query = sumQuery
		if opt.Kinds, err = parseKinds(sumKinds); err != nil {
			return err
		}

		exp := exportOptionsFromConfig(c)
		if sumPrecision > 0 {
			exp.FloatPrecision = sumPrecision
		}
		if cmd.Flags().Changed("html-full-page") {
			exp.HTML.CompletePage = sumHTMLFullPage
		}
		if sumHTMLCSS != "" {
			exp.HTML.CSS = sumHTMLCSS
			exp.HTML.CompletePage = true
		}
		exp.HTML.Title = sumHTMLTitle
		if sumSheetTitle != "" {
			exp.Spreadsheet.SheetName = sumSheetTitle
		}

		_, err = runSummarize(cmd.Context(), summarizeJob{
			Source:        source,
			OutBase:       sumOutput,
			OutDir:        c.OutputDir,
			Formats:       formats,
			Load:          opt,
			Export:        exp,
			CollectErrors: sumCollectErrors,
			Print:         sumPrint,
			Out:           cmd.OutOrStdout(),
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringSliceVarP(&sumFormats, "format", "f", nil, "export formats: markdown|html|spreadsheet (aliases md, xlsx; default from config)")
	summarizeCmd.Flags().StringVarP(&sumOutput, "output", "o", "", "output file name without extension (default <table>_summary, where a file source names its table and a query is \"query\")")
	summarizeCmd.Flags().StringSliceVar(&sumNames, "names", nil, "column names to use instead of the header row")
	summarizeCmd.Flags().StringSliceVar(&sumKinds, "kind", nil, "declare a column kind: name=numeric|datetime|categorical (repeatable)")
	summarizeCmd.Flags().StringVar(&sumDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (default by extension)")
	summarizeCmd.Flags().StringVar(&sumDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	summarizeCmd.Flags().StringVar(&sumThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	summarizeCmd.Flags().StringVar(&sumSheetName, "sheet-name", "", "XLSX: sheet name to summarize")
	summarizeCmd.Flags().IntVar(&sumSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	summarizeCmd.Flags().IntVar(&sumMaxRows, "max-rows", 0, "maximum rows to process (0 = unlimited, overrides config)")
	summarizeCmd.Flags().StringVar(&sumQuery, "query", "", "SQL query for postgres:// sources")
	summarizeCmd.Flags().BoolVar(&sumCollectErrors, "collect-errors", false, "report failing columns instead of aborting")
	summarizeCmd.Flags().BoolVar(&sumHTMLFullPage, "html-full-page", false, "HTML: write a complete page instead of a fragment")
	summarizeCmd.Flags().StringVar(&sumHTMLCSS, "html-css", "", "HTML: stylesheet href (implies --html-full-page)")
	summarizeCmd.Flags().StringVar(&sumHTMLTitle, "html-title", "", "HTML: page title (default 'Summary of <source>')")
	summarizeCmd.Flags().StringVar(&sumSheetTitle, "sheet-title", "", "spreadsheet: output sheet name (default from config)")
	summarizeCmd.Flags().IntVar(&sumPrecision, "precision", 0, "significant digits for floats (default from config)")
	summarizeCmd.Flags().BoolVar(&sumPrint, "print", false, "also print the markdown summary to stdout")
}
