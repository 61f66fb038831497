package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/summarizer-cli/internal/config"
	"github.com/KaramelBytes/summarizer-cli/internal/export"
	"github.com/KaramelBytes/summarizer-cli/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set summarizer configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "default_source: %s\n", c.DefaultSource)
		fmt.Fprintf(out, "default_names: %s\n", strings.Join(c.DefaultNames, ","))
		if c.OutputDir != "" {
			fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		}
		fmt.Fprintf(out, "formats: %s\n", strings.Join(c.Formats, ","))
		fmt.Fprintf(out, "float_precision: %d\n", c.FloatPrecision)
		fmt.Fprintf(out, "na_rep: %s\n", c.NaRep)
		if c.MaxRows > 0 {
			fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		}
		fmt.Fprintf(out, "html_full_page: %t\n", c.HTMLFullPage)
		if c.HTMLCSS != "" {
			fmt.Fprintf(out, "html_css: %s\n", c.HTMLCSS)
		}
		fmt.Fprintf(out, "sheet_name: %s\n", c.SheetName)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", c.HTTPTimeoutSec)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "batch_jobs: %d\n", c.BatchJobs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "default_source":
		c.DefaultSource = val
	case "default_names":
		c.DefaultNames = splitList(val)
	case "output_dir":
		c.OutputDir = val
	case "formats":
		formats := splitList(val)
		for _, f := range formats {
			if _, err := export.ParseFormat(f); err != nil {
				return err
			}
		}
		c.Formats = formats
	case "float_precision":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for float_precision: %v", val)
		}
		c.FloatPrecision = i
	case "na_rep":
		c.NaRep = val
	case "max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for max_rows: %v", val)
		}
		c.MaxRows = i
	case "html_full_page":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for html_full_page: %w", err)
		}
		c.HTMLFullPage = b
	case "html_css":
		c.HTMLCSS = val
	case "sheet_name":
		c.SheetName = val
	case "http_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
		}
		c.HTTPTimeoutSec = i
	case "log_level":
		if _, ok := logging.ParseLevel(val); !ok {
			return fmt.Errorf("invalid log_level: %s (use error|warn|info|debug|trace)", val)
		}
		c.LogLevel = strings.ToLower(val)
	case "batch_jobs":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for batch_jobs: %v", val)
		}
		c.BatchJobs = i
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func splitList(val string) []string {
	var out []string
	for _, p := range strings.Split(val, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
